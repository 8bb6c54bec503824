package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/avstream/media_access_app/internal/core/ports/services"
	"github.com/avstream/media_access_app/internal/dto"
	"github.com/avstream/media_access_app/internal/middleware"
)

// MediaObjectHandler handles HTTP requests for media objects, master files
// and the delivery authorization decisions evaluated against them.
type MediaObjectHandler struct {
	mediaSvc   portssvc.MediaObjectSvc
	abilitySvc portssvc.AbilitySvc
}

// NewMediaObjectHandler creates a new MediaObjectHandler.
func NewMediaObjectHandler(mediaSvc portssvc.MediaObjectSvc, abilitySvc portssvc.AbilitySvc) *MediaObjectHandler {
	return &MediaObjectHandler{
		mediaSvc:   mediaSvc,
		abilitySvc: abilitySvc,
	}
}

// registerMediaObjectRoutes registers the authenticated media object routes.
func registerMediaObjectRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := NewMediaObjectHandler(services.MediaObject, services.Ability)

	mediaObjects := rg.Group("/media-objects")
	{
		mediaObjects.POST("", h.CreateMediaObject)
		mediaObjects.GET("/:id", h.GetMediaObject)
		mediaObjects.PUT("/:id/publish", h.SetPublished)
		mediaObjects.POST("/:id/master-files", h.CreateMasterFile)
	}
}

// registerDeliveryRoutes registers the public decision endpoints. They run
// with optional authentication: an anonymous request carrying an access token
// must be evaluable.
func registerDeliveryRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := NewMediaObjectHandler(services.MediaObject, services.Ability)

	rg.GET("/media-objects/:id/stream", h.StreamDecision)
	rg.GET("/master-files/:id/download", h.DownloadDecision)
}

// CreateMediaObject godoc
// @Summary Register a media object
// @Tags media-objects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateMediaObjectRequest true "Media object details"
// @Success 201 {object} dto.MediaObjectResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /media-objects [post]
func (h *MediaObjectHandler) CreateMediaObject(c *gin.Context) {
	actx := middleware.GetAccessContext(c)
	if actx.User == nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	var req dto.CreateMediaObjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	mediaObject, err := h.mediaSvc.CreateMediaObject(c.Request.Context(), req, actx.User)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToMediaObjectResponse(mediaObject, true))
}

// GetMediaObject godoc
// @Summary Get a media object
// @Description Returns the media object when the caller holds read access. Read-group details are included only for callers with full read access.
// @Tags media-objects
// @Produce json
// @Security BearerAuth
// @Param id path string true "Media object ID"
// @Success 200 {object} dto.MediaObjectResponse
// @Failure 404 {object} ErrorResponse
// @Router /media-objects/{id} [get]
func (h *MediaObjectHandler) GetMediaObject(c *gin.Context) {
	actx := middleware.GetAccessContext(c)

	mediaObject, err := h.mediaSvc.GetMediaObjectByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if !h.abilitySvc.Can(c.Request.Context(), actx, portssvc.ActionRead, mediaObject) {
		// Unreadable and nonexistent are indistinguishable.
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
		return
	}

	includeReadGroups := h.abilitySvc.Can(c.Request.Context(), actx, portssvc.ActionFullRead, mediaObject)
	c.JSON(http.StatusOK, dto.ToMediaObjectResponse(mediaObject, includeReadGroups))
}

// SetPublished godoc
// @Summary Publish or unpublish a media object
// @Tags media-objects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Media object ID"
// @Param request body dto.SetPublishedRequest true "Publication state"
// @Success 200 {object} dto.MediaObjectResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /media-objects/{id}/publish [put]
func (h *MediaObjectHandler) SetPublished(c *gin.Context) {
	actx := middleware.GetAccessContext(c)
	if actx.User == nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	var req dto.SetPublishedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	mediaObject, err := h.mediaSvc.SetPublished(c.Request.Context(), c.Param("id"), *req.Published, actx.User)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToMediaObjectResponse(mediaObject, true))
}

// CreateMasterFile godoc
// @Summary Register a master file under a media object
// @Tags media-objects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Media object ID"
// @Param request body dto.CreateMasterFileRequest true "Master file details"
// @Success 201 {object} dto.MasterFileResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /media-objects/{id}/master-files [post]
func (h *MediaObjectHandler) CreateMasterFile(c *gin.Context) {
	actx := middleware.GetAccessContext(c)
	if actx.User == nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	var req dto.CreateMasterFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}
	req.MediaObjectID = c.Param("id")

	masterFile, err := h.mediaSvc.CreateMasterFile(c.Request.Context(), req, actx.User)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToMasterFileResponse(masterFile))
}

// StreamDecision godoc
// @Summary Evaluate streaming access
// @Description Reports whether the caller may stream the media object. Works anonymously: an active streaming token in the access_token query parameter (or X-Access-Token header) grants access to the published object it targets.
// @Tags delivery
// @Produce json
// @Param id path string true "Media object ID"
// @Param access_token query string false "Media access token"
// @Success 200 {object} dto.AccessDecisionResponse
// @Failure 404 {object} ErrorResponse
// @Router /media-objects/{id}/stream [get]
func (h *MediaObjectHandler) StreamDecision(c *gin.Context) {
	actx := middleware.GetAccessContext(c)

	mediaObject, err := h.mediaSvc.GetMediaObjectByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	allowed := h.abilitySvc.Can(c.Request.Context(), actx, portssvc.ActionStream, mediaObject)
	c.JSON(http.StatusOK, dto.AccessDecisionResponse{
		Allowed: allowed,
		Action:  string(portssvc.ActionStream),
	})
}

// DownloadDecision godoc
// @Summary Evaluate master file download access
// @Description Reports whether the caller may download the master file. Collection members qualify, as do holders of an active download token for the parent media object.
// @Tags delivery
// @Produce json
// @Param id path string true "Master file ID"
// @Param access_token query string false "Media access token"
// @Success 200 {object} dto.AccessDecisionResponse
// @Failure 404 {object} ErrorResponse
// @Router /master-files/{id}/download [get]
func (h *MediaObjectHandler) DownloadDecision(c *gin.Context) {
	actx := middleware.GetAccessContext(c)

	masterFile, err := h.mediaSvc.GetMasterFileByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	allowed := h.abilitySvc.Can(c.Request.Context(), actx, portssvc.ActionMasterFileDownload, masterFile)
	c.JSON(http.StatusOK, dto.AccessDecisionResponse{
		Allowed: allowed,
		Action:  string(portssvc.ActionMasterFileDownload),
	})
}

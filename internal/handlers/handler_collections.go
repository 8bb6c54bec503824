package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/avstream/media_access_app/internal/core/ports/services"
	"github.com/avstream/media_access_app/internal/dto"
	"github.com/avstream/media_access_app/internal/middleware"
)

// CollectionHandler handles HTTP requests for collections.
type CollectionHandler struct {
	collectionSvc portssvc.CollectionSvc
}

// NewCollectionHandler creates a new CollectionHandler.
func NewCollectionHandler(collectionSvc portssvc.CollectionSvc) *CollectionHandler {
	return &CollectionHandler{collectionSvc: collectionSvc}
}

// registerCollectionRoutes registers the collection routes.
func registerCollectionRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := NewCollectionHandler(services.Collection)

	collections := rg.Group("/collections")
	{
		collections.POST("", h.CreateCollection)
		collections.GET("/:id", h.GetCollection)
	}
}

// CreateCollection godoc
// @Summary Register a collection
// @Description Creates a collection with its manager, editor and depositor lists. The creator is always added as a manager.
// @Tags collections
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateCollectionRequest true "Collection details"
// @Success 201 {object} dto.CollectionResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /collections [post]
func (h *CollectionHandler) CreateCollection(c *gin.Context) {
	actx := middleware.GetAccessContext(c)
	if actx.User == nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	var req dto.CreateCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	collection, err := h.collectionSvc.CreateCollection(c.Request.Context(), req, actx.User)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToCollectionResponse(collection))
}

// GetCollection godoc
// @Summary Get a collection
// @Tags collections
// @Produce json
// @Security BearerAuth
// @Param id path string true "Collection ID"
// @Success 200 {object} dto.CollectionResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /collections/{id} [get]
func (h *CollectionHandler) GetCollection(c *gin.Context) {
	actx := middleware.GetAccessContext(c)
	if actx.User == nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	collection, err := h.collectionSvc.GetCollectionByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToCollectionResponse(collection))
}

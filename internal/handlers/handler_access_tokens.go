package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avstream/media_access_app/internal/core/domain"
	portssvc "github.com/avstream/media_access_app/internal/core/ports/services"
	"github.com/avstream/media_access_app/internal/dto"
	"github.com/avstream/media_access_app/internal/middleware"
)

// AccessTokenHandler handles HTTP requests for media access token operations.
type AccessTokenHandler struct {
	tokenSvc   portssvc.AccessTokenSvc
	abilitySvc portssvc.AbilitySvc
	cleanupSvc portssvc.CleanupSvc
}

// NewAccessTokenHandler creates a new AccessTokenHandler.
func NewAccessTokenHandler(
	tokenSvc portssvc.AccessTokenSvc,
	abilitySvc portssvc.AbilitySvc,
	cleanupSvc portssvc.CleanupSvc,
) *AccessTokenHandler {
	return &AccessTokenHandler{
		tokenSvc:   tokenSvc,
		abilitySvc: abilitySvc,
		cleanupSvc: cleanupSvc,
	}
}

// registerAccessTokenRoutes registers the access token routes.
func registerAccessTokenRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := NewAccessTokenHandler(services.AccessToken, services.Ability, services.Cleanup)

	tokens := rg.Group("/access-tokens")
	{
		tokens.POST("", h.CreateAccessToken)
		tokens.GET("", h.ListAccessTokens)
		tokens.GET("/:id", h.GetAccessToken)
		tokens.PATCH("/:id", h.UpdateAccessToken)
		tokens.DELETE("/:id", h.RevokeAccessToken)
		tokens.POST("/sweep", h.Sweep)
	}
}

// CreateAccessToken godoc
// @Summary Mint a new access token
// @Description Creates a time-limited access token granting streaming and/or download on a media object.
// @Tags access-tokens
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateAccessTokenRequest true "Token details"
// @Success 201 {object} dto.AccessTokenResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 422 {object} ValidationErrorResponse
// @Router /access-tokens [post]
func (h *AccessTokenHandler) CreateAccessToken(c *gin.Context) {
	actx := middleware.GetAccessContext(c)
	if actx.User == nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	var req dto.CreateAccessTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	// The prototype token carries the target so the ability rules can resolve
	// the owning collection.
	prototype := &domain.AccessToken{MediaObjectID: req.MediaObjectID}
	if !h.abilitySvc.Can(c.Request.Context(), actx, portssvc.ActionCreateToken, prototype) {
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "forbidden"})
		return
	}

	token, err := h.tokenSvc.CreateAccessToken(c.Request.Context(), req, actx.User)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToAccessTokenResponse(token))
}

// ListAccessTokens godoc
// @Summary List access tokens
// @Description Lists tokens filtered by status (active, expired, revoked, all). Administrators see every token; other users see tokens for collections they manage or edit.
// @Tags access-tokens
// @Produce json
// @Security BearerAuth
// @Param status query string false "Status filter" default(active)
// @Param pageSize query int false "Page size" default(20)
// @Param pageToken query string false "Cursor from a previous page"
// @Success 200 {object} dto.ListAccessTokensResponse
// @Failure 401 {object} ErrorResponse
// @Router /access-tokens [get]
func (h *AccessTokenHandler) ListAccessTokens(c *gin.Context) {
	actx := middleware.GetAccessContext(c)
	if actx.User == nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	var req dto.ListAccessTokensRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}
	if !domain.ValidStatusFilter(domain.TokenStatus(req.Status)) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid status filter"})
		return
	}
	if !actx.FullLogin && !actx.APILogin {
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "forbidden"})
		return
	}

	page, err := h.tokenSvc.ListAccessTokens(c.Request.Context(), req, actx.User)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// GetAccessToken godoc
// @Summary Get an access token
// @Tags access-tokens
// @Produce json
// @Security BearerAuth
// @Param id path string true "Access token ID"
// @Success 200 {object} dto.AccessTokenResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /access-tokens/{id} [get]
func (h *AccessTokenHandler) GetAccessToken(c *gin.Context) {
	actx := middleware.GetAccessContext(c)
	if actx.User == nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	token, err := h.tokenSvc.GetAccessTokenByID(c.Request.Context(), c.Param("id"), actx.User)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToAccessTokenResponse(token))
}

// UpdateAccessToken godoc
// @Summary Update an access token
// @Description Updates description, access mode or revocation. The expiration of a persisted token never changes; attempted changes are ignored.
// @Tags access-tokens
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Access token ID"
// @Param request body dto.UpdateAccessTokenRequest true "Fields to update"
// @Success 200 {object} dto.AccessTokenResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /access-tokens/{id} [patch]
func (h *AccessTokenHandler) UpdateAccessToken(c *gin.Context) {
	actx := middleware.GetAccessContext(c)
	if actx.User == nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	var req dto.UpdateAccessTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	existing, err := h.tokenSvc.GetAccessTokenByID(c.Request.Context(), c.Param("id"), actx.User)
	if err != nil {
		respondError(c, err)
		return
	}
	if !h.abilitySvc.Can(c.Request.Context(), actx, portssvc.ActionUpdateToken, existing) {
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "forbidden"})
		return
	}

	token, err := h.tokenSvc.UpdateAccessToken(c.Request.Context(), c.Param("id"), req, actx.User)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToAccessTokenResponse(token))
}

// RevokeAccessToken godoc
// @Summary Revoke an access token
// @Description Marks the token revoked and removes its read-group grant from the media object.
// @Tags access-tokens
// @Produce json
// @Security BearerAuth
// @Param id path string true "Access token ID"
// @Success 200 {object} dto.AccessTokenResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /access-tokens/{id} [delete]
func (h *AccessTokenHandler) RevokeAccessToken(c *gin.Context) {
	actx := middleware.GetAccessContext(c)
	if actx.User == nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	existing, err := h.tokenSvc.GetAccessTokenByID(c.Request.Context(), c.Param("id"), actx.User)
	if err != nil {
		respondError(c, err)
		return
	}
	if !h.abilitySvc.Can(c.Request.Context(), actx, portssvc.ActionUpdateToken, existing) {
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "forbidden"})
		return
	}

	token, err := h.tokenSvc.RevokeAccessToken(c.Request.Context(), c.Param("id"), actx.User)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToAccessTokenResponse(token))
}

// Sweep godoc
// @Summary Trigger a cleanup sweep
// @Description Expires every token past its expiration and removes the read-group grants. Administrators only; the same sweep also runs on a schedule.
// @Tags access-tokens
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.SweepResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /access-tokens/sweep [post]
func (h *AccessTokenHandler) Sweep(c *gin.Context) {
	actx := middleware.GetAccessContext(c)
	if actx.User == nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}
	if !actx.User.IsAdministrator() {
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "forbidden"})
		return
	}

	result := h.cleanupSvc.Sweep(c.Request.Context())
	c.JSON(http.StatusOK, dto.SweepResponse{Processed: result.Processed, Failed: result.Failed})
}

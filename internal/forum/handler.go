// File: internal/forum/handler.go
package forum

import (
	"errors"
	"strings"

	"dentalhub_backend/internal/common"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for forum handlers.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new forum handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes sets up the routes for forum operations.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc) {
	forumGroup := router.Group("/forum/threads")
	{
		forumGroup.GET("", h.listApproved)

		authed := forumGroup.Group("")
		authed.Use(authMW)
		{
			authed.POST("", h.create)
			authed.GET("/mine", h.listMine)
			authed.PUT("/:id", h.update)
			authed.DELETE("/:id", h.delete)
		}

		forumGroup.GET("/:id", optionalAuth(authMW), h.get)
	}
}

// optionalAuth runs the auth middleware only when credentials are present,
// so owners see their pending threads while anonymous readers are not
// rejected.
func optionalAuth(authMW gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if common.GetTokenFromContext(c) == "" {
			c.Next()
			return
		}
		authMW(c)
	}
}

func (h *Handler) create(c *gin.Context) {
	ownerID := common.GetUserIDFromContext(c)
	if ownerID == uuid.Nil {
		common.RespondWithError(c, common.ErrUnauthorized.WithDetails("User ID not found in token."))
		return
	}

	var req CreateThreadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Create thread: invalid request body", zap.Error(err))
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	thread, err := h.service.CreateThread(c.Request.Context(), ownerID, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Thread submitted for review.", ToThreadResponse(thread))
}

func (h *Handler) update(c *gin.Context) {
	ownerID := common.GetUserIDFromContext(c)
	threadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid thread ID format."))
		return
	}

	var req UpdateThreadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	thread, err := h.service.UpdateThread(c.Request.Context(), threadID, ownerID, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Thread updated and resubmitted for review.", ToThreadResponse(thread))
}

func (h *Handler) delete(c *gin.Context) {
	ownerID := common.GetUserIDFromContext(c)
	threadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid thread ID format."))
		return
	}

	if err := h.service.DeleteThread(c.Request.Context(), threadID, ownerID); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondNoContent(c)
}

func (h *Handler) get(c *gin.Context) {
	if c.IsAborted() {
		return
	}
	threadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid thread ID format."))
		return
	}
	viewerID := common.GetUserIDFromContext(c)
	viewerRole := common.GetUserRoleFromContext(c)

	thread, err := h.service.GetThread(c.Request.Context(), threadID, viewerID, viewerRole)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Thread retrieved successfully.", ToThreadResponse(thread))
}

func (h *Handler) listApproved(c *gin.Context) {
	page, pageSize := common.GetPaginationParams(c)
	topic := strings.TrimSpace(c.Query("topic"))

	threads, pagination, err := h.service.ListApproved(c.Request.Context(), topic, page, pageSize)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondPaginated(c, "Threads retrieved successfully.", threads, pagination)
}

func (h *Handler) listMine(c *gin.Context) {
	ownerID := common.GetUserIDFromContext(c)
	if ownerID == uuid.Nil {
		common.RespondWithError(c, common.ErrUnauthorized.WithDetails("User ID not found in token."))
		return
	}
	page, pageSize := common.GetPaginationParams(c)

	threads, pagination, err := h.service.ListMine(c.Request.Context(), ownerID, page, pageSize)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondPaginated(c, "Threads retrieved successfully.", threads, pagination)
}

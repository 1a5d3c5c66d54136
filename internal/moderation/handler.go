// File: internal/moderation/handler.go
package moderation

import (
	"errors"
	"io"

	"dentalhub_backend/internal/common"
	"dentalhub_backend/internal/content"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler exposes the admin moderation endpoints.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new moderation handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// DecisionRequest is the body for approve, reject and remove calls. Version
// pins the decision to the item revision the admin reviewed; when omitted
// the decision applies to the current revision.
type DecisionRequest struct {
	Version *int64 `json:"version,omitempty"`
	Reason  string `json:"reason,omitempty" binding:"omitempty,max=2000"`
}

// RegisterRoutes sets up the admin moderation routes. The caller wires in
// the authentication and admin-role middlewares.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW, adminMW gin.HandlerFunc) {
	adminGroup := router.Group("/admin")
	adminGroup.Use(authMW, adminMW)
	{
		adminGroup.POST("/:kind/:id/approve", h.approve)
		adminGroup.POST("/:kind/:id/reject", h.reject)
		adminGroup.DELETE("/:kind/:id", h.remove)
	}
}

func (h *Handler) approve(c *gin.Context) {
	kind, itemID, req, ok := h.parseDecision(c)
	if !ok {
		return
	}
	adminID := common.GetUserIDFromContext(c)

	item, err := h.service.Approve(c.Request.Context(), kind, itemID, req.Version, adminID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Item approved successfully.", gin.H{
		"id":      item.ID,
		"kind":    item.Kind,
		"status":  item.Status,
		"version": item.Version,
	})
}

func (h *Handler) reject(c *gin.Context) {
	kind, itemID, req, ok := h.parseDecision(c)
	if !ok {
		return
	}
	adminID := common.GetUserIDFromContext(c)

	item, err := h.service.Reject(c.Request.Context(), kind, itemID, req.Version, req.Reason, adminID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Item rejected successfully.", gin.H{
		"id":      item.ID,
		"kind":    item.Kind,
		"status":  item.Status,
		"version": item.Version,
	})
}

func (h *Handler) remove(c *gin.Context) {
	kind, itemID, req, ok := h.parseDecision(c)
	if !ok {
		return
	}
	adminID := common.GetUserIDFromContext(c)

	err := h.service.Remove(c.Request.Context(), kind, itemID, req.Version, req.Reason, adminID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondNoContent(c)
}

// parseDecision validates the path and body shared by all decision routes.
func (h *Handler) parseDecision(c *gin.Context) (content.Kind, uuid.UUID, DecisionRequest, bool) {
	var req DecisionRequest

	kind := content.Kind(c.Param("kind"))
	if !kind.IsValid() {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Unknown content kind."))
		return kind, uuid.Nil, req, false
	}

	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid item ID format."))
		return kind, uuid.Nil, req, false
	}

	// The body is optional; approve needs neither version nor reason.
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Warn("Moderation decision: invalid request body", zap.Error(err))
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return kind, uuid.Nil, req, false
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return kind, uuid.Nil, req, false
	}

	return kind, itemID, req, true
}

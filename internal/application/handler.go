// File: internal/application/handler.go
package application

import (
	"errors"

	"dentalhub_backend/internal/common"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for application handlers.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new professor application handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes sets up the routes for professor verification operations.
// The pending queue is admin-only; submission and history require auth.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW, adminMW gin.HandlerFunc) {
	appGroup := router.Group("/applications")
	appGroup.Use(authMW)
	{
		appGroup.POST("", h.submit)
		appGroup.GET("/mine", h.listMine)
		appGroup.GET("/pending", adminMW, h.listPending)
	}
}

func (h *Handler) submit(c *gin.Context) {
	applicantID := common.GetUserIDFromContext(c)
	if applicantID == uuid.Nil {
		common.RespondWithError(c, common.ErrUnauthorized.WithDetails("User ID not found in token."))
		return
	}

	var req SubmitApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Submit application: invalid request body", zap.Error(err))
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	application, err := h.service.Submit(c.Request.Context(), applicantID, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Application submitted for review.", ToApplicationResponse(application))
}

func (h *Handler) listMine(c *gin.Context) {
	applicantID := common.GetUserIDFromContext(c)
	if applicantID == uuid.Nil {
		common.RespondWithError(c, common.ErrUnauthorized.WithDetails("User ID not found in token."))
		return
	}
	page, pageSize := common.GetPaginationParams(c)

	applications, pagination, err := h.service.ListMine(c.Request.Context(), applicantID, page, pageSize)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondPaginated(c, "Applications retrieved successfully.", applications, pagination)
}

func (h *Handler) listPending(c *gin.Context) {
	page, pageSize := common.GetPaginationParams(c)

	applications, pagination, err := h.service.ListPending(c.Request.Context(), page, pageSize)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondPaginated(c, "Pending applications retrieved successfully.", applications, pagination)
}

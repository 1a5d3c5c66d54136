// File: internal/job/handler.go
package job

import (
	"errors"

	"dentalhub_backend/internal/common"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for job board handlers.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new job board handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes sets up the routes for job board operations.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc) {
	jobGroup := router.Group("/jobs")
	{
		jobGroup.GET("", h.listOpen)

		authed := jobGroup.Group("")
		authed.Use(authMW)
		{
			authed.POST("", h.create)
			authed.GET("/mine", h.listMine)
			authed.PUT("/:id", h.update)
			authed.DELETE("/:id", h.delete)
		}
	}
}

func (h *Handler) create(c *gin.Context) {
	ownerID := common.GetUserIDFromContext(c)
	if ownerID == uuid.Nil {
		common.RespondWithError(c, common.ErrUnauthorized.WithDetails("User ID not found in token."))
		return
	}

	var req CreatePostingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Create job posting: invalid request body", zap.Error(err))
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	posting, err := h.service.CreatePosting(c.Request.Context(), ownerID, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Job posting submitted for review.", ToPostingResponse(posting))
}

func (h *Handler) update(c *gin.Context) {
	ownerID := common.GetUserIDFromContext(c)
	postingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid job posting ID format."))
		return
	}

	var req UpdatePostingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	posting, err := h.service.UpdatePosting(c.Request.Context(), postingID, ownerID, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Job posting updated and resubmitted for review.", ToPostingResponse(posting))
}

func (h *Handler) delete(c *gin.Context) {
	ownerID := common.GetUserIDFromContext(c)
	postingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid job posting ID format."))
		return
	}

	if err := h.service.DeletePosting(c.Request.Context(), postingID, ownerID); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondNoContent(c)
}

func (h *Handler) listOpen(c *gin.Context) {
	page, pageSize := common.GetPaginationParams(c)

	postings, pagination, err := h.service.ListOpen(c.Request.Context(), page, pageSize)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondPaginated(c, "Job postings retrieved successfully.", postings, pagination)
}

func (h *Handler) listMine(c *gin.Context) {
	ownerID := common.GetUserIDFromContext(c)
	if ownerID == uuid.Nil {
		common.RespondWithError(c, common.ErrUnauthorized.WithDetails("User ID not found in token."))
		return
	}
	page, pageSize := common.GetPaginationParams(c)

	postings, pagination, err := h.service.ListMine(c.Request.Context(), ownerID, page, pageSize)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondPaginated(c, "Job postings retrieved successfully.", postings, pagination)
}

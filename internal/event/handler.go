// File: internal/event/handler.go
package event

import (
	"errors"

	"dentalhub_backend/internal/common"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for event handlers.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new event handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes sets up the routes for event operations.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc) {
	eventGroup := router.Group("/events")
	{
		eventGroup.GET("", h.listUpcoming)

		authed := eventGroup.Group("")
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

	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Create event: invalid request body", zap.Error(err))
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	event, err := h.service.CreateEvent(c.Request.Context(), ownerID, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Event submitted for review.", ToEventResponse(event))
}

func (h *Handler) update(c *gin.Context) {
	ownerID := common.GetUserIDFromContext(c)
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid event ID format."))
		return
	}

	var req UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	event, err := h.service.UpdateEvent(c.Request.Context(), eventID, ownerID, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Event updated and resubmitted for review.", ToEventResponse(event))
}

func (h *Handler) delete(c *gin.Context) {
	ownerID := common.GetUserIDFromContext(c)
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid event ID format."))
		return
	}

	if err := h.service.DeleteEvent(c.Request.Context(), eventID, ownerID); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondNoContent(c)
}

func (h *Handler) listUpcoming(c *gin.Context) {
	page, pageSize := common.GetPaginationParams(c)

	events, pagination, err := h.service.ListUpcoming(c.Request.Context(), page, pageSize)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondPaginated(c, "Events retrieved successfully.", events, pagination)
}

func (h *Handler) listMine(c *gin.Context) {
	ownerID := common.GetUserIDFromContext(c)
	if ownerID == uuid.Nil {
		common.RespondWithError(c, common.ErrUnauthorized.WithDetails("User ID not found in token."))
		return
	}
	page, pageSize := common.GetPaginationParams(c)

	events, pagination, err := h.service.ListMine(c.Request.Context(), ownerID, page, pageSize)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondPaginated(c, "Events retrieved successfully.", events, pagination)
}

// File: internal/article/handler.go
package article

import (
	"errors"
	"strings"

	"dentalhub_backend/internal/common"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for article handlers.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new article handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes sets up the routes for article operations.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc) {
	articleGroup := router.Group("/articles")
	{
		articleGroup.GET("", h.listApproved)
		articleGroup.GET("/search", h.search)

		authed := articleGroup.Group("")
		authed.Use(authMW)
		{
			authed.POST("", h.create)
			authed.GET("/mine", h.listMine)
			authed.PUT("/:id", h.update)
			authed.DELETE("/:id", h.delete)
		}

		// Slug lookup comes last so /search and /mine are not shadowed.
		articleGroup.GET("/:slug", optionalAuth(authMW), h.getBySlug)
	}
}

// optionalAuth runs the auth middleware only when credentials are present,
// so owners see their pending articles while anonymous readers are not
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

	var req CreateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Create article: invalid request body", zap.Error(err))
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	article, err := h.service.CreateArticle(c.Request.Context(), ownerID, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Article submitted for review.", ToArticleResponse(article))
}

func (h *Handler) update(c *gin.Context) {
	ownerID := common.GetUserIDFromContext(c)
	articleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid article ID format."))
		return
	}

	var req UpdateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	article, err := h.service.UpdateArticle(c.Request.Context(), articleID, ownerID, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Article updated and resubmitted for review.", ToArticleResponse(article))
}

func (h *Handler) delete(c *gin.Context) {
	ownerID := common.GetUserIDFromContext(c)
	articleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid article ID format."))
		return
	}

	if err := h.service.DeleteArticle(c.Request.Context(), articleID, ownerID); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondNoContent(c)
}

func (h *Handler) getBySlug(c *gin.Context) {
	if c.IsAborted() {
		return
	}
	viewerID := common.GetUserIDFromContext(c)
	viewerRole := common.GetUserRoleFromContext(c)

	article, err := h.service.GetArticleBySlug(c.Request.Context(), c.Param("slug"), viewerID, viewerRole)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Article retrieved successfully.", ToArticleResponse(article))
}

func (h *Handler) listApproved(c *gin.Context) {
	page, pageSize := common.GetPaginationParams(c)
	tag := strings.TrimSpace(c.Query("tag"))

	articles, pagination, err := h.service.ListApproved(c.Request.Context(), tag, page, pageSize)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondPaginated(c, "Articles retrieved successfully.", articles, pagination)
}

func (h *Handler) listMine(c *gin.Context) {
	ownerID := common.GetUserIDFromContext(c)
	if ownerID == uuid.Nil {
		common.RespondWithError(c, common.ErrUnauthorized.WithDetails("User ID not found in token."))
		return
	}
	page, pageSize := common.GetPaginationParams(c)

	articles, pagination, err := h.service.ListMine(c.Request.Context(), ownerID, page, pageSize)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondPaginated(c, "Articles retrieved successfully.", articles, pagination)
}

func (h *Handler) search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Query parameter 'q' is required."))
		return
	}
	page, pageSize := common.GetPaginationParams(c)

	articles, pagination, err := h.service.SearchArticles(c.Request.Context(), query, page, pageSize)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondPaginated(c, "Search results retrieved successfully.", articles, pagination)
}

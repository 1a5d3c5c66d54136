// File: internal/article/service.go
package article

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"dentalhub_backend/internal/common"
	"dentalhub_backend/internal/content"
	"dentalhub_backend/internal/moderation"
	"dentalhub_backend/internal/platform/search"

	"github.com/codeGROOVE-dev/retry"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"go.uber.org/zap"
)

// Service implements the article business logic. Writes always land in
// pending state; the search index only ever sees approved articles and is
// maintained by the moderation decision hook.
type Service struct {
	repo     Repository
	esClient *search.ESClientWrapper
	logger   *zap.Logger
}

// NewService creates a new article service.
func NewService(repo Repository, esClient *search.ESClientWrapper, logger *zap.Logger) *Service {
	return &Service{
		repo:     repo,
		esClient: esClient,
		logger:   logger,
	}
}

// CreateArticle creates a pending article for the given owner.
func (s *Service) CreateArticle(ctx context.Context, ownerID uuid.UUID, req CreateArticleRequest) (*Article, error) {
	articleSlug, err := s.uniqueSlug(ctx, req.Title)
	if err != nil {
		s.logger.Error("Failed to derive article slug", zap.Error(err))
		return nil, common.ErrInternalServer.WithDetails("Could not create article.")
	}

	article := &Article{
		OwnerID: ownerID,
		Title:   req.Title,
		Slug:    articleSlug,
		Summary: req.Summary,
		Body:    req.Body,
		Tags:    req.Tags,
		Status:  content.StatusPending,
		Version: 1,
	}
	if err := s.repo.Create(ctx, article); err != nil {
		if _, ok := common.IsAPIError(err); ok {
			return nil, err
		}
		s.logger.Error("Failed to create article", zap.Error(err))
		return nil, common.ErrInternalServer.WithDetails("Could not create article.")
	}
	return article, nil
}

// UpdateArticle applies an owner edit. Any edit resets the article to
// pending, regardless of its previous status, so changed content is always
// re-reviewed.
func (s *Service) UpdateArticle(ctx context.Context, articleID, ownerID uuid.UUID, req UpdateArticleRequest) (*Article, error) {
	article, err := s.repo.FindByID(ctx, articleID)
	if err != nil {
		return nil, err
	}
	if article.OwnerID != ownerID {
		return nil, common.ErrForbidden.WithDetails("You can only edit your own articles.")
	}

	if req.Title != nil {
		article.Title = *req.Title
	}
	if req.Summary != nil {
		article.Summary = req.Summary
	}
	if req.Body != nil {
		article.Body = *req.Body
	}
	if req.Tags != nil {
		article.Tags = req.Tags
	}
	article.Status = content.StatusPending
	article.Version++

	if err := s.repo.Update(ctx, article); err != nil {
		s.logger.Error("Failed to update article",
			zap.String("articleID", articleID.String()), zap.Error(err))
		return nil, common.ErrInternalServer.WithDetails("Could not update article.")
	}

	// An edited article leaves the public index until re-approved.
	s.removeFromIndex(ctx, article.ID)
	return article, nil
}

// DeleteArticle removes an owner's article.
func (s *Service) DeleteArticle(ctx context.Context, articleID, ownerID uuid.UUID) error {
	if err := s.repo.Delete(ctx, articleID, ownerID); err != nil {
		if _, ok := common.IsAPIError(err); ok {
			return err
		}
		s.logger.Error("Failed to delete article",
			zap.String("articleID", articleID.String()), zap.Error(err))
		return common.ErrInternalServer.WithDetails("Could not delete article.")
	}
	s.removeFromIndex(ctx, articleID)
	return nil
}

// GetArticleBySlug returns an article. Pending and rejected articles are
// visible only to their owner and to admins; everyone else gets a 404
// rather than a 403, so the existence of unpublished drafts is not leaked.
func (s *Service) GetArticleBySlug(ctx context.Context, articleSlug string, viewerID uuid.UUID, viewerRole string) (*Article, error) {
	article, err := s.repo.FindBySlug(ctx, articleSlug)
	if err != nil {
		return nil, err
	}
	if article.Status != content.StatusApproved && article.OwnerID != viewerID && viewerRole != common.RoleAdmin {
		return nil, common.ErrNotFound.WithDetails("Article not found.")
	}
	return article, nil
}

// ListApproved returns the public article feed.
func (s *Service) ListApproved(ctx context.Context, tag string, page, pageSize int) ([]ArticleResponse, *common.Pagination, error) {
	articles, pagination, err := s.repo.ListApproved(ctx, tag, page, pageSize)
	if err != nil {
		s.logger.Error("Failed to list approved articles", zap.Error(err))
		return nil, nil, common.ErrInternalServer.WithDetails("Could not retrieve articles.")
	}
	return toResponses(articles), pagination, nil
}

// ListMine returns all of the owner's articles including pending and rejected ones.
func (s *Service) ListMine(ctx context.Context, ownerID uuid.UUID, page, pageSize int) ([]ArticleResponse, *common.Pagination, error) {
	articles, pagination, err := s.repo.ListByOwner(ctx, ownerID, page, pageSize)
	if err != nil {
		s.logger.Error("Failed to list owner articles",
			zap.String("ownerID", ownerID.String()), zap.Error(err))
		return nil, nil, common.ErrInternalServer.WithDetails("Could not retrieve articles.")
	}
	return toResponses(articles), pagination, nil
}

// SearchArticles looks up approved articles. With Elasticsearch disabled it
// falls back to a database title search.
func (s *Service) SearchArticles(ctx context.Context, query string, page, pageSize int) ([]ArticleResponse, *common.Pagination, error) {
	if s.esClient == nil {
		articles, pagination, err := s.repo.SearchTitle(ctx, query, page, pageSize)
		if err != nil {
			s.logger.Error("Database article search failed", zap.Error(err))
			return nil, nil, common.ErrInternalServer.WithDetails("Could not search articles.")
		}
		return toResponses(articles), pagination, nil
	}

	slugs, total, err := s.searchIndex(ctx, query, page, pageSize)
	if err != nil {
		s.logger.Error("Elasticsearch article search failed", zap.Error(err))
		return nil, nil, common.ErrInternalServer.WithDetails("Could not search articles.")
	}

	responses := make([]ArticleResponse, 0, len(slugs))
	for _, articleSlug := range slugs {
		article, err := s.repo.FindBySlug(ctx, articleSlug)
		if err != nil {
			// Index can briefly lead the table; skip the stale hit.
			continue
		}
		if article.Status != content.StatusApproved {
			continue
		}
		responses = append(responses, ToArticleResponse(article))
	}
	return responses, common.NewPagination(total, page, pageSize), nil
}

// OnModerationDecision is the after-commit hook registered with the
// moderation workflow. Approval indexes the article; rejection or removal
// drops it from the index.
func (s *Service) OnModerationDecision(ctx context.Context, item *content.Item, decision moderation.Decision) error {
	if s.esClient == nil {
		return nil
	}
	switch decision {
	case moderation.DecisionApproved:
		article, err := s.repo.FindByID(ctx, item.ID)
		if err != nil {
			return err
		}
		return s.indexArticle(ctx, article)
	case moderation.DecisionRejected, moderation.DecisionDeleted:
		s.removeFromIndex(ctx, item.ID)
		return nil
	}
	return nil
}

// SyncSearchIndex bulk-reindexes every approved article. Exposed for the
// sync-articles maintenance command.
func (s *Service) SyncSearchIndex(ctx context.Context) (int, error) {
	if s.esClient == nil {
		return 0, fmt.Errorf("elasticsearch is not configured")
	}
	articles, err := s.repo.FindAllApproved(ctx)
	if err != nil {
		return 0, err
	}
	if len(articles) == 0 {
		return 0, nil
	}
	if err := s.bulkIndex(ctx, articles); err != nil {
		return 0, err
	}
	return len(articles), nil
}

// indexArticle upserts an article document, retrying transient failures so
// an index blip does not lose the approval.
func (s *Service) indexArticle(ctx context.Context, article *Article) error {
	docJSON, err := json.Marshal(ToSearchDocument(article))
	if err != nil {
		return fmt.Errorf("marshalling search document for article %s: %w", article.ID, err)
	}

	return retry.Do(
		func() error {
			return search.IndexDocument(ctx, s.esClient, search.ArticlesIndexName, article.ID.String(), string(docJSON))
		},
		retry.Attempts(5),
		retry.Delay(200*time.Millisecond),
		retry.MaxDelay(10*time.Second),
		retry.Context(ctx),
		retry.OnRetry(func(n uint, err error) {
			s.logger.Warn("Retrying article index",
				zap.String("articleID", article.ID.String()),
				zap.Uint("attempt", n), zap.Error(err))
		}),
	)
}

// removeFromIndex deletes an article document, logging failures instead of
// surfacing them; the reconciling sync command can repair the index later.
func (s *Service) removeFromIndex(ctx context.Context, articleID uuid.UUID) {
	if s.esClient == nil {
		return
	}
	err := retry.Do(
		func() error {
			return search.DeleteDocument(ctx, s.esClient, search.ArticlesIndexName, articleID.String())
		},
		retry.Attempts(5),
		retry.Delay(200*time.Millisecond),
		retry.MaxDelay(10*time.Second),
		retry.Context(ctx),
	)
	if err != nil {
		s.logger.Error("Failed to remove article from search index",
			zap.String("articleID", articleID.String()), zap.Error(err))
	}
}

// uniqueSlug derives a URL slug from the title, suffixing it when taken.
func (s *Service) uniqueSlug(ctx context.Context, title string) (string, error) {
	base := slug.Make(title)
	if base == "" {
		base = "article"
	}
	exists, err := s.repo.SlugExists(ctx, base)
	if err != nil {
		return "", err
	}
	if !exists {
		return base, nil
	}
	return fmt.Sprintf("%s-%s", base, uuid.NewString()[:8]), nil
}

func toResponses(articles []Article) []ArticleResponse {
	responses := make([]ArticleResponse, len(articles))
	for i := range articles {
		responses[i] = ToArticleResponse(&articles[i])
	}
	return responses
}

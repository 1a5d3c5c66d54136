package article

import (
	"context"
	"testing"

	"dentalhub_backend/internal/common"
	"dentalhub_backend/internal/content"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MockArticleRepository is a mock type for article.Repository
type MockArticleRepository struct {
	mock.Mock
}

func (m *MockArticleRepository) Create(ctx context.Context, article *Article) error {
	args := m.Called(ctx, article)
	if args.Error(0) == nil && article.ID == uuid.Nil {
		article.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *MockArticleRepository) FindByID(ctx context.Context, id uuid.UUID) (*Article, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Article), args.Error(1)
}

func (m *MockArticleRepository) FindBySlug(ctx context.Context, slug string) (*Article, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Article), args.Error(1)
}

func (m *MockArticleRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}

func (m *MockArticleRepository) Update(ctx context.Context, article *Article) error {
	args := m.Called(ctx, article)
	return args.Error(0)
}

func (m *MockArticleRepository) Delete(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) error {
	args := m.Called(ctx, id, ownerID)
	return args.Error(0)
}

func (m *MockArticleRepository) ListApproved(ctx context.Context, tag string, page, pageSize int) ([]Article, *common.Pagination, error) {
	args := m.Called(ctx, tag, page, pageSize)
	var articles []Article
	if args.Get(0) != nil {
		articles = args.Get(0).([]Article)
	}
	var pagination *common.Pagination
	if args.Get(1) != nil {
		pagination = args.Get(1).(*common.Pagination)
	}
	return articles, pagination, args.Error(2)
}

func (m *MockArticleRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, page, pageSize int) ([]Article, *common.Pagination, error) {
	args := m.Called(ctx, ownerID, page, pageSize)
	var articles []Article
	if args.Get(0) != nil {
		articles = args.Get(0).([]Article)
	}
	var pagination *common.Pagination
	if args.Get(1) != nil {
		pagination = args.Get(1).(*common.Pagination)
	}
	return articles, pagination, args.Error(2)
}

func (m *MockArticleRepository) FindAllApproved(ctx context.Context) ([]Article, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Article), args.Error(1)
}

func (m *MockArticleRepository) SearchTitle(ctx context.Context, query string, page, pageSize int) ([]Article, *common.Pagination, error) {
	args := m.Called(ctx, query, page, pageSize)
	var articles []Article
	if args.Get(0) != nil {
		articles = args.Get(0).([]Article)
	}
	var pagination *common.Pagination
	if args.Get(1) != nil {
		pagination = args.Get(1).(*common.Pagination)
	}
	return articles, pagination, args.Error(2)
}

func (m *MockArticleRepository) Kind() content.Kind {
	return content.KindArticle
}

func (m *MockArticleRepository) Snapshot(ctx context.Context, id uuid.UUID) (*content.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*content.Item), args.Error(1)
}

func (m *MockArticleRepository) UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, version int64, status content.Status) (int64, error) {
	args := m.Called(ctx, tx, id, version, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockArticleRepository) HardDelete(ctx context.Context, tx *gorm.DB, id uuid.UUID) (int64, error) {
	args := m.Called(ctx, tx, id)
	return args.Get(0).(int64), args.Error(1)
}

type ArticleServiceTestSuite struct {
	service  *Service
	mockRepo *MockArticleRepository
}

func setupArticleServiceTestSuite(t *testing.T) *ArticleServiceTestSuite {
	ts := &ArticleServiceTestSuite{}
	ts.mockRepo = new(MockArticleRepository)
	// Search client nil: indexing is a no-op and search falls back to the DB.
	ts.service = NewService(ts.mockRepo, nil, zap.NewNop())
	return ts
}

// --- Test Cases ---

func TestArticleService_CreateArticle_StartsPending(t *testing.T) {
	ts := setupArticleServiceTestSuite(t)
	ctx := context.Background()
	ownerID := uuid.New()

	ts.mockRepo.On("SlugExists", ctx, "flap-design-in-periodontal-surgery").Return(false, nil)
	ts.mockRepo.On("Create", ctx, mock.AnythingOfType("*article.Article")).Run(func(args mock.Arguments) {
		articleArg := args.Get(1).(*Article)
		assert.Equal(t, content.StatusPending, articleArg.Status)
		assert.Equal(t, int64(1), articleArg.Version)
		assert.Equal(t, "flap-design-in-periodontal-surgery", articleArg.Slug)
		assert.Equal(t, ownerID, articleArg.OwnerID)
	}).Return(nil)

	article, err := ts.service.CreateArticle(ctx, ownerID, CreateArticleRequest{
		Title: "Flap design in periodontal surgery",
		Body:  "A long discussion of flap design choices.",
		Tags:  []string{"periodontics", "surgery"},
	})

	assert.NoError(t, err)
	assert.NotNil(t, article)
	assert.Equal(t, content.StatusPending, article.Status)
	ts.mockRepo.AssertExpectations(t)
}

func TestArticleService_CreateArticle_TakenSlugGetsSuffix(t *testing.T) {
	ts := setupArticleServiceTestSuite(t)
	ctx := context.Background()

	ts.mockRepo.On("SlugExists", ctx, "implant-care").Return(true, nil)
	ts.mockRepo.On("Create", ctx, mock.AnythingOfType("*article.Article")).Run(func(args mock.Arguments) {
		articleArg := args.Get(1).(*Article)
		assert.NotEqual(t, "implant-care", articleArg.Slug)
		assert.Contains(t, articleArg.Slug, "implant-care-")
	}).Return(nil)

	_, err := ts.service.CreateArticle(ctx, uuid.New(), CreateArticleRequest{
		Title: "Implant care",
		Body:  "Post-operative implant care instructions.",
	})

	assert.NoError(t, err)
	ts.mockRepo.AssertExpectations(t)
}

// Any owner edit resets the article to pending, even when it was approved.
func TestArticleService_UpdateArticle_ResetsToPending(t *testing.T) {
	ts := setupArticleServiceTestSuite(t)
	ctx := context.Background()
	ownerID := uuid.New()
	existing := &Article{
		OwnerID: ownerID,
		Title:   "Approved article",
		Slug:    "approved-article",
		Body:    "Original body text.",
		Status:  content.StatusApproved,
		Version: 3,
	}
	existing.ID = uuid.New()

	ts.mockRepo.On("FindByID", ctx, existing.ID).Return(existing, nil)
	ts.mockRepo.On("Update", ctx, mock.AnythingOfType("*article.Article")).Run(func(args mock.Arguments) {
		articleArg := args.Get(1).(*Article)
		assert.Equal(t, content.StatusPending, articleArg.Status)
		assert.Equal(t, int64(4), articleArg.Version)
	}).Return(nil)

	newBody := "Corrected body text with updated citations."
	updated, err := ts.service.UpdateArticle(ctx, existing.ID, ownerID, UpdateArticleRequest{Body: &newBody})

	assert.NoError(t, err)
	assert.Equal(t, content.StatusPending, updated.Status)
	assert.Equal(t, newBody, updated.Body)
	ts.mockRepo.AssertExpectations(t)
}

func TestArticleService_UpdateArticle_ForeignOwnerForbidden(t *testing.T) {
	ts := setupArticleServiceTestSuite(t)
	ctx := context.Background()
	existing := &Article{OwnerID: uuid.New(), Title: "Not yours", Status: content.StatusApproved, Version: 1}
	existing.ID = uuid.New()

	ts.mockRepo.On("FindByID", ctx, existing.ID).Return(existing, nil)

	newTitle := "Hijacked"
	_, err := ts.service.UpdateArticle(ctx, existing.ID, uuid.New(), UpdateArticleRequest{Title: &newTitle})

	assert.Error(t, err)
	apiErr, ok := common.IsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, common.ErrForbidden.Code, apiErr.Code)
	ts.mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestArticleService_GetArticleBySlug_PendingHiddenFromStrangers(t *testing.T) {
	ts := setupArticleServiceTestSuite(t)
	ctx := context.Background()
	ownerID := uuid.New()
	pending := &Article{OwnerID: ownerID, Title: "Draft", Slug: "draft", Status: content.StatusPending, Version: 1}
	pending.ID = uuid.New()

	ts.mockRepo.On("FindBySlug", ctx, "draft").Return(pending, nil)

	// A stranger gets a 404, not a 403.
	_, err := ts.service.GetArticleBySlug(ctx, "draft", uuid.New(), common.RoleUser)
	assert.Error(t, err)
	apiErr, ok := common.IsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, common.ErrNotFound.Code, apiErr.Code)

	// The owner sees it.
	got, err := ts.service.GetArticleBySlug(ctx, "draft", ownerID, common.RoleUser)
	assert.NoError(t, err)
	assert.Equal(t, pending.ID, got.ID)

	// An admin sees it too.
	got, err = ts.service.GetArticleBySlug(ctx, "draft", uuid.New(), common.RoleAdmin)
	assert.NoError(t, err)
	assert.Equal(t, pending.ID, got.ID)
}

func TestArticleService_DeleteArticle_NotFoundPassthrough(t *testing.T) {
	ts := setupArticleServiceTestSuite(t)
	ctx := context.Background()
	articleID := uuid.New()
	ownerID := uuid.New()

	ts.mockRepo.On("Delete", ctx, articleID, ownerID).
		Return(common.ErrNotFound.WithDetails("Article not found or not owned by user."))

	err := ts.service.DeleteArticle(ctx, articleID, ownerID)

	assert.Error(t, err)
	apiErr, ok := common.IsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, common.ErrNotFound.Code, apiErr.Code)
	ts.mockRepo.AssertExpectations(t)
}

func TestArticleService_SearchArticles_FallsBackToDatabase(t *testing.T) {
	ts := setupArticleServiceTestSuite(t)
	ctx := context.Background()
	results := []Article{{Title: "Fluoride varnish", Slug: "fluoride-varnish", Status: content.StatusApproved}}
	pagination := &common.Pagination{TotalItems: 1, TotalPages: 1, CurrentPage: 1, PageSize: 10}

	ts.mockRepo.On("SearchTitle", ctx, "fluoride", 1, 10).Return(results, pagination, nil)

	responses, gotPagination, err := ts.service.SearchArticles(ctx, "fluoride", 1, 10)

	assert.NoError(t, err)
	assert.Len(t, responses, 1)
	assert.Equal(t, "fluoride-varnish", responses[0].Slug)
	assert.Equal(t, pagination, gotPagination)
	ts.mockRepo.AssertExpectations(t)
}

// File: internal/article/repository.go
package article

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"dentalhub_backend/internal/common"
	"dentalhub_backend/internal/content"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines the interface for article data operations. It also
// satisfies the moderation workflow's Source interface so the article
// collection can be moderated.
type Repository interface {
	Create(ctx context.Context, article *Article) error
	FindByID(ctx context.Context, id uuid.UUID) (*Article, error)
	FindBySlug(ctx context.Context, slug string) (*Article, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	Update(ctx context.Context, article *Article) error
	Delete(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) error
	ListApproved(ctx context.Context, tag string, page, pageSize int) ([]Article, *common.Pagination, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, page, pageSize int) ([]Article, *common.Pagination, error)
	FindAllApproved(ctx context.Context) ([]Article, error)
	SearchTitle(ctx context.Context, query string, page, pageSize int) ([]Article, *common.Pagination, error)

	// Moderation source methods.
	Kind() content.Kind
	Snapshot(ctx context.Context, id uuid.UUID) (*content.Item, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, version int64, status content.Status) (int64, error)
	HardDelete(ctx context.Context, tx *gorm.DB, id uuid.UUID) (int64, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM article repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, article *Article) error {
	if err := r.db.WithContext(ctx).Create(article).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "unique constraint") {
			return common.ErrConflict.WithDetails("An article with this slug already exists.")
		}
		return fmt.Errorf("failed to create article: %w", err)
	}
	return nil
}

func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*Article, error) {
	var article Article
	err := r.db.WithContext(ctx).First(&article, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Article not found.")
		}
		return nil, fmt.Errorf("failed to find article %s: %w", id, err)
	}
	return &article, nil
}

func (r *gormRepository) FindBySlug(ctx context.Context, slug string) (*Article, error) {
	var article Article
	err := r.db.WithContext(ctx).First(&article, "slug = ?", slug).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Article not found.")
		}
		return nil, fmt.Errorf("failed to find article by slug %q: %w", slug, err)
	}
	return &article, nil
}

func (r *gormRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Article{}).Where("slug = ?", slug).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("checking slug %q: %w", slug, err)
	}
	return count > 0, nil
}

func (r *gormRepository) Update(ctx context.Context, article *Article) error {
	if err := r.db.WithContext(ctx).Save(article).Error; err != nil {
		return fmt.Errorf("failed to update article %s: %w", article.ID, err)
	}
	return nil
}

// Delete removes an article owned by the given user.
func (r *gormRepository) Delete(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&Article{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete article %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return common.ErrNotFound.WithDetails("Article not found or not owned by user.")
	}
	return nil
}

func (r *gormRepository) ListApproved(ctx context.Context, tag string, page, pageSize int) ([]Article, *common.Pagination, error) {
	query := r.db.WithContext(ctx).Model(&Article{}).Where("status = ?", content.StatusApproved)
	if tag != "" {
		query = query.Where("? = ANY(tags)", tag)
	}
	return r.paginate(ctx, query, page, pageSize)
}

func (r *gormRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, page, pageSize int) ([]Article, *common.Pagination, error) {
	query := r.db.WithContext(ctx).Model(&Article{}).Where("owner_id = ?", ownerID)
	return r.paginate(ctx, query, page, pageSize)
}

// FindAllApproved loads every approved article, used by the bulk index sync.
func (r *gormRepository) FindAllApproved(ctx context.Context) ([]Article, error) {
	var articles []Article
	err := r.db.WithContext(ctx).
		Where("status = ?", content.StatusApproved).
		Order("created_at ASC").
		Find(&articles).Error
	if err != nil {
		return nil, fmt.Errorf("fetching approved articles failed: %w", err)
	}
	return articles, nil
}

// SearchTitle is the database fallback when Elasticsearch is disabled.
func (r *gormRepository) SearchTitle(ctx context.Context, searchTerm string, page, pageSize int) ([]Article, *common.Pagination, error) {
	pattern := "%" + strings.ToLower(searchTerm) + "%"
	query := r.db.WithContext(ctx).Model(&Article{}).
		Where("status = ?", content.StatusApproved).
		Where("LOWER(title) LIKE ?", pattern)
	return r.paginate(ctx, query, page, pageSize)
}

func (r *gormRepository) paginate(_ context.Context, query *gorm.DB, page, pageSize int) ([]Article, *common.Pagination, error) {
	var articles []Article
	var total int64

	if err := query.Count(&total).Error; err != nil {
		return nil, nil, fmt.Errorf("counting articles failed: %w", err)
	}
	pagination := common.NewPagination(total, page, pageSize)

	offset := (page - 1) * pageSize
	if page <= 0 {
		offset = 0
	}

	err := query.Order("created_at DESC").
		Limit(pageSize).
		Offset(offset).
		Find(&articles).Error
	if err != nil {
		return nil, nil, fmt.Errorf("fetching articles failed: %w", err)
	}
	return articles, pagination, nil
}

// --- Moderation source ---

func (r *gormRepository) Kind() content.Kind {
	return content.KindArticle
}

func (r *gormRepository) Snapshot(ctx context.Context, id uuid.UUID) (*content.Item, error) {
	article, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return article.ToItem(), nil
}

// UpdateStatus performs a version-checked status change on the caller's
// transaction, bumping the version on success.
func (r *gormRepository) UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, version int64, status content.Status) (int64, error) {
	result := tx.WithContext(ctx).Model(&Article{}).
		Where("id = ? AND version = ?", id, version).
		Updates(map[string]interface{}{
			"status":  status,
			"version": gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to update article %s status: %w", id, result.Error)
	}
	return result.RowsAffected, nil
}

// HardDelete removes the article row on the caller's transaction.
func (r *gormRepository) HardDelete(ctx context.Context, tx *gorm.DB, id uuid.UUID) (int64, error) {
	result := tx.WithContext(ctx).Where("id = ?", id).Delete(&Article{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to hard-delete article %s: %w", id, result.Error)
	}
	return result.RowsAffected, nil
}

// File: internal/job/repository.go
package job

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dentalhub_backend/internal/common"
	"dentalhub_backend/internal/content"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines the interface for job posting data operations. It also
// satisfies the moderation workflow's Source interface.
type Repository interface {
	Create(ctx context.Context, posting *Posting) error
	FindByID(ctx context.Context, id uuid.UUID) (*Posting, error)
	Update(ctx context.Context, posting *Posting) error
	Delete(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) error
	ListOpen(ctx context.Context, now time.Time, page, pageSize int) ([]Posting, *common.Pagination, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, page, pageSize int) ([]Posting, *common.Pagination, error)

	// Moderation source methods.
	Kind() content.Kind
	Snapshot(ctx context.Context, id uuid.UUID) (*content.Item, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, version int64, status content.Status) (int64, error)
	HardDelete(ctx context.Context, tx *gorm.DB, id uuid.UUID) (int64, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM job posting repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, posting *Posting) error {
	if err := r.db.WithContext(ctx).Create(posting).Error; err != nil {
		return fmt.Errorf("failed to create job posting: %w", err)
	}
	return nil
}

func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*Posting, error) {
	var posting Posting
	err := r.db.WithContext(ctx).First(&posting, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Job posting not found.")
		}
		return nil, fmt.Errorf("failed to find job posting %s: %w", id, err)
	}
	return &posting, nil
}

func (r *gormRepository) Update(ctx context.Context, posting *Posting) error {
	if err := r.db.WithContext(ctx).Save(posting).Error; err != nil {
		return fmt.Errorf("failed to update job posting %s: %w", posting.ID, err)
	}
	return nil
}

func (r *gormRepository) Delete(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&Posting{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete job posting %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return common.ErrNotFound.WithDetails("Job posting not found or not owned by user.")
	}
	return nil
}

// ListOpen returns approved postings that have not expired yet.
func (r *gormRepository) ListOpen(ctx context.Context, now time.Time, page, pageSize int) ([]Posting, *common.Pagination, error) {
	var postings []Posting
	var total int64

	base := r.db.WithContext(ctx).Model(&Posting{}).
		Where("status = ?", content.StatusApproved).
		Where("expires_at IS NULL OR expires_at > ?", now)
	if err := base.Count(&total).Error; err != nil {
		return nil, nil, fmt.Errorf("counting open job postings failed: %w", err)
	}

	pagination := common.NewPagination(total, page, pageSize)
	offset := (page - 1) * pageSize
	if page <= 0 {
		offset = 0
	}

	err := r.db.WithContext(ctx).
		Where("status = ?", content.StatusApproved).
		Where("expires_at IS NULL OR expires_at > ?", now).
		Order("created_at DESC").
		Limit(pageSize).
		Offset(offset).
		Find(&postings).Error
	if err != nil {
		return nil, nil, fmt.Errorf("fetching open job postings failed: %w", err)
	}
	return postings, pagination, nil
}

func (r *gormRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, page, pageSize int) ([]Posting, *common.Pagination, error) {
	var postings []Posting
	var total int64

	base := r.db.WithContext(ctx).Model(&Posting{}).Where("owner_id = ?", ownerID)
	if err := base.Count(&total).Error; err != nil {
		return nil, nil, fmt.Errorf("counting owner job postings failed: %w", err)
	}

	pagination := common.NewPagination(total, page, pageSize)
	offset := (page - 1) * pageSize
	if page <= 0 {
		offset = 0
	}

	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Limit(pageSize).
		Offset(offset).
		Find(&postings).Error
	if err != nil {
		return nil, nil, fmt.Errorf("fetching owner job postings failed: %w", err)
	}
	return postings, pagination, nil
}

// --- Moderation source ---

func (r *gormRepository) Kind() content.Kind {
	return content.KindJob
}

func (r *gormRepository) Snapshot(ctx context.Context, id uuid.UUID) (*content.Item, error) {
	posting, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return posting.ToItem(), nil
}

func (r *gormRepository) UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, version int64, status content.Status) (int64, error) {
	result := tx.WithContext(ctx).Model(&Posting{}).
		Where("id = ? AND version = ?", id, version).
		Updates(map[string]interface{}{
			"status":  status,
			"version": gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to update job posting %s status: %w", id, result.Error)
	}
	return result.RowsAffected, nil
}

func (r *gormRepository) HardDelete(ctx context.Context, tx *gorm.DB, id uuid.UUID) (int64, error) {
	result := tx.WithContext(ctx).Where("id = ?", id).Delete(&Posting{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to hard-delete job posting %s: %w", id, result.Error)
	}
	return result.RowsAffected, nil
}

// File: internal/forum/repository.go
package forum

import (
	"context"
	"errors"
	"fmt"

	"dentalhub_backend/internal/common"
	"dentalhub_backend/internal/content"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines the interface for forum thread data operations. It
// also satisfies the moderation workflow's Source interface.
type Repository interface {
	Create(ctx context.Context, thread *Thread) error
	FindByID(ctx context.Context, id uuid.UUID) (*Thread, error)
	Update(ctx context.Context, thread *Thread) error
	Delete(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) error
	ListApproved(ctx context.Context, topic string, page, pageSize int) ([]Thread, *common.Pagination, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, page, pageSize int) ([]Thread, *common.Pagination, error)

	// Moderation source methods.
	Kind() content.Kind
	Snapshot(ctx context.Context, id uuid.UUID) (*content.Item, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, version int64, status content.Status) (int64, error)
	HardDelete(ctx context.Context, tx *gorm.DB, id uuid.UUID) (int64, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM forum thread repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, thread *Thread) error {
	if err := r.db.WithContext(ctx).Create(thread).Error; err != nil {
		return fmt.Errorf("failed to create thread: %w", err)
	}
	return nil
}

func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*Thread, error) {
	var thread Thread
	err := r.db.WithContext(ctx).First(&thread, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Thread not found.")
		}
		return nil, fmt.Errorf("failed to find thread %s: %w", id, err)
	}
	return &thread, nil
}

func (r *gormRepository) Update(ctx context.Context, thread *Thread) error {
	if err := r.db.WithContext(ctx).Save(thread).Error; err != nil {
		return fmt.Errorf("failed to update thread %s: %w", thread.ID, err)
	}
	return nil
}

func (r *gormRepository) Delete(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&Thread{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete thread %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return common.ErrNotFound.WithDetails("Thread not found or not owned by user.")
	}
	return nil
}

// ListApproved returns approved threads ordered by most recent activity.
func (r *gormRepository) ListApproved(ctx context.Context, topic string, page, pageSize int) ([]Thread, *common.Pagination, error) {
	var threads []Thread
	var total int64

	base := r.db.WithContext(ctx).Model(&Thread{}).Where("status = ?", content.StatusApproved)
	if topic != "" {
		base = base.Where("topic = ?", topic)
	}
	if err := base.Count(&total).Error; err != nil {
		return nil, nil, fmt.Errorf("counting approved threads failed: %w", err)
	}

	pagination := common.NewPagination(total, page, pageSize)
	offset := (page - 1) * pageSize
	if page <= 0 {
		offset = 0
	}

	listQuery := r.db.WithContext(ctx).Where("status = ?", content.StatusApproved)
	if topic != "" {
		listQuery = listQuery.Where("topic = ?", topic)
	}
	err := listQuery.Order("last_activity_at DESC").
		Limit(pageSize).
		Offset(offset).
		Find(&threads).Error
	if err != nil {
		return nil, nil, fmt.Errorf("fetching approved threads failed: %w", err)
	}
	return threads, pagination, nil
}

func (r *gormRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, page, pageSize int) ([]Thread, *common.Pagination, error) {
	var threads []Thread
	var total int64

	base := r.db.WithContext(ctx).Model(&Thread{}).Where("owner_id = ?", ownerID)
	if err := base.Count(&total).Error; err != nil {
		return nil, nil, fmt.Errorf("counting owner threads failed: %w", err)
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
		Find(&threads).Error
	if err != nil {
		return nil, nil, fmt.Errorf("fetching owner threads failed: %w", err)
	}
	return threads, pagination, nil
}

// --- Moderation source ---

func (r *gormRepository) Kind() content.Kind {
	return content.KindThread
}

func (r *gormRepository) Snapshot(ctx context.Context, id uuid.UUID) (*content.Item, error) {
	thread, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return thread.ToItem(), nil
}

func (r *gormRepository) UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, version int64, status content.Status) (int64, error) {
	result := tx.WithContext(ctx).Model(&Thread{}).
		Where("id = ? AND version = ?", id, version).
		Updates(map[string]interface{}{
			"status":  status,
			"version": gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to update thread %s status: %w", id, result.Error)
	}
	return result.RowsAffected, nil
}

func (r *gormRepository) HardDelete(ctx context.Context, tx *gorm.DB, id uuid.UUID) (int64, error) {
	result := tx.WithContext(ctx).Where("id = ?", id).Delete(&Thread{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to hard-delete thread %s: %w", id, result.Error)
	}
	return result.RowsAffected, nil
}

// File: internal/event/repository.go
package event

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

// Repository defines the interface for event data operations. It also
// satisfies the moderation workflow's Source interface.
type Repository interface {
	Create(ctx context.Context, event *Event) error
	FindByID(ctx context.Context, id uuid.UUID) (*Event, error)
	Update(ctx context.Context, event *Event) error
	Delete(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) error
	ListUpcoming(ctx context.Context, page, pageSize int) ([]Event, *common.Pagination, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, page, pageSize int) ([]Event, *common.Pagination, error)
	// ArchivePastEvents flags approved events whose end time has passed and
	// returns how many rows changed.
	ArchivePastEvents(ctx context.Context, now time.Time) (int64, error)

	// Moderation source methods.
	Kind() content.Kind
	Snapshot(ctx context.Context, id uuid.UUID) (*content.Item, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, version int64, status content.Status) (int64, error)
	HardDelete(ctx context.Context, tx *gorm.DB, id uuid.UUID) (int64, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM event repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, event *Event) error {
	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*Event, error) {
	var event Event
	err := r.db.WithContext(ctx).First(&event, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Event not found.")
		}
		return nil, fmt.Errorf("failed to find event %s: %w", id, err)
	}
	return &event, nil
}

func (r *gormRepository) Update(ctx context.Context, event *Event) error {
	if err := r.db.WithContext(ctx).Save(event).Error; err != nil {
		return fmt.Errorf("failed to update event %s: %w", event.ID, err)
	}
	return nil
}

func (r *gormRepository) Delete(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&Event{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete event %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return common.ErrNotFound.WithDetails("Event not found or not owned by user.")
	}
	return nil
}

// ListUpcoming returns approved, unarchived events ordered by start time.
func (r *gormRepository) ListUpcoming(ctx context.Context, page, pageSize int) ([]Event, *common.Pagination, error) {
	var events []Event
	var total int64

	base := r.db.WithContext(ctx).Model(&Event{}).
		Where("status = ? AND is_archived = ?", content.StatusApproved, false)
	if err := base.Count(&total).Error; err != nil {
		return nil, nil, fmt.Errorf("counting upcoming events failed: %w", err)
	}

	pagination := common.NewPagination(total, page, pageSize)
	offset := (page - 1) * pageSize
	if page <= 0 {
		offset = 0
	}

	err := r.db.WithContext(ctx).
		Where("status = ? AND is_archived = ?", content.StatusApproved, false).
		Order("starts_at ASC").
		Limit(pageSize).
		Offset(offset).
		Find(&events).Error
	if err != nil {
		return nil, nil, fmt.Errorf("fetching upcoming events failed: %w", err)
	}
	return events, pagination, nil
}

func (r *gormRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, page, pageSize int) ([]Event, *common.Pagination, error) {
	var events []Event
	var total int64

	base := r.db.WithContext(ctx).Model(&Event{}).Where("owner_id = ?", ownerID)
	if err := base.Count(&total).Error; err != nil {
		return nil, nil, fmt.Errorf("counting owner events failed: %w", err)
	}

	pagination := common.NewPagination(total, page, pageSize)
	offset := (page - 1) * pageSize
	if page <= 0 {
		offset = 0
	}

	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("starts_at DESC").
		Limit(pageSize).
		Offset(offset).
		Find(&events).Error
	if err != nil {
		return nil, nil, fmt.Errorf("fetching owner events failed: %w", err)
	}
	return events, pagination, nil
}

// ArchivePastEvents marks ended events as archived.
func (r *gormRepository) ArchivePastEvents(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&Event{}).
		Where("is_archived = ? AND ends_at < ?", false, now).
		Update("is_archived", true)
	if result.Error != nil {
		return 0, fmt.Errorf("archiving past events failed: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// --- Moderation source ---

func (r *gormRepository) Kind() content.Kind {
	return content.KindEvent
}

func (r *gormRepository) Snapshot(ctx context.Context, id uuid.UUID) (*content.Item, error) {
	event, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return event.ToItem(), nil
}

func (r *gormRepository) UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, version int64, status content.Status) (int64, error) {
	result := tx.WithContext(ctx).Model(&Event{}).
		Where("id = ? AND version = ?", id, version).
		Updates(map[string]interface{}{
			"status":  status,
			"version": gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to update event %s status: %w", id, result.Error)
	}
	return result.RowsAffected, nil
}

func (r *gormRepository) HardDelete(ctx context.Context, tx *gorm.DB, id uuid.UUID) (int64, error) {
	result := tx.WithContext(ctx).Where("id = ?", id).Delete(&Event{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to hard-delete event %s: %w", id, result.Error)
	}
	return result.RowsAffected, nil
}

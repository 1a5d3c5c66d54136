// File: internal/application/repository.go
package application

import (
	"context"
	"errors"
	"fmt"

	"dentalhub_backend/internal/common"
	"dentalhub_backend/internal/content"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines the interface for professor application data operations.
// It also satisfies the moderation workflow's Source interface.
type Repository interface {
	Create(ctx context.Context, application *Application) error
	FindByID(ctx context.Context, id uuid.UUID) (*Application, error)
	HasPendingForApplicant(ctx context.Context, applicantID uuid.UUID) (bool, error)
	ListByApplicant(ctx context.Context, applicantID uuid.UUID, page, pageSize int) ([]Application, *common.Pagination, error)
	ListPending(ctx context.Context, page, pageSize int) ([]Application, *common.Pagination, error)

	// Moderation source methods.
	Kind() content.Kind
	Snapshot(ctx context.Context, id uuid.UUID) (*content.Item, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, version int64, status content.Status) (int64, error)
	HardDelete(ctx context.Context, tx *gorm.DB, id uuid.UUID) (int64, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM professor application repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, application *Application) error {
	if err := r.db.WithContext(ctx).Create(application).Error; err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}
	return nil
}

func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*Application, error) {
	var application Application
	err := r.db.WithContext(ctx).First(&application, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Application not found.")
		}
		return nil, fmt.Errorf("failed to find application %s: %w", id, err)
	}
	return &application, nil
}

func (r *gormRepository) HasPendingForApplicant(ctx context.Context, applicantID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Application{}).
		Where("applicant_id = ? AND status = ?", applicantID, content.StatusPending).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("counting pending applications failed: %w", err)
	}
	return count > 0, nil
}

func (r *gormRepository) ListByApplicant(ctx context.Context, applicantID uuid.UUID, page, pageSize int) ([]Application, *common.Pagination, error) {
	var applications []Application
	var total int64

	base := r.db.WithContext(ctx).Model(&Application{}).Where("applicant_id = ?", applicantID)
	if err := base.Count(&total).Error; err != nil {
		return nil, nil, fmt.Errorf("counting applicant applications failed: %w", err)
	}

	pagination := common.NewPagination(total, page, pageSize)
	offset := (page - 1) * pageSize
	if page <= 0 {
		offset = 0
	}

	err := r.db.WithContext(ctx).
		Where("applicant_id = ?", applicantID).
		Order("created_at DESC").
		Limit(pageSize).
		Offset(offset).
		Find(&applications).Error
	if err != nil {
		return nil, nil, fmt.Errorf("fetching applicant applications failed: %w", err)
	}
	return applications, pagination, nil
}

// ListPending returns the moderation queue of applications, oldest first.
func (r *gormRepository) ListPending(ctx context.Context, page, pageSize int) ([]Application, *common.Pagination, error) {
	var applications []Application
	var total int64

	base := r.db.WithContext(ctx).Model(&Application{}).Where("status = ?", content.StatusPending)
	if err := base.Count(&total).Error; err != nil {
		return nil, nil, fmt.Errorf("counting pending applications failed: %w", err)
	}

	pagination := common.NewPagination(total, page, pageSize)
	offset := (page - 1) * pageSize
	if page <= 0 {
		offset = 0
	}

	err := r.db.WithContext(ctx).
		Where("status = ?", content.StatusPending).
		Order("created_at ASC").
		Limit(pageSize).
		Offset(offset).
		Find(&applications).Error
	if err != nil {
		return nil, nil, fmt.Errorf("fetching pending applications failed: %w", err)
	}
	return applications, pagination, nil
}

// --- Moderation source ---

func (r *gormRepository) Kind() content.Kind {
	return content.KindApplication
}

func (r *gormRepository) Snapshot(ctx context.Context, id uuid.UUID) (*content.Item, error) {
	application, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return application.ToItem(), nil
}

func (r *gormRepository) UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, version int64, status content.Status) (int64, error) {
	result := tx.WithContext(ctx).Model(&Application{}).
		Where("id = ? AND version = ?", id, version).
		Updates(map[string]interface{}{
			"status":  status,
			"version": gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to update application %s status: %w", id, result.Error)
	}
	return result.RowsAffected, nil
}

func (r *gormRepository) HardDelete(ctx context.Context, tx *gorm.DB, id uuid.UUID) (int64, error) {
	result := tx.WithContext(ctx).Where("id = ?", id).Delete(&Application{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to hard-delete application %s: %w", id, result.Error)
	}
	return result.RowsAffected, nil
}

// File: internal/user/repository.go
package user

import (
	"context"
	"errors"
	"fmt"

	"dentalhub_backend/internal/common"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines the interface for user data operations.
type Repository interface {
	Create(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByFirebaseUID(ctx context.Context, firebaseUID string) (*User, error)
	Update(ctx context.Context, user *User) error
	SetRole(ctx context.Context, id uuid.UUID, role string, verifiedProfessor bool) error
	FindVerifiedProfessors(ctx context.Context, page, pageSize int) ([]User, *common.Pagination, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM user repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, user *User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	var usr User
	err := r.db.WithContext(ctx).First(&usr, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("User not found.")
		}
		return nil, fmt.Errorf("failed to find user %s: %w", id, err)
	}
	return &usr, nil
}

func (r *gormRepository) FindByFirebaseUID(ctx context.Context, firebaseUID string) (*User, error) {
	var usr User
	err := r.db.WithContext(ctx).First(&usr, "firebase_uid = ?", firebaseUID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("User not found.")
		}
		return nil, fmt.Errorf("failed to find user by firebase uid: %w", err)
	}
	return &usr, nil
}

func (r *gormRepository) Update(ctx context.Context, user *User) error {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		return fmt.Errorf("failed to update user %s: %w", user.ID, err)
	}
	return nil
}

// SetRole updates the role and professor-verification flag in one statement.
func (r *gormRepository) SetRole(ctx context.Context, id uuid.UUID, role string, verifiedProfessor bool) error {
	result := r.db.WithContext(ctx).Model(&User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"role":                  role,
			"is_verified_professor": verifiedProfessor,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to set role for user %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return common.ErrNotFound.WithDetails("User not found.")
	}
	return nil
}

// FindVerifiedProfessors returns the public professor directory, newest first.
func (r *gormRepository) FindVerifiedProfessors(ctx context.Context, page, pageSize int) ([]User, *common.Pagination, error) {
	var users []User
	var total int64

	base := r.db.WithContext(ctx).Model(&User{}).Where("is_verified_professor = ?", true)
	if err := base.Count(&total).Error; err != nil {
		return nil, nil, fmt.Errorf("counting verified professors failed: %w", err)
	}

	pagination := common.NewPagination(total, page, pageSize)
	offset := (page - 1) * pageSize
	if page <= 0 {
		offset = 0
	}

	err := r.db.WithContext(ctx).
		Where("is_verified_professor = ?", true).
		Order("created_at DESC").
		Limit(pageSize).
		Offset(offset).
		Find(&users).Error
	if err != nil {
		return nil, nil, fmt.Errorf("fetching verified professors failed: %w", err)
	}
	return users, pagination, nil
}

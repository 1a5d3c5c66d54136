// File: internal/user/model.go
package user

import (
	"time"

	"dentalhub_backend/internal/common"
	"dentalhub_backend/internal/shared"

	"github.com/google/uuid"
)

// User represents the user model in the database.
type User struct {
	common.BaseModel
	FirebaseUID         string  `gorm:"type:varchar(128);not null;uniqueIndex"`
	Email               *string `gorm:"type:varchar(255);uniqueIndex"` // Pointer to allow NULL
	DisplayName         *string `gorm:"type:varchar(150)"`
	ProfessionalTitle   *string `gorm:"type:varchar(150)"` // e.g. "DDS", "Orthodontist"
	ClinicName          *string `gorm:"type:varchar(255)"`
	ProfilePictureURL   *string `gorm:"type:text"`
	Role                string  `gorm:"type:varchar(50);not null;default:'user'"` // user, professor, admin
	IsVerifiedProfessor bool    `gorm:"not null;default:false"`
	LastLoginAt         *time.Time
}

// TableName specifies the table name for the User model.
func (User) TableName() string {
	return "users"
}

// DBToShared converts a GORM User to the transport-neutral shared.User.
func DBToShared(u *User) *shared.User {
	if u == nil {
		return nil
	}
	return &shared.User{
		ID:                  u.ID,
		FirebaseUID:         u.FirebaseUID,
		Email:               u.Email,
		DisplayName:         u.DisplayName,
		ProfessionalTitle:   u.ProfessionalTitle,
		ClinicName:          u.ClinicName,
		ProfilePictureURL:   u.ProfilePictureURL,
		Role:                u.Role,
		IsVerifiedProfessor: u.IsVerifiedProfessor,
		CreatedAt:           u.CreatedAt,
		UpdatedAt:           u.UpdatedAt,
		LastLoginAt:         u.LastLoginAt,
	}
}

// --- DTOs for API requests/responses ---

// UpdateProfileRequest defines the fields a user may change on their own profile.
type UpdateProfileRequest struct {
	DisplayName       *string `json:"display_name,omitempty" binding:"omitempty,max=150"`
	ProfessionalTitle *string `json:"professional_title,omitempty" binding:"omitempty,max=150"`
	ClinicName        *string `json:"clinic_name,omitempty" binding:"omitempty,max=255"`
	ProfilePictureURL *string `json:"profile_picture_url,omitempty" binding:"omitempty,max=2048"`
}

// UserResponse defines the structure for user data sent in API responses.
type UserResponse struct {
	ID                  uuid.UUID  `json:"id"`
	Email               *string    `json:"email,omitempty"`
	DisplayName         *string    `json:"display_name,omitempty"`
	ProfessionalTitle   *string    `json:"professional_title,omitempty"`
	ClinicName          *string    `json:"clinic_name,omitempty"`
	ProfilePictureURL   *string    `json:"profile_picture_url,omitempty"`
	Role                string     `json:"role"`
	IsVerifiedProfessor bool       `json:"is_verified_professor"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
	LastLoginAt         *time.Time `json:"last_login_at,omitempty"`
}

// ToUserResponse converts a shared.User to a UserResponse DTO.
func ToUserResponse(u *shared.User) UserResponse {
	return UserResponse{
		ID:                  u.ID,
		Email:               u.Email,
		DisplayName:         u.DisplayName,
		ProfessionalTitle:   u.ProfessionalTitle,
		ClinicName:          u.ClinicName,
		ProfilePictureURL:   u.ProfilePictureURL,
		Role:                u.Role,
		IsVerifiedProfessor: u.IsVerifiedProfessor,
		CreatedAt:           u.CreatedAt,
		UpdatedAt:           u.UpdatedAt,
		LastLoginAt:         u.LastLoginAt,
	}
}

// ProfessorResponse is the public directory entry for a verified professor.
type ProfessorResponse struct {
	ID                uuid.UUID `json:"id"`
	DisplayName       *string   `json:"display_name,omitempty"`
	ProfessionalTitle *string   `json:"professional_title,omitempty"`
	ClinicName        *string   `json:"clinic_name,omitempty"`
	ProfilePictureURL *string   `json:"profile_picture_url,omitempty"`
}

// ToProfessorResponse converts a User model to the public directory DTO.
func ToProfessorResponse(u *User) ProfessorResponse {
	return ProfessorResponse{
		ID:                u.ID,
		DisplayName:       u.DisplayName,
		ProfessionalTitle: u.ProfessionalTitle,
		ClinicName:        u.ClinicName,
		ProfilePictureURL: u.ProfilePictureURL,
	}
}

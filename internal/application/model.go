// File: internal/application/model.go
package application

import (
	"time"

	"dentalhub_backend/internal/common"
	"dentalhub_backend/internal/content"

	"github.com/google/uuid"
)

// Application is a professor verification request. Approving one through the
// moderation workflow promotes the applicant to the professor role.
type Application struct {
	common.BaseModel
	ApplicantID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"applicant_id"`
	LicenseNumber     string         `gorm:"type:varchar(100);not null" json:"license_number"`
	ProfessionalTitle string         `gorm:"type:varchar(150);not null" json:"professional_title"`
	ClinicName        *string        `gorm:"type:varchar(255)" json:"clinic_name,omitempty"`
	DocumentURL       string         `gorm:"type:varchar(512);not null" json:"document_url"`
	Statement         *string        `gorm:"type:text" json:"statement,omitempty"`
	Status            content.Status `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Version           int64          `gorm:"not null;default:1" json:"version"`
}

func (Application) TableName() string {
	return "professor_applications"
}

// ToItem returns the moderation snapshot of the application. The title is
// synthesized since applications have no user-facing title of their own.
func (a *Application) ToItem() *content.Item {
	return &content.Item{
		ID:      a.ID,
		Kind:    content.KindApplication,
		OwnerID: a.ApplicantID,
		Title:   "Professor verification application",
		Status:  a.Status,
		Version: a.Version,
	}
}

// --- DTOs for API requests/responses ---

type SubmitApplicationRequest struct {
	LicenseNumber     string  `json:"license_number" binding:"required,min=3,max=100"`
	ProfessionalTitle string  `json:"professional_title" binding:"required,min=2,max=150"`
	ClinicName        *string `json:"clinic_name,omitempty" binding:"omitempty,max=255"`
	DocumentURL       string  `json:"document_url" binding:"required,url,max=512"`
	Statement         *string `json:"statement,omitempty" binding:"omitempty,max=4000"`
}

type ApplicationResponse struct {
	ID                uuid.UUID      `json:"id"`
	ApplicantID       uuid.UUID      `json:"applicant_id"`
	LicenseNumber     string         `json:"license_number"`
	ProfessionalTitle string         `json:"professional_title"`
	ClinicName        *string        `json:"clinic_name,omitempty"`
	DocumentURL       string         `json:"document_url"`
	Statement         *string        `json:"statement,omitempty"`
	Status            content.Status `json:"status"`
	Version           int64          `json:"version"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

// ToApplicationResponse converts an Application model to its API representation.
func ToApplicationResponse(a *Application) ApplicationResponse {
	return ApplicationResponse{
		ID:                a.ID,
		ApplicantID:       a.ApplicantID,
		LicenseNumber:     a.LicenseNumber,
		ProfessionalTitle: a.ProfessionalTitle,
		ClinicName:        a.ClinicName,
		DocumentURL:       a.DocumentURL,
		Statement:         a.Statement,
		Status:            a.Status,
		Version:           a.Version,
		CreatedAt:         a.CreatedAt,
		UpdatedAt:         a.UpdatedAt,
	}
}

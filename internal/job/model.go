// File: internal/job/model.go
package job

import (
	"time"

	"dentalhub_backend/internal/common"
	"dentalhub_backend/internal/content"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Posting is a position advertised on the job board. Postings go through
// the same approval workflow as other member content and drop out of the
// public board once their expiry passes.
type Posting struct {
	common.BaseModel
	OwnerID        uuid.UUID      `gorm:"type:uuid;not null;index" json:"owner_id"`
	Title          string         `gorm:"type:varchar(255);not null" json:"title"`
	Description    string         `gorm:"type:text;not null" json:"description"`
	ClinicName     *string        `gorm:"type:varchar(255)" json:"clinic_name,omitempty"`
	Location       *string        `gorm:"type:varchar(255)" json:"location,omitempty"`
	EmploymentType string         `gorm:"type:varchar(50);not null" json:"employment_type"`
	SalaryRange    *string        `gorm:"type:varchar(100)" json:"salary_range,omitempty"`
	Specialties    pq.StringArray `gorm:"type:text[]" json:"specialties,omitempty"`
	ExpiresAt      *time.Time     `gorm:"index" json:"expires_at,omitempty"`
	Status         content.Status `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Version        int64          `gorm:"not null;default:1" json:"version"`
}

func (Posting) TableName() string {
	return "job_postings"
}

// ToItem returns the moderation snapshot of the posting.
func (p *Posting) ToItem() *content.Item {
	return &content.Item{
		ID:      p.ID,
		Kind:    content.KindJob,
		OwnerID: p.OwnerID,
		Title:   p.Title,
		Status:  p.Status,
		Version: p.Version,
	}
}

// --- DTOs for API requests/responses ---

type CreatePostingRequest struct {
	Title          string   `json:"title" binding:"required,min=3,max=255"`
	Description    string   `json:"description" binding:"required,min=10"`
	ClinicName     *string  `json:"clinic_name,omitempty" binding:"omitempty,max=255"`
	Location       *string  `json:"location,omitempty" binding:"omitempty,max=255"`
	EmploymentType string   `json:"employment_type" binding:"required,oneof=full_time part_time contract temporary"`
	SalaryRange    *string  `json:"salary_range,omitempty" binding:"omitempty,max=100"`
	Specialties    []string `json:"specialties,omitempty" binding:"omitempty,max=10,dive,min=2,max=100"`
	ExpiresAt      *string  `json:"expires_at,omitempty" binding:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

type UpdatePostingRequest struct {
	Title          *string  `json:"title,omitempty" binding:"omitempty,min=3,max=255"`
	Description    *string  `json:"description,omitempty" binding:"omitempty,min=10"`
	ClinicName     *string  `json:"clinic_name,omitempty" binding:"omitempty,max=255"`
	Location       *string  `json:"location,omitempty" binding:"omitempty,max=255"`
	EmploymentType *string  `json:"employment_type,omitempty" binding:"omitempty,oneof=full_time part_time contract temporary"`
	SalaryRange    *string  `json:"salary_range,omitempty" binding:"omitempty,max=100"`
	Specialties    []string `json:"specialties,omitempty" binding:"omitempty,max=10,dive,min=2,max=100"`
	ExpiresAt      *string  `json:"expires_at,omitempty" binding:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

type PostingResponse struct {
	ID             uuid.UUID      `json:"id"`
	OwnerID        uuid.UUID      `json:"owner_id"`
	Title          string         `json:"title"`
	Description    string         `json:"description"`
	ClinicName     *string        `json:"clinic_name,omitempty"`
	Location       *string        `json:"location,omitempty"`
	EmploymentType string         `json:"employment_type"`
	SalaryRange    *string        `json:"salary_range,omitempty"`
	Specialties    []string       `json:"specialties,omitempty"`
	ExpiresAt      *time.Time     `json:"expires_at,omitempty"`
	Status         content.Status `json:"status"`
	Version        int64          `json:"version"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// ToPostingResponse converts a Posting model to its API representation.
func ToPostingResponse(p *Posting) PostingResponse {
	return PostingResponse{
		ID:             p.ID,
		OwnerID:        p.OwnerID,
		Title:          p.Title,
		Description:    p.Description,
		ClinicName:     p.ClinicName,
		Location:       p.Location,
		EmploymentType: p.EmploymentType,
		SalaryRange:    p.SalaryRange,
		Specialties:    p.Specialties,
		ExpiresAt:      p.ExpiresAt,
		Status:         p.Status,
		Version:        p.Version,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

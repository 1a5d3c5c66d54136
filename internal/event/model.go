// File: internal/event/model.go
package event

import (
	"time"

	"dentalhub_backend/internal/common"
	"dentalhub_backend/internal/content"

	"github.com/google/uuid"
)

// Event is a conference, course or meetup announced by a member. Like all
// member content it needs moderator approval before it becomes visible;
// once its end time passes, the lifecycle job archives it out of the
// public feed.
type Event struct {
	common.BaseModel
	OwnerID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"owner_id"`
	Title       string         `gorm:"type:varchar(255);not null" json:"title"`
	Description string         `gorm:"type:text;not null" json:"description"`
	Location    *string        `gorm:"type:varchar(255)" json:"location,omitempty"`
	IsOnline    bool           `gorm:"not null;default:false" json:"is_online"`
	StartsAt    time.Time      `gorm:"not null;index" json:"starts_at"`
	EndsAt      time.Time      `gorm:"not null;index" json:"ends_at"`
	Status      content.Status `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Version     int64          `gorm:"not null;default:1" json:"version"`
	IsArchived  bool           `gorm:"not null;default:false;index" json:"is_archived"`
}

func (Event) TableName() string {
	return "events"
}

// ToItem returns the moderation snapshot of the event.
func (e *Event) ToItem() *content.Item {
	return &content.Item{
		ID:      e.ID,
		Kind:    content.KindEvent,
		OwnerID: e.OwnerID,
		Title:   e.Title,
		Status:  e.Status,
		Version: e.Version,
	}
}

// --- DTOs for API requests/responses ---

type CreateEventRequest struct {
	Title       string  `json:"title" binding:"required,min=3,max=255"`
	Description string  `json:"description" binding:"required,min=10"`
	Location    *string `json:"location,omitempty" binding:"omitempty,max=255"`
	IsOnline    bool    `json:"is_online"`
	StartsAt    string  `json:"starts_at" binding:"required,datetime=2006-01-02T15:04:05Z07:00"`
	EndsAt      string  `json:"ends_at" binding:"required,datetime=2006-01-02T15:04:05Z07:00"`
}

type UpdateEventRequest struct {
	Title       *string `json:"title,omitempty" binding:"omitempty,min=3,max=255"`
	Description *string `json:"description,omitempty" binding:"omitempty,min=10"`
	Location    *string `json:"location,omitempty" binding:"omitempty,max=255"`
	IsOnline    *bool   `json:"is_online,omitempty"`
	StartsAt    *string `json:"starts_at,omitempty" binding:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	EndsAt      *string `json:"ends_at,omitempty" binding:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

type EventResponse struct {
	ID          uuid.UUID      `json:"id"`
	OwnerID     uuid.UUID      `json:"owner_id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Location    *string        `json:"location,omitempty"`
	IsOnline    bool           `json:"is_online"`
	StartsAt    time.Time      `json:"starts_at"`
	EndsAt      time.Time      `json:"ends_at"`
	Status      content.Status `json:"status"`
	Version     int64          `json:"version"`
	IsArchived  bool           `json:"is_archived"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// ToEventResponse converts an Event model to its API representation.
func ToEventResponse(e *Event) EventResponse {
	return EventResponse{
		ID:          e.ID,
		OwnerID:     e.OwnerID,
		Title:       e.Title,
		Description: e.Description,
		Location:    e.Location,
		IsOnline:    e.IsOnline,
		StartsAt:    e.StartsAt,
		EndsAt:      e.EndsAt,
		Status:      e.Status,
		Version:     e.Version,
		IsArchived:  e.IsArchived,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

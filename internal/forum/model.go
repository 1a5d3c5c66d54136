// File: internal/forum/model.go
package forum

import (
	"time"

	"dentalhub_backend/internal/common"
	"dentalhub_backend/internal/content"

	"github.com/google/uuid"
)

// Thread is a discussion topic on the professional forum. Threads are
// moderated like every other member content kind; reply bookkeeping lives
// on the thread row itself.
type Thread struct {
	common.BaseModel
	OwnerID        uuid.UUID      `gorm:"type:uuid;not null;index" json:"owner_id"`
	Title          string         `gorm:"type:varchar(255);not null" json:"title"`
	Body           string         `gorm:"type:text;not null" json:"body"`
	Topic          *string        `gorm:"type:varchar(100);index" json:"topic,omitempty"`
	ReplyCount     int64          `gorm:"not null;default:0" json:"reply_count"`
	LastActivityAt time.Time      `gorm:"not null;index" json:"last_activity_at"`
	Status         content.Status `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Version        int64          `gorm:"not null;default:1" json:"version"`
}

func (Thread) TableName() string {
	return "forum_threads"
}

// ToItem returns the moderation snapshot of the thread.
func (t *Thread) ToItem() *content.Item {
	return &content.Item{
		ID:      t.ID,
		Kind:    content.KindThread,
		OwnerID: t.OwnerID,
		Title:   t.Title,
		Status:  t.Status,
		Version: t.Version,
	}
}

// --- DTOs for API requests/responses ---

type CreateThreadRequest struct {
	Title string  `json:"title" binding:"required,min=3,max=255"`
	Body  string  `json:"body" binding:"required,min=10"`
	Topic *string `json:"topic,omitempty" binding:"omitempty,max=100"`
}

type UpdateThreadRequest struct {
	Title *string `json:"title,omitempty" binding:"omitempty,min=3,max=255"`
	Body  *string `json:"body,omitempty" binding:"omitempty,min=10"`
	Topic *string `json:"topic,omitempty" binding:"omitempty,max=100"`
}

type ThreadResponse struct {
	ID             uuid.UUID      `json:"id"`
	OwnerID        uuid.UUID      `json:"owner_id"`
	Title          string         `json:"title"`
	Body           string         `json:"body"`
	Topic          *string        `json:"topic,omitempty"`
	ReplyCount     int64          `json:"reply_count"`
	LastActivityAt time.Time      `json:"last_activity_at"`
	Status         content.Status `json:"status"`
	Version        int64          `json:"version"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// ToThreadResponse converts a Thread model to its API representation.
func ToThreadResponse(t *Thread) ThreadResponse {
	return ThreadResponse{
		ID:             t.ID,
		OwnerID:        t.OwnerID,
		Title:          t.Title,
		Body:           t.Body,
		Topic:          t.Topic,
		ReplyCount:     t.ReplyCount,
		LastActivityAt: t.LastActivityAt,
		Status:         t.Status,
		Version:        t.Version,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
}

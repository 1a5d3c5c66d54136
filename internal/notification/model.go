// File: internal/notification/model.go
package notification

import (
	"fmt"
	"time"

	"dentalhub_backend/internal/content"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Type defines the type of notification.
type Type string

const (
	// General announcements not tied to a moderation decision.
	TypeGeneral Type = "general"
	// Sent to an applicant when their professor verification application arrives.
	TypeApplicationReceived Type = "application_received"
)

// TypeForDecision builds the notification type for a moderation outcome,
// e.g. "article_approved" or "thread_deleted".
func TypeForDecision(kind content.Kind, outcome string) Type {
	return Type(fmt.Sprintf("%s_%s", kind, outcome))
}

// Notification represents a user notification. Rows are immutable except for
// the is_read flag. The item reference is a snapshot (kind, id, title taken
// at decision time) so the notification stays meaningful after the related
// item is deleted.
type Notification struct {
	ID            uuid.UUID     `gorm:"type:uuid;primary_key" json:"id"`
	UserID        uuid.UUID     `gorm:"type:uuid;not null;index:idx_notification_user_status" json:"user_id"`
	Type          Type          `gorm:"type:varchar(100);not null" json:"type"`
	Message       string        `gorm:"type:text;not null" json:"message"`
	Reason        *string       `gorm:"type:text" json:"reason,omitempty"`
	ItemKind      *content.Kind `gorm:"type:varchar(50)" json:"item_kind,omitempty"`
	RelatedItemID *uuid.UUID    `gorm:"type:uuid" json:"related_item_id,omitempty"`
	ItemTitle     *string       `gorm:"type:varchar(255)" json:"item_title,omitempty"`
	IsRead        bool          `gorm:"not null;default:false;index:idx_notification_user_status" json:"is_read"`
	CreatedAt     time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP;index:idx_notification_user_status" json:"created_at"`
}

// TableName specifies the table name for GORM.
func (Notification) TableName() string {
	return "notifications"
}

// BeforeCreate assigns a UUID when the database does not (sqlite in tests).
func (n *Notification) BeforeCreate(_ *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}

// NewDecisionNotification builds an unsaved notification for a moderation
// decision on the given item snapshot.
func NewDecisionNotification(item *content.Item, outcome string, message string, reason *string) *Notification {
	kind := item.Kind
	itemID := item.ID
	title := item.Title
	return &Notification{
		ID:            uuid.New(),
		UserID:        item.OwnerID,
		Type:          TypeForDecision(kind, outcome),
		Message:       message,
		Reason:        reason,
		ItemKind:      &kind,
		RelatedItemID: &itemID,
		ItemTitle:     &title,
	}
}

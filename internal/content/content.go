// File: internal/content/content.go
package content

import (
	"github.com/google/uuid"
)

// Kind identifies a moderatable content collection.
type Kind string

const (
	KindArticle     Kind = "article"
	KindEvent       Kind = "event"
	KindJob         Kind = "job"
	KindThread      Kind = "thread"
	KindApplication Kind = "application"
)

// IsValid reports whether k names a known content kind.
func (k Kind) IsValid() bool {
	switch k {
	case KindArticle, KindEvent, KindJob, KindThread, KindApplication:
		return true
	}
	return false
}

// Status is the moderation state of a content item.
// Owner edits reset an item to StatusPending; only the moderation
// workflow moves it to approved or rejected.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Item is a moderation snapshot of a content row. It carries just enough
// for the workflow to act and for a notification to identify the item
// after the row itself may be gone.
type Item struct {
	ID      uuid.UUID
	Kind    Kind
	OwnerID uuid.UUID
	Title   string
	Status  Status
	Version int64
}

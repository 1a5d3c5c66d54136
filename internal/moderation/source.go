// File: internal/moderation/source.go
package moderation

import (
	"context"

	"dentalhub_backend/internal/content"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Source exposes one content collection to the moderation workflow. Each
// content module registers its own implementation, so the workflow never
// imports the modules it moderates.
type Source interface {
	// Kind names the collection this source serves.
	Kind() content.Kind

	// Snapshot returns the moderation view of an item, including its
	// current version stamp. Returns common.ErrNotFound when missing.
	Snapshot(ctx context.Context, id uuid.UUID) (*content.Item, error)

	// UpdateStatus sets the item status if and only if the stored version
	// still matches the given one, bumping the version on success. It runs
	// on the caller's transaction and returns the number of rows changed;
	// zero means the item is gone or was modified concurrently.
	UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, version int64, status content.Status) (int64, error)

	// HardDelete removes the item row on the caller's transaction and
	// returns the number of rows deleted.
	HardDelete(ctx context.Context, tx *gorm.DB, id uuid.UUID) (int64, error)
}

// Decision is the outcome of a moderation action.
type Decision string

const (
	DecisionApproved Decision = "approved"
	DecisionRejected Decision = "rejected"
	DecisionDeleted  Decision = "deleted"
)

// DecisionHook runs after a moderation decision has committed. Hook failures
// are logged and never undo the decision.
type DecisionHook func(ctx context.Context, item *content.Item, decision Decision) error

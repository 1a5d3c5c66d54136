// File: internal/moderation/service.go
package moderation

import (
	"context"
	"fmt"
	"strings"

	"dentalhub_backend/internal/common"
	"dentalhub_backend/internal/content"
	"dentalhub_backend/internal/notification"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service runs the moderation workflow. Every decision updates the item and
// inserts the owner's notification in a single database transaction, so a
// notification exists if and only if the decision committed.
type Service struct {
	db           *gorm.DB
	notifService notification.Service
	logger       *zap.Logger
	sources      map[content.Kind]Source
	hooks        map[content.Kind][]DecisionHook
}

// NewService creates a new moderation service. Content modules register
// their sources and hooks before the server starts serving requests.
func NewService(db *gorm.DB, notifService notification.Service, logger *zap.Logger) *Service {
	return &Service{
		db:           db,
		notifService: notifService,
		logger:       logger,
		sources:      make(map[content.Kind]Source),
		hooks:        make(map[content.Kind][]DecisionHook),
	}
}

// RegisterSource attaches a content collection to the workflow.
func (s *Service) RegisterSource(src Source) {
	s.sources[src.Kind()] = src
}

// RegisterHook attaches an after-commit hook for a content kind.
func (s *Service) RegisterHook(kind content.Kind, hook DecisionHook) {
	s.hooks[kind] = append(s.hooks[kind], hook)
}

// Approve marks an item approved and notifies its owner. Approving an
// already-approved item succeeds and produces another notification; the
// feed is at-least-once and performs no deduplication.
func (s *Service) Approve(ctx context.Context, kind content.Kind, itemID uuid.UUID, version *int64, adminID uuid.UUID) (*content.Item, error) {
	return s.decide(ctx, kind, itemID, version, adminID, DecisionApproved, content.StatusApproved, nil)
}

// Reject marks an item rejected and notifies its owner with the reason.
// The reason is mandatory.
func (s *Service) Reject(ctx context.Context, kind content.Kind, itemID uuid.UUID, version *int64, reason string, adminID uuid.UUID) (*content.Item, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, common.NewValidationAPIError(map[string]string{"reason": "A rejection reason is required."})
	}
	return s.decide(ctx, kind, itemID, version, adminID, DecisionRejected, content.StatusRejected, &reason)
}

// Remove hard-deletes an item and notifies its owner with the reason. The
// notification is inserted in the same transaction as the delete, so the
// owner always learns why their content disappeared.
func (s *Service) Remove(ctx context.Context, kind content.Kind, itemID uuid.UUID, version *int64, reason string, adminID uuid.UUID) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return common.NewValidationAPIError(map[string]string{"reason": "A removal reason is required."})
	}

	src, ok := s.sources[kind]
	if !ok {
		return common.ErrBadRequest.WithDetails(fmt.Sprintf("Unknown content kind %q.", kind))
	}

	item, err := src.Snapshot(ctx, itemID)
	if err != nil {
		return err
	}
	expectedVersion := item.Version
	if version != nil {
		expectedVersion = *version
	}
	if expectedVersion != item.Version {
		return common.ErrConflict.WithDetails("The item was modified by someone else. Review the latest state and retry.")
	}

	notif := notification.NewDecisionNotification(item, string(DecisionDeleted),
		fmt.Sprintf("Your %s %q was removed by a moderator.", item.Kind, item.Title), &reason)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.notifService.CreateInTx(ctx, tx, notif); err != nil {
			return err
		}
		rows, err := src.HardDelete(ctx, tx, itemID)
		if err != nil {
			return err
		}
		if rows == 0 {
			return common.ErrNotFound.WithDetails(fmt.Sprintf("The %s no longer exists.", kind))
		}
		return nil
	})
	if err != nil {
		if _, ok := common.IsAPIError(err); ok {
			return err
		}
		s.logger.Error("Moderation removal failed",
			zap.String("kind", string(kind)),
			zap.String("itemID", itemID.String()),
			zap.String("adminID", adminID.String()),
			zap.Error(err))
		return common.ErrInternalServer.WithDetails("Could not remove the item.")
	}

	s.logger.Info("Content removed by moderator",
		zap.String("kind", string(kind)),
		zap.String("itemID", itemID.String()),
		zap.String("ownerID", item.OwnerID.String()),
		zap.String("adminID", adminID.String()))

	s.notifService.AnnounceCreated(notif)
	s.runHooks(ctx, item, DecisionDeleted)
	return nil
}

// decide runs the shared approve/reject path: a version-checked status
// update plus the owner notification, committed atomically.
func (s *Service) decide(ctx context.Context, kind content.Kind, itemID uuid.UUID, version *int64, adminID uuid.UUID, decision Decision, status content.Status, reason *string) (*content.Item, error) {
	src, ok := s.sources[kind]
	if !ok {
		return nil, common.ErrBadRequest.WithDetails(fmt.Sprintf("Unknown content kind %q.", kind))
	}

	item, err := src.Snapshot(ctx, itemID)
	if err != nil {
		return nil, err
	}
	expectedVersion := item.Version
	if version != nil {
		expectedVersion = *version
	}

	notif := notification.NewDecisionNotification(item, string(decision), decisionMessage(item, decision), reason)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rows, err := src.UpdateStatus(ctx, tx, itemID, expectedVersion, status)
		if err != nil {
			return err
		}
		if rows == 0 {
			// Distinguish a stale version from a vanished row.
			if _, snapErr := src.Snapshot(ctx, itemID); snapErr != nil {
				return snapErr
			}
			return common.ErrConflict.WithDetails("The item was modified by someone else. Review the latest state and retry.")
		}
		return s.notifService.CreateInTx(ctx, tx, notif)
	})
	if err != nil {
		if _, ok := common.IsAPIError(err); ok {
			return nil, err
		}
		s.logger.Error("Moderation decision failed",
			zap.String("kind", string(kind)),
			zap.String("itemID", itemID.String()),
			zap.String("decision", string(decision)),
			zap.String("adminID", adminID.String()),
			zap.Error(err))
		return nil, common.ErrInternalServer.WithDetails("Could not apply the moderation decision.")
	}

	s.logger.Info("Moderation decision applied",
		zap.String("kind", string(kind)),
		zap.String("itemID", itemID.String()),
		zap.String("decision", string(decision)),
		zap.String("ownerID", item.OwnerID.String()),
		zap.String("adminID", adminID.String()))

	s.notifService.AnnounceCreated(notif)

	item.Status = status
	item.Version = expectedVersion + 1
	s.runHooks(ctx, item, decision)
	return item, nil
}

// runHooks executes the after-commit hooks for a kind. A failing hook is
// logged and does not affect the committed decision.
func (s *Service) runHooks(ctx context.Context, item *content.Item, decision Decision) {
	for _, hook := range s.hooks[item.Kind] {
		if err := hook(ctx, item, decision); err != nil {
			s.logger.Error("Moderation decision hook failed",
				zap.String("kind", string(item.Kind)),
				zap.String("itemID", item.ID.String()),
				zap.String("decision", string(decision)),
				zap.Error(err))
		}
	}
}

func decisionMessage(item *content.Item, decision Decision) string {
	switch decision {
	case DecisionApproved:
		return fmt.Sprintf("Your %s %q was approved and is now visible.", item.Kind, item.Title)
	case DecisionRejected:
		return fmt.Sprintf("Your %s %q was rejected.", item.Kind, item.Title)
	case DecisionDeleted:
		return fmt.Sprintf("Your %s %q was removed by a moderator.", item.Kind, item.Title)
	}
	return fmt.Sprintf("Your %s %q was reviewed.", item.Kind, item.Title)
}

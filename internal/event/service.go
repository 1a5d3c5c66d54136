// File: internal/event/service.go
package event

import (
	"context"
	"time"

	"dentalhub_backend/internal/common"
	"dentalhub_backend/internal/content"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service implements the event business logic.
type Service struct {
	repo   Repository
	logger *zap.Logger
}

// NewService creates a new event service.
func NewService(repo Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// CreateEvent creates a pending event for the given owner.
func (s *Service) CreateEvent(ctx context.Context, ownerID uuid.UUID, req CreateEventRequest) (*Event, error) {
	startsAt, endsAt, err := parseEventTimes(req.StartsAt, req.EndsAt)
	if err != nil {
		return nil, err
	}

	event := &Event{
		OwnerID:     ownerID,
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		IsOnline:    req.IsOnline,
		StartsAt:    startsAt,
		EndsAt:      endsAt,
		Status:      content.StatusPending,
		Version:     1,
	}
	if err := s.repo.Create(ctx, event); err != nil {
		s.logger.Error("Failed to create event", zap.Error(err))
		return nil, common.ErrInternalServer.WithDetails("Could not create event.")
	}
	return event, nil
}

// UpdateEvent applies an owner edit and resets the event to pending.
func (s *Service) UpdateEvent(ctx context.Context, eventID, ownerID uuid.UUID, req UpdateEventRequest) (*Event, error) {
	event, err := s.repo.FindByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.OwnerID != ownerID {
		return nil, common.ErrForbidden.WithDetails("You can only edit your own events.")
	}

	if req.Title != nil {
		event.Title = *req.Title
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.Location != nil {
		event.Location = req.Location
	}
	if req.IsOnline != nil {
		event.IsOnline = *req.IsOnline
	}
	if req.StartsAt != nil {
		startsAt, err := time.Parse(time.RFC3339, *req.StartsAt)
		if err != nil {
			return nil, common.ErrBadRequest.WithDetails("Invalid starts_at timestamp.")
		}
		event.StartsAt = startsAt
	}
	if req.EndsAt != nil {
		endsAt, err := time.Parse(time.RFC3339, *req.EndsAt)
		if err != nil {
			return nil, common.ErrBadRequest.WithDetails("Invalid ends_at timestamp.")
		}
		event.EndsAt = endsAt
	}
	if !event.EndsAt.After(event.StartsAt) {
		return nil, common.NewValidationAPIError(map[string]string{"ends_at": "The event must end after it starts."})
	}

	event.Status = content.StatusPending
	event.Version++
	event.IsArchived = false

	if err := s.repo.Update(ctx, event); err != nil {
		s.logger.Error("Failed to update event",
			zap.String("eventID", eventID.String()), zap.Error(err))
		return nil, common.ErrInternalServer.WithDetails("Could not update event.")
	}
	return event, nil
}

// DeleteEvent removes an owner's event.
func (s *Service) DeleteEvent(ctx context.Context, eventID, ownerID uuid.UUID) error {
	if err := s.repo.Delete(ctx, eventID, ownerID); err != nil {
		if _, ok := common.IsAPIError(err); ok {
			return err
		}
		s.logger.Error("Failed to delete event",
			zap.String("eventID", eventID.String()), zap.Error(err))
		return common.ErrInternalServer.WithDetails("Could not delete event.")
	}
	return nil
}

// ListUpcoming returns the public feed of approved, unarchived events.
func (s *Service) ListUpcoming(ctx context.Context, page, pageSize int) ([]EventResponse, *common.Pagination, error) {
	events, pagination, err := s.repo.ListUpcoming(ctx, page, pageSize)
	if err != nil {
		s.logger.Error("Failed to list upcoming events", zap.Error(err))
		return nil, nil, common.ErrInternalServer.WithDetails("Could not retrieve events.")
	}
	return toResponses(events), pagination, nil
}

// ListMine returns the owner's events in every status.
func (s *Service) ListMine(ctx context.Context, ownerID uuid.UUID, page, pageSize int) ([]EventResponse, *common.Pagination, error) {
	events, pagination, err := s.repo.ListByOwner(ctx, ownerID, page, pageSize)
	if err != nil {
		s.logger.Error("Failed to list owner events",
			zap.String("ownerID", ownerID.String()), zap.Error(err))
		return nil, nil, common.ErrInternalServer.WithDetails("Could not retrieve events.")
	}
	return toResponses(events), pagination, nil
}

// ArchivePast flags ended events; invoked by the lifecycle job.
func (s *Service) ArchivePast(ctx context.Context) (int64, error) {
	return s.repo.ArchivePastEvents(ctx, time.Now().UTC())
}

func parseEventTimes(startsAtStr, endsAtStr string) (time.Time, time.Time, error) {
	startsAt, err := time.Parse(time.RFC3339, startsAtStr)
	if err != nil {
		return time.Time{}, time.Time{}, common.ErrBadRequest.WithDetails("Invalid starts_at timestamp.")
	}
	endsAt, err := time.Parse(time.RFC3339, endsAtStr)
	if err != nil {
		return time.Time{}, time.Time{}, common.ErrBadRequest.WithDetails("Invalid ends_at timestamp.")
	}
	if !endsAt.After(startsAt) {
		return time.Time{}, time.Time{}, common.NewValidationAPIError(map[string]string{"ends_at": "The event must end after it starts."})
	}
	return startsAt, endsAt, nil
}

func toResponses(events []Event) []EventResponse {
	responses := make([]EventResponse, len(events))
	for i := range events {
		responses[i] = ToEventResponse(&events[i])
	}
	return responses
}

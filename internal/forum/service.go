// File: internal/forum/service.go
package forum

import (
	"context"
	"time"

	"dentalhub_backend/internal/common"
	"dentalhub_backend/internal/content"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service implements the forum business logic.
type Service struct {
	repo   Repository
	logger *zap.Logger
}

// NewService creates a new forum service.
func NewService(repo Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// CreateThread creates a pending thread for the given owner.
func (s *Service) CreateThread(ctx context.Context, ownerID uuid.UUID, req CreateThreadRequest) (*Thread, error) {
	thread := &Thread{
		OwnerID:        ownerID,
		Title:          req.Title,
		Body:           req.Body,
		Topic:          req.Topic,
		LastActivityAt: time.Now().UTC(),
		Status:         content.StatusPending,
		Version:        1,
	}
	if err := s.repo.Create(ctx, thread); err != nil {
		s.logger.Error("Failed to create thread", zap.Error(err))
		return nil, common.ErrInternalServer.WithDetails("Could not create thread.")
	}
	return thread, nil
}

// UpdateThread applies an owner edit and resets the thread to pending.
func (s *Service) UpdateThread(ctx context.Context, threadID, ownerID uuid.UUID, req UpdateThreadRequest) (*Thread, error) {
	thread, err := s.repo.FindByID(ctx, threadID)
	if err != nil {
		return nil, err
	}
	if thread.OwnerID != ownerID {
		return nil, common.ErrForbidden.WithDetails("You can only edit your own threads.")
	}

	if req.Title != nil {
		thread.Title = *req.Title
	}
	if req.Body != nil {
		thread.Body = *req.Body
	}
	if req.Topic != nil {
		thread.Topic = req.Topic
	}

	thread.Status = content.StatusPending
	thread.Version++
	thread.LastActivityAt = time.Now().UTC()

	if err := s.repo.Update(ctx, thread); err != nil {
		s.logger.Error("Failed to update thread",
			zap.String("threadID", threadID.String()), zap.Error(err))
		return nil, common.ErrInternalServer.WithDetails("Could not update thread.")
	}
	return thread, nil
}

// DeleteThread removes an owner's thread.
func (s *Service) DeleteThread(ctx context.Context, threadID, ownerID uuid.UUID) error {
	if err := s.repo.Delete(ctx, threadID, ownerID); err != nil {
		if _, ok := common.IsAPIError(err); ok {
			return err
		}
		s.logger.Error("Failed to delete thread",
			zap.String("threadID", threadID.String()), zap.Error(err))
		return common.ErrInternalServer.WithDetails("Could not delete thread.")
	}
	return nil
}

// GetThread returns a single thread. Threads that are not approved are only
// visible to their owner and to admins; everyone else gets a not-found.
func (s *Service) GetThread(ctx context.Context, threadID uuid.UUID, viewerID uuid.UUID, viewerRole string) (*Thread, error) {
	thread, err := s.repo.FindByID(ctx, threadID)
	if err != nil {
		return nil, err
	}
	if thread.Status != content.StatusApproved &&
		thread.OwnerID != viewerID && viewerRole != common.RoleAdmin {
		return nil, common.ErrNotFound.WithDetails("Thread not found.")
	}
	return thread, nil
}

// ListApproved returns the public forum listing, most recently active first.
func (s *Service) ListApproved(ctx context.Context, topic string, page, pageSize int) ([]ThreadResponse, *common.Pagination, error) {
	threads, pagination, err := s.repo.ListApproved(ctx, topic, page, pageSize)
	if err != nil {
		s.logger.Error("Failed to list approved threads", zap.Error(err))
		return nil, nil, common.ErrInternalServer.WithDetails("Could not retrieve threads.")
	}
	return toResponses(threads), pagination, nil
}

// ListMine returns the owner's threads in every status.
func (s *Service) ListMine(ctx context.Context, ownerID uuid.UUID, page, pageSize int) ([]ThreadResponse, *common.Pagination, error) {
	threads, pagination, err := s.repo.ListByOwner(ctx, ownerID, page, pageSize)
	if err != nil {
		s.logger.Error("Failed to list owner threads",
			zap.String("ownerID", ownerID.String()), zap.Error(err))
		return nil, nil, common.ErrInternalServer.WithDetails("Could not retrieve threads.")
	}
	return toResponses(threads), pagination, nil
}

func toResponses(threads []Thread) []ThreadResponse {
	responses := make([]ThreadResponse, len(threads))
	for i := range threads {
		responses[i] = ToThreadResponse(&threads[i])
	}
	return responses
}

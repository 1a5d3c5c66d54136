// File: internal/job/service.go
package job

import (
	"context"
	"time"

	"dentalhub_backend/internal/common"
	"dentalhub_backend/internal/content"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service implements the job board business logic.
type Service struct {
	repo   Repository
	logger *zap.Logger
}

// NewService creates a new job posting service.
func NewService(repo Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// CreatePosting creates a pending job posting for the given owner.
func (s *Service) CreatePosting(ctx context.Context, ownerID uuid.UUID, req CreatePostingRequest) (*Posting, error) {
	expiresAt, err := parseExpiry(req.ExpiresAt)
	if err != nil {
		return nil, err
	}

	posting := &Posting{
		OwnerID:        ownerID,
		Title:          req.Title,
		Description:    req.Description,
		ClinicName:     req.ClinicName,
		Location:       req.Location,
		EmploymentType: req.EmploymentType,
		SalaryRange:    req.SalaryRange,
		Specialties:    req.Specialties,
		ExpiresAt:      expiresAt,
		Status:         content.StatusPending,
		Version:        1,
	}
	if err := s.repo.Create(ctx, posting); err != nil {
		s.logger.Error("Failed to create job posting", zap.Error(err))
		return nil, common.ErrInternalServer.WithDetails("Could not create job posting.")
	}
	return posting, nil
}

// UpdatePosting applies an owner edit and resets the posting to pending.
func (s *Service) UpdatePosting(ctx context.Context, postingID, ownerID uuid.UUID, req UpdatePostingRequest) (*Posting, error) {
	posting, err := s.repo.FindByID(ctx, postingID)
	if err != nil {
		return nil, err
	}
	if posting.OwnerID != ownerID {
		return nil, common.ErrForbidden.WithDetails("You can only edit your own job postings.")
	}

	if req.Title != nil {
		posting.Title = *req.Title
	}
	if req.Description != nil {
		posting.Description = *req.Description
	}
	if req.ClinicName != nil {
		posting.ClinicName = req.ClinicName
	}
	if req.Location != nil {
		posting.Location = req.Location
	}
	if req.EmploymentType != nil {
		posting.EmploymentType = *req.EmploymentType
	}
	if req.SalaryRange != nil {
		posting.SalaryRange = req.SalaryRange
	}
	if req.Specialties != nil {
		posting.Specialties = req.Specialties
	}
	if req.ExpiresAt != nil {
		expiresAt, err := parseExpiry(req.ExpiresAt)
		if err != nil {
			return nil, err
		}
		posting.ExpiresAt = expiresAt
	}

	posting.Status = content.StatusPending
	posting.Version++

	if err := s.repo.Update(ctx, posting); err != nil {
		s.logger.Error("Failed to update job posting",
			zap.String("postingID", postingID.String()), zap.Error(err))
		return nil, common.ErrInternalServer.WithDetails("Could not update job posting.")
	}
	return posting, nil
}

// DeletePosting removes an owner's job posting.
func (s *Service) DeletePosting(ctx context.Context, postingID, ownerID uuid.UUID) error {
	if err := s.repo.Delete(ctx, postingID, ownerID); err != nil {
		if _, ok := common.IsAPIError(err); ok {
			return err
		}
		s.logger.Error("Failed to delete job posting",
			zap.String("postingID", postingID.String()), zap.Error(err))
		return common.ErrInternalServer.WithDetails("Could not delete job posting.")
	}
	return nil
}

// ListOpen returns the public board of approved, unexpired postings.
func (s *Service) ListOpen(ctx context.Context, page, pageSize int) ([]PostingResponse, *common.Pagination, error) {
	postings, pagination, err := s.repo.ListOpen(ctx, time.Now().UTC(), page, pageSize)
	if err != nil {
		s.logger.Error("Failed to list open job postings", zap.Error(err))
		return nil, nil, common.ErrInternalServer.WithDetails("Could not retrieve job postings.")
	}
	return toResponses(postings), pagination, nil
}

// ListMine returns the owner's postings in every status.
func (s *Service) ListMine(ctx context.Context, ownerID uuid.UUID, page, pageSize int) ([]PostingResponse, *common.Pagination, error) {
	postings, pagination, err := s.repo.ListByOwner(ctx, ownerID, page, pageSize)
	if err != nil {
		s.logger.Error("Failed to list owner job postings",
			zap.String("ownerID", ownerID.String()), zap.Error(err))
		return nil, nil, common.ErrInternalServer.WithDetails("Could not retrieve job postings.")
	}
	return toResponses(postings), pagination, nil
}

func parseExpiry(expiresAtStr *string) (*time.Time, error) {
	if expiresAtStr == nil || *expiresAtStr == "" {
		return nil, nil
	}
	expiresAt, err := time.Parse(time.RFC3339, *expiresAtStr)
	if err != nil {
		return nil, common.ErrBadRequest.WithDetails("Invalid expires_at timestamp.")
	}
	return &expiresAt, nil
}

func toResponses(postings []Posting) []PostingResponse {
	responses := make([]PostingResponse, len(postings))
	for i := range postings {
		responses[i] = ToPostingResponse(&postings[i])
	}
	return responses
}

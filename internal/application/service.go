// File: internal/application/service.go
package application

import (
	"context"

	"dentalhub_backend/internal/common"
	"dentalhub_backend/internal/content"
	"dentalhub_backend/internal/notification"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service implements the professor verification business logic.
type Service struct {
	repo         Repository
	notifService notification.Service
	logger       *zap.Logger
}

// NewService creates a new professor application service.
func NewService(repo Repository, notifService notification.Service, logger *zap.Logger) *Service {
	return &Service{
		repo:         repo,
		notifService: notifService,
		logger:       logger,
	}
}

// Submit files a new verification application. An applicant can only have
// one application under review at a time; a fresh one may be filed after a
// rejection. The applicant gets an acknowledgment notification, delivered
// best effort.
func (s *Service) Submit(ctx context.Context, applicantID uuid.UUID, req SubmitApplicationRequest) (*Application, error) {
	hasPending, err := s.repo.HasPendingForApplicant(ctx, applicantID)
	if err != nil {
		s.logger.Error("Failed to check pending applications",
			zap.String("applicantID", applicantID.String()), zap.Error(err))
		return nil, common.ErrInternalServer.WithDetails("Could not submit application.")
	}
	if hasPending {
		return nil, common.ErrConflict.WithDetails("You already have an application under review.")
	}

	application := &Application{
		ApplicantID:       applicantID,
		LicenseNumber:     req.LicenseNumber,
		ProfessionalTitle: req.ProfessionalTitle,
		ClinicName:        req.ClinicName,
		DocumentURL:       req.DocumentURL,
		Statement:         req.Statement,
		Status:            content.StatusPending,
		Version:           1,
	}
	if err := s.repo.Create(ctx, application); err != nil {
		s.logger.Error("Failed to create application",
			zap.String("applicantID", applicantID.String()), zap.Error(err))
		return nil, common.ErrInternalServer.WithDetails("Could not submit application.")
	}

	itemKind := content.KindApplication
	itemID := application.ID
	if _, err := s.notifService.CreateNotification(ctx, &notification.Notification{
		UserID:        applicantID,
		Type:          notification.TypeApplicationReceived,
		Message:       "Your professor verification application has been received and is under review.",
		ItemKind:      &itemKind,
		RelatedItemID: &itemID,
	}); err != nil {
		s.logger.Warn("Failed to send application receipt notification",
			zap.String("applicationID", application.ID.String()), zap.Error(err))
	}
	return application, nil
}

// ListMine returns the applicant's own applications, newest first.
func (s *Service) ListMine(ctx context.Context, applicantID uuid.UUID, page, pageSize int) ([]ApplicationResponse, *common.Pagination, error) {
	applications, pagination, err := s.repo.ListByApplicant(ctx, applicantID, page, pageSize)
	if err != nil {
		s.logger.Error("Failed to list applicant applications",
			zap.String("applicantID", applicantID.String()), zap.Error(err))
		return nil, nil, common.ErrInternalServer.WithDetails("Could not retrieve applications.")
	}
	return toResponses(applications), pagination, nil
}

// ListPending returns the review queue for admins, oldest first.
func (s *Service) ListPending(ctx context.Context, page, pageSize int) ([]ApplicationResponse, *common.Pagination, error) {
	applications, pagination, err := s.repo.ListPending(ctx, page, pageSize)
	if err != nil {
		s.logger.Error("Failed to list pending applications", zap.Error(err))
		return nil, nil, common.ErrInternalServer.WithDetails("Could not retrieve applications.")
	}
	return toResponses(applications), pagination, nil
}

func toResponses(applications []Application) []ApplicationResponse {
	responses := make([]ApplicationResponse, len(applications))
	for i := range applications {
		responses[i] = ToApplicationResponse(&applications[i])
	}
	return responses
}

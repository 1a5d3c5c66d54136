package application

import (
	"context"
	"testing"

	"dentalhub_backend/internal/common"
	"dentalhub_backend/internal/content"
	"dentalhub_backend/internal/notification"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MockApplicationRepository is a mock type for application.Repository
type MockApplicationRepository struct {
	mock.Mock
}

func (m *MockApplicationRepository) Create(ctx context.Context, application *Application) error {
	args := m.Called(ctx, application)
	if args.Error(0) == nil && application.ID == uuid.Nil {
		application.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *MockApplicationRepository) FindByID(ctx context.Context, id uuid.UUID) (*Application, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Application), args.Error(1)
}

func (m *MockApplicationRepository) HasPendingForApplicant(ctx context.Context, applicantID uuid.UUID) (bool, error) {
	args := m.Called(ctx, applicantID)
	return args.Bool(0), args.Error(1)
}

func (m *MockApplicationRepository) ListByApplicant(ctx context.Context, applicantID uuid.UUID, page, pageSize int) ([]Application, *common.Pagination, error) {
	args := m.Called(ctx, applicantID, page, pageSize)
	var applications []Application
	if args.Get(0) != nil {
		applications = args.Get(0).([]Application)
	}
	var pagination *common.Pagination
	if args.Get(1) != nil {
		pagination = args.Get(1).(*common.Pagination)
	}
	return applications, pagination, args.Error(2)
}

func (m *MockApplicationRepository) ListPending(ctx context.Context, page, pageSize int) ([]Application, *common.Pagination, error) {
	args := m.Called(ctx, page, pageSize)
	var applications []Application
	if args.Get(0) != nil {
		applications = args.Get(0).([]Application)
	}
	var pagination *common.Pagination
	if args.Get(1) != nil {
		pagination = args.Get(1).(*common.Pagination)
	}
	return applications, pagination, args.Error(2)
}

func (m *MockApplicationRepository) Kind() content.Kind {
	return content.KindApplication
}

func (m *MockApplicationRepository) Snapshot(ctx context.Context, id uuid.UUID) (*content.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*content.Item), args.Error(1)
}

func (m *MockApplicationRepository) UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, version int64, status content.Status) (int64, error) {
	args := m.Called(ctx, tx, id, version, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockApplicationRepository) HardDelete(ctx context.Context, tx *gorm.DB, id uuid.UUID) (int64, error) {
	args := m.Called(ctx, tx, id)
	return args.Get(0).(int64), args.Error(1)
}

// MockNotificationService is a mock type for notification.Service
type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) CreateNotification(ctx context.Context, n *notification.Notification) (*notification.Notification, error) {
	args := m.Called(ctx, n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notification.Notification), args.Error(1)
}

func (m *MockNotificationService) CreateInTx(ctx context.Context, tx *gorm.DB, n *notification.Notification) error {
	args := m.Called(ctx, tx, n)
	return args.Error(0)
}

func (m *MockNotificationService) AnnounceCreated(n *notification.Notification) {
	m.Called(n)
}

func (m *MockNotificationService) GetNotificationsForUser(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]notification.Notification, *common.Pagination, error) {
	args := m.Called(ctx, userID, page, pageSize)
	var notifications []notification.Notification
	if args.Get(0) != nil {
		notifications = args.Get(0).([]notification.Notification)
	}
	var pagination *common.Pagination
	if args.Get(1) != nil {
		pagination = args.Get(1).(*common.Pagination)
	}
	return notifications, pagination, args.Error(2)
}

func (m *MockNotificationService) MarkNotificationAsRead(ctx context.Context, notificationID uuid.UUID, userID uuid.UUID) error {
	args := m.Called(ctx, notificationID, userID)
	return args.Error(0)
}

func (m *MockNotificationService) MarkAllUserNotificationsAsRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationService) DeleteNotification(ctx context.Context, notificationID uuid.UUID, userID uuid.UUID) error {
	args := m.Called(ctx, notificationID, userID)
	return args.Error(0)
}

func (m *MockNotificationService) GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationService) SubscribeUnreadCount(userID uuid.UUID) (<-chan int64, func()) {
	args := m.Called(userID)
	return args.Get(0).(<-chan int64), args.Get(1).(func())
}

func setupApplicationService(t *testing.T) (*Service, *MockApplicationRepository, *MockNotificationService) {
	repo := new(MockApplicationRepository)
	notifService := new(MockNotificationService)
	return NewService(repo, notifService, zap.NewNop()), repo, notifService
}

// --- Test Cases ---

func TestApplicationService_Submit_CreatesPendingAndNotifies(t *testing.T) {
	service, repo, notifService := setupApplicationService(t)
	ctx := context.Background()
	applicantID := uuid.New()

	repo.On("HasPendingForApplicant", ctx, applicantID).Return(false, nil)
	repo.On("Create", ctx, mock.AnythingOfType("*application.Application")).Run(func(args mock.Arguments) {
		appArg := args.Get(1).(*Application)
		assert.Equal(t, content.StatusPending, appArg.Status)
		assert.Equal(t, int64(1), appArg.Version)
	}).Return(nil)
	notifService.On("CreateNotification", ctx, mock.AnythingOfType("*notification.Notification")).Run(func(args mock.Arguments) {
		notifArg := args.Get(1).(*notification.Notification)
		assert.Equal(t, applicantID, notifArg.UserID)
		assert.Equal(t, notification.TypeApplicationReceived, notifArg.Type)
	}).Return(&notification.Notification{}, nil)

	application, err := service.Submit(ctx, applicantID, SubmitApplicationRequest{
		LicenseNumber:     "DENT-2024-7781",
		ProfessionalTitle: "Oral Surgeon",
		DocumentURL:       "https://storage.example.com/docs/license-7781.pdf",
	})

	assert.NoError(t, err)
	assert.NotNil(t, application)
	repo.AssertExpectations(t)
	notifService.AssertExpectations(t)
}

// A second application cannot be filed while one is still under review.
func TestApplicationService_Submit_DuplicatePendingConflicts(t *testing.T) {
	service, repo, notifService := setupApplicationService(t)
	ctx := context.Background()
	applicantID := uuid.New()

	repo.On("HasPendingForApplicant", ctx, applicantID).Return(true, nil)

	_, err := service.Submit(ctx, applicantID, SubmitApplicationRequest{
		LicenseNumber:     "DENT-2024-7781",
		ProfessionalTitle: "Oral Surgeon",
		DocumentURL:       "https://storage.example.com/docs/license-7781.pdf",
	})

	assert.Error(t, err)
	apiErr, ok := common.IsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, common.ErrConflict.Code, apiErr.Code)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	notifService.AssertNotCalled(t, "CreateNotification", mock.Anything, mock.Anything)
}

// The application itself must still be stored even when the acknowledgment
// notification fails.
func TestApplicationService_Submit_NotificationFailureDoesNotBlock(t *testing.T) {
	service, repo, notifService := setupApplicationService(t)
	ctx := context.Background()
	applicantID := uuid.New()

	repo.On("HasPendingForApplicant", ctx, applicantID).Return(false, nil)
	repo.On("Create", ctx, mock.AnythingOfType("*application.Application")).Return(nil)
	notifService.On("CreateNotification", ctx, mock.AnythingOfType("*notification.Notification")).
		Return(nil, common.ErrInternalServer)

	application, err := service.Submit(ctx, applicantID, SubmitApplicationRequest{
		LicenseNumber:     "DENT-2024-7781",
		ProfessionalTitle: "Oral Surgeon",
		DocumentURL:       "https://storage.example.com/docs/license-7781.pdf",
	})

	assert.NoError(t, err)
	assert.NotNil(t, application)
	repo.AssertExpectations(t)
}

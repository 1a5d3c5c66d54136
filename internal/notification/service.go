// File: internal/notification/service.go
package notification

import (
	"context"

	"dentalhub_backend/internal/common"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service defines the notification feed operations.
type Service interface {
	CreateNotification(ctx context.Context, notification *Notification) (*Notification, error)
	// CreateInTx inserts a notification inside the caller's transaction.
	// The caller must invoke AnnounceCreated after the transaction commits.
	CreateInTx(ctx context.Context, tx *gorm.DB, notification *Notification) error
	// AnnounceCreated updates the live unread count for a notification whose
	// insert has committed.
	AnnounceCreated(notification *Notification)
	GetNotificationsForUser(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]Notification, *common.Pagination, error)
	MarkNotificationAsRead(ctx context.Context, notificationID uuid.UUID, userID uuid.UUID) error
	MarkAllUserNotificationsAsRead(ctx context.Context, userID uuid.UUID) (int64, error)
	DeleteNotification(ctx context.Context, notificationID uuid.UUID, userID uuid.UUID) error
	GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
	SubscribeUnreadCount(userID uuid.UUID) (<-chan int64, func())
}

type service struct {
	repo    Repository
	counter *Counter
	logger  *zap.Logger
}

// NewService creates a new notification service.
func NewService(repo Repository, counter *Counter, logger *zap.Logger) Service {
	return &service{
		repo:    repo,
		counter: counter,
		logger:  logger,
	}
}

func (s *service) CreateNotification(ctx context.Context, notification *Notification) (*Notification, error) {
	if err := s.repo.Create(ctx, notification); err != nil {
		s.logger.Error("Failed to create notification",
			zap.String("userID", notification.UserID.String()),
			zap.String("type", string(notification.Type)),
			zap.Error(err))
		return nil, common.ErrInternalServer.WithDetails("Could not create notification.")
	}
	s.AnnounceCreated(notification)
	return notification, nil
}

func (s *service) CreateInTx(ctx context.Context, tx *gorm.DB, notification *Notification) error {
	return s.repo.CreateInTx(ctx, tx, notification)
}

func (s *service) AnnounceCreated(notification *Notification) {
	s.counter.Adjust(notification.UserID, +1)
}

func (s *service) GetNotificationsForUser(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]Notification, *common.Pagination, error) {
	notifications, pagination, err := s.repo.GetByUserID(ctx, userID, page, pageSize)
	if err != nil {
		s.logger.Error("Failed to get notifications for user",
			zap.String("userID", userID.String()), zap.Error(err))
		return nil, nil, common.ErrInternalServer.WithDetails("Could not retrieve notifications.")
	}
	return notifications, pagination, nil
}

func (s *service) MarkNotificationAsRead(ctx context.Context, notificationID uuid.UUID, userID uuid.UUID) error {
	changed, err := s.repo.MarkAsRead(ctx, notificationID, userID)
	if err != nil {
		if _, ok := common.IsAPIError(err); ok {
			return err
		}
		s.logger.Error("Failed to mark notification as read",
			zap.String("notificationID", notificationID.String()),
			zap.String("userID", userID.String()), zap.Error(err))
		return common.ErrInternalServer.WithDetails("Could not mark notification as read.")
	}
	if changed {
		s.counter.Adjust(userID, -1)
	}
	return nil
}

func (s *service) MarkAllUserNotificationsAsRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	count, err := s.repo.MarkAllAsRead(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to mark all notifications as read",
			zap.String("userID", userID.String()), zap.Error(err))
		return 0, common.ErrInternalServer.WithDetails("Could not mark all notifications as read.")
	}
	s.counter.Adjust(userID, -count)
	return count, nil
}

func (s *service) DeleteNotification(ctx context.Context, notificationID uuid.UUID, userID uuid.UUID) error {
	wasUnread, err := s.repo.Delete(ctx, notificationID, userID)
	if err != nil {
		if _, ok := common.IsAPIError(err); ok {
			return err
		}
		s.logger.Error("Failed to delete notification",
			zap.String("notificationID", notificationID.String()),
			zap.String("userID", userID.String()), zap.Error(err))
		return common.ErrInternalServer.WithDetails("Could not delete notification.")
	}
	if wasUnread {
		s.counter.Adjust(userID, -1)
	}
	return nil
}

func (s *service) GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	count, err := s.counter.Get(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to get unread count",
			zap.String("userID", userID.String()), zap.Error(err))
		return 0, common.ErrInternalServer.WithDetails("Could not retrieve unread count.")
	}
	return count, nil
}

func (s *service) SubscribeUnreadCount(userID uuid.UUID) (<-chan int64, func()) {
	return s.counter.Subscribe(userID)
}

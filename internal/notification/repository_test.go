package notification

import (
	"context"
	"fmt"
	"testing"

	"dentalhub_backend/internal/common"
	"dentalhub_backend/internal/content"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupNotificationRepo(t *testing.T) Repository {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Notification{}))

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})
	return NewGORMRepository(db)
}

func seedNotification(t *testing.T, repo Repository, userID uuid.UUID, isRead bool) *Notification {
	kind := content.KindArticle
	itemID := uuid.New()
	title := "Test article"
	n := &Notification{
		UserID:        userID,
		Type:          TypeForDecision(kind, "approved"),
		Message:       "Your article was approved.",
		ItemKind:      &kind,
		RelatedItemID: &itemID,
		ItemTitle:     &title,
		IsRead:        isRead,
	}
	require.NoError(t, repo.Create(context.Background(), n))
	return n
}

func TestGORMRepository_MarkAsRead_FlipsOnce(t *testing.T) {
	repo := setupNotificationRepo(t)
	ctx := context.Background()
	userID := uuid.New()
	n := seedNotification(t, repo, userID, false)

	changed, err := repo.MarkAsRead(ctx, n.ID, userID)
	assert.NoError(t, err)
	assert.True(t, changed)

	// Second call succeeds but reports no change.
	changed, err = repo.MarkAsRead(ctx, n.ID, userID)
	assert.NoError(t, err)
	assert.False(t, changed)
}

func TestGORMRepository_MarkAsRead_ForeignNotificationNotFound(t *testing.T) {
	repo := setupNotificationRepo(t)
	ctx := context.Background()
	owner := uuid.New()
	stranger := uuid.New()
	n := seedNotification(t, repo, owner, false)

	_, err := repo.MarkAsRead(ctx, n.ID, stranger)
	assert.Error(t, err)
	apiErr, ok := common.IsAPIError(err)
	assert.True(t, ok)
	assert.Equal(t, common.ErrNotFound.Code, apiErr.Code)
}

func TestGORMRepository_MarkAllAsRead_ReturnsCount(t *testing.T) {
	repo := setupNotificationRepo(t)
	ctx := context.Background()
	userID := uuid.New()
	seedNotification(t, repo, userID, false)
	seedNotification(t, repo, userID, false)
	seedNotification(t, repo, userID, true)
	seedNotification(t, repo, uuid.New(), false) // other user untouched

	count, err := repo.MarkAllAsRead(ctx, userID)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), count)

	unread, err := repo.CountUnread(ctx, userID)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), unread)
}

func TestGORMRepository_Delete_ReportsUnreadState(t *testing.T) {
	repo := setupNotificationRepo(t)
	ctx := context.Background()
	userID := uuid.New()
	unreadNotif := seedNotification(t, repo, userID, false)
	readNotif := seedNotification(t, repo, userID, true)

	wasUnread, err := repo.Delete(ctx, unreadNotif.ID, userID)
	assert.NoError(t, err)
	assert.True(t, wasUnread)

	wasUnread, err = repo.Delete(ctx, readNotif.ID, userID)
	assert.NoError(t, err)
	assert.False(t, wasUnread)

	_, err = repo.FindByID(ctx, unreadNotif.ID, userID)
	assert.Error(t, err)
}

func TestGORMRepository_Delete_ForeignNotificationNotFound(t *testing.T) {
	repo := setupNotificationRepo(t)
	ctx := context.Background()
	owner := uuid.New()
	n := seedNotification(t, repo, owner, false)

	_, err := repo.Delete(ctx, n.ID, uuid.New())
	assert.Error(t, err)
	apiErr, ok := common.IsAPIError(err)
	assert.True(t, ok)
	assert.Equal(t, common.ErrNotFound.Code, apiErr.Code)

	// Still there for the real owner.
	found, err := repo.FindByID(ctx, n.ID, owner)
	assert.NoError(t, err)
	assert.Equal(t, n.ID, found.ID)
}

func TestGORMRepository_GetByUserID_NewestFirst(t *testing.T) {
	repo := setupNotificationRepo(t)
	ctx := context.Background()
	userID := uuid.New()
	for i := 0; i < 3; i++ {
		seedNotification(t, repo, userID, false)
	}

	notifications, pagination, err := repo.GetByUserID(ctx, userID, 1, 2)
	assert.NoError(t, err)
	assert.Len(t, notifications, 2)
	assert.Equal(t, int64(3), pagination.TotalItems)
	assert.Equal(t, 2, pagination.TotalPages)
	assert.True(t, pagination.HasNext)
}

func TestGORMRepository_CountUnread(t *testing.T) {
	repo := setupNotificationRepo(t)
	ctx := context.Background()
	userID := uuid.New()
	seedNotification(t, repo, userID, false)
	seedNotification(t, repo, userID, true)

	count, err := repo.CountUnread(ctx, userID)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

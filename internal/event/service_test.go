package event

import (
	"context"
	"testing"
	"time"

	"dentalhub_backend/internal/common"
	"dentalhub_backend/internal/content"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MockEventRepository is a mock type for event.Repository
type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) Create(ctx context.Context, event *Event) error {
	args := m.Called(ctx, event)
	if args.Error(0) == nil && event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *MockEventRepository) FindByID(ctx context.Context, id uuid.UUID) (*Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Event), args.Error(1)
}

func (m *MockEventRepository) Update(ctx context.Context, event *Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventRepository) Delete(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) error {
	args := m.Called(ctx, id, ownerID)
	return args.Error(0)
}

func (m *MockEventRepository) ListUpcoming(ctx context.Context, page, pageSize int) ([]Event, *common.Pagination, error) {
	args := m.Called(ctx, page, pageSize)
	var events []Event
	if args.Get(0) != nil {
		events = args.Get(0).([]Event)
	}
	var pagination *common.Pagination
	if args.Get(1) != nil {
		pagination = args.Get(1).(*common.Pagination)
	}
	return events, pagination, args.Error(2)
}

func (m *MockEventRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, page, pageSize int) ([]Event, *common.Pagination, error) {
	args := m.Called(ctx, ownerID, page, pageSize)
	var events []Event
	if args.Get(0) != nil {
		events = args.Get(0).([]Event)
	}
	var pagination *common.Pagination
	if args.Get(1) != nil {
		pagination = args.Get(1).(*common.Pagination)
	}
	return events, pagination, args.Error(2)
}

func (m *MockEventRepository) ArchivePastEvents(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockEventRepository) Kind() content.Kind {
	return content.KindEvent
}

func (m *MockEventRepository) Snapshot(ctx context.Context, id uuid.UUID) (*content.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*content.Item), args.Error(1)
}

func (m *MockEventRepository) UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, version int64, status content.Status) (int64, error) {
	args := m.Called(ctx, tx, id, version, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockEventRepository) HardDelete(ctx context.Context, tx *gorm.DB, id uuid.UUID) (int64, error) {
	args := m.Called(ctx, tx, id)
	return args.Get(0).(int64), args.Error(1)
}

func setupEventService(t *testing.T) (*Service, *MockEventRepository) {
	repo := new(MockEventRepository)
	return NewService(repo, zap.NewNop()), repo
}

// --- Test Cases ---

func TestEventService_CreateEvent_StartsPending(t *testing.T) {
	service, repo := setupEventService(t)
	ctx := context.Background()
	ownerID := uuid.New()
	starts := time.Now().Add(24 * time.Hour).UTC().Truncate(time.Second)
	ends := starts.Add(2 * time.Hour)

	repo.On("Create", ctx, mock.AnythingOfType("*event.Event")).Run(func(args mock.Arguments) {
		eventArg := args.Get(1).(*Event)
		assert.Equal(t, content.StatusPending, eventArg.Status)
		assert.Equal(t, int64(1), eventArg.Version)
		assert.False(t, eventArg.IsArchived)
	}).Return(nil)

	event, err := service.CreateEvent(ctx, ownerID, CreateEventRequest{
		Title:       "Regional implantology symposium",
		Description: "Two-day hands-on implantology symposium.",
		StartsAt:    starts.Format(time.RFC3339),
		EndsAt:      ends.Format(time.RFC3339),
	})

	assert.NoError(t, err)
	assert.NotNil(t, event)
	repo.AssertExpectations(t)
}

func TestEventService_CreateEvent_EndBeforeStartRejected(t *testing.T) {
	service, repo := setupEventService(t)
	ctx := context.Background()
	starts := time.Now().Add(24 * time.Hour).UTC()
	ends := starts.Add(-time.Hour)

	_, err := service.CreateEvent(ctx, uuid.New(), CreateEventRequest{
		Title:       "Backwards event",
		Description: "This event ends before it starts.",
		StartsAt:    starts.Format(time.RFC3339),
		EndsAt:      ends.Format(time.RFC3339),
	})

	assert.Error(t, err)
	apiErr, ok := common.IsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, "VALIDATION_ERROR", apiErr.Code)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// Editing an event resubmits it for review and pulls it back out of the
// archive, since its schedule may have changed.
func TestEventService_UpdateEvent_ResetsPendingAndUnarchives(t *testing.T) {
	service, repo := setupEventService(t)
	ctx := context.Background()
	ownerID := uuid.New()
	existing := &Event{
		OwnerID:     ownerID,
		Title:       "Past course",
		Description: "An archived course.",
		StartsAt:    time.Now().Add(-48 * time.Hour),
		EndsAt:      time.Now().Add(-24 * time.Hour),
		Status:      content.StatusApproved,
		Version:     2,
		IsArchived:  true,
	}
	existing.ID = uuid.New()

	repo.On("FindByID", ctx, existing.ID).Return(existing, nil)
	repo.On("Update", ctx, mock.AnythingOfType("*event.Event")).Run(func(args mock.Arguments) {
		eventArg := args.Get(1).(*Event)
		assert.Equal(t, content.StatusPending, eventArg.Status)
		assert.Equal(t, int64(3), eventArg.Version)
		assert.False(t, eventArg.IsArchived)
	}).Return(nil)

	newStarts := time.Now().Add(72 * time.Hour).UTC().Format(time.RFC3339)
	newEnds := time.Now().Add(75 * time.Hour).UTC().Format(time.RFC3339)
	updated, err := service.UpdateEvent(ctx, existing.ID, ownerID, UpdateEventRequest{
		StartsAt: &newStarts,
		EndsAt:   &newEnds,
	})

	assert.NoError(t, err)
	assert.Equal(t, content.StatusPending, updated.Status)
	repo.AssertExpectations(t)
}

func TestEventService_UpdateEvent_ForeignOwnerForbidden(t *testing.T) {
	service, repo := setupEventService(t)
	ctx := context.Background()
	existing := &Event{
		OwnerID:     uuid.New(),
		Title:       "Not yours",
		Description: "Someone else's event.",
		StartsAt:    time.Now(),
		EndsAt:      time.Now().Add(time.Hour),
		Status:      content.StatusApproved,
		Version:     1,
	}
	existing.ID = uuid.New()

	repo.On("FindByID", ctx, existing.ID).Return(existing, nil)

	newTitle := "Hijacked"
	_, err := service.UpdateEvent(ctx, existing.ID, uuid.New(), UpdateEventRequest{Title: &newTitle})

	assert.Error(t, err)
	apiErr, ok := common.IsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, common.ErrForbidden.Code, apiErr.Code)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestEventService_ArchivePast_DelegatesToRepository(t *testing.T) {
	service, repo := setupEventService(t)

	repo.On("ArchivePastEvents", mock.Anything, mock.AnythingOfType("time.Time")).Return(int64(3), nil)

	count, err := service.ArchivePast(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, int64(3), count)
	repo.AssertExpectations(t)
}

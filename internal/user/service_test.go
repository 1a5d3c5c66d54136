package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"dentalhub_backend/internal/common"
	"dentalhub_backend/internal/config"

	firebaseauth "firebase.google.com/go/v4/auth"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// MockUserRepository is a mock type for user.Repository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, usr *User) error {
	args := m.Called(ctx, usr)
	if args.Error(0) == nil && usr.ID == uuid.Nil {
		usr.ID = uuid.New() // Simulate DB generating ID
	}
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockUserRepository) FindByFirebaseUID(ctx context.Context, firebaseUID string) (*User, error) {
	args := m.Called(ctx, firebaseUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, usr *User) error {
	args := m.Called(ctx, usr)
	return args.Error(0)
}

func (m *MockUserRepository) SetRole(ctx context.Context, id uuid.UUID, role string, verifiedProfessor bool) error {
	args := m.Called(ctx, id, role, verifiedProfessor)
	return args.Error(0)
}

func (m *MockUserRepository) FindVerifiedProfessors(ctx context.Context, page, pageSize int) ([]User, *common.Pagination, error) {
	args := m.Called(ctx, page, pageSize)
	var users []User
	if args.Get(0) != nil {
		users = args.Get(0).([]User)
	}
	var pagination *common.Pagination
	if args.Get(1) != nil {
		pagination = args.Get(1).(*common.Pagination)
	}
	return users, pagination, args.Error(2)
}

type UserServiceTestSuite struct {
	service  *ServiceImplementation
	mockRepo *MockUserRepository
}

func setupUserServiceTestSuite(t *testing.T) *UserServiceTestSuite {
	ts := &UserServiceTestSuite{}
	ts.mockRepo = new(MockUserRepository)
	cfg := &config.Config{UserCacheSize: 16, UserCacheTTL: time.Minute}
	ts.service = NewService(ts.mockRepo, cfg, zap.NewNop())
	return ts
}

func firebaseToken(uid string, claims map[string]interface{}) *firebaseauth.Token {
	if claims == nil {
		claims = map[string]interface{}{}
	}
	return &firebaseauth.Token{UID: uid, Claims: claims}
}

// --- Test Cases ---

func TestUserService_GetOrCreate_ExistingUser(t *testing.T) {
	ts := setupUserServiceTestSuite(t)
	ctx := context.Background()
	uid := "firebase-uid-1"
	existing := &User{FirebaseUID: uid, Role: common.RoleUser}
	existing.ID = uuid.New()

	ts.mockRepo.On("FindByFirebaseUID", ctx, uid).Return(existing, nil).Once()

	usr, created, err := ts.service.GetOrCreateUserFromFirebaseClaims(ctx, firebaseToken(uid, nil))

	assert.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, existing.ID, usr.ID)
	ts.mockRepo.AssertExpectations(t)
}

func TestUserService_GetOrCreate_ProvisionsNewUser(t *testing.T) {
	ts := setupUserServiceTestSuite(t)
	ctx := context.Background()
	uid := "firebase-uid-new"
	claims := map[string]interface{}{
		"email": "dentist@example.com",
		"name":  "Dr. Example",
	}

	ts.mockRepo.On("FindByFirebaseUID", ctx, uid).
		Return(nil, common.ErrNotFound.WithDetails("User not found.")).Once()
	ts.mockRepo.On("Create", ctx, mock.AnythingOfType("*user.User")).Run(func(args mock.Arguments) {
		usrArg := args.Get(1).(*User)
		assert.Equal(t, uid, usrArg.FirebaseUID)
		assert.Equal(t, common.RoleUser, usrArg.Role)
		assert.NotNil(t, usrArg.Email)
		assert.Equal(t, "dentist@example.com", *usrArg.Email)
		assert.NotNil(t, usrArg.DisplayName)
	}).Return(nil).Once()

	usr, created, err := ts.service.GetOrCreateUserFromFirebaseClaims(ctx, firebaseToken(uid, claims))

	assert.NoError(t, err)
	assert.True(t, created)
	assert.NotEqual(t, uuid.Nil, usr.ID)
	ts.mockRepo.AssertExpectations(t)
}

// A repository failure must surface as an error, never as an anonymous or
// partially-populated identity.
func TestUserService_GetOrCreate_RepositoryErrorFailsClosed(t *testing.T) {
	ts := setupUserServiceTestSuite(t)
	ctx := context.Background()
	uid := "firebase-uid-err"

	ts.mockRepo.On("FindByFirebaseUID", ctx, uid).Return(nil, errors.New("db connection lost")).Once()

	usr, created, err := ts.service.GetOrCreateUserFromFirebaseClaims(ctx, firebaseToken(uid, nil))

	assert.Error(t, err)
	assert.Nil(t, usr)
	assert.False(t, created)
	ts.mockRepo.AssertExpectations(t)
}

func TestUserService_GetOrCreate_SecondCallServedFromCache(t *testing.T) {
	ts := setupUserServiceTestSuite(t)
	ctx := context.Background()
	uid := "firebase-uid-cached"
	existing := &User{FirebaseUID: uid, Role: common.RoleUser}
	existing.ID = uuid.New()

	ts.mockRepo.On("FindByFirebaseUID", ctx, uid).Return(existing, nil).Once()

	_, _, err := ts.service.GetOrCreateUserFromFirebaseClaims(ctx, firebaseToken(uid, nil))
	assert.NoError(t, err)

	usr, created, err := ts.service.GetOrCreateUserFromFirebaseClaims(ctx, firebaseToken(uid, nil))
	assert.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, existing.ID, usr.ID)
	ts.mockRepo.AssertNumberOfCalls(t, "FindByFirebaseUID", 1)
}

func TestUserService_PromoteToProfessor_Success(t *testing.T) {
	ts := setupUserServiceTestSuite(t)
	ctx := context.Background()
	usr := &User{FirebaseUID: "firebase-uid-p", Role: common.RoleUser}
	usr.ID = uuid.New()

	ts.mockRepo.On("FindByID", ctx, usr.ID).Return(usr, nil).Once()
	ts.mockRepo.On("SetRole", ctx, usr.ID, common.RoleProfessor, true).Return(nil).Once()

	err := ts.service.PromoteToProfessor(ctx, usr.ID)

	assert.NoError(t, err)
	ts.mockRepo.AssertExpectations(t)
}

func TestUserService_PromoteToProfessor_KeepsAdminRole(t *testing.T) {
	ts := setupUserServiceTestSuite(t)
	ctx := context.Background()
	usr := &User{FirebaseUID: "firebase-uid-a", Role: common.RoleAdmin}
	usr.ID = uuid.New()

	ts.mockRepo.On("FindByID", ctx, usr.ID).Return(usr, nil).Once()
	ts.mockRepo.On("SetRole", ctx, usr.ID, common.RoleAdmin, true).Return(nil).Once()

	err := ts.service.PromoteToProfessor(ctx, usr.ID)

	assert.NoError(t, err)
	ts.mockRepo.AssertExpectations(t)
}

func TestUserService_PromoteToProfessor_InvalidatesCache(t *testing.T) {
	ts := setupUserServiceTestSuite(t)
	ctx := context.Background()
	uid := "firebase-uid-inv"
	usr := &User{FirebaseUID: uid, Role: common.RoleUser}
	usr.ID = uuid.New()
	promoted := &User{FirebaseUID: uid, Role: common.RoleProfessor, IsVerifiedProfessor: true}
	promoted.ID = usr.ID

	ts.mockRepo.On("FindByFirebaseUID", ctx, uid).Return(usr, nil).Once()
	_, err := ts.service.GetUserByFirebaseUID(ctx, uid)
	assert.NoError(t, err)

	ts.mockRepo.On("FindByID", ctx, usr.ID).Return(usr, nil).Once()
	ts.mockRepo.On("SetRole", ctx, usr.ID, common.RoleProfessor, true).Return(nil).Once()
	assert.NoError(t, ts.service.PromoteToProfessor(ctx, usr.ID))

	// The next UID lookup must go back to the repository and see the new role.
	ts.mockRepo.On("FindByFirebaseUID", ctx, uid).Return(promoted, nil).Once()
	refreshed, err := ts.service.GetUserByFirebaseUID(ctx, uid)
	assert.NoError(t, err)
	assert.Equal(t, common.RoleProfessor, refreshed.Role)
	assert.True(t, refreshed.IsVerifiedProfessor)
	ts.mockRepo.AssertExpectations(t)
}

func TestUserService_UpdateProfile_Success(t *testing.T) {
	ts := setupUserServiceTestSuite(t)
	ctx := context.Background()
	usr := &User{FirebaseUID: "firebase-uid-u", Role: common.RoleUser}
	usr.ID = uuid.New()
	newName := "Dr. New Name"
	newClinic := "Bright Smile Clinic"

	ts.mockRepo.On("FindByID", ctx, usr.ID).Return(usr, nil).Once()
	ts.mockRepo.On("Update", ctx, mock.AnythingOfType("*user.User")).Run(func(args mock.Arguments) {
		usrArg := args.Get(1).(*User)
		assert.Equal(t, &newName, usrArg.DisplayName)
		assert.Equal(t, &newClinic, usrArg.ClinicName)
	}).Return(nil).Once()

	updated, err := ts.service.UpdateProfile(ctx, usr.ID, UpdateProfileRequest{
		DisplayName: &newName,
		ClinicName:  &newClinic,
	})

	assert.NoError(t, err)
	assert.Equal(t, &newName, updated.DisplayName)
	ts.mockRepo.AssertExpectations(t)
}

func TestUserService_ListVerifiedProfessors_RepoError(t *testing.T) {
	ts := setupUserServiceTestSuite(t)
	ctx := context.Background()

	ts.mockRepo.On("FindVerifiedProfessors", ctx, 1, 10).Return(nil, nil, errors.New("repo error"))

	professors, pagination, err := ts.service.ListVerifiedProfessors(ctx, 1, 10)

	assert.Error(t, err)
	assert.Nil(t, professors)
	assert.Nil(t, pagination)
	apiErr, ok := err.(*common.APIError)
	assert.True(t, ok)
	assert.Equal(t, common.ErrInternalServer.Code, apiErr.Code)
	ts.mockRepo.AssertExpectations(t)
}

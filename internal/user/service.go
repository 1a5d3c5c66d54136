// File: internal/user/service.go
package user

import (
	"context"
	"errors"
	"time"

	"dentalhub_backend/internal/common"
	"dentalhub_backend/internal/config"
	"dentalhub_backend/internal/shared"

	firebaseauth "firebase.google.com/go/v4/auth"
	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"
)

// ServiceImplementation implements shared.Service plus user-module extras.
// UID lookups are cached in an expirable LRU so the auth middleware does not
// hit the database on every request; entries are dropped whenever a role or
// profile changes.
type ServiceImplementation struct {
	repo   Repository
	cache  *expirable.LRU[string, *shared.User]
	logger *zap.Logger
}

// NewService creates a new user service.
func NewService(repo Repository, cfg *config.Config, logger *zap.Logger) *ServiceImplementation {
	size := cfg.UserCacheSize
	if size <= 0 {
		size = 1024
	}
	ttl := cfg.UserCacheTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &ServiceImplementation{
		repo:   repo,
		cache:  expirable.NewLRU[string, *shared.User](size, nil, ttl),
		logger: logger,
	}
}

// GetUserByID returns the user with the given ID.
func (s *ServiceImplementation) GetUserByID(ctx context.Context, id uuid.UUID) (*shared.User, error) {
	usr, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return DBToShared(usr), nil
}

// GetUserByFirebaseUID returns the user with the given Firebase UID,
// consulting the cache first.
func (s *ServiceImplementation) GetUserByFirebaseUID(ctx context.Context, firebaseUID string) (*shared.User, error) {
	if cached, ok := s.cache.Get(firebaseUID); ok {
		return cached, nil
	}
	usr, err := s.repo.FindByFirebaseUID(ctx, firebaseUID)
	if err != nil {
		return nil, err
	}
	sharedUsr := DBToShared(usr)
	s.cache.Add(firebaseUID, sharedUsr)
	return sharedUsr, nil
}

// GetOrCreateUserFromFirebaseClaims resolves the local user row for a
// verified Firebase token, provisioning it on first sight.
func (s *ServiceImplementation) GetOrCreateUserFromFirebaseClaims(ctx context.Context, token *firebaseauth.Token) (*shared.User, bool, error) {
	if cached, ok := s.cache.Get(token.UID); ok {
		return cached, false, nil
	}

	existing, err := s.repo.FindByFirebaseUID(ctx, token.UID)
	if err == nil {
		sharedUsr := DBToShared(existing)
		s.cache.Add(token.UID, sharedUsr)
		return sharedUsr, false, nil
	}
	var apiErr *common.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != common.ErrNotFound.Code {
		return nil, false, err
	}

	newUser := &User{
		FirebaseUID: token.UID,
		Role:        common.RoleUser,
	}
	if email, ok := token.Claims["email"].(string); ok && email != "" {
		newUser.Email = &email
	}
	if name, ok := token.Claims["name"].(string); ok && name != "" {
		newUser.DisplayName = &name
	}
	if picture, ok := token.Claims["picture"].(string); ok && picture != "" {
		newUser.ProfilePictureURL = &picture
	}
	now := time.Now()
	newUser.LastLoginAt = &now

	if err := s.repo.Create(ctx, newUser); err != nil {
		s.logger.Error("Failed to provision user from Firebase claims",
			zap.String("firebaseUID", token.UID), zap.Error(err))
		return nil, false, err
	}
	s.logger.Info("Provisioned new user from Firebase claims",
		zap.String("userID", newUser.ID.String()), zap.String("firebaseUID", token.UID))

	sharedUsr := DBToShared(newUser)
	s.cache.Add(token.UID, sharedUsr)
	return sharedUsr, true, nil
}

// UpdateProfile applies owner-editable profile fields.
func (s *ServiceImplementation) UpdateProfile(ctx context.Context, id uuid.UUID, req UpdateProfileRequest) (*shared.User, error) {
	usr, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.DisplayName != nil {
		usr.DisplayName = req.DisplayName
	}
	if req.ProfessionalTitle != nil {
		usr.ProfessionalTitle = req.ProfessionalTitle
	}
	if req.ClinicName != nil {
		usr.ClinicName = req.ClinicName
	}
	if req.ProfilePictureURL != nil {
		usr.ProfilePictureURL = req.ProfilePictureURL
	}
	if err := s.repo.Update(ctx, usr); err != nil {
		return nil, err
	}
	s.cache.Remove(usr.FirebaseUID)
	return DBToShared(usr), nil
}

// PromoteToProfessor marks a user as a verified professor. Called by the
// moderation workflow when a verification application is approved.
func (s *ServiceImplementation) PromoteToProfessor(ctx context.Context, id uuid.UUID) error {
	usr, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	role := usr.Role
	if role != common.RoleAdmin {
		role = common.RoleProfessor
	}
	if err := s.repo.SetRole(ctx, id, role, true); err != nil {
		return err
	}
	s.cache.Remove(usr.FirebaseUID)
	s.logger.Info("User promoted to verified professor", zap.String("userID", id.String()))
	return nil
}

// ListVerifiedProfessors returns the public professor directory.
func (s *ServiceImplementation) ListVerifiedProfessors(ctx context.Context, page, pageSize int) ([]ProfessorResponse, *common.Pagination, error) {
	users, pagination, err := s.repo.FindVerifiedProfessors(ctx, page, pageSize)
	if err != nil {
		s.logger.Error("Failed to list verified professors", zap.Error(err))
		return nil, nil, common.ErrInternalServer.WithDetails("Could not retrieve professors.")
	}
	responses := make([]ProfessorResponse, len(users))
	for i := range users {
		responses[i] = ToProfessorResponse(&users[i])
	}
	return responses, pagination, nil
}

package shared

import (
	"context"
	"time"

	firebaseauth "firebase.google.com/go/v4/auth"
	"github.com/google/uuid"
)

// User represents an authenticated member of the platform, decoupled from
// the GORM model so middleware and other modules can depend on it without
// importing the user package.
type User struct {
	ID                  uuid.UUID
	FirebaseUID         string
	Email               *string
	DisplayName         *string
	ProfessionalTitle   *string
	ClinicName          *string
	ProfilePictureURL   *string
	Role                string
	IsVerifiedProfessor bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
	LastLoginAt         *time.Time
}

// Service defines the identity operations the rest of the application needs.
type Service interface {
	GetUserByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetUserByFirebaseUID(ctx context.Context, firebaseUID string) (*User, error)
	GetOrCreateUserFromFirebaseClaims(ctx context.Context, firebaseToken *firebaseauth.Token) (usr *User, wasCreated bool, err error)
}

// File: internal/middleware/auth.go
package middleware

import (
	"dentalhub_backend/internal/common"
	"dentalhub_backend/internal/firebase"
	"dentalhub_backend/internal/shared"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthMiddleware creates a Gin middleware that verifies the Firebase ID token
// on the request and resolves the local user record. The role stored in the
// context always comes from the database row, never from token claims.
func AuthMiddleware(fbService *firebase.FirebaseService, userService shared.Service, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := common.GetTokenFromContext(c)
		if tokenString == "" {
			logger.Debug("Authorization header missing or malformed")
			common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Authorization header format must be 'Bearer <token>'."))
			// c.Abort() is handled by RespondWithError's AbortWithStatusJSON
			return
		}

		token, err := fbService.VerifyIDToken(c.Request.Context(), tokenString)
		if err != nil {
			logger.Warn("Firebase token verification failed", zap.Error(err))
			common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Invalid or expired token."))
			return
		}

		usr, wasCreated, err := userService.GetOrCreateUserFromFirebaseClaims(c.Request.Context(), token)
		if err != nil {
			// Fail closed: a valid token without a resolvable local user is
			// treated as unauthenticated, not as an anonymous user.
			logger.Error("Failed to resolve local user for verified token",
				zap.String("firebaseUID", token.UID), zap.Error(err))
			common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Could not resolve user identity."))
			return
		}

		c.Set(common.UserIDKey, usr.ID)
		c.Set(common.UserRoleKey, usr.Role)
		c.Set(common.FirebaseUIDKey, usr.FirebaseUID)
		if usr.Email != nil {
			c.Set(common.UserEmailKey, *usr.Email)
		}

		if wasCreated {
			logger.Info("First login provisioned a new user",
				zap.String("userID", usr.ID.String()),
				zap.String("firebaseUID", usr.FirebaseUID))
		}

		c.Next()
	}
}

// RoleAuthMiddleware creates a middleware to check if the authenticated user has one of the required roles.
func RoleAuthMiddleware(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole := common.GetUserRoleFromContext(c)
		if userRole == "" {
			// This should ideally not happen if AuthMiddleware ran successfully
			common.RespondWithError(c, common.ErrForbidden.WithDetails("User role not found in context."))
			return
		}

		isAllowed := false
		for _, role := range allowedRoles {
			if userRole == role {
				isAllowed = true
				break
			}
		}

		if !isAllowed {
			common.RespondWithError(c, common.ErrForbidden.WithDetails("You do not have sufficient permissions for this resource."))
			return
		}
		c.Next()
	}
}

package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rrishiddh/portfolio-project-backend/internal/apperror"
	"github.com/rrishiddh/portfolio-project-backend/internal/models"
	"github.com/rrishiddh/portfolio-project-backend/internal/policy"
)

const identityKey = "identity"

// Authenticator resolves an access token to the user it belongs to.
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (*models.User, error)
}

// AuthMiddleware requires a valid Bearer access token and stores the caller's
// identity in the request context.
func AuthMiddleware(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Extract token from "Bearer <token>"
		tokenString, ok := bearerToken(c)
		if !ok {
			_ = c.Error(apperror.AuthRequired("Access token is required"))
			c.Abort()
			return
		}

		// 2. Validate token and load the user
		user, err := auth.Authenticate(c.Request.Context(), tokenString)
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}

		// 3. Add identity to context (handlers can access)
		setIdentity(c, user)
		c.Next()
	}
}

// OptionalAuthMiddleware attaches the identity when a valid token is present
// and otherwise lets the request through anonymously.
func OptionalAuthMiddleware(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString, ok := bearerToken(c); ok {
			if user, err := auth.Authenticate(c.Request.Context(), tokenString); err == nil {
				setIdentity(c, user)
			}
		}
		c.Next()
	}
}

// RequireRole must run after AuthMiddleware.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := policy.AuthorizeRole(CurrentIdentity(c), roles...); err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}
		c.Next()
	}
}

// AdminMiddleware is RequireRole(ADMIN).
func AdminMiddleware() gin.HandlerFunc {
	return RequireRole(models.RoleAdmin)
}

// CurrentIdentity returns the authenticated caller or nil.
func CurrentIdentity(c *gin.Context) *policy.Identity {
	v, exists := c.Get(identityKey)
	if !exists {
		return nil
	}
	identity, _ := v.(*policy.Identity)
	return identity
}

func setIdentity(c *gin.Context, user *models.User) {
	c.Set(identityKey, &policy.Identity{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	})
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == authHeader || strings.TrimSpace(tokenString) == "" {
		return "", false
	}
	return strings.TrimSpace(tokenString), true
}

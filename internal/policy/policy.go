// Package policy holds the authorization rules applied before services mutate data.
package policy

import (
	"github.com/rrishiddh/portfolio-project-backend/internal/apperror"
	"github.com/rrishiddh/portfolio-project-backend/internal/models"
)

// Identity is the authenticated caller, resolved from a verified access token.
type Identity struct {
	UserID string
	Email  string
	Role   models.Role
}

func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == models.RoleAdmin
}

// AuthorizeRole fails with FORBIDDEN unless the identity has one of roles.
func AuthorizeRole(identity *Identity, roles ...models.Role) error {
	if identity == nil {
		return apperror.AuthRequired("Access token is required")
	}
	for _, role := range roles {
		if identity.Role == role {
			return nil
		}
	}
	return apperror.Forbidden("Insufficient permissions")
}

// AuthorizeOwnership allows admins and the owner.
func AuthorizeOwnership(identity *Identity, ownerID string) error {
	if identity == nil {
		return apperror.AuthRequired("Access token is required")
	}
	if identity.IsAdmin() || identity.UserID == ownerID {
		return nil
	}
	return apperror.Forbidden("Not authorized to modify this resource")
}

// AuthorizeSelfOrAdmin guards per-user reads such as profile and stats.
func AuthorizeSelfOrAdmin(identity *Identity, userID string) error {
	if identity == nil {
		return apperror.AuthRequired("Access token is required")
	}
	if identity.IsAdmin() || identity.UserID == userID {
		return nil
	}
	return apperror.Forbidden("Access denied")
}

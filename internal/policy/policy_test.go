package policy

import (
	"testing"

	"github.com/rrishiddh/portfolio-project-backend/internal/apperror"
	"github.com/rrishiddh/portfolio-project-backend/internal/models"
	"github.com/stretchr/testify/assert"
)

var (
	admin = &Identity{UserID: "admin-1", Role: models.RoleAdmin}
	owner = &Identity{UserID: "user-1", Role: models.RoleUser}
	other = &Identity{UserID: "user-2", Role: models.RoleUser}
)

func TestAuthorizeRole(t *testing.T) {
	assert.NoError(t, AuthorizeRole(admin, models.RoleAdmin))
	assert.NoError(t, AuthorizeRole(owner, models.RoleUser, models.RoleAdmin))

	err := AuthorizeRole(owner, models.RoleAdmin)
	assert.True(t, apperror.Is(err, apperror.KindForbidden))

	err = AuthorizeRole(nil, models.RoleAdmin)
	assert.True(t, apperror.Is(err, apperror.KindAuthRequired))
}

func TestAuthorizeOwnership(t *testing.T) {
	assert.NoError(t, AuthorizeOwnership(owner, "user-1"), "owner may mutate")
	assert.NoError(t, AuthorizeOwnership(admin, "user-1"), "admin may mutate anything")

	err := AuthorizeOwnership(other, "user-1")
	assert.True(t, apperror.Is(err, apperror.KindForbidden))
}

func TestAuthorizeSelfOrAdmin(t *testing.T) {
	assert.NoError(t, AuthorizeSelfOrAdmin(owner, "user-1"))
	assert.NoError(t, AuthorizeSelfOrAdmin(admin, "user-2"))
	assert.True(t, apperror.Is(AuthorizeSelfOrAdmin(other, "user-1"), apperror.KindForbidden))
}

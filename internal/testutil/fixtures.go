package testutil

import (
	"testing"
	"time"

	"github.com/rrishiddh/portfolio-project-backend/internal/models"
	"github.com/rrishiddh/portfolio-project-backend/internal/policy"
	"github.com/rrishiddh/portfolio-project-backend/internal/utils"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CreateTestUser inserts a user with a hashed password.
func CreateTestUser(t *testing.T, db *gorm.DB, name, email, password string, role models.Role) *models.User {
	t.Helper()

	hash, err := utils.HashPassword(password)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	user := &models.User{
		Name:          name,
		Email:         email,
		PasswordHash:  &hash,
		Role:          role,
		EmailVerified: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return user
}

// DefaultTestUser inserts a regular user.
func DefaultTestUser(t *testing.T, db *gorm.DB) *models.User {
	return CreateTestUser(t, db, "Test User", "test@example.com", "Test123456", models.RoleUser)
}

// DefaultAdminUser inserts an admin.
func DefaultAdminUser(t *testing.T, db *gorm.DB) *models.User {
	return CreateTestUser(t, db, "Admin User", "admin@example.com", "Admin123456", models.RoleAdmin)
}

// IdentityOf is the identity the auth middleware would resolve for user.
func IdentityOf(user *models.User) *policy.Identity {
	return &policy.Identity{UserID: user.ID, Email: user.Email, Role: user.Role}
}

// CreateTestBlog inserts a blog directly, bypassing slug and excerpt derivation.
func CreateTestBlog(t *testing.T, db *gorm.DB, authorID, title, slug string, published bool, tags ...string) *models.Blog {
	t.Helper()

	blog := &models.Blog{
		Title:     title,
		Slug:      slug,
		Content:   "Content of " + title,
		Published: published,
		Tags:      datatypes.JSONSlice[string](append([]string{}, tags...)),
		AuthorID:  authorID,
	}
	if published {
		now := time.Now()
		blog.PublishedAt = &now
	}
	if err := db.Create(blog).Error; err != nil {
		t.Fatalf("Failed to create test blog: %v", err)
	}
	return blog
}

// CreateTestProject inserts a project directly.
func CreateTestProject(t *testing.T, db *gorm.DB, authorID, title, slug string, status models.ProjectStatus, technologies ...string) *models.Project {
	t.Helper()

	project := &models.Project{
		Title:        title,
		Slug:         slug,
		Description:  "Description of " + title,
		Technologies: datatypes.JSONSlice[string](append([]string{}, technologies...)),
		Status:       status,
		AuthorID:     authorID,
	}
	if err := db.Create(project).Error; err != nil {
		t.Fatalf("Failed to create test project: %v", err)
	}
	return project
}

// CreateTestResume inserts a minimal resume owned by userID.
func CreateTestResume(t *testing.T, db *gorm.DB, userID, title string) *models.Resume {
	t.Helper()

	resume := &models.Resume{
		Title: title,
		PersonalInfo: datatypes.NewJSONType(models.PersonalInfo{
			FullName: "Test User",
			Email:    "test@example.com",
		}),
		Skills: datatypes.JSONSlice[models.Skill]{
			{Name: "Go", Level: "Advanced", Category: "Languages"},
		},
		Template: models.DefaultResumeTemplate,
		UserID:   userID,
	}
	if err := db.Create(resume).Error; err != nil {
		t.Fatalf("Failed to create test resume: %v", err)
	}
	return resume
}

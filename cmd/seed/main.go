package main

import (
	"context"
	"log"

	"github.com/rrishiddh/portfolio-project-backend/internal/apperror"
	"github.com/rrishiddh/portfolio-project-backend/internal/config"
	"github.com/rrishiddh/portfolio-project-backend/internal/database"
	"github.com/rrishiddh/portfolio-project-backend/internal/models"
	"github.com/rrishiddh/portfolio-project-backend/internal/policy"
	"github.com/rrishiddh/portfolio-project-backend/internal/repository"
	"github.com/rrishiddh/portfolio-project-backend/internal/service"
	"github.com/rrishiddh/portfolio-project-backend/internal/utils"
	"github.com/rrishiddh/portfolio-project-backend/pkg/logger"
	"go.uber.org/zap"
)

type seedUser struct {
	name     string
	email    string
	password string
	role     models.Role
	avatar   string
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := logger.Init(true); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	db, err := database.Connect(cfg)
	if err != nil {
		logger.Log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close(db)

	if err := database.Migrate(db); err != nil {
		logger.Log.Fatal("Failed to migrate database", zap.Error(err))
	}

	ctx := context.Background()
	userRepo := repository.NewUserRepository(db)

	admin := upsertUser(ctx, userRepo, seedUser{
		name:     "Admin User",
		email:    "admin@portfolio.com",
		password: "admin123",
		role:     models.RoleAdmin,
		avatar:   "https://ui-avatars.com/api/?name=Admin+User&background=4F46E5&color=fff",
	})
	user := upsertUser(ctx, userRepo, seedUser{
		name:     "John Doe",
		email:    "user@portfolio.com",
		password: "user123",
		role:     models.RoleUser,
		avatar:   "https://ui-avatars.com/api/?name=John+Doe&background=10B981&color=fff",
	})

	identity := &policy.Identity{UserID: admin.ID, Email: admin.Email, Role: admin.Role}

	blogService := service.NewBlogService(repository.NewBlogRepository(db), nil)
	for _, in := range sampleBlogs() {
		blog, err := blogService.Create(ctx, identity, in)
		if skipped(err, "blog", in.Title) {
			continue
		}
		logger.Log.Info("Seeded blog", zap.String("slug", blog.Slug))
	}

	projectService := service.NewProjectService(repository.NewProjectRepository(db), nil)
	for _, in := range sampleProjects() {
		project, err := projectService.Create(ctx, identity, in)
		if skipped(err, "project", in.Title) {
			continue
		}
		logger.Log.Info("Seeded project", zap.String("slug", project.Slug))
	}

	resumeService := service.NewResumeService(repository.NewResumeRepository(db), nil, nil)
	existing, err := resumeService.List(ctx, user.ID)
	if err != nil {
		logger.Log.Fatal("Failed to list resumes", zap.Error(err))
	}
	if len(existing) == 0 {
		resume, err := resumeService.Create(ctx, user.ID, sampleResume())
		if err != nil {
			logger.Log.Fatal("Failed to seed resume", zap.Error(err))
		}
		logger.Log.Info("Seeded resume", zap.String("title", resume.Title))
	}

	logger.Log.Info("Seeding completed",
		zap.String("admin", admin.Email),
		zap.String("user", user.Email),
	)
}

// upsertUser creates the account unless the email is already taken.
func upsertUser(ctx context.Context, repo *repository.UserRepository, u seedUser) *models.User {
	existing, err := repo.GetUserByEmail(ctx, u.email)
	if err != nil {
		logger.Log.Fatal("Failed to look up user", zap.String("email", u.email), zap.Error(err))
	}
	if existing != nil {
		logger.Log.Info("User already exists", zap.String("email", u.email))
		return existing
	}

	hash, err := utils.HashPassword(u.password)
	if err != nil {
		logger.Log.Fatal("Failed to hash password", zap.Error(err))
	}

	avatar := u.avatar
	user := &models.User{
		Name:          u.name,
		Email:         u.email,
		PasswordHash:  &hash,
		Role:          u.role,
		Avatar:        &avatar,
		EmailVerified: true,
	}
	if err := repo.CreateUser(ctx, user); err != nil {
		logger.Log.Fatal("Failed to create user", zap.String("email", u.email), zap.Error(err))
	}

	logger.Log.Info("Created user", zap.String("email", u.email), zap.String("role", string(u.role)))
	return user
}

// skipped reports whether a seed entry was not created. Existing slugs are
// expected on re-runs; anything else is fatal.
func skipped(err error, kind, title string) bool {
	if err == nil {
		return false
	}
	if apperror.Is(err, apperror.KindConflict) {
		logger.Log.Info("Already seeded", zap.String("kind", kind), zap.String("title", title))
		return true
	}
	logger.Log.Fatal("Failed to seed", zap.String("kind", kind), zap.String("title", title), zap.Error(err))
	return true
}

func ptr(s string) *string { return &s }

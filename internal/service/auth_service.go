package service

import (
	"context"
	"errors"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/rrishiddh/portfolio-project-backend/internal/apperror"
	"github.com/rrishiddh/portfolio-project-backend/internal/models"
	"github.com/rrishiddh/portfolio-project-backend/internal/oauth"
	"github.com/rrishiddh/portfolio-project-backend/internal/optional"
	"github.com/rrishiddh/portfolio-project-backend/internal/repository"
	"github.com/rrishiddh/portfolio-project-backend/internal/utils"
	"github.com/rrishiddh/portfolio-project-backend/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	nameRules = []validation.Rule{
		validation.Length(2, 50).Error("Name must be between 2 and 50 characters"),
	}
	passwordRules = []validation.Rule{
		validation.Length(6, 100).Error("Password must be between 6 and 100 characters"),
	}
)

// GoogleTokenVerifier turns a Google ID token into a verified profile.
type GoogleTokenVerifier interface {
	Verify(ctx context.Context, idToken string) (*oauth.Profile, error)
}

type AuthService struct {
	userRepo *repository.UserRepository
	tokens   utils.TokenConfig
	google   GoogleTokenVerifier
}

// NewAuthService builds the auth service. google may be nil, in which case
// ID-token login answers AUTH_INVALID.
func NewAuthService(userRepo *repository.UserRepository, tokens utils.TokenConfig, google GoogleTokenVerifier) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
		google:   google,
	}
}

type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (in RegisterInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name, append([]validation.Rule{validation.Required.Error("Name is required")}, nameRules...)...),
		validation.Field(&in.Email, validation.Required.Error("Email is required"), is.Email.Error("Invalid email address")),
		validation.Field(&in.Password, append([]validation.Rule{validation.Required.Error("Password is required")}, passwordRules...)...),
	)
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (in LoginInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Email, validation.Required.Error("Email is required"), is.Email.Error("Invalid email address")),
		validation.Field(&in.Password, validation.Required.Error("Password is required")),
	)
}

// ProfilePatch changes the caller's own profile. A null avatar clears it.
type ProfilePatch struct {
	Name   optional.Value[string] `json:"name"`
	Avatar optional.Value[string] `json:"avatar"`
}

func (p ProfilePatch) Validate() error {
	return validation.Errors{
		"name":   validateSet(p.Name, append([]validation.Rule{validation.Required.Error("Name cannot be empty")}, nameRules...)...),
		"avatar": validateSet(p.Avatar, is.RequestURL.Error("Invalid avatar URL")),
	}.Filter()
}

type ChangePasswordInput struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (in ChangePasswordInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.CurrentPassword, validation.Required.Error("Current password is required")),
		validation.Field(&in.NewPassword, append([]validation.Rule{validation.Required.Error("New password is required")}, passwordRules...)...),
	)
}

// AuthResult is what register and the login flows hand back to the client.
type AuthResult struct {
	User         *models.User `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	start := time.Now()
	in.Email = normalizeEmail(in.Email)
	in.Name = strings.TrimSpace(in.Name)

	logger.Log.Debug("Processing user registration",
		zap.String("email", in.Email),
	)

	// 1. Validate input
	if err := invalid(in.Validate()); err != nil {
		logger.Log.Warn("Registration validation failed",
			zap.String("email", in.Email),
			zap.Error(err),
		)
		return nil, err
	}

	// 2. Check if email already exists
	existing, err := s.userRepo.GetUserByEmail(ctx, in.Email)
	if err != nil {
		logger.Log.Error("Failed to check email existence",
			zap.String("email", in.Email),
			zap.Error(err),
		)
		return nil, err
	}
	if existing != nil {
		logger.Log.Warn("Email already exists",
			zap.String("email", in.Email),
		)
		return nil, apperror.Conflict("User with this email already exists")
	}

	// 3. Hash password (bcrypt)
	hashStart := time.Now()
	hashed, err := utils.HashPassword(in.Password)
	if err != nil {
		if errors.Is(err, utils.ErrPasswordTooLong) {
			return nil, apperror.Validation("password: Password is too long")
		}
		logger.Log.Error("Failed to hash password", zap.Error(err))
		return nil, err
	}
	hashDuration := time.Since(hashStart)

	// 4. Create user
	user := &models.User{
		Name:          in.Name,
		Email:         in.Email,
		PasswordHash:  &hashed,
		Role:          models.RoleUser,
		EmailVerified: true,
	}
	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.Conflict("User with this email already exists")
		}
		logger.Log.Error("Failed to create user in database",
			zap.String("email", in.Email),
			zap.Error(err),
		)
		return nil, err
	}

	// 5. Issue tokens
	result, err := s.issue(user)
	if err != nil {
		return nil, err
	}

	logger.Log.Info("User registered successfully",
		zap.String("user_id", user.ID),
		zap.String("email", user.Email),
		zap.Duration("hash_duration", hashDuration),
		zap.Duration("total_duration", time.Since(start)),
	)

	return result, nil
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	start := time.Now()
	in.Email = normalizeEmail(in.Email)

	if err := invalid(in.Validate()); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetUserByEmail(ctx, in.Email)
	if err != nil {
		logger.Log.Error("Failed to get user by email",
			zap.String("email", in.Email),
			zap.Error(err),
		)
		return nil, err
	}
	if user == nil || !user.HasPassword() {
		logger.Log.Warn("Login failed: unknown user or no password set",
			zap.String("email", in.Email),
		)
		return nil, apperror.AuthInvalid("Invalid email or password")
	}

	valid, err := utils.VerifyPassword(in.Password, *user.PasswordHash)
	if err != nil {
		logger.Log.Error("Failed to verify password",
			zap.String("user_id", user.ID),
			zap.Error(err),
		)
		return nil, err
	}
	if !valid {
		logger.Log.Warn("Login failed: invalid password",
			zap.String("user_id", user.ID),
		)
		return nil, apperror.AuthInvalid("Invalid email or password")
	}

	result, err := s.issue(user)
	if err != nil {
		return nil, err
	}

	logger.Log.Info("User logged in successfully",
		zap.String("user_id", user.ID),
		zap.Duration("total_duration", time.Since(start)),
	)

	return result, nil
}

// GoogleTokenLogin verifies a Google ID token and signs the account in.
func (s *AuthService) GoogleTokenLogin(ctx context.Context, idToken string) (*AuthResult, error) {
	if s.google == nil || strings.TrimSpace(idToken) == "" {
		return nil, apperror.AuthInvalid("Google authentication failed")
	}

	profile, err := s.google.Verify(ctx, idToken)
	if err != nil {
		logger.Log.Warn("Google token rejected", zap.Error(err))
		return nil, apperror.AuthInvalid("Google authentication failed")
	}

	return s.GoogleLogin(ctx, profile)
}

// GoogleLogin finds or creates the account for a verified Google profile.
// An existing password account with the same email gets the Google id linked.
func (s *AuthService) GoogleLogin(ctx context.Context, profile *oauth.Profile) (*AuthResult, error) {
	if profile == nil || profile.Email == "" {
		return nil, apperror.AuthInvalid("Google authentication failed")
	}
	email := normalizeEmail(profile.Email)
	// Unverified addresses can neither open nor claim an account.
	if !profile.EmailVerified {
		logger.Log.Warn("Google email not verified", zap.String("email", email))
		return nil, apperror.AuthInvalid("Google authentication failed")
	}

	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		logger.Log.Error("Failed to look up Google user", zap.String("email", email), zap.Error(err))
		return nil, apperror.Wrap(apperror.KindAuthInvalid, "Google authentication failed", err)
	}

	switch {
	case user == nil:
		name := strings.TrimSpace(profile.Name)
		if name == "" {
			name = "Google User"
		}
		user = &models.User{
			Name:          name,
			Email:         email,
			Avatar:        nonEmpty(profile.Picture),
			GoogleID:      nonEmpty(profile.Subject),
			Role:          models.RoleUser,
			EmailVerified: profile.EmailVerified,
		}
		if err := s.userRepo.CreateUser(ctx, user); err != nil {
			logger.Log.Error("Failed to create Google user", zap.String("email", email), zap.Error(err))
			return nil, apperror.Wrap(apperror.KindAuthInvalid, "Google authentication failed", err)
		}
		logger.Log.Info("Google user created", zap.String("user_id", user.ID))

	case user.GoogleID == nil:
		user.GoogleID = nonEmpty(profile.Subject)
		user.EmailVerified = profile.EmailVerified
		if profile.Picture != "" {
			user.Avatar = &profile.Picture
		}
		if err := s.userRepo.SaveUser(ctx, user); err != nil {
			logger.Log.Error("Failed to link Google account", zap.String("user_id", user.ID), zap.Error(err))
			return nil, apperror.Wrap(apperror.KindAuthInvalid, "Google authentication failed", err)
		}
		logger.Log.Info("Google account linked", zap.String("user_id", user.ID))
	}

	return s.issue(user)
}

// Refresh exchanges a valid refresh token for a new pair.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*utils.TokenPair, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return nil, apperror.AuthRequired("Refresh token is required")
	}

	claims, err := utils.ValidateRefreshToken(refreshToken, s.tokens)
	if err != nil {
		logger.Log.Debug("Refresh token rejected", zap.Error(err))
		return nil, apperror.AuthInvalid("Invalid refresh token")
	}

	user, err := s.userRepo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.AuthInvalid("Invalid refresh token")
	}

	return utils.GenerateTokenPair(user, s.tokens)
}

// Authenticate resolves an access token to the live user it was issued for.
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (*models.User, error) {
	if strings.TrimSpace(accessToken) == "" {
		return nil, apperror.AuthRequired("Access token is required")
	}

	claims, err := utils.ValidateAccessToken(accessToken, s.tokens)
	if errors.Is(err, utils.ErrExpiredToken) {
		return nil, apperror.Wrap(apperror.KindAuthInvalid, "Your token has expired. Please log in again.", err)
	}
	if err != nil {
		return nil, apperror.Wrap(apperror.KindAuthInvalid, "Invalid token. Please log in again.", err)
	}

	user, err := s.userRepo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.AuthInvalid("User not found")
	}
	return user, nil
}

func (s *AuthService) Me(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NotFound("User not found")
	}
	return user, nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID string, patch ProfilePatch) (*models.User, error) {
	if patch.Name.HasValue() {
		patch.Name.V = strings.TrimSpace(patch.Name.V)
	}
	if err := invalid(patch.Validate()); err != nil {
		return nil, err
	}

	user, err := s.Me(ctx, userID)
	if err != nil {
		return nil, err
	}

	if patch.Name.HasValue() {
		user.Name = patch.Name.V
	}
	if patch.Avatar.Set {
		user.Avatar = patch.Avatar.Ptr()
	}

	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		logger.Log.Error("Failed to update profile", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	logger.Log.Info("Profile updated", zap.String("user_id", userID))
	return user, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, userID string, in ChangePasswordInput) error {
	if err := invalid(in.Validate()); err != nil {
		return err
	}

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil || !user.HasPassword() {
		return apperror.Validation("Current password is required")
	}

	valid, err := utils.VerifyPassword(in.CurrentPassword, *user.PasswordHash)
	if err != nil {
		return err
	}
	if !valid {
		logger.Log.Warn("Password change rejected: wrong current password", zap.String("user_id", userID))
		return apperror.Validation("Current password is incorrect")
	}

	hashed, err := utils.HashPassword(in.NewPassword)
	if err != nil {
		if errors.Is(err, utils.ErrPasswordTooLong) {
			return apperror.Validation("newPassword: Password is too long")
		}
		return err
	}
	user.PasswordHash = &hashed

	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		logger.Log.Error("Failed to save new password", zap.String("user_id", userID), zap.Error(err))
		return err
	}

	logger.Log.Info("Password changed", zap.String("user_id", userID))
	return nil
}

func (s *AuthService) issue(user *models.User) (*AuthResult, error) {
	pair, err := utils.GenerateTokenPair(user, s.tokens)
	if err != nil {
		logger.Log.Error("Failed to generate JWT tokens",
			zap.String("user_id", user.ID),
			zap.Error(err),
		)
		return nil, err
	}
	return &AuthResult{User: user, AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

package handler

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/markbates/goth/gothic"
	"github.com/rrishiddh/portfolio-project-backend/internal/apperror"
	"github.com/rrishiddh/portfolio-project-backend/internal/middleware"
	"github.com/rrishiddh/portfolio-project-backend/internal/oauth"
	"github.com/rrishiddh/portfolio-project-backend/internal/service"
	"github.com/rrishiddh/portfolio-project-backend/pkg/logger"
	"go.uber.org/zap"
)

type AuthHandler struct {
	authService *service.AuthService
	clientURL   string
}

// NewAuthHandler wires the auth endpoints. clientURL is where the Google
// redirect flow sends the browser once tokens are issued.
func NewAuthHandler(authService *service.AuthService, clientURL string) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		clientURL:   strings.TrimRight(clientURL, "/"),
	}
}

type GoogleTokenRequest struct {
	Token string `json:"token"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Register creates a local account.
// POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req service.RegisterInput
	if !bindJSON(c, &req) {
		return
	}

	logger.Log.Info("User registration attempt",
		zap.String("email", req.Email),
		zap.String("ip", c.ClientIP()),
	)

	result, err := h.authService.Register(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	respond(c, http.StatusCreated, "User registered successfully", result)
}

// Login exchanges email and password for a token pair.
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req service.LoginInput
	if !bindJSON(c, &req) {
		return
	}

	logger.Log.Info("User login attempt",
		zap.String("email", req.Email),
		zap.String("ip", c.ClientIP()),
	)

	result, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	respond(c, http.StatusOK, "Login successful", result)
}

// GoogleToken signs in with a Google ID token obtained by the client.
// POST /api/auth/google
func (h *AuthHandler) GoogleToken(c *gin.Context) {
	var req GoogleTokenRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.authService.GoogleTokenLogin(c.Request.Context(), req.Token)
	if err != nil {
		_ = c.Error(err)
		return
	}

	respond(c, http.StatusOK, "Google authentication successful", result)
}

// GoogleBegin starts the server-side OAuth redirect flow.
// GET /api/auth/google/login
func (h *AuthHandler) GoogleBegin(c *gin.Context) {
	req := gothic.GetContextWithProvider(c.Request, oauth.ProviderGoogle)
	gothic.BeginAuthHandler(c.Writer, req)
}

// GoogleCallback completes the redirect flow and hands the tokens to the
// client app in the URL fragment.
// GET /api/auth/google/callback
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	req := gothic.GetContextWithProvider(c.Request, oauth.ProviderGoogle)

	gothUser, err := gothic.CompleteUserAuth(c.Writer, req)
	if err != nil {
		logger.Log.Warn("Google callback failed",
			zap.String("ip", c.ClientIP()),
			zap.Error(err),
		)
		_ = c.Error(apperror.Wrap(apperror.KindAuthInvalid, "Google authentication failed", err))
		return
	}

	profile, err := oauth.ProfileFromGoth(gothUser)
	if err != nil {
		_ = c.Error(apperror.Wrap(apperror.KindAuthInvalid, "Google authentication failed", err))
		return
	}

	result, err := h.authService.GoogleLogin(c.Request.Context(), profile)
	if err != nil {
		_ = c.Error(err)
		return
	}

	_ = gothic.Logout(c.Writer, req)

	fragment := url.Values{}
	fragment.Set("accessToken", result.AccessToken)
	fragment.Set("refreshToken", result.RefreshToken)
	c.Redirect(http.StatusFound, h.clientURL+"/auth/callback#"+fragment.Encode())
}

// Refresh rotates a refresh token into a new pair.
// POST /api/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if !bindJSON(c, &req) {
		return
	}

	tokens, err := h.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		_ = c.Error(err)
		return
	}

	respond(c, http.StatusOK, "Tokens refreshed successfully", tokens)
}

// Me returns the caller's profile.
// GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	identity := middleware.CurrentIdentity(c)

	user, err := h.authService.Me(c.Request.Context(), identity.UserID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	respond(c, http.StatusOK, "", gin.H{"user": user})
}

// UpdateProfile patches name and avatar.
// PATCH /api/auth/profile
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req service.ProfilePatch
	if !bindJSON(c, &req) {
		return
	}

	identity := middleware.CurrentIdentity(c)
	user, err := h.authService.UpdateProfile(c.Request.Context(), identity.UserID, req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	respond(c, http.StatusOK, "Profile updated successfully", gin.H{"user": user})
}

// ChangePassword replaces the caller's password.
// PATCH /api/auth/change-password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req service.ChangePasswordInput
	if !bindJSON(c, &req) {
		return
	}

	identity := middleware.CurrentIdentity(c)
	if err := h.authService.ChangePassword(c.Request.Context(), identity.UserID, req); err != nil {
		_ = c.Error(err)
		return
	}

	respond(c, http.StatusOK, "Password changed successfully", nil)
}

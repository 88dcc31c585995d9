package handler_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rrishiddh/portfolio-project-backend/internal/handler"
	"github.com/rrishiddh/portfolio-project-backend/internal/middleware"
	"github.com/rrishiddh/portfolio-project-backend/internal/models"
	"github.com/rrishiddh/portfolio-project-backend/internal/repository"
	"github.com/rrishiddh/portfolio-project-backend/internal/router"
	"github.com/rrishiddh/portfolio-project-backend/internal/service"
	"github.com/rrishiddh/portfolio-project-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// APIIntegrationTestSuite drives the full router against SQLite and miniredis.
type APIIntegrationTestSuite struct {
	suite.Suite
	testDB    *testutil.TestDatabase
	testRedis *testutil.TestRedis
	redis     *redis.Client
	renderer  *testutil.FakeRenderer
	store     *testutil.FakeStore
	router    *gin.Engine
}

func (s *APIIntegrationTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)

	s.testDB = testutil.SetupTestDatabase(s.T())
	s.testRedis = testutil.SetupTestRedis(s.T())
	s.redis = redis.NewClient(&redis.Options{Addr: s.testRedis.Server.Addr()})
	s.renderer = &testutil.FakeRenderer{}
	s.store = testutil.NewFakeStore()

	tokens := testutil.TestTokenConfig()
	userRepo := repository.NewUserRepository(s.testDB.DB)
	authService := service.NewAuthService(userRepo, tokens, nil)
	limiter := middleware.NewRateLimiter(s.redis, middleware.RateLimiterConfig{
		MaxRequests: 10000,
		Window:      time.Minute,
	})

	s.router = router.New(router.Options{
		IsProduction:  false,
		ClientURL:     "http://localhost:3000",
		Authenticator: authService,
		RateLimiter:   limiter,
		Auth:          handler.NewAuthHandler(authService, "http://localhost:3000"),
		Blogs:         handler.NewBlogHandler(service.NewBlogService(repository.NewBlogRepository(s.testDB.DB), nil)),
		Projects:      handler.NewProjectHandler(service.NewProjectService(repository.NewProjectRepository(s.testDB.DB), nil)),
		Resumes:       handler.NewResumeHandler(service.NewResumeService(repository.NewResumeRepository(s.testDB.DB), s.renderer, s.store)),
		Users:         handler.NewUserHandler(service.NewUserService(userRepo)),
		Admin:         handler.NewAdminHandler(limiter),
	})
}

func (s *APIIntegrationTestSuite) TearDownSuite() {
	s.redis.Close()
	s.testRedis.Teardown(s.T())
	s.testDB.Teardown(s.T())
}

func (s *APIIntegrationTestSuite) SetupTest() {
	testutil.CleanDatabase(s.T(), s.testDB.DB)
	s.testRedis.Server.FlushAll()
	s.renderer.Err = nil
	s.renderer.Calls = 0
}

func (s *APIIntegrationTestSuite) do(method, path string, body interface{}, user *models.User) (int, map[string]interface{}) {
	auth := ""
	if user != nil {
		auth = testutil.AuthHeader(s.T(), user)
	}
	w := testutil.DoJSON(s.T(), s.router, method, path, body, auth)
	return w.Code, testutil.DecodeBody(s.T(), w)
}

func (s *APIIntegrationTestSuite) assertError(body map[string]interface{}, code string) {
	assert.Equal(s.T(), false, body["success"])
	assert.Equal(s.T(), code, body["code"])
	assert.NotEmpty(s.T(), body["error"])
}

func (s *APIIntegrationTestSuite) TestRegisterSuccess() {
	status, body := s.do(http.MethodPost, "/api/auth/register", map[string]string{
		"name":     "New User",
		"email":    "newuser@example.com",
		"password": "SecurePass123",
	}, nil)

	require.Equal(s.T(), http.StatusCreated, status)
	assert.Equal(s.T(), true, body["success"])
	assert.Equal(s.T(), "User registered successfully", body["message"])

	data := body["data"].(map[string]interface{})
	assert.NotEmpty(s.T(), data["accessToken"])
	assert.NotEmpty(s.T(), data["refreshToken"])

	user := data["user"].(map[string]interface{})
	assert.Equal(s.T(), "New User", user["name"])
	assert.Equal(s.T(), "newuser@example.com", user["email"])
	assert.Equal(s.T(), "USER", user["role"])
	assert.NotContains(s.T(), user, "password")
}

func (s *APIIntegrationTestSuite) TestRegisterDuplicateEmail() {
	testutil.DefaultTestUser(s.T(), s.testDB.DB)

	status, body := s.do(http.MethodPost, "/api/auth/register", map[string]string{
		"name":     "Different",
		"email":    "test@example.com",
		"password": "SecurePass123",
	}, nil)

	assert.Equal(s.T(), http.StatusConflict, status)
	s.assertError(body, "CONFLICT")
	assert.Contains(s.T(), body["error"], "already exists")
}

func (s *APIIntegrationTestSuite) TestRegisterInvalidInput() {
	testCases := []struct {
		name     string
		reqBody  map[string]string
		expected string
	}{
		{"Short name", map[string]string{"name": "A", "email": "test@example.com", "password": "Pass123456"}, "Name must be between 2 and 50 characters"},
		{"Invalid email", map[string]string{"name": "Tester", "email": "invalid-email", "password": "Pass123456"}, "Invalid email address"},
		{"Short password", map[string]string{"name": "Tester", "email": "test@example.com", "password": "short"}, "Password must be between 6 and 100 characters"},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			status, body := s.do(http.MethodPost, "/api/auth/register", tc.reqBody, nil)

			assert.Equal(s.T(), http.StatusBadRequest, status)
			s.assertError(body, "VALIDATION")
			assert.Contains(s.T(), body["error"], tc.expected)
			assert.NotNil(s.T(), body["details"])
		})
	}
}

func (s *APIIntegrationTestSuite) TestNonObjectBody() {
	w := testutil.DoJSON(s.T(), s.router, http.MethodPost, "/api/auth/login", "{not json", "")
	assert.Equal(s.T(), http.StatusBadRequest, w.Code)
	s.assertError(testutil.DecodeBody(s.T(), w), "VALIDATION")
}

func (s *APIIntegrationTestSuite) TestLoginSuccess() {
	testutil.CreateTestUser(s.T(), s.testDB.DB, "Login User", "login@example.com", "LoginPass123", models.RoleUser)

	status, body := s.do(http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "login@example.com",
		"password": "LoginPass123",
	}, nil)

	require.Equal(s.T(), http.StatusOK, status)
	assert.Equal(s.T(), "Login successful", body["message"])

	data := body["data"].(map[string]interface{})
	user := data["user"].(map[string]interface{})
	assert.Equal(s.T(), "Login User", user["name"])
	assert.NotEmpty(s.T(), data["accessToken"])
}

func (s *APIIntegrationTestSuite) TestLoginInvalidCredentials() {
	testutil.CreateTestUser(s.T(), s.testDB.DB, "Login User", "login@example.com", "CorrectPass123", models.RoleUser)

	status, body := s.do(http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "login@example.com",
		"password": "WrongPass123",
	}, nil)

	assert.Equal(s.T(), http.StatusUnauthorized, status)
	s.assertError(body, "AUTH_INVALID")
	assert.Equal(s.T(), "Invalid email or password", body["error"])
}

func (s *APIIntegrationTestSuite) TestLoginNonExistentUser() {
	status, body := s.do(http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "nonexistent@example.com",
		"password": "SomePass123",
	}, nil)

	assert.Equal(s.T(), http.StatusUnauthorized, status)
	assert.Equal(s.T(), "Invalid email or password", body["error"])
}

func (s *APIIntegrationTestSuite) TestGoogleTokenDisabled() {
	status, body := s.do(http.MethodPost, "/api/auth/google", map[string]string{"token": "anything"}, nil)

	assert.Equal(s.T(), http.StatusUnauthorized, status)
	s.assertError(body, "AUTH_INVALID")
}

func (s *APIIntegrationTestSuite) TestRefresh() {
	user := testutil.DefaultTestUser(s.T(), s.testDB.DB)
	_, login := s.do(http.MethodPost, "/api/auth/login", map[string]string{
		"email":    user.Email,
		"password": "Test123456",
	}, nil)
	refreshToken := login["data"].(map[string]interface{})["refreshToken"]

	status, body := s.do(http.MethodPost, "/api/auth/refresh", map[string]interface{}{"refreshToken": refreshToken}, nil)
	require.Equal(s.T(), http.StatusOK, status)
	data := body["data"].(map[string]interface{})
	assert.NotEmpty(s.T(), data["accessToken"])
	assert.NotEmpty(s.T(), data["refreshToken"])

	status, body = s.do(http.MethodPost, "/api/auth/refresh", map[string]string{"refreshToken": "garbage"}, nil)
	assert.Equal(s.T(), http.StatusUnauthorized, status)
	s.assertError(body, "AUTH_INVALID")
}

func (s *APIIntegrationTestSuite) TestMe() {
	user := testutil.DefaultTestUser(s.T(), s.testDB.DB)

	status, body := s.do(http.MethodGet, "/api/auth/me", nil, user)
	require.Equal(s.T(), http.StatusOK, status)
	me := body["data"].(map[string]interface{})["user"].(map[string]interface{})
	assert.Equal(s.T(), user.ID, me["id"])

	status, body = s.do(http.MethodGet, "/api/auth/me", nil, nil)
	assert.Equal(s.T(), http.StatusUnauthorized, status)
	s.assertError(body, "AUTH_REQUIRED")
	assert.Equal(s.T(), "Access token is required", body["error"])

	w := testutil.DoJSON(s.T(), s.router, http.MethodGet, "/api/auth/me", nil, "Bearer not-a-jwt")
	assert.Equal(s.T(), http.StatusUnauthorized, w.Code)
	s.assertError(testutil.DecodeBody(s.T(), w), "AUTH_INVALID")
}

func (s *APIIntegrationTestSuite) TestUpdateProfileAndChangePassword() {
	user := testutil.DefaultTestUser(s.T(), s.testDB.DB)

	status, body := s.do(http.MethodPatch, "/api/auth/profile", map[string]interface{}{
		"name":   "Renamed",
		"avatar": nil,
	}, user)
	require.Equal(s.T(), http.StatusOK, status)
	updated := body["data"].(map[string]interface{})["user"].(map[string]interface{})
	assert.Equal(s.T(), "Renamed", updated["name"])
	assert.Nil(s.T(), updated["avatar"])

	status, body = s.do(http.MethodPatch, "/api/auth/change-password", map[string]string{
		"currentPassword": "nope",
		"newPassword":     "NewPass123",
	}, user)
	assert.Equal(s.T(), http.StatusBadRequest, status)
	assert.Equal(s.T(), "Current password is incorrect", body["error"])

	status, _ = s.do(http.MethodPatch, "/api/auth/change-password", map[string]string{
		"currentPassword": "Test123456",
		"newPassword":     "NewPass123",
	}, user)
	assert.Equal(s.T(), http.StatusOK, status)
}

func (s *APIIntegrationTestSuite) TestHealthAndNotFound() {
	w := testutil.DoJSON(s.T(), s.router, http.MethodGet, "/health", nil, "")
	assert.Equal(s.T(), http.StatusOK, w.Code)
	assert.NotEmpty(s.T(), w.Header().Get(middleware.RequestIDHeader))
	assert.Equal(s.T(), "nosniff", w.Header().Get("X-Content-Type-Options"))

	status, body := s.do(http.MethodGet, "/api/nothing-here", nil, nil)
	assert.Equal(s.T(), http.StatusNotFound, status)
	s.assertError(body, "NOT_FOUND")
	assert.Equal(s.T(), "Not found - /api/nothing-here", body["error"])
}

func TestAPIIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(APIIntegrationTestSuite))
}

package handler_test

import (
	"errors"
	"net/http"
	"strings"

	"github.com/rrishiddh/portfolio-project-backend/internal/models"
	"github.com/rrishiddh/portfolio-project-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *APIIntegrationTestSuite) TestBlogLifecycle() {
	admin := testutil.DefaultAdminUser(s.T(), s.testDB.DB)

	status, body := s.do(http.MethodPost, "/api/blogs", map[string]interface{}{
		"title":     "Hello Gin",
		"content":   "Some words about gin.",
		"published": true,
		"tags":      []string{"go"},
	}, admin)
	require.Equal(s.T(), http.StatusCreated, status)
	blog := body["data"].(map[string]interface{})["blog"].(map[string]interface{})
	assert.Equal(s.T(), "hello-gin", blog["slug"])
	id := blog["id"].(string)

	status, body = s.do(http.MethodGet, "/api/blogs/hello-gin", nil, nil)
	require.Equal(s.T(), http.StatusOK, status)
	got := body["data"].(map[string]interface{})["blog"].(map[string]interface{})
	assert.Equal(s.T(), float64(1), got["views"])

	status, body = s.do(http.MethodPatch, "/api/blogs/"+id, map[string]interface{}{"published": false}, admin)
	require.Equal(s.T(), http.StatusOK, status)
	updated := body["data"].(map[string]interface{})["blog"].(map[string]interface{})
	assert.Nil(s.T(), updated["publishedAt"])

	status, _ = s.do(http.MethodDelete, "/api/blogs/"+id, nil, admin)
	assert.Equal(s.T(), http.StatusOK, status)

	status, body = s.do(http.MethodGet, "/api/blogs/hello-gin", nil, nil)
	assert.Equal(s.T(), http.StatusNotFound, status)
	s.assertError(body, "NOT_FOUND")
}

func (s *APIIntegrationTestSuite) TestBlogWritesRequireAdmin() {
	user := testutil.DefaultTestUser(s.T(), s.testDB.DB)
	payload := map[string]string{"title": "Nope", "content": "x"}

	status, body := s.do(http.MethodPost, "/api/blogs", payload, nil)
	assert.Equal(s.T(), http.StatusUnauthorized, status)
	s.assertError(body, "AUTH_REQUIRED")

	status, body = s.do(http.MethodPost, "/api/blogs", payload, user)
	assert.Equal(s.T(), http.StatusForbidden, status)
	s.assertError(body, "FORBIDDEN")
}

func (s *APIIntegrationTestSuite) TestBlogListEnvelopeAndDrafts() {
	admin := testutil.DefaultAdminUser(s.T(), s.testDB.DB)
	for _, slug := range []string{"a", "b", "c"} {
		testutil.CreateTestBlog(s.T(), s.testDB.DB, admin.ID, "Post "+slug, slug, true)
	}
	testutil.CreateTestBlog(s.T(), s.testDB.DB, admin.ID, "Draft", "draft", false)

	status, body := s.do(http.MethodGet, "/api/blogs?page=1&limit=2", nil, nil)
	require.Equal(s.T(), http.StatusOK, status)
	assert.Len(s.T(), body["data"], 2)
	pagination := body["pagination"].(map[string]interface{})
	assert.Equal(s.T(), float64(1), pagination["currentPage"])
	assert.Equal(s.T(), float64(2), pagination["totalPages"])
	assert.Equal(s.T(), float64(3), pagination["totalItems"])
	assert.Equal(s.T(), true, pagination["hasNext"])
	assert.Equal(s.T(), false, pagination["hasPrev"])

	// Anonymous callers never see drafts.
	_, body = s.do(http.MethodGet, "/api/blogs?published=all", nil, nil)
	assert.Equal(s.T(), float64(3), body["pagination"].(map[string]interface{})["totalItems"])

	_, body = s.do(http.MethodGet, "/api/blogs?published=all", nil, admin)
	assert.Equal(s.T(), float64(4), body["pagination"].(map[string]interface{})["totalItems"])

	status, body = s.do(http.MethodGet, "/api/blogs?limit=500", nil, nil)
	assert.Equal(s.T(), http.StatusBadRequest, status)
	s.assertError(body, "VALIDATION")

	status, _ = s.do(http.MethodGet, "/api/blogs?page=abc", nil, nil)
	assert.Equal(s.T(), http.StatusBadRequest, status)
}

func (s *APIIntegrationTestSuite) TestBlogTagsAndOverview() {
	admin := testutil.DefaultAdminUser(s.T(), s.testDB.DB)
	testutil.CreateTestBlog(s.T(), s.testDB.DB, admin.ID, "One", "one", true, "go", "web")
	testutil.CreateTestBlog(s.T(), s.testDB.DB, admin.ID, "Two", "two", true, "go")

	status, body := s.do(http.MethodGet, "/api/blogs/tags", nil, nil)
	require.Equal(s.T(), http.StatusOK, status)
	tags := body["data"].(map[string]interface{})["tags"].([]interface{})
	require.Len(s.T(), tags, 2)
	assert.Equal(s.T(), "go", tags[0].(map[string]interface{})["name"])

	status, body = s.do(http.MethodGet, "/api/blogs/analytics/overview", nil, admin)
	require.Equal(s.T(), http.StatusOK, status)
	stats := body["data"].(map[string]interface{})["stats"].(map[string]interface{})
	assert.Equal(s.T(), float64(2), stats["totalBlogs"])
}

func (s *APIIntegrationTestSuite) TestProjectEndpoints() {
	admin := testutil.DefaultAdminUser(s.T(), s.testDB.DB)
	a := testutil.CreateTestProject(s.T(), s.testDB.DB, admin.ID, "Alpha", "alpha", models.ProjectCompleted, "Go")
	b := testutil.CreateTestProject(s.T(), s.testDB.DB, admin.ID, "Beta", "beta", models.ProjectInProgress, "Go", "Vue")

	status, _ := s.do(http.MethodPost, "/api/projects/reorder", map[string]interface{}{
		"projectIds": []string{b.ID, a.ID},
	}, admin)
	require.Equal(s.T(), http.StatusOK, status)

	_, body := s.do(http.MethodGet, "/api/projects", nil, nil)
	items := body["data"].([]interface{})
	require.Len(s.T(), items, 2)
	assert.Equal(s.T(), "beta", items[0].(map[string]interface{})["slug"])

	_, body = s.do(http.MethodGet, "/api/projects?status=IN_PROGRESS", nil, nil)
	assert.Len(s.T(), body["data"], 1)

	status, body = s.do(http.MethodGet, "/api/projects/technologies", nil, nil)
	require.Equal(s.T(), http.StatusOK, status)
	techs := body["data"].(map[string]interface{})["technologies"].([]interface{})
	assert.Equal(s.T(), map[string]interface{}{"name": "Go", "count": float64(2)}, techs[0])

	status, body = s.do(http.MethodGet, "/api/projects/alpha", nil, nil)
	require.Equal(s.T(), http.StatusOK, status)
	assert.Equal(s.T(), "Alpha", body["data"].(map[string]interface{})["project"].(map[string]interface{})["title"])

	status, body = s.do(http.MethodPatch, "/api/projects/"+a.ID, map[string]interface{}{"status": nil}, admin)
	assert.Equal(s.T(), http.StatusBadRequest, status)
	s.assertError(body, "VALIDATION")
}

func (s *APIIntegrationTestSuite) TestResumeOwnershipAndPDF() {
	owner := testutil.DefaultTestUser(s.T(), s.testDB.DB)
	other := testutil.DefaultAdminUser(s.T(), s.testDB.DB)
	resume := testutil.CreateTestResume(s.T(), s.testDB.DB, owner.ID, "My CV")

	status, body := s.do(http.MethodGet, "/api/resumes", nil, owner)
	require.Equal(s.T(), http.StatusOK, status)
	assert.Len(s.T(), body["data"].(map[string]interface{})["resumes"], 1)

	status, body = s.do(http.MethodGet, "/api/resumes/"+resume.ID, nil, other)
	assert.Equal(s.T(), http.StatusNotFound, status)
	s.assertError(body, "NOT_FOUND")

	s.renderer.Data = []byte("%PDF-1.4 test")
	w := testutil.DoJSON(s.T(), s.router, http.MethodGet, "/api/resumes/"+resume.ID+"/pdf", nil, testutil.AuthHeader(s.T(), owner))
	require.Equal(s.T(), http.StatusOK, w.Code)
	assert.Equal(s.T(), "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(s.T(), `attachment; filename="My CV.pdf"`, w.Header().Get("Content-Disposition"))
	assert.Equal(s.T(), "%PDF-1.4 test", w.Body.String())

	status, body = s.do(http.MethodGet, "/api/resumes/"+resume.ID+"/pdf/link", nil, owner)
	require.Equal(s.T(), http.StatusOK, status)
	link := body["data"].(map[string]interface{})
	assert.True(s.T(), strings.HasPrefix(link["url"].(string), "https://storage.test/resumes/"+owner.ID))
}

func (s *APIIntegrationTestSuite) TestResumePDFRenderFailure() {
	owner := testutil.DefaultTestUser(s.T(), s.testDB.DB)
	resume := testutil.CreateTestResume(s.T(), s.testDB.DB, owner.ID, "My CV")
	s.renderer.Err = errors.New("browser crashed")

	status, body := s.do(http.MethodGet, "/api/resumes/"+resume.ID+"/pdf", nil, owner)
	assert.Equal(s.T(), http.StatusInternalServerError, status)
	s.assertError(body, "RENDER_FAILED")
}

func (s *APIIntegrationTestSuite) TestResumeCreateAndUpdate() {
	owner := testutil.DefaultTestUser(s.T(), s.testDB.DB)

	status, body := s.do(http.MethodPost, "/api/resumes", map[string]interface{}{
		"title": "Platform Engineer",
		"personalInfo": map[string]string{
			"fullName": "Test User",
			"email":    "test@example.com",
		},
		"skills": []map[string]string{{"name": "Go", "category": "Languages"}},
	}, owner)
	require.Equal(s.T(), http.StatusCreated, status)
	created := body["data"].(map[string]interface{})["resume"].(map[string]interface{})
	assert.Equal(s.T(), "modern", created["template"])
	assert.Equal(s.T(), []interface{}{}, created["experience"])

	status, body = s.do(http.MethodPatch, "/api/resumes/"+created["id"].(string), map[string]interface{}{
		"title": "Staff Engineer",
	}, owner)
	require.Equal(s.T(), http.StatusOK, status)
	assert.Equal(s.T(), "Staff Engineer", body["data"].(map[string]interface{})["resume"].(map[string]interface{})["title"])
}

func (s *APIIntegrationTestSuite) TestUserAdministration() {
	admin := testutil.DefaultAdminUser(s.T(), s.testDB.DB)
	user := testutil.DefaultTestUser(s.T(), s.testDB.DB)

	status, body := s.do(http.MethodGet, "/api/users", nil, user)
	assert.Equal(s.T(), http.StatusForbidden, status)
	s.assertError(body, "FORBIDDEN")

	status, body = s.do(http.MethodGet, "/api/users", nil, admin)
	require.Equal(s.T(), http.StatusOK, status)
	rows := body["data"].([]interface{})
	require.Len(s.T(), rows, 2)
	assert.Contains(s.T(), rows[0].(map[string]interface{}), "_count")

	status, _ = s.do(http.MethodGet, "/api/users/"+user.ID+"/stats", nil, user)
	assert.Equal(s.T(), http.StatusOK, status)

	status, _ = s.do(http.MethodGet, "/api/users/"+admin.ID, nil, user)
	assert.Equal(s.T(), http.StatusForbidden, status)

	status, body = s.do(http.MethodPatch, "/api/users/"+user.ID+"/role", map[string]string{"role": "ADMIN"}, admin)
	require.Equal(s.T(), http.StatusOK, status)
	assert.Equal(s.T(), "ADMIN", body["data"].(map[string]interface{})["user"].(map[string]interface{})["role"])

	status, _ = s.do(http.MethodDelete, "/api/users/"+admin.ID, nil, admin)
	assert.Equal(s.T(), http.StatusBadRequest, status)

	status, _ = s.do(http.MethodDelete, "/api/users/"+user.ID, nil, admin)
	assert.Equal(s.T(), http.StatusOK, status)

	status, body = s.do(http.MethodGet, "/api/users/analytics/overview", nil, admin)
	require.Equal(s.T(), http.StatusOK, status)
	stats := body["data"].(map[string]interface{})["stats"].(map[string]interface{})
	assert.Equal(s.T(), float64(1), stats["totalUsers"])
}

func (s *APIIntegrationTestSuite) TestIPBans() {
	admin := testutil.DefaultAdminUser(s.T(), s.testDB.DB)

	status, _ := s.do(http.MethodPost, "/api/admin/ip-bans", map[string]string{"ip": "203.0.113.9", "reason": "scraping"}, admin)
	require.Equal(s.T(), http.StatusOK, status)

	status, body := s.do(http.MethodGet, "/api/admin/ip-bans", nil, admin)
	require.Equal(s.T(), http.StatusOK, status)
	assert.Equal(s.T(), []interface{}{"203.0.113.9"}, body["data"].(map[string]interface{})["ips"])

	status, body = s.do(http.MethodPost, "/api/admin/ip-bans", map[string]string{"ip": "not-an-ip"}, admin)
	assert.Equal(s.T(), http.StatusBadRequest, status)
	s.assertError(body, "VALIDATION")

	// httptest requests come from 192.0.2.1.
	status, body = s.do(http.MethodPost, "/api/admin/ip-bans", map[string]string{"ip": "192.0.2.1"}, admin)
	assert.Equal(s.T(), http.StatusBadRequest, status)
	assert.Equal(s.T(), "Cannot ban your own IP address", body["error"])

	status, _ = s.do(http.MethodDelete, "/api/admin/ip-bans/203.0.113.9", nil, admin)
	assert.Equal(s.T(), http.StatusOK, status)

	_, body = s.do(http.MethodGet, "/api/admin/ip-bans", nil, admin)
	assert.Empty(s.T(), body["data"].(map[string]interface{})["ips"])
}

func (s *APIIntegrationTestSuite) TestBannedClientIsRejected() {
	require.NoError(s.T(), s.redis.SAdd(s.T().Context(), "banned_ips", "192.0.2.1").Err())

	status, body := s.do(http.MethodGet, "/api/blogs", nil, nil)
	assert.Equal(s.T(), http.StatusForbidden, status)
	s.assertError(body, "FORBIDDEN")

	w := testutil.DoJSON(s.T(), s.router, http.MethodGet, "/health", nil, "")
	assert.Equal(s.T(), http.StatusOK, w.Code)
}

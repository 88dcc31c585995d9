package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestGinMiddleware_CountsByRouteTemplate(t *testing.T) {
	router := gin.New()
	router.Use(GinMiddleware())
	router.GET("/api/blogs/:slug", func(c *gin.Context) { c.Status(http.StatusOK) })

	before := testutil.ToFloat64(requestTotal.WithLabelValues("GET", "/api/blogs/:slug", "200"))

	for _, slug := range []string{"a", "b"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/blogs/"+slug, nil))
	}

	after := testutil.ToFloat64(requestTotal.WithLabelValues("GET", "/api/blogs/:slug", "200"))
	assert.Equal(t, float64(2), after-before)
}

func TestGinMiddleware_UnmatchedPath(t *testing.T) {
	router := gin.New()
	router.Use(GinMiddleware())

	before := testutil.ToFloat64(requestTotal.WithLabelValues("GET", "unmatched", "404"))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope/123", nil))

	after := testutil.ToFloat64(requestTotal.WithLabelValues("GET", "unmatched", "404"))
	assert.Equal(t, float64(1), after-before)
}

func TestHandler_ExposesMetrics(t *testing.T) {
	ObservePDFRender(time.Now(), errors.New("boom"))

	router := gin.New()
	router.GET("/metrics", Handler())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "portfolio_pdf_render_duration_seconds")
}

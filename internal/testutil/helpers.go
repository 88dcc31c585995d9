package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/rrishiddh/portfolio-project-backend/internal/models"
	"github.com/rrishiddh/portfolio-project-backend/internal/utils"
)

// TestTokenConfig signs tokens for integration tests.
func TestTokenConfig() utils.TokenConfig {
	return utils.TokenConfig{
		AccessSecret:  "test-access-secret",
		RefreshSecret: "test-refresh-secret",
		AccessTTL:     time.Hour,
		RefreshTTL:    24 * time.Hour,
	}
}

// AuthHeader returns a Bearer header value for user.
func AuthHeader(t *testing.T, user *models.User) string {
	t.Helper()

	pair, err := utils.GenerateTokenPair(user, TestTokenConfig())
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}
	return "Bearer " + pair.AccessToken
}

// DoJSON sends body (marshalled unless nil) and records the response.
func DoJSON(t *testing.T, h http.Handler, method, path string, body interface{}, authHeader string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("Failed to encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

// DecodeBody unmarshals a JSON response into a generic map.
func DecodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode response %q: %v", w.Body.String(), err)
	}
	return body
}

// FakeRenderer returns fixed bytes, or Err when set.
type FakeRenderer struct {
	mu    sync.Mutex
	Data  []byte
	Err   error
	Calls int
	HTML  string
}

func (f *FakeRenderer) Render(ctx context.Context, html string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Calls++
	f.HTML = html
	if f.Err != nil {
		return nil, f.Err
	}
	if f.Data == nil {
		return []byte("%PDF-1.4 fake"), nil
	}
	return f.Data, nil
}

// FakeStore keeps uploaded objects in memory.
type FakeStore struct {
	mu      sync.Mutex
	Objects map[string][]byte
	Err     error
}

func NewFakeStore() *FakeStore {
	return &FakeStore{Objects: map[string][]byte{}}
}

func (f *FakeStore) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.Err != nil {
		return f.Err
	}
	f.Objects[key] = data
	return nil
}

func (f *FakeStore) PresignedURL(ctx context.Context, key, filename string, ttl time.Duration) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.Objects[key]; !ok {
		return "", errors.New("object not found")
	}
	return "https://storage.test/" + key + "?filename=" + filename, nil
}

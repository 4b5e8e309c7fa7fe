package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uniwatch/uniwatch/internal/api"
	"github.com/uniwatch/uniwatch/internal/domain"
	"github.com/uniwatch/uniwatch/internal/logger"
	"github.com/uniwatch/uniwatch/internal/scraper"
)

// mockRunner implements api.Runner with canned responses.
type mockRunner struct {
	mu      sync.Mutex
	names   []string
	posts   map[string][]domain.Post
	runErr  error
	cleared []string
}

func (m *mockRunner) Names() []string {
	return m.names
}

func (m *mockRunner) RunOnce(_ context.Context, name string) ([]domain.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.runErr != nil {
		return nil, m.runErr
	}
	posts, ok := m.posts[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", scraper.ErrScraperNotFound, name)
	}
	return posts, nil
}

func (m *mockRunner) ClearCache(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.posts[name]; !ok {
		return fmt.Errorf("%w: %s", scraper.ErrScraperNotFound, name)
	}
	m.cleared = append(m.cleared, name)
	return nil
}

func (m *mockRunner) ClearAll() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cleared = append(m.cleared, "*")
	return nil
}

func newRouter(runner api.Runner) http.Handler {
	return api.SetupRouter(logger.NewNoOp(), runner)
}

func doRequest(t *testing.T, handler http.Handler, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, http.NoBody)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	t.Parallel()

	rec := doRequest(t, newRouter(&mockRunner{}), http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestList(t *testing.T) {
	t.Parallel()

	runner := &mockRunner{names: []string{"announcements", "jobs"}}
	rec := doRequest(t, newRouter(runner), http.MethodGet, "/list")

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Scrapers []string `json:"scrapers"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []string{"announcements", "jobs"}, body.Scrapers)
}

func TestRunOnce_ReturnsPosts(t *testing.T) {
	t.Parallel()

	runner := &mockRunner{
		posts: map[string][]domain.Post{
			"jobs": {{ID: "https://example.com/j/1", Title: "Backend intern", URL: "https://example.com/j/1"}},
		},
	}
	rec := doRequest(t, newRouter(runner), http.MethodGet, "/get/jobs")

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Posts []domain.Post `json:"posts"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Posts, 1)
	assert.Equal(t, "Backend intern", body.Posts[0].Title)
}

func TestRunOnce_EmptyBatchIsAnEmptyList(t *testing.T) {
	t.Parallel()

	runner := &mockRunner{posts: map[string][]domain.Post{"jobs": nil}}
	rec := doRequest(t, newRouter(runner), http.MethodGet, "/get/jobs")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"posts":[]}`, rec.Body.String())
}

func TestRunOnce_UnknownScraper(t *testing.T) {
	t.Parallel()

	rec := doRequest(t, newRouter(&mockRunner{}), http.MethodGet, "/get/unknown")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRunOnce_CycleFailure(t *testing.T) {
	t.Parallel()

	runner := &mockRunner{runErr: errors.New("fetch failed: connection refused")}
	rec := doRequest(t, newRouter(runner), http.MethodGet, "/get/jobs")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "fetch failed")
}

func TestClear_OneScraper(t *testing.T) {
	t.Parallel()

	runner := &mockRunner{posts: map[string][]domain.Post{"jobs": nil}}
	rec := doRequest(t, newRouter(runner), http.MethodDelete, "/delete/jobs")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"jobs"}, runner.cleared)
}

func TestClear_UnknownScraper(t *testing.T) {
	t.Parallel()

	rec := doRequest(t, newRouter(&mockRunner{}), http.MethodDelete, "/delete/unknown")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestClear_All(t *testing.T) {
	t.Parallel()

	runner := &mockRunner{}
	rec := doRequest(t, newRouter(runner), http.MethodDelete, "/delete")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"*"}, runner.cleared)
}

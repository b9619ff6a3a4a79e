package router

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-job-board/internal/config"
	"go-job-board/internal/handler"
	"go-job-board/internal/middleware"
	"go-job-board/internal/model"
	"go-job-board/internal/service"
	"go-job-board/pkg/apierror"
	"go-job-board/pkg/session"
)

type memUserStore struct {
	mu   sync.Mutex
	byID map[string]model.User
}

func (s *memUserStore) FindByEmail(_ context.Context, email string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, apierror.New("NOT_FOUND", "User not found", "", http.StatusNotFound)
}

func (s *memUserStore) FindByID(_ context.Context, id string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.byID[id]; ok {
		return u, nil
	}
	return model.User{}, apierror.New("NOT_FOUND", "User not found", "", http.StatusNotFound)
}

func (s *memUserStore) ExistsByEmail(_ context.Context, email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.byID {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (s *memUserStore) Create(_ context.Context, u model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[u.ID] = u
	return nil
}

func (s *memUserStore) Count(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID), nil
}

type memJobStore struct {
	mu   sync.Mutex
	jobs []model.Job
}

func (s *memJobStore) List(_ context.Context) ([]model.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Job, len(s.jobs))
	copy(out, s.jobs)
	return out, nil
}

func (s *memJobStore) FindByID(_ context.Context, id string) (model.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, j := range s.jobs {
		if j.ID == id {
			return j, nil
		}
	}
	return model.Job{}, model.ErrJobNotFound
}

func (s *memJobStore) Create(_ context.Context, j model.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = append(s.jobs, j)
	return nil
}

func (s *memJobStore) Update(_ context.Context, j model.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.jobs {
		if s.jobs[i].ID == j.ID {
			s.jobs[i] = j
			return nil
		}
	}
	return model.ErrJobNotFound
}

func (s *memJobStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.jobs {
		if s.jobs[i].ID == id {
			s.jobs = append(s.jobs[:i], s.jobs[i+1:]...)
			return nil
		}
	}
	return nil
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	authService, err := service.NewAuthService("router-test-secret", time.Hour, &memUserStore{byID: map[string]model.User{}})
	require.NoError(t, err)
	jobService := service.NewJobService(&memJobStore{})

	cfg := &config.Config{
		RequestTimeout:   5 * time.Second,
		CORSOrigins:      []string{"*"},
		RateLimitRPM:     1000,
		AuthRateLimitRPM: 1000,
	}

	handlers := Handlers{
		Auth: handler.NewAuthHandler(authService),
		Job:  handler.NewJobHandler(jobService),
	}
	health := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"success":true,"message":"healthy"}`))
	}

	server := httptest.NewServer(New(cfg, middleware.NewAuthMiddleware(authService), handlers, health))
	t.Cleanup(server.Close)
	return server
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Token   string          `json:"token"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

func do(t *testing.T, method, url string, body any, headers map[string]string) (*http.Response, envelope, string) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var env envelope
	require.NoError(t, json.Unmarshal(raw, &env), "body: %s", raw)
	return resp, env, string(raw)
}

func registerBody() map[string]any {
	return map[string]any{
		"name":     "Ada Lovelace",
		"email":    "ada@example.com",
		"phone":    "+12025550123",
		"password": "secret-pw",
	}
}

func jobBody() map[string]any {
	return map[string]any{
		"title":       "Backend Engineer",
		"company":     "Acme",
		"location":    "Remote",
		"image":       "https://example.com/logo.png",
		"description": "Build services",
		"salary":      "120000",
		"jobType":     "Full-time",
		"experience":  "3+ years",
		"skills":      []string{"Go", "PostgreSQL"},
		"applyLink":   "https://example.com/apply",
		"lastDate":    time.Now().Add(30 * 24 * time.Hour).Format(time.RFC3339),
	}
}

func TestAuthFlow(t *testing.T) {
	server := newTestServer(t)

	resp, env, _ := do(t, http.MethodPost, server.URL+"/api/users/register", registerBody(), nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.True(t, env.Success)
	assert.Equal(t, "User registered successfully", env.Message)

	// Duplicate registration is rejected without touching the first record.
	resp, env, _ = do(t, http.MethodPost, server.URL+"/api/users/register", registerBody(), nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "User already exists", env.Message)

	resp, env, _ = do(t, http.MethodPost, server.URL+"/api/users/login", map[string]any{
		"email": "ada@example.com", "password": "secret-pw",
	}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Login successful", env.Message)
	require.NotEmpty(t, env.Token)
	token := env.Token

	resp, env, raw := do(t, http.MethodGet, server.URL+"/api/users/profile", nil,
		map[string]string{"Authorization": "Bearer " + token})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var profile map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &profile))
	assert.Equal(t, "Ada Lovelace", profile["name"])
	assert.Equal(t, "ada@example.com", profile["email"])
	assert.Equal(t, "user", profile["role"])
	assert.NotContains(t, strings.ToLower(raw), "password")
}

func TestAuthFlowRejections(t *testing.T) {
	server := newTestServer(t)

	resp, env, _ := do(t, http.MethodGet, server.URL+"/api/users/profile", nil, nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Access denied. No token provided.", env.Message)

	// A well-formed header carrying a mangled token is a 400, not a 401.
	resp, env, _ = do(t, http.MethodPost, server.URL+"/api/users/register", registerBody(), nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp, env, _ = do(t, http.MethodPost, server.URL+"/api/users/login", map[string]any{
		"email": "ada@example.com", "password": "secret-pw",
	}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	reversed := []rune(env.Token)
	for i, j := 0, len(reversed)-1; i < j; i, j = i+1, j-1 {
		reversed[i], reversed[j] = reversed[j], reversed[i]
	}
	resp, env, _ = do(t, http.MethodGet, server.URL+"/api/users/profile", nil,
		map[string]string{"Authorization": "Bearer " + string(reversed)})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid token.", env.Message)

	resp, env, _ = do(t, http.MethodPost, server.URL+"/api/users/login", map[string]any{
		"email": "ada@example.com", "password": "wrong",
	}, nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid credentials", env.Message)

	resp, env, _ = do(t, http.MethodPost, server.URL+"/api/users/login", map[string]any{
		"email": "ghost@example.com", "password": "whatever",
	}, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "User not found", env.Message)
}

func TestJobLifecycle(t *testing.T) {
	server := newTestServer(t)

	resp, env, _ := do(t, http.MethodPost, server.URL+"/api/jobs/", map[string]any{"title": "Only title"}, nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, env.Message, "Missing required fields: company, location")

	resp, env, _ = do(t, http.MethodPost, server.URL+"/api/jobs/", jobBody(), nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created model.Job
	require.NoError(t, json.Unmarshal(env.Data, &created))
	require.NotEmpty(t, created.ID)

	resp, env, _ = do(t, http.MethodGet, server.URL+"/api/jobs/", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var listed []model.Job
	require.NoError(t, json.Unmarshal(env.Data, &listed))
	require.Len(t, listed, 1)

	// The public view URL is a 1-based position in the listing.
	resp, env, _ = do(t, http.MethodGet, server.URL+"/api/jobs/view/1", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var viewed model.Job
	require.NoError(t, json.Unmarshal(env.Data, &viewed))
	assert.Equal(t, created.ID, viewed.ID)

	resp, env, _ = do(t, http.MethodGet, server.URL+"/api/jobs/view/9", nil, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Job not found", env.Message)

	resp, env, _ = do(t, http.MethodGet, server.URL+"/api/jobs/view/abc", nil, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Job not found", env.Message)

	resp, env, _ = do(t, http.MethodPut, server.URL+"/api/jobs/"+created.ID,
		map[string]any{"title": "Staff Engineer"}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var updated model.Job
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Equal(t, "Staff Engineer", updated.Title)
	assert.Equal(t, "Acme", updated.Company)

	// Updating a syntactically valid id that matches nothing is a bare 200.
	resp, env, _ = do(t, http.MethodPut, server.URL+"/api/jobs/b3b9c6a0-0000-4000-8000-000000000000",
		map[string]any{"title": "x"}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, env.Success)
	assert.Empty(t, env.Data)

	resp, env, _ = do(t, http.MethodGet, server.URL+"/api/jobs/not-a-uuid", nil, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Invalid job ID", env.Message)

	resp, env, _ = do(t, http.MethodDelete, server.URL+"/api/jobs/"+created.ID, nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Job deleted successfully", env.Message)

	// Delete is idempotent.
	resp, env, _ = do(t, http.MethodDelete, server.URL+"/api/jobs/"+created.ID, nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Job deleted successfully", env.Message)
}

func TestHealthEndpoint(t *testing.T) {
	server := newTestServer(t)

	resp, env, _ := do(t, http.MethodGet, server.URL+"/health", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, env.Success)
}

func TestSessionStoreAgainstServer(t *testing.T) {
	server := newTestServer(t)

	_, _, _ = do(t, http.MethodPost, server.URL+"/api/users/register", registerBody(), nil)
	_, env, _ := do(t, http.MethodPost, server.URL+"/api/users/login", map[string]any{
		"email": "ada@example.com", "password": "secret-pw",
	}, nil)
	require.NotEmpty(t, env.Token)

	storage := session.NewMemoryTokenStorage()
	store := session.New(storage, session.NewHTTPProfileClient(server.URL, server.Client()))

	require.NoError(t, store.Login(env.Token))
	state, err := store.Settle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, session.State{IsLoggedIn: true, IsAdmin: false}, state)

	require.NoError(t, store.Logout())
	state, err = store.Settle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, session.State{}, state)
	_, present := storage.Token()
	assert.False(t, present)
}

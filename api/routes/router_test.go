package routes

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

	"github.com/mygroup/mygroup-backend/api/middleware"
	"github.com/mygroup/mygroup-backend/internal/auth"
	"github.com/mygroup/mygroup-backend/internal/geo"
	"github.com/mygroup/mygroup-backend/internal/users"
	"github.com/mygroup/mygroup-backend/pkg/config"
	"github.com/mygroup/mygroup-backend/pkg/logger"
	"github.com/mygroup/mygroup-backend/pkg/metrics"
	"github.com/mygroup/mygroup-backend/pkg/migrate/migratetest"
	"github.com/mygroup/mygroup-backend/pkg/redis"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryLimiter struct {
	mu     sync.Mutex
	counts map[string]int64
}

func (m *memoryLimiter) Ping(ctx context.Context) error { return nil }

func (m *memoryLimiter) FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (redis.Window, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.counts == nil {
		m.counts = map[string]int64{}
	}
	m.counts[scope]++
	return redis.Window{Allowed: m.counts[scope] <= limit, Count: m.counts[scope], RetryAfter: window}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "dev", Port: "0"},
		JWT: config.JWTConfig{
			Secret:            "secret",
			Issuer:            "mygroup",
			ExpirationMinutes: 1440,
		},
		AuthRateLimit: config.AuthRateLimitConfig{
			LoginWindow:        time.Minute,
			LoginEmailLimit:    3,
			LoginIPLimit:       100,
			RegisterWindow:     time.Minute,
			RegisterEmailLimit: 5,
			RegisterIPLimit:    100,
		},
		CORS: config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
	}
}

type testServer struct {
	handler http.Handler
	cfg     *config.Config
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	cfg := testConfig()
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	client := migratetest.OpenSQLite(t)
	userRepo := users.NewRepository(client.DB())

	reg := prometheus.NewRegistry()
	authMetrics := metrics.NewAuthMetrics(reg)

	authSvc, err := auth.NewService(auth.ServiceParams{
		UserRepo:         userRepo,
		JWTConfig:        cfg.JWT,
		PasswordConfig:   cfg.Password,
		AcceptLegacyHash: true,
		Metrics:          authMetrics,
		Logger:           logg,
	})
	require.NoError(t, err)
	registerSvc, err := auth.NewRegisterService(auth.RegisterServiceParams{
		TxRunner:       client,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
		Metrics:        authMetrics,
	})
	require.NoError(t, err)
	uniqueSvc, err := auth.NewUniquenessService(userRepo)
	require.NoError(t, err)
	geoSvc, err := geo.NewService(geo.NewRepository(client.DB()))
	require.NoError(t, err)

	handler := NewRouter(cfg, logg, Dependencies{
		DB:                client,
		Redis:             &memoryLimiter{},
		AuthService:       authSvc,
		RegisterService:   registerSvc,
		UniquenessService: uniqueSvc,
		GeoService:        geoSvc,
		AuthMetrics:       authMetrics,
		HTTPMetrics:       metrics.NewHTTPMetrics(reg),
		Gatherer:          reg,
	})
	return &testServer{handler: handler, cfg: cfg}
}

func (s *testServer) do(t *testing.T, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	s.handler.ServeHTTP(resp, req)
	return resp
}

func decodeData(t *testing.T, resp *httptest.ResponseRecorder, dest any) {
	t.Helper()
	envelope := struct {
		Data any `json:"data"`
	}{Data: dest}
	require.NoError(t, json.NewDecoder(bytes.NewReader(resp.Body.Bytes())).Decode(&envelope))
}

func TestHealthRoutes(t *testing.T) {
	srv := newTestServer(t)

	assert.Equal(t, http.StatusOK, srv.do(t, http.MethodGet, "/health/live", "", "").Code)
	ready := srv.do(t, http.MethodGet, "/health/ready", "", "")
	assert.Equal(t, http.StatusOK, ready.Code)
	assert.Contains(t, ready.Body.String(), `"redis":"up"`)
}

func TestProtectedRoutesRejectMissingJWT(t *testing.T) {
	srv := newTestServer(t)

	assert.Equal(t, http.StatusUnauthorized, srv.do(t, http.MethodGet, "/api/v1/auth/me", "", "").Code)
	assert.Equal(t, http.StatusUnauthorized, srv.do(t, http.MethodPost, "/api/v1/auth/logout", "", "").Code)
	assert.Equal(t, http.StatusUnauthorized, srv.do(t, http.MethodGet, "/api/v1/auth/me", "", "garbage").Code)
}

func TestRegistrationFlowOverHTTP(t *testing.T) {
	srv := newTestServer(t)

	resp := srv.do(t, http.MethodPost, "/api/v1/auth/register-step1",
		`{"first_name":"Asha","country_code":"+91","mobile_number":"9998887776","password":"secret1"}`, "")
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	var step1 auth.RegisterStep1Response
	decodeData(t, resp, &step1)
	assert.Equal(t, "9998887776", step1.Username)

	resp = srv.do(t, http.MethodPost, "/api/v1/auth/register-step1",
		`{"first_name":"Asha","country_code":"+91","mobile_number":"9998887776","password":"secret1"}`, "")
	assert.Equal(t, http.StatusConflict, resp.Code)

	resp = srv.do(t, http.MethodGet, "/api/v1/auth/unique-mobile?mobile=9998887776", "", "")
	require.Equal(t, http.StatusOK, resp.Code)
	var exists auth.ExistsResponse
	decodeData(t, resp, &exists)
	assert.True(t, exists.Exists)

	step2 := map[string]any{
		"register_user_id": step1.UserID,
		"display_name":     "AshaK",
		"email":            "asha@example.com",
		"gender":           "F",
		"marital":          "Single",
		"from_date":        "15",
		"from_month":       "06",
		"from_year":        "1995",
		"country":          1,
		"state":            2,
		"district":         5,
		"nationality":      "Indian",
		"education":        "Graduate",
		"profession":       "Engineer",
	}
	raw, err := json.Marshal(step2)
	require.NoError(t, err)
	resp = srv.do(t, http.MethodPost, "/api/v1/auth/register-step2", string(raw), "")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.NotEmpty(t, resp.Header().Get(middleware.TokenHeader))

	resp = srv.do(t, http.MethodPost, "/api/v1/auth/login", `{"email":"asha@example.com","password":"secret1"}`, "")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	var login auth.LoginResponse
	decodeData(t, resp, &login)
	require.NotEmpty(t, login.Token)
	require.NotNil(t, login.Profile)
	assert.Equal(t, "1995-06-15", login.Profile.DateOfBirth)

	resp = srv.do(t, http.MethodGet, "/api/v1/auth/me", "", login.Token)
	require.Equal(t, http.StatusOK, resp.Code)
	var me auth.CurrentUserResponse
	decodeData(t, resp, &me)
	assert.Equal(t, step1.UserID, me.User.ID)

	resp = srv.do(t, http.MethodPost, "/api/v1/auth/logout", "", login.Token)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "logout successful")
}

func TestLoginRateLimited(t *testing.T) {
	srv := newTestServer(t)
	body := `{"email":"nobody@example.com","password":"secret1"}`

	for i := 0; i < srv.cfg.AuthRateLimit.LoginEmailLimit; i++ {
		assert.Equal(t, http.StatusUnauthorized, srv.do(t, http.MethodPost, "/api/v1/auth/login", body, "").Code)
	}
	assert.Equal(t, http.StatusTooManyRequests, srv.do(t, http.MethodPost, "/api/v1/auth/login", body, "").Code)
}

func TestGeographicRoutes(t *testing.T) {
	srv := newTestServer(t)

	resp := srv.do(t, http.MethodGet, "/api/v1/geographic/states/1", "", "")
	assert.Equal(t, http.StatusOK, resp.Code)
	resp = srv.do(t, http.MethodGet, "/api/v1/geographic/districts/abc", "", "")
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	resp = srv.do(t, http.MethodGet, "/api/v1/auth/register-metadata", "", "")
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t)
	srv.do(t, http.MethodPost, "/api/v1/auth/login", `{"email":"nobody@example.com","password":"secret1"}`, "")

	resp := srv.do(t, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `mygroup_logins_total{outcome="invalid"} 1`)
	assert.Contains(t, resp.Body.String(), `route="/api/v1/auth/login"`)
}

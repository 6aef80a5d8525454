package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OldStager01/scaling-advisor/api/handlers"
	"github.com/OldStager01/scaling-advisor/api/middleware"
	"github.com/OldStager01/scaling-advisor/internal/auth"
	"github.com/OldStager01/scaling-advisor/internal/store"
	"github.com/OldStager01/scaling-advisor/pkg/config"
	"github.com/OldStager01/scaling-advisor/pkg/models"
)

var testDeployment = models.DeploymentRef{Cluster: "introspect2-eks", Namespace: "default", Name: "claims-service"}

type fakeRunner struct {
	resp models.CycleResponse
	raw  []byte
}

func (f *fakeRunner) Trigger(_ context.Context, raw []byte) models.CycleResponse {
	f.raw = raw
	return f.resp
}

func newTestServer(t *testing.T, runner *fakeRunner, st store.Store, checks ...handlers.HealthCheck) *Server {
	t.Helper()

	hash, err := auth.HashPassword("Operator-Pass1")
	require.NoError(t, err)

	s := NewServer(config.APIConfig{
		JWTSecret:    "test-secret",
		JWTDuration:  time.Hour,
		DefaultLimit: 10,
		MaxLimit:     50,
	}, Options{
		Mode:       "test",
		Deployment: testDeployment,
		Runner:     runner,
		Users:      auth.NewStaticUsers("operator", hash),
		Store:      st,
		Checks:     checks,
	})
	t.Cleanup(func() { _ = s.Shutdown(context.Background()) })
	return s
}

func do(s *Server, method, path string, body []byte, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	return w
}

func login(t *testing.T, s *Server) string {
	t.Helper()
	w := do(s, http.MethodPost, "/auth/login", []byte(`{"username":"operator","password":"Operator-Pass1"}`), "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp handlers.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	assert.Equal(t, 3600, resp.ExpiresIn)
	return resp.Token
}

func TestHealthEndpoints(t *testing.T) {
	failing := handlers.HealthCheck{Name: "database", Check: func(context.Context) error { return errors.New("connection refused") }}
	s := newTestServer(t, &fakeRunner{}, nil, failing)

	w := do(s, http.MethodGet, "/health/live", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(s, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	var health handlers.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, "unhealthy", health.Status)
	assert.Contains(t, health.Checks["database"], "connection refused")

	w = do(s, http.MethodGet, "/health/ready", nil, "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestLogin(t *testing.T) {
	s := newTestServer(t, &fakeRunner{}, nil)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"malformed", `{"username":`, http.StatusBadRequest},
		{"unknown user", `{"username":"root","password":"Operator-Pass1"}`, http.StatusUnauthorized},
		{"wrong password", `{"username":"operator","password":"nope"}`, http.StatusUnauthorized},
		{"valid", `{"username":"operator","password":"Operator-Pass1"}`, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(s, http.MethodPost, "/auth/login", []byte(tt.body), "")
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestTriggers(t *testing.T) {
	tests := []struct {
		name string
		resp models.CycleResponse
		want int
	}{
		{
			name: "successful cycle",
			resp: models.CycleResponse{CycleID: "c-1", Status: models.CycleStatusOK},
			want: http.StatusOK,
		},
		{
			name: "failed cycle",
			resp: models.CycleResponse{CycleID: "c-2", Status: models.CycleStatusFailed, Error: "oracle timeout", ErrorKind: models.ErrorKindBackend},
			want: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &fakeRunner{resp: tt.resp}
			s := newTestServer(t, runner, nil)
			token := login(t, s)

			body := []byte(`{"Records":[{"Sns":{"Message":"{}"}}]}`)
			w := do(s, http.MethodPost, "/v1/triggers", body, token)

			assert.Equal(t, tt.want, w.Code)
			assert.Equal(t, body, runner.raw)

			var resp models.CycleResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.resp.Status, resp.Status)
			assert.Equal(t, tt.resp.ErrorKind, resp.ErrorKind)
		})
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	runner := &fakeRunner{}
	s := newTestServer(t, runner, nil)

	for _, path := range []string{"/v1/decisions/latest", "/v1/audit/recent"} {
		w := do(s, http.MethodGet, path, nil, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}

	w := do(s, http.MethodPost, "/v1/triggers", []byte(`{}`), "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Nil(t, runner.raw)
}

func TestAuditRoutesWithoutDatabase(t *testing.T) {
	s := newTestServer(t, &fakeRunner{}, nil)
	token := login(t, s)

	assert.Equal(t, http.StatusServiceUnavailable, do(s, http.MethodGet, "/v1/audit/recent", nil, token).Code)
	assert.Equal(t, http.StatusServiceUnavailable, do(s, http.MethodGet, "/v1/audit/stats?range=7d", nil, token).Code)
}

func TestDecisionRoutes(t *testing.T) {
	st := store.NewMemoryStore(0, 0)
	s := newTestServer(t, &fakeRunner{}, st)
	token := login(t, s)

	w := do(s, http.MethodGet, "/v1/decisions/latest", nil, token)
	assert.Equal(t, http.StatusNotFound, w.Code)

	for _, id := range []string{"c-1", "c-2", "c-3"} {
		require.NoError(t, st.Put(context.Background(), models.AuditRecord{
			CycleID:    id,
			Deployment: testDeployment,
			Status:     models.CycleStatusOK,
			Decision:   &models.ScalingDecision{Action: models.ActionNoAction, TargetReplicas: 2},
		}))
	}

	w = do(s, http.MethodGet, "/v1/decisions/latest", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	var latest models.AuditRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &latest))
	assert.Equal(t, "c-3", latest.CycleID)

	w = do(s, http.MethodGet, "/v1/decisions/history?limit=2", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	var history struct {
		Count int                  `json:"count"`
		Data  []models.AuditRecord `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &history))
	assert.Equal(t, 2, history.Count)
	assert.Equal(t, "c-3", history.Data[0].CycleID)

	w = do(s, http.MethodGet, "/v1/decisions/latest?deployment=billing", nil, token)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTraceIDEchoed(t *testing.T) {
	s := newTestServer(t, &fakeRunner{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	req.Header.Set(middleware.TraceIDHeader, "trace-123")
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)

	assert.Equal(t, "trace-123", w.Header().Get(middleware.TraceIDHeader))

	w = do(s, http.MethodGet, "/health/live", nil, "")
	assert.NotEmpty(t, w.Header().Get(middleware.TraceIDHeader))
}

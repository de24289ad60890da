package apiserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/crewtrack/crewtrack/pkg/auth"
	"github.com/crewtrack/crewtrack/pkg/config"
	"github.com/crewtrack/crewtrack/pkg/model"
)

type healthResponse struct {
	Status string `json:"status"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func testConfig() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{
			JWTSecret: "test-secret",
			TokenTTL:  time.Hour,
		},
	}
}

func mintToken(t *testing.T, cfg *config.Config, user *model.User) string {
	t.Helper()
	manager := auth.NewSessionTokenManager([]byte(cfg.Auth.JWTSecret), cfg.Auth.TokenTTL)
	token, err := manager.Generate(user)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	return token
}

func TestHealthEndpoint(t *testing.T) {
	server := NewServer(nil, nil, testConfig(), zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	recorder := httptest.NewRecorder()

	server.Router().ServeHTTP(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, recorder.Code)
	}

	var response healthResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if response.Status != "ok" {
		t.Fatalf("expected status ok, got %q", response.Status)
	}
}

func TestAPIAuthRequired(t *testing.T) {
	server := NewServer(nil, nil, testConfig(), zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/time-records", nil)
	recorder := httptest.NewRecorder()

	server.Router().ServeHTTP(recorder, req)

	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, recorder.Code)
	}

	var response errorResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if response.Error != "missing authorization" {
		t.Fatalf("expected missing authorization error, got %q", response.Error)
	}
}

func TestAPIRejectsGarbageToken(t *testing.T) {
	server := NewServer(nil, nil, testConfig(), zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/time-records", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	recorder := httptest.NewRecorder()

	server.Router().ServeHTTP(recorder, req)

	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, recorder.Code)
	}
}

func TestPermissionGateForbidsEmployee(t *testing.T) {
	cfg := testConfig()
	server := NewServer(nil, nil, cfg, zap.NewNop())

	tenantID := uuid.New()
	token := mintToken(t, cfg, &model.User{
		ID:       uuid.New(),
		Role:     model.RoleEmployee,
		TenantID: &tenantID,
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/payroll/summary", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	recorder := httptest.NewRecorder()

	server.Router().ServeHTTP(recorder, req)

	if recorder.Code != http.StatusForbidden {
		t.Fatalf("expected status %d, got %d", http.StatusForbidden, recorder.Code)
	}

	var response errorResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if response.Error != "permission denied" {
		t.Fatalf("expected permission denied error, got %q", response.Error)
	}
}

func TestNoTenantContextWithoutImpersonation(t *testing.T) {
	cfg := testConfig()
	server := NewServer(nil, nil, cfg, zap.NewNop())

	// A superadmin carries no tenant of their own, and this server has no
	// session store to hold an impersonation.
	token := mintToken(t, cfg, &model.User{
		ID:   uuid.New(),
		Role: model.RoleSuperadmin,
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/time-records", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	recorder := httptest.NewRecorder()

	server.Router().ServeHTTP(recorder, req)

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, recorder.Code)
	}

	var response errorResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if response.Error != "no tenant context" {
		t.Fatalf("expected no tenant context error, got %q", response.Error)
	}
}

func TestChatRoutesAbsentWithoutBroker(t *testing.T) {
	cfg := testConfig()
	server := NewServer(nil, nil, cfg, zap.NewNop())

	tenantID := uuid.New()
	token := mintToken(t, cfg, &model.User{
		ID:       uuid.New(),
		Role:     model.RoleAdmin,
		TenantID: &tenantID,
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/chat/rooms/"+uuid.NewString()+"/messages", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	recorder := httptest.NewRecorder()

	server.Router().ServeHTTP(recorder, req)

	if recorder.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, recorder.Code)
	}
}

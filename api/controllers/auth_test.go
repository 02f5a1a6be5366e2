package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/tavolaops/tavola-backend/api/middleware"
	"github.com/tavolaops/tavola-backend/internal/accounts"
	internalauth "github.com/tavolaops/tavola-backend/internal/auth"
	pkgerrors "github.com/tavolaops/tavola-backend/pkg/errors"
)

type stubAuthService struct {
	result   *internalauth.LoginResult
	loggedID string
	err      error
}

func (s *stubAuthService) Login(ctx context.Context, input internalauth.LoginInput) (*internalauth.LoginResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func (s *stubAuthService) Logout(ctx context.Context, accessID string) error {
	s.loggedID = accessID
	return s.err
}

func (s *stubAuthService) Me(ctx context.Context, accountID uuid.UUID) (*accounts.AccountDTO, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &accounts.AccountDTO{ID: accountID}, nil
}

func TestAuthLoginSuccess(t *testing.T) {
	accountID := uuid.New()
	svc := &stubAuthService{result: &internalauth.LoginResult{
		AccessToken: "signed-token",
		Account:     accounts.AccountDTO{ID: accountID, Username: "chef"},
	}}
	handler := AuthLogin(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader([]byte(`{"username":"chef","password":"secret123"}`)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}

	var envelope struct {
		Data internalauth.LoginResult `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.AccessToken != "signed-token" {
		t.Fatalf("unexpected token %q", envelope.Data.AccessToken)
	}
	if envelope.Data.Account.Username != "chef" {
		t.Fatalf("unexpected username %q", envelope.Data.Account.Username)
	}
}

func TestAuthLoginInvalidCredentials(t *testing.T) {
	svc := &stubAuthService{err: pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")}
	handler := AuthLogin(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader([]byte(`{"username":"chef","password":"wrong"}`)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}

func TestAuthLoginMissingPassword(t *testing.T) {
	handler := AuthLogin(&stubAuthService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader([]byte(`{"username":"chef"}`)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestAuthLogoutRevokesSession(t *testing.T) {
	svc := &stubAuthService{}
	handler := AuthLogout(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	req = req.WithContext(middleware.WithAccessID(req.Context(), "session-123"))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if svc.loggedID != "session-123" {
		t.Fatalf("expected session-123 got %q", svc.loggedID)
	}
}

func TestAuthMeRequiresContext(t *testing.T) {
	handler := AuthMe(&stubAuthService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}

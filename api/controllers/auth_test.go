package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/aventra-health/benefits-store-backend/api/middleware"
	authsvc "github.com/aventra-health/benefits-store-backend/internal/auth"
	pkgerrors "github.com/aventra-health/benefits-store-backend/pkg/errors"
)

type stubAuthService struct {
	registerResp *authsvc.AuthResponse
	registerErr  error
	loginResp    *authsvc.AuthResponse
	loginErr     error
	profile      *authsvc.UserProfile
	profileErr   error
	refreshResp  *authsvc.RefreshResponse
	refreshErr   error
	loggedOut    []string
}

func (s *stubAuthService) Register(_ context.Context, _ authsvc.RegisterRequest) (*authsvc.AuthResponse, error) {
	return s.registerResp, s.registerErr
}

func (s *stubAuthService) Login(_ context.Context, _ authsvc.LoginRequest) (*authsvc.AuthResponse, error) {
	return s.loginResp, s.loginErr
}

func (s *stubAuthService) Me(_ context.Context, _ uuid.UUID) (*authsvc.UserProfile, error) {
	return s.profile, s.profileErr
}

func (s *stubAuthService) Refresh(_ context.Context, _ authsvc.RefreshRequest) (*authsvc.RefreshResponse, error) {
	return s.refreshResp, s.refreshErr
}

func (s *stubAuthService) Logout(_ context.Context, accessID string) error {
	s.loggedOut = append(s.loggedOut, accessID)
	return nil
}

func TestRegisterReturnsCreated(t *testing.T) {
	svc := &stubAuthService{registerResp: &authsvc.AuthResponse{
		AccessToken:  "token-1",
		RefreshToken: "refresh-1",
		User:         authsvc.UserProfile{Email: "asha@example.com", Name: "Asha Rao"},
	}}
	handler := Register(svc, nil)

	body := `{"name":"Asha Rao","email":"asha@example.com","password":"s3cret!pw"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/customer/register", strings.NewReader(body))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	var envelope struct {
		Data authsvc.AuthResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.AccessToken != "token-1" {
		t.Fatalf("unexpected token %q", envelope.Data.AccessToken)
	}
}

func TestRegisterSurfacesConflictMessage(t *testing.T) {
	svc := &stubAuthService{registerErr: pkgerrors.New(pkgerrors.CodeConflict, "User already exists with this email.")}
	handler := Register(svc, nil)

	body := `{"name":"Asha Rao","email":"asha@example.com","password":"s3cret!pw"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/customer/register", strings.NewReader(body))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}
	var envelope struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Error.Message != "User already exists with this email." {
		t.Fatalf("unexpected message %q", envelope.Error.Message)
	}
}

func TestLoginRejectsMalformedBody(t *testing.T) {
	handler := Login(&stubAuthService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/customer/login", strings.NewReader("{not json"))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestLoginSurfacesUnauthorized(t *testing.T) {
	svc := &stubAuthService{loginErr: pkgerrors.New(pkgerrors.CodeUnauthorized, "Invalid email or password.")}
	handler := Login(svc, nil)

	body := `{"email":"asha@example.com","password":"wrong"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/customer/login", strings.NewReader(body))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestMeRequiresUserContext(t *testing.T) {
	handler := Me(&stubAuthService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/customer/me", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestMeReturnsProfile(t *testing.T) {
	userID := uuid.New()
	svc := &stubAuthService{profile: &authsvc.UserProfile{
		ID:            userID,
		Email:         "asha@example.com",
		Name:          "Asha Rao",
		WalletBalance: 750,
	}}
	handler := Me(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/customer/me", nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), userID.String()))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	var envelope struct {
		Data authsvc.UserProfile `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.WalletBalance != 750 {
		t.Fatalf("expected wallet balance 750, got %v", envelope.Data.WalletBalance)
	}
}

func TestLogoutRevokesCurrentSession(t *testing.T) {
	svc := &stubAuthService{}
	handler := Logout(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/customer/logout", nil)
	req = req.WithContext(middleware.WithAccessID(req.Context(), "access-123"))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if len(svc.loggedOut) != 1 || svc.loggedOut[0] != "access-123" {
		t.Fatalf("expected logout for access-123, got %v", svc.loggedOut)
	}
}

func TestLogoutWithoutSessionContext(t *testing.T) {
	handler := Logout(&stubAuthService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/customer/logout", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

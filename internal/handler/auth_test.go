package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vasiliy-maslov/frutilize/internal/auth"
)

type mockAuthService struct {
	registerFunc func(ctx context.Context, username, email, password string, role auth.Role) (*auth.User, error)
	loginFunc    func(ctx context.Context, username, password string) (*auth.User, error)
}

func (m *mockAuthService) Register(ctx context.Context, username, email, password string, role auth.Role) (*auth.User, error) {
	return m.registerFunc(ctx, username, email, password, role)
}

func (m *mockAuthService) Login(ctx context.Context, username, password string) (*auth.User, error) {
	return m.loginFunc(ctx, username, password)
}

func newAuthRouter(t *testing.T, svc auth.Service) (chi.Router, *auth.SessionStore) {
	t.Helper()
	sessions, err := auth.NewSessionStore("")
	require.NoError(t, err)

	h := NewAuthHandler(svc, sessions)
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r, sessions
}

func TestAuthHandler_Register(t *testing.T) {
	svc := &mockAuthService{
		registerFunc: func(ctx context.Context, username, email, password string, role auth.Role) (*auth.User, error) {
			assert.Equal(t, auth.RoleUser, role)
			return &auth.User{ID: 1, Username: username, Email: email, Role: role}, nil
		},
	}
	r, sessions := newAuthRouter(t, svc)

	body := `{"username": "maria", "email": "maria@example.com", "password": "s3cret"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var resp SessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "maria", resp.Username)
	assert.NotEmpty(t, resp.Token)

	_, ok := sessions.Get(resp.Token)
	assert.True(t, ok)
}

func TestAuthHandler_RegisterDuplicate(t *testing.T) {
	svc := &mockAuthService{
		registerFunc: func(ctx context.Context, username, email, password string, role auth.Role) (*auth.User, error) {
			return nil, auth.ErrUserExists
		},
	}
	r, _ := newAuthRouter(t, svc)

	body := `{"username": "maria", "email": "maria@example.com", "password": "s3cret"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "already registered")
}

func TestAuthHandler_RegisterValidation(t *testing.T) {
	r, _ := newAuthRouter(t, &mockAuthService{})

	body := `{"username": "m", "email": "not-an-email", "password": "123"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Validation failed")
}

func TestAuthHandler_Login(t *testing.T) {
	svc := &mockAuthService{
		loginFunc: func(ctx context.Context, username, password string) (*auth.User, error) {
			if username == "admin" && password == "0406" {
				return &auth.User{ID: 1, Username: "admin", Role: auth.RoleAdmin}, nil
			}
			return nil, auth.ErrInvalidCredentials
		},
	}
	r, _ := newAuthRouter(t, svc)

	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"username": "admin", "password": "0406"}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp SessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "admin", resp.Role)

	req = httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"username": "admin", "password": "wrong"}`))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_Logout(t *testing.T) {
	r, sessions := newAuthRouter(t, &mockAuthService{})

	session, err := sessions.Create(&auth.User{ID: 1, Username: "maria", Role: auth.RoleUser})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+session.Token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	_, ok := sessions.Get(session.Token)
	assert.False(t, ok)

	// Without a token there is nothing to log out.
	req = httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRequireAdmin(t *testing.T) {
	sessions, err := auth.NewSessionStore("")
	require.NoError(t, err)

	adminSession, err := sessions.Create(&auth.User{ID: 1, Username: "admin", Role: auth.RoleAdmin})
	require.NoError(t, err)
	userSession, err := sessions.Create(&auth.User{ID: 2, Username: "maria", Role: auth.RoleUser})
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Group(func(g chi.Router) {
		g.Use(RequireAdmin(sessions))
		g.Get("/admin/ping", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
	})

	tests := []struct {
		name           string
		token          string
		expectedStatus int
	}{
		{name: "no_token", token: "", expectedStatus: http.StatusUnauthorized},
		{name: "unknown_token", token: "bogus", expectedStatus: http.StatusUnauthorized},
		{name: "non_admin", token: userSession.Token, expectedStatus: http.StatusForbidden},
		{name: "admin", token: adminSession.Token, expectedStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"github.com/vasiliy-maslov/frutilize/internal/auth"
)

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=4"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type SessionResponse struct {
	Token    string `json:"token"`
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// AuthHandler handles registration, login and logout.
type AuthHandler struct {
	service  auth.Service
	sessions *auth.SessionStore
	validate *validator.Validate
}

func NewAuthHandler(service auth.Service, sessions *auth.SessionStore) *AuthHandler {
	return &AuthHandler{
		service:  service,
		sessions: sessions,
		validate: validator.New(),
	}
}

func (h *AuthHandler) RegisterRoutes(router chi.Router) {
	router.Post("/auth/register", h.handleRegister)
	router.Post("/auth/login", h.handleLogin)
	router.Post("/auth/logout", h.handleLogout)
}

func (h *AuthHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var requestPayload RegisterRequest

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&requestPayload); err != nil {
		log.Warn().Err(err).Msg("Failed to decode register payload")
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := h.validate.Struct(requestPayload); err != nil {
		respondWithValidationErrors(w, err)
		return
	}

	u, err := h.service.Register(r.Context(), requestPayload.Username, requestPayload.Email, requestPayload.Password, auth.RoleUser)
	if err != nil {
		log.Error().Err(err).Str("username", requestPayload.Username).Msg("Failed to register user")

		clientMessage := "Failed to register user"
		if errors.Is(err, auth.ErrUserExists) {
			clientMessage = "Username or email already registered"
		}
		respondWithError(w, mapErrorToStatusCode(err), clientMessage)
		return
	}

	session, err := h.sessions.Create(u)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create session after registration")
		respondWithError(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	respondWithJSON(w, http.StatusCreated, SessionResponse{
		Token:    session.Token,
		UserID:   session.UserID,
		Username: session.Username,
		Role:     string(session.Role),
	})
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var requestPayload LoginRequest

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&requestPayload); err != nil {
		log.Warn().Err(err).Msg("Failed to decode login payload")
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := h.validate.Struct(requestPayload); err != nil {
		respondWithValidationErrors(w, err)
		return
	}

	u, err := h.service.Login(r.Context(), requestPayload.Username, requestPayload.Password)
	if err != nil {
		clientMessage := "Failed to log in"
		if errors.Is(err, auth.ErrInvalidCredentials) {
			clientMessage = "Invalid credentials"
		} else {
			log.Error().Err(err).Str("username", requestPayload.Username).Msg("Failed to log user in")
		}
		respondWithError(w, mapErrorToStatusCode(err), clientMessage)
		return
	}

	session, err := h.sessions.Create(u)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create session")
		respondWithError(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	respondWithJSON(w, http.StatusOK, SessionResponse{
		Token:    session.Token,
		UserID:   session.UserID,
		Username: session.Username,
		Role:     string(session.Role),
	})
}

func (h *AuthHandler) handleLogout(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		respondWithError(w, http.StatusBadRequest, "Missing session token")
		return
	}

	if err := h.sessions.Delete(token); err != nil {
		log.Error().Err(err).Msg("Failed to delete session")
		respondWithError(w, http.StatusInternalServerError, "Failed to log out")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RequireAdmin guards the admin surface: a valid session with the admin role
// is required.
func RequireAdmin(sessions *auth.SessionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				respondWithError(w, http.StatusUnauthorized, "Missing session token")
				return
			}

			session, ok := sessions.Get(token)
			if !ok || !session.LoggedIn {
				respondWithError(w, http.StatusUnauthorized, "Invalid session")
				return
			}
			if session.Role != auth.RoleAdmin {
				respondWithError(w, http.StatusForbidden, "Admin role required")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}

package users

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/nravi/wealthtrack/internal/auth"
	"github.com/nravi/wealthtrack/internal/domain"
)

// Handler handles registration, login and profile requests.
type Handler struct {
	repo      *Repository
	jwtSecret []byte
	tokenTTL  time.Duration
	log       zerolog.Logger
}

// NewHandler creates a new users handler.
func NewHandler(repo *Repository, jwtSecret []byte, tokenTTL time.Duration, log zerolog.Logger) *Handler {
	return &Handler{
		repo:      repo,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		log:       log.With().Str("handler", "users").Logger(),
	}
}

// RegisterAuthRoutes registers the unauthenticated auth endpoints.
func (h *Handler) RegisterAuthRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.HandleRegister)
		r.Post("/login", h.HandleLogin)
	})
}

// RegisterRoutes registers the authenticated profile endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/user", func(r chi.Router) {
		r.Get("/", h.HandleGetProfile)
		r.Put("/", h.HandleUpdateProfile)
	})
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// HandleRegister creates an account and returns a bearer token for it.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		h.writeError(w, http.StatusBadRequest, "valid email is required")
		return
	}
	if len(req.Password) < 8 {
		h.writeError(w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}

	existing, err := h.repo.GetByEmail(r.Context(), req.Email)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to check existing user")
		h.writeError(w, http.StatusInternalServerError, "failed to register")
		return
	}
	if existing != nil {
		h.writeError(w, http.StatusConflict, "email already registered")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to hash password")
		h.writeError(w, http.StatusInternalServerError, "failed to register")
		return
	}

	user, err := h.repo.Create(r.Context(), req.Email, string(hash), req.Name, domain.CurrencyINR)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to create user")
		h.writeError(w, http.StatusInternalServerError, "failed to register")
		return
	}

	token, err := auth.IssueToken(h.jwtSecret, user.ID, h.tokenTTL)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to issue token")
		h.writeError(w, http.StatusInternalServerError, "failed to register")
		return
	}

	h.writeJSON(w, http.StatusCreated, tokenResponse{Token: token, User: user})
}

// HandleLogin verifies credentials and returns a bearer token.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.repo.GetByEmail(r.Context(), strings.TrimSpace(strings.ToLower(req.Email)))
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to look up user")
		h.writeError(w, http.StatusInternalServerError, "failed to log in")
		return
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		h.writeError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	token, err := auth.IssueToken(h.jwtSecret, user.ID, h.tokenTTL)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to issue token")
		h.writeError(w, http.StatusInternalServerError, "failed to log in")
		return
	}

	h.writeJSON(w, http.StatusOK, tokenResponse{Token: token, User: user})
}

// HandleGetProfile returns the authenticated user's profile.
func (h *Handler) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	user, err := h.repo.GetByID(r.Context(), userID)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to load user")
		h.writeError(w, http.StatusInternalServerError, "failed to load profile")
		return
	}
	if user == nil {
		h.writeError(w, http.StatusNotFound, "user not found")
		return
	}

	h.writeJSON(w, http.StatusOK, user)
}

type updateProfileRequest struct {
	Name            string `json:"name"`
	DisplayCurrency string `json:"display_currency"`
}

// HandleUpdateProfile updates name and display currency preference.
func (h *Handler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	currency, ok := domain.ParseCurrency(req.DisplayCurrency)
	if !ok {
		h.writeError(w, http.StatusBadRequest, "display_currency must be INR or USD")
		return
	}

	if err := h.repo.UpdateProfile(r.Context(), userID, req.Name, currency); err != nil {
		h.log.Error().Err(err).Msg("Failed to update profile")
		h.writeError(w, http.StatusInternalServerError, "failed to update profile")
		return
	}

	user, err := h.repo.GetByID(r.Context(), userID)
	if err != nil || user == nil {
		h.writeError(w, http.StatusInternalServerError, "failed to load profile")
		return
	}

	h.writeJSON(w, http.StatusOK, user)
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeError writes a JSON error response
func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}

package fxrates

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/nravi/wealthtrack/internal/auth"
	"github.com/nravi/wealthtrack/internal/cache"
	"github.com/nravi/wealthtrack/internal/domain"
)

// Handler handles FX rate HTTP requests.
type Handler struct {
	repo  *Repository
	cache cache.Cache
	log   zerolog.Logger
}

// NewHandler creates a new FX rates handler. cache may be nil.
func NewHandler(repo *Repository, c cache.Cache, log zerolog.Logger) *Handler {
	return &Handler{
		repo:  repo,
		cache: c,
		log:   log.With().Str("handler", "fxrates").Logger(),
	}
}

// RegisterRoutes registers FX rate routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/fx-rates", func(r chi.Router) {
		r.Get("/", h.HandleList)
		r.Post("/", h.HandleCreate)
	})
}

// HandleList returns the user's recorded rates.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	rates, err := h.repo.List(r.Context(), userID)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list fx rates")
		h.writeError(w, http.StatusInternalServerError, "failed to list fx rates")
		return
	}
	h.writeJSON(w, http.StatusOK, rates)
}

type createRequest struct {
	FromCurrency string  `json:"from_currency"`
	ToCurrency   string  `json:"to_currency"`
	Rate         float64 `json:"rate"`
	AsOfDate     string  `json:"as_of_date"`
}

// HandleCreate records one conversion rate.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	from, okFrom := domain.ParseCurrency(req.FromCurrency)
	to, okTo := domain.ParseCurrency(req.ToCurrency)
	if !okFrom || !okTo {
		h.writeError(w, http.StatusBadRequest, "currencies must be INR or USD")
		return
	}
	if from == to {
		h.writeError(w, http.StatusBadRequest, "from_currency and to_currency must differ")
		return
	}
	if req.Rate <= 0 {
		h.writeError(w, http.StatusBadRequest, "rate must be positive")
		return
	}

	asOf, err := time.Parse(time.RFC3339, req.AsOfDate)
	if err != nil {
		if asOf, err = time.Parse("2006-01-02", req.AsOfDate); err != nil {
			h.writeError(w, http.StatusBadRequest, "as_of_date must be RFC3339 or YYYY-MM-DD")
			return
		}
	}

	rate, err := h.repo.Create(r.Context(), &domain.FxRate{
		UserID:       userID,
		FromCurrency: from,
		ToCurrency:   to,
		Rate:         req.Rate,
		AsOfDate:     asOf,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to create fx rate")
		h.writeError(w, http.StatusInternalServerError, "failed to record fx rate")
		return
	}

	if h.cache != nil {
		h.cache.InvalidateUser(r.Context(), userID)
	}
	h.writeJSON(w, http.StatusCreated, rate)
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

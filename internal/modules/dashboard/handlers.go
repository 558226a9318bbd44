package dashboard

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/nravi/wealthtrack/internal/auth"
)

// Handler handles dashboard HTTP requests.
type Handler struct {
	service *Service
	log     zerolog.Logger
}

// NewHandler creates a new dashboard handler.
func NewHandler(service *Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "dashboard").Logger(),
	}
}

// RegisterRoutes registers dashboard routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/dashboard", func(r chi.Router) {
		r.Get("/", h.HandleGetDashboard)
		r.Get("/analytics", h.HandleGetAnalytics)
	})
}

// HandleGetDashboard returns the aggregated dashboard payload for the
// authenticated user. Optional query params: currency (INR|USD) and
// range (1M|3M|1Y|ALL).
func (h *Handler) HandleGetDashboard(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	rng := ParseRange(r.URL.Query().Get("range"))
	currency := h.service.ResolveCurrency(r.Context(), userID, r.URL.Query().Get("currency"))

	payload, err := h.service.Compute(r.Context(), userID, currency, rng)
	if err != nil {
		h.log.Error().Err(err).Int64("user_id", userID).Msg("Failed to compute dashboard")
		h.writeError(w, http.StatusInternalServerError, "failed to compute dashboard")
		return
	}

	h.writeJSON(w, http.StatusOK, payload)
}

// HandleGetAnalytics returns trend statistics for the requested range.
func (h *Handler) HandleGetAnalytics(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	rng := ParseRange(r.URL.Query().Get("range"))
	currency := h.service.ResolveCurrency(r.Context(), userID, r.URL.Query().Get("currency"))

	analytics, err := h.service.ComputeAnalytics(r.Context(), userID, currency, rng)
	if err != nil {
		h.log.Error().Err(err).Int64("user_id", userID).Msg("Failed to compute analytics")
		h.writeError(w, http.StatusInternalServerError, "failed to compute analytics")
		return
	}

	h.writeJSON(w, http.StatusOK, analytics)
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

package liabilities

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/nravi/wealthtrack/internal/auth"
	"github.com/nravi/wealthtrack/internal/cache"
	"github.com/nravi/wealthtrack/internal/domain"
)

// Handler handles liability HTTP requests.
type Handler struct {
	repo  *Repository
	cache cache.Cache
	log   zerolog.Logger
}

// NewHandler creates a new liabilities handler. cache may be nil.
func NewHandler(repo *Repository, c cache.Cache, log zerolog.Logger) *Handler {
	return &Handler{
		repo:  repo,
		cache: c,
		log:   log.With().Str("handler", "liabilities").Logger(),
	}
}

// RegisterRoutes registers liability routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/liabilities", func(r chi.Router) {
		r.Get("/", h.HandleList)
		r.Post("/", h.HandleCreate)
		r.Route("/{liabilityID}/snapshots", func(r chi.Router) {
			r.Get("/", h.HandleListSnapshots)
			r.Post("/", h.HandleCreateSnapshot)
		})
	})
}

// HandleList returns the user's liabilities.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	liabilities, err := h.repo.List(r.Context(), userID)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list liabilities")
		h.writeError(w, http.StatusInternalServerError, "failed to list liabilities")
		return
	}
	h.writeJSON(w, http.StatusOK, liabilities)
}

type createLiabilityRequest struct {
	Name         string   `json:"name"`
	Type         int      `json:"liability_type"`
	Lender       string   `json:"lender"`
	Principal    float64  `json:"principal"`
	InterestRate *float64 `json:"interest_rate"`
	TenureMonths *int     `json:"tenure_months"`
	EMI          *float64 `json:"emi"`
}

// HandleCreate records a new liability.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req createLiabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Name == "" {
		h.writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.Type < int(domain.LiabilityLoan) || req.Type > int(domain.LiabilityOther) {
		h.writeError(w, http.StatusBadRequest, "invalid liability_type")
		return
	}
	if req.Principal < 0 {
		h.writeError(w, http.StatusBadRequest, "principal must not be negative")
		return
	}

	liability, err := h.repo.Create(r.Context(), &domain.Liability{
		UserID:       userID,
		Name:         req.Name,
		Type:         domain.LiabilityType(req.Type),
		Lender:       req.Lender,
		Principal:    req.Principal,
		InterestRate: req.InterestRate,
		TenureMonths: req.TenureMonths,
		EMI:          req.EMI,
		Status:       domain.LiabilityActive,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to create liability")
		h.writeError(w, http.StatusInternalServerError, "failed to create liability")
		return
	}

	h.invalidate(r, userID)
	h.writeJSON(w, http.StatusCreated, liability)
}

// HandleListSnapshots returns balance snapshots for one liability.
func (h *Handler) HandleListSnapshots(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	liabilityID, ok := h.ownedLiability(w, r, userID)
	if !ok {
		return
	}

	snaps, err := h.repo.ListSnapshots(r.Context(), userID, liabilityID)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list liability snapshots")
		h.writeError(w, http.StatusInternalServerError, "failed to list snapshots")
		return
	}
	h.writeJSON(w, http.StatusOK, snaps)
}

type createSnapshotRequest struct {
	Outstanding float64 `json:"outstanding"`
	AsOfDate    string  `json:"as_of_date"`
}

// HandleCreateSnapshot records an outstanding balance for one liability.
func (h *Handler) HandleCreateSnapshot(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	liabilityID, ok := h.ownedLiability(w, r, userID)
	if !ok {
		return
	}

	var req createSnapshotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Outstanding < 0 {
		h.writeError(w, http.StatusBadRequest, "outstanding must not be negative")
		return
	}
	asOf, err := parseDate(req.AsOfDate)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "as_of_date must be RFC3339 or YYYY-MM-DD")
		return
	}

	snap, err := h.repo.CreateSnapshot(r.Context(), &domain.LiabilitySnapshot{
		UserID:      userID,
		LiabilityID: liabilityID,
		Outstanding: req.Outstanding,
		AsOfDate:    asOf,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to create liability snapshot")
		h.writeError(w, http.StatusInternalServerError, "failed to record snapshot")
		return
	}

	h.invalidate(r, userID)
	h.writeJSON(w, http.StatusCreated, snap)
}

// ownedLiability parses the liability ID from the URL and verifies ownership,
// writing the error response itself on failure.
func (h *Handler) ownedLiability(w http.ResponseWriter, r *http.Request, userID int64) (int64, bool) {
	liabilityID, err := strconv.ParseInt(chi.URLParam(r, "liabilityID"), 10, 64)
	if err != nil || liabilityID <= 0 {
		h.writeError(w, http.StatusBadRequest, "invalid liability id")
		return 0, false
	}

	owned, err := h.repo.BelongsToUser(r.Context(), userID, liabilityID)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to verify liability ownership")
		h.writeError(w, http.StatusInternalServerError, "failed to verify liability")
		return 0, false
	}
	if !owned {
		h.writeError(w, http.StatusNotFound, "liability not found")
		return 0, false
	}
	return liabilityID, true
}

func (h *Handler) invalidate(r *http.Request, userID int64) {
	if h.cache != nil {
		h.cache.InvalidateUser(r.Context(), userID)
	}
}

func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
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

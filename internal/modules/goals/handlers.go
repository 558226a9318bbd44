package goals

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/nravi/wealthtrack/internal/auth"
	"github.com/nravi/wealthtrack/internal/domain"
)

// Handler handles goal HTTP requests.
type Handler struct {
	repo *Repository
	log  zerolog.Logger
}

// NewHandler creates a new goals handler.
func NewHandler(repo *Repository, log zerolog.Logger) *Handler {
	return &Handler{
		repo: repo,
		log:  log.With().Str("handler", "goals").Logger(),
	}
}

// RegisterRoutes registers goal routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/goals", func(r chi.Router) {
		r.Get("/", h.HandleList)
		r.Post("/", h.HandleCreate)
		r.Put("/{goalID}/status", h.HandleUpdateStatus)
		r.Route("/{goalID}/transactions", func(r chi.Router) {
			r.Get("/", h.HandleListLinkedTransactions)
			r.Post("/", h.HandleLinkTransaction)
		})
	})
}

// HandleList returns the user's goals.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	goals, err := h.repo.List(r.Context(), userID)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list goals")
		h.writeError(w, http.StatusInternalServerError, "failed to list goals")
		return
	}
	h.writeJSON(w, http.StatusOK, goals)
}

type createRequest struct {
	Name         string  `json:"name"`
	TargetAmount float64 `json:"target_amount"`
	TargetDate   string  `json:"target_date"`
}

// HandleCreate records a new goal.
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
	if req.Name == "" {
		h.writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.TargetAmount <= 0 {
		h.writeError(w, http.StatusBadRequest, "target_amount must be positive")
		return
	}

	var targetDate *time.Time
	if req.TargetDate != "" {
		t, err := time.Parse("2006-01-02", req.TargetDate)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "target_date must be YYYY-MM-DD")
			return
		}
		targetDate = &t
	}

	goal, err := h.repo.Create(r.Context(), &domain.Goal{
		UserID:       userID,
		Name:         req.Name,
		TargetAmount: req.TargetAmount,
		TargetDate:   targetDate,
		Status:       domain.GoalActive,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to create goal")
		h.writeError(w, http.StatusInternalServerError, "failed to create goal")
		return
	}
	h.writeJSON(w, http.StatusCreated, goal)
}

type statusRequest struct {
	Status int `json:"status"`
}

// HandleUpdateStatus moves a goal between active, achieved and paused.
func (h *Handler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	goalID, ok := h.ownedGoal(w, r, userID)
	if !ok {
		return
	}

	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	status := domain.GoalStatus(req.Status)
	if status != domain.GoalActive && status != domain.GoalAchieved && status != domain.GoalPaused {
		h.writeError(w, http.StatusBadRequest, "invalid status")
		return
	}

	if err := h.repo.UpdateStatus(r.Context(), goalID, status); err != nil {
		h.log.Error().Err(err).Msg("Failed to update goal status")
		h.writeError(w, http.StatusInternalServerError, "failed to update goal status")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{"goal_id": goalID, "status": status})
}

// HandleListLinkedTransactions returns the IDs of transactions linked to a
// goal.
func (h *Handler) HandleListLinkedTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	goalID, ok := h.ownedGoal(w, r, userID)
	if !ok {
		return
	}

	ids, err := h.repo.LinkedTransactionIDs(r.Context(), goalID)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list goal transactions")
		h.writeError(w, http.StatusInternalServerError, "failed to list goal transactions")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string][]int64{"transaction_ids": ids})
}

type linkRequest struct {
	TransactionID int64 `json:"transaction_id"`
}

// HandleLinkTransaction associates one of the user's transactions with a goal.
func (h *Handler) HandleLinkTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	goalID, ok := h.ownedGoal(w, r, userID)
	if !ok {
		return
	}

	var req linkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	owned, err := h.repo.TransactionBelongsToUser(r.Context(), userID, req.TransactionID)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to verify transaction ownership")
		h.writeError(w, http.StatusInternalServerError, "failed to link transaction")
		return
	}
	if !owned {
		h.writeError(w, http.StatusNotFound, "transaction not found")
		return
	}

	if err := h.repo.LinkTransaction(r.Context(), goalID, req.TransactionID); err != nil {
		h.log.Error().Err(err).Msg("Failed to link transaction")
		h.writeError(w, http.StatusInternalServerError, "failed to link transaction")
		return
	}

	h.writeJSON(w, http.StatusCreated, map[string]int64{"goal_id": goalID, "transaction_id": req.TransactionID})
}

// ownedGoal parses the goal ID from the URL and verifies ownership, writing
// the error response itself on failure.
func (h *Handler) ownedGoal(w http.ResponseWriter, r *http.Request, userID int64) (int64, bool) {
	goalID, err := strconv.ParseInt(chi.URLParam(r, "goalID"), 10, 64)
	if err != nil || goalID <= 0 {
		h.writeError(w, http.StatusBadRequest, "invalid goal id")
		return 0, false
	}

	owned, err := h.repo.GoalBelongsToUser(r.Context(), userID, goalID)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to verify goal ownership")
		h.writeError(w, http.StatusInternalServerError, "failed to verify goal")
		return 0, false
	}
	if !owned {
		h.writeError(w, http.StatusNotFound, "goal not found")
		return 0, false
	}
	return goalID, true
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

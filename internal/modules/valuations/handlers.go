package valuations

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

// Handler handles valuation HTTP requests.
type Handler struct {
	repo  *Repository
	cache cache.Cache
	log   zerolog.Logger
}

// NewHandler creates a new valuations handler. cache may be nil.
func NewHandler(repo *Repository, c cache.Cache, log zerolog.Logger) *Handler {
	return &Handler{
		repo:  repo,
		cache: c,
		log:   log.With().Str("handler", "valuations").Logger(),
	}
}

// RegisterRoutes registers valuation routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/stock-prices", func(r chi.Router) {
		r.Get("/", h.HandleListStockPrices)
		r.Post("/", h.HandleCreateStockPrice)
	})
	r.Route("/holding-snapshots", func(r chi.Router) {
		r.Get("/", h.HandleListHoldingSnapshots)
		r.Post("/", h.HandleCreateHoldingSnapshot)
	})
	r.Route("/real-estate-valuations", func(r chi.Router) {
		r.Get("/", h.HandleListRealEstateValuations)
		r.Post("/", h.HandleCreateRealEstateValuation)
	})
}

// HandleListStockPrices lists the user's recorded prices.
func (h *Handler) HandleListStockPrices(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	prices, err := h.repo.ListStockPrices(r.Context(), userID)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list stock prices")
		h.writeError(w, http.StatusInternalServerError, "failed to list stock prices")
		return
	}
	h.writeJSON(w, http.StatusOK, prices)
}

type createStockPriceRequest struct {
	StockID  int64   `json:"stock_id"`
	Price    float64 `json:"price"`
	Currency string  `json:"currency"`
	AsOfDate string  `json:"as_of_date"`
	Source   string  `json:"source"`
}

// HandleCreateStockPrice records one price point.
func (h *Handler) HandleCreateStockPrice(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req createStockPriceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	currency, ok := domain.ParseCurrency(req.Currency)
	if !ok {
		h.writeError(w, http.StatusBadRequest, "currency must be INR or USD")
		return
	}
	if req.Price <= 0 {
		h.writeError(w, http.StatusBadRequest, "price must be positive")
		return
	}
	asOf, err := parseDate(req.AsOfDate)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "as_of_date must be RFC3339 or YYYY-MM-DD")
		return
	}

	if ok, err := h.repo.StockExists(r.Context(), req.StockID); err != nil {
		h.log.Error().Err(err).Msg("Failed to verify stock")
		h.writeError(w, http.StatusInternalServerError, "failed to record price")
		return
	} else if !ok {
		h.writeError(w, http.StatusNotFound, "stock not found")
		return
	}

	price, err := h.repo.CreateStockPrice(r.Context(), &domain.StockPrice{
		UserID:   userID,
		StockID:  req.StockID,
		Price:    req.Price,
		Currency: currency,
		AsOfDate: asOf,
		Source:   req.Source,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to record stock price")
		h.writeError(w, http.StatusInternalServerError, "failed to record price")
		return
	}

	h.invalidate(r, userID)
	h.writeJSON(w, http.StatusCreated, price)
}

// HandleListHoldingSnapshots lists snapshots, optionally filtered by
// platformAccountId and assetCategory.
func (h *Handler) HandleListHoldingSnapshots(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var accountID int64
	if raw := r.URL.Query().Get("platformAccountId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			h.writeError(w, http.StatusBadRequest, "invalid platformAccountId")
			return
		}
		accountID = id
	}

	var category domain.AssetCategory
	if raw := r.URL.Query().Get("assetCategory"); raw != "" {
		c, err := strconv.Atoi(raw)
		if err != nil || c < int(domain.CategoryMF) || c > int(domain.CategoryOther) {
			h.writeError(w, http.StatusBadRequest, "invalid assetCategory")
			return
		}
		category = domain.AssetCategory(c)
	}

	snaps, err := h.repo.ListHoldingSnapshots(r.Context(), userID, accountID, category)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list holding snapshots")
		h.writeError(w, http.StatusInternalServerError, "failed to list holding snapshots")
		return
	}
	h.writeJSON(w, http.StatusOK, snaps)
}

type createHoldingSnapshotRequest struct {
	PlatformAccountID *int64  `json:"platform_account_id"`
	Label             string  `json:"label"`
	AssetCategory     int     `json:"asset_category"`
	Value             float64 `json:"value"`
	Currency          string  `json:"currency"`
	AsOfDate          string  `json:"as_of_date"`
}

// HandleCreateHoldingSnapshot records one snapshot.
func (h *Handler) HandleCreateHoldingSnapshot(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req createHoldingSnapshotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Label == "" {
		h.writeError(w, http.StatusBadRequest, "label is required")
		return
	}
	if req.AssetCategory < int(domain.CategoryMF) || req.AssetCategory > int(domain.CategoryOther) {
		h.writeError(w, http.StatusBadRequest, "invalid asset_category")
		return
	}
	currency, ok := domain.ParseCurrency(req.Currency)
	if !ok {
		h.writeError(w, http.StatusBadRequest, "currency must be INR or USD")
		return
	}
	asOf, err := parseDate(req.AsOfDate)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "as_of_date must be RFC3339 or YYYY-MM-DD")
		return
	}

	if req.PlatformAccountID != nil {
		if ok, err := h.repo.AccountBelongsToUser(r.Context(), userID, *req.PlatformAccountID); err != nil {
			h.log.Error().Err(err).Msg("Failed to verify account ownership")
			h.writeError(w, http.StatusInternalServerError, "failed to record snapshot")
			return
		} else if !ok {
			h.writeError(w, http.StatusNotFound, "platform account not found")
			return
		}
	}

	snap, err := h.repo.CreateHoldingSnapshot(r.Context(), &domain.HoldingSnapshot{
		UserID:            userID,
		PlatformAccountID: req.PlatformAccountID,
		Label:             req.Label,
		AssetCategory:     domain.AssetCategory(req.AssetCategory),
		Value:             req.Value,
		Currency:          currency,
		AsOfDate:          asOf,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to record holding snapshot")
		h.writeError(w, http.StatusInternalServerError, "failed to record snapshot")
		return
	}

	h.invalidate(r, userID)
	h.writeJSON(w, http.StatusCreated, snap)
}

// HandleListRealEstateValuations lists the user's property valuations.
func (h *Handler) HandleListRealEstateValuations(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	valuations, err := h.repo.ListRealEstateValuations(r.Context(), userID)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list real estate valuations")
		h.writeError(w, http.StatusInternalServerError, "failed to list valuations")
		return
	}
	h.writeJSON(w, http.StatusOK, valuations)
}

type createRealEstateValuationRequest struct {
	PropertyName string  `json:"property_name"`
	Value        float64 `json:"value"`
	Currency     string  `json:"currency"`
	AsOfDate     string  `json:"as_of_date"`
}

// HandleCreateRealEstateValuation records one property valuation.
func (h *Handler) HandleCreateRealEstateValuation(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req createRealEstateValuationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.PropertyName == "" {
		h.writeError(w, http.StatusBadRequest, "property_name is required")
		return
	}
	if req.Value <= 0 {
		h.writeError(w, http.StatusBadRequest, "value must be positive")
		return
	}
	currency, ok := domain.ParseCurrency(req.Currency)
	if !ok {
		h.writeError(w, http.StatusBadRequest, "currency must be INR or USD")
		return
	}
	asOf, err := parseDate(req.AsOfDate)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "as_of_date must be RFC3339 or YYYY-MM-DD")
		return
	}

	valuation, err := h.repo.CreateRealEstateValuation(r.Context(), &domain.RealEstateValuation{
		UserID:       userID,
		PropertyName: req.PropertyName,
		Value:        req.Value,
		Currency:     currency,
		AsOfDate:     asOf,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to record real estate valuation")
		h.writeError(w, http.StatusInternalServerError, "failed to record valuation")
		return
	}

	h.invalidate(r, userID)
	h.writeJSON(w, http.StatusCreated, valuation)
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

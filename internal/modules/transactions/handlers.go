package transactions

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

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Handler handles transaction HTTP requests.
type Handler struct {
	repo  *Repository
	cache cache.Cache
	log   zerolog.Logger
}

// NewHandler creates a new transactions handler. cache may be nil.
func NewHandler(repo *Repository, c cache.Cache, log zerolog.Logger) *Handler {
	return &Handler{
		repo:  repo,
		cache: c,
		log:   log.With().Str("handler", "transactions").Logger(),
	}
}

// RegisterRoutes registers transaction routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/transactions", func(r chi.Router) {
		r.Get("/", h.HandleList)
		r.Post("/", h.HandleCreate)
	})
}

type listResponse struct {
	Transactions []domain.Transaction `json:"transactions"`
	Page         int                  `json:"page"`
	PageSize     int                  `json:"page_size"`
	Total        int                  `json:"total"`
}

// HandleList returns one page of the user's ledger, newest first.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	filter, err := parseFilter(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	txns, total, err := h.repo.List(r.Context(), userID, filter)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list transactions")
		h.writeError(w, http.StatusInternalServerError, "failed to list transactions")
		return
	}

	h.writeJSON(w, http.StatusOK, listResponse{
		Transactions: txns,
		Page:         filter.Page,
		PageSize:     filter.PageSize,
		Total:        total,
	})
}

func parseFilter(r *http.Request) (Filter, error) {
	q := r.URL.Query()
	filter := Filter{Page: 1, PageSize: defaultPageSize}

	if raw := q.Get("txnAction"); raw != "" {
		action, err := strconv.Atoi(raw)
		if err != nil || action < int(domain.TxnBuy) || action > int(domain.TxnLiabilityPayment) {
			return filter, errBadParam("txnAction")
		}
		filter.Action = domain.TxnAction(action)
	}
	for _, p := range []struct {
		name   string
		target *int64
	}{
		{"platformAccountId", &filter.PlatformAccountID},
		{"stockId", &filter.StockID},
		{"relatedLiabilityId", &filter.RelatedLiabilityID},
	} {
		if raw := q.Get(p.name); raw != "" {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || id <= 0 {
				return filter, errBadParam(p.name)
			}
			*p.target = id
		}
	}
	for _, p := range []struct {
		name   string
		target **time.Time
	}{
		{"from", &filter.From},
		{"to", &filter.To},
	} {
		if raw := q.Get(p.name); raw != "" {
			t, err := time.Parse("2006-01-02", raw)
			if err != nil {
				return filter, errBadParam(p.name)
			}
			*p.target = &t
		}
	}
	if raw := q.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return filter, errBadParam("page")
		}
		filter.Page = page
	}
	if raw := q.Get("pageSize"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size < 1 || size > maxPageSize {
			return filter, errBadParam("pageSize")
		}
		filter.PageSize = size
	}

	return filter, nil
}

type badParamError string

func errBadParam(name string) error { return badParamError(name) }

func (e badParamError) Error() string { return "invalid parameter: " + string(e) }

type createRequest struct {
	PlatformAccountID  int64    `json:"platform_account_id"`
	StockID            *int64   `json:"stock_id"`
	RelatedLiabilityID *int64   `json:"related_liability_id"`
	Action             int      `json:"txn_action"`
	Date               string   `json:"txn_date"`
	Quantity           *float64 `json:"quantity"`
	UnitPrice          *float64 `json:"unit_price"`
	Amount             float64  `json:"amount"`
	Currency           string   `json:"currency"`
	Fees               float64  `json:"fees"`
	Notes              string   `json:"notes"`
}

// HandleCreate appends one ledger entry. BUY and SELL entries must reference a
// stock with quantity and unit price; every referenced record must belong to
// the caller.
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

	if req.Action < int(domain.TxnBuy) || req.Action > int(domain.TxnLiabilityPayment) {
		h.writeError(w, http.StatusBadRequest, "invalid txn_action")
		return
	}
	action := domain.TxnAction(req.Action)

	date, err := time.Parse(time.RFC3339, req.Date)
	if err != nil {
		if date, err = time.Parse("2006-01-02", req.Date); err != nil {
			h.writeError(w, http.StatusBadRequest, "txn_date must be RFC3339 or YYYY-MM-DD")
			return
		}
	}

	currency, ok := domain.ParseCurrency(req.Currency)
	if !ok {
		h.writeError(w, http.StatusBadRequest, "currency must be INR or USD")
		return
	}

	if action == domain.TxnBuy || action == domain.TxnSell {
		if req.StockID == nil || req.Quantity == nil || req.UnitPrice == nil {
			h.writeError(w, http.StatusBadRequest, "BUY/SELL require stock_id, quantity and unit_price")
			return
		}
		if *req.Quantity <= 0 || *req.UnitPrice < 0 {
			h.writeError(w, http.StatusBadRequest, "quantity must be positive and unit_price non-negative")
			return
		}
	}

	if ok, err := h.repo.AccountBelongsToUser(r.Context(), userID, req.PlatformAccountID); err != nil {
		h.log.Error().Err(err).Msg("Failed to verify account ownership")
		h.writeError(w, http.StatusInternalServerError, "failed to create transaction")
		return
	} else if !ok {
		h.writeError(w, http.StatusNotFound, "platform account not found")
		return
	}

	if req.StockID != nil {
		if ok, err := h.repo.StockExists(r.Context(), *req.StockID); err != nil {
			h.log.Error().Err(err).Msg("Failed to verify stock")
			h.writeError(w, http.StatusInternalServerError, "failed to create transaction")
			return
		} else if !ok {
			h.writeError(w, http.StatusNotFound, "stock not found")
			return
		}
	}

	if req.RelatedLiabilityID != nil {
		if ok, err := h.repo.LiabilityBelongsToUser(r.Context(), userID, *req.RelatedLiabilityID); err != nil {
			h.log.Error().Err(err).Msg("Failed to verify liability ownership")
			h.writeError(w, http.StatusInternalServerError, "failed to create transaction")
			return
		} else if !ok {
			h.writeError(w, http.StatusNotFound, "liability not found")
			return
		}
	}

	txn := &domain.Transaction{
		UserID:             userID,
		PlatformAccountID:  req.PlatformAccountID,
		StockID:            req.StockID,
		RelatedLiabilityID: req.RelatedLiabilityID,
		Action:             action,
		Date:               date,
		Quantity:           req.Quantity,
		UnitPrice:          req.UnitPrice,
		Amount:             req.Amount,
		Currency:           currency,
		Fees:               req.Fees,
		Notes:              req.Notes,
	}

	created, err := h.repo.Create(r.Context(), txn)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to create transaction")
		h.writeError(w, http.StatusInternalServerError, "failed to create transaction")
		return
	}

	if h.cache != nil {
		h.cache.InvalidateUser(r.Context(), userID)
	}

	h.writeJSON(w, http.StatusCreated, created)
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

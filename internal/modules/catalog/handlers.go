package catalog

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/nravi/wealthtrack/internal/auth"
	"github.com/nravi/wealthtrack/internal/domain"
)

// Handler handles reference catalogue HTTP requests.
type Handler struct {
	repo *Repository
	log  zerolog.Logger
}

// NewHandler creates a new catalog handler.
func NewHandler(repo *Repository, log zerolog.Logger) *Handler {
	return &Handler{
		repo: repo,
		log:  log.With().Str("handler", "catalog").Logger(),
	}
}

// RegisterRoutes registers catalogue routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/platforms", func(r chi.Router) {
		r.Get("/", h.HandleListPlatforms)
		r.Post("/", h.HandleCreatePlatform)
	})
	r.Route("/sub-account-types", func(r chi.Router) {
		r.Get("/", h.HandleListSubAccountTypes)
		r.Post("/", h.HandleCreateSubAccountType)
	})
	r.Route("/platform-accounts", func(r chi.Router) {
		r.Get("/", h.HandleListAccounts)
		r.Post("/", h.HandleCreateAccount)
	})
	r.Route("/stocks", func(r chi.Router) {
		r.Get("/", h.HandleListStocks)
		r.Post("/", h.HandleCreateStock)
	})
}

// HandleListPlatforms lists the platform catalogue.
func (h *Handler) HandleListPlatforms(w http.ResponseWriter, r *http.Request) {
	platforms, err := h.repo.ListPlatforms(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list platforms")
		h.writeError(w, http.StatusInternalServerError, "failed to list platforms")
		return
	}
	h.writeJSON(w, http.StatusOK, platforms)
}

// HandleCreatePlatform adds a platform.
func (h *Handler) HandleCreatePlatform(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		h.writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	platform, err := h.repo.CreatePlatform(r.Context(), req.Name)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to create platform")
		h.writeError(w, http.StatusInternalServerError, "failed to create platform")
		return
	}
	h.writeJSON(w, http.StatusCreated, platform)
}

// HandleListSubAccountTypes lists sub-account types.
func (h *Handler) HandleListSubAccountTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.repo.ListSubAccountTypes(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list sub-account types")
		h.writeError(w, http.StatusInternalServerError, "failed to list sub-account types")
		return
	}
	h.writeJSON(w, http.StatusOK, types)
}

// HandleCreateSubAccountType adds a sub-account type.
func (h *Handler) HandleCreateSubAccountType(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name         string `json:"name"`
		Type         int    `json:"type"`
		BaseCurrency string `json:"base_currency"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		h.writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	currency, ok := domain.ParseCurrency(req.BaseCurrency)
	if !ok {
		h.writeError(w, http.StatusBadRequest, "base_currency must be INR or USD")
		return
	}

	created, err := h.repo.CreateSubAccountType(r.Context(), &domain.SubAccountType{
		Name:         req.Name,
		Type:         req.Type,
		BaseCurrency: currency,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to create sub-account type")
		h.writeError(w, http.StatusInternalServerError, "failed to create sub-account type")
		return
	}
	h.writeJSON(w, http.StatusCreated, created)
}

// HandleListAccounts lists the user's platform accounts.
func (h *Handler) HandleListAccounts(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	accounts, err := h.repo.ListAccounts(r.Context(), userID)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list platform accounts")
		h.writeError(w, http.StatusInternalServerError, "failed to list platform accounts")
		return
	}
	h.writeJSON(w, http.StatusOK, accounts)
}

// HandleCreateAccount links the user to a sub-account on a platform.
func (h *Handler) HandleCreateAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req struct {
		PlatformID       int64  `json:"platform_id"`
		SubAccountTypeID int64  `json:"sub_account_type_id"`
		Nickname         string `json:"nickname"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if ok, err := h.repo.PlatformExists(r.Context(), req.PlatformID); err != nil {
		h.log.Error().Err(err).Msg("Failed to verify platform")
		h.writeError(w, http.StatusInternalServerError, "failed to create account")
		return
	} else if !ok {
		h.writeError(w, http.StatusNotFound, "platform not found")
		return
	}
	if ok, err := h.repo.SubAccountTypeExists(r.Context(), req.SubAccountTypeID); err != nil {
		h.log.Error().Err(err).Msg("Failed to verify sub-account type")
		h.writeError(w, http.StatusInternalServerError, "failed to create account")
		return
	} else if !ok {
		h.writeError(w, http.StatusNotFound, "sub-account type not found")
		return
	}

	account, err := h.repo.CreateAccount(r.Context(), &domain.PlatformAccount{
		UserID:           userID,
		PlatformID:       req.PlatformID,
		SubAccountTypeID: req.SubAccountTypeID,
		Nickname:         req.Nickname,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to create platform account")
		h.writeError(w, http.StatusInternalServerError, "failed to create account")
		return
	}
	h.writeJSON(w, http.StatusCreated, account)
}

// HandleListStocks lists the stock catalogue.
func (h *Handler) HandleListStocks(w http.ResponseWriter, r *http.Request) {
	stocks, err := h.repo.ListStocks(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list stocks")
		h.writeError(w, http.StatusInternalServerError, "failed to list stocks")
		return
	}
	h.writeJSON(w, http.StatusOK, stocks)
}

// HandleCreateStock adds a stock to the catalogue.
func (h *Handler) HandleCreateStock(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Symbol   string `json:"symbol"`
		Name     string `json:"name"`
		Market   int    `json:"market"`
		Currency string `json:"currency"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Symbol == "" || req.Name == "" {
		h.writeError(w, http.StatusBadRequest, "symbol and name are required")
		return
	}
	if req.Market != int(domain.MarketUS) && req.Market != int(domain.MarketIND) {
		h.writeError(w, http.StatusBadRequest, "invalid market")
		return
	}
	currency, ok := domain.ParseCurrency(req.Currency)
	if !ok {
		h.writeError(w, http.StatusBadRequest, "currency must be INR or USD")
		return
	}

	stock, err := h.repo.CreateStock(r.Context(), &domain.Stock{
		Symbol:   req.Symbol,
		Name:     req.Name,
		Market:   domain.StockMarket(req.Market),
		Currency: currency,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to create stock")
		h.writeError(w, http.StatusInternalServerError, "failed to create stock")
		return
	}
	h.writeJSON(w, http.StatusCreated, stock)
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

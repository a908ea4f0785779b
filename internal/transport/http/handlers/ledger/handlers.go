package ledgerhandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"hearth/internal/domain/ledger"
	"hearth/internal/transport/http/api"
	"hearth/internal/transport/http/middleware"
	"hearth/internal/transport/http/shared"
)

type Handler struct {
	Svc *ledger.Service
}

func NewHandler(svc *ledger.Service) *Handler {
	return &Handler{Svc: svc}
}

type accountPayload struct {
	Name           string `json:"name"`
	Kind           string `json:"kind"`
	Currency       string `json:"currency"`
	OpeningBalance string `json:"openingBalance"`
	IsArchived     *bool  `json:"isArchived"`
}

type transactionPayload struct {
	AccountID  string `json:"accountId"`
	Amount     string `json:"amount"`
	Category   string `json:"category"`
	Memo       string `json:"memo"`
	OccurredOn string `json:"occurredOn"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/accounts", func(r chi.Router) {
		r.Get("/", h.handleListAccounts)
		r.Post("/", h.handleCreateAccount)
		r.Get("/{accountID}", h.handleGetAccount)
		r.Put("/{accountID}", h.handleUpdateAccount)
		r.Post("/{accountID}/archive", h.handleArchiveAccount)
	})
	r.Route("/transactions", func(r chi.Router) {
		r.Get("/", h.handleListTransactions)
		r.Post("/", h.handleCreateTransaction)
		r.Delete("/{transactionID}", h.handleDeleteTransaction)
	})
}

func (h *Handler) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	owner := middleware.GetOwnerID(r.Context())
	includeArchived := r.URL.Query().Get("includeArchived") == "true"
	accounts, err := h.Svc.ListAccounts(r.Context(), owner, includeArchived)
	if err != nil {
		h.fail(w, r, err, "accounts_failed", "failed to list accounts")
		return
	}
	api.Success(w, accounts, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetAccount(w http.ResponseWriter, r *http.Request) {
	owner := middleware.GetOwnerID(r.Context())
	account, err := h.Svc.GetAccount(r.Context(), owner, chi.URLParam(r, "accountID"))
	if err != nil {
		h.fail(w, r, err, "account_failed", "failed to load account")
		return
	}
	api.Success(w, account, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	owner := middleware.GetOwnerID(r.Context())
	account, ok := h.decodeAccount(w, r, owner)
	if !ok {
		return
	}
	created, err := h.Svc.CreateAccount(r.Context(), account)
	if err != nil {
		h.fail(w, r, err, "account_create_failed", "failed to create account")
		return
	}
	api.Created(w, created, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateAccount(w http.ResponseWriter, r *http.Request) {
	owner := middleware.GetOwnerID(r.Context())
	account, ok := h.decodeAccount(w, r, owner)
	if !ok {
		return
	}
	account.ID = chi.URLParam(r, "accountID")
	updated, err := h.Svc.UpdateAccount(r.Context(), account)
	if err != nil {
		h.fail(w, r, err, "account_update_failed", "failed to update account")
		return
	}
	api.Success(w, updated, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleArchiveAccount(w http.ResponseWriter, r *http.Request) {
	owner := middleware.GetOwnerID(r.Context())
	archived, err := h.Svc.ArchiveAccount(r.Context(), owner, chi.URLParam(r, "accountID"))
	if err != nil {
		h.fail(w, r, err, "account_archive_failed", "failed to archive account")
		return
	}
	api.Success(w, archived, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	owner := middleware.GetOwnerID(r.Context())
	page := shared.ParsePagination(r, 100, 500)

	filter := ledger.TransactionFilter{
		AccountID: r.URL.Query().Get("accountId"),
		Category:  r.URL.Query().Get("category"),
		Limit:     page.Limit,
		Offset:    page.Offset,
	}
	if raw := r.URL.Query().Get("from"); raw != "" {
		parsed, err := shared.ParseDate(raw)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_date", "from must be a valid date", middleware.GetRequestID(r.Context()))
			return
		}
		filter.From = parsed
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		parsed, err := shared.ParseDate(raw)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_date", "to must be a valid date", middleware.GetRequestID(r.Context()))
			return
		}
		filter.To = parsed
	}

	txs, err := h.Svc.ListTransactions(r.Context(), owner, filter)
	if err != nil {
		h.fail(w, r, err, "transactions_failed", "failed to list transactions")
		return
	}
	api.Success(w, txs, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	owner := middleware.GetOwnerID(r.Context())
	reqID := middleware.GetRequestID(r.Context())

	var payload transactionPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON", reqID)
		return
	}

	v := shared.NewValidator()
	v.Required("accountId", payload.AccountID, "account is required")
	v.Required("category", payload.Category, "category is required")
	v.Required("amount", payload.Amount, "amount is required")
	occurredOn, _ := v.Date("occurredOn", payload.OccurredOn)

	amount := decimal.Zero
	if strings.TrimSpace(payload.Amount) != "" {
		parsed, err := decimal.NewFromString(payload.Amount)
		if err != nil {
			v.Add("amount", "must be a decimal number")
		} else if parsed.IsZero() {
			v.Add("amount", "must not be zero")
		} else {
			amount = parsed
		}
	}
	if v.Reject(w, reqID) {
		return
	}

	created, err := h.Svc.CreateTransaction(r.Context(), ledger.Transaction{
		AccountID:  payload.AccountID,
		OwnerID:    owner,
		Amount:     amount,
		Category:   payload.Category,
		Memo:       payload.Memo,
		OccurredOn: occurredOn,
	})
	if err != nil {
		h.fail(w, r, err, "transaction_create_failed", "failed to create transaction")
		return
	}
	api.Created(w, created, reqID)
}

func (h *Handler) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	owner := middleware.GetOwnerID(r.Context())
	if err := h.Svc.DeleteTransaction(r.Context(), owner, chi.URLParam(r, "transactionID")); err != nil {
		h.fail(w, r, err, "transaction_delete_failed", "failed to delete transaction")
		return
	}
	api.Success(w, map[string]any{"deleted": true}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) decodeAccount(w http.ResponseWriter, r *http.Request, owner string) (ledger.Account, bool) {
	reqID := middleware.GetRequestID(r.Context())
	var payload accountPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON", reqID)
		return ledger.Account{}, false
	}

	v := shared.NewValidator()
	v.Required("name", payload.Name, "name is required")
	v.Required("kind", payload.Kind, "kind is required")
	v.Required("currency", payload.Currency, "currency is required")

	opening := decimal.Zero
	if strings.TrimSpace(payload.OpeningBalance) != "" {
		parsed, err := decimal.NewFromString(payload.OpeningBalance)
		if err != nil {
			v.Add("openingBalance", "must be a decimal number")
		} else {
			opening = parsed
		}
	}
	if v.Reject(w, reqID) {
		return ledger.Account{}, false
	}

	archived := false
	if payload.IsArchived != nil {
		archived = *payload.IsArchived
	}
	return ledger.Account{
		OwnerID:        owner,
		Name:           payload.Name,
		Kind:           strings.ToLower(strings.TrimSpace(payload.Kind)),
		Currency:       strings.ToUpper(strings.TrimSpace(payload.Currency)),
		OpeningBalance: opening,
		IsArchived:     archived,
	}, true
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error, code, message string) {
	reqID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, ledger.ErrAccountNotFound), errors.Is(err, ledger.ErrTransactionNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", err.Error(), reqID)
	case errors.Is(err, ledger.ErrInvalidAccount):
		api.Fail(w, http.StatusBadRequest, "invalid_request", err.Error(), reqID)
	case errors.Is(err, ledger.ErrAccountArchived):
		api.Fail(w, http.StatusConflict, "conflict", err.Error(), reqID)
	default:
		api.Fail(w, http.StatusInternalServerError, code, message, reqID)
	}
}

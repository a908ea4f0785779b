package workhandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"hearth/internal/domain/work"
	"hearth/internal/transport/http/api"
	"hearth/internal/transport/http/middleware"
	"hearth/internal/transport/http/shared"
)

type Handler struct {
	Svc *work.Service
}

func NewHandler(svc *work.Service) *Handler {
	return &Handler{Svc: svc}
}

type contractPayload struct {
	Employer    string  `json:"employer"`
	BaseSalary  string  `json:"baseSalary"`
	Currency    string  `json:"currency"`
	WeeklyHours float64 `json:"weeklyHours"`
	StartDate   string  `json:"startDate"`
	EndDate     string  `json:"endDate"`
	IsActive    *bool   `json:"isActive"`
}

type entryPayload struct {
	ContractID    string  `json:"contractId"`
	EntryDate     string  `json:"entryDate"`
	StartTime     string  `json:"startTime"`
	RegularHours  float64 `json:"regularHours"`
	OvertimeHours float64 `json:"overtimeHours"`
	Note          string  `json:"note"`
}

type policyPayload struct {
	MaxWeeklyHours     float64 `json:"maxWeeklyHours"`
	MaxMonthlyOvertime float64 `json:"maxMonthlyOvertime"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/contracts", func(r chi.Router) {
		r.Get("/", h.handleListContracts)
		r.Post("/", h.handleCreateContract)
		r.Get("/{contractID}", h.handleGetContract)
		r.Put("/{contractID}", h.handleUpdateContract)
		r.Delete("/{contractID}", h.handleDeleteContract)
	})
	r.Route("/time-entries", func(r chi.Router) {
		r.Get("/", h.handleListEntries)
		r.Post("/", h.handleCreateEntry)
		r.Put("/{entryID}", h.handleUpdateEntry)
		r.Delete("/{entryID}", h.handleDeleteEntry)
	})
	r.Route("/overtime-policy", func(r chi.Router) {
		r.Get("/", h.handleGetPolicy)
		r.Put("/", h.handleSavePolicy)
	})
}

func (h *Handler) handleListContracts(w http.ResponseWriter, r *http.Request) {
	owner := middleware.GetOwnerID(r.Context())
	contracts, err := h.Svc.ListContracts(r.Context(), owner)
	if err != nil {
		h.fail(w, r, err, "contracts_failed", "failed to list contracts")
		return
	}
	api.Success(w, contracts, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetContract(w http.ResponseWriter, r *http.Request) {
	owner := middleware.GetOwnerID(r.Context())
	contract, err := h.Svc.GetContract(r.Context(), owner, chi.URLParam(r, "contractID"))
	if err != nil {
		h.fail(w, r, err, "contract_failed", "failed to load contract")
		return
	}
	api.Success(w, contract, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateContract(w http.ResponseWriter, r *http.Request) {
	owner := middleware.GetOwnerID(r.Context())
	contract, ok := h.decodeContract(w, r, owner)
	if !ok {
		return
	}
	created, err := h.Svc.CreateContract(r.Context(), contract)
	if err != nil {
		h.fail(w, r, err, "contract_create_failed", "failed to create contract")
		return
	}
	api.Created(w, created, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateContract(w http.ResponseWriter, r *http.Request) {
	owner := middleware.GetOwnerID(r.Context())
	contract, ok := h.decodeContract(w, r, owner)
	if !ok {
		return
	}
	contract.ID = chi.URLParam(r, "contractID")
	updated, err := h.Svc.UpdateContract(r.Context(), contract)
	if err != nil {
		h.fail(w, r, err, "contract_update_failed", "failed to update contract")
		return
	}
	api.Success(w, updated, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDeleteContract(w http.ResponseWriter, r *http.Request) {
	owner := middleware.GetOwnerID(r.Context())
	if err := h.Svc.DeleteContract(r.Context(), owner, chi.URLParam(r, "contractID")); err != nil {
		h.fail(w, r, err, "contract_delete_failed", "failed to delete contract")
		return
	}
	api.Success(w, map[string]any{"deleted": true}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListEntries(w http.ResponseWriter, r *http.Request) {
	owner := middleware.GetOwnerID(r.Context())
	page := shared.ParsePagination(r, 100, 500)

	var from, to time.Time
	if raw := r.URL.Query().Get("from"); raw != "" {
		parsed, err := shared.ParseDate(raw)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_date", "from must be a valid date", middleware.GetRequestID(r.Context()))
			return
		}
		from = parsed
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		parsed, err := shared.ParseDate(raw)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_date", "to must be a valid date", middleware.GetRequestID(r.Context()))
			return
		}
		to = parsed
	}

	entries, err := h.Svc.ListEntries(r.Context(), owner, r.URL.Query().Get("contractId"), from, to, page.Limit, page.Offset)
	if err != nil {
		h.fail(w, r, err, "time_entries_failed", "failed to list time entries")
		return
	}
	api.Success(w, entries, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateEntry(w http.ResponseWriter, r *http.Request) {
	owner := middleware.GetOwnerID(r.Context())
	entry, ok := h.decodeEntry(w, r, owner)
	if !ok {
		return
	}
	created, err := h.Svc.CreateEntry(r.Context(), entry)
	if err != nil {
		h.fail(w, r, err, "time_entry_create_failed", "failed to create time entry")
		return
	}
	api.Created(w, created, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateEntry(w http.ResponseWriter, r *http.Request) {
	owner := middleware.GetOwnerID(r.Context())
	entry, ok := h.decodeEntry(w, r, owner)
	if !ok {
		return
	}
	entry.ID = chi.URLParam(r, "entryID")
	updated, err := h.Svc.UpdateEntry(r.Context(), entry)
	if err != nil {
		h.fail(w, r, err, "time_entry_update_failed", "failed to update time entry")
		return
	}
	api.Success(w, updated, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	owner := middleware.GetOwnerID(r.Context())
	if err := h.Svc.DeleteEntry(r.Context(), owner, chi.URLParam(r, "entryID")); err != nil {
		h.fail(w, r, err, "time_entry_delete_failed", "failed to delete time entry")
		return
	}
	api.Success(w, map[string]any{"deleted": true}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetPolicy(w http.ResponseWriter, r *http.Request) {
	owner := middleware.GetOwnerID(r.Context())
	policy, found, err := h.Svc.GetPolicy(r.Context(), owner)
	if err != nil {
		h.fail(w, r, err, "overtime_policy_failed", "failed to load overtime policy")
		return
	}
	if !found {
		api.Fail(w, http.StatusNotFound, "not_found", "no overtime policy configured", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, policy, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleSavePolicy(w http.ResponseWriter, r *http.Request) {
	owner := middleware.GetOwnerID(r.Context())
	var payload policyPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON", middleware.GetRequestID(r.Context()))
		return
	}
	saved, err := h.Svc.SavePolicy(r.Context(), work.OvertimePolicy{
		OwnerID:            owner,
		MaxWeeklyHours:     payload.MaxWeeklyHours,
		MaxMonthlyOvertime: payload.MaxMonthlyOvertime,
	})
	if err != nil {
		h.fail(w, r, err, "overtime_policy_save_failed", "failed to save overtime policy")
		return
	}
	api.Success(w, saved, middleware.GetRequestID(r.Context()))
}

func (h *Handler) decodeContract(w http.ResponseWriter, r *http.Request, owner string) (work.Contract, bool) {
	reqID := middleware.GetRequestID(r.Context())
	var payload contractPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON", reqID)
		return work.Contract{}, false
	}

	v := shared.NewValidator()
	v.Required("employer", payload.Employer, "employer is required")
	v.Required("baseSalary", payload.BaseSalary, "base salary is required")
	v.Required("currency", payload.Currency, "currency is required")
	start, _ := v.Date("startDate", payload.StartDate)

	salary := decimal.Zero
	if strings.TrimSpace(payload.BaseSalary) != "" {
		parsed, err := decimal.NewFromString(payload.BaseSalary)
		if err != nil {
			v.Add("baseSalary", "must be a decimal number")
		} else {
			salary = parsed
		}
	}
	var endDate *time.Time
	if strings.TrimSpace(payload.EndDate) != "" {
		parsed, ok := v.Date("endDate", payload.EndDate)
		if ok {
			v.DateOrder("startDate", start, "endDate", parsed)
			endDate = &parsed
		}
	}
	if v.Reject(w, reqID) {
		return work.Contract{}, false
	}

	active := true
	if payload.IsActive != nil {
		active = *payload.IsActive
	}
	return work.Contract{
		OwnerID:     owner,
		Employer:    payload.Employer,
		BaseSalary:  salary,
		Currency:    strings.ToUpper(strings.TrimSpace(payload.Currency)),
		WeeklyHours: payload.WeeklyHours,
		StartDate:   start,
		EndDate:     endDate,
		IsActive:    active,
	}, true
}

func (h *Handler) decodeEntry(w http.ResponseWriter, r *http.Request, owner string) (work.TimeEntry, bool) {
	reqID := middleware.GetRequestID(r.Context())
	var payload entryPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON", reqID)
		return work.TimeEntry{}, false
	}

	v := shared.NewValidator()
	v.Required("contractId", payload.ContractID, "contract is required")
	entryDate, _ := v.Date("entryDate", payload.EntryDate)
	if v.Reject(w, reqID) {
		return work.TimeEntry{}, false
	}

	return work.TimeEntry{
		OwnerID:       owner,
		ContractID:    payload.ContractID,
		EntryDate:     entryDate,
		StartTime:     strings.TrimSpace(payload.StartTime),
		RegularHours:  payload.RegularHours,
		OvertimeHours: payload.OvertimeHours,
		Note:          payload.Note,
	}, true
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error, code, message string) {
	reqID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, work.ErrContractNotFound), errors.Is(err, work.ErrEntryNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", err.Error(), reqID)
	case errors.Is(err, work.ErrInvalidEntry), errors.Is(err, work.ErrInvalidPolicy):
		api.Fail(w, http.StatusBadRequest, "invalid_request", err.Error(), reqID)
	default:
		api.Fail(w, http.StatusInternalServerError, code, message, reqID)
	}
}

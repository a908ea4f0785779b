package reportshandler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"hearth/internal/domain/ledger"
	"hearth/internal/domain/reports"
	"hearth/internal/transport/http/api"
	"hearth/internal/transport/http/middleware"
	"hearth/internal/transport/http/shared"
)

type Handler struct {
	Svc *reports.Service
}

func NewHandler(svc *reports.Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/reports", func(r chi.Router) {
		r.Get("/bonus-statement.pdf", h.handleBonusStatement)
		r.Get("/cashflow", h.handleCashflow)
	})
}

func (h *Handler) handleBonusStatement(w http.ResponseWriter, r *http.Request) {
	owner := middleware.GetOwnerID(r.Context())
	reqID := middleware.GetRequestID(r.Context())

	v := shared.NewValidator()
	from, fromOK := v.Date("from", r.URL.Query().Get("from"))
	to, toOK := v.Date("to", r.URL.Query().Get("to"))
	if fromOK && toOK {
		v.DateOrder("from", from, "to", to)
	}
	if v.Reject(w, reqID) {
		return
	}

	pdf, err := h.Svc.BonusStatementPDF(r.Context(), owner, from, to)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "bonus_statement_failed", "failed to generate bonus statement", reqID)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="bonus-statement.pdf"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}

func (h *Handler) handleCashflow(w http.ResponseWriter, r *http.Request) {
	owner := middleware.GetOwnerID(r.Context())
	reqID := middleware.GetRequestID(r.Context())

	months := 12
	if raw := r.URL.Query().Get("months"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > 120 {
			api.Fail(w, http.StatusBadRequest, "invalid_months", "months must be between 1 and 120", reqID)
			return
		}
		months = parsed
	}

	flows, err := h.Svc.Cashflow(r.Context(), owner, months)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "cashflow_failed", "failed to build cashflow report", reqID)
		return
	}
	if flows == nil {
		flows = []ledger.MonthlyCashflow{}
	}
	api.Success(w, flows, reqID)
}

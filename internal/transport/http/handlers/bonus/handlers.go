package bonushandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"hearth/internal/domain/bonus"
	"hearth/internal/transport/http/api"
	"hearth/internal/transport/http/middleware"
	"hearth/internal/transport/http/shared"
)

type Handler struct {
	Svc *bonus.Service
}

func NewHandler(svc *bonus.Service) *Handler {
	return &Handler{Svc: svc}
}

type configPayload struct {
	ContractID        string  `json:"contractId"`
	Name              string  `json:"name"`
	MetricType        string  `json:"metricType"`
	ThresholdValue    float64 `json:"thresholdValue"`
	ThresholdOperator string  `json:"thresholdOperator"`
	BonusType         string  `json:"bonusType"`
	BonusValue        string  `json:"bonusValue"`
	MaxBonusAmount    *string `json:"maxBonusAmount"`
	EvaluationPeriod  string  `json:"evaluationPeriod"`
	IsActive          *bool   `json:"isActive"`
}

type runPayload struct {
	ContractID  string `json:"contractId"`
	PeriodStart string `json:"periodStart"`
	PeriodEnd   string `json:"periodEnd"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/bonus", func(r chi.Router) {
		r.Get("/configs", h.handleListConfigs)
		r.Post("/configs", h.handleCreateConfig)
		r.Get("/configs/{configID}", h.handleGetConfig)
		r.Put("/configs/{configID}", h.handleUpdateConfig)
		r.Delete("/configs/{configID}", h.handleDeleteConfig)

		r.Post("/run", h.handleRun)

		r.Get("/results", h.handleListResults)
		r.Get("/results/{resultID}", h.handleGetResult)
		r.Post("/results/{resultID}/apply", h.handleApplyResult)
		r.Post("/results/{resultID}/cancel", h.handleCancelResult)
	})
}

func (h *Handler) handleListConfigs(w http.ResponseWriter, r *http.Request) {
	owner := middleware.GetOwnerID(r.Context())
	configs, err := h.Svc.ListConfigs(r.Context(), owner, r.URL.Query().Get("contractId"))
	if err != nil {
		h.fail(w, r, err, "bonus_configs_failed", "failed to list bonus configs")
		return
	}
	api.Success(w, configs, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	owner := middleware.GetOwnerID(r.Context())
	cfg, err := h.Svc.GetConfig(r.Context(), owner, chi.URLParam(r, "configID"))
	if err != nil {
		h.fail(w, r, err, "bonus_config_failed", "failed to load bonus config")
		return
	}
	api.Success(w, cfg, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateConfig(w http.ResponseWriter, r *http.Request) {
	owner := middleware.GetOwnerID(r.Context())
	cfg, ok := h.decodeConfig(w, r, owner)
	if !ok {
		return
	}
	created, err := h.Svc.CreateConfig(r.Context(), cfg)
	if err != nil {
		h.fail(w, r, err, "bonus_config_create_failed", "failed to create bonus config")
		return
	}
	api.Created(w, created, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateConfig(w http.ResponseWriter, r *http.Request) {
	owner := middleware.GetOwnerID(r.Context())
	cfg, ok := h.decodeConfig(w, r, owner)
	if !ok {
		return
	}
	cfg.ID = chi.URLParam(r, "configID")
	updated, err := h.Svc.UpdateConfig(r.Context(), cfg)
	if err != nil {
		h.fail(w, r, err, "bonus_config_update_failed", "failed to update bonus config")
		return
	}
	api.Success(w, updated, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDeleteConfig(w http.ResponseWriter, r *http.Request) {
	owner := middleware.GetOwnerID(r.Context())
	if err := h.Svc.DeleteConfig(r.Context(), owner, chi.URLParam(r, "configID")); err != nil {
		h.fail(w, r, err, "bonus_config_delete_failed", "failed to delete bonus config")
		return
	}
	api.Success(w, map[string]any{"deleted": true}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleRun(w http.ResponseWriter, r *http.Request) {
	owner := middleware.GetOwnerID(r.Context())
	var payload runPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("contractId", payload.ContractID, "contract is required")
	start, startOK := v.Date("periodStart", payload.PeriodStart)
	end, endOK := v.Date("periodEnd", payload.PeriodEnd)
	if startOK && endOK {
		v.DateOrder("periodStart", start, "periodEnd", end)
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	results, err := h.Svc.Run(r.Context(), owner, payload.ContractID, start, end)
	if err != nil {
		h.fail(w, r, err, "bonus_run_failed", "bonus run failed")
		return
	}
	if results == nil {
		results = []bonus.Result{}
	}
	api.Success(w, results, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListResults(w http.ResponseWriter, r *http.Request) {
	owner := middleware.GetOwnerID(r.Context())
	page := shared.ParsePagination(r, 50, 200)

	filter := bonus.ResultFilter{
		ContractID: r.URL.Query().Get("contractId"),
		Status:     bonus.ResultStatus(r.URL.Query().Get("status")),
		Limit:      page.Limit,
		Offset:     page.Offset,
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
	if filter.Status != "" && !filter.Status.Valid() {
		api.Fail(w, http.StatusBadRequest, "invalid_status", "unknown result status", middleware.GetRequestID(r.Context()))
		return
	}

	results, err := h.Svc.ListResults(r.Context(), owner, filter)
	if err != nil {
		h.fail(w, r, err, "bonus_results_failed", "failed to list bonus results")
		return
	}
	api.Success(w, results, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetResult(w http.ResponseWriter, r *http.Request) {
	owner := middleware.GetOwnerID(r.Context())
	result, err := h.Svc.GetResult(r.Context(), owner, chi.URLParam(r, "resultID"))
	if err != nil {
		h.fail(w, r, err, "bonus_result_failed", "failed to load bonus result")
		return
	}
	api.Success(w, result, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleApplyResult(w http.ResponseWriter, r *http.Request) {
	owner := middleware.GetOwnerID(r.Context())
	result, err := h.Svc.Apply(r.Context(), owner, chi.URLParam(r, "resultID"))
	if err != nil {
		h.fail(w, r, err, "bonus_apply_failed", "failed to apply bonus result")
		return
	}
	api.Success(w, result, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCancelResult(w http.ResponseWriter, r *http.Request) {
	owner := middleware.GetOwnerID(r.Context())
	result, err := h.Svc.Cancel(r.Context(), owner, chi.URLParam(r, "resultID"))
	if err != nil {
		h.fail(w, r, err, "bonus_cancel_failed", "failed to cancel bonus result")
		return
	}
	api.Success(w, result, middleware.GetRequestID(r.Context()))
}

func (h *Handler) decodeConfig(w http.ResponseWriter, r *http.Request, owner string) (bonus.Config, bool) {
	reqID := middleware.GetRequestID(r.Context())
	var payload configPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON", reqID)
		return bonus.Config{}, false
	}

	v := shared.NewValidator()
	v.Required("name", payload.Name, "name is required")
	v.Required("metricType", payload.MetricType, "metric type is required")
	v.Required("thresholdOperator", payload.ThresholdOperator, "threshold operator is required")
	v.Required("bonusType", payload.BonusType, "bonus type is required")
	v.Required("bonusValue", payload.BonusValue, "bonus value is required")
	v.Required("evaluationPeriod", payload.EvaluationPeriod, "evaluation period is required")

	bonusValue := decimal.Zero
	if strings.TrimSpace(payload.BonusValue) != "" {
		parsed, err := decimal.NewFromString(payload.BonusValue)
		if err != nil {
			v.Add("bonusValue", "must be a decimal number")
		} else {
			bonusValue = parsed
		}
	}
	maxBonus := decimal.NullDecimal{}
	if payload.MaxBonusAmount != nil && strings.TrimSpace(*payload.MaxBonusAmount) != "" {
		parsed, err := decimal.NewFromString(*payload.MaxBonusAmount)
		if err != nil {
			v.Add("maxBonusAmount", "must be a decimal number")
		} else {
			maxBonus = decimal.NullDecimal{Decimal: parsed, Valid: true}
		}
	}
	if v.Reject(w, reqID) {
		return bonus.Config{}, false
	}

	active := true
	if payload.IsActive != nil {
		active = *payload.IsActive
	}
	return bonus.Config{
		OwnerID:           owner,
		ContractID:        payload.ContractID,
		Name:              payload.Name,
		MetricType:        bonus.MetricType(payload.MetricType),
		ThresholdValue:    payload.ThresholdValue,
		ThresholdOperator: bonus.Operator(payload.ThresholdOperator),
		BonusType:         bonus.BonusType(payload.BonusType),
		BonusValue:        bonusValue,
		MaxBonusAmount:    maxBonus,
		EvaluationPeriod:  payload.EvaluationPeriod,
		IsActive:          active,
	}, true
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error, code, message string) {
	reqID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, bonus.ErrConfigNotFound), errors.Is(err, bonus.ErrResultNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", err.Error(), reqID)
	case errors.Is(err, bonus.ErrInvalidConfig), errors.Is(err, bonus.ErrInvalidPeriod):
		api.Fail(w, http.StatusBadRequest, "invalid_request", err.Error(), reqID)
	case errors.Is(err, bonus.ErrResultFinal), errors.Is(err, bonus.ErrConfigInUse):
		api.Fail(w, http.StatusConflict, "conflict", err.Error(), reqID)
	default:
		api.Fail(w, http.StatusInternalServerError, code, message, reqID)
	}
}

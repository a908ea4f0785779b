package goalshandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"hearth/internal/domain/goals"
	"hearth/internal/transport/http/api"
	"hearth/internal/transport/http/middleware"
	"hearth/internal/transport/http/shared"
)

type Handler struct {
	Svc *goals.Service
}

func NewHandler(svc *goals.Service) *Handler {
	return &Handler{Svc: svc}
}

type goalPayload struct {
	Name         string `json:"name"`
	TargetAmount string `json:"targetAmount"`
	TargetDate   string `json:"targetDate"`
	Status       string `json:"status"`
}

type rulePayload struct {
	GoalID          string `json:"goalId"`
	Trigger         string `json:"trigger"`
	AllocationType  string `json:"allocationType"`
	AllocationValue string `json:"allocationValue"`
	IsActive        *bool  `json:"isActive"`
}

type applyFundingPayload struct {
	Amount string `json:"amount"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/goals", func(r chi.Router) {
		r.Get("/", h.handleListGoals)
		r.Post("/", h.handleCreateGoal)
		r.Get("/{goalID}", h.handleGetGoal)
		r.Put("/{goalID}", h.handleUpdateGoal)

		r.Get("/rules", h.handleListRules)
		r.Post("/rules", h.handleCreateRule)
		r.Put("/rules/{ruleID}", h.handleUpdateRule)
		r.Delete("/rules/{ruleID}", h.handleDeleteRule)

		r.Post("/apply-funding", h.handleApplyFunding)
	})
}

func (h *Handler) handleListGoals(w http.ResponseWriter, r *http.Request) {
	owner := middleware.GetOwnerID(r.Context())
	list, err := h.Svc.ListGoals(r.Context(), owner)
	if err != nil {
		h.fail(w, r, err, "goals_failed", "failed to list goals")
		return
	}
	api.Success(w, list, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetGoal(w http.ResponseWriter, r *http.Request) {
	owner := middleware.GetOwnerID(r.Context())
	goal, err := h.Svc.GetGoal(r.Context(), owner, chi.URLParam(r, "goalID"))
	if err != nil {
		h.fail(w, r, err, "goal_failed", "failed to load goal")
		return
	}
	api.Success(w, goal, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	owner := middleware.GetOwnerID(r.Context())
	goal, ok := h.decodeGoal(w, r, owner)
	if !ok {
		return
	}
	created, err := h.Svc.CreateGoal(r.Context(), goal)
	if err != nil {
		h.fail(w, r, err, "goal_create_failed", "failed to create goal")
		return
	}
	api.Created(w, created, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateGoal(w http.ResponseWriter, r *http.Request) {
	owner := middleware.GetOwnerID(r.Context())
	goal, ok := h.decodeGoal(w, r, owner)
	if !ok {
		return
	}
	goal.ID = chi.URLParam(r, "goalID")
	if goal.Status == "" {
		goal.Status = goals.StatusActive
	}
	updated, err := h.Svc.UpdateGoal(r.Context(), goal)
	if err != nil {
		h.fail(w, r, err, "goal_update_failed", "failed to update goal")
		return
	}
	api.Success(w, updated, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListRules(w http.ResponseWriter, r *http.Request) {
	owner := middleware.GetOwnerID(r.Context())
	rules, err := h.Svc.ListRules(r.Context(), owner)
	if err != nil {
		h.fail(w, r, err, "funding_rules_failed", "failed to list funding rules")
		return
	}
	api.Success(w, rules, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateRule(w http.ResponseWriter, r *http.Request) {
	owner := middleware.GetOwnerID(r.Context())
	rule, ok := h.decodeRule(w, r, owner)
	if !ok {
		return
	}
	created, err := h.Svc.CreateRule(r.Context(), rule)
	if err != nil {
		h.fail(w, r, err, "funding_rule_create_failed", "failed to create funding rule")
		return
	}
	api.Created(w, created, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateRule(w http.ResponseWriter, r *http.Request) {
	owner := middleware.GetOwnerID(r.Context())
	rule, ok := h.decodeRule(w, r, owner)
	if !ok {
		return
	}
	rule.ID = chi.URLParam(r, "ruleID")
	updated, err := h.Svc.UpdateRule(r.Context(), rule)
	if err != nil {
		h.fail(w, r, err, "funding_rule_update_failed", "failed to update funding rule")
		return
	}
	api.Success(w, updated, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDeleteRule(w http.ResponseWriter, r *http.Request) {
	owner := middleware.GetOwnerID(r.Context())
	if err := h.Svc.DeleteRule(r.Context(), owner, chi.URLParam(r, "ruleID")); err != nil {
		h.fail(w, r, err, "funding_rule_delete_failed", "failed to delete funding rule")
		return
	}
	api.Success(w, map[string]any{"deleted": true}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleApplyFunding(w http.ResponseWriter, r *http.Request) {
	owner := middleware.GetOwnerID(r.Context())
	reqID := middleware.GetRequestID(r.Context())

	var payload applyFundingPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON", reqID)
		return
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(payload.Amount))
	if err != nil || !amount.IsPositive() {
		api.Fail(w, http.StatusBadRequest, "invalid_amount", "amount must be a positive decimal", reqID)
		return
	}

	allocations, err := h.Svc.ApplyIncome(r.Context(), owner, amount)
	if err != nil {
		h.fail(w, r, err, "apply_funding_failed", "failed to apply funding")
		return
	}
	if allocations == nil {
		allocations = []goals.Allocation{}
	}
	api.Success(w, allocations, reqID)
}

func (h *Handler) decodeGoal(w http.ResponseWriter, r *http.Request, owner string) (goals.SavingsGoal, bool) {
	reqID := middleware.GetRequestID(r.Context())
	var payload goalPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON", reqID)
		return goals.SavingsGoal{}, false
	}

	v := shared.NewValidator()
	v.Required("name", payload.Name, "name is required")
	v.Required("targetAmount", payload.TargetAmount, "target amount is required")

	target := decimal.Zero
	if strings.TrimSpace(payload.TargetAmount) != "" {
		parsed, err := decimal.NewFromString(payload.TargetAmount)
		if err != nil {
			v.Add("targetAmount", "must be a decimal number")
		} else {
			target = parsed
		}
	}
	var targetDate *time.Time
	if strings.TrimSpace(payload.TargetDate) != "" {
		parsed, ok := v.Date("targetDate", payload.TargetDate)
		if ok {
			targetDate = &parsed
		}
	}
	if v.Reject(w, reqID) {
		return goals.SavingsGoal{}, false
	}

	return goals.SavingsGoal{
		OwnerID:      owner,
		Name:         payload.Name,
		TargetAmount: target,
		TargetDate:   targetDate,
		Status:       goals.GoalStatus(payload.Status),
	}, true
}

func (h *Handler) decodeRule(w http.ResponseWriter, r *http.Request, owner string) (goals.FundingRule, bool) {
	reqID := middleware.GetRequestID(r.Context())
	var payload rulePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON", reqID)
		return goals.FundingRule{}, false
	}

	v := shared.NewValidator()
	v.Required("goalId", payload.GoalID, "goal is required")
	v.Required("trigger", payload.Trigger, "trigger is required")
	v.Required("allocationType", payload.AllocationType, "allocation type is required")
	v.Required("allocationValue", payload.AllocationValue, "allocation value is required")

	value := decimal.Zero
	if strings.TrimSpace(payload.AllocationValue) != "" {
		parsed, err := decimal.NewFromString(payload.AllocationValue)
		if err != nil {
			v.Add("allocationValue", "must be a decimal number")
		} else {
			value = parsed
		}
	}
	if v.Reject(w, reqID) {
		return goals.FundingRule{}, false
	}

	active := true
	if payload.IsActive != nil {
		active = *payload.IsActive
	}
	return goals.FundingRule{
		GoalID:          payload.GoalID,
		OwnerID:         owner,
		Trigger:         goals.Trigger(payload.Trigger),
		AllocationType:  goals.AllocationType(payload.AllocationType),
		AllocationValue: value,
		IsActive:        active,
	}, true
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error, code, message string) {
	reqID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, goals.ErrGoalNotFound), errors.Is(err, goals.ErrRuleNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", err.Error(), reqID)
	case errors.Is(err, goals.ErrInvalidGoal), errors.Is(err, goals.ErrInvalidRule):
		api.Fail(w, http.StatusBadRequest, "invalid_request", err.Error(), reqID)
	case errors.Is(err, goals.ErrGoalClosed):
		api.Fail(w, http.StatusConflict, "conflict", err.Error(), reqID)
	default:
		api.Fail(w, http.StatusInternalServerError, code, message, reqID)
	}
}

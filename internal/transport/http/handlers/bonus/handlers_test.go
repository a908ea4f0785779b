package bonushandler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hearth/internal/domain/bonus"
	"hearth/internal/requestctx"
	"hearth/internal/transport/http/api"
)

type memStore struct {
	configs []bonus.Config
	results map[string]bonus.Result
	nextID  int
}

func newMemStore() *memStore {
	return &memStore{results: map[string]bonus.Result{}}
}

func (m *memStore) ListConfigs(_ context.Context, ownerID, contractID string) ([]bonus.Config, error) {
	var out []bonus.Config
	for _, c := range m.configs {
		if c.OwnerID == ownerID && (contractID == "" || c.ContractID == "" || c.ContractID == contractID) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memStore) ActiveConfigs(ctx context.Context, ownerID, contractID string) ([]bonus.Config, error) {
	all, _ := m.ListConfigs(ctx, ownerID, contractID)
	var out []bonus.Config
	for _, c := range all {
		if c.IsActive {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memStore) GetConfig(_ context.Context, ownerID, configID string) (bonus.Config, error) {
	for _, c := range m.configs {
		if c.OwnerID == ownerID && c.ID == configID {
			return c, nil
		}
	}
	return bonus.Config{}, bonus.ErrConfigNotFound
}

func (m *memStore) CreateConfig(_ context.Context, cfg bonus.Config) (bonus.Config, error) {
	m.nextID++
	cfg.ID = fmt.Sprintf("cfg-%d", m.nextID)
	m.configs = append(m.configs, cfg)
	return cfg, nil
}

func (m *memStore) UpdateConfig(_ context.Context, cfg bonus.Config) (bonus.Config, error) {
	for i, c := range m.configs {
		if c.OwnerID == cfg.OwnerID && c.ID == cfg.ID {
			m.configs[i] = cfg
			return cfg, nil
		}
	}
	return bonus.Config{}, bonus.ErrConfigNotFound
}

func (m *memStore) DeleteConfig(_ context.Context, ownerID, configID string) error {
	for i, c := range m.configs {
		if c.OwnerID == ownerID && c.ID == configID {
			m.configs = append(m.configs[:i], m.configs[i+1:]...)
			return nil
		}
	}
	return bonus.ErrConfigNotFound
}

func (m *memStore) ConfigHasResults(_ context.Context, configID string) (bool, error) {
	for _, r := range m.results {
		if r.ConfigID == configID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) InsertResult(_ context.Context, res bonus.Result) (bonus.Result, bool, error) {
	for _, existing := range m.results {
		if existing.ConfigID == res.ConfigID &&
			existing.PeriodStart.Equal(res.PeriodStart) &&
			existing.PeriodEnd.Equal(res.PeriodEnd) {
			return bonus.Result{}, false, nil
		}
	}
	m.nextID++
	res.ID = fmt.Sprintf("res-%d", m.nextID)
	m.results[res.ID] = res
	return res, true, nil
}

func (m *memStore) GetResult(_ context.Context, ownerID, resultID string) (bonus.Result, error) {
	res, ok := m.results[resultID]
	if !ok || res.OwnerID != ownerID {
		return bonus.Result{}, bonus.ErrResultNotFound
	}
	return res, nil
}

func (m *memStore) ListResults(_ context.Context, ownerID string, _ bonus.ResultFilter) ([]bonus.Result, error) {
	var out []bonus.Result
	for _, r := range m.results {
		if r.OwnerID == ownerID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memStore) TransitionResult(_ context.Context, ownerID, resultID string, to bonus.ResultStatus, appliedAt *time.Time) (bonus.Result, error) {
	res, ok := m.results[resultID]
	if !ok || res.OwnerID != ownerID {
		return bonus.Result{}, bonus.ErrResultNotFound
	}
	if res.Status != bonus.StatusCalculated {
		return bonus.Result{}, bonus.ErrResultFinal
	}
	res.Status = to
	res.AppliedAt = appliedAt
	m.results[resultID] = res
	return res, nil
}

type memSource struct{}

func (memSource) EntriesInRange(_ context.Context, _, _ string, from, _ time.Time) ([]bonus.TimeEntry, error) {
	var entries []bonus.TimeEntry
	d := from
	for len(entries) < 5 {
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			entries = append(entries, bonus.TimeEntry{Date: d, StartTime: "08:30", RegularHours: 8})
		}
		d = d.AddDate(0, 0, 1)
	}
	return entries, nil
}

func (memSource) BaseSalary(_ context.Context, _, _ string) (decimal.Decimal, error) {
	return decimal.NewFromInt(3000), nil
}

func newTestRouter() (*chi.Mux, *memStore) {
	store := newMemStore()
	svc := bonus.NewService(store, memSource{}, memSource{})
	router := chi.NewRouter()
	router.Route("/api/v1", func(r chi.Router) {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				ctx := requestctx.WithOwnerID(req.Context(), "owner-1")
				next.ServeHTTP(w, req.WithContext(ctx))
			})
		})
		NewHandler(svc).RegisterRoutes(r)
	})
	return router, store
}

func do(t *testing.T, router http.Handler, method, path, body string) (*httptest.ResponseRecorder, api.Envelope) {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var envelope api.Envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	}
	return rec, envelope
}

func TestBonusJourney(t *testing.T) {
	router, _ := newTestRouter()

	rec, envelope := do(t, router, http.MethodPost, "/api/v1/bonus/configs", `{
		"name": "attendance bonus",
		"metricType": "attendance",
		"thresholdValue": 90,
		"thresholdOperator": ">=",
		"bonusType": "fixed_amount",
		"bonusValue": "50",
		"evaluationPeriod": "monthly"
	}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.True(t, envelope.Success)

	rec, _ = do(t, router, http.MethodPost, "/api/v1/bonus/run", `{
		"contractId": "contract-1",
		"periodStart": "2024-01-01",
		"periodEnd": "2024-01-07"
	}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var results []bonus.Result
	rec, envelope = do(t, router, http.MethodGet, "/api/v1/bonus/results", "")
	require.Equal(t, http.StatusOK, rec.Code)
	raw, err := json.Marshal(envelope.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &results))
	require.Len(t, results, 1)
	assert.Equal(t, bonus.StatusCalculated, results[0].Status)

	applyPath := "/api/v1/bonus/results/" + results[0].ID + "/apply"
	rec, _ = do(t, router, http.MethodPost, applyPath, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec, envelope = do(t, router, http.MethodPost, applyPath, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "conflict", envelope.Error.Code)
}

func TestBonusRunValidation(t *testing.T) {
	router, _ := newTestRouter()

	rec, envelope := do(t, router, http.MethodPost, "/api/v1/bonus/run", `{
		"contractId": "",
		"periodStart": "2024-01-07",
		"periodEnd": "2024-01-01"
	}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "validation_error", envelope.Error.Code)
}

func TestBonusConfigValidationRejectsUnknownEnum(t *testing.T) {
	router, _ := newTestRouter()

	rec, envelope := do(t, router, http.MethodPost, "/api/v1/bonus/configs", `{
		"name": "bad config",
		"metricType": "velocity",
		"thresholdValue": 1,
		"thresholdOperator": ">=",
		"bonusType": "fixed_amount",
		"bonusValue": "50",
		"evaluationPeriod": "monthly"
	}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "invalid_request", envelope.Error.Code)
}

func TestBonusRunIsIdempotentOverHTTP(t *testing.T) {
	router, store := newTestRouter()

	_, _ = do(t, router, http.MethodPost, "/api/v1/bonus/configs", `{
		"name": "attendance bonus",
		"metricType": "attendance",
		"thresholdValue": 90,
		"thresholdOperator": ">=",
		"bonusType": "fixed_amount",
		"bonusValue": "50",
		"evaluationPeriod": "monthly"
	}`)

	body := `{"contractId": "contract-1", "periodStart": "2024-01-01", "periodEnd": "2024-01-07"}`
	rec, _ := do(t, router, http.MethodPost, "/api/v1/bonus/run", body)
	require.Equal(t, http.StatusOK, rec.Code)
	rec, _ = do(t, router, http.MethodPost, "/api/v1/bonus/run", body)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Len(t, store.results, 1)
}

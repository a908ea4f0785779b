package bonus

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	configs []Config
	results map[string]Result
	nextID  int
}

func newFakeStore(configs ...Config) *fakeStore {
	return &fakeStore{configs: configs, results: map[string]Result{}}
}

func (f *fakeStore) ListConfigs(_ context.Context, ownerID, contractID string) ([]Config, error) {
	var out []Config
	for _, c := range f.configs {
		if c.OwnerID != ownerID {
			continue
		}
		if contractID != "" && c.ContractID != "" && c.ContractID != contractID {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeStore) ActiveConfigs(ctx context.Context, ownerID, contractID string) ([]Config, error) {
	all, _ := f.ListConfigs(ctx, ownerID, contractID)
	var out []Config
	for _, c := range all {
		if c.IsActive {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeStore) GetConfig(_ context.Context, ownerID, configID string) (Config, error) {
	for _, c := range f.configs {
		if c.OwnerID == ownerID && c.ID == configID {
			return c, nil
		}
	}
	return Config{}, ErrConfigNotFound
}

func (f *fakeStore) CreateConfig(_ context.Context, cfg Config) (Config, error) {
	f.nextID++
	cfg.ID = fmt.Sprintf("cfg-%d", f.nextID)
	f.configs = append(f.configs, cfg)
	return cfg, nil
}

func (f *fakeStore) UpdateConfig(_ context.Context, cfg Config) (Config, error) {
	for i, c := range f.configs {
		if c.OwnerID == cfg.OwnerID && c.ID == cfg.ID {
			f.configs[i] = cfg
			return cfg, nil
		}
	}
	return Config{}, ErrConfigNotFound
}

func (f *fakeStore) DeleteConfig(_ context.Context, ownerID, configID string) error {
	for i, c := range f.configs {
		if c.OwnerID == ownerID && c.ID == configID {
			f.configs = append(f.configs[:i], f.configs[i+1:]...)
			return nil
		}
	}
	return ErrConfigNotFound
}

func (f *fakeStore) ConfigHasResults(_ context.Context, configID string) (bool, error) {
	for _, r := range f.results {
		if r.ConfigID == configID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) InsertResult(_ context.Context, res Result) (Result, bool, error) {
	for _, existing := range f.results {
		if existing.ConfigID == res.ConfigID &&
			existing.PeriodStart.Equal(res.PeriodStart) &&
			existing.PeriodEnd.Equal(res.PeriodEnd) {
			return Result{}, false, nil
		}
	}
	f.nextID++
	res.ID = fmt.Sprintf("res-%d", f.nextID)
	f.results[res.ID] = res
	return res, true, nil
}

func (f *fakeStore) GetResult(_ context.Context, ownerID, resultID string) (Result, error) {
	res, ok := f.results[resultID]
	if !ok || res.OwnerID != ownerID {
		return Result{}, ErrResultNotFound
	}
	return res, nil
}

func (f *fakeStore) ListResults(_ context.Context, ownerID string, _ ResultFilter) ([]Result, error) {
	var out []Result
	for _, r := range f.results {
		if r.OwnerID == ownerID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeStore) TransitionResult(_ context.Context, ownerID, resultID string, to ResultStatus, appliedAt *time.Time) (Result, error) {
	res, ok := f.results[resultID]
	if !ok || res.OwnerID != ownerID {
		return Result{}, ErrResultNotFound
	}
	if res.Status != StatusCalculated {
		return Result{}, ErrResultFinal
	}
	res.Status = to
	res.AppliedAt = appliedAt
	f.results[resultID] = res
	return res, nil
}

type fakeWorkSource struct {
	entries []TimeEntry
	salary  decimal.Decimal
}

func (f *fakeWorkSource) EntriesInRange(_ context.Context, _, _ string, _, _ time.Time) ([]TimeEntry, error) {
	return f.entries, nil
}

func (f *fakeWorkSource) BaseSalary(_ context.Context, _, _ string) (decimal.Decimal, error) {
	return f.salary, nil
}

func activeConfig(id string) Config {
	return Config{
		ID:                id,
		OwnerID:           "owner-1",
		Name:              "attendance bonus",
		MetricType:        MetricAttendance,
		ThresholdValue:    90,
		ThresholdOperator: OpGreaterOrEqual,
		BonusType:         BonusFixedAmount,
		BonusValue:        decimal.NewFromInt(50),
		EvaluationPeriod:  EvaluationMonthly,
		IsActive:          true,
	}
}

func fullWeekSource() *fakeWorkSource {
	return &fakeWorkSource{
		entries: weekdayEntries(date(2024, 1, 1), 5, "08:30", 8, 0),
		salary:  decimal.NewFromInt(3000),
	}
}

func TestRunPersistsMetResults(t *testing.T) {
	store := newFakeStore(activeConfig("cfg-a"))
	source := fullWeekSource()
	svc := NewService(store, source, source)

	results, err := svc.Run(context.Background(), "owner-1", "contract-1", date(2024, 1, 1), date(2024, 1, 7))
	require.NoError(t, err)
	require.Len(t, results, 1)

	res := results[0]
	assert.Equal(t, StatusCalculated, res.Status)
	assert.True(t, res.CalculatedAmount.Equal(decimal.NewFromInt(50)))
	assert.True(t, res.AppliedAmount.Equal(res.CalculatedAmount))
	assert.Equal(t, float64(100), res.MetricValue)
}

func TestRunSharesMetricsAcrossConfigs(t *testing.T) {
	hoursConfig := activeConfig("cfg-hours")
	hoursConfig.MetricType = MetricHoursWorked
	hoursConfig.ThresholdValue = 40
	store := newFakeStore(activeConfig("cfg-a"), hoursConfig)
	source := fullWeekSource()
	svc := NewService(store, source, source)

	results, err := svc.Run(context.Background(), "owner-1", "contract-1", date(2024, 1, 1), date(2024, 1, 7))
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestRunDiscardsMisses(t *testing.T) {
	miss := activeConfig("cfg-miss")
	miss.ThresholdValue = 101
	store := newFakeStore(miss)
	source := fullWeekSource()
	svc := NewService(store, source, source)

	results, err := svc.Run(context.Background(), "owner-1", "contract-1", date(2024, 1, 1), date(2024, 1, 7))
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Empty(t, store.results, "misses must leave no stored record")
}

func TestRunNoActiveConfigs(t *testing.T) {
	inactive := activeConfig("cfg-off")
	inactive.IsActive = false
	store := newFakeStore(inactive)
	source := fullWeekSource()
	svc := NewService(store, source, source)

	results, err := svc.Run(context.Background(), "owner-1", "contract-1", date(2024, 1, 1), date(2024, 1, 7))
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestRunIsIdempotentPerPeriod(t *testing.T) {
	store := newFakeStore(activeConfig("cfg-a"))
	source := fullWeekSource()
	svc := NewService(store, source, source)

	first, err := svc.Run(context.Background(), "owner-1", "contract-1", date(2024, 1, 1), date(2024, 1, 7))
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := svc.Run(context.Background(), "owner-1", "contract-1", date(2024, 1, 1), date(2024, 1, 7))
	require.NoError(t, err)
	assert.Empty(t, second, "re-run of the same period must not create a second result")
	assert.Len(t, store.results, 1)
}

func TestRunValidatesInput(t *testing.T) {
	store := newFakeStore()
	source := fullWeekSource()
	svc := NewService(store, source, source)

	_, err := svc.Run(context.Background(), "", "contract-1", date(2024, 1, 1), date(2024, 1, 7))
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = svc.Run(context.Background(), "owner-1", "", date(2024, 1, 1), date(2024, 1, 7))
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = svc.Run(context.Background(), "owner-1", "contract-1", date(2024, 1, 7), date(2024, 1, 1))
	assert.ErrorIs(t, err, ErrInvalidPeriod)
}

func TestApplyStampsTimeAndRejectsSecondApply(t *testing.T) {
	store := newFakeStore(activeConfig("cfg-a"))
	source := fullWeekSource()
	svc := NewService(store, source, source)
	fixed := time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	results, err := svc.Run(context.Background(), "owner-1", "contract-1", date(2024, 1, 1), date(2024, 1, 7))
	require.NoError(t, err)
	require.Len(t, results, 1)

	applied, err := svc.Apply(context.Background(), "owner-1", results[0].ID)
	require.NoError(t, err)
	assert.Equal(t, StatusApplied, applied.Status)
	require.NotNil(t, applied.AppliedAt)
	assert.True(t, applied.AppliedAt.Equal(fixed))

	_, err = svc.Apply(context.Background(), "owner-1", results[0].ID)
	assert.ErrorIs(t, err, ErrResultFinal)
}

func TestCancelIsTerminal(t *testing.T) {
	store := newFakeStore(activeConfig("cfg-a"))
	source := fullWeekSource()
	svc := NewService(store, source, source)

	results, err := svc.Run(context.Background(), "owner-1", "contract-1", date(2024, 1, 1), date(2024, 1, 7))
	require.NoError(t, err)
	require.Len(t, results, 1)

	cancelled, err := svc.Cancel(context.Background(), "owner-1", results[0].ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, cancelled.Status)
	assert.Nil(t, cancelled.AppliedAt)

	_, err = svc.Apply(context.Background(), "owner-1", results[0].ID)
	assert.ErrorIs(t, err, ErrResultFinal)
}

func TestApplyUnknownResult(t *testing.T) {
	store := newFakeStore()
	source := fullWeekSource()
	svc := NewService(store, source, source)

	_, err := svc.Apply(context.Background(), "owner-1", "missing")
	assert.ErrorIs(t, err, ErrResultNotFound)
}

func TestCreateConfigValidation(t *testing.T) {
	store := newFakeStore()
	source := fullWeekSource()
	svc := NewService(store, source, source)

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing owner", func(c *Config) { c.OwnerID = "" }},
		{"missing name", func(c *Config) { c.Name = "" }},
		{"unknown metric", func(c *Config) { c.MetricType = "velocity" }},
		{"unknown operator", func(c *Config) { c.ThresholdOperator = "!=" }},
		{"unknown bonus type", func(c *Config) { c.BonusType = "stock_options" }},
		{"unknown period", func(c *Config) { c.EvaluationPeriod = "fortnightly" }},
		{"negative threshold", func(c *Config) { c.ThresholdValue = -1 }},
		{"negative bonus value", func(c *Config) { c.BonusValue = decimal.NewFromInt(-5) }},
		{"negative cap", func(c *Config) {
			c.MaxBonusAmount = decimal.NullDecimal{Decimal: decimal.NewFromInt(-1), Valid: true}
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := activeConfig("")
			tc.mutate(&cfg)
			_, err := svc.CreateConfig(context.Background(), cfg)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}

	_, err := svc.CreateConfig(context.Background(), activeConfig(""))
	assert.NoError(t, err)
}

func TestDeleteConfigInUse(t *testing.T) {
	store := newFakeStore(activeConfig("cfg-a"))
	source := fullWeekSource()
	svc := NewService(store, source, source)

	_, err := svc.Run(context.Background(), "owner-1", "contract-1", date(2024, 1, 1), date(2024, 1, 7))
	require.NoError(t, err)

	err = svc.DeleteConfig(context.Background(), "owner-1", "cfg-a")
	assert.ErrorIs(t, err, ErrConfigInUse)
}

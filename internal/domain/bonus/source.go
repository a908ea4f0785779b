package bonus

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"hearth/internal/domain/work"
)

// WorkSource adapts the work domain to the engine's TimeEntrySource and
// ContractSource interfaces.
type WorkSource struct {
	Work *work.Service
}

func NewWorkSource(w *work.Service) *WorkSource {
	return &WorkSource{Work: w}
}

func (ws *WorkSource) EntriesInRange(ctx context.Context, ownerID, contractID string, from, to time.Time) ([]TimeEntry, error) {
	entries, err := ws.Work.EntriesInRange(ctx, ownerID, contractID, from, to)
	if err != nil {
		return nil, err
	}
	out := make([]TimeEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, TimeEntry{
			Date:          e.EntryDate,
			StartTime:     e.StartTime,
			RegularHours:  e.RegularHours,
			OvertimeHours: e.OvertimeHours,
		})
	}
	return out, nil
}

func (ws *WorkSource) BaseSalary(ctx context.Context, ownerID, contractID string) (decimal.Decimal, error) {
	return ws.Work.BaseSalary(ctx, ownerID, contractID)
}

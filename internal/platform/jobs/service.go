package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"hearth/internal/domain/bonus"
	"hearth/internal/platform/config"
	"hearth/internal/platform/metrics"
)

const JobBonusRun = "bonus_run"

type Service struct {
	DB      *pgxpool.Pool
	Cfg     config.Config
	Bonus   *bonus.Service
	Metrics *metrics.Collector
	queue   chan job
}

type job struct {
	Type    string
	OwnerID string
	Run     func(context.Context) (any, error)
}

func New(db *pgxpool.Pool, cfg config.Config, bonusSvc *bonus.Service, collector *metrics.Collector) *Service {
	return &Service{
		DB:      db,
		Cfg:     cfg,
		Bonus:   bonusSvc,
		Metrics: collector,
		queue:   make(chan job, 128),
	}
}

func (s *Service) Start(ctx context.Context) {
	go s.worker(ctx)
	if s.Cfg.BonusRunInterval > 0 {
		go s.scheduleBonusRuns(ctx, s.Cfg.BonusRunInterval)
	}
}

func (s *Service) Enqueue(jobType, ownerID string, run func(context.Context) (any, error)) {
	select {
	case s.queue <- job{Type: jobType, OwnerID: ownerID, Run: run}:
	default:
		slog.Warn("job queue full", "jobType", jobType, "ownerId", ownerID)
	}
}

func (s *Service) RunNow(ctx context.Context, jobType, ownerID string, run func(context.Context) (any, error)) (any, error) {
	return s.runJob(ctx, job{Type: jobType, OwnerID: ownerID, Run: run})
}

func (s *Service) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-s.queue:
			if _, err := s.runJob(ctx, j); err != nil {
				slog.Warn("job run failed", "jobType", j.Type, "ownerId", j.OwnerID, "err", err)
			}
		}
	}
}

func (s *Service) runJob(ctx context.Context, j job) (any, error) {
	runID := ""
	if err := s.DB.QueryRow(ctx, `
    INSERT INTO job_runs (owner_id, job_type, status)
    VALUES ($1,$2,$3)
    RETURNING id
  `, j.OwnerID, j.Type, "running").Scan(&runID); err != nil {
		slog.Warn("job run insert failed", "err", err)
	}

	details, err := j.Run(ctx)
	status := "completed"
	if err != nil {
		status = "failed"
	}
	detailsJSON, marshalErr := json.Marshal(details)
	if marshalErr != nil {
		slog.Warn("job details marshal failed", "err", marshalErr)
		detailsJSON = []byte("{}")
	}
	if runID != "" {
		if _, updErr := s.DB.Exec(ctx, `
      UPDATE job_runs
      SET status = $1, details_json = $2, completed_at = now()
      WHERE id = $3
    `, status, detailsJSON, runID); updErr != nil {
			slog.Warn("job run update failed", "err", updErr)
		}
	}
	return details, err
}

// scheduleBonusRuns evaluates the previous calendar month for every owner and
// contract with active bonus configs. Re-runs are idempotent so overlapping
// ticks cannot double-pay.
func (s *Service) scheduleBonusRuns(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			targets, err := s.listRunTargets(ctx)
			if err != nil {
				slog.Warn("bonus scheduler target lookup failed", "err", err)
				continue
			}
			start, end := previousMonth(time.Now().UTC())
			for _, t := range targets {
				target := t
				s.Enqueue(JobBonusRun, target.OwnerID, func(ctx context.Context) (any, error) {
					results, err := s.Bonus.Run(ctx, target.OwnerID, target.ContractID, start, end)
					if err != nil {
						return nil, err
					}
					if s.Metrics != nil {
						s.Metrics.RecordBonusRun(len(results))
					}
					return map[string]any{
						"contractId":  target.ContractID,
						"periodStart": start,
						"periodEnd":   end,
						"results":     len(results),
					}, nil
				})
			}
		}
	}
}

type runTarget struct {
	OwnerID    string
	ContractID string
}

func (s *Service) listRunTargets(ctx context.Context) ([]runTarget, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT DISTINCT c.owner_id, c.id
    FROM contracts c
    WHERE c.is_active
      AND EXISTS (
        SELECT 1 FROM bonus_configs b
        WHERE b.owner_id = c.owner_id
          AND b.is_active
          AND (b.contract_id IS NULL OR b.contract_id = c.id)
      )
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []runTarget
	for rows.Next() {
		var t runTarget
		if err := rows.Scan(&t.OwnerID, &t.ContractID); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func previousMonth(now time.Time) (time.Time, time.Time) {
	firstOfThis := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	start := firstOfThis.AddDate(0, -1, 0)
	end := firstOfThis.AddDate(0, 0, -1)
	return start, end
}

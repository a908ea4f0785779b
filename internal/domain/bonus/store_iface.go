package bonus

import (
	"context"
	"time"
)

type StoreAPI interface {
	ListConfigs(ctx context.Context, ownerID, contractID string) ([]Config, error)
	ActiveConfigs(ctx context.Context, ownerID, contractID string) ([]Config, error)
	GetConfig(ctx context.Context, ownerID, configID string) (Config, error)
	CreateConfig(ctx context.Context, cfg Config) (Config, error)
	UpdateConfig(ctx context.Context, cfg Config) (Config, error)
	DeleteConfig(ctx context.Context, ownerID, configID string) error
	ConfigHasResults(ctx context.Context, configID string) (bool, error)

	// InsertResult persists a calculated result. The bool is false when a
	// result for the same (config, period) already exists and nothing was
	// written.
	InsertResult(ctx context.Context, res Result) (Result, bool, error)
	GetResult(ctx context.Context, ownerID, resultID string) (Result, error)
	ListResults(ctx context.Context, ownerID string, filter ResultFilter) ([]Result, error)

	// TransitionResult moves a result from calculated to the given terminal
	// status. It returns ErrResultFinal when the result already left the
	// calculated state and ErrResultNotFound when the id is unknown.
	TransitionResult(ctx context.Context, ownerID, resultID string, to ResultStatus, appliedAt *time.Time) (Result, error)
}

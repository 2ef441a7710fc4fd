package api

import (
	"context"

	"github.com/devops-noc/jira-report-app/internal/schedules"
)

type Server interface {
	Serve(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

type scheduleStore interface {
	Insert(ctx context.Context, s schedules.Schedule) error
	List(ctx context.Context) ([]schedules.Schedule, error)
	SetEnabled(ctx context.Context, id string, enabled bool) error
}

// reloader re-registers scheduler triggers after a schedule mutation.
type reloader interface {
	Reload(ctx context.Context) error
}

package scheduler

import (
	"context"

	"github.com/devops-noc/jira-report-app/internal/schedules"
)

// Runner executes one scheduled report run.
type Runner interface {
	Run(ctx context.Context, s schedules.Schedule)
}

type scheduleSource interface {
	ListEnabled(ctx context.Context) ([]schedules.Schedule, error)
}

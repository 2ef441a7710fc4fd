package jobs

import (
	"context"
	"time"

	"github.com/devops-noc/jira-report-app/internal/reports"
	"github.com/devops-noc/jira-report-app/pkg/errors"
)

type Status string

const (
	StatusStarting  Status = "starting"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// Progress mirrors what the job-status endpoint returns.
type Progress struct {
	Status    Status `json:"status"`
	Completed int    `json:"completed"`
	Total     int    `json:"total"`
	Error     string `json:"error,omitempty"`
}

// Entry is one job-history record.
type Entry struct {
	JobID      string  `json:"job_id"`
	ReportType string  `json:"report_type"`
	ReportName string  `json:"report_name"`
	Status     Status  `json:"status"`
	StartTime  string  `json:"start_time"`
	EndTime    *string `json:"end_time"`
	Rows       int     `json:"rows"`
	Error      *string `json:"error"`
	Filename   string  `json:"filename"`
}

type Manager interface {
	// Start launches report generation in the background and
	// returns the job id.
	Start(key string, params reports.Params) (id string, err error)

	Status(id string) Progress

	Cancel(id string) error

	// Download resolves the spool path and the user-facing file
	// name of a finished job's CSV.
	Download(id string) (path string, filename string, err error)

	// History returns job records, latest first.
	History() []Entry

	// Run drives spool retention until ctx is done.
	Run(ctx context.Context) error
}

var (
	ErrUnknownReport = errors.Error("unknown report type")
	ErrNotRunning    = errors.Error("job is not running")
	ErrNotReady      = errors.Error("report file is not ready")
)

type Config struct {
	SpoolDir  string        `yaml:"spool_dir"`
	Retention time.Duration `yaml:"retention"`
}

package jobs

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/devops-noc/jira-report-app/internal/reports"
	"github.com/devops-noc/jira-report-app/pkg/errors"
	"github.com/devops-noc/jira-report-app/pkg/logger"
)

const (
	defaultRetention = 24 * time.Hour
	cleanupInterval  = time.Hour

	fallbackFilename = "jira-report.csv"
)

func NewManager(ctx context.Context, cfg Config, gen reports.Generator, log logger.Logger) (Manager, error) {
	if cfg.SpoolDir == "" {
		cfg.SpoolDir = os.TempDir()
	}
	if cfg.Retention <= 0 {
		cfg.Retention = defaultRetention
	}

	err := os.MkdirAll(cfg.SpoolDir, 0o755)
	if err != nil {
		return nil, errors.WrapFail(err, "create spool dir")
	}

	return &manager{
		ctx:  ctx,
		cfg:  cfg,
		gen:  gen,
		log:  log.With("job_manager"),
		jobs: make(map[string]*job),
	}, nil
}

type job struct {
	entry    *Entry
	progress Progress
	cancel   context.CancelFunc
}

type manager struct {
	ctx context.Context
	cfg Config
	gen reports.Generator
	log logger.Logger

	mu    sync.RWMutex
	jobs  map[string]*job
	order []string
}

func (m *manager) Start(key string, params reports.Params) (string, error) {
	spec, ok := reports.Lookup(key)
	if !ok {
		return "", ErrUnknownReport
	}

	err := params.Validate()
	if err != nil {
		return "", err
	}

	m.cleanupSpool()

	id := uuid.NewString()
	path := m.spoolPath(id)

	out, err := os.Create(path)
	if err != nil {
		return "", errors.WrapFail(err, "create spool file")
	}

	jobCtx, cancel := context.WithCancel(m.ctx)

	j := &job{
		entry: &Entry{
			JobID:      id,
			ReportType: key,
			ReportName: spec.FileName,
			Status:     StatusStarting,
			StartTime:  nowIST(),
			Filename:   spec.FileName,
		},
		progress: Progress{Status: StatusStarting},
		cancel:   cancel,
	}

	m.mu.Lock()
	m.jobs[id] = j
	m.order = append(m.order, id)
	m.mu.Unlock()

	go m.run(jobCtx, j, spec, params, out)

	m.log.Infof("started job %s for report %s", id, key)
	return id, nil
}

func (m *manager) run(ctx context.Context, j *job, spec reports.Spec, params reports.Params, out *os.File) {
	defer j.cancel()

	total, err := m.gen.Generate(ctx, spec, params, out, func(completed, total int) {
		m.mu.Lock()
		j.progress.Status = StatusRunning
		j.progress.Completed = completed
		j.progress.Total = total
		j.entry.Status = StatusRunning
		j.entry.Rows = completed
		m.mu.Unlock()
	})

	closeErr := out.Close()
	if closeErr != nil {
		m.log.Warn(errors.WrapFail(closeErr, "close spool file"))
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Cancel may have already finalized the entry.
	if j.progress.Status == StatusCancelled {
		m.discardSpool(j.entry.JobID)
		return
	}

	end := nowIST()
	j.entry.EndTime = &end

	switch {
	case errors.Is(err, context.Canceled):
		m.finalize(j, StatusCancelled, "Cancelled by user")
		m.discardSpool(j.entry.JobID)
	case err != nil:
		m.finalize(j, StatusFailed, err.Error())
		m.discardSpool(j.entry.JobID)
		m.log.Error(errors.WrapFailf(err, "generate report %s", spec.Key))
	default:
		j.progress.Status = StatusCompleted
		j.progress.Completed = total
		j.progress.Total = total
		j.entry.Status = StatusCompleted
		j.entry.Rows = total
	}
}

func (m *manager) finalize(j *job, status Status, errMsg string) {
	j.progress.Status = status
	j.entry.Status = status
	if errMsg != "" {
		j.progress.Error = errMsg
		j.entry.Error = &errMsg
	}
}

func (m *manager) Status(id string) Progress {
	m.mu.RLock()
	defer m.mu.RUnlock()

	j, ok := m.jobs[id]
	if !ok {
		return Progress{Status: StatusStarting}
	}

	return j.progress
}

func (m *manager) Cancel(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	j, ok := m.jobs[id]
	if !ok {
		return ErrNotRunning
	}

	switch j.progress.Status {
	case StatusStarting, StatusRunning:
	default:
		return ErrNotRunning
	}

	j.cancel()

	end := nowIST()
	j.entry.EndTime = &end
	m.finalize(j, StatusCancelled, "Cancelled by user")
	j.progress.Completed = 0
	j.progress.Total = 0

	m.log.Infof("cancelled job %s", id)
	return nil
}

// Download serves only finished jobs. The spool file exists from the
// moment the job starts and fills up page by page, so the tracked
// status decides readiness, not the file.
func (m *manager) Download(id string) (string, string, error) {
	path := m.spoolPath(id)
	filename := fallbackFilename

	m.mu.RLock()
	j, tracked := m.jobs[id]
	if tracked {
		if j.progress.Status != StatusCompleted {
			m.mu.RUnlock()
			return "", "", ErrNotReady
		}
		filename = j.entry.Filename
	}
	m.mu.RUnlock()

	// Untracked ids may still map to a spool file left over from a
	// previous run; serve those under the fallback name.
	if _, err := os.Stat(path); err != nil {
		return "", "", ErrNotReady
	}

	return path, filename, nil
}

func (m *manager) History() []Entry {
	m.mu.RLock()
	defer m.mu.RUnlock()

	history := make([]Entry, 0, len(m.order))
	for _, id := range m.order {
		history = append(history, *m.jobs[id].entry)
	}

	slices.Reverse(history)
	return history
}

// discardSpool drops the partial CSV of a job that did not complete.
func (m *manager) discardSpool(id string) {
	err := os.Remove(m.spoolPath(id))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		m.log.Warn(errors.WrapFail(err, "remove partial spool file"))
	}
}

func (m *manager) spoolPath(id string) string {
	return filepath.Join(m.cfg.SpoolDir, id+".csv")
}

func nowIST() string {
	return time.Now().In(reports.Location).Format(time.RFC3339)
}

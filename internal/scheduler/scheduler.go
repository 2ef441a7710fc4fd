package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/devops-noc/jira-report-app/internal/reports"
	"github.com/devops-noc/jira-report-app/internal/schedules"
	"github.com/devops-noc/jira-report-app/pkg/errors"
	"github.com/devops-noc/jira-report-app/pkg/logger"
	"github.com/devops-noc/jira-report-app/pkg/tools/await"
)

// Scheduler keeps the cron registry in sync with the enabled
// schedules and fires the runner on trigger.
type Scheduler struct {
	cron   *cron.Cron
	source scheduleSource
	runner Runner
	log    logger.Logger

	ctx context.Context

	mu          sync.Mutex
	onceCancels []context.CancelFunc
}

func New(ctx context.Context, source scheduleSource, runner Runner, log logger.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(cron.WithLocation(reports.Location)),
		source: source,
		runner: runner,
		log:    log.With("scheduler"),
		ctx:    ctx,
	}
}

// Start begins trigger processing and registers the enabled
// schedules.
func (s *Scheduler) Start() error {
	s.cron.Start()
	return s.Reload(s.ctx)
}

func (s *Scheduler) Stop() {
	s.dropAll()
	<-s.cron.Stop().Done()
}

// Reload drops every registered trigger and re-registers all
// currently enabled schedules. Called on startup and after every
// schedule mutation.
func (s *Scheduler) Reload(ctx context.Context) error {
	s.dropAll()

	enabled, err := s.source.ListEnabled(ctx)
	if err != nil {
		return errors.WrapFail(err, "list enabled schedules")
	}

	for _, sched := range enabled {
		if err := s.register(sched); err != nil {
			s.log.Error(errors.WrapFailf(err, "register schedule %s", sched.ID))
			continue
		}

		s.log.Infof("loaded %s schedule %s at %s IST", sched.ScheduleType, sched.ID, sched.RunTime)
	}

	return nil
}

func (s *Scheduler) register(sched schedules.Schedule) error {
	t, err := buildTrigger(sched)
	if err != nil {
		return err
	}

	if t.isOnce() {
		if time.Now().After(t.onceAt) {
			s.log.Infof("skipping one-shot schedule %s: run time already passed", sched.ID)
			return nil
		}
		s.registerOnce(sched, t)
		return nil
	}

	_, err = s.cron.AddFunc(t.cronSpec, func() {
		s.runner.Run(s.ctx, sched)
	})

	return errors.WrapFail(err, "add cron entry")
}

func (s *Scheduler) registerOnce(sched schedules.Schedule, t trigger) {
	onceCtx, cancel := context.WithCancel(s.ctx)

	s.mu.Lock()
	s.onceCancels = append(s.onceCancels, cancel)
	s.mu.Unlock()

	go func() {
		defer cancel()
		if await.Until(t.onceAt, 0).Await(onceCtx) {
			s.runner.Run(s.ctx, sched)
		}
	}()
}

func (s *Scheduler) dropAll() {
	for _, entry := range s.cron.Entries() {
		s.cron.Remove(entry.ID)
	}

	s.mu.Lock()
	cancels := s.onceCancels
	s.onceCancels = nil
	s.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}
}

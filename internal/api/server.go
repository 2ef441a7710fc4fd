package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/devops-noc/jira-report-app/internal/jobs"
	"github.com/devops-noc/jira-report-app/internal/reports"
	"github.com/devops-noc/jira-report-app/internal/schedules"
	"github.com/devops-noc/jira-report-app/pkg/errors"
	"github.com/devops-noc/jira-report-app/pkg/logger"
)

func NewServer(
	cfg Config,
	log logger.Logger,
	manager jobs.Manager,
	store scheduleStore,
	sched reloader,
) Server {
	serveLog := log.With("api_http_server")

	fiberCfg := fiber.Config{
		ReadTimeout:             cfg.HTTP.ReadTimeout,
		WriteTimeout:            cfg.HTTP.WriteTimeout,
		IdleTimeout:             cfg.HTTP.IdleTimeout,
		DisableStartupMessage:   true,
		EnableTrustedProxyCheck: true,
		ProxyHeader:             cfg.Proxy.Header,
		TrustedProxies:          cfg.Proxy.Trusted,
		RequestMethods:          []string{fiber.MethodGet, fiber.MethodPost, fiber.MethodHead},
	}

	fiberCfg.ErrorHandler = func(c *fiber.Ctx, err error) error {
		serveLog.Warn(errors.WrapFail(err, "handle http request"))
		return c.Status(http.StatusInternalServerError).Send(nil)
	}

	s := &server{
		manager: manager,
		store:   store,
		sched:   sched,
		http:    fiber.New(fiberCfg),
		addr:    cfg.HTTP.Addr,
		log:     serveLog,
	}

	s.setupRoutes()

	return s
}

type server struct {
	manager jobs.Manager
	store   scheduleStore
	sched   reloader
	http    *fiber.App
	addr    string
	log     logger.Logger
}

func (s *server) Serve(ctx context.Context) error {
	errCh := make(chan error)
	go func() { errCh <- s.http.Listen(s.addr) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return errors.Error("serve context done")
	}
}

func (s *server) Shutdown(ctx context.Context) error {
	return errors.WrapFail(s.http.ShutdownWithContext(ctx), "shutdown http server")
}

func (s *server) setupRoutes() {
	s.http.Get("/", s.handleIndex)

	s.http.Post("/start-job", s.handleStartJob)
	s.http.Get("/job-status/:job_id", s.handleJobStatus)
	s.http.Get("/download/:job_id", s.handleDownload)
	s.http.Post("/cancel-job/:job_id", s.handleCancelJob)
	s.http.Get("/job-history", s.handleJobHistory)

	s.http.Post("/schedule-job", s.handleCreateSchedule)
	s.http.Get("/schedules", s.handleListSchedules)
	s.http.Post("/schedule/:schedule_id/toggle", s.handleToggleSchedule)
}

func (s *server) handleIndex(c *fiber.Ctx) error {
	type reportInfo struct {
		Key      string `json:"key"`
		Name     string `json:"name"`
		Filename string `json:"filename"`
	}

	available := make([]reportInfo, 0, len(reports.Keys()))
	for _, key := range reports.Keys() {
		spec, _ := reports.Lookup(key)
		available = append(available, reportInfo{
			Key:      spec.Key,
			Name:     spec.DisplayName,
			Filename: spec.FileName,
		})
	}

	return c.JSON(fiber.Map{
		"service": "jira-report-app",
		"reports": available,
	})
}

func (s *server) handleStartJob(c *fiber.Ctx) error {
	params := reports.Params{
		StartDate: c.FormValue("start_date"),
		EndDate:   c.FormValue("end_date"),
		Statuses:  formValues(c, "statuses"),
		TillNow:   parseBool(c.FormValue("till_now")),
	}

	id, err := s.manager.Start(c.FormValue("report_type"), params)
	if err != nil {
		s.log.Warn(errors.WrapFail(err, "start job"))
		return s.sendError(c, http.StatusBadRequest, err.Error())
	}

	return c.JSON(fiber.Map{"job_id": id})
}

func (s *server) handleJobStatus(c *fiber.Ctx) error {
	return c.JSON(s.manager.Status(c.Params("job_id")))
}

func (s *server) handleDownload(c *fiber.Ctx) error {
	path, filename, err := s.manager.Download(c.Params("job_id"))
	if err != nil {
		return s.sendError(c, http.StatusNotFound, "File not ready")
	}

	return c.Download(path, filename)
}

func (s *server) handleCancelJob(c *fiber.Ctx) error {
	err := s.manager.Cancel(c.Params("job_id"))
	if err != nil {
		return s.sendError(c, http.StatusNotFound, "Job not running")
	}

	return c.JSON(fiber.Map{"status": "cancelled"})
}

func (s *server) handleJobHistory(c *fiber.Ctx) error {
	return c.JSON(s.manager.History())
}

func (s *server) handleCreateSchedule(c *fiber.Ctx) error {
	rangeDays, err := strconv.Atoi(c.FormValue("range_days", "0"))
	if err != nil {
		s.log.Warn(errors.WrapFail(err, "parse range_days"))
		return s.sendError(c, http.StatusBadRequest, "bad range_days")
	}

	sched := schedules.Schedule{
		ID:            uuid.NewString(),
		ReportType:    c.FormValue("report_type"),
		Statuses:      c.FormValue("statuses"),
		StartDate:     c.FormValue("start_date"),
		EndDate:       c.FormValue("end_date"),
		TillNow:       parseBool(c.FormValue("till_now")),
		RangeDays:     rangeDays,
		ScheduleType:  c.FormValue("schedule_type"),
		ScheduleValue: c.FormValue("schedule_value"),
		RunTime:       c.FormValue("run_time"),
		EmailTo:       c.FormValue("email_to"),
		Enabled:       true,
	}

	if err := validateSchedule(sched); err != nil {
		s.log.Warn(errors.WrapFail(err, "validate schedule request"))
		return s.sendError(c, http.StatusBadRequest, err.Error())
	}

	if err := s.store.Insert(c.Context(), sched); err != nil {
		return errors.WrapFail(err, "insert schedule")
	}

	if err := s.sched.Reload(c.Context()); err != nil {
		return errors.WrapFail(err, "reload scheduler")
	}

	return c.JSON(fiber.Map{"status": "ok", "schedule_id": sched.ID})
}

func validateSchedule(s schedules.Schedule) error {
	if _, ok := reports.Lookup(s.ReportType); !ok {
		return errors.Errorf("unknown report type %q", s.ReportType)
	}

	for name, value := range map[string]string{
		"start_date":    s.StartDate,
		"end_date":      s.EndDate,
		"schedule_type": s.ScheduleType,
		"run_time":      s.RunTime,
		"email_to":      s.EmailTo,
	} {
		if value == "" {
			return errors.Errorf("missing required parameter %q", name)
		}
	}

	return nil
}

func (s *server) handleListSchedules(c *fiber.Ctx) error {
	stored, err := s.store.List(c.Context())
	if err != nil {
		return errors.WrapFail(err, "list schedules")
	}

	type scheduleInfo struct {
		ID         string `json:"id"`
		ReportType string `json:"report_type"`
		Statuses   string `json:"statuses"`
		StartDate  string `json:"start_date"`
		EndDate    string `json:"end_date"`
		TillNow    bool   `json:"till_now"`
		Enabled    bool   `json:"enabled"`
	}

	listed := make([]scheduleInfo, 0, len(stored))
	for _, sched := range stored {
		listed = append(listed, scheduleInfo{
			ID:         sched.ID,
			ReportType: sched.ReportType,
			Statuses:   sched.Statuses,
			StartDate:  sched.StartDate,
			EndDate:    sched.EndDate,
			TillNow:    sched.TillNow,
			Enabled:    sched.Enabled,
		})
	}

	return c.JSON(listed)
}

func (s *server) handleToggleSchedule(c *fiber.Ctx) error {
	id := c.Params("schedule_id")
	enabled := parseBool(c.FormValue("enabled"))

	err := s.store.SetEnabled(c.Context(), id, enabled)
	if err != nil {
		s.log.Warn(errors.WrapFail(err, "toggle schedule"))
		return s.sendError(c, http.StatusNotFound, "schedule not found")
	}

	if err := s.sched.Reload(c.Context()); err != nil {
		return errors.WrapFail(err, "reload scheduler")
	}

	return c.JSON(fiber.Map{"status": "ok"})
}

func (s *server) sendError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"status": "ERROR", "message": msg})
}

func formValues(c *fiber.Ctx, key string) []string {
	var values []string
	for _, v := range c.Request().PostArgs().PeekMulti(key) {
		if s := strings.TrimSpace(string(v)); s != "" {
			values = append(values, s)
		}
	}
	return values
}

func parseBool(raw string) bool {
	switch strings.ToLower(raw) {
	case "true", "1", "on", "yes":
		return true
	default:
		return false
	}
}

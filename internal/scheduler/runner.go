package scheduler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/devops-noc/jira-report-app/internal/mailer"
	"github.com/devops-noc/jira-report-app/internal/reports"
	"github.com/devops-noc/jira-report-app/internal/schedules"
	"github.com/devops-noc/jira-report-app/pkg/errors"
	"github.com/devops-noc/jira-report-app/pkg/logger"
)

func NewRunner(spoolDir string, gen reports.Generator, mail mailer.Mailer, log logger.Logger) Runner {
	return &reportRunner{
		spoolDir: spoolDir,
		gen:      gen,
		mail:     mail,
		log:      log.With("schedule_runner"),
		now:      time.Now,
	}
}

type reportRunner struct {
	spoolDir string
	gen      reports.Generator
	mail     mailer.Mailer
	log      logger.Logger
	now      func() time.Time
}

func (r *reportRunner) Run(ctx context.Context, s schedules.Schedule) {
	jobID := uuid.NewString()
	r.log.Infof("running schedule %s job %s report %s", s.ID, jobID, s.ReportType)

	spec, ok := reports.Lookup(s.ReportType)
	if !ok {
		r.log.Errorf("schedule %s references unknown report type %q", s.ID, s.ReportType)
		return
	}

	params := resolveWindow(s, r.now().In(reports.Location))

	outPath := filepath.Join(r.spoolDir, jobID+".csv")

	total, err := r.generate(ctx, spec, params, outPath)
	if err != nil {
		r.log.Error(errors.WrapFailf(err, "run schedule %s", s.ID))
		return
	}

	if s.EmailTo != "" {
		r.sendMail(ctx, spec, params, s.EmailTo, outPath)
	}

	r.log.Infof("completed schedule %s job %s rows %d output %s", s.ID, jobID, total, outPath)
}

// resolveWindow applies the rolling window mode: with RangeDays set
// the run covers the last N completed days, otherwise the stored
// absolute range is used as-is.
func resolveWindow(s schedules.Schedule, now time.Time) reports.Params {
	params := reports.Params{
		StartDate: s.StartDate,
		EndDate:   s.EndDate,
		TillNow:   s.TillNow,
		Statuses:  splitStatuses(s.Statuses),
	}

	if s.RangeDays > 0 {
		params.StartDate = now.AddDate(0, 0, -s.RangeDays).Format("2006-01-02")
		params.EndDate = now.AddDate(0, 0, -1).Format("2006-01-02")
		params.TillNow = false
	}

	return params
}

func splitStatuses(raw string) []string {
	if raw == "" {
		return nil
	}

	var statuses []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			statuses = append(statuses, s)
		}
	}
	return statuses
}

func (r *reportRunner) generate(ctx context.Context, spec reports.Spec, params reports.Params, outPath string) (int, error) {
	out, err := os.Create(outPath)
	if err != nil {
		return 0, errors.WrapFail(err, "create output file")
	}

	total, err := r.gen.Generate(ctx, spec, params, out, func(completed, total int) {})

	closeErr := out.Close()
	if err == nil {
		err = errors.WrapFail(closeErr, "close output file")
	}

	return total, err
}

func (r *reportRunner) sendMail(ctx context.Context, spec reports.Spec, params reports.Params, to, outPath string) {
	safeName := strings.ReplaceAll(spec.DisplayName, " ", "_")
	attachment := fmt.Sprintf("%s_%s_to_%s.csv", safeName, params.StartDate, params.EndDate)

	body := fmt.Sprintf(
		"Hello,\n\n"+
			"Please find the attached Jira report.\n\n"+
			"Report: %s\n"+
			"Date range: %s to %s\n\n"+
			"Regards,\nDevOps NOC - Jira Report Scheduler",
		spec.DisplayName, params.StartDate, params.EndDate,
	)

	err := r.mail.Send(ctx, mailer.Message{
		To:             to,
		Subject:        "Scheduled Jira Report: " + spec.DisplayName,
		Body:           body,
		AttachmentPath: outPath,
		AttachmentName: attachment,
	})
	if err != nil {
		r.log.Error(errors.WrapFailf(err, "email report to %s", to))
		return
	}
}

package main

import (
	"context"
	stdlog "log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/devops-noc/jira-report-app/internal/api"
	"github.com/devops-noc/jira-report-app/internal/jira"
	"github.com/devops-noc/jira-report-app/internal/jobs"
	"github.com/devops-noc/jira-report-app/internal/mailer"
	"github.com/devops-noc/jira-report-app/internal/reports"
	"github.com/devops-noc/jira-report-app/internal/scheduler"
	"github.com/devops-noc/jira-report-app/internal/schedules"
	"github.com/devops-noc/jira-report-app/pkg/errors"
	"github.com/devops-noc/jira-report-app/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := loadConfig()
	if err != nil {
		stdlog.Panic(errors.WrapFail(err, "load config"))
	}

	log, err := logger.New(cfg.Environment)
	if err != nil {
		stdlog.Panic(errors.WrapFail(err, "init logger"))
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	jiraCfg, err := jira.LoadConfig()
	if err != nil {
		log.Panic(errors.WrapFail(err, "load jira credentials"))
	}

	smtpCfg, err := mailer.LoadConfig()
	if err != nil {
		log.Panic(errors.WrapFail(err, "load smtp settings"))
	}

	clients := map[reports.Source]jira.Searcher{
		reports.SourcePrimary: jira.NewClient(jiraCfg.URL, jira.BasicAuth(jiraCfg.Username, jiraCfg.Password), log),
	}
	if jiraCfg.JSMURL != "" {
		clients[reports.SourceJSM] = jira.NewClient(jiraCfg.JSMURL, jira.TokenAuth(jiraCfg.JSMPAT), log)
	}

	gen := reports.NewGenerator(clients, log)

	manager, err := jobs.NewManager(ctx, cfg.Jobs, gen, log)
	if err != nil {
		log.Panic(errors.WrapFail(err, "init job manager"))
	}

	repo, err := schedules.New(ctx, cfg.Database.Path, log)
	if err != nil {
		log.Panic(errors.WrapFail(err, "init schedules repo"))
	}

	runner := scheduler.NewRunner(cfg.Jobs.SpoolDir, gen, mailer.New(smtpCfg, log), log)

	sched := scheduler.New(ctx, repo, runner, log)
	err = sched.Start()
	if err != nil {
		log.Panic(errors.WrapFail(err, "start scheduler"))
	}

	go func() { _ = manager.Run(ctx) }()

	server := api.NewServer(cfg.API, log, manager, repo, sched)

	stopped := make(chan struct{})
	context.AfterFunc(ctx, func() {
		stdlog.Println("Graceful shutdown...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error(err)
		}

		sched.Stop()

		if err := repo.Close(); err != nil {
			log.Error(err)
		}

		close(stopped)
	})

	log.Infof("serving on %s", cfg.API.HTTP.Addr)

	err = server.Serve(ctx)
	if ctx.Err() == nil {
		log.Panic(err)
	}

	<-stopped
	stdlog.Println("Shutdown complete")
}

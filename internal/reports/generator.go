package reports

import (
	"context"
	"io"
	"time"

	"github.com/devops-noc/jira-report-app/internal/jira"
	"github.com/devops-noc/jira-report-app/pkg/errors"
	"github.com/devops-noc/jira-report-app/pkg/logger"
)

const pageSize = 500

// ProgressFunc receives pagination progress after every fetched page.
type ProgressFunc func(completed, total int)

type Generator interface {
	Generate(ctx context.Context, spec Spec, params Params, out io.Writer, progress ProgressFunc) (total int, err error)
}

func NewGenerator(clients map[Source]jira.Searcher, log logger.Logger) Generator {
	return &generator{
		clients: clients,
		log:     log.With("report_generator"),
		now:     time.Now,
	}
}

type generator struct {
	clients map[Source]jira.Searcher
	log     logger.Logger
	now     func() time.Time
}

func (g *generator) Generate(
	ctx context.Context,
	spec Spec,
	params Params,
	out io.Writer,
	progress ProgressFunc,
) (int, error) {
	client, ok := g.clients[spec.Source]
	if !ok {
		return 0, errors.Errorf("no jira client configured for report %q", spec.Key)
	}

	jql := BuildJQL(spec, params, g.now())
	g.log.Infof("report %s: executing JQL: %s", spec.Key, jql)

	w, err := newReportWriter(out, spec)
	if err != nil {
		return 0, err
	}

	fields := spec.Fields()

	var (
		startAt int
		total   = -1
	)

	for {
		if err := ctx.Err(); err != nil {
			return startAt, err
		}

		page, err := client.Search(ctx, jira.SearchRequest{
			JQL:        jql,
			StartAt:    startAt,
			MaxResults: pageSize,
			Fields:     fields,
		})
		if err != nil {
			return startAt, errors.WrapFail(err, "fetch search page")
		}

		if total < 0 {
			total = page.Total
			progress(0, total)
		}

		if len(page.Issues) == 0 {
			break
		}

		for _, issue := range page.Issues {
			if err := w.WriteIssue(issue); err != nil {
				return startAt, err
			}
		}

		startAt += len(page.Issues)
		progress(startAt, total)
	}

	if err := w.Flush(); err != nil {
		return startAt, err
	}

	g.log.Infof("report %s: exported %d issues", spec.Key, total)
	return total, nil
}

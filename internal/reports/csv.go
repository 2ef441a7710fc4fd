package reports

import (
	"encoding/csv"
	"io"

	"github.com/devops-noc/jira-report-app/internal/jira"
	"github.com/devops-noc/jira-report-app/pkg/errors"
)

// utf8BOM makes Excel open the file as UTF-8.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func newReportWriter(out io.Writer, spec Spec) (*reportWriter, error) {
	if _, err := out.Write(utf8BOM); err != nil {
		return nil, errors.WrapFail(err, "write BOM")
	}

	w := csv.NewWriter(out)
	if err := w.Write(spec.Headers()); err != nil {
		return nil, errors.WrapFail(err, "write header row")
	}

	return &reportWriter{csv: w, spec: spec}, nil
}

type reportWriter struct {
	csv  *csv.Writer
	spec Spec
}

func (w *reportWriter) WriteIssue(issue jira.Issue) error {
	row := make([]string, len(w.spec.Columns))
	for i, col := range w.spec.Columns {
		row[i] = col.render(issue, Location)
	}
	return errors.WrapFail(w.csv.Write(row), "write issue row")
}

func (w *reportWriter) Flush() error {
	w.csv.Flush()
	return errors.WrapFail(w.csv.Error(), "flush csv")
}

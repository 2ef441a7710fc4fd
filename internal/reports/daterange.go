package reports

import (
	"fmt"
	"strings"
	"time"

	"github.com/devops-noc/jira-report-app/pkg/errors"
)

// Location is the reporting timezone. All date parameters and
// rendered timestamps are IST wall clock.
var Location = mustLoadLocation("Asia/Kolkata")

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

// Params are the user-supplied report parameters.
type Params struct {
	StartDate string // YYYY-MM-DD
	EndDate   string // YYYY-MM-DD, optional when TillNow
	Statuses  []string
	TillNow   bool
}

func (p Params) Validate() error {
	if _, err := time.Parse(dateLayout, p.StartDate); err != nil {
		return errors.Errorf("bad start date %q", p.StartDate)
	}

	if !p.TillNow && p.EndDate == "" {
		return errors.Error("end date is required unless till-now is set")
	}

	if p.EndDate != "" {
		if _, err := time.Parse(dateLayout, p.EndDate); err != nil {
			return errors.Errorf("bad end date %q", p.EndDate)
		}
	}

	return nil
}

const jqlMinuteLayout = "2006-01-02 15:04"

// istRange builds JQL-ready IST wall-clock bounds: the start date
// begins at 00:00 and an explicit end date means the full day.
func istRange(p Params, now time.Time) (start, end string) {
	start = p.StartDate + " 00:00"

	if p.TillNow {
		end = now.In(Location).Format(jqlMinuteLayout)
	} else {
		end = p.EndDate + " 23:59"
	}

	return start, end
}

// utcRange builds the same bounds converted to UTC, for instances
// whose JQL evaluates created in server (UTC) time. An end date
// equal to the current IST date is promoted to "till now".
func utcRange(p Params, now time.Time) (start, end string) {
	nowIST := now.In(Location)

	startIST, _ := time.ParseInLocation(dateLayout, p.StartDate, Location)
	start = startIST.UTC().Format(jqlMinuteLayout)

	var endIST time.Time
	switch {
	case p.TillNow:
		endIST = nowIST
	case p.EndDate == nowIST.Format(dateLayout):
		endIST = nowIST
	default:
		d, _ := time.ParseInLocation(dateLayout, p.EndDate, Location)
		endIST = d.Add(24*time.Hour - time.Second)
	}

	end = endIST.UTC().Format(jqlMinuteLayout)
	return start, end
}

// BuildJQL renders the full search query for a report run.
func BuildJQL(spec Spec, p Params, now time.Time) string {
	var start, end string
	if spec.UTCRange {
		start, end = utcRange(p, now)
	} else {
		start, end = istRange(p, now)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s AND created >= %q AND created <= %q", spec.Filter, start, end)

	if clause := statusClause(p.Statuses); clause != "" {
		b.WriteString(" ")
		b.WriteString(clause)
	}

	b.WriteString(" ORDER BY created DESC")
	return b.String()
}

func statusClause(statuses []string) string {
	quoted := make([]string, 0, len(statuses))
	for _, s := range statuses {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		quoted = append(quoted, fmt.Sprintf("%q", s))
	}

	if len(quoted) == 0 {
		return ""
	}

	return fmt.Sprintf("AND status IN (%s)", strings.Join(quoted, ","))
}

package reports

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/devops-noc/jira-report-app/internal/jira"
)

// Kind selects how a Jira field value is rendered into a CSV cell.
type Kind int

const (
	// KindIssueKey renders the issue key itself.
	KindIssueKey Kind = iota

	// KindProjectKey renders fields.project.key.
	KindProjectKey

	// KindValue flattens option/user/array values: objects render
	// their displayName, name or value, arrays join items with ", ".
	KindValue

	// KindRaw renders the field as-is (free text, numbers).
	KindRaw

	// KindDatetime renders a Jira timestamp as IST wall clock.
	KindDatetime

	// KindDateOnly renders a YYYY-MM-DD field, dropping anything
	// that does not parse as a plain date.
	KindDateOnly

	// KindSeconds renders a seconds counter (aggregatetimespent).
	KindSeconds

	// KindHours renders a seconds counter as hours, two decimals.
	KindHours
)

type Column struct {
	Header string
	Field  string
	Kind   Kind
}

const (
	jiraTimeLayout = "2006-01-02T15:04:05.999-0700"
	cellTimeLayout = "2006-01-02 15:04:05"
	dateLayout     = "2006-01-02"
)

func (c Column) render(issue jira.Issue, loc *time.Location) string {
	switch c.Kind {
	case KindIssueKey:
		return issue.Key

	case KindProjectKey:
		project, ok := issue.Fields["project"].(map[string]any)
		if !ok {
			return ""
		}
		key, _ := project["key"].(string)
		return key

	case KindValue:
		return flattenValue(issue.Fields[c.Field])

	case KindRaw:
		return rawValue(issue.Fields[c.Field])

	case KindDatetime:
		raw, _ := issue.Fields[c.Field].(string)
		if raw == "" {
			return ""
		}
		ts, err := time.Parse(jiraTimeLayout, raw)
		if err != nil {
			if ts, err = time.Parse(time.RFC3339, raw); err != nil {
				return ""
			}
		}
		return ts.In(loc).Format(cellTimeLayout)

	case KindDateOnly:
		raw, _ := issue.Fields[c.Field].(string)
		if raw == "" {
			return ""
		}
		d, err := time.Parse(dateLayout, raw)
		if err != nil {
			return ""
		}
		return d.Format(dateLayout)

	case KindSeconds:
		return rawValue(issue.Fields[c.Field])

	case KindHours:
		seconds, _ := issue.Fields[c.Field].(float64)
		hours := math.Round(seconds/3600*100) / 100
		return strconv.FormatFloat(hours, 'f', 2, 64)
	}

	return ""
}

func flattenValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case map[string]any:
		for _, key := range [...]string{"displayName", "name", "value"} {
			if s, ok := val[key].(string); ok && s != "" {
				return s
			}
		}
		return ""
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			if s := flattenValue(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	default:
		return rawValue(v)
	}
}

func rawValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		// JSON numbers decode as float64; integral values must
		// not grow a trailing ".0" in the CSV.
		if val == math.Trunc(val) && math.Abs(val) < 1e15 {
			return strconv.FormatInt(int64(val), 10)
		}
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return ""
	}
}

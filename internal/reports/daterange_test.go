package reports

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func Test_Params_Validate(t *testing.T) {
	type testcase struct {
		name    string
		params  Params
		wantErr bool
	}

	tests := [...]testcase{
		{
			name:   "absolute range",
			params: Params{StartDate: "2026-02-01", EndDate: "2026-02-05"},
		},
		{
			name:   "till now without end date",
			params: Params{StartDate: "2026-02-01", TillNow: true},
		},
		{
			name:    "missing end date",
			params:  Params{StartDate: "2026-02-01"},
			wantErr: true,
		},
		{
			name:    "bad start date",
			params:  Params{StartDate: "01-02-2026", EndDate: "2026-02-05"},
			wantErr: true,
		},
		{
			name:    "bad end date",
			params:  Params{StartDate: "2026-02-01", EndDate: "tomorrow"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func Test_istRange(t *testing.T) {
	now := time.Date(2026, 2, 10, 14, 45, 12, 0, Location)

	type testcase struct {
		name      string
		params    Params
		wantStart string
		wantEnd   string
	}

	tests := [...]testcase{
		{
			name:      "absolute range covers full end day",
			params:    Params{StartDate: "2026-02-01", EndDate: "2026-02-05"},
			wantStart: "2026-02-01 00:00",
			wantEnd:   "2026-02-05 23:59",
		},
		{
			name:      "till now uses current minute",
			params:    Params{StartDate: "2026-02-01", TillNow: true},
			wantStart: "2026-02-01 00:00",
			wantEnd:   "2026-02-10 14:45",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := istRange(tt.params, now)
			require.Equal(t, tt.wantStart, start)
			require.Equal(t, tt.wantEnd, end)
		})
	}
}

func Test_utcRange(t *testing.T) {
	// 2026-02-10 14:45 IST is 09:15 UTC.
	now := time.Date(2026, 2, 10, 14, 45, 12, 0, Location)

	type testcase struct {
		name      string
		params    Params
		wantStart string
		wantEnd   string
	}

	tests := [...]testcase{
		{
			name:      "absolute range shifts to utc",
			params:    Params{StartDate: "2026-02-01", EndDate: "2026-02-05"},
			wantStart: "2026-01-31 18:30",
			wantEnd:   "2026-02-05 18:29",
		},
		{
			name:      "till now",
			params:    Params{StartDate: "2026-02-01", TillNow: true},
			wantStart: "2026-01-31 18:30",
			wantEnd:   "2026-02-10 09:15",
		},
		{
			name:      "end date today promotes to till now",
			params:    Params{StartDate: "2026-02-01", EndDate: "2026-02-10"},
			wantStart: "2026-01-31 18:30",
			wantEnd:   "2026-02-10 09:15",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := utcRange(tt.params, now)
			require.Equal(t, tt.wantStart, start)
			require.Equal(t, tt.wantEnd, end)
		})
	}
}

func Test_BuildJQL(t *testing.T) {
	now := time.Date(2026, 2, 10, 14, 45, 0, 0, Location)

	spec := Spec{Filter: `project = Operations AND issuetype in (Bug, Task)`}

	jql := BuildJQL(spec, Params{
		StartDate: "2026-02-01",
		EndDate:   "2026-02-05",
		Statuses:  []string{"Resolved", "Closed", " "},
	}, now)

	require.Equal(t,
		`project = Operations AND issuetype in (Bug, Task)`+
			` AND created >= "2026-02-01 00:00" AND created <= "2026-02-05 23:59"`+
			` AND status IN ("Resolved","Closed") ORDER BY created DESC`,
		jql,
	)
}

func Test_BuildJQL_noStatuses(t *testing.T) {
	now := time.Date(2026, 2, 10, 14, 45, 0, 0, Location)

	spec := Spec{Filter: `project = asd AND issuetype = Problem`}

	jql := BuildJQL(spec, Params{StartDate: "2026-02-01", EndDate: "2026-02-05"}, now)

	require.NotContains(t, jql, "status IN")
	require.Contains(t, jql, `ORDER BY created DESC`)
}

package schedules

// ScheduleType values accepted by the trigger builder.
const (
	TypeOnce    = "once"
	TypeDaily   = "daily"
	TypeWeekly  = "weekly"
	TypeMonthly = "monthly"
)

type Schedule struct {
	ID         string
	ReportType string

	// Statuses is the comma-separated status filter as entered in
	// the UI; empty means no filter.
	Statuses string

	StartDate string
	EndDate   string
	TillNow   bool

	// RangeDays > 0 switches a run to the rolling window mode:
	// last N full days instead of the stored absolute range.
	RangeDays int

	ScheduleType  string
	ScheduleValue string
	RunTime       string // HH:MM, IST

	EmailTo string
	Enabled bool
}

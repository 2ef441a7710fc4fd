package scheduler

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/devops-noc/jira-report-app/internal/reports"
	"github.com/devops-noc/jira-report-app/internal/schedules"
	"github.com/devops-noc/jira-report-app/pkg/errors"
)

// trigger is either a cron expression or a single point in time.
type trigger struct {
	cronSpec string
	onceAt   time.Time
}

func (t trigger) isOnce() bool {
	return t.cronSpec == ""
}

var weekdays = map[string]struct{}{
	"sun": {}, "mon": {}, "tue": {}, "wed": {}, "thu": {}, "fri": {}, "sat": {},
}

func buildTrigger(s schedules.Schedule) (trigger, error) {
	hour, minute, err := parseRunTime(s.RunTime)
	if err != nil {
		return trigger{}, err
	}

	switch s.ScheduleType {
	case schedules.TypeOnce:
		at, err := time.ParseInLocation(
			"2006-01-02 15:04",
			fmt.Sprintf("%s %02d:%02d", s.ScheduleValue, hour, minute),
			reports.Location,
		)
		if err != nil {
			return trigger{}, errors.WrapFailf(err, "parse one-shot date %q", s.ScheduleValue)
		}
		return trigger{onceAt: at}, nil

	case schedules.TypeDaily:
		return trigger{cronSpec: fmt.Sprintf("%d %d * * *", minute, hour)}, nil

	case schedules.TypeWeekly:
		days, err := parseWeekdays(s.ScheduleValue)
		if err != nil {
			return trigger{}, err
		}
		return trigger{cronSpec: fmt.Sprintf("%d %d * * %s", minute, hour, days)}, nil

	case schedules.TypeMonthly:
		day, err := strconv.Atoi(strings.TrimSpace(s.ScheduleValue))
		if err != nil || day < 1 || day > 31 {
			return trigger{}, errors.Errorf("bad day of month %q", s.ScheduleValue)
		}
		return trigger{cronSpec: fmt.Sprintf("%d %d %d * *", minute, hour, day)}, nil
	}

	return trigger{}, errors.Errorf("unknown schedule type %q", s.ScheduleType)
}

func parseRunTime(runTime string) (hour, minute int, err error) {
	parts := strings.Split(runTime, ":")
	if len(parts) != 2 {
		return 0, 0, errors.Errorf("bad run time %q", runTime)
	}

	hour, errH := strconv.Atoi(parts[0])
	minute, errM := strconv.Atoi(parts[1])
	if errH != nil || errM != nil || hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, errors.Errorf("bad run time %q", runTime)
	}

	return hour, minute, nil
}

func parseWeekdays(value string) (string, error) {
	var days []string
	for _, day := range strings.Split(value, ",") {
		day = strings.ToLower(strings.TrimSpace(day))
		if day == "" {
			continue
		}
		if _, ok := weekdays[day]; !ok {
			return "", errors.Errorf("bad weekday %q", day)
		}
		days = append(days, day)
	}

	if len(days) == 0 {
		return "", errors.Error("weekly schedule needs at least one weekday")
	}

	return strings.Join(days, ","), nil
}

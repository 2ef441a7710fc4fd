package schedules

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/devops-noc/jira-report-app/pkg/errors"
	"github.com/devops-noc/jira-report-app/pkg/logger"
)

var ErrNotFound = errors.Error("schedule not found")

type Repo interface {
	Insert(ctx context.Context, s Schedule) error

	// List returns all schedules, newest first.
	List(ctx context.Context) ([]Schedule, error)

	// ListEnabled returns the schedules the scheduler must register.
	ListEnabled(ctx context.Context) ([]Schedule, error)

	SetEnabled(ctx context.Context, id string, enabled bool) error

	Close() error
}

func New(ctx context.Context, path string, log logger.Logger) (Repo, error) {
	err := os.MkdirAll(filepath.Dir(path), 0o755)
	if err != nil {
		return nil, errors.WrapFail(err, "create database dir")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.WrapFail(err, "open sqlite database")
	}

	r := &sqliteRepo{db: db, log: log.With("schedules_repo")}

	err = r.migrate(ctx)
	if err != nil {
		_ = db.Close()
		return nil, errors.WrapFail(err, "migrate schedules schema")
	}

	return r, nil
}

type sqliteRepo struct {
	db  *sql.DB
	log logger.Logger
}

// migrate creates the base table and adds columns introduced after
// the first deployments. Existing databases must keep working, so
// new columns are probed and added one by one.
func (r *sqliteRepo) migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS report_schedules (
			id TEXT PRIMARY KEY,
			report_type TEXT NOT NULL,
			statuses TEXT,
			start_date TEXT NOT NULL,
			end_date TEXT NOT NULL,
			till_now INTEGER DEFAULT 0,
			enabled INTEGER DEFAULT 1,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return errors.WrapFail(err, "create report_schedules table")
	}

	existing, err := r.columns(ctx)
	if err != nil {
		return err
	}

	added := [...]struct {
		name string
		ddl  string
	}{
		{"schedule_type", "ALTER TABLE report_schedules ADD COLUMN schedule_type TEXT"},
		{"schedule_value", "ALTER TABLE report_schedules ADD COLUMN schedule_value TEXT"},
		{"run_time", "ALTER TABLE report_schedules ADD COLUMN run_time TEXT"},
		{"range_days", "ALTER TABLE report_schedules ADD COLUMN range_days INTEGER"},
		{"email_to", "ALTER TABLE report_schedules ADD COLUMN email_to TEXT"},
	}

	for _, col := range added {
		if _, ok := existing[col.name]; ok {
			continue
		}

		if _, err := r.db.ExecContext(ctx, col.ddl); err != nil {
			return errors.WrapFailf(err, "add column %s", col.name)
		}

		r.log.Infof("added column %s to report_schedules", col.name)
	}

	return nil
}

func (r *sqliteRepo) columns(ctx context.Context) (map[string]struct{}, error) {
	rows, err := r.db.QueryContext(ctx, "PRAGMA table_info(report_schedules)")
	if err != nil {
		return nil, errors.WrapFail(err, "read table info")
	}
	defer func() { _ = rows.Close() }()

	existing := make(map[string]struct{})
	for rows.Next() {
		var (
			cid        int
			name, typ  string
			notnull    int
			dflt       sql.NullString
			primaryKey int
		)
		if err := rows.Scan(&cid, &name, &typ, &notnull, &dflt, &primaryKey); err != nil {
			return nil, errors.WrapFail(err, "scan table info row")
		}
		existing[name] = struct{}{}
	}

	return existing, rows.Err()
}

func (r *sqliteRepo) Insert(ctx context.Context, s Schedule) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO report_schedules
		(
			id, report_type, statuses,
			start_date, end_date, till_now,
			schedule_type, schedule_value, run_time,
			range_days, email_to, enabled
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		s.ID, s.ReportType, s.Statuses,
		s.StartDate, s.EndDate, boolToInt(s.TillNow),
		s.ScheduleType, s.ScheduleValue, s.RunTime,
		s.RangeDays, s.EmailTo, boolToInt(s.Enabled),
	)

	return errors.WrapFail(err, "insert schedule")
}

const selectColumns = `
	id, report_type, COALESCE(statuses, ''),
	start_date, end_date, till_now,
	COALESCE(schedule_type, ''), COALESCE(schedule_value, ''), COALESCE(run_time, ''),
	COALESCE(range_days, 0), COALESCE(email_to, ''), enabled
`

func (r *sqliteRepo) List(ctx context.Context) ([]Schedule, error) {
	return r.selectWhere(ctx, "ORDER BY created_at DESC")
}

func (r *sqliteRepo) ListEnabled(ctx context.Context) ([]Schedule, error) {
	return r.selectWhere(ctx, "WHERE enabled = 1")
}

func (r *sqliteRepo) selectWhere(ctx context.Context, tail string) ([]Schedule, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+selectColumns+" FROM report_schedules "+tail)
	if err != nil {
		return nil, errors.WrapFail(err, "select schedules")
	}
	defer func() { _ = rows.Close() }()

	var selected []Schedule
	for rows.Next() {
		var (
			s                Schedule
			tillNow, enabled int
		)

		err = rows.Scan(
			&s.ID, &s.ReportType, &s.Statuses,
			&s.StartDate, &s.EndDate, &tillNow,
			&s.ScheduleType, &s.ScheduleValue, &s.RunTime,
			&s.RangeDays, &s.EmailTo, &enabled,
		)
		if err != nil {
			return nil, errors.WrapFail(err, "scan schedule row")
		}

		s.TillNow = tillNow != 0
		s.Enabled = enabled != 0
		selected = append(selected, s)
	}

	return selected, rows.Err()
}

func (r *sqliteRepo) SetEnabled(ctx context.Context, id string, enabled bool) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE report_schedules SET enabled = ? WHERE id = ?",
		boolToInt(enabled), id,
	)
	if err != nil {
		return errors.WrapFail(err, "update schedule")
	}

	affected, err := res.RowsAffected()
	if err == nil && affected == 0 {
		return errors.Wrapf(ErrNotFound, "id %q", id)
	}

	return nil
}

func (r *sqliteRepo) Close() error {
	return errors.WrapFail(r.db.Close(), "close sqlite database")
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

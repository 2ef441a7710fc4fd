package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/devops-noc/jira-report-app/internal/jobs"
	"github.com/devops-noc/jira-report-app/internal/reports"
	"github.com/devops-noc/jira-report-app/internal/schedules"
	"github.com/devops-noc/jira-report-app/pkg/logger"
)

type stubManager struct {
	startKey    string
	startParams reports.Params
	startErr    error

	status  jobs.Progress
	history []jobs.Entry

	cancelErr    error
	cancelledID  string
	downloadPath string
	downloadName string
	downloadErr  error
}

func (m *stubManager) Start(key string, params reports.Params) (string, error) {
	m.startKey, m.startParams = key, params
	if m.startErr != nil {
		return "", m.startErr
	}
	return "job-1", nil
}

func (m *stubManager) Status(id string) jobs.Progress { return m.status }

func (m *stubManager) Cancel(id string) error {
	m.cancelledID = id
	return m.cancelErr
}

func (m *stubManager) Download(id string) (string, string, error) {
	return m.downloadPath, m.downloadName, m.downloadErr
}

func (m *stubManager) History() []jobs.Entry { return m.history }

func (m *stubManager) Run(ctx context.Context) error { return nil }

type stubStore struct {
	inserted []schedules.Schedule
	listed   []schedules.Schedule
	listErr  error

	enabledID  string
	enabledVal bool
	enabledErr error
}

func (s *stubStore) Insert(_ context.Context, sched schedules.Schedule) error {
	s.inserted = append(s.inserted, sched)
	return nil
}

func (s *stubStore) List(_ context.Context) ([]schedules.Schedule, error) {
	return s.listed, s.listErr
}

func (s *stubStore) SetEnabled(_ context.Context, id string, enabled bool) error {
	s.enabledID, s.enabledVal = id, enabled
	return s.enabledErr
}

type stubReloader struct {
	reloads int
}

func (r *stubReloader) Reload(context.Context) error {
	r.reloads++
	return nil
}

func newTestServer(t *testing.T) (*server, *stubManager, *stubStore, *stubReloader) {
	t.Helper()

	manager := &stubManager{}
	store := &stubStore{}
	sched := &stubReloader{}

	srv := NewServer(Config{}, logger.NewStub(), manager, store, sched)

	s, ok := srv.(*server)
	require.True(t, ok)

	return s, manager, store, sched
}

func postForm(t *testing.T, s *server, path string, form url.Values) *http.Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.http.Test(req, -1)
	require.NoError(t, err)

	return resp
}

func decodeJSON(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	return body
}

func TestServer_index(t *testing.T) {
	s, _, _, _ := newTestServer(t)

	resp, err := s.http.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeJSON(t, resp)
	require.Equal(t, "jira-report-app", body["service"])
	require.Len(t, body["reports"], len(reports.Keys()))
}

func TestServer_startJob(t *testing.T) {
	s, manager, _, _ := newTestServer(t)

	resp := postForm(t, s, "/start-job", url.Values{
		"report_type": {reports.KeyOpsTaskBug},
		"start_date":  {"2026-02-01"},
		"end_date":    {"2026-02-05"},
		"statuses":    {"Open", "Closed"},
		"till_now":    {"on"},
	})

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "job-1", decodeJSON(t, resp)["job_id"])

	require.Equal(t, reports.KeyOpsTaskBug, manager.startKey)
	require.Equal(t, reports.Params{
		StartDate: "2026-02-01",
		EndDate:   "2026-02-05",
		Statuses:  []string{"Open", "Closed"},
		TillNow:   true,
	}, manager.startParams)
}

func TestServer_startJob_badRequest(t *testing.T) {
	s, manager, _, _ := newTestServer(t)
	manager.startErr = jobs.ErrUnknownReport

	resp := postForm(t, s, "/start-job", url.Values{"report_type": {"nope"}})

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "ERROR", decodeJSON(t, resp)["status"])
}

func TestServer_jobStatus(t *testing.T) {
	s, manager, _, _ := newTestServer(t)
	manager.status = jobs.Progress{Status: jobs.StatusRunning, Completed: 500, Total: 1200}

	resp, err := s.http.Test(httptest.NewRequest(http.MethodGet, "/job-status/job-1", nil), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeJSON(t, resp)
	require.Equal(t, "running", body["status"])
	require.Equal(t, float64(500), body["completed"])
	require.Equal(t, float64(1200), body["total"])
}

func TestServer_download(t *testing.T) {
	s, manager, _, _ := newTestServer(t)

	path := filepath.Join(t.TempDir(), "job-1.csv")
	require.NoError(t, os.WriteFile(path, []byte("Key,Summary\n"), 0o644))
	manager.downloadPath = path
	manager.downloadName = "JIRA-OPS-Task-Bug-Report.csv"

	resp, err := s.http.Test(httptest.NewRequest(http.MethodGet, "/download/job-1", nil), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, resp.Header.Get("Content-Disposition"), "JIRA-OPS-Task-Bug-Report.csv")

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, "Key,Summary\n", string(data))
}

func TestServer_download_notReady(t *testing.T) {
	s, manager, _, _ := newTestServer(t)
	manager.downloadErr = jobs.ErrNotReady

	resp, err := s.http.Test(httptest.NewRequest(http.MethodGet, "/download/job-1", nil), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Equal(t, "File not ready", decodeJSON(t, resp)["message"])
}

func TestServer_cancelJob(t *testing.T) {
	s, manager, _, _ := newTestServer(t)

	resp := postForm(t, s, "/cancel-job/job-1", url.Values{})

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "cancelled", decodeJSON(t, resp)["status"])
	require.Equal(t, "job-1", manager.cancelledID)
}

func TestServer_cancelJob_notRunning(t *testing.T) {
	s, manager, _, _ := newTestServer(t)
	manager.cancelErr = jobs.ErrNotRunning

	resp := postForm(t, s, "/cancel-job/job-1", url.Values{})

	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Equal(t, "Job not running", decodeJSON(t, resp)["message"])
}

func TestServer_jobHistory(t *testing.T) {
	s, manager, _, _ := newTestServer(t)
	manager.history = []jobs.Entry{
		{JobID: "b", Status: jobs.StatusRunning},
		{JobID: "a", Status: jobs.StatusCompleted},
	}

	resp, err := s.http.Test(httptest.NewRequest(http.MethodGet, "/job-history", nil), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body []jobs.Entry
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, manager.history, body)
}

func TestServer_createSchedule(t *testing.T) {
	s, _, store, sched := newTestServer(t)

	resp := postForm(t, s, "/schedule-job", url.Values{
		"report_type":   {reports.KeyOpsTaskBug},
		"statuses":      {"Open,Closed"},
		"start_date":    {"2026-02-01"},
		"end_date":      {"2026-02-05"},
		"range_days":    {"7"},
		"schedule_type": {schedules.TypeDaily},
		"run_time":      {"09:30"},
		"email_to":      {"noc@example.com"},
	})

	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeJSON(t, resp)
	require.Equal(t, "ok", body["status"])
	require.NotEmpty(t, body["schedule_id"])

	require.Len(t, store.inserted, 1)
	got := store.inserted[0]
	require.Equal(t, reports.KeyOpsTaskBug, got.ReportType)
	require.Equal(t, 7, got.RangeDays)
	require.Equal(t, schedules.TypeDaily, got.ScheduleType)
	require.Equal(t, "09:30", got.RunTime)
	require.True(t, got.Enabled)

	require.Equal(t, 1, sched.reloads)
}

func TestServer_createSchedule_validation(t *testing.T) {
	tests := []struct {
		name string
		form url.Values
	}{
		{
			name: "unknown report type",
			form: url.Values{
				"report_type":   {"nope"},
				"start_date":    {"2026-02-01"},
				"end_date":      {"2026-02-05"},
				"schedule_type": {schedules.TypeDaily},
				"run_time":      {"09:30"},
				"email_to":      {"noc@example.com"},
			},
		},
		{
			name: "missing run time",
			form: url.Values{
				"report_type":   {reports.KeyOpsTaskBug},
				"start_date":    {"2026-02-01"},
				"end_date":      {"2026-02-05"},
				"schedule_type": {schedules.TypeDaily},
				"email_to":      {"noc@example.com"},
			},
		},
		{
			name: "bad range days",
			form: url.Values{
				"report_type":   {reports.KeyOpsTaskBug},
				"start_date":    {"2026-02-01"},
				"end_date":      {"2026-02-05"},
				"range_days":    {"week"},
				"schedule_type": {schedules.TypeDaily},
				"run_time":      {"09:30"},
				"email_to":      {"noc@example.com"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _, store, sched := newTestServer(t)

			resp := postForm(t, s, "/schedule-job", tt.form)

			require.Equal(t, http.StatusBadRequest, resp.StatusCode)
			require.Empty(t, store.inserted)
			require.Zero(t, sched.reloads)
		})
	}
}

func TestServer_listSchedules(t *testing.T) {
	s, _, store, _ := newTestServer(t)
	store.listed = []schedules.Schedule{
		{
			ID:         "s1",
			ReportType: reports.KeyOpsTaskBug,
			Statuses:   "Open,Closed",
			StartDate:  "2026-02-01",
			EndDate:    "2026-02-05",
			EmailTo:    "noc@example.com",
			Enabled:    true,
		},
	}

	resp, err := s.http.Test(httptest.NewRequest(http.MethodGet, "/schedules", nil), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body, 1)
	require.Equal(t, "s1", body[0]["id"])
	require.Equal(t, reports.KeyOpsTaskBug, body[0]["report_type"])
	require.Equal(t, true, body[0]["enabled"])
	require.NotContains(t, body[0], "email_to")
}

func TestServer_toggleSchedule(t *testing.T) {
	s, _, store, sched := newTestServer(t)

	resp := postForm(t, s, "/schedule/s1/toggle", url.Values{"enabled": {"true"}})

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "ok", decodeJSON(t, resp)["status"])
	require.Equal(t, "s1", store.enabledID)
	require.True(t, store.enabledVal)
	require.Equal(t, 1, sched.reloads)
}

func TestServer_toggleSchedule_missing(t *testing.T) {
	s, _, store, sched := newTestServer(t)
	store.enabledErr = schedules.ErrNotFound

	resp := postForm(t, s, "/schedule/s1/toggle", url.Values{"enabled": {"true"}})

	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Zero(t, sched.reloads)
}

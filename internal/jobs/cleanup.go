package jobs

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/devops-noc/jira-report-app/pkg/errors"
	"github.com/devops-noc/jira-report-app/pkg/tools/await"
)

// Run sweeps expired spool files periodically until ctx is done.
// The same sweep also happens before every new job, so a crash in
// this loop only delays cleanup.
func (m *manager) Run(ctx context.Context) error {
	tick := await.Tick(cleanupInterval)
	for tick.Await(ctx) {
		m.cleanupSpool()
	}
	return nil
}

func (m *manager) cleanupSpool() {
	dirEntries, err := os.ReadDir(m.cfg.SpoolDir)
	if err != nil {
		m.log.Warn(errors.WrapFail(err, "read spool dir"))
		return
	}

	deadline := time.Now().Add(-m.cfg.Retention)

	for _, e := range dirEntries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".csv") {
			continue
		}

		info, err := e.Info()
		if err != nil {
			continue
		}

		if info.ModTime().After(deadline) {
			continue
		}

		path := filepath.Join(m.cfg.SpoolDir, e.Name())
		if err := os.Remove(path); err != nil {
			m.log.Warn(errors.WrapFailf(err, "delete expired spool file %s", path))
			continue
		}

		m.log.Infof("deleted expired spool file %s", path)
	}
}

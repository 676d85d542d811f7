// Package jobs runs the background maintenance schedule.
package jobs

import (
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"consolidate/internal/config"
)

// Janitor removes stale files from the upload directory. Ingestion deletes
// its staged copy on every exit path; the janitor only catches debris left
// behind by a crash mid-request.
type Janitor struct {
	dir      string
	maxAge   time.Duration
	schedule string
	log      *logrus.Logger
	cron     *cron.Cron
}

// NewJanitor builds a janitor from the application config.
func NewJanitor(cfg *config.Config, log *logrus.Logger) *Janitor {
	return &Janitor{
		dir:      cfg.UploadDir,
		maxAge:   time.Duration(cfg.RetentionHours) * time.Hour,
		schedule: cfg.JanitorSchedule,
		log:      log,
	}
}

// Start schedules the sweep and returns once the cron loop is running.
func (j *Janitor) Start() error {
	c := cron.New()
	if _, err := c.AddFunc(j.schedule, func() { j.Sweep(time.Now()) }); err != nil {
		return err
	}
	c.Start()
	j.cron = c
	j.log.WithField("schedule", j.schedule).Info("upload janitor started")
	return nil
}

// Stop halts the schedule, waiting for a running sweep to finish.
func (j *Janitor) Stop() {
	if j.cron != nil {
		<-j.cron.Stop().Done()
	}
}

// Sweep deletes upload files whose modification time predates the retention
// window relative to now. Returns the number of files removed.
func (j *Janitor) Sweep(now time.Time) int {
	entries, err := os.ReadDir(j.dir)
	if err != nil {
		if !os.IsNotExist(err) {
			j.log.Warnf("janitor: read upload dir: %v", err)
		}
		return 0
	}
	cutoff := now.Add(-j.maxAge)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		path := filepath.Join(j.dir, entry.Name())
		if err := os.Remove(path); err != nil {
			j.log.Warnf("janitor: remove %s: %v", path, err)
			continue
		}
		removed++
	}
	if removed > 0 {
		j.log.WithField("removed", removed).Info("janitor swept stale uploads")
	}
	return removed
}

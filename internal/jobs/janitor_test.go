package jobs

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"consolidate/internal/config"
)

func TestSweepRemovesOnlyStaleFiles(t *testing.T) {
	dir := t.TempDir()
	log := logrus.New()
	log.SetOutput(io.Discard)

	stale := filepath.Join(dir, "20240101_old.xlsx")
	fresh := filepath.Join(dir, "20240301_new.xlsx")
	for _, p := range []string{stale, fresh} {
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatalf("write %s: %v", p, err)
		}
	}
	old := time.Now().Add(-48 * time.Hour)
	if err := os.Chtimes(stale, old, old); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	j := NewJanitor(&config.Config{UploadDir: dir, RetentionHours: 24, JanitorSchedule: "0 * * * *"}, log)
	removed := j.Sweep(time.Now())
	if removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Fatal("stale file still present")
	}
	if _, err := os.Stat(fresh); err != nil {
		t.Fatalf("fresh file removed: %v", err)
	}
}

func TestSweepMissingDirIsNoop(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)
	j := NewJanitor(&config.Config{UploadDir: "/nonexistent/path", RetentionHours: 24}, log)
	if removed := j.Sweep(time.Now()); removed != 0 {
		t.Fatalf("removed = %d, want 0", removed)
	}
}

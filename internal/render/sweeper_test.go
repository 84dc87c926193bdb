package render

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/examforge/examforge/internal/logger"
	"github.com/examforge/examforge/internal/storage"
)

func TestSweepOnce(t *testing.T) {
	scratch := t.TempDir()
	blobDir := t.TempDir()
	blob, err := storage.NewFSStore(blobDir, "")
	if err != nil {
		t.Fatal(err)
	}

	old := filepath.Join(scratch, "j1-chunk1.pdf")
	fresh := filepath.Join(scratch, "j2-chunk1.pdf")
	for _, p := range []string{old, fresh} {
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	past := time.Now().Add(-2 * time.Hour)
	if err := os.Chtimes(old, past, past); err != nil {
		t.Fatal(err)
	}

	oldArtifact := filepath.Join(blobDir, "renders", "20240101", "stale.pdf")
	if err := os.MkdirAll(filepath.Dir(oldArtifact), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(oldArtifact, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(oldArtifact, time.Now().Add(-25*time.Hour), time.Now().Add(-25*time.Hour)); err != nil {
		t.Fatal(err)
	}

	s := NewSweeper(scratch, blob, time.Minute, time.Hour, 24*time.Hour, logger.NewNop())
	s.SweepOnce()

	if _, err := os.Stat(old); !os.IsNotExist(err) {
		t.Fatal("stale scratch file survived")
	}
	if _, err := os.Stat(fresh); err != nil {
		t.Fatal("fresh scratch file removed")
	}
	if _, err := os.Stat(oldArtifact); !os.IsNotExist(err) {
		t.Fatal("stale artifact survived")
	}
}

func TestSweepMissingDirsAreFine(t *testing.T) {
	blob, err := storage.NewFSStore(t.TempDir(), "")
	if err != nil {
		t.Fatal(err)
	}
	s := NewSweeper(filepath.Join(t.TempDir(), "nope"), blob, time.Minute, time.Hour, 24*time.Hour, logger.NewNop())
	s.SweepOnce() // must not panic
}

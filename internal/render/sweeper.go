package render

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/examforge/examforge/internal/logger"
)

// artifactStore is the slice of the blob store the sweeper needs.
type artifactStore interface {
	SweepOlderThan(prefix string, maxAge time.Duration) (int, error)
}

// Sweeper independently reclaims disk: render scratch files older than
// tempMaxAge and generated artifacts older than artifactMaxAge, regardless
// of how their jobs ended.
type Sweeper struct {
	scratch        string
	blob           artifactStore
	interval       time.Duration
	tempMaxAge     time.Duration
	artifactMaxAge time.Duration
	log            *logger.Logger
}

func NewSweeper(scratch string, blob artifactStore, interval, tempMaxAge, artifactMaxAge time.Duration, log *logger.Logger) *Sweeper {
	return &Sweeper{
		scratch:        scratch,
		blob:           blob,
		interval:       interval,
		tempMaxAge:     tempMaxAge,
		artifactMaxAge: artifactMaxAge,
		log:            log.With("component", "RenderSweeper"),
	}
}

func (s *Sweeper) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.SweepOnce()
			}
		}
	}()
}

func (s *Sweeper) SweepOnce() {
	temps := s.sweepScratch()
	artifacts, err := s.blob.SweepOlderThan("renders", s.artifactMaxAge)
	if err != nil {
		s.log.Warn("artifact sweep failed", "error", err)
	}
	if temps > 0 || artifacts > 0 {
		s.log.Info("sweep complete", "temp_files", temps, "artifacts", artifacts)
	}
}

func (s *Sweeper) sweepScratch() int {
	cutoff := time.Now().Add(-s.tempMaxAge)
	entries, err := os.ReadDir(s.scratch)
	if err != nil {
		return 0
	}
	removed := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(s.scratch, e.Name())); err == nil {
				removed++
			}
		}
	}
	return removed
}

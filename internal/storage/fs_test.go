package storage

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestFSStorePutGetDelete(t *testing.T) {
	s, err := NewFSStore(t.TempDir(), "https://files.example.com")
	if err != nil {
		t.Fatal(err)
	}
	key := "renders/20240101/a.pdf"
	if _, err := s.Put(key, strings.NewReader("%PDF-x")); err != nil {
		t.Fatal(err)
	}
	rc, err := s.Get(key)
	if err != nil {
		t.Fatal(err)
	}
	raw, _ := io.ReadAll(rc)
	rc.Close()
	if string(raw) != "%PDF-x" {
		t.Fatalf("got %q", raw)
	}

	u, err := s.URL(key)
	if err != nil {
		t.Fatal(err)
	}
	if u != "https://files.example.com/renders/20240101/a.pdf" {
		t.Fatalf("url %q", u)
	}

	if err := s.Delete(key); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get(key); err == nil {
		t.Fatal("deleted key still readable")
	}
	// Deleting twice is not an error.
	if err := s.Delete(key); err != nil {
		t.Fatal(err)
	}
}

func TestFSStoreSweepOlderThan(t *testing.T) {
	base := t.TempDir()
	s, err := NewFSStore(base, "")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Put("renders/old.pdf", strings.NewReader("x")); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Put("renders/new.pdf", strings.NewReader("x")); err != nil {
		t.Fatal(err)
	}
	past := time.Now().Add(-48 * time.Hour)
	if err := os.Chtimes(filepath.Join(base, "renders/old.pdf"), past, past); err != nil {
		t.Fatal(err)
	}

	removed, err := s.SweepOlderThan("renders", 24*time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if removed != 1 {
		t.Fatalf("removed=%d, want 1", removed)
	}
	if _, err := s.Get("renders/new.pdf"); err != nil {
		t.Fatal("fresh artifact swept")
	}

	// Sweeping a prefix that does not exist is a no-op.
	if _, err := s.SweepOlderThan("nothing-here", time.Hour); err != nil {
		t.Fatal(err)
	}
}

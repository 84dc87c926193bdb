package status

import (
	"context"
	"testing"
	"time"
)

func TestMemoryStorePutGet(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	st := State{Status: StatusPending, OwnerID: "u1", CreatedAt: time.Now().Unix()}
	if err := s.Put(ctx, "j1", st, time.Minute); err != nil {
		t.Fatal(err)
	}
	got, ok, err := s.Get(ctx, "j1")
	if err != nil || !ok {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
	if got.Status != StatusPending || got.OwnerID != "u1" {
		t.Fatalf("got %+v", got)
	}

	if _, ok, _ := s.Get(ctx, "missing"); ok {
		t.Fatal("unknown job must be absent")
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	now := time.Now()
	s.now = func() time.Time { return now }

	if err := s.Put(ctx, "j1", State{Status: StatusCompleted}, time.Minute); err != nil {
		t.Fatal(err)
	}
	now = now.Add(2 * time.Minute)
	if _, ok, _ := s.Get(ctx, "j1"); ok {
		t.Fatal("expired entry still visible")
	}
	if err := s.Merge(ctx, "j1", Patch{Status: StatusPtr(StatusFailed)}); err == nil {
		t.Fatal("merge on expired entry must fail")
	}
}

func TestMemoryStoreMergePreservesUnspecified(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if err := s.Put(ctx, "j1", State{Status: StatusPending, OwnerID: "u1", Attempt: 1}, time.Minute); err != nil {
		t.Fatal(err)
	}
	url := "https://example.com/a.pdf"
	if err := s.Merge(ctx, "j1", Patch{
		Status:      StatusPtr(StatusCompleted),
		DownloadURL: &url,
	}); err != nil {
		t.Fatal(err)
	}
	got, _, _ := s.Get(ctx, "j1")
	if got.OwnerID != "u1" || got.Attempt != 1 {
		t.Fatalf("merge clobbered unspecified fields: %+v", got)
	}
	if got.Status != StatusCompleted || got.DownloadURL != url {
		t.Fatalf("merge did not apply patch: %+v", got)
	}
}

func TestTerminal(t *testing.T) {
	if StatusPending.Terminal() || StatusProcessing.Terminal() {
		t.Fatal("pending/processing are not terminal")
	}
	if !StatusCompleted.Terminal() || !StatusFailed.Terminal() {
		t.Fatal("completed/failed are terminal")
	}
}

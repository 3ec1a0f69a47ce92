package metacache

import (
	"context"
	"testing"
	"time"

	"gamedex/internal/metadata"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleRecord() metadata.AggregatedMetadata {
	return metadata.AggregatedMetadata{
		BoxArtURL: "https://cdn.test/box.jpg",
		BannerURL: "https://cdn.test/banner.jpg",
		Summary:   "Forge your own path.",
		Genres:    []string{"Action", "Indie"},
	}
}

func TestPutGetRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.Put(ctx, "Hollow Knight", "367520", sampleRecord()); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, ok, err := store.Get(ctx, "Hollow Knight", "367520", time.Hour)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !ok || got == nil {
		t.Fatal("expected cache hit")
	}
	if got.BoxArtURL != "https://cdn.test/box.jpg" || len(got.Genres) != 2 {
		t.Fatalf("unexpected record %+v", got)
	}
}

func TestGetKeyNormalization(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.Put(ctx, "Hollow Knight", "", sampleRecord()); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	// Same title with different punctuation and case shares the entry.
	if _, ok, err := store.Get(ctx, "hollow knight!", "", 0); err != nil || !ok {
		t.Fatalf("expected normalized-key hit, got ok=%v err=%v", ok, err)
	}

	// A different app id is a different entry.
	if _, ok, _ := store.Get(ctx, "Hollow Knight", "367520", 0); ok {
		t.Fatal("distinct app id must not share an entry")
	}
}

func TestGetMiss(t *testing.T) {
	store := openTestStore(t)
	got, ok, err := store.Get(context.Background(), "Unknown Game", "", time.Hour)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if ok || got != nil {
		t.Fatalf("expected miss, got %+v", got)
	}
}

func TestStaleEntryIsAMiss(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.Put(ctx, "Celeste", "", sampleRecord()); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	if _, ok, _ := store.Get(ctx, "Celeste", "", time.Nanosecond); ok {
		t.Fatal("entry older than maxAge must be a miss")
	}
	// Zero maxAge disables the staleness check.
	if _, ok, _ := store.Get(ctx, "Celeste", "", 0); !ok {
		t.Fatal("zero maxAge must return the entry")
	}
}

func TestPutReplacesEntry(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	first := sampleRecord()
	if err := store.Put(ctx, "Celeste", "", first); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	second := sampleRecord()
	second.Summary = "updated"
	if err := store.Put(ctx, "Celeste", "", second); err != nil {
		t.Fatalf("second Put failed: %v", err)
	}

	got, ok, err := store.Get(ctx, "Celeste", "", 0)
	if err != nil || !ok {
		t.Fatalf("Get failed: ok=%v err=%v", ok, err)
	}
	if got.Summary != "updated" {
		t.Fatalf("summary = %q, want replacement to win", got.Summary)
	}

	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.Entries != 1 {
		t.Fatalf("entries = %d, want 1", stats.Entries)
	}
}

func TestClearAndStats(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for _, title := range []string{"Hollow Knight", "Celeste", "Hades"} {
		if err := store.Put(ctx, title, "", sampleRecord()); err != nil {
			t.Fatalf("Put %q failed: %v", title, err)
		}
	}

	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.Entries != 3 {
		t.Fatalf("entries = %d, want 3", stats.Entries)
	}
	if stats.Oldest.IsZero() || stats.Newest.Before(stats.Oldest) {
		t.Fatalf("bad fetch range %v..%v", stats.Oldest, stats.Newest)
	}

	removed, err := store.Clear(ctx)
	if err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if removed != 3 {
		t.Fatalf("removed = %d, want 3", removed)
	}

	stats, err = store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats after clear failed: %v", err)
	}
	if stats.Entries != 0 {
		t.Fatalf("entries after clear = %d", stats.Entries)
	}
}

func TestOpenRejectsSecondInstance(t *testing.T) {
	dir := t.TempDir()
	first, err := Open(dir, nil)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer first.Close()

	if _, err := Open(dir, nil); err == nil {
		t.Fatal("expected second Open on the same directory to fail")
	}
}

func TestReopenKeepsEntries(t *testing.T) {
	dir := t.TempDir()
	store, err := Open(dir, nil)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := store.Put(context.Background(), "Hades", "1145360", sampleRecord()); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := Open(dir, nil)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()

	if _, ok, err := reopened.Get(context.Background(), "Hades", "1145360", 0); err != nil || !ok {
		t.Fatalf("expected persisted entry after reopen, ok=%v err=%v", ok, err)
	}
}

package probecache_test

import (
	"context"
	"path/filepath"
	"testing"

	"dnnbrain/internal/probecache"
)

func TestStoreAndLookup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "probe_cache.db")
	cache, err := probecache.Open(path, nil)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer cache.Close()

	ctx := context.Background()
	entry := probecache.Entry{
		Path:            "/videos/stim.mp4",
		Size:            2048,
		ModTime:         1700000000,
		FrameRate:       25,
		FrameCount:      100,
		DurationSeconds: 4,
	}
	if err := cache.Store(ctx, entry); err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	got, found, err := cache.Lookup(ctx, entry.Path, entry.Size, entry.ModTime)
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if !found {
		t.Fatal("expected cache hit")
	}
	if got.FrameRate != 25 || got.FrameCount != 100 {
		t.Fatalf("unexpected entry: %+v", got)
	}
	if got.CachedAt.IsZero() {
		t.Fatal("expected CachedAt to be populated")
	}
}

func TestLookupMissesOnChangedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "probe_cache.db")
	cache, err := probecache.Open(path, nil)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer cache.Close()

	ctx := context.Background()
	entry := probecache.Entry{Path: "/videos/stim.mp4", Size: 2048, ModTime: 100, FrameRate: 25, FrameCount: 100}
	if err := cache.Store(ctx, entry); err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	_, found, err := cache.Lookup(ctx, entry.Path, entry.Size, 999)
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if found {
		t.Fatal("expected miss for changed mod time")
	}

	// Stale entry is evicted, so even the original identity now misses.
	count, err := cache.Len(ctx)
	if err != nil {
		t.Fatalf("Len failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected stale entry to be evicted, have %d", count)
	}
}

func TestStoreReplacesEntry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "probe_cache.db")
	cache, err := probecache.Open(path, nil)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer cache.Close()

	ctx := context.Background()
	first := probecache.Entry{Path: "/videos/stim.mp4", Size: 1, ModTime: 1, FrameRate: 24, FrameCount: 48}
	second := probecache.Entry{Path: "/videos/stim.mp4", Size: 2, ModTime: 2, FrameRate: 25, FrameCount: 50}
	if err := cache.Store(ctx, first); err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	if err := cache.Store(ctx, second); err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	got, found, err := cache.Lookup(ctx, second.Path, second.Size, second.ModTime)
	if err != nil || !found {
		t.Fatalf("expected hit for replaced entry, found=%v err=%v", found, err)
	}
	if got.FrameCount != 50 {
		t.Fatalf("unexpected frame count: %d", got.FrameCount)
	}

	count, err := cache.Len(ctx)
	if err != nil {
		t.Fatalf("Len failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected single entry, have %d", count)
	}
}

func TestDisabledCacheIsNoop(t *testing.T) {
	cache, err := probecache.Open("", nil)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer cache.Close()

	ctx := context.Background()
	if err := cache.Store(ctx, probecache.Entry{Path: "/x"}); err != nil {
		t.Fatalf("Store on disabled cache failed: %v", err)
	}
	_, found, err := cache.Lookup(ctx, "/x", 0, 0)
	if err != nil {
		t.Fatalf("Lookup on disabled cache failed: %v", err)
	}
	if found {
		t.Fatal("disabled cache must always miss")
	}
}

func TestStoreRejectsEmptyPath(t *testing.T) {
	cache, err := probecache.Open("", nil)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := cache.Store(context.Background(), probecache.Entry{}); err == nil {
		t.Fatal("expected error for empty path")
	}
}

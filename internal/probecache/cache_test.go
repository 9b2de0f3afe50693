package probecache_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"clipper/internal/probecache"
)

func openCache(t *testing.T, ttl time.Duration) *probecache.Cache {
	t.Helper()
	path := filepath.Join(t.TempDir(), "probecache.db")
	cache, err := probecache.Open(path, ttl, nil)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(func() { _ = cache.Close() })
	return cache
}

func TestStoreAndLookup(t *testing.T) {
	cache := openCache(t, time.Hour)
	ctx := context.Background()

	entry := probecache.Entry{
		URL:     "https://example.test/v",
		H264MP4: []int{360, 720},
		All:     []int{360, 720, 1080},
	}
	if err := cache.Store(ctx, entry); err != nil {
		t.Fatalf("Store returned error: %v", err)
	}

	got, found, err := cache.Lookup(ctx, entry.URL)
	if err != nil {
		t.Fatalf("Lookup returned error: %v", err)
	}
	if !found {
		t.Fatal("expected cache hit")
	}
	if len(got.H264MP4) != 2 || got.H264MP4[1] != 720 {
		t.Fatalf("unexpected h264 set: %v", got.H264MP4)
	}
	if len(got.All) != 3 {
		t.Fatalf("unexpected all set: %v", got.All)
	}
	if got.CachedAt.IsZero() {
		t.Fatal("expected cached timestamp")
	}
}

func TestLookupMiss(t *testing.T) {
	cache := openCache(t, time.Hour)
	_, found, err := cache.Lookup(context.Background(), "https://example.test/absent")
	if err != nil {
		t.Fatalf("Lookup returned error: %v", err)
	}
	if found {
		t.Fatal("expected miss")
	}
}

func TestLookupExpiredEntryEvicts(t *testing.T) {
	cache := openCache(t, time.Hour)
	ctx := context.Background()

	entry := probecache.Entry{
		URL:      "https://example.test/old",
		All:      []int{720},
		CachedAt: time.Now().UTC().Add(-2 * time.Hour),
	}
	if err := cache.Store(ctx, entry); err != nil {
		t.Fatalf("Store returned error: %v", err)
	}

	_, found, err := cache.Lookup(ctx, entry.URL)
	if err != nil {
		t.Fatalf("Lookup returned error: %v", err)
	}
	if found {
		t.Fatal("expected expired entry to miss")
	}
}

func TestStoreReplacesExisting(t *testing.T) {
	cache := openCache(t, time.Hour)
	ctx := context.Background()
	url := "https://example.test/v"

	if err := cache.Store(ctx, probecache.Entry{URL: url, All: []int{360}}); err != nil {
		t.Fatalf("first Store: %v", err)
	}
	if err := cache.Store(ctx, probecache.Entry{URL: url, All: []int{360, 1080}}); err != nil {
		t.Fatalf("second Store: %v", err)
	}

	got, found, err := cache.Lookup(ctx, url)
	if err != nil || !found {
		t.Fatalf("Lookup after replace: found=%v err=%v", found, err)
	}
	if len(got.All) != 2 {
		t.Fatalf("expected replaced entry, got %v", got.All)
	}
}

func TestPruneRemovesExpired(t *testing.T) {
	cache := openCache(t, time.Hour)
	ctx := context.Background()

	fresh := probecache.Entry{URL: "https://example.test/fresh", All: []int{720}}
	stale := probecache.Entry{
		URL:      "https://example.test/stale",
		All:      []int{480},
		CachedAt: time.Now().UTC().Add(-3 * time.Hour),
	}
	for _, entry := range []probecache.Entry{fresh, stale} {
		if err := cache.Store(ctx, entry); err != nil {
			t.Fatalf("Store: %v", err)
		}
	}

	pruned, err := cache.Prune(ctx)
	if err != nil {
		t.Fatalf("Prune returned error: %v", err)
	}
	if pruned != 1 {
		t.Fatalf("expected 1 pruned entry, got %d", pruned)
	}
	if _, found, _ := cache.Lookup(ctx, fresh.URL); !found {
		t.Fatal("fresh entry should survive pruning")
	}
}

func TestOpenRejectsSecondLocker(t *testing.T) {
	path := filepath.Join(t.TempDir(), "probecache.db")
	first, err := probecache.Open(path, time.Hour, nil)
	if err != nil {
		t.Fatalf("first Open: %v", err)
	}
	defer first.Close()

	if _, err := probecache.Open(path, time.Hour, nil); err == nil {
		t.Fatal("expected second open to fail while locked")
	}
}

func TestOpenValidatesArguments(t *testing.T) {
	if _, err := probecache.Open("", time.Hour, nil); err == nil {
		t.Fatal("expected error for empty path")
	}
	if _, err := probecache.Open(filepath.Join(t.TempDir(), "c.db"), 0, nil); err == nil {
		t.Fatal("expected error for zero ttl")
	}
}

func TestOpenPrunesExpiredEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "probecache.db")
	ctx := context.Background()

	first, err := probecache.Open(path, time.Hour, nil)
	if err != nil {
		t.Fatalf("first Open: %v", err)
	}
	stale := probecache.Entry{
		URL:      "https://example.test/stale",
		All:      []int{480},
		CachedAt: time.Now().UTC().Add(-3 * time.Hour),
	}
	if err := first.Store(ctx, stale); err != nil {
		t.Fatalf("Store: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	second, err := probecache.Open(path, time.Hour, nil)
	if err != nil {
		t.Fatalf("second Open: %v", err)
	}
	defer second.Close()

	pruned, err := second.Prune(ctx)
	if err != nil {
		t.Fatalf("Prune returned error: %v", err)
	}
	if pruned != 0 {
		t.Fatalf("expected Open to have pruned the stale entry, %d left", pruned)
	}
}

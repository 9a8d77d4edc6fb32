package cache

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestStoreSetGetDelete(t *testing.T) {
	ctx := context.Background()
	store := NewStore(time.Minute)

	if _, ok := store.Get(ctx, "missing"); ok {
		t.Fatal("Get returned a value for a missing key")
	}

	store.Set(ctx, "k", 42)
	got, ok := store.Get(ctx, "k")
	if !ok || got != 42 {
		t.Fatalf("Get = %v, %v; want 42, true", got, ok)
	}

	store.Delete(ctx, "k")
	if _, ok := store.Get(ctx, "k"); ok {
		t.Fatal("Get returned a deleted key")
	}
}

func TestStoreExpiry(t *testing.T) {
	ctx := context.Background()
	store := NewStore(10 * time.Millisecond)

	store.Set(ctx, "k", "v")
	time.Sleep(25 * time.Millisecond)

	if _, ok := store.Get(ctx, "k"); ok {
		t.Fatal("Get returned an expired entry")
	}
}

func TestStoreDeletePrefix(t *testing.T) {
	ctx := context.Background()
	store := NewStore(time.Minute)

	store.Set(ctx, "matches:premier-league", 1)
	store.Set(ctx, "matches:la-liga", 2)
	store.Set(ctx, "standings:l1", 3)

	store.DeletePrefix(ctx, "matches:")

	if _, ok := store.Get(ctx, "matches:premier-league"); ok {
		t.Fatal("prefix delete left matches:premier-league")
	}
	if _, ok := store.Get(ctx, "matches:la-liga"); ok {
		t.Fatal("prefix delete left matches:la-liga")
	}
	if _, ok := store.Get(ctx, "standings:l1"); !ok {
		t.Fatal("prefix delete removed an unrelated key")
	}
}

func TestGetOrLoadCoalesces(t *testing.T) {
	ctx := context.Background()
	store := NewStore(time.Minute)

	var loads atomic.Int32
	release := make(chan struct{})
	loader := func(context.Context) (any, error) {
		loads.Add(1)
		<-release
		return "value", nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := store.GetOrLoad(ctx, "k", loader)
			if err != nil {
				t.Errorf("GetOrLoad returned error: %v", err)
			}
			if got != "value" {
				t.Errorf("GetOrLoad = %v", got)
			}
		}()
	}

	close(release)
	wg.Wait()

	if got := loads.Load(); got != 1 {
		t.Fatalf("loader ran %d times, want 1", got)
	}

	// Subsequent calls hit the cache.
	if _, err := store.GetOrLoad(ctx, "k", loader); err != nil {
		t.Fatalf("GetOrLoad returned error: %v", err)
	}
	if got := loads.Load(); got != 1 {
		t.Fatalf("loader ran %d times after warm cache, want 1", got)
	}
}

func TestGetOrLoadDoesNotCacheErrors(t *testing.T) {
	ctx := context.Background()
	store := NewStore(time.Minute)

	calls := 0
	loader := func(context.Context) (any, error) {
		calls++
		if calls == 1 {
			return nil, fmt.Errorf("transient")
		}
		return "ok", nil
	}

	if _, err := store.GetOrLoad(ctx, "k", loader); err == nil {
		t.Fatal("expected error from first load")
	}
	got, err := store.GetOrLoad(ctx, "k", loader)
	if err != nil {
		t.Fatalf("GetOrLoad returned error: %v", err)
	}
	if got != "ok" {
		t.Fatalf("GetOrLoad = %v, want ok", got)
	}
}

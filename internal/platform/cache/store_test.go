package cache

import (
	"context"
	"errors"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestFileStore_GetOrLoad_UsesSingleFlight(t *testing.T) {
	t.Parallel()

	store, err := NewFileStore(t.TempDir(), time.Minute)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	var calls atomic.Int32

	loader := func(context.Context) ([]byte, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return []byte(`{"matches":[]}`), nil
	}

	const workers = 32
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)
	errCh := make(chan error, workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, err := store.GetOrLoad(context.Background(), "/competitions/2021/matches?season=2023", loader)
			if err != nil {
				errCh <- err
				return
			}
			if string(v) != `{"matches":[]}` {
				errCh <- errors.New("unexpected value " + string(v))
			}
		}()
	}

	close(start)
	wg.Wait()
	close(errCh)
	for err := range errCh {
		t.Fatalf("get or load: %v", err)
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("expected one loader call, got %d", got)
	}
}

func TestFileStore_TTL(t *testing.T) {
	t.Parallel()

	store, err := NewFileStore(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	ctx := context.Background()
	if err := store.Set(ctx, "k", []byte("v1")); err != nil {
		t.Fatalf("set: %v", err)
	}

	if got, ok := store.Get(ctx, "k"); !ok || string(got) != "v1" {
		t.Fatalf("expected fresh hit, got %q ok=%v", got, ok)
	}

	store.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, ok := store.Get(ctx, "k"); ok {
		t.Fatalf("expected stale entry to miss")
	}

	v, err := store.GetOrLoad(ctx, "k", func(context.Context) ([]byte, error) { return []byte("v2"), nil })
	if err != nil || string(v) != "v2" {
		t.Fatalf("expected reload, got %q err=%v", v, err)
	}
}

func TestFileStore_LoaderErrorIsNotCached(t *testing.T) {
	t.Parallel()

	store, err := NewFileStore(t.TempDir(), 0)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	ctx := context.Background()
	boom := errors.New("boom")

	if _, err := store.GetOrLoad(ctx, "k", func(context.Context) ([]byte, error) { return nil, boom }); !errors.Is(err, boom) {
		t.Fatalf("expected loader error, got %v", err)
	}
	if _, ok := store.Get(ctx, "k"); ok {
		t.Fatalf("failed loads must not be cached")
	}

	if err := store.Set(ctx, "k", []byte("x")); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := store.Delete(ctx, "k"); err != nil {
		t.Fatalf("deleting a missing entry should be a no-op: %v", err)
	}
	entries, _ := os.ReadDir(store.dir)
	if len(entries) != 0 {
		t.Fatalf("expected no leftover files, got %d", len(entries))
	}
}

func TestFileStore_NilPassesThrough(t *testing.T) {
	t.Parallel()

	var store *FileStore
	v, err := store.GetOrLoad(context.Background(), "k", func(context.Context) ([]byte, error) { return []byte("x"), nil })
	if err != nil || string(v) != "x" {
		t.Fatalf("nil store should call loader, got %q err=%v", v, err)
	}
	if _, err := NewFileStore("", time.Second); err == nil {
		t.Fatalf("expected error for empty dir")
	}
}

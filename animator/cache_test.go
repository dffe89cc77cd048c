package animator

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
)

func TestResourceCacheResolve(t *testing.T) {
	t.Run("caches_by_id", func(t *testing.T) {
		cache := NewResourceCache()
		var loads int32
		load := func(id string) (Resource, error) {
			atomic.AddInt32(&loads, 1)
			return ResourceID(id), nil
		}

		for i := 0; i < 3; i++ {
			res, err := cache.Resolve("walk", load)
			if err != nil {
				t.Fatalf("resolve: %v", err)
			}
			if res.ID() != "walk" {
				t.Fatalf("expected id walk, got %q", res.ID())
			}
		}
		if loads != 1 {
			t.Fatalf("expected one load, got %d", loads)
		}
		if cache.Len() != 1 {
			t.Fatalf("expected one cached resource, got %d", cache.Len())
		}
	})

	t.Run("error_not_cached", func(t *testing.T) {
		cache := NewResourceCache()
		fail := true
		load := func(id string) (Resource, error) {
			if fail {
				return nil, fmt.Errorf("boom")
			}
			return ResourceID(id), nil
		}

		if _, err := cache.Resolve("walk", load); err == nil {
			t.Fatal("expected error")
		}
		fail = false
		if _, err := cache.Resolve("walk", load); err != nil {
			t.Fatalf("expected retry to succeed, got %v", err)
		}
	})

	t.Run("forget_reloads", func(t *testing.T) {
		cache := NewResourceCache()
		var loads int32
		load := func(id string) (Resource, error) {
			atomic.AddInt32(&loads, 1)
			return ResourceID(id), nil
		}

		_, _ = cache.Resolve("walk", load)
		cache.Forget("walk")
		_, _ = cache.Resolve("walk", load)
		if loads != 2 {
			t.Fatalf("expected reload after Forget, got %d loads", loads)
		}
	})

	t.Run("concurrent_resolves_share_one_load", func(t *testing.T) {
		cache := NewResourceCache()
		var loads int32
		gate := make(chan struct{})
		load := func(id string) (Resource, error) {
			<-gate
			atomic.AddInt32(&loads, 1)
			return ResourceID(id), nil
		}

		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := cache.Resolve("walk", load); err != nil {
					t.Errorf("resolve: %v", err)
				}
			}()
		}
		close(gate)
		wg.Wait()

		if loads != 1 {
			t.Fatalf("expected singleflight to collapse loads, got %d", loads)
		}
	})

	t.Run("nil_load_func", func(t *testing.T) {
		cache := NewResourceCache()
		if _, err := cache.Resolve("walk", nil); err == nil {
			t.Fatal("expected error for nil load func")
		}
	})
}

package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"VergeDigest/internal/domain"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func countingLoader(calls *int32) Loader {
	return func(context.Context) (domain.Listing, error) {
		n := atomic.AddInt32(calls, 1)
		return domain.Listing{TotalResults: int(n)}, nil
	}
}

func TestListingCacheServesWithinTTL(t *testing.T) {
	t.Parallel()

	var calls int32
	clock := &fakeClock{now: time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC)}
	c := NewListingCache(countingLoader(&calls), 2*time.Hour).WithClock(clock.Now)

	first, err := c.Get(context.Background())
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	clock.Advance(2*time.Hour - time.Second)
	second, _ := c.Get(context.Background())

	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Fatalf("expected one load, got %d", n)
	}
	if first.TotalResults != second.TotalResults {
		t.Fatalf("cached value changed within ttl")
	}
	if !c.FetchedAt().Equal(time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected fetchedAt: %v", c.FetchedAt())
	}
}

func TestListingCacheReloadsAfterExpiry(t *testing.T) {
	t.Parallel()

	var calls int32
	clock := &fakeClock{now: time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC)}
	c := NewListingCache(countingLoader(&calls), time.Hour).WithClock(clock.Now)

	_, _ = c.Get(context.Background())
	clock.Advance(time.Hour)
	listing, err := c.Get(context.Background())
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}

	if n := atomic.LoadInt32(&calls); n != 2 || listing.TotalResults != 2 {
		t.Fatalf("expected reload after expiry, calls=%d value=%d", n, listing.TotalResults)
	}
	if !c.FetchedAt().Equal(clock.Now()) {
		t.Fatalf("fetchedAt not refreshed: %v", c.FetchedAt())
	}
}

func TestListingCacheDoesNotCacheErrors(t *testing.T) {
	t.Parallel()

	var calls int32
	loadErr := errors.New("upstream down")
	c := NewListingCache(func(context.Context) (domain.Listing, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			return domain.Listing{}, loadErr
		}
		return domain.Listing{Status: "ok"}, nil
	}, time.Hour)

	if _, err := c.Get(context.Background()); !errors.Is(err, loadErr) {
		t.Fatalf("expected load error, got %v", err)
	}
	if !c.FetchedAt().IsZero() {
		t.Fatalf("failed load must not set fetchedAt")
	}

	listing, err := c.Get(context.Background())
	if err != nil || listing.Status != "ok" {
		t.Fatalf("expected retry to succeed, got %+v %v", listing, err)
	}
}

func TestListingCacheInvalidate(t *testing.T) {
	t.Parallel()

	var calls int32
	c := NewListingCache(countingLoader(&calls), time.Hour)

	_, _ = c.Get(context.Background())
	c.Invalidate()
	if !c.FetchedAt().IsZero() {
		t.Fatalf("invalidated cache should report zero fetchedAt")
	}
	_, _ = c.Get(context.Background())

	if n := atomic.LoadInt32(&calls); n != 2 {
		t.Fatalf("expected reload after invalidate, got %d loads", n)
	}
}

func TestListingCacheConcurrentGetLoadsOnce(t *testing.T) {
	t.Parallel()

	var calls int32
	release := make(chan struct{})
	c := NewListingCache(func(context.Context) (domain.Listing, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return domain.Listing{Status: "ok"}, nil
	}, time.Hour)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			listing, err := c.Get(context.Background())
			if err != nil || listing.Status != "ok" {
				t.Errorf("unexpected result: %+v %v", listing, err)
			}
		}()
	}

	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Fatalf("expected single load, got %d", n)
	}
}

func TestListingCacheWaiterHonorsContext(t *testing.T) {
	t.Parallel()

	var calls int32
	release := make(chan struct{})
	started := make(chan struct{})
	c := NewListingCache(func(context.Context) (domain.Listing, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			close(started)
		}
		<-release
		return domain.Listing{Status: "ok"}, nil
	}, time.Hour)

	leader := make(chan error, 1)
	go func() {
		_, err := c.Get(context.Background())
		leader <- err
	}()
	<-started

	ctx, cancel := context.WithCancel(context.Background())
	waiter := make(chan error, 1)
	go func() {
		_, err := c.Get(ctx)
		waiter <- err
	}()
	cancel()

	select {
	case err := <-waiter:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("cancelled waiter stayed blocked on the in-flight load")
	}

	close(release)
	if err := <-leader; err != nil {
		t.Fatalf("leader Get error: %v", err)
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Fatalf("expected single load, got %d", n)
	}
}

func TestListingCacheLoadSurvivesCallerCancel(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	c := NewListingCache(func(ctx context.Context) (domain.Listing, error) {
		<-release
		if err := ctx.Err(); err != nil {
			return domain.Listing{}, err
		}
		return domain.Listing{Status: "ok"}, nil
	}, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := c.Get(ctx)
		done <- err
	}()
	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}

	close(release)
	listing, err := c.Get(context.Background())
	if err != nil || listing.Status != "ok" {
		t.Fatalf("expected detached load to populate cache, got %+v %v", listing, err)
	}
}

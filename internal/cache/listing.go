package cache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"VergeDigest/internal/domain"
)

const loadKey = "listing"

// Loader fetches a fresh listing when the cached one has expired.
type Loader func(ctx context.Context) (domain.Listing, error)

// ListingCache memoizes the headline listing for a fixed TTL. Concurrent
// readers share one in-flight fetch and never see a partially replaced value.
// A reader whose context ends stops waiting; the shared fetch keeps running
// for the others. Failed loads are not cached.
type ListingCache struct {
	mu        sync.Mutex
	group     singleflight.Group
	load      Loader
	ttl       time.Duration
	now       func() time.Time
	value     domain.Listing
	fetchedAt time.Time
	valid     bool
}

// NewListingCache builds a cache around load with the given time-to-live.
func NewListingCache(load Loader, ttl time.Duration) *ListingCache {
	return &ListingCache{load: load, ttl: ttl, now: time.Now}
}

// WithClock replaces the time source; intended for tests.
func (c *ListingCache) WithClock(now func() time.Time) *ListingCache {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
	return c
}

// Get returns the cached listing if fresh, otherwise loads and stores a new one.
func (c *ListingCache) Get(ctx context.Context) (domain.Listing, error) {
	if listing, ok := c.cached(); ok {
		return listing, nil
	}

	// The load is detached from ctx so one caller leaving does not fail the rest.
	loadCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(loadKey, func() (any, error) {
		if listing, ok := c.cached(); ok {
			return listing, nil
		}
		listing, err := c.load(loadCtx)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.value = listing
		c.fetchedAt = c.now()
		c.valid = true
		c.mu.Unlock()
		return listing, nil
	})

	select {
	case <-ctx.Done():
		return domain.Listing{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return domain.Listing{}, res.Err
		}
		return res.Val.(domain.Listing), nil
	}
}

// Invalidate forces the next Get to reload.
func (c *ListingCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.valid = false
}

// FetchedAt reports when the current value was loaded; zero if nothing is cached.
func (c *ListingCache) FetchedAt() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.valid {
		return time.Time{}
	}
	return c.fetchedAt
}

// TTL returns the configured time-to-live.
func (c *ListingCache) TTL() time.Duration {
	return c.ttl
}

func (c *ListingCache) cached() (domain.Listing, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.freshLocked() {
		return domain.Listing{}, false
	}
	return c.value, true
}

func (c *ListingCache) freshLocked() bool {
	return c.valid && c.now().Sub(c.fetchedAt) < c.ttl
}

package roads

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const DefaultQueryInterval = 500 * time.Millisecond

// Cache is a stale-tolerant per-session view of road status. The tick loop
// calls Refresh without blocking; lookups resolve asynchronously and each
// writes only its own session's entry, last write wins. Stamping the query
// time before the lookup is issued guarantees at most one in-flight lookup
// per session.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*entry

	client   FeatureClient
	origin   Origin
	interval time.Duration
	now      func() time.Time
}

type entry struct {
	onRoad    bool
	lastQuery time.Time
}

type CacheOpt func(*Cache)

// WithInterval sets the minimum time between lookups for one session.
func WithInterval(d time.Duration) CacheOpt {
	return func(c *Cache) {
		c.interval = d
	}
}

// WithNow overrides the cache clock.
func WithNow(now func() time.Time) CacheOpt {
	return func(c *Cache) {
		c.now = now
	}
}

func NewCache(client FeatureClient, origin Origin, opts ...CacheOpt) *Cache {
	c := &Cache{
		entries:  make(map[string]*entry),
		client:   client,
		origin:   origin,
		interval: DefaultQueryInterval,
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Refresh issues an asynchronous lookup for the session if its interval has
// elapsed. On lookup failure the previous boolean stays in place (stale data
// beats no data); on coordinate-conversion failure the query time is reset
// so the next tick retries immediately.
func (c *Cache) Refresh(ctx context.Context, sessionId string, x, y float64) {
	c.mu.Lock()
	e, ok := c.entries[sessionId]
	if !ok {
		e = &entry{}
		c.entries[sessionId] = e
	}

	now := c.now()
	if now.Sub(e.lastQuery) < c.interval {
		c.mu.Unlock()
		return
	}
	// Stamp before the lookup goes out so overlapping ticks don't issue a
	// second query for the same session.
	e.lastQuery = now
	c.mu.Unlock()

	lat, lon, err := c.origin.ToLatLon(x, y)
	if err != nil {
		slog.Warn("road lookup skipped", "session", sessionId, "error", err)
		c.mu.Lock()
		e.lastQuery = time.Time{}
		c.mu.Unlock()
		return
	}

	go func() {
		onRoad, err := c.client.OnRoad(ctx, lat, lon)
		if err != nil {
			slog.Debug("road lookup failed, keeping stale status", "session", sessionId, "error", err)
			return
		}
		c.mu.Lock()
		e.onRoad = onRoad
		c.mu.Unlock()
	}()
}

// OnRoad returns the last known road status for the session. Unknown
// sessions are off-road.
func (c *Cache) OnRoad(sessionId string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[sessionId]; ok {
		return e.onRoad
	}
	return false
}

// Forget drops the session's entry. Called when a player leaves.
func (c *Cache) Forget(sessionId string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, sessionId)
}

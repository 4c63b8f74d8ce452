package roads

import (
	"context"
	"fmt"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/pixil98/go-testutil"
)

type fakeClient struct {
	mu     sync.Mutex
	onRoad bool
	err    error
	calls  int
}

func (f *fakeClient) OnRoad(ctx context.Context, lat, lon float64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.onRoad, f.err
}

func (f *fakeClient) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeClient) set(onRoad bool, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onRoad = onRoad
	f.err = err
}

// waitFor polls until the condition holds or the deadline passes. Lookups
// resolve on their own goroutine, so tests observe them asynchronously.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestCache_RefreshResolvesAsync(t *testing.T) {
	client := &fakeClient{onRoad: true}
	c := NewCache(client, Origin{Lat: 40, Lon: -74})

	testutil.AssertEqual(t, "unknown session", c.OnRoad("s1"), false)

	c.Refresh(context.Background(), "s1", 10, 20)
	waitFor(t, "lookup to land", func() bool { return c.OnRoad("s1") })
}

func TestCache_ThrottlesPerSession(t *testing.T) {
	client := &fakeClient{onRoad: true}
	now := time.Unix(1000, 0)
	c := NewCache(client, Origin{Lat: 40, Lon: -74},
		WithNow(func() time.Time { return now }),
	)

	// Three back-to-back ticks inside one interval: a single lookup.
	for i := 0; i < 3; i++ {
		c.Refresh(context.Background(), "s1", 10, 20)
	}
	waitFor(t, "first lookup", func() bool { return client.callCount() == 1 })

	// Advancing past the interval opens the gate again.
	now = now.Add(DefaultQueryInterval)
	c.Refresh(context.Background(), "s1", 10, 20)
	waitFor(t, "second lookup", func() bool { return client.callCount() == 2 })
}

func TestCache_SessionsThrottleIndependently(t *testing.T) {
	client := &fakeClient{}
	now := time.Unix(1000, 0)
	c := NewCache(client, Origin{Lat: 40, Lon: -74},
		WithNow(func() time.Time { return now }),
	)

	c.Refresh(context.Background(), "s1", 0, 0)
	c.Refresh(context.Background(), "s2", 5, 5)
	waitFor(t, "both lookups", func() bool { return client.callCount() == 2 })
}

func TestCache_LookupFailureKeepsStaleStatus(t *testing.T) {
	client := &fakeClient{onRoad: true}
	now := time.Unix(1000, 0)
	c := NewCache(client, Origin{Lat: 40, Lon: -74},
		WithNow(func() time.Time { return now }),
	)

	c.Refresh(context.Background(), "s1", 10, 20)
	waitFor(t, "initial status", func() bool { return c.OnRoad("s1") })

	client.set(false, fmt.Errorf("service down"))
	now = now.Add(DefaultQueryInterval)
	c.Refresh(context.Background(), "s1", 10, 20)
	waitFor(t, "failed lookup", func() bool { return client.callCount() == 2 })

	// Stale data beats no data.
	testutil.AssertEqual(t, "still on road", c.OnRoad("s1"), true)
}

func TestCache_BadCoordinatesRetryNextTick(t *testing.T) {
	client := &fakeClient{}
	now := time.Unix(1000, 0)
	c := NewCache(client, Origin{Lat: 40, Lon: -74},
		WithNow(func() time.Time { return now }),
	)

	// Conversion fails before any lookup is issued.
	c.Refresh(context.Background(), "s1", math.NaN(), 0)
	testutil.AssertEqual(t, "no lookup issued", client.callCount(), 0)

	// The very next tick retries without waiting out the interval.
	c.Refresh(context.Background(), "s1", 10, 20)
	waitFor(t, "retry lookup", func() bool { return client.callCount() == 1 })
}

func TestCache_Forget(t *testing.T) {
	client := &fakeClient{onRoad: true}
	c := NewCache(client, Origin{Lat: 40, Lon: -74})

	c.Refresh(context.Background(), "s1", 10, 20)
	waitFor(t, "lookup to land", func() bool { return c.OnRoad("s1") })

	c.Forget("s1")
	testutil.AssertEqual(t, "forgotten", c.OnRoad("s1"), false)
}

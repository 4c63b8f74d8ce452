package driver

import (
	"context"
	"time"
)

const (
	// DefaultTickLength is the nominal 60 Hz simulation rate.
	DefaultTickLength = time.Second / 60
)

// Manager receives simulation ticks with the real elapsed time since the
// previous tick. Managers decide for themselves how to handle oversized
// deltas.
type Manager interface {
	Tick(ctx context.Context, dt float64) error
}

// ArenaDriver runs the fixed-rate simulation clock. Ticks of one driver
// never overlap; each manager sees a single logical sequence of updates.
type ArenaDriver struct {
	tickLength time.Duration
	managers   []Manager
}

func NewArenaDriver(managers []Manager, opts ...ArenaDriverOpt) *ArenaDriver {
	d := &ArenaDriver{
		tickLength: DefaultTickLength,
		managers:   managers,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

func (d *ArenaDriver) Start(ctx context.Context) error {
	ticker := time.NewTicker(d.tickLength)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			if err := d.Tick(ctx, dt); err != nil {
				return err
			}
		}
	}
}

func (d *ArenaDriver) Tick(ctx context.Context, dt float64) error {
	for _, m := range d.managers {
		if err := m.Tick(ctx, dt); err != nil {
			return err
		}
	}
	return nil
}

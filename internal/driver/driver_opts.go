package driver

import "time"

type ArenaDriverOpt func(*ArenaDriver)

func WithTickLength(tickLength time.Duration) ArenaDriverOpt {
	return func(d *ArenaDriver) {
		d.tickLength = tickLength
	}
}

package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-arena/internal/room"
	"github.com/pixil98/go-errors"
)

type Config struct {
	TickInterval string           `json:"tick_interval"`
	Listeners    []ListenerConfig `json:"listeners"`
	Nats         NatsConfig       `json:"nats"`
	Room         RoomConfig       `json:"room"`
	Roads        RoadsConfig      `json:"roads"`
	Tuning       TuningConfig     `json:"tuning"`
}

func (c *Config) Validate() error {
	el := errors.NewErrorList()

	if c.TickInterval != "" {
		d, err := time.ParseDuration(c.TickInterval)
		if err != nil {
			el.Add(fmt.Errorf("parsing tick_interval: %w", err))
		} else if d <= 0 {
			el.Add(fmt.Errorf("tick_interval must be positive"))
		} else if d.Seconds() > room.MaxTickDelta {
			// A tick longer than the hiccup guard would skip every update.
			el.Add(fmt.Errorf("tick_interval must be under %v", time.Duration(room.MaxTickDelta*float64(time.Second))))
		}
	}

	if len(c.Listeners) == 0 {
		el.Add(fmt.Errorf("at least one listener is required"))
	}
	for i, l := range c.Listeners {
		err := l.Validate()
		if err != nil {
			el.Add(fmt.Errorf("listener %d: %w", i, err))
		}
	}

	el.Add(c.Nats.Validate())
	el.Add(c.Room.Validate())
	el.Add(c.Roads.Validate())
	el.Add(c.Tuning.Validate())

	return el.Err()
}

// TickLength returns the configured tick interval, defaulting to 60 Hz.
func (c *Config) TickLength() (time.Duration, error) {
	if c.TickInterval == "" {
		return time.Second / 60, nil
	}
	return time.ParseDuration(c.TickInterval)
}

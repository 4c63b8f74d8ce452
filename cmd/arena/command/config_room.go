package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-arena/internal/arena"
	"github.com/pixil98/go-arena/internal/room"
	"github.com/pixil98/go-errors"
)

type RoomConfig struct {
	GracePeriod      string `json:"grace_period"`
	BroadcastDivisor int    `json:"broadcast_divisor"`
	MaxAI            int    `json:"max_ai"`
}

func (c *RoomConfig) Validate() error {
	el := errors.NewErrorList()

	if c.GracePeriod != "" {
		d, err := time.ParseDuration(c.GracePeriod)
		if err != nil {
			el.Add(fmt.Errorf("parsing grace_period: %w", err))
		} else if d <= 0 {
			el.Add(fmt.Errorf("grace_period must be positive"))
		}
	}
	if c.BroadcastDivisor < 0 {
		el.Add(fmt.Errorf("broadcast_divisor must not be negative"))
	}
	if c.MaxAI < 0 {
		el.Add(fmt.Errorf("max_ai must not be negative"))
	}

	return el.Err()
}

func (c *RoomConfig) BuildRoom(tun *arena.Tuning, rules *arena.Rules, roads room.RoadStatus, pub room.Publisher) (*room.Room, error) {
	var opts []room.RoomOpt
	if c.GracePeriod != "" {
		d, err := time.ParseDuration(c.GracePeriod)
		if err != nil {
			return nil, fmt.Errorf("parsing grace_period: %w", err)
		}
		opts = append(opts, room.WithGracePeriod(d))
	}
	if c.BroadcastDivisor > 0 {
		opts = append(opts, room.WithBroadcastDivisor(c.BroadcastDivisor))
	}
	if c.MaxAI > 0 {
		opts = append(opts, room.WithMaxAI(c.MaxAI))
	}

	return room.NewRoom(tun, rules, roads, pub, opts...), nil
}

package command

import (
	"fmt"

	"github.com/pixil98/go-arena/internal/arena"
	"github.com/pixil98/go-arena/internal/driver"
	"github.com/pixil98/go-arena/internal/listener"
	"github.com/pixil98/go-arena/internal/messaging"
	"github.com/pixil98/go-service"
)

func BuildWorkers(config interface{}) (service.WorkerList, error) {
	cfg, ok := config.(*Config)
	if !ok {
		return nil, fmt.Errorf("unable to cast config")
	}

	tun, err := cfg.Tuning.BuildTuning()
	if err != nil {
		return nil, fmt.Errorf("loading tuning: %w", err)
	}

	natsServer, err := cfg.Nats.BuildNatsServer()
	if err != nil {
		return nil, fmt.Errorf("creating nats server: %w", err)
	}
	pub := messaging.NewArenaPublisher(natsServer)

	cache, err := cfg.Roads.BuildCache()
	if err != nil {
		return nil, fmt.Errorf("creating road cache: %w", err)
	}

	rm, err := cfg.Room.BuildRoom(tun, arena.NewRules(tun), cache, pub)
	if err != nil {
		return nil, fmt.Errorf("creating room: %w", err)
	}

	tickLength, err := cfg.TickLength()
	if err != nil {
		return nil, fmt.Errorf("parsing tick_interval: %w", err)
	}
	drv := driver.NewArenaDriver([]driver.Manager{rm}, driver.WithTickLength(tickLength))

	// Create Listeners
	cm := listener.NewConnectionManager(rm, natsServer)
	listeners := make(service.WorkerList, len(cfg.Listeners))
	for i, l := range cfg.Listeners {
		lst, err := l.BuildListener(cm)
		if err != nil {
			return nil, fmt.Errorf("creating listener %d: %w", i, err)
		}
		listeners[fmt.Sprintf("listener-%d", i)] = lst
	}

	return service.WorkerList{
		"nats":      natsServer,
		"driver":    drv,
		"listeners": &listeners,
	}, nil
}

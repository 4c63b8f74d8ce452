package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-arena/internal/roads"
	"github.com/pixil98/go-errors"
)

type RoadsConfig struct {
	Endpoint      string       `json:"endpoint"`
	QueryInterval string       `json:"query_interval"`
	Timeout       string       `json:"timeout"`
	Origin        roads.Origin `json:"origin"`
}

func (c *RoadsConfig) Validate() error {
	el := errors.NewErrorList()

	if c.Endpoint == "" {
		el.Add(fmt.Errorf("endpoint is required"))
	}
	if c.QueryInterval != "" {
		d, err := time.ParseDuration(c.QueryInterval)
		if err != nil {
			el.Add(fmt.Errorf("parsing query_interval: %w", err))
		} else if d <= 0 {
			el.Add(fmt.Errorf("query_interval must be positive"))
		}
	}
	if c.Timeout != "" {
		_, err := time.ParseDuration(c.Timeout)
		if err != nil {
			el.Add(fmt.Errorf("parsing timeout: %w", err))
		}
	}
	if c.Origin.Lat < -90 || c.Origin.Lat > 90 {
		el.Add(fmt.Errorf("origin lat must be between -90 and 90"))
	}
	if c.Origin.Lon < -180 || c.Origin.Lon > 180 {
		el.Add(fmt.Errorf("origin lon must be between -180 and 180"))
	}

	return el.Err()
}

func (c *RoadsConfig) BuildCache() (*roads.Cache, error) {
	var clientOpts []roads.FeatureClientOpt
	if c.Timeout != "" {
		d, err := time.ParseDuration(c.Timeout)
		if err != nil {
			return nil, fmt.Errorf("parsing timeout: %w", err)
		}
		clientOpts = append(clientOpts, roads.WithTimeout(d))
	}
	client := roads.NewHTTPFeatureClient(c.Endpoint, clientOpts...)

	var cacheOpts []roads.CacheOpt
	if c.QueryInterval != "" {
		d, err := time.ParseDuration(c.QueryInterval)
		if err != nil {
			return nil, fmt.Errorf("parsing query_interval: %w", err)
		}
		cacheOpts = append(cacheOpts, roads.WithInterval(d))
	}

	return roads.NewCache(client, c.Origin, cacheOpts...), nil
}

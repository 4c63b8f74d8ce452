package command

import (
	"fmt"
	"os"

	"github.com/pixil98/go-arena/internal/arena"
	"github.com/pixil98/go-arena/internal/storage"
	"github.com/pixil98/go-errors"
)

type TuningConfig struct {
	AssetPath string `json:"asset_path"`
	Profile   string `json:"profile"`
}

func (c *TuningConfig) Validate() error {
	el := errors.NewErrorList()

	if c.AssetPath != "" {
		_, err := os.Stat(c.AssetPath)
		if err != nil {
			el.Add(fmt.Errorf("invalid asset_path %q: %w", c.AssetPath, err))
		}
	}
	if c.Profile != "" && c.AssetPath == "" {
		el.Add(fmt.Errorf("profile requires asset_path"))
	}

	return el.Err()
}

// BuildTuning loads the selected tuning profile, falling back to the
// compiled-in defaults when no asset path is configured.
func (c *TuningConfig) BuildTuning() (*arena.Tuning, error) {
	if c.AssetPath == "" {
		return arena.DefaultTuning(), nil
	}

	store, err := storage.NewFileStore[*arena.Tuning](c.AssetPath)
	if err != nil {
		return nil, fmt.Errorf("creating tuning store: %w", err)
	}

	profile := c.Profile
	if profile == "" {
		profile = "default"
	}

	tun := store.Get(storage.Identifier(profile))
	if tun == nil {
		return nil, fmt.Errorf("tuning profile %q not found in %s", profile, c.AssetPath)
	}

	return tun, nil
}

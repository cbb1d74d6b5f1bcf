package config

import (
	"fmt"
	"time"
)

// Limits holds holder capacity settings.
type Limits struct {
	TileMaxItems      int   `yaml:"tile_max_items"`     // 0 = unlimited
	VaultMaxItems     int   `yaml:"vault_max_items"`    // nested contents included
	InventoryCapacity int32 `yaml:"inventory_capacity"` // weight units
}

// Decay holds time wheel parameters.
type Decay struct {
	Interval time.Duration `yaml:"interval"` // one bucket per interval
	Buckets  int           `yaml:"buckets"`
}

// Rotation returns the time covered by one full turn of the wheel.
func (d Decay) Rotation() time.Duration {
	return d.Interval * time.Duration(d.Buckets)
}

// WorldServer holds all configuration for the world server process.
type WorldServer struct {
	LogLevel string `yaml:"log_level"`

	// Item catalog
	CatalogPath string `yaml:"catalog_path"`

	Decay  Decay  `yaml:"decay"`
	Limits Limits `yaml:"limits"`

	// Persistence
	Database     DatabaseConfig `yaml:"database"`
	SaveInterval time.Duration  `yaml:"save_interval"`

	// Work units queued for the world goroutine before Submit blocks
	WorkQueueSize int `yaml:"work_queue_size"`
}

// DefaultWorldServer returns WorldServer config with sensible defaults.
func DefaultWorldServer() WorldServer {
	return WorldServer{
		LogLevel:    "info",
		CatalogPath: "config/items.yaml",
		Decay: Decay{
			Interval: time.Second,
			Buckets:  16,
		},
		Limits: Limits{
			TileMaxItems:      0,
			VaultMaxItems:     1000,
			InventoryCapacity: 4000,
		},
		Database:      DefaultDatabase(),
		SaveInterval:  5 * time.Minute,
		WorkQueueSize: 1024,
	}
}

// Validate reports settings the engine cannot run with.
func (c WorldServer) Validate() error {
	if c.Decay.Interval <= 0 {
		return fmt.Errorf("decay interval must be > 0, got %s", c.Decay.Interval)
	}
	if c.Decay.Buckets < 2 {
		return fmt.Errorf("decay buckets must be >= 2, got %d", c.Decay.Buckets)
	}
	if c.Limits.TileMaxItems < 0 {
		return fmt.Errorf("tile_max_items cannot be negative, got %d", c.Limits.TileMaxItems)
	}
	if c.WorkQueueSize <= 0 {
		return fmt.Errorf("work_queue_size must be > 0, got %d", c.WorkQueueSize)
	}
	return nil
}

// LoadWorldServer loads world server config from a YAML file.
// If the file doesn't exist, returns defaults.
func LoadWorldServer(path string) (WorldServer, error) {
	cfg := DefaultWorldServer()

	if err := loadYAML(path, &cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("validating config %s: %w", path, err)
	}

	return cfg, nil
}

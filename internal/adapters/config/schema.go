package config

import "time"

// File represents the structure of the chartcache.yaml configuration file.
// Every field can be overridden by a CHARTCACHE_* environment variable.
type File struct {
	Store  StoreSection  `yaml:"store"  envPrefix:"STORE_"`
	Raster RasterSection `yaml:"raster" envPrefix:"RASTER_"`
	Fonts  []string      `yaml:"fonts"  env:"FONTS" envSeparator:","`
	Log    LogSection    `yaml:"log"    envPrefix:"LOG_"`
}

// StoreSection configures snapshot persistence.
type StoreSection struct {
	Backend string `yaml:"backend" env:"BACKEND"`
	Path    string `yaml:"path"    env:"PATH"`
}

// RasterSection configures rasterization.
type RasterSection struct {
	Scale       float64       `yaml:"scale"       env:"SCALE"`
	SettleDelay time.Duration `yaml:"settleDelay" env:"SETTLE_DELAY"`
}

// LogSection configures logging.
type LogSection struct {
	JSON bool `yaml:"json" env:"JSON"`
}

package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	XMS     XMSConfig     `mapstructure:"xms"`
	Logging LoggingConfig `mapstructure:"logging"`
	Output  OutputConfig  `mapstructure:"output"`
	Filter  FilterConfig  `mapstructure:"filter"`
	Store   StoreConfig   `mapstructure:"store"`
	Reports ReportsConfig `mapstructure:"reports"`
}

// XMSConfig holds the API connection details
type XMSConfig struct {
	Endpoint      string        `mapstructure:"endpoint"`
	ServicePlanID string        `mapstructure:"service_plan_id"`
	Token         string        `mapstructure:"token"`
	Timeout       time.Duration `mapstructure:"timeout"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}

// OutputConfig selects how command results are printed
type OutputConfig struct {
	Format string `mapstructure:"format"`
}

// FilterConfig contains named filter presets. Preset names are matched
// case-insensitively since viper lowercases map keys.
type FilterConfig struct {
	Presets   map[string]string `mapstructure:"presets"`
	CacheSize int               `mapstructure:"cache_size"`
}

// StoreConfig configures the seen-message store used by inbound sync
type StoreConfig struct {
	Backend         string        `mapstructure:"backend"`
	Path            string        `mapstructure:"path"`
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// ReportsConfig controls concurrent delivery report fetching
type ReportsConfig struct {
	Concurrency int `mapstructure:"concurrency"`
}

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/s0up4200/xmsctl/xms"
)

// EnvPrefix prefixes every environment override, e.g. XMS_XMS_TOKEN.
const EnvPrefix = "XMS"

// Load loads the configuration from file and environment. A missing config
// file is not an error when no explicit path was given.
func Load(configPath string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".xmsctl"))
		}
		v.AddConfigPath("/etc/xmsctl/")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values. Every key needs a default
// so AutomaticEnv can override it during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("xms.endpoint", xms.DefaultEndpoint)
	v.SetDefault("xms.service_plan_id", "")
	v.SetDefault("xms.token", "")
	v.SetDefault("xms.timeout", 30*time.Second)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)

	v.SetDefault("output.format", "table")

	v.SetDefault("filter.presets", map[string]string{})
	v.SetDefault("filter.cache_size", 100)

	v.SetDefault("store.backend", "bbolt")
	v.SetDefault("store.path", defaultStorePath())
	v.SetDefault("store.ttl", 30*24*time.Hour)
	v.SetDefault("store.cleanup_interval", 24*time.Hour)

	v.SetDefault("reports.concurrency", 4)
}

func defaultStorePath() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "xmsctl", "seen.db")
	}
	return filepath.Join(".", "xmsctl-seen.db")
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if cfg.XMS.ServicePlanID == "" {
		return fmt.Errorf("xms.service_plan_id is required")
	}

	if cfg.XMS.Token == "" || cfg.XMS.Token == "your-token-here" {
		return fmt.Errorf("xms.token must be set to a valid API token")
	}

	if cfg.XMS.Timeout < 0 {
		return fmt.Errorf("xms.timeout must not be negative")
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	validOutputs := map[string]bool{
		"table": true,
		"json":  true,
		"yaml":  true,
	}
	if !validOutputs[cfg.Output.Format] {
		return fmt.Errorf("invalid output format: %s (must be 'table', 'json' or 'yaml')", cfg.Output.Format)
	}

	if cfg.Filter.CacheSize < 0 {
		return fmt.Errorf("filter.cache_size must not be negative")
	}

	switch cfg.Store.Backend {
	case "none", "":
	case "bbolt":
		if cfg.Store.Path == "" {
			return fmt.Errorf("store.path is required for the bbolt backend")
		}
	default:
		return fmt.Errorf("invalid store.backend: %s (must be 'bbolt' or 'none')", cfg.Store.Backend)
	}

	if cfg.Reports.Concurrency < 1 {
		return fmt.Errorf("reports.concurrency must be at least 1")
	}

	return nil
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	LogLevel string `koanf:"log_level"` // zerolog level name (default: "info")
	StateDB  string `koanf:"state_db"`  // sqlite path; empty means the XDG data dir

	Ads       AdsConfig       `koanf:"ads"`
	Account   AccountConfig   `koanf:"account"`
	Inventory InventoryConfig `koanf:"inventory"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
	Catalog   CatalogConfig   `koanf:"catalog"`
	Transport TransportConfig `koanf:"transport"`
}

// AdsConfig holds ad cadence settings.
type AdsConfig struct {
	MidRollIntervalSeconds int `koanf:"midroll_interval_seconds"` // cumulative play between mid-rolls (default: 300)
	SkipDelaySeconds       int `koanf:"skip_delay_seconds"`       // elapsed time before skip is offered (default: 5)
	BannerSeconds          int `koanf:"banner_seconds"`           // banner display time without its own duration (default: 15)
}

// AccountConfig identifies the listener and where to look up their plan.
// With an endpoint the plan is fetched over HTTP; otherwise PlanTier is used.
type AccountConfig struct {
	UserID   string `koanf:"user_id"`
	PlanTier string `koanf:"plan_tier"` // "FREE" unless set
	Endpoint string `koanf:"endpoint"`
}

// InventoryConfig points at the ad server.
type InventoryConfig struct {
	Endpoint       string `koanf:"endpoint"`
	TimeoutSeconds int    `koanf:"timeout_seconds"` // default: 5
}

// TelemetryConfig points at the event collector.
type TelemetryConfig struct {
	Endpoint       string `koanf:"endpoint"`
	TimeoutSeconds int    `koanf:"timeout_seconds"` // default: 5
	Platform       string `koanf:"platform"`
	AppVersion     string `koanf:"app_version"`
	MetricsAddr    string `koanf:"metrics_addr"` // serve /metrics here when set, e.g. "127.0.0.1:9464"
}

// CatalogConfig points at the track catalog.
type CatalogConfig struct {
	Endpoint       string `koanf:"endpoint"`
	TimeoutSeconds int    `koanf:"timeout_seconds"` // default: 10
}

// TransportConfig holds audio output settings.
type TransportConfig struct {
	FetchTimeoutSeconds int `koanf:"fetch_timeout_seconds"` // remote media download limit (default: 30)
}

// Load reads the default config files, then each extra path in order.
// Missing default files are skipped; a missing extra path is an error.
func Load(extra ...string) (*Config, error) {
	k := koanf.New(".")

	// Try config files in order of priority (last wins)
	for _, path := range getConfigPaths() {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}
	for _, path := range extra {
		path = expandPath(path)
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, err
		}
	}

	cfg := &Config{
		LogLevel: "info",
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	if cfg.StateDB != "" {
		cfg.StateDB = expandPath(cfg.StateDB)
	}

	// Normalize endpoints (remove trailing slash)
	cfg.Account.Endpoint = strings.TrimSuffix(cfg.Account.Endpoint, "/")
	cfg.Inventory.Endpoint = strings.TrimSuffix(cfg.Inventory.Endpoint, "/")
	cfg.Telemetry.Endpoint = strings.TrimSuffix(cfg.Telemetry.Endpoint, "/")
	cfg.Catalog.Endpoint = strings.TrimSuffix(cfg.Catalog.Endpoint, "/")

	return cfg, nil
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. ~/.config/wavecast/config.toml
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "wavecast", "config.toml"))
	}

	// 2. ./config.toml (pwd, highest priority)
	paths = append(paths, "config.toml")

	return paths
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// HasInventory returns true if an ad server is configured.
func (c *Config) HasInventory() bool {
	return c.Inventory.Endpoint != ""
}

// HasTelemetry returns true if an event collector is configured.
func (c *Config) HasTelemetry() bool {
	return c.Telemetry.Endpoint != ""
}

// HasCatalog returns true if a track catalog is configured.
func (c *Config) HasCatalog() bool {
	return c.Catalog.Endpoint != ""
}

// GetAdsConfig returns the ad configuration with defaults applied.
func (c *Config) GetAdsConfig() AdsConfig {
	cfg := c.Ads
	if cfg.MidRollIntervalSeconds <= 0 {
		cfg.MidRollIntervalSeconds = 300
	}
	if cfg.SkipDelaySeconds <= 0 {
		cfg.SkipDelaySeconds = 5
	}
	if cfg.BannerSeconds <= 0 {
		cfg.BannerSeconds = 15
	}
	return cfg
}

// GetAccountConfig returns the account configuration with defaults applied.
func (c *Config) GetAccountConfig() AccountConfig {
	cfg := c.Account
	cfg.PlanTier = strings.ToUpper(strings.TrimSpace(cfg.PlanTier))
	if cfg.PlanTier == "" {
		cfg.PlanTier = "FREE"
	}
	if cfg.UserID == "" {
		cfg.UserID = "anonymous"
	}
	return cfg
}

// GetInventoryConfig returns the inventory configuration with defaults applied.
func (c *Config) GetInventoryConfig() InventoryConfig {
	cfg := c.Inventory
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = 5
	}
	return cfg
}

// GetTelemetryConfig returns the telemetry configuration with defaults applied.
func (c *Config) GetTelemetryConfig() TelemetryConfig {
	cfg := c.Telemetry
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = 5
	}
	if cfg.Platform == "" {
		cfg.Platform = "terminal"
	}
	return cfg
}

// GetCatalogConfig returns the catalog configuration with defaults applied.
func (c *Config) GetCatalogConfig() CatalogConfig {
	cfg := c.Catalog
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = 10
	}
	return cfg
}

// GetTransportConfig returns the transport configuration with defaults applied.
func (c *Config) GetTransportConfig() TransportConfig {
	cfg := c.Transport
	if cfg.FetchTimeoutSeconds <= 0 {
		cfg.FetchTimeoutSeconds = 30
	}
	return cfg
}

// Seconds converts a whole-second config value.
func Seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}

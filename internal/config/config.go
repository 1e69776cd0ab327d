// Package config loads and validates the application configuration from
// YAML with environment variable substitution.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	domain "github.com/lootscout/lootscout/pkg/types"
)

// Config is the top-level application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Providers ProvidersConfig `yaml:"providers"`
	Cache     CacheConfig     `yaml:"cache"`
	Search    SearchConfig    `yaml:"search"`
	Trending  TrendingConfig  `yaml:"trending"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ServerConfig defines the Echo HTTP server settings.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// DatabaseConfig defines PostgreSQL connection settings for the
// favorites/trending store.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
	PoolSize int    `yaml:"pool_size"`
}

// DSN returns a PostgreSQL connection string.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		d.Host, d.Port, d.Name, d.User, d.Password, d.SSLMode,
	)
}

// ProvidersConfig holds one section per listing source.
type ProvidersConfig struct {
	Ebay       EbayConfig    `yaml:"ebay"`
	JJGames    JJGamesConfig `yaml:"jjgames"`
	VGNY       VGNYConfig    `yaml:"vgny"`
	DKOldies   ScriptConfig  `yaml:"dkoldies"`
	LukieGames ScriptConfig  `yaml:"lukiegames"`
	Catalog    CatalogConfig `yaml:"catalog"`

	// Timeout bounds each provider fetch. A slow source degrades to an
	// empty result instead of stalling the whole aggregation.
	Timeout time.Duration `yaml:"timeout"`
	// MaxResults is the per-source result limit passed upstream.
	MaxResults int `yaml:"max_results"`
}

// EbayConfig defines eBay Finding API settings.
type EbayConfig struct {
	Enabled     bool            `yaml:"enabled"`
	AppID       string          `yaml:"app_id"`
	EndpointURL string          `yaml:"endpoint_url"`
	CategoryID  string          `yaml:"category_id"`
	RateLimit   RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig defines provider API rate limiting settings.
type RateLimitConfig struct {
	PerSecond  float64 `yaml:"per_second"`
	Burst      int     `yaml:"burst"`
	DailyLimit int64   `yaml:"daily_limit"`
}

// JJGamesConfig defines the JJGames storefront API settings.
type JJGamesConfig struct {
	Enabled bool   `yaml:"enabled"`
	BaseURL string `yaml:"base_url"`
	StoreID string `yaml:"store_id"`
}

// VGNYConfig defines the VideoGamesNewYork scraper settings.
type VGNYConfig struct {
	Enabled bool   `yaml:"enabled"`
	BaseURL string `yaml:"base_url"`
}

// ScriptConfig defines an out-of-process scraper provider: an executable
// that prints a JSON listing array on stdout.
type ScriptConfig struct {
	Enabled bool     `yaml:"enabled"`
	Command string   `yaml:"command"`
	Args    []string `yaml:"args"`
}

// CatalogConfig defines the static catalog provider settings.
type CatalogConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"` // optional override of the embedded data
}

// CacheConfig defines the per-source result cache.
type CacheConfig struct {
	TTL        time.Duration `yaml:"ttl"`
	MaxEntries int           `yaml:"max_entries"`
}

// SearchConfig pins down behavior the feature history left ambiguous:
// the default sort order and what an empty query returns.
type SearchConfig struct {
	DefaultSort  domain.SortOrder   `yaml:"default_sort"`
	EmptyQuery   string             `yaml:"empty_query"` // "catalog" or "none"
	MergePolicy  domain.MergePolicy `yaml:"merge_policy"`
	DefaultLimit int                `yaml:"default_limit"`
	MaxLimit     int                `yaml:"max_limit"`
	// ProviderOrder fixes the combine order of the enabled sources.
	// Later sources win title collisions under the last-wins policy.
	// Enabled sources not named here keep their default position after
	// the named ones.
	ProviderOrder []domain.Source `yaml:"provider_order"`
}

// TrendingConfig defines the trending snapshot refresh job.
type TrendingConfig struct {
	RefreshInterval time.Duration `yaml:"refresh_interval"`
	AutoWindow      time.Duration `yaml:"auto_window"`
	AutoLimit       int           `yaml:"auto_limit"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// Load reads and parses a YAML config file, performing environment
// variable substitution and validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	applyServerDefaults(&cfg.Server)
	applyDatabaseDefaults(&cfg.Database)
	applyProviderDefaults(&cfg.Providers)
	applyCacheDefaults(&cfg.Cache)
	applySearchDefaults(&cfg.Search)
	applyTrendingDefaults(&cfg.Trending)
	applyLoggingDefaults(&cfg.Logging)
}

func applyServerDefaults(s *ServerConfig) {
	if s.Host == "" {
		s.Host = "0.0.0.0"
	}
	if s.Port == 0 {
		s.Port = 8080
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = 30 * time.Second
	}
	if s.WriteTimeout == 0 {
		s.WriteTimeout = 60 * time.Second
	}
}

func applyDatabaseDefaults(d *DatabaseConfig) {
	if d.Port == 0 {
		d.Port = 5432
	}
	if d.SSLMode == "" {
		d.SSLMode = "disable"
	}
	if d.PoolSize == 0 {
		d.PoolSize = 10
	}
}

func applyProviderDefaults(p *ProvidersConfig) {
	if p.Timeout == 0 {
		p.Timeout = 30 * time.Second
	}
	if p.MaxResults == 0 {
		p.MaxResults = 16
	}
	if p.Ebay.EndpointURL == "" {
		p.Ebay.EndpointURL = "https://svcs.ebay.com/services/search/FindingService/v1"
	}
	if p.Ebay.CategoryID == "" {
		p.Ebay.CategoryID = "139973" // Video Games
	}
	if p.Ebay.RateLimit.PerSecond == 0 {
		p.Ebay.RateLimit.PerSecond = 5.0
	}
	if p.Ebay.RateLimit.Burst == 0 {
		p.Ebay.RateLimit.Burst = 10
	}
	if p.Ebay.RateLimit.DailyLimit == 0 {
		p.Ebay.RateLimit.DailyLimit = 5000
	}
	if p.JJGames.BaseURL == "" {
		p.JJGames.BaseURL = "https://app.ecwid.com/api/v3"
	}
	if p.JJGames.StoreID == "" {
		p.JJGames.StoreID = "1003"
	}
	if p.VGNY.BaseURL == "" {
		p.VGNY.BaseURL = "https://videogamesnewyork.com"
	}
}

func applyCacheDefaults(c *CacheConfig) {
	if c.TTL == 0 {
		c.TTL = 15 * time.Minute
	}
	if c.MaxEntries == 0 {
		c.MaxEntries = 2048
	}
}

func applySearchDefaults(s *SearchConfig) {
	if s.DefaultSort == "" {
		s.DefaultSort = domain.SortRecency
	}
	if s.EmptyQuery == "" {
		s.EmptyQuery = "catalog"
	}
	if s.MergePolicy == "" {
		s.MergePolicy = domain.MergeLastWins
	}
	if s.DefaultLimit == 0 {
		s.DefaultLimit = 24
	}
	if s.MaxLimit == 0 {
		s.MaxLimit = 200
	}
}

func applyTrendingDefaults(t *TrendingConfig) {
	if t.RefreshInterval == 0 {
		t.RefreshInterval = 10 * time.Minute
	}
	if t.AutoWindow == 0 {
		t.AutoWindow = 7 * 24 * time.Hour
	}
	if t.AutoLimit == 0 {
		t.AutoLimit = 12
	}
}

func applyLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = "info"
	}
	if l.Format == "" {
		l.Format = "text"
	}
}

func validate(cfg *Config) error {
	var errs []error

	if cfg.Database.Host == "" {
		errs = append(errs, fmt.Errorf("database.host is required"))
	}
	if cfg.Database.Name == "" {
		errs = append(errs, fmt.Errorf("database.name is required"))
	}
	if cfg.Database.User == "" {
		errs = append(errs, fmt.Errorf("database.user is required"))
	}

	if cfg.Providers.Ebay.Enabled && cfg.Providers.Ebay.AppID == "" {
		errs = append(errs, fmt.Errorf("providers.ebay.app_id is required when ebay is enabled"))
	}
	if cfg.Providers.DKOldies.Enabled && cfg.Providers.DKOldies.Command == "" {
		errs = append(errs, fmt.Errorf("providers.dkoldies.command is required when dkoldies is enabled"))
	}
	if cfg.Providers.LukieGames.Enabled && cfg.Providers.LukieGames.Command == "" {
		errs = append(errs, fmt.Errorf("providers.lukiegames.command is required when lukiegames is enabled"))
	}

	if !domain.ValidSortOrder(cfg.Search.DefaultSort) {
		errs = append(errs, fmt.Errorf(
			"search.default_sort must be one of: price-asc, price-desc, recency (got %q)",
			cfg.Search.DefaultSort,
		))
	}
	if !domain.ValidMergePolicy(cfg.Search.MergePolicy) {
		errs = append(errs, fmt.Errorf(
			"search.merge_policy must be one of: last-wins, first-wins, prefer-detail (got %q)",
			cfg.Search.MergePolicy,
		))
	}
	switch cfg.Search.EmptyQuery {
	case "catalog", "none":
	default:
		errs = append(errs, fmt.Errorf(
			"search.empty_query must be \"catalog\" or \"none\" (got %q)",
			cfg.Search.EmptyQuery,
		))
	}
	for _, src := range cfg.Search.ProviderOrder {
		if !domain.ValidSource(src) {
			errs = append(errs, fmt.Errorf(
				"search.provider_order: unknown source %q", src,
			))
		}
	}

	return errors.Join(errs...)
}

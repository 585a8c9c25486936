package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName  string `mapstructure:"app_name"`
	Env      string `mapstructure:"app_env"`
	LogLevel string `mapstructure:"log_level"`

	HTTPAddr      string `mapstructure:"http_addr"`
	StylesheetURL string `mapstructure:"stylesheet_url"`

	NewsBaseURL        string `mapstructure:"news_base_url"`
	NewsLanguage       string `mapstructure:"news_hl"`
	NewsCountry        string `mapstructure:"news_gl"`
	NewsEdition        string `mapstructure:"news_ceid"`
	NewsDefaultKeyword string `mapstructure:"news_default_keyword"`
	NewsLimit          int    `mapstructure:"news_limit"`
	PlaceholderImage   string `mapstructure:"placeholder_image_url"`

	EconDBBaseURL   string        `mapstructure:"econdb_base_url"`
	RatesUserAgent  string        `mapstructure:"rates_user_agent"`
	HTTPTimeoutSecs int64         `mapstructure:"http_timeout_seconds"`
	HTTPTimeout     time.Duration `mapstructure:"-"`

	WatchesFile         string        `mapstructure:"watches_file"`
	PublishersFile      string        `mapstructure:"publishers_file"`
	CollectIntervalSecs int64         `mapstructure:"collect_interval"`
	CollectInterval     time.Duration `mapstructure:"-"`

	StorageType            string        `mapstructure:"storage_type"`
	BBoltPath              string        `mapstructure:"bbolt_path"`
	StorageTTLSeconds      int64         `mapstructure:"storage_ttl_seconds"`
	StorageCleanupSeconds  int64         `mapstructure:"storage_cleanup_interval_seconds"`
	StorageTTL             time.Duration `mapstructure:"-"`
	StorageCleanupInterval time.Duration `mapstructure:"-"`
}

// DefaultRatesUserAgent is sent on the freight-rate request only.
const DefaultRatesUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/93.0.4577.63 Safari/537.36"

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_name", "maritime-desk")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")

	v.SetDefault("http_addr", ":8080")
	v.SetDefault("stylesheet_url", "")

	v.SetDefault("news_base_url", "https://news.google.com")
	v.SetDefault("news_hl", "ko")
	v.SetDefault("news_gl", "KR")
	v.SetDefault("news_ceid", "KR:ko")
	v.SetDefault("news_default_keyword", "해상운임")
	v.SetDefault("news_limit", 3)
	v.SetDefault("placeholder_image_url", "https://via.placeholder.com/300x150?text=No+Image")

	v.SetDefault("econdb_base_url", "https://www.econdb.com")
	v.SetDefault("rates_user_agent", DefaultRatesUserAgent)
	v.SetDefault("http_timeout_seconds", 15)

	v.SetDefault("watches_file", "./configs/watches.yaml")
	v.SetDefault("publishers_file", "./configs/publishers.yaml")
	v.SetDefault("collect_interval", 900) // seconds

	v.SetDefault("storage_type", "bbolt")
	v.SetDefault("bbolt_path", "./data/cache.db")
	v.SetDefault("storage_ttl_seconds", int64((5*24*time.Hour)/time.Second))
	v.SetDefault("storage_cleanup_interval_seconds", int64((12*time.Hour)/time.Second))
}

func (cfg *Config) normalize() error {
	cfg.NewsBaseURL = strings.TrimRight(strings.TrimSpace(cfg.NewsBaseURL), "/")
	cfg.EconDBBaseURL = strings.TrimRight(strings.TrimSpace(cfg.EconDBBaseURL), "/")
	if cfg.NewsBaseURL == "" {
		return fmt.Errorf("news_base_url is required")
	}
	if cfg.EconDBBaseURL == "" {
		return fmt.Errorf("econdb_base_url is required")
	}
	if cfg.NewsLimit <= 0 {
		return fmt.Errorf("invalid news_limit (must be positive)")
	}

	if cfg.HTTPTimeoutSecs <= 0 {
		return fmt.Errorf("invalid http_timeout_seconds (must be positive seconds)")
	}
	cfg.HTTPTimeout = time.Duration(cfg.HTTPTimeoutSecs) * time.Second

	if cfg.CollectIntervalSecs <= 0 {
		return fmt.Errorf("invalid collect_interval (must be positive seconds)")
	}
	cfg.CollectInterval = time.Duration(cfg.CollectIntervalSecs) * time.Second

	if cfg.StorageTTLSeconds <= 0 {
		return fmt.Errorf("invalid storage_ttl_seconds (must be positive seconds)")
	}
	if cfg.StorageCleanupSeconds <= 0 {
		return fmt.Errorf("invalid storage_cleanup_interval_seconds (must be positive seconds)")
	}
	cfg.StorageTTL = time.Duration(cfg.StorageTTLSeconds) * time.Second
	cfg.StorageCleanupInterval = time.Duration(cfg.StorageCleanupSeconds) * time.Second

	return nil
}

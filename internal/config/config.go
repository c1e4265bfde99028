// Package config loads and validates service configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all service configuration knobs loaded via Viper.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	DB      DBConfig      `mapstructure:"db"`
	Scraper ScraperConfig `mapstructure:"scraper"`
	LLM     LLMConfig     `mapstructure:"llm"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig controls HTTP server behavior.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// DBConfig controls access to the Postgres database.
type DBConfig struct {
	DSN      string `mapstructure:"dsn"`
	MaxConns int32  `mapstructure:"max_conns"`
	MinConns int32  `mapstructure:"min_conns"`
}

// ScraperConfig governs the headless browser session and pagination loop.
type ScraperConfig struct {
	UserAgent          string `mapstructure:"user_agent"`
	ViewportWidth      int    `mapstructure:"viewport_width"`
	ViewportHeight     int    `mapstructure:"viewport_height"`
	SessionCookie      string `mapstructure:"session_cookie"`
	CookieDomain       string `mapstructure:"cookie_domain"`
	NavTimeoutSec      int    `mapstructure:"nav_timeout_seconds"`
	ResultsTimeoutSec  int    `mapstructure:"results_timeout_seconds"`
	ScrollStepPx       int    `mapstructure:"scroll_step_px"`
	ScrollIntervalMs   int    `mapstructure:"scroll_interval_ms"`
	MaxProfilesDefault int    `mapstructure:"max_profiles_default"`
	EmptyPageLimit     int    `mapstructure:"empty_page_limit"`
}

// LLMConfig points the message drafting client at a chat-completions endpoint.
type LLMConfig struct {
	Endpoint       string  `mapstructure:"endpoint"`
	Model          string  `mapstructure:"model"`
	APIKey         string  `mapstructure:"api_key"`
	Temperature    float64 `mapstructure:"temperature"`
	MaxTokens      int     `mapstructure:"max_tokens"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("OUTFLO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	// Secrets default to empty so AutomaticEnv can bind them; viper only
	// resolves env vars for keys it already knows about.
	v.SetDefault("db.dsn", "")
	v.SetDefault("scraper.session_cookie", "")
	v.SetDefault("llm.api_key", "")

	v.SetDefault("server.port", 8080)
	v.SetDefault("db.max_conns", 8)
	v.SetDefault("db.min_conns", 1)
	v.SetDefault("scraper.user_agent",
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	v.SetDefault("scraper.viewport_width", 1366)
	v.SetDefault("scraper.viewport_height", 768)
	v.SetDefault("scraper.cookie_domain", ".www.linkedin.com")
	v.SetDefault("scraper.nav_timeout_seconds", 60)
	v.SetDefault("scraper.results_timeout_seconds", 30)
	v.SetDefault("scraper.scroll_step_px", 100)
	v.SetDefault("scraper.scroll_interval_ms", 100)
	v.SetDefault("scraper.max_profiles_default", 20)
	v.SetDefault("scraper.empty_page_limit", 2)
	v.SetDefault("llm.endpoint", "https://api.openai.com/v1/chat/completions")
	v.SetDefault("llm.model", "gpt-3.5-turbo")
	v.SetDefault("llm.temperature", 0.7)
	v.SetDefault("llm.max_tokens", 150)
	v.SetDefault("llm.timeout_seconds", 30)
	v.SetDefault("logging.development", true)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	if c.Scraper.NavTimeoutSec <= 0 {
		return fmt.Errorf("scraper.nav_timeout_seconds must be > 0")
	}
	if c.Scraper.ResultsTimeoutSec <= 0 {
		return fmt.Errorf("scraper.results_timeout_seconds must be > 0")
	}
	if c.Scraper.MaxProfilesDefault <= 0 {
		return fmt.Errorf("scraper.max_profiles_default must be > 0")
	}
	if c.Scraper.EmptyPageLimit <= 0 {
		return fmt.Errorf("scraper.empty_page_limit must be > 0")
	}
	if c.LLM.Endpoint == "" {
		return fmt.Errorf("llm.endpoint is required")
	}
	if c.LLM.MaxTokens <= 0 {
		return fmt.Errorf("llm.max_tokens must be > 0")
	}
	return nil
}

// NavTimeout returns the page navigation budget as a duration.
func (c ScraperConfig) NavTimeout() time.Duration {
	return time.Duration(c.NavTimeoutSec) * time.Second
}

// ResultsTimeout bounds the wait for the results container to render.
func (c ScraperConfig) ResultsTimeout() time.Duration {
	return time.Duration(c.ResultsTimeoutSec) * time.Second
}

// Timeout returns the LLM request budget as a duration.
func (c LLMConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Package config provides configuration management for the anothersignal CLI.
package config

import "time"

// Config holds all CLI configuration options.
type Config struct {
	Verbose      bool         `koanf:"verbose"`
	OutputFormat string       `koanf:"output"`
	LogLevel     string       `koanf:"log_level"`
	// PageSize is the default page size of the terminal front ends.
	PageSize     int          `koanf:"page_size"`
	API          APIConfig    `koanf:"api"`
	Cache        CacheConfig  `koanf:"cache"`
	UI           UIConfig     `koanf:"ui"`
	DevAPI       DevAPIConfig `koanf:"devapi"`
}

// APIConfig describes the accounts backend the client talks to.
type APIConfig struct {
	BaseURL string        `koanf:"base_url"`
	Timeout time.Duration `koanf:"timeout"`
	// Token, when set, is sent as a bearer token.
	Token string `koanf:"token"`
}

// CacheConfig tunes the client-side query cache.
type CacheConfig struct {
	StaleTime time.Duration `koanf:"stale_time"`
}

// UIConfig holds configuration for the web UI server.
type UIConfig struct {
	Host          string `koanf:"host"`
	Port          int    `koanf:"port"`
	AutoOpen      bool   `koanf:"auto_open"`
	Dev           bool   `koanf:"dev"`
	SessionSecret string `koanf:"session_secret"`
	// RefreshInterval, when positive, makes open pages pick up backend changes.
	RefreshInterval time.Duration `koanf:"refresh_interval"`
}

// DevAPIConfig holds configuration for the reference backend.
type DevAPIConfig struct {
	Host     string        `koanf:"host"`
	Port     int           `koanf:"port"`
	Database string        `koanf:"database"`
	Fixture  string        `koanf:"fixture"`
	Watch    bool          `koanf:"watch"`
	Latency  time.Duration `koanf:"latency"`
}

// Default configuration values.
const (
	DefaultBaseURL      = "http://localhost:4000/api"
	DefaultTimeout      = 30 * time.Second
	DefaultStaleTime    = 5 * time.Minute
	DefaultUIHost       = "localhost"
	DefaultUIPort       = 8765
	DefaultPageSize     = 10
	DefaultDevAPIHost   = "localhost"
	DefaultDevAPIPort   = 4000
	DefaultDatabase     = ":memory:"
	DefaultOutput       = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultLogLevel     = "warn"
	DefaultConfigFile   = "anothersignal.yaml"
	EnvPrefix           = "ANOTHERSIGNAL_"
	defaultSessionKey   = "anothersignal-dev-secret-change-me" //nolint:gosec // development default
	sessionSecretMinLen = 16
)

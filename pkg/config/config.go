package config

import "time"

// Config is the root configuration structure for Meridian.
type Config struct {
	// Resolver contains the engine's context defaults and fallback
	// behavior.
	Resolver ResolverConfig `yaml:"resolver"`

	// Locations describes where the descriptor table lives and whether
	// to watch it for changes.
	Locations LocationsConfig `yaml:"locations"`

	// Server contains the admin/inspection HTTP server settings.
	Server ServerConfig `yaml:"server"`

	// Telemetry contains logging and metrics settings.
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Audit contains settings for the rebind/context audit trail.
	Audit AuditConfig `yaml:"audit"`
}

// ResolverConfig configures the resolution engine.
type ResolverConfig struct {
	// Origin is the base URL returned for unknown location types.
	// Default: "http://localhost:3000"
	Origin string `yaml:"origin"`

	// Environment seeds the initial context. Default: "production"
	Environment string `yaml:"environment"`

	// Residency seeds the initial context. Default: "US"
	Residency string `yaml:"residency"`

	// IntegrationDomains are URL substrings that classify unrecognized
	// URLs as integration addresses during acting-URL detection.
	IntegrationDomains []string `yaml:"integration_domains"`
}

// LocationsConfig describes the descriptor table source.
type LocationsConfig struct {
	// File is the path to the YAML descriptor table.
	File string `yaml:"file"`

	// Watch enables hot reload of the descriptor table on file changes.
	// Default: false
	Watch bool `yaml:"watch"`

	// DebounceInterval is how long to wait after a file change before
	// reloading, to absorb editor write storms. Default: 200ms
	DebounceInterval time.Duration `yaml:"debounce_interval"`
}

// ServerConfig contains the admin HTTP server settings.
type ServerConfig struct {
	// Enabled starts the admin server under the run command.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// ListenAddress is the host:port to listen on.
	// Default: "127.0.0.1:9090"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading a request.
	// Default: 10s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration for writing a response.
	// Default: 10s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the keep-alive idle limit. Default: 60s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout bounds graceful shutdown. Default: 10s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// TelemetryConfig contains observability settings.
type TelemetryConfig struct {
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig configures the process logger.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error.
	// Default: "info"
	Level string `yaml:"level"`

	// Format is the output format: json or text. Default: "json"
	Format string `yaml:"format"`

	// AddSource includes file:line in log records. Default: false
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	// Enabled registers and exposes engine metrics. Default: true
	Enabled bool `yaml:"enabled"`

	// Namespace is the metric name prefix. Default: "meridian"
	Namespace string `yaml:"namespace"`

	// Subsystem is the second metric name segment. Default: "resolver"
	Subsystem string `yaml:"subsystem"`

	// Path is where the admin server mounts the metrics handler.
	// Default: "/metrics"
	Path string `yaml:"path"`
}

// AuditConfig configures the rebind/context audit trail.
type AuditConfig struct {
	// Enabled turns audit recording on. Default: false
	Enabled bool `yaml:"enabled"`

	// Path is the SQLite database file. Default: "meridian-audit.db"
	Path string `yaml:"path"`

	// Buffer is the async recorder channel size. Default: 1024
	Buffer int `yaml:"buffer"`

	// RetentionDays is how long events are kept before pruning.
	// Zero disables age-based pruning.
	RetentionDays int `yaml:"retention_days"`

	// PruneSchedule is a cron expression for scheduled pruning. Empty
	// disables the schedule; it defaults to "0 3 * * *" when auditing
	// and retention are both enabled.
	PruneSchedule string `yaml:"prune_schedule"`
}

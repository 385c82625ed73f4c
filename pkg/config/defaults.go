package config

import "time"

// Default configuration values.
const (
	DefaultOrigin           = "http://localhost:3000"
	DefaultEnvironment      = "production"
	DefaultResidency        = "US"
	DefaultDebounceInterval = 200 * time.Millisecond
	DefaultListenAddress    = "127.0.0.1:9090"
	DefaultReadTimeout      = 10 * time.Second
	DefaultWriteTimeout     = 10 * time.Second
	DefaultIdleTimeout      = 60 * time.Second
	DefaultShutdownTimeout  = 10 * time.Second
	DefaultLogLevel         = "info"
	DefaultLogFormat        = "json"
	DefaultMetricsNamespace = "meridian"
	DefaultMetricsSubsystem = "resolver"
	DefaultMetricsPath      = "/metrics"
	DefaultAuditPath        = "meridian-audit.db"
	DefaultAuditBuffer      = 1024
	DefaultRetentionDays    = 90
	DefaultPruneSchedule    = "0 3 * * *"
)

// NewDefault returns a configuration populated with all default values.
func NewDefault() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	cfg.Server.Enabled = true
	cfg.Telemetry.Metrics.Enabled = true
	return cfg
}

// ApplyDefaults fills unset fields with default values. Boolean fields
// keep their zero value: YAML absence and an explicit false are not
// distinguishable, so enabling flags is left to the file or to
// NewDefault.
func ApplyDefaults(cfg *Config) {
	if cfg.Resolver.Origin == "" {
		cfg.Resolver.Origin = DefaultOrigin
	}
	if cfg.Resolver.Environment == "" {
		cfg.Resolver.Environment = DefaultEnvironment
	}
	if cfg.Resolver.Residency == "" {
		cfg.Resolver.Residency = DefaultResidency
	}

	if cfg.Locations.DebounceInterval <= 0 {
		cfg.Locations.DebounceInterval = DefaultDebounceInterval
	}

	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = DefaultListenAddress
	}
	if cfg.Server.ReadTimeout <= 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout <= 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.IdleTimeout <= 0 {
		cfg.Server.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.Server.ShutdownTimeout <= 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}

	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLogLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLogFormat
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Telemetry.Metrics.Subsystem == "" {
		cfg.Telemetry.Metrics.Subsystem = DefaultMetricsSubsystem
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultMetricsPath
	}

	if cfg.Audit.Path == "" {
		cfg.Audit.Path = DefaultAuditPath
	}
	if cfg.Audit.Buffer <= 0 {
		cfg.Audit.Buffer = DefaultAuditBuffer
	}
	if cfg.Audit.RetentionDays < 0 {
		cfg.Audit.RetentionDays = 0
	}
	if cfg.Audit.PruneSchedule == "" && cfg.Audit.Enabled && cfg.Audit.RetentionDays > 0 {
		cfg.Audit.PruneSchedule = DefaultPruneSchedule
	}
}

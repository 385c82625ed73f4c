package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Load reads the engine configuration from a YAML file, applies defaults
// and environment variable overrides, and validates the result.
//
// The loading sequence is:
//
//  1. Parse YAML from file
//  2. Apply default values
//  3. Apply MERIDIAN_* environment variable overrides
//  4. Validate the final configuration
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyEnvOverrides applies MERIDIAN_SECTION_FIELD environment variables
// over the loaded configuration.
func applyEnvOverrides(cfg *Config) {
	if val := os.Getenv("MERIDIAN_RESOLVER_ORIGIN"); val != "" {
		cfg.Resolver.Origin = val
	}
	if val := os.Getenv("MERIDIAN_RESOLVER_ENVIRONMENT"); val != "" {
		cfg.Resolver.Environment = val
	}
	if val := os.Getenv("MERIDIAN_RESOLVER_RESIDENCY"); val != "" {
		cfg.Resolver.Residency = val
	}
	if val := os.Getenv("MERIDIAN_RESOLVER_INTEGRATION_DOMAINS"); val != "" {
		cfg.Resolver.IntegrationDomains = splitList(val)
	}

	if val := os.Getenv("MERIDIAN_LOCATIONS_FILE"); val != "" {
		cfg.Locations.File = val
	}
	if val := os.Getenv("MERIDIAN_LOCATIONS_WATCH"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Locations.Watch = b
		}
	}

	if val := os.Getenv("MERIDIAN_SERVER_LISTEN_ADDRESS"); val != "" {
		cfg.Server.ListenAddress = val
	}
	if val := os.Getenv("MERIDIAN_SERVER_READ_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.ReadTimeout = d
		}
	}
	if val := os.Getenv("MERIDIAN_SERVER_WRITE_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.WriteTimeout = d
		}
	}

	if val := os.Getenv("MERIDIAN_TELEMETRY_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("MERIDIAN_TELEMETRY_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("MERIDIAN_TELEMETRY_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = b
		}
	}

	if val := os.Getenv("MERIDIAN_AUDIT_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Audit.Enabled = b
		}
	}
	if val := os.Getenv("MERIDIAN_AUDIT_PATH"); val != "" {
		cfg.Audit.Path = val
	}
}

func splitList(val string) []string {
	parts := strings.Split(val, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

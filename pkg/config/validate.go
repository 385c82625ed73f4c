package config

import (
	"fmt"
	"net"
	"strings"

	"github.com/robfig/cron/v3"
)

// FieldError represents a validation error for one configuration field.
type FieldError struct {
	// Field is the dotted path to the field (e.g., "server.listen_address").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError collects all validation failures in a configuration.
type ValidationError struct {
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate checks the configuration and returns a ValidationError when any
// rule fails. All errors are collected and returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	if !strings.Contains(cfg.Resolver.Origin, "://") {
		errs = append(errs, FieldError{
			Field:   "resolver.origin",
			Message: fmt.Sprintf("must be an absolute URL, got %q", cfg.Resolver.Origin),
		})
	}
	if cfg.Resolver.Environment == "" {
		errs = append(errs, FieldError{Field: "resolver.environment", Message: "must not be empty"})
	}
	if cfg.Resolver.Residency == "" {
		errs = append(errs, FieldError{Field: "resolver.residency", Message: "must not be empty"})
	}

	if cfg.Locations.Watch && cfg.Locations.File == "" {
		errs = append(errs, FieldError{
			Field:   "locations.file",
			Message: "required when locations.watch is enabled",
		})
	}

	if cfg.Server.Enabled {
		if _, _, err := net.SplitHostPort(cfg.Server.ListenAddress); err != nil {
			errs = append(errs, FieldError{
				Field:   "server.listen_address",
				Message: fmt.Sprintf("invalid host:port %q: %v", cfg.Server.ListenAddress, err),
			})
		}
	}

	switch cfg.Telemetry.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("must be one of debug, info, warn, error; got %q", cfg.Telemetry.Logging.Level),
		})
	}
	switch cfg.Telemetry.Logging.Format {
	case "json", "text":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("must be json or text; got %q", cfg.Telemetry.Logging.Format),
		})
	}

	if cfg.Telemetry.Metrics.Enabled && !strings.HasPrefix(cfg.Telemetry.Metrics.Path, "/") {
		errs = append(errs, FieldError{
			Field:   "telemetry.metrics.path",
			Message: fmt.Sprintf("must start with /; got %q", cfg.Telemetry.Metrics.Path),
		})
	}

	if cfg.Audit.Enabled {
		if cfg.Audit.Path == "" {
			errs = append(errs, FieldError{Field: "audit.path", Message: "must not be empty"})
		}
		if cfg.Audit.PruneSchedule != "" {
			if _, err := cron.ParseStandard(cfg.Audit.PruneSchedule); err != nil {
				errs = append(errs, FieldError{
					Field:   "audit.prune_schedule",
					Message: fmt.Sprintf("invalid cron expression %q: %v", cfg.Audit.PruneSchedule, err),
				})
			}
		}
	}

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}

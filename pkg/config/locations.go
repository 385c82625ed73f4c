package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"mercator-hq/meridian/pkg/location"
)

// LocationsFile is the on-disk descriptor table: the list of location
// descriptors plus the datacenter equivalence table. Both are external
// static data consumed by the resolution engine.
type LocationsFile struct {
	// Locations are the descriptor records, in priority order. Order is
	// load-bearing: context normalization binds the first
	// location-bearing entry per environment, and reverse-lookup buckets
	// are consulted in registration order.
	Locations []location.Descriptor `yaml:"locations"`

	// Datacenters maps high-level location ids to their residency and
	// equivalent, more specific datacenters.
	Datacenters location.EquivalenceTable `yaml:"datacenters"`
}

// LoadLocations reads and validates a descriptor table from a YAML file.
func LoadLocations(path string) (*LocationsFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read locations file %q: %w", path, err)
	}
	return ParseLocations(data)
}

// ParseLocations parses and validates a descriptor table document.
func ParseLocations(data []byte) (*LocationsFile, error) {
	var lf LocationsFile
	if err := yaml.Unmarshal(data, &lf); err != nil {
		return nil, fmt.Errorf("failed to parse locations document: %w", err)
	}
	if err := ValidateLocations(&lf); err != nil {
		return nil, err
	}
	return &lf, nil
}

// ValidateLocations checks the descriptor table for structural problems.
// All errors are collected and returned together.
func ValidateLocations(lf *LocationsFile) error {
	var errs []FieldError

	for i, d := range lf.Locations {
		field := fmt.Sprintf("locations[%d]", i)
		if d.LocationType == "" {
			errs = append(errs, FieldError{Field: field + ".locationType", Message: "must not be empty"})
		}
		if d.URI == "" {
			errs = append(errs, FieldError{Field: field + ".uri", Message: "must not be empty"})
		}
		for j, alias := range d.Aliases {
			if alias == "" {
				errs = append(errs, FieldError{
					Field:   fmt.Sprintf("%s.aliases[%d]", field, j),
					Message: "must not be empty",
				})
			}
		}
	}

	for id, eq := range lf.Datacenters {
		field := fmt.Sprintf("datacenters[%s]", id)
		if eq.Residency == "" {
			errs = append(errs, FieldError{Field: field + ".residency", Message: "must not be empty"})
		}
		for j, alt := range eq.Alternatives {
			if alt.LocationID == "" {
				errs = append(errs, FieldError{
					Field:   fmt.Sprintf("%s.alternatives[%d].locationId", field, j),
					Message: "must not be empty",
				})
			}
			if alt.Residency == "" {
				errs = append(errs, FieldError{
					Field:   fmt.Sprintf("%s.alternatives[%d].residency", field, j),
					Message: "must not be empty",
				})
			}
		}
	}

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}

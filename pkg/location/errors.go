package location

import (
	"errors"
	"fmt"
)

// Common engine errors that can be checked with errors.Is().
var (
	// ErrNoLocationForEnvironment is returned by context normalization
	// when no registered descriptor for the active environment carries a
	// location id. This indicates a malformed descriptor table; there is
	// no sensible default to fall back to.
	ErrNoLocationForEnvironment = errors.New("no location-bearing descriptor for environment")

	// ErrLocationTypeNotFound is returned by operations that require a
	// registered location type (e.g., RemapLocationToURI) when the type
	// cannot be resolved under the current context.
	ErrLocationTypeNotFound = errors.New("location type not found")

	// ErrInvalidDescriptor is returned when a descriptor is rejected at
	// registration time.
	ErrInvalidDescriptor = errors.New("invalid location descriptor")
)

// NoLocationError is returned when the descriptor table has no
// location-bearing entry for the active environment.
type NoLocationError struct {
	// Environment is the environment that has no location-bearing node.
	Environment string
}

// Error implements the error interface.
func (e *NoLocationError) Error() string {
	return fmt.Sprintf("no location-bearing descriptor registered for environment %q", e.Environment)
}

// Is implements error matching for errors.Is().
func (e *NoLocationError) Is(target error) bool {
	return target == ErrNoLocationForEnvironment
}

// InvalidDescriptorError is returned when SetLocations rejects a record.
type InvalidDescriptorError struct {
	// Index is the position of the offending descriptor in the input.
	Index int

	// Reason describes what is missing or malformed.
	Reason string
}

// Error implements the error interface.
func (e *InvalidDescriptorError) Error() string {
	return fmt.Sprintf("descriptor %d: %s", e.Index, e.Reason)
}

// Is implements error matching for errors.Is().
func (e *InvalidDescriptorError) Is(target error) bool {
	return target == ErrInvalidDescriptor
}

// Meridian is a location-resolution engine for multi-environment,
// multi-residency deployments.
//
// It loads a descriptor table of deployed service and UI locations and
// resolves logical location types to concrete base URLs, picking the most
// specific match for the active environment, residency and datacenter
// context. Reverse lookups map observed URLs back to their descriptors and
// rebind relocated instances in place.
//
// Usage:
//
//	# Start the admin server with default configuration
//	meridian run
//
//	# Start with a custom configuration file
//	meridian run --config /path/to/config.yaml
//
//	# Resolve a location type from the command line
//	meridian resolve svc --path /users --locations locations.yaml
//
//	# Reverse-lookup a URL
//	meridian match https://eu1.api.example.com/health --locations locations.yaml
//
//	# Validate a descriptor table
//	meridian lint --file locations.yaml
//
//	# Show version information
//	meridian version
package main

func main() {
	Execute()
}

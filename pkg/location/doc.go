// Package location implements the Meridian location-resolution engine.
//
// The engine maps logical location types (services, UI surfaces) to concrete
// base URLs within a multi-environment, multi-residency, multi-datacenter
// topology, and classifies observed URLs back into that topology.
//
// # Components
//
// The package is split into four cooperating pieces:
//
//   - Registry: indexes Descriptor records under a four-level specificity
//     key (type, environment, residency, location id) for forward lookup,
//     and into keyword buckets for reverse lookup.
//   - Matcher: evaluates exact-prefix and wildcard match expressions from
//     the keyword buckets against a candidate URL. Matching is a pure
//     query; rebinding is a separate explicit command.
//   - Context normalization: merges partial context updates and reconciles
//     the active location id against the datacenter equivalence table.
//   - Resolver: the public facade combining the above, with acting-URL
//     detection and a non-throwing origin fallback for unknown types.
//
// # Usage
//
//	resolver := location.NewResolver(location.ResolverConfig{
//		Equivalences: table,
//	})
//	if err := resolver.SetLocations(descriptors); err != nil {
//		return err
//	}
//
//	base := resolver.ResolveURL("portal-api", "/v1/accounts", nil)
//	node := resolver.GetNodeByURI("https://eu1.api.example.com/login")
//
// The engine performs no network I/O. Side effects of reverse resolution
// (alias rebinding) and context changes are reported through an optional
// Hook so callers can attach metrics or audit recording.
package location

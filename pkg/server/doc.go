// Package server provides the admin HTTP server for inspecting a running
// resolver.
//
// The server is read-mostly tooling, not a data-plane component: it lets
// operators resolve URLs, probe reverse lookups, and inspect the active
// context of a deployed resolver without attaching a debugger. It also
// mounts the Prometheus metrics endpoint when metrics are enabled.
//
// Endpoints:
//
//	GET /v1/resolve?type=<locationType>&path=<path>   resolve a URL
//	GET /v1/match?url=<target>                        reverse lookup
//	GET /v1/context                                   active context
//	GET /healthz                                      liveness probe
//	GET <metrics path>                                Prometheus metrics
//
// Reverse lookups through /v1/match rebind descriptors exactly like
// in-process reverse lookups do; the endpoint is an inspection surface
// over the live engine, not a dry run.
package server

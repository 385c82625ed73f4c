package location

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// DefaultOrigin is the fallback base URL used when forward resolution
// cannot find a descriptor and no origin was configured. Outside a
// browser-like environment there is no ambient origin to inherit, so a
// fixed local default stands in.
const DefaultOrigin = "http://localhost:3000"

// DefaultIntegrationDomains are URL substrings that classify an otherwise
// unrecognized URL as an integration-environment address.
var DefaultIntegrationDomains = []string{"integration", ".int."}

// loopbackHosts are URL substrings that classify an unrecognized URL as a
// development-environment address.
var loopbackHosts = []string{"localhost", "127.0.0.1", "0.0.0.0", "[::1]"}

// ResolverConfig configures a Resolver. The zero value is usable: it
// yields a production/US context, the fixed local origin and no hook.
type ResolverConfig struct {
	// Origin is the base URL returned by ResolveURL for unknown location
	// types. Default: DefaultOrigin.
	Origin string

	// Environment and Residency seed the initial context.
	// Defaults: DefaultEnvironment, DefaultResidency.
	Environment string
	Residency   string

	// IntegrationDomains are substrings that mark an unrecognized URL as
	// an integration address during acting-URL detection.
	// Default: DefaultIntegrationDomains.
	IntegrationDomains []string

	// Equivalences is the static datacenter equivalence table.
	Equivalences EquivalenceTable

	// Hook receives engine events. Default: NopHook.
	Hook Hook

	// Logger is used for engine logging. Default: slog.Default.
	Logger *slog.Logger
}

// Resolver is the public facade of the location-resolution engine. It owns
// a Registry, the active Context and the forward-lookup cache.
//
// Each consumer (API client layer, session manager, navigation engine)
// should hold a reference to one injected Resolver instance; the engine
// deliberately has no ambient singleton.
type Resolver struct {
	registry *Registry

	mu        sync.Mutex
	context   Context
	cache     map[string]*Descriptor
	actingURL string

	origin             string
	integrationDomains []string
	equivalences       EquivalenceTable
	hook               Hook
	logger             *slog.Logger
}

// NewResolver creates a resolver with the given configuration.
func NewResolver(cfg ResolverConfig) *Resolver {
	if cfg.Origin == "" {
		cfg.Origin = DefaultOrigin
	}
	if cfg.Environment == "" {
		cfg.Environment = DefaultEnvironment
	}
	if cfg.Residency == "" {
		cfg.Residency = DefaultResidency
	}
	if cfg.IntegrationDomains == nil {
		cfg.IntegrationDomains = DefaultIntegrationDomains
	}
	if cfg.Hook == nil {
		cfg.Hook = NopHook{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &Resolver{
		registry: NewRegistry(cfg.Logger),
		context: Context{
			Environment: cfg.Environment,
			Residency:   cfg.Residency,
		},
		cache:              make(map[string]*Descriptor),
		origin:             cfg.Origin,
		integrationDomains: cfg.IntegrationDomains,
		equivalences:       cfg.Equivalences,
		hook:               cfg.Hook,
		logger:             cfg.Logger.With("component", "location.resolver"),
	}
}

// Registry exposes the underlying registry for direct index access.
func (r *Resolver) Registry() *Registry {
	return r.registry
}

// SetLocations replaces the descriptor table and flushes the forward
// cache. The active context is left untouched; callers that depend on
// normalization against the new table should follow up with SetContext.
func (r *Resolver) SetLocations(descriptors []Descriptor) error {
	if err := r.registry.SetLocations(descriptors); err != nil {
		return err
	}
	r.mu.Lock()
	r.flushCacheLocked()
	r.mu.Unlock()
	return nil
}

// GetNode resolves a location type to its most specific descriptor.
//
// With a nil override the resolver's ambient context applies and a
// successful result is cached by location type; with an override the
// lookup bypasses the cache entirely. Returns nil when the type is
// unknown; forward resolution is deliberately non-throwing.
func (r *Resolver) GetNode(locationType string, override *Context) *Descriptor {
	if override != nil {
		d := r.registry.Lookup(locationType, *override)
		r.hook.ForwardLookup(locationType, outcomeOf(d, false))
		return d
	}

	r.mu.Lock()
	if d, ok := r.cache[locationType]; ok {
		r.mu.Unlock()
		r.hook.ForwardLookup(locationType, OutcomeCached)
		return d
	}
	ctx := r.context
	r.mu.Unlock()

	d := r.registry.Lookup(locationType, ctx)
	if d != nil {
		r.mu.Lock()
		r.cache[locationType] = d
		r.mu.Unlock()
	}
	r.hook.ForwardLookup(locationType, outcomeOf(d, false))
	return d
}

func outcomeOf(d *Descriptor, cached bool) string {
	switch {
	case cached:
		return OutcomeCached
	case d != nil:
		return OutcomeHit
	default:
		return OutcomeMiss
	}
}

// ResolveURL computes the base URL for a location type and appends path
// verbatim (the caller owns leading-slash correctness).
//
// Schemeless descriptor URIs get an https:// prefix. An unknown location
// type falls back to the configured origin instead of failing: link
// computation in a UI context must never throw for unknown routes.
func (r *Resolver) ResolveURL(locationType, path string, override *Context) string {
	base := r.origin
	if d := r.GetNode(locationType, override); d != nil {
		base = d.URI
		if !strings.Contains(base, "://") {
			base = "https://" + base
		}
	}
	return base + path
}

// GetNodeByURI performs reverse resolution: it matches the target URL
// against registered URIs and alias patterns, and on a hit rebinds the
// descriptor to the canonical base of the observed URL when that differs
// from the descriptor's current URI. Returns nil on a true miss.
func (r *Resolver) GetNodeByURI(target string) *Descriptor {
	start := time.Now()

	d := r.registry.Match(target)
	if d != nil {
		previous := d.URI
		if r.registry.Rebind(d, CanonicalBase(target)) {
			r.mu.Lock()
			r.flushCacheLocked()
			r.mu.Unlock()
			r.hook.Rebound(d, previous)
		}
	}

	r.hook.ReverseLookup(d != nil, time.Since(start))
	return d
}

// RemapLocationToURI forces a location type to resolve to an arbitrary
// URL. This is a test/development override: the descriptor is rebound as
// if the URL had been observed on one of its aliases, and acting-URL
// detection re-runs so the context reflects the new binding.
func (r *Resolver) RemapLocationToURI(locationType, uri string) error {
	r.mu.Lock()
	ctx := r.context
	acting := r.actingURL
	r.mu.Unlock()

	d := r.registry.Lookup(locationType, ctx)
	if d == nil {
		return fmt.Errorf("remap %q: %w", locationType, ErrLocationTypeNotFound)
	}

	previous := d.URI
	if r.registry.Rebind(d, uri) {
		r.mu.Lock()
		r.flushCacheLocked()
		r.mu.Unlock()
		r.hook.Rebound(d, previous)
	}

	if acting != "" {
		return r.Target(acting)
	}
	return nil
}

// FlushCache drops all cached forward-lookup results. Exposed for
// collaborators that mutate descriptor state outside the engine.
func (r *Resolver) FlushCache() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.flushCacheLocked()
}

// flushCacheLocked must be called with r.mu held.
func (r *Resolver) flushCacheLocked() {
	clear(r.cache)
}

// Context returns a copy of the active context.
func (r *Resolver) Context() Context {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.contextLocked()
}

// contextLocked must be called with r.mu held.
func (r *Resolver) contextLocked() Context {
	ctx := r.context
	ctx.AccessibleLocationIDs = append([]string(nil), r.context.AccessibleLocationIDs...)
	return ctx
}

// ActingURL returns the URL last fed to acting-URL detection, if any.
func (r *Resolver) ActingURL() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.actingURL
}

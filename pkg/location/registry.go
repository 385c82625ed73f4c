package location

import (
	"log/slog"
	"sort"
	"strings"
	"sync"
)

// anyValue marks a wildcarded dimension in a nodeKey. Descriptor fields
// never contain it; lookups that fall through the specific levels probe
// keys built with it.
const anyValue = "*"

// nodeKey is the four-dimensional forward-lookup key. Using a comparable
// struct instead of a delimited string removes any delimiter-collision
// risk between field values.
type nodeKey struct {
	locationType string
	environment  string
	residency    string
	locationID   string
}

// Registry indexes location descriptors for forward (type + context →
// descriptor) and reverse (URL → descriptor) lookup.
//
// SetLocations rebuilds all lookup structures wholesale; descriptors are
// otherwise only mutated through Rebind. A Registry is safe for concurrent
// use: lookups hand out copies of the stored records, so a concurrent
// Rebind never races with a caller reading descriptor fields.
type Registry struct {
	mu sync.RWMutex

	// nodes is the specificity index. Each registered descriptor appears
	// under up to four keys of decreasing specificity; later registrations
	// overwrite earlier ones at the same key.
	nodes map[nodeKey]*Descriptor

	// order holds every registered descriptor (after environment fan-out)
	// in registration order. Context normalization scans it to find the
	// first location-bearing node for an environment.
	order []*Descriptor

	// buckets holds the reverse-lookup keyword buckets in insertion
	// order. Bucket iteration order is part of the observable matching
	// behavior: the first bucket whose keyword occurs in the target URL
	// and whose candidates produce a hit wins.
	buckets     []*bucket
	bucketIndex map[string]*bucket

	logger *slog.Logger
}

// NewRegistry creates an empty registry. A nil logger falls back to
// slog.Default.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		nodes:       make(map[nodeKey]*Descriptor),
		bucketIndex: make(map[string]*bucket),
		logger:      logger.With("component", "location.registry"),
	}
}

// SetLocations replaces the registry contents with the given descriptor
// records and rebuilds all lookup structures.
//
// Each record with a pipe-delimited environment ("production|integration")
// is expanded into one independent copy per listed environment. Every copy
// is indexed under four keys of decreasing specificity and appended, along
// with each of its aliases, to its keyword bucket. Buckets are then
// stable-sorted ascending by descriptor weight.
func (r *Registry) SetLocations(descriptors []Descriptor) error {
	for i := range descriptors {
		if descriptors[i].LocationType == "" {
			return &InvalidDescriptorError{Index: i, Reason: "missing locationType"}
		}
		if descriptors[i].URI == "" {
			return &InvalidDescriptorError{Index: i, Reason: "missing uri"}
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.nodes = make(map[nodeKey]*Descriptor)
	r.order = r.order[:0]
	r.buckets = nil
	r.bucketIndex = make(map[string]*bucket)

	for i := range descriptors {
		for _, env := range splitEnvironments(descriptors[i].Environment) {
			d := descriptors[i] // copy, one per environment
			d.Environment = env
			r.register(&d)
		}
	}

	for _, b := range r.buckets {
		sort.SliceStable(b.candidates, func(i, j int) bool {
			return b.candidates[i].desc.Weight < b.candidates[j].desc.Weight
		})
	}

	r.logger.Debug("registry rebuilt",
		"descriptors", len(r.order),
		"index_keys", len(r.nodes),
		"buckets", len(r.buckets),
	)
	return nil
}

// register indexes one environment-expanded descriptor. Must be called
// with the write lock held.
func (r *Registry) register(d *Descriptor) {
	r.order = append(r.order, d)

	if d.LocationID != "" {
		r.nodes[nodeKey{d.LocationType, d.Environment, d.Residency, d.LocationID}] = d
	}
	r.nodes[nodeKey{d.LocationType, d.Environment, d.Residency, ""}] = d
	r.nodes[nodeKey{d.LocationType, d.Environment, anyValue, ""}] = d
	r.nodes[nodeKey{d.LocationType, anyValue, anyValue, ""}] = d

	r.addCandidate(d.bucketKeyword(), "", d)
	for _, alias := range d.Aliases {
		r.addCandidate(d.bucketKeyword(), alias, d)
	}
}

// addCandidate appends a match expression to a keyword bucket, creating
// the bucket on first use. An empty alias registers the URI candidate,
// which tracks the descriptor's live URI. Must be called with the write
// lock held.
func (r *Registry) addCandidate(keyword, alias string, d *Descriptor) {
	b, ok := r.bucketIndex[keyword]
	if !ok {
		b = &bucket{keyword: keyword}
		r.bucketIndex[keyword] = b
		r.buckets = append(r.buckets, b)
	}
	b.candidates = append(b.candidates, &candidate{alias: alias, desc: d})
}

// Lookup resolves a location type against the given context, trying keys
// in decreasing order of specificity:
//
//  1. exact (type, environment, residency, locationID)
//  2. (type, environment, residency, id) for each accessible id other
//     than the primary; all ids are probed and the last hit wins
//  3. (type, environment, residency)
//  4. (type, environment, any residency)
//  5. (type, any environment, any residency)
//
// Returns nil when no level matches. The result is a caller-owned copy;
// a rebind after this call is observed by looking the type up again, not
// through the returned value.
func (r *Registry) Lookup(locationType string, ctx Context) *Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lookupLocked(locationType, ctx).snapshot()
}

// lookupLocked walks the specificity chain and returns the registry-owned
// record. Must be called with at least the read lock held.
func (r *Registry) lookupLocked(locationType string, ctx Context) *Descriptor {
	if ctx.LocationID != "" {
		if d := r.nodes[nodeKey{locationType, ctx.Environment, ctx.Residency, ctx.LocationID}]; d != nil {
			return d
		}
	}

	// Accessible ids are probed in order without short-circuiting; the
	// last matching id wins. This mirrors long-standing deployment
	// behavior and is covered by a regression test.
	var accessible *Descriptor
	for _, id := range ctx.AccessibleLocationIDs {
		if id == ctx.LocationID {
			continue
		}
		if d := r.nodes[nodeKey{locationType, ctx.Environment, ctx.Residency, id}]; d != nil {
			accessible = d
		}
	}
	if accessible != nil {
		return accessible
	}

	if d := r.nodes[nodeKey{locationType, ctx.Environment, ctx.Residency, ""}]; d != nil {
		return d
	}
	if d := r.nodes[nodeKey{locationType, ctx.Environment, anyValue, ""}]; d != nil {
		return d
	}
	return r.nodes[nodeKey{locationType, anyValue, anyValue, ""}]
}

// Rebind overwrites the descriptor's URI with a newly observed canonical
// base URL, preserving the previous value in OriginalURI. It reports
// whether the descriptor actually changed.
//
// Rebinding is the explicit command half of reverse lookup: Match finds a
// descriptor without side effects, and the caller decides whether to
// rebind it to the observed base URL.
//
// Lookups return copies, so Rebind mutates the registry-owned record the
// copy came from, then brings the caller's copy up to date with it.
func (r *Registry) Rebind(d *Descriptor, base string) bool {
	if d == nil || base == "" {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	rec := d
	if d.record != nil {
		rec = d.record
	}

	if rec.URI == base {
		return false
	}
	rec.OriginalURI = rec.URI
	rec.URI = base
	d.URI = rec.URI
	d.OriginalURI = rec.OriginalURI

	r.logger.Info("location rebound",
		"location_type", rec.LocationType,
		"previous_uri", rec.OriginalURI,
		"uri", rec.URI,
	)
	return true
}

// FirstLocationBearing returns the first registered descriptor for the
// given environment that carries a location id, or nil when the table has
// none for that environment.
func (r *Registry) FirstLocationBearing(environment string) *Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, d := range r.order {
		if d.Environment == environment && d.LocationID != "" {
			return d.snapshot()
		}
	}
	return nil
}

// Len returns the number of registered descriptors after environment
// fan-out.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// splitEnvironments expands a pipe-delimited environment declaration.
// Empty segments and a fully empty value collapse to a single empty
// environment so the descriptor still registers under the wildcard keys.
func splitEnvironments(environment string) []string {
	if !strings.Contains(environment, "|") {
		return []string{environment}
	}
	parts := strings.Split(environment, "|")
	envs := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			envs = append(envs, p)
		}
	}
	if len(envs) == 0 {
		return []string{""}
	}
	return envs
}

package location

// Default context values used when a Resolver is created without an
// explicit environment or residency.
const (
	DefaultEnvironment = "production"
	DefaultResidency   = "US"
)

// Well-known environment tiers. Descriptor tables may declare additional
// tiers (staging variants etc.); the engine treats environments as opaque
// strings except where acting-URL heuristics apply.
const (
	EnvProduction  = "production"
	EnvIntegration = "integration"
	EnvDevelopment = "development"
)

// Descriptor describes one deployed instance of a logical location type in
// one environment/residency. Descriptors are supplied as external data and
// registered via Registry.SetLocations; the engine never generates them.
//
// A Descriptor is mutable at runtime in exactly one way: rebinding, which
// overwrites URI with a newly observed canonical base URL and preserves the
// previous value in OriginalURI.
type Descriptor struct {
	// LocationType is the logical identifier shared by all instances of
	// the same service or UI surface across environments.
	LocationType string `yaml:"locationType" json:"locationType"`

	// LocationID is the concrete datacenter/region identifier, when the
	// instance is bound to one (e.g., an insight or defender location).
	LocationID string `yaml:"locationId,omitempty" json:"locationId,omitempty"`

	// URI is the base URL, or a protocol-less host for historically
	// schemeless entries. Overwritten in place by rebinding.
	URI string `yaml:"uri" json:"uri"`

	// OriginalURI holds the pre-rebind URI. It is empty until the first
	// rebind overwrites URI.
	OriginalURI string `yaml:"-" json:"originalUri,omitempty"`

	// Residency is the data-sovereignty domain this instance serves.
	Residency string `yaml:"residency,omitempty" json:"residency,omitempty"`

	// Environment is the deployment tier. At registration time a
	// pipe-delimited value ("production|integration") is expanded into
	// one Descriptor copy per listed environment.
	Environment string `yaml:"environment,omitempty" json:"environment,omitempty"`

	// Aliases are additional match expressions for reverse lookup. A "*"
	// in an alias matches one or more URL-safe characters.
	Aliases []string `yaml:"aliases,omitempty" json:"aliases,omitempty"`

	// Keyword is the explicit reverse-lookup bucket key. Defaults to URI.
	Keyword string `yaml:"keyword,omitempty" json:"keyword,omitempty"`

	// Weight orders candidates within a reverse-lookup bucket. Lower
	// weights are tried first; the default is 0.
	Weight int `yaml:"weight,omitempty" json:"weight,omitempty"`

	// Data carries an opaque payload (captions, entry-point references).
	// The engine stores it untouched.
	Data map[string]any `yaml:"data,omitempty" json:"data,omitempty"`

	// record points at the registry-owned record this descriptor was
	// copied from. Lookups hand out copies so callers never read fields
	// that Rebind mutates; Rebind follows this pointer back to the
	// registry's record. Nil on caller-built descriptors.
	record *Descriptor
}

// snapshot returns a caller-owned copy that remembers its registry-owned
// record. Must be called with the registry lock held. Nil-safe.
func (d *Descriptor) snapshot() *Descriptor {
	if d == nil {
		return nil
	}
	c := *d
	if c.record == nil {
		c.record = d
	}
	return &c
}

// bucketKeyword returns the reverse-lookup bucket key for the descriptor.
func (d *Descriptor) bucketKeyword() string {
	if d.Keyword != "" {
		return d.Keyword
	}
	return d.URI
}

// Context is the active resolution context: which environment, residency
// and datacenter forward lookups should prefer.
//
// Residency is advisory: whenever LocationID is present and known to the
// equivalence table, normalization overwrites Residency with the residency
// declared for that location, because location specificity is authoritative.
type Context struct {
	Environment string `json:"environment"`
	Residency   string `json:"residency"`

	// LocationID is the bound datacenter, when one has been selected.
	LocationID string `json:"locationId,omitempty"`

	// AccessibleLocationIDs restricts which datacenters the caller may be
	// bound to. Empty means unrestricted.
	AccessibleLocationIDs []string `json:"accessibleLocationIds,omitempty"`
}

// ContextPatch is a partial context update. Zero-valued fields are left
// unchanged by SetContext; present (truthy) fields overwrite.
type ContextPatch struct {
	Environment           string
	Residency             string
	LocationID            string
	AccessibleLocationIDs []string
}

// Alternative is one entry in an equivalence record: a more specific
// location id with its declared residency.
type Alternative struct {
	LocationID string `yaml:"locationId" json:"locationId"`
	Residency  string `yaml:"residency" json:"residency"`
}

// Equivalence declares the residency of a high-level location id and the
// ordered list of more specific datacenters that are equivalent to it.
type Equivalence struct {
	Residency    string        `yaml:"residency" json:"residency"`
	Alternatives []Alternative `yaml:"alternatives,omitempty" json:"alternatives,omitempty"`
}

// EquivalenceTable maps high-level location ids to their equivalence
// records. It is static external data, supplied at Resolver construction.
type EquivalenceTable map[string]Equivalence

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

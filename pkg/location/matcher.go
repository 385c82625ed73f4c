package location

import (
	"regexp"
	"strings"
	"sync"
)

// bucket groups reverse-lookup candidates under one keyword. A bucket is
// only considered for a target URL when the URL contains the keyword as a
// literal substring; this prefilter keeps reverse lookup cheap even with
// large descriptor tables.
type bucket struct {
	keyword    string
	candidates []*candidate
}

// candidate is one match expression pointing at a descriptor. An alias
// candidate carries a fixed expression; a URI candidate tracks the
// descriptor's current URI, so rebinding is immediately visible to
// subsequent reverse lookups.
//
// The wildcard pattern is compiled lazily and memoized per expression
// value; most lookups are satisfied by the verbatim-prefix check and
// never compile anything, and only a rebind forces a recompile.
type candidate struct {
	alias string // fixed alias expression; empty for the URI candidate
	desc  *Descriptor

	compileMu    sync.Mutex
	compiled     *regexp.Regexp
	compiledExpr string
	compileErr   error
}

// expr returns the candidate's current match expression.
func (c *candidate) expr() string {
	if c.alias != "" {
		return c.alias
	}
	return c.desc.URI
}

// pattern returns the compiled wildcard pattern for expr, recompiling
// only when the expression changed since the last call.
func (c *candidate) pattern(expr string) (*regexp.Regexp, error) {
	c.compileMu.Lock()
	defer c.compileMu.Unlock()
	if c.compiledExpr != expr {
		c.compiled, c.compileErr = compileWildcard(expr)
		c.compiledExpr = expr
	}
	return c.compiled, c.compileErr
}

// matches reports whether the candidate's expression matches the target
// URL: either the URL starts with the expression verbatim, or the
// expression's compiled wildcard pattern matches.
func (c *candidate) matches(target string) bool {
	expr := c.expr()
	if strings.HasPrefix(target, expr) {
		return true
	}
	re, err := c.pattern(expr)
	if err != nil {
		return false
	}
	return re.MatchString(target)
}

// Match performs a pure reverse lookup: it finds the descriptor whose URI
// or alias matches the target URL, without any side effect. Buckets are
// scanned in insertion order and, within a bucket, candidates in weight
// order; the first hit wins. Returns nil when nothing matches, and a
// caller-owned copy of the matched descriptor otherwise.
//
// Callers that want the legacy rebind-on-hit behavior compose Match with
// Rebind; see Resolver.GetNodeByURI.
func (r *Registry) Match(target string) *Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, b := range r.buckets {
		if !strings.Contains(target, b.keyword) {
			continue
		}
		for _, c := range b.candidates {
			if c.matches(target) {
				return c.desc.snapshot()
			}
		}
	}
	return nil
}

// wildcardSegment matches what a "*" in an alias expression stands for:
// one or more URL-safe name characters.
const wildcardSegment = `([a-zA-Z0-9_-]+)`

// compileWildcard turns a match expression into an anchored pattern. All
// regex metacharacters are escaped except "*", which becomes a capturing
// group of URL-safe characters; anything may follow the expression.
func compileWildcard(expr string) (*regexp.Regexp, error) {
	escaped := regexp.QuoteMeta(expr)
	pattern := strings.ReplaceAll(escaped, `\*`, wildcardSegment)
	return regexp.Compile(`^` + pattern + `.*$`)
}

// schemeHostPattern extracts the scheme://host[:port] prefix of a URL.
var schemeHostPattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*://[^/?#]+`)

// CanonicalBase reduces an observed URL to the base form used for
// rebinding comparisons: the scheme://host[:port] prefix when one is
// present, otherwise the input with its fragment, query string and one
// trailing slash stripped.
func CanonicalBase(target string) string {
	if m := schemeHostPattern.FindString(target); m != "" {
		return m
	}
	if i := strings.IndexByte(target, '#'); i >= 0 {
		target = target[:i]
	}
	if i := strings.IndexByte(target, '?'); i >= 0 {
		target = target[:i]
	}
	return strings.TrimSuffix(target, "/")
}

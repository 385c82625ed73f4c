package location

import "strings"

// SetContext merges the patch over the active context and normalizes the
// result. Only fields present (non-zero) in the patch overwrite; absent
// fields are left unchanged. Every successful merge flushes the forward
// cache and notifies the hook.
//
// The only possible error is ErrNoLocationForEnvironment, which indicates
// a malformed descriptor table rather than a bad patch.
func (r *Resolver) SetContext(patch ContextPatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if patch.Environment != "" {
		r.context.Environment = patch.Environment
	}
	if patch.Residency != "" {
		r.context.Residency = patch.Residency
	}
	if patch.LocationID != "" {
		r.context.LocationID = patch.LocationID
	}
	if len(patch.AccessibleLocationIDs) > 0 {
		r.context.AccessibleLocationIDs = append([]string(nil), patch.AccessibleLocationIDs...)
	}

	return r.normalizeLocked()
}

// normalizeLocked reconciles the merged context against the descriptor
// table and the datacenter equivalence table. Must be called with r.mu
// held.
//
// Rules, in order:
//
//  1. A missing location id is filled from the first location-bearing
//     descriptor for the active environment. If no such descriptor
//     exists the table is malformed and a hard error is returned.
//  2. A location id outside a non-empty accessible list is replaced with
//     the first accessible id.
//  3. When the equivalence table declares alternatives for the id, the
//     first accessible alternative is chosen (or the table's first
//     alternative unconditionally when none is accessible) and both the
//     location id and the residency are overwritten from the selection.
//     Location specificity is authoritative: a conflicting residency
//     supplied by the caller is silently corrected, not reported.
func (r *Resolver) normalizeLocked() error {
	ctx := &r.context

	if ctx.LocationID == "" {
		d := r.registry.FirstLocationBearing(ctx.Environment)
		if d == nil {
			return &NoLocationError{Environment: ctx.Environment}
		}
		ctx.LocationID = d.LocationID
	}

	if len(ctx.AccessibleLocationIDs) > 0 && !containsID(ctx.AccessibleLocationIDs, ctx.LocationID) {
		ctx.LocationID = ctx.AccessibleLocationIDs[0]
	}

	if eq, ok := r.equivalences[ctx.LocationID]; ok {
		if len(eq.Alternatives) > 0 {
			selected := eq.Alternatives[0]
			for _, alt := range eq.Alternatives {
				if containsID(ctx.AccessibleLocationIDs, alt.LocationID) {
					selected = alt
					break
				}
			}
			ctx.LocationID = selected.LocationID
			ctx.Residency = selected.Residency
		} else if eq.Residency != "" {
			ctx.Residency = eq.Residency
		}
	}

	r.flushCacheLocked()
	r.hook.ContextChanged(r.contextLocked())

	r.logger.Debug("context normalized",
		"environment", ctx.Environment,
		"residency", ctx.Residency,
		"location_id", ctx.LocationID,
	)
	return nil
}

// Target seeds the context from an observed URL (acting-URL detection).
//
// When reverse resolution recognizes the URL, the matched descriptor's
// environment and residency are adopted (current values stand in for
// unset fields) and the context is normalized. Unrecognized URLs are
// classified heuristically: loopback hosts imply development, a known
// integration domain substring implies integration, and anything else
// defaults to production with US residency.
func (r *Resolver) Target(target string) error {
	d := r.GetNodeByURI(target)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.actingURL = target

	if d != nil {
		if d.Environment != "" {
			r.context.Environment = d.Environment
		}
		if d.Residency != "" {
			r.context.Residency = d.Residency
		}
		return r.normalizeLocked()
	}

	switch {
	case containsAny(target, loopbackHosts):
		r.context.Environment = EnvDevelopment
	case containsAny(target, r.integrationDomains):
		r.context.Environment = EnvIntegration
	default:
		r.context.Environment = EnvProduction
		r.context.Residency = DefaultResidency
	}

	r.flushCacheLocked()
	r.hook.ContextChanged(r.contextLocked())

	r.logger.Debug("acting URL classified heuristically",
		"url", target,
		"environment", r.context.Environment,
	)
	return nil
}

func containsAny(s string, substrings []string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

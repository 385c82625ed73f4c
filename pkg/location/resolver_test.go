package location

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

// recordingHook captures engine events for assertions.
type recordingHook struct {
	mu             sync.Mutex
	forward        []string
	reverseHits    int
	reverseMisses  int
	rebinds        []string
	contextChanges int
}

func (h *recordingHook) ForwardLookup(locationType, outcome string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.forward = append(h.forward, locationType+":"+outcome)
}

func (h *recordingHook) ReverseLookup(hit bool, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if hit {
		h.reverseHits++
	} else {
		h.reverseMisses++
	}
}

func (h *recordingHook) Rebound(d *Descriptor, previousURI string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.rebinds = append(h.rebinds, previousURI+" -> "+d.URI)
}

func (h *recordingHook) ContextChanged(Context) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.contextChanges++
}

func TestResolver_ResolveURL_Scenario(t *testing.T) {
	r := NewResolver(ResolverConfig{})
	err := r.SetLocations([]Descriptor{
		{
			LocationType: "svc",
			URI:          "https://a.example.com",
			Environment:  "production",
			Residency:    "US",
		},
	})
	if err != nil {
		t.Fatalf("SetLocations() error = %v", err)
	}

	override := &Context{Environment: "production", Residency: "US"}
	if d := r.GetNode("svc", override); d == nil || d.URI != "https://a.example.com" {
		t.Fatalf("GetNode(svc) = %v, want the registered descriptor", d)
	}

	if err := r.RemapLocationToURI("svc", "https://b.example.com"); err != nil {
		t.Fatalf("RemapLocationToURI() error = %v", err)
	}
	if got := r.ResolveURL("svc", "", nil); got != "https://b.example.com" {
		t.Errorf("ResolveURL(svc) = %q after remap, want https://b.example.com", got)
	}
}

func TestResolver_ResolveURL(t *testing.T) {
	r := NewResolver(ResolverConfig{Origin: "https://origin.example.com"})
	err := r.SetLocations([]Descriptor{
		{
			LocationType: "portal-api",
			URI:          "https://api.example.com",
			Environment:  "production",
			Residency:    "US",
		},
		{
			LocationType: "legacy",
			URI:          "legacy.example.com", // historically schemeless
			Environment:  "production",
			Residency:    "US",
		},
	})
	if err != nil {
		t.Fatalf("SetLocations() error = %v", err)
	}

	tests := []struct {
		name         string
		locationType string
		path         string
		want         string
	}{
		{
			name:         "known type with path",
			locationType: "portal-api",
			path:         "/v1/accounts",
			want:         "https://api.example.com/v1/accounts",
		},
		{
			name:         "schemeless entry gets https",
			locationType: "legacy",
			path:         "/x",
			want:         "https://legacy.example.com/x",
		},
		{
			name:         "unknown type falls back to origin",
			locationType: "nonexistent",
			path:         "/x",
			want:         "https://origin.example.com/x",
		},
		{
			name:         "empty path",
			locationType: "portal-api",
			path:         "",
			want:         "https://api.example.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.ResolveURL(tt.locationType, tt.path, nil); got != tt.want {
				t.Errorf("ResolveURL(%q, %q) = %q, want %q", tt.locationType, tt.path, got, tt.want)
			}
		})
	}
}

func TestResolver_ResolveURL_Idempotent(t *testing.T) {
	r := NewResolver(ResolverConfig{})
	if err := r.SetLocations(testDescriptors()); err != nil {
		t.Fatalf("SetLocations() error = %v", err)
	}

	first := r.ResolveURL("portal-api", "/v1/users", nil)
	for i := 0; i < 100; i++ {
		if got := r.ResolveURL("portal-api", "/v1/users", nil); got != first {
			t.Fatalf("ResolveURL() call %d = %q, want %q (unchanged state must be idempotent)", i, got, first)
		}
	}
}

func TestResolver_GetNode_CacheInvalidation(t *testing.T) {
	hook := &recordingHook{}
	r := NewResolver(ResolverConfig{Hook: hook})
	if err := r.SetLocations(testDescriptors()); err != nil {
		t.Fatalf("SetLocations() error = %v", err)
	}

	first := r.GetNode("portal-api", nil)
	if first == nil {
		t.Fatal("GetNode() = nil, want descriptor")
	}
	second := r.GetNode("portal-api", nil)
	if second != first {
		t.Error("second GetNode() returned a different descriptor, want cached result")
	}
	if len(hook.forward) != 2 || hook.forward[1] != "portal-api:cached" {
		t.Errorf("forward events = %v, want second lookup served from cache", hook.forward)
	}

	// A context change flushes the cache; the next lookup resolves fresh
	// against the new context.
	if err := r.SetContext(ContextPatch{Environment: "integration", Residency: "US", LocationID: "us-east-1"}); err == nil {
		// integration has no location-bearing node in the fixture, but
		// the explicit location id keeps normalization satisfied.
		d := r.GetNode("portal-api", nil)
		if d == nil || d.Environment != "integration" {
			t.Errorf("GetNode() after context change = %v, want integration descriptor", d)
		}
	} else {
		t.Fatalf("SetContext() error = %v", err)
	}
}

func TestResolver_GetNodeByURI_AliasRebindRoundTrip(t *testing.T) {
	hook := &recordingHook{}
	r := NewResolver(ResolverConfig{Hook: hook})
	err := r.SetLocations([]Descriptor{
		{
			LocationType: "svc",
			URI:          "https://a.example.com",
			Environment:  "production",
			Residency:    "US",
			Keyword:      "example.com",
			Aliases:      []string{"https://b.example.com"},
		},
	})
	if err != nil {
		t.Fatalf("SetLocations() error = %v", err)
	}

	d := r.GetNodeByURI("https://b.example.com/suffix")
	if d == nil {
		t.Fatal("GetNodeByURI() = nil, want alias hit")
	}
	if d.URI != "https://b.example.com" {
		t.Errorf("URI = %q after rebind, want canonical base of the alias", d.URI)
	}
	if d.OriginalURI != "https://a.example.com" {
		t.Errorf("OriginalURI = %q, want pre-rebind URI", d.OriginalURI)
	}

	// Subsequent forward resolution reflects the rebound base, not the
	// originally registered URI.
	if got := r.ResolveURL("svc", "/health", nil); got != "https://b.example.com/health" {
		t.Errorf("ResolveURL() = %q after rebind, want rebound base", got)
	}

	if len(hook.rebinds) != 1 {
		t.Errorf("rebind events = %v, want exactly one", hook.rebinds)
	}
	if hook.reverseHits != 1 {
		t.Errorf("reverse hits = %d, want 1", hook.reverseHits)
	}
}

func TestResolver_GetNodeByURI_Miss(t *testing.T) {
	hook := &recordingHook{}
	r := NewResolver(ResolverConfig{Hook: hook})
	if err := r.SetLocations(testDescriptors()); err != nil {
		t.Fatalf("SetLocations() error = %v", err)
	}

	if d := r.GetNodeByURI("https://unrelated.invalid/path"); d != nil {
		t.Errorf("GetNodeByURI() = %v, want nil for unrecognized URL", d)
	}
	if hook.reverseMisses != 1 {
		t.Errorf("reverse misses = %d, want 1", hook.reverseMisses)
	}
}

func TestResolver_RemapLocationToURI_UnknownType(t *testing.T) {
	r := NewResolver(ResolverConfig{})
	if err := r.SetLocations(testDescriptors()); err != nil {
		t.Fatalf("SetLocations() error = %v", err)
	}

	err := r.RemapLocationToURI("nonexistent", "https://x.invalid")
	if err == nil {
		t.Fatal("RemapLocationToURI() = nil, want error for unknown type")
	}
	if !errors.Is(err, ErrLocationTypeNotFound) {
		t.Errorf("error %v is not ErrLocationTypeNotFound", err)
	}
}

func TestResolver_RemapLocationToURI_RetriggersActingURLDetection(t *testing.T) {
	r := NewResolver(ResolverConfig{})
	err := r.SetLocations([]Descriptor{
		{
			LocationType: "portal-ui",
			LocationID:   "us-east-1",
			URI:          "https://portal.example.com",
			Environment:  "production",
			Residency:    "US",
			Keyword:      "localhost:3000",
		},
	})
	if err != nil {
		t.Fatalf("SetLocations() error = %v", err)
	}

	if err := r.Target("http://localhost:3000/app"); err != nil {
		t.Fatalf("Target() error = %v", err)
	}
	if got := r.Context().Environment; got != EnvDevelopment {
		t.Fatalf("Environment = %q, want development before remap", got)
	}

	// Remapping rebinds the descriptor so the acting URL now matches it;
	// re-detection adopts the descriptor's environment.
	if err := r.RemapLocationToURI("portal-ui", "http://localhost:3000"); err != nil {
		t.Fatalf("RemapLocationToURI() error = %v", err)
	}
	if got := r.Context().Environment; got != "production" {
		t.Errorf("Environment = %q after remap re-detection, want production", got)
	}
}

// Exercises rebinding reverse lookups against concurrent forward
// resolution; meaningful under the race detector.
func TestResolver_ConcurrentRebindAndResolve(t *testing.T) {
	r := NewResolver(ResolverConfig{})
	err := r.SetLocations([]Descriptor{
		{
			LocationType: "svc",
			URI:          "https://api.example.com",
			Environment:  "production",
			Residency:    "US",
			Keyword:      "api.example.com",
			Aliases:      []string{"https://*.api.example.com"},
		},
	})
	if err != nil {
		t.Fatalf("SetLocations() error = %v", err)
	}

	// Alternating alias hosts force a rebind on nearly every reverse
	// lookup while the other goroutines read descriptor fields.
	targets := []string{
		"https://a.api.example.com/health",
		"https://b.api.example.com/health",
	}

	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				if d := r.GetNodeByURI(targets[i%len(targets)]); d == nil {
					t.Error("GetNodeByURI() = nil, want descriptor")
					return
				}
			}
		}()
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				got := r.ResolveURL("svc", "/health", nil)
				if !strings.HasPrefix(got, "https://") || !strings.HasSuffix(got, "/health") {
					t.Errorf("ResolveURL() = %q, want https base with /health suffix", got)
					return
				}
				if d := r.GetNode("svc", nil); d == nil {
					t.Error("GetNode() = nil, want descriptor")
					return
				}
			}
		}()
	}
	wg.Wait()
}

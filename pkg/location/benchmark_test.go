package location

import (
	"fmt"
	"testing"
	"time"
)

// benchmarkRegistry builds a registry with a realistically sized
// descriptor table: many location types across environments and
// residencies, several with wildcard aliases.
func benchmarkRegistry(tb testing.TB) *Registry {
	tb.Helper()

	var descriptors []Descriptor
	for i := 0; i < 40; i++ {
		host := fmt.Sprintf("svc%02d.example.com", i)
		descriptors = append(descriptors, Descriptor{
			LocationType: fmt.Sprintf("svc-%02d", i),
			LocationID:   fmt.Sprintf("dc-%02d", i%4),
			URI:          "https://" + host,
			Environment:  "production|integration",
			Residency:    []string{"US", "EMEA"}[i%2],
			Keyword:      host,
			Aliases:      []string{fmt.Sprintf("https://*.svc%02d.example.com", i)},
		})
	}

	r := NewRegistry(nil)
	if err := r.SetLocations(descriptors); err != nil {
		tb.Fatalf("SetLocations() error = %v", err)
	}
	return r
}

// Reverse lookups over a mixture of exact known URLs, wildcard alias
// URLs and adversarial misses must stay well under a millisecond on
// average; the keyword substring prefilter is what keeps the pattern
// evaluation off the hot path.
func TestReverseLookupLatency(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping latency measurement in short mode")
	}

	r := benchmarkRegistry(t)
	targets := []string{
		"https://svc07.example.com/v1/accounts",
		"https://eu1.svc21.example.com/login",
		"https://svc39.example.com/health",
		"https://unknown.invalid/no/bucket/matches/this",
		"https://svc.example.com.evil.invalid/svc13.example.com", // keyword hit, candidate miss
	}

	// Warm up the lazily compiled patterns so the measurement reflects
	// steady-state lookups.
	for _, target := range targets {
		r.Match(target)
	}

	const iterations = 1000
	start := time.Now()
	for i := 0; i < iterations; i++ {
		r.Match(targets[i%len(targets)])
	}
	avg := time.Since(start) / iterations

	if avg > 200*time.Microsecond {
		t.Errorf("average Match latency = %v, want <= 200µs", avg)
	}
}

func BenchmarkRegistry_Lookup(b *testing.B) {
	r := benchmarkRegistry(b)
	ctx := Context{Environment: "production", Residency: "EMEA", LocationID: "dc-01"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if d := r.Lookup("svc-21", ctx); d == nil {
			b.Fatal("Lookup() = nil")
		}
	}
}

func BenchmarkRegistry_Match_ExactURI(b *testing.B) {
	r := benchmarkRegistry(b)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if d := r.Match("https://svc07.example.com/v1/accounts"); d == nil {
			b.Fatal("Match() = nil")
		}
	}
}

func BenchmarkRegistry_Match_WildcardAlias(b *testing.B) {
	r := benchmarkRegistry(b)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if d := r.Match("https://eu1.svc21.example.com/login"); d == nil {
			b.Fatal("Match() = nil")
		}
	}
}

func BenchmarkRegistry_Match_Miss(b *testing.B) {
	r := benchmarkRegistry(b)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if d := r.Match("https://unknown.invalid/no/bucket/matches/this"); d != nil {
			b.Fatal("Match() != nil")
		}
	}
}

func BenchmarkResolver_ResolveURL(b *testing.B) {
	resolver := NewResolver(ResolverConfig{})
	var descriptors []Descriptor
	for i := 0; i < 40; i++ {
		descriptors = append(descriptors, Descriptor{
			LocationType: fmt.Sprintf("svc-%02d", i),
			URI:          fmt.Sprintf("https://svc%02d.example.com", i),
			Environment:  "production",
			Residency:    "US",
		})
	}
	if err := resolver.SetLocations(descriptors); err != nil {
		b.Fatalf("SetLocations() error = %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		resolver.ResolveURL("svc-13", "/v1/users", nil)
	}
}

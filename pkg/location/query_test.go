package location

import "testing"

func TestEncodeQuery(t *testing.T) {
	tests := []struct {
		name   string
		params map[string]any
		want   string
	}{
		{
			name:   "nil map",
			params: nil,
			want:   "",
		},
		{
			name:   "single scalar",
			params: map[string]any{"limit": 5},
			want:   "?limit=5",
		},
		{
			name:   "keys sorted",
			params: map[string]any{"b": "2", "a": "1", "c": "3"},
			want:   "?a=1&b=2&c=3",
		},
		{
			name:   "values url encoded",
			params: map[string]any{"q": "a b/c&d"},
			want:   "?q=a+b%2Fc%26d",
		},
		{
			name:   "string slice flattens to repeated pairs",
			params: map[string]any{"id": []string{"x", "y"}},
			want:   "?id=x&id=y",
		},
		{
			name:   "any slice flattens and drops nils",
			params: map[string]any{"id": []any{1, nil, 2}},
			want:   "?id=1&id=2",
		},
		{
			name:   "nil values dropped silently",
			params: map[string]any{"a": "1", "b": nil},
			want:   "?a=1",
		},
		{
			name:   "all nil yields empty",
			params: map[string]any{"a": nil},
			want:   "",
		},
		{
			name:   "booleans and numbers stringified",
			params: map[string]any{"active": true, "count": 12.5},
			want:   "?active=true&count=12.5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EncodeQuery(tt.params); got != tt.want {
				t.Errorf("EncodeQuery(%v) = %q, want %q", tt.params, got, tt.want)
			}
		})
	}
}

// Output must not depend on map iteration order.
func TestEncodeQuery_Deterministic(t *testing.T) {
	params := map[string]any{"e": 5, "d": 4, "c": 3, "b": 2, "a": 1}
	first := EncodeQuery(params)
	for i := 0; i < 50; i++ {
		if got := EncodeQuery(params); got != first {
			t.Fatalf("EncodeQuery() varied between calls: %q vs %q", got, first)
		}
	}
}

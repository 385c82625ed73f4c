package location

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// EncodeQuery serializes a parameter map into a canonical "?k=v&..."
// query-string suffix.
//
// Keys are emitted in sorted order so repeated calls over the same map
// produce byte-identical output. Scalar values are URL-encoded; slice
// values flatten into repeated k=v pairs; nil values are dropped
// silently. An empty or all-nil map yields the empty string.
func EncodeQuery(params map[string]any) string {
	if len(params) == 0 {
		return ""
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(params))
	for _, k := range keys {
		switch v := params[k].(type) {
		case nil:
			continue
		case []string:
			for _, item := range v {
				pairs = append(pairs, encodePair(k, item))
			}
		case []any:
			for _, item := range v {
				if item == nil {
					continue
				}
				pairs = append(pairs, encodePair(k, fmt.Sprint(item)))
			}
		default:
			pairs = append(pairs, encodePair(k, fmt.Sprint(v)))
		}
	}

	if len(pairs) == 0 {
		return ""
	}
	return "?" + strings.Join(pairs, "&")
}

func encodePair(key, value string) string {
	return key + "=" + url.QueryEscape(value)
}

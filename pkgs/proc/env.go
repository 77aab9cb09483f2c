package proc

import (
	"maps"
	"slices"
	"strings"
)

// mergeEnv returns base, a list of KEY=VALUE entries, with the variables in
// override replaced. Entries of base keep their order; variables new to base
// are appended sorted by key.
func mergeEnv(base []string, override map[string]string) []string {
	out := make([]string, 0, len(base)+len(override))
	seen := make(map[string]bool, len(override))
	for _, kv := range base {
		k, _, _ := strings.Cut(kv, "=")
		if v, ok := override[k]; ok {
			if !seen[k] {
				out = append(out, k+"="+v)
				seen[k] = true
			}
			continue
		}
		out = append(out, kv)
	}
	for _, k := range slices.Sorted(maps.Keys(override)) {
		if !seen[k] {
			out = append(out, k+"="+override[k])
		}
	}
	return out
}

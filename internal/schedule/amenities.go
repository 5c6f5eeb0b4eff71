package schedule

import (
	"sort"
	"strings"
)

// NormalizeAmenities collapses raw feature tags into a sorted set of distinct
// non-blank names. The flag is true iff the set is non-empty. The result is
// never nil so it serializes as an empty JSON array rather than null.
func NormalizeAmenities(tags []string) ([]string, bool) {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))

	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}

	sort.Strings(out)
	return out, len(out) > 0
}

package playlist

import (
	"slices"

	"harextract/internal/fileutil"
)

// Rewrite replaces every non-empty segment URI of m with its bare local name.
// A URI with no usable final path component is left as written. Rewriting an
// already rewritten manifest changes nothing.
func Rewrite(m *Manifest) {
	for _, seg := range m.Segments() {
		if seg.URI == "" {
			continue
		}
		if name := fileutil.LocalName(seg.URI); name != "" {
			seg.URI = name
		}
	}
}

// Missing returns the sorted, de-duplicated segment URIs of m, as they
// currently stand, that are not in persisted. Empty URIs are not reported.
func Missing(m *Manifest, persisted map[string]struct{}) []string {
	declared := make(map[string]struct{})
	for _, seg := range m.Segments() {
		if seg.URI != "" {
			declared[seg.URI] = struct{}{}
		}
	}

	missing := make([]string, 0)
	for name := range declared {
		if _, ok := persisted[name]; !ok {
			missing = append(missing, name)
		}
	}
	slices.Sort(missing)
	return missing
}

// Reconcile rewrites m and returns the names it declares that are not in
// persisted. A URI with no usable name is reported under its original text.
func Reconcile(m *Manifest, persisted map[string]struct{}) []string {
	Rewrite(m)
	return Missing(m, persisted)
}

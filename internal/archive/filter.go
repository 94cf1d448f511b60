package archive

import "strings"

// Filter reports whether the entry whose URL path is given should be
// extracted. A nil Filter accepts every entry.
type Filter func(path string) bool

// SuffixFilter accepts paths ending with any of the suffixes, ignoring case.
func SuffixFilter(suffixes ...string) Filter {
	normalized := make([]string, 0, len(suffixes))
	for _, suffix := range suffixes {
		if suffix = strings.ToLower(strings.TrimSpace(suffix)); suffix != "" {
			normalized = append(normalized, suffix)
		}
	}
	return func(path string) bool {
		return HasSuffix(path, normalized...)
	}
}

// HasSuffix reports whether path ends with one of the suffixes, ignoring case.
func HasSuffix(path string, suffixes ...string) bool {
	lower := strings.ToLower(path)
	for _, suffix := range suffixes {
		if suffix != "" && strings.HasSuffix(lower, strings.ToLower(suffix)) {
			return true
		}
	}
	return false
}

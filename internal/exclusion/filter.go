package exclusion

import (
	"fmt"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
)

// GlobPrefix marks a pattern as a doublestar glob matched against the whole
// path ("glob:**/steam/**"). Other patterns are plain substrings.
const GlobPrefix = "glob:"

// IsExcluded reports whether path matches any non-empty pattern, ignoring case.
// A plain pattern matches when it occurs anywhere in path; glob
// metacharacters and surrounding whitespace in it are literal. Only a
// pattern carrying GlobPrefix is matched as a glob against the whole path.
func IsExcluded(path string, patterns []string) bool {
	if path == "" || len(patterns) == 0 {
		return false
	}
	lower := strings.ToLower(path)
	for _, p := range patterns {
		if p == "" {
			continue
		}
		if matches(lower, p) {
			return true
		}
	}
	return false
}

func matches(lowerPath, pattern string) bool {
	glob, ok := strings.CutPrefix(pattern, GlobPrefix)
	if !ok {
		return strings.Contains(lowerPath, strings.ToLower(pattern))
	}
	matched, err := doublestar.Match(slashed(strings.ToLower(glob)), slashed(lowerPath))
	return err == nil && matched
}

// slashed lets one glob syntax serve both Windows and Unix paths.
func slashed(s string) string {
	return strings.ReplaceAll(s, `\`, "/")
}

// ValidatePattern rejects malformed glob patterns.
func ValidatePattern(pattern string) error {
	glob, ok := strings.CutPrefix(pattern, GlobPrefix)
	if !ok {
		return nil
	}
	if glob == "" || !doublestar.ValidatePattern(slashed(glob)) {
		return fmt.Errorf("invalid glob pattern %q", glob)
	}
	return nil
}

// Filter holds the live exclusion pattern list
type Filter struct {
	mu       sync.RWMutex
	patterns []string
}

// NewFilter creates a filter with the given patterns
func NewFilter(patterns []string) *Filter {
	f := &Filter{}
	f.SetPatterns(patterns)
	return f
}

// SetPatterns replaces the pattern list. Patterns are kept verbatim, so
// Excluded agrees with IsExcluded on the same list.
func (f *Filter) SetPatterns(patterns []string) {
	cp := make([]string, 0, len(patterns))
	for _, p := range patterns {
		if p != "" {
			cp = append(cp, p)
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.patterns = cp
}

// Patterns returns a copy of the current patterns
func (f *Filter) Patterns() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]string(nil), f.patterns...)
}

// Excluded reports whether path matches the current patterns
func (f *Filter) Excluded(path string) bool {
	if f == nil {
		return false
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	return IsExcluded(path, f.patterns)
}

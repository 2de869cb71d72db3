package pattern

import (
	"strings"

	"github.com/tidwall/match"
)

// Pattern selects a set of event names. A pattern is either a literal
// event name or contains wildcards (see the package documentation).
type Pattern string

// Wildcard constants for pattern matching.
const (
	// Wildcard, as a complete pattern, matches every event name.
	// Within a multi-segment pattern it matches exactly one segment.
	Wildcard = "*"

	// WildcardMulti matches zero or more segments.
	WildcardMulti = "**"

	// Separator is the character used to separate name segments.
	Separator = "."
)

// String returns the pattern as a string.
func (p Pattern) String() string {
	return string(p)
}

// Segments returns the pattern split by the separator.
func (p Pattern) Segments() []string {
	if p == "" {
		return nil
	}
	return strings.Split(string(p), Separator)
}

// IsCatchAll returns true if the pattern matches every event name.
func (p Pattern) IsCatchAll() bool {
	return p == Wildcard || p == WildcardMulti
}

// IsLiteral returns true if the pattern contains no wildcard or glob
// metacharacters and therefore matches exactly one event name.
func (p Pattern) IsLiteral() bool {
	return !strings.ContainsAny(string(p), "*?")
}

// IsValid returns true if the pattern is well formed.
// A valid pattern:
//   - Is not empty
//   - Does not start or end with a separator
//   - Does not contain empty segments
func (p Pattern) IsValid() bool {
	s := string(p)
	if s == "" {
		return false
	}
	if strings.HasPrefix(s, Separator) || strings.HasSuffix(s, Separator) {
		return false
	}
	if strings.Contains(s, Separator+Separator) {
		return false
	}
	return true
}

// Matches returns true if the pattern covers the given concrete event name.
func (p Pattern) Matches(name string) bool {
	if p.IsCatchAll() {
		return true
	}
	return matchSegments(Split(name), p.Segments())
}

// matchSegments performs recursive pattern matching on name segments.
func matchSegments(name, pat []string) bool {
	ni, pi := 0, 0

	for pi < len(pat) {
		if pat[pi] == WildcardMulti {
			// ** matches zero or more segments
			for ni <= len(name) {
				if matchSegments(name[ni:], pat[pi+1:]) {
					return true
				}
				ni++
			}
			return false
		}

		// Need a name segment to match against
		if ni >= len(name) {
			return false
		}

		if !segmentMatches(name[ni], pat[pi]) {
			return false
		}
		ni++
		pi++
	}

	// Pattern consumed - the name must also be consumed
	return ni == len(name)
}

// segmentMatches compares one concrete name segment against one pattern
// segment. "*" matches any single segment; segments containing glob
// metacharacters are delegated to the glob matcher.
func segmentMatches(seg, pat string) bool {
	if pat == Wildcard {
		return true
	}
	if match.IsPattern(pat) {
		return match.Match(seg, pat)
	}
	return seg == pat
}

// ValidName returns true if s is usable as a concrete event name:
// well formed and free of wildcard or glob metacharacters.
func ValidName(s string) bool {
	p := Pattern(s)
	return p.IsValid() && p.IsLiteral()
}

// Join joins segments into a pattern.
func Join(segments ...string) Pattern {
	return Pattern(strings.Join(segments, Separator))
}

// Split splits an event name into segments.
func Split(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, Separator)
}

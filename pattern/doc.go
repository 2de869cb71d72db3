// Package pattern provides event-name types and wildcard pattern matching
// for the dispatch engine.
//
// # Name Format
//
// Event names use dot-notation to create hierarchical namespaces:
//
//	repo.sync.pre
//	cache.miss
//	user.created
//
// Flat, single-segment names are equally valid; the separator is optional
// structure, not a requirement.
//
// # Wildcards
//
// Patterns may contain wildcards:
//
//   - "*" on its own matches every event name, regardless of depth
//   - "*" within a multi-segment pattern matches exactly one segment
//   - "**" matches zero or more segments
//   - a segment containing glob metacharacters ("*", "?") matches
//     per-segment glob semantics, e.g. "user.cre*"
//
// Examples:
//
//	*                 matches everything
//	repo.*            matches repo.sync, repo.cleared (not repo.sync.pre)
//	repo.**           matches repo.sync, repo.sync.pre, repo.a.b.c
//	*.changed         matches config.changed, cursor.changed
//	repo.*.pre        matches repo.sync.pre, repo.export.pre
//
// # Pattern Matching
//
// The Matcher type indexes patterns in a trie keyed by segment, so looking
// up the patterns that cover a concrete name costs O(k) in the number of
// segments for exact patterns. Lone-wildcard patterns are held aside and
// always returned.
//
//	m := pattern.NewMatcher()
//	m.Add(pattern.Pattern("repo.*"))
//	m.Add(pattern.Pattern("repo.sync"))
//
//	matches := m.Match("repo.sync")
//	// matches contains both patterns
package pattern

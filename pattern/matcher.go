package pattern

import (
	"strings"
	"sync"

	"github.com/tidwall/match"
)

// Matcher indexes patterns in a trie keyed by name segment and answers
// "which patterns cover this concrete event name". It is safe for
// concurrent use.
//
// Catch-all patterns ("*" and "**") are held outside the trie so they
// match names of any depth.
type Matcher struct {
	mu       sync.RWMutex
	root     *trieNode
	catchAll []Pattern
}

// trieNode represents a node in the pattern trie.
type trieNode struct {
	children map[string]*trieNode
	patterns []Pattern // Patterns that terminate at this node
}

func newTrieNode() *trieNode {
	return &trieNode{
		children: make(map[string]*trieNode),
	}
}

// isEmpty returns true if the node has no children and no patterns.
func (n *trieNode) isEmpty() bool {
	return len(n.children) == 0 && len(n.patterns) == 0
}

// NewMatcher creates a new pattern matcher.
func NewMatcher() *Matcher {
	return &Matcher{
		root: newTrieNode(),
	}
}

// Add adds a pattern to the matcher. Duplicate adds are no-ops.
func (m *Matcher) Add(pattern Pattern) {
	if pattern == "" {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if pattern.IsCatchAll() {
		for _, p := range m.catchAll {
			if p == pattern {
				return
			}
		}
		m.catchAll = append(m.catchAll, pattern)
		return
	}

	node := m.root
	for _, seg := range pattern.Segments() {
		if node.children[seg] == nil {
			node.children[seg] = newTrieNode()
		}
		node = node.children[seg]
	}

	for _, p := range node.patterns {
		if p == pattern {
			return
		}
	}
	node.patterns = append(node.patterns, pattern)
}

// pathEntry tracks a node and the key used to reach it during traversal.
type pathEntry struct {
	node *trieNode
	key  string
}

// Remove removes a pattern from the matcher and prunes empty trie nodes.
// Returns true if the pattern was removed, false if it didn't exist.
func (m *Matcher) Remove(pattern Pattern) bool {
	if pattern == "" {
		return false
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if pattern.IsCatchAll() {
		for i, p := range m.catchAll {
			if p == pattern {
				m.catchAll = append(m.catchAll[:i], m.catchAll[i+1:]...)
				return true
			}
		}
		return false
	}

	segments := pattern.Segments()

	path := make([]pathEntry, 0, len(segments)+1)
	path = append(path, pathEntry{node: m.root})

	node := m.root
	for _, seg := range segments {
		child := node.children[seg]
		if child == nil {
			return false
		}
		path = append(path, pathEntry{node: child, key: seg})
		node = child
	}

	found := false
	for i, p := range node.patterns {
		if p == pattern {
			node.patterns = append(node.patterns[:i], node.patterns[i+1:]...)
			found = true
			break
		}
	}
	if !found {
		return false
	}

	// Prune empty nodes from leaf back to root
	for i := len(path) - 1; i > 0; i-- {
		if !path[i].node.isEmpty() {
			break
		}
		delete(path[i-1].node.children, path[i].key)
	}

	return true
}

// Has returns true if the exact pattern exists in the matcher.
func (m *Matcher) Has(pattern Pattern) bool {
	if pattern == "" {
		return false
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if pattern.IsCatchAll() {
		for _, p := range m.catchAll {
			if p == pattern {
				return true
			}
		}
		return false
	}

	node := m.root
	for _, seg := range pattern.Segments() {
		if node.children[seg] == nil {
			return false
		}
		node = node.children[seg]
	}

	for _, p := range node.patterns {
		if p == pattern {
			return true
		}
	}
	return false
}

// matchState tracks state during recursive matching to avoid duplicates
// and exponential revisits with ** wildcards.
type matchState struct {
	seen    map[Pattern]struct{}
	matches []Pattern
	visited map[visitKey]struct{}
}

// visitKey is a composite key for memoization of (node, depth) pairs.
type visitKey struct {
	node  *trieNode
	depth int
}

// Match returns all patterns that cover the given concrete event name.
// The name should not contain wildcards - it represents an actual event.
// The returned patterns are unique.
func (m *Matcher) Match(name string) []Pattern {
	if name == "" {
		return nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	state := &matchState{
		seen:    make(map[Pattern]struct{}),
		visited: make(map[visitKey]struct{}),
	}

	for _, p := range m.catchAll {
		state.addPattern(p)
	}

	m.matchRecursive(m.root, Split(name), 0, state)

	return state.matches
}

// matchRecursive performs recursive pattern matching through the trie.
func (m *Matcher) matchRecursive(node *trieNode, segments []string, depth int, state *matchState) {
	if node == nil {
		return
	}

	key := visitKey{node: node, depth: depth}
	if _, seen := state.visited[key]; seen {
		return
	}
	state.visited[key] = struct{}{}

	// All segments consumed - collect patterns terminating here
	if depth == len(segments) {
		for _, p := range node.patterns {
			state.addPattern(p)
		}
		// A trailing ** also matches zero additional segments
		if child := node.children[WildcardMulti]; child != nil {
			m.matchRecursive(child, segments, depth, state)
		}
		return
	}

	segment := segments[depth]

	// Exact match - continue down the tree
	if child := node.children[segment]; child != nil {
		m.matchRecursive(child, segments, depth+1, state)
	}

	// Single wildcard matches any one segment
	if child := node.children[Wildcard]; child != nil {
		m.matchRecursive(child, segments, depth+1, state)
	}

	// Multi wildcard matches zero or more segments
	if child := node.children[WildcardMulti]; child != nil {
		for i := depth; i <= len(segments); i++ {
			m.matchRecursive(child, segments, i, state)
		}
	}

	// Glob segments ("user.cre*") cannot be found by map lookup;
	// compare against any child key carrying glob metacharacters.
	for k, child := range node.children {
		if k == Wildcard || k == WildcardMulti || !strings.ContainsAny(k, "*?") {
			continue
		}
		if match.Match(segment, k) {
			m.matchRecursive(child, segments, depth+1, state)
		}
	}
}

// addPattern records a match, skipping duplicates.
func (s *matchState) addPattern(p Pattern) {
	if _, seen := s.seen[p]; seen {
		return
	}
	s.seen[p] = struct{}{}
	s.matches = append(s.matches, p)
}

// Patterns returns all patterns stored in the matcher.
func (m *Matcher) Patterns() []Pattern {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var patterns []Pattern
	patterns = append(patterns, m.catchAll...)
	collectPatterns(m.root, &patterns)
	return patterns
}

// collectPatterns recursively collects all patterns from the trie.
func collectPatterns(node *trieNode, patterns *[]Pattern) {
	if node == nil {
		return
	}

	*patterns = append(*patterns, node.patterns...)

	for _, child := range node.children {
		collectPatterns(child, patterns)
	}
}

// Size returns the number of patterns in the matcher.
func (m *Matcher) Size() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := len(m.catchAll)
	countPatterns(m.root, &count)
	return count
}

// countPatterns recursively counts patterns in the trie.
func countPatterns(node *trieNode, count *int) {
	if node == nil {
		return
	}

	*count += len(node.patterns)

	for _, child := range node.children {
		countPatterns(child, count)
	}
}

// Clear removes all patterns from the matcher.
func (m *Matcher) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.root = newTrieNode()
	m.catchAll = nil
}

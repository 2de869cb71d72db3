package emkit

import (
	"strings"

	"github.com/emkit/emkit/pattern"
)

// FilterFunc is a predicate for filtering events at delivery time.
// Return true to deliver the event to the subscription's listener.
type FilterFunc func(e Event) bool

// FilterByName creates a filter that only allows events whose name
// matches the given pattern. This is useful when subscribing to a broad
// wildcard but wanting finer-grained control.
func FilterByName(p pattern.Pattern) FilterFunc {
	return func(e Event) bool {
		return p.Matches(e.Name())
	}
}

// FilterByNamePrefix creates a filter for events whose name starts with
// the given segment prefix.
func FilterByNamePrefix(prefix string) FilterFunc {
	return func(e Event) bool {
		name := e.Name()
		if !strings.HasPrefix(name, prefix) {
			return false
		}
		// Match complete segments only
		if len(name) == len(prefix) {
			return true
		}
		return name[len(prefix)] == '.'
	}
}

// FilterByTarget creates a filter that only allows events whose target is
// the given value. Targets are compared with ==, so pointer or other
// comparable targets are expected.
func FilterByTarget(target any) FilterFunc {
	return func(e Event) bool {
		return e.Target() == target
	}
}

// FilterParam creates a filter based on a typed event parameter.
// The predicate receives the parameter stored under key; events without
// the parameter, or with a parameter of another type, are rejected.
func FilterParam[T any](key string, predicate func(v T) bool) FilterFunc {
	return func(e Event) bool {
		v, ok := e.Param(key).(T)
		return ok && predicate(v)
	}
}

// FilterAnd combines multiple filters with AND logic.
func FilterAnd(filters ...FilterFunc) FilterFunc {
	return func(e Event) bool {
		for _, f := range filters {
			if !f(e) {
				return false
			}
		}
		return true
	}
}

// FilterOr combines multiple filters with OR logic.
func FilterOr(filters ...FilterFunc) FilterFunc {
	return func(e Event) bool {
		for _, f := range filters {
			if f(e) {
				return true
			}
		}
		return false
	}
}

// FilterNot negates a filter.
func FilterNot(filter FilterFunc) FilterFunc {
	return func(e Event) bool {
		return !filter(e)
	}
}

// FilterAll allows all events (no filtering).
func FilterAll() FilterFunc {
	return func(Event) bool {
		return true
	}
}

// FilterNone blocks all events.
func FilterNone() FilterFunc {
	return func(Event) bool {
		return false
	}
}

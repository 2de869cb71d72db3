package emkit

import "reflect"

// Responses is the ordered collection of listener return values produced
// by one trigger call. Only non-nil return values are collected, in
// invocation order. The collection is owned solely by the trigger caller
// after return and is not safe for concurrent use.
type Responses struct {
	values  []any
	stopped bool
}

// Len returns the number of collected responses.
func (r *Responses) Len() int {
	return len(r.values)
}

// First returns the first collected response, or nil if there are none.
func (r *Responses) First() any {
	if len(r.values) == 0 {
		return nil
	}
	return r.values[0]
}

// Last returns the most recently collected response, or nil.
// For a short-circuited TriggerUntil call this is the value that
// satisfied the predicate.
func (r *Responses) Last() any {
	if len(r.values) == 0 {
		return nil
	}
	return r.values[len(r.values)-1]
}

// Contains reports whether any collected response is deeply equal to v.
func (r *Responses) Contains(v any) bool {
	for _, got := range r.values {
		if reflect.DeepEqual(got, v) {
			return true
		}
	}
	return false
}

// Values returns a copy of the collected responses in invocation order.
func (r *Responses) Values() []any {
	if len(r.values) == 0 {
		return nil
	}
	out := make([]any, len(r.values))
	copy(out, r.values)
	return out
}

// Append adds a response value to the collection.
func (r *Responses) Append(v any) {
	r.values = append(r.values, v)
}

// MarkStopped records that listener invocation halted early, either via
// propagation stop or a short-circuit predicate.
func (r *Responses) MarkStopped() {
	r.stopped = true
}

// Stopped reports whether invocation halted before the full listener
// sequence ran.
func (r *Responses) Stopped() bool {
	return r.stopped
}

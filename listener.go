package emkit

import "context"

// Listener is the callable capability registered to react to events.
// The returned value, if non-nil, is collected into the trigger's
// Responses. A returned error aborts the remaining listener sequence and
// propagates to the trigger caller.
type Listener interface {
	HandleEvent(ctx context.Context, e Event) (any, error)
}

// ListenerFunc is a function adapter for Listener.
type ListenerFunc func(ctx context.Context, e Event) (any, error)

// HandleEvent implements the Listener interface.
func (f ListenerFunc) HandleEvent(ctx context.Context, e Event) (any, error) {
	return f(ctx, e)
}

// As adapts a listener for a concrete event type E. Events of any other
// type are skipped silently, which lets a typed listener share a pattern
// with untyped triggers.
func As[E Event](fn func(ctx context.Context, e E) (any, error)) ListenerFunc {
	return func(ctx context.Context, e Event) (any, error) {
		if typed, ok := e.(E); ok {
			return fn(ctx, typed)
		}
		return nil, nil
	}
}

// UntilFunc is a short-circuit predicate evaluated against each listener's
// return value during TriggerUntil. The first true halts the trigger.
// The predicate receives the raw return value, nil included.
type UntilFunc func(result any) bool

package emkit

import "errors"

// Sentinel errors for the dispatch engine.
var (
	// ErrNilListener is returned when a nil listener is attached.
	ErrNilListener = errors.New("listener cannot be nil")

	// ErrNilEvent is returned when a nil event is triggered.
	ErrNilEvent = errors.New("event cannot be nil")

	// ErrInvalidPattern is returned for a malformed subscription pattern.
	ErrInvalidPattern = errors.New("invalid event pattern")

	// ErrInvalidEventName is returned for an empty, malformed, or
	// wildcard-carrying name passed to a trigger.
	ErrInvalidEventName = errors.New("invalid event name")

	// ErrInvalidIdentifier is returned for an empty shared-registry identifier.
	ErrInvalidIdentifier = errors.New("invalid identifier")

	// ErrInvalidSubscription is returned when a nil or foreign subscription
	// handle is passed to Detach.
	ErrInvalidSubscription = errors.New("invalid subscription")

	// ErrSubscriptionNotFound is returned when detaching a handle that is
	// not (or no longer) attached.
	ErrSubscriptionNotFound = errors.New("subscription not found")

	// ErrSubscriberClosed is returned when attaching through a closed Subscriber.
	ErrSubscriberClosed = errors.New("subscriber is closed")
)

// ListenerError wraps an error returned by a listener with dispatch context.
// The engine performs no recovery; the error aborts the remaining listener
// sequence and reaches the trigger caller wrapped in this type.
type ListenerError struct {
	// SubscriptionID identifies the subscription whose listener failed.
	SubscriptionID string

	// EventName is the name of the event being dispatched.
	EventName string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *ListenerError) Error() string {
	return "listener error for subscription " + e.SubscriptionID + " on event " + e.EventName + ": " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ListenerError) Unwrap() error {
	return e.Err
}

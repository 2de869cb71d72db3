package emkit

import (
	"crypto/rand"
	"encoding/hex"
	"sync/atomic"

	"github.com/emkit/emkit/pattern"
)

// Priority determines listener invocation order.
// Higher values execute first; ties are broken by attachment order.
type Priority int

const (
	// PriorityHigh is for listeners that must run before the default set.
	PriorityHigh Priority = 100

	// PriorityNormal is the default priority.
	PriorityNormal Priority = 0

	// PriorityLow is for listeners that run after the default set,
	// e.g. bookkeeping that reacts to everything else's work.
	PriorityLow Priority = -100
)

// String returns a human-readable priority name.
func (p Priority) String() string {
	switch {
	case p >= PriorityHigh:
		return "high"
	case p > PriorityLow:
		return "normal"
	default:
		return "low"
	}
}

// SubscriptionState represents the state of a subscription.
type SubscriptionState int32

const (
	// SubscriptionStateActive means the subscription receives events.
	SubscriptionStateActive SubscriptionState = iota

	// SubscriptionStatePaused means the subscription is temporarily skipped.
	SubscriptionStatePaused

	// SubscriptionStateCancelled means the subscription has been permanently
	// cancelled.
	SubscriptionStateCancelled
)

// String returns a human-readable state name.
func (s SubscriptionState) String() string {
	switch s {
	case SubscriptionStateActive:
		return "active"
	case SubscriptionStatePaused:
		return "paused"
	case SubscriptionStateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Subscription is the opaque handle identifying one attached listener.
// It is returned by attach calls and passed to Detach to remove exactly
// that attachment; detaching by handle identity never removes a different
// listener that happens to share a pattern or priority.
type Subscription interface {
	// ID returns the unique subscription identifier.
	ID() string

	// Patterns returns the name patterns the listener was attached under.
	Patterns() []pattern.Pattern

	// Priority returns the subscription priority.
	Priority() Priority

	// State returns the current subscription state.
	State() SubscriptionState

	// IsActive returns true if the subscription can receive events.
	IsActive() bool

	// IsPaused returns true if the subscription is paused.
	IsPaused() bool

	// Pause temporarily stops event delivery to this subscription.
	Pause()

	// Resume restarts event delivery after a pause.
	Resume()

	// Cancel permanently cancels the subscription. A cancelled
	// subscription cannot be resumed.
	Cancel()
}

// SubscriptionConfig contains configuration for a subscription.
type SubscriptionConfig struct {
	// Priority determines invocation order (higher values execute first).
	Priority Priority

	// Filter is an optional predicate; if set, the listener is only
	// invoked for events the filter accepts.
	Filter FilterFunc

	// Once cancels the subscription after its first delivery.
	Once bool
}

// DefaultSubscriptionConfig returns the default subscription configuration.
func DefaultSubscriptionConfig() SubscriptionConfig {
	return SubscriptionConfig{
		Priority: PriorityNormal,
	}
}

// SubscriptionOption configures a subscription at attach time.
type SubscriptionOption func(*SubscriptionConfig)

// WithPriority sets the subscription priority.
func WithPriority(p Priority) SubscriptionOption {
	return func(c *SubscriptionConfig) {
		c.Priority = p
	}
}

// WithFilter sets a filter predicate.
func WithFilter(f FilterFunc) SubscriptionOption {
	return func(c *SubscriptionConfig) {
		c.Filter = f
	}
}

// WithOnce cancels the subscription after the first delivered event.
func WithOnce() SubscriptionOption {
	return func(c *SubscriptionConfig) {
		c.Once = true
	}
}

// attachSeq assigns a process-global attachment order to every
// subscription. Equal-priority listeners are invoked in this order even
// when local and shared subscriptions interleave, so the tie-break is a
// strict total order.
var attachSeq atomic.Uint64

// subscription is the internal implementation of Subscription.
type subscription struct {
	id       string
	patterns []pattern.Pattern
	listener Listener
	config   SubscriptionConfig
	seq      uint64
	state    atomic.Int32
}

// newSubscription creates a subscription for the given patterns.
func newSubscription(patterns []pattern.Pattern, l Listener, opts ...SubscriptionOption) *subscription {
	config := DefaultSubscriptionConfig()
	for _, opt := range opts {
		opt(&config)
	}

	s := &subscription{
		id:       generateID(),
		patterns: patterns,
		listener: l,
		config:   config,
		seq:      attachSeq.Add(1),
	}
	s.state.Store(int32(SubscriptionStateActive))
	return s
}

// ID returns the subscription ID.
func (s *subscription) ID() string {
	return s.id
}

// Patterns returns the subscribed name patterns.
func (s *subscription) Patterns() []pattern.Pattern {
	out := make([]pattern.Pattern, len(s.patterns))
	copy(out, s.patterns)
	return out
}

// Priority returns the subscription priority.
func (s *subscription) Priority() Priority {
	return s.config.Priority
}

// State returns the current subscription state.
func (s *subscription) State() SubscriptionState {
	return SubscriptionState(s.state.Load())
}

// IsActive returns true if the subscription is active.
func (s *subscription) IsActive() bool {
	return s.State() == SubscriptionStateActive
}

// IsPaused returns true if the subscription is paused.
func (s *subscription) IsPaused() bool {
	return s.State() == SubscriptionStatePaused
}

// IsCancelled returns true if the subscription is cancelled.
func (s *subscription) IsCancelled() bool {
	return s.State() == SubscriptionStateCancelled
}

// Pause temporarily stops event delivery.
func (s *subscription) Pause() {
	s.state.CompareAndSwap(int32(SubscriptionStateActive), int32(SubscriptionStatePaused))
}

// Resume restarts event delivery.
func (s *subscription) Resume() {
	s.state.CompareAndSwap(int32(SubscriptionStatePaused), int32(SubscriptionStateActive))
}

// Cancel permanently cancels the subscription.
func (s *subscription) Cancel() {
	s.state.Store(int32(SubscriptionStateCancelled))
}

// generateID generates a unique subscription ID.
// crypto/rand.Read never returns an error and always fills the buffer.
func generateID() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

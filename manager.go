package emkit

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/emkit/emkit/pattern"
)

// Manager dispatches events to attached listeners. Each Manager owns a
// local registry and optionally consults a SharedManager under the
// identity tags it presents.
//
// Triggering is fully synchronous: every listener runs on the caller's
// goroutine before the trigger call returns, in descending priority order
// with equal priorities in attachment order. The candidate listener set
// is snapshotted when a trigger starts, so a listener may attach or
// detach listeners - on this or any other manager - without affecting the
// traversal in progress.
type Manager struct {
	registry *registry
	logger   *slog.Logger

	mu          sync.RWMutex
	shared      *SharedManager
	identifiers []string
}

// New creates a Manager with the given options.
func New(opts ...Option) *Manager {
	config := defaultManagerConfig()
	for _, opt := range opts {
		opt(&config)
	}

	return &Manager{
		registry:    newRegistry(),
		logger:      config.logger,
		shared:      config.shared,
		identifiers: config.identifiers,
	}
}

// Attach registers a listener for the given name pattern. The pattern is
// a literal event name, a wildcard, or a glob (see package pattern).
// Malformed patterns are rejected here, never at trigger time.
func (m *Manager) Attach(pat string, l Listener, opts ...SubscriptionOption) (Subscription, error) {
	return m.AttachAll([]string{pat}, l, opts...)
}

// AttachFunc registers a function listener for the given name pattern.
func (m *Manager) AttachFunc(pat string, fn ListenerFunc, opts ...SubscriptionOption) (Subscription, error) {
	return m.Attach(pat, fn, opts...)
}

// AttachAll registers one listener under several name patterns at once,
// sharing a single priority and a single handle. It is equivalent to
// attaching once per pattern except that detaching the handle removes
// every attachment.
func (m *Manager) AttachAll(pats []string, l Listener, opts ...SubscriptionOption) (Subscription, error) {
	if l == nil {
		return nil, ErrNilListener
	}
	patterns, err := toPatterns(pats)
	if err != nil {
		return nil, err
	}

	sub := newSubscription(patterns, l, opts...)
	m.registry.add(sub)

	m.logger.Debug("listener attached",
		"patterns", pats,
		"priority", sub.config.Priority,
		"subscription", sub.id)
	return sub, nil
}

// toPatterns validates raw pattern strings at attach time; malformed
// input is reported here, never deferred to trigger time.
func toPatterns(pats []string) ([]pattern.Pattern, error) {
	if len(pats) == 0 {
		return nil, fmt.Errorf("%w: no patterns given", ErrInvalidPattern)
	}
	out := make([]pattern.Pattern, 0, len(pats))
	for _, raw := range pats {
		p := pattern.Pattern(raw)
		if !p.IsValid() {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPattern, raw)
		}
		out = append(out, p)
	}
	return out, nil
}

// Detach removes the subscription referenced by the handle from this
// manager's local registry. Handles issued by a SharedManager are
// detached there instead. Returns ErrSubscriptionNotFound if the handle
// is not attached here.
func (m *Manager) Detach(sub Subscription) error {
	if sub == nil {
		return ErrInvalidSubscription
	}

	// Membership is established before the handle is cancelled; detaching
	// a handle that belongs to another surface must leave it untouched.
	if !m.registry.remove(sub.ID()) {
		return ErrSubscriptionNotFound
	}
	sub.Cancel()

	m.logger.Debug("listener detached", "subscription", sub.ID())
	return nil
}

// SetIdentifiers replaces the identity tags presented to the shared
// manager on subsequent triggers.
func (m *Manager) SetIdentifiers(identifiers ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.identifiers = identifiers
}

// AddIdentifiers appends identity tags, skipping duplicates.
func (m *Manager) AddIdentifiers(identifiers ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, id := range identifiers {
		dup := false
		for _, have := range m.identifiers {
			if have == id {
				dup = true
				break
			}
		}
		if !dup {
			m.identifiers = append(m.identifiers, id)
		}
	}
}

// Identifiers returns the manager's identity tags.
func (m *Manager) Identifiers() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]string, len(m.identifiers))
	copy(out, m.identifiers)
	return out
}

// SetSharedManager sets the shared manager consulted on subsequent
// triggers. Passing nil disables shared-listener consultation until a
// shared manager is set again.
func (m *Manager) SetSharedManager(sm *SharedManager) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shared = sm
}

// SharedManager returns the shared manager currently consulted, or nil.
func (m *Manager) SharedManager() *SharedManager {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.shared
}

// Trigger constructs an event from the arguments and dispatches it.
// Target and params may be nil.
func (m *Manager) Trigger(ctx context.Context, name string, target any, params Params) (*Responses, error) {
	return m.TriggerEvent(ctx, NewEvent(name, target, params))
}

// TriggerUntil dispatches like Trigger but halts as soon as a listener's
// return value satisfies the predicate. This is the mechanism for "first
// listener that produces a satisfactory answer wins" patterns, e.g. a
// cache-hit short circuit.
func (m *Manager) TriggerUntil(ctx context.Context, until UntilFunc, name string, target any, params Params) (*Responses, error) {
	return m.TriggerEventUntil(ctx, until, NewEvent(name, target, params))
}

// TriggerEvent dispatches the given event to every matching local and
// shared listener in priority order. Listener return values are collected
// into the Responses; a listener error aborts the remaining sequence and
// is returned, wrapped, alongside the responses collected so far.
func (m *Manager) TriggerEvent(ctx context.Context, e Event) (*Responses, error) {
	return m.triggerListeners(ctx, e, nil)
}

// TriggerEventUntil dispatches the given event, halting as soon as the
// predicate accepts a listener's return value.
func (m *Manager) TriggerEventUntil(ctx context.Context, until UntilFunc, e Event) (*Responses, error) {
	return m.triggerListeners(ctx, e, until)
}

// ListenerCount returns the number of locally attached subscriptions.
func (m *Manager) ListenerCount() int {
	return m.registry.count()
}

// Patterns returns the local patterns with at least one subscription.
func (m *Manager) Patterns() []pattern.Pattern {
	return m.registry.patterns()
}

// Clear removes all locally attached subscriptions. Shared listeners are
// unaffected.
func (m *Manager) Clear() {
	m.registry.clear()
}

// triggerListeners resolves the candidate listener sequence and invokes
// it. Both trigger variants funnel through here; until is nil for plain
// triggers.
func (m *Manager) triggerListeners(ctx context.Context, e Event, until UntilFunc) (*Responses, error) {
	responses := &Responses{}

	if e == nil {
		return responses, ErrNilEvent
	}
	name := e.Name()
	if !pattern.ValidName(name) {
		return responses, fmt.Errorf("%w: %q", ErrInvalidEventName, name)
	}

	subs := m.prepareListeners(name)

	m.logger.Debug("dispatching event", "event", name, "listeners", len(subs))

	spentOnce := false
	for _, sub := range subs {
		// The active check already happened when the snapshot was taken;
		// only the per-event filter runs here.
		if sub.config.Filter != nil && !sub.config.Filter(e) {
			continue
		}

		value, err := sub.listener.HandleEvent(ctx, e)
		if err != nil {
			// No recovery: the error aborts the remaining sequence and
			// reaches the caller with the partial responses.
			return responses, &ListenerError{
				SubscriptionID: sub.id,
				EventName:      name,
				Err:            err,
			}
		}

		if value != nil {
			responses.Append(value)
		}

		if sub.config.Once {
			sub.Cancel()
			spentOnce = true
		}

		// The predicate is consulted before the propagation flag; either
		// signal halts the traversal.
		if until != nil && until(value) {
			responses.MarkStopped()
			break
		}
		if e.PropagationStopped() {
			responses.MarkStopped()
			break
		}
	}

	if spentOnce {
		m.purgeCancelled()
	}

	m.logger.Debug("dispatch complete",
		"event", name,
		"responses", responses.Len(),
		"stopped", responses.Stopped())
	return responses, nil
}

// prepareListeners snapshots the merged local and shared candidate
// sequence for an event name. Local and shared listeners interleave by
// priority rather than being segregated; the attachment-order tie-break
// is global, so the merged order is a strict total order.
func (m *Manager) prepareListeners(name string) []*subscription {
	subs := m.registry.listenersFor(name)

	m.mu.RLock()
	shared := m.shared
	identifiers := m.identifiers
	m.mu.RUnlock()

	if shared == nil {
		return subs
	}

	sharedSubs := shared.listenersFor(identifiers, name)
	if len(sharedSubs) == 0 {
		return subs
	}

	merged := make([]*subscription, 0, len(subs)+len(sharedSubs))
	merged = append(merged, subs...)
	merged = append(merged, sharedSubs...)
	sortSubscriptions(merged)
	return merged
}

// purgeCancelled removes spent one-shot subscriptions from the local
// registry and, if attached, the shared manager.
func (m *Manager) purgeCancelled() {
	m.registry.removeCancelled()

	m.mu.RLock()
	shared := m.shared
	m.mu.RUnlock()

	if shared != nil {
		shared.removeCancelled()
	}
}

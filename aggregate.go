package emkit

import "sync"

// Aggregate is implemented by stateful listener bundles: polymorphic
// units that register many listeners as one cohesive, detachable group.
//
// A typical implementation holds a Subscriber per manager it has been
// attached to and releases it in DetachFrom:
//
//	type AuditLog struct {
//	    subs map[*emkit.Manager]*emkit.Subscriber
//	}
//
//	func (a *AuditLog) AttachTo(m *emkit.Manager) error {
//	    s := emkit.NewSubscriber(m)
//	    if _, err := s.AttachFunc("user.*", a.onUser); err != nil {
//	        return err
//	    }
//	    if _, err := s.AttachFunc("repo.**", a.onRepo, emkit.WithPriority(emkit.PriorityLow)); err != nil {
//	        return err
//	    }
//	    a.subs[m] = s
//	    return nil
//	}
//
//	func (a *AuditLog) DetachFrom(m *emkit.Manager) error {
//	    if s, ok := a.subs[m]; ok {
//	        delete(a.subs, m)
//	        return s.Close()
//	    }
//	    return nil
//	}
type Aggregate interface {
	// AttachTo registers the aggregate's listeners on the manager.
	AttachTo(m *Manager) error

	// DetachFrom removes every listener the aggregate registered on the
	// manager.
	DetachFrom(m *Manager) error
}

// Subscriber tracks the subscriptions a component attaches to one
// Manager and detaches them as a group. It is the building block for
// Aggregate implementations and for any component that must clean up its
// listeners on shutdown.
type Subscriber struct {
	manager *Manager

	mu     sync.Mutex
	subs   []Subscription
	closed bool
}

// NewSubscriber creates a Subscriber wrapping the given manager.
func NewSubscriber(m *Manager) *Subscriber {
	return &Subscriber{
		manager: m,
	}
}

// Attach registers a listener and tracks the subscription for cleanup.
func (s *Subscriber) Attach(pat string, l Listener, opts ...SubscriptionOption) (Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrSubscriberClosed
	}

	sub, err := s.manager.Attach(pat, l, opts...)
	if err != nil {
		return nil, err
	}

	s.subs = append(s.subs, sub)
	return sub, nil
}

// AttachFunc registers a function listener.
func (s *Subscriber) AttachFunc(pat string, fn ListenerFunc, opts ...SubscriptionOption) (Subscription, error) {
	return s.Attach(pat, fn, opts...)
}

// AttachOnce registers a listener that auto-cancels after its first event.
func (s *Subscriber) AttachOnce(pat string, l Listener, opts ...SubscriptionOption) (Subscription, error) {
	opts = append(opts, WithOnce())
	return s.Attach(pat, l, opts...)
}

// Detach removes one tracked subscription.
func (s *Subscriber) Detach(sub Subscription) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, tracked := range s.subs {
		if tracked.ID() == sub.ID() {
			s.subs = append(s.subs[:i], s.subs[i+1:]...)
			break
		}
	}

	return s.manager.Detach(sub)
}

// DetachAll removes every subscription tracked by this subscriber.
// The subscriber stays usable for further attaches.
func (s *Subscriber) DetachAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, sub := range s.subs {
		_ = s.manager.Detach(sub)
	}
	s.subs = s.subs[:0]
}

// Close detaches all tracked subscriptions and rejects further attaches.
// This should be called when the owning component shuts down.
func (s *Subscriber) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	for _, sub := range s.subs {
		_ = s.manager.Detach(sub)
	}
	s.subs = nil

	return nil
}

// Count returns the number of tracked subscriptions.
func (s *Subscriber) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

// IsClosed returns true if the subscriber has been closed.
func (s *Subscriber) IsClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Manager returns the underlying manager.
func (s *Subscriber) Manager() *Manager {
	return s.manager
}

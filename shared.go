package emkit

import (
	cmap "github.com/orcaman/concurrent-map/v2"

	"github.com/emkit/emkit/pattern"
)

// WildcardIdentifier attaches a shared listener to every manager,
// regardless of the identifiers it presents.
const WildcardIdentifier = pattern.Wildcard

// SharedManager holds listeners keyed by identifier and event-name
// pattern, consultable by any Manager presenting a matching identifier.
// It enables cross-cutting listeners that react to many unrelated Manager
// instances tagged with a common identity (typically a type name).
//
// A SharedManager is an explicitly constructed object injected into each
// Manager via WithSharedManager or SetSharedManager - never an implicit
// singleton - so lifetime and test isolation stay caller-controlled.
//
// Lookups vastly outnumber mutations in steady state; the identifier
// index is a sharded concurrent map and each identifier bucket guards its
// ordered listener lists with a read-write lock.
type SharedManager struct {
	buckets cmap.ConcurrentMap[string, *registry]
}

// NewSharedManager creates an empty SharedManager.
func NewSharedManager() *SharedManager {
	return &SharedManager{
		buckets: cmap.New[*registry](),
	}
}

// Attach registers a listener for one identifier and one name pattern.
// The identifier may be WildcardIdentifier to match every manager.
func (sm *SharedManager) Attach(identifier string, pat string, l Listener, opts ...SubscriptionOption) (Subscription, error) {
	return sm.AttachAll([]string{identifier}, []string{pat}, l, opts...)
}

// AttachAll registers one listener under several identifiers and several
// name patterns at once. All attachments share a single priority and a
// single handle; detaching the handle removes every one of them.
func (sm *SharedManager) AttachAll(identifiers []string, pats []string, l Listener, opts ...SubscriptionOption) (Subscription, error) {
	if l == nil {
		return nil, ErrNilListener
	}
	if len(identifiers) == 0 {
		return nil, ErrInvalidIdentifier
	}
	ids := make([]string, 0, len(identifiers))
	seen := make(map[string]struct{}, len(identifiers))
	for _, id := range identifiers {
		if id == "" {
			return nil, ErrInvalidIdentifier
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	patterns, err := toPatterns(pats)
	if err != nil {
		return nil, err
	}

	sub := newSubscription(patterns, l, opts...)
	for _, id := range ids {
		bucket := sm.buckets.Upsert(id, nil, func(exists bool, current, _ *registry) *registry {
			if exists {
				return current
			}
			return newRegistry()
		})
		bucket.add(sub)
	}
	return sub, nil
}

// Detach removes the subscription referenced by the handle from every
// identifier bucket it occupies. Returns ErrSubscriptionNotFound if the
// handle is not attached here.
func (sm *SharedManager) Detach(sub Subscription) error {
	if sub == nil {
		return ErrInvalidSubscription
	}

	// Membership is established before the handle is cancelled; detaching
	// a handle that belongs to another surface must leave it untouched.
	removed := false
	for item := range sm.buckets.IterBuffered() {
		if item.Val.remove(sub.ID()) {
			removed = true
		}
	}
	if !removed {
		return ErrSubscriptionNotFound
	}
	sub.Cancel()
	return nil
}

// listenersFor returns the union of subscriptions matching any of the
// given identifiers (plus the wildcard identifier) and the event name,
// deduplicated by handle, sorted by the priority/attachment-order
// invariant.
func (sm *SharedManager) listenersFor(identifiers []string, name string) []*subscription {
	var all []*subscription
	seen := make(map[string]struct{})

	collect := func(id string) {
		bucket, ok := sm.buckets.Get(id)
		if !ok {
			return
		}
		for _, sub := range bucket.listenersFor(name) {
			if _, dup := seen[sub.id]; dup {
				continue
			}
			seen[sub.id] = struct{}{}
			all = append(all, sub)
		}
	}

	for _, id := range identifiers {
		collect(id)
	}
	collect(WildcardIdentifier)

	sortSubscriptions(all)
	return all
}

// ListenerCount returns the total number of shared subscriptions.
// A listener attached under several identifiers counts once per bucket.
func (sm *SharedManager) ListenerCount() int {
	n := 0
	for item := range sm.buckets.IterBuffered() {
		n += item.Val.count()
	}
	return n
}

// Identifiers returns the identifiers that currently have listeners.
func (sm *SharedManager) Identifiers() []string {
	return sm.buckets.Keys()
}

// Clear removes all shared subscriptions.
func (sm *SharedManager) Clear() {
	sm.buckets.Clear()
}

// removeCancelled purges cancelled subscriptions from every bucket.
func (sm *SharedManager) removeCancelled() {
	for item := range sm.buckets.IterBuffered() {
		item.Val.removeCancelled()
		if item.Val.count() == 0 {
			sm.buckets.RemoveCb(item.Key, func(_ string, v *registry, exists bool) bool {
				return exists && v.count() == 0
			})
		}
	}
}

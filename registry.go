package emkit

import (
	"sort"
	"sync"

	"github.com/emkit/emkit/pattern"
)

// registry holds the subscriptions of one dispatch scope: either a
// Manager's local listeners or one identifier bucket of a SharedManager.
// It is safe for concurrent use.
type registry struct {
	mu      sync.RWMutex
	subs    map[pattern.Pattern][]*subscription
	byID    map[string]*subscription
	matcher *pattern.Matcher
}

// newRegistry creates an empty registry.
func newRegistry() *registry {
	return &registry{
		subs:    make(map[pattern.Pattern][]*subscription),
		byID:    make(map[string]*subscription),
		matcher: pattern.NewMatcher(),
	}
}

// add registers a subscription under each of its patterns.
func (r *registry) add(sub *subscription) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range sub.patterns {
		r.subs[p] = append(r.subs[p], sub)
		r.matcher.Add(p)
	}
	r.byID[sub.id] = sub
}

// remove removes a subscription by ID from every bucket it occupies.
func (r *registry) remove(subID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.removeLocked(subID)
}

func (r *registry) removeLocked(subID string) bool {
	sub, exists := r.byID[subID]
	if !exists {
		return false
	}

	for _, p := range sub.patterns {
		bucket := r.subs[p]
		for i, s := range bucket {
			if s.id == subID {
				r.subs[p] = append(bucket[:i], bucket[i+1:]...)
				break
			}
		}
		if len(r.subs[p]) == 0 {
			delete(r.subs, p)
			r.matcher.Remove(p)
		}
	}

	delete(r.byID, subID)
	return true
}

// listenersFor returns a snapshot of the active subscriptions whose
// patterns cover the given event name, sorted by descending priority with
// ties broken by attachment order. The snapshot is a fresh slice and the
// active check happens here, at snapshot time: attach, detach, pause or
// cancel calls made while a caller iterates the snapshot affect only
// later lookups, never the traversal in progress.
func (r *registry) listenersFor(name string) []*subscription {
	r.mu.RLock()
	defer r.mu.RUnlock()

	patterns := r.matcher.Match(name)
	if len(patterns) == 0 {
		return nil
	}

	var all []*subscription
	seen := make(map[string]struct{})
	for _, p := range patterns {
		for _, sub := range r.subs[p] {
			if !sub.IsActive() {
				continue
			}
			// A subscription attached under several patterns may be
			// reached through more than one of them.
			if _, dup := seen[sub.id]; dup {
				continue
			}
			seen[sub.id] = struct{}{}
			all = append(all, sub)
		}
	}

	sortSubscriptions(all)
	return all
}

// sortSubscriptions orders subscriptions by descending priority, with
// equal priorities in attachment order. The explicit sequence tie-break
// matters: a priority-only comparison under an unstable sort would make
// equal-priority invocation order irreproducible.
func sortSubscriptions(subs []*subscription) {
	sort.Slice(subs, func(i, j int) bool {
		if subs[i].config.Priority != subs[j].config.Priority {
			return subs[i].config.Priority > subs[j].config.Priority
		}
		return subs[i].seq < subs[j].seq
	})
}

// count returns the total number of subscriptions.
func (r *registry) count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.byID)
}

// patterns returns all patterns with at least one subscription.
func (r *registry) patterns() []pattern.Pattern {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.subs) == 0 {
		return nil
	}

	out := make([]pattern.Pattern, 0, len(r.subs))
	for p := range r.subs {
		out = append(out, p)
	}
	return out
}

// removeCancelled purges cancelled subscriptions (e.g. spent one-shot
// listeners) and returns how many were removed.
func (r *registry) removeCancelled() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	var cancelled []string
	for id, sub := range r.byID {
		if sub.IsCancelled() {
			cancelled = append(cancelled, id)
		}
	}
	for _, id := range cancelled {
		r.removeLocked(id)
	}
	return len(cancelled)
}

// clear removes all subscriptions.
func (r *registry) clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.subs = make(map[pattern.Pattern][]*subscription)
	r.byID = make(map[string]*subscription)
	r.matcher.Clear()
}

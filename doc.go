// Package emkit is a synchronous, in-process event dispatch engine with
// priority ordering, wildcard matching, shared cross-instance listener
// registries, and short-circuit evaluation.
//
// # Model
//
// A Manager dispatches named events to attached listeners on the caller's
// goroutine. Listeners run in descending priority order; equal priorities
// run in attachment order. Any listener may stop propagation, and the
// TriggerUntil variants halt as soon as a return value satisfies a
// caller-supplied predicate.
//
//	em := emkit.New()
//
//	sub, err := em.AttachFunc("repo.sync", func(ctx context.Context, e emkit.Event) (any, error) {
//	    return doSync(e.Param("name").(string))
//	}, emkit.WithPriority(emkit.PriorityHigh))
//
//	responses, err := em.Trigger(ctx, "repo.sync", nil, emkit.Params{"name": "debian"})
//
// # Wildcards
//
// Attachment patterns may be literal names, the lone wildcard "*"
// (matches every event), or hierarchical patterns over dot-separated
// names such as "repo.*" and "repo.**". See package
// github.com/emkit/emkit/pattern for the grammar.
//
// # Shared listeners
//
// A SharedManager holds listeners keyed by identifier and pattern.
// Managers present identity tags (typically type names); every shared
// listener whose identifier matches one of those tags - or the wildcard
// identifier - joins the dispatch, interleaved with local listeners by
// priority:
//
//	shared := emkit.NewSharedManager()
//	shared.Attach("RepoService", "sync.done", auditListener)
//
//	em := emkit.New(
//	    emkit.WithIdentifiers("RepoService", "Service"),
//	    emkit.WithSharedManager(shared),
//	)
//
// Passing nil to SetSharedManager disables shared-listener consultation
// until a shared manager is set again.
//
// # Short-circuiting
//
// TriggerUntil implements "first satisfactory answer wins":
//
//	responses, err := em.TriggerUntil(ctx, func(v any) bool {
//	    return v != nil
//	}, "cache.lookup", nil, emkit.Params{"key": key})
//	hit := responses.Last()
//
// A listener halts further propagation imperatively instead by calling
// e.StopPropagation(true).
//
// # Typed events
//
// For parameter sets known at compile time, define an event type with
// named fields rather than relying on string-keyed Params:
//
//	type SyncDone struct {
//	    emkit.BaseEvent
//	    Repo  string
//	    Bytes int64
//	}
//
//	e := &SyncDone{Repo: "debian", Bytes: n}
//	e.SetName("repo.sync.done")
//	em.TriggerEvent(ctx, e)
//
// Listeners recover the concrete type with emkit.As:
//
//	emkit.As(func(ctx context.Context, e *SyncDone) (any, error) { ... })
//
// # Failure semantics
//
// A listener error aborts the remaining sequence and propagates to the
// trigger caller wrapped in a *ListenerError, together with the responses
// collected so far. The engine recovers nothing and logs nothing on the
// error path; error observability, if wanted, is itself a listener.
//
// # Concurrency
//
// Attach, detach and trigger are safe to call concurrently. Each trigger
// snapshots its candidate listener sequence first, so re-entrant attach
// and detach calls - including from inside a listener - affect only
// subsequent triggers, never the traversal in progress. There is no
// deferred execution: a trigger call returns only after every invoked
// listener has.
package emkit

package emkit

// Params holds the auxiliary arguments supplied with a triggered event,
// keyed by name. For events whose argument set is known at compile time,
// prefer a typed event embedding BaseEvent over string-keyed lookup.
type Params map[string]any

// Event is what listeners receive. Events carry a name, an optional
// target (the object the event concerns, a non-owning reference), a
// parameter map, and a propagation-stop flag.
//
// Custom event types embed BaseEvent and add named fields:
//
//	type SyncDone struct {
//	    emkit.BaseEvent
//	    Repo  string
//	    Bytes int64
//	}
//
// Events are not safe for concurrent mutation; a trigger runs listeners
// sequentially on one goroutine, so no synchronization is needed within
// a single trigger call.
type Event interface {
	// Name returns the event name.
	Name() string

	// SetName renames the event. An event instance may be reused across
	// sequential triggers (e.g. renamed from "sync.pre" to "sync.post").
	SetName(name string)

	// Target returns the object the event concerns, or nil.
	Target() any

	// SetTarget sets the event target.
	SetTarget(target any)

	// Params returns the event's parameter map. May be nil.
	Params() Params

	// Param returns the parameter stored under key, or nil.
	Param(key string) any

	// SetParam stores a parameter under key.
	SetParam(key string, value any)

	// StopPropagation marks (or unmarks) the event so that no further
	// listeners are invoked in the current trigger.
	StopPropagation(stop bool)

	// PropagationStopped reports whether a listener has halted propagation.
	PropagationStopped() bool
}

// BaseEvent is the canonical Event implementation. Use NewEvent for
// ad-hoc events, or embed BaseEvent in a typed event struct.
type BaseEvent struct {
	name    string
	target  any
	params  Params
	stopped bool
}

// NewEvent creates an event with the given name, target and parameters.
// Both target and params may be nil.
func NewEvent(name string, target any, params Params) *BaseEvent {
	return &BaseEvent{
		name:   name,
		target: target,
		params: params,
	}
}

// Name returns the event name.
func (e *BaseEvent) Name() string {
	return e.name
}

// SetName renames the event.
func (e *BaseEvent) SetName(name string) {
	e.name = name
}

// Target returns the event target, or nil.
func (e *BaseEvent) Target() any {
	return e.target
}

// SetTarget sets the event target.
func (e *BaseEvent) SetTarget(target any) {
	e.target = target
}

// Params returns the event's parameter map.
func (e *BaseEvent) Params() Params {
	return e.params
}

// SetParams replaces the event's parameter map.
func (e *BaseEvent) SetParams(params Params) {
	e.params = params
}

// Param returns the parameter stored under key, or nil if absent.
func (e *BaseEvent) Param(key string) any {
	if e.params == nil {
		return nil
	}
	return e.params[key]
}

// ParamOr returns the parameter stored under key, or def if absent.
func (e *BaseEvent) ParamOr(key string, def any) any {
	if e.params != nil {
		if v, ok := e.params[key]; ok {
			return v
		}
	}
	return def
}

// SetParam stores a parameter under key.
func (e *BaseEvent) SetParam(key string, value any) {
	if e.params == nil {
		e.params = make(Params)
	}
	e.params[key] = value
}

// StopPropagation marks the event so that the dispatching manager halts
// after the current listener. Passing false clears the flag, which lets
// an event instance be reused for a subsequent trigger.
func (e *BaseEvent) StopPropagation(stop bool) {
	e.stopped = stop
}

// PropagationStopped reports whether propagation has been halted.
func (e *BaseEvent) PropagationStopped() bool {
	return e.stopped
}

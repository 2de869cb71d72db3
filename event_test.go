package emkit

import (
	"context"
	"testing"
)

func TestNewEvent(t *testing.T) {
	target := &struct{ name string }{"svc"}
	e := NewEvent("repo.sync", target, Params{"name": "debian"})

	if e.Name() != "repo.sync" {
		t.Errorf("Name() = %q, want repo.sync", e.Name())
	}
	if e.Target() != target {
		t.Error("Target() should be the supplied reference")
	}
	if got := e.Param("name"); got != "debian" {
		t.Errorf("Param(name) = %v, want debian", got)
	}
	if got := e.Param("missing"); got != nil {
		t.Errorf("Param(missing) = %v, want nil", got)
	}
	if e.PropagationStopped() {
		t.Error("new event should not be stopped")
	}
}

func TestEvent_Rename(t *testing.T) {
	// One event instance may be reused for sequential pre/post triggers.
	e := NewEvent("sync.pre", nil, nil)
	e.SetName("sync.post")
	if e.Name() != "sync.post" {
		t.Errorf("Name() = %q, want sync.post", e.Name())
	}
}

func TestEvent_Params(t *testing.T) {
	e := NewEvent("do", nil, nil)

	if e.Params() != nil {
		t.Error("Params() on a bare event should be nil")
	}

	e.SetParam("k", 42)
	if got := e.Param("k"); got != 42 {
		t.Errorf("Param(k) = %v, want 42", got)
	}

	if got := e.ParamOr("nope", "fallback"); got != "fallback" {
		t.Errorf("ParamOr = %v, want fallback", got)
	}
	if got := e.ParamOr("k", 0); got != 42 {
		t.Errorf("ParamOr = %v, want 42", got)
	}

	e.SetParams(Params{"other": true})
	if e.Param("k") != nil {
		t.Error("SetParams should replace the map")
	}
}

func TestEvent_StopPropagation(t *testing.T) {
	e := NewEvent("do", nil, nil)
	e.StopPropagation(true)
	if !e.PropagationStopped() {
		t.Error("PropagationStopped() = false after StopPropagation(true)")
	}
	e.StopPropagation(false)
	if e.PropagationStopped() {
		t.Error("StopPropagation(false) should clear the flag")
	}
}

type renameEvent struct {
	BaseEvent
	Renamed string
}

func TestAs_TypedListener(t *testing.T) {
	var got string
	l := As(func(_ context.Context, e *renameEvent) (any, error) {
		got = e.Renamed
		return nil, nil
	})

	// Matching type is handled.
	typed := &renameEvent{Renamed: "yes"}
	typed.SetName("do")
	if _, err := l.HandleEvent(context.Background(), typed); err != nil {
		t.Fatalf("HandleEvent() error: %v", err)
	}
	if got != "yes" {
		t.Errorf("typed listener saw %q, want yes", got)
	}

	// Other event types are skipped silently.
	got = ""
	if _, err := l.HandleEvent(context.Background(), NewEvent("do", nil, nil)); err != nil {
		t.Fatalf("HandleEvent() error on mismatch: %v", err)
	}
	if got != "" {
		t.Error("mismatched event type should be skipped")
	}
}

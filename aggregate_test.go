package emkit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscriber_TracksAndCloses(t *testing.T) {
	em := New()
	s := NewSubscriber(em)

	_, err := s.AttachFunc("user.created", nopListener)
	require.NoError(t, err)
	_, err = s.AttachFunc("user.deleted", nopListener)
	require.NoError(t, err)

	assert.Equal(t, 2, s.Count())
	assert.Equal(t, 2, em.ListenerCount())
	assert.Same(t, em, s.Manager())

	require.NoError(t, s.Close())
	assert.True(t, s.IsClosed())
	assert.Zero(t, s.Count())
	assert.Zero(t, em.ListenerCount())

	_, err = s.AttachFunc("user.created", nopListener)
	assert.ErrorIs(t, err, ErrSubscriberClosed)

	// Close is idempotent.
	require.NoError(t, s.Close())
}

func TestSubscriber_Detach(t *testing.T) {
	em := New()
	s := NewSubscriber(em)

	sub, err := s.AttachFunc("user.created", nopListener)
	require.NoError(t, err)
	_, err = s.AttachFunc("user.deleted", nopListener)
	require.NoError(t, err)

	require.NoError(t, s.Detach(sub))
	assert.Equal(t, 1, s.Count())
	assert.Equal(t, 1, em.ListenerCount())
}

func TestSubscriber_DetachAll(t *testing.T) {
	em := New()
	s := NewSubscriber(em)

	_, err := s.AttachFunc("user.created", nopListener)
	require.NoError(t, err)
	_, err = s.AttachFunc("user.deleted", nopListener)
	require.NoError(t, err)

	s.DetachAll()
	assert.Zero(t, s.Count())
	assert.Zero(t, em.ListenerCount())
	assert.False(t, s.IsClosed())

	// Still usable afterwards.
	_, err = s.AttachFunc("user.created", nopListener)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Count())
}

func TestSubscriber_AttachOnce(t *testing.T) {
	em := New()
	s := NewSubscriber(em)
	var order []string

	_, err := s.AttachOnce("user.created", appendListener(&order, "once"))
	require.NoError(t, err)

	_, err = em.Trigger(context.Background(), "user.created", nil, nil)
	require.NoError(t, err)
	_, err = em.Trigger(context.Background(), "user.created", nil, nil)
	require.NoError(t, err)
	assert.Len(t, order, 1)
}

// auditTrail is a minimal Aggregate: it records every event it observes
// and detaches cleanly.
type auditTrail struct {
	events []string
	subs   map[*Manager]*Subscriber
}

func newAuditTrail() *auditTrail {
	return &auditTrail{subs: make(map[*Manager]*Subscriber)}
}

func (a *auditTrail) AttachTo(m *Manager) error {
	s := NewSubscriber(m)
	_, err := s.AttachFunc("user.*", func(_ context.Context, e Event) (any, error) {
		a.events = append(a.events, e.Name())
		return nil, nil
	})
	if err != nil {
		return err
	}
	a.subs[m] = s
	return nil
}

func (a *auditTrail) DetachFrom(m *Manager) error {
	s, ok := a.subs[m]
	if !ok {
		return nil
	}
	delete(a.subs, m)
	return s.Close()
}

func TestAggregate_RoundTrip(t *testing.T) {
	em := New()
	audit := newAuditTrail()

	var agg Aggregate = audit
	require.NoError(t, agg.AttachTo(em))

	_, err := em.Trigger(context.Background(), "user.created", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"user.created"}, audit.events)

	require.NoError(t, agg.DetachFrom(em))
	assert.Zero(t, em.ListenerCount())

	_, err = em.Trigger(context.Background(), "user.deleted", nil, nil)
	require.NoError(t, err)
	assert.Len(t, audit.events, 1)
}

package emkit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSharedManager_AttachAndConsult(t *testing.T) {
	sm := NewSharedManager()
	var order []string

	_, err := sm.Attach("UserService", "user.created", appendListener(&order, "shared"))
	require.NoError(t, err)

	em := New(WithIdentifiers("UserService"), WithSharedManager(sm))
	_, err = em.Trigger(context.Background(), "user.created", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"shared"}, order)

	// A manager with a different identifier never sees the listener.
	other := New(WithIdentifiers("OrderService"), WithSharedManager(sm))
	_, err = other.Trigger(context.Background(), "user.created", nil, nil)
	require.NoError(t, err)
	assert.Len(t, order, 1)
}

func TestSharedManager_WildcardIdentifier(t *testing.T) {
	sm := NewSharedManager()
	var order []string

	_, err := sm.Attach(WildcardIdentifier, "user.created", appendListener(&order, "everywhere"))
	require.NoError(t, err)

	for _, id := range []string{"UserService", "OrderService"} {
		em := New(WithIdentifiers(id), WithSharedManager(sm))
		_, err := em.Trigger(context.Background(), "user.created", nil, nil)
		require.NoError(t, err)
	}
	assert.Len(t, order, 2)

	// Matches even a manager with no identifiers at all.
	em := New(WithSharedManager(sm))
	_, err = em.Trigger(context.Background(), "user.created", nil, nil)
	require.NoError(t, err)
	assert.Len(t, order, 3)
}

func TestSharedManager_MergedOrdering(t *testing.T) {
	sm := NewSharedManager()
	em := New(WithIdentifiers("UserService"), WithSharedManager(sm))
	var order []string

	// A local at 10, a shared at 10 attached later, a shared at 20.
	// Local and shared interleave purely by priority then attachment order.
	_, err := em.AttachFunc("do", appendListener(&order, "A"), WithPriority(10))
	require.NoError(t, err)
	_, err = sm.Attach("UserService", "do", appendListener(&order, "B"), WithPriority(10))
	require.NoError(t, err)
	_, err = sm.Attach("UserService", "do", appendListener(&order, "C"), WithPriority(20))
	require.NoError(t, err)

	_, err = em.Trigger(context.Background(), "do", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"C", "A", "B"}, order)
}

func TestSharedManager_MultipleIdentifiersDedupe(t *testing.T) {
	sm := NewSharedManager()
	var order []string

	// One listener under two identifiers; a manager presenting both must
	// invoke it once per event, not once per identifier.
	sub, err := sm.AttachAll(
		[]string{"UserService", "AccountService"},
		[]string{"user.created"},
		appendListener(&order, "once"),
	)
	require.NoError(t, err)

	em := New(WithIdentifiers("UserService", "AccountService"), WithSharedManager(sm))
	_, err = em.Trigger(context.Background(), "user.created", nil, nil)
	require.NoError(t, err)
	assert.Len(t, order, 1)

	require.NoError(t, sm.Detach(sub))
	_, err = em.Trigger(context.Background(), "user.created", nil, nil)
	require.NoError(t, err)
	assert.Len(t, order, 1)
}

func TestSharedManager_Detach(t *testing.T) {
	sm := NewSharedManager()

	sub, err := sm.Attach("UserService", "user.created", ListenerFunc(nopListener))
	require.NoError(t, err)

	require.NoError(t, sm.Detach(sub))
	assert.ErrorIs(t, sm.Detach(sub), ErrSubscriptionNotFound)
	assert.ErrorIs(t, sm.Detach(nil), ErrInvalidSubscription)
}

func TestSharedManager_DetachWrongSurface(t *testing.T) {
	sm := NewSharedManager()
	em := New(WithIdentifiers("UserService"), WithSharedManager(sm))
	var order []string

	sharedSub, err := sm.Attach("UserService", "do", appendListener(&order, "shared"))
	require.NoError(t, err)
	localSub, err := em.AttachFunc("do", appendListener(&order, "local"))
	require.NoError(t, err)

	// A handle is only detachable on the surface that issued it; the
	// wrong surface reports not found and leaves the handle untouched.
	assert.ErrorIs(t, em.Detach(sharedSub), ErrSubscriptionNotFound)
	assert.ErrorIs(t, sm.Detach(localSub), ErrSubscriptionNotFound)
	assert.True(t, sharedSub.IsActive())
	assert.True(t, localSub.IsActive())

	_, err = em.Trigger(context.Background(), "do", nil, nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"shared", "local"}, order)
}

func TestSharedManager_Validation(t *testing.T) {
	sm := NewSharedManager()

	_, err := sm.Attach("UserService", "user.created", nil)
	assert.ErrorIs(t, err, ErrNilListener)

	_, err = sm.Attach("", "user.created", ListenerFunc(nopListener))
	assert.ErrorIs(t, err, ErrInvalidIdentifier)

	_, err = sm.AttachAll(nil, []string{"user.created"}, ListenerFunc(nopListener))
	assert.ErrorIs(t, err, ErrInvalidIdentifier)

	_, err = sm.Attach("UserService", "a..b", ListenerFunc(nopListener))
	assert.ErrorIs(t, err, ErrInvalidPattern)

	_, err = sm.AttachAll([]string{"UserService"}, nil, ListenerFunc(nopListener))
	assert.ErrorIs(t, err, ErrInvalidPattern)
}

func TestSharedManager_SetSharedManager(t *testing.T) {
	sm := NewSharedManager()
	var order []string

	_, err := sm.Attach("UserService", "do", appendListener(&order, "shared"))
	require.NoError(t, err)

	em := New(WithIdentifiers("UserService"))
	em.SetSharedManager(sm)
	_, err = em.Trigger(context.Background(), "do", nil, nil)
	require.NoError(t, err)
	assert.Len(t, order, 1)

	// nil detaches the manager from the shared registry entirely.
	em.SetSharedManager(nil)
	assert.Nil(t, em.SharedManager())
	_, err = em.Trigger(context.Background(), "do", nil, nil)
	require.NoError(t, err)
	assert.Len(t, order, 1)
}

func TestSharedManager_IdentifiersAndClear(t *testing.T) {
	sm := NewSharedManager()

	_, err := sm.Attach("UserService", "user.created", ListenerFunc(nopListener))
	require.NoError(t, err)
	_, err = sm.Attach("OrderService", "order.placed", ListenerFunc(nopListener))
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"UserService", "OrderService"}, sm.Identifiers())
	assert.Equal(t, 2, sm.ListenerCount())

	sm.Clear()
	assert.Empty(t, sm.Identifiers())
	assert.Zero(t, sm.ListenerCount())
}

func TestSharedManager_OncePurgesBuckets(t *testing.T) {
	sm := NewSharedManager()
	em := New(WithIdentifiers("UserService"), WithSharedManager(sm))
	var order []string

	_, err := sm.Attach("UserService", "do", appendListener(&order, "once"), WithOnce())
	require.NoError(t, err)

	_, err = em.Trigger(context.Background(), "do", nil, nil)
	require.NoError(t, err)
	_, err = em.Trigger(context.Background(), "do", nil, nil)
	require.NoError(t, err)

	assert.Len(t, order, 1)
	assert.Zero(t, sm.ListenerCount())
	assert.Empty(t, sm.Identifiers())
}

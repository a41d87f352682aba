package proxy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/comproxy"
	"github.com/wippyai/comproxy/errors"
	"github.com/wippyai/comproxy/sim"
)

// stickyRuntime keeps every callback it was given, so tests can deliver a
// native event after the subscription is gone.
type stickyRuntime struct {
	*sim.Runtime
	callbacks []comproxy.Callback
}

func (r *stickyRuntime) Subscribe(h comproxy.Handle, id comproxy.EventID, cb comproxy.Callback) (comproxy.Cookie, error) {
	r.callbacks = append(r.callbacks, cb)
	return r.Runtime.Subscribe(h, id, cb)
}

func TestBridge_WiredOnce(t *testing.T) {
	g := newGraph(t)
	_, root := g.open(t)

	b, ok := root.Events()
	require.True(t, ok)
	assert.Equal(t, 2, b.Sinks())
	assert.Equal(t, 2, g.rt.Subscriptions(g.root))

	// Public listeners never touch the native subscription.
	t1 := root.Activated.Add(func(struct{}) {})
	t2 := root.Activated.Add(func(struct{}) {})
	root.Activated.Remove(t1)
	root.Activated.Remove(t2)
	assert.Equal(t, 2, g.rt.Subscriptions(g.root))

	root.Dispose()
	assert.Zero(t, g.rt.Subscriptions(g.root))
	assert.Empty(t, g.rt.Violations())
}

func TestBridge_DuplicateEventRejected(t *testing.T) {
	g := newGraph(t)
	_, root := g.open(t)

	b, ok := root.Events()
	require.True(t, ok)
	err := On(b, root, evActivated, func(n *node, _ []comproxy.Value) {
		n.Activated.Emit(struct{}{})
	})
	require.Error(t, err)
	var e *errors.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, errors.PhaseSubscribe, e.Phase)
	assert.Equal(t, errors.KindUnsupported, e.Kind)
	assert.Equal(t, 2, b.Sinks())
	assert.Equal(t, 2, g.rt.Subscriptions(g.root))

	fired := 0
	root.Activated.Add(func(struct{}) { fired++ })
	g.rt.Fire(g.root, evActivated)
	assert.Equal(t, 1, fired)

	root.Dispose()
	assert.Empty(t, g.rt.Violations())
}

func TestBridge_Delivers(t *testing.T) {
	g := newGraph(t)
	_, root := g.open(t)

	fired := 0
	root.Activated.Add(func(struct{}) { fired++ })
	assert.Equal(t, 1, g.rt.Fire(g.root, evActivated))
	assert.Equal(t, 1, fired)

	root.Dispose()
}

func TestBridge_NoEventSource(t *testing.T) {
	g := newGraph(t)
	_, root := g.open(t)
	sheet := root.Child().Sheet()

	b, ok := sheet.Events()
	assert.False(t, ok)
	assert.Nil(t, b)
	assert.Zero(t, b.Sinks())
	assert.NoError(t, On(b, sheet, evActivated, func(*node, []comproxy.Value) {}))

	root.Dispose()
	assert.Empty(t, g.rt.Violations())
}

func TestBridge_UnsubscribeBeforeRelease(t *testing.T) {
	g := newGraph(t)
	log := &opLog{}
	defer g.rt.Watch(log)()
	_, root := g.open(t)
	root.Child()

	root.Dispose()

	for _, h := range []comproxy.Handle{g.root, g.child} {
		unsub := log.index(sim.OpUnsubscribe, h)
		release := log.index(sim.OpRelease, h)
		require.NotEqual(t, -1, unsub)
		require.NotEqual(t, -1, release)
		assert.Less(t, unsub, release)
	}
	assert.Empty(t, g.rt.Violations())
}

// Scenario B: a late native callback after Dispose never reaches a public
// listener.
func TestBridge_NoDeliveryAfterDispose(t *testing.T) {
	g := newGraph(t)
	rt := &stickyRuntime{Runtime: g.rt}
	s := NewSession(rt)
	root, err := newNode(s, g.rt.Root())
	require.NoError(t, err)
	require.NotEmpty(t, rt.callbacks)

	fired := 0
	root.Activated.Add(func(struct{}) { fired++ })
	root.Dispose()

	assert.Zero(t, g.rt.Fire(g.root, evActivated))
	assert.NotPanics(t, func() {
		for _, cb := range rt.callbacks {
			cb(nil)
		}
	})
	assert.Zero(t, fired)
	assert.Zero(t, root.Activated.Len())
}

func TestBridge_ReentrantDuringDispose(t *testing.T) {
	g := newGraph(t)
	rt := &stickyRuntime{Runtime: g.rt}
	s := NewSession(rt)
	root, err := newNode(s, g.rt.Root())
	require.NoError(t, err)
	child := root.Child()

	fired := 0
	root.Activated.Add(func(struct{}) { fired++ })
	child.Activated.Add(func(struct{}) { fired++ })

	// The runtime raises events while the child's reference is dropped,
	// that is, while the root is mid-disposal.
	g.rt.OnRelease(g.child, func() {
		for _, cb := range rt.callbacks {
			cb(nil)
		}
	})

	assert.NotPanics(t, root.Dispose)
	assert.Zero(t, fired)
	assert.True(t, root.Disposed())
	assert.Empty(t, g.rt.Violations())
}

func TestBridge_SubscribeFailure(t *testing.T) {
	g := newGraph(t)
	s := NewSession(g.rt)
	require.NoError(t, g.rt.AddRef(g.child))
	o, err := New(s, g.child, "Workbook")
	require.NoError(t, err)

	b, ok := o.Events()
	require.True(t, ok)
	g.rt.Destroy(g.child)

	err = On(b, o, evActivated, func(*Object, []comproxy.Value) {})
	require.Error(t, err)
	var e *errors.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, errors.PhaseSubscribe, e.Phase)
	assert.Equal(t, uint32(evActivated), e.Value)
	assert.Zero(t, b.Sinks())

	o.Dispose()
}

func TestWrapArg(t *testing.T) {
	g := newGraph(t)
	_, root := g.open(t)

	var opened *node
	root.Opened.Add(func(n *node) { opened = n })
	g.rt.Fire(g.root, evOpened, g.child)

	require.NotNil(t, opened)
	assert.Equal(t, "child", opened.Name())
	assert.Equal(t, int32(1), g.rt.RefCount(g.child), "event arguments are acquired for the listener")

	root.Dispose()
	assert.False(t, opened.Disposed(), "event arguments are not owned by the source")

	opened.Dispose()
	assert.Zero(t, g.rt.Outstanding())
	assert.Empty(t, g.rt.Violations())
}

func TestWrapArg_Rejects(t *testing.T) {
	g := newGraph(t)
	s := NewSession(g.rt)

	_, ok := WrapArg(s, "not a handle", newNode)
	assert.False(t, ok)
	_, ok = WrapArg(s, comproxy.Handle(0), newNode)
	assert.False(t, ok)
	_, ok = WrapArg(s, comproxy.Handle(999), newNode)
	assert.False(t, ok)
	assert.Zero(t, g.rt.Outstanding())
}

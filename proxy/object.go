package proxy

import (
	"fmt"
	"runtime"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/wippyai/comproxy"
	"github.com/wippyai/comproxy/errors"
)

const (
	stateAlive int32 = iota
	stateDisposing
	stateDisposed
)

// Disposer is implemented by every proxy.
type Disposer interface {
	Dispose()
	Disposed() bool
}

// native is the part of a proxy the GC cleanup may touch: the handle, the
// lifecycle state and the recorded native subscriptions. It must never point
// back at an Object or at any managed callback.
type native struct {
	typeName string
	sinks    []subscription
	handle   comproxy.Handle
	state    atomic.Int32
}

type subscription struct {
	id     comproxy.EventID
	cookie comproxy.Cookie
}

// Object is the proxy base: it owns exactly one native handle, the registry of
// children it created and, optionally, an event bridge. Domain proxies embed
// *Object.
//
// Dispose and the GC cleanup are two entry points into one state machine
// (alive, disposing, disposed). Whichever runs first wins; the other is a
// no-op.
type Object struct {
	session  *Session
	native   *native
	bridge   *Bridge
	hooks    []func()
	registry Registry
	cleanup  runtime.Cleanup
}

// New wraps h, taking ownership of one native reference. It fails with an
// InvalidHandle error when h is 0 or the runtime rejects it; in that case the
// caller still owns h.
func New(s *Session, h comproxy.Handle, typeName string) (*Object, error) {
	if s == nil || s.rt == nil {
		return nil, errors.New(errors.PhaseConstruct, errors.KindInvalidHandle).
			TypeName(typeName).
			Handle(uint32(h)).
			Detail("no session").
			Build()
	}
	if h == 0 || !s.rt.Validate(h) {
		return nil, errors.InvalidHandle(typeName, uint32(h))
	}

	n := &native{handle: h, typeName: typeName}
	o := &Object{
		session: s,
		native:  n,
	}
	o.registry.log = s.log
	o.cleanup = runtime.AddCleanup(o, s.finalize, n)

	s.notify(Event{Type: EventCreated, Handle: h, TypeName: typeName})
	return o, nil
}

// Session returns the session the proxy belongs to.
func (o *Object) Session() *Session {
	return o.session
}

// TypeName returns the native type name given at construction.
func (o *Object) TypeName() string {
	return o.native.typeName
}

// Handle returns the native handle, or 0 once disposal has started.
func (o *Object) Handle() comproxy.Handle {
	if !o.Alive() {
		return 0
	}
	return o.native.handle
}

// Alive reports whether the proxy may still reach its native object.
func (o *Object) Alive() bool {
	return o != nil && o.native.state.Load() == stateAlive
}

// Disposed reports whether disposal has completed.
func (o *Object) Disposed() bool {
	return o == nil || o.native.state.Load() == stateDisposed
}

// OnDispose registers fn to run during explicit disposal, after native events
// are unwired and before children are disposed. Hooks never run on the
// finalizer path. Registering on a proxy that is no longer alive is a no-op.
func (o *Object) OnDispose(fn func()) {
	if fn == nil || !o.Alive() {
		return
	}
	o.hooks = append(o.hooks, fn)
}

// Own registers child in the proxy's ownership registry. If the proxy is no
// longer alive the child is disposed immediately.
func (o *Object) Own(child Disposer) {
	if child == nil {
		return
	}
	if !o.Alive() {
		child.Dispose()
		return
	}
	o.registry.Add(child)
}

// Children returns the number of registered children.
func (o *Object) Children() int {
	return o.registry.Len()
}

// Dispose unwires native events, disposes every registered child, then
// releases the native handle. It is idempotent and never fails; release
// failures are logged and reported to observers.
func (o *Object) Dispose() {
	if o == nil {
		return
	}
	n := o.native
	if !n.state.CompareAndSwap(stateAlive, stateDisposing) {
		return
	}
	s := o.session
	o.cleanup.Stop()

	h := n.handle
	s.unwire(n, errors.PhaseRelease)
	if o.bridge != nil {
		o.bridge.detach()
	}

	for _, fn := range o.hooks {
		o.runHook(fn)
	}
	o.hooks = nil

	if failed := o.registry.DisposeAll(); failed > 0 {
		s.notify(Event{
			Type:     EventChildFailed,
			Handle:   h,
			TypeName: n.typeName,
			Err:      fmt.Errorf("%d child proxies failed to dispose", failed),
		})
	}

	s.release(h, n.typeName, errors.PhaseRelease)
	n.handle = 0
	n.state.Store(stateDisposed)

	s.log.Debug("proxy disposed",
		zap.String("type", n.typeName),
		zap.Uint32("handle", uint32(h)))
	s.notify(Event{Type: EventDisposed, Handle: h, TypeName: n.typeName})
}

// Close disposes the proxy. It always returns nil and exists so proxies
// satisfy io.Closer.
func (o *Object) Close() error {
	o.Dispose()
	return nil
}

func (o *Object) runHook(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			o.session.log.Warn("dispose hook panicked",
				zap.String("type", o.native.typeName),
				zap.String("panic", fmt.Sprint(r)))
		}
	}()
	fn()
}

// String implements fmt.Stringer.
func (o *Object) String() string {
	if o == nil {
		return "<nil>"
	}
	switch o.native.state.Load() {
	case stateAlive:
		return fmt.Sprintf("%s#%d", o.native.typeName, o.native.handle)
	case stateDisposing:
		return o.native.typeName + "(disposing)"
	default:
		return o.native.typeName + "(disposed)"
	}
}

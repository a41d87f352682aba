package proxy

import (
	"weak"

	"go.uber.org/zap"

	"github.com/wippyai/comproxy"
	"github.com/wippyai/comproxy/errors"
)

// Bridge wires native event sinks for one proxy. It exists only for objects
// whose native side exposes events; see Object.Events.
//
// Native sinks are bound to the proxy's lifetime, not to the number of
// public listeners: they are attached once while the proxy is constructed and
// detached exactly once, before the handle is released.
type Bridge struct {
	src     comproxy.EventSource
	session *Session
	native  *native
}

// Events returns the proxy's event bridge, creating it on first use. The
// second result is false when the runtime or the native object has no event
// source, or the proxy is no longer alive.
func (o *Object) Events() (*Bridge, bool) {
	if o.bridge != nil {
		return o.bridge, o.Alive()
	}
	if !o.Alive() || o.session.events == nil {
		return nil, false
	}
	if !o.session.events.HasEvents(o.native.handle) {
		return nil, false
	}
	o.bridge = &Bridge{
		src:     o.session.events,
		session: o.session,
		native:  o.native,
	}
	return o.bridge, true
}

// Sinks returns the number of native subscriptions currently attached.
func (b *Bridge) Sinks() int {
	if b == nil || b.native == nil {
		return 0
	}
	return len(b.native.sinks)
}

func (b *Bridge) detach() {
	b.native = nil
}

// On subscribes handler to native event id on behalf of owner. The native
// callback holds owner only weakly, so the native runtime never keeps a proxy
// reachable; once owner is collected or no longer alive the callback does
// nothing. handler runs on the goroutine that raises the native event.
// Each event id is wired at most once per proxy; a second On for the same id
// fails without subscribing.
func On[T any](b *Bridge, owner *T, id comproxy.EventID, handler func(*T, []comproxy.Value)) error {
	if b == nil || b.native == nil || owner == nil || handler == nil {
		return nil
	}
	n := b.native
	if n.state.Load() != stateAlive {
		return nil
	}
	for _, sub := range n.sinks {
		if sub.id == id {
			return errors.New(errors.PhaseSubscribe, errors.KindUnsupported).
				TypeName(n.typeName).
				Handle(uint32(n.handle)).
				Value(uint32(id)).
				Detail("event %d already wired", id).
				Build()
		}
	}

	ref := weak.Make(owner)
	cb := func(args []comproxy.Value) {
		if n.state.Load() != stateAlive {
			return
		}
		p := ref.Value()
		if p == nil {
			return
		}
		handler(p, args)
	}

	cookie, err := b.src.Subscribe(n.handle, id, cb)
	if err != nil {
		return errors.Subscribe(n.typeName, uint32(n.handle), uint32(id), err)
	}
	n.sinks = append(n.sinks, subscription{id: id, cookie: cookie})
	return nil
}

// WrapArg turns a borrowed handle from a native event argument into a proxy
// owned by the caller. It acquires a new reference, so the proxy is not
// registered with any parent and must be disposed by whoever receives it.
// ok is false when v is not a live handle or construction fails. ctor must
// leave the handle untouched when it returns an error.
func WrapArg[T Disposer](s *Session, v comproxy.Value, ctor func(*Session, comproxy.Handle) (T, error)) (proxy T, ok bool) {
	h, isHandle := v.(comproxy.Handle)
	if !isHandle || h == 0 || s == nil {
		return proxy, false
	}
	if err := s.rt.AddRef(h); err != nil {
		s.log.Debug("event argument not acquired", zap.Uint32("handle", uint32(h)), zap.Error(err))
		return proxy, false
	}
	p, err := ctor(s, h)
	if err != nil {
		s.release(h, "", errors.PhaseConstruct)
		return proxy, false
	}
	return p, true
}

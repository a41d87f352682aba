package proxy

import (
	"math"
	"runtime"

	"go.uber.org/zap"

	"github.com/wippyai/comproxy"
	"github.com/wippyai/comproxy/enum"
	"github.com/wippyai/comproxy/errors"
)

// Constructor wraps an acquired handle into a domain proxy. It must leave the
// handle untouched when it returns an error.
type Constructor[T Disposer] func(*Session, comproxy.Handle) (T, error)

// Get reads property name. It returns def when the proxy is not alive, the
// native call fails, or the value cannot be converted to T. Numeric kinds are
// converted between each other.
func Get[T any](o *Object, name string, def T) T {
	if !o.Alive() {
		return def
	}
	v, err := o.session.rt.Get(o.native.handle, name)
	runtime.KeepAlive(o)
	if err != nil {
		o.absorb(errors.PhaseAccess, name, err)
		return def
	}
	if h, ok := v.(comproxy.Handle); ok {
		o.session.release(h, "", errors.PhaseAccess)
		o.absorb(errors.PhaseAccess, name, errors.TypeMismatch(errors.PhaseAccess, o.native.typeName, name, v, "scalar"))
		return def
	}
	out, ok := convert[T](v)
	if !ok {
		if v != nil {
			o.absorb(errors.PhaseAccess, name, errors.TypeMismatch(errors.PhaseAccess, o.native.typeName, name, v, typeName[T]()))
		}
		return def
	}
	return out
}

// Set writes property name. Writes to a proxy that is not alive are discarded;
// native failures are logged.
func Set(o *Object, name string, v comproxy.Value) {
	if !o.Alive() {
		return
	}
	err := o.session.rt.Set(o.native.handle, name, v)
	runtime.KeepAlive(o)
	if err != nil {
		o.absorb(errors.PhaseAccess, name, err)
	}
}

// GetEnum reads an enum property through m. Unknown native values and a
// proxy that is not alive both yield m's public default.
func GetEnum[P comparable](o *Object, name string, m *enum.Mapping[int32, P]) P {
	if !o.Alive() {
		return m.PublicDefault()
	}
	n, ok := lookupInt32(o, name)
	if !ok {
		return m.PublicDefault()
	}
	return m.Public(n)
}

// SetEnum writes an enum property through m.
func SetEnum[P comparable](o *Object, name string, m *enum.Mapping[int32, P], p P) {
	Set(o, name, m.Native(p))
}

func lookupInt32(o *Object, name string) (int32, bool) {
	const missing = int64(-1) << 40
	n := Get(o, name, missing)
	if n == missing || n < math.MinInt32 || n > math.MaxInt32 {
		return 0, false
	}
	return int32(n), true
}

// Invoke calls a method. On a proxy that is not alive it does nothing and
// returns (nil, nil). Native failures are returned as NativeCall errors.
// An object-valued result is a handle the caller owns.
func Invoke(o *Object, method string, args ...comproxy.Value) (comproxy.Value, error) {
	if !o.Alive() {
		return nil, nil
	}
	v, err := o.session.rt.Invoke(o.native.handle, method, args...)
	runtime.KeepAlive(o)
	if err != nil {
		return nil, errors.NativeCall(errors.PhaseInvoke, o.native.typeName, method, err)
	}
	return v, nil
}

// Call invokes a method whose result is not needed. Object results are
// released immediately.
func Call(o *Object, method string, args ...comproxy.Value) error {
	v, err := Invoke(o, method, args...)
	if err != nil {
		return err
	}
	if h, ok := v.(comproxy.Handle); ok {
		o.session.release(h, "", errors.PhaseInvoke)
	}
	return nil
}

// Child returns the lazily created child stored in slot, reading the
// object-valued property name on first use and registering the new proxy with
// o. A child disposed on its own is recreated while o is alive. Once o is no
// longer alive the cached child (possibly disposed) or the zero value is
// returned.
func Child[T interface {
	comparable
	Disposer
}](o *Object, slot *T, name string, ctor Constructor[T]) T {
	var zero T
	var prev Disposer
	if cur := *slot; cur != zero {
		if !cur.Disposed() || !o.Alive() {
			return cur
		}
		prev = cur
	}
	if !o.Alive() {
		return zero
	}
	c, err := fetch(o, errors.PhaseAccess, name, func() (comproxy.Value, error) {
		return o.session.rt.Get(o.native.handle, name)
	}, ctor, prev)
	if err != nil {
		o.absorb(errors.PhaseAccess, name, err)
		return zero
	}
	*slot = c
	return c
}

// Fetch calls method and wraps its object result as a new child registered
// with o. Every call acquires its own reference, so two fetches of the same
// native object yield two independent proxies. On a proxy that is not alive
// it returns the zero value and no error.
func Fetch[T Disposer](o *Object, method string, ctor Constructor[T], args ...comproxy.Value) (T, error) {
	var zero T
	if !o.Alive() {
		return zero, nil
	}
	return fetch(o, errors.PhaseInvoke, method, func() (comproxy.Value, error) {
		return o.session.rt.Invoke(o.native.handle, method, args...)
	}, ctor, nil)
}

func fetch[T Disposer](o *Object, phase errors.Phase, member string, call func() (comproxy.Value, error), ctor Constructor[T], prev Disposer) (T, error) {
	var zero T
	v, err := call()
	runtime.KeepAlive(o)
	if err != nil {
		return zero, errors.NativeCall(phase, o.native.typeName, member, err)
	}
	h, ok := v.(comproxy.Handle)
	if !ok {
		if v == nil {
			return zero, errors.NotFound(phase, "object", o.native.typeName+"."+member)
		}
		return zero, errors.TypeMismatch(phase, o.native.typeName, member, v, "object")
	}
	return adopt(o, h, ctor, prev)
}

// Adopt constructs a proxy for the acquired handle h and registers it with o.
// If construction fails h is released.
func Adopt[T Disposer](o *Object, h comproxy.Handle, ctor Constructor[T]) (T, error) {
	return adopt(o, h, ctor, nil)
}

// adopt registers the new proxy in place of prev when prev is set.
func adopt[T Disposer](o *Object, h comproxy.Handle, ctor Constructor[T], prev Disposer) (T, error) {
	var zero T
	c, err := ctor(o.session, h)
	if err != nil {
		o.session.release(h, "", errors.PhaseConstruct)
		return zero, err
	}
	switch {
	case prev == nil:
		o.Own(c)
	case !o.Alive():
		c.Dispose()
	default:
		o.registry.Replace(prev, c)
	}
	return c, nil
}

// Lookup reads an object-valued property without creating a proxy. It
// returns an acquired handle the caller owns together with its native type
// name. Back-references such as Parent go through Lookup so they are
// resolved on demand rather than cached.
func (o *Object) Lookup(name string) (h comproxy.Handle, typeName string, ok bool) {
	if !o.Alive() {
		return 0, "", false
	}
	v, err := o.session.rt.Get(o.native.handle, name)
	runtime.KeepAlive(o)
	if err != nil {
		o.absorb(errors.PhaseAccess, name, err)
		return 0, "", false
	}
	h, ok = v.(comproxy.Handle)
	if !ok || h == 0 {
		return 0, "", false
	}
	typeName, err = o.session.rt.TypeName(h)
	if err != nil {
		o.session.release(h, "", errors.PhaseAccess)
		o.absorb(errors.PhaseAccess, name, err)
		return 0, "", false
	}
	return h, typeName, true
}

// Release drops a reference obtained from Lookup that the caller decided not
// to wrap.
func (s *Session) Release(h comproxy.Handle) {
	s.release(h, "", errors.PhaseRelease)
}

func (o *Object) absorb(phase errors.Phase, member string, err error) {
	o.session.log.Debug("native call absorbed",
		zap.String("phase", string(phase)),
		zap.String("type", o.native.typeName),
		zap.String("member", member),
		zap.Error(err))
}

package sim

import "github.com/wippyai/comproxy"

// FailRelease makes every Release of h fail with err, leaving the reference
// count untouched. A nil err clears the fault.
func (r *Runtime) FailRelease(h comproxy.Handle, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if o := r.lookup(h); o != nil {
		o.failRelease = err
	}
}

// FailCall makes Get, Set and Invoke of member on h fail with err. A nil err
// clears the fault.
func (r *Runtime) FailCall(h comproxy.Handle, member string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o := r.lookup(h)
	if o == nil {
		return
	}
	if err == nil {
		delete(o.failCalls, member)
		return
	}
	if o.failCalls == nil {
		o.failCalls = make(map[string]error)
	}
	o.failCalls[member] = err
}

// OnRelease runs fn after every successful Release of h, outside any lock.
// Tests use it to raise events in the middle of a proxy's teardown.
func (r *Runtime) OnRelease(h comproxy.Handle, fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if o := r.lookup(h); o != nil {
		o.onRelease = fn
	}
}

// Destroy ends the native object's life as if the application closed it.
// Validate reports false from now on; outstanding references may still be
// released, and the slot is recycled once the last one is.
func (r *Runtime) Destroy(h comproxy.Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o := r.lookup(h)
	if o == nil {
		return
	}
	o.destroyed = true
	o.sinks = nil
	if o.refs == 0 {
		r.objects[h-1] = object{}
		r.freeList = append(r.freeList, h)
	}
}

// Violations returns the contract violations recorded so far.
func (r *Runtime) Violations() []Violation {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Violation(nil), r.violations...)
}

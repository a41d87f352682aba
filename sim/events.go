package sim

import "github.com/wippyai/comproxy"

// EnableEvents gives h a native event source.
func (r *Runtime) EnableEvents(h comproxy.Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if o := r.lookup(h); o != nil {
		o.events = true
	}
}

// HasEvents reports whether h exposes a native event source.
func (r *Runtime) HasEvents(h comproxy.Handle) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o := r.lookup(h)
	return o != nil && o.events
}

// Subscribe attaches cb to event id on h.
func (r *Runtime) Subscribe(h comproxy.Handle, id comproxy.EventID, cb comproxy.Callback) (comproxy.Cookie, error) {
	r.mu.Lock()
	o := r.lookup(h)
	if o == nil {
		r.mu.Unlock()
		return 0, ErrInvalidHandle
	}
	if o.destroyed {
		r.mu.Unlock()
		return 0, ErrDestroyed
	}
	if !o.events {
		r.mu.Unlock()
		return 0, ErrNoEvents
	}
	if o.sinks == nil {
		o.sinks = make(map[comproxy.EventID][]sink)
	}
	r.nextCookie++
	cookie := r.nextCookie
	o.sinks[id] = append(o.sinks[id], sink{cb: cb, cookie: cookie})
	refs := o.refs
	r.mu.Unlock()

	r.notify(Event{Op: OpSubscribe, Handle: h, EventID: id, Refs: refs})
	return cookie, nil
}

// Unsubscribe detaches a subscription. Unsubscribing while no reference to h
// is held is recorded as an UnsubscribeAfterRelease violation; the sink is
// still removed.
func (r *Runtime) Unsubscribe(h comproxy.Handle, id comproxy.EventID, c comproxy.Cookie) error {
	r.mu.Lock()
	o := r.lookup(h)
	if o == nil {
		r.mu.Unlock()
		return ErrInvalidHandle
	}
	if o.refs <= 0 {
		r.violations = append(r.violations, Violation{Kind: UnsubscribeAfterRelease, Handle: h})
	}
	sinks := o.sinks[id]
	removed := false
	for i, s := range sinks {
		if s.cookie == c {
			o.sinks[id] = append(sinks[:i:i], sinks[i+1:]...)
			removed = true
			break
		}
	}
	refs := o.refs
	r.mu.Unlock()

	if !removed {
		return ErrUnknownMember
	}
	r.notify(Event{Op: OpUnsubscribe, Handle: h, EventID: id, Refs: refs})
	return nil
}

// Fire raises event id on h. Handle arguments are borrowed by the callbacks
// for the duration of the call. Fire returns the number of sinks invoked.
func (r *Runtime) Fire(h comproxy.Handle, id comproxy.EventID, args ...comproxy.Value) int {
	r.mu.RLock()
	o := r.lookup(h)
	if o == nil {
		r.mu.RUnlock()
		return 0
	}
	snapshot := append([]sink(nil), o.sinks[id]...)
	r.mu.RUnlock()

	r.notify(Event{Op: OpFire, Handle: h, EventID: id})
	for _, s := range snapshot {
		s.cb(args)
	}
	return len(snapshot)
}

// Subscriptions returns the number of live sinks on h across all events.
func (r *Runtime) Subscriptions(h comproxy.Handle) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o := r.lookup(h)
	if o == nil {
		return 0
	}
	n := 0
	for _, s := range o.sinks {
		n += len(s)
	}
	return n
}

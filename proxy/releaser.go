package proxy

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/wippyai/comproxy"
	"github.com/wippyai/comproxy/errors"
)

// unwire detaches every native sink recorded on n. Failures are logged.
func (s *Session) unwire(n *native, phase errors.Phase) {
	if s.events == nil || len(n.sinks) == 0 {
		n.sinks = nil
		return
	}
	for _, sub := range n.sinks {
		if err := s.events.Unsubscribe(n.handle, sub.id, sub.cookie); err != nil {
			e := errors.New(phase, errors.KindNativeCall).
				TypeName(n.typeName).
				Member("Unsubscribe").
				Handle(uint32(n.handle)).
				Value(uint32(sub.id)).
				Cause(err).
				Build()
			s.log.Warn("unsubscribe failed", zap.Error(e))
			s.notify(Event{Type: EventUnsubscribeFailed, Handle: n.handle, TypeName: n.typeName, Err: e})
		}
	}
	n.sinks = nil
}

// release is the handle releaser: it drops one native reference, absorbing
// failures and panics. It reports whether the release succeeded.
func (s *Session) release(h comproxy.Handle, typeName string, phase errors.Phase) (ok bool) {
	if h == 0 {
		return true
	}
	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic: %v", r)
			}
		}()
		return s.rt.Release(h)
	}()
	if err == nil {
		return true
	}

	e := errors.ReleaseFailed(phase, typeName, uint32(h), err)
	s.log.Warn("release failed", zap.Error(e))
	s.notify(Event{Type: EventReleaseFailed, Handle: h, TypeName: typeName, Err: e})
	return false
}

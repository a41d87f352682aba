package proxy

import (
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/comproxy"
	"github.com/wippyai/comproxy/errors"
)

// Session binds proxies to one native runtime. It carries the logger, the
// lifecycle observers and the finalization mode shared by every proxy of an
// object graph. A Session is not part of the ownership graph and needs no
// teardown.
type Session struct {
	rt        comproxy.Runtime
	events    comproxy.EventSource
	log       *zap.Logger
	observers []Observer
	pending   []*native
	deferred  bool
	obsMu     sync.RWMutex
	pendMu    sync.Mutex
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger. The default is Logger().
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// WithObserver registers a lifecycle observer.
func WithObserver(o Observer) Option {
	return func(s *Session) {
		if o != nil {
			s.observers = append(s.observers, o)
		}
	}
}

// WithDeferredFinalization queues the native work of GC cleanups instead of
// performing it on the cleanup goroutine. The owner goroutine runs it with
// Reap. Use it when the runtime cannot accept calls from another goroutine.
func WithDeferredFinalization() Option {
	return func(s *Session) {
		s.deferred = true
	}
}

// NewSession creates a session over rt. Event bridging is available when rt
// also implements comproxy.EventSource.
//
// By default the GC cleanup of an abandoned proxy unsubscribes and releases
// it on the runtime's cleanup goroutine, and observers are notified from
// there, so rt must accept calls from any goroutine. Runtimes bound to the
// goroutine that created their objects need WithDeferredFinalization and a
// periodic Reap on that goroutine.
func NewSession(rt comproxy.Runtime, opts ...Option) *Session {
	s := &Session{
		rt:  rt,
		log: Logger(),
	}
	if src, ok := rt.(comproxy.EventSource); ok {
		s.events = src
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Runtime returns the native runtime.
func (s *Session) Runtime() comproxy.Runtime {
	return s.rt
}

// Logger returns the session logger.
func (s *Session) Logger() *zap.Logger {
	return s.log
}

// AddObserver registers a lifecycle observer.
func (s *Session) AddObserver(o Observer) {
	if o == nil {
		return
	}
	s.obsMu.Lock()
	defer s.obsMu.Unlock()
	s.observers = append(s.observers, o)
}

// Reap performs queued finalizations on the calling goroutine and returns how
// many were processed. It is a no-op unless WithDeferredFinalization is set.
func (s *Session) Reap() int {
	s.pendMu.Lock()
	batch := s.pending
	s.pending = nil
	s.pendMu.Unlock()

	for _, n := range batch {
		s.finalizeNative(n)
	}
	return len(batch)
}

// Pending returns the number of queued finalizations.
func (s *Session) Pending() int {
	s.pendMu.Lock()
	defer s.pendMu.Unlock()
	return len(s.pending)
}

// finalize is the GC cleanup entry point. It only ever sees native state.
func (s *Session) finalize(n *native) {
	if s.deferred {
		s.pendMu.Lock()
		s.pending = append(s.pending, n)
		s.pendMu.Unlock()
		return
	}
	s.finalizeNative(n)
}

func (s *Session) finalizeNative(n *native) {
	if !n.state.CompareAndSwap(stateAlive, stateDisposing) {
		return
	}
	h := n.handle
	s.unwire(n, errors.PhaseFinalize)
	s.release(h, n.typeName, errors.PhaseFinalize)
	n.handle = 0
	n.state.Store(stateDisposed)

	s.log.Debug("proxy finalized",
		zap.String("type", n.typeName),
		zap.Uint32("handle", uint32(h)))
	s.notify(Event{Type: EventFinalized, Handle: h, TypeName: n.typeName})
}

func (s *Session) notify(e Event) {
	s.obsMu.RLock()
	defer s.obsMu.RUnlock()
	for _, o := range s.observers {
		o.OnProxyEvent(e)
	}
}

// Package event provides typed multicast events for proxies.
//
// An Event is the public half of an event bridge: listeners are added and
// removed freely, and doing so never touches the native subscription, which
// is bound to the proxy's lifetime instead.
package event

import "sync"

// Token identifies one listener registration.
type Token uint64

// Event is a multicast delegate with standard add/remove semantics.
// The zero value is ready to use.
type Event[T any] struct {
	listeners []listener[T]
	next      Token
	mu        sync.Mutex
}

type listener[T any] struct {
	fn    func(T)
	token Token
}

// Add registers fn and returns a token for Remove. A nil fn is ignored and
// returns the zero token.
func (e *Event[T]) Add(fn func(T)) Token {
	if fn == nil {
		return 0
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.next++
	e.listeners = append(e.listeners, listener[T]{fn: fn, token: e.next})
	return e.next
}

// Remove unregisters the listener with token t. It reports whether a
// listener was removed.
func (e *Event[T]) Remove(t Token) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, l := range e.listeners {
		if l.token == t {
			e.listeners = append(e.listeners[:i:i], e.listeners[i+1:]...)
			return true
		}
	}
	return false
}

// Emit invokes every listener in registration order. Listeners added or
// removed during Emit take effect from the next Emit.
func (e *Event[T]) Emit(v T) {
	e.mu.Lock()
	snapshot := e.listeners
	e.mu.Unlock()

	for _, l := range snapshot {
		l.fn(v)
	}
}

// Len returns the number of registered listeners.
func (e *Event[T]) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.listeners)
}

// Clear removes all listeners.
func (e *Event[T]) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners = nil
}

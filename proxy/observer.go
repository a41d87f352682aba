package proxy

import "github.com/wippyai/comproxy"

// EventType identifies a proxy lifecycle transition.
type EventType uint8

const (
	EventCreated EventType = iota
	EventDisposed
	EventFinalized
	EventReleaseFailed
	EventUnsubscribeFailed
	EventChildFailed
)

func (t EventType) String() string {
	switch t {
	case EventCreated:
		return "created"
	case EventDisposed:
		return "disposed"
	case EventFinalized:
		return "finalized"
	case EventReleaseFailed:
		return "release_failed"
	case EventUnsubscribeFailed:
		return "unsubscribe_failed"
	case EventChildFailed:
		return "child_failed"
	default:
		return "unknown"
	}
}

// Event describes one lifecycle transition of a proxy.
type Event struct {
	Err      error
	TypeName string
	Handle   comproxy.Handle
	Type     EventType
}

// Observer receives lifecycle notifications. Finalization events arrive on
// the GC cleanup goroutine, so implementations must be safe for concurrent
// use and must not call back into proxies.
type Observer interface {
	OnProxyEvent(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

func (f ObserverFunc) OnProxyEvent(e Event) { f(e) }

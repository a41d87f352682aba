package sim

import "github.com/wippyai/comproxy"

// Op identifies a native operation recorded by the runtime.
type Op uint8

const (
	OpAddRef Op = iota
	OpRelease
	OpSubscribe
	OpUnsubscribe
	OpFire
	OpInvoke
)

func (o Op) String() string {
	switch o {
	case OpAddRef:
		return "addref"
	case OpRelease:
		return "release"
	case OpSubscribe:
		return "subscribe"
	case OpUnsubscribe:
		return "unsubscribe"
	case OpFire:
		return "fire"
	case OpInvoke:
		return "invoke"
	default:
		return "unknown"
	}
}

// Event is one recorded native operation.
type Event struct {
	Err     error
	Member  string
	Handle  comproxy.Handle
	EventID comproxy.EventID
	Refs    int32
	Op      Op
}

// Observer receives every native operation performed on the runtime.
type Observer interface {
	OnNativeEvent(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

func (f ObserverFunc) OnNativeEvent(e Event) { f(e) }

// ViolationKind classifies a misuse of the native contract.
type ViolationKind uint8

const (
	// OverRelease: Release called on an object with no outstanding references.
	OverRelease ViolationKind = iota
	// UnsubscribeAfterRelease: Unsubscribe called when no reference is held.
	UnsubscribeAfterRelease
	// AccessAfterRelease: Get/Set/Invoke on an object with no outstanding references.
	AccessAfterRelease
)

func (k ViolationKind) String() string {
	switch k {
	case OverRelease:
		return "over-release"
	case UnsubscribeAfterRelease:
		return "unsubscribe-after-release"
	case AccessAfterRelease:
		return "access-after-release"
	default:
		return "unknown"
	}
}

// Violation records one misuse. The simulated runtime tolerates misuse the way
// a real one might corrupt itself, so tests assert on Violations instead.
type Violation struct {
	Member string
	Handle comproxy.Handle
	Kind   ViolationKind
}

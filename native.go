package comproxy

// Handle is an opaque reference to one object living in the external
// automation runtime. Each Handle held by this process stands for exactly one
// acquired reference. Handle 0 is reserved and always invalid.
type Handle uint32

// Value is a native property or argument value: bool, an integer kind,
// float64, string, Handle (an object reference), or nil.
type Value = any

// EventID identifies one native event on an event source.
type EventID uint32

// Cookie identifies one native subscription returned by Subscribe.
type Cookie uint32

// Callback receives native event arguments. Handles in args are borrowed and
// only valid for the duration of the call; AddRef them to keep them.
type Callback func(args []Value)

// Runtime is the native side of the proxy boundary.
type Runtime interface {
	// Validate reports whether h refers to a live native object.
	Validate(h Handle) bool

	// AddRef acquires one more reference to h.
	AddRef(h Handle) error

	// Release drops one reference to h. Releasing more often than acquired
	// is an error the runtime may or may not detect.
	Release(h Handle) error

	// TypeName returns the native type name of h.
	TypeName(h Handle) (string, error)

	// Get reads a property. Object-valued properties return a Handle the
	// caller owns.
	Get(h Handle, name string) (Value, error)

	// Set writes a property.
	Set(h Handle, name string, v Value) error

	// Invoke calls a method. Object-valued results return a Handle the
	// caller owns.
	Invoke(h Handle, method string, args ...Value) (Value, error)
}

// EventSource is implemented by runtimes whose objects can raise events.
// Not every object of such a runtime has events; check HasEvents first.
type EventSource interface {
	// HasEvents reports whether h exposes a native event source.
	HasEvents(h Handle) bool

	// Subscribe attaches cb to event id on h.
	Subscribe(h Handle, id EventID, cb Callback) (Cookie, error)

	// Unsubscribe detaches a previous subscription. It must be called
	// before the last reference to h is released.
	Unsubscribe(h Handle, id EventID, c Cookie) error
}

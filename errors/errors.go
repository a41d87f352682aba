package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in the proxy lifecycle the error occurred
type Phase string

const (
	PhaseConstruct Phase = "construct" // proxy construction
	PhaseAccess    Phase = "access"    // property get/set
	PhaseInvoke    Phase = "invoke"    // method call
	PhaseSubscribe Phase = "subscribe" // native event wiring
	PhaseRelease   Phase = "release"   // explicit dispose
	PhaseFinalize  Phase = "finalize"  // GC cleanup
	PhaseLoad      Phase = "load"      // scenario loading
)

// Kind categorizes the error
type Kind string

const (
	KindInvalidHandle Kind = "invalid_handle"
	KindNativeCall    Kind = "native_call"
	KindRelease       Kind = "release"
	KindUnsupported   Kind = "unsupported"
	KindInvalidData   Kind = "invalid_data"
	KindTypeMismatch  Kind = "type_mismatch"
	KindNotFound      Kind = "not_found"
)

// Sentinels for errors.Is matching on Kind alone.
var (
	ErrInvalidHandle = &Error{Kind: KindInvalidHandle}
	ErrNativeCall    = &Error{Kind: KindNativeCall}
	ErrRelease       = &Error{Kind: KindRelease}
	ErrTypeMismatch  = &Error{Kind: KindTypeMismatch}
	ErrNotFound      = &Error{Kind: KindNotFound}
)

// Error is the structured error type used throughout the module
type Error struct {
	Value    any
	Cause    error
	Phase    Phase
	Kind     Kind
	TypeName string
	Member   string
	Detail   string
	Handle   uint32
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.TypeName != "" {
		b.WriteString(" on ")
		b.WriteString(e.TypeName)
		if e.Member != "" {
			b.WriteByte('.')
			b.WriteString(e.Member)
		}
	} else if e.Member != "" {
		b.WriteString(" on ")
		b.WriteString(e.Member)
	}

	if e.Handle != 0 {
		fmt.Fprintf(&b, " (handle %d)", e.Handle)
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error. A target with an empty
// Phase matches on Kind only.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Phase == "" {
		return e.Kind == t.Kind
	}
	return e.Phase == t.Phase && e.Kind == t.Kind
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// TypeName sets the proxy type name
func (b *Builder) TypeName(name string) *Builder {
	b.err.TypeName = name
	return b
}

// Member sets the property or method name
func (b *Builder) Member(name string) *Builder {
	b.err.Member = name
	return b
}

// Handle sets the native handle
func (b *Builder) Handle(h uint32) *Builder {
	b.err.Handle = h
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// InvalidHandle creates the construction-time error for a null or unusable handle
func InvalidHandle(typeName string, handle uint32) *Error {
	detail := "handle is not valid"
	if handle == 0 {
		detail = "null handle"
	}
	return &Error{
		Phase:    PhaseConstruct,
		Kind:     KindInvalidHandle,
		TypeName: typeName,
		Handle:   handle,
		Detail:   detail,
	}
}

// NativeCall wraps a failure surfaced by the native call boundary
func NativeCall(phase Phase, typeName, member string, cause error) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindNativeCall,
		TypeName: typeName,
		Member:   member,
		Cause:    cause,
	}
}

// ReleaseFailed creates a release failure error. These are logged, never returned
// from Dispose.
func ReleaseFailed(phase Phase, typeName string, handle uint32, cause error) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindRelease,
		TypeName: typeName,
		Handle:   handle,
		Cause:    cause,
	}
}

// Subscribe creates an event wiring error
func Subscribe(typeName string, handle uint32, eventID uint32, cause error) *Error {
	return &Error{
		Phase:    PhaseSubscribe,
		Kind:     KindNativeCall,
		TypeName: typeName,
		Handle:   handle,
		Detail:   fmt.Sprintf("event %d", eventID),
		Value:    eventID,
		Cause:    cause,
	}
}

// TypeMismatch creates an error for a native value of an unexpected type
func TypeMismatch(phase Phase, typeName, member string, got any, want string) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindTypeMismatch,
		TypeName: typeName,
		Member:   member,
		Value:    got,
		Detail:   fmt.Sprintf("got %T, want %s", got, want),
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// ParseFailed creates a parsing error
func ParseFailed(what string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindInvalidData,
		Detail: fmt.Sprintf("parse %s", what),
		Cause:  cause,
	}
}

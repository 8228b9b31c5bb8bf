package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseMarshal  Phase = "marshal"  // cell <-> Go value conversion
	PhaseEncoding Phase = "encoding" // UTF-16 / code page conversion
	PhaseDispatch Phase = "dispatch" // index/arity resolution
	PhaseNative   Phase = "native"   // feature operation failed
	PhaseRegistry Phase = "registry" // descriptor table construction
	PhaseLoad     Phase = "load"     // class library and instance creation
	PhaseHost     Phase = "host"     // host boundary (wire format, memory)
)

// Kind categorizes the error
type Kind string

const (
	KindTypeMismatch     Kind = "type_mismatch"
	KindRange            Kind = "range"
	KindArityMismatch    Kind = "arity_mismatch"
	KindUnknownMethod    Kind = "unknown_method"
	KindUnknownProperty  Kind = "unknown_property"
	KindReadOnlyProperty Kind = "read_only_property"
	KindNotReadable      Kind = "not_readable"
	KindNativeFailure    Kind = "native_failure"
	KindInvalidUTF16     Kind = "invalid_utf16"
	KindInvalidData      Kind = "invalid_data"
	KindAlreadyWritten   Kind = "already_written"
	KindOutOfBounds      Kind = "out_of_bounds"
	KindAllocation       Kind = "allocation"
	KindNotFound         Kind = "not_found"
	KindInvalidInput     Kind = "invalid_input"
	KindRegistration     Kind = "registration"
	KindUnsupported      Kind = "unsupported"
)

// Error is the structured error type used throughout the bridge
type Error struct {
	Value    any
	Cause    error
	Phase    Phase
	Kind     Kind
	GoType   string
	HostType string
	Detail   string
	Path     []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.GoType != "" || e.HostType != "" {
		b.WriteString(": ")
		if e.GoType != "" && e.HostType != "" {
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
			b.WriteString(", host type ")
			b.WriteString(e.HostType)
		} else if e.GoType != "" {
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
		} else {
			b.WriteString("host type ")
			b.WriteString(e.HostType)
		}
	}

	if e.Detail != "" {
		if e.GoType != "" || e.HostType != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
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

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// WithPath returns a copy of e with prefix prepended to its path.
func (e *Error) WithPath(prefix ...string) *Error {
	cp := *e
	cp.Path = append(append(make([]string, 0, len(prefix)+len(e.Path)), prefix...), e.Path...)
	return &cp
}

// KindOf returns the Kind of the first *Error in err's chain, or "".
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// HasKind reports whether err's chain contains an *Error of the given kind,
// regardless of phase.
func HasKind(err error, kind Kind) bool {
	return KindOf(err) == kind
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

// Path sets the member path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// GoType sets the Go type name
func (b *Builder) GoType(t string) *Builder {
	b.err.GoType = t
	return b
}

// HostType sets the host-side type name (cell tag)
func (b *Builder) HostType(t string) *Builder {
	b.err.HostType = t
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

// TypeMismatch creates a type mismatch error
func TypeMismatch(phase Phase, path []string, goType, hostType string) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindTypeMismatch,
		Path:     path,
		GoType:   goType,
		HostType: hostType,
	}
}

// Range creates an error for a numeric value that does not fit the target width
func Range(phase Phase, path []string, value any, target string) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindRange,
		Path:     path,
		HostType: target,
		Detail:   fmt.Sprintf("value %v does not fit %s", value, target),
		Value:    value,
	}
}

// InvalidUTF16 creates an error for an unpaired surrogate at the given code unit offset
func InvalidUTF16(phase Phase, path []string, offset int, unit uint16) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidUTF16,
		Path:   path,
		Detail: fmt.Sprintf("unpaired surrogate 0x%04X at code unit %d", unit, offset),
		Value:  offset,
	}
}

// AlreadyWritten creates an error for a second write to a write-once cell
func AlreadyWritten(phase Phase, path []string, hostType string) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindAlreadyWritten,
		Path:     path,
		HostType: hostType,
		Detail:   "output cell already written during this call",
	}
}

// AllocationFailed creates an allocation failure error
func AllocationFailed(phase Phase, size, align uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindAllocation,
		Detail: fmt.Sprintf("failed to allocate %d bytes (align %d)", size, align),
	}
}

// UnknownMethod creates an error for a method index outside the table
func UnknownMethod(path []string, index, count int) *Error {
	return &Error{
		Phase:  PhaseDispatch,
		Kind:   KindUnknownMethod,
		Path:   path,
		Detail: fmt.Sprintf("method index %d out of range (%d methods)", index, count),
		Value:  index,
	}
}

// UnknownProperty creates an error for a property index outside the table
func UnknownProperty(path []string, index, count int) *Error {
	return &Error{
		Phase:  PhaseDispatch,
		Kind:   KindUnknownProperty,
		Path:   path,
		Detail: fmt.Sprintf("property index %d out of range (%d properties)", index, count),
		Value:  index,
	}
}

// ArityMismatch creates an error for a call with the wrong argument count
func ArityMismatch(path []string, want, got int) *Error {
	return &Error{
		Phase:  PhaseDispatch,
		Kind:   KindArityMismatch,
		Path:   path,
		Detail: fmt.Sprintf("expected %d argument(s), got %d", want, got),
		Value:  got,
	}
}

// ReadOnlyProperty creates an error for a set on a getter-only property
func ReadOnlyProperty(path []string) *Error {
	return &Error{
		Phase:  PhaseDispatch,
		Kind:   KindReadOnlyProperty,
		Path:   path,
		Detail: "property is read-only",
	}
}

// NotReadable creates an error for a get on a setter-only property
func NotReadable(path []string) *Error {
	return &Error{
		Phase:  PhaseDispatch,
		Kind:   KindNotReadable,
		Path:   path,
		Detail: "property is write-only",
	}
}

// NativeFailure wraps an error returned by a feature operation
func NativeFailure(path []string, cause error) *Error {
	return &Error{
		Phase: PhaseNative,
		Kind:  KindNativeFailure,
		Path:  path,
		Cause: cause,
	}
}

// Panic creates a native failure from a recovered panic value
func Panic(path []string, value any) *Error {
	return &Error{
		Phase:  PhaseNative,
		Kind:   KindNativeFailure,
		Path:   path,
		Detail: fmt.Sprintf("panic: %v", value),
		Value:  value,
	}
}

// OutOfBounds creates an out of bounds error
func OutOfBounds(phase Phase, path []string, offset, length uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Path:   path,
		Detail: fmt.Sprintf("range [%d, %d) outside memory", offset, uint64(offset)+uint64(length)),
		Value:  offset,
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, path []string, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Path:   path,
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

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Registration creates a descriptor table construction error
func Registration(class, member string, detail string) *Error {
	path := []string{class}
	if member != "" {
		path = append(path, member)
	}
	return &Error{
		Phase:  PhaseRegistry,
		Kind:   KindRegistration,
		Path:   path,
		Detail: detail,
	}
}

package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseEncode Phase = "encode" // object graph to JSON tree
	PhaseDecode Phase = "decode" // JSON tree to object graph
	PhaseCodec  Phase = "codec"  // tree to bytes and back
	PhaseConfig Phase = "config" // option and flag validation
)

// Kind categorizes the error
type Kind string

const (
	KindRecursionLimit   Kind = "recursion_limit"
	KindDisallowedObject Kind = "disallowed_object"
	KindUnsavedFile      Kind = "unsaved_file"
	KindInvalidDate      Kind = "invalid_date"
	KindInvalidUse       Kind = "invalid_use"
	KindUnsupported      Kind = "unsupported"
	KindInvalidData      Kind = "invalid_data"
	KindNotFound         Kind = "not_found"
)

// Sentinels for errors.Is. They match on Phase and Kind only.
var (
	ErrRecursionLimit   = &Error{Phase: PhaseEncode, Kind: KindRecursionLimit}
	ErrDisallowedObject = &Error{Phase: PhaseEncode, Kind: KindDisallowedObject}
	ErrUnsavedFile      = &Error{Phase: PhaseEncode, Kind: KindUnsavedFile}
	ErrInvalidDate      = &Error{Phase: PhaseEncode, Kind: KindInvalidDate}
	ErrInvalidUse       = &Error{Phase: PhaseEncode, Kind: KindInvalidUse}
)

// Error is the structured error type used throughout the library
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	GoType string
	Detail string
	Path   []string
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
		b.WriteString(JoinPath(e.Path))
	}

	if e.GoType != "" {
		b.WriteString(": Go type ")
		b.WriteString(e.GoType)
	}

	if e.Detail != "" {
		if e.GoType != "" {
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

// JoinPath renders a value path. Index segments ("[3]") attach to the
// preceding segment, key segments are joined with dots.
func JoinPath(path []string) string {
	var b strings.Builder
	for i, seg := range path {
		if i > 0 && !strings.HasPrefix(seg, "[") {
			b.WriteByte('.')
		}
		b.WriteString(seg)
	}
	return b.String()
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

// Path sets the value path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// GoType sets the Go type name
func (b *Builder) GoType(t string) *Builder {
	b.err.GoType = t
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

// Convenience constructors for the encoder's error kinds

// RecursionLimit creates an error for a traversal that went deeper than limit.
func RecursionLimit(path []string, depth, limit int) *Error {
	return &Error{
		Phase: PhaseEncode,
		Kind:  KindRecursionLimit,
		Path:  path,
		Detail: fmt.Sprintf("encoding object failed due to high number of recursive calls (%d > %d), likely caused by circular reference within object",
			depth, limit),
		Value: depth,
	}
}

// DisallowedObject creates an error for a domain object found where only
// plain data is permitted.
func DisallowedObject(path []string, className string) *Error {
	return &Error{
		Phase:  PhaseEncode,
		Kind:   KindDisallowedObject,
		Path:   path,
		Detail: fmt.Sprintf("objects not allowed here (class %q)", className),
	}
}

// UnsavedFile creates an error for a file without a remote location.
func UnsavedFile(path []string, name string) *Error {
	return &Error{
		Phase:  PhaseEncode,
		Kind:   KindUnsavedFile,
		Path:   path,
		Detail: fmt.Sprintf("tried to encode an unsaved file %q", name),
	}
}

// InvalidDate creates an error for a timestamp that is not a valid instant.
func InvalidDate(path []string, value any) *Error {
	return &Error{
		Phase:  PhaseEncode,
		Kind:   KindInvalidDate,
		Path:   path,
		Detail: "tried to encode an invalid date",
		Value:  value,
	}
}

// InvalidUse creates an error for a value the encoder refuses in this position.
func InvalidUse(phase Phase, path []string, goType, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidUse,
		Path:   path,
		GoType: goType,
		Detail: detail,
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, path []string, goType string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Path:   path,
		GoType: goType,
		Detail: "type cannot be represented as JSON",
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

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
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

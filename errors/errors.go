package errors

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/calumari/codama/token"
)

// Kind categorizes the error
type Kind string

const (
	KindFilesystem             Kind = "filesystem"
	KindManifest               Kind = "manifest"
	KindCompilation            Kind = "compilation"
	KindInvalidNodeConversion  Kind = "invalid_node_conversion"
	KindInvalidCodamaDirective Kind = "invalid_codama_directive"
	KindInvalidAttribute       Kind = "invalid_attribute"
	KindNodeNotFound           Kind = "node_not_found"
	KindUnexpectedNode         Kind = "unexpected_node"
)

// Diagnostic is a message pinned to a source span.
type Diagnostic struct {
	Span    token.Span
	Message string
}

func (d Diagnostic) String() string {
	if d.Span.IsValid() || d.Span.Start.Filename != "" {
		return d.Span.String() + ": " + d.Message
	}
	return d.Message
}

// Error is the structured error type used throughout the toolchain
type Error struct {
	Cause       error
	Kind        Kind
	Detail      string
	Path        string
	Diagnostics []Diagnostic
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Kind))
	b.WriteByte(']')

	if e.Path != "" {
		b.WriteString(" ")
		b.WriteString(e.Path)
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	switch len(e.Diagnostics) {
	case 0:
	case 1:
		b.WriteString(": ")
		b.WriteString(e.Diagnostics[0].String())
	default:
		for _, d := range e.Diagnostics {
			b.WriteString("\n  ")
			b.WriteString(d.String())
		}
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
		return e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(kind Kind) *Builder {
	return &Builder{err: Error{Kind: kind}}
}

// Path sets the file or item path the error refers to
func (b *Builder) Path(path string) *Builder {
	b.err.Path = path
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

// At appends a diagnostic pinned to span
func (b *Builder) At(span token.Span, msg string, args ...any) *Builder {
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	b.err.Diagnostics = append(b.err.Diagnostics, Diagnostic{Span: span, Message: msg})
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Sentinel values for errors.Is comparisons.
var (
	ErrFilesystem             = &Error{Kind: KindFilesystem}
	ErrManifest               = &Error{Kind: KindManifest}
	ErrCompilation            = &Error{Kind: KindCompilation}
	ErrInvalidNodeConversion  = &Error{Kind: KindInvalidNodeConversion}
	ErrInvalidCodamaDirective = &Error{Kind: KindInvalidCodamaDirective}
	ErrInvalidAttribute       = &Error{Kind: KindInvalidAttribute}
	ErrNodeNotFound           = &Error{Kind: KindNodeNotFound}
	ErrUnexpectedNode         = &Error{Kind: KindUnexpectedNode}
)

// Compile creates a compilation error pinned to span
func Compile(span token.Span, msg string, args ...any) *Error {
	return New(KindCompilation).At(span, msg, args...).Build()
}

// Filesystem wraps an I/O failure on path
func Filesystem(path string, cause error) *Error {
	return &Error{Kind: KindFilesystem, Path: path, Cause: cause}
}

// Manifest wraps a malformed crate manifest
func Manifest(path string, cause error) *Error {
	return &Error{Kind: KindManifest, Path: path, Cause: cause}
}

// InvalidNodeConversion reports a failed downcast between node sets
func InvalidNodeConversion(from, into string) *Error {
	return &Error{
		Kind:   KindInvalidNodeConversion,
		Detail: fmt.Sprintf("cannot convert %s into %s", from, into),
	}
}

// InvalidCodamaDirective reports a directive of an unexpected shape
func InvalidCodamaDirective(span token.Span, expected, actual string) *Error {
	return New(KindInvalidCodamaDirective).
		At(span, "expected %s directive, found %s", expected, actual).
		Build()
}

// InvalidAttribute reports an attribute of an unexpected shape
func InvalidAttribute(span token.Span, expected, actual string) *Error {
	return New(KindInvalidAttribute).
		At(span, "expected %s attribute, found %s", expected, actual).
		Build()
}

// NodeNotFound reports that the pipeline produced no node
func NodeNotFound() *Error {
	return &Error{Kind: KindNodeNotFound, Detail: "no node was produced"}
}

// UnexpectedNode reports that the pipeline produced a node of the wrong kind
func UnexpectedNode(expected, actual string) *Error {
	return &Error{
		Kind:   KindUnexpectedNode,
		Detail: fmt.Sprintf("expected %s, found %s", expected, actual),
	}
}

// IsCompilation reports whether err is a compilation error
func IsCompilation(err error) bool {
	var e *Error
	return stderrors.As(err, &e) && e.Kind == KindCompilation
}

// IsNotExist reports whether err says a file does not exist.
func IsNotExist(err error) bool {
	return stderrors.Is(err, fs.ErrNotExist)
}

// Diagnostics returns the diagnostics carried by err, if any
func Diagnostics(err error) []Diagnostic {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Diagnostics
	}
	return nil
}

// Combine merges two compilation errors into one multi-span error. For any
// other pair the first non-nil error wins.
func Combine(a, b error) error {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	var ea, eb *Error
	if stderrors.As(a, &ea) && stderrors.As(b, &eb) && ea.Kind == KindCompilation && eb.Kind == KindCompilation {
		merged := &Error{Kind: KindCompilation}
		merged.Diagnostics = append(merged.Diagnostics, ea.Diagnostics...)
		merged.Diagnostics = append(merged.Diagnostics, eb.Diagnostics...)
		return merged
	}
	return a
}

// CombineAll folds Combine over errs.
func CombineAll(errs ...error) error {
	var out error
	for _, err := range errs {
		out = Combine(out, err)
	}
	return out
}

// List accumulates errors at a join point.
type List struct {
	err error
}

// Add records err; nil is ignored.
func (l *List) Add(err error) {
	l.err = Combine(l.err, err)
}

// Err returns the combined error or nil.
func (l *List) Err() error {
	return l.err
}

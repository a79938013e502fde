package attributes

import (
	"github.com/calumari/codama/errors"
	"github.com/calumari/codama/token"
)

// SetOnce is a named slot of a directive that may be assigned at most once
// during a single parse.
type SetOnce[T any] struct {
	name  string
	value T
	span  token.Span
	set   bool
}

// NewSetOnce returns an empty slot called name.
func NewSetOnce[T any](name string) *SetOnce[T] {
	return &SetOnce[T]{name: name}
}

// Set assigns the slot. Assigning it twice is an error pinned to the second
// assignment.
func (s *SetOnce[T]) Set(value T, span token.Span) error {
	if s.set {
		return errors.Compile(span, "`%s` is already set", s.name)
	}
	s.value = value
	s.span = span
	s.set = true
	return nil
}

// IsSet reports whether the slot was assigned.
func (s *SetOnce[T]) IsSet() bool { return s.set }

// Span returns the span of the assignment, if any.
func (s *SetOnce[T]) Span() token.Span { return s.span }

// Get returns the value and whether it was assigned.
func (s *SetOnce[T]) Get() (T, bool) { return s.value, s.set }

// Or returns the value, or def when the slot is empty.
func (s *SetOnce[T]) Or(def T) T {
	if !s.set {
		return def
	}
	return s.value
}

// Take returns the value or fails with an error pinned to span when the slot
// was never assigned.
func (s *SetOnce[T]) Take(span token.Span) (T, error) {
	if !s.set {
		var zero T
		return zero, errors.Compile(span, "`%s` is missing", s.name)
	}
	return s.value, nil
}

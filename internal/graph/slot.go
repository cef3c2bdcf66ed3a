package graph

// Slot is a content cell for a node or an edge. It supports extracting the
// content while keeping the graph position stable, so that indices captured
// by earlier passes stay valid after a payload (for example a one-shot
// transform) has been consumed.
type Slot[T any] struct {
	content *T
}

// NewSlot returns a slot holding v.
func NewSlot[T any](v T) Slot[T] {
	return Slot[T]{content: &v}
}

// Unset removes and returns the content, leaving the slot empty.
// Panics if the slot is already empty: double consumption of a one-shot
// payload is a builder or interpreter bug, not a runtime condition.
func (s *Slot[T]) Unset() T {
	if s.content == nil {
		panic("graph: slot already emptied")
	}
	v := *s.content
	s.content = nil
	return v
}

// Take removes and returns the content, reporting false if the slot was
// already empty.
func (s *Slot[T]) Take() (T, bool) {
	if s.content == nil {
		var zero T
		return zero, false
	}
	v := *s.content
	s.content = nil
	return v, true
}

// Get returns the content without removing it, reporting false if empty.
func (s *Slot[T]) Get() (T, bool) {
	if s.content == nil {
		var zero T
		return zero, false
	}
	return *s.content, true
}

// IsEmpty reports whether the content has been taken.
func (s *Slot[T]) IsEmpty() bool { return s.content == nil }

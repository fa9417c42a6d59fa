package manager

type fieldState uint8

const (
	fieldAbsent fieldState = iota
	fieldClear
	fieldSet
)

// Field is a tri-state update value: absent (leave unchanged), cleared, or set.
// The zero value is absent.
type Field[T any] struct {
	state fieldState
	value T
}

// Set returns a Field that assigns v
func Set[T any](v T) Field[T] {
	return Field[T]{state: fieldSet, value: v}
}

// Clear returns a Field that resets the target to its empty value
func Clear[T any]() Field[T] {
	return Field[T]{state: fieldClear}
}

// IsAbsent reports whether the field leaves the target unchanged
func (f Field[T]) IsAbsent() bool { return f.state == fieldAbsent }

// IsClear reports whether the field resets the target
func (f Field[T]) IsClear() bool { return f.state == fieldClear }

// IsSet reports whether the field assigns a value
func (f Field[T]) IsSet() bool { return f.state == fieldSet }

// Value returns the assigned value, or T's zero value if the field is not set
func (f Field[T]) Value() T { return f.value }

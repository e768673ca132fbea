package model

// Patch carries a tri-state partial-update value: absent, set to NULL, or set
// to a concrete value. Absent fields are left untouched by FileStore.Update,
// which a plain pointer cannot express for nullable columns.
type Patch[T any] struct {
	set   bool
	value *T
}

// PatchValue returns a Patch holding v.
func PatchValue[T any](v T) Patch[T] {
	return Patch[T]{set: true, value: &v}
}

// PatchNull returns a Patch that sets the column to NULL.
func PatchNull[T any]() Patch[T] {
	return Patch[T]{set: true}
}

// IsSet reports whether the field was provided at all.
func (p Patch[T]) IsSet() bool {
	return p.set
}

// Ptr returns the held value, nil meaning NULL. Only meaningful when IsSet.
func (p Patch[T]) Ptr() *T {
	return p.value
}

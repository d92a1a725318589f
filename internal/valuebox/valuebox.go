// Package valuebox provides a typed, opaque value container used to pass
// task outputs, task inputs, and environment entries across the scheduler
// without the scheduler itself ever knowing their concrete type.
package valuebox

// Box holds a single value of arbitrary, run-time-determined type. Once
// constructed its contents are immutable; retrieval is checked, so asking
// for the wrong type is a clean miss rather than a panic or a silent
// misinterpretation.
type Box struct {
	val any
}

// Wrap stores v in a new Box.
func Wrap(v any) Box {
	return Box{val: v}
}

// UnwrapAs returns the contents of b viewed as T. ok is false if b was
// never assigned a value, or if its stored value is not exactly a T — no
// implicit widening is performed.
func UnwrapAs[T any](b Box) (T, bool) {
	v, ok := b.val.(T)
	return v, ok
}

// IsZero reports whether b was never given a value via Wrap.
func (b Box) IsZero() bool {
	return b.val == nil
}

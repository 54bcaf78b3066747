// Package options implements the generic functional options shared by the
// encoder, decoder and compactor configurations.
package options

// Option represents a functional option for configuring a target of type T.
// The apply method is unexported, so only this package can construct options
// and callers compose them through New and NoError.
type Option[T any] interface {
	apply(T) error
}

// Func is a generic functional option that wraps a function.
// It implements the Option interface for any type T.
type Func[T any] struct {
	applyFunc func(T) error
}

// apply implements the Option interface.
func (f *Func[T]) apply(target T) error {
	return f.applyFunc(target)
}

// New creates a functional option from a function that may reject its input.
// Use it for options that validate their argument, such as a precision
// limit outside the supported range.
func New[T any](fn func(T) error) *Func[T] {
	return &Func[T]{applyFunc: fn}
}

// NoError creates a functional option from a function that doesn't return an error.
// This is a convenience for options that only assign a field.
func NoError[T any](fn func(T)) *Func[T] {
	return &Func[T]{
		applyFunc: func(target T) error {
			fn(target)
			return nil
		},
	}
}

// Apply applies opts to target in the order given.
//
// Nil options are skipped so callers can build option lists conditionally.
// Application stops at the first error, leaving target partially configured;
// constructors discard the target in that case.
func Apply[T any](target T, opts ...Option[T]) error {
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.apply(target); err != nil {
			return err
		}
	}

	return nil
}

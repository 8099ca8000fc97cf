package optional

// Optional holds either a value or nothing. The zero value is empty.
type Optional[T any] struct {
	present bool
	value   T
}

func (self Optional[T]) IsPresent() bool {
	return self.present
}

func (self Optional[T]) Value() T {
	return self.value
}

// Get returns the value and whether it is present, in comma-ok form.
func (self Optional[T]) Get() (T, bool) {
	return self.value, self.present
}

// OrElse returns the value if present and fallback otherwise.
func (self Optional[T]) OrElse(fallback T) T {
	if !self.present {
		return fallback
	}
	return self.value
}

func Some[T any](v T) Optional[T] {
	return Optional[T]{
		present: true,
		value:   v,
	}
}

func None[T any]() Optional[T] {
	return Optional[T]{}
}

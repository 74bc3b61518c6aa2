package result

import (
	"fmt"

	"github.com/samber/mo"
)

// Option holds a value or nothing. The zero value is None.
type Option[T any] struct {
	o mo.Option[T]
}

func Some[T any](v T) Option[T] { return Option[T]{o: mo.Some(v)} }

func None[T any]() Option[T] { return Option[T]{o: mo.None[T]()} }

func (o Option[T]) IsSome() bool { return o.o.IsPresent() }
func (o Option[T]) IsNone() bool { return o.o.IsAbsent() }

// Get returns the value and whether it is present.
func (o Option[T]) Get() (T, bool) { return o.o.Get() }

// GetOrElse returns the value, or fallback when absent.
func (o Option[T]) GetOrElse(fallback T) T { return o.o.OrElse(fallback) }

func (o Option[T]) String() string {
	if v, ok := o.o.Get(); ok {
		return fmt.Sprintf("Some(%v)", v)
	}
	return "None"
}

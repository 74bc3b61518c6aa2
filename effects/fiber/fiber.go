// Package fiber assigns identities to the goroutines that run tasks.
//
// A fiber id is displayed as "#n". Ids are drawn from the nearest sequence
// installed with WithRoot, whose own fiber is #0, so the children forked from
// a fresh root are #1, #2, #3 in fork order. Contexts without a root draw
// from a process-wide sequence.
package fiber

import (
	"context"
	"fmt"
	"sync/atomic"
)

// ID identifies a fiber.
type ID int64

// None is the id of code that does not run on a fiber.
const None ID = -1

func (id ID) String() string {
	if id == None {
		return "#none"
	}
	return fmt.Sprintf("#%d", int64(id))
}

type sequence struct {
	next atomic.Int64
}

func (s *sequence) allocate() ID {
	return ID(s.next.Add(1))
}

type idKey struct{}
type sequenceKey struct{}

var global = &sequence{}

// WithRoot starts a new id sequence and puts ctx on its root fiber, #0.
func WithRoot(ctx context.Context) context.Context {
	ctx = context.WithValue(ctx, sequenceKey{}, &sequence{})
	return context.WithValue(ctx, idKey{}, ID(0))
}

// Fork returns a context running on a newly allocated fiber.
func Fork(ctx context.Context) context.Context {
	seq, ok := ctx.Value(sequenceKey{}).(*sequence)
	if !ok {
		seq = global
	}
	return context.WithValue(ctx, idKey{}, seq.allocate())
}

// FromContext returns the fiber ctx runs on, or None.
func FromContext(ctx context.Context) ID {
	if id, ok := ctx.Value(idKey{}).(ID); ok {
		return id
	}
	return None
}

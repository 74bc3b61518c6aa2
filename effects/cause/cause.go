// Package cause describes why a fiber, or a group of fibers, did not succeed.
//
// A Cause is a tree. Leaves record a failure (an error), a defect (a
// recovered panic) or an interruption; inner nodes record whether their
// children happened one after the other or side by side. Interruptions are
// not errors: a tree made only of interruptions has no Failures.
package cause

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/on-the-ground/effect_ive_cookbook/effects/fiber"
)

// Tag names the shape of a Cause node.
type Tag string

const (
	TagEmpty      Tag = "Empty"
	TagFail       Tag = "Fail"
	TagDie        Tag = "Die"
	TagInterrupt  Tag = "Interrupt"
	TagSequential Tag = "Sequential"
	TagParallel   Tag = "Parallel"
)

// Cause is an immutable failure description.
type Cause struct {
	tag      Tag
	err      error
	defect   any
	fiber    fiber.ID
	children []Cause
}

// Empty is the cause of nothing having gone wrong.
func Empty() Cause { return Cause{tag: TagEmpty} }

// Fail records err as a failure.
func Fail(err error) Cause { return Cause{tag: TagFail, err: err} }

// Die records a recovered panic value.
func Die(defect any) Cause { return Cause{tag: TagDie, defect: defect} }

// Interrupt records that fiber id was interrupted.
func Interrupt(id fiber.ID) Cause { return Cause{tag: TagInterrupt, fiber: id} }

// Sequential records that right happened after left. Empty sides are dropped.
func Sequential(left, right Cause) Cause {
	switch {
	case left.IsEmpty():
		return right
	case right.IsEmpty():
		return left
	}
	return Cause{tag: TagSequential, children: []Cause{left, right}}
}

// Parallel records causes that happened concurrently. Empty children are
// dropped; the node is kept even when no child remains, so a group that
// ended without any cause still reads as a Parallel node.
func Parallel(causes ...Cause) Cause {
	children := make([]Cause, 0, len(causes))
	for _, c := range causes {
		if !c.IsEmpty() {
			children = append(children, c)
		}
	}
	return Cause{tag: TagParallel, children: children}
}

func (c Cause) Tag() Tag { return c.tag }

// Children returns the direct children of a Sequential or Parallel node.
func (c Cause) Children() []Cause { return append([]Cause(nil), c.children...) }

// IsEmpty is true for Empty and for a Parallel node without children.
func (c Cause) IsEmpty() bool {
	switch c.tag {
	case TagEmpty, "":
		return true
	case TagParallel:
		return len(c.children) == 0
	}
	return false
}

// Failures lists the true errors in the tree, depth first. Defects are
// reported as *DefectError; interruptions are never listed.
func (c Cause) Failures() []error {
	var out []error
	c.walk(func(n Cause) {
		switch n.tag {
		case TagFail:
			out = append(out, n.err)
		case TagDie:
			out = append(out, &DefectError{Value: n.defect})
		}
	})
	return out
}

// Interruptors lists the fibers interrupted anywhere in the tree.
func (c Cause) Interruptors() []fiber.ID {
	var out []fiber.ID
	c.walk(func(n Cause) {
		if n.tag == TagInterrupt {
			out = append(out, n.fiber)
		}
	})
	return out
}

// IsInterruptedOnly is true when the tree holds interruptions and nothing
// else.
func (c Cause) IsInterruptedOnly() bool {
	return len(c.Failures()) == 0 && len(c.Interruptors()) > 0
}

func (c Cause) walk(visit func(Cause)) {
	visit(c)
	for _, child := range c.children {
		child.walk(visit)
	}
}

func (c Cause) String() string {
	switch c.tag {
	case TagEmpty, "":
		return "Empty"
	case TagFail:
		return fmt.Sprintf("Fail(%v)", c.err)
	case TagDie:
		return fmt.Sprintf("Die(%v)", c.defect)
	case TagInterrupt:
		return fmt.Sprintf("Interrupt(%s)", c.fiber)
	}
	parts := make([]string, len(c.children))
	for i, child := range c.children {
		parts[i] = child.String()
	}
	return fmt.Sprintf("%s(%s)", c.tag, strings.Join(parts, ", "))
}

// FromError classifies err as observed on fiber id.
//
//   - *InterruptedError and context.Canceled are interruptions.
//   - *FiberFailure contributes the cause it carries.
//   - *DefectError is a defect.
//   - Anything else is a failure.
//   - A nil error is Empty.
func FromError(err error, id fiber.ID) Cause {
	if err == nil {
		return Empty()
	}
	var ff *FiberFailure
	if errors.As(err, &ff) {
		return ff.Cause
	}
	var de *DefectError
	if errors.As(err, &de) {
		return Die(de.Value)
	}
	var ie *InterruptedError
	if errors.As(err, &ie) {
		return Interrupt(ie.Fiber)
	}
	if errors.Is(err, context.Canceled) {
		return Interrupt(id)
	}
	return Fail(err)
}

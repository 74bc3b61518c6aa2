package cause

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/on-the-ground/effect_ive_cookbook/effects/fiber"
	"go.uber.org/multierr"
)

// InterruptedError is returned by a suspended step whose fiber was
// interrupted.
type InterruptedError struct {
	Fiber fiber.ID
}

func (e *InterruptedError) Error() string {
	return fmt.Sprintf("fiber %s interrupted", e.Fiber)
}

// Interrupted returns the error a suspended step reports once ctx is done:
// an expired deadline stays a failure, any other cancellation interrupts
// the fiber ctx runs on.
func Interrupted(ctx context.Context) error {
	err := ctx.Err()
	if errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return &InterruptedError{Fiber: fiber.FromContext(ctx)}
}

// IsInterruption reports whether err only says a fiber was interrupted.
func IsInterruption(err error) bool {
	return err != nil && FromError(err, fiber.None).IsInterruptedOnly()
}

// DefectError reports a recovered panic value as an error.
type DefectError struct {
	Value any
}

func (e *DefectError) Error() string {
	return fmt.Sprintf("panic recovered: %v", e.Value)
}

// FiberFailure is the error of a run that ended with a non-empty cause.
type FiberFailure struct {
	Cause Cause
}

func (f *FiberFailure) Error() string {
	if f.Cause.IsInterruptedOnly() {
		return fmt.Sprintf("all fibers interrupted without errors: %s", f.Cause)
	}
	return fmt.Sprintf("fiber failure: %v", multierr.Combine(f.Cause.Failures()...))
}

// Unwrap exposes the failures to errors.Is and errors.As.
func (f *FiberFailure) Unwrap() []error {
	return multierr.Errors(multierr.Combine(f.Cause.Failures()...))
}

// MarshalJSON renders the failure the way the recipes print it:
//
//	{"_id":"FiberFailure","cause":{"_id":"Cause","_tag":"Parallel","errors":[]}}
func (f *FiberFailure) MarshalJSON() ([]byte, error) {
	failures := f.Cause.Failures()
	messages := make([]string, len(failures))
	for i, err := range failures {
		messages[i] = err.Error()
	}
	tag := f.Cause.Tag()
	if tag == "" {
		tag = TagEmpty
	}
	return json.Marshal(struct {
		ID    string `json:"_id"`
		Cause struct {
			ID     string   `json:"_id"`
			Tag    Tag      `json:"_tag"`
			Errors []string `json:"errors"`
		} `json:"cause"`
	}{
		ID: "FiberFailure",
		Cause: struct {
			ID     string   `json:"_id"`
			Tag    Tag      `json:"_tag"`
			Errors []string `json:"errors"`
		}{ID: "Cause", Tag: tag, Errors: messages},
	})
}

// Squash returns the single most relevant error of c: its first failure, or
// an *InterruptedError when it holds only interruptions, or nil when empty.
func Squash(c Cause) error {
	if failures := c.Failures(); len(failures) > 0 {
		return failures[0]
	}
	if ids := c.Interruptors(); len(ids) > 0 {
		return &InterruptedError{Fiber: ids[0]}
	}
	return nil
}

// Package result holds values that reify outcomes as data: Either for
// success-or-failure, Option for presence-or-absence, and Exit for the full
// outcome of a task including its failure cause.
package result

import (
	"encoding/json"
	"fmt"

	"github.com/samber/mo"
)

// Either holds exactly one of a Left (conventionally a failure) or a Right.
// The zero value is a Right holding the zero R.
type Either[L, R any] struct {
	e mo.Either[L, R]
}

func Left[L, R any](l L) Either[L, R] {
	return Either[L, R]{e: mo.Left[L, R](l)}
}

func Right[L, R any](r R) Either[L, R] {
	return Either[L, R]{e: mo.Right[L, R](r)}
}

func (e Either[L, R]) IsLeft() bool  { return e.e.IsLeft() }
func (e Either[L, R]) IsRight() bool { return e.e.IsRight() }

// GetLeft returns the left value and whether e is a Left.
func (e Either[L, R]) GetLeft() (L, bool) { return e.e.Left() }

// GetRight returns the right value and whether e is a Right.
func (e Either[L, R]) GetRight() (R, bool) { return e.e.Right() }

// Fold applies onLeft or onRight depending on which side e holds.
func Fold[L, R, T any](e Either[L, R], onLeft func(L) T, onRight func(R) T) T {
	if l, ok := e.e.Left(); ok {
		return onLeft(l)
	}
	r, _ := e.e.Right()
	return onRight(r)
}

func (e Either[L, R]) String() string {
	return Fold(e,
		func(l L) string { return fmt.Sprintf("Left(%v)", l) },
		func(r R) string { return fmt.Sprintf("Right(%v)", r) },
	)
}

// MarshalJSON renders e as {"_id":"Either","_tag":"Left","left":...}.
// Error values are rendered by their message.
func (e Either[L, R]) MarshalJSON() ([]byte, error) {
	if l, ok := e.e.Left(); ok {
		return json.Marshal(struct {
			ID   string `json:"_id"`
			Tag  string `json:"_tag"`
			Left any    `json:"left"`
		}{"Either", "Left", jsonValue(l)})
	}
	r, _ := e.e.Right()
	return json.Marshal(struct {
		ID    string `json:"_id"`
		Tag   string `json:"_tag"`
		Right any    `json:"right"`
	}{"Either", "Right", jsonValue(r)})
}

func jsonValue(v any) any {
	if err, ok := v.(error); ok {
		if _, isMarshaler := v.(json.Marshaler); !isMarshaler {
			return err.Error()
		}
	}
	return v
}

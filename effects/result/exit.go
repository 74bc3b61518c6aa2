package result

import (
	"encoding/json"
	"fmt"

	"github.com/on-the-ground/effect_ive_cookbook/effects/cause"
)

// Exit is the complete outcome of a task: its value, or the cause of its
// failure.
type Exit[A any] struct {
	value A
	cause cause.Cause
	ok    bool
}

func Succeed[A any](a A) Exit[A] { return Exit[A]{value: a, ok: true} }

func FailCause[A any](c cause.Cause) Exit[A] { return Exit[A]{cause: c} }

func (e Exit[A]) IsSuccess() bool { return e.ok }
func (e Exit[A]) IsFailure() bool { return !e.ok }

// Value returns the success value and whether e succeeded.
func (e Exit[A]) Value() (A, bool) { return e.value, e.ok }

// Cause returns the failure cause; Empty on success.
func (e Exit[A]) Cause() cause.Cause {
	if e.ok {
		return cause.Empty()
	}
	return e.cause
}

// Err converts a failure back into an error: a *cause.FiberFailure.
func (e Exit[A]) Err() error {
	if e.ok {
		return nil
	}
	return &cause.FiberFailure{Cause: e.cause}
}

func (e Exit[A]) String() string {
	if e.ok {
		return fmt.Sprintf("Success(%v)", e.value)
	}
	return fmt.Sprintf("Failure(%s)", e.cause)
}

// MarshalJSON renders e as {"_id":"Exit","_tag":"Success","value":...} or
// {"_id":"Exit","_tag":"Failure","cause":"..."}.
func (e Exit[A]) MarshalJSON() ([]byte, error) {
	if e.ok {
		return json.Marshal(struct {
			ID    string `json:"_id"`
			Tag   string `json:"_tag"`
			Value any    `json:"value"`
		}{"Exit", "Success", jsonValue(e.value)})
	}
	return json.Marshal(struct {
		ID    string `json:"_id"`
		Tag   string `json:"_tag"`
		Cause string `json:"cause"`
	}{"Exit", "Failure", e.cause.String()})
}

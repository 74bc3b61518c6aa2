// Package service provides dependency lookup through the service effect.
//
// Implementations are bound to typed tags in a Context and installed with
// WithEffectHandler. Lookups that miss in the nearest handler are delegated
// to the handler installed above it.
package service

import (
	"context"
	"errors"
	"fmt"
	"maps"

	"github.com/on-the-ground/effect_ive_cookbook/effects"
	effectmodel "github.com/on-the-ground/effect_ive_cookbook/effects/internal/model"
	"github.com/on-the-ground/effect_ive_cookbook/effects/result"
	"github.com/on-the-ground/effect_ive_cookbook/shared/helper"
)

var ErrServiceNotFound = errors.New("service not found")

// Tag identifies a service of type T.
type Tag[T any] struct {
	key string
}

func NewTag[T any](key string) Tag[T] {
	return Tag[T]{key: key}
}

func (t Tag[T]) Key() string { return t.key }

func (t Tag[T]) String() string { return fmt.Sprintf("Tag(%s)", t.key) }

// Context is an immutable set of service bindings.
type Context struct {
	bindings map[string]any
}

// Add returns c with impl bound to tag, replacing any earlier binding.
func Add[T any](c Context, tag Tag[T], impl T) Context {
	bindings := maps.Clone(c.bindings)
	if bindings == nil {
		bindings = make(map[string]any, 1)
	}
	bindings[tag.key] = impl
	return Context{bindings: bindings}
}

// Make is Add on an empty Context.
func Make[T any](tag Tag[T], impl T) Context {
	return Add(Context{}, tag, impl)
}

func (c Context) Len() int { return len(c.bindings) }

// lookup is the service effect payload, partitioned by tag key.
type lookup string

func (l lookup) PartitionKey() string {
	return string(l)
}

// WithEffectHandler installs a resumable, partitionable lookup handler
// serving services.
func WithEffectHandler(
	ctx context.Context,
	config effects.EffectScopeConfig,
	services Context,
) (context.Context, func() context.Context) {
	h := handler{bindings: services.bindings}
	return effects.WithResumablePartitionableEffectHandler[lookup, any](
		ctx,
		config,
		effectmodel.EffectService,
		h.handle,
	)
}

type handler struct {
	bindings map[string]any
}

// handle answers from the local bindings, then from the handler above.
func (h handler) handle(upperCtx context.Context, key lookup) (any, error) {
	if v, ok := h.bindings[string(key)]; ok {
		return v, nil
	}
	if !effects.HasHandler(upperCtx, effectmodel.EffectService) {
		return nil, fmt.Errorf("%w: %s", ErrServiceNotFound, key)
	}
	return effects.AwaitResumableEffect[lookup, any](upperCtx, effectmodel.EffectService, key)
}

// Get looks tag up. It fails with ErrServiceNotFound when no handler binds
// it.
func Get[T any](ctx context.Context, tag Tag[T]) (T, error) {
	if !effects.HasHandler(ctx, effectmodel.EffectService) {
		var zero T
		return zero, fmt.Errorf("%w: %s", ErrServiceNotFound, tag.key)
	}
	return helper.GetTypedValueOf[T](func() (any, error) {
		return effects.AwaitResumableEffect[lookup, any](ctx, effectmodel.EffectService, lookup(tag.key))
	})
}

// MustGet is the panic-on-failure variant of Get.
func MustGet[T any](ctx context.Context, tag Tag[T]) T {
	return helper.MustGetTypedValue[T](func() (any, error) {
		return Get(ctx, tag)
	})
}

// GetOption looks tag up and never fails: a missing service is None.
func GetOption[T any](ctx context.Context, tag Tag[T]) result.Option[T] {
	v, err := Get(ctx, tag)
	if err != nil {
		return result.None[T]()
	}
	return result.Some(v)
}

package service_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/on-the-ground/effect_ive_cookbook/effects"
	"github.com/on-the-ground/effect_ive_cookbook/effects/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type greeter interface {
	Greet(name string) string
}

type english struct{}

func (english) Greet(name string) string { return "hello " + name }

var (
	greeterTag = service.NewTag[greeter]("Greeter")
	numberTag  = service.NewTag[int]("Number")
)

func TestService_BasicLookup(t *testing.T) {
	ctx, end := service.WithEffectHandler(
		context.Background(),
		effects.NewEffectScopeConfig(1, 1),
		service.Make[greeter](greeterTag, english{}),
	)
	defer end()

	g, err := service.Get(ctx, greeterTag)
	require.NoError(t, err)
	assert.Equal(t, "hello fiber", g.Greet("fiber"))
}

func TestService_NotFound(t *testing.T) {
	ctx, end := service.WithEffectHandler(
		context.Background(),
		effects.NewEffectScopeConfig(1, 1),
		service.Make(numberTag, 7),
	)
	defer end()

	_, err := service.Get(ctx, greeterTag)
	assert.ErrorIs(t, err, service.ErrServiceNotFound)
	assert.True(t, service.GetOption(ctx, greeterTag).IsNone())
	assert.Panics(t, func() { service.MustGet(ctx, greeterTag) })
}

func TestService_NoHandler(t *testing.T) {
	_, err := service.Get(context.Background(), numberTag)
	assert.ErrorIs(t, err, service.ErrServiceNotFound)
	assert.Equal(t, -1, service.GetOption(context.Background(), numberTag).GetOrElse(-1))
}

func TestService_DelegatesToUpperScope(t *testing.T) {
	upperCtx, upperEnd := service.WithEffectHandler(
		context.Background(),
		effects.NewEffectScopeConfig(1, 1),
		service.Make(numberTag, 42),
	)
	defer upperEnd()

	lowerCtx, lowerEnd := service.WithEffectHandler(
		upperCtx,
		effects.NewEffectScopeConfig(1, 1),
		service.Make[greeter](greeterTag, english{}),
	)
	defer lowerEnd()

	n, err := service.Get(lowerCtx, numberTag)
	require.NoError(t, err)
	assert.Equal(t, 42, n)
	assert.True(t, service.GetOption(lowerCtx, greeterTag).IsSome())
}

func TestService_LowerScopeShadows(t *testing.T) {
	upperCtx, upperEnd := service.WithEffectHandler(
		context.Background(),
		effects.NewEffectScopeConfig(1, 1),
		service.Make(numberTag, 1),
	)
	defer upperEnd()

	lowerCtx, lowerEnd := service.WithEffectHandler(
		upperCtx,
		effects.NewEffectScopeConfig(1, 1),
		service.Make(numberTag, 2),
	)
	defer lowerEnd()

	assert.Equal(t, 2, service.MustGet(lowerCtx, numberTag))
	assert.Equal(t, 1, service.MustGet(upperCtx, numberTag))
}

func TestService_AddDoesNotMutate(t *testing.T) {
	base := service.Make(numberTag, 1)
	extended := service.Add[greeter](base, greeterTag, english{})
	assert.Equal(t, 1, base.Len())
	assert.Equal(t, 2, extended.Len())
}

func TestService_ConcurrentPartitionedAccess(t *testing.T) {
	services := service.Context{}
	tags := make([]service.Tag[string], 10)
	for i := range tags {
		tags[i] = service.NewTag[string](fmt.Sprintf("key%d", i))
		services = service.Add(services, tags[i], fmt.Sprintf("value%d", i))
	}

	ctx, end := service.WithEffectHandler(context.Background(), effects.NewEffectScopeConfig(10, 10), services)
	defer end()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		results = make(map[string]int)
	)

	numRequests := 1000
	wg.Add(numRequests)
	for i := 0; i < numRequests; i++ {
		go func(i int) {
			defer wg.Done()
			idx := i % len(tags)
			v, err := service.Get(ctx, tags[idx])
			if err != nil {
				t.Errorf("unexpected error for %s: %v", tags[idx], err)
				return
			}
			if want := fmt.Sprintf("value%d", idx); v != want {
				t.Errorf("unexpected value for %s: got %v, want %v", tags[idx], v, want)
			}
			mu.Lock()
			results[tags[idx].Key()]++
			mu.Unlock()
		}(i)
	}
	wg.Wait()

	for _, tag := range tags {
		assert.Equal(t, numRequests/len(tags), results[tag.Key()], tag.Key())
	}
}

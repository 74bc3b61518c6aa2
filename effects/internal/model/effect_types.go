package effectmodel

import "errors"

type EffectEnum string

const (
	EffectLog         EffectEnum = "effect_ive_cookbook_effect_enum_log"
	EffectConcurrency EffectEnum = "effect_ive_cookbook_effect_enum_concurrency"
	EffectService     EffectEnum = "effect_ive_cookbook_effect_enum_service"
)

var (
	ErrNoEffectHandler = errors.New("no effect handler registered for this effect")
	ErrHandlerClosed   = errors.New("effect handler closed")
)

type EffectScopeConfig struct {
	BufferSize int // default: 1
	NumWorkers int // default: 1
}

func NewEffectScopeConfig(bufferSize int, numWorkers int) EffectScopeConfig {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	if numWorkers <= 0 {
		numWorkers = 1
	}
	return EffectScopeConfig{
		BufferSize: bufferSize,
		NumWorkers: numWorkers,
	}
}

type Partitionable interface {
	PartitionKey() string
}

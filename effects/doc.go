// Package effects is the handler core the cookbook is built on.
//
// Side effects such as logging, spawning fibers and looking up services are
// delegated to handlers installed in a context.Context. A handler is
// installed with one of the WithXxxEffectHandler functions, which return the
// context carrying it and a teardown function; effects are then performed
// through PerformResumableEffect, AwaitResumableEffect or
// FireAndForgetEffect.
//
// # Handlers
//
// Every handler owns a scope: a uuid, a queue and one or more workers. Payloads
// that implement PartitionKey are routed to a worker by the hash of their key,
// so effects on one key are handled in order. Tearing a handler down handles
// every payload already accepted, runs the teardown, and rejects later effects
// with ErrHandlerClosed.
//
// Performing an effect without a handler panics: a missing handler is a wiring
// mistake, not a runtime condition.
//
// # Built-in handlers
//
//   - log: fire-and-forget structured logging through zap
//   - concurrency: a supervisor for spawned fibers
//   - service: typed, scoped dependency lookup with delegation to outer scopes
//
// Example:
//
//	ctx, endOfLogHandler := log.WithZapEffectHandler(ctx, 64, logger)
//	defer endOfLogHandler()
//
//	log.Info(ctx, "hello")
package effects

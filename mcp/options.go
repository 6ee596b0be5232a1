package mcp

import "github.com/parametric-mcp/pmcp/symbolic"

// Options collects the recognized compile-time options from spec §6.
// Compile starts from Sensitivities and WarmUpCallbacks enabled (the
// documented defaults; the struct's zero value has both false) before
// applying any Option; Backend must be set explicitly by Compile's
// caller (or left nil to fall back to the rational engine).
type Options struct {
	// Sensitivities controls whether ∂F/∂θ is derived and compiled. When
	// false, sensitivity.JacobianWRTTheta on the resulting ParametricMCP
	// fails with the "missing sensitivities" error.
	Sensitivities bool

	// Backend selects the symbolic engine. Nil selects the rational
	// engine (exact-rational, symbolic/rational).
	Backend symbolic.Backend

	// WarmUpCallbacks runs a single zero-input call of every compiled
	// evaluator immediately after code generation, amortizing any
	// first-call cost before the caller's first real Solve.
	WarmUpCallbacks bool
}

// Option mutates Options during Compile; see WithSensitivities,
// WithBackend, and WithWarmUp.
type Option func(*Options)

// WithSensitivities toggles ∂F/∂θ derivation. Default: true.
func WithSensitivities(enabled bool) Option {
	return func(o *Options) { o.Sensitivities = enabled }
}

// WithBackend selects the symbolic engine used to trace and compile the
// residual.
func WithBackend(b symbolic.Backend) Option {
	return func(o *Options) { o.Backend = b }
}

// WithWarmUp toggles the one-shot warm-up call of every evaluator.
// Default: true.
func WithWarmUp(enabled bool) Option {
	return func(o *Options) { o.WarmUpCallbacks = enabled }
}

func defaultOptions() Options {
	return Options{Sensitivities: true, WarmUpCallbacks: true}
}

func resolveOptions(opts []Option) Options {
	o := defaultOptions()
	for _, apply := range opts {
		apply(&o)
	}
	return o
}

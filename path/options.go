package path

// SolveOptions collects the recognized solve-time options.
type SolveOptions struct {
	// Driver overrides the solver backend. Nil selects DefaultDriver().
	Driver Driver

	// InitialGuess seeds the solve. Nil defaults to the zero vector,
	// per spec §4.4/§6.
	InitialGuess []float64

	// ApproximateLinear switches to the linearized fast path: one
	// evaluation of M = ∂F/∂z and q = F(InitialGuess), then solves the
	// affine problem M*(z-InitialGuess) + q ⟂ [lb, ub] directly rather
	// than re-evaluating the (possibly nonlinear) residual at every
	// driver iteration.
	ApproximateLinear bool

	// WarnOnConvergenceFailure logs via log.Printf when the driver
	// returns a non-Solved status, mirroring the teacher's log.Printf
	// warning idiom in its HTTP handler's recovery path.
	WarnOnConvergenceFailure bool

	// Verbose forwards as !silent to the driver (SolveHints.Verbose);
	// false suppresses the driver's own progress output, per spec §4.4.
	Verbose bool

	// EnablePresolve forwards jac_z's ConstantEntries to the driver as
	// SolveHints.LinearEntries, per spec §4.4; when false (the
	// default) the driver receives an empty LinearEntries regardless
	// of what jac_z actually knows.
	EnablePresolve bool

	// JacobianDataContiguous forwards to SolveHints.JacobianDataContiguous.
	// True by default: this package's Jacobian callback always writes
	// into one preallocated, contiguous COO buffer.
	JacobianDataContiguous bool
}

// SolveOption mutates SolveOptions.
type SolveOption func(*SolveOptions)

// WithDriver selects a specific Driver implementation.
func WithDriver(d Driver) SolveOption {
	return func(o *SolveOptions) { o.Driver = d }
}

// WithInitialGuess seeds the solve at z0 instead of the zero vector.
func WithInitialGuess(z0 []float64) SolveOption {
	return func(o *SolveOptions) { o.InitialGuess = z0 }
}

// WithApproximateLinear enables the linearized fast path.
func WithApproximateLinear(enabled bool) SolveOption {
	return func(o *SolveOptions) { o.ApproximateLinear = enabled }
}

// WithWarnOnConvergenceFailure toggles the log.Printf warning emitted
// when the driver fails to reach Solved.
func WithWarnOnConvergenceFailure(enabled bool) SolveOption {
	return func(o *SolveOptions) { o.WarnOnConvergenceFailure = enabled }
}

// WithVerbose toggles the driver's own progress output. Default: false.
func WithVerbose(enabled bool) SolveOption {
	return func(o *SolveOptions) { o.Verbose = enabled }
}

// WithPresolve toggles forwarding jac_z's constant entries to the
// driver as linear-element hints. Default: false.
func WithPresolve(enabled bool) SolveOption {
	return func(o *SolveOptions) { o.EnablePresolve = enabled }
}

// WithJacobianDataContiguous overrides the default contiguous-buffer
// hint forwarded to the driver.
func WithJacobianDataContiguous(enabled bool) SolveOption {
	return func(o *SolveOptions) { o.JacobianDataContiguous = enabled }
}

func resolveSolveOptions(opts []SolveOption) SolveOptions {
	o := SolveOptions{WarnOnConvergenceFailure: true, JacobianDataContiguous: true}
	for _, apply := range opts {
		apply(&o)
	}
	return o
}

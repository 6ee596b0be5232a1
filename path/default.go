//go:build !pathsolver

package path

// DefaultDriver returns the driver used when the module is built
// without the "pathsolver" tag: the pure-Go PivotDriver fallback.
func DefaultDriver() Driver { return NewPivotDriver() }

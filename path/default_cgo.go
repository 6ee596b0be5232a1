//go:build pathsolver

package path

// DefaultDriver returns the driver used when the module is built with
// the "pathsolver" tag: the real PATH binding.
func DefaultDriver() Driver { return NewCGODriver() }

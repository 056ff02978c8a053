package fluid

import "errors"

// Domain errors for solver operations.
var (
	// ErrInvalidConfig indicates a degenerate configuration value
	// (smoothing radius or target density <= 0, zero sub-steps).
	// Rejected at configuration time, never at dispatch time.
	ErrInvalidConfig = errors.New("fluid: invalid configuration")

	// ErrCapacity indicates an affector add beyond the configured
	// maximum. Non-fatal; the add is refused and the list unchanged.
	ErrCapacity = errors.New("fluid: affector capacity exhausted")

	// ErrAllocation indicates the fixed-size particle or affector
	// buffers could not be allocated at startup. Fatal.
	ErrAllocation = errors.New("fluid: buffer allocation failed")

	// ErrNoParticles indicates spawn data produced an empty simulation.
	ErrNoParticles = errors.New("fluid: spawn data yields no particles")

	// ErrInvalidState indicates NaN or Inf in a particle buffer.
	ErrInvalidState = errors.New("fluid: invalid state (NaN or Inf detected)")
)

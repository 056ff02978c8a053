// Package affector implements the two families of environment-driven
// modifiers the solver supports: collision objects (rigid shapes with
// contact response) and force zones (shapes that inject directional,
// radial, vortex or turbulence forces).
//
// Both are resampled from live world transforms once per frame and
// flattened into fixed-size, 16-byte-aligned records; those records
// and their counts are the only things the solver kernels consume.
// Linear and angular velocity are never authored — they are derived by
// finite-differencing the source entity's pose against the previous
// frame's sample, with Euler wraparound correction.
//
// Coupling is one-directional: particles are pushed by affectors,
// affectors are never displaced by particles.
package affector

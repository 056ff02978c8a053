// Package fluid provides the core primitives shared by the SPH solver
// and its host surfaces:
//
//   - [Pose]: a world-transform snapshot supplied by the host per frame
//   - [PoseSource]: the minimal interface an external entity implements
//     so affectors can track it
//   - error taxonomy for configuration, capacity, and lifecycle faults
//   - [Turbulence]: multi-octave simplex noise used by the turbulence
//     force law
//
// # Thread Safety
//
// Solver instances are NOT thread-safe. Control operations (pause,
// reset, affector mutation) must happen between frames; the only
// synchronization point the solver exposes is the frame boundary.
package fluid

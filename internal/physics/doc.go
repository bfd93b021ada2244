// Package physics is the N-body kernel: gravity, merging and integration
// over a [Population] of [Body] values.
//
//   - [Gravity]: O(n²) pairwise attraction, mutates velocities only
//   - [Collider]: inelastic merges of overlapping bodies
//   - [Euler]: position += velocity
//
// A step runs Euler, then Gravity, then Collider. The kernel never stores
// bodies itself; the population owns them and defers removal until the
// pass that despawned them has finished.
//
// # Conservation
//
// Gravity conserves total momentum and merges conserve mass and momentum,
// up to floating-point rounding:
//
//	before := physics.Momentum(pop)
//	physics.NewGravity(physics.DefaultG).Apply(pop)
//	after := physics.Momentum(pop)
package physics

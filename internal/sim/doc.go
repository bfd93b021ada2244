// Package sim schedules the physics kernel over a world.
//
// One [Simulator.Step] runs, in order:
//
//  1. the integrator (position += velocity)
//  2. gravity (velocities from all pairs)
//  3. the collider (merges, despawning absorbed bodies)
//  4. world flush (purge despawned bodies, notify listeners)
//
// [Simulator.Run] repeats Step, feeding metrics and observers and recording
// aggregate [Sample] rows.
//
// # Thread Safety
//
// Simulator instances are NOT thread-safe. [Ensemble] runs independent
// simulators, each with its own world, in parallel.
package sim

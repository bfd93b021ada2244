// Package viz is the terminal front-end for a running simulation.
//
// It never touches physics state directly: each tick it asks the
// simulator for one step and draws a read-only view of the world.
//
//   - [Model]: Bubble Tea model that steps and renders the world
//   - [Canvas]: Braille-based pixel canvas
//   - [Camera]: perspective projection with rotate, zoom and pan
//
// Per-body trails are keyed by body ID and dropped when the world reports
// the body despawned.
//
// # Key Bindings
//
//	Space     - Pause/Resume
//	N         - Single step while paused
//	R         - Reseed and restart
//	Arrows    - Rotate camera
//	[ ]       - Roll camera
//	W/A/S/D   - Pan camera
//	+/-       - Zoom
//	T         - Toggle trails
//	C         - Cycle color themes
//	?         - Show help overlay
package viz

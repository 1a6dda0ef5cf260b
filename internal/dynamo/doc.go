// Package dynamo provides the shared primitives of the slide simulation.
//
// The package defines the value types exchanged between the terrain,
// force, integration and collision layers:
//
//   - [KinematicState]: position, velocity, orientation and airborne flag of the player
//   - [ControlState]: per-frame steering, braking and paddling input
//   - [Plane]: local ground tangent plane
//   - [Phase]: race phase consulted by the force model
//   - [Table]: piecewise-linear lookup used for tabulated coefficients
//
// Vector math is done with [github.com/go-gl/mathgl/mgl64]; the helpers in
// this package add the few operations the simulation needs with its own
// conventions (angles in degrees, normalizing a zero vector yields zero).
//
// # Thread Safety
//
// All functions are pure. Values are copied, never shared.
package dynamo

// Package physics computes the net force on the sliding player.
//
// The force is the sum of six terms, each a function of the candidate
// position and velocity, the ground under that position and the current
// input:
//
//   - gravity
//   - spring: ground reaction while the body sinks below the terrain depth
//   - friction: opposes motion and carries the steering
//   - drag: tabulated air resistance
//   - brake: player braking, or the deceleration past the finish line
//   - paddle: propulsion while paddling
//
// [Force] is pure. [Model] binds a terrain surface and an [Inputs] value
// so the integrator can sample the ground at every stage.
//
// # Conventions
//
// Angles are degrees. Rotations are right-handed about the given axis.
// The friction direction is the negated unit velocity.
package physics

// Package control turns race observations into per-frame control input.
//
// A [Controller] decides an [Intent] (turn, brake, paddle) each frame:
//
//   - [PID]: lane keeper steering toward a target x position
//   - [Script]: time-scheduled inputs loaded from YAML
//   - [Manual]: a fixed intent set by the caller
//   - [None]: glide without input
//
// A [Mapper] converts intents into the [dynamo.ControlState] read by the
// force model, applying the same hysteresis a keyboard player gets: paddle
// strokes last at least [PaddlingDuration], braking and paddling cancel
// each other, and crossing the finish line forces the brake.
//
// # Usage
//
//	pid := control.NewPID(0.08, 0, 0.02, 0)  // Kp, Ki, Kd, lane offset
//	var m control.Mapper
//	ctrl := m.Update(pid.Decide(obs), obs.Phase, obs.Time)
//
// Controllers implementing [Configurable] support parameter overrides.
package control

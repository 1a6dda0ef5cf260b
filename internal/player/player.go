// Package player owns the sliding body: its kinematic state, the frame
// update around the integrator, and the derived orientation and joint
// transforms handed to a renderer.
package player

import (
	"fmt"
	"maps"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/downhill/internal/collision"
	"github.com/san-kum/downhill/internal/config"
	"github.com/san-kum/downhill/internal/dynamo"
	"github.com/san-kum/downhill/internal/integrators"
	"github.com/san-kum/downhill/internal/physics"
	"github.com/san-kum/downhill/internal/terrain"
)

const (
	// MaxSurfacePenetration bounds how far below the ground plane the body
	// may end a frame.
	MaxSurfacePenetration = 0.2

	// RootHeight lifts the skeleton root above the contact point.
	RootHeight = 0.36
)

// Player is the single simulated actor on a course.
type Player struct {
	course   config.Course
	grid     *terrain.Grid
	stepper  integrators.Stepper
	resolver *collision.Resolver
	inputs   physics.Inputs
	model    *physics.Model

	state        dynamo.KinematicState
	force        mgl64.Vec3
	lastPosition mgl64.Vec3
	finishSpeed  float64
	turnState    float64
	oriented     bool
	joints       map[Joint]mgl64.Mat4
}

// New places a player at the course start. A nil stepper selects the
// adaptive integrator; a nil resolver disables obstacle contact.
func New(course config.Course, grid *terrain.Grid, resolver *collision.Resolver, stepper integrators.Stepper) *Player {
	if stepper == nil {
		stepper = integrators.NewAdaptive()
	}
	if resolver == nil {
		resolver = collision.NewResolver(nil)
	}
	p := &Player{
		course:   course,
		grid:     grid,
		stepper:  stepper,
		resolver: resolver,
		joints:   make(map[Joint]mgl64.Mat4),
	}
	p.model = physics.NewModel(grid, &p.inputs)
	p.Reset()
	return p
}

// Reset returns the player to the start of the course at the initial
// speed, sliding down the fall line.
func (p *Player) Reset() {
	x, z := p.course.StartX, p.course.StartY
	pos := mgl64.Vec3{x, p.grid.HeightAt(x, z), z}

	p.state = dynamo.KinematicState{
		Position:    pos,
		Velocity:    InitialVelocity(p.grid.NormalAt(x, z)),
		Orientation: mgl64.QuatIdent(),
	}
	p.force = mgl64.Vec3{}
	p.lastPosition = pos
	p.finishSpeed = 0
	p.turnState = 0
	p.oriented = false
	clear(p.joints)

	p.inputs = physics.Inputs{
		FinishBrake: p.course.FinishBrake,
		Orientation: mgl64.QuatIdent(),
	}
	p.stepper.Reset()
	p.resolver.Reset()
}

// InitialVelocity turns the ground normal at the start down the slope.
func InitialVelocity(normal mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Rotate3DX(mgl64.DegToRad(-90)).Mul3x1(normal).Mul(physics.InitialSpeed)
}

// Update advances the player by timeStep seconds. now is the simulation
// clock, used for the paddle animation.
func (p *Player) Update(timeStep, now float64, ctrl dynamo.ControlState, phase dynamo.Phase) error {
	clear(p.joints)

	p.inputs.Control = ctrl
	p.inputs.Phase = phase
	p.inputs.FinishSpeed = p.finishSpeed
	p.inputs.Orientation = p.state.Orientation

	if timeStep > 2*dynamo.MachineEpsilon {
		p.solve(timeStep)
	}
	if !p.state.IsValid() {
		return fmt.Errorf("player update: %w", dynamo.ErrInvalidState)
	}

	pos := p.state.Position
	plane := p.grid.PlaneAt(pos[0], pos[2])
	dist := plane.DistanceTo(pos)
	p.state.Airborne = dist > 0

	if p.state.Speed() < physics.MinSpeed {
		dir := dynamo.Normalize(p.state.Velocity)
		if dir == (mgl64.Vec3{}) {
			dir = p.state.Orientation.Rotate(dynamo.YUnit)
		}
		p.state.Velocity = dir.Mul(physics.MinSpeed)
	}

	p.adjustPosition(plane, dist)
	p.adjustOrientation(timeStep, plane, ctrl)
	p.adjustJoints(timeStep, now, ctrl)
	return nil
}

func (p *Player) solve(timeStep float64) {
	airborne := p.state.Airborne
	hook := func(start, end, velocity mgl64.Vec3) mgl64.Vec3 {
		return p.resolver.Deflect(start, end, velocity, airborne)
	}

	out := p.stepper.Advance(p.model, integrators.State{
		Position: p.state.Position,
		Velocity: p.state.Velocity,
		Force:    p.force,
	}, timeStep, hook)

	p.lastPosition = p.state.Position
	p.state.Position = out.Position
	p.state.Velocity = out.Velocity
	p.force = out.Force
}

func (p *Player) adjustPosition(plane dynamo.Plane, dist float64) {
	pos := p.state.Position
	if dist < -MaxSurfacePenetration {
		pos = pos.Add(plane.Normal.Mul(-MaxSurfacePenetration - dist))
	}

	boundary := p.course.BoundaryWidth()
	pos[0] = mgl64.Clamp(pos[0], boundary, p.course.Width-boundary)
	if pos[2] > 0 {
		pos[2] = 0
	}
	p.state.Position = pos
}

func (p *Player) adjustOrientation(timeStep float64, plane dynamo.Plane, ctrl dynamo.ControlState) {
	target := targetFrame(p.state.Velocity, plane, p.state.Airborne, ctrl)
	if !p.oriented {
		p.state.Orientation = target
		p.oriented = true
	}

	tau := GroundTimeConstant
	if p.state.Airborne {
		tau = AirborneTimeConstant
	}
	p.state.Orientation = Orient(p.state.Orientation, target, tau, timeStep)

	pos := p.state.Position
	p.joints[Root] = mgl64.Translate3D(pos[0], pos[1]+RootHeight, pos[2]).Mul4(p.state.Orientation.Mat4())
}

func (p *Player) adjustJoints(timeStep, now float64, ctrl dynamo.ControlState) {
	if ctrl.TurnFactor == 0 {
		p.turnState *= max(0, 1-timeStep/RollDecay)
	} else {
		p.turnState = mgl64.Clamp(p.turnState+ctrl.TurnFactor*2*timeStep, -1, 1)
	}

	paddle := -1.0
	if ctrl.Paddling {
		paddle = now - ctrl.PaddleStartTime
	}
	limbs(pose{
		localForce: p.state.Orientation.Conjugate().Rotate(p.force),
		speed:      p.state.Speed(),
		turn:       p.turnState,
		braking:    ctrl.Braking,
		paddleTime: paddle,
		airborne:   p.state.Airborne,
	}, p.joints)
}

// State returns a copy of the kinematic state.
func (p *Player) State() dynamo.KinematicState { return p.state }

// LastPosition is the position at the start of the latest frame.
func (p *Player) LastPosition() mgl64.Vec3 { return p.lastPosition }

// Force is the net force at the end of the latest frame.
func (p *Player) Force() mgl64.Vec3 { return p.force }

// Terms splits the force at the current state into its contributions.
func (p *Player) Terms() physics.Terms {
	return p.model.Terms(p.state.Position, p.state.Velocity)
}

// Joints returns the joint transforms of the latest frame.
func (p *Player) Joints() map[Joint]mgl64.Mat4 {
	return maps.Clone(p.joints)
}

// SaveFinishSpeed records the current speed as the reference for the
// braking phase.
func (p *Player) SaveFinishSpeed() { p.finishSpeed = p.state.Speed() }

func (p *Player) FinishSpeed() float64 { return p.finishSpeed }

func (p *Player) Stepper() integrators.Stepper { return p.stepper }

func (p *Player) Resolver() *collision.Resolver { return p.resolver }

func (p *Player) Course() config.Course { return p.course }

package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/downhill/internal/dynamo"
)

// Inputs is the per-frame context of the force model. The simulation
// updates it in place between frames; the force model only reads it.
type Inputs struct {
	Control     dynamo.ControlState
	Phase       dynamo.Phase
	FinishSpeed float64
	FinishBrake float64 // grounded brake factor past the finish line
	Orientation mgl64.Quat
}

// Ground is the terrain under a candidate position.
type Ground struct {
	Plane    dynamo.Plane
	Friction float64
	Depth    float64
}

// Terms holds the individual contributions to the net force.
type Terms struct {
	Gravity  mgl64.Vec3
	Spring   mgl64.Vec3
	Friction mgl64.Vec3
	Drag     mgl64.Vec3
	Brake    mgl64.Vec3
	Paddle   mgl64.Vec3
}

func (t Terms) Total() mgl64.Vec3 {
	return t.Gravity.Add(t.Spring).Add(t.Friction).Add(t.Drag).Add(t.Brake).Add(t.Paddle)
}

// Force returns the net force at position moving with velocity.
func Force(position, velocity mgl64.Vec3, in *Inputs, g Ground) mgl64.Vec3 {
	return Compute(position, velocity, in, g).Total()
}

// Compute evaluates every force term.
func Compute(position, velocity mgl64.Vec3, in *Inputs, g Ground) Terms {
	speed := velocity.Len()
	dist := g.Plane.DistanceTo(position)
	airborne := dist > 0

	rollNormal := RollNormal(speed, g.Plane, velocity, g.Friction, in.Control)
	frictionDir := dynamo.Normalize(velocity).Mul(-1)

	spring := SpringForce(dist, g.Depth, velocity, rollNormal)
	return Terms{
		Gravity:  GravityForce,
		Spring:   spring,
		Friction: FrictionForce(g.Friction, frictionDir, speed, spring, g.Plane, airborne, in),
		Drag:     DragForce(velocity),
		Brake:    BrakeForce(speed, g.Friction, frictionDir, airborne, in),
		Paddle:   PaddleForce(speed, airborne, g.Friction, frictionDir, in),
	}
}

// SpringForce is the ground reaction along rollNormal once the body sinks
// deeper than the terrain depth.
func SpringForce(dist, depth float64, velocity, rollNormal mgl64.Vec3) mgl64.Vec3 {
	if dist > -depth {
		return mgl64.Vec3{}
	}
	compression := -dist - depth
	return rollNormal.Mul(springMagnitude(compression, velocity.Dot(rollNormal)))
}

func springMagnitude(compression, springVelocity float64) float64 {
	f := math.Min(compression, SpringSoftLimit) * SpringSoftRate
	f += mgl64.Clamp(compression-SpringSoftLimit, 0, SpringMediumWidth) * SpringMediumRate
	f += math.Max(0, compression-SpringMediumWidth-SpringSoftLimit) * SpringHardRate

	damping := SpringDamping
	if compression <= SpringSoftLimit {
		damping = SpringSoftDamping
	}
	f -= springVelocity * damping

	return mgl64.Clamp(f, 0, MaxSpringForce)
}

// FrictionForce opposes motion on the ground and, rotated by the turn
// input about the ground normal, steers. It also applies in the air while
// braking past the finish line.
func FrictionForce(friction float64, frictionDir mgl64.Vec3, speed float64, spring mgl64.Vec3, plane dynamo.Plane, airborne bool, in *Inputs) mgl64.Vec3 {
	if !((!airborne && speed > MinFrictionSpeed) || in.Phase == dynamo.PhaseBraking) {
		return mgl64.Vec3{}
	}

	magnitude := math.Min(spring.Len()*friction, MaxFrictionForce)
	f := frictionDir.Mul(magnitude)

	turn := in.Control.TurnFactor
	steering := turn * MaxTurnAngle
	if math.Abs(magnitude*math.Sin(mgl64.DegToRad(steering))) > MaxTurnPerp {
		steering = mgl64.RadToDeg(math.Asin(MaxTurnPerp/magnitude)) * math.Copysign(1, turn)
	}

	f = dynamo.RotateAround(f, plane.Normal, steering)
	return f.Mul(1 + MaxTurnPenalty)
}

// BrakeForce is the player's brake while racing, or the deceleration
// proportional to the finish speed once past the finish line.
func BrakeForce(speed, friction float64, frictionDir mgl64.Vec3, airborne bool, in *Inputs) mgl64.Vec3 {
	if in.Phase != dynamo.PhaseBraking {
		if in.Control.Braking && !airborne && speed > MinFrictionSpeed && speed > MinSpeed {
			return frictionDir.Mul(BrakeStrength + friction)
		}
		return mgl64.Vec3{}
	}

	factor := in.FinishBrake
	if airborne {
		factor = FinishAirBrake
	}
	return frictionDir.Mul(in.FinishSpeed * factor)
}

// PaddleForce pushes along the velocity on the ground, fading out towards
// MaxPaddleSpeed and on slippery terrain. In the air it acts along the
// body's -z axis.
func PaddleForce(speed float64, airborne bool, friction float64, frictionDir mgl64.Vec3, in *Inputs) mgl64.Vec3 {
	if !in.Control.Paddling {
		return mgl64.Vec3{}
	}
	if airborne {
		return in.Orientation.Rotate(AirbornePaddleForce)
	}

	factor := -math.Min(
		MaxPaddleForce,
		MaxPaddleForce*(MaxPaddleSpeed-speed)/MaxPaddleSpeed*math.Min(1, friction/IdealPaddleFriction),
	)
	return frictionDir.Mul(factor)
}

// RollNormal tilts the ground normal about the direction of travel when
// turning, so the spring pushes the body into the turn.
func RollNormal(speed float64, plane dynamo.Plane, velocity mgl64.Vec3, friction float64, ctrl dynamo.ControlState) mgl64.Vec3 {
	axis := dynamo.Normalize(plane.Project(velocity))

	roll := MaxRollAngle
	if ctrl.Braking {
		roll = BrakingRollAngle
	}
	angle := ctrl.TurnFactor * roll *
		math.Min(1, math.Max(0, friction)/IdealRollFriction) *
		math.Min(1, math.Max(0, speed-MinSpeed)/(IdealRollSpeed-MinSpeed))

	return dynamo.RotateAround(plane.Normal, axis, angle)
}

package player

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/downhill/internal/dynamo"
	"github.com/san-kum/downhill/internal/physics"
)

// Orientation filter time constants in seconds.
const (
	AirborneTimeConstant = 0.5
	GroundTimeConstant   = 0.14
)

// Orient moves current toward target as a first-order filter with the
// given time constant. The shorter arc is taken.
func Orient(current, target mgl64.Quat, timeConstant, dt float64) mgl64.Quat {
	t := 1.0
	if timeConstant > 0 {
		t = math.Min(dt/timeConstant, 1)
	}
	if t <= 0 {
		return current
	}
	if current.Dot(target) < 0 {
		target = target.Scale(-1)
	}
	if t >= 1 {
		return target.Normalize()
	}
	return mgl64.QuatSlerp(current, target, t)
}

// Frame returns the orientation whose body axes map to x, y and z.
func Frame(x, y, z mgl64.Vec3) mgl64.Quat {
	return mgl64.Mat4ToQuat(mgl64.Mat3FromCols(x, y, z).Mat4()).Normalize()
}

// targetFrame is the orientation the body relaxes toward. Body y follows
// the direction of travel and body z points into the ground, tilted by the
// roll of the current turn.
func targetFrame(velocity mgl64.Vec3, plane dynamo.Plane, airborne bool, ctrl dynamo.ControlState) mgl64.Quat {
	var y, z mgl64.Vec3
	if airborne {
		y = dynamo.Normalize(velocity)
		z = dynamo.Normalize(dynamo.ProjectToPlane(y, mgl64.Vec3{0, -1, 0}))
		z = rollVector(z, velocity, ctrl)
	} else {
		z = rollVector(plane.Normal.Mul(-1), velocity, ctrl)
		y = dynamo.Normalize(plane.Project(velocity))
	}
	return Frame(y.Cross(z), y, z)
}

func rollVector(z, velocity mgl64.Vec3, ctrl dynamo.ControlState) mgl64.Vec3 {
	axis := dynamo.Normalize(dynamo.ProjectToPlane(z, velocity))
	roll := physics.MaxRollAngle
	if ctrl.Braking {
		roll = physics.BrakingRollAngle
	}
	return dynamo.RotateAround(z, axis, ctrl.TurnFactor*roll)
}

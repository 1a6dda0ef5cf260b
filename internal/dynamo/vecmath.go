package dynamo

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

var (
	XUnit = mgl64.Vec3{1, 0, 0}
	YUnit = mgl64.Vec3{0, 1, 0}
	ZUnit = mgl64.Vec3{0, 0, 1}
)

// MachineEpsilon is the spacing of float64 values around 1.
const MachineEpsilon = 0x1p-52

// Normalize returns v scaled to unit length, or the zero vector when v has
// zero length.
func Normalize(v mgl64.Vec3) mgl64.Vec3 {
	l := v.Len()
	if l == 0 {
		return mgl64.Vec3{}
	}
	return v.Mul(1 / l)
}

// ProjectToPlane removes the component of v along normal.
func ProjectToPlane(normal, v mgl64.Vec3) mgl64.Vec3 {
	return v.Sub(normal.Mul(normal.Dot(v)))
}

// RotateAround rotates v by degrees about axis (right-handed). A zero axis
// leaves only the cosine term, matching the matrix form of the rotation.
func RotateAround(v, axis mgl64.Vec3, degrees float64) mgl64.Vec3 {
	sin, cos := math.Sincos(mgl64.DegToRad(degrees))
	return v.Mul(cos).
		Add(axis.Cross(v).Mul(sin)).
		Add(axis.Mul(axis.Dot(v) * (1 - cos)))
}

// Horizontal drops the y component.
func Horizontal(v mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v[0], 0, v[2]}
}

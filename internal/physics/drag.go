package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/downhill/internal/dynamo"
)

var dragTable = dynamo.NewTable(airLogReynolds, airLogDragCoefficient)

// DragCoefficient looks up the drag coefficient for a Reynolds number in
// log-log space.
func DragCoefficient(reynolds float64) float64 {
	return math.Pow(10, dragTable.At(math.Log10(reynolds)))
}

// DragForce is the air resistance at velocity. It is zero at rest.
func DragForce(velocity mgl64.Vec3) mgl64.Vec3 {
	speed := velocity.Len()
	if speed == 0 {
		return mgl64.Vec3{}
	}
	cd := DragCoefficient(ReynoldsScaling * speed)
	return velocity.Mul(-AirFactor * cd * speed)
}

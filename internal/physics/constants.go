package physics

import "github.com/go-gl/mathgl/mgl64"

const (
	Mass    = 20.0
	Gravity = 9.81

	MinSpeed     = 1.4
	InitialSpeed = 3.0

	BrakingRollAngle  = 55.0
	MaxRollAngle      = 30.0
	IdealRollSpeed    = 6.0
	IdealRollFriction = 0.35

	MaxPaddleForce      = 122.5
	MaxPaddleSpeed      = 60 / 3.6
	IdealPaddleFriction = 0.35

	MinFrictionSpeed = 2.8
	MaxFrictionForce = 800.0
	MaxTurnAngle     = 45.0
	MaxTurnPerp      = 400.0
	MaxTurnPenalty   = 0.15

	BrakeStrength  = 200.0
	FinishAirBrake = 20.0

	ReynoldsScaling = 34600.0
	AirFactor       = 0.104
)

// Spring bands: the reaction stiffens as the compression passes each
// threshold.
const (
	SpringSoftLimit   = 0.05
	SpringMediumWidth = 0.12
	SpringSoftRate    = 1500.0
	SpringMediumRate  = 3000.0
	SpringHardRate    = 10000.0
	SpringSoftDamping = 1500.0
	SpringDamping     = 500.0
	MaxSpringForce    = 3000.0
)

var (
	GravityForce          = mgl64.Vec3{0, -Gravity * Mass, 0}
	AirbornePaddleForce   = mgl64.Vec3{0, 0, -Mass * Gravity / 4}
	airLogReynolds        = []float64{-1, 0, 1, 2, 3, 4, 5, 6}
	airLogDragCoefficient = []float64{2.25, 1.35, 0.6, 0, -0.35, -0.45, -0.33, -0.9}
)

package player

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Joint names a transform of the character skeleton.
type Joint int

const (
	Root Joint = iota
	LeftShoulder
	RightShoulder
	LeftHip
	RightHip
	LeftKnee
	RightKnee
	LeftAnkle
	RightAnkle
	Tail
	Neck
	Head
)

var jointNames = [...]string{
	Root:          "root",
	LeftShoulder:  "left_shoulder",
	RightShoulder: "right_shoulder",
	LeftHip:       "left_hip",
	RightHip:      "right_hip",
	LeftKnee:      "left_knee",
	RightKnee:     "right_knee",
	LeftAnkle:     "left_ankle",
	RightAnkle:    "right_ankle",
	Tail:          "tail",
	Neck:          "neck",
	Head:          "head",
}

func (j Joint) String() string {
	if j < 0 || int(j) >= len(jointNames) {
		return "unknown"
	}
	return jointNames[j]
}

// Pose angles in degrees.
const (
	MaxArmAngle          = 30.0
	MaxPaddlingAngle     = 35.0
	MaxExtPaddlingAngle  = 30.0
	MaxKickPaddlingAngle = 20.0
	PaddlingDuration     = 0.4
	RollDecay            = 0.2
)

// pose is the per-frame input of the joint transforms.
type pose struct {
	localForce mgl64.Vec3 // net force in body coordinates
	speed      float64
	turn       float64 // turn animation state in [-1, 1]
	braking    bool
	paddleTime float64 // seconds into the paddle stroke, < 0 when not paddling
	airborne   bool
}

func rotZ(deg float64) mgl64.Mat4 { return mgl64.HomogRotate3DZ(mgl64.DegToRad(deg)) }
func rotY(deg float64) mgl64.Mat4 { return mgl64.HomogRotate3DY(mgl64.DegToRad(deg)) }

// limbs computes every joint except Root.
func limbs(p pose, joints map[Joint]mgl64.Mat4) {
	var flap, paddling float64
	if p.paddleTime >= 0 {
		factor := p.paddleTime / PaddlingDuration
		if p.airborne {
			flap = factor
		} else {
			paddling = factor
		}
	}

	braking := 0.0
	if p.braking {
		braking = MaxArmAngle
	}

	paddleAngle := MaxPaddlingAngle * math.Sin(paddling*math.Pi)
	extPaddleAngle := MaxExtPaddlingAngle * math.Sin(paddling*math.Pi)
	kickAngle := MaxKickPaddlingAngle * math.Sin(paddling*2*math.Pi)

	turnLeft := math.Max(-p.turn, 0) * MaxArmAngle
	turnRight := math.Max(p.turn, 0) * MaxArmAngle

	flapAngle := MaxArmAngle * (0.5 + 0.5*math.Sin(math.Pi*flap*6-math.Pi/2))
	forceAngle := mgl64.Clamp(-p.localForce[2]/300, -20, 20)
	turnLeg := p.turn * 10

	joints[LeftShoulder] = rotZ(math.Min(braking+paddleAngle+turnLeft, MaxArmAngle) + flapAngle).Mul4(rotY(-extPaddleAngle))
	joints[RightShoulder] = rotZ(math.Min(braking+paddleAngle+turnRight, MaxArmAngle) + flapAngle).Mul4(rotY(extPaddleAngle))

	joints[LeftHip] = rotZ(-20 + turnLeg + forceAngle)
	joints[RightHip] = rotZ(-20 - turnLeg + forceAngle)

	knee := -10 - math.Min(35, p.speed) + forceAngle
	joints[LeftKnee] = rotZ(knee + turnLeg + kickAngle)
	joints[RightKnee] = rotZ(knee - turnLeg - kickAngle)

	ankle := rotZ(-20 + math.Min(50, p.speed))
	joints[LeftAnkle] = ankle
	joints[RightAnkle] = ankle

	joints[Tail] = rotZ(p.turn * 20)
	joints[Neck] = rotZ(-50)
	joints[Head] = rotZ(-30).Mul4(rotY(-p.turn * 70))
}

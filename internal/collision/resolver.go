package collision

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/downhill/internal/dynamo"
	"github.com/san-kum/downhill/internal/physics"
)

const (
	GroundDeflection   = 1.5
	AirborneDeflection = 0.5
	SpeedRetention     = 0.8
)

// Resolver deflects the player off obstacles. It remembers the obstacle
// of the previous sub-step so a body that stays in contact is only
// deflected once.
type Resolver struct {
	field   *Field
	lastHit *Obstacle

	// OnHit, if set, is called once per new contact with the incoming
	// velocity.
	OnHit func(o *Obstacle, velocity mgl64.Vec3)
}

func NewResolver(field *Field) *Resolver {
	return &Resolver{field: field}
}

func (r *Resolver) LastHit() *Obstacle { return r.lastHit }

func (r *Resolver) Reset() { r.lastHit = nil }

// Deflect returns the velocity after moving from start to end.
func (r *Resolver) Deflect(start, end, velocity mgl64.Vec3, airborne bool) mgl64.Vec3 {
	if r.field == nil {
		return velocity
	}
	hit := r.field.FindColliding(start, end)
	if hit == nil {
		r.lastHit = nil
		return velocity
	}
	if hit == r.lastHit {
		return velocity
	}
	r.lastHit = hit
	if r.OnHit != nil {
		r.OnHit(hit, velocity)
	}

	normal := dynamo.Normalize(dynamo.Horizontal(end.Sub(hit.Position)))
	dir := dynamo.Normalize(velocity)
	if cos := dir.Dot(normal); cos < 0 {
		k := GroundDeflection
		if airborne {
			k = AirborneDeflection
		}
		dir = dynamo.Normalize(dir.Sub(normal.Mul(k * cos)))
	}

	speed := math.Max(velocity.Len()*SpeedRetention, physics.MinSpeed)
	return dir.Mul(speed)
}

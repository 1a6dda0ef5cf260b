// Package terrain stores the course heightfield and answers continuous
// spatial queries over it.
//
// The grid is split into triangles along a diagonal whose orientation
// alternates with cell parity. Every query localizes the enclosing triangle
// and interpolates vertex data with barycentric weights.
package terrain

import (
	"fmt"

	"github.com/san-kum/downhill/internal/dynamo"
)

// Kind classifies the ground material.
type Kind int

const (
	Ice Kind = iota
	Rock
	Snow
)

func (k Kind) String() string {
	switch k {
	case Ice:
		return "ice"
	case Rock:
		return "rock"
	case Snow:
		return "snow"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind is the inverse of Kind.String.
func ParseKind(name string) (Kind, error) {
	for _, k := range []Kind{Ice, Rock, Snow} {
		if k.String() == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("terrain: unknown kind %q", name)
}

// Terrain holds the material properties shared by all vertices of a kind.
// The three terrains are package singletons compared by identity, so their
// properties are read-only.
type Terrain struct {
	kind       Kind
	friction   float64
	depth      float64
	trackMarks bool
}

func (t *Terrain) Kind() Kind        { return t.kind }
func (t *Terrain) Friction() float64 { return t.friction }
func (t *Terrain) Depth() float64    { return t.depth }
func (t *Terrain) TrackMarks() bool  { return t.trackMarks }

var (
	iceTerrain  = Terrain{kind: Ice, friction: 0.2, depth: 0.03}
	rockTerrain = Terrain{kind: Rock, friction: 0.7, depth: 0.01}
	snowTerrain = Terrain{kind: Snow, friction: 0.35, depth: 0.11, trackMarks: true}
)

// Lookup returns the shared terrain for a kind.
func Lookup(k Kind) *Terrain {
	switch k {
	case Ice:
		return &iceTerrain
	case Snow:
		return &snowTerrain
	default:
		return &rockTerrain
	}
}

// Red channel thresholds of the terrain map.
const (
	iceMaxRed  = 45
	snowMinRed = 205
)

// FromColor maps a packed 0xRRGGBB terrain map pixel to its terrain.
func FromColor(color int) (*Terrain, error) {
	if color < 0 || color > 0xffffff {
		return nil, fmt.Errorf("%w: %#x", dynamo.ErrUnknownTerrainColor, color)
	}
	r := (color >> 16) & 0xff
	switch {
	case r < iceMaxRed:
		return &iceTerrain, nil
	case r > snowMinRed:
		return &snowTerrain, nil
	default:
		return &rockTerrain, nil
	}
}

// Package collision detects and resolves contact between the player and
// course obstacles.
//
// Detection is a broad phase over an XZ rectangle followed by a narrow
// phase that samples the movement segment. Resolution deflects the
// velocity away from the obstacle and costs speed.
package collision

import (
	"fmt"
	"sort"

	"github.com/san-kum/downhill/internal/dynamo"
)

// Kind describes a class of obstacle. CollisionDiameter scales an
// obstacle's visual diameter to the diameter used for contact.
type Kind struct {
	Name              string
	CollisionDiameter float64
	HasCollision      bool
	Collectable       bool
}

var (
	Shrub      = &Kind{Name: "SHRUB", CollisionDiameter: 0.6, HasCollision: true}
	Tree       = &Kind{Name: "TREE", CollisionDiameter: 0.4, HasCollision: true}
	Flag       = &Kind{Name: "FLAG"}
	Herring    = &Kind{Name: "HERRING", CollisionDiameter: 1.5, Collectable: true}
	TreeBarren = &Kind{Name: "TREE_BARREN", CollisionDiameter: 0.4, HasCollision: true}
	Start      = &Kind{Name: "START"}
	Finish     = &Kind{Name: "FINISH"}
)

var kinds = map[string]*Kind{
	Shrub.Name:      Shrub,
	Tree.Name:       Tree,
	Flag.Name:       Flag,
	Herring.Name:    Herring,
	TreeBarren.Name: TreeBarren,
	Start.Name:      Start,
	Finish.Name:     Finish,
}

// LookupKind resolves a kind by its record name.
func LookupKind(name string) (*Kind, error) {
	k, ok := kinds[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", dynamo.ErrUnknownObstacleKind, name)
	}
	return k, nil
}

func KindNames() []string {
	names := make([]string, 0, len(kinds))
	for name := range kinds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

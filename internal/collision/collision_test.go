package collision

import (
	"errors"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/downhill/internal/dynamo"
	"github.com/san-kum/downhill/internal/physics"
	"github.com/san-kum/downhill/internal/terrain"
)

// post has a collision diameter equal to its visual diameter.
var post = &Kind{Name: "POST", CollisionDiameter: 1, HasCollision: true}

var _ = Describe("Kinds", func() {
	It("resolves record names", func() {
		k, err := LookupKind("TREE_BARREN")
		Expect(err).NotTo(HaveOccurred())
		Expect(k).To(BeIdenticalTo(TreeBarren))
		Expect(KindNames()).To(HaveLen(7))
	})

	It("rejects unknown names", func() {
		_, err := LookupKind("SNOWMAN")
		Expect(errors.Is(err, dynamo.ErrUnknownObstacleKind)).To(BeTrue())
	})

	It("partitions roles", func() {
		Expect(Shrub.HasCollision).To(BeTrue())
		Expect(Herring.HasCollision).To(BeFalse())
		Expect(Herring.Collectable).To(BeTrue())
		Expect(Flag.HasCollision || Flag.Collectable).To(BeFalse())
	})
})

var _ = Describe("Obstacle", func() {
	var o *Obstacle

	BeforeEach(func() {
		o = NewObstacle(post, mgl64.Vec3{0, 0, -5}, 2, 1)
	})

	It("derives the collision radius from the kind", func() {
		Expect(o.CollisionRadius).To(Equal(0.5))
		Expect(NewObstacle(Tree, mgl64.Vec3{}, 3, 1).CollisionRadius).To(BeNumerically("~", 0.2, 1e-12))
	})

	It("uses a strict circular footprint", func() {
		Expect(o.Contains(mgl64.Vec3{0.3, 0, -5.3})).To(BeTrue())
		Expect(o.Contains(mgl64.Vec3{0.4, 0, -5.4})).To(BeFalse())
		Expect(o.Contains(mgl64.Vec3{0.5, 0, -5})).To(BeFalse())
	})

	It("can be jumped over", func() {
		Expect(o.Contains(mgl64.Vec3{0, 1.9, -5})).To(BeTrue())
		Expect(o.Contains(mgl64.Vec3{0, 2, -5})).To(BeFalse())
	})

	It("finds hits between the segment ends", func() {
		Expect(o.HitsSegment(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0, 0, -10})).To(BeTrue())
	})

	It("misses a tangent path", func() {
		Expect(o.HitsSegment(mgl64.Vec3{0.5, 0, 0}, mgl64.Vec3{0.5, 0, -10})).To(BeFalse())
	})

	It("ignores short segments that end outside", func() {
		Expect(o.HitsSegment(mgl64.Vec3{0, 0, -4}, mgl64.Vec3{0, 0, -4.4})).To(BeFalse())
	})

	It("never samples zero sized obstacles", func() {
		flag := NewObstacle(Flag, mgl64.Vec3{0, 0, -5}, 2, 1)
		Expect(flag.HitsSegment(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0, 0, -10})).To(BeFalse())
	})
})

var _ = Describe("Field", func() {
	var (
		tree, flag, fish *Obstacle
		field            *Field
	)

	BeforeEach(func() {
		tree = NewObstacle(post, mgl64.Vec3{0, 0, -5}, 2, 1)
		flag = NewObstacle(Flag, mgl64.Vec3{0, 0, -7}, 2, 1)
		fish = NewObstacle(Herring, mgl64.Vec3{3, 0, -5}, 0.5, 1)
		field = NewField([]*Obstacle{tree, flag, fish})
	})

	It("only reports solid obstacles", func() {
		Expect(field.FindColliding(mgl64.Vec3{0, 0, -4.2}, mgl64.Vec3{0, 0, -4.7})).To(BeIdenticalTo(tree))
		Expect(field.FindColliding(mgl64.Vec3{0, 0, -6.8}, mgl64.Vec3{0, 0, -7})).To(BeNil())
		Expect(field.FindColliding(mgl64.Vec3{3, 0, -4.8}, mgl64.Vec3{3, 0, -5})).To(BeNil())
	})

	It("collects each item once", func() {
		Expect(field.Remaining()).To(Equal(1))
		Expect(field.Collect(mgl64.Vec3{3.5, 0, -4}, mgl64.Vec3{3.5, 0, -6})).To(Equal(1))
		Expect(fish.Collected).To(BeTrue())
		Expect(field.Collect(mgl64.Vec3{3.5, 0, -4}, mgl64.Vec3{3.5, 0, -6})).To(Equal(0))
		Expect(field.Remaining()).To(Equal(0))

		field.Reset()
		Expect(field.Remaining()).To(Equal(1))
	})

	It("does not collect out of reach", func() {
		Expect(field.Collect(mgl64.Vec3{5, 0, -4}, mgl64.Vec3{5, 0, -6})).To(Equal(0))
	})

	It("catches fast segments through the obstacle", func() {
		Expect(field.FindColliding(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0, 0, -10})).To(BeIdenticalTo(tree))
	})
})

var _ = Describe("Resolver", func() {
	var (
		tree     *Obstacle
		resolver *Resolver
		hits     int
	)

	BeforeEach(func() {
		tree = NewObstacle(post, mgl64.Vec3{0, 0, -5}, 2, 1)
		resolver = NewResolver(NewField([]*Obstacle{tree}))
		hits = 0
		resolver.OnHit = func(o *Obstacle, v mgl64.Vec3) { hits++ }
	})

	It("passes velocity through without contact", func() {
		v := mgl64.Vec3{0, 0, -10}
		Expect(resolver.Deflect(mgl64.Vec3{2, 0, 0}, mgl64.Vec3{2, 0, -1}, v, false)).To(Equal(v))
		Expect(resolver.LastHit()).To(BeNil())
		Expect(hits).To(Equal(0))
	})

	It("reflects a head-on hit", func() {
		v := resolver.Deflect(mgl64.Vec3{0, 0, -4}, mgl64.Vec3{0, 0, -4.6}, mgl64.Vec3{0, 0, -10}, false)
		Expect(v.Sub(mgl64.Vec3{0, 0, 8}).Len()).To(BeNumerically("<", 1e-9), "got %v", v)
		Expect(resolver.LastHit()).To(BeIdenticalTo(tree))
		Expect(hits).To(Equal(1))
	})

	It("turns an oblique hit away from the obstacle", func() {
		end := mgl64.Vec3{0.2, 0, -4.6}
		in := mgl64.Vec3{5, 0, -5}
		out := resolver.Deflect(mgl64.Vec3{0, 0, -4.3}, end, in, false)

		normal := dynamo.Normalize(dynamo.Horizontal(end.Sub(tree.Position)))
		Expect(out.Dot(normal)).To(BeNumerically(">=", 0))
		Expect(out.Len()).To(BeNumerically("~", 0.8*in.Len(), 1e-9))
	})

	It("deflects less in the air", func() {
		end := mgl64.Vec3{0.2, 0, -4.6}
		in := mgl64.Vec3{5, 0, -5}
		normal := dynamo.Normalize(dynamo.Horizontal(end.Sub(tree.Position)))

		ground := resolver.Deflect(mgl64.Vec3{0, 0, -4.3}, end, in, false)
		resolver.Reset()
		air := resolver.Deflect(mgl64.Vec3{0, 0, -4.3}, end, in, true)

		Expect(air.Dot(normal)).To(BeNumerically("<", ground.Dot(normal)))
	})

	It("keeps a minimum speed", func() {
		v := resolver.Deflect(mgl64.Vec3{0, 0, -4.5}, mgl64.Vec3{0, 0, -4.6}, mgl64.Vec3{0, 0, -1}, false)
		Expect(v.Len()).To(BeNumerically("~", physics.MinSpeed, 1e-12))
	})

	It("deflects once per contact", func() {
		start, end := mgl64.Vec3{0, 0, -4}, mgl64.Vec3{0, 0, -4.6}
		first := resolver.Deflect(start, end, mgl64.Vec3{0, 0, -10}, false)

		same := resolver.Deflect(end, end.Add(mgl64.Vec3{0, 0, 0.05}), first, false)
		Expect(same).To(Equal(first))
		Expect(hits).To(Equal(1))

		By("leaving the obstacle for one sub-step")
		resolver.Deflect(mgl64.Vec3{0, 0, -3}, mgl64.Vec3{0, 0, -3.1}, first, false)
		Expect(resolver.LastHit()).To(BeNil())

		resolver.Deflect(start, end, mgl64.Vec3{0, 0, -10}, false)
		Expect(hits).To(Equal(2))
	})

	It("tolerates a missing field", func() {
		r := NewResolver(nil)
		v := mgl64.Vec3{1, 2, 3}
		Expect(r.Deflect(mgl64.Vec3{}, mgl64.Vec3{0, 0, -5}, v, false)).To(Equal(v))
	})
})

var _ = Describe("Place", func() {
	var grid *terrain.Grid

	BeforeEach(func() {
		points := make([]terrain.GridPoint, 9)
		for i := range points {
			x, y := i%3, i/3
			points[i] = terrain.GridPoint{
				Position: mgl64.Vec3{float64(x), 1 - 0.5*float64(y), -float64(y)},
				Terrain:  terrain.Lookup(terrain.Snow),
			}
		}
		var err error
		grid, err = terrain.NewGrid(3, 3, 2, 2, points)
		Expect(err).NotTo(HaveOccurred())
	})

	It("maps grid records onto the terrain", func() {
		obstacles, err := Place([]Record{
			{Type: "TREE", X: 3, Z: 3, Height: 4, Diameter: 2},
			{Type: "HERRING", X: 1, Z: 1, Height: 0.3, Diameter: 0.5},
			{Type: "SHRUB", X: 2, Z: 2, Height: 1, Diameter: 1},
		}, grid)
		Expect(err).NotTo(HaveOccurred())
		Expect(obstacles).To(HaveLen(3))

		Expect(obstacles[0].Position.Sub(mgl64.Vec3{0, 1, 0}).Len()).To(BeNumerically("<", 1e-12))
		Expect(obstacles[1].Position.Sub(mgl64.Vec3{2, 0, -2}).Len()).To(BeNumerically("<", 1e-12))
		Expect(obstacles[2].Position.Sub(mgl64.Vec3{1, 0.5, -1}).Len()).To(BeNumerically("<", 1e-12))
		Expect(obstacles[0].CollisionRadius).To(BeNumerically("~", 0.4, 1e-12))
	})

	It("fails on unknown kinds", func() {
		_, err := Place([]Record{{Type: "YETI"}}, grid)
		Expect(errors.Is(err, dynamo.ErrUnknownObstacleKind)).To(BeTrue())
	})
})

package physics_test

import (
	"math"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/planetsim/internal/physics"
	"github.com/san-kum/planetsim/internal/world"
)

const tol = 1e-12

// pairCounter wraps a population and records every pair it hands out.
type pairCounter struct {
	physics.Population
	seen map[[2]physics.ID]int
}

func newPairCounter(p physics.Population) *pairCounter {
	return &pairCounter{Population: p, seen: make(map[[2]physics.ID]int)}
}

func (c *pairCounter) EachPair(fn func(a, b physics.ID, ba, bb *physics.Body)) {
	c.Population.EachPair(func(a, b physics.ID, ba, bb *physics.Body) {
		c.seen[[2]physics.ID{a, b}]++
		fn(a, b, ba, bb)
	})
}

// scatter spawns n bodies spaced far enough apart never to overlap.
func scatter(w *world.World, n int, rng *rand.Rand) {
	for i := 0; i < n; i++ {
		w.Spawn(physics.Body{
			Position: physics.Vec3{X: float64(i) * 10, Y: rng.Float64(), Z: rng.Float64()},
			Velocity: physics.Vec3{X: rng.Float64() - 0.5, Y: rng.Float64() - 0.5, Z: rng.Float64() - 0.5},
			Mass:     0.1 + rng.Float64(),
		})
	}
}

func expectVec(got, want physics.Vec3, eps float64) {
	ExpectWithOffset(1, got.X).To(BeNumerically("~", want.X, eps))
	ExpectWithOffset(1, got.Y).To(BeNumerically("~", want.Y, eps))
	ExpectWithOffset(1, got.Z).To(BeNumerically("~", want.Z, eps))
}

var _ = Describe("Body", func() {
	It("derives radius as the cube root of mass", func() {
		for _, m := range []float64{1e-8, 0.001, 1, 8, 27, 1234.5} {
			b := physics.Body{Mass: m}
			Expect(b.Radius()).To(Equal(math.Cbrt(m)))
		}
	})

	It("keeps radius consistent after absorbing", func() {
		a := physics.Body{Mass: 2}
		b := physics.Body{Mass: 6}
		a.Absorb(&b)
		Expect(a.Mass).To(Equal(8.0))
		Expect(a.Radius()).To(Equal(math.Cbrt(8.0)))
	})

	It("places an equal-mass merge at the midpoint", func() {
		p1 := physics.Vec3{X: 1, Y: -2, Z: 3}
		p2 := physics.Vec3{X: 5, Y: 4, Z: -1}
		a := physics.Body{Position: p1, Mass: 1}
		b := physics.Body{Position: p2, Mass: 1}
		a.Absorb(&b)
		Expect(a.Position).To(Equal(p1.Add(p2).Scale(0.5)))
	})

	It("conserves momentum and keeps the absorber's appearance", func() {
		a := physics.Body{Velocity: physics.Vec3{X: 1}, Mass: 1}
		a.Appearance.R = 200
		b := physics.Body{Velocity: physics.Vec3{Y: 2}, Mass: 3}
		b.Appearance.G = 100

		before := a.Momentum().Add(b.Momentum())
		a.Absorb(&b)

		expectVec(a.Momentum(), before, tol)
		Expect(a.Appearance.R).To(Equal(uint8(200)))
		Expect(a.Appearance.G).To(Equal(uint8(0)))
	})

	It("rejects non-finite or massless bodies", func() {
		Expect((&physics.Body{Mass: 1}).IsValid()).To(BeTrue())
		Expect((&physics.Body{Mass: 0}).IsValid()).To(BeFalse())
		Expect((&physics.Body{Mass: math.NaN()}).IsValid()).To(BeFalse())
		Expect((&physics.Body{Mass: 1, Position: physics.Vec3{Z: math.Inf(-1)}}).IsValid()).To(BeFalse())
		Expect((&physics.Body{Mass: 1, Velocity: physics.Vec3{X: math.NaN()}}).IsValid()).To(BeFalse())
	})
})

var _ = Describe("Gravity", func() {
	var (
		w *world.World
		g *physics.Gravity
	)

	BeforeEach(func() {
		w = world.New()
		g = physics.NewGravity(physics.DefaultG)
	})

	It("pulls two unit masses together with magnitude G/d²", func() {
		a := w.Spawn(physics.Body{Mass: 1})
		b := w.Spawn(physics.Body{Mass: 1, Position: physics.Vec3{X: 10}})

		g.Apply(w)

		ba, _ := w.Get(a)
		bb, _ := w.Get(b)
		Expect(ba.Velocity.X).To(BeNumerically("~", 0.00007, 1e-18))
		Expect(bb.Velocity.X).To(BeNumerically("~", -0.00007, 1e-18))
		Expect(ba.Velocity.X).To(Equal(-bb.Velocity.X))
		Expect(ba.Velocity.Y).To(BeZero())
		Expect(ba.Velocity.Z).To(BeZero())
		Expect(ba.Position).To(Equal(physics.Vec3{}))
		Expect(bb.Position).To(Equal(physics.Vec3{X: 10}))
	})

	It("scales each impulse by the partner's mass", func() {
		a := w.Spawn(physics.Body{Mass: 1})
		b := w.Spawn(physics.Body{Mass: 4, Position: physics.Vec3{Y: 2}})

		g.Apply(w)

		ba, _ := w.Get(a)
		bb, _ := w.Get(b)
		Expect(ba.Velocity.Y).To(BeNumerically("~", physics.DefaultG*4/4, tol))
		Expect(bb.Velocity.Y).To(BeNumerically("~", -physics.DefaultG*1/4, tol))
	})

	It("visits every unordered pair exactly once", func() {
		scatter(w, 9, rand.New(rand.NewSource(1)))
		counter := newPairCounter(w)

		g.Apply(counter)

		Expect(g.Pairs()).To(Equal(9 * 8 / 2))
		Expect(counter.seen).To(HaveLen(9 * 8 / 2))
		for pair, n := range counter.seen {
			Expect(n).To(Equal(1))
			Expect(pair[0]).To(BeNumerically("<", pair[1]))
		}
	})

	It("conserves total momentum", func() {
		scatter(w, 25, rand.New(rand.NewSource(2)))
		before := physics.Momentum(w)

		g.Apply(w)

		expectVec(physics.Momentum(w), before, tol)
	})

	It("never moves a body", func() {
		scatter(w, 5, rand.New(rand.NewSource(3)))
		before := w.Snapshot()

		g.Apply(w)

		for i, e := range w.Snapshot() {
			Expect(e.Body.Position).To(Equal(before[i].Body.Position))
		}
	})

	It("skips coincident bodies instead of producing Inf", func() {
		a := w.Spawn(physics.Body{Mass: 1, Position: physics.Vec3{X: 3}})
		b := w.Spawn(physics.Body{Mass: 2, Position: physics.Vec3{X: 3}})

		g.Apply(w)

		ba, _ := w.Get(a)
		bb, _ := w.Get(b)
		Expect(ba.Velocity).To(Equal(physics.Vec3{}))
		Expect(bb.Velocity).To(Equal(physics.Vec3{}))
		Expect(g.Pairs()).To(Equal(1))
	})

	It("is a no-op for a single body", func() {
		id := w.Spawn(physics.Body{Mass: 1, Velocity: physics.Vec3{X: 0.5}})
		g.Apply(w)

		b, _ := w.Get(id)
		Expect(b.Velocity).To(Equal(physics.Vec3{X: 0.5}))
		Expect(g.Pairs()).To(BeZero())
	})
})

var _ = Describe("Collider", func() {
	var (
		w *world.World
		c *physics.Collider
	)

	BeforeEach(func() {
		w = world.New()
		c = physics.NewCollider()
	})

	It("merges overlapping bodies into the lower id at the centroid", func() {
		heavy := w.Spawn(physics.Body{Mass: 3, Velocity: physics.Vec3{X: 1}})
		light := w.Spawn(physics.Body{Mass: 1, Position: physics.Vec3{X: 2}, Velocity: physics.Vec3{X: -1}})

		merges := c.Resolve(w)
		Expect(merges).To(Equal([]physics.Merge{{Absorber: heavy, Absorbed: light}}))

		removed := w.Flush()
		Expect(removed).To(ConsistOf(light))
		Expect(w.Len()).To(Equal(1))

		b, ok := w.Get(heavy)
		Expect(ok).To(BeTrue())
		Expect(b.Mass).To(Equal(4.0))
		Expect(b.Position.X).To(BeNumerically("~", 0.5, tol))
		Expect(b.Velocity.X).To(BeNumerically("~", 0.5, tol))
		Expect(b.Radius()).To(Equal(math.Cbrt(4.0)))
	})

	It("does not merge bodies that exactly touch", func() {
		w.Spawn(physics.Body{Mass: 1})
		w.Spawn(physics.Body{Mass: 1, Position: physics.Vec3{X: 2}})

		Expect(c.Resolve(w)).To(BeEmpty())
		Expect(w.Pending()).To(BeZero())
	})

	It("merges bodies just inside the contact distance", func() {
		w.Spawn(physics.Body{Mass: 1})
		w.Spawn(physics.Body{Mass: 1, Position: physics.Vec3{X: math.Nextafter(2, 0)}})

		Expect(c.Resolve(w)).To(HaveLen(1))
	})

	It("tests every pair once when nothing overlaps", func() {
		scatter(w, 12, rand.New(rand.NewSource(4)))
		counter := newPairCounter(w)

		Expect(c.Resolve(counter)).To(BeEmpty())
		Expect(c.Pairs()).To(Equal(12 * 11 / 2))
		Expect(counter.seen).To(HaveLen(12 * 11 / 2))
	})

	It("cascades: an absorber carries its merged state into later pairs", func() {
		// 1 overlaps 2; the merged 1 then reaches 3, which the unmerged 1
		// would not have.
		a := w.Spawn(physics.Body{Mass: 1})
		w.Spawn(physics.Body{Mass: 26, Position: physics.Vec3{X: 3.5}})
		w.Spawn(physics.Body{Mass: 1, Position: physics.Vec3{X: 7}})

		merges := c.Resolve(w)
		w.Flush()

		Expect(merges).To(HaveLen(2))
		Expect(w.Len()).To(Equal(1))
		b, _ := w.Get(a)
		Expect(b.Mass).To(Equal(28.0))
	})

	It("never offers an absorbed body again in the same pass", func() {
		w.Spawn(physics.Body{Mass: 1})
		w.Spawn(physics.Body{Mass: 1, Position: physics.Vec3{X: 0.5}})
		w.Spawn(physics.Body{Mass: 1, Position: physics.Vec3{X: 1}})
		counter := newPairCounter(w)

		merges := c.Resolve(counter)

		// (1,2) and (1,3) merge; (2,3) is never tested.
		Expect(merges).To(HaveLen(2))
		Expect(counter.seen).To(HaveLen(2))
		for _, m := range merges {
			Expect(m.Absorber).To(Equal(physics.ID(1)))
		}
	})

	It("conserves mass and momentum over many merges", func() {
		rng := rand.New(rand.NewSource(5))
		for i := 0; i < 40; i++ {
			w.Spawn(physics.Body{
				Position: physics.Vec3{X: rng.Float64() * 4, Y: rng.Float64() * 4, Z: rng.Float64() * 4},
				Velocity: physics.Vec3{X: rng.Float64() - 0.5, Y: rng.Float64() - 0.5},
				Mass:     rng.Float64() * 0.5,
			})
		}
		mass := physics.TotalMass(w)
		momentum := physics.Momentum(w)

		merges := c.Resolve(w)
		w.Flush()

		Expect(merges).NotTo(BeEmpty())
		Expect(w.Len()).To(Equal(40 - len(merges)))
		Expect(physics.TotalMass(w)).To(BeNumerically("~", mass, tol))
		expectVec(physics.Momentum(w), momentum, tol)
		w.Each(func(_ physics.ID, b *physics.Body) {
			Expect(b.Radius()).To(Equal(math.Cbrt(b.Mass)))
		})
	})
})

var _ = Describe("Euler", func() {
	It("moves an isolated body by exactly its velocity every step", func() {
		w := world.New()
		id := w.Spawn(physics.Body{Mass: 1, Velocity: physics.Vec3{X: 0.25, Y: -0.5, Z: 2}})
		g := physics.NewGravity(physics.DefaultG)
		e := physics.NewEuler()

		for i := 1; i <= 100; i++ {
			e.Advance(w)
			g.Apply(w)
		}

		b, _ := w.Get(id)
		Expect(b.Position).To(Equal(physics.Vec3{X: 25, Y: -50, Z: 200}))
		Expect(b.Velocity).To(Equal(physics.Vec3{X: 0.25, Y: -0.5, Z: 2}))
	})

	It("leaves velocities untouched", func() {
		w := world.New()
		scatter(w, 4, rand.New(rand.NewSource(6)))
		before := w.Snapshot()

		physics.NewEuler().Advance(w)

		for i, e := range w.Snapshot() {
			Expect(e.Body.Velocity).To(Equal(before[i].Body.Velocity))
			Expect(e.Body.Position).To(Equal(before[i].Body.Position.Add(before[i].Body.Velocity)))
		}
	})
})

var _ = Describe("PotentialEnergy", func() {
	It("sums -G·m1·m2/r over pairs", func() {
		w := world.New()
		w.Spawn(physics.Body{Mass: 2})
		w.Spawn(physics.Body{Mass: 3, Position: physics.Vec3{Z: 4}})
		Expect(physics.PotentialEnergy(w, 0.5)).To(BeNumerically("~", -0.75, tol))
	})
})

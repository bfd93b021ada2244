package physics

// DefaultG is the gravitational constant in simulation units.
const DefaultG = 0.007

// Gravity accumulates pairwise Newtonian attraction into velocities.
type Gravity struct {
	G     float64
	pairs int
}

func NewGravity(g float64) *Gravity {
	return &Gravity{G: g}
}

// Apply updates every body's velocity from every other body. Positions are
// only read. Each unordered pair applies equal and opposite impulses, so
// total momentum is unchanged.
//
// Coincident bodies (distance 0) would produce an infinite impulse; such
// pairs are skipped so non-finite values never reach a velocity.
func (g *Gravity) Apply(p Population) {
	g.pairs = 0
	p.EachPair(func(_, _ ID, a, b *Body) {
		g.pairs++
		delta := b.Position.Sub(a.Position)
		dist := delta.Length()
		if dist == 0 {
			return
		}
		k := delta.Scale(g.G / (dist * dist * dist))
		a.Velocity = a.Velocity.Add(k.Scale(b.Mass))
		b.Velocity = b.Velocity.Sub(k.Scale(a.Mass))
	})
}

// Pairs returns the number of pairs visited by the last Apply.
func (g *Gravity) Pairs() int { return g.pairs }

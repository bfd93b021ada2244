package physics

// Merge records one absorption: Absorbed was folded into Absorber.
type Merge struct {
	Absorber ID
	Absorbed ID
}

// Collider merges overlapping bodies.
type Collider struct {
	pairs int
}

func NewCollider() *Collider { return &Collider{} }

// Resolve tests every pair for overlap and merges the higher ID into the
// lower. The absorbed body is despawned immediately, so the population
// stops offering it for the rest of the pass, while the absorber carries
// its updated state into any later overlap in the same pass.
func (c *Collider) Resolve(p Population) []Merge {
	c.pairs = 0
	var merges []Merge
	p.EachPair(func(ida, idb ID, a, b *Body) {
		c.pairs++
		if !a.Overlaps(b) {
			return
		}
		a.Absorb(b)
		p.Despawn(idb)
		merges = append(merges, Merge{Absorber: ida, Absorbed: idb})
	})
	return merges
}

// Pairs returns the number of pairs tested by the last Resolve.
func (c *Collider) Pairs() int { return c.pairs }

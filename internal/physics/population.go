package physics

// Population is the live body collection the kernel operates on.
//
// EachPair must visit every unordered pair of distinct live bodies exactly
// once, lower ID first, and must skip any body despawned earlier in the
// same pass. Despawn only marks a body; the owner purges it after the pass.
type Population interface {
	Each(fn func(id ID, b *Body))
	EachPair(fn func(a, b ID, ba, bb *Body))
	Despawn(id ID)
}

// TotalMass sums the mass of every live body.
func TotalMass(p Population) float64 {
	total := 0.0
	p.Each(func(_ ID, b *Body) { total += b.Mass })
	return total
}

// Momentum returns Σ mass·velocity.
func Momentum(p Population) Vec3 {
	var sum Vec3
	p.Each(func(_ ID, b *Body) { sum = sum.Add(b.Momentum()) })
	return sum
}

func KineticEnergy(p Population) float64 {
	ke := 0.0
	p.Each(func(_ ID, b *Body) { ke += b.KineticEnergy() })
	return ke
}

// PotentialEnergy is the pairwise -G·mA·mB/r sum. Coincident pairs are
// skipped, matching Gravity.Apply.
func PotentialEnergy(p Population, g float64) float64 {
	pe := 0.0
	p.EachPair(func(_, _ ID, a, b *Body) {
		if r := a.Position.Distance(b.Position); r > 0 {
			pe -= g * a.Mass * b.Mass / r
		}
	})
	return pe
}

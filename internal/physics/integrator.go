package physics

// Integrator advances positions by one step.
type Integrator interface {
	Advance(p Population)
}

// Euler moves every body by its velocity.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Advance(p Population) {
	p.Each(func(_ ID, b *Body) {
		b.Position = b.Position.Add(b.Velocity)
	})
}

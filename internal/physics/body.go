package physics

import (
	"image/color"
	"math"
)

// ID is a stable body identity. Pair passes order bodies by ascending ID.
type ID uint64

// Body is a mass point. Velocity is a per-step displacement.
type Body struct {
	Position Vec3    `json:"position"`
	Velocity Vec3    `json:"velocity"`
	Mass     float64 `json:"mass"`

	// Appearance is carried through merges and never read by the kernel.
	Appearance color.RGBA `json:"appearance"`
}

// Radius is always derived from mass so the two cannot drift apart.
func (b *Body) Radius() float64 { return math.Cbrt(b.Mass) }

func (b *Body) Momentum() Vec3 { return b.Velocity.Scale(b.Mass) }

func (b *Body) KineticEnergy() float64 {
	return 0.5 * b.Mass * b.Velocity.Dot(b.Velocity)
}

// Overlaps reports whether the spheres intersect. Touching is not overlap.
func (b *Body) Overlaps(o *Body) bool {
	return b.Position.Distance(o.Position) < b.Radius()+o.Radius()
}

// Absorb merges o into b: mass adds, position moves to the mass-weighted
// centroid and velocity conserves momentum. b keeps its appearance.
func (b *Body) Absorb(o *Body) {
	total := b.Mass + o.Mass
	b.Position = b.Position.Scale(b.Mass).Add(o.Position.Scale(o.Mass)).Div(total)
	b.Velocity = b.Velocity.Scale(b.Mass).Add(o.Velocity.Scale(o.Mass)).Div(total)
	b.Mass = total
}

// IsValid reports whether the body satisfies the kernel's preconditions.
func (b *Body) IsValid() bool {
	return b.Mass > 0 && !math.IsInf(b.Mass, 0) && b.Position.IsFinite() && b.Velocity.IsFinite()
}

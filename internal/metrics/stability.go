package metrics

import (
	"github.com/san-kum/planetsim/internal/physics"
	"github.com/san-kum/planetsim/internal/sim"
	"github.com/san-kum/planetsim/internal/world"
)

// Containment is the fraction of steps in which every body stayed within
// threshold of the centre of mass.
type Containment struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewContainment(threshold float64) *Containment {
	return &Containment{
		name:      "containment",
		threshold: threshold,
	}
}

func (c *Containment) Name() string {
	return c.name
}

func (c *Containment) Observe(w *world.World, _ sim.StepReport) {
	c.samples++
	total := physics.TotalMass(w)
	if total == 0 {
		return
	}

	var com physics.Vec3
	w.Each(func(_ physics.ID, b *physics.Body) {
		com = com.Add(b.Position.Scale(b.Mass))
	})
	com = com.Div(total)

	escaped := false
	w.Each(func(_ physics.ID, b *physics.Body) {
		if !escaped && b.Position.Distance(com) > c.threshold {
			escaped = true
		}
	})
	if escaped {
		c.violations++
	}
}

func (c *Containment) Value() float64 {
	if c.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(c.violations)/float64(c.samples)
}

func (c *Containment) Reset() {
	c.violations = 0
	c.samples = 0
}

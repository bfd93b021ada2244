package metrics

import (
	"math"

	"github.com/san-kum/planetsim/internal/physics"
	"github.com/san-kum/planetsim/internal/sim"
	"github.com/san-kum/planetsim/internal/world"
)

// Population is the live body count at the last observation.
type Population struct {
	count int
}

func NewPopulation() *Population { return &Population{} }

func (p *Population) Name() string { return "population" }

func (p *Population) Observe(w *world.World, _ sim.StepReport) { p.count = w.Len() }

func (p *Population) Value() float64 { return float64(p.count) }

func (p *Population) Reset() { p.count = 0 }

// MergeRate is merges per observed step.
type MergeRate struct {
	merges  int
	samples int
}

func NewMergeRate() *MergeRate { return &MergeRate{} }

func (m *MergeRate) Name() string { return "merge_rate" }

func (m *MergeRate) Observe(_ *world.World, r sim.StepReport) {
	m.merges += len(r.Merges)
	m.samples++
}

func (m *MergeRate) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return float64(m.merges) / float64(m.samples)
}

func (m *MergeRate) Reset() {
	m.merges = 0
	m.samples = 0
}

// LargestMass tracks the heaviest body seen.
type LargestMass struct {
	max float64
}

func NewLargestMass() *LargestMass { return &LargestMass{} }

func (l *LargestMass) Name() string { return "largest_mass" }

func (l *LargestMass) Observe(w *world.World, _ sim.StepReport) {
	w.Each(func(_ physics.ID, b *physics.Body) {
		l.max = math.Max(l.max, b.Mass)
	})
}

func (l *LargestMass) Value() float64 { return l.max }

func (l *LargestMass) Reset() { l.max = 0 }

// MomentumDrift is the largest |P - P0| seen. P0 is the momentum before
// the first step when run through Simulator.Run, otherwise the first
// observation. Gravity and merges both conserve momentum, so anything
// above rounding noise points at a kernel bug.
type MomentumDrift struct {
	initial  physics.Vec3
	maxDrift float64
	samples  int
}

func NewMomentumDrift() *MomentumDrift { return &MomentumDrift{} }

func (m *MomentumDrift) Name() string { return "momentum_drift" }

func (m *MomentumDrift) Begin(w *world.World) {
	m.Reset()
	m.initial = physics.Momentum(w)
	m.samples = 1
}

func (m *MomentumDrift) Observe(w *world.World, _ sim.StepReport) {
	p := physics.Momentum(w)
	if m.samples == 0 {
		m.initial = p
	}
	m.samples++
	m.maxDrift = math.Max(m.maxDrift, p.Sub(m.initial).Length())
}

func (m *MomentumDrift) Value() float64 { return m.maxDrift }

func (m *MomentumDrift) Reset() {
	m.initial = physics.Vec3{}
	m.maxDrift = 0
	m.samples = 0
}

var (
	_ sim.Baseline = (*MomentumDrift)(nil)
	_ sim.Baseline = (*EnergyDrift)(nil)
)

// Defaults returns the metric set every run records.
func Defaults(g, containment float64) []sim.Metric {
	return []sim.Metric{
		NewPopulation(),
		NewMergeRate(),
		NewLargestMass(),
		NewMomentumDrift(),
		NewEnergy(g),
		NewEnergyDrift(g),
		NewContainment(containment),
	}
}

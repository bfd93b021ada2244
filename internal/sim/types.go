package sim

import (
	"github.com/san-kum/planetsim/internal/physics"
	"github.com/san-kum/planetsim/internal/world"
)

// StepReport describes what one step changed.
type StepReport struct {
	Step    int
	Merges  []physics.Merge
	Removed []physics.ID
}

type Metric interface {
	Name() string
	Observe(w *world.World, r StepReport)
	Value() float64
	Reset()
}

// Baseline is implemented by metrics that compare against the state
// before the first step. Run calls Begin once, after Reset.
type Baseline interface {
	Begin(w *world.World)
}

// Observer is told about every step after the metrics have seen it.
type Observer interface {
	OnStep(w *world.World, r StepReport)
}

type Config struct {
	Steps         int
	SampleEvery   int
	ValidateState bool
}

// Sample is one row of aggregate state.
type Sample struct {
	Step          int          `json:"step"`
	Population    int          `json:"population"`
	TotalMass     float64      `json:"total_mass"`
	Momentum      physics.Vec3 `json:"momentum"`
	KineticEnergy float64      `json:"kinetic_energy"`
	Merges        int          `json:"merges"`
}

type Result struct {
	Samples    []Sample
	Metrics    map[string]float64
	StepsTaken int
	Merges     int
	// MassDrift is |M_end - M_start| / M_start.
	MassDrift float64
	// MomentumDrift is |P_end - P_start|.
	MomentumDrift float64
	Final         []world.Entry
}

func sample(w *world.World, step, merges int) Sample {
	return Sample{
		Step:          step,
		Population:    w.Len(),
		TotalMass:     physics.TotalMass(w),
		Momentum:      physics.Momentum(w),
		KineticEnergy: physics.KineticEnergy(w),
		Merges:        merges,
	}
}

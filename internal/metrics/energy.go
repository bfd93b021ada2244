package metrics

import (
	"math"

	"github.com/san-kum/planetsim/internal/physics"
	"github.com/san-kum/planetsim/internal/sim"
	"github.com/san-kum/planetsim/internal/world"
)

// Energy is the mean total (kinetic + potential) energy over the run.
type Energy struct {
	name        string
	g           float64
	samples     int
	totalEnergy float64
}

func NewEnergy(g float64) *Energy {
	return &Energy{name: "energy", g: g}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(w *world.World, _ sim.StepReport) {
	e.totalEnergy += physics.KineticEnergy(w) + physics.PotentialEnergy(w, e.g)
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

func (e *Energy) Reset() {
	e.totalEnergy = 0
	e.samples = 0
}

// EnergyDrift is the largest relative departure from the initial total
// energy: the energy before the first step under Simulator.Run, otherwise
// the first observation. Euler steps and inelastic merges both lose energy, so this
// is only reported, never checked.
type EnergyDrift struct {
	name          string
	g             float64
	initialEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift(g float64) *EnergyDrift {
	return &EnergyDrift{name: "energy_drift", g: g}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) total(w *world.World) float64 {
	return physics.KineticEnergy(w) + physics.PotentialEnergy(w, e.g)
}

func (e *EnergyDrift) Begin(w *world.World) {
	e.Reset()
	e.initialEnergy = e.total(w)
	e.samples = 1
}

func (e *EnergyDrift) Observe(w *world.World, _ sim.StepReport) {
	energy := e.total(w)

	if e.samples == 0 {
		e.initialEnergy = energy
	}
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}

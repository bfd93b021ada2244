package viz

import (
	"github.com/san-kum/planetsim/internal/physics"
	"github.com/san-kum/planetsim/internal/sim"
	"github.com/san-kum/planetsim/internal/world"
)

var (
	_ sim.Observer = (*trails)(nil)
	_ sim.Observer = (*history)(nil)
)

// trails keeps the last few positions of every live body, keyed by ID.
type trails struct {
	enabled bool
	length  int
	points  map[physics.ID][]physics.Vec3
}

func newTrails(length int, enabled bool) *trails {
	return &trails{enabled: enabled, length: length, points: make(map[physics.ID][]physics.Vec3)}
}

func (t *trails) OnStep(w *world.World, _ sim.StepReport) {
	if t.enabled {
		t.record(w)
	}
}

func (t *trails) record(w *world.World) {
	w.Each(func(id physics.ID, b *physics.Body) {
		p := t.points[id]
		if len(p) >= t.length {
			copy(p, p[1:])
			p = p[:len(p)-1]
		}
		t.points[id] = append(p, b.Position)
	})
}

func (t *trails) drop(id physics.ID) { delete(t.points, id) }

func (t *trails) reset() { clear(t.points) }

func (t *trails) len() int { return len(t.points) }

// history is the rolling population series and merge count shown in the
// stats panel.
type history struct {
	capacity   int
	population []float64
	merges     int
}

func newHistory(capacity int) *history {
	return &history{capacity: capacity, population: make([]float64, 0, capacity)}
}

func (h *history) OnStep(w *world.World, r sim.StepReport) {
	h.merges += len(r.Merges)
	h.push(w.Len())
}

func (h *history) push(n int) {
	if len(h.population) >= h.capacity {
		copy(h.population, h.population[1:])
		h.population = h.population[:len(h.population)-1]
	}
	h.population = append(h.population, float64(n))
}

// reset starts a new series at the current population n.
func (h *history) reset(n int) {
	h.population = h.population[:0]
	h.merges = 0
	h.push(n)
}

// Package world owns the live body collection.
//
// Bodies live in a dense slice ordered by ID, so pair passes hand out
// pointers into stable storage. Despawn only marks a body; Flush compacts
// the slice and notifies listeners. A World is not safe for concurrent use.
package world

import (
	"errors"
	"fmt"
	"sort"

	"github.com/san-kum/planetsim/internal/physics"
)

var ErrDuplicateID = errors.New("world: duplicate body id")

// Entry pairs a body with its identity.
type Entry struct {
	ID   physics.ID   `json:"id"`
	Body physics.Body `json:"body"`
}

type World struct {
	nextID    physics.ID
	ids       []physics.ID
	bodies    []physics.Body
	index     map[physics.ID]int
	dead      map[physics.ID]struct{}
	listeners []func(physics.ID)
}

func New() *World {
	return &World{
		nextID: 1,
		ids:    make([]physics.ID, 0, 64),
		bodies: make([]physics.Body, 0, 64),
		index:  make(map[physics.ID]int),
		dead:   make(map[physics.ID]struct{}),
	}
}

// Spawn adds a body and returns its ID. IDs increase monotonically, which
// keeps the dense storage sorted.
func (w *World) Spawn(b physics.Body) physics.ID {
	id := w.nextID
	w.nextID++
	w.index[id] = len(w.ids)
	w.ids = append(w.ids, id)
	w.bodies = append(w.bodies, b)
	return id
}

// Get returns a pointer to a live body. The pointer is valid until the
// next Spawn or Flush.
func (w *World) Get(id physics.ID) (*physics.Body, bool) {
	i, ok := w.index[id]
	if !ok || w.isDead(id) {
		return nil, false
	}
	return &w.bodies[i], true
}

// Len counts live bodies, excluding ones awaiting Flush.
func (w *World) Len() int { return len(w.ids) - len(w.dead) }

func (w *World) isDead(id physics.ID) bool {
	_, ok := w.dead[id]
	return ok
}

func (w *World) Each(fn func(id physics.ID, b *physics.Body)) {
	for i, id := range w.ids {
		if w.isDead(id) {
			continue
		}
		fn(id, &w.bodies[i])
	}
}

// EachPair visits every unordered pair of live bodies once, lower ID
// first. Liveness is checked before every call so a body despawned by fn
// is never offered again.
func (w *World) EachPair(fn func(a, b physics.ID, ba, bb *physics.Body)) {
	n := len(w.ids)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if w.isDead(w.ids[i]) {
				break
			}
			if w.isDead(w.ids[j]) {
				continue
			}
			fn(w.ids[i], w.ids[j], &w.bodies[i], &w.bodies[j])
		}
	}
}

// Despawn marks a body for removal at the next Flush.
func (w *World) Despawn(id physics.ID) {
	if _, ok := w.index[id]; !ok {
		return
	}
	w.dead[id] = struct{}{}
}

// Pending returns the number of bodies awaiting Flush.
func (w *World) Pending() int { return len(w.dead) }

// Flush purges despawned bodies in a single compaction pass and notifies
// listeners in ID order. It returns the removed IDs.
func (w *World) Flush() []physics.ID {
	if len(w.dead) == 0 {
		return nil
	}

	removed := make([]physics.ID, 0, len(w.dead))
	writeIdx := 0
	for i, id := range w.ids {
		if w.isDead(id) {
			delete(w.index, id)
			removed = append(removed, id)
			continue
		}
		w.ids[writeIdx] = id
		w.bodies[writeIdx] = w.bodies[i]
		w.index[id] = writeIdx
		writeIdx++
	}
	clear(w.bodies[writeIdx:])
	w.ids = w.ids[:writeIdx]
	w.bodies = w.bodies[:writeIdx]
	w.dead = make(map[physics.ID]struct{})

	for _, id := range removed {
		for _, fn := range w.listeners {
			fn(id)
		}
	}
	return removed
}

// OnDespawn registers fn to be called for every body removed by Flush.
// Renderers use it to drop per-body resources.
func (w *World) OnDespawn(fn func(physics.ID)) {
	w.listeners = append(w.listeners, fn)
}

// Snapshot copies the live bodies in ID order.
func (w *World) Snapshot() []Entry {
	out := make([]Entry, 0, w.Len())
	w.Each(func(id physics.ID, b *physics.Body) {
		out = append(out, Entry{ID: id, Body: *b})
	})
	return out
}

// Restore replaces the contents with entries, keeping their IDs. Later
// spawns continue after the highest restored ID. If an ID appears twice the
// world is left unchanged and ErrDuplicateID is returned.
func (w *World) Restore(entries []Entry) error {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })
	for i := 1; i < len(sorted); i++ {
		if sorted[i].ID == sorted[i-1].ID {
			return fmt.Errorf("%w: %d", ErrDuplicateID, sorted[i].ID)
		}
	}

	w.Clear()
	for _, e := range sorted {
		w.index[e.ID] = len(w.ids)
		w.ids = append(w.ids, e.ID)
		w.bodies = append(w.bodies, e.Body)
		if e.ID >= w.nextID {
			w.nextID = e.ID + 1
		}
	}
	return nil
}

// Clear removes every body without notifying listeners.
func (w *World) Clear() {
	w.nextID = 1
	w.ids = w.ids[:0]
	clear(w.bodies)
	w.bodies = w.bodies[:0]
	w.index = make(map[physics.ID]int)
	w.dead = make(map[physics.ID]struct{})
}

var _ physics.Population = (*World)(nil)

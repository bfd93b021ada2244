// Package seed creates the initial population.
//
// Every random draw comes from the *rand.Rand passed to [New], so a fixed
// seed reproduces the same population.
package seed

import (
	"errors"
	"fmt"
	"image/color"
	"math/rand"

	"github.com/san-kum/planetsim/internal/physics"
	"github.com/san-kum/planetsim/internal/world"
)

var ErrInvalidConfig = errors.New("seed: invalid population config")

type Config struct {
	Count int
	// Mass is drawn uniformly from [MassMin, MassMax) and then squared.
	MassMin, MassMax float64
	// Each velocity axis is uniform in [-Speed, Speed).
	Speed float64
	// Positions span a cube of this edge length centred on the origin.
	Extent float64
	// Color channels are uniform in [ColorMin, ColorMax); the same triple
	// places the body inside the cube.
	ColorMin, ColorMax float64
	// Star adds a white body of StarMass at rest at the origin.
	Star     bool
	StarMass float64
}

func DefaultConfig() Config {
	return Config{
		Count:    150,
		MassMin:  0.0002,
		MassMax:  0.6,
		Speed:    0.03,
		Extent:   80,
		ColorMin: 0.01,
		ColorMax: 0.99,
		StarMass: 1.1,
	}
}

func (c Config) Validate() error {
	switch {
	case c.Count < 0:
		return fmt.Errorf("%w: count %d", ErrInvalidConfig, c.Count)
	case c.MassMin <= 0 || c.MassMax <= c.MassMin:
		return fmt.Errorf("%w: mass range [%g, %g)", ErrInvalidConfig, c.MassMin, c.MassMax)
	case c.Speed < 0:
		return fmt.Errorf("%w: speed %g", ErrInvalidConfig, c.Speed)
	case c.Extent <= 0:
		return fmt.Errorf("%w: extent %g", ErrInvalidConfig, c.Extent)
	case c.ColorMin < 0 || c.ColorMax > 1 || c.ColorMax <= c.ColorMin:
		return fmt.Errorf("%w: color range [%g, %g)", ErrInvalidConfig, c.ColorMin, c.ColorMax)
	case c.Star && c.StarMass <= 0:
		return fmt.Errorf("%w: star mass %g", ErrInvalidConfig, c.StarMass)
	}
	return nil
}

type Seeder struct {
	cfg Config
	rng *rand.Rand
}

func New(rng *rand.Rand, cfg Config) (*Seeder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Seeder{cfg: cfg, rng: rng}, nil
}

func (s *Seeder) uniform(lo, hi float64) float64 {
	return lo + s.rng.Float64()*(hi-lo)
}

// Body draws one planet.
func (s *Seeder) Body() physics.Body {
	c := s.cfg
	r := s.uniform(c.ColorMin, c.ColorMax)
	g := s.uniform(c.ColorMin, c.ColorMax)
	b := s.uniform(c.ColorMin, c.ColorMax)

	m := s.uniform(c.MassMin, c.MassMax)
	vel := physics.Vec3{
		X: s.uniform(-c.Speed, c.Speed),
		Y: s.uniform(-c.Speed, c.Speed),
		Z: s.uniform(-c.Speed, c.Speed),
	}
	half := c.Extent / 2

	return physics.Body{
		Position:   physics.Vec3{X: r, Y: g, Z: b}.Scale(c.Extent).Sub(physics.Vec3{X: half, Y: half, Z: half}),
		Velocity:   vel,
		Mass:       m * m,
		Appearance: color.RGBA{R: channel(r), G: channel(g), B: channel(b), A: 255},
	}
}

// Star returns the stationary central body.
func (s *Seeder) Star() physics.Body {
	return physics.Body{
		Mass:       s.cfg.StarMass,
		Appearance: color.RGBA{R: 255, G: 255, B: 255, A: 255},
	}
}

// Bodies draws the full population.
func (s *Seeder) Bodies() []physics.Body {
	out := make([]physics.Body, 0, s.cfg.Count+1)
	if s.cfg.Star {
		out = append(out, s.Star())
	}
	for i := 0; i < s.cfg.Count; i++ {
		out = append(out, s.Body())
	}
	return out
}

// Populate spawns the population into w and returns the new IDs.
func (s *Seeder) Populate(w *world.World) []physics.ID {
	bodies := s.Bodies()
	ids := make([]physics.ID, len(bodies))
	for i, b := range bodies {
		ids[i] = w.Spawn(b)
	}
	return ids
}

func channel(v float64) uint8 {
	return uint8(v*255 + 0.5)
}

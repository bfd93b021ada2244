package sim

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"

	"github.com/san-kum/planetsim/internal/physics"
	"github.com/san-kum/planetsim/internal/world"
)

type Simulator struct {
	world      *world.World
	integrator physics.Integrator
	gravity    *physics.Gravity
	collider   *physics.Collider
	metrics    []Metric
	observers  []Observer
	logger     *slog.Logger
	step       int
}

func New(w *world.World, integrator physics.Integrator, gravity *physics.Gravity, collider *physics.Collider) *Simulator {
	return &Simulator{
		world:      w,
		integrator: integrator,
		gravity:    gravity,
		collider:   collider,
		metrics:    make([]Metric, 0),
		observers:  make([]Observer, 0),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// NewDefault wires the Euler integrator, gravity with constant g and a
// collider around w.
func NewDefault(w *world.World, g float64) *Simulator {
	return New(w, physics.NewEuler(), physics.NewGravity(g), physics.NewCollider())
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }
func (s *Simulator) SetLogger(l *slog.Logger) {
	if l != nil {
		s.logger = l
	}
}

func (s *Simulator) World() *world.World { return s.world }

// Steps returns the number of steps taken since construction or Reset.
func (s *Simulator) Steps() int { return s.step }

// Reset rewinds the step counter and resets every metric. The world is
// left to the caller.
func (s *Simulator) Reset() {
	s.step = 0
	for _, m := range s.metrics {
		m.Reset()
	}
}

// Step advances the world by one tick.
func (s *Simulator) Step() StepReport {
	s.integrator.Advance(s.world)
	s.gravity.Apply(s.world)
	merges := s.collider.Resolve(s.world)
	removed := s.world.Flush()
	s.step++

	for _, m := range merges {
		s.logger.Debug("merge", "step", s.step, "absorber", m.Absorber, "absorbed", m.Absorbed)
	}

	r := StepReport{Step: s.step, Merges: merges, Removed: removed}
	for _, m := range s.metrics {
		m.Observe(s.world, r)
	}
	for _, obs := range s.observers {
		obs.OnStep(s.world, r)
	}
	return r
}

// Run executes cfg.Steps steps, stopping early if ctx is done or, with
// ValidateState, when a body leaves the kernel's preconditions. The partial
// result is returned alongside any error.
func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}

	s.Reset()
	result := &Result{
		Samples: make([]Sample, 0, cfg.Steps/cfg.SampleEvery+2),
		Metrics: make(map[string]float64),
	}

	for _, m := range s.metrics {
		if b, ok := m.(Baseline); ok {
			b.Begin(s.world)
		}
	}

	initial := sample(s.world, 0, 0)
	result.Samples = append(result.Samples, initial)

	if cfg.ValidateState {
		if err := s.validateState(); err != nil {
			return result, err
		}
	}

	var runErr error
	for i := 0; i < cfg.Steps; i++ {
		select {
		case <-ctx.Done():
			runErr = ctx.Err()
		default:
		}
		if runErr != nil {
			break
		}

		r := s.Step()
		result.StepsTaken++
		result.Merges += len(r.Merges)

		if cfg.ValidateState {
			if err := s.validateState(); err != nil {
				runErr = err
				break
			}
		}

		if r.Step%cfg.SampleEvery == 0 {
			result.Samples = append(result.Samples, sample(s.world, r.Step, result.Merges))
		}
	}

	if last := result.Samples[len(result.Samples)-1]; last.Step != s.step {
		result.Samples = append(result.Samples, sample(s.world, s.step, result.Merges))
	}

	final := result.Samples[len(result.Samples)-1]
	if initial.TotalMass != 0 {
		result.MassDrift = math.Abs(final.TotalMass-initial.TotalMass) / initial.TotalMass
	}
	result.MomentumDrift = final.Momentum.Sub(initial.Momentum).Length()
	result.Final = s.world.Snapshot()

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	s.logger.Info("run finished",
		"steps", result.StepsTaken,
		"bodies", final.Population,
		"merges", result.Merges,
		"mass_drift", result.MassDrift,
		"momentum_drift", result.MomentumDrift,
	)

	return result, runErr
}

func (s *Simulator) validateConfig(cfg Config) error {
	if cfg.Steps <= 0 {
		return fmt.Errorf("%w: steps must be positive, got %d", ErrInvalidConfig, cfg.Steps)
	}
	if cfg.SampleEvery <= 0 {
		return fmt.Errorf("%w: sample interval must be positive, got %d", ErrInvalidConfig, cfg.SampleEvery)
	}
	return nil
}

func (s *Simulator) validateState() error {
	var bad *SimulationError
	s.world.Each(func(id physics.ID, b *physics.Body) {
		if bad == nil && !b.IsValid() {
			bad = &SimulationError{Step: s.step, Body: id, Wrapped: ErrInvalidState}
		}
	})
	if bad != nil {
		return bad
	}
	return nil
}

// RunWithCallback steps until callback returns false or ctx is done.
func (s *Simulator) RunWithCallback(ctx context.Context, callback func(StepReport) bool) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if !callback(s.Step()) {
			return nil
		}
	}
}

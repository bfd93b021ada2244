package viz

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/planetsim/internal/physics"
	"github.com/san-kum/planetsim/internal/sim"
	"github.com/san-kum/planetsim/internal/world"
)

func TestCanvasSet(t *testing.T) {
	c := NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(3, 3)
	c.Set(-1, 0)
	c.Set(4, 0)

	if !c.Lit(0, 0) || !c.Lit(3, 3) {
		t.Error("expected set pixels to be lit")
	}
	if c.Lit(1, 0) {
		t.Error("unset pixel is lit")
	}
	if got := c.String(); got != "⠁⢀" {
		t.Errorf("String() = %q", got)
	}
}

func TestCanvasDisc(t *testing.T) {
	c := NewCanvas(10, 5)
	c.Disc(10, 10, 3)
	for _, p := range [][2]int{{10, 10}, {13, 10}, {7, 10}, {10, 13}, {10, 7}} {
		if !c.Lit(p[0], p[1]) {
			t.Errorf("(%d,%d) not lit", p[0], p[1])
		}
	}
	if c.Lit(13, 13) {
		t.Error("corner outside the radius is lit")
	}

	c.Clear()
	c.Disc(4, 4, 0.2)
	if !c.Lit(4, 4) || c.Lit(5, 4) {
		t.Error("sub-pixel disc should light a single dot")
	}
}

func TestCameraProjectsTargetToCenter(t *testing.T) {
	cam := NewCamera(80)
	cam.Target = physics.Vec3{X: 5, Y: -3, Z: 2}
	x, y, persp, ok := cam.Project(cam.Target, 160, 96)
	if !ok || x != 80 || y != 48 {
		t.Errorf("Project(target) = (%d, %d, %v)", x, y, ok)
	}
	if persp != 1 {
		t.Errorf("perspective at target = %v, want 1", persp)
	}
}

func TestCameraZoomScales(t *testing.T) {
	cam := NewCamera(100)
	base := cam.PixelsPerUnit(200, 100)
	cam.ZoomIn()
	if got := cam.PixelsPerUnit(200, 100); got <= base {
		t.Errorf("zoom in did not enlarge: %v <= %v", got, base)
	}
	cam.Reset()
	if cam.Zoom != 1 || cam.Span != 100 {
		t.Errorf("Reset left zoom=%v span=%v", cam.Zoom, cam.Span)
	}
}

func TestNextThemeWraps(t *testing.T) {
	last := Themes[len(Themes)-1]
	if got := NextTheme(last.Name); got.Name != Themes[0].Name {
		t.Errorf("NextTheme(%q) = %q", last.Name, got.Name)
	}
	if got := GetTheme("nope"); got.Name != ThemeNebula.Name {
		t.Errorf("GetTheme fallback = %q", got.Name)
	}
}

func twoBodyModel(t *testing.T, reseed Reseeder) Model {
	t.Helper()
	w := world.New()
	w.Spawn(physics.Body{Mass: 1})
	w.Spawn(physics.Body{Position: physics.Vec3{X: 30}, Mass: 1})
	s := sim.NewDefault(w, physics.DefaultG)
	return NewModel(s, reseed, Options{Span: 80, Trails: true})
}

func tick(m Model) Model {
	next, _ := m.Update(TickMsg(time.Now()))
	return next.(Model)
}

func key(m Model, k string) Model {
	var msg tea.KeyMsg
	switch k {
	case " ":
		msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestModelTickSteps(t *testing.T) {
	m := twoBodyModel(t, nil)
	m = tick(m)
	m = tick(m)
	if m.sim.Steps() != 2 {
		t.Errorf("steps = %d, want 2", m.sim.Steps())
	}
	if m.trails.len() != 2 {
		t.Errorf("trails tracked = %d, want 2", m.trails.len())
	}

	m = key(m, " ")
	m = tick(m)
	if m.sim.Steps() != 2 {
		t.Error("paused model kept stepping")
	}
	m = key(m, "n")
	if m.sim.Steps() != 3 {
		t.Error("single step did not advance")
	}
}

func TestModelDropsTrailOnMerge(t *testing.T) {
	w := world.New()
	w.Spawn(physics.Body{Mass: 1})
	w.Spawn(physics.Body{Position: physics.Vec3{X: 1.5}, Mass: 1})
	m := NewModel(sim.NewDefault(w, physics.DefaultG), nil, Options{Span: 10, Trails: true})
	m.trails.record(w)
	if m.trails.len() != 2 {
		t.Fatalf("trails tracked = %d, want 2", m.trails.len())
	}

	m = tick(m)
	if w.Len() != 1 {
		t.Fatalf("bodies = %d, want 1", w.Len())
	}
	if _, ok := m.trails.points[2]; ok {
		t.Error("trail of absorbed body survived")
	}
	if m.hist.merges != 1 {
		t.Errorf("merges = %d, want 1", m.hist.merges)
	}
}

func TestModelReset(t *testing.T) {
	calls := 0
	reseed := func(w *world.World) error {
		calls++
		w.Spawn(physics.Body{Mass: 2})
		return nil
	}
	m := twoBodyModel(t, reseed)
	m = tick(m)
	m = key(m, "r")

	if calls != 1 {
		t.Fatalf("reseed calls = %d", calls)
	}
	if m.sim.Steps() != 0 || m.sim.World().Len() != 1 {
		t.Errorf("after reset: steps=%d bodies=%d", m.sim.Steps(), m.sim.World().Len())
	}
	if m.trails.len() != 0 {
		t.Error("trails survived reset")
	}
}

func TestModelResetError(t *testing.T) {
	m := twoBodyModel(t, func(*world.World) error { return errors.New("boom") })
	m = key(m, "r")
	if m.running {
		t.Error("model should pause when reseeding fails")
	}
	if !strings.Contains(m.View(), "boom") {
		t.Error("view does not surface the reseed error")
	}
}

func TestModelView(t *testing.T) {
	m := twoBodyModel(t, nil)
	v := m.View()
	for _, want := range []string{"PLANETSIM", "Bodies", "HEAVIEST"} {
		if !strings.Contains(v, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestModelHistoryFollowsSteps(t *testing.T) {
	w := world.New()
	w.Spawn(physics.Body{Mass: 1})
	w.Spawn(physics.Body{Position: physics.Vec3{X: 1.5}, Mass: 1})
	w.Spawn(physics.Body{Position: physics.Vec3{X: 40}, Mass: 1})
	m := NewModel(sim.NewDefault(w, physics.DefaultG), nil, Options{Span: 80})

	m = tick(m)
	m = tick(m)
	want := []float64{3, 2, 2}
	if len(m.hist.population) != len(want) {
		t.Fatalf("history = %v, want %v", m.hist.population, want)
	}
	for i := range want {
		if m.hist.population[i] != want[i] {
			t.Errorf("history = %v, want %v", m.hist.population, want)
			break
		}
	}
}

func TestModelTrailToggle(t *testing.T) {
	m := twoBodyModel(t, nil)
	m = key(m, "t")
	m = tick(m)
	if m.trails.len() != 0 {
		t.Errorf("disabled trails recorded %d bodies", m.trails.len())
	}
	m = key(m, "t")
	m = tick(m)
	if m.trails.len() != 2 {
		t.Errorf("trails tracked = %d, want 2", m.trails.len())
	}
}

func TestModelCameraRoll(t *testing.T) {
	m := twoBodyModel(t, nil)
	m = key(m, "]")
	m = key(m, "]")
	m = key(m, "[")
	if math.Abs(m.camera.RotZ-0.1) > 1e-12 {
		t.Errorf("RotZ = %v, want 0.1", m.camera.RotZ)
	}
}

func TestHistoryCapacity(t *testing.T) {
	h := newHistory(3)
	for i := 1; i <= 5; i++ {
		h.push(i)
	}
	if len(h.population) != 3 || h.population[0] != 3 || h.population[2] != 5 {
		t.Errorf("history = %v, want [3 4 5]", h.population)
	}
	h.reset(9)
	if len(h.population) != 1 || h.population[0] != 9 || h.merges != 0 {
		t.Errorf("after reset: %v merges=%d", h.population, h.merges)
	}
}

func TestModelUsesNamedTheme(t *testing.T) {
	w := world.New()
	w.Spawn(physics.Body{Mass: 1})
	m := NewModel(sim.NewDefault(w, physics.DefaultG), nil, Options{Theme: "mono"})
	if m.theme.Name != "mono" {
		t.Errorf("theme = %q, want mono", m.theme.Name)
	}
	m = key(m, "c")
	if m.theme.Name != "deepfield" {
		t.Errorf("cycled theme = %q, want deepfield", m.theme.Name)
	}
	if names := ThemeNames(); len(names) != len(Themes) || names[0] != "nebula" {
		t.Errorf("ThemeNames() = %v", names)
	}
}

package viz

import (
	"fmt"
	"image/color"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/planetsim/internal/physics"
	"github.com/san-kum/planetsim/internal/sim"
	"github.com/san-kum/planetsim/internal/world"
)

const (
	width           = 80
	height          = 24
	historyCapacity = 120
	trailLength     = 16
	topBodies       = 5
)

type TickMsg time.Time

// Reseeder repopulates an emptied world.
type Reseeder func(w *world.World) error

type Options struct {
	Title  string
	FPS    int
	Trails bool
	// Span is the world extent framed at zoom 1.
	Span  float64
	Theme string
}

// Model steps a simulator once per tick and renders its world.
type Model struct {
	sim      *sim.Simulator
	reseed   Reseeder
	title    string
	fps      int
	canvas   *Canvas
	camera   *Camera
	box      *Wireframe
	trails   *trails
	hist     *history
	theme    Theme
	styles   styles
	running  bool
	showBox  bool
	showHelp bool
	err      error
}

// NewModel wraps s. reseed is called on reset after the world is cleared;
// it may be nil, in which case reset is disabled.
func NewModel(s *sim.Simulator, reseed Reseeder, opts Options) Model {
	if opts.FPS <= 0 {
		opts.FPS = 30
	}
	if opts.Title == "" {
		opts.Title = "planetsim"
	}
	theme := GetTheme(opts.Theme)
	t := newTrails(trailLength, opts.Trails)
	h := newHistory(historyCapacity)
	h.push(s.World().Len())
	s.World().OnDespawn(t.drop)
	s.AddObserver(t)
	s.AddObserver(h)

	return Model{
		sim:     s,
		reseed:  reseed,
		title:   opts.Title,
		fps:     opts.FPS,
		canvas:  NewCanvas(width, height),
		camera:  NewCamera(opts.Span),
		box:     CreateCubeWireframe(opts.Span),
		trails:  t,
		hist:    h,
		theme:   theme,
		styles:  newStyles(theme),
		running: true,
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd { return m.tick() }

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "n":
			if !m.running {
				m.sim.Step()
			}
		case "r":
			m.reset()
		case "up", "k":
			m.camera.RotateX(-0.1)
		case "down", "j":
			m.camera.RotateX(0.1)
		case "left", "h":
			m.camera.RotateY(-0.1)
		case "right", "l":
			m.camera.RotateY(0.1)
		case "[":
			m.camera.RotateZ(-0.1)
		case "]":
			m.camera.RotateZ(0.1)
		case "+", "=":
			m.camera.ZoomIn()
		case "-", "_":
			m.camera.ZoomOut()
		case "w":
			m.camera.Pan(0, 1)
		case "s":
			m.camera.Pan(0, -1)
		case "a":
			m.camera.Pan(-1, 0)
		case "d":
			m.camera.Pan(1, 0)
		case "0":
			m.camera.Reset()
		case "t":
			m.trails.enabled = !m.trails.enabled
			if !m.trails.enabled {
				m.trails.reset()
			}
		case "b":
			m.showBox = !m.showBox
		case "c":
			m.theme = NextTheme(m.theme.Name)
			m.styles = newStyles(m.theme)
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			m.sim.Step()
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) reset() {
	if m.reseed == nil {
		return
	}
	w := m.sim.World()
	w.Clear()
	if err := m.reseed(w); err != nil {
		m.err = err
		m.running = false
		return
	}
	m.err = nil
	m.sim.Reset()
	m.trails.reset()
	m.hist.reset(w.Len())
}

// draw renders trails first so bodies paint over them.
func (m *Model) draw() {
	m.canvas.Clear()
	pw, ph := m.canvas.PixelSize()
	if m.showBox {
		Render3D(m.canvas, m.box, m.camera)
	}
	if m.trails.enabled {
		for _, pts := range m.trails.points {
			for _, p := range pts {
				if x, y, _, ok := m.camera.Project(p, pw, ph); ok {
					m.canvas.Set(x, y)
				}
			}
		}
	}
	ppu := m.camera.PixelsPerUnit(pw, ph)
	m.sim.World().Each(func(_ physics.ID, b *physics.Body) {
		x, y, persp, ok := m.camera.Project(b.Position, pw, ph)
		if !ok {
			return
		}
		m.canvas.Disc(x, y, b.Radius()*ppu*persp)
	})
}

func (m Model) View() string {
	m.draw()
	st := m.styles
	w := m.sim.World()
	canvasView := st.canvas.Render(m.canvas.String())

	status := "RUNNING"
	if !m.running {
		status = st.paused.Render("PAUSED")
	}
	var s strings.Builder
	s.WriteString(st.header.Render(strings.ToUpper(m.title)) + "\n")
	s.WriteString(status + "\n\n")
	if m.err != nil {
		s.WriteString(st.paused.Render("reset: "+m.err.Error()) + "\n\n")
	}

	if len(m.hist.population) > 1 {
		chart := asciigraph.Plot(m.hist.population, asciigraph.Height(4), asciigraph.Width(24), asciigraph.Caption("Bodies"))
		s.WriteString(st.graph.Render(chart) + "\n\n")
	}

	row := func(label, value string) {
		s.WriteString(st.label.Render(fmt.Sprintf("%-10s", label)) + st.value.Render(value) + "\n")
	}
	p := physics.Momentum(w)
	row("Step", fmt.Sprintf("%d", m.sim.Steps()))
	row("Bodies", fmt.Sprintf("%d", w.Len()))
	row("Mass", fmt.Sprintf("%.4f", physics.TotalMass(w)))
	row("|P|", fmt.Sprintf("%.5f", p.Length()))
	row("Merges", fmt.Sprintf("%d", m.hist.merges))
	row("Zoom", fmt.Sprintf("%.2fx", m.camera.Zoom))
	row("Theme", m.theme.Name)

	s.WriteString("\n" + st.header.Render("HEAVIEST") + "\n")
	for _, e := range heaviest(w, topBodies) {
		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(hexColor(e.Body.Appearance))).Render("●")
		s.WriteString(fmt.Sprintf("%s #%-5d %s\n", swatch, e.ID, st.value.Render(fmt.Sprintf("%.4f", e.Body.Mass))))
	}

	s.WriteString(st.help.Render("\nSP:Pause N:Step R:Reset Q:Quit\nT:Trails B:Box C:Theme ?:Help"))
	statsView := st.stats.Render(s.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
	if m.showHelp {
		return helpText + "\n\n" + mainView
	}
	return mainView
}

const helpText = `
╔══════════════════════════════════════╗
║           KEYBOARD SHORTCUTS         ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume simulation  ║
║  N        - Single step when paused  ║
║  R        - Reseed and restart       ║
║  Arrows   - Rotate camera            ║
║  [ ]      - Roll camera              ║
║  W/A/S/D  - Pan camera               ║
║  +/-      - Zoom in/out              ║
║  0        - Reset camera             ║
║  T        - Toggle trails            ║
║  B        - Toggle bounding box      ║
║  C        - Cycle themes             ║
║  Q        - Quit                     ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝`

// heaviest returns up to n bodies by descending mass, ties broken by ID.
func heaviest(w *world.World, n int) []world.Entry {
	all := w.Snapshot()
	sort.SliceStable(all, func(i, j int) bool { return all[i].Body.Mass > all[j].Body.Mass })
	if len(all) > n {
		all = all[:n]
	}
	return all
}

func hexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

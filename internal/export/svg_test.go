package export

import (
	"image/color"
	"strings"
	"testing"

	"github.com/san-kum/planetsim/internal/physics"
	"github.com/san-kum/planetsim/internal/viz"
	"github.com/san-kum/planetsim/internal/world"
)

func TestBodiesToSVG(t *testing.T) {
	entries := []world.Entry{
		{ID: 1, Body: physics.Body{Mass: 1, Appearance: color.RGBA{R: 255, A: 255}}},
		{ID: 2, Body: physics.Body{Position: physics.Vec3{X: 10}, Mass: 8, Appearance: color.RGBA{B: 255, A: 255}}},
	}
	cam := viz.NewCamera(40)
	cam.RotX, cam.RotY = 0, 0

	svg := BodiesToSVG(entries, cam, 400, 400)
	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>") {
		t.Fatal("not a complete SVG document")
	}
	if n := strings.Count(svg, "<circle"); n != 2 {
		t.Errorf("circles = %d, want 2", n)
	}
	// 400px over a span of 40 is 10 px per unit; radius 1 at the center.
	if !strings.Contains(svg, `<circle cx="200" cy="200" r="10.0" fill="#ff0000"/>`) {
		t.Errorf("missing centered red body:\n%s", svg)
	}
	if !strings.Contains(svg, `fill="#0000ff"`) {
		t.Error("missing blue body")
	}
}

func TestBodiesToSVGSkipsOffscreen(t *testing.T) {
	entries := []world.Entry{
		{ID: 1, Body: physics.Body{Position: physics.Vec3{X: 1e6}, Mass: 1}},
	}
	cam := viz.NewCamera(40)
	cam.RotX, cam.RotY = 0, 0
	if n := strings.Count(BodiesToSVG(entries, cam, 100, 100), "<circle"); n != 0 {
		t.Errorf("circles = %d, want 0", n)
	}
}

func TestSeriesToSVG(t *testing.T) {
	if SeriesToSVG([]float64{1}, 100, 50, "#fff") != "" {
		t.Error("a single point should produce nothing")
	}
	svg := SeriesToSVG([]float64{150, 120, 90, 90}, 300, 100, "#00ff00")
	if !strings.Contains(svg, `stroke="#00ff00"`) {
		t.Error("stroke color missing")
	}
	if got := strings.Count(svg, " L"); got != 3 {
		t.Errorf("segments = %d, want 3", got)
	}
	if !strings.Contains(svg, "M0.0,") {
		t.Error("path should start at x=0")
	}
}

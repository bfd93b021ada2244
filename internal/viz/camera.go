package viz

import (
	"math"
	"sort"

	"github.com/san-kum/planetsim/internal/physics"
)

// Camera projects world coordinates onto the canvas. Span is the world
// extent that fills the shorter screen side at Zoom 1.
type Camera struct {
	Target           physics.Vec3
	Distance         float64
	Near             float64
	RotX, RotY, RotZ float64
	Zoom             float64
	Span             float64
}

func NewCamera(span float64) *Camera {
	if span <= 0 {
		span = 100
	}
	return &Camera{Distance: 2 * span, Near: 0.1, Zoom: 1.0, Span: span, RotX: 0.35, RotY: 0.5}
}

func (c *Camera) RotateX(a float64) { c.RotX += a }
func (c *Camera) RotateY(a float64) { c.RotY += a }
func (c *Camera) RotateZ(a float64) { c.RotZ += a }
func (c *Camera) ZoomIn()           { c.Zoom = math.Min(20, c.Zoom*1.2) }
func (c *Camera) ZoomOut()          { c.Zoom = math.Max(0.05, c.Zoom/1.2) }

// Pan moves the target by a fraction of the visible span, in screen axes.
func (c *Camera) Pan(dx, dy float64) {
	step := c.Span / c.Zoom * 0.1
	c.Target.X += dx * step
	c.Target.Y += dy * step
}

// Reset restores orientation and framing but keeps Span.
func (c *Camera) Reset() {
	*c = *NewCamera(c.Span)
}

// RotatePoint rotates a point around the camera's axes.
func (c *Camera) RotatePoint(p physics.Vec3) physics.Vec3 {
	cx, sx := math.Cos(c.RotX), math.Sin(c.RotX)
	p.Y, p.Z = p.Y*cx-p.Z*sx, p.Y*sx+p.Z*cx
	cy, sy := math.Cos(c.RotY), math.Sin(c.RotY)
	p.X, p.Z = p.X*cy+p.Z*sy, -p.X*sy+p.Z*cy
	cz, sz := math.Cos(c.RotZ), math.Sin(c.RotZ)
	p.X, p.Y = p.X*cz-p.Y*sz, p.X*sz+p.Y*cz
	return p
}

// PixelsPerUnit is the screen scale at the target plane.
func (c *Camera) PixelsPerUnit(sw, sh int) float64 {
	minDim := float64(sh)
	if float64(sw) < minDim {
		minDim = float64(sw)
	}
	return minDim / c.Span * c.Zoom
}

// Project converts world coordinates to screen coordinates.
// Returns x, y, the perspective factor, and visibility.
func (c *Camera) Project(p physics.Vec3, sw, sh int) (int, int, float64, bool) {
	rot := c.RotatePoint(p.Sub(c.Target))
	dist := c.Distance
	if rot.Z >= dist-c.Near {
		return 0, 0, 0, false
	}
	persp := dist / (dist - rot.Z)
	ppu := c.PixelsPerUnit(sw, sh) * persp
	sx := int(math.Round(rot.X*ppu)) + sw/2
	sy := int(math.Round(-rot.Y*ppu)) + sh/2
	return sx, sy, persp, sx >= 0 && sx < sw && sy >= 0 && sy < sh
}

type Edge struct {
	Start, End physics.Vec3
}

type Wireframe struct{ Edges []Edge }

func NewWireframe() *Wireframe { return &Wireframe{Edges: make([]Edge, 0)} }
func (w *Wireframe) AddEdge(s, e physics.Vec3) {
	w.Edges = append(w.Edges, Edge{s, e})
}

type projectedEdge struct {
	x1, y1, x2, y2 int
	depth          float64
}

// Render3D draws the wireframe to the canvas, far edges first.
func Render3D(c *Canvas, w *Wireframe, cam *Camera) {
	if c == nil || w == nil || cam == nil {
		return
	}
	pw, ph := c.PixelSize()
	proj := make([]projectedEdge, 0, len(w.Edges))
	for _, e := range w.Edges {
		x1, y1, d1, v1 := cam.Project(e.Start, pw, ph)
		x2, y2, d2, v2 := cam.Project(e.End, pw, ph)
		if v1 || v2 {
			proj = append(proj, projectedEdge{x1, y1, x2, y2, (d1 + d2) / 2})
		}
	}
	sort.Slice(proj, func(i, j int) bool { return proj[i].depth < proj[j].depth })
	for _, e := range proj {
		c.DrawLine(e.x1, e.y1, e.x2, e.y2)
	}
}

// CreateCubeWireframe returns the edges of an axis-aligned cube centered
// on the origin.
func CreateCubeWireframe(size float64) *Wireframe {
	w, s := NewWireframe(), size/2
	v := []physics.Vec3{{X: -s, Y: -s, Z: -s}, {X: s, Y: -s, Z: -s}, {X: s, Y: s, Z: -s}, {X: -s, Y: s, Z: -s},
		{X: -s, Y: -s, Z: s}, {X: s, Y: -s, Z: s}, {X: s, Y: s, Z: s}, {X: -s, Y: s, Z: s}}
	ei := [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}, {4, 5}, {5, 6}, {6, 7}, {7, 4}, {0, 4}, {1, 5}, {2, 6}, {3, 7}}
	for _, e := range ei {
		w.AddEdge(v[e[0]], v[e[1]])
	}
	return w
}

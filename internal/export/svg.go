// Package export renders stored runs as standalone SVG documents.
package export

import (
	"fmt"
	"image/color"
	"sort"
	"strings"

	"github.com/san-kum/planetsim/internal/viz"
	"github.com/san-kum/planetsim/internal/world"
)

// BodiesToSVG draws every entry as a filled circle sized by its radius,
// seen through cam. Nearer bodies are painted last.
func BodiesToSVG(entries []world.Entry, cam *viz.Camera, width, height int) string {
	if cam == nil {
		cam = viz.NewCamera(100)
	}

	type disc struct {
		x, y  int
		r     float64
		depth float64
		fill  color.RGBA
	}

	ppu := cam.PixelsPerUnit(width, height)
	discs := make([]disc, 0, len(entries))
	for _, e := range entries {
		x, y, persp, ok := cam.Project(e.Body.Position, width, height)
		if !ok {
			continue
		}
		r := e.Body.Radius() * ppu * persp
		if r < 0.5 {
			r = 0.5
		}
		discs = append(discs, disc{x, y, r, persp, e.Body.Appearance})
	}
	sort.SliceStable(discs, func(i, j int) bool { return discs[i].depth < discs[j].depth })

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g>
`, width, height, width, height)
	for _, d := range discs {
		fmt.Fprintf(&sb, `<circle cx="%d" cy="%d" r="%.1f" fill="#%02x%02x%02x"/>
`, d.x, d.y, d.r, d.fill.R, d.fill.G, d.fill.B)
	}
	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// SeriesToSVG plots values against their index as a single polyline.
func SeriesToSVG(values []float64, width, height int, strokeColor string) string {
	if len(values) < 2 {
		return ""
	}

	minY, maxY := values[0], values[0]
	for _, v := range values {
		if v < minY {
			minY = v
		}
		if v > maxY {
			maxY = v
		}
	}

	// Add padding
	rangeY := maxY - minY
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeY = maxY - minY
	rangeX := float64(len(values) - 1)

	var sb strings.Builder

	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor)

	for i, v := range values {
		x := float64(i) / rangeX * float64(width)
		y := float64(height) - (v-minY)/rangeY*float64(height)

		if i == 0 {
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}

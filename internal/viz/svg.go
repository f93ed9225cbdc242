package viz

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/orbitsim/internal/dynamo"
)

// OrbitsSVG draws the x-y trajectory of every body of a run as an SVG
// document size pixels square, centered on the origin. Bodies without a
// color are drawn in grey.
func OrbitsSVG(rec *dynamo.Record, size int) string {
	h := rec.History
	if h == nil || h.Len() == 0 || size <= 0 {
		return ""
	}

	var extent float64
	for _, xs := range h.Positions {
		extent = math.Max(extent, Extent(xs))
	}
	if extent == 0 {
		extent = 1
	}
	half := float64(size) / 2
	scale := half / (extent * 1.1)

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, size, size, size, size)

	for i, b := range rec.Bodies {
		color := b.Color
		if color == "" {
			color = "#888888"
		}
		fmt.Fprintf(&sb, `<path id="%s" fill="none" stroke="%s" stroke-width="1" d="`, b.Name, color)
		for day, xs := range h.Positions {
			if i >= len(xs) {
				break
			}
			x := half + xs[i].X()*scale
			y := half - xs[i].Y()*scale
			if day == 0 {
				fmt.Fprintf(&sb, "M%.1f,%.1f", x, y)
			} else {
				fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
			}
		}
		sb.WriteString("\"/>\n")
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}

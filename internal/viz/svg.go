package viz

import (
	"fmt"
	"html"
	"strings"
)

// Curve is a named polyline in data coordinates.
type Curve struct {
	Name string
	X, Y []float64
}

// CurvesToSVG draws curves on shared axes scaled to their joint bounds,
// with a legend in the top left corner.
func (t Theme) CurvesToSVG(curves []Curve, title string, width, height int) string {
	minX, maxX, minY, maxY, ok := bounds(curves)
	if !ok {
		return ""
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.05
	maxX += rangeX * 0.05
	minY -= rangeY * 0.05
	maxY += rangeY * 0.05
	rangeX = maxX - minX
	rangeY = maxY - minY

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	x0 := (0 - minX) / rangeX * float64(width)
	y0 := float64(height) - (0-minY)/rangeY*float64(height)
	sb.WriteString(fmt.Sprintf(`<g stroke="%s" stroke-width="0.5">
<line x1="0" y1="%.1f" x2="%d" y2="%.1f"/>
<line x1="%.1f" y1="0" x2="%.1f" y2="%d"/>
</g>
`, string(t.Muted), y0, width, y0, x0, x0, height))

	if title != "" {
		sb.WriteString(fmt.Sprintf(`<text x="%d" y="16" fill="%s" font-family="monospace" font-size="13" text-anchor="middle">%s</text>
`, width/2, string(t.Text), html.EscapeString(title)))
	}

	for i, c := range curves {
		n := min(len(c.X), len(c.Y))
		if n < 2 {
			continue
		}
		color := t.seriesColor(i)
		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, color))
		for j := 0; j < n; j++ {
			x := (c.X[j] - minX) / rangeX * float64(width)
			y := float64(height) - (c.Y[j]-minY)/rangeY*float64(height)
			if j == 0 {
				sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
			}
		}
		sb.WriteString("\"/>\n")
		sb.WriteString(fmt.Sprintf(`<text x="10" y="%d" fill="%s" font-family="monospace" font-size="12">%s</text>
`, 34+16*i, color, html.EscapeString(c.Name)))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

func bounds(curves []Curve) (minX, maxX, minY, maxY float64, ok bool) {
	for _, c := range curves {
		n := min(len(c.X), len(c.Y))
		if n < 2 {
			continue
		}
		for j := 0; j < n; j++ {
			if !ok {
				minX, maxX, minY, maxY = c.X[j], c.X[j], c.Y[j], c.Y[j]
				ok = true
				continue
			}
			minX = min(minX, c.X[j])
			maxX = max(maxX, c.X[j])
			minY = min(minY, c.Y[j])
			maxY = max(maxY, c.Y[j])
		}
	}
	return minX, maxX, minY, maxY, ok
}

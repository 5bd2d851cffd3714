package report

import (
	"fmt"
	"strings"

	"github.com/san-kum/ecosim/internal/bgc"
)

// SeriesSVG draws one annual series against calendar year as an SVG line
// chart with a caption. Fewer than two years yields an empty string.
func SeriesSVG(annual []bgc.AnnualSummary, name string, width, height int) (string, error) {
	values, err := Series(annual, name)
	if err != nil {
		return "", err
	}
	if len(values) < 2 {
		return "", nil
	}

	minX, maxX := float64(annual[0].Year), float64(annual[len(annual)-1].Year)
	minY, maxY := values[0], values[0]
	for _, v := range values {
		minY = min(minY, v)
		maxY = max(maxY, v)
	}

	lo, hi := minY, maxY
	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeY = maxY - minY

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a140a"/>
<text x="8" y="16" fill="#88dd66" font-family="monospace" font-size="12">%s %d-%d [%.4g, %.4g]</text>
<path fill="none" stroke="#ccee99" stroke-width="1.5" d="M`,
		width, height, width, height, name, annual[0].Year, annual[len(annual)-1].Year, lo, hi)

	for i, v := range values {
		x := (float64(annual[i].Year) - minX) / rangeX * float64(width)
		y := float64(height) - (v-minY)/rangeY*float64(height)
		if i == 0 {
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String(), nil
}

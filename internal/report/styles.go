package report

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var Panel = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("#446644")).
	Padding(0, 2)

var Header = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("#ffffff")).
	BorderStyle(lipgloss.NormalBorder()).
	BorderBottom(true).
	BorderForeground(lipgloss.Color("#446644"))

var Label = lipgloss.NewStyle().Foreground(lipgloss.Color("#889988")).Width(22)

var (
	Title  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#88dd66"))
	Subtle = lipgloss.NewStyle().Foreground(lipgloss.Color("#668866"))
	Value  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ccee99"))

	Good = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ff88"))
	Warn = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffaa00"))
	Bad  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff4444"))
)

// Sparkline renders values as block characters, sampled to width. Gains
// are green and losses red.
func Sparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return strings.Repeat("─", max(width, 0))
	}
	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	rng := hi - lo
	if rng == 0 {
		rng = 1
	}

	step := len(values) / width
	if step < 1 {
		step = 1
	}

	var b strings.Builder
	for i := 0; i < width && i*step < len(values); i++ {
		v := values[i*step]
		idx := int((v - lo) / rng * float64(len(chars)-1))
		idx = min(max(idx, 0), len(chars)-1)
		if v < 0 {
			b.WriteString(Bad.Render(string(chars[idx])))
		} else {
			b.WriteString(Good.Render(string(chars[idx])))
		}
	}
	return b.String()
}

// Separator is a decorated horizontal rule.
func Separator(width int) string {
	mid := width / 2
	left := strings.Repeat("─", max(mid-3, 0))
	right := strings.Repeat("─", max(width-mid-3, 0))
	return Subtle.Render(left + " ◆ " + right)
}

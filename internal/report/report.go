// Package report renders run outcomes for the terminal.
package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/ecosim/internal/bgc"
	"github.com/san-kum/ecosim/internal/experiment"
	"github.com/san-kum/ecosim/internal/sim"
	"github.com/san-kum/ecosim/internal/storage"
)

func row(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, Label.Render(label), Value.Render(value))
}

func spinupLine(o *sim.SpinupOutcome) string {
	status := Good.Render("converged")
	if !o.Converged {
		status = Warn.Render("year cap reached")
	}
	return fmt.Sprintf("%s after %d years (block %d, trend %.2e)", status, o.Years, o.NBlock, o.Trend)
}

// Summary renders a finished experiment as a bordered panel.
func Summary(out *experiment.Outcome) string {
	final := out.Final()
	st := final.State

	lines := []string{
		Title.Render("ecosim " + out.Mode),
		Subtle.Render(out.RunID.String()),
		"",
		row("years", fmt.Sprintf("%d", len(final.Annual))),
		row("days", fmt.Sprintf("%d", final.Days)),
		row("elapsed", out.Elapsed.Round(time.Millisecond).String()),
	}
	if out.Spinup != nil && out.Spinup.Spinup != nil {
		lines = append(lines, row("spinup", spinupLine(out.Spinup.Spinup)))
	}

	lines = append(lines, "", Header.Render("final pools (kg m⁻²)"))
	lines = append(lines,
		row("vegetation C", fmt.Sprintf("%.4f", st.Carbon.VegC())),
		row("litter C", fmt.Sprintf("%.4f", st.Carbon.LitterC())),
		row("soil C", fmt.Sprintf("%.4f", st.Carbon.SoilC())),
		row("soil N", fmt.Sprintf("%.5f", st.Nitrogen.SoilN())),
		row("mineral N", fmt.Sprintf("%.6f", st.Nitrogen.SminN)),
		row("soil water", fmt.Sprintf("%.2f", st.Water.SoilW)),
	)

	if len(final.Annual) > 0 {
		nep := make([]float64, len(final.Annual))
		for i, a := range final.Annual {
			nep[i] = a.NEP
		}
		lines = append(lines, "", row("annual NEP", Sparkline(nep, 40)))
	}

	lines = append(lines, "", Header.Render("balance drift"))
	for _, d := range []string{"water", "carbon", "nitrogen"} {
		lines = append(lines, row(d, fmt.Sprintf("%.3e", final.MaxDrift[d])))
	}

	if len(final.Metrics) > 0 {
		lines = append(lines, "", Header.Render("metrics"))
		names := make([]string, 0, len(final.Metrics))
		for name := range final.Metrics {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			lines = append(lines, row(name, fmt.Sprintf("%.6g", final.Metrics[name])))
		}
	}

	if out.Restart != "" {
		lines = append(lines, "", row("restart", out.Restart))
	}
	return Panel.Render(strings.Join(lines, "\n"))
}

// RunTable lists catalogued runs one per line.
func RunTable(runs []storage.RunMetadata) string {
	if len(runs) == 0 {
		return Subtle.Render("no runs recorded")
	}
	var b strings.Builder
	b.WriteString(Header.Render(fmt.Sprintf("%-36s  %-12s  %-8s  %6s  %s", "id", "mode", "veg", "years", "when")))
	b.WriteString("\n")
	for _, r := range runs {
		line := fmt.Sprintf("%-36s  %-12s  %-8s  %6d  %s",
			r.ID, r.Mode, r.Vegetation, r.Years, r.Timestamp.Format("2006-01-02 15:04"))
		if r.Spinup != nil && !r.Spinup.Converged {
			line = Warn.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

// Series picks one annual quantity by name.
func Series(annual []bgc.AnnualSummary, name string) ([]float64, error) {
	get, ok := annualFields[name]
	if !ok {
		return nil, fmt.Errorf("unknown annual series %q", name)
	}
	out := make([]float64, len(annual))
	for i := range annual {
		out[i] = get(&annual[i])
	}
	return out, nil
}

var annualFields = map[string]func(a *bgc.AnnualSummary) float64{
	"gpp":     func(a *bgc.AnnualSummary) float64 { return a.GPP },
	"npp":     func(a *bgc.AnnualSummary) float64 { return a.NPP },
	"nep":     func(a *bgc.AnnualSummary) float64 { return a.NEP },
	"nee":     func(a *bgc.AnnualSummary) float64 { return a.NEE },
	"hr":      func(a *bgc.AnnualSummary) float64 { return a.HR },
	"prcp":    func(a *bgc.AnnualSummary) float64 { return a.Prcp },
	"et":      func(a *bgc.AnnualSummary) float64 { return a.ET },
	"outflow": func(a *bgc.AnnualSummary) float64 { return a.Outflow },
	"max_lai": func(a *bgc.AnnualSummary) float64 { return a.MaxLAI },
	"soil_c":  func(a *bgc.AnnualSummary) float64 { return a.SoilC },
	"veg_c":   func(a *bgc.AnnualSummary) float64 { return a.VegC },
	"total_c": func(a *bgc.AnnualSummary) float64 { return a.TotalC },
	"soil_n":  func(a *bgc.AnnualSummary) float64 { return a.SoilN },
}

// SeriesNames lists the names Series accepts.
func SeriesNames() []string {
	names := make([]string, 0, len(annualFields))
	for name := range annualFields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Plot draws an annual series as an ASCII line chart.
func Plot(values []float64, caption string, width, height int) string {
	if len(values) == 0 {
		return Subtle.Render("no data")
	}
	return asciigraph.Plot(values,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}

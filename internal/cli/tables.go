package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/spancal/pkg/calibrate"
	"github.com/matzehuels/spancal/pkg/layout"
	"github.com/matzehuels/spancal/pkg/monitor"
	"github.com/matzehuels/spancal/pkg/plan"
	"github.com/matzehuels/spancal/pkg/store"
)

var headerStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true)

// newTable returns a rounded table with the shared header style. highlight
// marks data rows drawn in the accent color.
func newTable(headers []string, rows [][]string, highlight func(row int) bool) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			base := lipgloss.NewStyle().Padding(0, 1)
			if row == -1 {
				return headerStyle.Padding(0, 1)
			}
			if highlight != nil && highlight(row) {
				return base.Foreground(colorCyan)
			}
			return base
		})
}

func monitorTable(ms []monitor.Monitor) string {
	rows := make([][]string, len(ms))
	for i, m := range ms {
		size, ppi := "?", "?"
		if m.HasPhysicalSize() {
			size = fmt.Sprintf("%dx%d mm (%s)", m.PhysicalWidthMM, m.PhysicalHeightMM, m.SizeSource)
		}
		if v, ok := m.KnownPPI(); ok {
			ppi = fmt.Sprintf("%.1f", v)
		}
		rows[i] = []string{
			strconv.Itoa(m.ID),
			m.DisplayName(),
			fmt.Sprintf("%dx%d", m.ResolutionX, m.ResolutionY),
			fmt.Sprintf("%d,%d", m.PositionX, m.PositionY),
			size,
			ppi,
		}
	}
	return newTable([]string{"ID", "Name", "Resolution", "Position", "Physical", "PPI"}, rows,
		func(row int) bool { return ms[row].Primary }).Render()
}

func planTable(ms []monitor.Monitor, pairs []plan.Pair) string {
	rows := make([][]string, len(pairs))
	for i, p := range pairs {
		rows[i] = []string{
			strconv.Itoa(i + 1),
			ms[p.Child].DisplayName(),
			ms[p.Parent].DisplayName(),
			string(p.Orientation),
		}
	}
	return newTable([]string{"#", "Monitor", "Bound to", "Orientation"}, rows, nil).Render()
}

func resultTable(ms []monitor.Monitor, results []calibrate.Result) string {
	names := make(map[int]string, len(ms))
	for _, m := range ms {
		names[m.ID] = m.DisplayName()
	}
	rows := make([][]string, len(results))
	for i, r := range results {
		rows[i] = []string{
			names[r.MonitorID],
			names[r.BoundTo],
			string(r.Orientation),
			fmt.Sprintf("%.4f", r.Scale),
			fmt.Sprintf("%.1f", r.Offset),
			strconv.Itoa(r.Gap),
		}
	}
	return newTable([]string{"Monitor", "Bound to", "Orientation", "Scale", "Offset", "Gap"}, rows, nil).Render()
}

func placementTable(ms []monitor.Monitor, ps []layout.Placement) string {
	rows := make([][]string, len(ps))
	for i, p := range ps {
		m := ms[p.Index]
		rows[i] = []string{
			m.DisplayName(),
			fmt.Sprintf("%.2f", p.X),
			fmt.Sprintf("%.2f", p.Y),
			fmt.Sprintf("%.2f x %.2f", p.Width, p.Height),
		}
	}
	return newTable([]string{"Monitor", "X (in)", "Y (in)", "Size (in)"}, rows,
		func(row int) bool { return ms[ps[row].Index].Primary }).Render()
}

func runTable(runs []store.Summary) string {
	rows := make([][]string, len(runs))
	for i, r := range runs {
		rows[i] = []string{
			r.ID,
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
			strconv.Itoa(r.Monitors),
			strconv.Itoa(r.Pairs),
		}
	}
	return newTable([]string{"Run", "Created", "Monitors", "Pairs"}, rows,
		func(row int) bool { return row == 0 }).Render()
}

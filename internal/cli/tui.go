package cli

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	spanerrors "github.com/matzehuels/spancal/pkg/errors"
	"github.com/matzehuels/spancal/pkg/monitor"
	"github.com/matzehuels/spancal/pkg/overlay"
)

// Terminal styles
var (
	tuiTitleStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	tuiValueStyle    = lipgloss.NewStyle().Foreground(colorWhite)
	tuiHelpStyle     = lipgloss.NewStyle().Foreground(colorDim)
	tuiChildStyle    = lipgloss.NewStyle().Foreground(colorYellow)
	tuiParentStyle   = lipgloss.NewStyle().Foreground(colorGreen)
	tuiSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	tuiFrameStyle    = lipgloss.NewStyle().Foreground(colorGray)
)

// The drawing starts below three header rows and is followed by one help
// row.
const (
	tuiDrawTop    = 3
	tuiChromeRows = 4
)

// =============================================================================
// terminalSurface - overlay.Surface backed by bubbletea
// =============================================================================

// terminalSurface runs each adjustment pass as a full-screen bubbletea
// program. The two monitors of the pair are drawn scaled down into the
// terminal; mouse drags and keys are translated back into virtual-desktop
// coordinates for the session.
type terminalSurface struct {
	names []string
	opts  []tea.ProgramOption
}

func newTerminalSurface(ms []monitor.Monitor, opts ...tea.ProgramOption) *terminalSurface {
	names := make([]string, len(ms))
	for i, m := range ms {
		names[i] = m.DisplayName()
	}
	return &terminalSurface{names: names, opts: opts}
}

// Adjust implements overlay.Surface.
func (s *terminalSurface) Adjust(ctx context.Context, cfg overlay.Config) (overlay.Result, error) {
	sess, err := overlay.NewSession(cfg)
	if err != nil {
		return overlay.Result{}, err
	}

	opts := append([]tea.ProgramOption{
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	}, s.opts...)
	final, err := tea.NewProgram(newAdjustModel(sess, s.names), opts...).Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return overlay.Result{Cancelled: true}, nil
		}
		return overlay.Result{}, spanerrors.Wrap(spanerrors.ErrCodeSurfaceFailure, err, "terminal %s pass", cfg.Step)
	}

	m, ok := final.(adjustModel)
	if !ok || !m.session.Done() {
		return overlay.Result{Cancelled: true}, nil
	}
	return m.session.Result(), nil
}

// =============================================================================
// viewport - virtual pixels to terminal cells
// =============================================================================

// viewport maps a virtual-desktop region onto a grid of terminal cells.
// Cells are assumed to be twice as tall as they are wide.
type viewport struct {
	originX, originY float64 // virtual coordinate of the grid's top-left cell
	cellW, cellH     float64 // virtual pixels per cell
	cols, rows       int
}

// fitViewport frames rects inside a cols x rows grid with one cell of
// margin, keeping the aspect ratio.
func fitViewport(rects []monitor.Rect, cols, rows int) viewport {
	cols, rows = max(cols, 4), max(rows, 4)
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, r := range rects {
		minX, minY = math.Min(minX, float64(r.X)), math.Min(minY, float64(r.Y))
		maxX, maxY = math.Max(maxX, float64(r.X+r.W)), math.Max(maxY, float64(r.Y+r.H))
	}
	w, h := maxX-minX, maxY-minY

	cell := math.Max(w/float64(cols-2), h/float64(2*(rows-2)))
	if !(cell > 0) {
		cell = 1
	}
	vp := viewport{cellW: cell, cellH: 2 * cell, cols: cols, rows: rows}
	vp.originX = minX - (float64(cols)*vp.cellW-w)/2
	vp.originY = minY - (float64(rows)*vp.cellH-h)/2
	return vp
}

// cell returns the grid cell containing virtual point (x, y).
func (v viewport) cell(x, y float64) (col, row int) {
	return int(math.Floor((x - v.originX) / v.cellW)), int(math.Floor((y - v.originY) / v.cellH))
}

// point returns the virtual coordinate at the center of a cell.
func (v viewport) point(col, row int) (x, y int) {
	return int(math.Round(v.originX + (float64(col)+0.5)*v.cellW)),
		int(math.Round(v.originY + (float64(row)+0.5)*v.cellH))
}

// =============================================================================
// adjustModel - one adjustment pass
// =============================================================================

type adjustModel struct {
	session *overlay.Session
	names   []string
	width   int
	height  int

	// snap keeps a drag anchored on the line's true position although the
	// pointer can only land on cell centers.
	snapX, snapY int
}

func newAdjustModel(sess *overlay.Session, names []string) adjustModel {
	return adjustModel{session: sess, names: names, width: 80, height: 24}
}

func (m adjustModel) viewport() viewport {
	cfg := m.session.Config()
	pair := []monitor.Rect{cfg.Rects[cfg.Child], cfg.Rects[cfg.Parent]}
	return fitViewport(pair, m.width, m.height-tuiChromeRows)
}

func (m adjustModel) Init() tea.Cmd {
	return nil
}

func (m adjustModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	s := m.session
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height

	case tea.KeyMsg:
		switch key := msg.String(); key {
		case "esc", "q", "ctrl+c":
			s.Cancel()
			return m, tea.Quit
		case "enter":
			s.Confirm()
			return m, tea.Quit
		case "1", "2", "3", "4":
			s.Select(int(key[0] - '1'))
		case "tab":
			s.Select((s.LastInteracted() + 1) % 4)
		case "up", "left", "k", "h":
			s.Nudge(-1)
		case "down", "right", "j", "l":
			s.Nudge(1)
		case "pgup", "shift+up", "shift+left":
			s.Nudge(-10)
		case "pgdown", "shift+down", "shift+right":
			s.Nudge(10)
		}

	case tea.MouseMsg:
		m = m.handleMouse(msg)
	}
	return m, nil
}

func (m adjustModel) handleMouse(msg tea.MouseMsg) adjustModel {
	s := m.session
	vp := m.viewport()
	col, row := msg.X, msg.Y-tuiDrawTop
	x, y := vp.point(col, row)

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m
		}
		m.snapX, m.snapY = 0, 0
		if line := m.lineAtCell(vp, col, row); line >= 0 {
			v := s.Lines()[line]
			if s.Config().Orientation == monitor.Vertical {
				m.snapX = v - x
			} else {
				m.snapY = v - y
			}
		}
		s.Press(x+m.snapX, y+m.snapY)
	case tea.MouseActionMotion:
		s.Move(x+m.snapX, y+m.snapY)
	case tea.MouseActionRelease:
		s.Release()
	}
	return m
}

// lineAtCell returns the Scale-step line drawn through the cell, or -1.
func (m adjustModel) lineAtCell(vp viewport, col, row int) int {
	s := m.session
	cfg := s.Config()
	if cfg.Step != overlay.StepScale {
		return -1
	}
	for i, v := range s.Lines() {
		r := cfg.Rects[cfg.Parent]
		if i%2 == 0 {
			r = cfg.Rects[cfg.Child]
		}
		c0, r0 := vp.cell(float64(r.X), float64(r.Y))
		c1, r1 := vp.cell(float64(r.X+r.W-1), float64(r.Y+r.H-1))
		if cfg.Orientation == monitor.Vertical {
			lc, _ := vp.cell(float64(v), 0)
			if lc == col && row >= r0 && row <= r1 {
				return i
			}
			continue
		}
		_, lr := vp.cell(0, float64(v))
		if lr == row && col >= c0 && col <= c1 {
			return i
		}
	}
	return -1
}

func (m adjustModel) View() string {
	s := m.session
	cfg := s.Config()
	var b strings.Builder

	child, parent := m.name(cfg.Child), m.name(cfg.Parent)
	b.WriteString(tuiTitleStyle.Render(fmt.Sprintf("%s pass", titleCase(cfg.Step.String()))))
	b.WriteString(tuiHelpStyle.Render(fmt.Sprintf("  %s against %s (%s)", child, parent, cfg.Orientation)))
	b.WriteString("\n")
	if cfg.Step == overlay.StepScale {
		lines := s.Lines()
		b.WriteString(tuiValueStyle.Render(fmt.Sprintf("near %d / %d   far %d / %d", lines[0], lines[1], lines[2], lines[3])))
	} else {
		b.WriteString(tuiValueStyle.Render(fmt.Sprintf("gap %d px", s.Gap())))
	}
	b.WriteString("\n\n")

	b.WriteString(m.drawing())
	b.WriteString("\n")

	help := "enter confirm · esc cancel · drag or arrows to move"
	if cfg.Step == overlay.StepScale {
		help = "1-4/tab select line · " + help
	}
	b.WriteString(tuiHelpStyle.Render(help))
	return b.String()
}

func (m adjustModel) name(i int) string {
	if i >= 0 && i < len(m.names) {
		return m.names[i]
	}
	return fmt.Sprintf("Display %d", i+1)
}

// drawing renders the two monitors of the pair with their reference lines
// (Scale) or seam markers (Gap).
func (m adjustModel) drawing() string {
	s := m.session
	cfg := s.Config()
	vp := m.viewport()
	vertical := cfg.Orientation == monitor.Vertical

	grid := make([][]string, vp.rows)
	for r := range grid {
		grid[r] = make([]string, vp.cols)
		for c := range grid[r] {
			grid[r][c] = " "
		}
	}
	set := func(col, row int, cell string) {
		if row >= 0 && row < len(grid) && col >= 0 && col < vp.cols {
			grid[row][col] = cell
		}
	}

	type box struct {
		rect  monitor.Rect
		style lipgloss.Style
		label string
	}
	boxes := []box{
		{cfg.Rects[cfg.Parent], tuiParentStyle, m.name(cfg.Parent)},
		{cfg.Rects[cfg.Child], tuiChildStyle, m.name(cfg.Child)},
	}
	spans := make([][4]int, len(boxes))
	for i, bx := range boxes {
		c0, r0 := vp.cell(float64(bx.rect.X), float64(bx.rect.Y))
		c1, r1 := vp.cell(float64(bx.rect.X+bx.rect.W-1), float64(bx.rect.Y+bx.rect.H-1))
		spans[i] = [4]int{c0, r0, c1, r1}
		for c := c0; c <= c1; c++ {
			set(c, r0, bx.style.Render("─"))
			set(c, r1, bx.style.Render("─"))
		}
		for r := r0; r <= r1; r++ {
			set(c0, r, bx.style.Render("│"))
			set(c1, r, bx.style.Render("│"))
		}
		set(c0, r0, bx.style.Render("╭"))
		set(c1, r0, bx.style.Render("╮"))
		set(c0, r1, bx.style.Render("╰"))
		set(c1, r1, bx.style.Render("╯"))
		for k, ch := range []rune(bx.label) {
			set(c0+2+k, r0+1, bx.style.Render(string(ch)))
		}
	}

	if cfg.Step == overlay.StepScale {
		for i, v := range s.Lines() {
			sp := spans[0]
			style := tuiParentStyle
			if i%2 == 0 {
				sp, style = spans[1], tuiChildStyle
			}
			glyph := "┄"
			if vertical {
				glyph = "┆"
			}
			if i == s.LastInteracted() || i == s.Selected() {
				style = tuiSelectedStyle
				glyph = "━"
				if vertical {
					glyph = "┃"
				}
			}
			if vertical {
				col, _ := vp.cell(float64(v), 0)
				for r := sp[1] + 1; r < sp[3]; r++ {
					set(col, r, style.Render(glyph))
				}
				continue
			}
			_, row := vp.cell(0, float64(v))
			for c := sp[0] + 1; c < sp[2]; c++ {
				set(c, row, style.Render(glyph))
			}
		}
	} else {
		// Seam markers at each monitor's midpoint, the child's shifted by
		// the gap across the seam.
		mid := s.Midpoints()
		seamX, seamY := seam(cfg.Rects[cfg.Child], cfg.Rects[cfg.Parent], vertical)
		if vertical {
			c0, r0 := vp.cell(float64(mid[0]), float64(seamY+s.Gap()))
			c1, r1 := vp.cell(float64(mid[1]), float64(seamY))
			set(c0, r0, tuiChildStyle.Render("╲"))
			set(c1, r1, tuiParentStyle.Render("╲"))
		} else {
			c0, r0 := vp.cell(float64(seamX+s.Gap()), float64(mid[0]))
			c1, r1 := vp.cell(float64(seamX), float64(mid[1]))
			set(c0, r0, tuiChildStyle.Render("╱"))
			set(c1, r1, tuiParentStyle.Render("╱"))
		}
	}

	rows := make([]string, len(grid))
	for r, cells := range grid {
		rows[r] = strings.Join(cells, "")
	}
	return tuiFrameStyle.Render(strings.Join(rows, "\n"))
}

// seam returns the child's edge facing the parent.
func seam(child, parent monitor.Rect, vertical bool) (x, y int) {
	if vertical {
		if child.Y >= parent.Y+parent.H {
			return 0, child.Y
		}
		return 0, child.Y + child.H
	}
	if child.X >= parent.X+parent.W {
		return child.X, 0
	}
	return child.X + child.W, 0
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/trackbump/pkg/bump"
	"github.com/matzehuels/trackbump/pkg/errors"
	"github.com/matzehuels/trackbump/pkg/feature"
)

// viewModes is the order the viewer cycles through with "m".
var viewModes = []bump.Mode{bump.ModeOverlap, bump.ModeAll, bump.ModeAlternating, bump.ModeUnbump}

var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// ColumnViewModel - Interactive column browser
// =============================================================================

// ColumnViewModel is the bubbletea model for browsing a bumped track one
// column per line. Each line draws the column's features as a strip over
// the track's full extent.
type ColumnViewModel struct {
	Track  *feature.Track
	Engine *bump.Engine
	Mode   bump.Mode
	Window *feature.Window

	Result  bump.Result
	Err     error
	Columns [][]*feature.Feature

	Cursor int
	Offset int
	Height int
	Width  int
}

// NewColumnViewModel bumps t in mode and returns a model showing the
// result.
func NewColumnViewModel(t *feature.Track, engine *bump.Engine, mode bump.Mode, window *feature.Window) ColumnViewModel {
	m := ColumnViewModel{Track: t, Engine: engine, Mode: mode, Window: window, Height: 15, Width: 60}
	m.rebump()
	return m
}

// rebump runs the engine in the current mode and regroups features.
func (m *ColumnViewModel) rebump() {
	m.Result, m.Err = m.Engine.Run(m.Track, bump.Request{Mode: m.Mode, Window: m.Window})
	if errors.Is(m.Err, errors.ErrCodeCoordinateOverflow) {
		m.Err = nil
	}
	m.Columns = groupColumns(m.Track.Visible())
	m.Cursor, m.Offset = 0, 0
}

// groupColumns buckets features by assigned column.
func groupColumns(fs []*feature.Feature) [][]*feature.Feature {
	var cols [][]*feature.Feature
	for _, f := range fs {
		c := f.Layout.Column
		for len(cols) <= c {
			cols = append(cols, nil)
		}
		cols[c] = append(cols[c], f)
	}
	return cols
}

// nextMode returns the mode after cur in viewModes.
func nextMode(cur bump.Mode) bump.Mode {
	for i, m := range viewModes {
		if m == cur {
			return viewModes[(i+1)%len(viewModes)]
		}
	}
	return viewModes[0]
}

func (m ColumnViewModel) Init() tea.Cmd {
	return nil
}

func (m ColumnViewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Columns)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "m":
			m.Mode = nextMode(m.Mode)
			m.rebump()
		}
	case tea.WindowSizeMsg:
		m.Height = max(5, msg.Height-8)
		m.Width = max(20, msg.Width-16)
	}
	return m, nil
}

func (m ColumnViewModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Track.Name))
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  %s · %d columns · width %.0f",
		m.Result.Mode, m.Result.Columns, m.Result.BumpedWidth)))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  m mode  q quit"))
	b.WriteString("\n\n")

	if m.Err != nil {
		b.WriteString(styleIconError.Render(iconError) + " " + m.Err.Error() + "\n")
		return b.String()
	}
	if !m.Result.Success {
		b.WriteString(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(m.Result.Warning) + "\n\n")
	}

	lo, hi := trackSpan(m.Track.Visible())
	end := min(m.Offset+m.Height, len(m.Columns))
	for i := m.Offset; i < end; i++ {
		cursor := "  "
		label := listDimStyle.Render(fmt.Sprintf("col %3d", i))
		if i == m.Cursor {
			cursor = "▸ "
			label = listSelectedStyle.Render(fmt.Sprintf("col %3d", i))
		}
		strip := columnStyle(i).Render(columnStrip(m.Columns[i], lo, hi, m.Width))
		fmt.Fprintf(&b, "%s%s %s %s\n", cursor, label, strip, listDimStyle.Render(fmt.Sprint(len(m.Columns[i]))))
	}

	if len(m.Columns) > 0 {
		b.WriteString("\n")
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d] %s", m.Cursor+1, len(m.Columns), columnNames(m.Columns[m.Cursor], m.Width))))
	}
	return b.String()
}

// trackSpan returns the smallest extent covering fs.
func trackSpan(fs []*feature.Feature) (lo, hi int) {
	if len(fs) == 0 {
		return 0, 0
	}
	lo, hi = fs[0].Extent.Start, fs[0].Extent.End
	for _, f := range fs[1:] {
		lo = min(lo, f.Extent.Start)
		hi = max(hi, f.Extent.End)
	}
	return lo, hi
}

// columnStrip draws fs as filled cells on a width-cell ruler spanning
// [lo, hi]. Every feature covers at least one cell.
func columnStrip(fs []*feature.Feature, lo, hi, width int) string {
	if width <= 0 {
		return ""
	}
	cells := []rune(strings.Repeat("·", width))
	span := hi - lo + 1
	cell := func(pos int) int {
		if span <= 1 {
			return 0
		}
		return min(width-1, (pos-lo)*width/span)
	}
	for _, f := range fs {
		for c := cell(f.Extent.Start); c <= cell(f.Extent.End); c++ {
			cells[c] = '█'
		}
	}
	return string(cells)
}

// columnNames lists feature names up to roughly width characters.
func columnNames(fs []*feature.Feature, width int) string {
	var names []string
	n := 0
	for i, f := range fs {
		name := f.Name
		if name == "" {
			name = f.ID
		}
		if n+len(name) > width && i > 0 {
			names = append(names, fmt.Sprintf("+%d more", len(fs)-i))
			break
		}
		names = append(names, name)
		n += len(name) + 2
	}
	return strings.Join(names, ", ")
}

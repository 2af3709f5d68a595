package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/skewer/pkg/fold"
	"github.com/matzehuels/skewer/pkg/glyph"
	"github.com/matzehuels/skewer/pkg/pipeline"
)

// viewCommand creates the interactive track viewer.
func (c *CLI) viewCommand() *cobra.Command {
	var flags optionFlags

	cmd := &cobra.Command{
		Use:   "view [batch.json]",
		Short: "Explore a packed track interactively",
		Long: `Explore a packed track interactively.

Pan with the arrow keys, select a unit with up/down and fold or unfold it
with enter. Units that stay in view keep their state while panning; "s"
recomputes the automatic selection.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options(cmd)
			if err != nil {
				return err
			}
			batch, err := pipeline.LoadBatch(args[0])
			if err != nil {
				return fmt.Errorf("load batch %s: %w", args[0], err)
			}
			session, err := c.newRunner(0).Session(batch, opts)
			if err != nil {
				return err
			}
			defer session.Close()

			_, err = tea.NewProgram(newTrackModel(session), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	flags.register(cmd)
	return cmd
}

// =============================================================================
// TrackModel - Interactive track
// =============================================================================

var (
	stripUnfoldedStyle = lipgloss.NewStyle().Foreground(colorGreen)
	stripAxisStyle     = lipgloss.NewStyle().Foreground(colorDim)
	stripCursorStyle   = lipgloss.NewStyle().Foreground(colorYellow)
	listDimStyle       = lipgloss.NewStyle().Foreground(colorDim)
)

// panFraction is the share of the viewport one arrow key press pans.
const panFraction = 0.1

// TrackModel is the bubbletea model of the view command.
type TrackModel struct {
	session *pipeline.Session
	layout  pipeline.Layout

	Cursor int
	Offset int
	Height int // visible table rows
	Cols   int // strip width in terminal cells
	Err    error
}

func newTrackModel(s *pipeline.Session) TrackModel {
	m := TrackModel{session: s, Height: 10, Cols: 80}
	m.layout = s.Layout()
	return m
}

func (m TrackModel) Init() tea.Cmd {
	return nil
}

func (m TrackModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "left", "h":
			m.Err = m.session.Pan(m.layout.Viewport.Width() * panFraction)
		case "right", "l":
			m.Err = m.session.Pan(-m.layout.Viewport.Width() * panFraction)
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.layout.Units)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter", " ":
			if m.Cursor < len(m.layout.Units) {
				m.Err = m.session.Toggle(m.layout.Units[m.Cursor].Key)
			}
		case "s":
			m.session.Settle()
			m.Err = nil
		}
	case tea.WindowSizeMsg:
		m.Cols = max(msg.Width-2, 10)
		m.Height = max(msg.Height-14, 5)
	}

	m.layout = m.session.Layout()
	// A pan regroups, so the number of units can shrink.
	if n := len(m.layout.Units); m.Cursor >= n {
		m.Cursor = max(n-1, 0)
		m.Offset = min(m.Offset, m.Cursor)
	}
	return m, nil
}

func (m TrackModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(appName + " view"))
	b.WriteString(" " + listDimStyle.Render(shortID(m.layout.Batch)))
	if locus := m.session.Locus(); locus != "" {
		b.WriteString(" " + listDimStyle.Render(locus))
	}
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("←/→ pan  ↑/↓ select  ⏎ fold/unfold  s settle  q quit"))
	b.WriteString("\n\n")

	selected := ""
	if m.Cursor < len(m.layout.Units) {
		selected = m.layout.Units[m.Cursor].Key
	}
	glyphs, axisRow, cursor := renderStrip(m.layout.Units, m.layout.Viewport, m.Cols, selected)
	b.WriteString(stripUnfoldedStyle.Render(glyphs) + "\n")
	b.WriteString(stripAxisStyle.Render(axisRow) + "\n")
	b.WriteString(stripCursorStyle.Render(cursor) + "\n\n")

	b.WriteString(m.table())
	b.WriteString("\n")
	b.WriteString(statsLine(m.layout.Stats, false))
	b.WriteString("\n")
	if m.layout.Message != "" {
		b.WriteString(StyleWarning.Render("  "+m.layout.Message) + "\n")
	}
	if m.Err != nil {
		b.WriteString(StyleWarning.Render("  "+m.Err.Error()) + "\n")
	}
	return b.String()
}

func (m TrackModel) table() string {
	units := m.layout.Units
	end := min(m.Offset+m.Height, len(units))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		u := units[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		label := u.Label
		if label == "" {
			label = "—"
		}
		rows = append(rows, []string{
			cursor,
			label,
			fmt.Sprintf("%s:%d", u.Chr, u.Pos),
			strconv.Itoa(u.Count),
			u.State.String(),
			strconv.FormatFloat(u.X, 'f', 1, 64),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Label", "Position", "Count", "State", "X").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			idx := m.Offset + row
			if idx >= len(units) {
				return lipgloss.NewStyle()
			}
			base := lipgloss.NewStyle()
			if units[idx].State == glyph.Unfolded {
				base = base.Foreground(colorGreen)
			} else {
				base = base.Foreground(colorDim)
			}
			if idx == m.Cursor {
				return base.Bold(true)
			}
			return base
		})

	return t.Render() + "\n" + listDimStyle.Render(fmt.Sprintf("  [%d/%d]", min(m.Cursor+1, len(units)), len(units)))
}

// renderStrip draws the track cols cells wide: unfolded glyphs on the first
// row at their packed x, the axis with folded stacks at their genomic x on
// the second, and a caret under the selected unit on the third.
func renderStrip(units []fold.Placement, vp glyph.Viewport, cols int, selected string) (glyphs, axis, cursor string) {
	top := []rune(strings.Repeat(" ", cols))
	mid := []rune(strings.Repeat("─", cols))
	bot := []rune(strings.Repeat(" ", cols))

	cell := func(x float64) (int, bool) {
		if vp.Width() <= 0 {
			return 0, false
		}
		c := int(math.Floor((x - vp.Left) / vp.Width() * float64(cols)))
		return c, c >= 0 && c < cols
	}

	for _, u := range units {
		if c, ok := cell(u.IdealX); ok {
			if u.State == glyph.Folded {
				mid[c] = '┴'
			} else if mid[c] == '─' {
				mid[c] = '┬'
			}
		}
		if u.State == glyph.Unfolded {
			if c, ok := cell(u.X); ok {
				top[c] = 'o'
			}
		}
		if u.Key == selected {
			x := u.IdealX
			if u.State == glyph.Unfolded {
				x = u.X
			}
			if c, ok := cell(x); ok {
				bot[c] = '^'
			}
		}
	}
	return string(top), string(mid), string(bot)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

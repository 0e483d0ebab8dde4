package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/jmylchreest/toastui/internal/toast"
)

var typeColors = map[toast.Type]lipgloss.Color{
	toast.TypeInfo:    lipgloss.Color("12"),
	toast.TypeSuccess: lipgloss.Color("10"),
	toast.TypeError:   lipgloss.Color("9"),
	toast.TypeWarning: lipgloss.Color("11"),
}

func colorFor(t toast.Type) lipgloss.Color {
	if c, ok := typeColors[t]; ok {
		return c
	}
	return typeColors[toast.TypeInfo]
}

// View renders the TUI.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	switch m.mode {
	case ModePlayground:
		return m.viewPlayground()
	case ModeDetail:
		return m.viewDetail()
	case ModeHelp:
		return m.viewHelp()
	default:
		return ""
	}
}

func (m Model) viewPlayground() string {
	header := m.renderHeader()

	var footer string
	if m.statusMsg != "" {
		statusStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
		if m.statusErr {
			statusStyle = statusStyle.Foreground(lipgloss.Color("9"))
		}
		footer = statusStyle.Render(m.statusMsg)
	} else {
		footer = m.buildKeybindBar(m.width)
	}

	rowHeight := max((m.height-2)/2, 1)
	top := m.renderRow(rowHeight, lipgloss.Top,
		toast.PositionTopLeft, toast.PositionTopCenter, toast.PositionTopRight)
	bottom := m.renderRow(rowHeight, lipgloss.Bottom,
		toast.PositionBottomLeft, toast.PositionBottomCenter, toast.PositionBottomRight)

	return lipgloss.JoinVertical(lipgloss.Left, header, top, bottom, footer)
}

func (m Model) renderHeader() string {
	label := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	value := lipgloss.NewStyle().Bold(true)

	duration := m.manager.Settings().Duration.String()
	if m.persistent {
		duration = "persistent"
	}
	clock := "running"
	if m.frozen {
		clock = "frozen"
	}

	parts := []string{
		value.Foreground(lipgloss.Color("12")).Render("toastui"),
		label.Render("position ") + value.Render(string(m.position)),
		label.Render("duration ") + value.Render(duration),
		label.Render("time ") + value.Render(clock),
		label.Render("active ") + value.Render(humanize.Comma(int64(m.manager.Count()))),
	}
	return strings.Join(parts, "  ")
}

// renderRow lays out three position regions side by side.
func (m Model) renderRow(height int, vAlign lipgloss.Position, positions ...toast.Position) string {
	width := max(m.width/len(positions), 1)
	hAligns := []lipgloss.Position{lipgloss.Left, lipgloss.Center, lipgloss.Right}

	regions := make([]string, 0, len(positions))
	for i, p := range positions {
		content := m.renderRegion(p, width)
		regions = append(regions, lipgloss.Place(width, height, hAligns[i%len(hAligns)], vAlign, content))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, regions...)
}

// renderRegion stacks the toasts of position in container order.
func (m Model) renderRegion(position toast.Position, width int) string {
	now := m.clock.Now()
	toastWidth := min(max(width-2, 20), 44)

	var cards []string
	for _, s := range m.manager.Active() {
		if s.Position != position {
			continue
		}
		cards = append(cards, m.renderToast(s, now, toastWidth))
	}
	return lipgloss.JoinVertical(lipgloss.Left, cards...)
}

// renderToast draws one toast card from its snapshot and rendered node.
func (m Model) renderToast(s toast.Snapshot, now time.Time, width int) string {
	color := colorFor(s.Type)

	border := lipgloss.RoundedBorder()
	if s.ID == m.selected {
		border = lipgloss.ThickBorder()
	}
	card := lipgloss.NewStyle().
		Border(border).
		BorderForeground(color).
		Padding(0, 1).
		Width(width)
	if s.State == toast.StateRemoving {
		card = card.Faint(true)
	}

	title := lipgloss.NewStyle().Bold(true).Foreground(color).Render(s.Type.Icon() + " " + s.Title)
	if s.State == toast.StatePaused {
		title += lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render("  ⏸")
	}

	inner := width - 2
	lines := []string{title, lipgloss.NewStyle().Width(inner).Render(s.Message)}

	if n, ok := m.node(s.ID); ok {
		if ratio, visible := n.ProgressAt(now); visible {
			bar, ok := m.bars[s.Type]
			if !ok {
				bar = m.bars[toast.TypeInfo]
			}
			bar.Width = inner
			lines = append(lines, bar.ViewAs(ratio))
		}
	}

	meta := humanize.RelTime(s.CreatedAt, now, "ago", "from now")
	if !s.Persistent() {
		meta += " · " + s.Remaining.Round(100*time.Millisecond).String() + " left"
	}
	lines = append(lines, lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(meta))

	return card.Render(strings.Join(lines, "\n"))
}

func (m Model) viewDetail() string {
	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Padding(0, 1)

	header := headerStyle.Render("Toast Detail")

	return header + "\n" + m.viewport.View() + "\n" + m.help.ShortHelpView([]key.Binding{m.keys.Back, m.keys.Quit})
}

func (m Model) viewHelp() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12")).
		MarginBottom(1)

	s := titleStyle.Render("Keyboard Shortcuts") + "\n\n"
	s += m.help.FullHelpView(m.keys.FullHelp())
	s += "\n\n" + lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(
		"Selecting a toast hovers it: its timer pauses until it is deselected.\nPress ? or esc to return")
	return s
}

// keybind represents a single keybind with priority for the status bar.
type keybind struct {
	key      string
	desc     string
	priority int // lower = more important (shown first)
}

// buildKeybindBar builds a keybind bar that fits within the given width.
func (m Model) buildKeybindBar(width int) string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	keyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("10"))

	binds := []keybind{
		{"q", "quit", 1},
		{"i/s/e/w", "spawn", 2},
		{"?", "help", 3},
		{"j/k", "select", 4},
		{"x", "close", 5},
		{"p", "position", 6},
		{"t", "persistent", 7},
		{"space", "freeze", 8},
		{"C", "clear", 9},
		{"enter", "inspect", 10},
	}

	const separator = "  "
	result := ""
	for _, b := range binds {
		item := keyStyle.Render(b.key) + " " + b.desc
		testLen := lipgloss.Width(result) + lipgloss.Width(item)
		if result != "" {
			testLen += len(separator)
		}
		if width > 0 && testLen > width {
			break
		}
		if result != "" {
			result += separator
		}
		result += item
	}

	return style.Render(result)
}

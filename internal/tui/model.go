// Package tui provides the BubbleTea-based toast playground.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/toastui/internal/config"
	"github.com/jmylchreest/toastui/internal/dom"
	"github.com/jmylchreest/toastui/internal/toast"
)

// frameInterval is how often the clock advances and the screen redraws.
const frameInterval = 50 * time.Millisecond

// Mode represents the current UI mode.
type Mode int

const (
	ModePlayground Mode = iota
	ModeDetail
	ModeHelp
)

// samples are cycled through when spawning toasts.
var samples = map[toast.Type][]string{
	toast.TypeInfo:    {"새 메시지가 도착했습니다.", "Sync started in the background.", "3 files queued for upload."},
	toast.TypeSuccess: {"저장되었습니다.", "Deployment finished.", "Settings applied."},
	toast.TypeError:   {"네트워크 연결에 실패했습니다.", "Build failed: exit status 2.", "Permission denied."},
	toast.TypeWarning: {"디스크 공간이 부족합니다.", "Token expires in 5 minutes.", "Battery at 10%."},
}

// Model is the main TUI model.
type Model struct {
	cfg     *config.Config
	clock   *toast.ManualClock
	doc     *dom.Document
	manager *toast.Manager

	mode Mode

	// Components
	viewport viewport.Model
	help     help.Model
	bars     map[toast.Type]progress.Model

	// State
	position   toast.Position
	persistent bool
	frozen     bool
	selected   string // selected toast ID
	hovered    string // toast the pointer is simulated over
	spawned    int
	lastTick   time.Time
	width      int
	height     int
	ready      bool

	// Key bindings
	keys KeyMap

	// Status message
	statusMsg string
	statusErr bool
}

// New creates a playground whose clock starts at start.
func New(cfg *config.Config, start time.Time) Model {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	clock := toast.NewManualClock(start)
	doc := dom.New(
		dom.WithScheduler(clock),
		dom.WithAnimation(toast.ClassEnter, cfg.Animation.Enter.Duration()),
		dom.WithAnimation(toast.ClassLeave, cfg.Animation.Leave.Duration()),
	)
	settings := cfg.ToastSettings()

	return Model{
		cfg:      cfg,
		clock:    clock,
		doc:      doc,
		manager:  toast.NewManager(doc, clock, toast.WithSettings(settings)),
		mode:     ModePlayground,
		help:     help.New(),
		bars:     newBars(),
		position: settings.Position,
		lastTick: start,
		keys:     DefaultKeyMap(),
	}
}

func newBars() map[toast.Type]progress.Model {
	colors := map[toast.Type]string{
		toast.TypeInfo:    "#0969da",
		toast.TypeSuccess: "#1a7f37",
		toast.TypeError:   "#cf222e",
		toast.TypeWarning: "#9a6700",
	}
	bars := make(map[toast.Type]progress.Model, len(colors))
	for t, c := range colors {
		bars[t] = progress.New(progress.WithSolidFill(c), progress.WithoutPercentage())
	}
	return bars
}

// Manager returns the toast manager driven by the playground.
func (m Model) Manager() *toast.Manager {
	return m.manager
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init initializes the TUI.
func (m Model) Init() tea.Cmd {
	return tick()
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.viewport = viewport.New(msg.Width, msg.Height-4)
		m.viewport.YPosition = 2
		return m, nil

	case tickMsg:
		now := time.Time(msg)
		if !m.frozen && now.After(m.lastTick) {
			m.clock.Advance(now.Sub(m.lastTick))
		}
		m.lastTick = now
		m.syncSelection()
		return m, tick()

	case statusMsg:
		m.statusMsg = msg.text
		m.statusErr = msg.isErr
		return m, tea.Tick(3*time.Second, func(t time.Time) tea.Msg {
			return clearStatusMsg{}
		})

	case clearStatusMsg:
		m.statusMsg = ""
		m.statusErr = false
		return m, nil

	case copyResultMsg:
		if msg.err != nil {
			return m, status("Copy failed: "+msg.err.Error(), true)
		}
		return m, status("Copied to clipboard", false)
	}

	if m.mode == ModeDetail {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

type statusMsg struct {
	text  string
	isErr bool
}

type clearStatusMsg struct{}

type copyResultMsg struct {
	err error
}

func status(text string, isErr bool) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: text, isErr: isErr}
	}
}

// handleKey handles key presses.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		if m.mode == ModeHelp {
			m.mode = ModePlayground
		} else {
			m.mode = ModeHelp
		}
		return m, nil
	}

	switch m.mode {
	case ModePlayground:
		return m.handlePlaygroundKey(msg)
	case ModeDetail:
		return m.handleDetailKey(msg)
	case ModeHelp:
		if key.Matches(msg, m.keys.Back) {
			m.mode = ModePlayground
		}
	}
	return m, nil
}

// handlePlaygroundKey handles keys on the main screen.
func (m Model) handlePlaygroundKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Info):
		m.spawn(toast.TypeInfo)
	case key.Matches(msg, m.keys.Success):
		m.spawn(toast.TypeSuccess)
	case key.Matches(msg, m.keys.Error):
		m.spawn(toast.TypeError)
	case key.Matches(msg, m.keys.Warn):
		m.spawn(toast.TypeWarning)

	case key.Matches(msg, m.keys.Position):
		m.position = nextPosition(m.position)
		return m, status("Spawning at "+string(m.position), false)

	case key.Matches(msg, m.keys.Sticky):
		m.persistent = !m.persistent
		if m.persistent {
			return m, status("New toasts stay until closed", false)
		}
		return m, status("New toasts dismiss after "+m.manager.Settings().Duration.String(), false)

	case key.Matches(msg, m.keys.Freeze):
		m.frozen = !m.frozen
		if m.frozen {
			return m, status("Time frozen", false)
		}
		return m, status("Time running", false)

	case key.Matches(msg, m.keys.Up):
		m.moveSelection(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveSelection(1)
	case key.Matches(msg, m.keys.Deselect):
		m.selected = ""

	case key.Matches(msg, m.keys.Close):
		if snap, ok := m.selectedToast(); ok {
			if n, ok := m.node(snap.ID); ok {
				n.Click()
			}
		}
	case key.Matches(msg, m.keys.Clear):
		n := m.manager.Clear()
		m.syncSelection()
		return m, status(fmt.Sprintf("Closing %d toasts", n), false)

	case key.Matches(msg, m.keys.Detail):
		if snap, ok := m.selectedToast(); ok {
			m.mode = ModeDetail
			m.viewport.SetContent(m.renderDetail(snap))
			m.viewport.GotoTop()
		}
		return m, nil

	case key.Matches(msg, m.keys.Copy):
		if snap, ok := m.selectedToast(); ok {
			data, err := yaml.Marshal(snap)
			if err != nil {
				return m, status("Failed to marshal YAML: "+err.Error(), true)
			}
			return m, copyToClipboard(string(data))
		}
		return m, nil
	}

	m.syncSelection()
	return m, nil
}

// handleDetailKey handles keys in detail mode.
func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Back) {
		m.mode = ModePlayground
		return m, nil
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// spawn shows a sample toast of type t with the current playground options.
func (m *Model) spawn(t toast.Type) {
	list := samples[t]
	message := list[m.spawned%len(list)]
	m.spawned++

	opts := []toast.Option{toast.WithType(t), toast.WithPosition(m.position)}
	if m.persistent {
		opts = append(opts, toast.Persistent())
	}
	m.manager.Show(message, opts...)
}

// moveSelection selects the toast delta places away in display order,
// wrapping around. With nothing selected it starts from either end.
func (m *Model) moveSelection(delta int) {
	active := m.manager.Active()
	if len(active) == 0 {
		m.selected = ""
		return
	}

	idx := indexOf(active, m.selected)
	switch {
	case idx < 0 && delta > 0:
		idx = 0
	case idx < 0:
		idx = len(active) - 1
	default:
		idx = (idx + delta + len(active)) % len(active)
	}
	m.selected = active[idx].ID
}

func indexOf(active []toast.Snapshot, id string) int {
	for i, s := range active {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// syncSelection drops a selection whose toast is gone and moves the simulated
// pointer onto the selected toast, leaving the one it was on.
func (m *Model) syncSelection() {
	if m.selected != "" && indexOf(m.manager.Active(), m.selected) < 0 {
		m.selected = ""
	}

	target := m.selected
	if target == m.hovered {
		return
	}

	if n, ok := m.node(m.hovered); ok {
		n.PointerLeave()
	}
	if n, ok := m.node(target); ok {
		n.PointerEnter()
	}
	m.hovered = target
}

func (m Model) selectedToast() (toast.Snapshot, bool) {
	if m.selected == "" {
		return toast.Snapshot{}, false
	}
	return m.manager.Get(m.selected)
}

func (m Model) node(id string) (*dom.ToastNode, bool) {
	if id == "" {
		return nil, false
	}
	n, ok := m.manager.Node(id)
	if !ok {
		return nil, false
	}
	tn, ok := n.(*dom.ToastNode)
	return tn, ok
}

// nextPosition cycles through the positions in display order.
func nextPosition(p toast.Position) toast.Position {
	positions := toast.ValidPositions()
	for i, candidate := range positions {
		if candidate == p {
			return positions[(i+1)%len(positions)]
		}
	}
	return positions[0]
}

// renderDetail renders the detail view for a toast.
func (m Model) renderDetail(s toast.Snapshot) string {
	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12"))

	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8"))

	var b strings.Builder
	b.WriteString(headerStyle.Render(s.Type.Icon()+" "+s.Title) + "\n\n")
	b.WriteString(labelStyle.Render("ID: ") + s.ID + "\n")
	b.WriteString(labelStyle.Render("Type: ") + string(s.Type) + "\n")
	b.WriteString(labelStyle.Render("Position: ") + string(s.Position) + "\n")
	b.WriteString(labelStyle.Render("State: ") + s.State.String() + "\n")
	b.WriteString(labelStyle.Render("Created: ") + humanize.RelTime(s.CreatedAt, m.clock.Now(), "ago", "from now") + "\n")
	if s.Persistent() {
		b.WriteString(labelStyle.Render("Duration: ") + "persistent\n")
	} else {
		b.WriteString(labelStyle.Render("Duration: ") + s.Duration.String() + "\n")
		b.WriteString(labelStyle.Render("Remaining: ") + s.Remaining.Round(time.Millisecond).String() + "\n")
	}
	b.WriteString("\n" + labelStyle.Render("Message:") + "\n" + s.Message + "\n")

	if n, ok := m.node(s.ID); ok {
		b.WriteString("\n" + labelStyle.Render("Markup:") + "\n" + n.Root().HTML() + "\n")
	}
	return b.String()
}

// copyToClipboard copies text to the system clipboard.
func copyToClipboard(text string) tea.Cmd {
	return func() tea.Msg {
		return copyResultMsg{err: copyText(text)}
	}
}

// RunOptions configures the TUI.
type RunOptions struct {
	Config *config.Config
}

// Run starts the TUI with the given options.
func Run(opts RunOptions) error {
	m := New(opts.Config, time.Now())
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

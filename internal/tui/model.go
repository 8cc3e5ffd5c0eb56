// Package tui provides the BubbleTea-based popup demo.
package tui

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"
	"go.opentelemetry.io/otel/trace"

	"github.com/jmylchreest/poptui/internal/anim"
	"github.com/jmylchreest/poptui/internal/config"
	"github.com/jmylchreest/poptui/internal/geom"
	"github.com/jmylchreest/poptui/internal/model"
	"github.com/jmylchreest/poptui/internal/popup"
	"github.com/jmylchreest/poptui/internal/screen"
	"github.com/jmylchreest/poptui/internal/theme"
)

// Mode represents the current UI mode.
type Mode int

const (
	ModeDemo Mode = iota
	ModeHelp
)

// anchors are the placements the anchor key cycles through. The first entry
// uses the configured anchor.
var anchors = []struct {
	name  string
	point geom.Point
}{
	{name: "config"},
	{name: "center", point: geom.Center},
	{name: "top", point: geom.Point{X: 0.5, Y: 0}},
	{name: "bottom", point: geom.Point{X: 0.5, Y: 1}},
}

// Model is the main TUI model.
type Model struct {
	// Configuration
	cfg         *config.Config
	logger      *slog.Logger
	loader      *theme.Loader
	noAnimation bool

	engine *anim.Engine
	s      *session

	// Current mode
	mode Mode

	// Components
	list list.Model
	help help.Model

	// Per-session option overrides
	overlay bool
	wrap    bool
	anchor  int

	width  int
	height int
	ready  bool

	// Key bindings
	keys KeyMap

	// Status message
	statusMsg string
	statusErr bool
}

// Options configures a Model.
type Options struct {
	Logger      *slog.Logger
	Tracer      trace.Tracer
	Loader      *theme.Loader
	NoAnimation bool
	// Clock replaces time.Now for the animation engine.
	Clock func() time.Time
}

// historyItem wraps a message for the list component.
type historyItem struct {
	msg    *model.Message
	status string
	now    time.Time
}

func (i historyItem) Title() string {
	return i.msg.Title
}

func (i historyItem) Description() string {
	return fmt.Sprintf("[%s] %s %s - %s",
		i.msg.Kind,
		i.status,
		i.msg.RelativeTime(i.now),
		i.msg.BodyTruncated(40))
}

func (i historyItem) FilterValue() string {
	return i.msg.Title + " " + i.msg.Body
}

// historyDelegate dims popups that have already hidden.
type historyDelegate struct {
	list.DefaultDelegate
}

func newHistoryDelegate() historyDelegate {
	return historyDelegate{DefaultDelegate: list.NewDefaultDelegate()}
}

// Render renders a list item, greying out hidden popups.
func (d historyDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	hi, ok := item.(historyItem)
	if !ok {
		d.DefaultDelegate.Render(w, m, index, item)
		return
	}

	isSelected := index == m.Index()
	isHidden := hi.msg.IsHidden()
	itemWidth := m.Width() - d.DefaultDelegate.Styles.NormalTitle.GetHorizontalPadding()

	titleStyle, descStyle := d.DefaultDelegate.Styles.NormalTitle, d.DefaultDelegate.Styles.NormalDesc
	if isSelected {
		titleStyle, descStyle = d.DefaultDelegate.Styles.SelectedTitle, d.DefaultDelegate.Styles.SelectedDesc
	}
	if isHidden {
		titleStyle = titleStyle.Foreground(lipgloss.Color("8"))
		descStyle = descStyle.Foreground(lipgloss.Color("8"))
	}

	title, desc := hi.Title(), hi.Description()
	if itemWidth > 0 {
		title = ansi.Truncate(title, itemWidth, "…")
		desc = ansi.Truncate(desc, itemWidth, "…")
	}

	fmt.Fprint(w, titleStyle.Render(title))
	fmt.Fprint(w, "\n")
	fmt.Fprint(w, descStyle.Render(desc))
}

// New creates a new TUI model.
func New(cfg *config.Config, opts Options) Model {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	loader := opts.Loader
	if loader == nil {
		loader = theme.NewLoader("", logger)
	}

	l := list.New(nil, newHistoryDelegate(), 0, 0)
	l.Title = "Popups"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	engine := anim.NewEngine(
		anim.WithFrameInterval(cfg.Display.FrameInterval.Duration()),
		anim.WithClock(opts.Clock),
	)
	scr := screen.New(0, 0)

	m := Model{
		logger:      logger,
		loader:      loader,
		noAnimation: opts.NoAnimation,
		engine:      engine,
		s: &session{
			logger: logger,
			queue:  popup.NewQueue(popup.WithLogger(logger), popup.WithTracer(opts.Tracer)),
			screen: scr,
		},
		mode: ModeDemo,
		list: l,
		help: help.New(),
		keys: DefaultKeyMap(),
	}
	m.applyConfig(cfg)
	return m
}

// Init initializes the TUI.
func (m Model) Init() tea.Cmd {
	return nil
}

type statusMsg struct {
	text  string
	isErr bool
}

type clearStatusMsg struct{}

type copyResultMsg struct {
	err error
}

// configReloadedMsg carries a configuration re-read from disk.
type configReloadedMsg struct {
	cfg *config.Config
}

// themeChangedMsg carries a hot-reloaded palette.
type themeChangedMsg struct {
	theme *theme.Theme
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m, cmd := m.update(msg)

	cmds := []tea.Cmd{cmd, m.engine.Cmd()}
	if notes := m.s.drainNotes(); len(notes) > 0 {
		text := strings.Join(notes, ", ")
		cmds = append(cmds, func() tea.Msg {
			return statusMsg{text: text}
		})
	}
	m.refreshList()

	return m, tea.Batch(cmds...)
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		// Last row is the status bar.
		m.list.SetSize(msg.Width, msg.Height-1)
		m.s.screen.Resize(msg.Width, msg.Height-1)
		m.help.Width = msg.Width
		return m, nil

	case anim.FrameMsg:
		return m, m.engine.Update(msg)

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

	case configReloadedMsg:
		m.applyConfig(msg.cfg)
		return m, status("Configuration reloaded", false)

	case themeChangedMsg:
		m.applyTheme()
		return m, status("Theme reloaded: "+msg.theme.Name, false)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func status(text string, isErr bool) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: text, isErr: isErr}
	}
}

// handleKey handles key presses.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	// Global keys
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		if m.mode == ModeHelp {
			m.mode = ModeDemo
		} else {
			m.mode = ModeHelp
		}
		return m, nil
	}

	if m.mode == ModeHelp {
		if msg.Type == tea.KeyEsc {
			m.mode = ModeDemo
		}
		return m, nil
	}

	kinds := popup.Kinds()
	for i, b := range m.keys.kindKeys() {
		if key.Matches(msg, b) {
			return m, m.requestPopup(kinds[i], false)
		}
	}

	switch {
	case key.Matches(msg, m.keys.ShowNow):
		return m, m.requestPopup(m.cfg.Popup.ShowAnimation, true)

	case key.Matches(msg, m.keys.Burst):
		// Skip KindNone so the queue hand-over is visible.
		animated := kinds[1:]
		for i := range m.cfg.TUI.BurstSize {
			if cmd := m.requestPopup(animated[i%len(animated)], false); cmd != nil {
				return m, cmd
			}
		}
		return m, status(fmt.Sprintf("Queued %d popups", m.cfg.TUI.BurstSize), false)

	case key.Matches(msg, m.keys.Hide):
		if !m.s.hideTop() {
			return m, status("No popup to hide", false)
		}
		return m, nil

	case key.Matches(msg, m.keys.DismissAll):
		n := m.s.dismissAll()
		return m, status(fmt.Sprintf("Dismissed %s popup(s)", humanize.Comma(int64(n))), false)

	case key.Matches(msg, m.keys.ToggleOverlay):
		m.overlay = !m.overlay
		return m, status("Overlay "+onOff(m.overlay), false)

	case key.Matches(msg, m.keys.ToggleWrap):
		m.wrap = !m.wrap
		return m, status("Scroll wrap "+onOff(m.wrap), false)

	case key.Matches(msg, m.keys.CycleAnchor):
		m.anchor = (m.anchor + 1) % len(anchors)
		return m, status("Anchor: "+anchors[m.anchor].name, false)

	case key.Matches(msg, m.keys.Copy):
		if e := m.s.top(); e != nil {
			return m, m.copyToClipboard(e.msg.Text())
		}
		if item, ok := m.list.SelectedItem().(historyItem); ok {
			return m, m.copyToClipboard(item.msg.Text())
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// handleMouse routes clicks to the popup layers and the wheel to scroll
// wrappers.
func (m Model) handleMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	if m.mode != ModeDemo {
		return m, nil
	}
	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		m.s.screen.Scroll(msg.X, msg.Y, -1)
	case msg.Button == tea.MouseButtonWheelDown:
		m.s.screen.Scroll(msg.X, msg.Y, 1)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		m.s.screen.Tap(msg.X, msg.Y)
	}
	return m, nil
}

// requestPopup creates and shows a popup, returning a command only on error.
func (m Model) requestPopup(kind popup.Kind, immediate bool) tea.Cmd {
	if _, err := m.s.request(m.popupOptions(), kind, immediate); err != nil {
		return status("Failed to create popup: "+err.Error(), true)
	}
	return nil
}

// popupOptions applies the session overrides to the configured options.
func (m Model) popupOptions() popup.Options {
	opts := m.cfg.PopupOptions()
	opts.HasOverlay = m.overlay
	opts.WrapInScrollSurface = m.wrap
	if m.anchor > 0 {
		opts.RelativeAnchor = anchors[m.anchor].point
	}
	return opts
}

// applyConfig switches to cfg. Session overrides reset to the new values.
func (m *Model) applyConfig(cfg *config.Config) {
	themeChanged := m.cfg == nil || m.cfg.Theme.Name != cfg.Theme.Name
	m.cfg = cfg

	m.overlay = cfg.Popup.HasOverlay
	m.wrap = cfg.Popup.WrapInScroll
	m.anchor = 0

	m.engine.SetFrameInterval(cfg.Display.FrameInterval.Duration())
	m.s.screen.SetSafeArea(cfg.SafeArea())

	var animator anim.Animator = m.engine
	if m.noAnimation || !cfg.Display.Animations {
		animator = anim.Immediate{}
	}
	m.s.toolkit = screen.NewToolkit(m.s.screen, animator, screen.WithLogger(m.logger))

	if themeChanged {
		if err := m.loader.LoadTheme(cfg.Theme.Name); err != nil {
			m.logger.Warn("failed to load theme", "theme", cfg.Theme.Name, "error", err)
		}
	}
	m.applyTheme()
}

// applyTheme pushes the current palette to the screen and live cards.
func (m *Model) applyTheme() {
	t := m.loader.Theme()
	colors := t.Palette.Variant(theme.IsDark(m.cfg.Theme.ColorScheme))
	m.s.screen.SetPalette(colors, m.cfg.OverlayAlpha(t.Palette.OverlayAlpha))
	m.s.setColors(colors)
}

// refreshList rebuilds the history list, newest first.
func (m *Model) refreshList() {
	now := time.Now()
	items := make([]list.Item, 0, len(m.s.history))
	for i := len(m.s.history) - 1; i >= 0; i-- {
		msg := m.s.history[i]
		items = append(items, historyItem{msg: msg, status: m.statusOf(msg), now: now})
	}
	m.list.SetItems(items)

	title := "Popups"
	if head, ok := m.s.queue.Head(); ok && m.s.queue.Len() > 1 {
		title = fmt.Sprintf("Popups · %d waiting, head queued %s",
			m.s.queue.Len()-1, humanize.Time(head.QueuedAt))
	}
	m.list.Title = title
}

func (m Model) statusOf(msg *model.Message) string {
	for _, e := range m.s.entries {
		if e.msg != msg {
			continue
		}
		if e.ctrl.State() == popup.StateHidden && m.s.queue.Contains(e.ctrl) {
			return "queued"
		}
		return e.ctrl.State().String()
	}
	return "hidden"
}

// copyToClipboard copies text to the system clipboard.
func (m Model) copyToClipboard(text string) tea.Cmd {
	cfg := m.cfg
	return func() tea.Msg {
		return copyResultMsg{err: copyText(text, cfg)}
	}
}

// View renders the TUI.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	switch m.mode {
	case ModeHelp:
		return m.viewHelp()
	default:
		return m.viewDemo()
	}
}

func (m Model) viewDemo() string {
	s := m.s.screen.Render(m.list.View())

	if m.statusMsg != "" {
		statusStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("7"))
		if m.statusErr {
			statusStyle = statusStyle.Foreground(lipgloss.Color("9"))
		}
		s += "\n" + statusStyle.Render(ansi.Truncate(m.statusMsg, m.width, "…"))
	} else if m.cfg.TUI.ShowHelp {
		s += "\n" + m.buildKeybindBar(m.width)
	} else {
		s += "\n"
	}

	return s
}

func (m Model) viewHelp() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12")).
		MarginBottom(1)

	s := titleStyle.Render("Keyboard Shortcuts") + "\n\n"
	s += m.help.FullHelpView(m.keys.FullHelp()) + "\n\n"
	s += lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(
		"Click the dimmed area to close a popup; scroll the wheel over a wrapped popup.") + "\n"
	s += lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(
		"Press ? or esc to return")

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
		{"1-6", "show", 2},
		{"enter", "hide", 3},
		{"?", "help", 4},
		{"b", "burst", 5},
		{"o", "overlay " + onOff(m.overlay), 6},
		{"w", "wrap " + onOff(m.wrap), 7},
		{"a", "anchor " + anchors[m.anchor].name, 8},
		{"x", "dismiss all", 9},
		{"i", "skip queue", 10},
		{"c", "copy", 11},
	}

	const separator = "  "
	result := ""
	for _, b := range binds {
		item := keyStyle.Render(b.key) + " " + b.desc
		testLen := ansi.StringWidth(b.key + " " + b.desc)
		if result != "" {
			testLen += ansi.StringWidth(result) + len(separator)
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

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

// RunOptions configures the TUI.
type RunOptions struct {
	Config      *config.Config
	ConfigPath  string // Path to watch for changes (empty = no watching)
	ThemesDir   string
	Logger      *slog.Logger
	Tracer      trace.Tracer
	NoAnimation bool
}

// Run starts the TUI with the given options.
func Run(ctx context.Context, opts RunOptions) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	loader := theme.NewLoader(opts.ThemesDir, logger)
	m := New(cfg, Options{
		Logger:      logger,
		Tracer:      opts.Tracer,
		Loader:      loader,
		NoAnimation: opts.NoAnimation,
	})
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))

	// Start config watcher if a path was provided
	var watcher *config.Watcher
	if opts.ConfigPath != "" {
		var err error
		watcher, err = config.NewWatcher(opts.ConfigPath, func(c *config.Config) {
			p.Send(configReloadedMsg{cfg: c})
		}, logger)
		if err != nil {
			logger.Warn("failed to create config watcher", "error", err)
		} else if err := watcher.Start(); err != nil {
			logger.Warn("failed to start config watcher", "error", err)
		}
	}

	// Sent from a fresh goroutine: a config reload switching themes stops
	// the watcher from inside Update, which must not wait on this send.
	loader.StartHotReload(ctx, func(t *theme.Theme) {
		go p.Send(themeChangedMsg{theme: t})
	})
	defer loader.StopHotReload()

	_, err := p.Run()

	if watcher != nil {
		_ = watcher.Stop()
	}

	return err
}

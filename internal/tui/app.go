package tui

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/winhide/internal/accelerator"
	"github.com/1broseidon/winhide/internal/config"
	"github.com/1broseidon/winhide/internal/dispatch"
	"github.com/1broseidon/winhide/internal/enumerator"
	"github.com/1broseidon/winhide/internal/platform"
)

// Client is the daemon surface the selection UI talks to. *ipc.Client
// satisfies it.
type Client interface {
	GetConfig() (*config.Config, error)
	GetWindows() ([]enumerator.WindowHandle, error)
	SaveSettings(s config.Settings) (*dispatch.SaveResult, error)
}

type captureTarget int

const (
	captureNone captureTarget = iota
	captureHide
	captureShow
)

func (c captureTarget) String() string {
	switch c {
	case captureHide:
		return "hide"
	case captureShow:
		return "show"
	default:
		return ""
	}
}

type loadedMsg struct {
	cfg     *config.Config
	windows []enumerator.WindowHandle
	err     error
}

type savedMsg struct {
	res *dispatch.SaveResult
	err error
}

// Model is the bubbletea model for picking the windows the hide hotkey acts
// on and for capturing the two hotkeys.
type Model struct {
	client Client
	keys   keyMap
	help   help.Model

	windows  []enumerator.WindowHandle
	selected map[platform.WindowID]bool
	cursor   int
	offset   int

	hideHotkey string
	showHotkey string
	capture    captureTarget

	connected bool
	loading   bool
	saving    bool
	dirty     bool
	notice    string
	err       error

	width  int
	height int
}

// New creates the selection model. Nothing is fetched until Init runs.
func New(client Client) Model {
	return Model{
		client:   client,
		keys:     defaultKeyMap(),
		help:     help.New(),
		selected: make(map[platform.WindowID]bool),
		loading:  true,
		width:    80,
		height:   24,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.load()
}

func (m Model) load() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		cfg, err := client.GetConfig()
		if err != nil {
			return loadedMsg{err: err}
		}
		windows, err := client.GetWindows()
		if err != nil {
			return loadedMsg{err: err}
		}
		return loadedMsg{cfg: cfg, windows: windows}
	}
}

func (m Model) save() tea.Cmd {
	client := m.client
	settings := m.Settings()
	return func() tea.Msg {
		res, err := client.SaveSettings(settings)
		return savedMsg{res: res, err: err}
	}
}

// Settings returns the pending selection and hotkeys as a save payload.
func (m Model) Settings() config.Settings {
	return config.Settings{
		HideHotkey:        m.hideHotkey,
		ShowHotkey:        m.showHotkey,
		SelectedWindowIDs: m.SelectedIDs(),
	}
}

// SelectedIDs returns the selected window ids in ascending order. Ids of
// windows that are not currently listed, such as hidden ones, are kept.
func (m Model) SelectedIDs() []platform.WindowID {
	ids := make([]platform.WindowID, 0, len(m.selected))
	for id, ok := range m.selected {
		if ok {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Dirty reports whether there are unsaved changes.
func (m Model) Dirty() bool {
	return m.dirty
}

// Err returns the last load or save error.
func (m Model) Err() error {
	return m.err
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.scroll()
		return m, nil

	case loadedMsg:
		m.loading = false
		if msg.err != nil {
			m.connected = false
			m.err = msg.err
			return m, nil
		}
		m.applyLoaded(msg)
		return m, nil

	case savedMsg:
		m.saving = false
		if msg.err != nil {
			m.err = msg.err
			m.notice = ""
			return m, nil
		}
		m.err = nil
		m.dirty = false
		if msg.res != nil && msg.res.Config != nil {
			m.hideHotkey = msg.res.Config.HideHotkey
			m.showHotkey = msg.res.Config.ShowHotkey
		}
		m.notice = "Saved"
		if msg.res != nil && len(msg.res.Warnings) > 0 {
			m.notice = "Saved with warnings: " + strings.Join(msg.res.Warnings, "; ")
		}
		return m, nil

	case tea.KeyMsg:
		if m.capture != captureNone {
			return m.updateCapture(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m *Model) applyLoaded(msg loadedMsg) {
	m.connected = true
	m.err = nil
	m.windows = msg.windows

	// a refresh keeps unsaved edits
	if !m.dirty && msg.cfg != nil {
		m.hideHotkey = msg.cfg.HideHotkey
		m.showHotkey = msg.cfg.ShowHotkey
		m.selected = make(map[platform.WindowID]bool, len(msg.cfg.SelectedWindowIDs))
		for _, id := range msg.cfg.SelectedWindowIDs {
			m.selected[id] = true
		}
	}

	if m.cursor >= len(m.windows) {
		m.cursor = len(m.windows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.scroll()
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.notice = ""

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		m.scroll()

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.windows)-1 {
			m.cursor++
		}
		m.scroll()

	case key.Matches(msg, m.keys.Toggle):
		if len(m.windows) == 0 {
			return m, nil
		}
		id := m.windows[m.cursor].ID
		if m.selected[id] {
			delete(m.selected, id)
		} else {
			m.selected[id] = true
		}
		m.dirty = true

	case key.Matches(msg, m.keys.SelectAll):
		for _, w := range m.windows {
			m.selected[w.ID] = true
		}
		m.dirty = true

	case key.Matches(msg, m.keys.Clear):
		m.selected = make(map[platform.WindowID]bool)
		m.dirty = true

	case key.Matches(msg, m.keys.CaptureHide):
		m.capture = captureHide
		m.err = nil

	case key.Matches(msg, m.keys.CaptureShow):
		m.capture = captureShow
		m.err = nil

	case key.Matches(msg, m.keys.Save):
		if m.saving {
			return m, nil
		}
		m.saving = true
		return m, m.save()

	case key.Matches(msg, m.keys.Refresh):
		m.loading = true
		return m, m.load()

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m Model) updateCapture(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.capture = captureNone
		m.err = nil
		return m, nil
	case "ctrl+c":
		return m, tea.Quit
	}

	acc, err := accelerator.Build(keyEvent(msg))
	if err != nil {
		if errors.Is(err, accelerator.ErrModifierOnly) {
			err = fmt.Errorf("press a key together with the modifiers: %w", err)
		}
		m.err = err
		return m, nil
	}

	switch m.capture {
	case captureHide:
		m.hideHotkey = acc.String()
	case captureShow:
		m.showHotkey = acc.String()
	}
	m.capture = captureNone
	m.err = nil
	m.dirty = true
	return m, nil
}

// listHeight is the number of window rows that fit on screen.
func (m Model) listHeight() int {
	// title, status bar, blank, message line, help
	h := m.height - 6
	if m.help.ShowAll {
		h -= 3
	}
	if h < 1 {
		h = 1
	}
	return h
}

func (m *Model) scroll() {
	h := m.listHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+h {
		m.offset = m.cursor - h + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

// View implements tea.Model.
func (m Model) View() string {
	title := titleStyle.Render("winhide: select windows")
	status := renderStatusBar(m.connected, m.hideHotkey, m.showHotkey, len(m.SelectedIDs()), m.width)

	var body string
	if m.capture != captureNone {
		body = captureStyle.Render(fmt.Sprintf(
			"Press the new %s hotkey\n\n%s",
			m.capture,
			dimStyle.Render("esc to cancel"),
		))
	} else {
		body = m.viewList()
	}

	var message string
	switch {
	case m.err != nil:
		message = errorStyle.Render("Error: " + m.err.Error())
	case m.loading:
		message = dimStyle.Render("Loading…")
	case m.saving:
		message = dimStyle.Render("Saving…")
	case m.notice != "":
		message = noticeStyle.Render(m.notice)
	case m.dirty:
		message = dimStyle.Render("Unsaved changes, press w to save")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		status,
		"",
		body,
		message,
		m.help.View(m.keys),
	)
}

func (m Model) viewList() string {
	if len(m.windows) == 0 {
		if m.loading {
			return ""
		}
		return dimStyle.Render("  No windows to show")
	}

	titleWidth := m.width / 2
	if titleWidth < 20 {
		titleWidth = 20
	}
	pathWidth := m.width - titleWidth - 10

	end := m.offset + m.listHeight()
	if end > len(m.windows) {
		end = len(m.windows)
	}

	rows := make([]string, 0, end-m.offset)
	for i := m.offset; i < end; i++ {
		w := m.windows[i]

		cursor := "  "
		if i == m.cursor {
			cursor = cursorStyle.Render("> ")
		}
		check := "[ ]"
		if m.selected[w.ID] {
			check = checkedStyle.Render("[x]")
		}

		line := fmt.Sprintf("%-*s %s",
			titleWidth, truncate(w.Title, titleWidth),
			dimStyle.Render(truncate(w.Path, pathWidth)))
		rows = append(rows, cursor+check+" "+rowStyle.Render(line))
	}
	return strings.Join(rows, "\n")
}

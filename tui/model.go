// Package tui is the full screen zone picker: a filter input above a
// scrolling list of zones with the host zone highlighted.
package tui

import (
	"context"
	"errors"
	"log/slog"
	"slices"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tzlist/tzselect/picker"
	"github.com/tzlist/tzselect/timesync"
)

// currentZoneMsg carries the result of reading the host zone.
type currentZoneMsg struct {
	zone string
	ok   bool
}

// commitResultMsg carries the result of setting the host zone.
type commitResultMsg struct {
	zone string
	err  error
}

// rows taken by everything but the list
const chromeLines = 6

const defaultListHeight = 20

type Model struct {
	ctx    context.Context
	state  *picker.State
	syncer timesync.Syncer

	input   textinput.Model
	styles  styles
	loading bool
	notice  string

	width  int
	height int
	offset int // first visible row
}

func New(ctx context.Context, state *picker.State, syncer timesync.Syncer) Model {
	ti := textinput.New()
	ti.Placeholder = "Type to filter time zones"
	ti.Prompt = "> "
	ti.CharLimit = 64
	ti.Focus()

	return Model{
		ctx:     ctx,
		state:   state,
		syncer:  syncer,
		input:   ti,
		styles:  defaultStyles(),
		loading: true,
	}
}

// WithQuery starts the picker with query already typed.
func (m Model) WithQuery(query string) Model {
	m.input.SetValue(query)
	m.state.SetQuery(query)
	return m
}

// State exposes the picker state, mainly for callers inspecting the final
// model returned by tea.Program.Run.
func (m Model) State() *picker.State { return m.state }

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, readCurrentCmd(m.ctx, m.syncer))
}

func readCurrentCmd(ctx context.Context, s timesync.Syncer) tea.Cmd {
	return func() tea.Msg {
		zone, ok := s.ReadCurrentZone(ctx)
		return currentZoneMsg{zone: zone, ok: ok}
	}
}

func commitCmd(ctx context.Context, s timesync.Syncer, zone string) tea.Cmd {
	return func() tea.Msg {
		return commitResultMsg{zone: zone, err: s.SetZone(ctx, zone)}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.input.Width = max(0, msg.Width-len(m.input.Prompt)-1)
		m.scroll()
		return m, nil

	case currentZoneMsg:
		m.loading = false
		m.state.SetCurrent(msg.zone, msg.ok)
		if msg.ok && !m.state.Catalog().Contains(msg.zone) {
			slog.Warn("Current time zone is not in the catalog", "zone", msg.zone)
		}
		if i := slices.Index(m.state.Rows(), msg.zone); msg.ok && i >= 0 && m.state.Cursor() < 0 {
			m.offset = max(0, i-m.listHeight()/2)
		}
		m.scroll()
		return m, nil

	case commitResultMsg:
		m.state.FinishCommit(msg.zone, msg.err)
		if msg.err != nil {
			slog.Error("Setting time zone failed", "zone", msg.zone, "error", msg.err)
		}
		return m, nil

	case tea.KeyMsg:
		m.notice = ""
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "ctrl+p":
			m.state.Move(-1)
		case "down", "ctrl+n":
			m.state.Move(1)
		case "pgup":
			m.state.Move(-m.listHeight())
		case "pgdown":
			m.state.Move(m.listHeight())
		case "enter":
			zone, err := m.state.BeginCommit()
			switch {
			case errors.Is(err, picker.ErrNothingSelected):
				m.notice = "Choose a time zone with the arrow keys, then press enter"
				return m, nil
			case err != nil:
				m.notice = err.Error()
				return m, nil
			}
			slog.Info("Setting time zone", "zone", zone)
			return m, commitCmd(m.ctx, m.syncer, zone)
		default:
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			m.state.SetQuery(m.input.Value())
			m.scroll()
			return m, cmd
		}
		m.scroll()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) listHeight() int {
	if m.height <= 0 {
		return defaultListHeight
	}
	return max(1, m.height-chromeLines)
}

// scroll keeps the cursor row inside the visible window.
func (m *Model) scroll() {
	h := m.listHeight()
	if c := m.state.Cursor(); c >= 0 {
		if c < m.offset {
			m.offset = c
		}
		if c >= m.offset+h {
			m.offset = c - h + 1
		}
	}
	m.offset = max(0, min(m.offset, len(m.state.Rows())-h))
}

package tui

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"

	"github.com/tzlist/tzselect/catalog"
	"github.com/tzlist/tzselect/picker"
)

type fakeSyncer struct {
	mu      sync.Mutex
	current string
	known   bool
	setErr  error
	set     []string
}

func (f *fakeSyncer) ReadCurrentZone(context.Context) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current, f.known
}

func (f *fakeSyncer) SetZone(_ context.Context, zone string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.set = append(f.set, zone)
	if f.setErr != nil {
		return f.setErr
	}
	f.current, f.known = zone, true
	return nil
}

func newModel(t *testing.T, syncer *fakeSyncer) Model {
	t.Helper()
	c := catalog.New([]catalog.Zone{
		{Name: "America/New_York", Extend: "EST5EDT,M3.2.0,M11.1.0"},
		{Name: "Asia/Tokyo", Extend: "JST-9"},
		{Name: "Etc/UTC", Extend: "UTC0"},
		{Name: "Europe/London", Extend: "GMT0BST,M3.5.0/1,M10.5.0"},
		{Name: "Europe/Paris", Extend: "CET-1CEST,M3.5.0,M10.5.0/3"},
		{Name: "Japan", Target: "Asia/Tokyo", Extend: "JST-9"},
	})
	m := New(context.Background(), picker.New(c), syncer)

	// Init batches the cursor blink with the current zone read; run both
	// once and feed back only the read.
	batch, ok := m.Init()().(tea.BatchMsg)
	if !ok {
		t.Fatal("Init did not return a batch")
	}
	for _, cmd := range batch {
		if cmd == nil {
			continue
		}
		if msg, ok := cmd().(currentZoneMsg); ok {
			m = update(t, m, msg)
		}
	}
	return m
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func updateCmd(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	for _, r := range text {
		m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func key(k tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: k} }

func TestCurrentZoneLabel(t *testing.T) {
	m := newModel(t, &fakeSyncer{current: "Europe/Paris", known: true})
	view := m.View()
	if !strings.Contains(view, "Current time zone: Europe/Paris") {
		t.Errorf("label missing:\n%s", view)
	}
	if !strings.Contains(view, "* Europe/Paris") {
		t.Errorf("current zone not marked:\n%s", view)
	}
	if strings.Count(view, "* ") != 1 {
		t.Errorf("want exactly one marked row:\n%s", view)
	}

	m = newModel(t, &fakeSyncer{})
	view = m.View()
	if !strings.Contains(view, "Current time zone: unknown") {
		t.Errorf("unknown label missing:\n%s", view)
	}
	if strings.Contains(view, "* ") {
		t.Errorf("no row should be marked:\n%s", view)
	}
}

func TestLoadingLabel(t *testing.T) {
	m := New(context.Background(), picker.New(catalog.FromNames("Etc/UTC")), &fakeSyncer{})
	if !strings.Contains(m.View(), "Current time zone: checking...") {
		t.Errorf("loading label missing:\n%s", m.View())
	}
}

func TestTypingFilters(t *testing.T) {
	m := newModel(t, &fakeSyncer{current: "Europe/Paris", known: true})
	m = typeText(t, m, "EUROPE")

	if diff := cmp.Diff([]string{"Europe/London", "Europe/Paris"}, m.State().Rows()); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
	view := m.View()
	if strings.Contains(view, "Asia/Tokyo") {
		t.Errorf("filtered row still shown:\n%s", view)
	}

	m = typeText(t, m, "zzz")
	if !strings.Contains(m.View(), "(no matching time zones)") {
		t.Errorf("empty notice missing:\n%s", m.View())
	}

	for range 3 {
		m = update(t, m, key(tea.KeyBackspace))
	}
	if m.State().Query() != "EUROPE" {
		t.Errorf("got query %q, want EUROPE", m.State().Query())
	}
}

func TestEnterWithoutSelection(t *testing.T) {
	syncer := &fakeSyncer{}
	m := newModel(t, syncer)
	m, cmd := updateCmd(t, m, key(tea.KeyEnter))
	if cmd != nil {
		t.Error("enter without a selection issued a command")
	}
	if !strings.Contains(m.View(), "Choose a time zone") {
		t.Errorf("hint missing:\n%s", m.View())
	}
	if len(syncer.set) != 0 {
		t.Errorf("set called with %v", syncer.set)
	}
}

func TestCommitSuccess(t *testing.T) {
	syncer := &fakeSyncer{current: "Europe/Paris", known: true}
	m := newModel(t, syncer)
	m = typeText(t, m, "tokyo")
	m = update(t, m, key(tea.KeyDown))

	if zone, _ := m.State().Selection(); zone != "Asia/Tokyo" {
		t.Fatalf("got selection %q, want Asia/Tokyo", zone)
	}
	if !strings.Contains(m.View(), "Asia/Tokyo: JST (UTC +09:00)") {
		t.Errorf("details missing:\n%s", m.View())
	}

	m, cmd := updateCmd(t, m, key(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("enter issued no command")
	}
	if !m.State().Committing() {
		t.Error("state not committing")
	}
	msg := cmd()
	m = update(t, m, msg)

	if diff := cmp.Diff([]string{"Asia/Tokyo"}, syncer.set); diff != "" {
		t.Errorf("set calls mismatch (-want +got):\n%s", diff)
	}
	if m.State().Phase() != picker.Committed {
		t.Errorf("got phase %v, want %v", m.State().Phase(), picker.Committed)
	}
	m = update(t, m, key(tea.KeyCtrlU))
	view := m.View()
	if !strings.Contains(view, "Current time zone: Asia/Tokyo") {
		t.Errorf("label not updated:\n%s", view)
	}
	if !strings.Contains(view, "* Asia/Tokyo") || strings.Contains(view, "* Europe/Paris") {
		t.Errorf("highlight not moved:\n%s", view)
	}
	if !strings.Contains(view, "Time zone set to Asia/Tokyo") {
		t.Errorf("status missing:\n%s", view)
	}

	m, cmd = updateCmd(t, m, key(tea.KeyEnter))
	if cmd != nil {
		t.Error("enter on the committed zone issued a command")
	}
	if !strings.Contains(m.View(), "time zone already set to Asia/Tokyo") {
		t.Errorf("already set notice missing:\n%s", m.View())
	}
	if len(syncer.set) != 1 {
		t.Errorf("set called %d times, want 1", len(syncer.set))
	}
}

func TestCurrentZoneNotInCatalog(t *testing.T) {
	m := newModel(t, &fakeSyncer{current: "Mars/Base", known: true})
	view := m.View()
	if !strings.Contains(view, "Current time zone: Mars/Base") {
		t.Errorf("label missing:\n%s", view)
	}
	if strings.Contains(view, "* ") {
		t.Errorf("no row should be marked:\n%s", view)
	}

	m = update(t, m, key(tea.KeyDown))
	if m.State().Cursor() != 0 {
		t.Errorf("got cursor %d, want 0", m.State().Cursor())
	}
	if zone, _ := m.State().Selection(); zone != "America/New_York" {
		t.Errorf("got selection %q, want America/New_York", zone)
	}
}

func TestCommitFailure(t *testing.T) {
	syncer := &fakeSyncer{current: "Europe/Paris", known: true, setErr: errors.New("Access denied")}
	m := newModel(t, syncer)
	m = typeText(t, m, "tokyo")
	m = update(t, m, key(tea.KeyDown))

	m, cmd := updateCmd(t, m, key(tea.KeyEnter))
	m = update(t, m, cmd())

	if m.State().Phase() != picker.Selected {
		t.Errorf("got phase %v, want %v", m.State().Phase(), picker.Selected)
	}
	if cur, _ := m.State().Current(); cur != "Europe/Paris" {
		t.Errorf("got current %q, want Europe/Paris", cur)
	}
	if !strings.Contains(m.View(), "Could not set time zone to Asia/Tokyo: Access denied") {
		t.Errorf("error not shown:\n%s", m.View())
	}
}

func TestSecondEnterWhileCommitting(t *testing.T) {
	m := newModel(t, &fakeSyncer{})
	m = update(t, m, key(tea.KeyDown))
	m, first := updateCmd(t, m, key(tea.KeyEnter))
	m, second := updateCmd(t, m, key(tea.KeyEnter))
	if first == nil || second != nil {
		t.Errorf("got commands (%v, %v), want exactly one commit", first != nil, second != nil)
	}
	if !strings.Contains(m.View(), "already in progress") {
		t.Errorf("pending notice missing:\n%s", m.View())
	}
}

func TestQuit(t *testing.T) {
	for _, k := range []tea.KeyType{tea.KeyEsc, tea.KeyCtrlC} {
		m := newModel(t, &fakeSyncer{})
		_, cmd := updateCmd(t, m, key(k))
		if cmd == nil {
			t.Fatalf("%v: no command", k)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%v: command is not tea.Quit", k)
		}
	}
}

func TestScrolling(t *testing.T) {
	names := make([]string, 0, 50)
	for i := range 50 {
		names = append(names, "Zone/"+string(rune('A'+i/26))+string(rune('a'+i%26)))
	}
	m := New(context.Background(), picker.New(catalog.FromNames(names...)), &fakeSyncer{})
	m = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 16})
	m = update(t, m, currentZoneMsg{})

	if h := m.listHeight(); h != 10 {
		t.Fatalf("got list height %d, want 10", h)
	}
	m = update(t, m, key(tea.KeyPgDown))
	m = update(t, m, key(tea.KeyPgDown))
	if c := m.State().Cursor(); c != 10 {
		t.Errorf("got cursor %d, want 10", c)
	}
	if m.offset != 1 {
		t.Errorf("got offset %d, want 1", m.offset)
	}
	view := m.View()
	if strings.Contains(view, "Zone/Aa") || !strings.Contains(view, "Zone/Ak") {
		t.Errorf("window not scrolled:\n%s", view)
	}
	for range 60 {
		m = update(t, m, key(tea.KeyDown))
	}
	if c, off := m.State().Cursor(), m.offset; c != 49 || off != 40 {
		t.Errorf("got cursor %d offset %d, want 49 and 40", c, off)
	}
}

func TestWithQuery(t *testing.T) {
	m := newModel(t, &fakeSyncer{}).WithQuery("paris")
	if diff := cmp.Diff([]string{"Europe/Paris"}, m.State().Rows()); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(m.View(), "> paris") {
		t.Errorf("query not in input:\n%s", m.View())
	}
}

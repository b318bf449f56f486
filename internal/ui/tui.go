package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/idilsaglam/todolist/internal/model"
	"github.com/idilsaglam/todolist/internal/session"
)

// EmptyPlaceholder is shown instead of the list while the store is empty.
const EmptyPlaceholder = "Add todo to your list"

// Options tune the interactive view.
type Options struct {
	CharLimit int
	Logger    *log.Logger
}

// listItem adapts model.Item to bubbles/list.Item
type listItem struct{ item model.Item }

func (i listItem) Title() string       { return i.item.Text }
func (i listItem) Description() string { return createdLine(i.item) }
func (i listItem) FilterValue() string { return i.item.Text }

func createdLine(it model.Item) string {
	return fmt.Sprintf("Created: %s at %s", it.CreatedDate, it.CreatedTime)
}

// itemDelegate renders the checkbox line and the creation stamp under it.
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 2 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(listItem)
	if !ok {
		return
	}
	t := Current()

	box := t.Muted.Render(t.BoxUnchecked)
	text := it.item.Text
	if it.item.Checked {
		box = t.Success.Render(t.BoxChecked)
		text = t.Done.Render(text)
	}
	prefix := strings.Repeat(" ", len([]rune(t.Cursor)))
	if index == m.Index() {
		prefix = t.Selected.Render(t.Cursor)
	}
	fmt.Fprintf(w, "%s%s %s\n", prefix, box, text)
	fmt.Fprintf(w, "%s  %s", strings.Repeat(" ", len([]rune(t.Cursor))), t.Muted.Render(createdLine(it.item)))
}

type keyMap struct {
	Add, Edit, Toggle, Delete, Filter, Quit key.Binding
	FilterAll, FilterComplete, FilterOpen   key.Binding
}

var keys = keyMap{
	Add:            key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
	Edit:           key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
	Toggle:         key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "toggle")),
	Delete:         key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete")),
	Filter:         key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filter")),
	FilterAll:      key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "all")),
	FilterComplete: key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "complete")),
	FilterOpen:     key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "incomplete")),
	Quit:           key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
}

// Model is the Bubble Tea model for the todo screen. All state lives in the
// session; the model only mirrors it into widgets.
type Model struct {
	sess  *session.Session
	list  list.Model
	input textinput.Model
	log   *log.Logger

	width, height int
}

// NewModel builds the screen around sess.
func NewModel(sess *session.Session, opt Options) Model {
	l := list.New(nil, itemDelegate{}, 0, 0)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(false)
	l.SetStatusBarItemName("todo", "todos")
	l.Styles.Title = Current().Title
	l.Styles.HelpStyle = Current().Help
	l.Styles.PaginationStyle = Current().Help

	// d and f are ours; keep paging on arrows
	l.KeyMap.NextPage = key.NewBinding(key.WithKeys("right", "l", "pgdown"), key.WithHelp("→/l", "next page"))
	l.KeyMap.PrevPage = key.NewBinding(key.WithKeys("left", "h", "pgup"), key.WithHelp("←/h", "prev page"))
	l.KeyMap.Quit = keys.Quit

	short := []key.Binding{keys.Add, keys.Edit, keys.Toggle, keys.Delete, keys.Filter}
	l.AdditionalShortHelpKeys = func() []key.Binding { return short }
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return append(short, keys.FilterAll, keys.FilterComplete, keys.FilterOpen)
	}

	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = opt.CharLimit

	logger := opt.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	m := Model{sess: sess, list: l, input: ti, log: logger, width: 80, height: 24}
	m.refresh()
	return m
}

// Run starts the interactive screen and blocks until the user quits.
func Run(sess *session.Session, opt Options) error {
	_, err := tea.NewProgram(NewModel(sess, opt), tea.WithAltScreen()).Run()
	return err
}

// Session returns the session the model renders.
func (m Model) Session() *session.Session { return m.sess }

// refresh mirrors the session's filtered view into the list.
func (m *Model) refresh() {
	idx := m.list.Index()
	view := m.sess.View()
	li := make([]list.Item, 0, len(view))
	for _, it := range view {
		li = append(li, listItem{item: it})
	}
	m.list.SetItems(li)
	if idx >= len(li) {
		idx = len(li) - 1
	}
	if idx >= 0 {
		m.list.Select(idx)
	}

	done, pending := m.sess.Store().Stats()
	m.list.Title = fmt.Sprintf("%s  %s", Header(done, pending), Current().Muted.Render("["+m.sess.Filter().String()+"]"))
	m.resize()
}

func (m *Model) resize() {
	h := m.height - 4
	if m.sess.Mode() != session.Closed {
		h -= 4
	}
	if h < 1 {
		h = 1
	}
	m.list.SetSize(m.width-4, h)
}

func (m Model) selected() (model.Item, bool) {
	it, ok := m.list.SelectedItem().(listItem)
	return it.item, ok
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		m.width, m.height = ws.Width, ws.Height
		m.resize()
		return m, nil
	}
	if m.sess.Mode() != session.Closed {
		return m.updateForm(msg)
	}

	km, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(km, keys.Quit):
		return m, tea.Quit

	case key.Matches(km, keys.Add):
		m.sess.OpenAdd()
		m.input.Reset()
		m.input.Placeholder = "New todo item..."
		cmd := m.input.Focus()
		m.resize()
		return m, cmd

	case key.Matches(km, keys.Edit):
		it, ok := m.selected()
		if !ok {
			return m, nil
		}
		if err := m.sess.OpenEdit(it.ID); err != nil {
			m.log.Debug("open edit", "id", it.ID, "err", err)
			m.refresh()
			return m, nil
		}
		m.input.SetValue(it.Text)
		m.input.CursorEnd()
		m.input.Placeholder = "Edit todo item..."
		cmd := m.input.Focus()
		m.resize()
		return m, cmd

	case key.Matches(km, keys.Toggle):
		if it, ok := m.selected(); ok {
			if err := m.sess.Toggle(it.ID); err != nil {
				m.log.Debug("toggle", "id", it.ID, "err", err)
			}
			m.refresh()
		}
		return m, nil

	case key.Matches(km, keys.Delete):
		if it, ok := m.selected(); ok {
			if err := m.sess.Delete(it.ID); err != nil {
				m.log.Debug("delete", "id", it.ID, "err", err)
			}
			m.refresh()
		}
		return m, nil

	case key.Matches(km, keys.Filter):
		m.sess.CycleFilter()
		m.refresh()
		return m, nil

	case key.Matches(km, keys.FilterAll):
		m.sess.SetFilter(model.FilterAll)
		m.refresh()
		return m, nil

	case key.Matches(km, keys.FilterComplete):
		m.sess.SetFilter(model.FilterComplete)
		m.refresh()
		return m, nil

	case key.Matches(km, keys.FilterOpen):
		m.sess.SetFilter(model.FilterIncomplete)
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "enter":
			_, err := m.sess.Submit(m.input.Value())
			if err != nil && m.sess.Mode() != session.Closed {
				// validation failure: keep the form, Invalid() carries the message
				return m, nil
			}
			if err != nil {
				m.log.Debug("submit", "err", err)
			}
			m.input.Reset()
			m.input.Blur()
			m.refresh()
			return m, nil
		case "esc":
			m.sess.Close()
			m.input.Reset()
			m.input.Blur()
			m.resize()
			return m, nil
		case "ctrl+c":
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	t := Current()
	var content string
	if m.sess.Store().Len() == 0 {
		content = m.list.Title + "\n\n" + t.Muted.Render(EmptyPlaceholder) + "\n\n" +
			t.Help.Render("a add • q quit")
	} else {
		content = m.list.View()
	}

	if mode := m.sess.Mode(); mode != session.Closed {
		title := "Add new todo item"
		if mode == session.EditOpen {
			title = "Edit todo item"
		}
		if msg := m.sess.Invalid(); msg != "" {
			title += "  " + t.Error.Render(msg)
		}
		form := title + "\n" + m.input.View() + "\n" + t.Help.Render("enter save • esc cancel")
		content += "\n" + Panel([]string{form})
	}
	return Panel([]string{content})
}

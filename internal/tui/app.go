package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/muurk/contactdesk/internal/apicall"
	"github.com/muurk/contactdesk/internal/contact"
	"github.com/muurk/contactdesk/internal/contactapi"
	"github.com/muurk/contactdesk/internal/logging"
	"github.com/muurk/contactdesk/internal/roster"
)

// DefaultCallTimeout bounds each API call made from the table.
const DefaultCallTimeout = 10 * time.Second

// API is the contact service the table talks to. *contactapi.Client
// implements it.
type API interface {
	FetchAll(ctx context.Context) ([]contact.Contact, error)
	Add(ctx context.Context, c contact.Contact) error
	Update(ctx context.Context, c contact.Contact) error
	Delete(ctx context.Context, id string) error
}

// Results of API calls, delivered back to Update
type contactsLoadedMsg struct {
	contacts []contact.Contact
	err      error
}

type contactAddedMsg struct {
	contact contact.Contact
	formSeq int
	err     error
}

type contactDeletedMsg struct {
	id  string
	err error
}

type contactSavedMsg struct {
	commit roster.Commit
	err    error
}

// Options configures a Model.
type Options struct {
	// Endpoint is shown in the header, typically the API collection URL.
	Endpoint string

	// CallTimeout bounds each API call. Zero means DefaultCallTimeout.
	CallTimeout time.Duration

	// Tracker records in-flight calls. Nil creates a private one.
	Tracker *apicall.Tracker
}

// Model is the contact table: the list fetched from the API, inline row
// editing, the creation form modal and the loading overlay.
type Model struct {
	api      API
	roster   *roster.Roster
	calls    *apicall.Tracker
	timeout  time.Duration
	endpoint string

	// Table navigation
	Cursor int
	offset int

	// Inline editing. EditingID is empty when no row is being edited;
	// the table edits one row at a time.
	EditingID  string
	fieldFocus int
	inputs     []textinput.Model

	// Creation form. formSeq counts form openings so a late add result
	// does not close a form opened after it was submitted.
	ShowingForm bool
	Form        FormModel
	formSeq     int

	// Err is the inline error line. Cleared by the next successful call.
	Err string

	Loaded bool

	Spinner  spinner.Model
	Help     help.Model
	keys     tableKeyMap
	editKeys editKeyMap

	Width  int
	Height int
}

// NewModel creates the table model for api.
func NewModel(api API, opts Options) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	calls := opts.Tracker
	if calls == nil {
		calls = apicall.NewTracker(nil)
	}
	timeout := opts.CallTimeout
	if timeout <= 0 {
		timeout = DefaultCallTimeout
	}

	inputs := make([]textinput.Model, len(contact.Fields))
	for i, f := range contact.Fields {
		inputs[i] = newFieldInput(f)
		inputs[i].Width = 16
		if f.Numeric() {
			inputs[i].Width = 4
		}
	}

	return Model{
		api:      api,
		roster:   roster.New(),
		calls:    calls,
		timeout:  timeout,
		endpoint: opts.Endpoint,
		inputs:   inputs,
		Form:     NewFormModel(),
		Spinner:  s,
		Help:     help.New(),
		keys:     newTableKeyMap(),
		editKeys: newEditKeyMap(),
	}
}

// Roster returns the contact list backing the table.
func (m Model) Roster() *roster.Roster {
	return m.roster
}

// Loading reports whether any API call is in flight.
func (m Model) Loading() bool {
	return m.calls.Loading()
}

// Init fetches the contact list
func (m Model) Init() tea.Cmd {
	return m.loadCmd()
}

// track begins a call on the tracker immediately and returns a command that
// performs it off the update loop and reports the outcome through done.
// The spinner is started when this call is the first one in flight.
func track[T any](m Model, label string, fn func(context.Context) (T, error), done func(T, error) tea.Msg) tea.Cmd {
	wasLoading := m.calls.Loading()
	timeout := m.timeout

	call := apicall.Start(context.Background(), m.calls, label, func(ctx context.Context) (T, error) {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		return fn(ctx)
	})
	cmd := func() tea.Msg {
		return done(call())
	}

	if wasLoading {
		return cmd
	}
	return tea.Batch(cmd, m.Spinner.Tick)
}

func (m Model) loadCmd() tea.Cmd {
	return track(m, "fetch contacts", m.api.FetchAll, func(contacts []contact.Contact, err error) tea.Msg {
		return contactsLoadedMsg{contacts: contacts, err: err}
	})
}

func (m Model) addCmd(c contact.Contact) tea.Cmd {
	seq := m.formSeq
	return track(m, "add contact", func(ctx context.Context) (contact.Contact, error) {
		return c, m.api.Add(ctx, c)
	}, func(c contact.Contact, err error) tea.Msg {
		return contactAddedMsg{contact: c, formSeq: seq, err: err}
	})
}

func (m Model) deleteCmd(id string) tea.Cmd {
	return track(m, "delete contact", func(ctx context.Context) (string, error) {
		return id, m.api.Delete(ctx, id)
	}, func(id string, err error) tea.Msg {
		return contactDeletedMsg{id: id, err: err}
	})
}

func (m Model) saveCmd(commit roster.Commit) tea.Cmd {
	return track(m, "update contact", func(ctx context.Context) (roster.Commit, error) {
		return commit, m.api.Update(ctx, commit.Applied)
	}, func(commit roster.Commit, err error) tea.Msg {
		return contactSavedMsg{commit: commit, err: err}
	})
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Form.Width = SafeModalWidth(FormWidth, msg.Width)
		m.Help.Width = msg.Width
		m.clampCursor()
		return m, nil

	case spinner.TickMsg:
		if !m.calls.Loading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case contactsLoadedMsg:
		return m.handleLoaded(msg)

	case contactAddedMsg:
		return m.handleAdded(msg)

	case contactDeletedMsg:
		return m.handleDeleted(msg)

	case contactSavedMsg:
		return m.handleSaved(msg)

	case formSubmittedMsg:
		return m.handleFormSubmitted(msg)

	case formCancelledMsg:
		m.ShowingForm = false
		m.Form = m.Form.Reset()
		m.formSeq++
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
	}

	switch {
	case m.ShowingForm:
		var cmd tea.Cmd
		m.Form, cmd = m.Form.Update(msg)
		return m, cmd
	case m.EditingID != "":
		return m.updateEditing(msg)
	default:
		return m.updateBrowsing(msg)
	}
}

// updateBrowsing handles input when no row is being edited
func (m Model) updateBrowsing(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(keyMsg, m.keys.Up):
		if m.Cursor > 0 {
			m.Cursor--
		}
		m.clampCursor()

	case key.Matches(keyMsg, m.keys.Down):
		if m.Cursor < m.roster.Len()-1 {
			m.Cursor++
		}
		m.clampCursor()

	case key.Matches(keyMsg, m.keys.Help):
		m.Help.ShowAll = !m.Help.ShowAll

	case key.Matches(keyMsg, m.keys.Add):
		m.ShowingForm = true
		m.Form = m.Form.Reset()
		m.formSeq++
		return m, m.Form.Init()

	case key.Matches(keyMsg, m.keys.Delete):
		row, ok := m.roster.At(m.Cursor)
		if !ok {
			return m, nil
		}
		return m, m.deleteCmd(row.ID)

	case key.Matches(keyMsg, m.keys.Edit):
		row, ok := m.roster.At(m.Cursor)
		if !ok {
			return m, nil
		}
		return m.beginEdit(row.ID)

	case key.Matches(keyMsg, m.keys.Reload):
		if len(m.roster.Editing()) > 0 {
			return m, nil
		}
		return m, m.loadCmd()
	}

	return m, nil
}

// beginEdit toggles the row into editing and loads its buffer into the inputs
func (m Model) beginEdit(id string) (tea.Model, tea.Cmd) {
	if _, _, err := m.roster.Toggle(id); err != nil {
		m.Err = err.Error()
		return m, nil
	}
	m.EditingID = id
	m.fieldFocus = 0
	m.loadInputs()
	return m, m.inputs[0].Focus()
}

// loadInputs copies the edit buffer of the editing row into the inputs.
func (m *Model) loadInputs() {
	draft, _ := m.roster.Draft(m.EditingID)
	for i, f := range contact.Fields {
		m.inputs[i].SetValue(f.Get(draft))
		m.inputs[i].CursorEnd()
		m.inputs[i].Blur()
	}
}

// updateEditing handles input while a row is being edited
func (m Model) updateEditing(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.inputs[m.fieldFocus], cmd = m.inputs[m.fieldFocus].Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(keyMsg, m.editKeys.Save):
		return m.save()

	case key.Matches(keyMsg, m.editKeys.Cancel):
		if err := m.roster.CancelEdit(m.EditingID); err != nil {
			logging.Warn("Cancel edit failed", zap.String("id", m.EditingID), zap.Error(err))
		}
		m.EditingID = ""
		return m, nil

	case key.Matches(keyMsg, m.editKeys.Next):
		return m.focusField(m.fieldFocus + 1)

	case key.Matches(keyMsg, m.editKeys.Prev):
		return m.focusField(m.fieldFocus - 1)
	}

	field := contact.Fields[m.fieldFocus]
	if field.Numeric() && !numberKey(keyMsg, m.inputs[m.fieldFocus]) {
		return m, nil
	}

	var cmd tea.Cmd
	m.inputs[m.fieldFocus], cmd = m.inputs[m.fieldFocus].Update(msg)
	if err := m.roster.SetField(m.EditingID, field, m.inputs[m.fieldFocus].Value()); err != nil {
		m.Err = err.Error()
	}
	return m, cmd
}

func (m Model) focusField(i int) (tea.Model, tea.Cmd) {
	n := len(m.inputs)
	i = (i%n + n) % n

	m.inputs[m.fieldFocus].Blur()
	m.fieldFocus = i
	return m, m.inputs[i].Focus()
}

// save commits the edit buffer optimistically and sends it to the API
func (m Model) save() (tea.Model, tea.Cmd) {
	id := m.EditingID
	m.EditingID = ""

	commit, committed, err := m.roster.Toggle(id)
	if err != nil || !committed {
		if err != nil {
			m.Err = err.Error()
		}
		return m, nil
	}
	return m, m.saveCmd(commit)
}

func (m Model) handleFormSubmitted(msg formSubmittedMsg) (tea.Model, tea.Cmd) {
	id := contact.NewID()
	for m.roster.Has(id) {
		id = contact.NewID()
	}
	return m, m.addCmd(msg.draft.WithID(id))
}

func (m Model) handleLoaded(msg contactsLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.Err = contactapi.ShortMessage(msg.err)
		return m, nil
	}

	m.roster.Load(msg.contacts)
	m.EditingID = ""
	m.Loaded = true
	m.Err = ""
	m.clampCursor()
	return m, nil
}

// handleAdded settles an add. A result for a form that has since been
// cancelled or reopened still updates the list but leaves the form alone.
func (m Model) handleAdded(msg contactAddedMsg) (tea.Model, tea.Cmd) {
	current := msg.formSeq == m.formSeq
	if msg.err != nil {
		m.Err = contactapi.ShortMessage(msg.err)
		if current {
			m.Form.Submitting = false
			m.Form.Err = m.Err
		}
		return m, nil
	}

	if err := m.roster.Append(msg.contact); err != nil {
		logging.Warn("Added contact not shown", zap.String("id", msg.contact.ID), zap.Error(err))
	}
	m.Err = ""
	if !current {
		return m, nil
	}
	m.ShowingForm = false
	m.Form = m.Form.Reset()
	m.formSeq++
	m.Cursor = m.roster.Len() - 1
	m.clampCursor()
	return m, nil
}

func (m Model) handleDeleted(msg contactDeletedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.Err = contactapi.ShortMessage(msg.err)
		return m, nil
	}

	m.roster.Remove(msg.id)
	if m.EditingID == msg.id {
		m.EditingID = ""
	}
	m.Err = ""
	m.clampCursor()
	return m, nil
}

func (m Model) handleSaved(msg contactSavedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.Err = contactapi.ShortMessage(msg.err)
		if !m.roster.Revert(msg.commit) {
			logging.Debug("Stale update failure not reverted", zap.String("id", msg.commit.ID))
			return m, nil
		}
		// The row was opened again before the update failed; its buffer
		// still holds the rejected values.
		if m.EditingID == msg.commit.ID && m.roster.ResetDraft(msg.commit.ID) {
			focus := m.fieldFocus
			m.loadInputs()
			return m, m.inputs[focus].Focus()
		}
		return m, nil
	}

	m.Err = ""
	return m, nil
}

// visibleRows is how many table rows fit on screen.
func (m Model) visibleRows() int {
	if m.Height <= 0 {
		return m.roster.Len()
	}
	if n := m.Height - chromeHeight; n > minVisibleRows {
		return n
	}
	return minVisibleRows
}

// clampCursor keeps the cursor on a row and scrolls it into view.
func (m *Model) clampCursor() {
	n := m.roster.Len()
	if m.Cursor >= n {
		m.Cursor = n - 1
	}
	if m.Cursor < 0 {
		m.Cursor = 0
	}

	visible := m.visibleRows()
	if m.Cursor < m.offset {
		m.offset = m.Cursor
	}
	if visible > 0 && m.Cursor >= m.offset+visible {
		m.offset = m.Cursor - visible + 1
	}
	if m.offset > n-visible {
		m.offset = n - visible
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

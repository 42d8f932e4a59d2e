package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/contactdesk/internal/contact"
)

// Messages sent by the form to its parent
type formSubmittedMsg struct {
	draft contact.Draft
}

type formCancelledMsg struct{}

// ageCharLimit fits any int32 age, sign included.
const ageCharLimit = 11

// FormModel collects a new contact: one text input per contact.Field.
type FormModel struct {
	Inputs []textinput.Model
	Focus  int

	// Err is shown under the inputs: a validation failure or the API error
	// from the last submit.
	Err string

	// Submitting is set while the parent's add call is in flight; further
	// submits are ignored until it settles.
	Submitting bool

	Width int

	keys formKeyMap
	help help.Model
}

// NewFormModel creates an empty form with the first input focused.
func NewFormModel() FormModel {
	inputs := make([]textinput.Model, len(contact.Fields))
	for i, f := range contact.Fields {
		inputs[i] = newFieldInput(f)
	}
	inputs[0].Focus()

	return FormModel{
		Inputs: inputs,
		Width:  FormWidth,
		keys:   newFormKeyMap(),
		help:   help.New(),
	}
}

func newFieldInput(f contact.Field) textinput.Model {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = strings.ToLower(f.Label())
	ti.CharLimit = 64
	ti.Width = 32
	ti.PromptStyle = FocusedInputStyle
	ti.PlaceholderStyle = BlurredInputStyle
	ti.TextStyle = lipgloss.NewStyle().Foreground(TextColor)
	if f.Numeric() {
		ti.Placeholder = "0"
		ti.CharLimit = ageCharLimit
		ti.Width = 5
	}
	return ti
}

// Init starts the cursor blinking
func (f FormModel) Init() tea.Cmd {
	return textinput.Blink
}

// Reset clears every input and error and focuses the first field.
func (f FormModel) Reset() FormModel {
	fresh := NewFormModel()
	fresh.Width = f.Width
	return fresh
}

// Draft reads the inputs into a contact draft. Age parses as in the table;
// an empty age is 0 here and rejected by submit.
func (f FormModel) Draft() (contact.Draft, error) {
	var c contact.Contact
	for i, field := range contact.Fields {
		if err := field.Set(&c, strings.TrimSpace(f.Inputs[i].Value())); err != nil {
			return contact.Draft{}, err
		}
	}
	return c.Draft(), nil
}

// Update handles key input for the form
func (f FormModel) Update(msg tea.Msg) (FormModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		f.Inputs[f.Focus], cmd = f.Inputs[f.Focus].Update(msg)
		return f, cmd
	}

	switch {
	case key.Matches(keyMsg, f.keys.Cancel):
		return f, func() tea.Msg { return formCancelledMsg{} }

	case key.Matches(keyMsg, f.keys.Submit):
		return f.submit()

	case keyMsg.Type == tea.KeyEnter:
		if f.Focus == len(f.Inputs)-1 {
			return f.submit()
		}
		return f.focusInput(f.Focus + 1)

	case key.Matches(keyMsg, f.keys.Next):
		return f.focusInput(f.Focus + 1)

	case key.Matches(keyMsg, f.keys.Prev):
		return f.focusInput(f.Focus - 1)
	}

	if contact.Fields[f.Focus].Numeric() && !numberKey(keyMsg, f.Inputs[f.Focus]) {
		return f, nil
	}

	var cmd tea.Cmd
	f.Inputs[f.Focus], cmd = f.Inputs[f.Focus].Update(msg)
	return f, cmd
}

func (f FormModel) focusInput(i int) (FormModel, tea.Cmd) {
	n := len(f.Inputs)
	i = (i%n + n) % n

	f.Inputs[f.Focus].Blur()
	f.Focus = i
	return f, f.Inputs[f.Focus].Focus()
}

func (f FormModel) submit() (FormModel, tea.Cmd) {
	if f.Submitting {
		return f, nil
	}

	draft, err := f.Draft()
	if err == nil {
		err = draft.Validate()
	}
	if err == nil {
		err = f.requireNumbers()
	}
	if err != nil {
		f.Err = err.Error()
		return f, nil
	}

	f.Err = ""
	f.Submitting = true
	return f, func() tea.Msg { return formSubmittedMsg{draft: draft} }
}

// requireNumbers rejects a submit with an empty age.
func (f FormModel) requireNumbers() error {
	for i, field := range contact.Fields {
		if field.Numeric() && strings.TrimSpace(f.Inputs[i].Value()) == "" {
			return contact.ErrAgeRequired
		}
	}
	return nil
}

// View renders the form as a bordered modal box
func (f FormModel) View() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("New contact"))
	b.WriteString("\n\n")

	for i, field := range contact.Fields {
		label := FormLabelStyle.Render(field.Label())
		marker := "  "
		if i == f.Focus {
			label = FocusedInputStyle.Width(8).Render(field.Label())
			marker = FocusedInputStyle.Render(editingCellMarker + " ")
		}
		b.WriteString(marker + label + " " + f.Inputs[i].View() + "\n")
	}

	if f.Submitting {
		b.WriteString("\n" + SubtitleStyle.Render("Saving..."))
	}
	if f.Err != "" {
		b.WriteString("\n" + lipgloss.NewStyle().Width(f.Width-6).Render(RenderError(f.Err)))
	}

	b.WriteString("\n\n" + f.help.View(f.keys))
	return ModalStyle.Width(f.Width).Render(b.String())
}

// numberKey reports whether msg may be typed into the number input in. A
// minus sign is accepted only as the first character.
func numberKey(msg tea.KeyMsg, in textinput.Model) bool {
	if msg.Type == tea.KeyRunes && len(msg.Runes) == 1 && msg.Runes[0] == '-' {
		return in.Position() == 0 && !strings.HasPrefix(in.Value(), "-")
	}
	return digitsOnly(msg)
}

// digitsOnly reports whether a key may be typed into a number input.
// Editing and navigation keys pass; runes must all be decimal digits.
func digitsOnly(msg tea.KeyMsg) bool {
	if msg.Type == tea.KeySpace {
		return false
	}
	if msg.Type != tea.KeyRunes {
		return true
	}
	for _, r := range msg.Runes {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

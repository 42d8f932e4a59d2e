package tui

import (
	"testing"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muurk/contactdesk/internal/contact"
)

func typeInto(f FormModel, keys ...string) (FormModel, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		f, cmd = f.Update(keyMsg(k))
	}
	return f, cmd
}

func TestNewFormModel_Defaults(t *testing.T) {
	f := NewFormModel()

	require.Len(t, f.Inputs, len(contact.Fields))
	assert.Equal(t, 0, f.Focus)
	assert.True(t, f.Inputs[0].Focused())

	draft, err := f.Draft()
	require.NoError(t, err)
	assert.Equal(t, contact.Draft{}, draft, "empty strings and age 0")
}

func TestForm_FocusWraps(t *testing.T) {
	f := NewFormModel()

	f, _ = typeInto(f, "shift+tab")
	assert.Equal(t, len(contact.Fields)-1, f.Focus)
	f, _ = typeInto(f, "tab")
	assert.Equal(t, 0, f.Focus)
	f, _ = typeInto(f, "down", "down")
	assert.Equal(t, 2, f.Focus)
	assert.True(t, f.Inputs[2].Focused())
	assert.False(t, f.Inputs[0].Focused())
}

func TestForm_EnterAdvancesThenSubmits(t *testing.T) {
	f := NewFormModel()

	f, cmd := typeInto(f, "Ann", "enter", "555", "enter", "30", "enter", "a@x.com")
	assert.Equal(t, 3, f.Focus)
	assert.False(t, f.Submitting)

	f, cmd = f.Update(keyMsg("enter"))
	require.NotNil(t, cmd)
	assert.True(t, f.Submitting)
	assert.Equal(t, formSubmittedMsg{draft: contact.Draft{Name: "Ann", Phone: "555", Age: 30, Email: "a@x.com"}}, cmd())

	// a second submit while the first is in flight is ignored
	_, cmd = f.Update(keyMsg("ctrl+s"))
	assert.Nil(t, cmd)
}

func TestForm_ValidationErrorShown(t *testing.T) {
	f := NewFormModel()

	f, cmd := typeInto(f, "Ann", "tab", "555", "tab", "tab", "not-an-email", "ctrl+s")
	assert.Nil(t, cmd)
	assert.False(t, f.Submitting)
	assert.Contains(t, f.Err, "email")
	assert.Contains(t, f.View(), "email")
}

func TestForm_AgeDigitsOnly(t *testing.T) {
	f := NewFormModel()

	f, _ = typeInto(f, "tab", "tab", "4a", "b", "2")
	assert.Equal(t, "2", f.Inputs[2].Value())
}

func TestForm_AgeRequired(t *testing.T) {
	f := NewFormModel()

	f, cmd := typeInto(f, "Ann", "tab", "555", "tab", "tab", "a@x.com", "ctrl+s")
	assert.Nil(t, cmd)
	assert.False(t, f.Submitting)
	assert.Equal(t, contact.ErrAgeRequired.Error(), f.Err)

	f, cmd = typeInto(f, "shift+tab", "0", "ctrl+s")
	require.NotNil(t, cmd)
	assert.True(t, f.Submitting)
}

func TestForm_AgeLeadingMinus(t *testing.T) {
	f := NewFormModel()

	f, _ = typeInto(f, "tab", "tab", "-", "4", "-", "2")
	assert.Equal(t, "-42", f.Inputs[2].Value())
}

func TestForm_AgeLongerThanThreeDigits(t *testing.T) {
	f := NewFormModel()

	f, _ = typeInto(f, "tab", "tab", "12345")
	assert.Equal(t, "12345", f.Inputs[2].Value())
}

func TestForm_EscCancels(t *testing.T) {
	f := NewFormModel()

	_, cmd := typeInto(f, "Ann", "esc")
	require.NotNil(t, cmd)
	assert.Equal(t, formCancelledMsg{}, cmd())
}

func TestForm_ResetClears(t *testing.T) {
	f := NewFormModel()
	f, _ = typeInto(f, "Ann", "tab")
	f.Err = "boom"
	f.Submitting = true
	f.Width = 50

	f = f.Reset()
	assert.Empty(t, f.Inputs[0].Value())
	assert.Empty(t, f.Err)
	assert.False(t, f.Submitting)
	assert.Equal(t, 0, f.Focus)
	assert.Equal(t, 50, f.Width)
}

func TestDigitsOnly(t *testing.T) {
	assert.True(t, digitsOnly(keyMsg("42")))
	assert.False(t, digitsOnly(keyMsg("4x")))
	assert.False(t, digitsOnly(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}))
	assert.True(t, digitsOnly(keyMsg("backspace")))
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "7", ShortID("7"))
	assert.Equal(t, "0f8fad5b", ShortID("0f8fad5b-d9cb-469f-a165-70867728950e"))
	assert.Equal(t, "éééééééé", ShortID("éééééééééé"))
	assert.True(t, utf8.ValidString(ShortID("ab€€€€€€€€")))
}

func TestOverlayCenter(t *testing.T) {
	bg := "a\nb\nc\nd\ne"
	out := OverlayCenter(bg, "X", 3)
	assert.Equal(t, "a\nb\n X \nd\ne", out)
}

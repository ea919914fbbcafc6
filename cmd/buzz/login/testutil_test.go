package login

import (
	"testing"

	"buzz/cmd/buzz/ui"
	"buzz/internal/form"
	"buzz/internal/testing/fakeauth"

	tea "github.com/charmbracelet/bubbletea"
)

// newTestModel returns a screen over gw with the dark theme, so rendering
// does not depend on the test environment.
func newTestModel(gw form.Gateway, tweak ...func(*Options)) Model {
	opts := Options{
		Gateway: gw,
		Styles:  ui.NewStyles(ui.DarkTheme()),
	}
	for _, fn := range tweak {
		fn(&opts)
	}
	return New(opts)
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	result, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want login.Model", next)
	}
	return result, cmd
}

func press(t *testing.T, m Model, k tea.KeyType) (Model, tea.Cmd) {
	t.Helper()
	return update(t, m, tea.KeyMsg{Type: k})
}

func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return m
}

// settle runs cmd and feeds any backend completion back into the model.
// It returns the command produced by the completion, if any.
func settle(t *testing.T, m Model, cmd tea.Cmd) (Model, tea.Cmd) {
	t.Helper()
	var out tea.Cmd
	for _, msg := range collect(cmd) {
		if done, ok := msg.(effectDoneMsg); ok {
			m, out = update(t, m, done)
		}
	}
	return m, out
}

func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	batch, ok := msg.(tea.BatchMsg)
	if !ok {
		return []tea.Msg{msg}
	}
	var msgs []tea.Msg
	for _, c := range batch {
		msgs = append(msgs, collect(c)...)
	}
	return msgs
}

func isQuit(cmd tea.Cmd) bool {
	for _, msg := range collect(cmd) {
		if _, ok := msg.(tea.QuitMsg); ok {
			return true
		}
	}
	return false
}

// filled returns a screen with a valid email and passcode typed in, focus
// left on the passcode field.
func filled(t *testing.T, gw *fakeauth.Gateway, tweak ...func(*Options)) Model {
	t.Helper()
	m := newTestModel(gw, tweak...)
	m = typeText(t, m, "a@b.com")
	m, _ = press(t, m, tea.KeyTab)
	m = typeText(t, m, "123456")
	return m
}

package login

import (
	"strings"

	"buzz/cmd/buzz/ui"
	"buzz/internal/form"

	"github.com/charmbracelet/lipgloss"
)

const (
	sendLabel   = "Send code"
	signInLabel = "Sign in"
)

// View renders the screen.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	s := m.styles

	var b strings.Builder
	b.WriteString(ui.Logo(s))
	b.WriteString("\n")
	b.WriteString(m.field(m.email.View(), m.focus == focusEmail))
	b.WriteString("\n")
	b.WriteString(m.field(m.passcode.View(), m.focus == focusPasscode))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		m.button(sendLabel, form.SendEnabled(m.state), m.focus == focusSend),
		"   ",
		m.button(signInLabel, form.SignInEnabled(m.state), m.focus == focusSignIn),
	))
	b.WriteString("\n\n")

	if line := m.statusLine(); line != "" {
		b.WriteString(line)
		b.WriteString("\n\n")
	}

	if a := m.state.Alert; a != nil {
		b.WriteString(m.alertBox(*a))
		b.WriteString("\n")
		b.WriteString(m.help.View(alertKeys{m.keys}))
	} else {
		b.WriteString(m.help.View(m.keys))
	}

	return s.App.Render(b.String())
}

func (m Model) field(content string, focused bool) string {
	if focused {
		return m.styles.InputFocused.Render(content)
	}
	return m.styles.Input.Render(content)
}

func (m Model) button(label string, enabled, focused bool) string {
	switch {
	case !enabled:
		return m.styles.ButtonDisabled.Render(label)
	case focused:
		return m.styles.ButtonFocused.Render(label)
	default:
		return m.styles.Button.Render(label)
	}
}

func (m Model) statusLine() string {
	switch m.state.Phase {
	case form.PhaseRequestingCode:
		return m.spinner.View() + " Sending code..."
	case form.PhaseVerifyingCode:
		return m.spinner.View() + " Signing in..."
	}
	if sess := m.state.Session; sess != nil {
		return m.styles.Success.Render("✓ Signed in as " + sess.Email())
	}
	return ""
}

func (m Model) alertBox(a form.Alert) string {
	if a.Kind == form.AlertError {
		return m.styles.AlertError.Render(a.Text)
	}
	return m.styles.AlertInfo.Render(a.Text)
}

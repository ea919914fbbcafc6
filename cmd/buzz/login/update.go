package login

import (
	"buzz/internal/form"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case effectDoneMsg:
		return m.complete(msg.action)

	case spinner.TickMsg:
		// Let the tick loop die once nothing is pending.
		if !m.state.InFlight() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	// Cursor blink and friends.
	return m.updateInputs(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Abort) {
		m.quitting = true
		return m, tea.Quit
	}

	// The alert is modal: it swallows everything except its dismiss keys.
	if m.state.Alert != nil {
		if key.Matches(msg, m.keys.Dismiss) {
			m.state, _ = form.Reduce(m.state, form.DismissAlert{})
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Next):
		m.setFocus(m.focus + 1)
		return m, nil

	case key.Matches(msg, m.keys.Prev):
		m.setFocus(m.focus - 1)
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		switch m.focus {
		case focusEmail, focusSend:
			return m.dispatch(form.RequestCode{})
		default:
			return m.dispatch(form.VerifyCode{})
		}
	}

	return m.updateInputs(msg)
}

// updateInputs forwards msg to the focused field and mirrors its value
// into the form.
func (m Model) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case focusEmail:
		m.email, cmd = m.email.Update(msg)
		if v := m.email.Value(); v != m.state.Email {
			m.state, _ = form.Reduce(m.state, form.SetEmail{Text: v})
		}
	case focusPasscode:
		m.passcode, cmd = m.passcode.Update(msg)
		if v := m.passcode.Value(); v != m.state.Passcode {
			m.state, _ = form.Reduce(m.state, form.SetPasscode{Text: v})
		}
	}
	return m, cmd
}

// dispatch reduces a user action and starts any backend call it asks for.
func (m Model) dispatch(a form.Action) (tea.Model, tea.Cmd) {
	next, effect := form.Reduce(m.state, a)
	m.state = next
	if effect == nil {
		return m, nil
	}
	m.logger.Debug("auth call started", zap.Stringer("phase", m.state.Phase))
	return m, tea.Batch(m.run(effect), m.spinner.Tick)
}

func (m Model) run(effect form.Effect) tea.Cmd {
	ctx, gw, logger := m.ctx, m.gateway, m.logger
	return func() tea.Msg {
		return effectDoneMsg{action: form.Run(ctx, gw, effect, logger)}
	}
}

// complete folds a finished backend call into the form.
func (m Model) complete(a form.Action) (tea.Model, tea.Cmd) {
	signedIn := m.state.Session
	m.state, _ = form.Reduce(m.state, a)

	if m.state.Session == nil || m.state.Session == signedIn {
		return m, nil
	}

	m.logger.Info("signed in", zap.String("email", m.state.Session.Email()))
	if m.onSignedIn != nil {
		m.onSignedIn(*m.state.Session)
	}
	if m.quitOnSignIn {
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

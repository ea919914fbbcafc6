// Package login is the interactive email one-time-passcode sign-in screen.
// The screen keeps a form.State as its single source of truth; the text
// inputs are widgets whose values are pushed into it on every edit.
package login

import (
	"context"

	"buzz/cmd/buzz/ui"
	"buzz/internal/auth/otp"
	"buzz/internal/form"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

const (
	EmailPlaceholder    = "email@address.com"
	PasscodePlaceholder = "One-time passcode (6 digits)"
)

// focus is the element that receives enter and typed keys.
type focus int

const (
	focusEmail focus = iota
	focusPasscode
	focusSend
	focusSignIn
	focusCount
)

// Options configures the screen.
type Options struct {
	Gateway form.Gateway
	Styles  ui.Styles
	Logger  *zap.Logger

	// Context bounds backend calls; cancelled when the program exits.
	Context context.Context

	// OnSignedIn is the auth-state listener, called once per successful sign-in.
	OnSignedIn form.SessionListener

	// QuitOnSignIn ends the program after a successful sign-in.
	QuitOnSignIn bool
}

// Model is the bubbletea model for the sign-in screen.
type Model struct {
	state form.State

	email    textinput.Model
	passcode textinput.Model
	spinner  spinner.Model
	help     help.Model
	keys     keyMap
	focus    focus

	gateway      form.Gateway
	ctx          context.Context
	logger       *zap.Logger
	styles       ui.Styles
	onSignedIn   form.SessionListener
	quitOnSignIn bool

	width    int
	height   int
	quitting bool
}

// effectDoneMsg carries the completion action of a backend call.
type effectDoneMsg struct {
	action form.Action
}

// New builds the screen in its mount state.
func New(opts Options) Model {
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Styles.Theme == (ui.Theme{}) {
		opts.Styles = ui.DefaultStyles()
	}
	s := opts.Styles

	email := textinput.New()
	email.Placeholder = EmailPlaceholder
	email.Prompt = ""
	email.PlaceholderStyle = s.Placeholder
	email.TextStyle = lipgloss.NewStyle().Foreground(s.Theme.TextPrimary)
	email.Width = 40

	passcode := textinput.New()
	passcode.Placeholder = PasscodePlaceholder
	passcode.Prompt = ""
	passcode.PlaceholderStyle = s.Placeholder
	passcode.TextStyle = lipgloss.NewStyle().Foreground(s.Theme.TextPrimary)
	passcode.EchoMode = textinput.EchoPassword
	passcode.EchoCharacter = '•'
	passcode.Width = 40

	sp := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(s.Spinner))

	h := help.New()
	h.Styles.ShortKey = s.Help
	h.Styles.ShortDesc = s.Help

	m := Model{
		state:        form.New(),
		email:        email,
		passcode:     passcode,
		spinner:      sp,
		help:         h,
		keys:         defaultKeyMap(),
		gateway:      opts.Gateway,
		ctx:          opts.Context,
		logger:       opts.Logger,
		styles:       s,
		onSignedIn:   opts.OnSignedIn,
		quitOnSignIn: opts.QuitOnSignIn,
	}
	m.setFocus(focusEmail)
	return m
}

// Init starts the cursor blinking.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// State returns the form state.
func (m Model) State() form.State {
	return m.state
}

// Session returns the session from a successful sign-in, or nil.
func (m Model) Session() *otp.Session {
	return m.state.Session
}

func (m *Model) setFocus(f focus) {
	m.focus = (f + focusCount) % focusCount
	m.email.Blur()
	m.passcode.Blur()
	switch m.focus {
	case focusEmail:
		m.email.Focus()
	case focusPasscode:
		m.passcode.Focus()
	}
}

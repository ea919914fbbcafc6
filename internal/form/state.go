// Package form holds the sign-in form state, the pure policy that decides
// which actions are available, and the reducer that moves the form through
// its request lifecycle.
package form

import (
	"unicode/utf8"

	"buzz/internal/auth/otp"
)

// PasscodeLength is the number of characters in an emailed passcode.
const PasscodeLength = 6

// CheckEmailMessage is shown after a code has been sent.
const CheckEmailMessage = "Please check your email for a one-time password to sign in."

// Phase is the request lifecycle of the form.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseRequestingCode
	PhaseVerifyingCode
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseRequestingCode:
		return "requesting_code"
	case PhaseVerifyingCode:
		return "verifying_code"
	default:
		return "unknown"
	}
}

// AlertKind distinguishes informational alerts from errors.
type AlertKind int

const (
	AlertInfo AlertKind = iota
	AlertError
)

// Alert is a single user-facing message. It blocks the form until dismissed.
type Alert struct {
	Kind AlertKind
	Text string
}

// State is the whole form. Values are replaced, never shared, so a State
// returned from Reduce can be held onto safely.
type State struct {
	Email    string
	Passcode string
	Phase    Phase
	Alert    *Alert
	Session  *otp.Session
}

// New returns the state of a freshly mounted form.
func New() State {
	return State{Phase: PhaseIdle}
}

// InFlight reports whether a backend request is pending.
func (s State) InFlight() bool {
	return s.Phase != PhaseIdle
}

// SendEnabled reports whether "send code" may be triggered.
func SendEnabled(s State) bool {
	return !s.InFlight() && utf8.RuneCountInString(s.Email) > 0
}

// SignInEnabled reports whether "sign in" may be triggered.
func SignInEnabled(s State) bool {
	return !s.InFlight() &&
		utf8.RuneCountInString(s.Email) > 0 &&
		utf8.RuneCountInString(s.Passcode) == PasscodeLength
}

package form

import (
	"buzz/internal/auth/otp"
)

// Action is an input to Reduce.
type Action interface {
	isAction()
}

// SetEmail replaces the email field verbatim.
type SetEmail struct{ Text string }

// SetPasscode replaces the passcode field verbatim.
type SetPasscode struct{ Text string }

// RequestCode asks for a passcode to be emailed.
type RequestCode struct{}

// VerifyCode submits the passcode.
type VerifyCode struct{}

// CodeRequested completes a RequestCode effect.
type CodeRequested struct{ Err error }

// CodeVerified completes a VerifyCode effect.
type CodeVerified struct {
	Session *otp.Session
	Err     error
}

// DismissAlert clears the current alert.
type DismissAlert struct{}

func (SetEmail) isAction()      {}
func (SetPasscode) isAction()   {}
func (RequestCode) isAction()   {}
func (VerifyCode) isAction()    {}
func (CodeRequested) isAction() {}
func (CodeVerified) isAction()  {}
func (DismissAlert) isAction()  {}

// Effect is backend work Reduce asks the caller to perform. Its result must
// be fed back as CodeRequested or CodeVerified.
type Effect interface {
	isEffect()
}

// RequestCodeEffect calls the gateway's RequestCode.
type RequestCodeEffect struct {
	Email   string
	Options otp.RequestOptions
}

// VerifyCodeEffect calls the gateway's VerifyCode.
type VerifyCodeEffect struct {
	Email string
	Token string
	Type  otp.VerifyType
}

func (RequestCodeEffect) isEffect() {}
func (VerifyCodeEffect) isEffect()  {}

// Reduce applies a to s. It is pure: the returned Effect, if non-nil, is
// the only way work leaves the form.
func Reduce(s State, a Action) (State, Effect) {
	switch a := a.(type) {
	case SetEmail:
		s.Email = a.Text
		return s, nil

	case SetPasscode:
		s.Passcode = a.Text
		return s, nil

	case RequestCode:
		if !SendEnabled(s) {
			return s, nil
		}
		s.Phase = PhaseRequestingCode
		s.Alert = nil
		// Unknown addresses must not be signed up from this screen.
		return s, RequestCodeEffect{
			Email:   s.Email,
			Options: otp.RequestOptions{ShouldCreateUser: false},
		}

	case VerifyCode:
		if !SignInEnabled(s) {
			return s, nil
		}
		s.Phase = PhaseVerifyingCode
		s.Alert = nil
		return s, VerifyCodeEffect{
			Email: s.Email,
			Token: s.Passcode,
			Type:  otp.VerifyEmail,
		}

	case CodeRequested:
		if s.Phase != PhaseRequestingCode {
			return s, nil
		}
		s.Phase = PhaseIdle
		if a.Err == nil {
			s.Alert = &Alert{Kind: AlertInfo, Text: CheckEmailMessage}
		} else {
			s.Alert = alertFor(a.Err)
		}
		return s, nil

	case CodeVerified:
		if s.Phase != PhaseVerifyingCode {
			return s, nil
		}
		s.Phase = PhaseIdle
		if a.Err != nil {
			s.Alert = alertFor(a.Err)
			return s, nil
		}
		s.Session = a.Session
		return s, nil

	case DismissAlert:
		s.Alert = nil
		return s, nil
	}
	return s, nil
}

// alertFor shows backend-reported errors verbatim. Transport failures get no
// alert; the caller logs them.
func alertFor(err error) *Alert {
	if apiErr, ok := otp.AsAPIError(err); ok {
		return &Alert{Kind: AlertError, Text: apiErr.Message}
	}
	return nil
}

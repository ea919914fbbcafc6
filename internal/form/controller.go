package form

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"buzz/internal/auth/otp"

	"go.uber.org/zap"
)

// ErrActionDisabled is returned when an action's guard is false.
var ErrActionDisabled = errors.New("action not available")

// Gateway is the authentication backend the form talks to.
type Gateway interface {
	RequestCode(ctx context.Context, email string, opts otp.RequestOptions) error
	VerifyCode(ctx context.Context, email, token string, kind otp.VerifyType) (*otp.Session, error)
}

// SessionListener is told about every successful sign-in.
type SessionListener func(otp.Session)

// Controller drives a State against a Gateway with blocking calls. It is
// safe for concurrent use; the lock is never held across a backend call.
type Controller struct {
	mu       sync.Mutex
	state    State
	gateway  Gateway
	logger   *zap.Logger
	listener SessionListener
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithLogger sets the logger for backend failures.
func WithLogger(l *zap.Logger) ControllerOption {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithSessionListener registers fn to be called after a successful sign-in.
func WithSessionListener(fn SessionListener) ControllerOption {
	return func(c *Controller) { c.listener = fn }
}

// NewController returns a controller over a freshly mounted form.
func NewController(gw Gateway, opts ...ControllerOption) *Controller {
	c := &Controller{
		state:   New(),
		gateway: gw,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns a snapshot of the form.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// SetEmail replaces the email field.
func (c *Controller) SetEmail(text string) {
	c.dispatch(SetEmail{Text: text})
}

// SetPasscode replaces the passcode field.
func (c *Controller) SetPasscode(text string) {
	c.dispatch(SetPasscode{Text: text})
}

// DismissAlert clears the current alert.
func (c *Controller) DismissAlert() {
	c.dispatch(DismissAlert{})
}

// RequestCode emails a passcode to the current address. The outcome is in
// State().Alert; the returned error is only ErrActionDisabled.
func (c *Controller) RequestCode(ctx context.Context) error {
	effect := c.dispatch(RequestCode{})
	if effect == nil {
		return ErrActionDisabled
	}
	c.dispatch(Run(ctx, c.gateway, effect, c.logger))
	return nil
}

// VerifyCode submits the current passcode. On success the session is in
// State().Session and the listener has been called.
func (c *Controller) VerifyCode(ctx context.Context) error {
	effect := c.dispatch(VerifyCode{})
	if effect == nil {
		return ErrActionDisabled
	}

	result := Run(ctx, c.gateway, effect, c.logger)
	c.dispatch(result)

	if v, ok := result.(CodeVerified); ok && v.Err == nil && v.Session != nil && c.listener != nil {
		c.listener(*v.Session)
	}
	return nil
}

func (c *Controller) dispatch(a Action) Effect {
	c.mu.Lock()
	defer c.mu.Unlock()
	next, effect := Reduce(c.state, a)
	c.state = next
	return effect
}

// Run performs effect against gw and returns the completion action. It
// always returns one, even if the gateway panics, so the form can go back
// to idle.
func Run(ctx context.Context, gw Gateway, effect Effect, logger *zap.Logger) (result Action) {
	if logger == nil {
		logger = zap.NewNop()
	}

	switch e := effect.(type) {
	case RequestCodeEffect:
		defer func() {
			if r := recover(); r != nil {
				result = CodeRequested{Err: fmt.Errorf("request code: gateway panic: %v", r)}
			}
			logOutcome(logger, "request_code", result)
		}()
		return CodeRequested{Err: gw.RequestCode(ctx, e.Email, e.Options)}

	case VerifyCodeEffect:
		defer func() {
			if r := recover(); r != nil {
				result = CodeVerified{Err: fmt.Errorf("verify code: gateway panic: %v", r)}
			}
			logOutcome(logger, "verify_code", result)
		}()
		session, err := gw.VerifyCode(ctx, e.Email, e.Token, e.Type)
		if err == nil && session == nil {
			err = errors.New("verify code: backend returned no session")
		}
		return CodeVerified{Session: session, Err: err}
	}

	panic(fmt.Sprintf("form: unknown effect %T", effect))
}

func logOutcome(logger *zap.Logger, op string, result Action) {
	var err error
	switch r := result.(type) {
	case CodeRequested:
		err = r.Err
	case CodeVerified:
		err = r.Err
	}

	switch {
	case err == nil:
		logger.Info("auth operation succeeded", zap.String("op", op))
	case otp.IsAPIError(err):
		logger.Info("auth operation rejected", zap.String("op", op), zap.Error(err))
	default:
		logger.Error("auth operation failed", zap.String("op", op), zap.Error(err))
	}
}

package form_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"buzz/internal/auth/otp"
	"buzz/internal/form"
	"buzz/internal/testing/fakeauth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestController_RequestCodeInvalidEmail(t *testing.T) {
	gw := &fakeauth.Gateway{RequestErr: fakeauth.BackendError(400, "Invalid email")}
	c := form.NewController(gw)
	c.SetEmail("a@b.com")

	require.NoError(t, c.RequestCode(context.Background()))

	s := c.State()
	assert.False(t, s.InFlight())
	require.NotNil(t, s.Alert)
	assert.Equal(t, form.AlertError, s.Alert.Kind)
	assert.Equal(t, "Invalid email", s.Alert.Text)
}

func TestController_RequestCodeSuccess(t *testing.T) {
	gw := &fakeauth.Gateway{}
	c := form.NewController(gw)
	c.SetEmail("a@b.com")

	require.NoError(t, c.RequestCode(context.Background()))

	require.Len(t, gw.Requests, 1)
	assert.Equal(t, fakeauth.RequestCall{Email: "a@b.com", Options: otp.RequestOptions{ShouldCreateUser: false}}, gw.Requests[0])

	s := c.State()
	assert.False(t, s.InFlight())
	require.NotNil(t, s.Alert)
	assert.Equal(t, form.AlertInfo, s.Alert.Kind)
	assert.Equal(t, form.CheckEmailMessage, s.Alert.Text)
}

func TestController_RequestCodeDisabled(t *testing.T) {
	gw := &fakeauth.Gateway{}
	c := form.NewController(gw)

	err := c.RequestCode(context.Background())
	assert.ErrorIs(t, err, form.ErrActionDisabled)
	assert.Zero(t, gw.RequestCount())
}

func TestController_VerifyCodeSuccess(t *testing.T) {
	session := &otp.Session{AccessToken: "tok", User: &otp.User{ID: "u1", Email: "a@b.com"}}
	gw := &fakeauth.Gateway{Session: session}

	var got []otp.Session
	c := form.NewController(gw, form.WithSessionListener(func(s otp.Session) {
		got = append(got, s)
	}))
	c.SetEmail("a@b.com")
	c.SetPasscode("123456")

	require.NoError(t, c.VerifyCode(context.Background()))

	s := c.State()
	assert.False(t, s.InFlight())
	assert.Nil(t, s.Alert, "success must not raise an alert")
	assert.Same(t, session, s.Session)
	require.Len(t, got, 1)
	assert.Equal(t, "a@b.com", got[0].Email())

	require.Len(t, gw.Verifies, 1)
	assert.Equal(t, fakeauth.VerifyCall{Email: "a@b.com", Token: "123456", Type: otp.VerifyEmail}, gw.Verifies[0])
}

func TestController_VerifyCodeDisabledForShortPasscode(t *testing.T) {
	gw := &fakeauth.Gateway{}
	c := form.NewController(gw)
	c.SetEmail("a@b.com")
	c.SetPasscode("12345")

	assert.ErrorIs(t, c.VerifyCode(context.Background()), form.ErrActionDisabled)
	assert.Zero(t, gw.VerifyCount())
}

func TestController_VerifyCodeRejected(t *testing.T) {
	gw := &fakeauth.Gateway{VerifyErr: fakeauth.BackendError(403, "Token has expired or is invalid")}
	called := false
	c := form.NewController(gw, form.WithSessionListener(func(otp.Session) { called = true }))
	c.SetEmail("a@b.com")
	c.SetPasscode("000000")

	require.NoError(t, c.VerifyCode(context.Background()))

	s := c.State()
	assert.False(t, s.InFlight())
	require.NotNil(t, s.Alert)
	assert.Equal(t, "Token has expired or is invalid", s.Alert.Text)
	assert.False(t, called)
}

func TestController_TransportErrorIsLoggedAndRestoresIdle(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	gw := &fakeauth.Gateway{RequestErr: errors.New("dial tcp: connection refused")}
	c := form.NewController(gw, form.WithLogger(zap.New(core)))
	c.SetEmail("a@b.com")

	require.NoError(t, c.RequestCode(context.Background()))

	s := c.State()
	assert.False(t, s.InFlight(), "transport failure must not leave the form in flight")
	assert.Nil(t, s.Alert, "transport failures are logged, not shown")

	entries := logs.FilterMessage("auth operation failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "request_code", entries[0].ContextMap()["op"])

	// The form is usable again.
	gw.RequestErr = nil
	require.NoError(t, c.RequestCode(context.Background()))
	assert.Equal(t, 2, gw.RequestCount())
}

func TestController_GatewayPanicRestoresIdle(t *testing.T) {
	gw := &fakeauth.Gateway{Panic: "boom"}
	c := form.NewController(gw)
	c.SetEmail("a@b.com")
	c.SetPasscode("123456")

	require.NoError(t, c.RequestCode(context.Background()))
	assert.False(t, c.State().InFlight())

	require.NoError(t, c.VerifyCode(context.Background()))
	assert.False(t, c.State().InFlight())
	assert.Nil(t, c.State().Session)
}

func TestController_CancelledContextRestoresIdle(t *testing.T) {
	gw := &fakeauth.Gateway{Block: make(chan struct{})}
	c := form.NewController(gw)
	c.SetEmail("a@b.com")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	require.NoError(t, c.RequestCode(ctx))
	assert.False(t, c.State().InFlight())
}

func TestController_SecondCallWhileInFlightIsRejected(t *testing.T) {
	gw := &fakeauth.Gateway{
		Block:   make(chan struct{}),
		Started: make(chan struct{}, 1),
	}
	c := form.NewController(gw)
	c.SetEmail("a@b.com")
	c.SetPasscode("123456")

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		assert.NoError(t, c.RequestCode(context.Background()))
	}()

	<-gw.Started
	assert.True(t, c.State().InFlight())
	assert.ErrorIs(t, c.RequestCode(context.Background()), form.ErrActionDisabled)
	assert.ErrorIs(t, c.VerifyCode(context.Background()), form.ErrActionDisabled)

	// Edits are still accepted while a request is pending.
	c.SetPasscode("654321")
	assert.Equal(t, "654321", c.State().Passcode)

	close(gw.Block)
	wg.Wait()

	assert.False(t, c.State().InFlight())
	assert.Equal(t, 1, gw.RequestCount())
	assert.Zero(t, gw.VerifyCount())
}

func TestController_DismissAlert(t *testing.T) {
	c := form.NewController(&fakeauth.Gateway{})
	c.SetEmail("a@b.com")
	require.NoError(t, c.RequestCode(context.Background()))
	require.NotNil(t, c.State().Alert)

	c.DismissAlert()
	assert.Nil(t, c.State().Alert)
}

func TestRun_NilSessionIsAnError(t *testing.T) {
	gw := nilSessionGateway{}
	result := form.Run(context.Background(), gw, form.VerifyCodeEffect{Email: "a@b.com", Token: "123456", Type: otp.VerifyEmail}, nil)

	verified, ok := result.(form.CodeVerified)
	require.True(t, ok)
	assert.Error(t, verified.Err)
	assert.False(t, otp.IsAPIError(verified.Err))
}

type nilSessionGateway struct{}

func (nilSessionGateway) RequestCode(context.Context, string, otp.RequestOptions) error { return nil }

func (nilSessionGateway) VerifyCode(context.Context, string, string, otp.VerifyType) (*otp.Session, error) {
	return nil, nil
}

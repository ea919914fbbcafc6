// Package fakeauth provides an in-memory auth gateway for tests.
package fakeauth

import (
	"context"
	"sync"

	"buzz/internal/auth/otp"
)

// RequestCall records one RequestCode call.
type RequestCall struct {
	Email   string
	Options otp.RequestOptions
}

// VerifyCall records one VerifyCode call.
type VerifyCall struct {
	Email string
	Token string
	Type  otp.VerifyType
}

// Gateway is a scriptable stand-in for the otp client. Zero value succeeds
// every call with an empty session.
type Gateway struct {
	mu sync.Mutex

	// RequestErr is returned from RequestCode.
	RequestErr error
	// VerifyErr is returned from VerifyCode.
	VerifyErr error
	// Session is returned from a successful VerifyCode.
	Session *otp.Session
	// Panic makes both calls panic with this value when non-nil.
	Panic any
	// Block, when non-nil, is waited on before each call returns.
	Block chan struct{}
	// Started receives a value as each call begins, if non-nil.
	Started chan struct{}

	Requests []RequestCall
	Verifies []VerifyCall
}

// BackendError builds the error the real client returns for a rejected request.
func BackendError(status int, message string) error {
	return &otp.APIError{Status: status, Message: message}
}

func (g *Gateway) RequestCode(ctx context.Context, email string, opts otp.RequestOptions) error {
	g.mu.Lock()
	g.Requests = append(g.Requests, RequestCall{Email: email, Options: opts})
	err, p := g.RequestErr, g.Panic
	g.mu.Unlock()

	if err := g.wait(ctx); err != nil {
		return err
	}
	if p != nil {
		panic(p)
	}
	return err
}

func (g *Gateway) VerifyCode(ctx context.Context, email, token string, kind otp.VerifyType) (*otp.Session, error) {
	g.mu.Lock()
	g.Verifies = append(g.Verifies, VerifyCall{Email: email, Token: token, Type: kind})
	err, p, session := g.VerifyErr, g.Panic, g.Session
	g.mu.Unlock()

	if err := g.wait(ctx); err != nil {
		return nil, err
	}
	if p != nil {
		panic(p)
	}
	if err != nil {
		return nil, err
	}
	if session == nil {
		session = &otp.Session{AccessToken: "fake-token", User: &otp.User{ID: "fake-user", Email: email}}
	}
	return session, nil
}

// RequestCount returns the number of RequestCode calls so far.
func (g *Gateway) RequestCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.Requests)
}

// VerifyCount returns the number of VerifyCode calls so far.
func (g *Gateway) VerifyCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.Verifies)
}

func (g *Gateway) wait(ctx context.Context) error {
	if g.Started != nil {
		g.Started <- struct{}{}
	}
	if g.Block == nil {
		return nil
	}
	select {
	case <-g.Block:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

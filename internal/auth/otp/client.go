// Package otp is a client for the email one-time-passcode endpoints of a
// GoTrue-compatible authentication service (the Supabase auth API).
package otp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	otpPath    = "/auth/v1/otp"
	verifyPath = "/auth/v1/verify"

	// ClientInfo is sent as X-Client-Info on every request.
	ClientInfo = "buzz/1.0.0"

	maxErrorBody = 64 << 10
)

// VerifyType names the kind of OTP being verified.
type VerifyType string

const (
	VerifyEmail VerifyType = "email"
)

// RequestOptions controls how the backend treats an OTP request.
type RequestOptions struct {
	// ShouldCreateUser lets the backend sign up an unknown email address.
	ShouldCreateUser bool
}

// Client talks to the OTP endpoints. It holds no session state.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	timeout    time.Duration
	logger     *zap.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the HTTP client (http.DefaultClient by default).
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout bounds each call. Zero means no timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.timeout = d }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *zap.Logger) ClientOption {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient creates a client for the service rooted at baseURL.
func NewClient(baseURL, apiKey string, opts ...ClientOption) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("auth base URL required")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("auth API key required")
	}

	c := &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: http.DefaultClient,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type otpRequest struct {
	Email      string `json:"email"`
	CreateUser bool   `json:"create_user"`
}

type verifyRequest struct {
	Type  VerifyType `json:"type"`
	Email string     `json:"email"`
	Token string     `json:"token"`
}

// RequestCode asks the backend to email a one-time passcode to email.
func (c *Client) RequestCode(ctx context.Context, email string, opts RequestOptions) error {
	body := otpRequest{Email: email, CreateUser: opts.ShouldCreateUser}
	resp, err := c.post(ctx, otpPath, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}
	// The body is an empty object; drain it so the connection can be reused.
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// VerifyCode exchanges an emailed passcode for a session.
func (c *Client) VerifyCode(ctx context.Context, email, token string, kind VerifyType) (*Session, error) {
	body := verifyRequest{Type: kind, Email: email, Token: token}
	resp, err := c.post(ctx, verifyPath, body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, decodeAPIError(resp)
	}

	var session Session
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	session.fill(time.Now())
	return &session, nil
}

func (c *Client) post(ctx context.Context, path string, payload any) (*http.Response, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	if c.timeout <= 0 {
		return c.do(ctx, path, data)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	resp, err := c.do(ctx, path, data)
	if err != nil {
		cancel()
		return nil, err
	}
	// The body is read after post returns; the deadline ends when it is closed.
	resp.Body = &cancelBody{ReadCloser: resp.Body, cancel: cancel}
	return resp, nil
}

func (c *Client) do(ctx context.Context, path string, data []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("X-Client-Info", ClientInfo)
	req.Header.Set("X-Request-Id", requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("auth request failed",
			zap.String("path", path),
			zap.String("request_id", requestID),
			zap.Error(err))
		return nil, fmt.Errorf("auth request %s: %w", path, err)
	}
	c.logger.Debug("auth request",
		zap.String("path", path),
		zap.String("request_id", requestID),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))
	return resp, nil
}

type cancelBody struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (b *cancelBody) Close() error {
	err := b.ReadCloser.Close()
	b.cancel()
	return err
}

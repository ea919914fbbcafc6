package otp

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// User is the subset of the backend user record the client cares about.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Session is what a successful verification returns. It is handed to the
// caller and never stored by this package.
type Session struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	ExpiresAt    int64  `json:"expires_at"`
	User         *User  `json:"user"`
}

// Expiry returns the session expiry, or the zero time if unknown.
func (s *Session) Expiry() time.Time {
	if s == nil || s.ExpiresAt == 0 {
		return time.Time{}
	}
	return time.Unix(s.ExpiresAt, 0)
}

// Email returns the signed-in user's email, if known.
func (s *Session) Email() string {
	if s == nil || s.User == nil {
		return ""
	}
	return s.User.Email
}

type accessClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// fill derives missing fields from expires_in and the access token claims.
func (s *Session) fill(now time.Time) {
	if s.ExpiresAt == 0 && s.ExpiresIn > 0 {
		s.ExpiresAt = now.Add(time.Duration(s.ExpiresIn) * time.Second).Unix()
	}
	if s.User != nil && s.User.Email != "" && s.ExpiresAt != 0 {
		return
	}

	claims, ok := parseClaims(s.AccessToken)
	if !ok {
		return
	}
	if s.User == nil {
		s.User = &User{}
	}
	if s.User.ID == "" {
		s.User.ID = claims.Subject
	}
	if s.User.Email == "" {
		s.User.Email = claims.Email
	}
	if s.ExpiresAt == 0 && claims.ExpiresAt != nil {
		s.ExpiresAt = claims.ExpiresAt.Unix()
	}
}

// parseClaims reads the access token payload without verifying it. The
// client has no signing key; the claims are only used for display.
func parseClaims(token string) (*accessClaims, bool) {
	if token == "" {
		return nil, false
	}
	claims := &accessClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, false
	}
	return claims, true
}

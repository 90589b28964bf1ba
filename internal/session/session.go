// Package session persists the token issued by a successful 2FA verification.
//
// The token is signed by the backend with a key the CLI never sees, so its
// claims are read without signature verification. They are used only to
// show who the session belongs to and when it lapses locally.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultMaxAge is how long a session without an exp claim is trusted.
const DefaultMaxAge = 24 * time.Hour

// Errors returned by the store.
var (
	ErrNoSession      = errors.New("no 2FA session; run 'nutriboard auth 2fa-verify'")
	ErrMalformedToken = errors.New("malformed session token")
)

// Claims is the payload the backend puts in a 2FA token.
type Claims struct {
	Email     string `json:"email,omitempty"`
	Verified  bool   `json:"verified,omitempty"`
	Timestamp int64  `json:"timestamp,omitempty"`
	jwt.RegisteredClaims
}

// IssuedTime returns when the token was minted, from iat or the backend's
// timestamp claim. The zero time means unknown.
func (c *Claims) IssuedTime() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	if c.Timestamp > 0 {
		return time.Unix(c.Timestamp, 0)
	}
	return time.Time{}
}

// ParseClaims decodes token without verifying its signature.
func ParseClaims(token string) (*Claims, error) {
	var claims Claims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	return &claims, nil
}

// Session is a stored 2FA token.
type Session struct {
	Token      string    `json:"token"`
	VerifiedAt time.Time `json:"verified_at"`
}

// Claims decodes the session token.
func (s *Session) Claims() (*Claims, error) {
	return ParseClaims(s.Token)
}

// ExpiresAt returns the exp claim, or the issue time plus maxAge when the
// token carries none. The local verification time stands in for a missing
// issue time.
func (s *Session) ExpiresAt(maxAge time.Duration) time.Time {
	claims, err := s.Claims()
	if err != nil {
		return s.VerifiedAt.Add(maxAge)
	}
	if claims.ExpiresAt != nil {
		return claims.ExpiresAt.Time
	}
	issued := claims.IssuedTime()
	if issued.IsZero() {
		issued = s.VerifiedAt
	}
	return issued.Add(maxAge)
}

// Expired reports whether the session has lapsed at now.
func (s *Session) Expired(now time.Time, maxAge time.Duration) bool {
	return !now.Before(s.ExpiresAt(maxAge))
}

// Store reads and writes the session file.
type Store struct {
	path string
	now  func() time.Time
}

// NewStore returns a store backed by the file at path.
func NewStore(path string) *Store {
	return &Store{path: path, now: time.Now}
}

// Path returns the session file location.
func (s *Store) Path() string {
	return s.path
}

// Save validates token and writes it with the current time.
func (s *Store) Save(token string) (*Session, error) {
	if _, err := ParseClaims(token); err != nil {
		return nil, err
	}

	sess := &Session{Token: token, VerifiedAt: s.now().UTC()}
	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling session: %w", err)
	}

	if mkErr := os.MkdirAll(filepath.Dir(s.path), 0o700); mkErr != nil {
		return nil, fmt.Errorf("creating session directory: %w", mkErr)
	}

	tmp := s.path + ".tmp"
	if writeErr := os.WriteFile(tmp, data, 0o600); writeErr != nil {
		return nil, fmt.Errorf("writing session file: %w", writeErr)
	}
	if renameErr := os.Rename(tmp, s.path); renameErr != nil {
		_ = os.Remove(tmp)
		return nil, fmt.Errorf("replacing session file: %w", renameErr)
	}
	return sess, nil
}

// Load reads the stored session.
func (s *Store) Load() (*Session, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("reading session file: %w", err)
	}

	var sess Session
	if unmarshalErr := json.Unmarshal(data, &sess); unmarshalErr != nil {
		return nil, fmt.Errorf("parsing session file: %w", unmarshalErr)
	}
	if sess.Token == "" {
		return nil, ErrNoSession
	}
	return &sess, nil
}

// Clear removes the session file. Clearing an absent session is not an error.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing session file: %w", err)
	}
	return nil
}

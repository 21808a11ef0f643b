package security

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/immobarok/mailbox-backend/internal/domain"
)

// verificationTokenBytes gives 256 bits of randomness per token.
const verificationTokenBytes = 32

// DefaultVerificationWindow is how long a freshly issued verification token
// stays valid.
const DefaultVerificationWindow = 24 * time.Hour

type TokenStatus int

const (
	TokenValid TokenStatus = iota
	TokenExpired
	TokenMismatch
)

func NewRandomString(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// VerificationTokenIssuer issues and validates single-use email verification
// tokens. Re-issuing for the same user overwrites the previous token; only
// the most recently issued token is ever valid.
type VerificationTokenIssuer struct {
	window time.Duration
	now    func() time.Time
}

func NewVerificationTokenIssuer(window time.Duration) *VerificationTokenIssuer {
	if window <= 0 {
		window = DefaultVerificationWindow
	}
	return &VerificationTokenIssuer{window: window, now: time.Now}
}

// Issue returns a fresh token and its expiry instant.
func (i *VerificationTokenIssuer) Issue() (string, time.Time, error) {
	token, err := NewRandomString(verificationTokenBytes)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, i.now().UTC().Add(i.window), nil
}

// Validate checks a presented token against the user's stored token state.
// A token is Expired only strictly after its expiry instant; at exactly the
// expiry instant it is still valid.
func (i *VerificationTokenIssuer) Validate(u *domain.User, token string, now time.Time) TokenStatus {
	if u.VerificationToken == nil || u.VerificationExpiry == nil || *u.VerificationToken != token {
		return TokenMismatch
	}
	if now.After(*u.VerificationExpiry) {
		return TokenExpired
	}
	return TokenValid
}

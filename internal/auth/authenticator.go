package auth

import (
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"portfolio/internal/model"
	"portfolio/internal/normalize"
)

// Session is an issued admin token.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Authenticator checks the configured admin credentials.
type Authenticator struct {
	email   string
	hash    string
	tokens  *JWTManager
	limiter *LimiterStore
}

// NewAuthenticator returns an Authenticator for the admin identified by email
// and bcrypt hash. limiter may be nil to disable login throttling.
func NewAuthenticator(email, hash string, tokens *JWTManager, limiter *LimiterStore) *Authenticator {
	return &Authenticator{
		email:   normalize.Email(email),
		hash:    hash,
		tokens:  tokens,
		limiter: limiter,
	}
}

// Login validates the credentials and issues a session. Failures are *Error.
func (a *Authenticator) Login(email, password string) (*Session, error) {
	email = normalize.Email(email)
	if !model.Matches(email, model.EmailRX) {
		return nil, newError(CodeInvalidEmail, nil)
	}
	if a.limiter != nil && !a.limiter.Allow("email:"+email) {
		return nil, newError(CodeTooManyRequests, nil)
	}
	if a.email == "" || a.hash == "" || email != a.email {
		return nil, newError(CodeUserNotFound, nil)
	}
	if err := CheckPassword(a.hash, password); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, newError(CodeWrongPassword, nil)
		}
		return nil, newError(CodeInternal, err)
	}

	token, exp, err := a.tokens.GenerateToken(email)
	if err != nil {
		return nil, newError(CodeInternal, err)
	}
	return &Session{Token: token, ExpiresAt: exp}, nil
}

// Verify validates a bearer token.
func (a *Authenticator) Verify(token string) (*Claims, error) {
	claims, err := a.tokens.VerifyToken(token)
	if err != nil {
		return nil, newError(CodeInvalidToken, err)
	}
	return claims, nil
}

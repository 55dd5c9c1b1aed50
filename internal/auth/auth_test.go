package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cr3t-password")
	require.NoError(t, err)

	assert.NoError(t, CheckPassword(hash, "s3cr3t-password"))
	assert.Error(t, CheckPassword(hash, "wrong"))
}

func TestJWTManager_GenerateAndVerify(t *testing.T) {
	m := NewJWTManager("test-secret", 5*time.Minute)

	token, exp, err := m.GenerateToken("Admin@Example.COM")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(5*time.Minute), exp, time.Second)

	claims, err := m.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", claims.Email)
	assert.Equal(t, RoleAdmin, claims.Role)
}

func TestJWTManager_Rejects(t *testing.T) {
	m := NewJWTManager("test-secret", time.Minute)
	token, _, err := m.GenerateToken("admin@example.com")
	require.NoError(t, err)

	t.Run("other secret", func(t *testing.T) {
		_, err := NewJWTManager("other", time.Minute).VerifyToken(token)
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		later := NewJWTManager("test-secret", time.Minute)
		later.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
		_, err := later.VerifyToken(token)
		assert.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := m.VerifyToken("not.a.token")
		assert.Error(t, err)
	})
}

func TestMessageTable(t *testing.T) {
	tests := []struct {
		code Code
		want string
	}{
		{CodeUserNotFound, "No account found with this email address."},
		{CodeWrongPassword, "Incorrect password. Please try again."},
		{CodeInvalidEmail, "Invalid email address format."},
		{CodeTooManyRequests, "Too many failed attempts. Please try again later."},
		{Code("auth/network-request-failed"), "Login failed. Please check your credentials and try again."},
		{CodeInternal, "Login failed. Please check your credentials and try again."},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, Message(tt.code))
		})
	}
}

func TestAuthenticator_Login(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)
	tokens := NewJWTManager("secret", time.Hour)

	a := NewAuthenticator(" Admin@Site.dev ", hash, tokens, nil)

	tests := []struct {
		name     string
		email    string
		password string
		code     Code
	}{
		{"invalid email", "admin", "x", CodeInvalidEmail},
		{"unknown user", "other@site.dev", "correct horse", CodeUserNotFound},
		{"wrong password", "admin@site.dev", "battery staple", CodeWrongPassword},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.Login(tt.email, tt.password)
			var aerr *Error
			require.True(t, errors.As(err, &aerr))
			assert.Equal(t, tt.code, aerr.Code)
		})
	}

	t.Run("success", func(t *testing.T) {
		s, err := a.Login("ADMIN@site.dev", "correct horse")
		require.NoError(t, err)
		claims, err := a.Verify(s.Token)
		require.NoError(t, err)
		assert.Equal(t, "admin@site.dev", claims.Email)
	})
}

func TestAuthenticator_NotConfigured(t *testing.T) {
	a := NewAuthenticator("", "", NewJWTManager("secret", time.Hour), nil)
	_, err := a.Login("admin@site.dev", "anything")

	var aerr *Error
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, CodeUserNotFound, aerr.Code)
}

func TestAuthenticator_Throttled(t *testing.T) {
	hash, err := HashPassword("pw")
	require.NoError(t, err)
	limiter := NewLimiterStore(1, 2, time.Minute)
	defer limiter.Stop()

	a := NewAuthenticator("admin@site.dev", hash, NewJWTManager("secret", time.Hour), limiter)
	for range 2 {
		_, err := a.Login("admin@site.dev", "wrong")
		var aerr *Error
		require.ErrorAs(t, err, &aerr)
		assert.Equal(t, CodeWrongPassword, aerr.Code)
	}

	_, err = a.Login("admin@site.dev", "pw")
	var aerr *Error
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, CodeTooManyRequests, aerr.Code)
	assert.Equal(t, "Too many failed attempts. Please try again later.", aerr.Message())
}

func TestAuthenticator_VerifyInvalid(t *testing.T) {
	a := NewAuthenticator("admin@site.dev", "", NewJWTManager("secret", time.Hour), nil)
	_, err := a.Verify("bogus")

	var aerr *Error
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, CodeInvalidToken, aerr.Code)
}

func TestLimiterStore(t *testing.T) {
	s := NewLimiterStore(60, 1, time.Minute)
	defer s.Stop()

	assert.True(t, s.Allow("a"))
	assert.False(t, s.Allow("a"))
	assert.True(t, s.Allow("b"))

	s.Stop()
}

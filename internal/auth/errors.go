package auth

import "fmt"

// Code identifies an authentication failure.
type Code string

const (
	CodeUserNotFound    Code = "auth/user-not-found"
	CodeWrongPassword   Code = "auth/wrong-password"
	CodeInvalidEmail    Code = "auth/invalid-email"
	CodeTooManyRequests Code = "auth/too-many-requests"
	CodeInvalidToken    Code = "auth/invalid-token"
	CodeInternal        Code = "auth/internal-error"
)

const defaultMessage = "Login failed. Please check your credentials and try again."

var messages = map[Code]string{
	CodeUserNotFound:    "No account found with this email address.",
	CodeWrongPassword:   "Incorrect password. Please try again.",
	CodeInvalidEmail:    "Invalid email address format.",
	CodeTooManyRequests: "Too many failed attempts. Please try again later.",
}

// Message returns the user-facing message for code.
func Message(code Code) string {
	if m, ok := messages[code]; ok {
		return m
	}
	return defaultMessage
}

// Error is a coded authentication failure.
type Error struct {
	Code Code
	Err  error
}

func newError(code Code, err error) *Error {
	return &Error{Code: code, Err: err}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Code, e.Err)
	}
	return string(e.Code)
}

func (e *Error) Unwrap() error { return e.Err }

// Message returns the user-facing message for the error code.
func (e *Error) Message() string { return Message(e.Code) }

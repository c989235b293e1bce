package aksview

import (
	"errors"
	"fmt"
)

// Error represents an aksview error with a stable error code.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error // wrapped error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("aksview: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("aksview: %s", e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ErrorCode identifies the recoverable failures Open, SetLen and Copy
// can report. Contract violations are never reported through codes;
// they go through the Reporter as faults.
type ErrorCode int

const (
	// ErrNone indicates the operation completed successfully
	ErrNone ErrorCode = 0

	// ErrBadMode indicates an invalid open-mode combination
	ErrBadMode ErrorCode = 1

	// ErrTranslate indicates the path could not be translated for the OS
	ErrTranslate ErrorCode = 2

	// ErrOpen indicates the file could not be opened or created
	ErrOpen ErrorCode = 3

	// ErrLenQuery indicates the file length could not be determined or
	// falls outside [0, MaxLen]
	ErrLenQuery ErrorCode = 4

	// ErrResize indicates the file could not be grown or shrunk
	ErrResize ErrorCode = 5

	// ErrUnknown is reported by Code for errors that did not originate
	// in this package
	ErrUnknown ErrorCode = -1
)

// Error descriptions. Codes are stable, and so are these strings.
var errorMessages = map[ErrorCode]string{
	ErrNone:      "no error",
	ErrBadMode:   "invalid open mode",
	ErrTranslate: "failed to translate path",
	ErrOpen:      "failed to open file path",
	ErrLenQuery:  "failed to query length of file",
	ErrResize:    "failed to resize file",
}

// Errstr returns the description for a code. Unknown codes map to a
// fixed fallback string.
func Errstr(code ErrorCode) string {
	if msg, ok := errorMessages[code]; ok {
		return msg
	}
	return "unknown error"
}

// NewError creates a new Error with the given code.
func NewError(code ErrorCode) *Error {
	return &Error{Code: code, Message: Errstr(code)}
}

// WrapError creates a new Error wrapping another error.
func WrapError(code ErrorCode, err error) *Error {
	e := NewError(code)
	e.Err = err
	return e
}

// Code returns the error code from an error. Nil maps to ErrNone and
// errors from other packages map to ErrUnknown.
func Code(err error) ErrorCode {
	if err == nil {
		return ErrNone
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ErrUnknown
}

// IsBadMode returns true if the error reports an invalid open mode.
func IsBadMode(err error) bool {
	return Code(err) == ErrBadMode
}

// IsOpen returns true if the error reports an open or create failure.
func IsOpen(err error) bool {
	return Code(err) == ErrOpen
}

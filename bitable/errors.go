package bitable

import "fmt"

// Error levels distinguish caller mistakes from remote/system failures so
// calling code can branch on recoverability.
const (
	LevelUser   = "user"
	LevelSystem = "system"
)

// Stable error codes. The numbering is part of the public contract and must
// not be reused or reordered.
const (
	CodeParamRequired       = 51001
	CodeTokenAcquireFailed  = 51002
	CodeResponseEmpty       = 51003
	CodeResponseParseError  = 51004
	CodeAPIError            = 51005
	CodeEntityConstructFail = 51006
	CodeEntityMappingFail   = 51007
	CodeClientNotRegistered = 51008
	CodeCredentialsMissing  = 51009
	CodeTableConfigMissing  = 51010
	CodeViewIDMissing       = 51012
	CodeRecordIDMissing     = 51013
	CodeAppTokenMissing     = 51014
	CodeTableMetaMissing    = 51015
)

// Error is the error type returned by every public operation of the toolkit.
type Error struct {
	Code  int
	Msg   string
	Level string
	Err   error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("bitable: [%d] %s: %v", e.Code, e.Msg, e.Err)
	}
	return fmt.Sprintf("bitable: [%d] %s", e.Code, e.Msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates an Error with the level implied by its code.
func NewError(code int, format string, args ...any) *Error {
	return &Error{Code: code, Msg: fmt.Sprintf(format, args...), Level: levelOf(code)}
}

// WrapError attaches a cause to a coded error.
func WrapError(code int, err error, format string, args ...any) *Error {
	return &Error{Code: code, Msg: fmt.Sprintf(format, args...), Level: levelOf(code), Err: err}
}

func levelOf(code int) string {
	switch code {
	case CodeParamRequired, CodeEntityConstructFail, CodeEntityMappingFail:
		return LevelUser
	default:
		return LevelSystem
	}
}

// IsCode reports whether err is an *Error carrying the given code.
func IsCode(err error, code int) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e.Code == code
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

package model

import "errors"

// Sentinel errors for programmatic checking.
var (
	ErrUnsupportedLanguage = errors.New("unsupported language")
	ErrSyntax              = errors.New("syntax error")
	ErrNoFiles             = errors.New("no files to check")
)

// ErrorCode provides a machine-readable error type for JSON output.
type ErrorCode string

const (
	ECNone            ErrorCode = ""
	ECParse           ErrorCode = "ERR_PARSE"
	ECIO              ErrorCode = "ERR_IO"
	ECConfig          ErrorCode = "ERR_CONFIG"
	ECUnsupportedLang ErrorCode = "ERR_UNSUPPORTED_LANG"
	ECInternal        ErrorCode = "ERR_INTERNAL"
	ECCache           ErrorCode = "ERR_CACHE"
)

// CLIError is a uniform error payload for both human and JSON output.
type CLIError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Detail  string    `json:"detail,omitempty"`

	inner error
}

func (e CLIError) Error() string {
	if e.Detail != "" {
		return e.Message + ": " + e.Detail
	}
	return e.Message
}

func (e CLIError) Unwrap() error {
	return e.inner
}

// Wrap builds a CLIError with code, keeping inner reachable through
// errors.Is and errors.As.
func Wrap(code ErrorCode, msg string, inner error) error {
	e := CLIError{Code: code, Message: msg, inner: inner}
	if inner != nil {
		e.Detail = inner.Error()
	}
	return e
}

// CodeOf extracts the error code carried by err, falling back to
// ERR_INTERNAL for errors that were never classified.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return ECNone
	}
	var cliErr CLIError
	if errors.As(err, &cliErr) {
		return cliErr.Code
	}
	switch {
	case errors.Is(err, ErrSyntax):
		return ECParse
	case errors.Is(err, ErrUnsupportedLanguage):
		return ECUnsupportedLang
	default:
		return ECInternal
	}
}

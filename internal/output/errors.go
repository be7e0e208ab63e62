package output

import "fmt"

// Exit codes, loosely following sysexits.h.
const (
	ExitOK           = 0  // success
	ExitGeneral      = 1  // general error
	ExitUsage        = 2  // invalid usage / bad arguments
	ExitAuth         = 3  // authentication failure
	ExitNotFound     = 4  // resource not found
	ExitValidation   = 5  // local validation failure
	ExitTimeout      = 8  // request timeout
	ExitAPIError     = 9  // server rejected the request
	ExitConfigError  = 10 // configuration error
	ExitNetworkError = 11 // network connectivity error
)

// CLIError is a structured error carrying an exit code and an optional
// user-facing hint.
type CLIError struct {
	ExitCode int
	Message  string
	Hint     string
}

func (e *CLIError) Error() string {
	return e.Message
}

// NewCLIError creates a CLIError.
func NewCLIError(code int, msg string) *CLIError {
	return &CLIError{ExitCode: code, Message: msg}
}

// WithHint attaches a hint shown under the error message.
func (e *CLIError) WithHint(hint string) *CLIError {
	e.Hint = hint
	return e
}

// Errorf creates a CLIError with a formatted message.
func Errorf(code int, format string, args ...any) *CLIError {
	return &CLIError{ExitCode: code, Message: fmt.Sprintf(format, args...)}
}

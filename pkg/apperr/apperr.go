// Package apperr defines the classified error shape shared by the service
// client and the test controller.
package apperr

// Code identifies a failure class in a machine-readable way.
type Code string

const (
	// CodeNoSupportedFiles means the analysis found nothing it can scan.
	CodeNoSupportedFiles Code = "NO_SUPPORTED_FILES"
	// CodeNotSupported means the service refuses to analyze for this org.
	CodeNotSupported Code = "NOT_SUPPORTED"
	// CodeValidationFailure covers bad requests, including a missing
	// project identifier in report mode.
	CodeValidationFailure Code = "VALIDATION_FAILURE"
	// CodeAuthenticationFailure covers 401 responses.
	CodeAuthenticationFailure Code = "AUTH_FAILURE"
	// CodeFailedToRun covers service failures with no better class.
	CodeFailedToRun Code = "FAILED_TO_RUN"
	// CodeIssuesFound marks a completed scan that found issues.
	CodeIssuesFound Code = "VULNS"
)

// Error is a classified failure. It is constructed once at the point of
// failure and not mutated afterwards.
type Error struct {
	Code    Code
	Message string
}

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func (e *Error) Error() string {
	return e.Message
}

package errors

import "fmt"

type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func New(code, message string, cause ...error) *AppError {
	var c error
	if len(cause) > 0 {
		c = cause[0]
	}
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   c,
	}
}

var (
	ErrConfigNotFound = &AppError{Code: "CONFIG_001", Message: "configuration not found"}
	ErrConfigInvalid  = &AppError{Code: "CONFIG_002", Message: "invalid configuration"}

	ErrMedicationNotFound = &AppError{Code: "MED_001", Message: "medication not found"}
	ErrInvalidFrequency   = &AppError{Code: "MED_002", Message: "invalid frequency"}
	ErrInvalidSchedule    = &AppError{Code: "MED_003", Message: "invalid schedule"}

	ErrStorage      = &AppError{Code: "STORE_001", Message: "storage operation failed"}
	ErrLogCorrupted = &AppError{Code: "STORE_002", Message: "daily log corrupted"}
	ErrCacheMiss    = &AppError{Code: "STORE_003", Message: "cache entry not found"}

	ErrServiceUnavailable = &AppError{Code: "SVC_001", Message: "external service unavailable"}
	ErrDrugNotFound       = &AppError{Code: "SVC_002", Message: "drug not found"}
	ErrAssistantOffline   = &AppError{Code: "SVC_003", Message: "assistant unavailable"}

	ErrChannelNotConfigured = &AppError{Code: "CHAN_001", Message: "notification channel not configured"}

	ErrNotFound   = &AppError{Code: "GEN_001", Message: "resource not found"}
	ErrBadRequest = &AppError{Code: "GEN_002", Message: "bad request"}
	ErrInternal   = &AppError{Code: "GEN_003", Message: "internal error"}
)

func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

func GetCode(err error) string {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return "UNKNOWN"
}

func Wrap(err error, code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

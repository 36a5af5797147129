package errors

import (
	"fmt"
	"time"
)

// ErrorCode identifies an application error class.
type ErrorCode string

const (
	ErrCodeInternal   ErrorCode = "INTERNAL_ERROR"
	ErrCodeBadRequest ErrorCode = "BAD_REQUEST"

	// Webhook intake
	ErrCodeSignatureInvalid ErrorCode = "SIGNATURE_INVALID"
	ErrCodeMalformedPayload ErrorCode = "MALFORMED_PAYLOAD"

	// Wallet custody
	ErrCodeWalletExists   ErrorCode = "WALLET_ALREADY_EXISTS"
	ErrCodeWalletNotFound ErrorCode = "WALLET_NOT_FOUND"
	ErrCodeStorage        ErrorCode = "STORAGE_ERROR"
	ErrCodeKeyGeneration  ErrorCode = "KEY_GENERATION_ERROR"

	// External APIs
	ErrCodeLineAPI ErrorCode = "LINE_API_ERROR"
)

// AppError is the typed application error carried across layer boundaries.
// Message is safe to log; it is never sent to chat users verbatim except for
// the wallet-exists case, whose message is user-facing by contract.
type AppError struct {
	Code      ErrorCode         `json:"code"`
	Message   string            `json:"message"`
	Context   map[string]string `json:"context,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
	Cause     error             `json:"-"`
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

// IsNotFound reports whether the error is a normal "no record" state.
func (e *AppError) IsNotFound() bool {
	return e.Code == ErrCodeWalletNotFound
}

// IsConflict reports whether the error is a create-on-existing conflict.
func (e *AppError) IsConflict() bool {
	return e.Code == ErrCodeWalletExists
}

// IsInternal reports whether the error must stay server-side: storage and
// upstream API faults are logged in detail but never detailed to end users.
func (e *AppError) IsInternal() bool {
	return e.Code == ErrCodeInternal ||
		e.Code == ErrCodeStorage ||
		e.Code == ErrCodeKeyGeneration ||
		e.Code == ErrCodeLineAPI
}

// WithContext attaches a key/value pair for server-side logging.
func (e *AppError) WithContext(key, value string) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]string)
	}
	e.Context[key] = value
	return e
}

// New creates a new application error.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// Wrap wraps an existing error with an application error code.
func Wrap(err error, code ErrorCode, message string) *AppError {
	appErr := New(code, message)
	appErr.Cause = err
	return appErr
}

// Wrapf wraps an existing error with a formatted message.
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *AppError {
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// NewWalletExistsError is the conflict returned by a second create for the
// same user. Its message doubles as the user-facing reply text.
func NewWalletExistsError(userID string) *AppError {
	return New(ErrCodeWalletExists, "You already have a wallet. Send \"show wallet\" to see its address.").
		WithContext("user_id", userID)
}

// NewStorageError wraps a custody storage fault.
func NewStorageError(operation string, err error) *AppError {
	return Wrap(err, ErrCodeStorage, fmt.Sprintf("Storage operation failed: %s", operation)).
		WithContext("operation", operation)
}

// NewLineAPIError wraps a LINE Messaging API fault.
func NewLineAPIError(operation string, err error) *AppError {
	return Wrap(err, ErrCodeLineAPI, fmt.Sprintf("LINE API operation failed: %s", operation)).
		WithContext("operation", operation)
}

// AsAppError extracts an AppError from err, if it is one.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if err != nil {
		appErr, _ = err.(*AppError)
	}
	return appErr, appErr != nil
}

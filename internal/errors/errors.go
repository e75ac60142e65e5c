package errors

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
)

// ErrorType classifies failures by the layer that produced them
type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "validation"
	ErrorTypeNotFound     ErrorType = "not_found"
	ErrorTypeStorage      ErrorType = "storage"
	ErrorTypeSchema       ErrorType = "schema"
	ErrorTypeNotification ErrorType = "notification"
	ErrorTypeConfig       ErrorType = "config"
	ErrorTypeInternal     ErrorType = "internal"
)

// AppError carries a classified failure with structured context
type AppError struct {
	Type     ErrorType
	Message  string
	Code     string
	Internal error
	Context  map[string]any
	Source   string
}

func (e *AppError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Internal)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Internal
}

// Is matches on Type and Code so predefined sentinels compare equal to
// errors built from them with extra context.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if errors.As(target, &t) {
		return e.Type == t.Type && e.Code == t.Code
	}
	return false
}

// WithContext returns a copy of the error with key set in its context
func (e *AppError) WithContext(key string, value any) *AppError {
	clone := *e
	clone.Context = make(map[string]any, len(e.Context)+1)
	for k, v := range e.Context {
		clone.Context[k] = v
	}
	clone.Context[key] = value
	return &clone
}

// LogFields returns the error as slog key/value pairs
func (e *AppError) LogFields() []any {
	fields := []any{
		"error_type", e.Type,
		"error_code", e.Code,
		"error_message", e.Message,
		"source", e.Source,
	}

	if e.Internal != nil {
		fields = append(fields, "internal_error", e.Internal.Error())
	}

	for k, v := range e.Context {
		fields = append(fields, k, v)
	}

	return fields
}

func caller(skip int) string {
	_, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return "unknown"
	}
	return fmt.Sprintf("%s:%d", file, line)
}

// New creates an AppError tagged with the caller's location
func New(errorType ErrorType, code, message string) *AppError {
	return &AppError{
		Type:    errorType,
		Code:    code,
		Message: message,
		Source:  caller(1),
	}
}

// Wrap classifies err as an AppError
func Wrap(err error, errorType ErrorType, code, message string) *AppError {
	return &AppError{
		Type:     errorType,
		Code:     code,
		Message:  message,
		Internal: err,
		Source:   caller(1),
	}
}

// TypeOf reports the ErrorType of err, or ErrorTypeInternal for plain errors
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return ErrorTypeInternal
}

// IsType reports whether err is an AppError of the given type
func IsType(err error, errorType ErrorType) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == errorType
}

// Handler logs errors at a level chosen by their type
type Handler struct {
	logger *slog.Logger
}

func NewHandler(logger *slog.Logger) *Handler {
	return &Handler{logger: logger}
}

func (h *Handler) Handle(ctx context.Context, err error) {
	if err == nil {
		return
	}

	var appErr *AppError
	if !errors.As(err, &appErr) {
		h.logger.ErrorContext(ctx, "Unhandled error", "error", err.Error())
		return
	}

	switch appErr.Type {
	case ErrorTypeValidation, ErrorTypeNotFound:
		h.logger.WarnContext(ctx, "Rejected request", appErr.LogFields()...)
	case ErrorTypeNotification:
		h.logger.WarnContext(ctx, "Notification not delivered", appErr.LogFields()...)
	default:
		h.logger.ErrorContext(ctx, "Operation failed", appErr.LogFields()...)
	}
}

var (
	ErrInvalidTimeOfDay  = New(ErrorTypeValidation, "INVALID_TIME", "Time must be in HH:MM format")
	ErrUserNotFound      = New(ErrorTypeNotFound, "USER_NOT_FOUND", "User not found")
	ErrRuleNotFound      = New(ErrorTypeNotFound, "RULE_NOT_FOUND", "Reminder rule not found")
	ErrUnsupportedSchema = New(ErrorTypeSchema, "UNSUPPORTED_SCHEMA", "Stored document has an unsupported schema version")
)

func NewValidationError(message string) *AppError {
	return New(ErrorTypeValidation, "VALIDATION", message)
}

func NewStorageError(err error, op string) *AppError {
	return Wrap(err, ErrorTypeStorage, "STORAGE", "Storage operation failed").
		WithContext("operation", op)
}

func NewNotificationError(err error, channel string) *AppError {
	return Wrap(err, ErrorTypeNotification, "NOTIFY", fmt.Sprintf("%s notification failed", channel)).
		WithContext("channel", channel)
}

func NewConfigError(message string) *AppError {
	return New(ErrorTypeConfig, "CONFIG", message)
}

func NewInternalError(err error) *AppError {
	return Wrap(err, ErrorTypeInternal, "INTERNAL", "Internal server error")
}

package errors

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_IsMatchesSentinel(t *testing.T) {
	err := ErrRuleNotFound.WithContext("rule_id", "7")

	assert.True(t, stderrors.Is(err, ErrRuleNotFound))
	assert.False(t, stderrors.Is(err, ErrUserNotFound))

	wrapped := fmt.Errorf("toggle: %w", err)
	assert.True(t, stderrors.Is(wrapped, ErrRuleNotFound))
}

func TestAppError_WithContextDoesNotMutateSentinel(t *testing.T) {
	_ = ErrUnsupportedSchema.WithContext("version", 9)

	assert.Empty(t, ErrUnsupportedSchema.Context)
}

func TestWrap_Unwraps(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := NewStorageError(cause, "get")

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, ErrorTypeStorage, TypeOf(err))
	assert.True(t, IsType(err, ErrorTypeStorage))
	assert.Contains(t, err.Error(), "connection refused")
	assert.Contains(t, err.Source, "errors_test.go")
	assert.Equal(t, "get", err.Context["operation"])
}

func TestTypeOf_PlainError(t *testing.T) {
	assert.Equal(t, ErrorTypeInternal, TypeOf(stderrors.New("boom")))
	assert.False(t, IsType(stderrors.New("boom"), ErrorTypeValidation))
}

func TestHandler_LogsByType(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(slog.New(slog.NewTextHandler(&buf, nil)))

	h.Handle(context.Background(), NewValidationError("carbs must be positive"))
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "carbs must be positive")

	buf.Reset()
	h.Handle(context.Background(), NewStorageError(stderrors.New("disk full"), "set"))
	assert.Contains(t, buf.String(), "level=ERROR")

	buf.Reset()
	h.Handle(context.Background(), nil)
	assert.Empty(t, buf.String())
}

package apperrors

import (
	"errors"
	"fmt"
)

// 錯誤分類：handler 依這四種基底錯誤對應 HTTP 狀態碼 (404/409/400/500)
var (
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("conflict")
	ErrInvalidInput        = errors.New("invalid input")
	ErrInternalServerError = errors.New("internal server error")
)

var (
	ErrUserNotFound     = fmt.Errorf("user %w", ErrNotFound)
	ErrCategoryNotFound = fmt.Errorf("category %w", ErrNotFound)
	ErrEventNotFound    = fmt.Errorf("event %w", ErrNotFound)
	ErrRequestNotFound  = fmt.Errorf("participation request %w", ErrNotFound)
)

// Conflictf 包裝一個帶訊息的 ErrConflict，errors.Is 仍可判斷分類
func Conflictf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}

// InvalidInputf 包裝一個帶訊息的 ErrInvalidInput
func InvalidInputf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

package util

import (
	"errors"
	"fmt"
)

var (
	ErrValidation           = errors.New("validation error")
	ErrNotFound             = errors.New("not found")
	ErrUpstreamUnavailable  = errors.New("upstream unavailable")
	ErrAttemptLimitExceeded = errors.New("attempt limit exceeded")
	ErrInvalidPassword      = errors.New("invalid password")
	ErrPermissionDenied     = errors.New("permission denied")
)

const (
	ReasonAlreadyPassed = "already_passed"
	ReasonLimitReached  = "limit_reached"
)

// AttemptLimitError 携带拒绝原因，errors.Is 可匹配 ErrAttemptLimitExceeded
type AttemptLimitError struct {
	Reason       string
	AttemptsUsed int
	MaxAttempts  int
}

func (e *AttemptLimitError) Error() string {
	if e.Reason == ReasonAlreadyPassed {
		return "exam already passed, no further attempts allowed"
	}
	return fmt.Sprintf("attempt limit reached (%d of %d used)", e.AttemptsUsed, e.MaxAttempts)
}

func (e *AttemptLimitError) Is(target error) bool {
	return target == ErrAttemptLimitExceeded
}

func Validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func NotFoundf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

func PermissionDeniedf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrPermissionDenied, fmt.Sprintf(format, args...))
}

// Upstream 将存储/通知等边界错误统一转换为 ErrUpstreamUnavailable
func Upstream(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %v", ErrUpstreamUnavailable, op, err)
}

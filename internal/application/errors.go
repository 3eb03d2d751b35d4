package application

import (
	"context"
	"errors"
	"fmt"
	"net"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrAuthFailure        = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrNotFound           = errors.New("not found")
	ErrInvalidDocKey      = errors.New("invalid document key")
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrSession            = errors.New("session error")
)

// storageErr tags connectivity failures so they surface as 503 instead of 500.
func storageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w: %v", op, ErrStorageUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

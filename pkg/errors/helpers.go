package errors

import (
	"context"
	goerrors "errors"
)

// CheckContext returns an error if the context is canceled or timed out.
// This provides a standardized way to check and wrap context errors.
func CheckContext(ctx context.Context, operation string) error {
	if err := ctx.Err(); err != nil {
		return Wrap(err, Canceled, operation+" canceled")
	}
	return nil
}

// IsCode reports whether any error in the chain carries the given code.
func IsCode(err error, code ErrorCode) bool {
	for ; err != nil; err = goerrors.Unwrap(err) {
		if e, ok := err.(*Error); ok && e.code == code {
			return true
		}
	}
	return false
}

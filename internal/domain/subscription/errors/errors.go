// Package errors contains domain-specific errors for the subscription domain
package errors

import (
	pkgerrors "github.com/Conte777/NewsFlow/services/relay-service/pkg/errors"
)

// Domain errors for subscription operations
var (
	ErrUserNotFound       = pkgerrors.NewNotFoundError("user not found")
	ErrInvalidUserID      = pkgerrors.NewValidationError("invalid user ID")
	ErrInvalidChannelName = pkgerrors.NewValidationError("invalid channel name")
	ErrUnknownRequest     = pkgerrors.NewValidationError("unknown request type")
	ErrDatabaseOperation  = pkgerrors.NewInternalError("database operation failed")
)

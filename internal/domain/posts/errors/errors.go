// Package errors contains domain-specific errors for the posts domain
package errors

import (
	pkgerrors "github.com/Conte777/NewsFlow/services/relay-service/pkg/errors"
)

// Domain errors for posts operations
var (
	ErrChannelUnknown    = pkgerrors.NewNotFoundError("channel is not subscribed")
	ErrInvalidPost       = pkgerrors.NewValidationError("invalid post")
	ErrDatabaseOperation = pkgerrors.NewInternalError("database operation failed")
	ErrPublisherClosed   = pkgerrors.NewUnavailableError("post publisher is closed")
)

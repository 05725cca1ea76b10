// Package errors contains domain-specific errors for the reader domain
package errors

import (
	pkgerrors "github.com/Conte777/NewsFlow/services/relay-service/pkg/errors"
)

// Domain errors for reader operations
var (
	ErrChannelNotFound      = pkgerrors.NewNotFoundError("channel not found")
	ErrChannelNotResolved   = pkgerrors.NewValidationError("channel was never resolved, access hash unknown")
	ErrInvalidChannelName   = pkgerrors.NewValidationError("channel name is empty")
	ErrNotConnected         = pkgerrors.NewUnavailableError("reader is not connected")
	ErrConnectInProgress    = pkgerrors.NewConflictError("reader connect already in progress")
	ErrAuthenticationFailed = pkgerrors.NewUnauthorizedError("reader authentication failed")
	ErrContentStreamClosed  = pkgerrors.NewUnavailableError("reader content stream closed")
)

// Package errors contains domain-specific errors for the bot domain
package errors

import (
	pkgerrors "github.com/Conte777/NewsFlow/services/relay-service/pkg/errors"
)

// Domain errors for bot operations
var (
	ErrEventStreamClosed = pkgerrors.NewUnavailableError("bot event stream closed")
	ErrNotSetUp          = pkgerrors.NewInternalError("bot actor used before setup")
	ErrMenuPublish       = pkgerrors.NewInternalError("failed to publish command menu")
	ErrSelfUnknown       = pkgerrors.NewInternalError("failed to resolve bot identity")
	ErrEmptyMessage      = pkgerrors.NewValidationError("message text cannot be empty")
	ErrNotConnected      = pkgerrors.NewUnavailableError("bot is not connected")
)

package integration

import "errors"

var (
	// ErrIntegrationNotFound is returned when an integration ID doesn't exist.
	ErrIntegrationNotFound = errors.New("integration not found")

	// ErrUnknownService is returned for services without a sync generator.
	ErrUnknownService = errors.New("unknown service")

	// ErrDisabled is returned when syncing an integration that is switched off.
	ErrDisabled = errors.New("integration disabled")
)

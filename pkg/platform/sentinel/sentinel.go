package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and connectors return these
// (optionally wrapped) so services can translate them into domain errors.
//
//   - ErrUnavailable: the store could not be reached or pinged
//   - ErrClosed: the connection was released and must not be used again
//
// For validation errors (missing fields), use pkg/domain-errors directly.
var (
	ErrUnavailable = errors.New("unavailable")
	ErrClosed      = errors.New("closed")
)

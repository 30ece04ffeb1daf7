package model

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrValidation       = errors.New("validation error")
	ErrConflict         = errors.New("conflict")
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrTransport marks a network or HTTP-layer failure talking to the
	// remote store. A sync step that hits it aborts; already-merged local
	// state is kept.
	ErrTransport = errors.New("remote transport failure")

	// ErrDecode marks a malformed remote payload. Decoding degrades the
	// offending field to a default instead of dropping the batch; the
	// degradation is still observable through this sentinel.
	ErrDecode = errors.New("remote decode failure")
)

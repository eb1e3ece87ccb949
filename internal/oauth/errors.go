package oauth

import "errors"

var (
	// ErrCallbackIncomplete means the callback request was missing one or
	// more required parameters.
	ErrCallbackIncomplete = errors.New("sign-in callback missing required parameters")

	// ErrLoginTimeout means no valid callback arrived before the flow's
	// deadline.
	ErrLoginTimeout = errors.New("sign-in timed out waiting for browser callback")
)

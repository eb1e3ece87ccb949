package session

import "errors"

var (
	// ErrInvalidManualToken means the operator-supplied token was rejected
	// by the wallet API. Fatal to startup; the manager never falls through
	// to another acquisition path after it.
	ErrInvalidManualToken = errors.New("manual token rejected by wallet API")

	// ErrCorruptSession means the persisted session record could not be
	// decoded. Treated as absence by the manager.
	ErrCorruptSession = errors.New("session file is corrupt")

	// ErrSessionExpired means a refresh was rejected upstream. The session
	// is destroyed, in memory and on disk, before this is returned.
	ErrSessionExpired = errors.New("session expired and could not be refreshed")

	// ErrNotAuthenticated means no session has been established.
	ErrNotAuthenticated = errors.New("not authenticated")
)

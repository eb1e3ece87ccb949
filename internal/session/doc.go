// Package session owns the credential lifecycle of the server.
//
// A single Session is live per process. It is acquired at startup by the
// Manager from one of three sources, evaluated in strict priority order:
//
//  1. an operator-supplied static token (validated upstream, held in memory
//     only, never persisted),
//  2. the persisted session record on disk (adopted when still valid),
//  3. the interactive browser sign-in flow (persisted on success).
//
// Tokens nearing expiry are refreshed lazily on access, never by a
// background timer. A rejected refresh destroys the session in memory and
// on disk; re-authentication requires a new Initialize.
//
// The Store persists exactly one session record under a per-user directory
// with owner-only permissions (0700 directory, 0600 file).
package session

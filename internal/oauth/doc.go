// Package oauth implements the interactive browser sign-in flow.
//
// A one-shot local HTTP server serves a minimal sign-in page and waits for
// a single callback request carrying the freshly minted credential from the
// hosted identity exchange. The callback and a fixed timeout race; whichever
// resolves first tears the listener down exactly once.
package oauth

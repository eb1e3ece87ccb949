// Package wallet contains the HTTP client for the upstream wallet API.
//
// A Factory is bound once to the API base URL and builds per-request clients
// that optionally carry a bearer credential. Every outbound call made by the
// server, including the session manager's auth checks, goes through a client
// built here.
package wallet

// Package logging provides a small structured logging layer on top of Go's
// standard slog package.
//
// Log entries carry a timestamp, a level, a subsystem identifier and a
// formatted message. Output always goes to the writer given at init time;
// the server pins it to stderr because stdout carries the MCP stdio framing
// and must stay clean.
//
// Usage:
//
//	logging.Init(logging.LevelInfo, os.Stderr)
//
//	logging.Info("Bootstrap", "starting up")
//	logging.Debug("Session", "loaded session for %s", addr)
//	logging.Error("Wallet", err, "upstream call failed")
//
// Subsystems used across the server: Bootstrap, Config, Session, OAuth,
// Wallet, Tools.
package logging

// Package tools exposes the wallet operations as MCP tools over stdio.
//
// Every handler resolves the current bearer credential through the session
// manager before issuing its single upstream call. Failures are returned as
// structured tool errors naming the failing tool; nothing propagates past
// the dispatch boundary.
package tools

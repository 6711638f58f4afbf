// Package service defines the simulation facade consumed by the REST,
// WebSocket, and MCP transports.
//
// SimService is the contract; the implementation composes a
// SessionManager (active simulations) and a PresetManager (named
// configurations) and serializes access so transports may call it from
// any goroutine. A controller itself is single-threaded; the service's
// lock is what makes that safe.
package service

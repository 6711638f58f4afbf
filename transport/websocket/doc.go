// Package websocket streams live simulation state to viewers.
//
// A central Hub manages all connections in a hub-and-spoke model; each
// client gets dedicated read and write goroutines. Connections are
// session-aware: clients pass their session id as a query parameter
// (?session=<id>) and only receive updates for that session. Viewers
// are read-only - the simulation is driven through the REST API or MCP
// tools, and every tick's snapshot is broadcast here.
package websocket

// Package mcp exposes the simulator to MCP clients as a set of tools.
//
// The package is a thin proxy: every tool handler issues an HTTP request
// against the REST API and formats the response as text, so the two
// transports always agree on behavior. The underlying MCP server can be
// mounted on an HTTP endpoint or driven over stdio.
package mcp

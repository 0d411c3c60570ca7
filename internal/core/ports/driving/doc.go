// Package driving provides interfaces implemented by the core services
// and consumed by inbound adapters (MCP, CLI).
package driving

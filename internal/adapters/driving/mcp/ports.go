package mcp

import (
	"github.com/gitdocs-ai/gitdocs/internal/core/ports/driving"
	"github.com/gitdocs-ai/gitdocs/internal/core/services"
)

// Ports aggregates what the MCP server needs. A single injection point
// keeps wiring in one place.
type Ports struct {
	// Docs is the documentation pipeline.
	Docs driving.DocumentationService

	// Handlers selects per-repository handlers. Optional; when nil,
	// every repository goes through Docs directly.
	Handlers *services.HandlerRegistry
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Docs == nil {
		return ErrMissingDocumentationService
	}
	return nil
}

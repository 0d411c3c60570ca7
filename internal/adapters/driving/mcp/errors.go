// Package mcp exposes the documentation pipeline over the Model
// Context Protocol so AI assistants can fetch and search repository
// documentation.
package mcp

import "errors"

// ErrMissingDocumentationService is returned when the documentation
// service is not provided.
var ErrMissingDocumentationService = errors.New("mcp: documentation service is required")

// ErrNoRepository is returned when a tool call names no repository.
var ErrNoRepository = errors.New("mcp: provide either url or owner and repo")

// Package domain contains the core business entities for gitdocs.
// These types have no dependencies on infrastructure or adapters.
package domain

// Package services implements the core documentation pipeline:
// resolution of which file represents "the docs" for a repository,
// indexing into a namespaced vector index, and hybrid relevance
// ranking at query time.
package services

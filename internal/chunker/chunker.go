// Package chunker splits resolved documentation into semantically
// coherent passages. Three strategies are tried in order - structured
// entry-list, README-aware, generic paragraph - and each is guarded so
// a failing strategy falls through to the next instead of aborting the
// whole call.
package chunker

import (
	"regexp"
	"strings"

	"github.com/gitdocs-ai/gitdocs/internal/core/domain"
	"github.com/gitdocs-ai/gitdocs/internal/logger"
)

const (
	// MinChunkLen is the minimum length for a headingless chunk.
	// Chunks led by a heading are kept regardless; the heading marks
	// deliberate structure.
	MinChunkLen = 50

	// MinEntryLen is the minimum length for a structured entry chunk.
	MinEntryLen = 10

	// MaxSectionLen is the accumulated size at which a nested heading
	// forces a new README chunk anyway.
	MaxSectionLen = 2000

	// GenericMaxLen is the target maximum for generic chunks.
	GenericMaxLen = 1500

	// GenericMinLen is the minimum a generic chunk must reach before it
	// may be flushed early.
	GenericMinLen = 500
)

var headingRe = regexp.MustCompile(`^(#{1,6})\s+(.*)$`)

// Chunk splits content into ordered chunks. The fileLabel selects the
// structured strategy for llms.txt-style manifests; otherwise content
// shape decides between README-aware and generic chunking.
func Chunk(fileLabel, content string) []domain.Chunk {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil
	}

	if isManifestLabel(fileLabel) {
		if texts := guarded("structured", chunkStructured, content); len(texts) > 0 {
			return number(texts)
		}
	}

	if looksLikeReadme(content) {
		if texts := guarded("readme", chunkReadme, content); len(texts) > 0 {
			return number(texts)
		}
	}

	texts := guarded("generic", func(c string) []string {
		return chunkGeneric(c, GenericMaxLen, GenericMinLen)
	}, content)
	return number(texts)
}

// guarded runs a strategy and converts a panic into an empty result so
// the cascade can continue with the next strategy.
func guarded(name string, fn func(string) []string, content string) (texts []string) {
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("chunker: %s strategy failed: %v", name, r)
			texts = nil
		}
	}()
	return fn(content)
}

func number(texts []string) []domain.Chunk {
	chunks := make([]domain.Chunk, 0, len(texts))
	for i, t := range texts {
		chunks = append(chunks, domain.Chunk{Text: t, Index: i})
	}
	return chunks
}

func isManifestLabel(fileLabel string) bool {
	return strings.Contains(strings.ToLower(fileLabel), "llms.txt")
}

// looksLikeReadme reports README shape: multiple headings plus either
// code fences or bullet lists.
func looksLikeReadme(content string) bool {
	headings := 0
	bullets := false
	fences := false
	for _, line := range strings.Split(content, "\n") {
		if headingRe.MatchString(line) {
			headings++
		}
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* ") {
			bullets = true
		}
		if strings.HasPrefix(trimmed, "```") {
			fences = true
		}
	}
	return headings >= 2 && (fences || bullets)
}

// headingLevel returns the heading level of a line, or 0.
func headingLevel(line string) int {
	m := headingRe.FindStringSubmatch(line)
	if m == nil {
		return 0
	}
	return len(m[1])
}

func hasHeading(text string) bool {
	for _, line := range strings.Split(text, "\n") {
		if headingRe.MatchString(line) {
			return true
		}
	}
	return false
}

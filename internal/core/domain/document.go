package domain

// Terminal content payloads. Consumers always receive well-formed content,
// never an exception; these literals are the two terminal outcomes.
const (
	// NoDocsMessage is returned when no strategy found documentation.
	NoDocsMessage = "No documentation found."

	// RobotsRestrictedMessage is returned when every remaining source
	// was disallowed by robots.txt. Distinct from NoDocsMessage.
	RobotsRestrictedMessage = "Documentation access is restricted by the site's robots.txt."
)

// ResolveStatus classifies the outcome of a documentation resolution.
type ResolveStatus string

const (
	// ResolveFound means a strategy produced real content.
	ResolveFound ResolveStatus = "found"

	// ResolveNotFound means every strategy came up empty. This is a
	// normal terminal outcome, not an error.
	ResolveNotFound ResolveStatus = "not_found"

	// ResolveRobotsRestricted means the final word was a robots.txt
	// disallow rather than an absence of content.
	ResolveRobotsRestricted ResolveStatus = "robots_restricted"
)

// ResolvedDocument is the outcome of resolving which file represents
// "the docs" for a repository. Values are never mutated after creation;
// a new resolution produces a new value.
type ResolvedDocument struct {
	// FileLabel describes provenance in human terms,
	// e.g. "llms.txt", "README.md", "landing page (converted)".
	FileLabel string

	// Content is the raw document text (markdown).
	Content string

	// SourcePath is the in-repository path the content came from,
	// empty for converted pages and terminal outcomes.
	SourcePath string

	// SourceBranch is the branch the content was fetched from,
	// empty when not applicable.
	SourceBranch string

	// Status classifies the outcome.
	Status ResolveStatus
}

// NotFoundDocument returns the terminal "nothing discoverable" document.
func NotFoundDocument() ResolvedDocument {
	return ResolvedDocument{
		FileLabel: "none",
		Content:   NoDocsMessage,
		Status:    ResolveNotFound,
	}
}

// RobotsRestrictedDocument returns the terminal robots-disallow document.
func RobotsRestrictedDocument() ResolvedDocument {
	return ResolvedDocument{
		FileLabel: "robots.txt restriction",
		Content:   RobotsRestrictedMessage,
		Status:    ResolveRobotsRestricted,
	}
}

// Found reports whether the document carries real content.
func (d ResolvedDocument) Found() bool {
	return d.Status == ResolveFound
}

// Chunk is a contiguous, structurally coherent slice of a resolved
// document. Chunks are produced fresh on every index pass; they are not
// persisted independently of the index entries they back.
type Chunk struct {
	// Text is the chunk content.
	Text string

	// Index is the ordinal position within the document.
	Index int
}

// ScoredChunk is a query-time result combining vector similarity with
// the keyword heuristic. Not persisted.
type ScoredChunk struct {
	// Chunk is the matched chunk text.
	Chunk string

	// VectorScore is the raw similarity from the vector index.
	VectorScore float64

	// KeywordScore is the deterministic keyword/heading/proximity score.
	KeywordScore float64

	// CombinedScore is the blended ranking score.
	CombinedScore float64
}

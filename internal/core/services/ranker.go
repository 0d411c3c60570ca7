package services

import (
	"context"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/gitdocs-ai/gitdocs/internal/core/domain"
	"github.com/gitdocs-ai/gitdocs/internal/core/ports/driven"
	"github.com/gitdocs-ai/gitdocs/internal/logger"
)

// Weights are the hand-tuned scoring constants. They have no derived
// justification; keep them configurable rather than "correcting" them.
type Weights struct {
	LicensePenalty float64
	BadgePenalty   float64
	IntroBoost     float64
	TermOccurrence float64
	HeadingTerm    float64
	Proximity      float64
	VectorWeight   float64
	KeywordWeight  float64
}

// DefaultWeights returns the production scoring constants.
func DefaultWeights() Weights {
	return Weights{
		LicensePenalty: 0.3,
		BadgePenalty:   0.2,
		IntroBoost:     0.3,
		TermOccurrence: 0.05,
		HeadingTerm:    0.25,
		Proximity:      0.15,
		VectorWeight:   0.6,
		KeywordWeight:  0.4,
	}
}

const (
	// IndexEntryTTL excludes stale entries at query time; they are
	// filtered, not physically deleted.
	IndexEntryTTL = 24 * time.Hour

	// candidateMultiplier over-fetches so re-scoring has room to
	// reorder.
	candidateMultiplier = 3

	proximityWindow = 100
	badgeMaxLines   = 8
	minTermLen      = 3
)

var (
	headingLineRe = regexp.MustCompile(`(?m)^#{1,6}\s+.*$`)
	licenseHeadRe = regexp.MustCompile(`(?mi)^#{1,6}\s*license\b`)
	badgeImageRe  = regexp.MustCompile(`!\[[^\]]*\]\([^)]*(?:img\.shields\.io|badge)[^)]*\)`)
	topHeadingRe  = regexp.MustCompile(`(?m)^#\s+.*$`)
	termSplitRe   = regexp.MustCompile(`[^a-zA-Z0-9]+`)
)

var introPhrases = []string{
	"what is", "getting started", "introduction", "usage", "examples", "installation",
}

var stopWords = map[string]bool{
	"the": true, "and": true, "for": true, "with": true, "that": true,
	"this": true, "from": true, "are": true, "was": true, "how": true,
	"what": true, "can": true, "you": true, "your": true, "not": true,
	"but": true, "has": true, "have": true, "its": true, "does": true,
}

// Ranker blends vector similarity with a keyword/heading/proximity
// heuristic to rank chunks against a query.
type Ranker struct {
	embedder driven.EmbeddingService
	index    driven.VectorIndex
	weights  Weights
	now      func() time.Time
}

// NewRanker creates a ranker. Both collaborators are optional; when
// either is missing, Search degrades to an empty result set.
func NewRanker(embedder driven.EmbeddingService, index driven.VectorIndex, weights Weights) *Ranker {
	return &Ranker{embedder: embedder, index: index, weights: weights, now: time.Now}
}

// Search returns the top-limit chunks for the query within the
// repository's namespace. An unavailable or empty index yields an
// empty result, never an error.
func (r *Ranker) Search(
	ctx context.Context, id domain.RepositoryIdentity, query string, limit int,
) ([]domain.ScoredChunk, error) {
	query = strings.TrimSpace(query)
	if query == "" || limit <= 0 {
		return nil, nil
	}
	if r.embedder == nil || r.index == nil {
		logger.Debug("ranker: no embedding/index backend, returning empty result")
		return nil, nil
	}

	logger.Section("Relevance Ranking")
	logger.Debug("ranker: query=%q namespace=%s limit=%d", query, id.Namespace(), limit)

	embedding, err := r.embedder.Embed(ctx, query)
	if err != nil {
		logger.Warn("ranker: query embedding failed: %v (degrading to empty)", err)
		return nil, nil
	}

	matches, err := r.index.Query(ctx, embedding, driven.VectorQuery{
		TopK:      limit * candidateMultiplier,
		Namespace: id.Namespace(),
		NewerThan: r.now().Add(-IndexEntryTTL),
	})
	if err != nil {
		logger.Warn("ranker: vector query failed: %v (degrading to empty)", err)
		return nil, nil
	}
	logger.Debug("ranker: %d candidates", len(matches))

	scored := make([]domain.ScoredChunk, 0, len(matches))
	for _, m := range matches {
		kw := r.keywordScore(query, m.Metadata.ChunkText)
		normalized := (m.Score + 1) / 2
		scored = append(scored, domain.ScoredChunk{
			Chunk:         m.Metadata.ChunkText,
			VectorScore:   m.Score,
			KeywordScore:  kw,
			CombinedScore: r.weights.VectorWeight*normalized + r.weights.KeywordWeight*kw,
		})
	}

	// Stable: ties keep the vector query's order.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].CombinedScore > scored[j].CombinedScore
	})

	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored, nil
}

// keywordScore is the deterministic heuristic over raw chunk text and
// the raw query.
func (r *Ranker) keywordScore(query, text string) float64 {
	score := 0.0
	lowerText := strings.ToLower(text)

	if r.looksLikeLicense(text, lowerText) {
		score -= r.weights.LicensePenalty
	}
	if r.looksLikeBadgeChunk(text) {
		score -= r.weights.BadgePenalty
	}
	if r.hasIntroHeading(text) {
		score += r.weights.IntroBoost
	}

	terms := queryTerms(query)

	for _, term := range terms {
		score += r.weights.TermOccurrence * float64(countWholeWord(lowerText, term))
	}

	for _, heading := range headingLineRe.FindAllString(text, -1) {
		lowerHeading := strings.ToLower(heading)
		for _, term := range terms {
			if strings.Contains(lowerHeading, term) {
				score += r.weights.HeadingTerm
			}
		}
	}

	if len(terms) > 1 {
		score += r.proximityScore(lowerText, terms)
	}

	return score
}

func (r *Ranker) looksLikeLicense(text, lowerText string) bool {
	return licenseHeadRe.MatchString(text) || strings.Contains(lowerText, "mit license")
}

func (r *Ranker) looksLikeBadgeChunk(text string) bool {
	return badgeImageRe.MatchString(text) && strings.Count(text, "\n")+1 < badgeMaxLines
}

func (r *Ranker) hasIntroHeading(text string) bool {
	for _, heading := range topHeadingRe.FindAllString(text, -1) {
		lower := strings.ToLower(heading)
		for _, phrase := range introPhrases {
			if strings.Contains(lower, phrase) {
				return true
			}
		}
	}
	return false
}

// proximityScore rewards co-occurrence: for each occurrence of the
// first term, the following window is scanned for the other terms.
func (r *Ranker) proximityScore(lowerText string, terms []string) float64 {
	first := terms[0]
	others := terms[1:]

	score := 0.0
	offset := 0
	for {
		idx := strings.Index(lowerText[offset:], first)
		if idx < 0 {
			break
		}
		start := offset + idx + len(first)
		end := start + proximityWindow
		if end > len(lowerText) {
			end = len(lowerText)
		}
		window := lowerText[start:end]

		found := 0
		for _, other := range others {
			if strings.Contains(window, other) {
				found++
			}
		}
		score += r.weights.Proximity * float64(found) / float64(len(others))

		offset = start
	}
	return score
}

// queryTerms tokenizes the query into lowercase terms longer than two
// characters, excluding stop words.
func queryTerms(query string) []string {
	var terms []string
	for _, t := range termSplitRe.Split(strings.ToLower(query), -1) {
		if len(t) >= minTermLen && !stopWords[t] {
			terms = append(terms, t)
		}
	}
	return terms
}

// countWholeWord counts case-insensitive whole-word occurrences of
// term in lowerText.
func countWholeWord(lowerText, term string) int {
	count := 0
	offset := 0
	for {
		idx := strings.Index(lowerText[offset:], term)
		if idx < 0 {
			break
		}
		abs := offset + idx
		beforeOK := abs == 0 || !isWordChar(lowerText[abs-1])
		afterOK := abs+len(term) >= len(lowerText) || !isWordChar(lowerText[abs+len(term)])
		if beforeOK && afterOK {
			count++
		}
		offset = abs + len(term)
	}
	return count
}

func isWordChar(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= '0' && b <= '9' || b == '_'
}

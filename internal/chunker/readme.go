package chunker

import (
	"regexp"
	"strings"
)

var (
	centeredBlockRe = regexp.MustCompile(`(?i)<(div|p)[^>]*align\s*=\s*["']?center["']?`)
	badgeHintRe     = regexp.MustCompile(`(?i)img\.shields\.io|<img\b|!\[[^\]]*\]\(`)
	closeBlockRe    = regexp.MustCompile(`(?i)</(div|p)>`)
)

// badgeScanWindow is how far into the document a leading badge block
// may start.
const badgeScanWindow = 20

// chunkReadme walks a README line by line, starting a fresh chunk at
// every level-1/level-2 heading. Deeper headings nest into the current
// chunk unless it has already grown past MaxSectionLen. Code fences are
// atomic: no boundary is considered inside a fence. A leading centered
// badge/logo block is skipped.
func chunkReadme(content string) []string {
	lines := strings.Split(content, "\n")
	start := skipBadgeBlock(lines)

	var out []string
	var current []string
	currentLen := 0

	flush := func() {
		text := strings.TrimSpace(strings.Join(current, "\n"))
		current = nil
		currentLen = 0
		if text == "" {
			return
		}
		if len(text) >= MinChunkLen || hasHeading(text) {
			out = append(out, text)
		}
	}

	inFence := false
	for i := start; i < len(lines); i++ {
		line := lines[i]

		if !inFence {
			switch lvl := headingLevel(line); {
			case lvl == 1 || lvl == 2:
				flush()
			case lvl >= 3 && currentLen > MaxSectionLen:
				flush()
			}
		}

		current = append(current, line)
		currentLen += len(line) + 1

		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			inFence = !inFence
		}
	}
	flush()

	return out
}

// skipBadgeBlock returns the index of the first line after a leading
// centered badge/logo block, or 0 when none is detected. Best-effort
// heuristic: it looks for a centered div/p within the first lines that
// contains image or shields-style links.
func skipBadgeBlock(lines []string) int {
	limit := badgeScanWindow
	if limit > len(lines) {
		limit = len(lines)
	}

	for i := 0; i < limit; i++ {
		if !centeredBlockRe.MatchString(lines[i]) {
			continue
		}

		// Find the close tag within a bounded window.
		end := -1
		hasBadge := false
		for j := i; j < len(lines) && j < i+60; j++ {
			if badgeHintRe.MatchString(lines[j]) {
				hasBadge = true
			}
			if j > i && closeBlockRe.MatchString(lines[j]) {
				end = j
				break
			}
		}
		if end == -1 || !hasBadge {
			return 0
		}

		// Skip trailing blank lines after the block.
		next := end + 1
		for next < len(lines) && strings.TrimSpace(lines[next]) == "" {
			next++
		}
		return next
	}
	return 0
}

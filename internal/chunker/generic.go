package chunker

import "strings"

// chunkGeneric is the universal fallback: split on markdown headings,
// then on blank-line-delimited paragraphs, greedily packing paragraphs
// until the max would be exceeded. A chunk is flushed early only once
// it meets the minimum; otherwise the oversized paragraph is appended
// anyway. Paragraphs are never split internally.
func chunkGeneric(content string, maxLen, minLen int) []string {
	var out []string

	for _, section := range splitOnHeadings(content) {
		paras := splitParagraphs(section)

		var cur []string
		curLen := 0
		flush := func() {
			if curLen == 0 {
				return
			}
			out = append(out, strings.Join(cur, "\n\n"))
			cur = nil
			curLen = 0
		}

		for _, p := range paras {
			joined := curLen + len(p)
			if curLen > 0 {
				joined += 2
			}
			if curLen > 0 && joined > maxLen && curLen >= minLen {
				flush()
			}
			cur = append(cur, p)
			if curLen > 0 {
				curLen += 2
			}
			curLen += len(p)
		}
		flush()
	}

	return out
}

// splitOnHeadings divides content into sections, each starting at a
// heading line. Headings inside code fences do not split.
func splitOnHeadings(content string) []string {
	lines := strings.Split(content, "\n")

	var sections []string
	var current []string
	inFence := false

	for _, line := range lines {
		if !inFence && headingLevel(line) > 0 && len(current) > 0 {
			sections = append(sections, strings.Join(current, "\n"))
			current = nil
		}
		current = append(current, line)
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			inFence = !inFence
		}
	}
	if len(current) > 0 {
		sections = append(sections, strings.Join(current, "\n"))
	}
	return sections
}

// splitParagraphs splits a section into blank-line-delimited
// paragraphs, keeping code fences whole.
func splitParagraphs(section string) []string {
	lines := strings.Split(section, "\n")

	var paras []string
	var current []string
	inFence := false

	emit := func() {
		text := strings.TrimSpace(strings.Join(current, "\n"))
		current = nil
		if text != "" {
			paras = append(paras, text)
		}
	}

	for _, line := range lines {
		if !inFence && strings.TrimSpace(line) == "" {
			emit()
			continue
		}
		current = append(current, line)
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			inFence = !inFence
		}
	}
	emit()
	return paras
}

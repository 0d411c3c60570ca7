package chunker

import (
	"regexp"
	"strings"
)

// linkEntryRe matches "[Title](URL): description" lines.
var linkEntryRe = regexp.MustCompile(`^\[[^\]]+\]\([^)]+\)\s*:`)

// chunkStructured handles flat entry-list manifests (llms.txt shape).
// It emits one chunk for the top-level title plus its leading
// description, then one chunk per entry, each prefixed with the nearest
// enclosing section heading at level <= 3. Identical chunks are
// deduplicated; entries shorter than MinEntryLen (measured before the
// section prefix is attached) are dropped.
func chunkStructured(content string) []string {
	lines := strings.Split(content, "\n")

	var out []string
	seen := make(map[string]bool)
	add := func(text string) {
		if !seen[text] {
			seen[text] = true
			out = append(out, text)
		}
	}

	title, desc, bodyStart := leadingTitle(lines)
	if title != "" {
		chunk := title
		if desc != "" {
			chunk += "\n\n" + desc
		}
		if len(chunk) >= MinEntryLen {
			add(chunk)
		}
	}

	// Nearest enclosing heading: tracking the last level<=3 heading
	// while walking forward is equivalent to scanning backward.
	var section string

	i := bodyStart
	for i < len(lines) {
		line := lines[i]

		if lvl := headingLevel(line); lvl > 0 {
			if lvl <= 3 {
				section = strings.TrimSpace(line)
			}
			i++
			continue
		}

		if !isEntryStart(line) {
			i++
			continue
		}

		entry := []string{strings.TrimRight(line, " \t")}
		j := i + 1
		for j < len(lines) {
			next := lines[j]
			if isEntryStart(next) || headingLevel(next) > 0 {
				break
			}
			if strings.TrimSpace(next) == "" {
				// A blank line directly followed by a new entry or
				// heading terminates the current entry.
				if j+1 < len(lines) && (isEntryStart(lines[j+1]) || headingLevel(lines[j+1]) > 0) {
					break
				}
				if j+1 >= len(lines) {
					break
				}
			}
			entry = append(entry, strings.TrimRight(next, " \t"))
			j++
		}

		// The length floor applies to the entry text itself, not to
		// the prefixed chunk a long heading would inflate.
		text := strings.TrimSpace(strings.Join(entry, "\n"))
		if len(text) >= MinEntryLen {
			if section != "" {
				text = section + "\n\n" + text
			}
			add(text)
		}
		i = j
	}

	return out
}

// leadingTitle finds the first heading and the description lines that
// follow it, stopping at the next heading or entry. It returns the
// title line, the joined description and the index to resume scanning.
func leadingTitle(lines []string) (title, desc string, bodyStart int) {
	i := 0
	for i < len(lines) {
		if headingLevel(lines[i]) > 0 {
			title = strings.TrimSpace(lines[i])
			i++
			break
		}
		if strings.TrimSpace(lines[i]) != "" {
			// Content before any heading: no title chunk.
			return "", "", 0
		}
		i++
	}
	if title == "" {
		return "", "", 0
	}

	var descLines []string
	for i < len(lines) {
		line := lines[i]
		if headingLevel(line) > 0 || isEntryStart(line) {
			break
		}
		if t := strings.TrimSpace(line); t != "" {
			descLines = append(descLines, t)
		}
		i++
	}
	return title, strings.Join(descLines, "\n"), i
}

// isEntryStart reports whether a line begins a manifest entry: a
// markdown list item or a link-with-description line.
func isEntryStart(line string) bool {
	trimmed := strings.TrimSpace(line)
	if strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* ") {
		return true
	}
	return linkEntryRe.MatchString(trimmed)
}

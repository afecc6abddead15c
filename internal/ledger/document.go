package ledger

import "strings"

// document is a line-preserving view of the ledger file. Joining lines with
// "\n" reproduces the original content exactly, trailing newline included.
type document struct {
	lines []string
}

func parseDocument(data []byte) *document {
	return &document{lines: strings.Split(string(data), "\n")}
}

func (d *document) bytes() []byte {
	return []byte(strings.Join(d.lines, "\n"))
}

// sectionBounds locates a section by its exact header line. start is the
// header's index; end is the exclusive index of the next heading (any line
// starting with "#") or the end of the document.
func (d *document) sectionBounds(header string) (start, end int, ok bool) {
	start = -1
	for i, line := range d.lines {
		if strings.TrimRight(line, " \t") == header {
			start = i
			break
		}
	}
	if start == -1 {
		return 0, 0, false
	}

	end = len(d.lines)
	for i := start + 1; i < len(d.lines); i++ {
		if strings.HasPrefix(d.lines[i], "#") {
			end = i
			break
		}
	}
	return start, end, true
}

// insertAt splices a line in before index i.
func (d *document) insertAt(i int, line string) {
	d.lines = append(d.lines, "")
	copy(d.lines[i+1:], d.lines[i:])
	d.lines[i] = line
}

// entryInsertIndex returns where a new entry line belongs within a section:
// immediately after the header, skipping any blank lines and any HTML
// comment block that leads the section.
func (d *document) entryInsertIndex(start, end int) int {
	i := start + 1
	anchor := i
	for i < end {
		trimmed := strings.TrimSpace(d.lines[i])
		switch {
		case trimmed == "":
			i++
		case strings.HasPrefix(trimmed, "<!--"):
			// Skip to the end of the comment, which may span lines.
			for i < end && !strings.Contains(d.lines[i], "-->") {
				i++
			}
			if i < end {
				i++
			}
			anchor = i
		default:
			return i
		}
	}
	// Section holds no entries yet; slot in right after the header (or the
	// leading comment) rather than after its trailing blank lines.
	return anchor
}

// appendToSection adds a line at the bottom of a section, before any blank
// lines that separate it from the next section.
func (d *document) appendToSection(start, end int, line string) {
	i := end
	for i > start+1 && strings.TrimSpace(d.lines[i-1]) == "" {
		i--
	}
	d.insertAt(i, line)
}

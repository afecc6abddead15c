package ledger

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Section headers this package owns inside the ledger document.
const (
	SectionTasks   = "## Tasks"
	SectionHistory = "## History"
)

// DefaultOwner tags entries created on behalf of an agent session.
const DefaultOwner = "claude"

// maxDescriptionLen caps descriptions on the ledger line. The sidecar store
// keeps the untruncated text.
const maxDescriptionLen = 200

const timestampLayout = "2006-01-02 15:04"

var (
	// idPattern matches durable IDs anywhere on an entry line.
	idPattern = regexp.MustCompile(`\bT(\d{3,})\b`)

	// openEntryPattern captures ID and remainder of an open entry line.
	openEntryPattern = regexp.MustCompile(`^- \[ \] (T\d{3,}): (.*)$`)

	// doneEntryPattern captures ID and remainder of a completed entry line.
	doneEntryPattern = regexp.MustCompile(`^- \[x\] (T\d{3,}): (.*)$`)

	// createdClausePattern matches the trailing created-timestamp clause.
	createdClausePattern = regexp.MustCompile(`\(created: [^)]*\)\s*$`)

	// entryMetaPattern matches the trailing owner/worklog/timestamp metadata
	// of an entry line, anchored at the end so descriptions containing "@"
	// or parentheses survive intact.
	entryMetaPattern = regexp.MustCompile(`\s+@\S+(?:\s+\[worklog: [^\]]*\])?(?:\s+\((?:created|completed): [^)]*\))?\s*$`)
)

// Entry is one parsed ledger line.
type Entry struct {
	ID          string
	Description string
	Done        bool
	Line        string
}

// Ledger mutates the task section of a markdown ledger document.
type Ledger struct {
	path  string
	owner string
	now   func() time.Time
}

// New returns a Ledger over the document at path. Entries are tagged
// @owner; an empty owner falls back to DefaultOwner.
func New(path, owner string) *Ledger {
	if owner == "" {
		owner = DefaultOwner
	}
	return &Ledger{path: path, owner: owner, now: time.Now}
}

// Create appends a new open entry to the Tasks section and returns its
// durable ID. A missing Tasks section is synthesized (before the History
// section when present, else at the end of the document); a missing ledger
// file is treated as an empty document. All unrelated content is preserved
// byte-for-byte.
func (l *Ledger) Create(description string) (string, error) {
	doc, err := l.read()
	if err != nil {
		return "", err
	}

	start, end, ok := doc.sectionBounds(SectionTasks)
	if !ok {
		start, end = synthesizeTasksSection(doc)
	}

	id := formatID(maxID(doc.lines[start:end]) + 1)
	desc := sanitizeDescription(description)
	ts := l.now().Format(timestampLayout)

	line := fmt.Sprintf("- [ ] %s: %s @%s [worklog: pending] (created: %s)", id, desc, l.owner, ts)
	doc.insertAt(doc.entryInsertIndex(start, end), line)

	l.appendHistory(doc, fmt.Sprintf("- %s created %s: %s", ts, id, desc))

	if err := l.write(doc); err != nil {
		return "", err
	}
	return id, nil
}

// Complete marks the open entry with the given durable ID as done, searching
// only within the Tasks section so unrelated checklists elsewhere in the
// document can never be touched. It returns false, without mutating
// anything, when no open entry carries that ID (unknown, or already done).
// A document with no Tasks section at all is an error: there is nothing to
// search.
func (l *Ledger) Complete(durableID string) (bool, error) {
	doc, err := l.read()
	if err != nil {
		return false, err
	}

	start, end, ok := doc.sectionBounds(SectionTasks)
	if !ok {
		return false, fmt.Errorf("ledger %s has no %q section", l.path, SectionTasks)
	}

	ts := l.now().Format(timestampLayout)
	for i := start + 1; i < end; i++ {
		m := openEntryPattern.FindStringSubmatch(doc.lines[i])
		if m == nil || m[1] != durableID {
			continue
		}

		doc.lines[i] = completeLine(doc.lines[i], ts)
		l.appendHistory(doc, fmt.Sprintf("- %s completed %s: %s", ts, durableID, entryDescription(m[2])))

		if err := l.write(doc); err != nil {
			return false, err
		}
		return true, nil
	}

	return false, nil
}

// Entries parses all entry lines in the Tasks section, newest first as they
// appear in the document.
func (l *Ledger) Entries() ([]Entry, error) {
	doc, err := l.read()
	if err != nil {
		return nil, err
	}

	start, end, ok := doc.sectionBounds(SectionTasks)
	if !ok {
		return nil, nil
	}

	var entries []Entry
	for _, line := range doc.lines[start+1 : end] {
		if m := openEntryPattern.FindStringSubmatch(line); m != nil {
			entries = append(entries, Entry{ID: m[1], Description: entryDescription(m[2]), Line: line})
			continue
		}
		if m := doneEntryPattern.FindStringSubmatch(line); m != nil {
			entries = append(entries, Entry{ID: m[1], Description: entryDescription(m[2]), Done: true, Line: line})
		}
	}
	return entries, nil
}

func (l *Ledger) read() (*document, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return parseDocument(nil), nil
		}
		return nil, fmt.Errorf("failed to read ledger: %w", err)
	}
	return parseDocument(data), nil
}

func (l *Ledger) write(doc *document) error {
	if dir := filepath.Dir(l.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create ledger directory: %w", err)
		}
	}

	// Write atomically via temp file
	tmpPath := l.path + ".tmp"
	if err := os.WriteFile(tmpPath, doc.bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write ledger: %w", err)
	}
	if err := os.Rename(tmpPath, l.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename ledger: %w", err)
	}
	return nil
}

// appendHistory adds a synopsis line to the History section. Best effort: a
// document without a History section simply records no history.
func (l *Ledger) appendHistory(doc *document, line string) {
	start, end, ok := doc.sectionBounds(SectionHistory)
	if !ok {
		return
	}
	doc.appendToSection(start, end, line)
}

// synthesizeTasksSection inserts an empty Tasks section into a document that
// lacks one: before the History section when present, else appended at the
// end. Returns the new section bounds.
func synthesizeTasksSection(doc *document) (start, end int) {
	if hStart, _, ok := doc.sectionBounds(SectionHistory); ok {
		doc.insertAt(hStart, "")
		doc.insertAt(hStart, SectionTasks)
		return hStart, hStart + 2
	}

	// Appending: keep a blank separator unless the document is empty.
	if len(doc.lines) == 1 && doc.lines[0] == "" {
		doc.lines = []string{SectionTasks, ""}
		return 0, 2
	}
	if strings.TrimSpace(doc.lines[len(doc.lines)-1]) != "" {
		doc.lines = append(doc.lines, "")
	}
	doc.lines = append(doc.lines, SectionTasks, "")
	return len(doc.lines) - 2, len(doc.lines)
}

// maxID scans entry lines for durable IDs and returns the highest numeric
// suffix, 0 when none exist. Completion status is deliberately ignored: a
// done entry still reserves its ID forever.
func maxID(lines []string) int {
	max := 0
	for _, line := range lines {
		for _, m := range idPattern.FindAllStringSubmatch(line, -1) {
			if n, err := strconv.Atoi(m[1]); err == nil && n > max {
				max = n
			}
		}
	}
	return max
}

func formatID(n int) string {
	return fmt.Sprintf("T%03d", n)
}

// sanitizeDescription makes a description safe for the single-line grammar:
// newlines become spaces and overlong text is cut at maxDescriptionLen with
// an ellipsis.
func sanitizeDescription(desc string) string {
	desc = strings.Join(strings.Fields(desc), " ")
	if desc == "" {
		return "Unnamed task"
	}
	runes := []rune(desc)
	if len(runes) > maxDescriptionLen {
		desc = string(runes[:maxDescriptionLen]) + "..."
	}
	return desc
}

// completeLine rewrites an open entry line into its done form, swapping the
// created clause for a completion timestamp.
func completeLine(line, ts string) string {
	line = strings.Replace(line, "- [ ]", "- [x]", 1)
	completed := fmt.Sprintf("(completed: %s)", ts)
	if createdClausePattern.MatchString(line) {
		return createdClausePattern.ReplaceAllString(line, completed)
	}
	if strings.Contains(line, "(completed:") {
		return line
	}
	return line + " " + completed
}

// entryDescription strips the trailing owner tag, worklog marker, and
// timestamp clause from the remainder of an entry line, leaving just the
// description text. Matching runs from the right so a description that
// itself contains "@" or parentheses is not cut short.
func entryDescription(rest string) string {
	return entryMetaPattern.ReplaceAllString(rest, "")
}

package hookevent

import (
	"encoding/json"
	"log/slog"
	"os"
	"strings"
)

// transcriptScanWindow bounds how far back the transcript fallback looks.
// The event that triggered the hook is by definition recent; scanning the
// whole file would only slow the hook down on long sessions.
const transcriptScanWindow = 50

// transcriptRecord is the subset of a transcript JSONL line the fallback
// cares about: assistant turns whose content includes a tool_use item.
type transcriptRecord struct {
	Type      string `json:"type"`
	SessionID string `json:"sessionId"`
	Message   struct {
		Role    string            `json:"role"`
		Content []transcriptBlock `json:"content"`
	} `json:"message"`
}

type transcriptBlock struct {
	Type  string          `json:"type"`
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Input json.RawMessage `json:"input"`
}

// fromTranscript scans the tail of the session transcript for the most
// recent invocation of a recognized task tool. All errors are swallowed:
// the transcript is the last-resort source and its absence is normal.
func fromTranscript(src Sources) *Event {
	if src.TranscriptPath == "" {
		return nil
	}

	data, err := os.ReadFile(src.TranscriptPath)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Debug("transcript unreadable", "path", src.TranscriptPath, "error", err)
		}
		return nil
	}

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) > transcriptScanWindow {
		lines = lines[len(lines)-transcriptScanWindow:]
	}

	// Newest record wins, so walk backwards.
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}

		var rec transcriptRecord
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			continue
		}
		if rec.Type != "assistant" {
			continue
		}

		for j := len(rec.Message.Content) - 1; j >= 0; j-- {
			block := rec.Message.Content[j]
			if block.Type != "tool_use" {
				continue
			}
			verb, ok := verbForTool(block.Name)
			if !ok {
				continue
			}

			fields := stringFields(block.Input)
			if rec.SessionID != "" {
				fields[FieldSessionID] = rec.SessionID
			}
			return &Event{
				Verb:        verb,
				TransientID: block.ID,
				SessionID:   rec.SessionID,
				Fields:      fields,
				Raw:         []byte(line),
			}
		}
	}

	return nil
}

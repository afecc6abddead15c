package testutil

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
)

// HookPayload builds the PostToolUse hook JSON the agent runtime delivers
// on stdin.
func HookPayload(t *testing.T, sessionID, toolName string, toolInput, toolResponse map[string]any) []byte {
	t.Helper()

	payload := map[string]any{
		"session_id":      sessionID,
		"hook_event_name": "PostToolUse",
		"tool_name":       toolName,
	}
	if toolInput != nil {
		payload["tool_input"] = toolInput
	}
	if toolResponse != nil {
		payload["tool_response"] = toolResponse
	}

	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("Failed to marshal hook payload: %v", err)
	}
	return data
}

// TranscriptLine builds one transcript JSONL record containing a single
// tool_use invocation.
func TranscriptLine(t *testing.T, sessionID, toolUseID, toolName string, input map[string]any) string {
	t.Helper()

	rec := map[string]any{
		"type":      "assistant",
		"sessionId": sessionID,
		"message": map[string]any{
			"role": "assistant",
			"content": []map[string]any{
				{
					"type":  "tool_use",
					"id":    toolUseID,
					"name":  toolName,
					"input": input,
				},
			},
		},
	}

	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("Failed to marshal transcript record: %v", err)
	}
	return string(data)
}

// Transcript joins records into a JSONL document.
func Transcript(lines ...string) string {
	return strings.Join(lines, "\n") + "\n"
}

// TextTurn builds a transcript record with plain text content, useful as
// scan-window filler.
func TextTurn(role, text string) string {
	return fmt.Sprintf(`{"type":%q,"message":{"role":%q,"content":[{"type":"text","text":%q}]}}`, role, role, text)
}

package hookevent

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// Sources bundles the raw inputs an extraction attempt may draw from.
type Sources struct {
	// Payload is the hook JSON delivered on stdin, possibly empty.
	Payload []byte

	// Env holds environment-style overrides (TASKLEDGER_* keys).
	Env map[string]string

	// TranscriptPath points at the session transcript JSONL, possibly "".
	TranscriptPath string
}

// Environment override keys.
const (
	EnvTool        = "TASKLEDGER_TOOL"
	EnvTaskID      = "TASKLEDGER_TASK_ID"
	EnvDescription = "TASKLEDGER_DESCRIPTION"
	EnvStatus      = "TASKLEDGER_STATUS"
	EnvPriority    = "TASKLEDGER_PRIORITY"
	EnvCategory    = "TASKLEDGER_CATEGORY"
	EnvSessionID   = "TASKLEDGER_SESSION_ID"
)

// A strategy attempts to recover an event from one source. Returning nil
// means "this source has nothing"; the next strategy gets a turn.
type strategy func(Sources) *Event

// Extract tries each source in priority order and returns the first
// well-formed event, or nil when no source yields one.
func Extract(src Sources) *Event {
	for _, s := range []strategy{fromPayload, fromEnv, fromTranscript} {
		if ev := s(src); ev != nil {
			return ev
		}
	}
	return nil
}

// hookPayload is the JSON the agent runtime sends on stdin to hooks.
type hookPayload struct {
	SessionID     string          `json:"session_id"`
	CWD           string          `json:"cwd"`
	HookEventName string          `json:"hook_event_name"`
	ToolName      string          `json:"tool_name"`
	ToolUseID     string          `json:"tool_use_id"`
	ToolInput     json.RawMessage `json:"tool_input"`
	ToolResponse  json.RawMessage `json:"tool_response"`
}

func fromPayload(src Sources) *Event {
	if len(src.Payload) == 0 {
		return nil
	}

	var p hookPayload
	if err := json.Unmarshal(src.Payload, &p); err != nil {
		// Malformed payload is not fatal; fall through to the next source.
		slog.Debug("hook payload unmarshal failed", "error", err, "bytes", len(src.Payload))
		return nil
	}

	verb, ok := verbForTool(p.ToolName)
	if !ok {
		if p.ToolName != "" {
			slog.Debug("ignoring unrecognized tool", "tool", p.ToolName)
		}
		return nil
	}

	fields := stringFields(p.ToolInput)
	if id := responseTaskID(p.ToolResponse); id != "" {
		fields[FieldResponseTaskID] = id
	}
	if p.SessionID != "" {
		fields[FieldSessionID] = p.SessionID
	}

	return &Event{
		Verb:        verb,
		TransientID: p.ToolUseID,
		SessionID:   p.SessionID,
		Fields:      fields,
		Raw:         src.Payload,
	}
}

func fromEnv(src Sources) *Event {
	verb, ok := verbForTool(src.Env[EnvTool])
	if !ok {
		return nil
	}

	fields := map[string]string{}
	for envKey, fieldKey := range map[string]string{
		EnvTaskID:      FieldTaskID,
		EnvDescription: FieldDescription,
		EnvStatus:      FieldStatus,
		EnvPriority:    FieldPriority,
		EnvCategory:    FieldCategory,
		EnvSessionID:   FieldSessionID,
	} {
		if v := strings.TrimSpace(src.Env[envKey]); v != "" {
			fields[fieldKey] = v
		}
	}

	return &Event{
		Verb:      verb,
		SessionID: fields[FieldSessionID],
		Fields:    fields,
	}
}

// stringFields flattens a JSON object into string values. Nested objects and
// arrays are dropped; the ledger line grammar has no use for them.
func stringFields(raw json.RawMessage) map[string]string {
	fields := map[string]string{}
	if len(raw) == 0 {
		return fields
	}

	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return fields
	}

	for k, v := range m {
		if s := scalarString(v); s != "" {
			fields[normalizeFieldKey(k)] = s
		}
	}
	return fields
}

// scalarString renders a decoded JSON scalar as a string, or "" for nested
// values the ledger line grammar has no use for.
func scalarString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return fmt.Sprintf("%t", val)
	}
	return ""
}

// normalizeFieldKey folds the camelCase keys the tool emits onto the
// snake_case names the rest of the pipeline uses.
func normalizeFieldKey(k string) string {
	switch k {
	case "taskId", "taskID", "id":
		return FieldTaskID
	case "sessionId":
		return FieldSessionID
	case "activeForm":
		return "active_form"
	}
	return k
}

// responseTaskID digs the tool-assigned task id out of a tool response. The
// tool has emitted several shapes over time: a bare string, {"id": ...}, and
// {"task": {"id": ...}}.
func responseTaskID(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}

	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return ""
	}
	if id := scalarString(m["id"]); id != "" {
		return id
	}
	if task, ok := m["task"].(map[string]any); ok {
		return scalarString(task["id"])
	}
	return ""
}

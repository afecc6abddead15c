package hookevent

import "strings"

// Verb classifies a task lifecycle event.
type Verb string

const (
	VerbCreate Verb = "create"
	VerbUpdate Verb = "update"
)

// Tool names recognized as task lifecycle events. Everything else is ignored.
const (
	ToolTaskCreate = "TaskCreate"
	ToolTaskUpdate = "TaskUpdate"
)

// Well-known field keys in Event.Fields.
const (
	FieldDescription    = "description"
	FieldSubject        = "subject"
	FieldStatus         = "status"
	FieldPriority       = "priority"
	FieldCategory       = "category"
	FieldTaskID         = "task_id"
	FieldResponseTaskID = "response_task_id"
	FieldSessionID      = "session_id"
)

// Event is a normalized task lifecycle event recovered from one of the
// extraction sources. It lives for a single hook invocation and is never
// persisted.
type Event struct {
	Verb Verb

	// TransientID is the raw tool-call identifier assigned by the agent
	// runtime (e.g. a tool_use id). Meaningless outside the session that
	// produced it; empty when the source did not expose one.
	TransientID string

	// SessionID scopes numeric task ids to the originating session.
	SessionID string

	// Fields holds the string-valued event attributes. Keys are the Field*
	// constants; absent keys mean the source did not carry the attribute.
	Fields map[string]string

	// Raw preserves the bytes the event was recovered from, for best-effort
	// regex ID recovery when structured extraction came up empty.
	Raw []byte
}

// Field returns the named field, or "" when absent.
func (e *Event) Field(key string) string {
	if e == nil || e.Fields == nil {
		return ""
	}
	return e.Fields[key]
}

// verbForTool maps a tool name to its event verb. Lowercase verb names are
// accepted too so env overrides can say TASKLEDGER_TOOL=create.
func verbForTool(name string) (Verb, bool) {
	switch strings.TrimSpace(name) {
	case ToolTaskCreate, string(VerbCreate):
		return VerbCreate, true
	case ToolTaskUpdate, string(VerbUpdate):
		return VerbUpdate, true
	}
	return "", false
}

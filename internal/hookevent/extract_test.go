package hookevent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anthropics/aef/taskledger/internal/testutil"
)

func TestExtractFromPayloadCreate(t *testing.T) {
	t.Parallel()

	payload := testutil.HookPayload(t, "sessA", ToolTaskCreate,
		map[string]any{
			"subject":     "Implement login",
			"description": "Full description here",
			"priority":    "high",
			"category":    "feature",
		},
		map[string]any{"task": map[string]any{"id": "42"}},
	)

	ev := Extract(Sources{Payload: payload})
	require.NotNil(t, ev)
	assert.Equal(t, VerbCreate, ev.Verb)
	assert.Equal(t, "sessA", ev.SessionID)
	assert.Equal(t, "Implement login", ev.Field(FieldSubject))
	assert.Equal(t, "Full description here", ev.Field(FieldDescription))
	assert.Equal(t, "high", ev.Field(FieldPriority))
	assert.Equal(t, "42", ev.Field(FieldResponseTaskID))
	assert.Equal(t, payload, ev.Raw)
}

func TestExtractFromPayloadUpdate(t *testing.T) {
	t.Parallel()

	payload := testutil.HookPayload(t, "sessA", ToolTaskUpdate,
		map[string]any{"taskId": "7", "status": "completed"}, nil)

	ev := Extract(Sources{Payload: payload})
	require.NotNil(t, ev)
	assert.Equal(t, VerbUpdate, ev.Verb)
	assert.Equal(t, "7", ev.Field(FieldTaskID))
	assert.Equal(t, "completed", ev.Field(FieldStatus))
}

func TestExtractNumericResponseID(t *testing.T) {
	t.Parallel()

	payload := testutil.HookPayload(t, "sessA", ToolTaskCreate,
		map[string]any{"subject": "x"},
		map[string]any{"id": 42},
	)

	ev := Extract(Sources{Payload: payload})
	require.NotNil(t, ev)
	assert.Equal(t, "42", ev.Field(FieldResponseTaskID))
}

func TestExtractIgnoresUnrecognizedTool(t *testing.T) {
	t.Parallel()

	payload := testutil.HookPayload(t, "sessA", "Bash",
		map[string]any{"command": "rm -rf node_modules"}, nil)

	assert.Nil(t, Extract(Sources{Payload: payload}))
}

func TestExtractMalformedPayloadFallsThroughToEnv(t *testing.T) {
	t.Parallel()

	ev := Extract(Sources{
		Payload: []byte("{this is not json"),
		Env: map[string]string{
			EnvTool:        ToolTaskUpdate,
			EnvTaskID:      "7",
			EnvStatus:      "completed",
			EnvSessionID:   "sessB",
			EnvDescription: "ignored for updates but carried anyway",
		},
	})
	require.NotNil(t, ev)
	assert.Equal(t, VerbUpdate, ev.Verb)
	assert.Equal(t, "sessB", ev.SessionID)
	assert.Equal(t, "7", ev.Field(FieldTaskID))
	assert.Equal(t, "completed", ev.Field(FieldStatus))
}

func TestExtractEnvAcceptsPartialFields(t *testing.T) {
	t.Parallel()

	// Only the verb is required from the env source.
	ev := Extract(Sources{Env: map[string]string{EnvTool: "create"}})
	require.NotNil(t, ev)
	assert.Equal(t, VerbCreate, ev.Verb)
	assert.Empty(t, ev.Field(FieldDescription))
}

func TestExtractPayloadWinsOverEnv(t *testing.T) {
	t.Parallel()

	payload := testutil.HookPayload(t, "sessA", ToolTaskCreate,
		map[string]any{"subject": "from payload"}, nil)

	ev := Extract(Sources{
		Payload: payload,
		Env:     map[string]string{EnvTool: ToolTaskUpdate, EnvTaskID: "9"},
	})
	require.NotNil(t, ev)
	assert.Equal(t, VerbCreate, ev.Verb)
	assert.Equal(t, "from payload", ev.Field(FieldSubject))
}

func TestExtractNothingFound(t *testing.T) {
	t.Parallel()

	assert.Nil(t, Extract(Sources{}))
	assert.Nil(t, Extract(Sources{Env: map[string]string{"TASKLEDGER_TOOL": "NotATaskTool"}}))
}

package hookevent

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anthropics/aef/taskledger/internal/testutil"
)

func writeTranscript(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestTranscriptFallback(t *testing.T) {
	t.Parallel()

	transcript := testutil.Transcript(
		testutil.TextTurn("user", "please track this work"),
		testutil.TranscriptLine(t, "sessA", "toolu_01", ToolTaskCreate,
			map[string]any{"subject": "Implement login"}),
		testutil.TextTurn("assistant", "done"),
	)

	ev := Extract(Sources{TranscriptPath: writeTranscript(t, transcript)})
	require.NotNil(t, ev)
	assert.Equal(t, VerbCreate, ev.Verb)
	assert.Equal(t, "toolu_01", ev.TransientID)
	assert.Equal(t, "sessA", ev.SessionID)
	assert.Equal(t, "Implement login", ev.Field(FieldSubject))
}

func TestTranscriptNewestRecordWins(t *testing.T) {
	t.Parallel()

	transcript := testutil.Transcript(
		testutil.TranscriptLine(t, "sessA", "toolu_old", ToolTaskCreate,
			map[string]any{"subject": "Old task"}),
		testutil.TranscriptLine(t, "sessA", "toolu_new", ToolTaskUpdate,
			map[string]any{"taskId": "3", "status": "completed"}),
	)

	ev := Extract(Sources{TranscriptPath: writeTranscript(t, transcript)})
	require.NotNil(t, ev)
	assert.Equal(t, VerbUpdate, ev.Verb)
	assert.Equal(t, "toolu_new", ev.TransientID)
}

func TestTranscriptScanWindow(t *testing.T) {
	t.Parallel()

	// The only task event sits beyond the 50-line window.
	lines := []string{testutil.TranscriptLine(t, "sessA", "toolu_far", ToolTaskCreate,
		map[string]any{"subject": "Too old to matter"})}
	for i := 0; i < transcriptScanWindow; i++ {
		lines = append(lines, testutil.TextTurn("assistant", fmt.Sprintf("filler %d", i)))
	}

	ev := Extract(Sources{TranscriptPath: writeTranscript(t, testutil.Transcript(lines...))})
	assert.Nil(t, ev)
}

func TestTranscriptSkipsOtherTools(t *testing.T) {
	t.Parallel()

	transcript := testutil.Transcript(
		testutil.TranscriptLine(t, "sessA", "toolu_create", ToolTaskCreate,
			map[string]any{"subject": "Real event"}),
		testutil.TranscriptLine(t, "sessA", "toolu_bash", "Bash",
			map[string]any{"command": "go test ./..."}),
	)

	ev := Extract(Sources{TranscriptPath: writeTranscript(t, transcript)})
	require.NotNil(t, ev)
	assert.Equal(t, "toolu_create", ev.TransientID)
}

func TestTranscriptToleratesGarbageLines(t *testing.T) {
	t.Parallel()

	transcript := "not json at all\n{\"half\": \n" +
		testutil.TranscriptLine(t, "sessA", "toolu_ok", ToolTaskCreate,
			map[string]any{"subject": "Survivor"}) + "\n"

	ev := Extract(Sources{TranscriptPath: writeTranscript(t, transcript)})
	require.NotNil(t, ev)
	assert.Equal(t, "Survivor", ev.Field(FieldSubject))
}

func TestTranscriptMissingFile(t *testing.T) {
	t.Parallel()

	ev := Extract(Sources{TranscriptPath: filepath.Join(t.TempDir(), "nope.jsonl")})
	assert.Nil(t, ev)
}

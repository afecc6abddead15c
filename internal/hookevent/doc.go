// Package hookevent recovers task lifecycle events from the raw inputs a
// PostToolUse hook invocation has access to.
//
// # Extraction Sources
//
// A hook invocation may learn about a task event through several channels of
// decreasing reliability. The extractor tries each in strict priority order
// and stops at the first source that yields a well-formed event:
//
//  1. The hook payload delivered on stdin: a single JSON object carrying
//     tool_name, tool_input, and tool_response.
//
//  2. Environment overrides: TASKLEDGER_* variables set by wrapper scripts
//     that cannot forward the payload. Only the tool name is required; all
//     other fields are optional.
//
//  3. The session transcript: a JSONL log of the conversation. Only the last
//     50 records are scanned, newest first, for a tool_use invocation of a
//     recognized task tool.
//
// A source that is present but malformed is skipped, not treated as an
// error. If no source yields a recognized event the extractor returns nil,
// which callers treat as a benign no-op.
//
// # Recognized Tools
//
// Only two tool names map to events: TaskCreate and TaskUpdate. Records for
// any other tool are ignored.
package hookevent

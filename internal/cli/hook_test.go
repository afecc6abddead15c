package cli

import (
	"bytes"
	"os"
	"testing"

	"github.com/anthropics/aef/taskledger/internal/hookevent"
	"github.com/anthropics/aef/taskledger/internal/reconcile"
	"github.com/anthropics/aef/taskledger/internal/testutil"
)

func hookPayloadWithCWD(t *testing.T, env *testutil.TestEnv, toolName string, input map[string]any) []byte {
	t.Helper()
	payload := testutil.HookPayload(t, "sessA", toolName, input, nil)
	// Splice in the cwd routing field the fixtures omit.
	payload = bytes.TrimSuffix(payload, []byte("}"))
	payload = append(payload, []byte(`,"cwd":"`+env.ProjectDir+`"}`)...)
	return payload
}

func TestRunHookOnceCreates(t *testing.T) {
	env := testutil.SetupTestEnv(t)

	payload := hookPayloadWithCWD(t, env, hookevent.ToolTaskCreate,
		map[string]any{"subject": "Hook-created task", "taskId": "3"})

	result := RunHookOnce(bytes.NewReader(payload))
	if !result.OK {
		t.Fatalf("Expected ok result, got error: %s", result.Error)
	}
	if result.Action != reconcile.ActionCreated {
		t.Fatalf("Expected created, got %q (reason: %s)", result.Action, result.Reason)
	}

	content := env.ReadFile("TODO.md")
	if !bytes.Contains([]byte(content), []byte("Hook-created task")) {
		t.Error("Ledger missing the created entry")
	}
	if !env.FileExists(env.IdentityMapPath()) {
		t.Error("Identity map was not written")
	}
}

func TestRunHookOnceSkipsUninitializedProject(t *testing.T) {
	env := testutil.SetupTestEnv(t)

	// Remove the .taskledger marker; the hook must refuse to act.
	if err := os.RemoveAll(env.StoreDir); err != nil {
		t.Fatal(err)
	}

	payload := hookPayloadWithCWD(t, env, hookevent.ToolTaskCreate,
		map[string]any{"subject": "Should not land"})

	result := RunHookOnce(bytes.NewReader(payload))
	if !result.OK || result.Action != reconcile.ActionSkipped {
		t.Fatalf("Expected skip, got %+v", result)
	}
	if env.FileExists("TODO.md") {
		t.Error("Uninitialized project must not gain a ledger")
	}
}

func TestRunHookOnceRespectsDisabledConfig(t *testing.T) {
	env := testutil.SetupTestEnv(t)

	env.CreateFile(env.StoreDir+"/config.yaml", "hook:\n  enabled: false\n")

	payload := hookPayloadWithCWD(t, env, hookevent.ToolTaskCreate,
		map[string]any{"subject": "Disabled"})

	result := RunHookOnce(bytes.NewReader(payload))
	if result.Action != reconcile.ActionSkipped {
		t.Fatalf("Expected skip, got %+v", result)
	}
	if result.Reason != "hook disabled by configuration" {
		t.Errorf("Unexpected reason: %s", result.Reason)
	}
}

func TestRunHookOnceGarbageStdin(t *testing.T) {
	env := testutil.SetupTestEnv(t)

	// cwd is unrecoverable from garbage, so the hook falls back to the
	// process working directory.
	oldWD, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd failed: %v", err)
	}
	if err := os.Chdir(env.ProjectDir); err != nil {
		t.Fatalf("Chdir failed: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(oldWD) })

	result := RunHookOnce(bytes.NewReader([]byte("not json")))
	if !result.OK {
		t.Fatalf("Garbage stdin must stay benign, got %+v", result)
	}
	if result.Reason == "" {
		t.Error("Expected an explanatory reason")
	}
}

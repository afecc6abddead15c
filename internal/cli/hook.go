package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/anthropics/aef/taskledger/internal/config"
	"github.com/anthropics/aef/taskledger/internal/hookevent"
	"github.com/anthropics/aef/taskledger/internal/identity"
	"github.com/anthropics/aef/taskledger/internal/ledger"
	"github.com/anthropics/aef/taskledger/internal/reconcile"
	"github.com/anthropics/aef/taskledger/internal/sidecar"
)

// maxHookStdinBytes caps stdin reads. Hook payloads are small JSON objects;
// 1 MB is generous headroom that prevents unbounded allocation.
const maxHookStdinBytes = 1 << 20

// envTranscript lets wrapper scripts point at the transcript when the
// payload channel is unavailable.
const envTranscript = "TASKLEDGER_TRANSCRIPT"

var hookCmd = &cobra.Command{
	Use:   "hook",
	Short: "Run one reconciliation pass from hook input on stdin",
	Long: `Reads the agent runtime's PostToolUse hook JSON from stdin, reconciles
the task event against the project ledger, and prints a single structured
result to stdout.

Intended to be wired as a hook handler, not run by hand. Always exits 0:
a hook must never break the agent that triggered it.`,
	Args: cobra.NoArgs,
	RunE: runHook,
}

func runHook(cmd *cobra.Command, args []string) error {
	result := RunHookOnce(cmd.InOrStdin())

	out, err := json.Marshal(result)
	if err != nil {
		// Last resort; the result schema cannot actually fail to marshal.
		fmt.Fprintln(cmd.OutOrStdout(), `{"ok":false,"error":"result marshal failed"}`)
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

// RunHookOnce wires the stores for the project named in the hook payload
// (or the working directory) and runs a single reconciliation. Shared by
// the hook subcommand and the standalone task-ledger-hook binary.
func RunHookOnce(stdin io.Reader) reconcile.Result {
	payload, err := io.ReadAll(io.LimitReader(stdin, maxHookStdinBytes))
	if err != nil {
		payload = nil
	}

	// Pre-parse only the routing fields; the extractor owns the rest.
	var routing struct {
		CWD            string `json:"cwd"`
		TranscriptPath string `json:"transcript_path"`
	}
	_ = json.Unmarshal(payload, &routing)

	projectPath := routing.CWD
	if projectPath == "" {
		projectPath, _ = os.Getwd()
	}

	env := taskledgerEnv()

	transcript := routing.TranscriptPath
	if transcript == "" {
		transcript = env[envTranscript]
	}

	// Skip projects that never opted in, mirroring hook installs that
	// outlive the projects they were set up for.
	if _, err := os.Stat(config.StoreDir(projectPath)); os.IsNotExist(err) {
		return reconcile.Result{OK: true, Action: reconcile.ActionSkipped, Reason: "project not initialized for taskledger"}
	}

	cfg, _ := config.Load(projectPath)
	if !cfg.Hook.Enabled {
		return reconcile.Result{OK: true, Action: reconcile.ActionSkipped, Reason: "hook disabled by configuration"}
	}

	r := reconcile.New(
		ledger.New(cfg.LedgerPath(projectPath), cfg.Ledger.Owner),
		identity.NewStore(config.IdentityMapPath(projectPath)),
		sidecar.NewStore(config.SidecarPath(projectPath)),
	)

	return r.Run(hookevent.Sources{
		Payload:        payload,
		Env:            env,
		TranscriptPath: transcript,
	})
}

// taskledgerEnv collects TASKLEDGER_* variables from the process
// environment.
func taskledgerEnv() map[string]string {
	env := map[string]string{}
	for _, kv := range os.Environ() {
		if !strings.HasPrefix(kv, "TASKLEDGER_") {
			continue
		}
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}
	return env
}

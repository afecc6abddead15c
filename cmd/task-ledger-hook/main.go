// task-ledger-hook is a lightweight PostToolUse hook relay. It reads the
// agent runtime's hook JSON from stdin, reconciles the task event against
// the project's durable ledger, and prints the structured result.
//
// It always exits 0 - a hook must never break the agent that triggered it.
package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/anthropics/aef/taskledger/internal/cli"
)

func main() {
	// Hooks are quiet by default; diagnostics go to stderr only when asked.
	logLevel := slog.LevelWarn
	if os.Getenv("TASKLEDGER_DEBUG") != "" {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})))

	result := cli.RunHookOnce(os.Stdin)

	out, err := json.Marshal(result)
	if err != nil {
		fmt.Println(`{"ok":false,"error":"result marshal failed"}`)
		return
	}
	fmt.Println(string(out))
}

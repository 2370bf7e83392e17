package main

import (
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/steveyegge/contacts/internal/repl"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start the interactive shell",
	Long: `Start the interactive contacts shell.

The shell loads the store, accepts commands such as 'add', 'phone' and
'birthdays', and saves on 'exit', 'close', 'quit' or Ctrl+D.

Type 'help' in the shell for available commands.`,
	Args: cobra.NoArgs,
	RunE: runREPL,
}

func init() {
	rootCmd.AddCommand(replCmd)
}

func runREPL(cmd *cobra.Command, args []string) error {
	r, err := repl.New(&repl.Config{
		Store:       store,
		Out:         cmd.OutOrStdout(),
		Logger:      logger,
		Reminders:   cfg.ReminderOptions(),
		HistoryFile: historyFile(),
	})
	if err != nil {
		return err
	}

	return r.Run(commandContext(cmd))
}

// historyFile keeps shell history next to an on-disk store. In-memory
// stores fall back to the XDG state directory.
func historyFile() string {
	if storePath != "" && storePath != ":memory:" {
		return filepath.Join(filepath.Dir(storePath), "history")
	}
	path, err := xdg.StateFile(filepath.Join("contacts", "history"))
	if err != nil {
		logger.Debug("no history file", zap.Error(err))
		return ""
	}
	return path
}

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/steveyegge/contacts/internal/config"
	"github.com/steveyegge/contacts/internal/storage"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a contacts store in the current directory",
	Long: `Initialize a contacts store by creating a .contacts/ directory.

This creates:
  - .contacts/config.yaml (default settings, kept if it already exists)
  - .contacts/contacts.db (SQLite) or .contacts/contacts.yaml (--backend yaml)

Example:
  cd ~/notes
  contacts init                  # SQLite store
  contacts init --backend yaml   # YAML snapshot store`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	out := cmd.OutOrStdout()

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}

	path, err := storage.InitProject(cwd, cfg.Storage.Backend)
	if err != nil {
		return err
	}
	if cfg.Storage.Path != "" {
		path = cfg.Storage.Path
	}

	cfgFile := configPath
	if cfgFile == "" {
		cfgFile = storage.ConfigPath(cwd)
	}
	if _, err := os.Stat(cfgFile); errors.Is(err, os.ErrNotExist) {
		fresh := config.Default()
		fresh.Storage.Backend = cfg.Storage.Backend
		if err := fresh.Save(cfgFile); err != nil {
			return err
		}
	}

	s, err := storage.NewStorage(ctx, &storage.Config{Backend: cfg.Storage.Backend, Path: path})
	if err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}
	defer func() { _ = s.Close() }()

	// Write an initial snapshot so a fresh store reports a save
	info, err := s.LastSave(ctx)
	if err != nil {
		return err
	}
	if info == nil {
		d, err := s.Load(ctx)
		if err != nil {
			return err
		}
		if err := s.Save(ctx, d); err != nil {
			return err
		}
	}

	green := color.New(color.FgGreen).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	gray := color.New(color.FgHiBlack).SprintFunc()

	fmt.Fprintf(out, "\n%s Initialized contacts store\n\n", green("✓"))
	fmt.Fprintf(out, "  Store: %s (%s)\n", cyan(path), cfg.Storage.Backend)
	fmt.Fprintf(out, "  Config: %s\n", cyan(cfgFile))
	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s Next steps:\n", gray("→"))
	fmt.Fprintf(out, "  %s\n", gray("contacts        # start the shell"))
	fmt.Fprintln(out)

	logger.Debug("initialized store")
	return nil
}

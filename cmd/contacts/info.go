package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show store location, size and last save",
	Args:  cobra.NoArgs,
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	out := cmd.OutOrStdout()

	d, err := store.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load contacts: %w", err)
	}
	last, err := store.LastSave(ctx)
	if err != nil {
		return fmt.Errorf("failed to read last save: %w", err)
	}

	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	gray := color.New(color.FgHiBlack).SprintFunc()

	fmt.Fprintf(out, "\n%s\n\n", cyan("Contacts Store"))
	fmt.Fprintf(out, "  Backend:   %s\n", cfg.Storage.Backend)
	fmt.Fprintf(out, "  Path:      %s\n", storePath)
	fmt.Fprintf(out, "  Contacts:  %d\n", d.Len())
	if last == nil {
		fmt.Fprintf(out, "  Last save: %s\n", gray("never"))
	} else {
		fmt.Fprintf(out, "  Last save: %s\n", last)
	}
	fmt.Fprintf(out, "  Reminders: %d days, Feb 29 -> %s\n", cfg.Reminders.WindowDays, cfg.Reminders.LeapDay)
	fmt.Fprintln(out)
	return nil
}

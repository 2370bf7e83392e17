package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/steveyegge/contacts/internal/types"
)

var (
	birthdaysToday  string
	birthdaysWindow int
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print all contacts",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var birthdaysCmd = &cobra.Command{
	Use:   "birthdays",
	Short: "Show upcoming birthdays",
	Long: `Show contacts whose birthday falls within the reminder window.

Birthdays on a Saturday or Sunday are reported on the following Monday.

Example:
  contacts birthdays                      # next 7 days (or reminders.window_days)
  contacts birthdays --window 30
  contacts birthdays --today 10.06.2024`,
	Args: cobra.NoArgs,
	RunE: runBirthdays,
}

func init() {
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(birthdaysCmd)
	birthdaysCmd.Flags().StringVar(&birthdaysToday, "today", "", "Reference date DD.MM.YYYY (default: today)")
	birthdaysCmd.Flags().IntVar(&birthdaysWindow, "window", -1, "Days ahead to include (default: from config)")
}

func runList(cmd *cobra.Command, args []string) error {
	d, err := store.Load(commandContext(cmd))
	if err != nil {
		return fmt.Errorf("failed to load contacts: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), d.Render())
	return nil
}

func runBirthdays(cmd *cobra.Command, args []string) error {
	today := types.Today(time.Now())
	if birthdaysToday != "" {
		parsed, err := types.ParseDate(birthdaysToday)
		if err != nil {
			return fmt.Errorf("--today: %w", err)
		}
		today = parsed
	}

	opts := cfg.ReminderOptions()
	if birthdaysWindow >= 0 {
		if birthdaysWindow > 365 {
			return fmt.Errorf("--window must be between 0 and 365 (got %d)", birthdaysWindow)
		}
		opts.WindowDays = birthdaysWindow
	}

	d, err := store.Load(commandContext(cmd))
	if err != nil {
		return fmt.Errorf("failed to load contacts: %w", err)
	}

	out := cmd.OutOrStdout()
	upcoming := d.UpcomingBirthdaysWith(today, opts)
	if len(upcoming) == 0 {
		fmt.Fprintln(out, "No upcoming birthdays.")
		return nil
	}
	for _, reminder := range upcoming {
		fmt.Fprintln(out, reminder.String())
	}
	return nil
}

package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
	"go.uber.org/zap"

	"github.com/steveyegge/contacts/internal/book"
	"github.com/steveyegge/contacts/internal/storage"
	"github.com/steveyegge/contacts/internal/types"
)

// REPL represents the interactive shell
type REPL struct {
	store     storage.Storage
	dir       *book.Directory
	rl        *readline.Instance
	ctx       context.Context
	out       io.Writer
	logger    *zap.Logger
	now       func() time.Time
	reminders book.ReminderOptions
	history   string
	commands  map[string]CommandHandler
}

// CommandHandler handles a specific command
type CommandHandler func(args []string) error

// Config holds REPL configuration
type Config struct {
	Store storage.Storage

	// Directory is the session's data; when nil, Run loads it from Store
	Directory *book.Directory

	// Out receives command output (default: os.Stdout)
	Out io.Writer

	Logger *zap.Logger

	// Now supplies the clock for reminders (default: time.Now)
	Now func() time.Time

	Reminders book.ReminderOptions

	// HistoryFile persists readline history; empty keeps it in memory
	HistoryFile string
}

// New creates a new REPL instance
func New(cfg *Config) (*REPL, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("storage is required")
	}

	r := &REPL{
		store:     cfg.Store,
		dir:       cfg.Directory,
		ctx:       context.Background(),
		out:       cfg.Out,
		logger:    cfg.Logger,
		now:       cfg.Now,
		reminders: cfg.Reminders,
		history:   cfg.HistoryFile,
		commands:  make(map[string]CommandHandler),
	}
	if r.out == nil {
		r.out = os.Stdout
	}
	if r.logger == nil {
		r.logger = zap.NewNop()
	}
	if r.now == nil {
		r.now = time.Now
	}
	if r.reminders == (book.ReminderOptions{}) {
		r.reminders = book.DefaultReminderOptions()
	}

	// Register built-in commands
	r.registerCommands()

	return r, nil
}

// Directory returns the session's directory (nil before Run loads it).
func (r *REPL) Directory() *book.Directory {
	return r.dir
}

// Run loads the directory if needed, then reads commands until exit or EOF.
// The directory is saved on the way out.
func (r *REPL) Run(ctx context.Context) error {
	r.ctx = ctx

	if err := r.load(); err != nil {
		return err
	}

	// Create readline instance
	cyan := color.New(color.FgCyan).SprintFunc()
	prompt := cyan("contacts> ")

	rl, err := readline.NewEx(&readline.Config{
		Prompt:            prompt,
		HistoryFile:       r.history,
		AutoComplete:      newCompleter(r),
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
		Stdout:            r.out,
	})
	if err != nil {
		return fmt.Errorf("failed to create readline: %w", err)
	}
	defer rl.Close()

	r.rl = rl

	// Print welcome message
	r.printWelcome()

	return r.loop(rl.Readline)
}

// loop drives the shell from readLine. Ctrl+C shows the prompt again;
// Ctrl+D behaves like exit.
func (r *REPL) loop(readLine func() (string, error)) error {
	for {
		line, err := readLine()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				continue
			} else if errors.Is(err, io.EOF) {
				fmt.Fprintln(r.out)
				if err := r.cmdExit(nil); !errors.Is(err, errExit) {
					return err
				}
				return nil
			}
			return err
		}

		// Process the input
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if err := r.processInput(line); err != nil {
			if errors.Is(err, errExit) {
				return nil
			}
			red := color.New(color.FgRed).SprintFunc()
			fmt.Fprintf(r.out, "%s %v\n", red("Error:"), err)
		}
	}
}

// errExit is returned by the exit command once the directory is saved.
var errExit = errors.New("exit")

// processInput processes a single line of input
func (r *REPL) processInput(line string) error {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return nil
	}

	command := strings.ToLower(parts[0])
	args := parts[1:]

	handler, ok := r.commands[command]
	if !ok {
		yellow := color.New(color.FgYellow).SprintFunc()
		fmt.Fprintf(r.out, "%s Unknown command %q. Use 'help' for available commands.\n", yellow("Note:"), parts[0])
		return nil
	}

	r.logger.Debug("dispatching command", zap.String("command", command), zap.Int("args", len(args)))
	return handler(args)
}

// registerCommands registers all built-in commands
func (r *REPL) registerCommands() {
	r.commands["add"] = r.cmdAdd
	r.commands["change"] = r.cmdChange
	r.commands["edit-phone"] = r.cmdEditPhone
	r.commands["remove-phone"] = r.cmdRemovePhone
	r.commands["phone"] = r.cmdPhone
	r.commands["all"] = r.cmdAll
	r.commands["add-birthday"] = r.cmdAddBirthday
	r.commands["show-birthday"] = r.cmdShowBirthday
	r.commands["birthdays"] = r.cmdBirthdays
	r.commands["delete"] = r.cmdDelete
	r.commands["save"] = r.cmdSave
	r.commands["help"] = r.cmdHelp
	r.commands["?"] = r.cmdHelp
	r.commands["exit"] = r.cmdExit
	r.commands["close"] = r.cmdExit
	r.commands["quit"] = r.cmdExit
}

// load reads the directory from the store unless one was supplied.
func (r *REPL) load() error {
	if r.dir != nil {
		return nil
	}
	d, err := r.store.Load(r.ctx)
	if err != nil {
		return fmt.Errorf("failed to load contacts: %w", err)
	}
	r.dir = d
	r.logger.Debug("loaded contacts", zap.Int("contacts", d.Len()))
	return nil
}

// save persists the whole directory.
func (r *REPL) save() error {
	if err := r.store.Save(r.ctx, r.dir); err != nil {
		return fmt.Errorf("failed to save contacts: %w", err)
	}
	r.logger.Debug("saved contacts", zap.Int("contacts", r.dir.Len()))
	return nil
}

// today is the reminder reference date.
func (r *REPL) today() types.CalendarDate {
	return types.Today(r.now())
}

// printWelcome prints the welcome message
func (r *REPL) printWelcome() {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	fmt.Fprintf(r.out, "\n%s\n", cyan("Welcome to the contacts assistant!"))
	fmt.Fprintf(r.out, "%d contacts loaded.\n", r.dir.Len())
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, "Type 'help' for available commands, 'exit' to save and quit")
	fmt.Fprintln(r.out)
}

// cmdHelp shows help information
func (r *REPL) cmdHelp(args []string) error {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()

	fmt.Fprintf(r.out, "\n%s\n", cyan("Available Commands:"))
	fmt.Fprintln(r.out)

	commands := []struct {
		name string
		desc string
	}{
		{"add <name> <phone>", "Add a contact or another phone (10 digits)"},
		{"change <name> <old> <new>", "Replace a phone"},
		{"edit-phone <name> <old> <new>", "Replace a phone, failing if the old one is missing"},
		{"remove-phone <name> <phone>", "Remove a phone"},
		{"phone <name>", "Show all phones for a contact"},
		{"all", "Show all contacts"},
		{"add-birthday <name> <DD.MM.YYYY>", "Set a contact's birthday"},
		{"show-birthday <name>", "Show a contact's birthday"},
		{"birthdays", fmt.Sprintf("Show birthdays in the next %d days (weekends move to Monday)", r.reminders.WindowDays)},
		{"delete <name>", "Delete a contact"},
		{"save", "Save now"},
		{"help, ?", "Show this help message"},
		{"exit, close, quit", "Save and exit"},
	}

	for _, cmd := range commands {
		fmt.Fprintf(r.out, "  %-34s %s\n", green(cmd.name), cmd.desc)
	}
	fmt.Fprintln(r.out)

	return nil
}

// cmdExit saves and exits the REPL
func (r *REPL) cmdExit(args []string) error {
	if err := r.save(); err != nil {
		return err
	}
	green := color.New(color.FgGreen).SprintFunc()
	fmt.Fprintf(r.out, "%s Goodbye!\n", green("✓"))
	return errExit
}

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/steveyegge/contacts/internal/config"
	"github.com/steveyegge/contacts/internal/storage"
)

var (
	// Global flags
	dbPath     string
	backend    string
	configPath string
	verbose    bool

	// Set up by PersistentPreRunE
	cfg       *config.Config
	store     storage.Storage
	storePath string
	logger    *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "contacts",
	Short: "Contact directory with birthday reminders",
	Long: `contacts keeps names, phone numbers and birthdays in a local store
and reminds you of birthdays coming up in the next few days.

Run without arguments to start the interactive shell.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if store != nil {
			if err := store.Close(); err != nil {
				logger.Warn("failed to close store", zap.Error(err))
			}
			store = nil
		}
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runREPL,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Store path (default: auto-discover .contacts/ in the current directory)")
	rootCmd.PersistentFlags().StringVar(&backend, "backend", "", "Storage backend: sqlite or yaml (default: from config)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: .contacts/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// setup loads configuration, builds the logger and opens the store.
// init creates the store itself, so it stops after the logger.
func setup(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = loadConfig()
	if err != nil {
		return err
	}

	logger, err = newLogger(cfg.Log, verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if cmd.Name() == initCmd.Name() {
		return nil
	}

	return openStore(commandContext(cmd))
}

// loadConfig reads the config file, then applies environment variables and
// finally the command-line flags.
func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = storage.ConfigPath(cwd)
	}

	c, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", path, err)
	}
	if err := c.ApplyEnv(); err != nil {
		return nil, err
	}

	if backend != "" {
		c.Storage.Backend = backend
	}
	if dbPath != "" {
		c.Storage.Path = dbPath
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return c, nil
}

// openStore resolves the store path and opens the configured backend.
func openStore(ctx context.Context) error {
	path := cfg.Storage.Path
	if path == "" {
		discovered, err := storage.DiscoverPath(cfg.Storage.Backend)
		if err != nil {
			return fmt.Errorf("failed to locate store: %w", err)
		}
		path = discovered
	}

	s, err := storage.NewStorage(ctx, cfg.StorageConfig(path))
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}

	store = s
	storePath = path
	logger.Debug("opened store",
		zap.String("backend", cfg.Storage.Backend),
		zap.String("path", path))
	return nil
}

// newLogger builds a production logger at the configured level. Verbose
// mode forces debug.
func newLogger(lc config.LogConfig, verbose bool) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()

	level, err := zapcore.ParseLevel(lc.Level)
	if err != nil {
		return nil, err
	}
	if verbose {
		level = zapcore.DebugLevel
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	if lc.File != "" {
		zc.OutputPaths = []string{lc.File}
	}

	return zc.Build()
}

// commandContext returns the command's context, which is nil when a
// command function is called directly.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

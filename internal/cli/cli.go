package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/spancal/pkg/buildinfo"
	"github.com/matzehuels/spancal/pkg/errors"
	"github.com/matzehuels/spancal/pkg/monitor"
	"github.com/matzehuels/spancal/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "spancal"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Global flags, applied on top of the config file.
	configPath   string
	monitorsPath string
	storeBackend string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Spancal calibrates the physical layout of a multi-monitor desktop",
		Long:         `Spancal walks you through lining up reference lines across each pair of monitors, derives relative scale, offset and bezel gap, and reconstructs where your displays physically sit so the layout can be exported to wallpaper-spanning tools.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/spancal/config.toml)")
	flags.StringVar(&c.monitorsPath, "monitors", "", "monitor fixture file (.toml or .json)")
	flags.StringVar(&c.storeBackend, "store", "", "run store backend: file, sqlite, redis, mongo or none")

	root.AddCommand(c.monitorsCommand())
	root.AddCommand(c.planCommand())
	root.AddCommand(c.calibrateCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.runsCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Shared Helpers
// =============================================================================

// loadConfig reads the config file and applies the global flags.
func (c *CLI) loadConfig() (Config, error) {
	path, required := c.configPath, c.configPath != ""
	if !required {
		dir, err := configDir()
		if err != nil {
			c.Logger.Debug("no config directory", "err", err)
			return c.applyFlags(defaultConfig()), nil
		}
		path = filepath.Join(dir, "config.toml")
	}

	cfg, err := readConfig(path, required)
	if err != nil {
		return Config{}, err
	}
	c.Logger.Debug("loaded config", "path", path, "store", cfg.Store.Backend)
	return c.applyFlags(cfg), nil
}

func (c *CLI) applyFlags(cfg Config) Config {
	if c.monitorsPath != "" {
		cfg.Monitors = c.monitorsPath
	}
	if c.storeBackend != "" {
		cfg.Store.Backend = c.storeBackend
	}
	return cfg
}

// loadMonitors reads the monitor fixture with size overrides applied.
func (c *CLI) loadMonitors(ctx context.Context, cfg Config) ([]monitor.Monitor, error) {
	if cfg.Monitors == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"no monitor fixture: pass --monitors or set monitors in the config file")
	}
	overrides, err := monitor.LoadOverrides(cfg.Overrides)
	if err != nil {
		return nil, err
	}

	src := monitor.FileSource{Path: cfg.Monitors, Overrides: overrides}
	ms, err := src.Monitors(ctx)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("loaded monitors", "path", cfg.Monitors, "count", len(ms), "overrides", len(overrides))
	return ms, nil
}

func (c *CLI) openStore(ctx context.Context, cfg Config) (store.Store, error) {
	if remote(cfg.Store.Backend) {
		sp := startSpinner(ctx, os.Stderr, "Connecting to "+cfg.Store.Backend+" store...")
		defer sp.stop()
	}
	s, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("opened run store", "backend", cfg.Store.Backend)
	return s, nil
}

func remote(backend string) bool {
	return backend == store.BackendRedis || backend == store.BackendMongo
}

// latestRun is accepted wherever a run ID is.
const latestRun = "latest"

// loadRun returns the run named by args[0], or the latest run.
func loadRun(ctx context.Context, s store.Store, args []string) (*store.Run, error) {
	if len(args) == 0 || args[0] == latestRun {
		return s.Latest(ctx)
	}
	if err := errors.ValidateRunID(args[0]); err != nil {
		return nil, err
	}
	return s.Get(ctx, args[0])
}

// withRun opens the configured store, loads the requested run and calls fn.
func (c *CLI) withRun(ctx context.Context, args []string, fn func(*store.Run) error) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	s, err := c.openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	run, err := loadRun(ctx, s, args)
	if err != nil {
		return err
	}
	c.Logger.Debug("loaded run", "id", run.ID, "monitors", len(run.Monitors), "results", len(run.Results))
	return fn(run)
}

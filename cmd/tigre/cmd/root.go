package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/tigre/analyzer"
	"github.com/rustyeddy/tigre/config"
	"github.com/rustyeddy/tigre/internal/logging"
	"github.com/rustyeddy/tigre/journal"
	"github.com/rustyeddy/tigre/metrics"
	"github.com/rustyeddy/tigre/patterns"
)

var rootCmd = &cobra.Command{
	Use:   "tigre",
	Short: "Dragon Tiger pattern tracker",
	Long: `Tigre records Dragon Tiger outcomes as they happen, matches the recent
history against a catalog of streak patterns and suggests the next side.

Every suggestion is kept as a signal and scored against the following
outcome, so the session keeps a running hit rate.

Outcomes are written as d (dragon), t (tiger) or e (tie).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd)
	},
}

var (
	cfgPath  string
	dbPath   string
	logLevel string

	cfg    *config.Config
	logger zerolog.Logger

	// store is the store behind the last opened analyzer.
	store analyzer.Store
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "config file (YAML or JSON)")
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "state store path (overrides store.path)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error")
}

// setup resolves configuration in order: defaults, config file, .env and
// environment, then flags.
func setup(cmd *cobra.Command) error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("load .env: %w", err)
	}

	c := config.Default()
	if cfgPath != "" {
		var err error
		if c, err = config.LoadFromFile(cfgPath); err != nil {
			return err
		}
	}
	if err := c.ApplyEnv(); err != nil {
		return err
	}
	if dbPath != "" {
		c.Store.Path = dbPath
	}
	if logLevel != "" {
		c.Log.Level = logLevel
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	cfg = c
	logger = logging.New(c.Log.Level, cmd.ErrOrStderr(), c.Log.Console)
	return nil
}

// openStore returns the configured store and a function releasing it.
func openStore(c *config.Config) (analyzer.Store, func() error, error) {
	noop := func() error { return nil }

	switch c.Store.Type {
	case "sqlite":
		s, err := journal.NewSQLite(c.Store.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("open store: %w", err)
		}
		return s, s.Close, nil
	case "file":
		s, err := journal.NewFile(c.Store.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("open store: %w", err)
		}
		return s, noop, nil
	case "memory":
		return journal.NewMemory(), noop, nil
	}
	return nil, nil, fmt.Errorf("unknown store type %q", c.Store.Type)
}

// openAnalyzer loads the session named by the configuration.
func openAnalyzer(cmd *cobra.Command) (*analyzer.Analyzer, func() error, error) {
	s, closer, err := openStore(cfg)
	if err != nil {
		return nil, nil, err
	}
	store = s

	a, err := analyzer.New(s,
		analyzer.WithMatcher(patterns.NewMatcher(cfg.Matcher.MatcherOptions()...)),
		analyzer.WithLogger(logger),
		analyzer.WithObserver(metrics.Observer{}),
	)
	if err != nil {
		_ = closer()
		return nil, nil, err
	}
	if w := a.Warning(); w != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", w)
	}
	return a, closer, nil
}

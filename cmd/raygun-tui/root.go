package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/raygun/raygun-tui/internal/board"
	"github.com/raygun/raygun-tui/internal/config"
	"github.com/raygun/raygun-tui/internal/experiment"
	"github.com/raygun/raygun-tui/internal/journal"
	"github.com/raygun/raygun-tui/internal/logging"
	"github.com/raygun/raygun-tui/internal/store"
	"github.com/raygun/raygun-tui/internal/tui"
)

// app holds what every command shares once flags are parsed
type app struct {
	configPath string
	verbose    bool
	debug      bool

	cfg    *config.Config
	logger *logging.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "raygun-tui",
		Short: "Walk through the RAYGUN experiment in your terminal",
		Long: `RAYGUN takes a task that feels like a grind, interrupts the way you
are framing it with a short breathing exercise, and helps you design a
small experiment to try instead.

Progress is saved as you go. Come back within a day to pick up where
you left off.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.teardown()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTUI()
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "Config file (default .raygun/config.yaml, then ~/.raygun/config.yaml)")
	flags.String("store", "", "Session store: file, sqlite or memory")
	flags.String("data-dir", "", "Directory for the session, journal and log (default ~/.raygun)")
	flags.String("pattern", "", "Breathing pattern: "+patternList())
	flags.Bool("reduced-motion", false, "Show breathing captions instead of the animated circle")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "Log at debug level")
	cmd.Flags().BoolVar(&a.debug, "debug", false, "Open with the debug panel visible")

	cmd.AddCommand(
		a.newStatusCmd(),
		a.newResetCmd(),
		a.newHistoryCmd(),
		newPatternsCmd(),
		a.newConfigCmd(),
	)
	return cmd
}

// setup loads config and applies any flags the user set
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	var o config.Overrides
	flags := cmd.Flags()
	if flags.Changed("store") {
		v, _ := flags.GetString("store")
		o.Store = &v
	}
	if flags.Changed("data-dir") {
		v, _ := flags.GetString("data-dir")
		o.DataDir = &v
	}
	if flags.Changed("pattern") {
		v, _ := flags.GetString("pattern")
		o.Pattern = &v
	}
	if flags.Changed("reduced-motion") {
		v, _ := flags.GetBool("reduced-motion")
		o.ReducedMotion = &v
	}
	if a.verbose {
		level := "debug"
		o.LogLevel = &level
	}
	if err := cfg.Apply(o); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}
	a.cfg = cfg

	logFile, err := cfg.LogFile()
	if err != nil {
		return err
	}
	logCfg := logging.DefaultConfig()
	logCfg.Level = cfg.LogLevel
	logCfg.File = logFile
	logCfg.Development = a.verbose
	logger, err := logging.New(logCfg)
	if err != nil {
		return fmt.Errorf("failed to start logging: %w", err)
	}
	a.logger = logger

	logger.Debug("config loaded",
		zap.String("source", cfg.Source()),
		zap.String("store", string(cfg.Store)),
		zap.String("pattern", cfg.Breathing.Pattern))
	return nil
}

func (a *app) teardown() {
	if a.logger != nil {
		_ = a.logger.Close()
	}
}

func (a *app) openStore() (store.Store, error) {
	dir, err := a.cfg.ResolvedDataDir()
	if err != nil {
		return nil, err
	}
	s, err := store.Open(a.cfg.Store, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", a.cfg.Store, err)
	}
	return s, nil
}

// openJournal returns nil when the journal cannot be opened; the flow runs without it
func (a *app) openJournal() *journal.Journal {
	dir, err := a.cfg.ResolvedDataDir()
	if err != nil {
		a.logger.Warn("journal disabled", zap.Error(err))
		return nil
	}
	j, err := journal.Open(dir)
	if err != nil {
		a.logger.Warn("journal disabled", zap.Error(err))
		return nil
	}
	return j
}

func (a *app) timings() experiment.Timings {
	return experiment.Timings{
		FrameFeedbackDelay:  a.cfg.Timings.FrameFeedback,
		InterruptStartDelay: a.cfg.Timings.InterruptStart,
		FreshnessWindow:     a.cfg.Timings.Freshness,
	}
}

func (a *app) runTUI() error {
	st, err := a.openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	j := a.openJournal()
	defer j.Close()

	run, err := a.cfg.BreathingRun()
	if err != nil {
		return err
	}

	b := board.New()
	ctrl := experiment.New(experiment.Options{
		Store:     st,
		View:      b,
		Breathing: run,
		Timings:   a.timings(),
		Journal:   j,
		Logger:    a.logger.Logger,
	})
	defer ctrl.Close()
	ctrl.Init()

	a.logger.Info("starting tui",
		zap.String("run", j.RunID()),
		zap.String("state", string(ctrl.State())))

	p := tea.NewProgram(
		tui.NewRootModel(tui.Options{
			Experiment:    ctrl,
			Board:         b,
			ReducedMotion: run.ReducedMotion,
			Log:           a.logger.Ring,
			Debug:         a.debug,
			Logger:        a.logger.Logger,
		}),
		tea.WithAltScreen(),
	)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}

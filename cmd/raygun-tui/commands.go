package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/raygun/raygun-tui/internal/breathing"
	"github.com/raygun/raygun-tui/internal/config"
	"github.com/raygun/raygun-tui/internal/journal"
	"github.com/raygun/raygun-tui/internal/model"
)

const commandTimeout = 5 * time.Second

func patternList() string {
	return strings.Join(append(breathing.PatternNames(), config.CustomPattern), ", ")
}

func (a *app) newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the saved session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			sess, ok, err := st.Load(ctx)
			if err != nil {
				return fmt.Errorf("failed to load session: %w", err)
			}
			out := cmd.OutOrStdout()
			if !ok {
				fmt.Fprintln(out, "No saved session.")
				return nil
			}

			fresh := sess.FreshAt(time.Now(), a.cfg.Timings.Freshness)
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "State:\t%s %s\n", sess.CurrentState.Icon(), sess.CurrentState)
			if !sess.Timestamp.IsZero() {
				fmt.Fprintf(w, "Saved:\t%s\n", sess.Timestamp.Local().Format(time.RFC1123))
			}
			fmt.Fprintf(w, "Resumable:\t%s\n", yesNo(fresh && sess.CurrentState.Valid()))
			for _, row := range []struct{ label, value string }{
				{"Grind", sess.GrindTask},
				{"Frame", model.FrameChoice(sess.FrameChoice).Label()},
				{"Constraint", sess.Constraint},
				{"Experiment", sess.Experiment},
				{"Branch", string(sess.Branch)},
				{"Reflection", string(sess.Reflection)},
			} {
				if row.value != "" {
					fmt.Fprintf(w, "%s:\t%s\n", row.label, row.value)
				}
			}
			return w.Flush()
		},
	}
}

func (a *app) newResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Discard the saved session and start over next time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			from := model.InitialState
			if sess, ok, err := st.Load(ctx); err == nil && ok && sess.CurrentState.Valid() {
				from = sess.CurrentState
			}
			if err := st.Clear(ctx); err != nil {
				return fmt.Errorf("failed to clear session: %w", err)
			}

			j := a.openJournal()
			j.Record(from, model.InitialState, journal.TriggerReset)
			_ = j.Close()

			a.logger.Info("session cleared", zap.String("from", string(from)))
			fmt.Fprintln(cmd.OutOrStdout(), "Session cleared.")
			return nil
		},
	}
}

func (a *app) newHistoryCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded transitions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := a.cfg.ResolvedDataDir()
			if err != nil {
				return err
			}
			entries, err := journal.Read(filepath.Join(dir, journal.FileName))
			if err != nil {
				return fmt.Errorf("failed to read journal: %w", err)
			}
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No transitions recorded.")
				return nil
			}
			if limit > 0 && len(entries) > limit {
				entries = entries[len(entries)-limit:]
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "SEQ\tTIME\tFROM\tTO\tTRIGGER")
			for _, e := range entries {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s %s\t%s\n", e.Seq, e.Timestamp, e.From, e.To.Icon(), e.To, e.Trigger)
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Show only the most recent entries (0 for all)")
	return cmd
}

func newPatternsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "patterns",
		Short: "List the breathing patterns",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tCYCLE\tPHASES")
			for _, name := range breathing.PatternNames() {
				p, _ := breathing.PatternByName(name)
				var phases []string
				for _, ph := range p {
					phases = append(phases, fmt.Sprintf("%s %s", ph.Name, ph.Duration))
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", name, p.CycleDuration(), strings.Join(phases, ", "))
			}
			return w.Flush()
		},
	}
}

func (a *app) newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or write configuration",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := a.cfg.Marshal()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if src := a.cfg.Source(); src != "" {
				fmt.Fprintf(out, "# loaded from %s\n", src)
			} else {
				fmt.Fprintln(out, "# defaults")
			}
			_, err = out.Write(data)
			return err
		},
	}

	var global bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the effective configuration to a config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			save := config.SaveToProject
			if global {
				save = config.SaveToGlobal
			}
			path, err := save(a.cfg)
			if err != nil {
				return fmt.Errorf("failed to write config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&global, "global", false, "Write to ~/.raygun/config.yaml instead of .raygun/config.yaml")

	cmd.AddCommand(show, initCmd)
	return cmd
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

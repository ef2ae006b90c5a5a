// Command generate builds the ranked draft board once and writes the artifact.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	service "github.com/okian/draftrank/internal/app"
	"github.com/okian/draftrank/internal/config"
	"github.com/okian/draftrank/pkg/logger"
)

type flags struct {
	configPath string
	rosterPath string
	outputPath string
	season     string
	logLevel   string
	logFormat  string
	top        int
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var f flags
	cmd := &cobra.Command{
		Use:          "generate",
		Short:        "Generate the ranked draft board from the player database and season projections",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerate(cmd, f)
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&f.configPath, "config", "", "YAML config file (defaults to $DRAFTRANK_CONFIG)")
	fl.StringVar(&f.rosterPath, "roster", "", "player database file")
	fl.StringVar(&f.outputPath, "output", "", "rankings artifact path")
	fl.StringVar(&f.season, "season", "", "projection season, e.g. 2024")
	fl.StringVar(&f.logLevel, "log-level", "", "debug, info, warn or error")
	fl.StringVar(&f.logFormat, "log-format", "", "text or json")
	fl.IntVar(&f.top, "top", 0, "print the first N ranked players")
	return cmd
}

func runGenerate(cmd *cobra.Command, f flags) error {
	ctx := cmd.Context()

	path := f.configPath
	if path == "" {
		path = os.Getenv("DRAFTRANK_CONFIG")
	}
	cfg, err := config.LoadFile(ctx, path)
	if err != nil {
		return err
	}
	applyFlags(cmd, cfg, f)
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Logs go to stderr so stdout carries only the summary.
	if err := logger.Init(logger.WithFormat(cfg.LogFormat), logger.WithWriter(cmd.ErrOrStderr())); err != nil {
		return err
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		return fmt.Errorf("%w: log_level %q", config.ErrInvalidConfig, cfg.LogLevel)
	}

	svc := service.FromConfig(cfg, logger.Get())
	report, err := svc.Generate(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Processed %d players with %d projections (season %s).\n", report.Considered, report.ProjectionCount, report.Season)
	if report.ProjectionSeason != "" && report.ProjectionSeason != report.Season {
		fmt.Fprintf(out, "Used projections from season %s.\n", report.ProjectionSeason)
	}
	fmt.Fprintf(out, "Generated rankings for %d players (%d estimated).\n", report.Ranked, report.Estimated)
	fmt.Fprintf(out, "Saved to %s\n", report.OutputPath)

	if f.top > 0 {
		top, err := svc.TopN(ctx, f.top, "")
		if err != nil {
			return err
		}
		for _, e := range top {
			fmt.Fprintf(out, "%4d  T%-2d %-3s %-4s %-28s %7.1f\n", e.Rank, e.Tier, e.Position, e.Team, e.Name, e.ProjectedPoints)
		}
	}
	return nil
}

// applyFlags overrides cfg with the flags set on the command line.
func applyFlags(cmd *cobra.Command, cfg *config.Config, f flags) {
	set := cmd.Flags().Changed
	if set("roster") {
		cfg.RosterPath = f.rosterPath
	}
	if set("output") {
		cfg.OutputPath = f.outputPath
	}
	if set("season") {
		cfg.Season = f.season
	}
	if set("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if set("log-format") {
		cfg.LogFormat = f.logFormat
	}
}

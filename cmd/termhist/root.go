package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/Adithya-Monish-Kumar-K/termhist/internal/analytics"
	"github.com/Adithya-Monish-Kumar-K/termhist/internal/histogram"
	"github.com/Adithya-Monish-Kumar-K/termhist/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/termhist/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/termhist/internal/indexer/tokenizer"
	"github.com/Adithya-Monish-Kumar-K/termhist/internal/report"
	"github.com/Adithya-Monish-Kumar-K/termhist/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/termhist/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/termhist/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/termhist/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/termhist/pkg/terminal"
	"github.com/Adithya-Monish-Kumar-K/termhist/pkg/tracing"
)

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	cfg := config.Default()

	cmd := &cobra.Command{
		Use:           "termhist [flags] [path...]",
		Short:         "Histogram the most frequent terms in a directory tree",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				cfg.Scan.Roots = args
			}
			return run(cmd.Context(), cfg, stdout, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return apperrors.New(apperrors.ErrInvalidInput, apperrors.ExitUsage, err.Error())
	})

	flags := cmd.Flags()
	flags.StringVarP(&cfg.Scan.Pattern, "pattern", "p", cfg.Scan.Pattern, "term pattern; capture group 1 is counted when present")
	flags.StringVarP(&cfg.Scan.Exclude, "exclude", "x", "", "drop terms matching this pattern")
	flags.IntVarP(&cfg.Display.Count, "count", "n", 0, "ranked rows per histogram (default: fill the terminal)")
	flags.StringVarP(&cfg.Display.Style, "style", "s", cfg.Display.Style, "layout: stacked|vert, tabular|hori, grid")
	flags.StringVarP(&cfg.Display.Output, "output", "o", cfg.Display.Output, "output format: text, json, yaml")
	flags.DurationVar(&cfg.Scan.MatchTimeout, "match-timeout", cfg.Scan.MatchTimeout, "give up on a file whose pattern match runs longer (0 disables)")
	flags.IntVarP(&cfg.Scan.Threads, "threads", "j", cfg.Scan.Threads, "files scanned concurrently")
	flags.BoolVar(&cfg.Scan.Hidden, "hidden", false, "include hidden files and directories")
	flags.BoolVar(&cfg.Scan.NoIgnore, "no-ignore", false, "do not honor .gitignore and .ignore files")
	flags.IntVar(&cfg.Display.Width, "width", 0, "override the detected terminal width")
	flags.IntVar(&cfg.Display.Height, "height", 0, "override the detected terminal height")
	flags.StringVar(&cfg.Logging.Level, "log-level", cfg.Logging.Level, "debug, info, warn or error")
	flags.StringVar(&cfg.Logging.Format, "log-format", cfg.Logging.Format, "text or json")
	flags.BoolVar(&cfg.Metrics.Enabled, "metrics", false, "dump Prometheus metrics to stderr after the run")

	return cmd
}

// execute runs the command and maps its outcome to a process exit code.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "termhist: %v\n", err)
		return apperrors.ExitCode(err)
	}
	return apperrors.ExitOK
}

func run(ctx context.Context, cfg *config.Config, stdout, stderr io.Writer) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	style, err := histogram.ParseStyle(cfg.Display.Style)
	if err != nil {
		return err
	}

	logger.Setup(stderr, cfg.Logging.Level, cfg.Logging.Format)
	runID := uuid.NewString()
	ctx = logger.WithRunID(ctx, runID)
	log := logger.FromContext(ctx)

	matcher, err := tokenizer.New(cfg.Scan.Pattern, cfg.Scan.Exclude,
		tokenizer.WithMatchTimeout(cfg.Scan.MatchTimeout))
	if err != nil {
		return err
	}

	m := metrics.New()
	stats := analytics.NewAggregator()
	engine := indexer.NewEngine(cfg.Scan, matcher, m, stats)

	ctx, span := tracing.StartRun(ctx, runID, m)
	scanCtx, scanSpan := tracing.StartPhase(ctx, "scan")
	store, err := engine.Run(scanCtx)
	scanSpan.End()
	if err != nil {
		span.End()
		return err
	}
	summary := stats.Stats()
	scanSpan.SetAttr("files_scanned", summary.FilesScanned)
	scanSpan.SetAttr("files_skipped", summary.FilesSkipped)
	scanSpan.SetAttr("directories", store.Directories())
	scanSpan.SetAttr("interned_terms", index.Interned())

	_, renderSpan := tracing.StartPhase(ctx, "render")
	renderSpan.SetAttr("output", cfg.Display.Output)
	switch cfg.Display.Output {
	case "text":
		var panels int
		panels, err = renderText(stdout, store, cfg.Display, style)
		renderSpan.SetAttr("style", style.String())
		renderSpan.SetAttr("panels", panels)
	default:
		r := report.Build(store, summary, cfg.Display.Count)
		r.RunID = runID
		r.Pattern = cfg.Scan.Pattern
		r.Phases = span.Phases()
		renderSpan.SetAttr("roots", len(r.Roots))
		err = r.Write(stdout, cfg.Display.Output)
	}
	renderSpan.End()
	span.End()
	span.Log(log)
	if err != nil {
		return fmt.Errorf("rendering output: %w", err)
	}

	stats.LogSummary(log)
	if cfg.Metrics.Enabled {
		if err := m.WriteText(stderr); err != nil {
			log.Warn("failed to write metrics", "error", err)
		}
	}
	return nil
}

// renderText composes one panel per root and returns how many it wrote.
func renderText(w io.Writer, store *index.SessionStore, display config.DisplayConfig, style histogram.Style) (int, error) {
	size := terminal.Size{Width: terminal.FallbackWidth, Height: terminal.FallbackHeight}
	if f, ok := w.(*os.File); ok {
		size = terminal.Detect(f)
	}
	size = size.Override(display.Width, display.Height)

	_, capped := display.RowCap()
	layout := histogram.Layout{
		Style:  style,
		Width:  size.Width,
		Height: size.Height,
		Capped: capped,
	}
	maxLines := layout.MaxLines(display.Count)

	entries := store.RootEntries()
	panels := make([]histogram.Panel, 0, len(entries))
	for _, entry := range entries {
		panels = append(panels, histogram.RenderEntry(entry, maxLines))
	}
	return len(panels), layout.Compose(w, panels)
}

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"lector/internal/checker"
	"lector/internal/config"
	"lector/internal/driver"
	"lector/internal/fsource"
	"lector/internal/observ"
	"lector/internal/prof"
	"lector/internal/report"
)

type globalFlags struct {
	configPath string
	color      bool
	quiet      bool
	timings    bool
	jobs       int
	ui         uiMode
	format     string
	pathMode   report.PathMode
	profile    prof.Options
}

func readGlobalFlags(cmd *cobra.Command) (globalFlags, error) {
	var g globalFlags
	flags := cmd.Root().PersistentFlags()

	var err error
	if g.configPath, err = flags.GetString("config"); err != nil {
		return g, fmt.Errorf("failed to get config flag: %w", err)
	}
	colorStr, err := flags.GetString("color")
	if err != nil {
		return g, fmt.Errorf("failed to get color flag: %w", err)
	}
	if g.color, err = resolveColor(colorStr, isTerminal(os.Stdout)); err != nil {
		return g, err
	}
	if g.quiet, err = flags.GetBool("quiet"); err != nil {
		return g, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if g.timings, err = flags.GetBool("timings"); err != nil {
		return g, fmt.Errorf("failed to get timings flag: %w", err)
	}
	if g.jobs, err = flags.GetInt("jobs"); err != nil {
		return g, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	if g.jobs < 0 {
		return g, fmt.Errorf("--jobs must not be negative")
	}
	uiStr, err := flags.GetString("ui")
	if err != nil {
		return g, fmt.Errorf("failed to get ui flag: %w", err)
	}
	if g.ui, err = readUIMode(uiStr); err != nil {
		return g, err
	}
	if g.format, err = flags.GetString("format"); err != nil {
		return g, fmt.Errorf("failed to get format flag: %w", err)
	}
	g.format = strings.ToLower(g.format)
	if g.format != "pretty" && g.format != "json" {
		return g, fmt.Errorf("unsupported format %q (must be pretty or json)", g.format)
	}
	pm, err := flags.GetString("path-mode")
	if err != nil {
		return g, fmt.Errorf("failed to get path-mode flag: %w", err)
	}
	var ok bool
	if g.pathMode, ok = report.ParsePathMode(pm); !ok {
		return g, fmt.Errorf("invalid --path-mode value %q", pm)
	}
	if g.profile.CPU, err = flags.GetString("cpuprofile"); err != nil {
		return g, fmt.Errorf("failed to get cpuprofile flag: %w", err)
	}
	if g.profile.Mem, err = flags.GetString("memprofile"); err != nil {
		return g, fmt.Errorf("failed to get memprofile flag: %w", err)
	}
	if g.profile.Trace, err = flags.GetString("exec-trace"); err != nil {
		return g, fmt.Errorf("failed to get exec-trace flag: %w", err)
	}
	return g, nil
}

func resolveColor(value string, tty bool) (bool, error) {
	switch strings.ToLower(value) {
	case "", "auto":
		return tty && os.Getenv("NO_COLOR") == "", nil
	case "on", "always":
		return true, nil
	case "off", "never":
		return false, nil
	}
	return false, fmt.Errorf("invalid --color value %q (expected auto|on|off)", value)
}

// buildOptions merges the config file with the command flags.
func buildOptions(cmd *cobra.Command, cfg *config.Config, g globalFlags, mode driver.Mode) driver.Options {
	opts := driver.DefaultOptions()
	opts.Mode = mode
	opts.Jobs = cfg.Run.Jobs
	if g.jobs > 0 {
		opts.Jobs = g.jobs
	}
	opts.Extract = cfg.LexerOptions()
	if dev, _ := cmd.Flags().GetBool("dev-comments"); dev {
		opts.Extract.DevComments = true
	}
	opts.Reflow = cfg.ReflowConfig()
	if w, err := cmd.Flags().GetInt("max-width"); err == nil && w > 0 {
		opts.Reflow.MaxWidth = w
	}
	if dry, err := cmd.Flags().GetBool("dry-run"); err == nil {
		opts.DryRun = dry
	}
	if names, err := cmd.Flags().GetStringSlice("checkers"); err == nil && len(names) > 0 {
		cfg.Checkers.Enabled = names
	}
	if noCache, err := cmd.Flags().GetBool("no-cache"); err == nil && noCache {
		cfg.Cache.Disabled = true
	}
	return opts
}

func runLector(cmd *cobra.Command, args []string, mode driver.Mode) error {
	defer dumpTraceOnPanic()

	g, err := readGlobalFlags(cmd)
	if err != nil {
		return err
	}
	if g.profile.Enabled() {
		session, err := prof.Start(g.profile)
		if err != nil {
			return err
		}
		defer func() {
			if err := session.Stop(); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "profile: %v\n", err)
			}
		}()
	}
	var timer *observ.Timer
	if g.timings {
		timer = observ.NewTimer()
	}
	cfgPhase := beginPhase(timer, "config")
	cfg, err := config.Discover(g.configPath, ".")
	if err != nil {
		return err
	}
	opts := buildOptions(cmd, cfg, g, mode)
	opts.Timer = timer
	if mode != driver.ModeReflow {
		cc, err := cfg.CheckerConfig()
		if err != nil {
			return err
		}
		if drop, _ := cmd.Flags().GetBool("clear-cache"); drop {
			cc.Cache.Clear = true
		}
		checkers, err := checker.NewContext(cc)
		if err != nil {
			return err
		}
		defer func() { _ = checkers.Close() }()
		opts.Checkers = checkers
	}
	endPhase(timer, cfgPhase, cfg.Path)

	paths := args
	if len(paths) == 0 {
		paths = []string{"."}
	}
	listPhase := beginPhase(timer, "collect")
	files, err := driver.ListFiles(paths, driver.DefaultExtensions)
	if err != nil {
		return err
	}
	endPhase(timer, listPhase, fmt.Sprintf("%d files", len(files)))

	cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, stop := driver.WatchSignals(cmd.Context())
	defer stop()

	runPhase := beginPhase(timer, mode.String())
	var res *driver.Result
	var runErr error
	if !g.quiet && g.format == "pretty" && shouldUseTUI(g.ui) && len(files) > 1 {
		res, runErr = runWithUI(ctx, mode.String(), files, opts)
	} else {
		res, runErr = driver.Run(ctx, files, fsource.Disk{}, opts)
	}
	endPhase(timer, runPhase, "")
	if res == nil {
		return runErr
	}

	out := cmd.OutOrStdout()
	if err := render(out, res, g); err != nil {
		return err
	}
	if g.timings {
		printTimings(cmd.ErrOrStderr(), timer.Report())
	}
	if runErr != nil {
		if errors.Is(runErr, context.Canceled) {
			return fmt.Errorf("interrupted, %d file(s) not processed", res.Count(driver.OutcomeCancelled))
		}
		return runErr
	}
	if res.ExitCode() != 0 {
		return errFindings
	}
	return nil
}

func render(out io.Writer, res *driver.Result, g globalFlags) error {
	if g.format == "json" {
		return report.JSON(out, res, report.JSONOpts{
			PathMode:  g.pathMode,
			Positions: true,
			Patches:   res.DryRun,
		})
	}
	popts := report.DefaultPrettyOpts()
	popts.Color = g.color
	popts.PathMode = g.pathMode
	if err := report.Pretty(out, res.Files, popts); err != nil {
		return err
	}
	if res.DryRun {
		if err := report.Patches(out, res.Files, popts); err != nil {
			return err
		}
	}
	if g.quiet {
		return nil
	}
	return report.Summary(out, res, popts)
}

func beginPhase(t *observ.Timer, name string) int {
	if t == nil {
		return -1
	}
	return t.Begin(name)
}

func endPhase(t *observ.Timer, idx int, note string) {
	if t != nil {
		t.End(idx, note)
	}
}

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"tsalias/config"
	"tsalias/entities"
	"tsalias/expander"
	"tsalias/rewriter"
	"tsalias/watch"
)

const usage = "Usage: tsalias <file1> [file2] [...] [--configPath=path/to/tsconfig.json] [--write]"

const (
	exitOK       = 0
	exitFailure  = 1
	exitFileErrs = 2
)

// exitError carries a process exit code out of a command.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// execute runs the CLI and returns the process exit code.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return exitOK
	}

	var exitErr *exitError
	if errors.As(err, &exitErr) {
		return exitErr.code
	}

	fmt.Fprintf(stderr, "Error: %v\n", err)
	return exitFailure
}

func newRootCommand() *cobra.Command {
	cfg := config.New()

	cmd := &cobra.Command{
		Use:   "tsalias [flags] <file|dir/|glob>...",
		Short: "Rewrite relative imports into tsconfig path aliases",
		Long: `tsalias rewrites relative imports that point inside a compilerOptions.paths
target into their alias form, e.g. '../components/Button' becomes
'@/components/Button'.

Without --write it only reports the files that need fixing and exits 1 if
there are any.

Examples:
  tsalias .
  tsalias src/ --write
  tsalias 'src/**/*.tsx' --configPath=apps/web/tsconfig.json --diff
`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.Patterns = args
			return run(cmd, cfg)
		},
	}

	cfg.BindFlags(cmd.Flags())

	return cmd
}

func run(cmd *cobra.Command, cfg *config.Config) error {
	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()

	if len(cfg.Patterns) == 0 {
		fmt.Fprintln(stderr, usage)
		return &exitError{code: exitFailure}
	}

	if cfg.NoColor {
		color.NoColor = true //nolint:reassign // intentional override of library global
	}
	cfg.NormalizeExtensions()
	logger := newLogger(stderr, cfg.Verbose)

	files, err := expander.Expand(cfg.Patterns, expander.Options{
		Extensions:       cfg.Extensions,
		RespectGitignore: cfg.RespectGitignore,
	})
	if err != nil {
		return err
	}
	logger.Debug("expanded patterns", slog.Int("files", len(files)))

	opts := rewriter.Options{
		CheckOnly:     cfg.CheckOnly(),
		KeepGoing:     cfg.KeepGoing,
		SkipGenerated: cfg.SkipGenerated,
		Logger:        logger,
	}
	if cfg.Diff {
		opts.OnChange = func(path, before, after string) {
			printDiff(stdout, path, before, after)
		}
	}

	summary, err := rewriter.ProcessFiles(files, cfg.ConfigPath, opts)
	if err != nil {
		return err
	}

	code := printSummary(stdout, stderr, summary, cfg.CheckOnly())

	if cfg.Watch {
		err = watchFiles(cmd.Context(), files, cfg, opts, stdout)
		if err != nil {
			return err
		}
	}

	// The exit code reflects the initial pass, watch or not.
	if code != exitOK {
		return &exitError{code: code}
	}
	return nil
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// printSummary reports the batch result and returns the exit code it implies.
func printSummary(stdout, stderr io.Writer, summary entities.Summary, checkOnly bool) int {
	code := exitOK

	for _, failure := range summary.Failures {
		color.New(color.FgRed).Fprintf(stderr, "failed: %s: %v\n", failure.Path, failure.Err)
		code = exitFileErrs
	}

	if !checkOnly {
		color.New(color.FgGreen).Fprintf(stdout, "Fixed imports in %d of %d files\n", summary.Modified, summary.Total)
		return code
	}

	if summary.Modified == 0 {
		color.New(color.FgGreen).Fprintln(stdout, "All imports are correct.")
		return code
	}

	color.New(color.FgYellow).Fprintf(stdout, "%d/%d files need fixing (use --write to apply fixes)\n", summary.Modified, summary.Total)
	if code == exitOK {
		code = exitFailure
	}

	return code
}

// watchFiles keeps processing files until the context is cancelled.
func watchFiles(ctx context.Context, files []string, cfg *config.Config, opts rewriter.Options, stdout io.Writer) error {
	aliases, err := config.LoadAliases(cfg.ConfigPath)
	if err != nil {
		return err
	}

	processor := rewriter.NewFileProcessor(rewriter.New(aliases, opts.Logger), opts)

	w, err := watch.New(files, processor, opts.Logger)
	if err != nil {
		return err
	}

	w.OnResult(func(path string, modified bool, err error) {
		switch {
		case err != nil:
			color.New(color.FgRed).Fprintf(stdout, "failed: %s: %v\n", path, err)
		case modified && cfg.CheckOnly():
			color.New(color.FgYellow).Fprintf(stdout, "needs fixing: %s\n", path)
		case modified:
			color.New(color.FgGreen).Fprintf(stdout, "fixed: %s\n", path)
		}
	})

	fmt.Fprintf(stdout, "Watching %d files (Ctrl+C to stop)\n", len(files))

	return w.Run(ctx)
}

package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gravity/internal/watch"
	"github.com/matzehuels/gravity/pkg/config"
	gio "github.com/matzehuels/gravity/pkg/io"
	"github.com/matzehuels/gravity/pkg/matrix"
	"github.com/matzehuels/gravity/pkg/pipeline"
)

// watchCommand re-runs layout whenever the task file changes.
func (c *CLI) watchCommand() *cobra.Command {
	var f layoutFlags

	cmd := &cobra.Command{
		Use:   "watch [tasks.yaml]",
		Short: "Re-compute the layout whenever the task file changes",
		Long: `Re-compute the layout whenever the task file changes.

Runs 'layout' once, then again after every save of the task file until
interrupted. Errors in the file are reported and the previous outputs are
kept.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if cfg, err = f.engineConfig(cmd, cfg); err != nil {
				return err
			}
			if f.formatsStr != "" {
				f.opts.Formats = parseFormats(f.formatsStr)
				if err := pipeline.ValidateFormats(f.opts.Formats); err != nil {
					return err
				}
			}
			f.opts.Config = cfg.Engine

			return c.runWatch(cmd.Context(), args[0], cfg, f)
		},
	}

	f.register(cmd)
	return cmd
}

func (c *CLI) runWatch(ctx context.Context, input string, cfg config.Config, f layoutFlags) error {
	runner, err := c.newRunner(ctx, cfg, f.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts := f.opts
	opts.Logger = c.Logger
	outputPath := layoutPath(input, f.output)

	rebuild := func(ctx context.Context, path string) {
		logger := loggerFromContext(ctx)
		prog := newProgress(logger)
		if err := relayout(ctx, runner, path, outputPath, opts); err != nil {
			logger.Error("layout failed", "file", path, "error", err)
			return
		}
		prog.done("updated", "output", outputPath)
	}

	w, err := watch.New(input, rebuild, watch.Options{Logger: c.Logger})
	if err != nil {
		return err
	}

	ctx = withLogger(ctx, c.Logger)
	rebuild(ctx, w.Path())
	printInfo("Watching %s (Ctrl+C to stop)", input)
	return w.Run(ctx)
}

// relayout runs one layout pass and writes the layout and any artifacts.
func relayout(ctx context.Context, runner *pipeline.Runner, input, outputPath string, opts pipeline.Options) error {
	tasks, err := gio.ImportTasks(input)
	if err != nil {
		return err
	}
	layout, err := runner.Layout(ctx, tasks, opts)
	if err != nil {
		return err
	}
	if err := matrix.WriteLayoutFile(layout, outputPath); err != nil {
		return err
	}
	if len(opts.Formats) == 0 {
		return nil
	}
	artifacts, err := runner.Render(ctx, layout, opts)
	if err != nil {
		return err
	}
	_, err = writeArtifacts(artifactWriteParams{
		artifacts: artifacts,
		formats:   opts.Formats,
		input:     outputPath,
	})
	return err
}

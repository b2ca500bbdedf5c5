package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gravity/pkg/config"
	gio "github.com/matzehuels/gravity/pkg/io"
	"github.com/matzehuels/gravity/pkg/matrix"
	"github.com/matzehuels/gravity/pkg/pipeline"
)

// layoutFlags are shared by layout and watch.
type layoutFlags struct {
	output     string
	formatsStr string
	noCache    bool
	table      bool
	opts       pipeline.Options

	alpha, beta, tmax float64
	maxIter           int
}

func (f *layoutFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "layout file (default: <input>.layout.json)")
	cmd.Flags().StringVarP(&f.formatsStr, "format", "f", "", "also render: svg, png, dot, json (comma-separated)")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&f.opts.Refresh, "refresh", false, "ignore cached results")
	cmd.Flags().BoolVar(&f.opts.Detailed, "detailed", false, "show weight and position in node labels")
	cmd.Flags().BoolVar(&f.opts.Guides, "guides", false, "draw radius bounds and quadrant boundaries")
	cmd.Flags().Float64Var(&f.opts.Scale, "scale", 1, "output scale factor")
	cmd.Flags().BoolVar(&f.table, "table", false, "print every node")

	cmd.Flags().Float64Var(&f.alpha, "alpha", 0, "priority share of the weight (overrides config)")
	cmd.Flags().Float64Var(&f.beta, "beta", 0, "duration share of the weight (overrides config)")
	cmd.Flags().Float64Var(&f.tmax, "tmax", 0, "duration in minutes that counts as full weight (overrides config)")
	cmd.Flags().IntVar(&f.maxIter, "max-iter", 0, "collision steps per task (overrides config)")
}

// engineConfig applies explicitly set flags over the config file tuning
// and validates the result.
func (f *layoutFlags) engineConfig(cmd *cobra.Command, cfg config.Config) (config.Config, error) {
	flags := cmd.Flags()
	if flags.Changed("alpha") {
		cfg.Engine.Alpha = f.alpha
	}
	if flags.Changed("beta") {
		cfg.Engine.Beta = f.beta
	}
	if flags.Changed("tmax") {
		cfg.Engine.TMax = f.tmax
	}
	if flags.Changed("max-iter") {
		cfg.Engine.MaxIter = f.maxIter
	}
	if err := config.ValidateEngine(cfg.Engine); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// layoutCommand creates the layout command for computing a matrix layout.
func (c *CLI) layoutCommand() *cobra.Command {
	var f layoutFlags

	cmd := &cobra.Command{
		Use:   "layout [tasks.yaml]",
		Short: "Compute a matrix layout from a task file",
		Long: `Compute a matrix layout from a task file.

The task file may be JSON, YAML or TOML and holds either a bare list of tasks
or a {tasks: [...]} document. Each task has an id, a priority (1-10), a
duration in minutes and an Eisenhower quadrant (1-4); missing values fall
back to defaults and missing ids are generated.

The output is a layout.json file that can be rendered with 'visualize' or
browsed with 'inspect'. Use -f to render in the same step.

Results are cached for faster subsequent runs.`,
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
			return c.runLayout(cmd.Context(), args[0], cfg, f)
		},
	}

	f.register(cmd)
	return cmd
}

// runLayout loads the tasks, computes the layout and writes output.
func (c *CLI) runLayout(ctx context.Context, input string, cfg config.Config, f layoutFlags) error {
	tasks, err := gio.ImportTasks(input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, cfg, f.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts := f.opts
	opts.Logger = c.Logger

	spinner := newSpinner(ctx, fmt.Sprintf("Laying out %d tasks...", len(tasks)))
	spinner.Start()

	start := time.Now()
	layout, cacheHit, err := runner.LayoutWithCacheInfo(ctx, tasks, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}

	var artifacts map[string][]byte
	if len(opts.Formats) > 0 {
		artifacts, _, err = runner.RenderWithCacheInfo(ctx, layout, opts)
		if err != nil {
			spinner.StopWithError("Render failed")
			return fmt.Errorf("render: %w", err)
		}
	}
	spinner.Stop()
	c.Logger.Debug("layout finished", "tasks", len(tasks), "took", time.Since(start))

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := layoutPath(input, f.output)
	if err := matrix.WriteLayoutFile(layout, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	if len(artifacts) > 0 {
		paths, err := writeArtifacts(artifactWriteParams{
			artifacts: artifacts,
			formats:   opts.Formats,
			input:     outputPath,
		})
		if err != nil {
			return err
		}
		printArtifacts(paths)
	}
	printStats(len(layout.Nodes), len(layout.Overflow), cacheHit)
	printSummary(layout.Summary)
	if len(layout.Overflow) > 0 {
		printWarning("%d tasks did not fit in their quadrant", len(layout.Overflow))
	}
	if f.table {
		fmt.Fprintln(out, nodeTable(layout.Nodes, -1))
	}
	printNewline()
	printNextStep("Render", appName+" visualize "+outputPath)

	return nil
}

package cli

import (
	"bytes"
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/airvair/stampgraph/pkg/graph"
)

// layoutCommand creates the layout command for positioning a model.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output string
		flags  pipelineFlags
	)

	cmd := &cobra.Command{
		Use:   "layout [model]",
		Short: "Compute a positioned control-structure diagram",
		Long: `Compute a positioned control-structure diagram from a model file.

The model may be JSON, YAML or TOML (chosen by extension). The output is a
diagram JSON with every node's position and size and every edge's handles,
ready for a renderer to paint.

Results are cached; --refresh recomputes, --no-cache disables the cache.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd, args[0], output, &flags)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, - for stdout (default: <model>.diagram.json)")
	flags.register(cmd)

	return cmd
}

func (c *CLI) runLayout(cmd *cobra.Command, input, output string, flags *pipelineFlags) error {
	ctx := cmd.Context()
	d, hit, err := c.diagram(ctx, cmd, input, flags)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := graph.WriteDiagram(d, &buf); err != nil {
		return fmt.Errorf("encode diagram: %w", err)
	}
	path := outputPath(input, output, ".diagram.json")
	if err := writeOutput(path, buf.Bytes()); err != nil {
		return fmt.Errorf("write output %s: %w", path, err)
	}
	if path == "-" {
		return nil
	}

	printSuccess("Layout complete")
	printFile(path)
	printStats(len(d.Nodes), len(d.Edges), hit)
	printKeyValue("size", fmt.Sprintf("%.0f × %.0f", d.Width, d.Height))
	printNewline()
	printNextStep("Preview", appName+" render "+input)
	return nil
}

func (c *CLI) diagram(ctx context.Context, cmd *cobra.Command, input string, flags *pipelineFlags) (graph.Diagram, bool, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return graph.Diagram{}, false, err
	}
	opts, err := flags.options(cmd, cfg)
	if err != nil {
		return graph.Diagram{}, false, err
	}
	m, err := loadModel(ctx, input)
	if err != nil {
		return graph.Diagram{}, false, err
	}

	runner, err := c.newRunner(ctx, cfg, flags.noCache)
	if err != nil {
		return graph.Diagram{}, false, fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(loggerFromContext(ctx))
	d, hit, err := runner.DiagramWithCacheInfo(ctx, m, opts)
	if err != nil {
		return graph.Diagram{}, false, fmt.Errorf("compute layout: %w", err)
	}
	prog.done(fmt.Sprintf("Positioned %d nodes", len(d.Nodes)))
	return d, hit, nil
}

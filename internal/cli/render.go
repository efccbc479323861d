package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/airvair/stampgraph/pkg/pipeline"
)

// dotCommand creates the dot command for exporting a Graphviz preview.
func (c *CLI) dotCommand() *cobra.Command {
	var (
		output string
		flags  pipelineFlags
	)

	cmd := &cobra.Command{
		Use:   "dot [model]",
		Short: "Export the control structure as Graphviz DOT",
		Long: `Export the control structure as a standalone Graphviz DOT document.

Teams are drawn as clusters holding their members; feedback, communication
and failure paths do not constrain Graphviz's ranking.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd, args[0], pipeline.FormatDOT, outputPath(args[0], output, ".dot"), &flags)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, - for stdout (default: <model>.dot)")
	cmd.Flags().BoolVar(&flags.detailed, "detailed", false, "include roles and path text in labels")
	flags.register(cmd)

	return cmd
}

// renderCommand creates the render command for producing an SVG preview.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output string
		flags  pipelineFlags
	)

	cmd := &cobra.Command{
		Use:   "render [model]",
		Short: "Render an SVG preview of the control structure",
		Long: `Render an SVG preview of the control structure through Graphviz.

The preview uses Graphviz's own placement; use 'layout' for the positioned
diagram.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd, args[0], pipeline.FormatSVG, outputPath(args[0], output, ".svg"), &flags)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, - for stdout (default: <model>.svg)")
	cmd.Flags().BoolVar(&flags.detailed, "detailed", false, "include roles and path text in labels")
	flags.register(cmd)

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, input, format, path string, flags *pipelineFlags) error {
	ctx := cmd.Context()
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	opts, err := flags.options(cmd, cfg)
	if err != nil {
		return err
	}
	m, err := loadModel(ctx, input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, cfg, flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(loggerFromContext(ctx))
	data, err := runner.Render(ctx, m, format, opts)
	if err != nil {
		return err
	}
	prog.done("Rendered " + format)

	if err := writeOutput(path, data); err != nil {
		return fmt.Errorf("write output %s: %w", path, err)
	}
	if path != "-" {
		printSuccess("Wrote %s", format)
		printFile(path)
	}
	return nil
}

package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/airvair/stampgraph/pkg/buildinfo"
	"github.com/airvair/stampgraph/pkg/config"
	"github.com/airvair/stampgraph/pkg/model"
	"github.com/airvair/stampgraph/pkg/pipeline"
)

// appName is the application name used for directories and display.
const appName = "stampgraph"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Stampgraph lays out STAMP control structures",
		Long: `Stampgraph turns a STAMP safety model (controllers, components and the
control, feedback and communication paths between them) into a positioned
control-structure diagram: controllers above what they control, feedback
routed back up, teams expanded into their members.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: ./"+config.DefaultFile+" if present)")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.dotCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.initCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.versionCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Config and Runner Factory
// =============================================================================

// loadConfig reads --config, or the default file from the working directory.
func (c *CLI) loadConfig() (config.Config, error) {
	path := c.configPath
	if path == "" {
		path = config.DefaultFile
	}
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	c.Logger.Debug("loaded config", "path", path, "cache", cfg.Cache.Backend, "ranker", cfg.Layout.Ranker)
	return cfg, nil
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, cfg config.Config, noCache bool) (*pipeline.Runner, error) {
	if noCache {
		cfg.Cache.Backend = "none"
	}
	store, err := cfg.Cache.Open(ctx)
	if err != nil {
		return nil, err
	}
	runner := pipeline.NewRunner(store, nil, loggerFromContext(ctx))
	runner.TTL = cfg.Cache.TTL
	return runner, nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// pipelineFlags are the flags shared by the commands that run the pipeline.
type pipelineFlags struct {
	ranker   string
	failure  bool
	detailed bool
	noCache  bool
	refresh  bool
}

func (f *pipelineFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.ranker, "ranker", "", "phase A ranker: graphviz, layered (default from config)")
	cmd.Flags().BoolVar(&f.failure, "failure-paths", false, "draw failure paths")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "recompute even when cached")
}

// options merges config values with flags the user actually set.
func (f *pipelineFlags) options(cmd *cobra.Command, cfg config.Config) (pipeline.Options, error) {
	if cmd.Flags().Changed("ranker") {
		cfg.Layout.Ranker = f.ranker
	}
	if cmd.Flags().Changed("failure-paths") {
		cfg.Layout.ShowFailurePaths = f.failure
	}
	lopts, err := cfg.LayoutOptions()
	if err != nil {
		return pipeline.Options{}, err
	}
	return pipeline.Options{
		Build:    cfg.BuildOptions(),
		Layout:   lopts,
		Detailed: f.detailed,
		Refresh:  f.refresh,
	}, nil
}

// loadModel reads and validates a model file, warning about dangling
// references the builder will draw with placeholders.
func loadModel(ctx context.Context, path string) (model.Model, error) {
	m, err := model.Load(path)
	if err != nil {
		return model.Model{}, err
	}
	if err := model.Validate(m); err != nil {
		return model.Model{}, err
	}
	logger := loggerFromContext(ctx)
	for _, ref := range m.DanglingReferences() {
		logger.Warn("dangling reference", "ref", ref)
	}
	return m, nil
}

// outputPath derives "<input base><suffix>" unless an explicit path is given.
func outputPath(input, explicit, suffix string) string {
	if explicit != "" {
		return explicit
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + suffix
}

// writeOutput writes data to path, or to stdout when path is "-".
func writeOutput(path string, data []byte) error {
	if path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0644)
}

package cli

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/airvair/stampgraph/pkg/config"
	sgerrors "github.com/airvair/stampgraph/pkg/errors"
	"github.com/airvair/stampgraph/pkg/model"
)

const defaultModelFile = "model.yaml"

// initCommand creates the init command that scaffolds a sample model.
func (c *CLI) initCommand() *cobra.Command {
	var (
		force      bool
		withConfig bool
	)

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a sample model to start from",
		Long: `Write a sample model: an organisation directing a flight crew and an
autopilot that jointly command an actuator, with feedback, a crew
communication path and an active context. Ids are fresh uuids.

The encoding follows the extension (.json, .yaml, .yml, .toml).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := defaultModelFile
			if len(args) == 1 {
				path = args[0]
			}
			format, err := model.FormatFromPath(path)
			if err != nil {
				return err
			}

			var buf bytes.Buffer
			if err := model.Encode(&buf, model.Sample(), format); err != nil {
				return fmt.Errorf("encode sample: %w", err)
			}
			if err := writeNew(path, buf.Bytes(), force); err != nil {
				return err
			}
			printSuccess("Created sample model")
			printFile(path)

			if withConfig {
				buf.Reset()
				if err := config.Encode(&buf, config.Default()); err != nil {
					return fmt.Errorf("encode config: %w", err)
				}
				if err := writeNew(config.DefaultFile, buf.Bytes(), force); err != nil {
					return err
				}
				printFile(config.DefaultFile)
			}

			printNewline()
			printNextStep("Lay it out", appName+" layout "+path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite existing files")
	cmd.Flags().BoolVar(&withConfig, "config-file", false, "also write "+config.DefaultFile+" with the defaults")

	return cmd
}

// configCommand creates the config command.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			return config.Encode(cmd.OutOrStdout(), cfg)
		},
	})
	return cmd
}

func writeNew(path string, data []byte, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return sgerrors.New(sgerrors.ErrCodeInvalidInput, "%s already exists (use --force to overwrite)", path)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

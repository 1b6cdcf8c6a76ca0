package cli

import (
	"fmt"
	"io"
	"slices"

	"github.com/getmockd/recstore/pkg/cli/internal/output"
	"github.com/getmockd/recstore/pkg/cliconfig"
	"github.com/spf13/cobra"
)

var configFile string

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the resolved configuration",
	Long: `Display the configuration serve would run with after defaults, the config
file and RECSTORE_* environment variables have been merged, together with
where each value came from.`,
	Example: `  # Show resolved config as YAML
  recstore config

  # Show config from a specific file, as JSON
  recstore config --config ./recstore.yaml --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := cliconfig.LoadAll(configFile)
		if err != nil {
			return err
		}
		return printConfig(cmd.OutOrStdout(), cfg, jsonOutput)
	},
}

// configOutput is the JSON shape of the config command.
type configOutput struct {
	Config  *cliconfig.Config `json:"config"`
	Sources map[string]string `json:"sources"`
}

func printConfig(w io.Writer, cfg *cliconfig.Config, asJSON bool) error {
	if asJSON {
		return output.JSON(w, configOutput{Config: cfg, Sources: cfg.Sources})
	}

	if cfg.ConfigFile != "" {
		fmt.Fprintf(w, "# Loaded from %s\n", cfg.ConfigFile)
	}
	if err := output.YAML(w, cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	keys := make([]string, 0, len(cfg.Sources))
	for k := range cfg.Sources {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	fmt.Fprintln(w, "\n# Sources")
	tw := output.Table(w)
	for _, k := range keys {
		fmt.Fprintf(tw, "# %s\t%s\n", k, cfg.Sources[k])
	}
	return tw.Flush()
}

func init() {
	configCmd.Flags().StringVarP(&configFile, "config", "c", "", "Path to config file")
	rootCmd.AddCommand(configCmd)
}

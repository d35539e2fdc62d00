package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"mercator-hq/valcheck/pkg/cli"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the tool configuration",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the effective configuration as YAML",
			Long: `Print the configuration after defaults and VALCHECK_* environment
overrides have been applied.`,
			Args: cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				enc := yaml.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent(2)
				if err := enc.Encode(a.cfg); err != nil {
					return cli.NewCommandError("config show", err)
				}
				return enc.Close()
			},
		},
		&cobra.Command{
			Use:   "validate",
			Short: "Validate the configuration file",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				source := a.cfgFile
				if source == "" {
					source = "built-in defaults"
				}
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "Configuration is valid (%s)\n", source)
				return err
			},
		},
	)
	return cmd
}

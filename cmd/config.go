package cmd

import (
	"github.com/spf13/cobra"
)

// ConfigCmd is the top-level config command.
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage gmprime settings files",
	Long: `Provides commands for working with gmprime settings files.

A settings file sets defaults for the command line flags:

  verbosity = 0
  calc = false
  progress = false
  color = false

Examples:
  # Write a settings file with the defaults
  gmprime config init

  # Show the settings a run would use
  gmprime --config gmprime.toml -vv config show`,
	Args: usageArgs(cobra.NoArgs),
	RunE: func(c *cobra.Command, args []string) error {
		return c.Help()
	},
}

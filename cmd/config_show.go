package cmd

import (
	"github.com/PolarWolf314/gmprime/internal/configs"
	kerrors "github.com/PolarWolf314/gmprime/internal/errors"
	logger "github.com/PolarWolf314/gmprime/internal/logging"

	"github.com/spf13/cobra"
)

func init() {
	ConfigCmd.AddCommand(configShowCmd)
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the settings a run would use",
	Long: `Prints the merged settings file and flag values as TOML. Flags that only
apply to a test run (-c, --progress) come from the settings file.`,
	Args: usageArgs(cobra.NoArgs),
	RunE: func(c *cobra.Command, args []string) error {
		rep := logger.FromContext(c.Context())
		stdout, _ := streams(c.Context())

		if err := configs.EncodeTOML(stdout, settings); err != nil {
			rep.FatalErrnof(kerrors.ExitInternal, err, "configShow", "writing settings: %v", err)
			return errReported
		}
		return nil
	},
}

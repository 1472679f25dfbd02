package cmd

import (
	"fmt"
	"os"

	"github.com/PolarWolf314/gmprime/internal/configs"
	kerrors "github.com/PolarWolf314/gmprime/internal/errors"
	logger "github.com/PolarWolf314/gmprime/internal/logging"
	"github.com/PolarWolf314/gmprime/internal/ui"

	"github.com/spf13/cobra"
)

var configInitForce bool

func init() {
	configInitCmd.Flags().BoolVarP(&configInitForce, "force", "f", false, "overwrite an existing file")
	ConfigCmd.AddCommand(configInitCmd)
}

// resetConfigInitState resets the config init command's global state for testing.
func resetConfigInitState() {
	configInitForce = false
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a settings file with the default values",
	Long: `Writes the default settings to path, or to ` + configs.DefaultFileName + ` in the
current directory. An existing file is left alone unless --force is given.`,
	Args: usageArgs(cobra.MaximumNArgs(1)),
	RunE: func(c *cobra.Command, args []string) error {
		rep := logger.FromContext(c.Context())
		stdout, _ := streams(c.Context())

		path := configs.DefaultFileName
		if len(args) == 1 {
			path = args[0]
		}

		if _, err := os.Stat(path); err == nil && !configInitForce {
			rep.Fatalf(kerrors.ExitConfig, "configInit", "%s already exists, use --force to overwrite it", path)
			return errReported
		}

		if err := configs.SaveTOML(path, configs.DefaultSettings()); err != nil {
			rep.FatalErrnof(kerrors.ExitConfig, err, "configInit", "cannot write settings file: %s", path)
			return errReported
		}
		rep.Dbgf(logger.DbgLow, "wrote default settings to %s", path)

		_, err := fmt.Fprint(stdout, ui.EnsureNewline("Wrote "+path))
		return err
	},
}

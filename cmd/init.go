package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/soerengrunewald/pkgconf-mangler/internal/config"
	"github.com/soerengrunewald/pkgconf-mangler/internal/tui"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default " + config.FileName + " config file",
	Long: `Create ` + config.FileName + ` in the current directory with both rewrite
operations enabled and the standard batch file selection. The other
commands pick these defaults up automatically; explicit flags still win.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

var initForce bool

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite an existing config file")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(config.FileName); err == nil && !initForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", config.FileName)
	}

	if err := config.Save("", config.Default()); err != nil {
		return err
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "%s %s written\n", tui.Success("✓"), tui.Label(config.FileName))
	return nil
}

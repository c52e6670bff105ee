package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/soerengrunewald/pkgconf-mangler/internal/config"
	"github.com/soerengrunewald/pkgconf-mangler/internal/mangle"
	"github.com/soerengrunewald/pkgconf-mangler/internal/tui"
)

var mangleCmd = &cobra.Command{
	Use:   "mangle FILE",
	Short: "Merge .private entries and strip rpath tokens in one file",
	Long: `Rewrite a single pkg-config file. With --merge-private, Requires.private
and Libs.private are folded into their public entries (the freed line stays
as a blank one, so line numbers are stable). With --remove-rpath, every
whitespace-separated token containing "rpath" is dropped from Libs values.

Without --in-place the result goes to stdout and the input is untouched.`,
	Args: cobra.ExactArgs(1),
	RunE: runMangle,
}

var (
	mangleMergePrivate bool
	mangleRemoveRPath  bool
	mangleInPlace      bool
	mangleConfigPath   string
)

func init() {
	mangleCmd.Flags().BoolVarP(&mangleMergePrivate, "merge-private", "m", false, "Merge Requires.private/Libs.private into the public entries")
	mangleCmd.Flags().BoolVarP(&mangleRemoveRPath, "remove-rpath", "r", false, "Strip rpath tokens from Libs values")
	mangleCmd.Flags().BoolVarP(&mangleInPlace, "in-place", "i", false, "Rewrite the file instead of printing to stdout")
	mangleCmd.Flags().StringVarP(&mangleConfigPath, "config", "c", "", "Config file (default "+config.FileName+" if present)")
	rootCmd.AddCommand(mangleCmd)
}

func runMangle(cmd *cobra.Command, args []string) error {
	path := args[0]

	cfg, err := config.Load(mangleConfigPath)
	if err != nil {
		return err
	}
	opts := resolveToggles(cmd, cfg, mangleMergePrivate, mangleRemoveRPath)

	if !mangleInPlace {
		return mangle.FileTo(path, cmd.OutOrStdout(), opts)
	}

	written, err := mangle.FileInPlace(path, opts)
	if err != nil {
		return err
	}
	if written {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s %s rewritten (%s)\n", tui.Success("✓"), tui.Label(path), opts)
	} else {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s %s unchanged\n", tui.Muted("-"), tui.Label(path))
	}
	return nil
}

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/soerengrunewald/pkgconf-mangler/internal/config"
	"github.com/soerengrunewald/pkgconf-mangler/internal/mangle"
	"github.com/soerengrunewald/pkgconf-mangler/internal/tui"
)

var rootCmd = &cobra.Command{
	Use:           "pkgconf-mangler",
	Short:         "Rewrite pkg-config files for static linking",
	SilenceUsage:  true,
	SilenceErrors: true,
	Long: `pkgconf-mangler edits pkg-config (.pc) metadata so that static linking
picks up everything it needs: Requires.private and Libs.private entries are
folded into their public counterparts, and rpath linker tokens can be
stripped from library flags. Line order and count are preserved.

EXAMPLES:

  # Print the merged file to stdout
  pkgconf-mangler mangle --merge-private foo.pc

  # Rewrite in place, also dropping rpath tokens
  pkgconf-mangler mangle -m -r -i foo.pc

  # Fix up a whole staging tree
  pkgconf-mangler batch -m -r --yes sysroot/usr/lib/pkgconfig

Defaults for the toggles can live in ` + config.FileName + `.`,
}

var verbose bool

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print per-line classification and rewrite decisions to stderr")
	rootCmd.SetVersionTemplate("pkgconf-mangler version {{.Version}}\n")
}

// SetVersion sets the version string shown by --version (e.g. from ldflags).
func SetVersion(v string) { rootCmd.Version = v }

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// verboseLogf returns the observer hook for mangle.Options, or nil when
// not in verbose mode.
func verboseLogf(cmd *cobra.Command) func(format string, args ...any) {
	if !verbose {
		return nil
	}
	errOut := cmd.ErrOrStderr()
	return func(format string, args ...any) {
		fmt.Fprintln(errOut, tui.Muted(fmt.Sprintf(format, args...)))
	}
}

// resolveToggles combines explicit flags with config-file defaults.
// A flag set on the command line always wins.
func resolveToggles(cmd *cobra.Command, cfg *config.Config, mergeFlag, rpathFlag bool) mangle.Options {
	opts := mangle.Options{
		MergePrivate: cfg.MergePrivate,
		RemoveRPath:  cfg.RemoveRPath,
		Logf:         verboseLogf(cmd),
	}
	if cmd.Flags().Changed("merge-private") {
		opts.MergePrivate = mergeFlag
	}
	if cmd.Flags().Changed("remove-rpath") {
		opts.RemoveRPath = rpathFlag
	}
	return opts
}

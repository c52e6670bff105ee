package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/soerengrunewald/pkgconf-mangler/internal/config"
	"github.com/soerengrunewald/pkgconf-mangler/internal/mangle"
	"github.com/soerengrunewald/pkgconf-mangler/internal/tui"
	"github.com/soerengrunewald/pkgconf-mangler/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch FILE...",
	Short: "Re-apply mangling whenever the files change",
	Long: `Mangle the given files in place once, then keep watching them and
re-apply the configured operations on every change. Useful while a build
system keeps regenerating .pc files in a staging tree.

A rewrite performed by the watcher itself does not loop: a file already in
its final form is never written again.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWatch,
}

var (
	watchMergePrivate bool
	watchRemoveRPath  bool
	watchConfigPath   string
)

func init() {
	watchCmd.Flags().BoolVarP(&watchMergePrivate, "merge-private", "m", false, "Merge Requires.private/Libs.private into the public entries")
	watchCmd.Flags().BoolVarP(&watchRemoveRPath, "remove-rpath", "r", false, "Strip rpath tokens from Libs values")
	watchCmd.Flags().StringVarP(&watchConfigPath, "config", "c", "", "Config file (default "+config.FileName+" if present)")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(watchConfigPath)
	if err != nil {
		return err
	}
	opts := resolveToggles(cmd, cfg, watchMergePrivate, watchRemoveRPath)
	errOut := cmd.ErrOrStderr()

	watcher, err := watch.NewFileWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	for _, path := range args {
		if _, err := mangle.FileInPlace(path, opts); err != nil {
			return err
		}
		if err := watcher.Add(path); err != nil {
			return err
		}
	}

	fmt.Fprintf(errOut, "%s watching %d files (%s), ctrl-c to stop\n", tui.Label("pkgconf-mangler:"), len(args), opts)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	changes := watcher.Start()
	for {
		select {
		case <-ctx.Done():
			fmt.Fprintln(errOut, tui.Muted("stopped"))
			return nil
		case path := <-changes:
			written, err := mangle.FileInPlace(path, opts)
			if err != nil {
				fmt.Fprintf(errOut, "%s %s: %v\n", tui.Error("✗"), path, err)
				continue
			}
			if written {
				fmt.Fprintf(errOut, "%s %s\n", tui.Success("✓"), mangle.Describe(path, true))
			}
		}
	}
}

package cmd

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/soerengrunewald/pkgconf-mangler/internal/config"
	"github.com/soerengrunewald/pkgconf-mangler/internal/mangle"
	"github.com/soerengrunewald/pkgconf-mangler/internal/pcdir"
	"github.com/soerengrunewald/pkgconf-mangler/internal/tui"
)

var batchCmd = &cobra.Command{
	Use:   "batch [DIR]",
	Short: "Rewrite every .pc file under a directory",
	Long: `Discover pkg-config files under the given directory (default: current
directory) and rewrite them in place. Typical use is fixing up a staging
or sysroot tree after install, e.g. sysroot/usr/lib/pkgconfig.

Files are selected by glob patterns (doublestar syntax, default **/*.pc)
and processed concurrently. Unless --yes or --dry-run is given, a
confirmation prompt is shown before anything is rewritten.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBatch,
}

var (
	batchMergePrivate bool
	batchRemoveRPath  bool
	batchPatterns     []string
	batchExcludeDirs  []string
	batchDryRun       bool
	batchYes          bool
	batchConfigPath   string
)

func init() {
	batchCmd.Flags().BoolVarP(&batchMergePrivate, "merge-private", "m", false, "Merge Requires.private/Libs.private into the public entries")
	batchCmd.Flags().BoolVarP(&batchRemoveRPath, "remove-rpath", "r", false, "Strip rpath tokens from Libs values")
	batchCmd.Flags().StringSliceVarP(&batchPatterns, "pattern", "p", nil, "Glob patterns selecting files (default **/*.pc)")
	batchCmd.Flags().StringSliceVarP(&batchExcludeDirs, "exclude", "e", nil, "Directory names to skip")
	batchCmd.Flags().BoolVar(&batchDryRun, "dry-run", false, "Report what would change without writing")
	batchCmd.Flags().BoolVarP(&batchYes, "yes", "y", false, "Skip the confirmation prompt")
	batchCmd.Flags().StringVarP(&batchConfigPath, "config", "c", "", "Config file (default "+config.FileName+" if present)")
	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	root := "."
	if len(args) == 1 {
		root = args[0]
	}

	cfg, err := config.Load(batchConfigPath)
	if err != nil {
		return err
	}
	opts := resolveToggles(cmd, cfg, batchMergePrivate, batchRemoveRPath)
	// Per-line output from many files at once is unreadable; verbose
	// mode in batch reports per-file results instead.
	opts.Logf = nil

	patterns := batchPatterns
	excludes := batchExcludeDirs
	if cfg.Batch != nil {
		if len(patterns) == 0 {
			patterns = cfg.Batch.Patterns
		}
		if len(excludes) == 0 {
			excludes = cfg.Batch.ExcludeDirs
		}
	}

	files, err := pcdir.List(root, patterns, excludes)
	if err != nil {
		return fmt.Errorf("list pkg-config files: %w", err)
	}

	errOut := cmd.ErrOrStderr()
	if len(files) == 0 {
		fmt.Fprintln(errOut, tui.Muted("no pkg-config files found"))
		return nil
	}

	if batchDryRun {
		return batchDryRunReport(files, opts, cmd.OutOrStdout(), errOut)
	}

	if !batchYes {
		ok, err := tui.Confirm(fmt.Sprintf("Rewrite up to %d files in place (%s)?", len(files), opts))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(errOut, tui.Muted("aborted"))
			return nil
		}
	}

	numWorkers := runtime.NumCPU()
	if numWorkers < 2 {
		numWorkers = 2
	}

	var mu sync.Mutex
	var changed, unchanged, failed int

	g, _ := errgroup.WithContext(context.Background())
	g.SetLimit(numWorkers)

	for _, path := range files {
		g.Go(func() error {
			written, err := mangle.FileInPlace(path, opts)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				failed++
				fmt.Fprintf(errOut, "%s %s: %v\n", tui.Error("✗"), path, err)
			case written:
				changed++
				if verbose {
					fmt.Fprintf(errOut, "%s %s\n", tui.Success("✓"), mangle.Describe(path, true))
				}
			default:
				unchanged++
				if verbose {
					fmt.Fprintf(errOut, "%s %s\n", tui.Muted("-"), mangle.Describe(path, false))
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	fmt.Fprintf(errOut, "%s %s rewritten, %s unchanged, %s failed\n",
		tui.Label("Done:"),
		tui.Success(fmt.Sprintf("%d", changed)),
		tui.Muted(fmt.Sprintf("%d", unchanged)),
		tui.Error(fmt.Sprintf("%d", failed)))

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(files))
	}
	return nil
}

func batchDryRunReport(files []string, opts mangle.Options, out, errOut io.Writer) error {
	var wouldChange int
	for _, path := range files {
		changed, err := mangle.WouldChange(path, opts)
		if err != nil {
			return err
		}
		if changed {
			wouldChange++
			fmt.Fprintln(out, path)
		}
	}
	fmt.Fprintf(errOut, "%s %d of %d files would change (%s)\n", tui.Label("Dry run:"), wouldChange, len(files), opts)
	return nil
}

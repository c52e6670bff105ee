package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/soerengrunewald/pkgconf-mangler/internal/pcfile"
	"github.com/soerengrunewald/pkgconf-mangler/internal/tui"
)

var showCmd = &cobra.Command{
	Use:   "show FILE",
	Short: "Print the classified view of a pkg-config file",
	Long: `Read-only inspection: prints every line with its number, how it was
classified (entry, variable, blank) and the parsed key and value. Lines
that contain neither ':' nor '=' are shown as invalid; they are preserved
verbatim by all rewrite operations.`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	f, err := pcfile.Load(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, l := range f.Lines() {
		num := tui.Muted(fmt.Sprintf("%4d", l.Num))
		switch l.Kind {
		case pcfile.KindBlank:
			fmt.Fprintf(out, "%s %s\n", num, tui.Muted("blank"))
		case pcfile.KindVariable:
			fmt.Fprintf(out, "%s %s %s = %s\n", num, tui.Muted("variable"), tui.Key(l.Key), l.Value)
		case pcfile.KindEntry:
			kind := "entry"
			if l.IsPrivate() {
				kind = "entry (private)"
			}
			fmt.Fprintf(out, "%s %s %s: %s\n", num, tui.Muted(kind), tui.Label(l.Key), l.Value)
		default:
			fmt.Fprintf(out, "%s %s %s\n", num, tui.Warning("invalid"), l.Raw)
		}
	}
	return nil
}

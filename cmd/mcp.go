package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/soerengrunewald/pkgconf-mangler/internal/mcpserver"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the MCP server (stdio) for AI/IDE integration",
	Long:  `Run the Model Context Protocol server on stdio. Exposes mangle_file (rewrite or preview a .pc file), inspect_file (classified line view) and list_pc_files (find .pc files under a directory).`,
	RunE:  runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	return mcpserver.Run(context.Background())
}

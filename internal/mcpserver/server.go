package mcpserver

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/soerengrunewald/pkgconf-mangler/internal/mangle"
	"github.com/soerengrunewald/pkgconf-mangler/internal/pcdir"
	"github.com/soerengrunewald/pkgconf-mangler/internal/pcfile"
)

func Run(ctx context.Context) error {
	server := mcpsdk.NewServer(&mcpsdk.Implementation{
		Name:    "pkgconf-mangler",
		Version: "0.1.0",
	}, nil)

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "mangle_file",
		Description: "Rewrite a pkg-config (.pc) file for static linking: merge Requires.private/Libs.private into their public entries and/or strip rpath tokens from Libs values. With write=false (the default) the rewritten content is returned and the file is untouched; with write=true the file is rewritten in place.",
	}, func(ctx context.Context, req *mcpsdk.CallToolRequest, args struct {
		Path         string `json:"path" jsonschema:"path to the .pc file"`
		MergePrivate bool   `json:"merge_private" jsonschema:"merge .private entries into their public counterparts"`
		RemoveRPath  bool   `json:"remove_rpath" jsonschema:"strip rpath tokens from Libs values"`
		Write        bool   `json:"write" jsonschema:"rewrite the file in place instead of returning the content"`
	}) (*mcpsdk.CallToolResult, any, error) {
		if args.Path == "" {
			return errorResult("path is required"), nil, nil
		}
		opts := mangle.Options{MergePrivate: args.MergePrivate, RemoveRPath: args.RemoveRPath}

		if args.Write {
			written, err := mangle.FileInPlace(args.Path, opts)
			if err != nil {
				return errorResult(err.Error()), nil, nil
			}
			return successResult(map[string]any{"ok": true, "path": args.Path, "written": written}), nil, nil
		}

		content, err := mangle.Render(args.Path, opts)
		if err != nil {
			return errorResult(err.Error()), nil, nil
		}
		return successResult(map[string]any{"path": args.Path, "content": content}), nil, nil
	})

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "inspect_file",
		Description: "Classify every line of a pkg-config file. Returns line number, kind (blank, variable, entry, invalid), key, value and whether the entry is a .private one. Read-only.",
	}, func(ctx context.Context, req *mcpsdk.CallToolRequest, args struct {
		Path string `json:"path" jsonschema:"path to the .pc file"`
	}) (*mcpsdk.CallToolResult, any, error) {
		if args.Path == "" {
			return errorResult("path is required"), nil, nil
		}
		f, err := pcfile.Load(args.Path)
		if err != nil {
			return errorResult(err.Error()), nil, nil
		}

		type lineInfo struct {
			Num     int    `json:"num"`
			Kind    string `json:"kind"`
			Key     string `json:"key,omitempty"`
			Value   string `json:"value,omitempty"`
			Private bool   `json:"private,omitempty"`
		}
		lines := make([]lineInfo, 0, len(f.Lines()))
		for _, l := range f.Lines() {
			lines = append(lines, lineInfo{
				Num:     l.Num,
				Kind:    l.Kind.String(),
				Key:     l.Key,
				Value:   l.Value,
				Private: l.IsPrivate(),
			})
		}
		return successResult(map[string]any{"path": args.Path, "lines": lines}), nil, nil
	})

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "list_pc_files",
		Description: "List pkg-config files under a directory. Patterns use doublestar glob syntax (default **/*.pc).",
	}, func(ctx context.Context, req *mcpsdk.CallToolRequest, args struct {
		Root     string   `json:"root" jsonschema:"directory to search (default: current)"`
		Patterns []string `json:"patterns" jsonschema:"glob patterns selecting files"`
	}) (*mcpsdk.CallToolResult, any, error) {
		root := args.Root
		if root == "" {
			root = "."
		}
		files, err := pcdir.List(root, args.Patterns, nil)
		if err != nil {
			return errorResult(err.Error()), nil, nil
		}
		return successResult(map[string]any{"root": root, "files": files, "count": len(files)}), nil, nil
	})

	return server.Run(ctx, &mcpsdk.StdioTransport{})
}

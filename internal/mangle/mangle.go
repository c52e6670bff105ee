// Package mangle ties the file model to the two rewrite operations. The
// commands and the MCP server all go through here so that flag handling,
// watching and tool calls share one code path.
package mangle

import (
	"fmt"
	"io"

	"github.com/soerengrunewald/pkgconf-mangler/internal/pcfile"
)

type Options struct {
	MergePrivate bool
	RemoveRPath  bool

	// Logf receives per-line classification and mutation messages when
	// set (verbose mode).
	Logf func(format string, args ...any)
}

func load(path string, opts Options) (*pcfile.File, error) {
	f, err := pcfile.LoadObserved(path, opts.Logf)
	if err != nil {
		return nil, err
	}

	if opts.MergePrivate {
		f.MergePrivate()
	}
	if opts.RemoveRPath {
		f.RemoveRPath()
	}
	return f, nil
}

// FileTo mangles path and writes the result to w. The input file is not
// touched.
func FileTo(path string, w io.Writer, opts Options) error {
	f, err := load(path, opts)
	if err != nil {
		return err
	}
	return f.Write(w)
}

// FileInPlace mangles path and rewrites it in place. Returns false when
// the file was already in its final form and no write happened.
func FileInPlace(path string, opts Options) (bool, error) {
	f, err := load(path, opts)
	if err != nil {
		return false, err
	}
	return f.Save()
}

// WouldChange reports whether an in-place run would rewrite the file,
// without touching it. Used for dry runs.
func WouldChange(path string, opts Options) (bool, error) {
	f, err := load(path, opts)
	if err != nil {
		return false, err
	}
	return f.Changed(), nil
}

// Render returns the mangled content without writing anywhere.
func Render(path string, opts Options) (string, error) {
	f, err := load(path, opts)
	if err != nil {
		return "", err
	}
	return f.Render(), nil
}

func (o Options) String() string {
	switch {
	case o.MergePrivate && o.RemoveRPath:
		return "merge-private, remove-rpath"
	case o.MergePrivate:
		return "merge-private"
	case o.RemoveRPath:
		return "remove-rpath"
	default:
		return "none"
	}
}

// Describe returns a short human summary for one processed file.
func Describe(path string, written bool) string {
	if written {
		return fmt.Sprintf("%s rewritten", path)
	}
	return fmt.Sprintf("%s unchanged", path)
}

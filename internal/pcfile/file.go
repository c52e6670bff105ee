package pcfile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// File is an ordered sequence of classified lines. Lines are cleared in
// place rather than removed, so positions stay aligned with the original
// input for the whole life of the model.
type File struct {
	path  string
	lines []*Line

	// Logf, when set, receives one message per classified line and per
	// mutation. Used by the CLI in verbose mode.
	Logf func(format string, args ...any)
}

func New(path string) *File {
	return &File{path: path}
}

// Load reads the whole file into the model. The input handle is closed
// before Load returns, so a later in-place Save never races the read.
func Load(path string) (*File, error) {
	return LoadObserved(path, nil)
}

// LoadObserved is Load with a classification observer attached before the
// first line is read.
func LoadObserved(path string, logf func(format string, args ...any)) (*File, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	f := New(path)
	f.Logf = logf

	scanner := bufio.NewScanner(file)
	const maxCapacity = 512 * 1024
	buf := make([]byte, maxCapacity)
	scanner.Buffer(buf, maxCapacity)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		f.Append(lineNum, scanner.Text())
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return f, nil
}

func (f *File) Path() string { return f.path }

func (f *File) Lines() []*Line { return f.lines }

// Append classifies one raw line and adds it to the sequence.
func (f *File) Append(num int, raw string) {
	line := Classify(num, raw)
	f.lines = append(f.lines, line)
	f.logf("line %d: %s key=%q value=%q", num, line.Kind, line.Key, line.Value)
}

// MergePrivate folds each .private entry into its public counterpart,
// independently for the Requires and Libs families.
func (f *File) MergePrivate() {
	f.mergeFamily((*Line).IsRequires, ", ")
	f.mergeFamily((*Line).IsLibs, " ")
}

// mergeFamily merges when the family has exactly two entries and renames
// when it has exactly one private entry. Zero or more than two matches is
// a tolerated no-op: the file is left alone for that family.
func (f *File) mergeFamily(match func(*Line) bool, sep string) {
	var idx []int
	for i, l := range f.lines {
		if match(l) {
			idx = append(idx, i)
		}
	}

	switch len(idx) {
	case 1:
		l := f.lines[idx[0]]
		if l.IsPrivate() {
			l.Key = strings.SplitN(l.Key, ".", 2)[0]
			f.logf("line %d: renamed to %s", l.Num, l.Key)
		}
	case 2:
		first, second := f.lines[idx[0]], f.lines[idx[1]]
		// The earlier line ends up holding the merged value, public
		// value first, under the non-private key.
		if first.IsPrivate() {
			first.Key = second.Key
			first.Value = second.Value + sep + first.Value
		} else {
			first.Value = first.Value + sep + second.Value
		}
		second.Clear()
		f.logf("line %d: merged into %s, line %d cleared", first.Num, first.Key, second.Num)
	}
}

// RemoveRPath strips rpath tokens from every Libs-family entry.
func (f *File) RemoveRPath() {
	for _, l := range f.lines {
		before := l.Value
		l.StripRPath()
		if l.Value != before {
			f.logf("line %d: %s value=%q", l.Num, l.Key, l.Value)
		}
	}
}

// Changed reports whether any line would serialize differently from the
// raw text it was loaded with.
func (f *File) Changed() bool {
	for _, l := range f.lines {
		if l.String() != l.Raw {
			return true
		}
	}
	return false
}

func (f *File) Render() string {
	var b strings.Builder
	for _, l := range f.lines {
		b.WriteString(l.String())
		b.WriteByte('\n')
	}
	return b.String()
}

func (f *File) Write(w io.Writer) error {
	writer := bufio.NewWriter(w)
	for _, l := range f.lines {
		fmt.Fprintln(writer, l)
	}
	return writer.Flush()
}

// Save rewrites the file in place. The output goes to a uniquely named
// temp file in the same directory which is then renamed over the
// original, so a failed write never leaves a truncated file behind.
// Returns false when the rendered content matches the input and nothing
// was written.
func (f *File) Save() (bool, error) {
	if !f.Changed() {
		return false, nil
	}

	perm := os.FileMode(0644)
	if info, err := os.Stat(f.path); err == nil {
		perm = info.Mode().Perm()
	}

	tmp := filepath.Join(filepath.Dir(f.path), "."+filepath.Base(f.path)+".tmp-"+uuid.NewString())
	if err := os.WriteFile(tmp, []byte(f.Render()), perm); err != nil {
		return false, fmt.Errorf("failed to write file: %w", err)
	}

	if err := os.Rename(tmp, f.path); err != nil {
		os.Remove(tmp)
		return false, fmt.Errorf("failed to replace file: %w", err)
	}

	return true, nil
}

func (f *File) logf(format string, args ...any) {
	if f.Logf != nil {
		f.Logf(format, args...)
	}
}

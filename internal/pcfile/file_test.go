package pcfile

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTestFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.pc")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	t.Run("load existing file", func(t *testing.T) {
		content := `prefix=/usr
libdir=${prefix}/lib

Name: foo
Requires: bar
Libs: -L${libdir} -lfoo
`
		f, err := Load(writeTestFile(t, content))
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}

		lines := f.Lines()
		if len(lines) != 6 {
			t.Fatalf("loaded %d lines, want 6", len(lines))
		}
		if lines[0].Kind != KindVariable || lines[0].Key != "prefix" {
			t.Errorf("line 1 = %+v, want prefix variable", lines[0])
		}
		if lines[2].Kind != KindBlank {
			t.Errorf("line 3 kind = %v, want blank", lines[2].Kind)
		}
		if lines[4].Kind != KindEntry || lines[4].Value != "bar" {
			t.Errorf("line 5 = %+v, want Requires entry", lines[4])
		}
		for i, l := range lines {
			if l.Num != i+1 {
				t.Errorf("line %d has Num = %d", i+1, l.Num)
			}
		}
	})

	t.Run("missing file is an error", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.pc"))
		if err == nil {
			t.Fatal("Load() expected error for missing file")
		}
	})

	t.Run("append observer sees every line", func(t *testing.T) {
		f := New("test.pc")
		var logged []string
		f.Logf = func(format string, args ...any) {
			logged = append(logged, format)
		}
		f.Append(1, "Name: foo")
		f.Append(2, "")
		if len(logged) != 2 {
			t.Errorf("observer called %d times, want 2", len(logged))
		}
	})
}

func TestMergePrivate(t *testing.T) {
	t.Run("public before private", func(t *testing.T) {
		f := New("test.pc")
		f.Append(1, "Name: foo")
		f.Append(2, "")
		f.Append(3, "Requires: foo")
		f.Append(4, "Requires.private: bar")
		f.MergePrivate()

		lines := f.Lines()
		if lines[2].Key != "Requires" || lines[2].Value != "foo, bar" {
			t.Errorf("line 3 = %q: %q, want Requires: foo, bar", lines[2].Key, lines[2].Value)
		}
		if lines[3].Kind != KindBlank {
			t.Errorf("line 4 kind = %v, want blank", lines[3].Kind)
		}
		if len(lines) != 4 {
			t.Errorf("line count = %d, want 4", len(lines))
		}
	})

	t.Run("private before public", func(t *testing.T) {
		f := New("test.pc")
		f.Append(1, "Requires.private: bar")
		f.Append(2, "Requires: foo")
		f.MergePrivate()

		lines := f.Lines()
		// Public value still comes first and the public key wins,
		// merged into the earlier line.
		if lines[0].Key != "Requires" || lines[0].Value != "foo, bar" {
			t.Errorf("line 1 = %q: %q, want Requires: foo, bar", lines[0].Key, lines[0].Value)
		}
		if lines[1].Kind != KindBlank {
			t.Errorf("line 2 kind = %v, want blank", lines[1].Kind)
		}
	})

	t.Run("libs merge uses space separator", func(t *testing.T) {
		f := New("test.pc")
		f.Append(1, "Libs: -lfoo")
		f.Append(2, "Libs.private: -lstatic")
		f.MergePrivate()

		if got := f.Lines()[0].Value; got != "-lfoo -lstatic" {
			t.Errorf("Value = %q, want %q", got, "-lfoo -lstatic")
		}
	})

	t.Run("private only drops the suffix", func(t *testing.T) {
		f := New("test.pc")
		f.Append(1, "Libs.private: -lstatic")
		f.MergePrivate()

		l := f.Lines()[0]
		if l.Key != "Libs" {
			t.Errorf("Key = %q, want %q", l.Key, "Libs")
		}
		if l.Value != "-lstatic" {
			t.Errorf("Value = %q, want unchanged", l.Value)
		}
	})

	t.Run("public only is untouched", func(t *testing.T) {
		f := New("test.pc")
		f.Append(1, "Requires: foo")
		f.MergePrivate()

		l := f.Lines()[0]
		if l.Key != "Requires" || l.Value != "foo" {
			t.Errorf("line = %q: %q, want untouched", l.Key, l.Value)
		}
	})

	t.Run("more than two matches is a no-op", func(t *testing.T) {
		f := New("test.pc")
		f.Append(1, "Requires: foo")
		f.Append(2, "Requires.private: bar")
		f.Append(3, "Requires.internal: baz")
		f.MergePrivate()

		want := []string{"Requires: foo", "Requires.private: bar", "Requires.internal: baz"}
		for i, l := range f.Lines() {
			if l.String() != want[i] {
				t.Errorf("line %d = %q, want %q", i+1, l.String(), want[i])
			}
		}
	})

	t.Run("zero matches is a no-op", func(t *testing.T) {
		f := New("test.pc")
		f.Append(1, "Name: foo")
		f.Append(2, "Cflags: -I/x")
		f.MergePrivate()

		if got := f.Render(); got != "Name: foo\nCflags: -I/x\n" {
			t.Errorf("Render() = %q", got)
		}
	})

	t.Run("families merge independently", func(t *testing.T) {
		f := New("test.pc")
		f.Append(1, "Requires: foo")
		f.Append(2, "Requires.private: bar")
		f.Append(3, "Libs: -lfoo")
		f.Append(4, "Libs.private: -lbar")
		f.MergePrivate()

		lines := f.Lines()
		if lines[0].Value != "foo, bar" {
			t.Errorf("Requires = %q, want %q", lines[0].Value, "foo, bar")
		}
		if lines[2].Value != "-lfoo -lbar" {
			t.Errorf("Libs = %q, want %q", lines[2].Value, "-lfoo -lbar")
		}
		if lines[1].Kind != KindBlank || lines[3].Kind != KindBlank {
			t.Error("private lines not cleared")
		}
	})
}

func TestRemoveRPath(t *testing.T) {
	f := New("test.pc")
	f.Append(1, "Libs: -L/x -Wl,-rpath,/y -lfoo")
	f.Append(2, "Libs.private: -Wl,-rpath,/z -lstatic")
	f.Append(3, "Cflags: -I/rpath/include")
	f.RemoveRPath()

	lines := f.Lines()
	if lines[0].Value != "-L/x -lfoo" {
		t.Errorf("Libs = %q, want %q", lines[0].Value, "-L/x -lfoo")
	}
	if lines[1].Value != "-lstatic" {
		t.Errorf("Libs.private = %q, want %q", lines[1].Value, "-lstatic")
	}
	if lines[2].Value != "-I/rpath/include" {
		t.Errorf("Cflags = %q, want untouched", lines[2].Value)
	}
}

func TestRoundTrip(t *testing.T) {
	// No private entries, no rpath tokens: both passes must leave the
	// file line-for-line identical.
	content := `prefix = /usr
libdir = ${prefix}/lib

Name: foo
Description: A library
Version: 1.0
Requires: bar
Libs: -L${libdir} -lfoo
Cflags: -I${prefix}/include
`
	f, err := Load(writeTestFile(t, content))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	f.MergePrivate()
	f.RemoveRPath()

	if f.Changed() {
		t.Error("Changed() = true for a round-trip file")
	}
	if got := f.Render(); got != content {
		t.Errorf("Render() = %q, want original content", got)
	}
}

func TestWrite(t *testing.T) {
	f := New("test.pc")
	f.Append(1, "Name: foo")
	f.Append(2, "")
	f.Append(3, "prefix=/usr")

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	want := "Name: foo\n\nprefix = /usr\n"
	if buf.String() != want {
		t.Errorf("Write() = %q, want %q", buf.String(), want)
	}
}

func TestSave(t *testing.T) {
	t.Run("rewrites changed file in place", func(t *testing.T) {
		path := writeTestFile(t, "Requires: foo\nRequires.private: bar\n")

		f, err := Load(path)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		f.MergePrivate()

		written, err := f.Save()
		if err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		if !written {
			t.Error("Save() = false, want true")
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read back: %v", err)
		}
		if string(data) != "Requires: foo, bar\n\n" {
			t.Errorf("file = %q, want merged content", string(data))
		}
	})

	t.Run("skips unchanged file", func(t *testing.T) {
		path := writeTestFile(t, "Name: foo\n")

		f, err := Load(path)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		f.MergePrivate()
		f.RemoveRPath()

		written, err := f.Save()
		if err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		if written {
			t.Error("Save() = true for unchanged file")
		}
	})

	t.Run("leaves no temp files behind", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "test.pc")
		if err := os.WriteFile(path, []byte("Libs: -Wl,-rpath,/y -lfoo\n"), 0644); err != nil {
			t.Fatalf("failed to create test file: %v", err)
		}

		f, err := Load(path)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		f.RemoveRPath()
		if _, err := f.Save(); err != nil {
			t.Fatalf("Save() error = %v", err)
		}

		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatalf("read dir: %v", err)
		}
		for _, e := range entries {
			if strings.Contains(e.Name(), ".tmp-") {
				t.Errorf("temp file left behind: %s", e.Name())
			}
		}
	})
}

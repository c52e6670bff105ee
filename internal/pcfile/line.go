package pcfile

import "strings"

type Kind int

const (
	KindBlank Kind = iota
	KindVariable
	KindEntry
	KindInvalid
)

func (k Kind) String() string {
	switch k {
	case KindBlank:
		return "blank"
	case KindVariable:
		return "variable"
	case KindEntry:
		return "entry"
	default:
		return "invalid"
	}
}

// Line is one physical line of a pkg-config file. Num is the 1-based
// position in the original input and never changes, even after the line
// is cleared.
type Line struct {
	Kind  Kind
	Num   int
	Raw   string
	Key   string
	Value string
}

// Classify parses one raw line (already stripped of its trailing newline).
// A `:` always wins over `=`, so a variable whose value contains a colon
// before the first `=` is read as an entry. That ambiguity is part of the
// format, not something to repair. Lines with neither delimiter are kept
// verbatim as invalid lines.
func Classify(num int, raw string) *Line {
	if strings.TrimSpace(raw) == "" {
		return &Line{Kind: KindBlank, Num: num, Raw: raw}
	}

	if key, value, ok := strings.Cut(raw, ":"); ok {
		return &Line{
			Kind:  KindEntry,
			Num:   num,
			Raw:   raw,
			Key:   strings.TrimSpace(key),
			Value: strings.TrimSpace(value),
		}
	}

	if key, value, ok := strings.Cut(raw, "="); ok {
		return &Line{
			Kind:  KindVariable,
			Num:   num,
			Raw:   raw,
			Key:   strings.TrimSpace(key),
			Value: strings.TrimSpace(value),
		}
	}

	return &Line{Kind: KindInvalid, Num: num, Raw: raw}
}

func (l *Line) IsRequires() bool {
	return l.Kind == KindEntry && strings.HasPrefix(l.Key, "Requires")
}

func (l *Line) IsLibs() bool {
	return l.Kind == KindEntry && strings.HasPrefix(l.Key, "Libs")
}

func (l *Line) IsPrivate() bool {
	return l.Kind == KindEntry && strings.HasSuffix(l.Key, ".private")
}

// Clear turns the line into a blank one while keeping its position, so
// indices into the surrounding file stay valid.
func (l *Line) Clear() {
	l.Kind = KindBlank
	l.Key = ""
	l.Value = ""
	l.Raw = ""
}

// StripRPath removes every whitespace-separated token containing "rpath"
// from the value of a Libs-family entry. The whole token goes, so
// `-Wl,-rpath,/usr/lib` disappears entirely. Idempotent.
func (l *Line) StripRPath() {
	if l.Kind != KindEntry || !strings.HasPrefix(l.Key, "Lib") {
		return
	}
	if !strings.Contains(l.Value, "rpath") {
		return
	}

	var kept []string
	for _, tok := range strings.Fields(l.Value) {
		if strings.Contains(tok, "rpath") {
			continue
		}
		kept = append(kept, tok)
	}
	l.Value = strings.Join(kept, " ")
}

func (l *Line) String() string {
	switch l.Kind {
	case KindBlank:
		return ""
	case KindVariable:
		return l.Key + " = " + l.Value
	case KindEntry:
		return l.Key + ": " + l.Value
	default:
		return l.Raw
	}
}

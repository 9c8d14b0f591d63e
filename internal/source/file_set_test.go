package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolveLineCol(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("a.arrow", []byte("ab\ncde\n\nf"))

	cases := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{1, 1}},
		{1, LineCol{1, 2}},
		{2, LineCol{1, 3}}, // the newline itself
		{3, LineCol{2, 1}},
		{5, LineCol{2, 3}},
		{7, LineCol{3, 1}},
		{8, LineCol{4, 1}},
	}
	for _, tc := range cases {
		got, _ := fs.Resolve(Span{File: id, Start: tc.off, End: tc.off})
		if got != tc.want {
			t.Errorf("offset %d: got %+v, want %+v", tc.off, got, tc.want)
		}
	}
}

func TestFileLine(t *testing.T) {
	fs := NewFileSet()
	f := fs.Get(fs.AddVirtual("a.arrow", []byte("first\nsecond\nthird")))
	want := []string{"", "first", "second", "third", ""}
	for i, w := range want {
		if got := f.Line(uint32(i)); got != w {
			t.Errorf("line %d: got %q, want %q", i, got, w)
		}
	}
}

func TestLoadNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "crlf.arrow")
	if err := os.WriteFile(path, []byte("\xEF\xBB\xBFa\r\nb\r\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	fs := NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	f := fs.Get(id)
	if string(f.Content) != "a\nb\n" {
		t.Fatalf("content = %q", f.Content)
	}
	if !f.Flags.Has(FileHadBOM | FileNormalizedCRLF) {
		t.Fatalf("flags = %b", f.Flags)
	}
	if latest, ok := fs.GetLatest(path); !ok || latest != id {
		t.Fatalf("GetLatest = %d, %v", latest, ok)
	}
}

func TestSpanCoverContains(t *testing.T) {
	a := Span{File: 1, Start: 4, End: 8}
	b := Span{File: 1, Start: 6, End: 12}
	c := a.Cover(b)
	if c.Start != 4 || c.End != 12 {
		t.Fatalf("cover = %v", c)
	}
	if !c.Contains(a) || !c.Contains(b) || a.Contains(b) {
		t.Fatal("contains mismatch")
	}
	if got := a.Cover(Span{File: 2, Start: 0, End: 100}); got != a {
		t.Fatalf("cross-file cover changed span: %v", got)
	}
	if !a.Precedes(b) || b.Precedes(a) {
		t.Fatal("precedes mismatch")
	}
	if a.Before(b) || !a.Before(Span{File: 1, Start: 8, End: 9}) {
		t.Fatal("before mismatch")
	}
}

package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"arrowc/internal/diag"
	"arrowc/internal/source"
)

func setup(t *testing.T) (*source.FileSet, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("main.arrow", []byte("const a = 1\nconst f = () => missing\n"))
	bag := diag.NewBag(10)
	start := uint32(strings.Index("const a = 1\nconst f = () => missing\n", "missing"))
	diag.ReportError(diag.BagReporter{Bag: bag}, diag.ClosureUnresolvableCapture,
		source.Span{File: id, Start: start, End: start + 7}, "cannot resolve captured name 'missing'").
		WithNote(source.Span{File: id, Start: 12, End: 17}, "in this literal").
		Emit()
	return fs, bag
}

func TestPrettyLayout(t *testing.T) {
	fs, bag := setup(t)
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{ShowNotes: true})
	out := buf.String()

	for _, want := range []string{
		"main.arrow:2:17:",
		"ERROR CLO4001 UnresolvableCapture",
		" 2 | const f = () => missing",
		"                 ^~~~~~",
		"note: main.arrow:2:1: in this literal",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestCaretWideRunes(t *testing.T) {
	line := "const 名前 = x"
	col := uint32(strings.Index(line, "x") + 1)
	got := caretLine(line, col, source.LineCol{Line: 1, Col: col + 1}, 1)
	// "const " (6) + two wide runes (4) + " = " (3)
	if want := strings.Repeat(" ", 13) + "^"; got != want {
		t.Fatalf("caret = %q, want %q", got, want)
	}
}

func TestJSONOutput(t *testing.T) {
	fs, bag := setup(t)
	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{IncludePositions: true, IncludeNotes: true}); err != nil {
		t.Fatal(err)
	}
	var doc DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if doc.Count != 1 || len(doc.Diagnostics) != 1 {
		t.Fatalf("count = %d", doc.Count)
	}
	d := doc.Diagnostics[0]
	if d.Name != "UnresolvableCapture" || d.Location.StartLine != 2 || len(d.Notes) != 1 {
		t.Fatalf("unexpected %+v", d)
	}
}

func TestShort(t *testing.T) {
	fs, bag := setup(t)
	var buf bytes.Buffer
	Short(&buf, bag, fs)
	if got := buf.String(); !strings.HasPrefix(got, "main.arrow:2:17: CLO4001 ") {
		t.Fatalf("short = %q", got)
	}
}

package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"arrowc/internal/diag"
	"arrowc/internal/source"
)

type palette struct {
	err, warn, info, loc, caret, note *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:   color.New(color.FgRed, color.Bold),
		warn:  color.New(color.FgYellow, color.Bold),
		info:  color.New(color.FgCyan, color.Bold),
		loc:   color.New(color.Bold),
		caret: color.New(color.FgGreen, color.Bold),
		note:  color.New(color.FgBlue),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.loc, p.caret, p.note} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty renders the bag in a compiler-style layout:
//
//	path:line:col: ERROR CLO4002 ContractMismatch: message
//	   3 |     const f: IntUnaryOperator = (x: long) => x
//	     |                                 ^~~~~~~~~
//	  note: path:line:col: expected here
//
// Items are printed in bag order; call bag.Sort() first for stable output.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	p := newPalette(opts.Color)
	for _, d := range bag.Items() {
		writeOne(w, d, fs, opts, p)
	}
}

func writeOne(w io.Writer, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, p palette) {
	f := fs.Get(d.Primary.File)
	start, end := fs.Resolve(d.Primary)
	path := "<unknown>"
	if f != nil {
		path = f.DisplayPath()
	}
	fmt.Fprintf(w, "%s %s %s: %s\n",
		p.loc.Sprintf("%s:%d:%d:", path, start.Line, start.Col),
		p.severity(d.Severity).Sprintf("%s %s", d.Severity.Tag(), d.Code.ID()),
		d.Code.String(),
		d.Message,
	)
	if f != nil && start.Line > 0 {
		from := start.Line
		if opts.Context > 0 && int(from) > opts.Context {
			from -= uint32(opts.Context)
		} else if opts.Context > 0 {
			from = 1
		}
		gutter := len(fmt.Sprint(start.Line))
		for ln := from; ln <= start.Line; ln++ {
			fmt.Fprintf(w, " %*d | %s\n", gutter, ln, expandTabs(f.Line(ln)))
		}
		line := f.Line(start.Line)
		fmt.Fprintf(w, " %*s | %s\n", gutter, "", p.caret.Sprint(caretLine(line, start.Col, end, start.Line)))
	}
	if !opts.ShowNotes {
		return
	}
	for _, n := range d.Notes {
		ns, _ := fs.Resolve(n.Span)
		nf := fs.Get(n.Span.File)
		npath := "<unknown>"
		if nf != nil {
			npath = nf.DisplayPath()
		}
		fmt.Fprintf(w, "  %s %s:%d:%d: %s\n", p.note.Sprint("note:"), npath, ns.Line, ns.Col, n.Msg)
	}
}

// caretLine builds "   ^~~~" under the span, measuring display width so
// wide runes and tabs keep the caret aligned.
func caretLine(line string, col uint32, end source.LineCol, startLine uint32) string {
	startByte := min(int(col)-1, len(line))
	endByte := len(line)
	if end.Line == startLine {
		endByte = min(int(end.Col)-1, len(line))
	}
	endByte = max(endByte, startByte)
	pad := runewidth.StringWidth(expandTabs(line[:startByte]))
	width := max(runewidth.StringWidth(expandTabs(line[startByte:endByte])), 1)
	return strings.Repeat(" ", pad) + "^" + strings.Repeat("~", width-1)
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", "    ")
}

// Short prints one line per diagnostic: path:line:col: CODE message.
func Short(w io.Writer, bag *diag.Bag, fs *source.FileSet) {
	for _, d := range bag.Items() {
		start, _ := fs.Resolve(d.Primary)
		path := "<unknown>"
		if f := fs.Get(d.Primary.File); f != nil {
			path = f.Path
		}
		fmt.Fprintf(w, "%s:%d:%d: %s %s\n", path, start.Line, start.Col, d.Code.ID(), d.Message)
	}
}

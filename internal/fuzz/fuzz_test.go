package fuzz

import (
	"testing"
	"time"

	"arrowc/internal/ast"
	"arrowc/internal/diag"
	"arrowc/internal/driver"
	"arrowc/internal/lexer"
	"arrowc/internal/parser"
	"arrowc/internal/source"
	"arrowc/internal/testkit"
	"arrowc/internal/token"
)

// compileTimeout bounds one input; exceeding it means a loop in error
// recovery.
const compileTimeout = 5 * time.Second

func FuzzLexerTokens(f *testing.F) {
	addSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clamp(input)
		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("fuzz.arrow", input))

		toks := lexer.New(file, diag.BagReporter{Bag: diag.NewBag(64)}).All()
		if len(toks) == 0 || toks[len(toks)-1].Kind != token.EOF {
			t.Fatalf("token stream does not end in EOF")
		}
		var prev uint32
		for i, tok := range toks {
			if tok.Span.Start < prev || tok.Span.End < tok.Span.Start || int(tok.Span.End) > len(input) {
				t.Fatalf("token %d (%s) has span %v after %d, input %d bytes", i, tok.Kind, tok.Span, prev, len(input))
			}
			prev = tok.Span.Start
		}
	})
}

func FuzzParserNoHang(f *testing.F) {
	addSeeds(f)
	f.Add([]byte("function f( { { {"))
	f.Add([]byte("const g = (a, b => a"))
	f.Add([]byte("class { get( { return () => }"))
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clamp(input)
		done := make(chan struct{})
		go func() {
			defer close(done)
			fs := source.NewFileSet()
			file := fs.Get(fs.AddVirtual("fuzz.arrow", input))
			bag := diag.NewBag(128)
			parser.ParseFile(file, ast.NewBuilder(ast.Hints{}), parser.Options{
				Reporter:  diag.BagReporter{Bag: bag},
				MaxErrors: 128,
			})
		}()
		select {
		case <-done:
		case <-time.After(compileTimeout):
			t.Fatalf("parser hang: %d bytes %q", len(input), truncateForLog(input, 200))
		}
	})
}

// FuzzCompileInvariants runs whole units through closure conversion. Any
// unit that compiles must satisfy the closure invariants.
func FuzzCompileInvariants(f *testing.F) {
	addSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clamp(input)
		u := driver.CompileSource("fuzz.arrow", input, driver.Options{MaxDiagnostics: 64})
		if u.Failed() || u.HIR == nil {
			return
		}
		if err := testkit.CheckUnitInvariants(u.HIR, u.File); err != nil {
			t.Fatalf("invariant violated: %v\ninput: %q", err, truncateForLog(input, 200))
		}
	})
}

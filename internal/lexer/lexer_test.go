package lexer

import (
	"testing"

	"arrowc/internal/diag"
	"arrowc/internal/source"
	"arrowc/internal/token"
)

func lex(t *testing.T, src string) ([]token.Token, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	f := fs.Get(fs.AddVirtual("t.arrow", []byte(src)))
	bag := diag.NewBag(20)
	return New(f, diag.BagReporter{Bag: bag}).All(), bag
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, tk := range toks {
		out[i] = tk.Kind
	}
	return out
}

func TestArrowLiteralTokens(t *testing.T) {
	toks, bag := lex(t, "const f: IntUnaryOperator = (x: int) => x * 2")
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", bag.Codes())
	}
	want := []token.Kind{
		token.KwConst, token.Ident, token.Colon, token.Ident, token.Assign,
		token.LParen, token.Ident, token.Colon, token.Ident, token.RParen,
		token.FatArrow, token.Ident, token.Star, token.IntLit, token.EOF,
	}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: got %s, want %s", i, got[i], want[i])
		}
	}
}

func TestNumbers(t *testing.T) {
	cases := []struct {
		src  string
		kind token.Kind
		text string
	}{
		{"42", token.IntLit, "42"},
		{"1_000", token.IntLit, "1000"},
		{"0x2A", token.IntLit, "0x2A"},
		{"5000000000", token.IntLit, "5000000000"},
		{"7L", token.LongLit, "7"},
		{"2.5", token.DoubleLit, "2.5"},
		{"1e3", token.DoubleLit, "1e3"},
		{"1.5f", token.FloatLit, "1.5"},
		{".5", token.DoubleLit, ".5"},
	}
	for _, tc := range cases {
		toks, bag := lex(t, tc.src)
		if bag.Len() != 0 || toks[0].Kind != tc.kind || toks[0].Text != tc.text {
			t.Errorf("%q: got %s %q (diags %v)", tc.src, toks[0].Kind, toks[0].Text, bag.Codes())
		}
	}
}

func TestStringsAndEscapes(t *testing.T) {
	toks, bag := lex(t, `"a\tb" 'it\'s' "é"`)
	if bag.Len() != 0 {
		t.Fatalf("diags: %v", bag.Codes())
	}
	want := []string{"a\tb", "it's", "é"}
	for i, w := range want {
		if toks[i].Kind != token.StringLit || toks[i].Text != w {
			t.Errorf("string %d: %q", i, toks[i].Text)
		}
	}
}

func TestNewlineBefore(t *testing.T) {
	toks, _ := lex(t, "a\n/* x\n */ b c")
	if toks[0].NewlineBefore || !toks[1].NewlineBefore || toks[2].NewlineBefore {
		t.Fatalf("newline flags: %v %v %v", toks[0].NewlineBefore, toks[1].NewlineBefore, toks[2].NewlineBefore)
	}
}

func TestOperatorsLongestMatch(t *testing.T) {
	toks, _ := lex(t, "a >>>= b === c !== d ... ++e")
	want := []token.Kind{
		token.Ident, token.UShr, token.Assign, token.Ident, token.EqEqEq, token.Ident,
		token.BangEqEq, token.Ident, token.Ellipsis, token.PlusPlus, token.Ident, token.EOF,
	}
	got := kinds(toks)
	for i := range want {
		if i >= len(got) || got[i] != want[i] {
			t.Fatalf("got %v", got)
		}
	}
}

func TestUnicodeIdentNormalized(t *testing.T) {
	// "é" precomposed vs "e" + combining acute
	toks, _ := lex(t, "caf\u00e9 cafe\u0301")
	if toks[0].Text != toks[1].Text {
		t.Fatalf("identifiers differ after normalization: %q vs %q", toks[0].Text, toks[1].Text)
	}
}

func TestLexErrors(t *testing.T) {
	_, bag := lex(t, "\"open\n# /* never closed")
	codes := bag.Codes()
	want := []diag.Code{diag.LexUnterminatedString, diag.LexUnknownChar, diag.LexUnterminatedBlockComment}
	if len(codes) != len(want) {
		t.Fatalf("codes = %v", codes)
	}
	for i := range want {
		if codes[i] != want[i] {
			t.Fatalf("codes = %v", codes)
		}
	}
}

package parser

import (
	"slices"

	"arrowc/internal/diag"
	"arrowc/internal/source"
	"arrowc/internal/token"
)

func (p *Parser) peek() token.Token { return p.peekAt(0) }

func (p *Parser) peekAt(n int) token.Token {
	i := p.pos + n
	if i >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[i]
}

func (p *Parser) at(k token.Kind) bool { return p.peek().Kind == k }

func (p *Parser) atOr(kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.peek().Kind)
}

// advance consumes the current token and records its span.
func (p *Parser) advance() token.Token {
	tok := p.peek()
	if tok.Kind != token.EOF {
		p.pos++
		p.lastSpan = tok.Span
	}
	return tok
}

func (p *Parser) eat(k token.Kind) bool {
	if p.at(k) {
		p.advance()
		return true
	}
	return false
}

// diagSpan points at the current token, or just past the last one at EOF.
func (p *Parser) diagSpan() source.Span {
	tok := p.peek()
	if tok.Kind == token.EOF && p.lastSpan.End > 0 {
		return source.Span{File: p.lastSpan.File, Start: p.lastSpan.End, End: p.lastSpan.End}
	}
	return tok.Span
}

func (p *Parser) expect(k token.Kind, code diag.Code, msg string) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	p.err(code, msg+", got "+describe(p.peek()))
	return token.Token{Kind: token.Invalid, Span: p.diagSpan()}, false
}

// expectIdent accepts identifiers and contextual keywords.
func (p *Parser) expectIdent(what string) (token.Token, bool) {
	if p.peek().IsIdentLike() {
		return p.advance(), true
	}
	p.err(diag.SynExpectIdentifier, "expected "+what+", got "+describe(p.peek()))
	return token.Token{Kind: token.Invalid, Span: p.diagSpan()}, false
}

// memberName accepts any word after '.', keywords included.
func (p *Parser) memberName() (token.Token, bool) {
	tok := p.peek()
	if tok.IsIdentLike() || isKeyword(tok.Kind) {
		return p.advance(), true
	}
	p.err(diag.SynExpectIdentifier, "expected member name, got "+describe(tok))
	return token.Token{Kind: token.Invalid, Span: p.diagSpan()}, false
}

func isKeyword(k token.Kind) bool {
	return k >= token.KwConst && k <= token.KwAs
}

func (p *Parser) err(code diag.Code, msg string) {
	p.report(code, p.diagSpan(), msg)
}

func (p *Parser) report(code diag.Code, sp source.Span, msg string) {
	if p.mute > 0 {
		return
	}
	if p.opts.Enough() {
		return
	}
	p.opts.CurrentErrors++
	diag.ReportError(p.opts.Reporter, code, sp, msg).Emit()
}

// endStmt accepts ';', or an implied terminator before '}', EOF or a line break.
func (p *Parser) endStmt() bool {
	if p.eat(token.Semicolon) {
		return true
	}
	tok := p.peek()
	if tok.Kind == token.RBrace || tok.Kind == token.EOF || tok.NewlineBefore {
		return true
	}
	p.err(diag.SynExpectStatementEnd, "expected ';' or line break, got "+describe(tok))
	return false
}

// resyncStmt skips to a plausible statement boundary, always making progress.
func (p *Parser) resyncStmt(start int) {
	if p.pos == start {
		p.advance()
	}
	for {
		tok := p.peek()
		switch {
		case tok.Kind == token.EOF || tok.Kind == token.RBrace:
			return
		case tok.Kind == token.Semicolon:
			p.advance()
			return
		case tok.NewlineBefore:
			return
		}
		p.advance()
	}
}

// splitGt consumes one '>' from '>', '>>', '>>>' or '>='. Closing
// type-argument lists needs this for Map<K, List<V>>.
func (p *Parser) splitGt() bool {
	tok := &p.toks[p.pos]
	var rest token.Kind
	switch tok.Kind {
	case token.Gt:
		p.advance()
		return true
	case token.Shr:
		rest = token.Gt
	case token.UShr:
		rest = token.Shr
	case token.GtEq:
		rest = token.Assign
	default:
		p.err(diag.SynUnclosedDelimiter, "expected '>', got "+describe(*tok))
		return false
	}
	if p.mute > 0 {
		p.splits = append(p.splits, splitRec{idx: p.pos, tok: *tok})
	}
	p.lastSpan = source.Span{File: tok.Span.File, Start: tok.Span.Start, End: tok.Span.Start + 1}
	tok.Kind = rest
	tok.Span.Start++
	tok.Text = ""
	tok.NewlineBefore = false
	return true
}

func describe(tok token.Token) string {
	switch tok.Kind {
	case token.EOF:
		return "end of file"
	case token.Ident:
		return "'" + tok.Text + "'"
	case token.IntLit, token.LongLit, token.FloatLit, token.DoubleLit:
		return "number " + tok.Text
	case token.StringLit:
		return "string literal"
	}
	return "'" + tok.Kind.String() + "'"
}

type splitRec struct {
	idx int
	tok token.Token
}

// speculate runs fn with diagnostics muted and rewinds afterwards.
// Token splits done by fn are undone as well.
func (p *Parser) speculate(fn func() bool) bool {
	pos, last, nsplit := p.pos, p.lastSpan, len(p.splits)
	p.mute++
	ok := fn()
	p.mute--
	for i := len(p.splits) - 1; i >= nsplit; i-- {
		p.toks[p.splits[i].idx] = p.splits[i].tok
	}
	p.splits = p.splits[:nsplit]
	p.pos, p.lastSpan = pos, last
	return ok
}

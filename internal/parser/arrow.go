package parser

import (
	"arrowc/internal/ast"
	"arrowc/internal/diag"
	"arrowc/internal/token"
)

// isArrowStart decides whether the upcoming tokens begin an arrow literal:
//
//	x => ...        <T>(x: T) => ...
//	(a, b) => ...   (a: int): int => ...
//
// A parenthesised head is found by scanning to the matching ')'.
func (p *Parser) isArrowStart() bool {
	tok := p.peek()
	switch {
	case tok.IsIdentLike():
		return p.peekAt(1).Kind == token.FatArrow
	case tok.Kind == token.Lt:
		return true
	case tok.Kind != token.LParen:
		return false
	}
	end := p.matchParen(p.pos)
	if end < 0 {
		return false
	}
	after := p.toks[min(end+1, len(p.toks)-1)]
	switch after.Kind {
	case token.FatArrow:
		return true
	case token.Colon:
		// `cond ? (x) : y` also has ':' after ')'; require a type and '=>'.
		return p.speculate(func() bool {
			p.pos = end + 2
			return p.parseType().IsValid() && p.at(token.FatArrow)
		})
	}
	return false
}

// matchParen returns the index of the ')' matching the '(' at i, or -1.
func (p *Parser) matchParen(i int) int {
	depth := 0
	for j := i; j < len(p.toks); j++ {
		switch p.toks[j].Kind {
		case token.LParen, token.LBracket, token.LBrace:
			depth++
		case token.RParen, token.RBracket, token.RBrace:
			depth--
			if depth == 0 {
				if p.toks[j].Kind != token.RParen {
					return -1
				}
				return j
			}
		case token.EOF:
			return -1
		}
	}
	return -1
}

func (p *Parser) parseArrow() ast.ExprID {
	start := p.peek().Span
	lit := &ast.FuncLit{}
	var ok bool
	if p.at(token.Lt) {
		if lit.TypeParams, ok = p.parseTypeParams(); !ok {
			return ast.NoExprID
		}
	}
	if p.peek().IsIdentLike() {
		name := p.advance()
		lit.Params = []ast.Param{{Name: name.Text, Span: name.Span}}
	} else if lit.Params, ok = p.parseParams(); !ok {
		return ast.NoExprID
	}
	if p.eat(token.Colon) {
		if lit.Return = p.parseType(); !lit.Return.IsValid() {
			return ast.NoExprID
		}
	}
	arrow, ok := p.expect(token.FatArrow, diag.SynUnexpectedToken, "expected '=>'")
	if !ok {
		return ast.NoExprID
	}
	lit.ArrowSpan = arrow.Span
	if p.at(token.LBrace) {
		if lit.BlockBody = p.parseBlock(); !lit.BlockBody.IsValid() {
			return ast.NoExprID
		}
	} else if lit.ExprBody = p.parseAssign(); !lit.ExprBody.IsValid() {
		return ast.NoExprID
	}
	return p.arenas.NewExpr(ast.ExprFuncLit, start.Cover(p.lastSpan), lit)
}

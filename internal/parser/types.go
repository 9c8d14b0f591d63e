package parser

import (
	"arrowc/internal/ast"
	"arrowc/internal/diag"
	"arrowc/internal/token"
)

// parseType parses a type annotation:
//
//	int | Foo | Function<int, long> | T[] | (a: int, b: int) => int
func (p *Parser) parseType() ast.TypeID {
	var id ast.TypeID
	if p.at(token.LParen) {
		id = p.parseFuncType()
	} else {
		id = p.parseNamedType()
	}
	for id.IsValid() && p.at(token.LBracket) && p.peekAt(1).Kind == token.RBracket && !p.peek().NewlineBefore {
		start := p.arenas.Type(id).Span
		p.advance()
		p.advance()
		id = p.arenas.NewType(ast.TypeExpr{Kind: ast.TypeArray, Span: start.Cover(p.lastSpan), Elem: id})
	}
	return id
}

func (p *Parser) parseNamedType() ast.TypeID {
	tok := p.peek()
	if !tok.IsIdentLike() {
		p.err(diag.SynExpectType, "expected type, got "+describe(tok))
		return ast.NoTypeID
	}
	p.advance()
	name := tok.Text
	for p.at(token.Dot) && p.peekAt(1).IsIdentLike() {
		p.advance()
		name += "." + p.advance().Text
	}
	te := ast.TypeExpr{Kind: ast.TypeName, Name: name}
	if p.at(token.Lt) {
		p.advance()
		for {
			arg := p.parseType()
			if !arg.IsValid() {
				return ast.NoTypeID
			}
			te.Args = append(te.Args, arg)
			if !p.eat(token.Comma) {
				break
			}
		}
		if !p.splitGt() {
			return ast.NoTypeID
		}
	}
	te.Span = tok.Span.Cover(p.lastSpan)
	return p.arenas.NewType(te)
}

// parseFuncType parses `(a: int, int) => R`; parameter names are optional.
func (p *Parser) parseFuncType() ast.TypeID {
	start := p.advance().Span
	te := ast.TypeExpr{Kind: ast.TypeFunc}
	for !p.at(token.RParen) && !p.at(token.EOF) {
		var fp ast.FuncTypeParam
		if p.peek().IsIdentLike() && p.peekAt(1).Kind == token.Colon {
			fp.Name = p.advance().Text
			p.advance()
		}
		if fp.Type = p.parseType(); !fp.Type.IsValid() {
			return ast.NoTypeID
		}
		te.Params = append(te.Params, fp)
		if !p.eat(token.Comma) {
			break
		}
	}
	if _, ok := p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')' in function type"); !ok {
		return ast.NoTypeID
	}
	if _, ok := p.expect(token.FatArrow, diag.SynExpectType, "expected '=>' in function type"); !ok {
		return ast.NoTypeID
	}
	if te.Result = p.parseType(); !te.Result.IsValid() {
		return ast.NoTypeID
	}
	te.Span = start.Cover(p.lastSpan)
	return p.arenas.NewType(te)
}

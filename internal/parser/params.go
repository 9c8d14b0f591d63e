package parser

import (
	"arrowc/internal/ast"
	"arrowc/internal/diag"
	"arrowc/internal/token"
)

// parseParams parses a parenthesised parameter list.
func (p *Parser) parseParams() ([]ast.Param, bool) {
	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '('"); !ok {
		return nil, false
	}
	var params []ast.Param
	for !p.at(token.RParen) && !p.at(token.EOF) {
		param, ok := p.parseParam()
		if !ok {
			return nil, false
		}
		if n := len(params); n > 0 && params[n-1].Rest {
			p.report(diag.SynRestMustBeLast, params[n-1].Span, "rest parameter must be last")
		}
		params = append(params, param)
		if !p.eat(token.Comma) {
			break
		}
	}
	if _, ok := p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')' to close parameters"); !ok {
		return nil, false
	}
	return params, true
}

// parseParam parses `[...]name|pattern [: type] [= default]`.
func (p *Parser) parseParam() (ast.Param, bool) {
	var param ast.Param
	start := p.peek().Span
	param.Rest = p.eat(token.Ellipsis)
	switch {
	case p.atOr(token.LBracket, token.LBrace):
		if param.Pattern = p.parsePattern(); !param.Pattern.IsValid() {
			return param, false
		}
	default:
		name, ok := p.expectIdent("parameter name")
		if !ok {
			return param, false
		}
		param.Name = name.Text
	}
	param.Span = start.Cover(p.lastSpan)
	if p.eat(token.Colon) {
		if param.Type = p.parseType(); !param.Type.IsValid() {
			return param, false
		}
	}
	if p.eat(token.Assign) {
		if param.Default = p.parseAssign(); !param.Default.IsValid() {
			return param, false
		}
	}
	return param, true
}

// parsePattern parses one level of `[a, , ...rest]` or `{a, key: b}`.
func (p *Parser) parsePattern() ast.PatternID {
	open := p.advance()
	pat := ast.Pattern{Kind: ast.PatArray}
	closer := token.RBracket
	if open.Kind == token.LBrace {
		pat.Kind = ast.PatObject
		closer = token.RBrace
	}
	for !p.at(closer) && !p.at(token.EOF) {
		if pat.Kind == ast.PatArray && p.at(token.Comma) {
			pat.Elems = append(pat.Elems, ast.PatternElem{Hole: true, Span: p.peek().Span})
			p.advance()
			continue
		}
		var el ast.PatternElem
		begin := p.peek().Span
		if pat.Kind == ast.PatArray {
			el.Rest = p.eat(token.Ellipsis)
		}
		name, ok := p.expectIdent("binding name")
		if !ok {
			return ast.NoPatternID
		}
		el.Name, el.Key = name.Text, name.Text
		if pat.Kind == ast.PatObject && p.eat(token.Colon) {
			local, ok := p.expectIdent("binding name")
			if !ok {
				return ast.NoPatternID
			}
			el.Name = local.Text
		}
		el.Span = begin.Cover(p.lastSpan)
		if n := len(pat.Elems); n > 0 && pat.Elems[n-1].Rest {
			p.report(diag.SynRestMustBeLast, pat.Elems[n-1].Span, "rest element must be last")
		}
		pat.Elems = append(pat.Elems, el)
		if !p.eat(token.Comma) {
			break
		}
	}
	if _, ok := p.expect(closer, diag.SynUnclosedDelimiter, "expected '"+closer.String()+"' to close pattern"); !ok {
		return ast.NoPatternID
	}
	pat.Span = open.Span.Cover(p.lastSpan)
	return p.arenas.NewPattern(pat)
}

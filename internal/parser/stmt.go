package parser

import (
	"arrowc/internal/ast"
	"arrowc/internal/diag"
	"arrowc/internal/token"
)

// parseBlock parses `{ stmt* }`.
func (p *Parser) parseBlock() ast.StmtID {
	open, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{'")
	if !ok {
		return ast.NoStmtID
	}
	var stmts []ast.StmtID
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		start := p.pos
		id := p.parseStmt()
		if !id.IsValid() {
			p.resyncStmt(start)
			continue
		}
		stmts = append(stmts, id)
	}
	if _, ok := p.expect(token.RBrace, diag.SynUnclosedDelimiter, "expected '}' to close block"); !ok {
		return ast.NoStmtID
	}
	return p.arenas.NewStmt(ast.StmtBlock, open.Span.Cover(p.lastSpan), ast.BlockData{Stmts: stmts})
}

func (p *Parser) parseStmt() ast.StmtID {
	tok := p.peek()
	switch tok.Kind {
	case token.LBrace:
		return p.parseBlock()
	case token.Semicolon:
		p.advance()
		return p.arenas.NewStmt(ast.StmtEmpty, tok.Span, ast.EmptyData{})
	case token.KwConst, token.KwLet, token.KwVar:
		decl := p.parseDecl(true)
		if decl == nil || !p.endStmt() {
			return ast.NoStmtID
		}
		return p.arenas.NewStmt(ast.StmtDecl, tok.Span.Cover(p.lastSpan), decl)
	case token.KwReturn:
		p.advance()
		var val ast.ExprID
		if next := p.peek(); !next.NewlineBefore && !next.Is(token.Semicolon, token.RBrace, token.EOF) {
			if val = p.parseExpr(); !val.IsValid() {
				return ast.NoStmtID
			}
		}
		if !p.endStmt() {
			return ast.NoStmtID
		}
		return p.arenas.NewStmt(ast.StmtReturn, tok.Span.Cover(p.lastSpan), ast.ReturnData{Value: val})
	case token.KwBreak, token.KwContinue:
		p.advance()
		if !p.endStmt() {
			return ast.NoStmtID
		}
		kind := ast.StmtBreak
		if tok.Kind == token.KwContinue {
			kind = ast.StmtContinue
		}
		return p.arenas.NewStmt(kind, tok.Span, ast.EmptyData{})
	case token.KwIf:
		return p.parseIf()
	case token.KwWhile:
		p.advance()
		cond := p.parseParenExpr()
		if !cond.IsValid() {
			return ast.NoStmtID
		}
		body := p.parseStmt()
		if !body.IsValid() {
			return ast.NoStmtID
		}
		return p.arenas.NewStmt(ast.StmtWhile, tok.Span.Cover(p.lastSpan), ast.WhileData{Cond: cond, Body: body})
	case token.KwFor:
		return p.parseFor()
	}
	expr := p.parseExpr()
	if !expr.IsValid() || !p.endStmt() {
		return ast.NoStmtID
	}
	return p.arenas.NewStmt(ast.StmtExpr, p.arenas.Expr(expr).Span, ast.ExprStmtData{Expr: expr})
}

// parseDecl parses `const|let|var name [: T] [= init]`. withInit=false is
// used by for-of heads.
func (p *Parser) parseDecl(withInit bool) *ast.DeclData {
	kw := p.advance()
	decl := &ast.DeclData{Kind: ast.DeclLet}
	switch kw.Kind {
	case token.KwConst:
		decl.Kind = ast.DeclConst
	case token.KwVar:
		decl.Kind = ast.DeclVar
	}
	name, ok := p.expectIdent("variable name")
	if !ok {
		return nil
	}
	decl.Name, decl.NameSpan = name.Text, name.Span
	if p.eat(token.Colon) {
		if decl.Type = p.parseType(); !decl.Type.IsValid() {
			return nil
		}
	}
	if withInit && p.eat(token.Assign) {
		if decl.Init = p.parseExpr(); !decl.Init.IsValid() {
			return nil
		}
	}
	return decl
}

func (p *Parser) parseParenExpr() ast.ExprID {
	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '('"); !ok {
		return ast.NoExprID
	}
	e := p.parseExpr()
	if !e.IsValid() {
		return ast.NoExprID
	}
	if _, ok := p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')'"); !ok {
		return ast.NoExprID
	}
	return e
}

func (p *Parser) parseIf() ast.StmtID {
	start := p.advance().Span
	cond := p.parseParenExpr()
	if !cond.IsValid() {
		return ast.NoStmtID
	}
	then := p.parseStmt()
	if !then.IsValid() {
		return ast.NoStmtID
	}
	var els ast.StmtID
	if p.eat(token.KwElse) {
		if els = p.parseStmt(); !els.IsValid() {
			return ast.NoStmtID
		}
	}
	return p.arenas.NewStmt(ast.StmtIf, start.Cover(p.lastSpan), ast.IfData{Cond: cond, Then: then, Else: els})
}

// parseFor handles both `for (init; cond; update)` and `for (decl of iter)`.
func (p *Parser) parseFor() ast.StmtID {
	start := p.advance().Span
	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after for"); !ok {
		return ast.NoStmtID
	}
	if p.atOr(token.KwConst, token.KwLet, token.KwVar) && p.peekAt(1).IsIdentLike() && p.peekAt(2).Kind == token.KwOf {
		decl := p.parseDecl(false)
		if decl == nil {
			return ast.NoStmtID
		}
		p.advance() // of
		iter := p.parseExpr()
		if !iter.IsValid() {
			return ast.NoStmtID
		}
		if _, ok := p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')'"); !ok {
			return ast.NoStmtID
		}
		body := p.parseStmt()
		if !body.IsValid() {
			return ast.NoStmtID
		}
		data := &ast.ForOfData{Decl: *decl, Iter: iter, Body: body}
		return p.arenas.NewStmt(ast.StmtForOf, start.Cover(p.lastSpan), data)
	}

	var data ast.ForData
	switch {
	case p.at(token.Semicolon):
	case p.atOr(token.KwConst, token.KwLet, token.KwVar):
		begin := p.peek().Span
		decl := p.parseDecl(true)
		if decl == nil {
			return ast.NoStmtID
		}
		data.Init = p.arenas.NewStmt(ast.StmtDecl, begin.Cover(p.lastSpan), decl)
	default:
		e := p.parseExpr()
		if !e.IsValid() {
			return ast.NoStmtID
		}
		data.Init = p.arenas.NewStmt(ast.StmtExpr, p.arenas.Expr(e).Span, ast.ExprStmtData{Expr: e})
	}
	if _, ok := p.expect(token.Semicolon, diag.SynUnexpectedToken, "expected ';' in for header"); !ok {
		return ast.NoStmtID
	}
	if !p.at(token.Semicolon) {
		if data.Cond = p.parseExpr(); !data.Cond.IsValid() {
			return ast.NoStmtID
		}
	}
	if _, ok := p.expect(token.Semicolon, diag.SynUnexpectedToken, "expected ';' in for header"); !ok {
		return ast.NoStmtID
	}
	if !p.at(token.RParen) {
		if data.Update = p.parseExpr(); !data.Update.IsValid() {
			return ast.NoStmtID
		}
	}
	if _, ok := p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')' to close for header"); !ok {
		return ast.NoStmtID
	}
	if data.Body = p.parseStmt(); !data.Body.IsValid() {
		return ast.NoStmtID
	}
	return p.arenas.NewStmt(ast.StmtFor, start.Cover(p.lastSpan), data)
}

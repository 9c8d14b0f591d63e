package parser

import (
	"arrowc/internal/ast"
	"arrowc/internal/diag"
	"arrowc/internal/token"
)

// parseImport parses `import { A, B } from 'module'`.
func (p *Parser) parseImport() ast.ItemID {
	start := p.advance().Span
	if _, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{' after import"); !ok {
		return ast.NoItemID
	}
	decl := &ast.ImportDecl{}
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		name, ok := p.expectIdent("imported name")
		if !ok {
			return ast.NoItemID
		}
		decl.Names = append(decl.Names, ast.ImportName{Name: name.Text, Span: name.Span})
		if !p.eat(token.Comma) {
			break
		}
	}
	if _, ok := p.expect(token.RBrace, diag.SynUnclosedDelimiter, "expected '}'"); !ok {
		return ast.NoItemID
	}
	if _, ok := p.expect(token.KwFrom, diag.SynUnexpectedToken, "expected 'from'"); !ok {
		return ast.NoItemID
	}
	from, ok := p.expect(token.StringLit, diag.SynUnexpectedToken, "expected module string")
	if !ok {
		return ast.NoItemID
	}
	decl.From = from.Text
	p.endStmt()
	return p.arenas.NewItem(ast.ItemImport, start.Cover(p.lastSpan), decl)
}

// parseNamespace parses `namespace a.b { items }`; items inherit the dotted name.
func (p *Parser) parseNamespace() bool {
	p.advance()
	name, ok := p.expectIdent("namespace name")
	if !ok {
		return false
	}
	full := name.Text
	for p.eat(token.Dot) {
		part, ok := p.expectIdent("namespace name")
		if !ok {
			return false
		}
		full += "." + part.Text
	}
	if _, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{' after namespace name"); !ok {
		return false
	}
	outer := p.ns
	if outer != "" {
		full = outer + "." + full
	}
	p.ns = full
	defer func() { p.ns = outer }()
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		start := p.pos
		if !p.parseItem() {
			p.resyncTop(start)
		}
	}
	_, ok = p.expect(token.RBrace, diag.SynUnclosedDelimiter, "expected '}' to close namespace")
	return ok
}

func (p *Parser) parseFuncItem() ast.ItemID {
	start := p.advance().Span
	fn := p.parseFuncRest()
	if fn == nil {
		return ast.NoItemID
	}
	return p.arenas.NewItem(ast.ItemFunc, start.Cover(p.lastSpan), fn)
}

// parseFuncRest parses `name(params)[: type] { body }` of a function or method.
func (p *Parser) parseFuncRest() *ast.FuncDecl {
	name, ok := p.expectIdent("function name")
	if !ok {
		return nil
	}
	fn := &ast.FuncDecl{Name: name.Text, NameSpan: name.Span}
	if fn.Params, ok = p.parseParams(); !ok {
		return nil
	}
	if p.eat(token.Colon) {
		if fn.Return = p.parseType(); !fn.Return.IsValid() {
			return nil
		}
	}
	if fn.Body = p.parseBlock(); !fn.Body.IsValid() {
		return nil
	}
	return fn
}

// parseClass parses a class with fields, methods and an optional constructor.
func (p *Parser) parseClass() ast.ItemID {
	start := p.advance().Span
	name, ok := p.expectIdent("class name")
	if !ok {
		return ast.NoItemID
	}
	decl := &ast.ClassDecl{Name: name.Text, NameSpan: name.Span}
	if p.eat(token.KwImplements) {
		for {
			iface, ok := p.expectIdent("interface name")
			if !ok {
				return ast.NoItemID
			}
			decl.Implements = append(decl.Implements, iface.Text)
			if !p.eat(token.Comma) {
				break
			}
		}
	}
	if _, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{' to open class body"); !ok {
		return ast.NoItemID
	}
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		if p.eat(token.Semicolon) {
			continue
		}
		begin := p.pos
		if !p.parseMember(decl) {
			p.resyncStmt(begin)
		}
	}
	if _, ok := p.expect(token.RBrace, diag.SynUnclosedDelimiter, "expected '}' to close class body"); !ok {
		return ast.NoItemID
	}
	return p.arenas.NewItem(ast.ItemClass, start.Cover(p.lastSpan), decl)
}

func (p *Parser) parseMember(decl *ast.ClassDecl) bool {
	if p.peekAt(1).Kind == token.LParen {
		fn := p.parseFuncRest()
		if fn == nil {
			return false
		}
		decl.Methods = append(decl.Methods, fn)
		return true
	}
	name, ok := p.expectIdent("field or method name")
	if !ok {
		return false
	}
	field := ast.FieldDecl{Name: name.Text, NameSpan: name.Span}
	if p.eat(token.Colon) {
		if field.Type = p.parseType(); !field.Type.IsValid() {
			return false
		}
	}
	if p.eat(token.Assign) {
		if field.Init = p.parseExpr(); !field.Init.IsValid() {
			return false
		}
	}
	decl.Fields = append(decl.Fields, field)
	return p.endStmt()
}

// parseInterface parses `interface Name<T> { method(params): type }`.
func (p *Parser) parseInterface() ast.ItemID {
	start := p.advance().Span
	name, ok := p.expectIdent("interface name")
	if !ok {
		return ast.NoItemID
	}
	decl := &ast.InterfaceDecl{Name: name.Text, NameSpan: name.Span}
	if p.at(token.Lt) {
		if decl.TypeParams, ok = p.parseTypeParams(); !ok {
			return ast.NoItemID
		}
	}
	if _, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{' to open interface body"); !ok {
		return ast.NoItemID
	}
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		if p.eat(token.Semicolon) {
			continue
		}
		begin := p.pos
		m, ok := p.parseMethodSig()
		if !ok {
			p.resyncStmt(begin)
			continue
		}
		decl.Methods = append(decl.Methods, m)
	}
	if _, ok := p.expect(token.RBrace, diag.SynUnclosedDelimiter, "expected '}' to close interface body"); !ok {
		return ast.NoItemID
	}
	return p.arenas.NewItem(ast.ItemInterface, start.Cover(p.lastSpan), decl)
}

func (p *Parser) parseMethodSig() (ast.MethodSig, bool) {
	name, ok := p.expectIdent("method name")
	if !ok {
		return ast.MethodSig{}, false
	}
	m := ast.MethodSig{Name: name.Text, NameSpan: name.Span}
	if m.Params, ok = p.parseParams(); !ok {
		return m, false
	}
	if p.eat(token.Colon) {
		if m.Return = p.parseType(); !m.Return.IsValid() {
			return m, false
		}
	}
	return m, p.endStmt()
}

// parseTypeParams parses `<T, U>`.
func (p *Parser) parseTypeParams() ([]ast.TypeParam, bool) {
	p.advance()
	var out []ast.TypeParam
	for {
		name, ok := p.expectIdent("type parameter")
		if !ok {
			return nil, false
		}
		out = append(out, ast.TypeParam{Name: name.Text, Span: name.Span})
		if !p.eat(token.Comma) {
			break
		}
	}
	return out, p.splitGt()
}

package parser

import (
	"math"
	"strings"

	"arrowc/internal/ast"
	"arrowc/internal/diag"
	"arrowc/internal/source"
	"arrowc/internal/token"
)

func (p *Parser) parseExpr() ast.ExprID { return p.parseAssign() }

// parseAssign handles arrow literals, assignment and the conditional operator.
func (p *Parser) parseAssign() ast.ExprID {
	if p.isArrowStart() {
		return p.parseArrow()
	}
	lhs := p.parseCond()
	if !lhs.IsValid() {
		return ast.NoExprID
	}
	op := p.peek()
	if !op.Kind.IsAssignOp() {
		return lhs
	}
	p.advance()
	if !p.isAssignable(lhs) {
		p.report(diag.SynInvalidAssignTarget, p.arenas.Expr(lhs).Span, "invalid assignment target")
	}
	rhs := p.parseAssign()
	if !rhs.IsValid() {
		return ast.NoExprID
	}
	sp := p.arenas.Expr(lhs).Span.Cover(p.arenas.Expr(rhs).Span)
	return p.arenas.NewExpr(ast.ExprAssign, sp, ast.AssignData{Op: op.Kind, Target: lhs, Value: rhs})
}

func (p *Parser) isAssignable(id ast.ExprID) bool {
	switch p.arenas.Expr(p.arenas.Unparen(id)).Kind {
	case ast.ExprIdent, ast.ExprMember, ast.ExprIndex:
		return true
	}
	return false
}

func (p *Parser) parseCond() ast.ExprID {
	cond := p.parseBinary(precLowest + 1)
	if !cond.IsValid() || !p.at(token.Question) {
		return cond
	}
	p.advance()
	then := p.parseAssign()
	if !then.IsValid() {
		return ast.NoExprID
	}
	if _, ok := p.expect(token.Colon, diag.SynUnexpectedToken, "expected ':' in conditional expression"); !ok {
		return ast.NoExprID
	}
	els := p.parseAssign()
	if !els.IsValid() {
		return ast.NoExprID
	}
	sp := p.arenas.Expr(cond).Span.Cover(p.arenas.Expr(els).Span)
	return p.arenas.NewExpr(ast.ExprCond, sp, ast.CondData{Cond: cond, Then: then, Else: els})
}

// parseBinary is precedence climbing over the left-associative operators.
func (p *Parser) parseBinary(minPrec int) ast.ExprID {
	lhs := p.parseUnary()
	if !lhs.IsValid() {
		return ast.NoExprID
	}
	for {
		op := p.peek()
		prec := binaryPrec(op.Kind)
		if prec < minPrec {
			return lhs
		}
		p.advance()
		if op.Kind == token.KwAs {
			ty := p.parseType()
			if !ty.IsValid() {
				return ast.NoExprID
			}
			sp := p.arenas.Expr(lhs).Span.Cover(p.lastSpan)
			lhs = p.arenas.NewExpr(ast.ExprCast, sp, ast.CastData{Value: lhs, Type: ty})
			continue
		}
		rhs := p.parseBinary(prec + 1)
		if !rhs.IsValid() {
			return ast.NoExprID
		}
		sp := p.arenas.Expr(lhs).Span.Cover(p.arenas.Expr(rhs).Span)
		lhs = p.arenas.NewExpr(ast.ExprBinary, sp, ast.BinaryData{Op: op.Kind, Left: lhs, Right: rhs})
	}
}

func (p *Parser) parseUnary() ast.ExprID {
	tok := p.peek()
	switch tok.Kind {
	case token.Minus:
		// fold a negative numeric literal so that -2147483648 stays an int
		if next := p.peekAt(1); next.Is(token.IntLit, token.LongLit, token.FloatLit, token.DoubleLit) {
			p.advance()
			lit := p.advance()
			return p.numberLit(lit, "-", tok.Span.Cover(lit.Span))
		}
		fallthrough
	case token.Bang, token.Tilde, token.PlusPlus, token.MinusMinus, token.Plus:
		p.advance()
		operand := p.parseUnary()
		if !operand.IsValid() {
			return ast.NoExprID
		}
		if tok.Is(token.PlusPlus, token.MinusMinus) && !p.isAssignable(operand) {
			p.report(diag.SynInvalidAssignTarget, p.arenas.Expr(operand).Span, "invalid increment operand")
		}
		if tok.Kind == token.Plus {
			return operand
		}
		sp := tok.Span.Cover(p.arenas.Expr(operand).Span)
		return p.arenas.NewExpr(ast.ExprUnary, sp, ast.UnaryData{Op: tok.Kind, Operand: operand})
	}
	return p.parsePostfix()
}

// parsePostfix handles calls, member access, indexing and postfix ++/--.
// A '(' or '[' on a new line starts a new statement instead.
func (p *Parser) parsePostfix() ast.ExprID {
	e := p.parsePrimary()
	for e.IsValid() {
		tok := p.peek()
		switch {
		case tok.Kind == token.Dot:
			p.advance()
			name, ok := p.memberName()
			if !ok {
				return ast.NoExprID
			}
			sp := p.arenas.Expr(e).Span.Cover(name.Span)
			e = p.arenas.NewExpr(ast.ExprMember, sp, ast.MemberData{Target: e, Name: name.Text, NameSpan: name.Span})
		case tok.Kind == token.LParen && !tok.NewlineBefore:
			args, ok := p.parseArgs()
			if !ok {
				return ast.NoExprID
			}
			sp := p.arenas.Expr(e).Span.Cover(p.lastSpan)
			e = p.arenas.NewExpr(ast.ExprCall, sp, ast.CallData{Callee: e, Args: args})
		case tok.Kind == token.LBracket && !tok.NewlineBefore:
			p.advance()
			idx := p.parseExpr()
			if !idx.IsValid() {
				return ast.NoExprID
			}
			if _, ok := p.expect(token.RBracket, diag.SynUnclosedDelimiter, "expected ']'"); !ok {
				return ast.NoExprID
			}
			sp := p.arenas.Expr(e).Span.Cover(p.lastSpan)
			e = p.arenas.NewExpr(ast.ExprIndex, sp, ast.IndexData{Target: e, Index: idx})
		case tok.Is(token.PlusPlus, token.MinusMinus) && !tok.NewlineBefore:
			p.advance()
			if !p.isAssignable(e) {
				p.report(diag.SynInvalidAssignTarget, p.arenas.Expr(e).Span, "invalid increment operand")
			}
			sp := p.arenas.Expr(e).Span.Cover(tok.Span)
			e = p.arenas.NewExpr(ast.ExprUnary, sp, ast.UnaryData{Op: tok.Kind, Operand: e, Postfix: true})
		default:
			return e
		}
	}
	return e
}

func (p *Parser) parseArgs() ([]ast.ExprID, bool) {
	p.advance()
	var args []ast.ExprID
	for !p.at(token.RParen) && !p.at(token.EOF) {
		a := p.parseAssign()
		if !a.IsValid() {
			return nil, false
		}
		args = append(args, a)
		if !p.eat(token.Comma) {
			break
		}
	}
	_, ok := p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')' to close arguments")
	return args, ok
}

func (p *Parser) parsePrimary() ast.ExprID {
	tok := p.peek()
	switch tok.Kind {
	case token.Ident, token.KwOf, token.KwFrom, token.KwAs:
		p.advance()
		return p.arenas.NewExpr(ast.ExprIdent, tok.Span, ast.IdentData{Name: tok.Text})
	case token.IntLit, token.LongLit, token.FloatLit, token.DoubleLit:
		p.advance()
		return p.numberLit(tok, "", tok.Span)
	case token.StringLit:
		p.advance()
		return p.arenas.NewExpr(ast.ExprLiteral, tok.Span, ast.LiteralData{Kind: ast.LitString, Text: tok.Text})
	case token.KwTrue, token.KwFalse:
		p.advance()
		return p.arenas.NewExpr(ast.ExprLiteral, tok.Span, ast.LiteralData{Kind: ast.LitBool, Text: tok.Text})
	case token.KwNull:
		p.advance()
		return p.arenas.NewExpr(ast.ExprLiteral, tok.Span, ast.LiteralData{Kind: ast.LitNull, Text: "null"})
	case token.KwThis:
		p.advance()
		return p.arenas.NewExpr(ast.ExprThis, tok.Span, ast.ThisData{})
	case token.KwNew:
		return p.parseNew()
	case token.LParen:
		p.advance()
		inner := p.parseExpr()
		if !inner.IsValid() {
			return ast.NoExprID
		}
		if _, ok := p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')'"); !ok {
			return ast.NoExprID
		}
		return p.arenas.NewExpr(ast.ExprGroup, tok.Span.Cover(p.lastSpan), ast.GroupData{Inner: inner})
	case token.LBracket:
		return p.parseArrayLit()
	case token.LBrace:
		return p.parseObjectLit()
	}
	p.err(diag.SynExpectExpression, "expected expression, got "+describe(tok))
	return ast.NoExprID
}

// numberLit builds a numeric literal; an int that does not fit 32 bits is long.
func (p *Parser) numberLit(tok token.Token, sign string, sp source.Span) ast.ExprID {
	text := sign + tok.Text
	kind := ast.LitInt
	switch tok.Kind {
	case token.LongLit:
		kind = ast.LitLong
	case token.FloatLit:
		kind = ast.LitFloat
	case token.DoubleLit:
		kind = ast.LitDouble
	case token.IntLit:
		hex := strings.HasPrefix(tok.Text, "0x")
		lit := ast.LiteralData{Kind: ast.LitLong, Text: text}
		v, err := lit.IntValue()
		if err != nil {
			p.report(diag.LexBadNumber, sp, "integer literal out of range")
		}
		if (v >= math.MinInt32 && v <= math.MaxInt32) || (hex && sign == "" && v >= 0 && v <= math.MaxUint32) {
			kind = ast.LitInt
		} else {
			kind = ast.LitLong
		}
	}
	return p.arenas.NewExpr(ast.ExprLiteral, sp, ast.LiteralData{Kind: kind, Text: text})
}

func (p *Parser) parseNew() ast.ExprID {
	start := p.advance().Span
	name, ok := p.expectIdent("class name")
	if !ok {
		return ast.NoExprID
	}
	data := ast.NewData{Class: name.Text, ClassSpan: name.Span}
	if p.at(token.LParen) {
		if data.Args, ok = p.parseArgs(); !ok {
			return ast.NoExprID
		}
	}
	return p.arenas.NewExpr(ast.ExprNew, start.Cover(p.lastSpan), data)
}

func (p *Parser) parseArrayLit() ast.ExprID {
	start := p.advance().Span
	var elems []ast.ExprID
	for !p.at(token.RBracket) && !p.at(token.EOF) {
		el := p.parseAssign()
		if !el.IsValid() {
			return ast.NoExprID
		}
		elems = append(elems, el)
		if !p.eat(token.Comma) {
			break
		}
	}
	if _, ok := p.expect(token.RBracket, diag.SynUnclosedDelimiter, "expected ']' to close array literal"); !ok {
		return ast.NoExprID
	}
	return p.arenas.NewExpr(ast.ExprArray, start.Cover(p.lastSpan), ast.ArrayData{Elems: elems})
}

// parseObjectLit parses `{ key: value, "str": value, shorthand }`.
func (p *Parser) parseObjectLit() ast.ExprID {
	start := p.advance().Span
	var fields []ast.ObjectField
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		key := p.peek()
		if !key.IsIdentLike() && key.Kind != token.StringLit && !isKeyword(key.Kind) {
			p.err(diag.SynExpectIdentifier, "expected property name, got "+describe(key))
			return ast.NoExprID
		}
		p.advance()
		f := ast.ObjectField{Key: key.Text, KeySpan: key.Span}
		if p.eat(token.Colon) {
			if f.Value = p.parseAssign(); !f.Value.IsValid() {
				return ast.NoExprID
			}
		} else {
			if key.Kind != token.Ident {
				p.report(diag.SynUnexpectedToken, key.Span, "shorthand property must be an identifier")
			}
			f.Value = p.arenas.NewExpr(ast.ExprIdent, key.Span, ast.IdentData{Name: key.Text})
		}
		fields = append(fields, f)
		if !p.eat(token.Comma) {
			break
		}
	}
	if _, ok := p.expect(token.RBrace, diag.SynUnclosedDelimiter, "expected '}' to close object literal"); !ok {
		return ast.NoExprID
	}
	return p.arenas.NewExpr(ast.ExprObject, start.Cover(p.lastSpan), ast.ObjectData{Fields: fields})
}

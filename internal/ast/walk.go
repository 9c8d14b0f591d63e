package ast

// InspectExpr calls fn for id and, while fn returns true, for every
// expression nested inside it in source order. Function literals are entered
// (parameter defaults first, then the body); fn can return false on the
// literal to stay outside.
func (b *Builder) InspectExpr(id ExprID, fn func(ExprID, *Expr) bool) {
	e := b.Expr(id)
	if e == nil || !fn(id, e) {
		return
	}
	switch d := e.Data.(type) {
	case UnaryData:
		b.InspectExpr(d.Operand, fn)
	case BinaryData:
		b.InspectExpr(d.Left, fn)
		b.InspectExpr(d.Right, fn)
	case AssignData:
		b.InspectExpr(d.Target, fn)
		b.InspectExpr(d.Value, fn)
	case CondData:
		b.InspectExpr(d.Cond, fn)
		b.InspectExpr(d.Then, fn)
		b.InspectExpr(d.Else, fn)
	case CallData:
		b.InspectExpr(d.Callee, fn)
		for _, a := range d.Args {
			b.InspectExpr(a, fn)
		}
	case NewData:
		for _, a := range d.Args {
			b.InspectExpr(a, fn)
		}
	case MemberData:
		b.InspectExpr(d.Target, fn)
	case IndexData:
		b.InspectExpr(d.Target, fn)
		b.InspectExpr(d.Index, fn)
	case ArrayData:
		for _, el := range d.Elems {
			b.InspectExpr(el, fn)
		}
	case ObjectData:
		for _, f := range d.Fields {
			b.InspectExpr(f.Value, fn)
		}
	case CastData:
		b.InspectExpr(d.Value, fn)
	case GroupData:
		b.InspectExpr(d.Inner, fn)
	case *FuncLit:
		for _, p := range d.Params {
			b.InspectExpr(p.Default, fn)
		}
		if d.HasBlockBody() {
			b.InspectStmt(d.BlockBody, fn)
		} else {
			b.InspectExpr(d.ExprBody, fn)
		}
	}
}

// InspectStmt applies InspectExpr to every expression under a statement.
func (b *Builder) InspectStmt(id StmtID, fn func(ExprID, *Expr) bool) {
	s := b.Stmt(id)
	if s == nil {
		return
	}
	switch d := s.Data.(type) {
	case *DeclData:
		b.InspectExpr(d.Init, fn)
	case ExprStmtData:
		b.InspectExpr(d.Expr, fn)
	case ReturnData:
		b.InspectExpr(d.Value, fn)
	case IfData:
		b.InspectExpr(d.Cond, fn)
		b.InspectStmt(d.Then, fn)
		b.InspectStmt(d.Else, fn)
	case WhileData:
		b.InspectExpr(d.Cond, fn)
		b.InspectStmt(d.Body, fn)
	case ForData:
		b.InspectStmt(d.Init, fn)
		b.InspectExpr(d.Cond, fn)
		b.InspectExpr(d.Update, fn)
		b.InspectStmt(d.Body, fn)
	case *ForOfData:
		b.InspectExpr(d.Iter, fn)
		b.InspectStmt(d.Body, fn)
	case BlockData:
		for _, st := range d.Stmts {
			b.InspectStmt(st, fn)
		}
	}
}

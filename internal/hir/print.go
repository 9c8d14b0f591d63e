package hir

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"arrowc/internal/types"
)

// Printer dumps HIR in a stable text form.
type Printer struct {
	w        io.Writer
	interner *types.Interner
	indent   int
	err      error
}

func NewPrinter(w io.Writer, interner *types.Interner) *Printer {
	return &Printer{w: w, interner: interner}
}

// Dump writes the whole unit: classes, functions, then closures by id.
func Dump(w io.Writer, u *Unit) error {
	p := NewPrinter(w, u.Interner)
	p.printf("unit %s\n", u.Name)
	for _, name := range u.Order {
		if c, ok := u.Classes[name]; ok {
			p.PrintClass(c)
			continue
		}
		if f, ok := u.Funcs[name]; ok {
			p.printf("\n")
			p.PrintFunc("func", f)
		}
	}
	for _, c := range u.Closures {
		p.printf("\n")
		p.PrintClosure(c)
	}
	return p.err
}

func (p *Printer) PrintClass(c *Class) {
	p.printf("\nclass %s {\n", c.Name)
	p.indent++
	for _, f := range c.Fields {
		p.printIndent()
		p.printf("field %s: %s\n", f.Name, p.typeStr(f.Type))
		if f.Init != nil {
			p.printIndent()
			p.PrintFunc("init", f.Init)
		}
	}
	names := make([]string, 0, len(c.Methods))
	for name := range c.Methods {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		p.printIndent()
		p.PrintFunc("method", c.Methods[name])
	}
	p.indent--
	p.printf("}\n")
}

// PrintFunc prints "kind name(params) -> result { body }".
func (p *Printer) PrintFunc(kind string, f *Func) {
	p.printf("%s %s(", kind, f.Name)
	for i, id := range f.Params {
		if i > 0 {
			p.printf(", ")
		}
		if f.Rest && i == len(f.Params)-1 {
			p.printf("...")
		}
		p.printLocalDecl(f, id)
	}
	p.printf(") -> %s {\n", p.typeStr(f.Result))
	p.indent++
	p.printBlock(f, f.Body)
	p.indent--
	p.printIndent()
	p.printf("}\n")
}

func (p *Printer) PrintClosure(c *Closure) {
	p.printf("closure #%d %s", c.ID, c.Name)
	if c.Contract != nil {
		p.printf(" implements %s.%s", c.Contract.Label(p.interner), c.Method())
	}
	p.printf(" (in %s)\n", c.Member)
	p.indent++
	for i, s := range c.Slots {
		p.printIndent()
		p.printf("slot %d %s: %s %s\n", i, s.Name, p.typeStr(s.Type), s.Kind)
	}
	if c.Self >= 0 {
		p.printIndent()
		p.printf("self slot %d\n", c.Self)
	}
	p.printIndent()
	p.PrintFunc("body", c.Func)
	p.indent--
}

func (p *Printer) printLocalDecl(f *Func, id LocalID) {
	l := f.Local(id)
	if l == nil {
		p.printf("<bad local %d>", id)
		return
	}
	box := ""
	if l.Boxed {
		box = " boxed"
	}
	p.printf("%s#%d: %s%s", l.Name, id, p.typeStr(l.Type), box)
}

func (p *Printer) printBlock(f *Func, b *Block) {
	if b == nil {
		return
	}
	for i := range b.Stmts {
		p.printStmt(f, &b.Stmts[i])
	}
}

func (p *Printer) printNested(f *Func, head string, b *Block) {
	p.printf("%s {\n", head)
	p.indent++
	p.printBlock(f, b)
	p.indent--
	p.printIndent()
	p.printf("}")
}

func (p *Printer) printStmt(f *Func, s *Stmt) {
	p.printIndent()
	switch d := s.Data.(type) {
	case LetData:
		p.printf("let ")
		p.printLocalDecl(f, d.Local)
		if d.Value != nil {
			p.printf(" = %s", p.expr(d.Value))
		}
	case ExprStmtData:
		p.printf("%s", p.expr(d.Expr))
	case IfData:
		p.printNested(f, "if "+p.expr(d.Cond), d.Then)
		if d.Else != nil {
			p.printNested(f, " else", d.Else)
		}
	case WhileData:
		p.printNested(f, "while "+p.expr(d.Cond), d.Body)
	case ForData:
		p.printNested(f, "for init", d.Init)
		cond := "true"
		if d.Cond != nil {
			cond = p.expr(d.Cond)
		}
		update := ""
		if d.Update != nil {
			update = p.expr(d.Update)
		}
		p.printNested(f, fmt.Sprintf(" cond %s; update %s", cond, update), d.Body)
	case ForOfData:
		var sb strings.Builder
		sb.WriteString("for ")
		l := f.Local(d.Local)
		if l != nil {
			fmt.Fprintf(&sb, "%s#%d", l.Name, d.Local)
		}
		sb.WriteString(" of " + p.expr(d.Iter))
		p.printNested(f, sb.String(), d.Body)
	case ReturnData:
		p.printf("return")
		if d.Value != nil {
			p.printf(" %s", p.expr(d.Value))
		}
	case BreakData:
		p.printf("break")
	case ContinueData:
		p.printf("continue")
	case BlockStmtData:
		p.printNested(f, "block", d.Block)
	case PatchSelfData:
		p.printf("patch-self %s slot %d", p.expr(d.Target), d.Slot)
	case DefaultData:
		name := "?"
		if l := f.Local(d.Local); l != nil {
			name = l.Name
		}
		p.printf("default %s#%d = %s", name, d.Local, p.expr(d.Value))
	default:
		p.printf("<%s>", s.Kind)
	}
	p.printf("\n")
}

func (p *Printer) exprs(list []*Expr) string {
	parts := make([]string, len(list))
	for i, e := range list {
		if e == nil {
			parts[i] = "_"
		} else {
			parts[i] = p.expr(e)
		}
	}
	return strings.Join(parts, ", ")
}

func (p *Printer) expr(e *Expr) string {
	if e == nil {
		return "<nil>"
	}
	switch d := e.Data.(type) {
	case ConstData:
		return p.constStr(e, d)
	case LocalData:
		if d.Ref {
			return "&" + d.Name
		}
		return d.Name
	case CaptureData:
		s := fmt.Sprintf("$%d.%s", d.Slot, d.Name)
		if d.Ref {
			s = "&" + s
		}
		return s
	case SelfRefData:
		return fmt.Sprintf("$%d.self", d.Slot)
	case ThisData:
		return "this"
	case FieldData:
		return p.expr(d.Object) + "." + d.Name
	case UnaryData:
		return "(" + d.Op.String() + p.expr(d.Operand) + ")"
	case BinaryData:
		return fmt.Sprintf("(%s %s %s)", p.expr(d.Left), d.Op, p.expr(d.Right))
	case LogicalData:
		return fmt.Sprintf("(%s %s %s)", p.expr(d.Left), d.Op, p.expr(d.Right))
	case CondData:
		return fmt.Sprintf("(%s ? %s : %s)", p.expr(d.Cond), p.expr(d.Then), p.expr(d.Else))
	case ConvertData:
		return fmt.Sprintf("(%s)%s", p.typeStr(e.Type), p.expr(d.Value))
	case CallData:
		return fmt.Sprintf("%s(%s)", d.Func, p.exprs(d.Args))
	case InvokeData:
		return fmt.Sprintf("%s.%s(%s)", p.expr(d.Target), d.Method, p.exprs(d.Args))
	case MethodCallData:
		return fmt.Sprintf("%s.%s::%s(%s)", p.expr(d.Recv), d.Class, d.Method, p.exprs(d.Args))
	case NewData:
		return fmt.Sprintf("new %s(%s)", d.Class, p.exprs(d.Args))
	case MakeClosureData:
		return fmt.Sprintf("closure#%d[%s]", d.Closure, p.exprs(d.Captures))
	case IndexData:
		return fmt.Sprintf("%s[%s]", p.expr(d.Target), p.expr(d.Index))
	case ArrayLitData:
		return "[" + p.exprs(d.Elems) + "]"
	case MapLitData:
		parts := make([]string, len(d.Keys))
		for i, k := range d.Keys {
			parts[i] = strconv.Quote(k) + ": " + p.expr(d.Values[i])
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case AssignData:
		switch {
		case d.Value == nil && d.Postfix:
			return "(" + p.expr(d.Target) + d.Op.String() + ")"
		case d.Value == nil:
			return "(" + d.Op.String() + p.expr(d.Target) + ")"
		}
		return fmt.Sprintf("(%s %s %s)", p.expr(d.Target), d.Op, p.expr(d.Value))
	case IntrinsicData:
		return fmt.Sprintf("@%s(%s)", d.Name, p.exprs(d.Args))
	}
	return "<" + e.Kind.String() + ">"
}

func (p *Printer) constStr(e *Expr, d ConstData) string {
	switch d.Kind {
	case ConstNull:
		return "null"
	case ConstBool:
		return strconv.FormatBool(d.Bool)
	case ConstInt:
		s := strconv.FormatInt(d.Int, 10)
		if p.interner != nil && p.interner.KindOf(e.Type) == types.KindLong {
			s += "L"
		}
		return s
	case ConstFloat:
		s := strconv.FormatFloat(d.Float, 'g', -1, 64)
		if p.interner != nil && p.interner.KindOf(e.Type) == types.KindFloat {
			s += "f"
		} else if !strings.ContainsAny(s, ".eE") {
			s += ".0"
		}
		return s
	case ConstString:
		return strconv.Quote(d.String)
	}
	return "?"
}

func (p *Printer) typeStr(id types.TypeID) string {
	if p.interner == nil {
		return "#" + strconv.FormatUint(uint64(id), 10)
	}
	return p.interner.Label(id)
}

func (p *Printer) printIndent() {
	p.printf("%s", strings.Repeat("  ", p.indent))
}

func (p *Printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}


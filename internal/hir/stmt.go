package hir

import "arrowc/internal/source"

// StmtKind enumerates HIR statement kinds.
type StmtKind uint8

const (
	// StmtLet introduces a local; a boxed local gets a fresh box.
	StmtLet StmtKind = iota + 1
	StmtExpr
	StmtIf
	StmtWhile
	StmtFor
	StmtForOf
	StmtReturn
	StmtBreak
	StmtContinue
	StmtBlock
	// StmtPatchSelf stores a just-created closure into its own self slot.
	StmtPatchSelf
	// StmtDefault assigns a parameter its default when the caller left it out.
	StmtDefault
)

func (k StmtKind) String() string {
	switch k {
	case StmtLet:
		return "Let"
	case StmtExpr:
		return "Expr"
	case StmtIf:
		return "If"
	case StmtWhile:
		return "While"
	case StmtFor:
		return "For"
	case StmtForOf:
		return "ForOf"
	case StmtReturn:
		return "Return"
	case StmtBreak:
		return "Break"
	case StmtContinue:
		return "Continue"
	case StmtBlock:
		return "Block"
	case StmtPatchSelf:
		return "PatchSelf"
	case StmtDefault:
		return "Default"
	default:
		return "Unknown"
	}
}

type Stmt struct {
	Kind StmtKind
	Span source.Span
	Data StmtData
}

type StmtData interface {
	stmtData()
}

type LetData struct {
	Local LocalID
	Value *Expr // nil leaves the type's zero value
}

type ExprStmtData struct {
	Expr *Expr
}

type IfData struct {
	Cond *Expr
	Then *Block
	Else *Block // nil without else
}

type WhileData struct {
	Cond *Expr
	Body *Block
}

type ForData struct {
	Init   *Block // runs once, its locals scoped to the loop
	Cond   *Expr  // nil loops forever
	Update *Expr
	Body   *Block
}

type ForOfData struct {
	Local LocalID
	Iter  *Expr
	Body  *Block
}

type ReturnData struct {
	Value *Expr
}

type BlockStmtData struct {
	Block *Block
}

// PatchSelfData sets slot Slot of the closure that Target evaluates to.
type PatchSelfData struct {
	Target *Expr
	Slot   int
}

type DefaultData struct {
	Local LocalID
	Value *Expr
}

type BreakData struct{}

type ContinueData struct{}

func (LetData) stmtData()       {}
func (ExprStmtData) stmtData()  {}
func (IfData) stmtData()        {}
func (WhileData) stmtData()     {}
func (ForData) stmtData()       {}
func (ForOfData) stmtData()     {}
func (ReturnData) stmtData()    {}
func (BlockStmtData) stmtData() {}
func (PatchSelfData) stmtData() {}
func (DefaultData) stmtData()   {}
func (BreakData) stmtData()     {}
func (ContinueData) stmtData()  {}

// Block is a sequence of statements.
type Block struct {
	Stmts []Stmt
	Span  source.Span
}

func (b *Block) IsEmpty() bool {
	return b == nil || len(b.Stmts) == 0
}

func (b *Block) Append(kind StmtKind, sp source.Span, data StmtData) {
	b.Stmts = append(b.Stmts, Stmt{Kind: kind, Span: sp, Data: data})
}

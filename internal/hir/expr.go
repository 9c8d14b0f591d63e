package hir

import (
	"arrowc/internal/source"
	"arrowc/internal/token"
	"arrowc/internal/types"
)

// ExprKind enumerates HIR expression kinds.
type ExprKind uint8

const (
	ExprConst ExprKind = iota + 1
	// ExprLocal reads a frame variable, unboxing it if it is boxed.
	ExprLocal
	// ExprCapture reads a closure slot, unboxing SharedMutableBox slots.
	ExprCapture
	// ExprSelfRef reads the SelfRecursiveRef slot.
	ExprSelfRef
	ExprThis
	ExprField
	ExprUnary
	ExprBinary
	ExprLogical
	ExprCond
	// ExprConvert is a primitive widening or narrowing to Expr.Type.
	ExprConvert
	// ExprCall calls a top-level function.
	ExprCall
	// ExprInvoke calls a closure through its contract method.
	ExprInvoke
	ExprMethodCall
	ExprNew
	ExprMakeClosure
	ExprIndex
	ExprArrayLit
	ExprMapLit
	ExprAssign
	ExprIntrinsic
)

func (k ExprKind) String() string {
	switch k {
	case ExprConst:
		return "Const"
	case ExprLocal:
		return "Local"
	case ExprCapture:
		return "Capture"
	case ExprSelfRef:
		return "SelfRef"
	case ExprThis:
		return "This"
	case ExprField:
		return "Field"
	case ExprUnary:
		return "Unary"
	case ExprBinary:
		return "Binary"
	case ExprLogical:
		return "Logical"
	case ExprCond:
		return "Cond"
	case ExprConvert:
		return "Convert"
	case ExprCall:
		return "Call"
	case ExprInvoke:
		return "Invoke"
	case ExprMethodCall:
		return "MethodCall"
	case ExprNew:
		return "New"
	case ExprMakeClosure:
		return "MakeClosure"
	case ExprIndex:
		return "Index"
	case ExprArrayLit:
		return "ArrayLit"
	case ExprMapLit:
		return "MapLit"
	case ExprAssign:
		return "Assign"
	case ExprIntrinsic:
		return "Intrinsic"
	default:
		return "Unknown"
	}
}

type Expr struct {
	Kind ExprKind
	Type types.TypeID
	Span source.Span
	Data ExprData
}

type ExprData interface {
	exprData()
}

type ConstKind uint8

const (
	ConstNull ConstKind = iota
	ConstBool
	ConstInt // every integral type; Expr.Type tells which
	ConstFloat
	ConstString
)

type ConstData struct {
	Kind   ConstKind
	Int    int64
	Float  float64
	Bool   bool
	String string
}

// LocalData reads a frame variable. With Ref set on a boxed local the
// box itself is produced, to be stored into a SharedMutableBox slot.
type LocalData struct {
	Local LocalID
	Name  string
	Ref   bool
}

type CaptureData struct {
	Slot  int
	Name  string
	Boxed bool
	Ref   bool
}

type SelfRefData struct {
	Slot int
}

type ThisData struct{}

type FieldData struct {
	Object *Expr
	Name   string
}

type UnaryData struct {
	Op      token.Kind // Minus, Bang, Tilde
	Operand *Expr
}

// BinaryData is arithmetic, bitwise, shift or comparison. Operands are
// already converted to OpType; string concatenation has OpType string.
type BinaryData struct {
	Op     token.Kind
	Left   *Expr
	Right  *Expr
	OpType types.TypeID
}

type LogicalData struct {
	Op    token.Kind // AndAnd or OrOr
	Left  *Expr
	Right *Expr
}

type CondData struct {
	Cond, Then, Else *Expr
}

type ConvertData struct {
	Value *Expr
}

type CallData struct {
	Func string
	Args []*Expr
}

// InvokeData calls Method of the contract implemented by Target.
type InvokeData struct {
	Target *Expr
	Method string
	Args   []*Expr
}

type MethodCallData struct {
	Recv   *Expr
	Class  string
	Method string
	Args   []*Expr
}

type NewData struct {
	Class string
	Args  []*Expr
}

// MakeClosureData instantiates closure Closure. Captures holds one value
// per slot, in slot order; the self slot is nil and filled by PatchSelf.
type MakeClosureData struct {
	Closure  ClosureID
	Captures []*Expr
}

type IndexData struct {
	Target *Expr
	Index  *Expr
}

type ArrayLitData struct {
	Elems []*Expr
}

type MapLitData struct {
	Keys   []string
	Values []*Expr
}

// AssignData stores into Target (Local, Capture, Field or Index). Op is
// Assign, a compound assignment, or PlusPlus/MinusMinus with Value nil.
// Compound forms compute in OpType and convert back to the target type.
type AssignData struct {
	Op      token.Kind
	Target  *Expr
	Value   *Expr
	OpType  types.TypeID
	Postfix bool
}

type IntrinsicData struct {
	Name string
	Args []*Expr
}

func (ConstData) exprData()       {}
func (LocalData) exprData()       {}
func (CaptureData) exprData()     {}
func (SelfRefData) exprData()     {}
func (ThisData) exprData()        {}
func (FieldData) exprData()       {}
func (UnaryData) exprData()       {}
func (BinaryData) exprData()      {}
func (LogicalData) exprData()     {}
func (CondData) exprData()        {}
func (ConvertData) exprData()     {}
func (CallData) exprData()        {}
func (InvokeData) exprData()      {}
func (MethodCallData) exprData()  {}
func (NewData) exprData()         {}
func (MakeClosureData) exprData() {}
func (IndexData) exprData()       {}
func (ArrayLitData) exprData()    {}
func (MapLitData) exprData()      {}
func (AssignData) exprData()      {}
func (IntrinsicData) exprData()   {}

package compiler

// The Python AST printed by this package. The front end hands the tree over
// already type-checked, with every identifier already valid Python; nothing
// here is mutated after construction.

// Location ties a node to its position in the original source. It only feeds
// the source map and never affects what is printed.
type Location struct {
	StartLine   int
	StartColumn int
	EndLine     int
	EndColumn   int
	Name        string // identifier name, if the node binds one
}

type Module struct {
	Body []Stmt
}

//
// Statements
//

type Stmt interface {
	stmtNode()
	Location() *Location
}

type stmt struct {
	Loc *Location
}

func (s stmt) stmtNode()           {}
func (s stmt) Location() *Location { return s.Loc }

// SetLocation attaches the original-source position. The front end calls this
// right after constructing a node; nothing reads it except the source map.
func (s *stmt) SetLocation(loc *Location) { s.Loc = loc }

type Param struct {
	Name       string
	Annotation Expr // optional
	Default    Expr // optional
}

type FunctionDef struct {
	stmt
	Name       string
	Params     []Param
	Body       []Stmt
	Decorators []Expr
	Returns    Expr // optional return-type annotation
}

type ClassDef struct {
	stmt
	Name       string
	Bases      []Expr
	Body       []Stmt
	Decorators []Expr
}

type If struct {
	stmt
	Test   Expr
	Body   []Stmt
	Orelse []Stmt
}

type For struct {
	stmt
	Target Expr
	Iter   Expr
	Body   []Stmt
}

type While struct {
	stmt
	Test Expr
	Body []Stmt
}

type ExceptHandler struct {
	Type Expr   // optional exception class
	Name string // optional "as" binding
	Body []Stmt
	Loc  *Location
}

type Try struct {
	stmt
	Body      []Stmt
	Handlers  []ExceptHandler
	Orelse    []Stmt
	Finalbody []Stmt
}

// Alias is one (name, optional alias) pair of an import statement.
type Alias struct {
	Name   string
	AsName string // optional
}

type Import struct {
	stmt
	Names []Alias
}

type ImportFrom struct {
	stmt
	Module string
	Names  []Alias
}

type Assign struct {
	stmt
	Targets []Expr
	Value   Expr
}

type Return struct {
	stmt
	Value Expr // optional
}

type Raise struct {
	stmt
	Exc Expr // optional
}

type ExprStmt struct {
	stmt
	Value Expr
}

type Pass struct{ stmt }
type Break struct{ stmt }
type Continue struct{ stmt }

type Global struct {
	stmt
	Names []string
}

type NonLocal struct {
	stmt
	Names []string
}

//
// Expressions
//

type Expr interface {
	exprNode()
	Location() *Location
}

type expr struct {
	Loc *Location
}

func (e expr) exprNode()           {}
func (e expr) Location() *Location { return e.Loc }

func (e *expr) SetLocation(loc *Location) { e.Loc = loc }

type Name struct {
	expr
	Id string
}

// ConstantKind tags the scalar payload of a Constant.
type ConstantKind int

const (
	ConstNone ConstantKind = iota
	ConstBool
	ConstString
	ConstInt
	ConstFloat
)

type Constant struct {
	expr
	Kind  ConstantKind
	Bool  bool
	Str   string
	Int   int64
	Float float64
}

type Keyword struct {
	Name  string
	Value Expr
}

type Call struct {
	expr
	Func     Expr
	Args     []Expr
	Keywords []Keyword
}

type Attribute struct {
	expr
	Value Expr
	Attr  string
}

type Subscript struct {
	expr
	Value Expr
	Index Expr
}

type BinOp struct {
	expr
	Left  Expr
	Op    BinOperator
	Right Expr
}

type UnaryOp struct {
	expr
	Op      UnaryOperator
	Operand Expr
}

type BoolOp struct {
	expr
	Op     BoolOperator
	Values []Expr
}

type Compare struct {
	expr
	Left  Expr
	Op    CompareOperator
	Right Expr
}

type IfExp struct {
	expr
	Test   Expr
	Body   Expr
	Orelse Expr
}

type Lambda struct {
	expr
	Params []Param
	Body   Expr
}

type TupleExpr struct {
	expr
	Elts []Expr
}

type ListExpr struct {
	expr
	Elts []Expr
}

type DictExpr struct {
	expr
	Keys   []Expr
	Values []Expr
}

type SetExpr struct {
	expr
	Elts []Expr
}

// NamedExpr is the assignment expression `(target := value)`.
type NamedExpr struct {
	expr
	Target Expr
	Value  Expr
}

// Emit carries a raw Python template plus the argument expressions captured
// at its call site. See emitmacro.go for the placeholder grammar.
type Emit struct {
	expr
	Macro string
	Args  []Expr
}

// Unsupported is the front end's placeholder for a construct it could not
// lower. Printing one is a translation failure under the strict policy.
type Unsupported struct {
	expr
	Reason string
}

//
// Operators
//

// Each operator has exactly one textual rendering; the printer never computes
// precedence, it parenthesizes operands conservatively instead.

type BinOperator int

const (
	BinAdd BinOperator = iota
	BinSub
	BinMult
	BinDiv
	BinFloorDiv
	BinMod
	BinPow
	BinLShift
	BinRShift
	BinBitOr
	BinBitXor
	BinBitAnd
)

func (op BinOperator) String() string {
	switch op {
	case BinAdd:
		return "+"
	case BinSub:
		return "-"
	case BinMult:
		return "*"
	case BinDiv:
		return "/"
	case BinFloorDiv:
		return "//"
	case BinMod:
		return "%"
	case BinPow:
		return "**"
	case BinLShift:
		return "<<"
	case BinRShift:
		return ">>"
	case BinBitOr:
		return "|"
	case BinBitXor:
		return "^"
	case BinBitAnd:
		return "&"
	}
	return "?"
}

type UnaryOperator int

const (
	UnaryNeg UnaryOperator = iota
	UnaryPos
	UnaryInvert
	UnaryNot
)

func (op UnaryOperator) String() string {
	switch op {
	case UnaryNeg:
		return "-"
	case UnaryPos:
		return "+"
	case UnaryInvert:
		return "~"
	case UnaryNot:
		return "not "
	}
	return "?"
}

type BoolOperator int

const (
	BoolAnd BoolOperator = iota
	BoolOr
)

func (op BoolOperator) String() string {
	if op == BoolAnd {
		return "and"
	}
	return "or"
}

type CompareOperator int

const (
	CmpEq CompareOperator = iota
	CmpNotEq
	CmpLt
	CmpLtE
	CmpGt
	CmpGtE
	CmpIs
	CmpIsNot
	CmpIn
	CmpNotIn
)

func (op CompareOperator) String() string {
	switch op {
	case CmpEq:
		return "=="
	case CmpNotEq:
		return "!="
	case CmpLt:
		return "<"
	case CmpLtE:
		return "<="
	case CmpGt:
		return ">"
	case CmpGtE:
		return ">="
	case CmpIs:
		return "is"
	case CmpIsNot:
		return "is not"
	case CmpIn:
		return "in"
	case CmpNotIn:
		return "not in"
	}
	return "?"
}

//
// Construction helpers
//

func NewName(id string) *Name               { return &Name{Id: id} }
func NewNameAt(id string, loc *Location) *Name {
	return &Name{expr: expr{Loc: loc}, Id: id}
}

func NoneConst() *Constant          { return &Constant{Kind: ConstNone} }
func BoolConst(b bool) *Constant    { return &Constant{Kind: ConstBool, Bool: b} }
func StrConst(s string) *Constant   { return &Constant{Kind: ConstString, Str: s} }
func IntConst(i int64) *Constant    { return &Constant{Kind: ConstInt, Int: i} }
func FloatConst(f float64) *Constant {
	return &Constant{Kind: ConstFloat, Float: f}
}

func NewCall(fn Expr, args ...Expr) *Call { return &Call{Func: fn, Args: args} }

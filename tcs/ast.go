package tcs

// Expression is a node of the syntax tree. Everything in TurtlicoScript is an
// expression, including definitions and control flow.
type Expression interface {
	Span() Span
	exprNode()
}

type BinaryOp int

const (
	OpMultiply BinaryOp = iota
	OpDivide
	OpAdd
	OpSubtract
	OpEq
	OpNeq
	OpLt
	OpGt
	OpLte
	OpGte
)

var binaryOpSymbols = [...]string{
	OpMultiply: "*",
	OpDivide:   "/",
	OpAdd:      "+",
	OpSubtract: "-",
	OpEq:       "==",
	OpNeq:      "!=",
	OpLt:       "<",
	OpGt:       ">",
	OpLte:      "<=",
	OpGte:      ">=",
}

func (op BinaryOp) String() string {
	if int(op) < len(binaryOpSymbols) {
		return binaryOpSymbols[op]
	}
	return "?"
}

type CallExpr struct {
	Callee Expression
	Args   []Expression
	span   Span
}

func (e *CallExpr) exprNode()  {}
func (e *CallExpr) Span() Span { return e.span }

type AssignExpr struct {
	Target Expression
	Value  Expression
	span   Span
}

func (e *AssignExpr) exprNode()  {}
func (e *AssignExpr) Span() Span { return e.span }

type ObjectEntry struct {
	Key   Expression
	Value Expression
}

type ObjectExpr struct {
	Entries []ObjectEntry
	span    Span
}

func (e *ObjectExpr) exprNode()  {}
func (e *ObjectExpr) Span() Span { return e.span }

type ReturnExpr struct {
	Value Expression
	span  Span
}

func (e *ReturnExpr) exprNode()  {}
func (e *ReturnExpr) Span() Span { return e.span }

type BreakExpr struct {
	span Span
}

func (e *BreakExpr) exprNode()  {}
func (e *BreakExpr) Span() Span { return e.span }

type IfExpr struct {
	Condition Expression
	Body      Expression
	span      Span
}

func (e *IfExpr) exprNode()  {}
func (e *IfExpr) Span() Span { return e.span }

// LoopExpr runs Body Count times.
type LoopExpr struct {
	Count Expression
	Body  Expression
	span  Span
}

func (e *LoopExpr) exprNode()  {}
func (e *LoopExpr) Span() Span { return e.span }

// ForeverExpr runs Body until a break or return.
type ForeverExpr struct {
	Body Expression
	span Span
}

func (e *ForeverExpr) exprNode()  {}
func (e *ForeverExpr) Span() Span { return e.span }

type ForExpr struct {
	Var   string
	Start Expression
	End   Expression
	// Step is nil when the loop counts by one.
	Step Expression
	Body Expression
	span Span
}

func (e *ForExpr) exprNode()  {}
func (e *ForExpr) Span() Span { return e.span }

type WhileExpr struct {
	Condition Expression
	Body      Expression
	span      Span
}

func (e *WhileExpr) exprNode()  {}
func (e *WhileExpr) Span() Span { return e.span }

type FnDefExpr struct {
	Name   string
	Params []string
	Body   Expression
	span   Span
}

func (e *FnDefExpr) exprNode()  {}
func (e *FnDefExpr) Span() Span { return e.span }

type NegationExpr struct {
	Operand Expression
	span    Span
}

func (e *NegationExpr) exprNode()  {}
func (e *NegationExpr) Span() Span { return e.span }

type BinaryExpr struct {
	Op    BinaryOp
	Left  Expression
	Right Expression
	span  Span
}

func (e *BinaryExpr) exprNode()  {}
func (e *BinaryExpr) Span() Span { return e.span }

type IntLiteral struct {
	Value int32
	span  Span
}

func (e *IntLiteral) exprNode()  {}
func (e *IntLiteral) Span() Span { return e.span }

type FloatLiteral struct {
	Value float64
	span  Span
}

func (e *FloatLiteral) exprNode()  {}
func (e *FloatLiteral) Span() Span { return e.span }

type StringLiteral struct {
	Value string
	span  Span
}

func (e *StringLiteral) exprNode()  {}
func (e *StringLiteral) Span() Span { return e.span }

type ImageLiteral struct {
	Value string
	span  Span
}

func (e *ImageLiteral) exprNode()  {}
func (e *ImageLiteral) Span() Span { return e.span }

type KeyLiteral struct {
	Value string
	span  Span
}

func (e *KeyLiteral) exprNode()  {}
func (e *KeyLiteral) Span() Span { return e.span }

type NoneLiteral struct {
	span Span
}

func (e *NoneLiteral) exprNode()  {}
func (e *NoneLiteral) Span() Span { return e.span }

// VariableExpr names a binding. With a Parent it names a field of the object
// Parent evaluates to.
type VariableExpr struct {
	Parent Expression
	Name   string
	span   Span
}

func (e *VariableExpr) exprNode()  {}
func (e *VariableExpr) Span() Span { return e.span }

// BlockExpr evaluates its expressions in order and yields the last value.
type BlockExpr struct {
	Body []Expression
	span Span
}

func (e *BlockExpr) exprNode()  {}
func (e *BlockExpr) Span() Span { return e.span }

// Package ast defines the expression tree produced by the parser and
// walked by the evaluator.
package ast

import "github.com/cwbudde/skillet/internal/token"

// Node is implemented by every expression tree node.
type Node interface {
	Pos() token.Position
	exprNode()
}

// Base is embedded by every concrete node to supply its source position.
// It is exported so that other packages (the parser) can populate it in a
// composite literal when constructing nodes.
type Base struct {
	Position token.Position
}

func (b Base) Pos() token.Position { return b.Position }
func (Base) exprNode()             {}

// NumberLit is a numeric literal.
type NumberLit struct {
	Base
	Value float64
}

// StringLit is a string literal.
type StringLit struct {
	Base
	Value string
}

// BoolLit is TRUE/FALSE.
type BoolLit struct {
	Base
	Value bool
}

// NullLit is the NULL literal.
type NullLit struct{ Base }

// VarRef is a ":name" variable reference.
type VarRef struct {
	Base
	Name string
}

// Ident is a bare identifier used as a function name in a Call, or as a
// free-standing lambda placeholder inside a higher-order call body.
type Ident struct {
	Base
	Name string
}

// Unary is a prefix operator: -, !, NOT.
type Unary struct {
	Base
	Op      string
	Operand Node
}

// Binary is an infix operator.
type Binary struct {
	Base
	Op          string
	Left, Right Node
}

// Ternary is "cond ? then : else".
type Ternary struct {
	Base
	Cond, Then, Else Node
}

// Assign is ":name := expr".
type Assign struct {
	Base
	Name  string
	Value Node
}

// Sequence is a ";"-joined list of expressions; its value is the last one.
type Sequence struct {
	Base
	Exprs []Node
}

// ArrayLit is "[e1, e2, ...]".
type ArrayLit struct {
	Base
	Elems []Node
}

// ObjectEntry is one "key: value" pair of an ObjectLit.
type ObjectEntry struct {
	Key   string
	Value Node
}

// ObjectLit is "{key: value, ...}".
type ObjectLit struct {
	Base
	Entries []ObjectEntry
}

// Spread is "...expr" inside a call argument list.
type Spread struct {
	Base
	Value Node
}

// Call is a bare function call: name(args...).
type Call struct {
	Base
	Name string
	Args []Node
}

// MethodCall is "receiver.name(args...)" or, with Safe set,
// "receiver&.name(args...)".
type MethodCall struct {
	Base
	Receiver Node
	Name     string
	Args     []Node
	Safe     bool
}

// Index is "expr[i]".
type Index struct {
	Base
	Receiver Node
	Index    Node
}

// Slice is "expr[i:j]"; either bound may be nil.
type Slice struct {
	Base
	Receiver   Node
	Low, High  Node
}

// Cast is "expr::Type".
type Cast struct {
	Base
	Value Node
	Type  string
}

// Property is "receiver.name" (not a call) or, with Safe set,
// "receiver&.name". Used for JSON property access and zero-arg method-like
// field reads before the parser knows whether a call follows.
type Property struct {
	Base
	Receiver Node
	Name     string
	Safe     bool
}

func NewBase(pos token.Position) Base { return Base{Position: pos} }

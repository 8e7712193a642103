package ast

import (
	"strings"

	"github.com/nimbus-lang/nimbus/internal/lexer"
)

// ExpressionStatement wraps an expression evaluated for its value (or, if
// it is itself an assignment, discarded to unit per spec §4.H "Expr(e)").
type ExpressionStatement struct {
	Token      lexer.Token
	Expression Expression
}

func (n *ExpressionStatement) Pos() lexer.Position { return n.Token.Pos }
func (n *ExpressionStatement) String() string      { return n.Expression.String() + ";" }
func (*ExpressionStatement) statementNode()        {}

// BlockStatement is `{ stmt; stmt; ... }`. Its scope is rewound at exit
// and the last statement's value is the block's value (spec §4.H "Block").
type BlockStatement struct {
	Token      lexer.Token
	Statements []Statement
}

func (n *BlockStatement) Pos() lexer.Position { return n.Token.Pos }
func (n *BlockStatement) String() string {
	var sb strings.Builder
	sb.WriteString("{ ")
	for _, s := range n.Statements {
		sb.WriteString(s.String())
		sb.WriteString(" ")
	}
	sb.WriteString("}")
	return sb.String()
}
func (*BlockStatement) statementNode() {}

// LetStatement declares a Normal (mutable) binding (spec §4.H "Let").
type LetStatement struct {
	Token lexer.Token
	Name  string
	Init  Expression // may be nil, defaulting to unit
}

func (n *LetStatement) Pos() lexer.Position { return n.Token.Pos }
func (n *LetStatement) String() string {
	if n.Init == nil {
		return "let " + n.Name + ";"
	}
	return "let " + n.Name + " = " + n.Init.String() + ";"
}
func (*LetStatement) statementNode() {}

// ConstStatement declares a Constant binding; Init must be a literal
// constant form (spec §4.H "Const").
type ConstStatement struct {
	Token lexer.Token
	Name  string
	Init  Expression
}

func (n *ConstStatement) Pos() lexer.Position { return n.Token.Pos }
func (n *ConstStatement) String() string {
	return "const " + n.Name + " = " + n.Init.String() + ";"
}
func (*ConstStatement) statementNode() {}

// IfStatement is `if cond { then } [else { else }]`.
type IfStatement struct {
	Token       lexer.Token
	Condition   Expression
	Consequence *BlockStatement
	Alternative *BlockStatement // nil if there is no else-branch
}

func (n *IfStatement) Pos() lexer.Position { return n.Token.Pos }
func (n *IfStatement) String() string {
	s := "if " + n.Condition.String() + " " + n.Consequence.String()
	if n.Alternative != nil {
		s += " else " + n.Alternative.String()
	}
	return s
}
func (*IfStatement) statementNode() {}

// WhileStatement is `while cond { body }`.
type WhileStatement struct {
	Token     lexer.Token
	Condition Expression
	Body      *BlockStatement
}

func (n *WhileStatement) Pos() lexer.Position { return n.Token.Pos }
func (n *WhileStatement) String() string {
	return "while " + n.Condition.String() + " " + n.Body.String()
}
func (*WhileStatement) statementNode() {}

// LoopStatement is `loop { body }`, an unconditional loop terminated
// only by `break`.
type LoopStatement struct {
	Token lexer.Token
	Body  *BlockStatement
}

func (n *LoopStatement) Pos() lexer.Position { return n.Token.Pos }
func (n *LoopStatement) String() string      { return "loop " + n.Body.String() }
func (*LoopStatement) statementNode()        {}

// ForStatement is `for name in expr { body }` (spec §4.H "For").
type ForStatement struct {
	Token    lexer.Token
	VarName  string
	Iterable Expression
	Body     *BlockStatement
}

func (n *ForStatement) Pos() lexer.Position { return n.Token.Pos }
func (n *ForStatement) String() string {
	return "for " + n.VarName + " in " + n.Iterable.String() + " " + n.Body.String()
}
func (*ForStatement) statementNode() {}

// ReturnStatement unwinds to the nearest enclosing function call boundary
// with Value (or unit if Value is nil) (spec §4.H "Return").
type ReturnStatement struct {
	Token lexer.Token
	Value Expression
}

func (n *ReturnStatement) Pos() lexer.Position { return n.Token.Pos }
func (n *ReturnStatement) String() string {
	if n.Value == nil {
		return "return;"
	}
	return "return " + n.Value.String() + ";"
}
func (*ReturnStatement) statementNode() {}

// BreakStatement and ContinueStatement terminate or restart the nearest
// enclosing loop (spec §4.H "While, Loop").
type BreakStatement struct{ Token lexer.Token }

func (n *BreakStatement) Pos() lexer.Position { return n.Token.Pos }
func (n *BreakStatement) String() string      { return "break;" }
func (*BreakStatement) statementNode()        {}

type ContinueStatement struct{ Token lexer.Token }

func (n *ContinueStatement) Pos() lexer.Position { return n.Token.Pos }
func (n *ContinueStatement) String() string      { return "continue;" }
func (*ContinueStatement) statementNode()        {}

// ThrowStatement raises a runtime error carrying the string form of Value
// (spec §4.H "Throw").
type ThrowStatement struct {
	Token lexer.Token
	Value Expression // may be nil
}

func (n *ThrowStatement) Pos() lexer.Position { return n.Token.Pos }
func (n *ThrowStatement) String() string {
	if n.Value == nil {
		return "throw;"
	}
	return "throw " + n.Value.String() + ";"
}
func (*ThrowStatement) statementNode() {}

// FunctionStatement hoists a `fn` declaration as a statement; it is a
// noop when evaluated directly since FunctionDecls are collected into
// the Program's FunctionsLib ahead of execution.
type FunctionStatement struct {
	Token lexer.Token
	Decl  *FunctionDecl
}

func (n *FunctionStatement) Pos() lexer.Position { return n.Token.Pos }
func (n *FunctionStatement) String() string      { return n.Decl.String() }
func (*FunctionStatement) statementNode()        {}

// Package ast defines the Nimbus abstract syntax tree produced by the
// parser and walked by the interpreter and optimizer.
package ast

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nimbus-lang/nimbus/internal/lexer"
)

// Node is the common interface for every AST node: statements and
// expressions alike. Pos anchors diagnostics to source locations; String
// renders a debug form used by the `parse` CLI subcommand, `run
// --dump-ast`, and by
// test failure messages, not by the evaluator.
type Node interface {
	Pos() lexer.Position
	String() string
}

// Expression is any AST node that produces a Dynamic value.
type Expression interface {
	Node
	expressionNode()
}

// Statement is any AST node executed for its side effect (and, per
// Nimbus's expression-oriented grammar, for its trailing value too).
type Statement interface {
	Node
	statementNode()
}

// FunctionDecl is a script-defined function: `fn name(params) { body }`.
// Parameters are untyped, so name+arity is sufficient to key it in the
// FunctionsLib (see spec §3 "FunctionsLib").
type FunctionDecl struct {
	Token  lexer.Token
	Name   string
	Params []string
	Body   *BlockStatement
}

func (f *FunctionDecl) Pos() lexer.Position { return f.Token.Pos }
func (f *FunctionDecl) String() string {
	return fmt.Sprintf("fn %s(%s) %s", f.Name, strings.Join(f.Params, ", "), f.Body.String())
}

// Program is the root of a parsed script: a sequence of statements plus
// every `fn` declaration encountered, hoisted into the FunctionsLib so
// forward references and recursion resolve regardless of declaration order.
type Program struct {
	Statements []Statement
	Functions  map[string]*FunctionDecl // keyed "name/arity"
}

func (p *Program) Pos() lexer.Position {
	if len(p.Statements) > 0 {
		return p.Statements[0].Pos()
	}
	return lexer.Position{}
}

func (p *Program) String() string {
	var sb strings.Builder
	for _, s := range p.Statements {
		sb.WriteString(s.String())
		sb.WriteString("\n")
	}
	return sb.String()
}

// FuncKey formats the FunctionsLib key for a name+arity pair.
func FuncKey(name string, arity int) string {
	return name + "/" + strconv.Itoa(arity)
}

// ---------------------------------------------------------------------
// Literals
// ---------------------------------------------------------------------

type IntegerLiteral struct {
	Token lexer.Token
	Value int64
}

func (n *IntegerLiteral) Pos() lexer.Position { return n.Token.Pos }
func (n *IntegerLiteral) String() string      { return strconv.FormatInt(n.Value, 10) }
func (*IntegerLiteral) expressionNode()       {}

type FloatLiteral struct {
	Token lexer.Token
	Value float64
}

func (n *FloatLiteral) Pos() lexer.Position { return n.Token.Pos }
func (n *FloatLiteral) String() string      { return strconv.FormatFloat(n.Value, 'g', -1, 64) }
func (*FloatLiteral) expressionNode()       {}

type StringLiteral struct {
	Token lexer.Token
	Value string
}

func (n *StringLiteral) Pos() lexer.Position { return n.Token.Pos }
func (n *StringLiteral) String() string      { return strconv.Quote(n.Value) }
func (*StringLiteral) expressionNode()       {}

type CharLiteral struct {
	Token lexer.Token
	Value rune
}

func (n *CharLiteral) Pos() lexer.Position { return n.Token.Pos }
func (n *CharLiteral) String() string      { return "'" + string(n.Value) + "'" }
func (*CharLiteral) expressionNode()       {}

type BoolLiteral struct {
	Token lexer.Token
	Value bool
}

func (n *BoolLiteral) Pos() lexer.Position { return n.Token.Pos }
func (n *BoolLiteral) String() string      { return strconv.FormatBool(n.Value) }
func (*BoolLiteral) expressionNode()       {}

// UnitLiteral is the `()` value, the default Dynamic.
type UnitLiteral struct {
	Token lexer.Token
}

func (n *UnitLiteral) Pos() lexer.Position { return n.Token.Pos }
func (n *UnitLiteral) String() string      { return "()" }
func (*UnitLiteral) expressionNode()       {}

type Identifier struct {
	Token lexer.Token
	Name  string

	// CachedIndex is the scope-relative slot this identifier resolved to
	// the last time it was evaluated with a stable scope. It is only
	// valid while State.AlwaysSearch is false (see spec §3 "State").
	CachedIndex int
	HasCache    bool
}

func (n *Identifier) Pos() lexer.Position { return n.Token.Pos }
func (n *Identifier) String() string      { return n.Name }
func (*Identifier) expressionNode()       {}

// ArrayLiteral is `[e1, e2, ...]`.
type ArrayLiteral struct {
	Token    lexer.Token
	Elements []Expression
}

func (n *ArrayLiteral) Pos() lexer.Position { return n.Token.Pos }
func (n *ArrayLiteral) String() string {
	parts := make([]string, len(n.Elements))
	for i, e := range n.Elements {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
func (*ArrayLiteral) expressionNode() {}

// MapEntry is one `key: value` pair inside a MapLiteral.
type MapEntry struct {
	Key   string
	Value Expression
}

// MapLiteral is `#{k1: v1, k2: v2}`.
type MapLiteral struct {
	Token   lexer.Token
	Entries []MapEntry
}

func (n *MapLiteral) Pos() lexer.Position { return n.Token.Pos }
func (n *MapLiteral) String() string {
	parts := make([]string, len(n.Entries))
	for i, e := range n.Entries {
		parts[i] = e.Key + ": " + e.Value.String()
	}
	return "#{" + strings.Join(parts, ", ") + "}"
}
func (*MapLiteral) expressionNode() {}

// ---------------------------------------------------------------------
// Operators
// ---------------------------------------------------------------------

type UnaryExpression struct {
	Token    lexer.Token
	Operator string
	Right    Expression
}

func (n *UnaryExpression) Pos() lexer.Position { return n.Token.Pos }
func (n *UnaryExpression) String() string      { return "(" + n.Operator + n.Right.String() + ")" }
func (*UnaryExpression) expressionNode()       {}

type BinaryExpression struct {
	Token    lexer.Token
	Left     Expression
	Operator string
	Right    Expression
}

func (n *BinaryExpression) Pos() lexer.Position { return n.Token.Pos }
func (n *BinaryExpression) String() string {
	return "(" + n.Left.String() + " " + n.Operator + " " + n.Right.String() + ")"
}
func (*BinaryExpression) expressionNode() {}

// LogicalExpression is `&&` or `||`, evaluated with short-circuiting
// (spec §4.G "And, Or").
type LogicalExpression struct {
	Token    lexer.Token
	Left     Expression
	Operator string // "&&" or "||"
	Right    Expression
}

func (n *LogicalExpression) Pos() lexer.Position { return n.Token.Pos }
func (n *LogicalExpression) String() string {
	return "(" + n.Left.String() + " " + n.Operator + " " + n.Right.String() + ")"
}
func (*LogicalExpression) expressionNode() {}

// InExpression is `lhs in rhs` (spec §4.G "In").
type InExpression struct {
	Token lexer.Token
	Left  Expression
	Right Expression
}

func (n *InExpression) Pos() lexer.Position { return n.Token.Pos }
func (n *InExpression) String() string      { return "(" + n.Left.String() + " in " + n.Right.String() + ")" }
func (*InExpression) expressionNode()       {}

// ---------------------------------------------------------------------
// Calls and chains
// ---------------------------------------------------------------------

// CallExpression is `callee(args...)`. When it appears as the RHS of a
// DotExpression it is a method call: Callee is an *Identifier naming the
// method, and the receiver is prepended to Args by the chain evaluator
// (spec §4.F "Dot mode / RHS = FnCall").
type CallExpression struct {
	Token   lexer.Token
	Callee  Expression // usually *Identifier
	Args    []Expression
	Default Expression // optional fallback value if the call target is missing
}

func (n *CallExpression) Pos() lexer.Position { return n.Token.Pos }
func (n *CallExpression) String() string {
	parts := make([]string, len(n.Args))
	for i, a := range n.Args {
		parts[i] = a.String()
	}
	return n.Callee.String() + "(" + strings.Join(parts, ", ") + ")"
}
func (*CallExpression) expressionNode() {}

// IndexExpression is `left[index]` (spec §4.F "Index mode").
type IndexExpression struct {
	Token lexer.Token
	Left  Expression
	Index Expression
}

func (n *IndexExpression) Pos() lexer.Position { return n.Token.Pos }
func (n *IndexExpression) String() string {
	return n.Left.String() + "[" + n.Index.String() + "]"
}
func (*IndexExpression) expressionNode() {}

// DotExpression is `left.right` (spec §4.F "Dot mode"). Right is either
// an *Identifier (property get/set) or a *CallExpression (method call).
type DotExpression struct {
	Token lexer.Token
	Left  Expression
	Right Expression
}

func (n *DotExpression) Pos() lexer.Position { return n.Token.Pos }
func (n *DotExpression) String() string      { return n.Left.String() + "." + n.Right.String() }
func (*DotExpression) expressionNode()       {}

// AssignmentExpression is `lhs = rhs`, where lhs may be an Identifier,
// IndexExpression, or DotExpression (spec §4.G "Assignment").
type AssignmentExpression struct {
	Token lexer.Token
	Left  Expression
	Right Expression
}

func (n *AssignmentExpression) Pos() lexer.Position { return n.Token.Pos }
func (n *AssignmentExpression) String() string {
	return n.Left.String() + " = " + n.Right.String()
}
func (*AssignmentExpression) expressionNode() {}

// StmtExpression embeds a Statement in expression position, used for
// `{ ... }` blocks nested inside expressions (spec §4.G "Stmt(s)").
type StmtExpression struct {
	Stmt Statement
}

func (n *StmtExpression) Pos() lexer.Position { return n.Stmt.Pos() }
func (n *StmtExpression) String() string      { return n.Stmt.String() }
func (*StmtExpression) expressionNode()       {}

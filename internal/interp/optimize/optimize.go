// Package optimize implements the spec's AST optimizer (spec §4.I):
// constant folding, dead-code elimination, and (at the Full level)
// eager reduction of pure native calls through the same dispatch
// tables the evaluator uses. It is grounded on
// _examples/original_source/src/optimize.rs — Rhai's `OptimizationLevel`,
// fixed-point passes, and `state.set_dirty()` bookkeeping — ported to
// Nimbus's own AST and Dispatch.
package optimize

import (
	"strings"

	"github.com/nimbus-lang/nimbus/internal/ast"
	"github.com/nimbus-lang/nimbus/internal/interp"
	"github.com/nimbus-lang/nimbus/internal/lexer"
)

const maxPasses = 64

// pass carries the dirty flag for one walk over the tree, plus the
// engine and FunctionsLib eager constant-call folding dispatches
// against.
type pass struct {
	dirty     bool
	in        *interp.Interp
	level     interp.OptimizationLevel
	functions interp.FunctionsLib
}

// env is the constant-propagation environment: a stack of lexical
// frames, each mapping a `const` name to the literal it was bound to
// (spec §4.I "Constant propagation").
type env struct {
	frames []map[string]ast.Expression
}

func newEnv() *env { return &env{frames: []map[string]ast.Expression{{}}} }

func (e *env) push() { e.frames = append(e.frames, map[string]ast.Expression{}) }
func (e *env) pop()  { e.frames = e.frames[:len(e.frames)-1] }

func (e *env) set(name string, lit ast.Expression) {
	e.frames[len(e.frames)-1][name] = lit
}

func (e *env) lookup(name string) (ast.Expression, bool) {
	for i := len(e.frames) - 1; i >= 0; i-- {
		if lit, ok := e.frames[i][name]; ok {
			return lit, true
		}
	}
	return nil, false
}

// Optimize rewrites prog's statements and every hoisted function body
// in place, iterating passes to a fixed point (no pass left the dirty
// flag set), and returns prog. At OptNone it is a no-op.
func Optimize(prog *ast.Program, in *interp.Interp, level interp.OptimizationLevel) *ast.Program {
	if level == interp.OptNone {
		return prog
	}
	functions := interp.NewFunctionsLib(prog)
	for i := 0; i < maxPasses; i++ {
		p := &pass{in: in, level: level, functions: functions}
		e := newEnv()
		prog.Statements = p.optimizeStatements(prog.Statements, e)
		for _, decl := range prog.Functions {
			fe := newEnv()
			decl.Body = p.optimizeBlock(decl.Body, fe)
		}
		if !p.dirty {
			break
		}
	}
	return prog
}

func (p *pass) optimizeBlock(b *ast.BlockStatement, e *env) *ast.BlockStatement {
	e.push()
	defer e.pop()
	b.Statements = p.optimizeStatements(b.Statements, e)
	return b
}

// optimizeStatements optimizes each statement, then applies block
// flattening: statements after the first return/break are unreachable
// and dropped, pure statements other than the last contribute nothing
// and are dropped, and a trailing `let` with a pure (or absent) init
// is dropped since `let` always yields unit regardless (spec §4.I
// "Block flattening").
func (p *pass) optimizeStatements(stmts []ast.Statement, e *env) []ast.Statement {
	out := make([]ast.Statement, 0, len(stmts))
	terminated := false
	for _, s := range stmts {
		if terminated {
			p.dirty = true
			continue
		}
		rewritten := p.optimizeStmt(s, e)
		if rewritten == nil {
			p.dirty = true
			continue
		}
		out = append(out, rewritten)
		switch rewritten.(type) {
		case *ast.ReturnStatement, *ast.BreakStatement:
			terminated = true
		}
	}

	for i := 0; i < len(out)-1; i++ {
		if isPureStmt(out[i]) {
			out = append(out[:i], out[i+1:]...)
			p.dirty = true
			i--
		}
	}

	for len(out) > 0 {
		ls, ok := out[len(out)-1].(*ast.LetStatement)
		if !ok || (ls.Init != nil && !isPureExpr(ls.Init)) {
			break
		}
		out = out[:len(out)-1]
		p.dirty = true
	}

	return out
}

// optimizeStmt rewrites one statement, returning nil when the
// statement becomes a pure noop removable from its block. `const`
// statements are the one documented exception (spec §4.I): their
// reads propagate to the literal, but the binding itself is kept in
// the emitted tree rather than dropped, so a later assignment to the
// name still observes a live Constant scope slot and fails with
// AssignmentToConstant instead of VariableNotFound.
func (p *pass) optimizeStmt(s ast.Statement, e *env) ast.Statement {
	switch st := s.(type) {
	case *ast.ExpressionStatement:
		st.Expression = p.optimizeExpr(st.Expression, e)
		return st
	case *ast.BlockStatement:
		return p.optimizeBlock(st, e)
	case *ast.LetStatement:
		if st.Init != nil {
			st.Init = p.optimizeExpr(st.Init, e)
		}
		return st
	case *ast.ConstStatement:
		st.Init = p.optimizeExpr(st.Init, e)
		if isLiteralNode(st.Init) {
			e.set(st.Name, st.Init)
		}
		// The binding itself is kept at runtime (spec §4.H "Const": a
		// later assignment to it must still fail with
		// AssignmentToConstant, not VariableNotFound) — only reads of
		// the name get folded to the literal above.
		return st
	case *ast.IfStatement:
		return p.optimizeIf(st, e)
	case *ast.WhileStatement:
		return p.optimizeWhile(st, e)
	case *ast.LoopStatement:
		return p.optimizeLoop(st, e)
	case *ast.ForStatement:
		st.Iterable = p.optimizeExpr(st.Iterable, e)
		st.Body = p.optimizeBlock(st.Body, e)
		return st
	case *ast.ReturnStatement:
		if st.Value != nil {
			st.Value = p.optimizeExpr(st.Value, e)
		}
		return st
	case *ast.ThrowStatement:
		if st.Value != nil {
			st.Value = p.optimizeExpr(st.Value, e)
		}
		return st
	}
	return s
}

func (p *pass) optimizeIf(s *ast.IfStatement, e *env) ast.Statement {
	s.Condition = p.optimizeExpr(s.Condition, e)
	if b, ok := literalBool(s.Condition); ok {
		p.dirty = true
		var chosen *ast.BlockStatement
		if b {
			chosen = p.optimizeBlock(s.Consequence, e)
		} else if s.Alternative != nil {
			chosen = p.optimizeBlock(s.Alternative, e)
		} else {
			return emptyBlock(s.Token)
		}
		if len(chosen.Statements) == 1 {
			if es, ok := chosen.Statements[0].(*ast.ExpressionStatement); ok {
				return es
			}
		}
		return chosen
	}
	s.Consequence = p.optimizeBlock(s.Consequence, e)
	if s.Alternative != nil {
		s.Alternative = p.optimizeBlock(s.Alternative, e)
	}
	return s
}

func (p *pass) optimizeWhile(s *ast.WhileStatement, e *env) ast.Statement {
	s.Condition = p.optimizeExpr(s.Condition, e)
	if b, ok := literalBool(s.Condition); ok {
		p.dirty = true
		if !b {
			return emptyBlock(s.Token)
		}
		body := p.optimizeBlock(s.Body, e)
		return &ast.LoopStatement{Token: s.Token, Body: body}
	}
	s.Body = p.optimizeBlock(s.Body, e)
	if isBreakOnlyBody(s.Body) {
		p.dirty = true
		// Preserves the one boolean-type check the original loop would
		// have performed, without ever running the body.
		return &ast.IfStatement{Token: s.Token, Condition: s.Condition, Consequence: emptyBlock(s.Token)}
	}
	return s
}

func (p *pass) optimizeLoop(s *ast.LoopStatement, e *env) ast.Statement {
	s.Body = p.optimizeBlock(s.Body, e)
	if isBreakOnlyBody(s.Body) {
		p.dirty = true
		return emptyBlock(s.Token)
	}
	return s
}

func emptyBlock(tok lexer.Token) *ast.BlockStatement {
	return &ast.BlockStatement{Token: tok}
}

func isBreakOnlyBody(b *ast.BlockStatement) bool {
	if len(b.Statements) != 1 {
		return false
	}
	_, ok := b.Statements[0].(*ast.BreakStatement)
	return ok
}

func literalBool(e ast.Expression) (bool, bool) {
	if b, ok := e.(*ast.BoolLiteral); ok {
		return b.Value, true
	}
	return false, false
}

// optimizeExpr rewrites one expression bottom-up: children are
// optimized first, then the node itself may fold to a literal or a
// simpler equivalent form.
func (p *pass) optimizeExpr(ex ast.Expression, e *env) ast.Expression {
	switch n := ex.(type) {
	case *ast.Identifier:
		if lit, ok := e.lookup(n.Name); ok {
			p.dirty = true
			return lit
		}
		return n

	case *ast.ArrayLiteral:
		for i, el := range n.Elements {
			n.Elements[i] = p.optimizeExpr(el, e)
		}
		return n

	case *ast.MapLiteral:
		for i := range n.Entries {
			n.Entries[i].Value = p.optimizeExpr(n.Entries[i].Value, e)
		}
		return n

	case *ast.UnaryExpression:
		n.Right = p.optimizeExpr(n.Right, e)
		return p.foldOperator(n.Operator, []ast.Expression{n.Right}, n.Token.Pos, n)

	case *ast.BinaryExpression:
		n.Left = p.optimizeExpr(n.Left, e)
		n.Right = p.optimizeExpr(n.Right, e)
		return p.foldOperator(n.Operator, []ast.Expression{n.Left, n.Right}, n.Token.Pos, n)

	case *ast.LogicalExpression:
		return p.optimizeLogical(n, e)

	case *ast.InExpression:
		return p.optimizeIn(n, e)

	case *ast.CallExpression:
		for i, a := range n.Args {
			n.Args[i] = p.optimizeExpr(a, e)
		}
		if n.Default != nil {
			n.Default = p.optimizeExpr(n.Default, e)
		}
		if name, ok := calleeName(n.Callee); ok {
			if lit, ok := p.foldCall(name, n.Args, n.Token.Pos); ok {
				p.dirty = true
				return lit
			}
		}
		return n

	case *ast.IndexExpression:
		return p.optimizeIndex(n, e)

	case *ast.DotExpression:
		return p.optimizeDot(n, e)

	case *ast.AssignmentExpression:
		return p.optimizeAssignment(n, e)

	case *ast.StmtExpression:
		return p.optimizeStmtExpr(n, e)
	}
	return ex
}

func (p *pass) optimizeLogical(n *ast.LogicalExpression, e *env) ast.Expression {
	n.Left = p.optimizeExpr(n.Left, e)
	if lb, ok := literalBool(n.Left); ok {
		if n.Operator == "&&" {
			if !lb {
				p.dirty = true
				return n.Left // false && _ -> false
			}
			p.dirty = true
			return p.optimizeExpr(n.Right, e) // true && e -> e
		}
		if lb {
			p.dirty = true
			return n.Left // true || _ -> true
		}
		p.dirty = true
		return p.optimizeExpr(n.Right, e) // false || e -> e
	}

	n.Right = p.optimizeExpr(n.Right, e)
	if rb, ok := literalBool(n.Right); ok {
		if n.Operator == "&&" && rb {
			p.dirty = true
			return n.Left // e && true -> e
		}
		if n.Operator == "||" && !rb {
			p.dirty = true
			return n.Left // e || false -> e
		}
	}
	return n
}

func (p *pass) optimizeIn(n *ast.InExpression, e *env) ast.Expression {
	n.Left = p.optimizeExpr(n.Left, e)
	n.Right = p.optimizeExpr(n.Right, e)

	lv, lok := literalToValue(n.Left)
	rv, rok := literalToValue(n.Right)
	if !lok || !rok {
		return n
	}
	b, ok := constIn(lv, rv)
	if !ok {
		return n
	}
	p.dirty = true
	return &ast.BoolLiteral{Token: n.Token, Value: b}
}

// constIn mirrors eval_expr.go's evalIn over already-resolved values,
// for folding `in` expressions whose operands are both constant.
func constIn(lv, rv interp.Value) (bool, bool) {
	switch container := rv.(type) {
	case *interp.Array:
		for _, el := range container.Elems {
			ef, eNum := interp.AsFloat(el)
			lf, lNum := interp.AsFloat(lv)
			if eNum && lNum {
				if ef == lf {
					return true, true
				}
				continue
			}
			if el.TypeID() == lv.TypeID() && el.String() == lv.String() {
				return true, true
			}
		}
		return false, true
	case *interp.Map:
		key, ok := interp.AsStr(lv)
		if !ok {
			return false, false
		}
		_, ok = container.Get(key)
		return ok, true
	case interp.Str:
		needle, ok := interp.AsStr(lv)
		if !ok {
			c, ok2 := interp.AsChar(lv)
			if !ok2 {
				return false, false
			}
			needle = string(c)
		}
		return strings.Contains(string(container), needle), true
	}
	return false, false
}

func (p *pass) optimizeIndex(n *ast.IndexExpression, e *env) ast.Expression {
	n.Left = p.optimizeExpr(n.Left, e)
	n.Index = p.optimizeExpr(n.Index, e)

	switch left := n.Left.(type) {
	case *ast.ArrayLiteral:
		idx, ok := n.Index.(*ast.IntegerLiteral)
		if !ok || !allLiteral(left.Elements) {
			return n
		}
		if idx.Value < 0 || idx.Value >= int64(len(left.Elements)) {
			return n // leave the bounds error to the evaluator
		}
		p.dirty = true
		return left.Elements[idx.Value]

	case *ast.MapLiteral:
		key, ok := n.Index.(*ast.StringLiteral)
		if !ok {
			return n
		}
		for _, ent := range left.Entries {
			if ent.Key == key.Value && isLiteralNode(ent.Value) {
				p.dirty = true
				return ent.Value
			}
		}
		return n

	case *ast.StringLiteral:
		idx, ok := n.Index.(*ast.IntegerLiteral)
		if !ok {
			return n
		}
		runes := []rune(left.Value)
		if idx.Value < 0 || idx.Value >= int64(len(runes)) {
			return n
		}
		p.dirty = true
		return &ast.CharLiteral{Token: n.Token, Value: runes[idx.Value]}
	}
	return n
}

func (p *pass) optimizeDot(n *ast.DotExpression, e *env) ast.Expression {
	n.Left = p.optimizeExpr(n.Left, e)

	switch right := n.Right.(type) {
	case *ast.Identifier:
		if ml, ok := n.Left.(*ast.MapLiteral); ok && allPureValues(ml.Entries) {
			for _, ent := range ml.Entries {
				if ent.Key == right.Name {
					p.dirty = true
					return ent.Value
				}
			}
		}
		return n

	case *ast.CallExpression:
		for i, a := range right.Args {
			right.Args[i] = p.optimizeExpr(a, e)
		}
		if right.Default != nil {
			right.Default = p.optimizeExpr(right.Default, e)
		}
		return n
	}
	return n
}

func (p *pass) optimizeAssignment(n *ast.AssignmentExpression, e *env) ast.Expression {
	n.Right = p.optimizeExpr(n.Right, e)

	if outer, ok := n.Left.(*ast.Identifier); ok {
		if inner, ok := n.Right.(*ast.AssignmentExpression); ok {
			if innerID, ok := inner.Left.(*ast.Identifier); ok && innerID.Name == outer.Name {
				p.dirty = true
				return &ast.AssignmentExpression{Token: n.Token, Left: n.Left, Right: inner.Right}
			}
		}
		return n
	}

	switch left := n.Left.(type) {
	case *ast.IndexExpression:
		left.Left = p.optimizeExpr(left.Left, e)
		left.Index = p.optimizeExpr(left.Index, e)
	case *ast.DotExpression:
		left.Left = p.optimizeExpr(left.Left, e)
	}
	return n
}

func (p *pass) optimizeStmtExpr(n *ast.StmtExpression, e *env) ast.Expression {
	block, ok := n.Stmt.(*ast.BlockStatement)
	if !ok {
		n.Stmt = p.optimizeStmt(n.Stmt, e)
		return n
	}
	block = p.optimizeBlock(block, e)
	if len(block.Statements) == 0 {
		p.dirty = true
		return &ast.UnitLiteral{Token: block.Token}
	}
	if len(block.Statements) == 1 {
		if es, ok := block.Statements[0].(*ast.ExpressionStatement); ok {
			p.dirty = true
			return es.Expression
		}
	}
	n.Stmt = block
	return n
}

// foldOperator folds a unary/binary operator call at Full level,
// falling back to the unmodified node when folding does not apply.
func (p *pass) foldOperator(name string, args []ast.Expression, pos lexer.Position, fallback ast.Expression) ast.Expression {
	if lit, ok := p.foldCall(name, args, pos); ok {
		p.dirty = true
		return lit
	}
	return fallback
}

// foldCall implements spec §4.I's "Full level only" eager reduction: a
// call whose arguments are all literal, whose name is not a reserved
// keyword, and whose name+arity is not shadowed by a script function,
// is executed now through the same Dispatch the evaluator would use,
// and its result substituted as a literal.
func (p *pass) foldCall(name string, args []ast.Expression, pos lexer.Position) (ast.Expression, bool) {
	if p.level != interp.OptFull {
		return nil, false
	}
	if name == "print" || name == "debug" || name == "eval" {
		return nil, false
	}
	if _, ok := p.functions.Lookup(name, len(args)); ok {
		return nil, false
	}

	values := make([]interp.Value, len(args))
	for i, a := range args {
		v, ok := literalToValue(a)
		if !ok {
			return nil, false
		}
		values[i] = v
	}

	ex := &interp.Exec{Interp: p.in, Scope: interp.NewScope(), Functions: p.functions}
	result, err := ex.ExecCall(name, values, nil, pos, false)
	if err != nil {
		return nil, false
	}
	return valueToLiteral(result, pos)
}

func calleeName(callee ast.Expression) (string, bool) {
	if id, ok := callee.(*ast.Identifier); ok {
		return id.Name, true
	}
	return "", false
}

func allLiteral(exprs []ast.Expression) bool {
	for _, e := range exprs {
		if !isLiteralNode(e) {
			return false
		}
	}
	return true
}

func allPureValues(entries []ast.MapEntry) bool {
	for _, ent := range entries {
		if !isPureExpr(ent.Value) {
			return false
		}
	}
	return true
}

func isLiteralNode(e ast.Expression) bool {
	switch e.(type) {
	case *ast.IntegerLiteral, *ast.FloatLiteral, *ast.StringLiteral,
		*ast.CharLiteral, *ast.BoolLiteral, *ast.UnitLiteral:
		return true
	}
	return false
}

// isPureExpr is the "pure" predicate block flattening and dead-entry
// dropping rely on: true only for expressions with no possible
// observable side effect.
func isPureExpr(ex ast.Expression) bool {
	switch e := ex.(type) {
	case *ast.IntegerLiteral, *ast.FloatLiteral, *ast.StringLiteral,
		*ast.CharLiteral, *ast.BoolLiteral, *ast.UnitLiteral, *ast.Identifier:
		return true
	case *ast.ArrayLiteral:
		for _, el := range e.Elements {
			if !isPureExpr(el) {
				return false
			}
		}
		return true
	case *ast.MapLiteral:
		return allPureValues(e.Entries)
	case *ast.UnaryExpression:
		return isPureExpr(e.Right)
	case *ast.BinaryExpression:
		return isPureExpr(e.Left) && isPureExpr(e.Right)
	case *ast.LogicalExpression:
		return isPureExpr(e.Left) && isPureExpr(e.Right)
	case *ast.InExpression:
		return isPureExpr(e.Left) && isPureExpr(e.Right)
	case *ast.CallExpression:
		name, ok := calleeName(e.Callee)
		if !ok || name != "type_of" {
			return false
		}
		for _, a := range e.Args {
			if !isPureExpr(a) {
				return false
			}
		}
		return true
	}
	return false
}

func isPureStmt(s ast.Statement) bool {
	switch st := s.(type) {
	case *ast.ExpressionStatement:
		return isPureExpr(st.Expression)
	case *ast.FunctionStatement:
		return true
	}
	return false
}

// literalToValue converts a literal AST node (including arrays/maps
// whose contents are themselves all literal) into the interp.Value it
// denotes, for `in`-folding and eager call folding.
func literalToValue(e ast.Expression) (interp.Value, bool) {
	switch n := e.(type) {
	case *ast.IntegerLiteral:
		return interp.Int(n.Value), true
	case *ast.FloatLiteral:
		return interp.Float(n.Value), true
	case *ast.StringLiteral:
		return interp.Str(n.Value), true
	case *ast.CharLiteral:
		return interp.Char(n.Value), true
	case *ast.BoolLiteral:
		return interp.Bool(n.Value), true
	case *ast.UnitLiteral:
		return interp.Unit{}, true
	case *ast.ArrayLiteral:
		elems := make([]interp.Value, len(n.Elements))
		for i, el := range n.Elements {
			v, ok := literalToValue(el)
			if !ok {
				return nil, false
			}
			elems[i] = v
		}
		return interp.NewArray(elems), true
	case *ast.MapLiteral:
		m := interp.NewMap()
		for _, ent := range n.Entries {
			v, ok := literalToValue(ent.Value)
			if !ok {
				return nil, false
			}
			m.Set(ent.Key, v)
		}
		return m, true
	}
	return nil, false
}

// valueToLiteral is literalToValue's inverse for the scalar types a
// folded call result can be substituted back as. Arrays, maps, and
// opaque values have no literal AST form, so folding a call that
// returns one leaves the original call in place.
func valueToLiteral(v interp.Value, pos lexer.Position) (ast.Expression, bool) {
	tok := lexer.Token{Pos: pos}
	switch x := v.(type) {
	case interp.Unit:
		return &ast.UnitLiteral{Token: tok}, true
	case interp.Bool:
		return &ast.BoolLiteral{Token: tok, Value: bool(x)}, true
	case interp.Int:
		return &ast.IntegerLiteral{Token: tok, Value: int64(x)}, true
	case interp.Float:
		return &ast.FloatLiteral{Token: tok, Value: float64(x)}, true
	case interp.Str:
		return &ast.StringLiteral{Token: tok, Value: string(x)}, true
	case interp.Char:
		return &ast.CharLiteral{Token: tok, Value: rune(x)}, true
	}
	return nil, false
}

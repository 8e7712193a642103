package interp

import (
	"github.com/nimbus-lang/nimbus/internal/ast"
)

// evalExpr evaluates one expression per spec §4.G.
func (ex *Exec) evalExpr(expr ast.Expression) (Value, error) {
	switch e := expr.(type) {
	case *ast.IntegerLiteral:
		return Int(e.Value), nil
	case *ast.FloatLiteral:
		return Float(e.Value), nil
	case *ast.StringLiteral:
		return Str(e.Value), nil
	case *ast.CharLiteral:
		return Char(e.Value), nil
	case *ast.BoolLiteral:
		return Bool(e.Value), nil
	case *ast.UnitLiteral:
		return Unit{}, nil

	case *ast.Identifier:
		idx, err := ex.resolveIdentifierIndex(e)
		if err != nil {
			return nil, err
		}
		v, _, _ := ex.Scope.At(idx)
		return v, nil

	case *ast.StmtExpression:
		return ex.evalStmt(e.Stmt)

	case *ast.ArrayLiteral:
		elems := make([]Value, len(e.Elements))
		for i, el := range e.Elements {
			v, err := ex.evalExpr(el)
			if err != nil {
				return nil, err
			}
			elems[i] = v
		}
		return NewArray(elems), nil

	case *ast.MapLiteral:
		m := NewMap()
		for _, entry := range e.Entries {
			v, err := ex.evalExpr(entry.Value)
			if err != nil {
				return nil, err
			}
			m.Set(entry.Key, v)
		}
		return m, nil

	case *ast.UnaryExpression:
		return ex.evalUnary(e)

	case *ast.BinaryExpression:
		return ex.evalBinary(e)

	case *ast.LogicalExpression:
		return ex.evalLogical(e)

	case *ast.InExpression:
		return ex.evalIn(e)

	case *ast.CallExpression:
		return ex.evalCall(e)

	case *ast.IndexExpression:
		base, links := flattenChain(e)
		return ex.evalChain(base, links, nil, e.Pos())

	case *ast.DotExpression:
		base, links := flattenChain(e)
		return ex.evalChain(base, links, nil, e.Pos())

	case *ast.AssignmentExpression:
		return ex.evalAssignment(e)
	}
	return nil, NewRuntimeError("unhandled expression node", expr.Pos())
}

// resolveIdentifierIndex implements spec §4.G's caching rule: if
// always_search is set or the node has no cached index, resolve by
// name and (when AlwaysSearch is false) cache the result; otherwise
// translate the cached top-relative index back against the current
// scope length.
func (ex *Exec) resolveIdentifierIndex(ident *ast.Identifier) (int, error) {
	if ex.AlwaysSearch || !ident.HasCache {
		idx, _, ok := ex.Scope.Find(ident.Name)
		if !ok {
			return 0, NewVariableNotFoundError(ident.Name, ident.Pos())
		}
		if !ex.AlwaysSearch {
			ident.CachedIndex = ex.Scope.TopRelative(idx)
			ident.HasCache = true
		}
		return idx, nil
	}
	idx := ex.Scope.FromTopRelative(ident.CachedIndex)
	if idx < 0 || idx >= ex.Scope.Len() || ex.Scope.NameAt(idx) != ident.Name {
		idx2, _, ok := ex.Scope.Find(ident.Name)
		if !ok {
			return 0, NewVariableNotFoundError(ident.Name, ident.Pos())
		}
		ident.CachedIndex = ex.Scope.TopRelative(idx2)
		return idx2, nil
	}
	return idx, nil
}

func (ex *Exec) evalAssignment(e *ast.AssignmentExpression) (Value, error) {
	rhs, err := ex.evalExpr(e.Right)
	if err != nil {
		return nil, err
	}

	switch lhs := e.Left.(type) {
	case *ast.Identifier:
		idx, err := ex.resolveIdentifierIndex(lhs)
		if err != nil {
			return nil, err
		}
		_, kind, ok := ex.Scope.At(idx)
		if !ok {
			return nil, NewVariableNotFoundError(lhs.Name, lhs.Pos())
		}
		if kind == Constant {
			return nil, NewAssignmentToConstantError(lhs.Name, lhs.Pos())
		}
		ex.Scope.Set(idx, rhs)
		return Unit{}, nil

	case *ast.IndexExpression, *ast.DotExpression:
		base, links := flattenChain(lhs)
		_, err := ex.evalChain(base, links, &rhs, e.Pos())
		if err != nil {
			return nil, err
		}
		return Unit{}, nil
	}
	return nil, NewAssignmentToUnknownLHSError(e.Pos())
}

// evalUnary special-cases `!` (its BooleanArgMismatchError is in the
// closed taxonomy) and dispatches `-` as an ordinary native call, so an
// unsupported operand type surfaces the usual FunctionNotFoundError
// rather than needing a dedicated arithmetic-mismatch error kind.
func (ex *Exec) evalUnary(e *ast.UnaryExpression) (Value, error) {
	rhs, err := ex.evalExpr(e.Right)
	if err != nil {
		return nil, err
	}
	if e.Operator == "!" {
		b, ok := AsBool(rhs)
		if !ok {
			return nil, NewBooleanArgMismatchError("!", e.Pos())
		}
		return Bool(!b), nil
	}
	return ex.ExecCall(e.Operator, []Value{rhs}, nil, e.Pos(), false)
}

// evalBinary dispatches arithmetic and comparison operators as ordinary
// native calls keyed by operator name and operand types.
func (ex *Exec) evalBinary(e *ast.BinaryExpression) (Value, error) {
	lv, err := ex.evalExpr(e.Left)
	if err != nil {
		return nil, err
	}
	rv, err := ex.evalExpr(e.Right)
	if err != nil {
		return nil, err
	}
	return ex.ExecCall(e.Operator, []Value{lv, rv}, nil, e.Pos(), false)
}

func (ex *Exec) evalLogical(e *ast.LogicalExpression) (Value, error) {
	lv, err := ex.evalExpr(e.Left)
	if err != nil {
		return nil, err
	}
	lb, ok := AsBool(lv)
	if !ok {
		return nil, NewBooleanArgMismatchError(e.Operator, e.Pos())
	}
	if e.Operator == "&&" && !lb {
		return Bool(false), nil
	}
	if e.Operator == "||" && lb {
		return Bool(true), nil
	}
	rv, err := ex.evalExpr(e.Right)
	if err != nil {
		return nil, err
	}
	rb, ok := AsBool(rv)
	if !ok {
		return nil, NewBooleanArgMismatchError(e.Operator, e.Pos())
	}
	return Bool(rb), nil
}

// evalIn implements `lhs in rhs`: array/string membership, or map key
// presence (spec §4.G "In").
func (ex *Exec) evalIn(e *ast.InExpression) (Value, error) {
	lv, err := ex.evalExpr(e.Left)
	if err != nil {
		return nil, err
	}
	rv, err := ex.evalExpr(e.Right)
	if err != nil {
		return nil, err
	}

	switch container := rv.(type) {
	case *Array:
		for _, el := range container.Elems {
			eq, err := ex.ExecCall("==", []Value{el, lv}, nil, e.Pos(), false)
			if err != nil {
				return nil, err
			}
			if b, ok := AsBool(eq); ok && b {
				return Bool(true), nil
			}
		}
		return Bool(false), nil
	case *Map:
		key, ok := AsStr(lv)
		if !ok {
			return nil, NewInExprError(e.Pos())
		}
		_, ok = container.Get(key)
		return Bool(ok), nil
	case Str:
		needle, ok := AsStr(lv)
		if !ok {
			if c, ok2 := AsChar(lv); ok2 {
				needle = string(c)
			} else {
				return nil, NewInExprError(e.Pos())
			}
		}
		return Bool(containsSubstr(string(container), needle)), nil
	}
	return nil, NewInExprError(e.Pos())
}

func containsSubstr(haystack, needle string) bool {
	if len(needle) == 0 {
		return true
	}
	if len(needle) > len(haystack) {
		return false
	}
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			return true
		}
	}
	return false
}

// calleeName extracts the plain function name from a call expression's
// callee, which is always an *ast.Identifier in Nimbus's grammar.
func calleeName(callee ast.Expression) (string, bool) {
	ident, ok := callee.(*ast.Identifier)
	if !ok {
		return "", false
	}
	return ident.Name, true
}

// evalCall handles a bare (non-method-style) call expression, including
// the `eval(source)` special form, which recompiles and runs source
// against the current Exec via the host-supplied EvalSource hook and,
// when that run changed the scope's length, forces always_search for
// the remainder of the enclosing scope (spec
// §9 "eval and scope invalidation").
func (ex *Exec) evalCall(e *ast.CallExpression) (Value, error) {
	name, ok := calleeName(e.Callee)
	if !ok {
		return nil, NewFunctionNotFoundError(e.Callee.String(), e.Pos())
	}

	args := make([]Value, len(e.Args))
	for i, a := range e.Args {
		v, err := ex.evalExpr(a)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	if name == "eval" && len(args) == 1 {
		src, ok := AsStr(args[0])
		if ok && ex.EvalSource != nil {
			lenBefore := ex.Scope.Len()
			result, err := ex.EvalSource(src, ex)
			if ex.Scope.Len() != lenBefore {
				ex.AlwaysSearch = true
			}
			return result, err
		}
	}

	var defaultVal *Value
	if e.Default != nil {
		dv, err := ex.evalExpr(e.Default)
		if err != nil {
			return nil, err
		}
		defaultVal = &dv
	}

	return ex.ExecCall(name, args, defaultVal, e.Pos(), false)
}

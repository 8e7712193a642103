package interp

import (
	"github.com/nimbus-lang/nimbus/internal/ast"
	"github.com/nimbus-lang/nimbus/internal/lexer"
)

// chainLinkKind tags one step of a flattened dot/index chain.
type chainLinkKind int

const (
	linkIndex chainLinkKind = iota
	linkDotProp
	linkDotCall
)

// chainLink is one step of the spine spec §4.F describes as "a tree
// whose spine alternates Dot and Index nodes over Property and FnCall
// leaves". Nimbus's parser builds a left-associative AST for `a.b[i].c`
// (Dot(Index(Dot(a,b),i),c)); flattenChain walks that tree once to
// produce the equivalent ordered link list, base-first, so the
// evaluator can walk forward instead of recursing top-down over a
// right-nested shape.
type chainLink struct {
	kind      chainLinkKind
	pos       lexer.Position
	indexExpr ast.Expression   // linkIndex
	name      string           // linkDotProp / linkDotCall
	argExprs  []ast.Expression // linkDotCall
}

// flattenChain splits a Dot/Index expression into its base expression
// (the left end of the spine — usually an *ast.Identifier) and the
// ordered list of links applied to it. Because the recursion always
// descends into Left before appending the current node's link, the
// returned slice is naturally in source (left-to-right) order — the
// same guarantee spec §4.F's pre-evaluate/reverse-consume trick exists
// to provide for a right-nested representation, achieved here simply by
// not being right-nested in the first place.
func flattenChain(expr ast.Expression) (ast.Expression, []chainLink) {
	switch e := expr.(type) {
	case *ast.IndexExpression:
		base, links := flattenChain(e.Left)
		return base, append(links, chainLink{kind: linkIndex, pos: e.Pos(), indexExpr: e.Index})
	case *ast.DotExpression:
		base, links := flattenChain(e.Left)
		switch r := e.Right.(type) {
		case *ast.Identifier:
			return base, append(links, chainLink{kind: linkDotProp, pos: e.Pos(), name: r.Name})
		case *ast.CallExpression:
			calleeName, _ := calleeName(r.Callee)
			return base, append(links, chainLink{kind: linkDotCall, pos: e.Pos(), name: calleeName, argExprs: r.Args})
		}
	}
	return expr, nil
}

// evalChain is the chain's entry point (spec §4.F "Entry point"): a
// variable LHS resolves to a scope Place (so writes can respect
// constant-ness); anything else evaluates to a value and is wrapped as
// a Temp.
func (ex *Exec) evalChain(lhs ast.Expression, links []chainLink, newVal *Value, pos lexer.Position) (Value, error) {
	var base Target
	if ident, ok := lhs.(*ast.Identifier); ok {
		idx, err := ex.resolveIdentifierIndex(ident)
		if err != nil {
			return nil, err
		}
		base = newScopeSlotTarget(ex.Scope, idx, ident.Pos())
	} else {
		v, err := ex.evalExpr(lhs)
		if err != nil {
			return nil, err
		}
		base = &tempTarget{value: v, pos: lhs.Pos()}
	}

	if len(links) == 0 {
		if newVal != nil {
			return nil, NewAssignmentToUnknownLHSError(pos)
		}
		return base.IntoValue(), nil
	}

	result, _, err := ex.walkChain(base, links, newVal)
	if err != nil {
		return nil, err
	}
	return result.IntoValue(), nil
}

// getIndexed implements spec §4.F's indexing protocol.
func (ex *Exec) getIndexed(base Target, index Value, create bool, pos lexer.Position) (Target, error) {
	switch bv := base.Get().(type) {
	case *Array:
		idx, ok := AsInt(index)
		if !ok {
			return nil, NewNumericIndexExprError(pos)
		}
		if idx < 0 || int(idx) >= len(bv.Elems) {
			return nil, NewArrayBoundsError(len(bv.Elems), int(idx), pos)
		}
		return newArrayElemTarget(bv, int(idx), pos), nil

	case *Map:
		key, ok := AsStr(index)
		if !ok {
			if c, ok2 := AsChar(index); ok2 {
				key = string(c)
			} else {
				return nil, NewStringIndexExprError(pos)
			}
		}
		if create {
			if _, exists := bv.Get(key); !exists {
				bv.Set(key, Unit{})
			}
			return newMapEntryTarget(bv, key), nil
		}
		if _, exists := bv.Get(key); exists {
			return newMapEntryTarget(bv, key), nil
		}
		return &tempTarget{value: Unit{}, pos: pos}, nil

	case Str:
		idx, ok := AsInt(index)
		if !ok {
			return nil, NewNumericIndexExprError(pos)
		}
		runes := []rune(string(bv))
		if idx < 0 || int(idx) >= len(runes) {
			return nil, NewStringBoundsError(len(runes), int(idx), pos)
		}
		return &stringCharTarget{base: base, idx: int(idx), pos: pos}, nil

	default:
		return nil, NewIndexingTypeError(base.Get().TypeName(), pos)
	}
}

// walkChain processes one link against the current place, recursing
// into the remainder. It returns the resulting Target and whether this
// step mutated cur — used by the non-Map dot-property case to decide
// whether a materialized temporary needs writing back via `set$<prop>`
// (spec §4.F "may have been mutated").
func (ex *Exec) walkChain(cur Target, links []chainLink, newVal *Value) (Target, bool, error) {
	link := links[0]
	rest := links[1:]
	terminal := len(rest) == 0

	switch link.kind {
	case linkIndex:
		idxVal, err := ex.evalExpr(link.indexExpr)
		if err != nil {
			return nil, false, err
		}
		if terminal {
			if newVal != nil {
				target, err := ex.getIndexed(cur, idxVal, true, link.pos)
				if err != nil {
					return nil, false, err
				}
				if err := target.Set(*newVal); err != nil {
					return nil, false, err
				}
				return target, true, nil
			}
			target, err := ex.getIndexed(cur, idxVal, false, link.pos)
			if err != nil {
				return nil, false, err
			}
			return &tempTarget{value: target.IntoValue(), pos: link.pos}, false, nil
		}
		target, err := ex.getIndexed(cur, idxVal, false, link.pos)
		if err != nil {
			return nil, false, err
		}
		return ex.walkChain(target, rest, newVal)

	case linkDotCall:
		args := make([]Value, 0, len(link.argExprs)+1)
		args = append(args, cur.Get())
		for _, a := range link.argExprs {
			v, err := ex.evalExpr(a)
			if err != nil {
				return nil, false, err
			}
			args = append(args, v)
		}
		result, err := ex.ExecCall(link.name, args, nil, link.pos, true)
		if err != nil {
			return nil, false, err
		}
		if terminal {
			return &tempTarget{value: result, pos: link.pos}, true, nil
		}
		return ex.walkChain(&tempTarget{value: result, pos: link.pos}, rest, newVal)

	case linkDotProp:
		curVal := cur.Get()
		if m, ok := curVal.(*Map); ok {
			target := newMapEntryTarget(m, link.name)
			if terminal {
				if newVal != nil {
					if err := target.Set(*newVal); err != nil {
						return nil, false, err
					}
					return target, true, nil
				}
				return &tempTarget{value: target.IntoValue(), pos: link.pos}, false, nil
			}
			return ex.walkChain(target, rest, newVal)
		}

		if terminal {
			if newVal != nil {
				if _, err := ex.ExecCall("set$"+link.name, []Value{curVal, *newVal}, nil, link.pos, false); err != nil {
					return nil, false, err
				}
				return &tempTarget{value: *newVal, pos: link.pos}, true, nil
			}
			got, err := ex.ExecCall("get$"+link.name, []Value{curVal}, nil, link.pos, false)
			if err != nil {
				return nil, false, err
			}
			return &tempTarget{value: got, pos: link.pos}, false, nil
		}

		got, err := ex.ExecCall("get$"+link.name, []Value{curVal}, nil, link.pos, false)
		if err != nil {
			return nil, false, err
		}
		inner, mutated, err := ex.walkChain(&tempTarget{value: got, pos: link.pos}, rest, newVal)
		if err != nil {
			return nil, false, err
		}
		if mutated {
			if _, err := ex.ExecCall("set$"+link.name, []Value{curVal, inner.IntoValue()}, nil, link.pos, false); err != nil {
				return nil, false, err
			}
		}
		return inner, mutated, nil
	}
	return nil, false, nil
}

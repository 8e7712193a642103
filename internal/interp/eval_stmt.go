package interp

import (
	"github.com/nimbus-lang/nimbus/internal/ast"
	"github.com/nimbus-lang/nimbus/internal/lexer"
)

// EvalStmt is the exported entry point a host driver (pkg/nimbus) uses
// to run a single top-level statement against this Exec.
func (ex *Exec) EvalStmt(stmt ast.Statement) (Value, error) { return ex.evalStmt(stmt) }

// evalStmt evaluates one statement per spec §4.H, returning its trailing
// value (every statement form produces one, since Nimbus is expression
// oriented) or a control-flow sentinel (returnSignal, loopBreakSignal) or
// a genuine runtime error.
func (ex *Exec) evalStmt(stmt ast.Statement) (Value, error) {
	switch s := stmt.(type) {
	case *ast.ExpressionStatement:
		return ex.evalExpr(s.Expression)

	case *ast.BlockStatement:
		return ex.evalBlock(s)

	case *ast.LetStatement:
		return ex.evalLet(s)

	case *ast.ConstStatement:
		return ex.evalConst(s)

	case *ast.IfStatement:
		return ex.evalIf(s)

	case *ast.WhileStatement:
		return ex.evalWhile(s)

	case *ast.LoopStatement:
		return ex.evalLoop(s)

	case *ast.ForStatement:
		return ex.evalFor(s)

	case *ast.ReturnStatement:
		return ex.evalReturn(s)

	case *ast.BreakStatement:
		return nil, loopBreakSignal{IsBreak: true}

	case *ast.ContinueStatement:
		return nil, loopBreakSignal{IsBreak: false}

	case *ast.ThrowStatement:
		return ex.evalThrow(s)

	case *ast.FunctionStatement:
		// Hoisted into Program.Functions ahead of execution (spec §4.H
		// "FnDecl"); evaluating the statement itself is a noop.
		return Unit{}, nil
	}
	return Unit{}, NewRuntimeError("unhandled statement node", stmt.Pos())
}

// evalBlock runs a block's statements in a fresh scope frame: entries
// pushed inside the block are rewound on exit (success or error alike),
// and AlwaysSearch is reset since any cached scope indices computed
// inside no longer apply once the frame is gone (spec §4.H "Block",
// §9 "eval and scope invalidation").
func (ex *Exec) evalBlock(b *ast.BlockStatement) (Value, error) {
	mark := ex.Scope.Len()
	prevAlwaysSearch := ex.AlwaysSearch
	defer func() {
		ex.Scope.Rewind(mark)
		ex.AlwaysSearch = prevAlwaysSearch
	}()

	var result Value = Unit{}
	for _, stmt := range b.Statements {
		v, err := ex.evalStmt(stmt)
		if err != nil {
			return nil, err
		}
		result = v
	}
	return result, nil
}

func (ex *Exec) evalLet(s *ast.LetStatement) (Value, error) {
	var v Value = Unit{}
	if s.Init != nil {
		var err error
		v, err = ex.evalExpr(s.Init)
		if err != nil {
			return nil, err
		}
	}
	ex.Scope.Push(s.Name, v)
	return Unit{}, nil
}

func (ex *Exec) evalConst(s *ast.ConstStatement) (Value, error) {
	v, err := ex.evalExpr(s.Init)
	if err != nil {
		return nil, err
	}
	ex.Scope.PushConstant(s.Name, v)
	return Unit{}, nil
}

func (ex *Exec) evalIf(s *ast.IfStatement) (Value, error) {
	condVal, err := ex.evalExpr(s.Condition)
	if err != nil {
		return nil, err
	}
	cond, ok := AsBool(condVal)
	if !ok {
		return nil, NewLogicGuardError(s.Condition.Pos())
	}
	if cond {
		return ex.evalBlock(s.Consequence)
	}
	if s.Alternative != nil {
		return ex.evalBlock(s.Alternative)
	}
	return Unit{}, nil
}

func (ex *Exec) evalWhile(s *ast.WhileStatement) (Value, error) {
	for {
		condVal, err := ex.evalExpr(s.Condition)
		if err != nil {
			return nil, err
		}
		cond, ok := AsBool(condVal)
		if !ok {
			return nil, NewLogicGuardError(s.Condition.Pos())
		}
		if !cond {
			return Unit{}, nil
		}
		_, err = ex.evalBlock(s.Body)
		if err != nil {
			if lb, ok := err.(loopBreakSignal); ok {
				if lb.IsBreak {
					return Unit{}, nil
				}
				continue
			}
			return nil, err
		}
	}
}

func (ex *Exec) evalLoop(s *ast.LoopStatement) (Value, error) {
	for {
		_, err := ex.evalBlock(s.Body)
		if err != nil {
			if lb, ok := err.(loopBreakSignal); ok {
				if lb.IsBreak {
					return Unit{}, nil
				}
				continue
			}
			return nil, err
		}
	}
}

// evalFor resolves an iterator for the iterable's runtime type — engine
// defaults first, then loaded packages in precedence order — and runs
// the body once per element with VarName bound to it (spec §4.H "For").
func (ex *Exec) evalFor(s *ast.ForStatement) (Value, error) {
	iterableVal, err := ex.evalExpr(s.Iterable)
	if err != nil {
		return nil, err
	}
	it, err := ex.makeIterator(iterableVal, s.Pos())
	if err != nil {
		return nil, err
	}

	mark := ex.Scope.Len()
	ex.Scope.Push(s.VarName, Unit{})
	defer ex.Scope.Rewind(mark)

	for {
		elem, ok := it.Next()
		if !ok {
			return Unit{}, nil
		}
		ex.Scope.Set(mark, elem)
		_, err := ex.evalBlock(s.Body)
		if err != nil {
			if lb, ok := err.(loopBreakSignal); ok {
				if lb.IsBreak {
					return Unit{}, nil
				}
				continue
			}
			return nil, err
		}
	}
}

func (ex *Exec) makeIterator(v Value, pos lexer.Position) (Iterator, error) {
	tid := v.TypeID()
	if factory, ok := ex.Interp.Iterators[tid]; ok {
		return factory(v)
	}
	for _, pkg := range ex.Interp.Packages {
		if factory, ok := pkg.Iterators[tid]; ok {
			return factory(v)
		}
	}
	return nil, NewForError("value of type "+v.TypeName()+" is not iterable", pos)
}

func (ex *Exec) evalReturn(s *ast.ReturnStatement) (Value, error) {
	var v Value = Unit{}
	if s.Value != nil {
		var err error
		v, err = ex.evalExpr(s.Value)
		if err != nil {
			return nil, err
		}
	}
	return nil, returnSignal{Value: v}
}

func (ex *Exec) evalThrow(s *ast.ThrowStatement) (Value, error) {
	if s.Value == nil {
		return nil, NewRuntimeError("", s.Pos())
	}
	v, err := ex.evalExpr(s.Value)
	if err != nil {
		return nil, err
	}
	return nil, NewRuntimeError(v.String(), s.Pos())
}

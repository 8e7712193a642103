package interp

import (
	"testing"

	"github.com/nimbus-lang/nimbus/internal/ast"
	"github.com/nimbus-lang/nimbus/internal/lexer"
)

func newTestExec(in *Interp) *Exec {
	return &Exec{Interp: in, Scope: NewScope(), Functions: FunctionsLib{}}
}

func constFn(v Value) NativeFunc {
	return func(args []Value, pos lexer.Position) (Value, error) { return v, nil }
}

// TestDispatchPrecedence exercises spec invariant 2: script functions by
// name+arity beat engine natives, which beat packages, which are
// themselves searched newest-loaded-first.
func TestDispatchPrecedence(t *testing.T) {
	in := New()
	in.Natives.Register("greet", []TypeID{TypeString}, constFn(Str("native")))

	older := NewPackage("older")
	older.Natives.Register("greet", []TypeID{TypeString}, constFn(Str("older-pkg")))
	in.LoadPackage(older)

	newer := NewPackage("newer")
	newer.Natives.Register("greet", []TypeID{TypeString}, constFn(Str("newer-pkg")))
	in.LoadPackage(newer)

	ex := newTestExec(in)

	got, err := ex.Dispatch("greet", []Value{Str("x")}, nil, lexer.Position{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.(Str) != "native" {
		t.Fatalf("expected engine native to win over packages, got %v", got)
	}

	// Remove the engine-level override and confirm newest-loaded package wins.
	delete(in.Natives, HashByTypes("greet", []TypeID{TypeString}))
	got, err = ex.Dispatch("greet", []Value{Str("x")}, nil, lexer.Position{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.(Str) != "newer-pkg" {
		t.Fatalf("expected newest-loaded package to win, got %v", got)
	}

	// Script functions outrank everything else.
	ex.Functions[HashByArity("greet", 1)] = &ScriptFunction{
		Name: "greet", Params: []string{"s"},
		Body: &ast.BlockStatement{
			Statements: []ast.Statement{
				&ast.ExpressionStatement{Expression: &ast.StringLiteral{Value: "script"}},
			},
		},
	}
	got, err = ex.Dispatch("greet", []Value{Str("x")}, nil, lexer.Position{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.(Str) != "script" {
		t.Fatalf("expected script function to win over natives and packages, got %v", got)
	}
}

func TestDispatchFunctionNotFoundFallsBackToDefault(t *testing.T) {
	in := New()
	ex := newTestExec(in)

	def := Value(Int(7))
	got, err := ex.Dispatch("missing", nil, &def, lexer.Position{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.(Int) != 7 {
		t.Fatalf("expected default value 7, got %v", got)
	}

	_, err = ex.Dispatch("missing", nil, nil, lexer.Position{})
	if !IsFunctionNotFoundError(err) {
		t.Fatalf("expected FunctionNotFoundError, got %v", err)
	}
}

func TestDispatchStackOverflow(t *testing.T) {
	in := New()
	in.MaxCallLevels = 3
	ex := newTestExec(in)
	ex.Depth = 4

	_, err := ex.Dispatch("whatever", nil, nil, lexer.Position{})
	if !IsStackOverflowError(err) {
		t.Fatalf("expected StackOverflowError, got %v", err)
	}
}

func TestHasOverride(t *testing.T) {
	in := New()
	ex := newTestExec(in)

	if ex.hasOverride("type_of") {
		t.Fatalf("expected no override present yet")
	}

	in.Natives.Register("type_of", []TypeID{TypeString}, constFn(Str("overridden")))
	if !ex.hasOverride("type_of") {
		t.Fatalf("expected native string-arity override to be detected")
	}
}

func TestExecCallTypeOfSpecialCase(t *testing.T) {
	in := New()
	ex := newTestExec(in)

	got, err := ex.ExecCall("type_of", []Value{Int(1)}, nil, lexer.Position{}, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.(Str) != "integer" {
		t.Fatalf("expected type_of(1) == \"integer\", got %v", got)
	}
}

func TestExecCallEvalMethodStyleRejected(t *testing.T) {
	in := New()
	ex := newTestExec(in)

	_, err := ex.ExecCall("eval", []Value{Str("1")}, nil, lexer.Position{}, true)
	if !IsDotExprError(err) {
		t.Fatalf("expected DotExprError for eval in method style, got %v", err)
	}
}

func TestHashByArityAndTypesDeterministic(t *testing.T) {
	if HashByArity("f", 2) != HashByArity("f", 2) {
		t.Fatalf("HashByArity must be deterministic")
	}
	if HashByArity("f", 1) == HashByArity("f", 2) {
		t.Fatalf("different arities must not collide")
	}
	h1 := HashByTypes("+", []TypeID{TypeInt, TypeInt})
	h2 := HashByTypes("+", []TypeID{TypeInt, TypeInt})
	if h1 != h2 {
		t.Fatalf("HashByTypes must be deterministic")
	}
	if HashByTypes("+", []TypeID{TypeInt, TypeFloat}) == h1 {
		t.Fatalf("different type signatures must not collide")
	}
}

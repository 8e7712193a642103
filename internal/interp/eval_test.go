package interp_test

import (
	"testing"

	"github.com/nimbus-lang/nimbus/internal/interp"
	"github.com/nimbus-lang/nimbus/internal/interp/packages/corepkg"
	"github.com/nimbus-lang/nimbus/internal/lexer"
	"github.com/nimbus-lang/nimbus/internal/parser"
)

// run parses src, evaluates every top-level statement against a fresh
// Exec with the core package loaded, and returns the trailing value.
func run(t *testing.T, src string) (interp.Value, error) {
	t.Helper()
	l := lexer.New(src)
	p := parser.New(l)
	prog := p.ParseProgram()
	if len(p.Errors()) != 0 {
		for _, e := range p.Errors() {
			t.Errorf("parse error: %s", e)
		}
		t.FailNow()
	}

	in := interp.New()
	in.LoadPackage(corepkg.New())
	ex := interp.NewExec(in, interp.NewScope(), prog)

	var result interp.Value = interp.Unit{}
	var err error
	for _, stmt := range prog.Statements {
		result, err = ex.EvalStmt(stmt)
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

func mustRun(t *testing.T, src string) interp.Value {
	t.Helper()
	v, err := run(t, src)
	if err != nil {
		t.Fatalf("unexpected error evaluating %q: %v", src, err)
	}
	return v
}

func TestScenarioTable(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"arithmetic", `40 + 2`, "42"},
		{"arrayWrite", `let a = [1,2,3]; a[1] = 20; a[0] + a[1] + a[2]`, "24"},
		{"mapWrite", `let m = #{x: 1}; m.x = m.x + 41; m.x`, "42"},
		{"recursion", `fn f(n){ if n==0 {0} else {n + f(n-1)} } f(25)`, "325"},
		{"stringConcat", `"hello, " + "world!"`, "hello, world!"},
		{"stringCharWrite", `let s = "abc"; s[1] = 'X'; s`, "aXc"},
		{"mapIn", `"a" in #{"a": 1}`, "true"},
		{"blockShadowing", `let x = 10; { let x = 1; } x`, "10"},
		{"arrayInMixedNumeric", `1 in [1.0, 2.0]`, "true"},
		{"arrayInMiss", `3 in [1, 2]`, "false"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustRun(t, tt.src)
			if got.String() != tt.want {
				t.Errorf("%s: got %q, want %q", tt.src, got.String(), tt.want)
			}
		})
	}
}

func TestRecursionStackOverflow(t *testing.T) {
	src := `fn f(n){ if n==0 {0} else {n + f(n-1)} } f(1000)`

	l := lexer.New(src)
	p := parser.New(l)
	prog := p.ParseProgram()
	if len(p.Errors()) != 0 {
		t.Fatalf("parse errors: %v", p.Errors())
	}

	in := interp.New()
	in.LoadPackage(corepkg.New())
	in.MaxCallLevels = 28
	ex := interp.NewExec(in, interp.NewScope(), prog)

	var err error
	for _, stmt := range prog.Statements {
		_, err = ex.EvalStmt(stmt)
		if err != nil {
			break
		}
	}
	if !interp.IsStackOverflowError(err) {
		t.Fatalf("expected StackOverflowError, got %v", err)
	}
}

func TestConstAssignmentFails(t *testing.T) {
	_, err := run(t, `const K = 3; K = 4`)
	if !interp.IsAssignmentToConstantError(err) {
		t.Fatalf("expected AssignmentToConstantError, got %v", err)
	}
}

func TestNegativeArrayIndexFails(t *testing.T) {
	_, err := run(t, `let a = [1,2,3]; a[-1]`)
	if !interp.IsArrayBoundsError(err) {
		t.Fatalf("expected ArrayBoundsError, got %v", err)
	}
}

func TestArrayOutOfBoundsFails(t *testing.T) {
	_, err := run(t, `let a = [1,2,3]; a[3]`)
	if !interp.IsArrayBoundsError(err) {
		t.Fatalf("expected ArrayBoundsError, got %v", err)
	}
}

func TestStringCharWriteIdempotentWhenUnchanged(t *testing.T) {
	got := mustRun(t, `let s = "abc"; s[0] = 'a'; s`)
	if got.String() != "abc" {
		t.Fatalf("expected unchanged string, got %q", got.String())
	}
}

func TestChainSetterGetterRoundTrip(t *testing.T) {
	got := mustRun(t, `let m = #{a: #{b: 1}}; m.a.b = 99; m.a.b`)
	if got.String() != "99" {
		t.Fatalf("expected round-tripped write to be visible on read, got %q", got.String())
	}
}

func TestDeterminismAcrossRepeatedEvaluation(t *testing.T) {
	src := `let a = [3,1,2]; a[0] + a[1] * a[2]`
	first := mustRun(t, src)
	second := mustRun(t, src)
	if first.String() != second.String() {
		t.Fatalf("expected deterministic results, got %q then %q", first.String(), second.String())
	}
}

func TestIfWithoutBoolConditionIsLogicGuardError(t *testing.T) {
	_, err := run(t, `if 1 { 2 }`)
	if !interp.IsLogicGuardError(err) {
		t.Fatalf("expected LogicGuardError, got %v", err)
	}
}

func TestForOverArray(t *testing.T) {
	got := mustRun(t, `let total = 0; for x in [1,2,3] { total = total + x; } total`)
	if got.String() != "6" {
		t.Fatalf("expected 6, got %q", got.String())
	}
}

func TestLoopBreak(t *testing.T) {
	got := mustRun(t, `let i = 0; loop { i = i + 1; if i == 5 { break; } } i`)
	if got.String() != "5" {
		t.Fatalf("expected 5, got %q", got.String())
	}
}

func TestWhileContinue(t *testing.T) {
	got := mustRun(t, `
		let i = 0;
		let sum = 0;
		while i < 5 {
			i = i + 1;
			if i % 2 == 0 { continue; }
			sum = sum + i;
		}
		sum
	`)
	if got.String() != "9" {
		t.Fatalf("expected 9 (1+3+5), got %q", got.String())
	}
}

func TestVariableNotFoundError(t *testing.T) {
	_, err := run(t, `missing_var`)
	if !interp.IsVariableNotFoundError(err) {
		t.Fatalf("expected VariableNotFoundError, got %v", err)
	}
}

func TestFunctionNotFoundError(t *testing.T) {
	_, err := run(t, `no_such_fn(1, 2)`)
	if !interp.IsFunctionNotFoundError(err) {
		t.Fatalf("expected FunctionNotFoundError, got %v", err)
	}
}

func TestCachedIdentifierIndexSurvivesLoopIterations(t *testing.T) {
	// Exercises spec §4.G's index-caching path: the same Identifier node
	// is evaluated many times as the scope around it grows and shrinks
	// across loop bodies sharing one cached ast node.
	got := mustRun(t, `
		let total = 0;
		let i = 0;
		while i < 50 {
			let extra = i;
			total = total + extra;
			i = i + 1;
		}
		total
	`)
	if got.String() != "1225" {
		t.Fatalf("expected sum 0..49 == 1225, got %q", got.String())
	}
}

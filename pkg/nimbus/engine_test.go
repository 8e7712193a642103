package nimbus_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/nimbus-lang/nimbus/internal/interp"
	"github.com/nimbus-lang/nimbus/internal/lexer"
	"github.com/nimbus-lang/nimbus/pkg/nimbus"
)

// TestScenarioTable runs the engine's literal end-to-end scenarios:
// input script, expected successful result, or an expected closed-set
// error kind.
func TestScenarioTable(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		want    string
		wantErr func(error) bool
	}{
		{name: "arithmetic", src: `40 + 2`, want: "42"},
		{name: "arrayWrite", src: `let a = [1,2,3]; a[1] = 20; a[0] + a[1] + a[2]`, want: "24"},
		{name: "mapWrite", src: `let m = #{x: 1}; m.x = m.x + 41; m.x`, want: "42"},
		{name: "recursion", src: `fn f(n){ if n==0 {0} else {n + f(n-1)} } f(25)`, want: "325"},
		{name: "stringConcat", src: `"hello, " + "world!"`, want: "hello, world!"},
		{name: "stringCharWrite", src: `let s = "abc"; s[1] = 'X'; s`, want: "aXc"},
		{name: "mapIn", src: `"a" in #{"a": 1}`, want: "true"},
		{name: "blockShadowing", src: `let x = 10; { let x = 1; } x`, want: "10"},
		{
			name: "stackOverflow",
			src:  `fn f(n){ if n==0 {0} else {n + f(n-1)} } f(1000)`,
			wantErr: func(err error) bool {
				return interp.IsStackOverflowError(err)
			},
		},
		{
			name: "assignmentToConstant",
			src:  `const K = 3; K = 4`,
			wantErr: func(err error) bool {
				return interp.IsAssignmentToConstantError(err)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, err := nimbus.New()
			if err != nil {
				t.Fatalf("nimbus.New: %v", err)
			}
			if tt.name == "stackOverflow" {
				engine.SetMaxCallLevels(28)
			}
			result, err := engine.Eval(tt.src)
			if tt.wantErr != nil {
				if err == nil || !tt.wantErr(err) {
					t.Fatalf("%s: expected matching error kind, got %v", tt.src, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("%s: unexpected error: %v", tt.src, err)
			}
			if got := result.String(); got != tt.want {
				t.Errorf("%s: got %q, want %q", tt.src, got, tt.want)
			}
		})
	}
}

func TestMismatchOutputTypeOnWrongAccessor(t *testing.T) {
	engine, err := nimbus.New()
	if err != nil {
		t.Fatalf("nimbus.New: %v", err)
	}
	result, err := engine.Eval(`"hello, " + "world!"`)
	if err != nil {
		t.Fatalf("unexpected eval error: %v", err)
	}
	if _, err := result.Int(); !interp.IsMismatchOutputTypeError(err) {
		t.Fatalf("expected MismatchOutputType requesting Int() on a string result, got %v", err)
	}
}

// TestDispatchPrecedenceInvariant exercises invariant 2 end-to-end
// through the public Engine surface: an engine-registered native beats
// a loaded package's native with the same signature.
func TestDispatchPrecedenceInvariant(t *testing.T) {
	engine, err := nimbus.New()
	if err != nil {
		t.Fatalf("nimbus.New: %v", err)
	}
	if err := engine.RegisterFunction("greet", func() string { return "native" }); err != nil {
		t.Fatalf("RegisterFunction: %v", err)
	}

	pkg := interp.NewPackage("extra")
	pkg.Natives.Register("greet", nil, func(args []interp.Value, pos lexer.Position) (interp.Value, error) {
		return interp.Str("package"), nil
	})
	engine.LoadPackage(pkg)

	result, err := engine.Eval(`greet()`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, _ := result.Str(); got != "native" {
		t.Fatalf("expected engine-registered native to win over a loaded package, got %q", got)
	}
}

func TestRegisterFunctionRoundTrip(t *testing.T) {
	engine, err := nimbus.New()
	if err != nil {
		t.Fatalf("nimbus.New: %v", err)
	}
	if err := engine.RegisterFunction("add", func(a, b int64) int64 { return a + b }); err != nil {
		t.Fatalf("RegisterFunction: %v", err)
	}
	result, err := engine.Eval(`add(19, 23)`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := result.Int()
	if err != nil || got != 42 {
		t.Fatalf("expected 42, got %v (err=%v)", got, err)
	}
}

func TestRegisterFunctionPropagatesGoError(t *testing.T) {
	engine, err := nimbus.New()
	if err != nil {
		t.Fatalf("nimbus.New: %v", err)
	}
	boom := errors.New("boom")
	err = engine.RegisterResultFunction("mayFail", func(n int64) (int64, error) {
		if n < 0 {
			return 0, boom
		}
		return n, nil
	})
	if err != nil {
		t.Fatalf("RegisterResultFunction: %v", err)
	}
	_, err = engine.Eval(`mayFail(-1)`)
	if !interp.IsRuntimeError(err) {
		t.Fatalf("expected a RuntimeError wrapping the Go error, got %v", err)
	}
}

func TestEvalWithScopePersistsBindings(t *testing.T) {
	engine, err := nimbus.New()
	if err != nil {
		t.Fatalf("nimbus.New: %v", err)
	}
	scope := interp.NewScope()
	if _, err := engine.EvalWithScope(scope, `let x = 10;`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	result, err := engine.EvalWithScope(scope, `x + 5`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ := result.Int()
	if got != 15 {
		t.Fatalf("expected binding from the first call to persist, got %d", got)
	}
}

func TestCompileAndEvalAST(t *testing.T) {
	engine, err := nimbus.New()
	if err != nil {
		t.Fatalf("nimbus.New: %v", err)
	}
	program, err := engine.Compile(`2 * 21`)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	result, err := engine.EvalAST(program)
	if err != nil {
		t.Fatalf("EvalAST: %v", err)
	}
	got, _ := result.Int()
	if got != 42 {
		t.Fatalf("expected 42, got %d", got)
	}
}

func TestCompileReusedAcrossMultipleEvalASTCalls(t *testing.T) {
	engine, err := nimbus.New()
	if err != nil {
		t.Fatalf("nimbus.New: %v", err)
	}
	program, err := engine.Compile(`let x = 1; x + 1`)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	first, err := engine.EvalAST(program)
	if err != nil {
		t.Fatalf("EvalAST (first): %v", err)
	}
	second, err := engine.EvalAST(program)
	if err != nil {
		t.Fatalf("EvalAST (second): %v", err)
	}
	if first.String() != second.String() {
		t.Fatalf("expected determinism across repeated evaluation of the same compiled program: %q vs %q",
			first.String(), second.String())
	}
}

func TestEvalAsGenericAccessors(t *testing.T) {
	engine, err := nimbus.New()
	if err != nil {
		t.Fatalf("nimbus.New: %v", err)
	}
	i, err := nimbus.EvalAs[int64](engine, `40 + 2`)
	if err != nil || i != 42 {
		t.Fatalf("EvalAs[int64]: got %d, err %v", i, err)
	}
	s, err := nimbus.EvalAs[string](engine, `"a" + "b"`)
	if err != nil || s != "ab" {
		t.Fatalf("EvalAs[string]: got %q, err %v", s, err)
	}
	b, err := nimbus.EvalAs[bool](engine, `1 == 1`)
	if err != nil || !b {
		t.Fatalf("EvalAs[bool]: got %v, err %v", b, err)
	}
}

func TestWithOutputRoutesPrint(t *testing.T) {
	var buf bytes.Buffer
	engine, err := nimbus.New(nimbus.WithOutput(&buf))
	if err != nil {
		t.Fatalf("nimbus.New: %v", err)
	}
	if _, err := engine.Eval(`print("hello")`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.String() != "hello\n" {
		t.Fatalf("expected print output routed to the configured writer, got %q", buf.String())
	}
}

func TestWithMaxCallLevelsOption(t *testing.T) {
	engine, err := nimbus.New(nimbus.WithMaxCallLevels(5))
	if err != nil {
		t.Fatalf("nimbus.New: %v", err)
	}
	_, err = engine.Eval(`fn f(n){ if n==0 {0} else {n + f(n-1)} } f(100)`)
	if !interp.IsStackOverflowError(err) {
		t.Fatalf("expected StackOverflowError with a tight call-depth ceiling, got %v", err)
	}
}

func TestNewRawHasNoOperators(t *testing.T) {
	engine := nimbus.NewRaw()
	_, err := engine.Eval(`1 + 1`)
	if !interp.IsFunctionNotFoundError(err) {
		t.Fatalf("expected new_raw() to have no arithmetic operators loaded, got %v", err)
	}
}

// TestArrayMembershipDispatchesThroughEquality guards spec §4.G's "call
// == pairwise through normal dispatch" requirement for `in` over an
// array: without any package registering "==", membership must fail
// closed (FunctionNotFoundError) rather than silently falling back to
// a structural comparison.
func TestArrayMembershipDispatchesThroughEquality(t *testing.T) {
	engine := nimbus.NewRaw()
	_, err := engine.Eval(`1 in [1]`)
	if !interp.IsFunctionNotFoundError(err) {
		t.Fatalf("expected `in` to require a dispatchable \"==\", got %v", err)
	}
}

func TestEvalBuiltinSharesEnclosingScope(t *testing.T) {
	engine, err := nimbus.New()
	if err != nil {
		t.Fatalf("nimbus.New: %v", err)
	}
	result, err := engine.Eval(`eval("let y = 9;"); y + 1`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ := result.Int()
	if got != 10 {
		t.Fatalf("expected eval's new binding visible to the enclosing scope, got %d", got)
	}
}

func TestOptimizationLevelsPreserveResults(t *testing.T) {
	src := `let a = [1,2,3]; a[1] = 20; a[0] + a[1] + a[2]`
	for _, lvl := range []nimbus.OptimizationLevel{nimbus.OptNone, nimbus.OptSimple, nimbus.OptFull} {
		engine, err := nimbus.New(nimbus.WithOptimizationLevel(lvl))
		if err != nil {
			t.Fatalf("nimbus.New: %v", err)
		}
		result, err := engine.Eval(src)
		if err != nil {
			t.Fatalf("level %v: unexpected error: %v", lvl, err)
		}
		if got, _ := result.Int(); got != 24 {
			t.Fatalf("level %v: expected 24, got %d", lvl, got)
		}
	}
}

// TestAssignmentToConstantSurvivesOptimization guards spec scenario 10
// (const assignment -> AssignmentToConstant) at every optimizer level,
// not just the default OptNone: constant-read propagation must not
// erase the runtime binding a later assignment needs to fail against.
func TestAssignmentToConstantSurvivesOptimization(t *testing.T) {
	for _, lvl := range []nimbus.OptimizationLevel{nimbus.OptNone, nimbus.OptSimple, nimbus.OptFull} {
		engine, err := nimbus.New(nimbus.WithOptimizationLevel(lvl))
		if err != nil {
			t.Fatalf("nimbus.New: %v", err)
		}
		_, err = engine.Eval(`const K = 3; K = 4`)
		if !interp.IsAssignmentToConstantError(err) {
			t.Fatalf("level %v: expected AssignmentToConstantError, got %v", lvl, err)
		}
	}
}

// Package nimbus is the embeddable scripting engine's host-facing
// surface (spec §6 "Engine surface"), grounded on the teacher's
// pkg/dwscript API shape: New(opts...), RegisterFunction, Eval,
// SetOutput, Compile/EvalAST.
package nimbus

import (
	"fmt"
	"io"
	"reflect"

	"github.com/nimbus-lang/nimbus/internal/ast"
	"github.com/nimbus-lang/nimbus/internal/interp"
	"github.com/nimbus-lang/nimbus/internal/interp/optimize"
	"github.com/nimbus-lang/nimbus/internal/interp/packages/corepkg"
	"github.com/nimbus-lang/nimbus/internal/lexer"
	"github.com/nimbus-lang/nimbus/internal/parser"
)

var zeroPos lexer.Position

// OptimizationLevel controls which optimizer rewrites the engine
// applies before evaluation (spec §4.I/§6).
type OptimizationLevel = interp.OptimizationLevel

const (
	OptNone   = interp.OptNone
	OptSimple = interp.OptSimple
	OptFull   = interp.OptFull
)

// Engine is a configured interpreter instance: its native/package
// dispatch tables, call-depth ceiling, optimizer level, and output
// sinks.
type Engine struct {
	core *interp.Interp
}

// Option configures an Engine at construction time.
type Option func(*Engine) error

// New builds an Engine with the standard package (corepkg: arithmetic,
// comparisons, print/debug) preloaded (spec §6 "new()").
func New(opts ...Option) (*Engine, error) {
	e := NewRaw()
	e.core.LoadPackage(corepkg.New())
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// NewRaw builds an Engine with no packages preloaded — not even
// arithmetic operators — for hosts that want full control over what a
// script can do (spec §6 "new_raw()").
func NewRaw() *Engine {
	return &Engine{core: interp.New()}
}

// WithOptimizationLevel sets the optimizer level (spec §6 "configuration
// options").
func WithOptimizationLevel(lvl OptimizationLevel) Option {
	return func(e *Engine) error {
		e.core.OptimizationLevel = lvl
		return nil
	}
}

// WithMaxCallLevels overrides the call-depth ceiling (spec §6
// "max_call_stack_depth"; default interp.DefaultMaxCallLevels).
func WithMaxCallLevels(n int) Option {
	return func(e *Engine) error {
		e.core.MaxCallLevels = n
		return nil
	}
}

// WithOutput routes the `print` sink to w, one line per call.
func WithOutput(w io.Writer) Option {
	return func(e *Engine) error {
		e.SetOutput(w)
		return nil
	}
}

// LoadPackage prepends pkg to the engine's package search list, giving
// it precedence over previously loaded packages (spec §6
// "load_package").
func (e *Engine) LoadPackage(pkg *interp.Package) { e.core.LoadPackage(pkg) }

// SetOptimizationLevel sets the optimizer level after construction.
func (e *Engine) SetOptimizationLevel(lvl OptimizationLevel) { e.core.OptimizationLevel = lvl }

// SetMaxCallLevels sets the call-depth ceiling after construction.
func (e *Engine) SetMaxCallLevels(n int) { e.core.MaxCallLevels = n }

// SetOutput routes `print`/`debug` calls to w, one line per call, debug
// lines prefixed "DEBUG: " as dwscript's own PrintLn/debug sinks do.
func (e *Engine) SetOutput(w io.Writer) {
	e.core.Print = func(s string) { fmt.Fprintln(w, s) }
	e.core.Debug = func(s string) { fmt.Fprintln(w, "DEBUG: "+s) }
}

// RegisterFunction adapts a typed Go function to the uniform native
// callable shape, deriving each parameter's type_id by reflection at
// registration time (spec §6 "Registration contract"). fn may return
// (T) or (T, error); a non-nil error becomes a Runtime error at the
// call site.
func (e *Engine) RegisterFunction(name string, fn interface{}) error {
	return e.registerReflected(name, fn, e.core.Natives)
}

// RegisterResultFunction is an alias of RegisterFunction for fallible
// Go functions (those returning (T, error)) — spec §6 names it
// separately, but in this Go binding the same reflection path handles
// both shapes.
func (e *Engine) RegisterResultFunction(name string, fn interface{}) error {
	return e.registerReflected(name, fn, e.core.Natives)
}

// RegisterDynamicFunction registers a callable already in the engine's
// native calling convention, bypassing reflection entirely (spec §6
// "register_dynamic_fn").
func (e *Engine) RegisterDynamicFunction(name string, paramTypes []interp.TypeID, fn interp.NativeFunc) {
	e.core.Natives.Register(name, paramTypes, fn)
}

func (e *Engine) registerReflected(name string, fn interface{}, into interp.NativeTable) error {
	rv := reflect.ValueOf(fn)
	if rv.Kind() != reflect.Func {
		return fmt.Errorf("nimbus: RegisterFunction(%q): not a function", name)
	}
	rt := rv.Type()
	if rt.IsVariadic() {
		return fmt.Errorf("nimbus: RegisterFunction(%q): variadic functions are not supported", name)
	}

	numOut := rt.NumOut()
	returnsErr := numOut > 0 && rt.Out(numOut-1) == errorType
	if numOut > 2 || (numOut == 2 && !returnsErr) {
		return fmt.Errorf("nimbus: RegisterFunction(%q): must return (T), (T, error), or nothing", name)
	}

	paramTypes := make([]interp.TypeID, rt.NumIn())
	for i := 0; i < rt.NumIn(); i++ {
		tid, _ := typeIDForGoKind(rt.In(i))
		paramTypes[i] = tid
	}

	native := func(args []interp.Value, pos lexer.Position) (interp.Value, error) {
		if len(args) != rt.NumIn() {
			return nil, interp.NewFunctionNotFoundError(name, pos)
		}
		in := make([]reflect.Value, rt.NumIn())
		for i := range in {
			gv, err := valueToGo(args[i], rt.In(i))
			if err != nil {
				return nil, interp.NewMismatchOutputTypeError(args[i].TypeName(), pos)
			}
			in[i] = gv
		}
		out := rv.Call(in)
		if returnsErr {
			if errVal := out[numOut-1]; !errVal.IsNil() {
				return nil, interp.NewRuntimeError(errVal.Interface().(error).Error(), pos)
			}
			out = out[:numOut-1]
		}
		if len(out) == 0 {
			return interp.Unit{}, nil
		}
		return goToValue(out[0]), nil
	}

	into.Register(name, paramTypes, native)
	return nil
}

// Program is a parsed, hoisted script ready for repeated evaluation
// (spec §6 "compile(src) -> AST").
type Program struct {
	ast *ast.Program
}

// String renders the parsed program's AST, for --dump-ast style tooling.
func (p *Program) String() string { return p.ast.String() }

// Compile parses and optimizes src without evaluating it.
func (e *Engine) Compile(src string) (*Program, error) {
	prog, errs := parseProgram(src)
	if len(errs) > 0 {
		return nil, parseErrorList(errs)
	}
	optimize.Optimize(prog, e.core, e.core.OptimizationLevel)
	return &Program{ast: prog}, nil
}

// EvalAST evaluates a previously compiled Program against a fresh
// scope (spec §6 "eval_ast(ast)").
func (e *Engine) EvalAST(program *Program) (*Result, error) {
	return e.evalProgram(program.ast, interp.NewScope())
}

// Eval parses, optimizes, evaluates src against a fresh scope, and
// returns its trailing value (spec §6 "eval<T>(src)").
func (e *Engine) Eval(src string) (*Result, error) {
	prog, errs := parseProgram(src)
	if len(errs) > 0 {
		return nil, parseErrorList(errs)
	}
	optimize.Optimize(prog, e.core, e.core.OptimizationLevel)
	return e.evalProgram(prog, interp.NewScope())
}

// EvalWithScope evaluates src against caller-supplied scope, so
// variables declared across successive calls persist (spec §6
// "eval_with_scope<T>(&mut scope, src)").
func (e *Engine) EvalWithScope(scope *interp.Scope, src string) (*Result, error) {
	prog, errs := parseProgram(src)
	if len(errs) > 0 {
		return nil, parseErrorList(errs)
	}
	optimize.Optimize(prog, e.core, e.core.OptimizationLevel)
	return e.evalProgram(prog, scope)
}

func (e *Engine) evalProgram(prog *ast.Program, scope *interp.Scope) (*Result, error) {
	ex := interp.NewExec(e.core, scope, prog)
	ex.EvalSource = e.evalSource

	var result interp.Value = interp.Unit{}
	for _, stmt := range prog.Statements {
		v, err := ex.EvalStmt(stmt)
		if err != nil {
			return nil, err
		}
		result = v
	}
	return &Result{value: result}, nil
}

// evalSource backs the `eval(src)` builtin: it compiles src and runs
// its statements against the caller's live Exec, so new bindings
// become visible to the enclosing scope exactly as a literal inline
// block would (spec §9 "eval and scope invalidation").
func (e *Engine) evalSource(src string, ex *interp.Exec) (interp.Value, error) {
	prog, errs := parseProgram(src)
	if len(errs) > 0 {
		return nil, parseErrorList(errs)
	}
	optimize.Optimize(prog, e.core, e.core.OptimizationLevel)
	for name, decl := range prog.Functions {
		ex.Functions[interp.HashByArity(decl.Name, len(decl.Params))] = &interp.ScriptFunction{
			Name: decl.Name, Params: decl.Params, Body: decl.Body,
		}
		_ = name
	}
	var result interp.Value = interp.Unit{}
	for _, stmt := range prog.Statements {
		v, err := ex.EvalStmt(stmt)
		if err != nil {
			return nil, err
		}
		result = v
	}
	return result, nil
}

func parseProgram(src string) (*ast.Program, []*parser.ParseError) {
	l := lexer.New(src)
	p := parser.New(l)
	prog := p.ParseProgram()
	return prog, p.Errors()
}

func parseErrorList(errs []*parser.ParseError) error {
	if len(errs) == 0 {
		return nil
	}
	msg := "nimbus: parse error"
	if len(errs) > 1 {
		msg = fmt.Sprintf("nimbus: %d parse errors", len(errs))
	}
	return fmt.Errorf("%s: %s", msg, errs[0].Message)
}

package interp

import (
	"github.com/nimbus-lang/nimbus/internal/ast"
)

// OptimizationLevel gates which optimizer rewrites apply (spec §4.I/§6).
type OptimizationLevel int

const (
	OptNone OptimizationLevel = iota
	OptSimple
	OptFull
)

// DefaultMaxCallLevels matches spec §4.D's release-mode default; debug
// builds of the original use 28, but a long-running embedded interpreter
// is closer in spirit to "release" here, so 256 is this port's default.
// Hosts needing the stricter bound call SetMaxCallLevels(28).
const DefaultMaxCallLevels = 256

// Interp holds everything that is read-only during a single evaluation:
// the engine's own native table, the loaded packages (search order is
// newest-first, i.e. index 0 is the most recently loaded), optimizer
// level, output sinks, and the call-depth ceiling (spec §5 "the Engine
// is read-only during evaluation").
type Interp struct {
	Natives           NativeTable
	Packages          []*Package
	Iterators         map[TypeID]IteratorFactory
	MaxCallLevels     int
	OptimizationLevel OptimizationLevel
	Print             func(string)
	Debug             func(string)
	TypeNameOverride  map[TypeID]string
}

// New builds an Interp with the core dispatch tables empty and the
// engine-level default for-loop iterators registered for Array, Map and
// String — callers load packages via LoadPackage; a for-loop consults
// these engine-level iterators before any package's. Corresponds to spec §6 "new_raw()".
func New() *Interp {
	in := &Interp{
		Natives:       NativeTable{},
		MaxCallLevels: DefaultMaxCallLevels,
		Print:         func(string) {},
		Debug:         func(string) {},
	}
	in.Iterators = map[TypeID]IteratorFactory{
		TypeArray: func(v Value) (Iterator, error) {
			arr := v.(*Array)
			return newSliceIterator(arr.Elems), nil
		},
		TypeMap: func(v Value) (Iterator, error) {
			m := v.(*Map)
			vals := make([]Value, 0, m.Len())
			for _, k := range m.Keys() {
				val, _ := m.Get(k)
				vals = append(vals, NewArray([]Value{Str(k), val}))
			}
			return newSliceIterator(vals), nil
		},
		TypeString: func(v Value) (Iterator, error) {
			s, _ := AsStr(v)
			runes := []rune(s)
			vals := make([]Value, len(runes))
			for i, r := range runes {
				vals[i] = Char(r)
			}
			return newSliceIterator(vals), nil
		},
	}
	return in
}

// LoadPackage prepends pkg to the search list so it has highest
// precedence among packages (spec §3 "Package", §6 "load_package").
func (in *Interp) LoadPackage(pkg *Package) {
	in.Packages = append([]*Package{pkg}, in.Packages...)
}

// Exec is the per-evaluation state threaded through the expression and
// statement evaluator: the mutable Scope, the current recursion depth,
// the FunctionsLib in effect, and the always_search flag described in
// spec §3 "State" / §9 "eval and scope invalidation".
type Exec struct {
	Interp       *Interp
	Scope        *Scope
	Functions    FunctionsLib
	Depth        int
	AlwaysSearch bool

	// EvalSource, when set, lets the `eval` builtin compile-and-run a
	// dynamically produced script against the current Exec. It is
	// supplied by pkg/nimbus, which owns the lexer/parser the core
	// treats as an external collaborator (spec §1 "Out of scope").
	EvalSource func(src string, ex *Exec) (Value, error)
}

// NewExec starts a fresh top-level evaluation over program against scope.
func NewExec(in *Interp, scope *Scope, program *ast.Program) *Exec {
	return &Exec{
		Interp:    in,
		Scope:     scope,
		Functions: NewFunctionsLib(program),
	}
}

// child derives an Exec for a nested call (script function body, nested
// eval) sharing the same Interp/Functions/EvalSource but its own depth
// counter value and scope.
func (ex *Exec) child(scope *Scope, depth int) *Exec {
	return &Exec{
		Interp:       ex.Interp,
		Scope:        scope,
		Functions:    ex.Functions,
		Depth:        depth,
		AlwaysSearch: false,
		EvalSource:   ex.EvalSource,
	}
}

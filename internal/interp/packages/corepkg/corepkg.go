// Package corepkg is the engine-level native function bundle that
// nimbus.New preloads (nimbus.NewRaw does not): arithmetic and comparison operators, and the
// print/debug sinks.
//
// Operators are ordinary dispatched native functions rather than
// special-cased evaluator logic: the closed error taxonomy (spec §7)
// has no dedicated "arithmetic type mismatch" kind, so an unsupported
// operand pairing falls through Dispatch exactly like any other
// undefined function call and naturally surfaces FunctionNotFound. It
// also means a script can register its own `+`/`==`/... overload for a
// new operand type and it takes precedence over these, per the normal
// dispatch order (spec §4.D).
package corepkg

import (
	"github.com/google/uuid"

	"github.com/nimbus-lang/nimbus/internal/interp"
	"github.com/nimbus-lang/nimbus/internal/lexer"
)

// New returns the package bundle for loading into an Interp via
// LoadPackage.
func New() *interp.Package {
	pkg := interp.NewPackage("core")
	registerArithmetic(pkg)
	registerComparisons(pkg)
	registerPrintDebug(pkg)
	registerMisc(pkg)
	return pkg
}

// registerMisc holds built-ins that don't fit the operator/print
// families: `uuid()` backed by google/uuid.
func registerMisc(pkg *interp.Package) {
	pkg.Natives.Register("uuid", nil, func(args []interp.Value, _ lexer.Position) (interp.Value, error) {
		return interp.Str(uuid.NewString()), nil
	})
}

func asIntOrFloat(v interp.Value) (float64, bool, bool) {
	if i, ok := interp.AsInt(v); ok {
		return float64(i), true, true
	}
	if f, ok := interp.AsFloat(v); ok {
		return f, false, true
	}
	return 0, false, false
}

func registerArithmetic(pkg *interp.Package) {
	num := func(name string, op func(a, b int64) int64, fop func(a, b float64) float64) {
		ii := func(args []interp.Value, _ lexer.Position) (interp.Value, error) {
			a, _ := interp.AsInt(args[0])
			b, _ := interp.AsInt(args[1])
			return interp.Int(op(a, b)), nil
		}
		ff := func(args []interp.Value, _ lexer.Position) (interp.Value, error) {
			a, _ := interp.AsFloat(args[0])
			b, _ := interp.AsFloat(args[1])
			return interp.Float(fop(a, b)), nil
		}
		pkg.Natives.Register(name, []interp.TypeID{interp.TypeInt, interp.TypeInt}, ii)
		pkg.Natives.Register(name, []interp.TypeID{interp.TypeFloat, interp.TypeFloat}, ff)
		pkg.Natives.Register(name, []interp.TypeID{interp.TypeInt, interp.TypeFloat}, ff)
		pkg.Natives.Register(name, []interp.TypeID{interp.TypeFloat, interp.TypeInt}, ff)
	}

	num("+", func(a, b int64) int64 { return a + b }, func(a, b float64) float64 { return a + b })
	num("-", func(a, b int64) int64 { return a - b }, func(a, b float64) float64 { return a - b })
	num("*", func(a, b int64) int64 { return a * b }, func(a, b float64) float64 { return a * b })
	// Integer division/modulo by zero return 0 rather than panicking or
	// erroring: the closed error taxonomy (spec §7) has no divide-by-zero
	// kind, and float division already yields IEEE 754 Inf/NaN, so this
	// keeps the two numeric paths consistent ("always returns a Dynamic")
	// instead of introducing a new failure mode the spec doesn't name.
	num("/", func(a, b int64) int64 {
		if b == 0 {
			return 0
		}
		return a / b
	}, func(a, b float64) float64 { return a / b })
	num("%", func(a, b int64) int64 {
		if b == 0 {
			return 0
		}
		return a % b
	}, func(a, b float64) float64 {
		r := a - float64(int64(a/b))*b
		return r
	})

	pkg.Natives.Register("+", []interp.TypeID{interp.TypeString, interp.TypeString}, func(args []interp.Value, _ lexer.Position) (interp.Value, error) {
		a, _ := interp.AsStr(args[0])
		b, _ := interp.AsStr(args[1])
		return interp.Str(a + b), nil
	})

	neg := func(args []interp.Value, _ lexer.Position) (interp.Value, error) {
		if i, ok := interp.AsInt(args[0]); ok {
			return interp.Int(-i), nil
		}
		f, _ := interp.AsFloat(args[0])
		return interp.Float(-f), nil
	}
	pkg.Natives.Register("-", []interp.TypeID{interp.TypeInt}, neg)
	pkg.Natives.Register("-", []interp.TypeID{interp.TypeFloat}, neg)
}

func registerComparisons(pkg *interp.Package) {
	ordered := func(name string, cmp func(a, b float64) bool, scmp func(a, b string) bool) {
		numFn := func(args []interp.Value, _ lexer.Position) (interp.Value, error) {
			a, _, _ := asIntOrFloat(args[0])
			b, _, _ := asIntOrFloat(args[1])
			return interp.Bool(cmp(a, b)), nil
		}
		strFn := func(args []interp.Value, _ lexer.Position) (interp.Value, error) {
			a, _ := interp.AsStr(args[0])
			b, _ := interp.AsStr(args[1])
			return interp.Bool(scmp(a, b)), nil
		}
		pkg.Natives.Register(name, []interp.TypeID{interp.TypeInt, interp.TypeInt}, numFn)
		pkg.Natives.Register(name, []interp.TypeID{interp.TypeFloat, interp.TypeFloat}, numFn)
		pkg.Natives.Register(name, []interp.TypeID{interp.TypeInt, interp.TypeFloat}, numFn)
		pkg.Natives.Register(name, []interp.TypeID{interp.TypeFloat, interp.TypeInt}, numFn)
		pkg.Natives.Register(name, []interp.TypeID{interp.TypeString, interp.TypeString}, strFn)
	}

	ordered("<", func(a, b float64) bool { return a < b }, func(a, b string) bool { return a < b })
	ordered(">", func(a, b float64) bool { return a > b }, func(a, b string) bool { return a > b })
	ordered("<=", func(a, b float64) bool { return a <= b }, func(a, b string) bool { return a <= b })
	ordered(">=", func(a, b float64) bool { return a >= b }, func(a, b string) bool { return a >= b })

	equal := func(args []interp.Value, _ lexer.Position) (interp.Value, error) {
		return interp.Bool(valuesEqual(args[0], args[1])), nil
	}
	notEqual := func(args []interp.Value, _ lexer.Position) (interp.Value, error) {
		return interp.Bool(!valuesEqual(args[0], args[1])), nil
	}
	allTypes := []interp.TypeID{
		interp.TypeUnit, interp.TypeBool, interp.TypeInt, interp.TypeFloat,
		interp.TypeChar, interp.TypeString, interp.TypeArray, interp.TypeMap, interp.TypeOpaque,
	}
	for _, a := range allTypes {
		for _, b := range allTypes {
			pkg.Natives.Register("==", []interp.TypeID{a, b}, equal)
			pkg.Natives.Register("!=", []interp.TypeID{a, b}, notEqual)
		}
	}
}

// valuesEqual compares two Dynamics structurally: numerics compare
// across Int/Float, everything else compares by (type, rendered form).
func valuesEqual(a, b interp.Value) bool {
	af, _, aOK := asIntOrFloat(a)
	bf, _, bOK := asIntOrFloat(b)
	if aOK && bOK {
		return af == bf
	}
	if a.TypeID() != b.TypeID() {
		return false
	}
	return a.String() == b.String()
}

func registerPrintDebug(pkg *interp.Package) {
	identity := func(args []interp.Value, _ lexer.Position) (interp.Value, error) {
		return args[0], nil
	}
	allTypes := []interp.TypeID{
		interp.TypeUnit, interp.TypeBool, interp.TypeInt, interp.TypeFloat,
		interp.TypeChar, interp.TypeString, interp.TypeArray, interp.TypeMap, interp.TypeOpaque,
	}
	for _, t := range allTypes {
		pkg.Natives.Register("print", []interp.TypeID{t}, identity)
		pkg.Natives.Register("debug", []interp.TypeID{t}, identity)
	}
}

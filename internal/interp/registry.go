package interp

import (
	"github.com/nimbus-lang/nimbus/internal/ast"
	"github.com/nimbus-lang/nimbus/internal/lexer"
)

// ScriptFunction is a script-defined function definition as stored in the
// FunctionsLib (spec §3).
type ScriptFunction struct {
	Name   string
	Params []string
	Body   *ast.BlockStatement
}

// FunctionsLib maps hash(name, arity) to a script function definition.
type FunctionsLib map[uint64]*ScriptFunction

// NewFunctionsLib builds a FunctionsLib from a parsed program's hoisted
// function declarations.
func NewFunctionsLib(program *ast.Program) FunctionsLib {
	lib := make(FunctionsLib, len(program.Functions))
	for _, decl := range program.Functions {
		h := HashByArity(decl.Name, len(decl.Params))
		lib[h] = &ScriptFunction{Name: decl.Name, Params: decl.Params, Body: decl.Body}
	}
	return lib
}

// Lookup finds the script function matching name+arity, if any.
func (lib FunctionsLib) Lookup(name string, arity int) (*ScriptFunction, bool) {
	if lib == nil {
		return nil, false
	}
	fn, ok := lib[HashByArity(name, arity)]
	return fn, ok
}

// NativeFunc is the uniform dynamic call convention every host-registered
// and built-in function is adapted to (spec §3 "Registered-function
// table"). Implementations may mutate args[0] in place to support
// method-style receivers threaded through the chain evaluator.
type NativeFunc func(args []Value, pos lexer.Position) (Value, error)

// NativeTable maps hash(name, type_ids…) to a native callable.
type NativeTable map[uint64]NativeFunc

// Register adds or overwrites (per spec §6 "Name collisions... silently
// overwrite") the callable for name over the given parameter types.
func (t NativeTable) Register(name string, paramTypes []TypeID, fn NativeFunc) {
	t[HashByTypes(name, paramTypes)] = fn
}

// Lookup finds the native callable matching name and the argument types
// actually passed.
func (t NativeTable) Lookup(name string, args []Value) (NativeFunc, bool) {
	if t == nil {
		return nil, false
	}
	fn, ok := t[HashByTypes(name, typeIDsOf(args))]
	return fn, ok
}

// HasOverride implements the "override exists" test of spec §4.D: a
// hash_by_types(name, [string]) entry present as an arity-1 string
// overload.
func (t NativeTable) HasOverride(name string) bool {
	_, ok := t[HashByTypes(name, []TypeID{TypeString})]
	return ok
}

// Iterator yields successive elements of a for-loop's iterable.
type Iterator interface {
	Next() (Value, bool)
}

// IteratorFactory builds an Iterator over a value of the type it is
// registered for.
type IteratorFactory func(Value) (Iterator, error)

// Package bundles a NativeTable with a per-type iterator table; multiple
// packages may be loaded, newest-loaded taking precedence (spec §3
// "Package").
type Package struct {
	Name      string
	Natives   NativeTable
	Iterators map[TypeID]IteratorFactory
}

// NewPackage creates an empty, ready-to-populate Package.
func NewPackage(name string) *Package {
	return &Package{Name: name, Natives: NativeTable{}, Iterators: map[TypeID]IteratorFactory{}}
}

// sliceIterator adapts a []Value into an Iterator, used by the built-in
// array/map/string iterator factories.
type sliceIterator struct {
	vals []Value
	pos  int
}

func (it *sliceIterator) Next() (Value, bool) {
	if it.pos >= len(it.vals) {
		return nil, false
	}
	v := it.vals[it.pos]
	it.pos++
	return v, true
}

func newSliceIterator(vals []Value) Iterator { return &sliceIterator{vals: vals} }

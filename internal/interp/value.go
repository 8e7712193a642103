// Package interp is the tree-walking evaluator: the Dynamic value model,
// Scope, function registries, dispatch, the dot/index chain evaluator,
// and the expression/statement evaluator that together execute a parsed
// Nimbus program.
package interp

import (
	"fmt"
	"strconv"
	"strings"
)

// TypeID is a Dynamic's stable type tag, used for dispatch hashing and
// for the per-type iterator lookup in for-loops.
type TypeID int

const (
	TypeUnit TypeID = iota
	TypeBool
	TypeInt
	TypeFloat
	TypeChar
	TypeString
	TypeArray
	TypeMap
	TypeOpaque
)

var typeNames = map[TypeID]string{
	TypeUnit: "unit", TypeBool: "bool", TypeInt: "integer", TypeFloat: "float",
	TypeChar: "char", TypeString: "string", TypeArray: "array", TypeMap: "map",
	TypeOpaque: "opaque",
}

func (t TypeID) String() string {
	if n, ok := typeNames[t]; ok {
		return n
	}
	return "unknown"
}

// Value is the single runtime value type ("Dynamic" in spec terms): a
// tagged union over unit, bool, integer, float, char, string, array, map,
// and opaque host values. Every concrete type is immutable except
// through the Target abstraction (target.go), which is the only path
// that mutates array/map elements and string characters in place.
type Value interface {
	TypeID() TypeID
	TypeName() string
	String() string
	Clone() Value
}

// Unit is the default value: the empty tuple `()`.
type Unit struct{}

func (Unit) TypeID() TypeID   { return TypeUnit }
func (Unit) TypeName() string { return "unit" }
func (Unit) String() string   { return "()" }
func (Unit) Clone() Value     { return Unit{} }

type Bool bool

func (b Bool) TypeID() TypeID   { return TypeBool }
func (b Bool) TypeName() string { return "bool" }
func (b Bool) String() string   { return strconv.FormatBool(bool(b)) }
func (b Bool) Clone() Value     { return b }

type Int int64

func (i Int) TypeID() TypeID   { return TypeInt }
func (i Int) TypeName() string { return "integer" }
func (i Int) String() string   { return strconv.FormatInt(int64(i), 10) }
func (i Int) Clone() Value     { return i }

type Float float64

func (f Float) TypeID() TypeID   { return TypeFloat }
func (f Float) TypeName() string { return "float" }
func (f Float) String() string   { return strconv.FormatFloat(float64(f), 'g', -1, 64) }
func (f Float) Clone() Value     { return f }

type Char rune

func (c Char) TypeID() TypeID   { return TypeChar }
func (c Char) TypeName() string { return "char" }
func (c Char) String() string   { return string(rune(c)) }
func (c Char) Clone() Value     { return c }

type Str string

func (s Str) TypeID() TypeID   { return TypeString }
func (s Str) TypeName() string { return "string" }
func (s Str) String() string   { return string(s) }
func (s Str) Clone() Value     { return s }

// Array is a pointer type: array elements are mutated in place through a
// Target without the container itself needing to be written back, since
// every scope/map/array slot that holds an Array shares the same backing
// *Array. Clone performs the value-deep copy the spec requires.
type Array struct {
	Elems []Value
}

func NewArray(elems []Value) *Array { return &Array{Elems: elems} }

func (a *Array) TypeID() TypeID   { return TypeArray }
func (a *Array) TypeName() string { return "array" }
func (a *Array) String() string {
	parts := make([]string, len(a.Elems))
	for i, e := range a.Elems {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
func (a *Array) Clone() Value {
	elems := make([]Value, len(a.Elems))
	for i, e := range a.Elems {
		elems[i] = e.Clone()
	}
	return &Array{Elems: elems}
}

// Map is string-keyed; insertion order is tracked alongside the lookup
// table so that for-loops and printing are deterministic even though the
// language treats the collection as logically unordered.
type Map struct {
	order   []string
	entries map[string]Value
}

func NewMap() *Map { return &Map{entries: map[string]Value{}} }

func (m *Map) TypeID() TypeID   { return TypeMap }
func (m *Map) TypeName() string { return "map" }
func (m *Map) String() string {
	parts := make([]string, 0, len(m.order))
	for _, k := range m.order {
		parts = append(parts, k+": "+m.entries[k].String())
	}
	return "#{" + strings.Join(parts, ", ") + "}"
}
func (m *Map) Clone() Value {
	clone := NewMap()
	for _, k := range m.order {
		clone.Set(k, m.entries[k].Clone())
	}
	return clone
}

// Get returns the value at key and whether it was present.
func (m *Map) Get(key string) (Value, bool) {
	v, ok := m.entries[key]
	return v, ok
}

// Set inserts or overwrites key, appending to the order list only the
// first time the key is seen.
func (m *Map) Set(key string, v Value) {
	if _, exists := m.entries[key]; !exists {
		m.order = append(m.order, key)
	}
	m.entries[key] = v
}

// Delete removes key, if present.
func (m *Map) Delete(key string) {
	if _, ok := m.entries[key]; !ok {
		return
	}
	delete(m.entries, key)
	for i, k := range m.order {
		if k == key {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
}

// Len reports the number of entries.
func (m *Map) Len() int { return len(m.order) }

// Keys returns the keys in insertion order.
func (m *Map) Keys() []string { return m.order }

// OpaqueCloner lets an opaque host value provide its own deep copy;
// values that don't implement it are shared by reference on Clone.
type OpaqueCloner interface {
	CloneOpaque() interface{}
}

// Opaque wraps an erased host value with a stable type name, used for
// host-registered types that don't map onto any built-in tag.
type Opaque struct {
	Name string
	Val  interface{}
}

func (o *Opaque) TypeID() TypeID   { return TypeOpaque }
func (o *Opaque) TypeName() string { return o.Name }
func (o *Opaque) String() string   { return fmt.Sprintf("%s(%v)", o.Name, o.Val) }
func (o *Opaque) Clone() Value {
	if c, ok := o.Val.(OpaqueCloner); ok {
		return &Opaque{Name: o.Name, Val: c.CloneOpaque()}
	}
	return &Opaque{Name: o.Name, Val: o.Val}
}

// AsInt, AsFloat, AsBool, AsStr implement the spec's `as<T>` accessors,
// reporting failure through a false second result; callers build the
// MismatchOutputType error from the value's TypeName().

func AsInt(v Value) (int64, bool) {
	switch x := v.(type) {
	case Int:
		return int64(x), true
	}
	return 0, false
}

func AsFloat(v Value) (float64, bool) {
	switch x := v.(type) {
	case Float:
		return float64(x), true
	case Int:
		return float64(x), true
	}
	return 0, false
}

func AsBool(v Value) (bool, bool) {
	if b, ok := v.(Bool); ok {
		return bool(b), true
	}
	return false, false
}

func AsStr(v Value) (string, bool) {
	if s, ok := v.(Str); ok {
		return string(s), true
	}
	return "", false
}

func AsChar(v Value) (rune, bool) {
	if c, ok := v.(Char); ok {
		return rune(c), true
	}
	return 0, false
}

// Truthy coerces v to bool per the language's logic-guard rule: only
// Bool itself coerces; everything else is a LogicGuard error at the call
// site (see errors.go).
func Truthy(v Value) (bool, bool) {
	return AsBool(v)
}

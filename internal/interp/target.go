package interp

import "github.com/nimbus-lang/nimbus/internal/lexer"

// Target is the short-lived mutable handle used only during dot/index
// chain evaluation (spec §3/§4.E). Go has no raw mutable-reference type
// with a borrow checker to lean on, so — per spec §9's note that a
// garbage-collected implementation "may represent Target as a pair
// (container, key)" — each variant below closes over the container and
// key it was born from instead of holding a pointer.
type Target interface {
	// Get reads the current value at this place.
	Get() Value
	// Set writes new_value through this place, or fails for Temp/const
	// places per the invariants in spec §3/§4.E.
	Set(newValue Value) error
	// IntoValue clones/consumes the place to a standalone value, used at
	// chain read-terminals (spec §4.F "RHS = terminal and read").
	IntoValue() Value
}

// placeTarget is a mutable reference to a Dynamic owned elsewhere: a
// scope slot or the interior of a collection.
type placeTarget struct {
	get func() Value
	set func(Value) error
}

func (t *placeTarget) Get() Value          { return t.get() }
func (t *placeTarget) Set(v Value) error   { return t.set(v) }
func (t *placeTarget) IntoValue() Value    { return t.get().Clone() }

// tempTarget is a freshly computed value owned by the chain; writes to
// it are always an error (spec §4.E).
type tempTarget struct {
	value Value
	pos   lexer.Position
}

func (t *tempTarget) Get() Value        { return t.value }
func (t *tempTarget) Set(Value) error   { return NewAssignmentToUnknownLHSError(t.pos) }
func (t *tempTarget) IntoValue() Value  { return t.value }

// stringCharTarget is a mutable reference to a string together with a
// character index; writes rewrite one character in-place (spec §3/§4.E).
// Since Str is an immutable value type in this implementation, "in
// place" means replacing the whole string held by the underlying place
// with a new string that differs at idx — observably identical to
// mutating a single rune slot, and exactly what spec property #7
// ("string character write is idempotent when the new char equals the
// old") requires.
type stringCharTarget struct {
	base Target // the place holding the Str
	idx  int     // rune index into the string
	pos  lexer.Position
}

func (t *stringCharTarget) currentRunes() []rune {
	s, _ := AsStr(t.base.Get())
	return []rune(s)
}

func (t *stringCharTarget) Get() Value {
	runes := t.currentRunes()
	if t.idx < 0 || t.idx >= len(runes) {
		return Unit{}
	}
	return Char(runes[t.idx])
}

func (t *stringCharTarget) Set(v Value) error {
	runes := t.currentRunes()
	if t.idx < 0 || t.idx >= len(runes) {
		return NewStringBoundsError(len(runes), t.idx, t.pos)
	}
	var ch rune
	switch x := v.(type) {
	case Char:
		ch = rune(x)
	case Str:
		rs := []rune(string(x))
		if len(rs) != 1 {
			return NewCharMismatchError(t.pos)
		}
		ch = rs[0]
	default:
		return NewCharMismatchError(t.pos)
	}
	runes[t.idx] = ch
	return t.base.Set(Str(string(runes)))
}

func (t *stringCharTarget) IntoValue() Value { return t.Get() }

// newScopeSlotTarget builds a Target over the scope entry at absolute
// index idx, honoring the constant-write invariant of spec §3.
func newScopeSlotTarget(scope *Scope, idx int, pos lexer.Position) Target {
	return &placeTarget{
		get: func() Value {
			v, _, _ := scope.At(idx)
			return v
		},
		set: func(v Value) error {
			_, kind, ok := scope.At(idx)
			if !ok {
				return NewVariableNotFoundError(scope.NameAt(idx), pos)
			}
			if kind == Constant {
				return NewAssignmentToConstantError(scope.NameAt(idx), pos)
			}
			scope.Set(idx, v)
			return nil
		},
	}
}

// newArrayElemTarget builds a Target over arr.Elems[idx].
func newArrayElemTarget(arr *Array, idx int, pos lexer.Position) Target {
	return &placeTarget{
		get: func() Value { return arr.Elems[idx] },
		set: func(v Value) error {
			if idx < 0 || idx >= len(arr.Elems) {
				return NewArrayBoundsError(len(arr.Elems), idx, pos)
			}
			arr.Elems[idx] = v
			return nil
		},
	}
}

// newMapEntryTarget builds a Target over m[key]. If the key is absent,
// Get returns Unit without inserting it and Set inserts it (the write
// path always creates; only the read path refrains, per spec §4.F
// "Map + string index").
func newMapEntryTarget(m *Map, key string) Target {
	return &placeTarget{
		get: func() Value {
			if v, ok := m.Get(key); ok {
				return v
			}
			return Unit{}
		},
		set: func(v Value) error {
			m.Set(key, v)
			return nil
		},
	}
}

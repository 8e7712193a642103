package interp

// EntryKind distinguishes mutable Normal bindings from Constant ones
// (spec §3 "Scope").
type EntryKind int

const (
	Normal EntryKind = iota
	Constant
)

type scopeEntry struct {
	name  string
	kind  EntryKind
	value Value
}

// Scope is the ordered stack of named bindings described in spec §3/§4.B,
// grounded directly on rhai's src/scope.rs: push appends, lookup scans
// from the tail so the newest binding shadows older ones with the same
// name, and rewind truncates back to a snapshot length taken at block
// entry. A slice (not a map) is the faithful shape here: it is what makes
// shadow-by-push, stable top-relative indices, and O(depth) rewind all
// possible at once.
type Scope struct {
	entries []scopeEntry
}

// NewScope returns an empty Scope.
func NewScope() *Scope { return &Scope{} }

// Len returns the current number of entries.
func (s *Scope) Len() int { return len(s.entries) }

// Push appends a mutable (Normal) binding.
func (s *Scope) Push(name string, value Value) {
	s.entries = append(s.entries, scopeEntry{name: name, kind: Normal, value: value})
}

// PushConstant appends an immutable (Constant) binding.
func (s *Scope) PushConstant(name string, value Value) {
	s.entries = append(s.entries, scopeEntry{name: name, kind: Constant, value: value})
}

// Rewind truncates the scope back to its first n entries. It never
// shrinks below entries that calling code relies on still being present
// (callers snapshot Len() before extending, per spec §4.B).
func (s *Scope) Rewind(n int) {
	s.entries = s.entries[:n]
}

// Find scans from the tail for the most recently pushed binding named
// name, returning its absolute (from-base) index and kind.
func (s *Scope) Find(name string) (index int, kind EntryKind, ok bool) {
	for i := len(s.entries) - 1; i >= 0; i-- {
		if s.entries[i].name == name {
			return i, s.entries[i].kind, true
		}
	}
	return 0, Normal, false
}

// TopRelative converts an absolute index into the top-relative distance
// cached on ast.Identifier (spec §4.G "Variable(name, cached_index?)").
func (s *Scope) TopRelative(index int) int { return len(s.entries) - index }

// FromTopRelative converts a cached top-relative distance back into an
// absolute index valid for the scope's current length.
func (s *Scope) FromTopRelative(rel int) int { return len(s.entries) - rel }

// At returns the value and kind at an absolute index.
func (s *Scope) At(index int) (Value, EntryKind, bool) {
	if index < 0 || index >= len(s.entries) {
		return nil, Normal, false
	}
	e := s.entries[index]
	return e.value, e.kind, true
}

// Set overwrites the value at an absolute index, bypassing the constant
// check — callers must consult the entry's kind first (see target.go).
func (s *Scope) Set(index int, v Value) { s.entries[index].value = v }

// NameAt returns the name bound at an absolute index, used for error
// messages (AssignmentToConstant wants the variable's name).
func (s *Scope) NameAt(index int) string { return s.entries[index].name }

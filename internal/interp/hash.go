package interp

import (
	"encoding/binary"
	"hash/fnv"
)

// HashByArity keys script-defined functions: parameters are untyped, so
// name+arity is sufficient (spec §4.C).
func HashByArity(name string, arity int) uint64 {
	h := fnv.New64a()
	h.Write([]byte(name))
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(arity))
	h.Write(buf[:])
	return h.Sum64()
}

// HashByTypes keys type-aware overloads of native functions, combining
// the function name with the ordered type identities of its arguments
// (spec §4.C).
func HashByTypes(name string, typeIDs []TypeID) uint64 {
	h := fnv.New64a()
	h.Write([]byte(name))
	var buf [8]byte
	for _, id := range typeIDs {
		binary.LittleEndian.PutUint64(buf[:], uint64(id))
		h.Write(buf[:])
	}
	return h.Sum64()
}

// typeIDsOf extracts the TypeID of each argument, in order, for use with
// HashByTypes.
func typeIDsOf(args []Value) []TypeID {
	ids := make([]TypeID, len(args))
	for i, a := range args {
		ids[i] = a.TypeID()
	}
	return ids
}

// Package yamlpkg mirrors jsonpkg for YAML documents, backed by
// goccy/go-yaml: `parse_yaml` and `to_yaml`.
package yamlpkg

import (
	"github.com/goccy/go-yaml"

	"github.com/nimbus-lang/nimbus/internal/interp"
	"github.com/nimbus-lang/nimbus/internal/lexer"
)

// New returns the yaml package bundle.
func New() *interp.Package {
	pkg := interp.NewPackage("yaml")

	pkg.Natives.Register("parse_yaml", []interp.TypeID{interp.TypeString}, func(args []interp.Value, pos lexer.Position) (interp.Value, error) {
		s, _ := interp.AsStr(args[0])
		var raw interface{}
		if err := yaml.Unmarshal([]byte(s), &raw); err != nil {
			return nil, interp.NewRuntimeError(err.Error(), pos)
		}
		return fromGo(raw), nil
	})

	encode := func(args []interp.Value, pos lexer.Position) (interp.Value, error) {
		out, err := yaml.Marshal(toGo(args[0]))
		if err != nil {
			return nil, interp.NewRuntimeError(err.Error(), pos)
		}
		return interp.Str(string(out)), nil
	}
	pkg.Natives.Register("to_yaml", []interp.TypeID{interp.TypeArray}, encode)
	pkg.Natives.Register("to_yaml", []interp.TypeID{interp.TypeMap}, encode)

	return pkg
}

// fromGo converts a value decoded by go-yaml (map[string]interface{},
// []interface{}, and Go scalar types) into the corresponding Nimbus Value.
func fromGo(v interface{}) interp.Value {
	switch x := v.(type) {
	case nil:
		return interp.Unit{}
	case bool:
		return interp.Bool(x)
	case int:
		return interp.Int(int64(x))
	case int64:
		return interp.Int(x)
	case uint64:
		return interp.Int(int64(x))
	case float64:
		return interp.Float(x)
	case string:
		return interp.Str(x)
	case []interface{}:
		elems := make([]interp.Value, len(x))
		for i, e := range x {
			elems[i] = fromGo(e)
		}
		return interp.NewArray(elems)
	case map[string]interface{}:
		m := interp.NewMap()
		for k, val := range x {
			m.Set(k, fromGo(val))
		}
		return m
	}
	return interp.Unit{}
}

// toGo converts a Nimbus Value back into the plain Go values go-yaml's
// Marshal expects.
func toGo(v interp.Value) interface{} {
	switch x := v.(type) {
	case interp.Unit:
		return nil
	case interp.Bool:
		return bool(x)
	case interp.Int:
		return int64(x)
	case interp.Float:
		return float64(x)
	case interp.Str:
		return string(x)
	case interp.Char:
		return string(rune(x))
	case *interp.Array:
		out := make([]interface{}, len(x.Elems))
		for i, e := range x.Elems {
			out[i] = toGo(e)
		}
		return out
	case *interp.Map:
		out := make(map[string]interface{}, x.Len())
		for _, k := range x.Keys() {
			val, _ := x.Get(k)
			out[k] = toGo(val)
		}
		return out
	}
	return nil
}

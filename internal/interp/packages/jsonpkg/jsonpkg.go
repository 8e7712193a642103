// Package jsonpkg wires tidwall/gjson and tidwall/sjson into a loadable
// Package bundle: `parse_json`, `to_json`, and `set_json`.
package jsonpkg

import (
	"strconv"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/nimbus-lang/nimbus/internal/interp"
	"github.com/nimbus-lang/nimbus/internal/lexer"
)

// New returns the json package bundle.
func New() *interp.Package {
	pkg := interp.NewPackage("json")

	pkg.Natives.Register("parse_json", []interp.TypeID{interp.TypeString}, func(args []interp.Value, pos lexer.Position) (interp.Value, error) {
		s, _ := interp.AsStr(args[0])
		if !gjson.Valid(s) {
			return nil, interp.NewRuntimeError("invalid JSON document", pos)
		}
		return fromGJSON(gjson.Parse(s)), nil
	})

	encode := func(args []interp.Value, pos lexer.Position) (interp.Value, error) {
		doc, err := jsonEncode(args[0])
		if err != nil {
			return nil, interp.NewRuntimeError(err.Error(), pos)
		}
		return interp.Str(doc), nil
	}
	pkg.Natives.Register("to_json", []interp.TypeID{interp.TypeArray}, encode)
	pkg.Natives.Register("to_json", []interp.TypeID{interp.TypeMap}, encode)

	pkg.Natives.Register("set_json", []interp.TypeID{interp.TypeString, interp.TypeString, interp.TypeString}, func(args []interp.Value, pos lexer.Position) (interp.Value, error) {
		doc, _ := interp.AsStr(args[0])
		path, _ := interp.AsStr(args[1])
		val, _ := interp.AsStr(args[2])
		out, err := sjson.Set(doc, path, val)
		if err != nil {
			return nil, interp.NewRuntimeError(err.Error(), pos)
		}
		return interp.Str(out), nil
	})

	return pkg
}

// fromGJSON converts a gjson.Result into the corresponding Nimbus Value,
// recursing into objects and arrays.
func fromGJSON(r gjson.Result) interp.Value {
	switch r.Type {
	case gjson.True, gjson.False:
		return interp.Bool(r.Bool())
	case gjson.Number:
		if r.Num == float64(int64(r.Num)) {
			return interp.Int(int64(r.Num))
		}
		return interp.Float(r.Num)
	case gjson.String:
		return interp.Str(r.Str)
	case gjson.Null:
		return interp.Unit{}
	case gjson.JSON:
		if r.IsArray() {
			var elems []interp.Value
			r.ForEach(func(_, v gjson.Result) bool {
				elems = append(elems, fromGJSON(v))
				return true
			})
			return interp.NewArray(elems)
		}
		m := interp.NewMap()
		r.ForEach(func(k, v gjson.Result) bool {
			m.Set(k.String(), fromGJSON(v))
			return true
		})
		return m
	}
	return interp.Unit{}
}

// jsonEncode renders v as a JSON document. Scalars are formatted
// directly; arrays/maps are assembled by repeated sjson.SetRaw calls
// against a starter "[]"/"{}" document, since sjson's API edits paths
// of an existing document rather than serializing a tree in one pass.
func jsonEncode(v interp.Value) (string, error) {
	switch x := v.(type) {
	case *interp.Array:
		doc := "[]"
		for i, el := range x.Elems {
			encoded, err := jsonEncode(el)
			if err != nil {
				return "", err
			}
			doc, err = sjson.SetRaw(doc, strconv.Itoa(i), encoded)
			if err != nil {
				return "", err
			}
		}
		return doc, nil
	case *interp.Map:
		doc := "{}"
		for _, k := range x.Keys() {
			val, _ := x.Get(k)
			encoded, err := jsonEncode(val)
			if err != nil {
				return "", err
			}
			doc, err = sjson.SetRaw(doc, k, encoded)
			if err != nil {
				return "", err
			}
		}
		return doc, nil
	default:
		return jsonEncodeScalar(v), nil
	}
}

func jsonEncodeScalar(v interp.Value) string {
	switch x := v.(type) {
	case interp.Unit:
		return "null"
	case interp.Bool:
		return strconv.FormatBool(bool(x))
	case interp.Int:
		return strconv.FormatInt(int64(x), 10)
	case interp.Float:
		return strconv.FormatFloat(float64(x), 'g', -1, 64)
	case interp.Str:
		return strconv.Quote(string(x))
	case interp.Char:
		return strconv.Quote(string(rune(x)))
	}
	return "null"
}

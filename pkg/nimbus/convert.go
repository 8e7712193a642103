package nimbus

import (
	"fmt"
	"reflect"

	"github.com/nimbus-lang/nimbus/internal/interp"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// typeIDForGoKind maps a Go reflect.Kind onto the interp.TypeID a
// registered function's parameter should be hashed under, per spec §6
// "the i-th parameter's type_id is computed at registration time".
func typeIDForGoKind(t reflect.Type) (interp.TypeID, bool) {
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if t.Kind() == reflect.Int32 { // rune
			return interp.TypeChar, true
		}
		return interp.TypeInt, true
	case reflect.Float32, reflect.Float64:
		return interp.TypeFloat, true
	case reflect.String:
		return interp.TypeString, true
	case reflect.Bool:
		return interp.TypeBool, true
	case reflect.Slice, reflect.Array:
		return interp.TypeArray, true
	case reflect.Map:
		return interp.TypeMap, true
	}
	return interp.TypeOpaque, true
}

// valueToGo converts a Nimbus Value into a reflect.Value assignable to
// the declared Go parameter type t.
func valueToGo(v interp.Value, t reflect.Type) (reflect.Value, error) {
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if t.Kind() == reflect.Int32 {
			if c, ok := interp.AsChar(v); ok {
				return reflect.ValueOf(c).Convert(t), nil
			}
		}
		i, ok := interp.AsInt(v)
		if !ok {
			return reflect.Value{}, interp.NewMismatchOutputTypeError(v.TypeName(), zeroPos)
		}
		return reflect.ValueOf(i).Convert(t), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		i, ok := interp.AsInt(v)
		if !ok {
			return reflect.Value{}, interp.NewMismatchOutputTypeError(v.TypeName(), zeroPos)
		}
		return reflect.ValueOf(i).Convert(t), nil
	case reflect.Float32, reflect.Float64:
		f, ok := interp.AsFloat(v)
		if !ok {
			return reflect.Value{}, interp.NewMismatchOutputTypeError(v.TypeName(), zeroPos)
		}
		return reflect.ValueOf(f).Convert(t), nil
	case reflect.String:
		s, ok := interp.AsStr(v)
		if !ok {
			return reflect.Value{}, interp.NewMismatchOutputTypeError(v.TypeName(), zeroPos)
		}
		return reflect.ValueOf(s).Convert(t), nil
	case reflect.Bool:
		b, ok := interp.AsBool(v)
		if !ok {
			return reflect.Value{}, interp.NewMismatchOutputTypeError(v.TypeName(), zeroPos)
		}
		return reflect.ValueOf(b).Convert(t), nil
	case reflect.Interface:
		return reflect.ValueOf(goFromAny(v)), nil
	}
	return reflect.Value{}, fmt.Errorf("nimbus: unsupported registered-function parameter type %s", t)
}

// goFromAny unwraps a Value into a plain Go value for an interface{}
// parameter/field, recursing into arrays/maps.
func goFromAny(v interp.Value) interface{} {
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
		return rune(x)
	case *interp.Array:
		out := make([]interface{}, len(x.Elems))
		for i, e := range x.Elems {
			out[i] = goFromAny(e)
		}
		return out
	case *interp.Map:
		out := make(map[string]interface{}, x.Len())
		for _, k := range x.Keys() {
			val, _ := x.Get(k)
			out[k] = goFromAny(val)
		}
		return out
	}
	return v
}

// goToValue converts a Go return value into the corresponding Nimbus
// Value.
func goToValue(rv reflect.Value) interp.Value {
	if !rv.IsValid() {
		return interp.Unit{}
	}
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int64:
		return interp.Int(rv.Int())
	case reflect.Int32:
		return interp.Char(rune(rv.Int()))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return interp.Int(int64(rv.Uint()))
	case reflect.Float32, reflect.Float64:
		return interp.Float(rv.Float())
	case reflect.String:
		return interp.Str(rv.String())
	case reflect.Bool:
		return interp.Bool(rv.Bool())
	case reflect.Slice, reflect.Array:
		elems := make([]interp.Value, rv.Len())
		for i := range elems {
			elems[i] = goToValue(rv.Index(i))
		}
		return interp.NewArray(elems)
	case reflect.Map:
		m := interp.NewMap()
		for _, k := range rv.MapKeys() {
			m.Set(fmt.Sprint(k.Interface()), goToValue(rv.MapIndex(k)))
		}
		return m
	case reflect.Interface:
		if rv.IsNil() {
			return interp.Unit{}
		}
		return goToValue(rv.Elem())
	}
	return &interp.Opaque{Name: rv.Type().String(), Val: rv.Interface()}
}

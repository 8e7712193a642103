package nimbus

import "github.com/nimbus-lang/nimbus/internal/interp"

// Result wraps a script's trailing Dynamic value, offering typed
// accessors that fail with MismatchOutputType (spec §7) rather than
// panicking when the requested coercion doesn't apply.
type Result struct {
	value interp.Value
}

// Raw returns the underlying Dynamic value uncoerced.
func (r *Result) Raw() interp.Value { return r.value }

// String renders the value's display form regardless of type.
func (r *Result) String() string { return r.value.String() }

func (r *Result) Int() (int64, error) {
	if i, ok := interp.AsInt(r.value); ok {
		return i, nil
	}
	return 0, interp.NewMismatchOutputTypeError(r.value.TypeName(), zeroPos)
}

func (r *Result) Float() (float64, error) {
	if f, ok := interp.AsFloat(r.value); ok {
		return f, nil
	}
	return 0, interp.NewMismatchOutputTypeError(r.value.TypeName(), zeroPos)
}

func (r *Result) Str() (string, error) {
	if s, ok := interp.AsStr(r.value); ok {
		return s, nil
	}
	return "", interp.NewMismatchOutputTypeError(r.value.TypeName(), zeroPos)
}

func (r *Result) Bool() (bool, error) {
	if b, ok := interp.AsBool(r.value); ok {
		return b, nil
	}
	return false, interp.NewMismatchOutputTypeError(r.value.TypeName(), zeroPos)
}

// EvalAs runs src through e and coerces its trailing value to T,
// covering the common scalar targets (spec §6 "eval<T>(src)"). For any
// other T, use Eval and Result.Raw directly.
func EvalAs[T any](e *Engine, src string) (T, error) {
	var zero T
	res, err := e.Eval(src)
	if err != nil {
		return zero, err
	}
	switch any(zero).(type) {
	case int64:
		v, err := res.Int()
		return any(v).(T), err
	case float64:
		v, err := res.Float()
		return any(v).(T), err
	case string:
		v, err := res.Str()
		return any(v).(T), err
	case bool:
		v, err := res.Bool()
		return any(v).(T), err
	}
	return zero, interp.NewMismatchOutputTypeError(res.value.TypeName(), zeroPos)
}

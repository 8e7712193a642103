package interp

import (
	"fmt"
	"strings"

	"github.com/nimbus-lang/nimbus/internal/lexer"
)

// ExecCall is the higher-level wrapper spec §4.D puts in front of
// Dispatch: it special-cases `type_of(x)` and rejects `eval` used in
// method (dot-call) style before falling through to the deterministic
// dispatch algorithm.
func (ex *Exec) ExecCall(name string, args []Value, defaultVal *Value, pos lexer.Position, methodStyle bool) (Value, error) {
	if name == "type_of" && len(args) == 1 && !ex.hasOverride("type_of") {
		return Str(ex.Interp.typeName(args[0])), nil
	}
	if name == "eval" && methodStyle {
		return nil, NewDotExprError("eval should not be called in method style", pos)
	}
	return ex.Dispatch(name, args, defaultVal, pos)
}

// Dispatch resolves name+args to a callable and invokes it, in the exact
// precedence order of spec §4.D: call-depth guard, script functions by
// arity, then the engine's own native table, then loaded packages in
// (already newest-first) load order, then synthetic-accessor diagnostics,
// then the caller-supplied default, and finally FunctionNotFound.
func (ex *Exec) Dispatch(name string, args []Value, defaultVal *Value, pos lexer.Position) (Value, error) {
	if ex.Depth > ex.Interp.MaxCallLevels {
		return nil, NewStackOverflowError(pos)
	}

	if fn, ok := ex.Functions.Lookup(name, len(args)); ok {
		return ex.callScriptFunction(fn, args, pos)
	}

	if nf, ok := ex.Interp.Natives.Lookup(name, args); ok {
		return ex.postProcess(name, nf, args, pos)
	}
	for _, pkg := range ex.Interp.Packages {
		if nf, ok := pkg.Natives.Lookup(name, args); ok {
			return ex.postProcess(name, nf, args, pos)
		}
	}

	if isSyntheticAccessor(name) {
		prop := strings.TrimPrefix(strings.TrimPrefix(name, "get$"), "set$")
		return nil, NewDotExprError(fmt.Sprintf("no accessor for property %q", prop), pos)
	}

	if defaultVal != nil {
		return *defaultVal, nil
	}
	return nil, NewFunctionNotFoundError(formatSignature(name, args), pos)
}

// postProcess implements spec §4.D step 4: print/debug calls are
// stringified and handed to the corresponding host sink, and the
// dispatch result collapses to unit.
func (ex *Exec) postProcess(name string, nf NativeFunc, args []Value, pos lexer.Position) (Value, error) {
	result, err := nf(args, pos)
	if err != nil {
		return nil, err
	}
	switch name {
	case "print":
		ex.Interp.Print(result.String())
		return Unit{}, nil
	case "debug":
		ex.Interp.Debug(result.String())
		return Unit{}, nil
	}
	return result, nil
}

// callScriptFunction runs a script-defined function per spec §4.H
// "Calling a script function": a fresh Scope (script functions are not
// closures — they see only their own parameters), extended with
// (param, Normal, arg.Clone()) in order, evaluated at depth+1; a Return
// sentinel unwinds to a plain value, any other error is stamped with the
// call site's position.
func (ex *Exec) callScriptFunction(fn *ScriptFunction, args []Value, pos lexer.Position) (Value, error) {
	if len(args) != len(fn.Params) {
		return nil, NewFunctionNotFoundError(formatSignature(fn.Name, args), pos)
	}
	callScope := NewScope()
	for i, p := range fn.Params {
		callScope.Push(p, args[i].Clone())
	}
	callEx := ex.child(callScope, ex.Depth+1)
	result, err := callEx.evalBlock(fn.Body)
	if err != nil {
		if rs, ok := err.(returnSignal); ok {
			return rs.Value, nil
		}
		return nil, stampPosition(err, pos)
	}
	return result, nil
}

// hasOverride implements the spec §4.D "override exists" test: a
// hash_by_types(name, [string]) entry in the engine table or any
// package, or an arity-1 script function of the same name.
func (ex *Exec) hasOverride(name string) bool {
	if _, ok := ex.Functions.Lookup(name, 1); ok {
		return true
	}
	if ex.Interp.Natives.HasOverride(name) {
		return true
	}
	for _, pkg := range ex.Interp.Packages {
		if pkg.Natives.HasOverride(name) {
			return true
		}
	}
	return false
}

func isSyntheticAccessor(name string) bool {
	return strings.HasPrefix(name, "get$") || strings.HasPrefix(name, "set$")
}

func formatSignature(name string, args []Value) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.TypeName()
	}
	return name + "(" + strings.Join(parts, ", ") + ")"
}

// typeName resolves a value's diagnostic type name, honoring any
// host-registered override of the engine's built-in type-name map.
func (in *Interp) typeName(v Value) string {
	if in.TypeNameOverride != nil {
		if n, ok := in.TypeNameOverride[v.TypeID()]; ok {
			return n
		}
	}
	return v.TypeName()
}

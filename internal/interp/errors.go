package interp

import (
	"fmt"

	"github.com/nimbus-lang/nimbus/internal/lexer"
)

// Every error in the closed taxonomy of spec §7 carries a source
// Position, following the teacher's runtime/errors.go pattern of one
// struct type per error kind with a NewXError constructor and an
// IsXError predicate, rather than a single generic error with a string
// discriminant.

type VariableNotFoundError struct {
	Name string
	Pos  lexer.Position
}

func NewVariableNotFoundError(name string, pos lexer.Position) *VariableNotFoundError {
	return &VariableNotFoundError{Name: name, Pos: pos}
}
func (e *VariableNotFoundError) Error() string {
	return fmt.Sprintf("%s: variable not found: %s", e.Pos, e.Name)
}
func (e *VariableNotFoundError) WithPos(pos lexer.Position) error {
	c := *e
	c.Pos = pos
	return &c
}
func IsVariableNotFoundError(err error) bool { _, ok := err.(*VariableNotFoundError); return ok }

type FunctionNotFoundError struct {
	Signature string
	Pos       lexer.Position
}

func NewFunctionNotFoundError(sig string, pos lexer.Position) *FunctionNotFoundError {
	return &FunctionNotFoundError{Signature: sig, Pos: pos}
}
func (e *FunctionNotFoundError) Error() string {
	return fmt.Sprintf("%s: function not found: %s", e.Pos, e.Signature)
}
func (e *FunctionNotFoundError) WithPos(pos lexer.Position) error {
	c := *e
	c.Pos = pos
	return &c
}
func IsFunctionNotFoundError(err error) bool { _, ok := err.(*FunctionNotFoundError); return ok }

type ModuleNotFoundError struct {
	Name string
	Pos  lexer.Position
}

func NewModuleNotFoundError(name string, pos lexer.Position) *ModuleNotFoundError {
	return &ModuleNotFoundError{Name: name, Pos: pos}
}
func (e *ModuleNotFoundError) Error() string {
	return fmt.Sprintf("%s: module not found: %s", e.Pos, e.Name)
}
func (e *ModuleNotFoundError) WithPos(pos lexer.Position) error {
	c := *e
	c.Pos = pos
	return &c
}
func IsModuleNotFoundError(err error) bool { _, ok := err.(*ModuleNotFoundError); return ok }

type MismatchOutputTypeError struct {
	Expected string
	Pos      lexer.Position
}

func NewMismatchOutputTypeError(expected string, pos lexer.Position) *MismatchOutputTypeError {
	return &MismatchOutputTypeError{Expected: expected, Pos: pos}
}
func (e *MismatchOutputTypeError) Error() string {
	return fmt.Sprintf("%s: expected output type %s", e.Pos, e.Expected)
}
func (e *MismatchOutputTypeError) WithPos(pos lexer.Position) error {
	c := *e
	c.Pos = pos
	return &c
}
func IsMismatchOutputTypeError(err error) bool { _, ok := err.(*MismatchOutputTypeError); return ok }

type NumericIndexExprError struct{ Pos lexer.Position }

func NewNumericIndexExprError(pos lexer.Position) *NumericIndexExprError {
	return &NumericIndexExprError{Pos: pos}
}
func (e *NumericIndexExprError) Error() string {
	return fmt.Sprintf("%s: index expression must be numeric", e.Pos)
}
func (e *NumericIndexExprError) WithPos(pos lexer.Position) error {
	c := *e
	c.Pos = pos
	return &c
}
func IsNumericIndexExprError(err error) bool { _, ok := err.(*NumericIndexExprError); return ok }

type StringIndexExprError struct{ Pos lexer.Position }

func NewStringIndexExprError(pos lexer.Position) *StringIndexExprError {
	return &StringIndexExprError{Pos: pos}
}
func (e *StringIndexExprError) Error() string {
	return fmt.Sprintf("%s: index expression must be a string key", e.Pos)
}
func (e *StringIndexExprError) WithPos(pos lexer.Position) error {
	c := *e
	c.Pos = pos
	return &c
}
func IsStringIndexExprError(err error) bool { _, ok := err.(*StringIndexExprError); return ok }

type IndexingTypeError struct {
	TypeName string
	Pos      lexer.Position
}

func NewIndexingTypeError(typeName string, pos lexer.Position) *IndexingTypeError {
	return &IndexingTypeError{TypeName: typeName, Pos: pos}
}
func (e *IndexingTypeError) Error() string {
	return fmt.Sprintf("%s: cannot index into %s", e.Pos, e.TypeName)
}
func (e *IndexingTypeError) WithPos(pos lexer.Position) error {
	c := *e
	c.Pos = pos
	return &c
}
func IsIndexingTypeError(err error) bool { _, ok := err.(*IndexingTypeError); return ok }

type ArrayBoundsError struct {
	Len, Idx int
	Pos      lexer.Position
}

func NewArrayBoundsError(length, idx int, pos lexer.Position) *ArrayBoundsError {
	return &ArrayBoundsError{Len: length, Idx: idx, Pos: pos}
}
func (e *ArrayBoundsError) Error() string {
	return fmt.Sprintf("%s: array index %d out of bounds (len %d)", e.Pos, e.Idx, e.Len)
}
func (e *ArrayBoundsError) WithPos(pos lexer.Position) error {
	c := *e
	c.Pos = pos
	return &c
}
func IsArrayBoundsError(err error) bool { _, ok := err.(*ArrayBoundsError); return ok }

type StringBoundsError struct {
	Len, Idx int
	Pos      lexer.Position
}

func NewStringBoundsError(length, idx int, pos lexer.Position) *StringBoundsError {
	return &StringBoundsError{Len: length, Idx: idx, Pos: pos}
}
func (e *StringBoundsError) Error() string {
	return fmt.Sprintf("%s: string index %d out of bounds (len %d)", e.Pos, e.Idx, e.Len)
}
func (e *StringBoundsError) WithPos(pos lexer.Position) error {
	c := *e
	c.Pos = pos
	return &c
}
func IsStringBoundsError(err error) bool { _, ok := err.(*StringBoundsError); return ok }

type AssignmentToConstantError struct {
	Name string
	Pos  lexer.Position
}

func NewAssignmentToConstantError(name string, pos lexer.Position) *AssignmentToConstantError {
	return &AssignmentToConstantError{Name: name, Pos: pos}
}
func (e *AssignmentToConstantError) Error() string {
	return fmt.Sprintf("%s: assignment to constant: %s", e.Pos, e.Name)
}
func (e *AssignmentToConstantError) WithPos(pos lexer.Position) error {
	c := *e
	c.Pos = pos
	return &c
}
func IsAssignmentToConstantError(err error) bool {
	_, ok := err.(*AssignmentToConstantError)
	return ok
}

type AssignmentToUnknownLHSError struct{ Pos lexer.Position }

func NewAssignmentToUnknownLHSError(pos lexer.Position) *AssignmentToUnknownLHSError {
	return &AssignmentToUnknownLHSError{Pos: pos}
}
func (e *AssignmentToUnknownLHSError) Error() string {
	return fmt.Sprintf("%s: assignment to an unsupported left-hand side", e.Pos)
}
func (e *AssignmentToUnknownLHSError) WithPos(pos lexer.Position) error {
	c := *e
	c.Pos = pos
	return &c
}
func IsAssignmentToUnknownLHSError(err error) bool {
	_, ok := err.(*AssignmentToUnknownLHSError)
	return ok
}

type DotExprError struct {
	Msg string
	Pos lexer.Position
}

func NewDotExprError(msg string, pos lexer.Position) *DotExprError {
	return &DotExprError{Msg: msg, Pos: pos}
}
func (e *DotExprError) Error() string {
	return fmt.Sprintf("%s: invalid dot expression: %s", e.Pos, e.Msg)
}
func (e *DotExprError) WithPos(pos lexer.Position) error {
	c := *e
	c.Pos = pos
	return &c
}
func IsDotExprError(err error) bool { _, ok := err.(*DotExprError); return ok }

type InExprError struct{ Pos lexer.Position }

func NewInExprError(pos lexer.Position) *InExprError { return &InExprError{Pos: pos} }
func (e *InExprError) Error() string {
	return fmt.Sprintf("%s: invalid operands to 'in'", e.Pos)
}
func (e *InExprError) WithPos(pos lexer.Position) error {
	c := *e
	c.Pos = pos
	return &c
}
func IsInExprError(err error) bool { _, ok := err.(*InExprError); return ok }

type ForError struct {
	Msg string
	Pos lexer.Position
}

func NewForError(msg string, pos lexer.Position) *ForError { return &ForError{Msg: msg, Pos: pos} }
func (e *ForError) Error() string {
	return fmt.Sprintf("%s: invalid for-loop: %s", e.Pos, e.Msg)
}
func (e *ForError) WithPos(pos lexer.Position) error {
	c := *e
	c.Pos = pos
	return &c
}
func IsForError(err error) bool { _, ok := err.(*ForError); return ok }

type CharMismatchError struct{ Pos lexer.Position }

func NewCharMismatchError(pos lexer.Position) *CharMismatchError { return &CharMismatchError{Pos: pos} }
func (e *CharMismatchError) Error() string {
	return fmt.Sprintf("%s: expected a single character", e.Pos)
}
func (e *CharMismatchError) WithPos(pos lexer.Position) error {
	c := *e
	c.Pos = pos
	return &c
}
func IsCharMismatchError(err error) bool { _, ok := err.(*CharMismatchError); return ok }

type BooleanArgMismatchError struct {
	Op  string
	Pos lexer.Position
}

func NewBooleanArgMismatchError(op string, pos lexer.Position) *BooleanArgMismatchError {
	return &BooleanArgMismatchError{Op: op, Pos: pos}
}
func (e *BooleanArgMismatchError) Error() string {
	return fmt.Sprintf("%s: operand of %q must be bool", e.Pos, e.Op)
}
func (e *BooleanArgMismatchError) WithPos(pos lexer.Position) error {
	c := *e
	c.Pos = pos
	return &c
}
func IsBooleanArgMismatchError(err error) bool { _, ok := err.(*BooleanArgMismatchError); return ok }

type LogicGuardError struct{ Pos lexer.Position }

func NewLogicGuardError(pos lexer.Position) *LogicGuardError { return &LogicGuardError{Pos: pos} }
func (e *LogicGuardError) Error() string {
	return fmt.Sprintf("%s: condition must be a bool", e.Pos)
}
func (e *LogicGuardError) WithPos(pos lexer.Position) error {
	c := *e
	c.Pos = pos
	return &c
}
func IsLogicGuardError(err error) bool { _, ok := err.(*LogicGuardError); return ok }

type StackOverflowError struct{ Pos lexer.Position }

func NewStackOverflowError(pos lexer.Position) *StackOverflowError {
	return &StackOverflowError{Pos: pos}
}
func (e *StackOverflowError) Error() string { return fmt.Sprintf("%s: call stack overflow", e.Pos) }
func (e *StackOverflowError) WithPos(pos lexer.Position) error {
	c := *e
	c.Pos = pos
	return &c
}
func IsStackOverflowError(err error) bool { _, ok := err.(*StackOverflowError); return ok }

// RuntimeError is a user-raised error via `throw`.
type RuntimeError struct {
	Msg string
	Pos lexer.Position
}

func NewRuntimeError(msg string, pos lexer.Position) *RuntimeError {
	return &RuntimeError{Msg: msg, Pos: pos}
}
func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}
func (e *RuntimeError) WithPos(pos lexer.Position) error {
	c := *e
	c.Pos = pos
	return &c
}
func IsRuntimeError(err error) bool { _, ok := err.(*RuntimeError); return ok }

// stampPosition rewrites err's position to pos if err implements the
// WithPos repositioning hook, per §7's call-boundary stamping rule.
// Errors that don't implement it (the internal control-flow sentinels,
// parser errors) pass through unchanged.
func stampPosition(err error, pos lexer.Position) error {
	type repositionable interface{ WithPos(lexer.Position) error }
	if r, ok := err.(repositionable); ok {
		return r.WithPos(pos)
	}
	return err
}

// --- internal control-flow sentinels: never escape the Eval/Engine boundary ---

// returnSignal unwinds evaluation to the nearest enclosing script-function
// call boundary, carrying the returned value.
type returnSignal struct{ Value Value }

func (returnSignal) Error() string { return "return (internal control flow)" }

// loopBreakSignal unwinds to the nearest enclosing loop body. IsBreak
// distinguishes `break` (true) from `continue` (false).
type loopBreakSignal struct{ IsBreak bool }

func (loopBreakSignal) Error() string { return "loop break/continue (internal control flow)" }

// Package errors formats Nimbus parse/compile diagnostics with source
// context: a file:line:column header, the offending source line, and a
// caret pointing at the column.
package errors

import (
	"fmt"
	"strings"

	"github.com/nimbus-lang/nimbus/internal/lexer"
)

// CompileError is a single diagnostic produced while lexing, parsing, or
// optimizing a script.
type CompileError struct {
	Message string
	Source  string
	File    string
	Pos     lexer.Position
}

// New creates a CompileError anchored to pos.
func New(pos lexer.Position, message, source, file string) *CompileError {
	return &CompileError{Pos: pos, Message: message, Source: source, File: file}
}

// Error implements the error interface, rendering with source context.
func (e *CompileError) Error() string {
	var sb strings.Builder

	if e.File != "" {
		fmt.Fprintf(&sb, "%s:%d:%d: ", e.File, e.Pos.Line, e.Pos.Column)
	} else {
		fmt.Fprintf(&sb, "%d:%d: ", e.Pos.Line, e.Pos.Column)
	}
	sb.WriteString(e.Message)

	if line := e.sourceLine(e.Pos.Line); line != "" {
		lineNumStr := fmt.Sprintf("\n%4d | ", e.Pos.Line)
		sb.WriteString(lineNumStr)
		sb.WriteString(line)
		sb.WriteString("\n")
		sb.WriteString(strings.Repeat(" ", len(lineNumStr)-1+max(e.Pos.Column-1, 0)))
		sb.WriteString("^")
	}
	return sb.String()
}

func (e *CompileError) sourceLine(lineNum int) string {
	if e.Source == "" || lineNum < 1 {
		return ""
	}
	lines := strings.Split(e.Source, "\n")
	if lineNum > len(lines) {
		return ""
	}
	return lines[lineNum-1]
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Join formats a batch of CompileErrors into a single report, one block
// per error separated by a blank line.
func Join(errs []*CompileError) string {
	if len(errs) == 0 {
		return ""
	}
	if len(errs) == 1 {
		return errs[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d errors:\n\n", len(errs))
	for i, e := range errs {
		sb.WriteString(e.Error())
		if i < len(errs)-1 {
			sb.WriteString("\n\n")
		}
	}
	return sb.String()
}

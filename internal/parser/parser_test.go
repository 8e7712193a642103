package parser

import (
	"testing"

	"github.com/nimbus-lang/nimbus/internal/ast"
	"github.com/nimbus-lang/nimbus/internal/lexer"
)

func parseProgram(t *testing.T, input string) *ast.Program {
	t.Helper()
	p := New(lexer.New(input))
	prog := p.ParseProgram()
	if len(p.Errors()) != 0 {
		for _, e := range p.Errors() {
			t.Errorf("parse error: %s", e)
		}
		t.FailNow()
	}
	return prog
}

func TestLetStatement(t *testing.T) {
	prog := parseProgram(t, `let x = 5;`)
	if len(prog.Statements) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(prog.Statements))
	}
	stmt, ok := prog.Statements[0].(*ast.LetStatement)
	if !ok {
		t.Fatalf("expected *ast.LetStatement, got %T", prog.Statements[0])
	}
	if stmt.Name != "x" {
		t.Fatalf("expected name x, got %s", stmt.Name)
	}
	lit, ok := stmt.Init.(*ast.IntegerLiteral)
	if !ok || lit.Value != 5 {
		t.Fatalf("expected integer literal 5, got %#v", stmt.Init)
	}
}

func TestConstStatement(t *testing.T) {
	prog := parseProgram(t, `const PI = 3.5;`)
	stmt, ok := prog.Statements[0].(*ast.ConstStatement)
	if !ok || stmt.Name != "PI" {
		t.Fatalf("unexpected const statement: %#v", prog.Statements[0])
	}
}

func TestOperatorPrecedence(t *testing.T) {
	tests := map[string]string{
		"1 + 2 * 3;":        "(1 + (2 * 3))",
		"(1 + 2) * 3;":      "((1 + 2) * 3)",
		"-a * b;":           "((-a) * b)",
		"a + b - c;":        "((a + b) - c)",
		"a == b && c != d;": "((a == b) && (c != d))",
		"a < b || c > d;":   "((a < b) || (c > d))",
	}
	for input, want := range tests {
		prog := parseProgram(t, input)
		stmt := prog.Statements[0].(*ast.ExpressionStatement)
		if got := stmt.Expression.String(); got != want {
			t.Errorf("input %q: expected %q, got %q", input, want, got)
		}
	}
}

func TestAssignmentExpression(t *testing.T) {
	prog := parseProgram(t, `x = 5;`)
	stmt := prog.Statements[0].(*ast.ExpressionStatement)
	assign, ok := stmt.Expression.(*ast.AssignmentExpression)
	if !ok {
		t.Fatalf("expected *ast.AssignmentExpression, got %T", stmt.Expression)
	}
	if _, ok := assign.Left.(*ast.Identifier); !ok {
		t.Fatalf("expected identifier LHS, got %T", assign.Left)
	}
}

func TestIndexAndDotChain(t *testing.T) {
	prog := parseProgram(t, `a.b[0].c(1, 2);`)
	stmt := prog.Statements[0].(*ast.ExpressionStatement)
	if _, ok := stmt.Expression.(*ast.DotExpression); !ok {
		t.Fatalf("expected *ast.DotExpression root, got %T", stmt.Expression)
	}
}

func TestArrayAndMapLiterals(t *testing.T) {
	prog := parseProgram(t, `[1, 2, 3];`)
	stmt := prog.Statements[0].(*ast.ExpressionStatement)
	arr, ok := stmt.Expression.(*ast.ArrayLiteral)
	if !ok || len(arr.Elements) != 3 {
		t.Fatalf("expected array literal with 3 elements, got %#v", stmt.Expression)
	}

	prog2 := parseProgram(t, `#{a: 1, b: 2};`)
	stmt2 := prog2.Statements[0].(*ast.ExpressionStatement)
	m, ok := stmt2.Expression.(*ast.MapLiteral)
	if !ok || len(m.Entries) != 2 {
		t.Fatalf("expected map literal with 2 entries, got %#v", stmt2.Expression)
	}
}

func TestIfElseStatement(t *testing.T) {
	prog := parseProgram(t, `if x > 0 { let y = 1; } else { let y = 2; }`)
	stmt, ok := prog.Statements[0].(*ast.IfStatement)
	if !ok {
		t.Fatalf("expected *ast.IfStatement, got %T", prog.Statements[0])
	}
	if stmt.Alternative == nil {
		t.Fatalf("expected else branch to be parsed")
	}
}

func TestElseIfChain(t *testing.T) {
	prog := parseProgram(t, `if a { } else if b { } else { }`)
	stmt := prog.Statements[0].(*ast.IfStatement)
	if stmt.Alternative == nil || len(stmt.Alternative.Statements) != 1 {
		t.Fatalf("expected nested else-if wrapped in block: %#v", stmt.Alternative)
	}
	if _, ok := stmt.Alternative.Statements[0].(*ast.IfStatement); !ok {
		t.Fatalf("expected nested *ast.IfStatement, got %T", stmt.Alternative.Statements[0])
	}
}

func TestWhileLoopForStatements(t *testing.T) {
	prog := parseProgram(t, `
		while x < 10 { x = x + 1; }
		loop { break; }
		for item in items { continue; }
	`)
	if len(prog.Statements) != 3 {
		t.Fatalf("expected 3 statements, got %d", len(prog.Statements))
	}
	if _, ok := prog.Statements[0].(*ast.WhileStatement); !ok {
		t.Errorf("expected *ast.WhileStatement, got %T", prog.Statements[0])
	}
	if _, ok := prog.Statements[1].(*ast.LoopStatement); !ok {
		t.Errorf("expected *ast.LoopStatement, got %T", prog.Statements[1])
	}
	if fs, ok := prog.Statements[2].(*ast.ForStatement); !ok || fs.VarName != "item" {
		t.Errorf("expected *ast.ForStatement over item, got %#v", prog.Statements[2])
	}
}

func TestFunctionDeclAndHoisting(t *testing.T) {
	prog := parseProgram(t, `
		fn add(a, b) { return a + b; }
		fn add(a, b, c) { return a + b + c; }
	`)
	if len(prog.Functions) != 2 {
		t.Fatalf("expected 2 hoisted functions, got %d", len(prog.Functions))
	}
	if _, ok := prog.Functions[ast.FuncKey("add", 2)]; !ok {
		t.Errorf("expected add/2 in FunctionsLib")
	}
	if _, ok := prog.Functions[ast.FuncKey("add", 3)]; !ok {
		t.Errorf("expected add/3 in FunctionsLib")
	}
}

func TestThrowAndReturnWithoutValue(t *testing.T) {
	prog := parseProgram(t, `
		fn f() {
			if true { throw; }
			return;
		}
	`)
	fn := prog.Functions[ast.FuncKey("f", 0)]
	if fn == nil {
		t.Fatalf("expected function f/0")
	}
	ifStmt := fn.Body.Statements[0].(*ast.IfStatement)
	throwStmt := ifStmt.Consequence.Statements[0].(*ast.ThrowStatement)
	if throwStmt.Value != nil {
		t.Errorf("expected nil throw value")
	}
	retStmt := fn.Body.Statements[1].(*ast.ReturnStatement)
	if retStmt.Value != nil {
		t.Errorf("expected nil return value")
	}
}

func TestBlockExpressionValue(t *testing.T) {
	prog := parseProgram(t, `let x = { let y = 1; y + 1 };`)
	stmt := prog.Statements[0].(*ast.LetStatement)
	if _, ok := stmt.Init.(*ast.StmtExpression); !ok {
		t.Fatalf("expected block-as-expression, got %T", stmt.Init)
	}
}

func TestInExpression(t *testing.T) {
	prog := parseProgram(t, `x in arr;`)
	stmt := prog.Statements[0].(*ast.ExpressionStatement)
	if _, ok := stmt.Expression.(*ast.InExpression); !ok {
		t.Fatalf("expected *ast.InExpression, got %T", stmt.Expression)
	}
}

func TestUnitLiteral(t *testing.T) {
	prog := parseProgram(t, `();`)
	stmt := prog.Statements[0].(*ast.ExpressionStatement)
	if _, ok := stmt.Expression.(*ast.UnitLiteral); !ok {
		t.Fatalf("expected *ast.UnitLiteral, got %T", stmt.Expression)
	}
}

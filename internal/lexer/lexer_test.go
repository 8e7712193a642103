package lexer

import "testing"

func TestNextToken_Operators(t *testing.T) {
	input := `=+-*/%!<><=>===!=&&||.,:;(){}[]#`

	tests := []TokenType{
		ASSIGN, PLUS, MINUS, STAR, SLASH, PERCENT, BANG, LT, GT, LE, GE, EQ, NEQ,
		AND, OR, DOT, COMMA, COLON, SEMICOLON, LPAREN, RPAREN, LBRACE, RBRACE,
		LBRACKET, RBRACKET, HASH, EOF,
	}

	l := New(input)
	for i, expected := range tests {
		tok := l.NextToken()
		if tok.Type != expected {
			t.Fatalf("token %d: expected %s, got %s (%q)", i, expected, tok.Type, tok.Literal)
		}
	}
}

func TestNextToken_Keywords(t *testing.T) {
	input := `let const fn if else while loop for in break continue return throw eval true false`
	expected := []TokenType{
		LET, CONST, FN, IF, ELSE, WHILE, LOOP, FOR, IN, BREAK, CONTINUE, RETURN,
		THROW, EVAL, TRUE, FALSE, EOF,
	}

	l := New(input)
	for i, want := range expected {
		tok := l.NextToken()
		if tok.Type != want {
			t.Fatalf("token %d: expected %s, got %s", i, want, tok.Type)
		}
	}
}

func TestNextToken_Literals(t *testing.T) {
	l := New(`40 2.5 "hello" 'X' ident_1`)

	tok := l.NextToken()
	if tok.Type != INT || tok.Literal != "40" {
		t.Fatalf("expected INT 40, got %s %q", tok.Type, tok.Literal)
	}
	tok = l.NextToken()
	if tok.Type != FLOAT || tok.Literal != "2.5" {
		t.Fatalf("expected FLOAT 2.5, got %s %q", tok.Type, tok.Literal)
	}
	tok = l.NextToken()
	if tok.Type != STRING || tok.Literal != "hello" {
		t.Fatalf("expected STRING hello, got %s %q", tok.Type, tok.Literal)
	}
	tok = l.NextToken()
	if tok.Type != CHAR || tok.Literal != "X" {
		t.Fatalf("expected CHAR X, got %s %q", tok.Type, tok.Literal)
	}
	tok = l.NextToken()
	if tok.Type != IDENT || tok.Literal != "ident_1" {
		t.Fatalf("expected IDENT ident_1, got %s %q", tok.Type, tok.Literal)
	}
}

func TestNextToken_Positions(t *testing.T) {
	l := New("a\nb")
	first := l.NextToken()
	if first.Pos.Line != 1 {
		t.Fatalf("expected line 1, got %d", first.Pos.Line)
	}
	second := l.NextToken()
	if second.Pos.Line != 2 {
		t.Fatalf("expected line 2, got %d", second.Pos.Line)
	}
}

func TestNextToken_StringEscapes(t *testing.T) {
	l := New(`"a\nb\tc\\d\"e"`)
	tok := l.NextToken()
	want := "a\nb\tc\\d\"e"
	if tok.Type != STRING || tok.Literal != want {
		t.Fatalf("expected STRING %q, got %s %q", want, tok.Type, tok.Literal)
	}
}

func TestNextToken_UnterminatedString(t *testing.T) {
	l := New(`"abc`)
	tok := l.NextToken()
	if tok.Type != ILLEGAL {
		t.Fatalf("expected ILLEGAL for unterminated string, got %s", tok.Type)
	}
}

func TestNextToken_Comments(t *testing.T) {
	l := New("1 // line comment\n2 /* block\ncomment */ 3")
	want := []string{"1", "2", "3"}
	for _, w := range want {
		tok := l.NextToken()
		if tok.Literal != w {
			t.Fatalf("expected %q, got %q", w, tok.Literal)
		}
	}
}

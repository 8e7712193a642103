package parser

import (
	"strconv"

	"github.com/nimbus-lang/nimbus/internal/ast"
	"github.com/nimbus-lang/nimbus/internal/lexer"
)

// parseExpression implements precedence-climbing: look up curToken's prefix
// fn, then keep absorbing infix operators whose precedence exceeds prec.
func (p *Parser) parseExpression(prec int) ast.Expression {
	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.noPrefixParseFnError(p.curToken.Type)
		return nil
	}
	left := prefix()

	for !p.peekTokenIs(lexer.SEMICOLON) && prec < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return left
		}
		p.nextToken()
		left = infix(left)
	}
	return left
}

func (p *Parser) parseIdentifier() ast.Expression {
	return &ast.Identifier{Token: p.curToken, Name: p.curToken.Literal}
}

func (p *Parser) parseIntegerLiteral() ast.Expression {
	tok := p.curToken
	v, err := strconv.ParseInt(tok.Literal, 10, 64)
	if err != nil {
		p.errors = append(p.errors, &ParseError{Pos: tok.Pos, Message: "invalid integer literal: " + tok.Literal})
		return nil
	}
	return &ast.IntegerLiteral{Token: tok, Value: v}
}

func (p *Parser) parseFloatLiteral() ast.Expression {
	tok := p.curToken
	v, err := strconv.ParseFloat(tok.Literal, 64)
	if err != nil {
		p.errors = append(p.errors, &ParseError{Pos: tok.Pos, Message: "invalid float literal: " + tok.Literal})
		return nil
	}
	return &ast.FloatLiteral{Token: tok, Value: v}
}

func (p *Parser) parseStringLiteral() ast.Expression {
	return &ast.StringLiteral{Token: p.curToken, Value: p.curToken.Literal}
}

func (p *Parser) parseCharLiteral() ast.Expression {
	return &ast.CharLiteral{Token: p.curToken, Value: []rune(p.curToken.Literal)[0]}
}

func (p *Parser) parseBoolLiteral() ast.Expression {
	return &ast.BoolLiteral{Token: p.curToken, Value: p.curTokenIs(lexer.TRUE)}
}

func (p *Parser) parsePrefixExpression() ast.Expression {
	tok := p.curToken
	op := tok.Literal
	if tok.Type == lexer.BANG {
		op = "!"
	}
	p.nextToken()
	return &ast.UnaryExpression{Token: tok, Operator: op, Right: p.parseExpression(PREFIX)}
}

// parseGroupedOrUnit handles `(expr)` and the empty-tuple `()` unit literal.
func (p *Parser) parseGroupedOrUnit() ast.Expression {
	tok := p.curToken
	if p.peekTokenIs(lexer.RPAREN) {
		p.nextToken()
		return &ast.UnitLiteral{Token: tok}
	}
	p.nextToken()
	exp := p.parseExpression(LOWEST)
	if !p.expectPeek(lexer.RPAREN) {
		return nil
	}
	return exp
}

func (p *Parser) parseArrayLiteral() ast.Expression {
	tok := p.curToken
	elems := p.parseExpressionList(lexer.RBRACKET)
	return &ast.ArrayLiteral{Token: tok, Elements: elems}
}

func (p *Parser) parseExpressionList(end lexer.TokenType) []ast.Expression {
	var list []ast.Expression
	if p.peekTokenIs(end) {
		p.nextToken()
		return list
	}
	p.nextToken()
	list = append(list, p.parseExpression(LOWEST))
	for p.peekTokenIs(lexer.COMMA) {
		p.nextToken()
		p.nextToken()
		list = append(list, p.parseExpression(LOWEST))
	}
	if !p.expectPeek(end) {
		return nil
	}
	return list
}

// parseMapLiteral parses `#{ key: value, ... }`. Keys are bare identifiers
// or string literals, per the grammar's object-map sugar.
func (p *Parser) parseMapLiteral() ast.Expression {
	tok := p.curToken
	if !p.expectPeek(lexer.LBRACE) {
		return nil
	}

	var entries []ast.MapEntry
	for !p.peekTokenIs(lexer.RBRACE) {
		p.nextToken()
		var key string
		switch p.curToken.Type {
		case lexer.IDENT:
			key = p.curToken.Literal
		case lexer.STRING:
			key = p.curToken.Literal
		default:
			p.errors = append(p.errors, &ParseError{Pos: p.curToken.Pos, Message: "expected map key, got " + p.curToken.Type.String()})
			return nil
		}
		if !p.expectPeek(lexer.COLON) {
			return nil
		}
		p.nextToken()
		value := p.parseExpression(LOWEST)
		entries = append(entries, ast.MapEntry{Key: key, Value: value})

		if p.peekTokenIs(lexer.COMMA) {
			p.nextToken()
		}
	}
	if !p.expectPeek(lexer.RBRACE) {
		return nil
	}
	return &ast.MapLiteral{Token: tok, Entries: entries}
}

// parseBlockExpression lets `{ ... }` stand in expression position, its
// value being the block's trailing statement value (spec §4.G "Stmt(s)").
func (p *Parser) parseBlockExpression() ast.Expression {
	block := p.parseBlock()
	return &ast.StmtExpression{Stmt: block}
}

func (p *Parser) parseIfExpression() ast.Expression {
	stmt := p.parseIfStatement()
	return &ast.StmtExpression{Stmt: stmt}
}

func (p *Parser) parseBinaryExpression(left ast.Expression) ast.Expression {
	tok := p.curToken
	op := tok.Literal
	prec := p.curPrecedence()
	p.nextToken()
	right := p.parseExpression(prec)
	return &ast.BinaryExpression{Token: tok, Left: left, Operator: op, Right: right}
}

func (p *Parser) parseLogicalExpression(left ast.Expression) ast.Expression {
	tok := p.curToken
	op := tok.Literal
	prec := p.curPrecedence()
	p.nextToken()
	right := p.parseExpression(prec)
	return &ast.LogicalExpression{Token: tok, Left: left, Operator: op, Right: right}
}

func (p *Parser) parseInExpression(left ast.Expression) ast.Expression {
	tok := p.curToken
	prec := p.curPrecedence()
	p.nextToken()
	right := p.parseExpression(prec)
	return &ast.InExpression{Token: tok, Left: left, Right: right}
}

func (p *Parser) parseCallExpression(callee ast.Expression) ast.Expression {
	tok := p.curToken
	args := p.parseExpressionList(lexer.RPAREN)
	return &ast.CallExpression{Token: tok, Callee: callee, Args: args}
}

func (p *Parser) parseIndexExpression(left ast.Expression) ast.Expression {
	tok := p.curToken
	p.nextToken()
	index := p.parseExpression(LOWEST)
	if !p.expectPeek(lexer.RBRACKET) {
		return nil
	}
	return &ast.IndexExpression{Token: tok, Left: left, Index: index}
}

// parseDotExpression parses the RHS of `.` as either a bare property
// identifier or a method call `name(args)` (spec §4.F "Dot mode").
func (p *Parser) parseDotExpression(left ast.Expression) ast.Expression {
	tok := p.curToken
	if !p.expectPeek(lexer.IDENT) {
		return nil
	}
	name := &ast.Identifier{Token: p.curToken, Name: p.curToken.Literal}

	var right ast.Expression = name
	if p.peekTokenIs(lexer.LPAREN) {
		p.nextToken()
		callTok := p.curToken
		args := p.parseExpressionList(lexer.RPAREN)
		right = &ast.CallExpression{Token: callTok, Callee: name, Args: args}
	}
	return &ast.DotExpression{Token: tok, Left: left, Right: right}
}

// parseAssignmentExpression requires the LHS to be an lvalue form the
// chain evaluator can target: identifier, index, or dot (spec §4.E).
func (p *Parser) parseAssignmentExpression(left ast.Expression) ast.Expression {
	tok := p.curToken
	switch left.(type) {
	case *ast.Identifier, *ast.IndexExpression, *ast.DotExpression:
	default:
		p.errors = append(p.errors, &ParseError{Pos: tok.Pos, Message: "invalid assignment target"})
	}
	p.nextToken()
	right := p.parseExpression(ASSIGN - 1)
	return &ast.AssignmentExpression{Token: tok, Left: left, Right: right}
}

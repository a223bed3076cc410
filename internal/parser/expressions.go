package parser

import (
	"github.com/pseudocode-lang/pseudocode/internal/ast"
	"github.com/pseudocode-lang/pseudocode/internal/builtin"
	"github.com/pseudocode-lang/pseudocode/internal/lexer"
)

// Precedence levels: OR binds loosest, then AND, comparisons,
// additive, multiplicative.
const (
	precLowest = 0
	precOr     = 1
	precAnd    = 2
	precCompare = 3
	precAdd    = 4
	precMul    = 5
)

var binaryOps = map[lexer.TokenType]ast.BinaryOperator{
	lexer.PLUS:               ast.OpAdd,
	lexer.MINUS:              ast.OpSubtract,
	lexer.MULTIPLY:           ast.OpMultiply,
	lexer.DIVIDE:             ast.OpDivide,
	lexer.EQUALS:             ast.OpEquals,
	lexer.NOTEQUALS:          ast.OpNotEquals,
	lexer.LESSTHAN:           ast.OpLessThan,
	lexer.GREATERTHAN:        ast.OpGreaterThan,
	lexer.LESSTHANOREQUAL:    ast.OpLessThanOrEqual,
	lexer.GREATERTHANOREQUAL: ast.OpGreaterThanOrEqual,
}

// tokenPrecedence returns the binding power of the current token as an
// infix operator, or precLowest if it is not one.
func (p *Parser) tokenPrecedence() int {
	tok := p.cur()
	if op, ok := binaryOps[tok.Type]; ok {
		return op.Precedence()
	}
	if tok.Type == lexer.KEYWORD {
		switch tok.Literal {
		case "AND":
			return precAnd
		case "OR":
			return precOr
		case "DIV":
			return precMul
		case "MOD":
			return precMul
		}
	}
	return precLowest
}

// parseExpr parses an expression, consuming infix operators whose
// precedence exceeds minPrec (precedence climbing).
func (p *Parser) parseExpr(minPrec int) (ast.Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for {
		prec := p.tokenPrecedence()
		if prec <= minPrec {
			return left, nil
		}

		opTok := p.cur()
		var op ast.BinaryOperator
		if bop, ok := binaryOps[opTok.Type]; ok {
			op = bop
		} else {
			switch opTok.Literal {
			case "AND":
				op = ast.OpAnd
			case "OR":
				op = ast.OpOr
			case "DIV":
				op = ast.OpDiv
			case "MOD":
				op = ast.OpModulus
			}
		}
		p.advance()

		right, err := p.parseExpr(prec)
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Left: left, Op: op, Right: right, Span: opTok.Pos}
	}
}

// parseUnary handles NOT, unary -, prefix ^ (pointer-of), then falls
// through to parsePostfix/parsePrimary.
func (p *Parser) parseUnary() (ast.Expr, error) {
	tok := p.cur()
	switch {
	case tok.Type == lexer.KEYWORD && tok.Literal == "NOT":
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Op: ast.OpNot, Operand: operand, Span: tok.Pos}, nil
	case tok.Type == lexer.MINUS:
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Op: ast.OpNegate, Operand: operand, Span: tok.Pos}, nil
	case tok.Type == lexer.CARET:
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.RefExpr{Target: operand, Span: tok.Pos}, nil
	}
	return p.parsePostfix()
}

// parsePostfix handles the postfix pointer-dereference `expr^` and
// `expr.field` chains applied to a primary expression.
func (p *Parser) parsePostfix() (ast.Expr, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.cur().Type {
		case lexer.CARET:
			tok := p.advance()
			expr = &ast.DerefExpr{Pointer: expr, Span: tok.Pos}
		case lexer.DOT:
			tok := p.advance()
			field, err := p.expect(lexer.IDENT, "field name")
			if err != nil {
				return nil, err
			}
			expr = &ast.FieldExpr{Object: expr, Field: field.Literal, Span: tok.Pos}
		default:
			return expr, nil
		}
	}
}

func (p *Parser) parsePrimary() (ast.Expr, error) {
	tok := p.cur()

	switch tok.Type {
	case lexer.NUMBER:
		p.advance()
		return &ast.NumberLiteral{Text: tok.Literal, Span: tok.Pos}, nil
	case lexer.STRING:
		p.advance()
		return &ast.StringLiteral{Value: tok.Literal, Span: tok.Pos}, nil
	case lexer.CHAR:
		p.advance()
		return &ast.CharLiteral{Value: tok.Literal, Span: tok.Pos}, nil
	case lexer.LEFTPAREN:
		p.advance()
		inner, err := p.parseExpr(precLowest)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RIGHTPAREN, "')'"); err != nil {
			return nil, err
		}
		return inner, nil
	case lexer.IDENT:
		return p.parseIdentExpr()
	case lexer.KEYWORD:
		switch tok.Literal {
		case "TRUE":
			p.advance()
			return &ast.BoolLiteral{Value: true, Span: tok.Pos}, nil
		case "FALSE":
			p.advance()
			return &ast.BoolLiteral{Value: false, Span: tok.Pos}, nil
		default:
			// Built-in function names (LENGTH, UCASE, ...) lex as
			// KEYWORD but act as ordinary calls.
			if isBuiltinKeyword(tok.Literal) {
				return p.parseIdentExpr()
			}
		}
	}

	if p.atEOF() {
		return nil, &ErrNeedsMoreInput{Opener: p.lastOpener}
	}
	return nil, p.errorf("unexpected token %q in expression", tok.Literal)
}

// parseIdentExpr parses a bare variable, a function call `name(args)`, or
// an indexed access `name[i, j, ...]`.
func (p *Parser) parseIdentExpr() (ast.Expr, error) {
	tok := p.advance()
	name := tok.Literal

	if p.cur().Type == lexer.LEFTPAREN {
		p.advance()
		var args []ast.Expr
		if p.cur().Type != lexer.RIGHTPAREN {
			for {
				arg, err := p.parseExpr(precLowest)
				if err != nil {
					return nil, err
				}
				args = append(args, arg)
				if p.cur().Type == lexer.COMMA {
					p.advance()
					continue
				}
				break
			}
		}
		if _, err := p.expect(lexer.RIGHTPAREN, "')'"); err != nil {
			return nil, err
		}
		return &ast.CallExpr{Name: name, Args: args, Span: tok.Pos}, nil
	}

	if p.cur().Type == lexer.LEFTBRACKET {
		p.advance()
		var indices []ast.Expr
		for {
			idx, err := p.parseExpr(precLowest)
			if err != nil {
				return nil, err
			}
			indices = append(indices, idx)
			if p.cur().Type == lexer.COMMA {
				p.advance()
				continue
			}
			break
		}
		if _, err := p.expect(lexer.RIGHTBRACKET, "']'"); err != nil {
			return nil, err
		}
		return &ast.IndexExpr{Name: name, Indices: indices, Span: tok.Pos}, nil
	}

	return &ast.Variable{Name: name, Span: tok.Pos}, nil
}

func isBuiltinKeyword(word string) bool {
	_, ok := builtin.Lookup(word)
	return ok
}

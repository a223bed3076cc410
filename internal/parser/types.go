package parser

import (
	"github.com/pseudocode-lang/pseudocode/internal/ast"
	"github.com/pseudocode-lang/pseudocode/internal/lexer"
)

var scalarKeywords = map[string]ast.ScalarKind{
	"INTEGER": ast.KindInteger,
	"REAL":    ast.KindReal,
	"STRING":  ast.KindString,
	"CHAR":    ast.KindChar,
	"BOOLEAN": ast.KindBoolean,
	"DATE":    ast.KindDate,
}

// parseType parses a type expression appearing after a `:` in a Declare,
// parameter, field, or after RETURNS: a scalar keyword, SET OF T, ^T, an
// ARRAY type, or a bare custom type name.
func (p *Parser) parseType() (ast.Type, error) {
	if p.cur().Type == lexer.CARET {
		p.advance()
		inner, err := p.parseType()
		if err != nil {
			return nil, err
		}
		return &ast.PointerType{PointsTo: inner}, nil
	}

	if p.isKeyword("SET") {
		p.advance()
		if err := p.expectKeyword("OF"); err != nil {
			return nil, err
		}
		elem, err := p.parseType()
		if err != nil {
			return nil, err
		}
		return &ast.SetType{Element: elem}, nil
	}

	if p.isKeyword("ARRAY") {
		return p.parseArrayType()
	}

	if p.cur().Type == lexer.KEYWORD {
		if kind, ok := scalarKeywords[p.cur().Literal]; ok {
			p.advance()
			return &ast.ScalarType{Kind: kind}, nil
		}
	}

	if p.cur().Type == lexer.IDENT {
		name := p.advance().Literal
		return &ast.CustomType{Name: name}, nil
	}

	return nil, p.errorf("expected a type name, got %q", p.cur().Literal)
}

// parseArrayType parses `ARRAY[lo:hi (, lo:hi)*] (ARRAY[...])* OF T`,
// flattening multiple bracket groups or comma pairs into one ordered
// dimension list.
func (p *Parser) parseArrayType() (ast.Type, error) {
	var dims []ast.Dimension
	for p.isKeyword("ARRAY") {
		p.advance()
		if _, err := p.expect(lexer.LEFTBRACKET, "'['"); err != nil {
			return nil, err
		}
		for {
			lo, err := p.parseExpr(precLowest)
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(lexer.COLON, "':'"); err != nil {
				return nil, err
			}
			hi, err := p.parseExpr(precLowest)
			if err != nil {
				return nil, err
			}
			dims = append(dims, ast.Dimension{Lo: lo, Hi: hi})
			if p.cur().Type == lexer.COMMA {
				p.advance()
				continue
			}
			break
		}
		if _, err := p.expect(lexer.RIGHTBRACKET, "']'"); err != nil {
			return nil, err
		}
	}
	if err := p.expectKeyword("OF"); err != nil {
		return nil, err
	}
	elem, err := p.parseType()
	if err != nil {
		return nil, err
	}
	return &ast.ArrayType{Dimensions: dims, Element: elem}, nil
}

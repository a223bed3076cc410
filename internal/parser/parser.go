// Package parser implements a recursive-descent, precedence-climbing
// parser over the token stream produced by internal/lexer. It produces a
// position-annotated ast.Program.
package parser

import (
	"fmt"

	"github.com/pseudocode-lang/pseudocode/internal/ast"
	"github.com/pseudocode-lang/pseudocode/internal/lexer"
	"github.com/pseudocode-lang/pseudocode/internal/perror"
)

// ErrNeedsMoreInput is returned instead of a syntax error when the parser
// hit EOF while still inside an open block. A REPL host should use this
// signal — not string-matching error text — to decide whether to keep
// accumulating lines.
type ErrNeedsMoreInput struct {
	// Opener is the keyword that opened the still-unterminated block
	// (e.g. "IF", "FUNCTION"), for a friendlier REPL prompt.
	Opener string
}

func (e *ErrNeedsMoreInput) Error() string {
	return fmt.Sprintf("incomplete input: unterminated %s block", e.Opener)
}

// Parser consumes a pre-lexed token slice and builds the AST.
type Parser struct {
	tokens []lexer.Token
	pos    int
	source string

	blockDepth   int
	lastOpener   string
}

// New tokenizes source and returns a ready-to-use Parser, or the lex
// error if tokenizing failed.
func New(source string) (*Parser, error) {
	tokens, err := lexer.Tokenize(source)
	if err != nil {
		lexErr := err.(*lexer.Error)
		return nil, &perror.Error{Kind: perror.KindLex, Message: lexErr.Message, Pos: lexErr.Pos, Source: source}
	}
	return &Parser{tokens: tokens, source: source}, nil
}

func (p *Parser) cur() lexer.Token {
	if p.pos >= len(p.tokens) {
		return lexer.Token{Type: lexer.EOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) peek(n int) lexer.Token {
	idx := p.pos + n
	if idx >= len(p.tokens) {
		return lexer.Token{Type: lexer.EOF}
	}
	return p.tokens[idx]
}

func (p *Parser) advance() lexer.Token {
	t := p.cur()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return t
}

func (p *Parser) atEOF() bool { return p.cur().Type == lexer.EOF }

func (p *Parser) isKeyword(word string) bool {
	return p.cur().Type == lexer.KEYWORD && p.cur().Literal == word
}

func (p *Parser) errorf(format string, args ...any) error {
	return &perror.Error{
		Kind:    perror.KindParse,
		Message: fmt.Sprintf(format, args...),
		Pos:     p.cur().Pos,
		Source:  p.source,
	}
}

// expect consumes the current token if it matches tt, otherwise returns a
// positioned parse error describing what was expected.
func (p *Parser) expect(tt lexer.TokenType, what string) (lexer.Token, error) {
	if p.cur().Type != tt {
		if p.atEOF() {
			return lexer.Token{}, &ErrNeedsMoreInput{Opener: p.lastOpener}
		}
		return lexer.Token{}, p.errorf("expected %s, got %q", what, p.cur().Literal)
	}
	return p.advance(), nil
}

func (p *Parser) expectKeyword(word string) error {
	if !p.isKeyword(word) {
		if p.atEOF() {
			return &ErrNeedsMoreInput{Opener: p.lastOpener}
		}
		return p.errorf("expected %s, got %q", word, p.cur().Literal)
	}
	p.advance()
	return nil
}

// skipNewlines consumes zero or more NEWLINE tokens.
func (p *Parser) skipNewlines() {
	for p.cur().Type == lexer.NEWLINE {
		p.advance()
	}
}

// ParseProgram parses a whole source file / REPL chunk into a Program.
func (p *Parser) ParseProgram() (*ast.Program, error) {
	var stmts []ast.Stmt
	p.skipNewlines()
	for !p.atEOF() {
		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
		p.skipNewlines()
	}
	return &ast.Program{Statements: stmts}, nil
}

// parseBlock parses statements until the current token is one of the
// `terminators`, skipping any newlines before and between statements.
func (p *Parser) parseBlock(opener string, terminators ...string) ([]ast.Stmt, error) {
	prevOpener := p.lastOpener
	p.lastOpener = opener
	p.blockDepth++
	defer func() {
		p.blockDepth--
		p.lastOpener = prevOpener
	}()

	var stmts []ast.Stmt
	p.skipNewlines()
	for {
		if p.atEOF() {
			return nil, &ErrNeedsMoreInput{Opener: opener}
		}
		if p.cur().Type == lexer.KEYWORD {
			for _, term := range terminators {
				if p.cur().Literal == term {
					return stmts, nil
				}
			}
		}
		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
		p.skipNewlines()
	}
}

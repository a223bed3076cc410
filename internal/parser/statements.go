package parser

import (
	"github.com/pseudocode-lang/pseudocode/internal/ast"
	"github.com/pseudocode-lang/pseudocode/internal/lexer"
)

// parseStmt dispatches on the current token: a keyword selects a
// specific statement form; an identifier starts an assignment.
func (p *Parser) parseStmt() (ast.Stmt, error) {
	tok := p.cur()

	if tok.Type == lexer.KEYWORD {
		switch tok.Literal {
		case "DECLARE":
			return p.parseDeclare()
		case "DEFINE":
			return p.parseDefine()
		case "TYPE":
			return p.parseTypeDeclaration()
		case "CONSTANT":
			return p.parseConstant()
		case "IF":
			return p.parseIf()
		case "WHILE":
			return p.parseWhile()
		case "FOR":
			return p.parseFor()
		case "REPEAT":
			return p.parseRepeat()
		case "CASE":
			return p.parseCase()
		case "FUNCTION":
			return p.parseFunctionDecl()
		case "PROCEDURE":
			return p.parseProcedureDecl()
		case "CALL":
			return p.parseCall()
		case "INPUT":
			return p.parseInput()
		case "OUTPUT":
			return p.parseOutput()
		case "OPENFILE":
			return p.parseOpenFile()
		case "CLOSEFILE":
			return p.parseCloseFile()
		case "READFILE":
			return p.parseReadFile()
		case "WRITEFILE":
			return p.parseWriteFile()
		case "SEEK":
			return p.parseSeek()
		case "GETRECORD":
			return p.parseGetRecord()
		case "PUTRECORD":
			return p.parsePutRecord()
		case "RETURN":
			return p.parseReturn()
		}
	}

	if tok.Type == lexer.IDENT {
		return p.parseAssignOrExprStmt()
	}

	if p.atEOF() {
		return nil, &ErrNeedsMoreInput{Opener: p.lastOpener}
	}
	return nil, p.errorf("unexpected token %q at start of statement", tok.Literal)
}

func (p *Parser) parseDeclare() (ast.Stmt, error) {
	tok := p.advance() // DECLARE
	name, err := p.expect(lexer.IDENT, "variable name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.COLON, "':'"); err != nil {
		return nil, err
	}
	typ, err := p.parseType()
	if err != nil {
		return nil, err
	}
	var initial ast.Expr
	if p.cur().Type == lexer.LEFTARROW {
		p.advance()
		initial, err = p.parseExpr(precLowest)
		if err != nil {
			return nil, err
		}
	}
	return &ast.Declare{Name: name.Literal, Type: typ, InitialValue: initial, Span: tok.Pos}, nil
}

// parseTypeDeclaration parses the four TYPE forms:
// enum `= (v1, v2, ...)`, pointer `= ^T`, set `= SET OF T`, and the
// block/record form with DECLARE fields ending in ENDTYPE.
func (p *Parser) parseTypeDeclaration() (ast.Stmt, error) {
	tok := p.advance() // TYPE
	name, err := p.expect(lexer.IDENT, "type name")
	if err != nil {
		return nil, err
	}

	if p.cur().Type == lexer.EQUALS {
		p.advance()
		if p.cur().Type == lexer.LEFTPAREN {
			p.advance()
			var values []string
			for {
				v, err := p.expect(lexer.IDENT, "enum value")
				if err != nil {
					return nil, err
				}
				values = append(values, v.Literal)
				if p.cur().Type == lexer.COMMA {
					p.advance()
					continue
				}
				break
			}
			if _, err := p.expect(lexer.RIGHTPAREN, "')'"); err != nil {
				return nil, err
			}
			return &ast.TypeDeclaration{Name: name.Literal, Decl: &ast.EnumType{Name: name.Literal, Values: values}, Span: tok.Pos}, nil
		}
		if p.cur().Type == lexer.CARET {
			p.advance()
			inner, err := p.parseType()
			if err != nil {
				return nil, err
			}
			return &ast.TypeDeclaration{Name: name.Literal, Decl: &ast.PointerType{PointsTo: inner}, Span: tok.Pos}, nil
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
			return &ast.TypeDeclaration{Name: name.Literal, Decl: &ast.SetType{Element: elem}, Span: tok.Pos}, nil
		}
		return nil, p.errorf("unsupported TYPE = form")
	}

	// Record form: TYPE name [newline] DECLARE field : T ... ENDTYPE
	var fields []ast.RecordField
	p.skipNewlines()
	for !p.isKeyword("ENDTYPE") {
		if p.atEOF() {
			return nil, &ErrNeedsMoreInput{Opener: "TYPE"}
		}
		if err := p.expectKeyword("DECLARE"); err != nil {
			return nil, err
		}
		fname, err := p.expect(lexer.IDENT, "field name")
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.COLON, "':'"); err != nil {
			return nil, err
		}
		ftype, err := p.parseType()
		if err != nil {
			return nil, err
		}
		fields = append(fields, ast.RecordField{Name: fname.Literal, Type: ftype})
		p.skipNewlines()
	}
	p.advance() // ENDTYPE
	return &ast.TypeDeclaration{Name: name.Literal, Decl: &ast.RecordType{Name: name.Literal, Fields: fields}, Span: tok.Pos}, nil
}

// parseDefine parses `DEFINE name (v1, v2, ...) : TypeName`; the
// elements stay literal text until the evaluator knows the set's
// element type.
func (p *Parser) parseDefine() (ast.Stmt, error) {
	tok := p.advance() // DEFINE
	name, err := p.expect(lexer.IDENT, "set name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.LEFTPAREN, "'('"); err != nil {
		return nil, err
	}
	var values []string
	if p.cur().Type != lexer.RIGHTPAREN {
		for {
			lit := p.advance()
			values = append(values, lit.Literal)
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
	if _, err := p.expect(lexer.COLON, "':'"); err != nil {
		return nil, err
	}
	typeName, err := p.expect(lexer.IDENT, "set type name")
	if err != nil {
		return nil, err
	}
	return &ast.Define{Name: name.Literal, Values: values, TypeName: typeName.Literal, Span: tok.Pos}, nil
}

func (p *Parser) parseConstant() (ast.Stmt, error) {
	tok := p.advance() // CONSTANT
	name, err := p.expect(lexer.IDENT, "constant name")
	if err != nil {
		return nil, err
	}
	var val ast.Expr
	if p.cur().Type == lexer.LEFTARROW {
		p.advance()
		val, err = p.parseExpr(precLowest)
		if err != nil {
			return nil, err
		}
	}
	return &ast.Constant{Name: name.Literal, Value: val, Span: tok.Pos}, nil
}

func (p *Parser) parseIf() (ast.Stmt, error) {
	tok := p.advance() // IF
	cond, err := p.parseExpr(precLowest)
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("THEN"); err != nil {
		return nil, err
	}
	thenBody, err := p.parseBlock("IF", "ELSE", "ENDIF")
	if err != nil {
		return nil, err
	}
	var elseBody []ast.Stmt
	if p.isKeyword("ELSE") {
		p.advance()
		elseBody, err = p.parseBlock("IF", "ENDIF")
		if err != nil {
			return nil, err
		}
	}
	if err := p.expectKeyword("ENDIF"); err != nil {
		return nil, err
	}
	return &ast.If{Condition: cond, Then: thenBody, Else: elseBody, Span: tok.Pos}, nil
}

func (p *Parser) parseWhile() (ast.Stmt, error) {
	tok := p.advance() // WHILE
	cond, err := p.parseExpr(precLowest)
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("DO"); err != nil {
		return nil, err
	}
	body, err := p.parseBlock("WHILE", "ENDWHILE")
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("ENDWHILE"); err != nil {
		return nil, err
	}
	return &ast.While{Condition: cond, Body: body, Span: tok.Pos}, nil
}

func (p *Parser) parseFor() (ast.Stmt, error) {
	tok := p.advance() // FOR
	counter, err := p.expect(lexer.IDENT, "loop counter name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.LEFTARROW, "'<-'"); err != nil {
		return nil, err
	}
	start, err := p.parseExpr(precLowest)
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("TO"); err != nil {
		return nil, err
	}
	end, err := p.parseExpr(precLowest)
	if err != nil {
		return nil, err
	}
	var step ast.Expr
	if p.isKeyword("STEP") {
		p.advance()
		step, err = p.parseExpr(precLowest)
		if err != nil {
			return nil, err
		}
	}
	body, err := p.parseBlock("FOR", "NEXT")
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("NEXT"); err != nil {
		return nil, err
	}
	nextName, err := p.expect(lexer.IDENT, "loop counter name after NEXT")
	if err != nil {
		return nil, err
	}
	if nextName.Literal != counter.Literal {
		return nil, p.errorf("mismatched NEXT: expected %q, got %q", counter.Literal, nextName.Literal)
	}
	return &ast.For{Counter: counter.Literal, Start: start, End: end, Step: step, Body: body, Span: tok.Pos}, nil
}

func (p *Parser) parseRepeat() (ast.Stmt, error) {
	tok := p.advance() // REPEAT
	body, err := p.parseBlock("REPEAT", "UNTIL")
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("UNTIL"); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr(precLowest)
	if err != nil {
		return nil, err
	}
	return &ast.RepeatUntil{Body: body, Condition: cond, Span: tok.Pos}, nil
}

func (p *Parser) parseCase() (ast.Stmt, error) {
	tok := p.advance() // CASE
	expr, err := p.parseExpr(precLowest)
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("OF"); err != nil {
		return nil, err
	}
	p.skipNewlines()

	var branches []ast.CaseBranch
	var otherwise []ast.Stmt
	for !p.isKeyword("ENDCASE") {
		if p.atEOF() {
			return nil, &ErrNeedsMoreInput{Opener: "CASE"}
		}
		if p.isKeyword("OTHERWISE") {
			p.advance()
			if _, err := p.expect(lexer.COLON, "':'"); err != nil {
				return nil, err
			}
			otherwise, err = p.parseCaseBody()
			if err != nil {
				return nil, err
			}
			p.skipNewlines()
			break
		}
		branchTok := p.cur()
		value, err := p.parseExpr(precLowest)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.COLON, "':'"); err != nil {
			return nil, err
		}
		body, err := p.parseCaseBody()
		if err != nil {
			return nil, err
		}
		branches = append(branches, ast.CaseBranch{Value: value, Body: body, Span: branchTok.Pos})
		p.skipNewlines()
	}
	if err := p.expectKeyword("ENDCASE"); err != nil {
		return nil, err
	}
	return &ast.Case{Expression: expr, Branches: branches, Otherwise: otherwise, Span: tok.Pos}, nil
}

// parseCaseBody parses the single-statement-per-line body of one CASE
// branch, stopping at the next branch label, OTHERWISE, or ENDCASE.
func (p *Parser) parseCaseBody() ([]ast.Stmt, error) {
	var stmts []ast.Stmt
	for {
		if p.atEOF() {
			return nil, &ErrNeedsMoreInput{Opener: "CASE"}
		}
		if p.cur().Type == lexer.NEWLINE || (p.cur().Type == lexer.KEYWORD && (p.cur().Literal == "ENDCASE" || p.cur().Literal == "OTHERWISE")) {
			return stmts, nil
		}
		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
		if p.cur().Type == lexer.COMMA {
			p.advance()
			continue
		}
		return stmts, nil
	}
}

func (p *Parser) parseParamList() ([]ast.Param, error) {
	var params []ast.Param
	if _, err := p.expect(lexer.LEFTPAREN, "'('"); err != nil {
		return nil, err
	}
	if p.cur().Type != lexer.RIGHTPAREN {
		for {
			name, err := p.expect(lexer.IDENT, "parameter name")
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(lexer.COLON, "':'"); err != nil {
				return nil, err
			}
			typ, err := p.parseType()
			if err != nil {
				return nil, err
			}
			params = append(params, ast.Param{Name: name.Literal, Type: typ, Span: name.Pos})
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
	return params, nil
}

func (p *Parser) parseFunctionDecl() (ast.Stmt, error) {
	tok := p.advance() // FUNCTION
	name, err := p.expect(lexer.IDENT, "function name")
	if err != nil {
		return nil, err
	}
	params, err := p.parseParamList()
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("RETURNS"); err != nil {
		return nil, err
	}
	retType, err := p.parseType()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock("FUNCTION", "ENDFUNCTION")
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("ENDFUNCTION"); err != nil {
		return nil, err
	}
	return &ast.FunctionDeclaration{Name: name.Literal, Params: params, ReturnType: retType, Body: body, Span: tok.Pos}, nil
}

func (p *Parser) parseProcedureDecl() (ast.Stmt, error) {
	tok := p.advance() // PROCEDURE
	name, err := p.expect(lexer.IDENT, "procedure name")
	if err != nil {
		return nil, err
	}
	params, err := p.parseParamList()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock("PROCEDURE", "ENDPROCEDURE")
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("ENDPROCEDURE"); err != nil {
		return nil, err
	}
	return &ast.ProcedureDeclaration{Name: name.Literal, Params: params, Body: body, Span: tok.Pos}, nil
}

func (p *Parser) parseCall() (ast.Stmt, error) {
	tok := p.advance() // CALL
	name, err := p.expect(lexer.IDENT, "procedure name")
	if err != nil {
		return nil, err
	}
	var args []ast.Expr
	if p.cur().Type == lexer.LEFTPAREN {
		p.advance()
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
	}
	return &ast.Call{Name: name.Literal, Args: args, Span: tok.Pos}, nil
}

func (p *Parser) parseInput() (ast.Stmt, error) {
	tok := p.advance() // INPUT
	name, err := p.expect(lexer.IDENT, "variable name")
	if err != nil {
		return nil, err
	}
	return &ast.Input{Name: name.Literal, Span: tok.Pos}, nil
}

func (p *Parser) parseOutput() (ast.Stmt, error) {
	tok := p.advance() // OUTPUT
	var exprs []ast.Expr
	for {
		e, err := p.parseExpr(precLowest)
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, e)
		if p.cur().Type == lexer.COMMA {
			p.advance()
			continue
		}
		break
	}
	return &ast.Output{Exprs: exprs, Span: tok.Pos}, nil
}

func (p *Parser) parseOpenFile() (ast.Stmt, error) {
	tok := p.advance() // OPENFILE
	filename, err := p.parseExpr(precLowest)
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("FOR"); err != nil {
		return nil, err
	}
	var mode ast.FileMode
	switch {
	case p.isKeyword("READ"):
		p.advance()
		mode = ast.FileRead
	case p.isKeyword("WRITE"):
		p.advance()
		mode = ast.FileWrite
	case p.isKeyword("RANDOM"):
		p.advance()
		mode = ast.FileRandom
	default:
		return nil, p.errorf("expected READ, WRITE, or RANDOM, got %q", p.cur().Literal)
	}
	return &ast.OpenFile{Filename: filename, Mode: mode, Span: tok.Pos}, nil
}

func (p *Parser) parseCloseFile() (ast.Stmt, error) {
	tok := p.advance() // CLOSEFILE
	filename, err := p.parseExpr(precLowest)
	if err != nil {
		return nil, err
	}
	return &ast.CloseFile{Filename: filename, Span: tok.Pos}, nil
}

func (p *Parser) parseReadFile() (ast.Stmt, error) {
	tok := p.advance() // READFILE
	filename, err := p.parseExpr(precLowest)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.COMMA, "','"); err != nil {
		return nil, err
	}
	varName, err := p.expect(lexer.IDENT, "variable name")
	if err != nil {
		return nil, err
	}
	return &ast.ReadFile{Filename: filename, Variable: varName.Literal, Span: tok.Pos}, nil
}

func (p *Parser) parseWriteFile() (ast.Stmt, error) {
	tok := p.advance() // WRITEFILE
	filename, err := p.parseExpr(precLowest)
	if err != nil {
		return nil, err
	}
	var exprs []ast.Expr
	for p.cur().Type == lexer.COMMA {
		p.advance()
		e, err := p.parseExpr(precLowest)
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, e)
	}
	return &ast.WriteFile{Filename: filename, Exprs: exprs, Span: tok.Pos}, nil
}

func (p *Parser) parseSeek() (ast.Stmt, error) {
	tok := p.advance() // SEEK
	filename, err := p.parseExpr(precLowest)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.COMMA, "','"); err != nil {
		return nil, err
	}
	addr, err := p.parseExpr(precLowest)
	if err != nil {
		return nil, err
	}
	return &ast.Seek{Filename: filename, Address: addr, Span: tok.Pos}, nil
}

func (p *Parser) parseGetRecord() (ast.Stmt, error) {
	tok := p.advance() // GETRECORD
	filename, err := p.parseExpr(precLowest)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.COMMA, "','"); err != nil {
		return nil, err
	}
	varName, err := p.expect(lexer.IDENT, "variable name")
	if err != nil {
		return nil, err
	}
	return &ast.GetRecord{Filename: filename, Variable: varName.Literal, Span: tok.Pos}, nil
}

func (p *Parser) parsePutRecord() (ast.Stmt, error) {
	tok := p.advance() // PUTRECORD
	filename, err := p.parseExpr(precLowest)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.COMMA, "','"); err != nil {
		return nil, err
	}
	varName, err := p.expect(lexer.IDENT, "variable name")
	if err != nil {
		return nil, err
	}
	return &ast.PutRecord{Filename: filename, Variable: varName.Literal, Span: tok.Pos}, nil
}

func (p *Parser) parseReturn() (ast.Stmt, error) {
	tok := p.advance() // RETURN
	if p.cur().Type == lexer.NEWLINE || p.atEOF() {
		return &ast.Return{Span: tok.Pos}, nil
	}
	val, err := p.parseExpr(precLowest)
	if err != nil {
		return nil, err
	}
	return &ast.Return{Value: val, Span: tok.Pos}, nil
}

// parseAssignOrExprStmt parses an lvalue (bare name, name[i,...], name.field,
// name^, and compositions thereof) followed by `<- expr`.
func (p *Parser) parseAssignOrExprStmt() (ast.Stmt, error) {
	tok := p.cur()
	lval, err := p.parseLValue()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.LEFTARROW, "'<-'"); err != nil {
		return nil, err
	}
	expr, err := p.parseExpr(precLowest)
	if err != nil {
		return nil, err
	}
	return &ast.Assign{Target: lval, Expression: expr, Span: tok.Pos}, nil
}

// parseLValue parses the composite-assignment-target grammar: a bare
// name optionally followed by any mix of `[indices]`, `.field`, `^`.
func (p *Parser) parseLValue() (ast.LValue, error) {
	tok, err := p.expect(lexer.IDENT, "variable name")
	if err != nil {
		return nil, err
	}
	var lval ast.LValue = &ast.VarLValue{Name: tok.Literal, Span: tok.Pos}

	for {
		switch p.cur().Type {
		case lexer.LEFTBRACKET:
			bracketTok := p.advance()
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
			lval = &ast.IndexLValue{Base: lval, Indices: indices, Span: bracketTok.Pos}
		case lexer.DOT:
			dotTok := p.advance()
			field, err := p.expect(lexer.IDENT, "field name")
			if err != nil {
				return nil, err
			}
			lval = &ast.FieldLValue{Base: lval, Field: field.Literal, Span: dotTok.Pos}
		case lexer.CARET:
			caretTok := p.advance()
			lval = &ast.DerefLValue{Base: lval, Span: caretTok.Pos}
		default:
			return lval, nil
		}
	}
}

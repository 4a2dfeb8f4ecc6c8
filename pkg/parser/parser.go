// Package parser builds slpy syntax trees from the lexer's token stream with
// a hand-written recursive descent over the original SLPY grammar.
package parser

import (
	"fmt"
	"strconv"

	"slpy/interpreter-go/pkg/ast"
	"slpy/interpreter-go/pkg/lexer"
)

// Error is a located parse failure.
type Error struct {
	Span    ast.Span
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.Span.File, e.Span.Start.Line, e.Span.Start.Column, e.Message)
}

type parser struct {
	tokens []lexer.Token
	pos    int
}

// Parse tokenizes and parses one source file.
func Parse(source, filename string) (*ast.Program, error) {
	tokens, err := lexer.Tokenize(source, filename)
	if err != nil {
		return nil, err
	}
	return ParseTokens(tokens)
}

// ParseTokens parses an already-tokenized file.
func ParseTokens(tokens []lexer.Token) (*ast.Program, error) {
	p := &parser{tokens: tokens}
	return p.parseProgram()
}

func (p *parser) cur() lexer.Token {
	return p.tokens[p.pos]
}

func (p *parser) peekType(offset int) lexer.TokenType {
	idx := p.pos + offset
	if idx >= len(p.tokens) {
		idx = len(p.tokens) - 1
	}
	return p.tokens[idx].Type
}

func (p *parser) advance() lexer.Token {
	tok := p.tokens[p.pos]
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return tok
}

func (p *parser) check(tt lexer.TokenType) bool {
	return p.cur().Type == tt
}

func (p *parser) match(tt lexer.TokenType) bool {
	if p.check(tt) {
		p.advance()
		return true
	}
	return false
}

func (p *parser) expect(tt lexer.TokenType) (lexer.Token, error) {
	if p.check(tt) {
		return p.advance(), nil
	}
	return lexer.Token{}, p.errorf("expected %s, found %s", tt, p.describeCur())
}

func (p *parser) describeCur() string {
	tok := p.cur()
	switch tok.Type {
	case lexer.TokIdent, lexer.TokIntLit:
		return fmt.Sprintf("'%s'", tok.Literal)
	case lexer.TokStringLit:
		return "string literal"
	default:
		return tok.Type.String()
	}
}

func (p *parser) errorf(format string, args ...any) error {
	return &Error{Span: p.cur().Span, Message: fmt.Sprintf(format, args...)}
}

//-----------------------------------------------------------------------------
// Program structure
//-----------------------------------------------------------------------------

func (p *parser) parseProgram() (*ast.Program, error) {
	start := p.cur().Span
	defs := make(map[string]*ast.FunctionDefinition)
	for p.check(lexer.TokDef) {
		def, err := p.parseDef()
		if err != nil {
			return nil, err
		}
		if _, exists := defs[def.Name]; exists {
			return nil, &Error{Span: def.Span(), Message: fmt.Sprintf("'%s' is already defined", def.Name)}
		}
		defs[def.Name] = def
	}

	var stmts []ast.Statement
	for !p.check(lexer.TokEOF) {
		if p.check(lexer.TokDef) {
			return nil, p.errorf("definitions must precede the top-level script")
		}
		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	main := ast.NewBlock(stmts, start)
	return ast.NewProgram(defs, main, start), nil
}

func (p *parser) parseDef() (*ast.FunctionDefinition, error) {
	defTok, err := p.expect(lexer.TokDef)
	if err != nil {
		return nil, err
	}
	nameTok, err := p.expect(lexer.TokIdent)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokLParen); err != nil {
		return nil, err
	}

	var params []*ast.Parameter
	seen := make(map[string]bool)
	for !p.check(lexer.TokRParen) {
		if len(params) > 0 {
			if _, err := p.expect(lexer.TokComma); err != nil {
				return nil, err
			}
		}
		paramTok, err := p.expect(lexer.TokIdent)
		if err != nil {
			return nil, err
		}
		if seen[paramTok.Literal] {
			return nil, &Error{Span: paramTok.Span, Message: fmt.Sprintf("duplicate parameter '%s'", paramTok.Literal)}
		}
		seen[paramTok.Literal] = true
		if _, err := p.expect(lexer.TokColon); err != nil {
			return nil, err
		}
		typ, err := p.parseType()
		if err != nil {
			return nil, err
		}
		params = append(params, ast.NewParameter(paramTok.Literal, typ, paramTok.Span))
	}
	if _, err := p.expect(lexer.TokRParen); err != nil {
		return nil, err
	}

	ret := ast.TypeNone
	if p.match(lexer.TokArrow) {
		ret, err = p.parseType()
		if err != nil {
			return nil, err
		}
	}
	body, err := p.parseSuite()
	if err != nil {
		return nil, err
	}
	return ast.NewFunctionDefinition(nameTok.Literal, params, ret, body, defTok.Span), nil
}

func (p *parser) parseType() (ast.Type, error) {
	switch p.cur().Type {
	case lexer.TokIntName:
		p.advance()
		return ast.TypeInt, nil
	case lexer.TokStrName:
		p.advance()
		return ast.TypeStr, nil
	case lexer.TokBoolName:
		p.advance()
		return ast.TypeBool, nil
	case lexer.TokNone:
		p.advance()
		return ast.TypeNone, nil
	default:
		return ast.TypeNone, p.errorf("expected a type, found %s", p.describeCur())
	}
}

// parseSuite recognizes `: NEWLINE INDENT stmt+ DEDENT`.
func (p *parser) parseSuite() (*ast.Block, error) {
	if _, err := p.expect(lexer.TokColon); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokNewline); err != nil {
		return nil, err
	}
	openTok, err := p.expect(lexer.TokIndent)
	if err != nil {
		return nil, err
	}
	var stmts []ast.Statement
	for !p.check(lexer.TokDedent) && !p.check(lexer.TokEOF) {
		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	if _, err := p.expect(lexer.TokDedent); err != nil {
		return nil, err
	}
	if len(stmts) == 0 {
		return nil, &Error{Span: openTok.Span, Message: "a block requires at least one statement"}
	}
	return ast.NewBlock(stmts, openTok.Span), nil
}

//-----------------------------------------------------------------------------
// Statements
//-----------------------------------------------------------------------------

func (p *parser) parseStmt() (ast.Statement, error) {
	switch p.cur().Type {
	case lexer.TokIdent:
		return p.parseNameStmt()
	case lexer.TokPrint:
		return p.parsePrint()
	case lexer.TokPass:
		tok := p.advance()
		if _, err := p.expect(lexer.TokNewline); err != nil {
			return nil, err
		}
		return ast.NewPass(tok.Span), nil
	case lexer.TokReturn:
		return p.parseReturn()
	case lexer.TokIf:
		return p.parseConditional()
	case lexer.TokWhile:
		return p.parseWhile()
	case lexer.TokRepeat:
		return p.parseRepeat()
	default:
		return nil, p.errorf("expected a statement, found %s", p.describeCur())
	}
}

func (p *parser) parseNameStmt() (ast.Statement, error) {
	nameTok := p.advance()
	switch p.cur().Type {
	case lexer.TokColon:
		p.advance()
		typ, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TokAssign); err != nil {
			return nil, err
		}
		init, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TokNewline); err != nil {
			return nil, err
		}
		return ast.NewVarDecl(nameTok.Literal, typ, init, nameTok.Span), nil
	case lexer.TokAssign:
		p.advance()
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TokNewline); err != nil {
			return nil, err
		}
		return ast.NewAssign(nameTok.Literal, expr, nameTok.Span), nil
	case lexer.TokPlusEq, lexer.TokMinusEq:
		op := ast.OpPlusEq
		if p.cur().Type == lexer.TokMinusEq {
			op = ast.OpMinusEq
		}
		p.advance()
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TokNewline); err != nil {
			return nil, err
		}
		return ast.NewCompoundAssign(nameTok.Literal, op, expr, nameTok.Span), nil
	case lexer.TokLParen:
		call, err := p.parseCallTail(nameTok)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TokNewline); err != nil {
			return nil, err
		}
		return ast.NewCallStatement(call, nameTok.Span), nil
	default:
		return nil, p.errorf("expected '=', ':', '+=', '-=' or '(' after '%s'", nameTok.Literal)
	}
}

func (p *parser) parsePrint() (ast.Statement, error) {
	printTok := p.advance()
	if _, err := p.expect(lexer.TokLParen); err != nil {
		return nil, err
	}
	var args []ast.Expression
	for !p.check(lexer.TokRParen) {
		if len(args) > 0 {
			if _, err := p.expect(lexer.TokComma); err != nil {
				return nil, err
			}
		}
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	if _, err := p.expect(lexer.TokRParen); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokNewline); err != nil {
		return nil, err
	}
	return ast.NewPrint(args, printTok.Span), nil
}

func (p *parser) parseReturn() (ast.Statement, error) {
	retTok := p.advance()
	if p.match(lexer.TokNewline) {
		return ast.NewReturn(nil, retTok.Span), nil
	}
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokNewline); err != nil {
		return nil, err
	}
	return ast.NewReturn(expr, retTok.Span), nil
}

func (p *parser) parseConditional() (ast.Statement, error) {
	ifTok := p.advance()
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	body, err := p.parseSuite()
	if err != nil {
		return nil, err
	}
	arms := []*ast.CondArm{ast.NewCondArm(cond, body, ifTok.Span)}

	for p.check(lexer.TokElif) {
		elifTok := p.advance()
		cond, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		body, err := p.parseSuite()
		if err != nil {
			return nil, err
		}
		arms = append(arms, ast.NewCondArm(cond, body, elifTok.Span))
	}

	var els *ast.Block
	if p.match(lexer.TokElse) {
		els, err = p.parseSuite()
		if err != nil {
			return nil, err
		}
	}
	return ast.NewConditional(arms, els, ifTok.Span), nil
}

func (p *parser) parseWhile() (ast.Statement, error) {
	whileTok := p.advance()
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	body, err := p.parseSuite()
	if err != nil {
		return nil, err
	}
	return ast.NewWhile(cond, body, whileTok.Span), nil
}

func (p *parser) parseRepeat() (ast.Statement, error) {
	repeatTok := p.advance()
	body, err := p.parseSuite()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokUntil); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokNewline); err != nil {
		return nil, err
	}
	return ast.NewRepeat(body, cond, repeatTok.Span), nil
}

//-----------------------------------------------------------------------------
// Expressions
//-----------------------------------------------------------------------------

// parseExpr recognizes the ternary form `then if cond else els` on top of the
// boolean precedence ladder.
func (p *parser) parseExpr() (ast.Expression, error) {
	then, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if !p.check(lexer.TokIf) {
		return then, nil
	}
	ifTok := p.advance()
	cond, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokElse); err != nil {
		return nil, err
	}
	els, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return ast.NewTernary(then, cond, els, ifTok.Span), nil
}

func (p *parser) parseOr() (ast.Expression, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.check(lexer.TokOr) {
		opTok := p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = ast.NewBinary(ast.OpOr, left, right, opTok.Span)
	}
	return left, nil
}

func (p *parser) parseAnd() (ast.Expression, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.check(lexer.TokAnd) {
		opTok := p.advance()
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = ast.NewBinary(ast.OpAnd, left, right, opTok.Span)
	}
	return left, nil
}

func (p *parser) parseNot() (ast.Expression, error) {
	if p.check(lexer.TokNot) {
		notTok := p.advance()
		operand, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return ast.NewUnary(ast.OpNot, operand, notTok.Span), nil
	}
	return p.parseComparison()
}

var comparisonOps = map[lexer.TokenType]ast.BinaryOp{
	lexer.TokLt:   ast.OpLt,
	lexer.TokLtEq: ast.OpLe,
	lexer.TokEqEq: ast.OpEq,
	lexer.TokGtEq: ast.OpGe,
	lexer.TokGt:   ast.OpGt,
}

// Comparisons do not chain: `a < b < c` is a parse error at the second `<`.
func (p *parser) parseComparison() (ast.Expression, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	op, ok := comparisonOps[p.cur().Type]
	if !ok {
		return left, nil
	}
	opTok := p.advance()
	right, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	return ast.NewBinary(op, left, right, opTok.Span), nil
}

func (p *parser) parseAdditive() (ast.Expression, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.check(lexer.TokPlus) || p.check(lexer.TokMinus) {
		op := ast.OpAdd
		if p.cur().Type == lexer.TokMinus {
			op = ast.OpSub
		}
		opTok := p.advance()
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = ast.NewBinary(op, left, right, opTok.Span)
	}
	return left, nil
}

var multiplicativeOps = map[lexer.TokenType]ast.BinaryOp{
	lexer.TokStar:    ast.OpMul,
	lexer.TokSlash2:  ast.OpDiv,
	lexer.TokPercent: ast.OpMod,
}

func (p *parser) parseMultiplicative() (ast.Expression, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := multiplicativeOps[p.cur().Type]
		if !ok {
			return left, nil
		}
		opTok := p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = ast.NewBinary(op, left, right, opTok.Span)
	}
}

func (p *parser) parseUnary() (ast.Expression, error) {
	if p.check(lexer.TokMinus) {
		minusTok := p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return ast.NewUnary(ast.OpNeg, operand, minusTok.Span), nil
	}
	return p.parseAtom()
}

func (p *parser) parseAtom() (ast.Expression, error) {
	tok := p.cur()
	switch tok.Type {
	case lexer.TokIntLit:
		p.advance()
		value, err := strconv.ParseInt(tok.Literal, 10, 64)
		if err != nil {
			return nil, &Error{Span: tok.Span, Message: fmt.Sprintf("integer literal %s out of range", tok.Literal)}
		}
		return ast.NewIntLiteral(value, tok.Span), nil
	case lexer.TokStringLit:
		p.advance()
		return ast.NewStrLiteral(tok.Literal, tok.Span), nil
	case lexer.TokTrue:
		p.advance()
		return ast.NewBoolLiteral(true, tok.Span), nil
	case lexer.TokFalse:
		p.advance()
		return ast.NewBoolLiteral(false, tok.Span), nil
	case lexer.TokNone:
		p.advance()
		return ast.NewNoneLiteral(tok.Span), nil
	case lexer.TokInput:
		p.advance()
		prompt, err := p.parseParenArg()
		if err != nil {
			return nil, err
		}
		return ast.NewInput(prompt, tok.Span), nil
	case lexer.TokIntName:
		p.advance()
		arg, err := p.parseParenArg()
		if err != nil {
			return nil, err
		}
		return ast.NewIntConv(arg, tok.Span), nil
	case lexer.TokStrName:
		p.advance()
		arg, err := p.parseParenArg()
		if err != nil {
			return nil, err
		}
		return ast.NewStrConv(arg, tok.Span), nil
	case lexer.TokIdent:
		p.advance()
		if p.check(lexer.TokLParen) {
			return p.parseCallTail(tok)
		}
		return ast.NewIdentifier(tok.Literal, tok.Span), nil
	case lexer.TokLParen:
		p.advance()
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TokRParen); err != nil {
			return nil, err
		}
		return expr, nil
	default:
		return nil, p.errorf("expected an expression, found %s", p.describeCur())
	}
}

func (p *parser) parseParenArg() (ast.Expression, error) {
	if _, err := p.expect(lexer.TokLParen); err != nil {
		return nil, err
	}
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokRParen); err != nil {
		return nil, err
	}
	return expr, nil
}

// parseCallTail parses `(args)` after a name token already consumed.
func (p *parser) parseCallTail(nameTok lexer.Token) (*ast.Call, error) {
	if _, err := p.expect(lexer.TokLParen); err != nil {
		return nil, err
	}
	var args []ast.Expression
	for !p.check(lexer.TokRParen) {
		if len(args) > 0 {
			if _, err := p.expect(lexer.TokComma); err != nil {
				return nil, err
			}
		}
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	if _, err := p.expect(lexer.TokRParen); err != nil {
		return nil, err
	}
	return ast.NewCall(nameTok.Literal, args, nameTok.Span), nil
}

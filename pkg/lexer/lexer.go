// Package lexer implements the slpy tokenizer. The source layout is
// Python-like: statement boundaries come from physical newlines and block
// structure comes from indentation, which the scanner converts into
// synthetic INDENT/DEDENT tokens using an indent stack.
package lexer

import (
	"fmt"
	"strings"

	"slpy/interpreter-go/pkg/ast"
)

// Tab stops fall every eight columns, matching CPython's tokenizer.
const tabWidth = 8

// Error is a located tokenization failure.
type Error struct {
	Span    ast.Span
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.Span.File, e.Span.Start.Line, e.Span.Start.Column, e.Message)
}

type scanner struct {
	source   string
	filename string
	pos      int
	line     int
	col      int

	tokens  []Token
	indents []int
}

// Tokenize converts source text into a token stream terminated by TokEOF.
func Tokenize(source, filename string) ([]Token, error) {
	s := &scanner{
		source:   source,
		filename: filename,
		line:     1,
		col:      1,
		indents:  []int{0},
	}
	if err := s.run(); err != nil {
		return nil, err
	}
	return s.tokens, nil
}

func (s *scanner) atEnd() bool {
	return s.pos >= len(s.source)
}

func (s *scanner) peek() byte {
	if s.atEnd() {
		return 0
	}
	return s.source[s.pos]
}

func (s *scanner) peekAt(offset int) byte {
	p := s.pos + offset
	if p >= len(s.source) {
		return 0
	}
	return s.source[p]
}

func (s *scanner) advance() byte {
	ch := s.source[s.pos]
	s.pos++
	if ch == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}
	return ch
}

func (s *scanner) span(startLine, startCol int) ast.Span {
	return ast.Span{
		File:  s.filename,
		Start: ast.Position{Line: startLine, Column: startCol},
		End:   ast.Position{Line: s.line, Column: s.col},
	}
}

func (s *scanner) here() ast.Span {
	return s.span(s.line, s.col)
}

func (s *scanner) emit(tok TokenType, literal string, span ast.Span) {
	s.tokens = append(s.tokens, Token{Type: tok, Literal: literal, Span: span})
}

func (s *scanner) lexError(startLine, startCol int, format string, args ...any) error {
	return &Error{Span: s.span(startLine, startCol), Message: fmt.Sprintf(format, args...)}
}

func (s *scanner) run() error {
	for !s.atEnd() {
		hasTokens, err := s.scanLine()
		if err != nil {
			return err
		}
		if hasTokens {
			s.emit(TokNewline, "", s.here())
		}
	}
	for len(s.indents) > 1 {
		s.indents = s.indents[:len(s.indents)-1]
		s.emit(TokDedent, "", s.here())
	}
	s.emit(TokEOF, "", s.here())
	return nil
}

// scanLine handles one physical line: indentation bookkeeping first, then the
// line's tokens. Blank and comment-only lines produce nothing.
func (s *scanner) scanLine() (bool, error) {
	width := 0
	for !s.atEnd() {
		switch s.peek() {
		case ' ':
			width++
			s.advance()
			continue
		case '\t':
			width = (width/tabWidth + 1) * tabWidth
			s.advance()
			continue
		}
		break
	}
	if s.atEnd() {
		return false, nil
	}
	switch s.peek() {
	case '\n', '\r':
		s.skipLineEnd()
		return false, nil
	case '#':
		s.skipComment()
		s.skipLineEnd()
		return false, nil
	}

	if err := s.applyIndent(width); err != nil {
		return false, err
	}

	produced := false
	for !s.atEnd() {
		ch := s.peek()
		if ch == '\n' || ch == '\r' {
			s.skipLineEnd()
			return produced, nil
		}
		if ch == ' ' || ch == '\t' {
			s.advance()
			continue
		}
		if ch == '#' {
			s.skipComment()
			s.skipLineEnd()
			return produced, nil
		}
		if err := s.scanToken(); err != nil {
			return produced, err
		}
		produced = true
	}
	return produced, nil
}

func (s *scanner) skipComment() {
	for !s.atEnd() && s.peek() != '\n' {
		s.advance()
	}
}

func (s *scanner) skipLineEnd() {
	if !s.atEnd() && s.peek() == '\r' {
		s.advance()
	}
	if !s.atEnd() && s.peek() == '\n' {
		s.advance()
	}
}

func (s *scanner) applyIndent(width int) error {
	top := s.indents[len(s.indents)-1]
	switch {
	case width > top:
		s.indents = append(s.indents, width)
		s.emit(TokIndent, "", s.here())
	case width < top:
		for len(s.indents) > 1 && s.indents[len(s.indents)-1] > width {
			s.indents = s.indents[:len(s.indents)-1]
			s.emit(TokDedent, "", s.here())
		}
		if s.indents[len(s.indents)-1] != width {
			return s.lexError(s.line, s.col, "unindent does not match any outer indentation level")
		}
	}
	return nil
}

func isAlpha(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isAlphaNumeric(ch byte) bool {
	return isAlpha(ch) || isDigit(ch)
}

func (s *scanner) scanToken() error {
	startLine, startCol := s.line, s.col
	ch := s.peek()

	switch {
	case isAlpha(ch):
		s.scanWord(startLine, startCol)
		return nil
	case isDigit(ch):
		s.scanNumber(startLine, startCol)
		return nil
	case ch == '"':
		return s.scanString(startLine, startCol)
	}

	s.advance()
	switch ch {
	case '(':
		s.emit(TokLParen, "(", s.span(startLine, startCol))
	case ')':
		s.emit(TokRParen, ")", s.span(startLine, startCol))
	case ':':
		s.emit(TokColon, ":", s.span(startLine, startCol))
	case ',':
		s.emit(TokComma, ",", s.span(startLine, startCol))
	case '%':
		s.emit(TokPercent, "%", s.span(startLine, startCol))
	case '*':
		s.emit(TokStar, "*", s.span(startLine, startCol))
	case '+':
		if s.peek() == '=' {
			s.advance()
			s.emit(TokPlusEq, "+=", s.span(startLine, startCol))
		} else {
			s.emit(TokPlus, "+", s.span(startLine, startCol))
		}
	case '-':
		switch s.peek() {
		case '=':
			s.advance()
			s.emit(TokMinusEq, "-=", s.span(startLine, startCol))
		case '>':
			s.advance()
			s.emit(TokArrow, "->", s.span(startLine, startCol))
		default:
			s.emit(TokMinus, "-", s.span(startLine, startCol))
		}
	case '/':
		if s.peek() != '/' {
			return s.lexError(startLine, startCol, "unexpected character '/' (slpy has no single-slash division)")
		}
		s.advance()
		s.emit(TokSlash2, "//", s.span(startLine, startCol))
	case '=':
		if s.peek() == '=' {
			s.advance()
			s.emit(TokEqEq, "==", s.span(startLine, startCol))
		} else {
			s.emit(TokAssign, "=", s.span(startLine, startCol))
		}
	case '<':
		if s.peek() == '=' {
			s.advance()
			s.emit(TokLtEq, "<=", s.span(startLine, startCol))
		} else {
			s.emit(TokLt, "<", s.span(startLine, startCol))
		}
	case '>':
		if s.peek() == '=' {
			s.advance()
			s.emit(TokGtEq, ">=", s.span(startLine, startCol))
		} else {
			s.emit(TokGt, ">", s.span(startLine, startCol))
		}
	default:
		return s.lexError(startLine, startCol, "unexpected character %q", string(ch))
	}
	return nil
}

func (s *scanner) scanWord(startLine, startCol int) {
	start := s.pos
	for !s.atEnd() && isAlphaNumeric(s.peek()) {
		s.advance()
	}
	word := s.source[start:s.pos]
	if tok, ok := keywords[word]; ok {
		s.emit(tok, word, s.span(startLine, startCol))
		return
	}
	s.emit(TokIdent, word, s.span(startLine, startCol))
}

func (s *scanner) scanNumber(startLine, startCol int) {
	start := s.pos
	for !s.atEnd() && isDigit(s.peek()) {
		s.advance()
	}
	s.emit(TokIntLit, s.source[start:s.pos], s.span(startLine, startCol))
}

func (s *scanner) scanString(startLine, startCol int) error {
	s.advance() // consume opening "

	var buf strings.Builder
	for !s.atEnd() {
		ch := s.peek()
		switch ch {
		case '"':
			s.advance()
			s.emit(TokStringLit, buf.String(), s.span(startLine, startCol))
			return nil
		case '\n':
			return s.lexError(startLine, startCol, "unterminated string literal")
		case '\\':
			s.advance()
			if s.atEnd() {
				return s.lexError(startLine, startCol, "unterminated string escape")
			}
			esc := s.advance()
			switch esc {
			case 'n':
				buf.WriteByte('\n')
			case 't':
				buf.WriteByte('\t')
			case 'r':
				buf.WriteByte('\r')
			case '\\':
				buf.WriteByte('\\')
			case '"':
				buf.WriteByte('"')
			default:
				return s.lexError(startLine, startCol, "invalid string escape '\\%s'", string(esc))
			}
		default:
			s.advance()
			buf.WriteByte(ch)
		}
	}
	return s.lexError(startLine, startCol, "unterminated string literal")
}

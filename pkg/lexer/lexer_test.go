package lexer

import (
	"strings"
	"testing"
)

func types(tokens []Token) []TokenType {
	out := make([]TokenType, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Type
	}
	return out
}

func expectTypes(t *testing.T, source string, want []TokenType) []Token {
	t.Helper()
	tokens, err := Tokenize(source, "test.slpy")
	if err != nil {
		t.Fatalf("unexpected lex error: %v", err)
	}
	got := types(tokens)
	if len(got) != len(want) {
		t.Fatalf("got %d tokens %v, want %d %v", len(got), got, len(want), want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: got %s, want %s (stream %v)", i, got[i], want[i], got)
		}
	}
	return tokens
}

func expectLexError(t *testing.T, source, fragment string) {
	t.Helper()
	_, err := Tokenize(source, "test.slpy")
	if err == nil {
		t.Fatalf("expected lex error containing %q, got nil", fragment)
	}
	if !strings.Contains(err.Error(), fragment) {
		t.Fatalf("expected error containing %q, got: %v", fragment, err)
	}
}

func TestSimpleStatement(t *testing.T) {
	tokens := expectTypes(t, "x = x + 1\n", []TokenType{
		TokIdent, TokAssign, TokIdent, TokPlus, TokIntLit, TokNewline, TokEOF,
	})
	if tokens[0].Literal != "x" || tokens[4].Literal != "1" {
		t.Fatalf("unexpected literals: %q, %q", tokens[0].Literal, tokens[4].Literal)
	}
}

func TestIndentDedent(t *testing.T) {
	source := "while True:\n    print(1)\nprint(2)\n"
	expectTypes(t, source, []TokenType{
		TokWhile, TokTrue, TokColon, TokNewline,
		TokIndent, TokPrint, TokLParen, TokIntLit, TokRParen, TokNewline,
		TokDedent, TokPrint, TokLParen, TokIntLit, TokRParen, TokNewline,
		TokEOF,
	})
}

func TestDanglingIndentsFlushAtEOF(t *testing.T) {
	source := "if True:\n    if True:\n        pass\n"
	expectTypes(t, source, []TokenType{
		TokIf, TokTrue, TokColon, TokNewline,
		TokIndent, TokIf, TokTrue, TokColon, TokNewline,
		TokIndent, TokPass, TokNewline,
		TokDedent, TokDedent, TokEOF,
	})
}

func TestBlankAndCommentLinesAreInvisible(t *testing.T) {
	source := "x: int = 1\n\n# a comment\n   # indented comment\nx += 1\n"
	expectTypes(t, source, []TokenType{
		TokIdent, TokColon, TokIntName, TokAssign, TokIntLit, TokNewline,
		TokIdent, TokPlusEq, TokIntLit, TokNewline,
		TokEOF,
	})
}

func TestTabsAlignToEightColumns(t *testing.T) {
	// A tab and eight spaces land on the same indentation level.
	source := "if True:\n\tx: int = 1\n        x = 2\n"
	expectTypes(t, source, []TokenType{
		TokIf, TokTrue, TokColon, TokNewline,
		TokIndent, TokIdent, TokColon, TokIntName, TokAssign, TokIntLit, TokNewline,
		TokIdent, TokAssign, TokIntLit, TokNewline,
		TokDedent, TokEOF,
	})
}

func TestOperators(t *testing.T) {
	expectTypes(t, "a <= b == c >= d -> e - f -= g\n", []TokenType{
		TokIdent, TokLtEq, TokIdent, TokEqEq, TokIdent, TokGtEq, TokIdent,
		TokArrow, TokIdent, TokMinus, TokIdent, TokMinusEq, TokIdent,
		TokNewline, TokEOF,
	})
	expectTypes(t, "a // b % c * d\n", []TokenType{
		TokIdent, TokSlash2, TokIdent, TokPercent, TokIdent, TokStar, TokIdent,
		TokNewline, TokEOF,
	})
}

func TestStringEscapes(t *testing.T) {
	tokens := expectTypes(t, `s: str = "a\n\t\"b\\"`+"\n", []TokenType{
		TokIdent, TokColon, TokStrName, TokAssign, TokStringLit, TokNewline, TokEOF,
	})
	want := "a\n\t\"b\\"
	if tokens[4].Literal != want {
		t.Fatalf("got %q, want %q", tokens[4].Literal, want)
	}
}

func TestMissingFinalNewline(t *testing.T) {
	expectTypes(t, "print(1)", []TokenType{
		TokPrint, TokLParen, TokIntLit, TokRParen, TokNewline, TokEOF,
	})
}

func TestLexErrors(t *testing.T) {
	expectLexError(t, "x = 1 / 2\n", "single-slash")
	expectLexError(t, "s = \"open\n", "unterminated string")
	expectLexError(t, "s = \"bad \\q escape\"\n", "invalid string escape")
	expectLexError(t, "x = 1 $ 2\n", "unexpected character")
	expectLexError(t, "if True:\n        pass\n    pass\n", "unindent does not match")
}

func TestSpans(t *testing.T) {
	tokens, err := Tokenize("x = 10\n", "prog.slpy")
	if err != nil {
		t.Fatalf("unexpected lex error: %v", err)
	}
	lit := tokens[2]
	if lit.Type != TokIntLit {
		t.Fatalf("expected an integer literal, got %s", lit.Type)
	}
	if lit.Span.File != "prog.slpy" || lit.Span.Start.Line != 1 || lit.Span.Start.Column != 5 {
		t.Fatalf("unexpected span: %+v", lit.Span)
	}
}

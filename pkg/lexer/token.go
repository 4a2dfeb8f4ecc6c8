package lexer

import "slpy/interpreter-go/pkg/ast"

// TokenType identifies the type of a lexer token.
type TokenType int

const (
	// Layout
	TokNewline TokenType = iota
	TokIndent
	TokDedent
	TokEOF

	// Keywords
	TokDef
	TokIf
	TokElif
	TokElse
	TokWhile
	TokRepeat
	TokUntil
	TokReturn
	TokPass
	TokPrint
	TokInput
	TokIntName
	TokStrName
	TokBoolName
	TokAnd
	TokOr
	TokNot
	TokTrue
	TokFalse
	TokNone

	// Literals and identifiers
	TokIntLit
	TokStringLit
	TokIdent

	// Punctuation and operators
	TokLParen  // (
	TokRParen  // )
	TokColon   // :
	TokComma   // ,
	TokArrow   // ->
	TokAssign  // =
	TokPlusEq  // +=
	TokMinusEq // -=
	TokPlus    // +
	TokMinus   // -
	TokStar    // *
	TokSlash2  // //
	TokPercent // %
	TokLt      // <
	TokLtEq    // <=
	TokEqEq    // ==
	TokGtEq    // >=
	TokGt      // >
)

var tokenNames = map[TokenType]string{
	TokNewline:   "newline",
	TokIndent:    "indent",
	TokDedent:    "dedent",
	TokEOF:       "end of file",
	TokDef:       "'def'",
	TokIf:        "'if'",
	TokElif:      "'elif'",
	TokElse:      "'else'",
	TokWhile:     "'while'",
	TokRepeat:    "'repeat'",
	TokUntil:     "'until'",
	TokReturn:    "'return'",
	TokPass:      "'pass'",
	TokPrint:     "'print'",
	TokInput:     "'input'",
	TokIntName:   "'int'",
	TokStrName:   "'str'",
	TokBoolName:  "'bool'",
	TokAnd:       "'and'",
	TokOr:        "'or'",
	TokNot:       "'not'",
	TokTrue:      "'True'",
	TokFalse:     "'False'",
	TokNone:      "'None'",
	TokIntLit:    "integer literal",
	TokStringLit: "string literal",
	TokIdent:     "identifier",
	TokLParen:    "'('",
	TokRParen:    "')'",
	TokColon:     "':'",
	TokComma:     "','",
	TokArrow:     "'->'",
	TokAssign:    "'='",
	TokPlusEq:    "'+='",
	TokMinusEq:   "'-='",
	TokPlus:      "'+'",
	TokMinus:     "'-'",
	TokStar:      "'*'",
	TokSlash2:    "'//'",
	TokPercent:   "'%'",
	TokLt:        "'<'",
	TokLtEq:      "'<='",
	TokEqEq:      "'=='",
	TokGtEq:      "'>='",
	TokGt:        "'>'",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return "unknown token"
}

var keywords = map[string]TokenType{
	"def":    TokDef,
	"if":     TokIf,
	"elif":   TokElif,
	"else":   TokElse,
	"while":  TokWhile,
	"repeat": TokRepeat,
	"until":  TokUntil,
	"return": TokReturn,
	"pass":   TokPass,
	"print":  TokPrint,
	"input":  TokInput,
	"int":    TokIntName,
	"str":    TokStrName,
	"bool":   TokBoolName,
	"and":    TokAnd,
	"or":     TokOr,
	"not":    TokNot,
	"True":   TokTrue,
	"False":  TokFalse,
	"None":   TokNone,
}

// Token represents a single lexer token.
type Token struct {
	Type    TokenType
	Literal string
	Span    ast.Span
}

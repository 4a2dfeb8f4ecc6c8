package parser

import (
	"strings"
	"testing"

	"slpy/interpreter-go/pkg/ast"
)

func parse(t *testing.T, source string) *ast.Program {
	t.Helper()
	program, err := Parse(source, "test.slpy")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	return program
}

func expectParseError(t *testing.T, source, fragment string) {
	t.Helper()
	_, err := Parse(source, "test.slpy")
	if err == nil {
		t.Fatalf("expected parse error containing %q, got nil", fragment)
	}
	if !strings.Contains(err.Error(), fragment) {
		t.Fatalf("expected error containing %q, got: %v", fragment, err)
	}
}

func exprOfPrint(t *testing.T, program *ast.Program, index int) ast.Expression {
	t.Helper()
	stmt, ok := program.Main.Stmts[index].(*ast.Print)
	if !ok {
		t.Fatalf("statement %d is %T, want *ast.Print", index, program.Main.Stmts[index])
	}
	if len(stmt.Args) != 1 {
		t.Fatalf("print has %d args, want 1", len(stmt.Args))
	}
	return stmt.Args[0]
}

func TestScriptStatements(t *testing.T) {
	program := parse(t, `x: int = 3
x = x + 1
x += 2
x -= 1
print(x, "done")
pass
`)
	if len(program.Main.Stmts) != 6 {
		t.Fatalf("got %d statements, want 6", len(program.Main.Stmts))
	}
	decl := program.Main.Stmts[0].(*ast.VarDecl)
	if decl.Name != "x" || decl.DeclType != ast.TypeInt {
		t.Fatalf("unexpected declaration: %+v", decl)
	}
	if _, ok := program.Main.Stmts[1].(*ast.Assign); !ok {
		t.Fatalf("statement 1 is %T, want *ast.Assign", program.Main.Stmts[1])
	}
	plus := program.Main.Stmts[2].(*ast.CompoundAssign)
	if plus.Op != ast.OpPlusEq {
		t.Fatalf("got op %s, want +=", plus.Op)
	}
	minus := program.Main.Stmts[3].(*ast.CompoundAssign)
	if minus.Op != ast.OpMinusEq {
		t.Fatalf("got op %s, want -=", minus.Op)
	}
	pr := program.Main.Stmts[4].(*ast.Print)
	if len(pr.Args) != 2 {
		t.Fatalf("print has %d args, want 2", len(pr.Args))
	}
	if _, ok := program.Main.Stmts[5].(*ast.Pass); !ok {
		t.Fatalf("statement 5 is %T, want *ast.Pass", program.Main.Stmts[5])
	}
}

func TestDefWithSignature(t *testing.T) {
	program := parse(t, `def add(a: int, b: int) -> int:
    return a + b

print(add(2, 3))
`)
	def, ok := program.Defs["add"]
	if !ok {
		t.Fatalf("missing definition 'add'")
	}
	if def.Arity() != 2 || def.ReturnType != ast.TypeInt {
		t.Fatalf("unexpected signature: arity %d, returns %s", def.Arity(), def.ReturnType)
	}
	if def.Params[0].Name != "a" || def.Params[1].Type != ast.TypeInt {
		t.Fatalf("unexpected parameters: %+v", def.Params)
	}
	ret := def.Body.Stmts[0].(*ast.Return)
	if _, ok := ret.Expr.(*ast.Binary); !ok {
		t.Fatalf("return carries %T, want *ast.Binary", ret.Expr)
	}
}

func TestDefWithoutArrowReturnsNone(t *testing.T) {
	program := parse(t, `def greet(name: str):
    print("hi", name)
    return

greet("ada")
`)
	def := program.Defs["greet"]
	if def.ReturnType != ast.TypeNone {
		t.Fatalf("got return type %s, want None", def.ReturnType)
	}
	ret := def.Body.Stmts[1].(*ast.Return)
	if ret.Expr != nil {
		t.Fatalf("bare return carries %T, want nil", ret.Expr)
	}
	call := program.Main.Stmts[0].(*ast.CallStatement)
	if call.Call.Name != "greet" || len(call.Call.Args) != 1 {
		t.Fatalf("unexpected call: %+v", call.Call)
	}
}

func TestConditionalChains(t *testing.T) {
	program := parse(t, `n: int = 0
if n < 0:
    print("neg")
elif n == 0:
    print("zero")
else:
    print("pos")
`)
	cond := program.Main.Stmts[1].(*ast.Conditional)
	if len(cond.Arms) != 2 {
		t.Fatalf("got %d arms, want 2", len(cond.Arms))
	}
	if cond.Else == nil {
		t.Fatalf("missing else block")
	}

	program = parse(t, `n: int = 0
if n < 0:
    print("neg")
`)
	cond = program.Main.Stmts[1].(*ast.Conditional)
	if len(cond.Arms) != 1 || cond.Else != nil {
		t.Fatalf("unexpected conditional: %d arms, else %v", len(cond.Arms), cond.Else)
	}
}

func TestLoops(t *testing.T) {
	program := parse(t, `i: int = 0
while i < 3:
    i += 1
repeat:
    i -= 1
until i == 0
`)
	if _, ok := program.Main.Stmts[1].(*ast.While); !ok {
		t.Fatalf("statement 1 is %T, want *ast.While", program.Main.Stmts[1])
	}
	rep, ok := program.Main.Stmts[2].(*ast.Repeat)
	if !ok {
		t.Fatalf("statement 2 is %T, want *ast.Repeat", program.Main.Stmts[2])
	}
	if _, ok := rep.Cond.(*ast.Binary); !ok {
		t.Fatalf("until guard is %T, want *ast.Binary", rep.Cond)
	}
}

func TestPrecedence(t *testing.T) {
	program := parse(t, "print(1 + 2 * 3)\nprint(not True or False)\n")

	sum := exprOfPrint(t, program, 0).(*ast.Binary)
	if sum.Op != ast.OpAdd {
		t.Fatalf("top operator is %s, want +", sum.Op)
	}
	if inner, ok := sum.Right.(*ast.Binary); !ok || inner.Op != ast.OpMul {
		t.Fatalf("right operand is %#v, want multiplication", sum.Right)
	}

	or := exprOfPrint(t, program, 1).(*ast.Binary)
	if or.Op != ast.OpOr {
		t.Fatalf("top operator is %s, want or", or.Op)
	}
	if _, ok := or.Left.(*ast.Unary); !ok {
		t.Fatalf("left operand is %T, want *ast.Unary", or.Left)
	}
}

func TestLeftAssociativity(t *testing.T) {
	program := parse(t, "print(10 - 3 - 2)\n")
	outer := exprOfPrint(t, program, 0).(*ast.Binary)
	inner, ok := outer.Left.(*ast.Binary)
	if !ok || inner.Op != ast.OpSub || outer.Op != ast.OpSub {
		t.Fatalf("expected ((10 - 3) - 2), got %#v", outer)
	}
}

func TestTernary(t *testing.T) {
	program := parse(t, `print("yes" if True else "no")
`)
	tern := exprOfPrint(t, program, 0).(*ast.Ternary)
	if then, ok := tern.Then.(*ast.StrLiteral); !ok || then.Value != "yes" {
		t.Fatalf("unexpected then branch: %#v", tern.Then)
	}
	if els, ok := tern.Else.(*ast.StrLiteral); !ok || els.Value != "no" {
		t.Fatalf("unexpected else branch: %#v", tern.Else)
	}
}

func TestBuiltinsParse(t *testing.T) {
	program := parse(t, `print(int(input("n? ")) + 1)
print(str(5))
`)
	sum := exprOfPrint(t, program, 0).(*ast.Binary)
	conv, ok := sum.Left.(*ast.IntConv)
	if !ok {
		t.Fatalf("left operand is %T, want *ast.IntConv", sum.Left)
	}
	if _, ok := conv.Arg.(*ast.Input); !ok {
		t.Fatalf("int() argument is %T, want *ast.Input", conv.Arg)
	}
	if _, ok := exprOfPrint(t, program, 1).(*ast.StrConv); !ok {
		t.Fatalf("expected str conversion")
	}
}

func TestLiteralRoundTrip(t *testing.T) {
	// Rendering a literal and re-parsing it yields the same value.
	literals := []ast.Expression{
		ast.Int(0),
		ast.Int(9876543210),
		ast.Str("line\nbreak and \"quotes\""),
		ast.Bool(true),
		ast.Bool(false),
		ast.None(),
	}
	for _, lit := range literals {
		source := "print(" + ast.ExprString(lit) + ")\n"
		program := parse(t, source)
		got := exprOfPrint(t, program, 0)
		if ast.ExprString(got) != ast.ExprString(lit) {
			t.Fatalf("round trip of %s yielded %s", ast.ExprString(lit), ast.ExprString(got))
		}
	}
}

func TestComparisonsDoNotChain(t *testing.T) {
	expectParseError(t, "print(1 < 2 < 3)\n", "")
}

func TestParseErrors(t *testing.T) {
	expectParseError(t, "if True:\nprint(1)\n", "")
	expectParseError(t, "def f():\n    pass\ndef f():\n    pass\n", "already defined")
	expectParseError(t, "print(1)\ndef late():\n    pass\n", "must precede")
	expectParseError(t, "def f(a: int, a: int):\n    pass\n", "duplicate parameter")
	expectParseError(t, "while True:\n", "")
	expectParseError(t, "x: int 3\n", "")
}

package interpreter

import (
	"bytes"
	"strings"
	"testing"

	"slpy/interpreter-go/pkg/ast"
)

func runProgram(t *testing.T, program *ast.Program, stdin string) string {
	t.Helper()
	var out bytes.Buffer
	in := New(strings.NewReader(stdin), &out)
	if err := in.Run(program); err != nil {
		t.Fatalf("unexpected runtime error: %v", err)
	}
	return out.String()
}

func runExpectingError(t *testing.T, program *ast.Program, fragment string) {
	t.Helper()
	var out bytes.Buffer
	in := New(strings.NewReader(""), &out)
	err := in.Run(program)
	if err == nil {
		t.Fatalf("expected runtime error containing %q, got nil", fragment)
	}
	if !strings.Contains(err.Error(), fragment) {
		t.Fatalf("expected error containing %q, got: %v", fragment, err)
	}
}

func TestPrintForms(t *testing.T) {
	got := runProgram(t, ast.Prog(ast.Blk(
		ast.PrintOf(ast.Int(42), ast.Str("hi"), ast.Bool(true), ast.Bool(false), ast.None()),
	)), "")
	want := "42 hi True False None\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestCallReturnsValue(t *testing.T) {
	add := ast.Fn("add",
		[]*ast.Parameter{ast.Param("a", ast.TypeInt), ast.Param("b", ast.TypeInt)},
		ast.TypeInt,
		ast.Ret(ast.Bin(ast.OpAdd, ast.ID("a"), ast.ID("b"))),
	)
	got := runProgram(t, ast.Prog(ast.Blk(
		ast.PrintOf(ast.CallExpr("add", ast.Int(2), ast.Int(3))),
	), add), "")
	if got != "5\n" {
		t.Fatalf("got %q, want %q", got, "5\n")
	}
}

func TestCalleeFrameIsFresh(t *testing.T) {
	// The body reads only its parameter; a caller binding of the same name
	// must not leak in, and the callee's writes must not leak out.
	double := ast.Fn("double",
		[]*ast.Parameter{ast.Param("n", ast.TypeInt)},
		ast.TypeInt,
		ast.Set("n", ast.Bin(ast.OpMul, ast.ID("n"), ast.Int(2))),
		ast.Ret(ast.ID("n")),
	)
	got := runProgram(t, ast.Prog(ast.Blk(
		ast.Decl("n", ast.TypeInt, ast.Int(10)),
		ast.PrintOf(ast.CallExpr("double", ast.Int(3))),
		ast.PrintOf(ast.ID("n")),
	), double), "")
	if got != "6\n10\n" {
		t.Fatalf("got %q, want %q", got, "6\n10\n")
	}
}

func TestEarlyReturnUnwindsLoops(t *testing.T) {
	// A return inside nested loops must unwind the whole frame at once.
	find := ast.Fn("find", nil, ast.TypeInt,
		ast.Decl("i", ast.TypeInt, ast.Int(0)),
		ast.WhileLoop(ast.Bin(ast.OpLt, ast.ID("i"), ast.Int(10)),
			ast.Decl("j", ast.TypeInt, ast.Int(0)),
			ast.WhileLoop(ast.Bin(ast.OpLt, ast.ID("j"), ast.Int(10)),
				ast.If([]*ast.CondArm{
					ast.Arm(ast.Bin(ast.OpEq, ast.Bin(ast.OpMul, ast.ID("i"), ast.ID("j")), ast.Int(12)),
						ast.Ret(ast.Bin(ast.OpAdd, ast.Bin(ast.OpMul, ast.ID("i"), ast.Int(100)), ast.ID("j"))),
					),
				}, nil),
				ast.AddEq("j", ast.Int(1)),
			),
			ast.AddEq("i", ast.Int(1)),
		),
		ast.Ret(ast.Neg(ast.Int(1))),
	)
	got := runProgram(t, ast.Prog(ast.Blk(
		ast.PrintOf(ast.CallExpr("find")),
	), find), "")
	if got != "206\n" {
		t.Fatalf("got %q, want %q", got, "206\n")
	}
}

func TestBareReturnStopsExecution(t *testing.T) {
	early := ast.Fn("early", nil, ast.TypeNone,
		ast.PrintOf(ast.Str("before")),
		ast.RetBare(),
		ast.PrintOf(ast.Str("after")),
	)
	got := runProgram(t, ast.Prog(ast.Blk(
		ast.CallStmt("early"),
	), early), "")
	if got != "before\n" {
		t.Fatalf("got %q, want %q", got, "before\n")
	}
}

func TestFallOffEndYieldsNone(t *testing.T) {
	noop := ast.Fn("noop", nil, ast.TypeNone,
		ast.PassStmt(),
	)
	got := runProgram(t, ast.Prog(ast.Blk(
		ast.PrintOf(ast.CallExpr("noop")),
	), noop), "")
	if got != "None\n" {
		t.Fatalf("got %q, want %q", got, "None\n")
	}
}

func TestDivision(t *testing.T) {
	got := runProgram(t, ast.Prog(ast.Blk(
		ast.PrintOf(ast.Bin(ast.OpDiv, ast.Int(5), ast.Int(2))),
		ast.PrintOf(ast.Bin(ast.OpMod, ast.Int(5), ast.Int(2))),
	)), "")
	if got != "2\n1\n" {
		t.Fatalf("got %q, want %q", got, "2\n1\n")
	}

	runExpectingError(t, ast.Prog(ast.Blk(
		ast.PrintOf(ast.Bin(ast.OpDiv, ast.Int(5), ast.Int(0))),
	)), "division by zero")

	runExpectingError(t, ast.Prog(ast.Blk(
		ast.PrintOf(ast.Bin(ast.OpMod, ast.Int(5), ast.Int(0))),
	)), "division by zero")
}

func TestStringRepetition(t *testing.T) {
	got := runProgram(t, ast.Prog(ast.Blk(
		ast.PrintOf(ast.Bin(ast.OpMul, ast.Str("ab"), ast.Int(3))),
		ast.PrintOf(ast.Bin(ast.OpMul, ast.Str("ab"), ast.Neg(ast.Int(2))), ast.Str("end")),
	)), "")
	if got != "ababab\n end\n" {
		t.Fatalf("got %q, want %q", got, "ababab\n end\n")
	}
}

func TestRepeatRunsBodyFirst(t *testing.T) {
	got := runProgram(t, ast.Prog(ast.Blk(
		ast.Decl("i", ast.TypeInt, ast.Int(0)),
		ast.RepeatLoop(ast.Bin(ast.OpGe, ast.ID("i"), ast.Int(3)),
			ast.PrintOf(ast.ID("i")),
			ast.AddEq("i", ast.Int(1)),
		),
	)), "")
	if got != "0\n1\n2\n" {
		t.Fatalf("got %q, want %q", got, "0\n1\n2\n")
	}
}

func TestConditionalPicksFirstTrueArm(t *testing.T) {
	got := runProgram(t, ast.Prog(ast.Blk(
		ast.Decl("n", ast.TypeInt, ast.Int(0)),
		ast.If([]*ast.CondArm{
			ast.Arm(ast.Bin(ast.OpLt, ast.ID("n"), ast.Int(0)), ast.PrintOf(ast.Str("neg"))),
			ast.Arm(ast.Bin(ast.OpEq, ast.ID("n"), ast.Int(0)), ast.PrintOf(ast.Str("zero"))),
		}, ast.Blk(ast.PrintOf(ast.Str("pos")))),
	)), "")
	if got != "zero\n" {
		t.Fatalf("got %q, want %q", got, "zero\n")
	}
}

func TestTernaryEvaluatesOneBranch(t *testing.T) {
	// The untaken branch would divide by zero if it ran.
	got := runProgram(t, ast.Prog(ast.Blk(
		ast.PrintOf(ast.Tern(ast.Int(7), ast.Bool(true), ast.Bin(ast.OpDiv, ast.Int(1), ast.Int(0)))),
	)), "")
	if got != "7\n" {
		t.Fatalf("got %q, want %q", got, "7\n")
	}
}

func TestInputPromptsAndReads(t *testing.T) {
	got := runProgram(t, ast.Prog(ast.Blk(
		ast.Decl("name", ast.TypeStr, ast.In(ast.Str("name? "))),
		ast.PrintOf(ast.Str("hello"), ast.ID("name")),
	)), "ada\n")
	if got != "name? hello ada\n" {
		t.Fatalf("got %q, want %q", got, "name? hello ada\n")
	}
}

func TestConversions(t *testing.T) {
	got := runProgram(t, ast.Prog(ast.Blk(
		ast.PrintOf(ast.ToInt(ast.Str("  42 "))),
		ast.PrintOf(ast.ToInt(ast.Bool(true)), ast.ToInt(ast.Bool(false))),
		ast.PrintOf(ast.Bin(ast.OpAdd, ast.ToStr(ast.Int(7)), ast.Str("!"))),
		ast.PrintOf(ast.ToStr(ast.None())),
	)), "")
	want := "42\n1 0\n7!\nNone\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}

	runExpectingError(t, ast.Prog(ast.Blk(
		ast.PrintOf(ast.ToInt(ast.Str("forty"))),
	)), "cannot convert")
}

func TestUndefinedVariable(t *testing.T) {
	runExpectingError(t, ast.Prog(ast.Blk(
		ast.PrintOf(ast.ID("ghost")),
	)), "undefined variable 'ghost'")
}

func TestMismatchedOperandsFault(t *testing.T) {
	// Trees built directly (bypassing the checker) with wrongly typed
	// operands must produce runtime errors, never panics.
	tests := []struct {
		name     string
		program  *ast.Program
		fragment string
	}{
		{
			"subtract a string",
			ast.Prog(ast.Blk(ast.PrintOf(ast.Bin(ast.OpSub, ast.Str("a"), ast.Int(1))))),
			"expected an int, got str",
		},
		{
			"concatenate an int",
			ast.Prog(ast.Blk(ast.PrintOf(ast.Bin(ast.OpAdd, ast.Str("a"), ast.Int(1))))),
			"expected a str, got int",
		},
		{
			"compare strings",
			ast.Prog(ast.Blk(ast.PrintOf(ast.Bin(ast.OpLt, ast.Str("a"), ast.Str("b"))))),
			"expected an int, got str",
		},
		{
			"not an int",
			ast.Prog(ast.Blk(ast.PrintOf(ast.Not(ast.Int(1))))),
			"expected a bool, got int",
		},
		{
			"negate a bool",
			ast.Prog(ast.Blk(ast.PrintOf(ast.Neg(ast.Bool(true))))),
			"expected an int, got bool",
		},
		{
			"and over ints",
			ast.Prog(ast.Blk(ast.PrintOf(ast.Bin(ast.OpAnd, ast.Int(1), ast.Int(2))))),
			"expected a bool, got int",
		},
		{
			"compound add a bool",
			ast.Prog(ast.Blk(
				ast.Decl("x", ast.TypeInt, ast.Int(1)),
				ast.AddEq("x", ast.Bool(true)),
			)),
			"expected an int, got bool",
		},
		{
			"compound subtract from a string",
			ast.Prog(ast.Blk(
				ast.Decl("s", ast.TypeStr, ast.Str("a")),
				ast.SubEq("s", ast.Int(1)),
			)),
			"'-=' applied to str",
		},
		{
			"non-bool guard",
			ast.Prog(ast.Blk(ast.WhileLoop(ast.Int(1), ast.PassStmt()))),
			"expected a bool, got int",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runExpectingError(t, tt.program, tt.fragment)
		})
	}
}

func TestLogicEvaluatesBothOperands(t *testing.T) {
	// `or` does not short circuit, so the failing right operand is reached
	// even when the left is already true.
	runExpectingError(t, ast.Prog(ast.Blk(
		ast.PrintOf(ast.Bin(ast.OpOr, ast.Bool(true), ast.Bin(ast.OpEq, ast.ID("ghost"), ast.Int(0)))),
	)), "undefined variable 'ghost'")
}

// Package interpreter executes checked programs by walking their trees.
//
// Each statement either runs to completion or produces a return value that
// unwinds the enclosing blocks up to the call frame. Every call gets a fresh
// frame holding only its parameters; bodies never see the caller's bindings.
package interpreter

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"slpy/interpreter-go/pkg/ast"
	"slpy/interpreter-go/pkg/runtime"
)

// Interpreter runs programs against a pair of streams. Tests inject buffers;
// the command line wires os.Stdin and os.Stdout.
type Interpreter struct {
	defs   map[string]*ast.FunctionDefinition
	stdin  *bufio.Reader
	stdout io.Writer
}

func New(stdin io.Reader, stdout io.Writer) *Interpreter {
	return &Interpreter{
		stdin:  bufio.NewReader(stdin),
		stdout: stdout,
	}
}

// Run executes the program's top-level script. The checker guarantees the
// script itself never returns, so any value produced by it is discarded.
func (in *Interpreter) Run(program *ast.Program) error {
	in.defs = program.Defs
	if program.Main == nil {
		return nil
	}
	_, _, err := in.execBlock(program.Main, runtime.NewEnvironment())
	return err
}

// call binds arguments into a fresh frame and walks the body. A body that
// falls off the end (or returns bare) yields None.
func (in *Interpreter) call(def *ast.FunctionDefinition, args []runtime.Value) (runtime.Value, error) {
	if len(args) != len(def.Params) {
		return nil, runtimeErrorAt(def.Span(), "'%s' takes %d argument(s) but got %d",
			def.Name, len(def.Params), len(args))
	}
	frame := runtime.NewEnvironment()
	for i, param := range def.Params {
		frame.Set(param.Name, args[i])
	}
	value, returned, err := in.execBlock(def.Body, frame)
	if err != nil {
		return nil, err
	}
	if !returned {
		return runtime.None, nil
	}
	return value, nil
}

// execBlock runs statements in order and stops at the first one that
// returns. The bool reports whether a return happened, so callers can tell
// an explicit `return None` apart from running off the end.
func (in *Interpreter) execBlock(block *ast.Block, env *runtime.Environment) (runtime.Value, bool, error) {
	for _, stmt := range block.Stmts {
		value, returned, err := in.execStmt(stmt, env)
		if err != nil {
			return nil, false, err
		}
		if returned {
			return value, true, nil
		}
	}
	return nil, false, nil
}

func (in *Interpreter) execStmt(stmt ast.Statement, env *runtime.Environment) (runtime.Value, bool, error) {
	switch s := stmt.(type) {
	case *ast.VarDecl:
		value, err := in.evalExpr(s.Init, env)
		if err != nil {
			return nil, false, err
		}
		env.Set(s.Name, value)
		return nil, false, nil

	case *ast.Assign:
		value, err := in.evalExpr(s.Expr, env)
		if err != nil {
			return nil, false, err
		}
		env.Set(s.Name, value)
		return nil, false, nil

	case *ast.CompoundAssign:
		return nil, false, in.execCompound(s, env)

	case *ast.Print:
		parts := make([]string, len(s.Args))
		for i, arg := range s.Args {
			value, err := in.evalExpr(arg, env)
			if err != nil {
				return nil, false, err
			}
			parts[i] = value.Display()
		}
		fmt.Fprintln(in.stdout, strings.Join(parts, " "))
		return nil, false, nil

	case *ast.Pass:
		return nil, false, nil

	case *ast.Return:
		if s.Expr == nil {
			return runtime.None, true, nil
		}
		value, err := in.evalExpr(s.Expr, env)
		if err != nil {
			return nil, false, err
		}
		return value, true, nil

	case *ast.CallStatement:
		// The call runs for its effects; any returned value is dropped.
		if _, err := in.evalExpr(s.Call, env); err != nil {
			return nil, false, err
		}
		return nil, false, nil

	case *ast.Conditional:
		for _, arm := range s.Arms {
			taken, err := in.evalBool(arm.Cond, env)
			if err != nil {
				return nil, false, err
			}
			if taken {
				return in.execBlock(arm.Body, env)
			}
		}
		if s.Else != nil {
			return in.execBlock(s.Else, env)
		}
		return nil, false, nil

	case *ast.While:
		for {
			keep, err := in.evalBool(s.Cond, env)
			if err != nil {
				return nil, false, err
			}
			if !keep {
				return nil, false, nil
			}
			value, returned, err := in.execBlock(s.Body, env)
			if err != nil || returned {
				return value, returned, err
			}
		}

	case *ast.Repeat:
		for {
			value, returned, err := in.execBlock(s.Body, env)
			if err != nil || returned {
				return value, returned, err
			}
			done, err := in.evalBool(s.Cond, env)
			if err != nil {
				return nil, false, err
			}
			if done {
				return nil, false, nil
			}
		}

	default:
		return nil, false, runtimeErrorAt(stmt.Span(), "unsupported statement %s", stmt.NodeType())
	}
}

func (in *Interpreter) execCompound(s *ast.CompoundAssign, env *runtime.Environment) error {
	current, err := env.Get(s.Name)
	if err != nil {
		return runtimeErrorAt(s.Span(), "%v", err)
	}
	operand, err := in.evalExpr(s.Expr, env)
	if err != nil {
		return err
	}
	var updated runtime.Value
	switch s.Op {
	case ast.OpPlusEq:
		switch cur := current.(type) {
		case runtime.IntValue:
			n, err := intOf(operand, s.Expr.Span())
			if err != nil {
				return err
			}
			updated = runtime.IntValue{Val: cur.Val + n}
		case runtime.StrValue:
			str, err := strOf(operand, s.Expr.Span())
			if err != nil {
				return err
			}
			updated = runtime.StrValue{Val: cur.Val + str}
		default:
			return runtimeErrorAt(s.Span(), "'+=' applied to %s", current.Kind())
		}
	case ast.OpMinusEq:
		cur, ok := current.(runtime.IntValue)
		if !ok {
			return runtimeErrorAt(s.Span(), "'-=' applied to %s", current.Kind())
		}
		n, err := intOf(operand, s.Expr.Span())
		if err != nil {
			return err
		}
		updated = runtime.IntValue{Val: cur.Val - n}
	default:
		return runtimeErrorAt(s.Span(), "unsupported compound operator %s", s.Op)
	}
	env.Set(s.Name, updated)
	return nil
}

//-----------------------------------------------------------------------------
// Expressions
//-----------------------------------------------------------------------------

func (in *Interpreter) evalExpr(expr ast.Expression, env *runtime.Environment) (runtime.Value, error) {
	switch e := expr.(type) {
	case *ast.IntLiteral:
		return runtime.IntValue{Val: e.Value}, nil
	case *ast.StrLiteral:
		return runtime.StrValue{Val: e.Value}, nil
	case *ast.BoolLiteral:
		return runtime.BoolValue{Val: e.Value}, nil
	case *ast.NoneLiteral:
		return runtime.None, nil

	case *ast.Identifier:
		value, err := env.Get(e.Name)
		if err != nil {
			return nil, runtimeErrorAt(e.Span(), "%v", err)
		}
		return value, nil

	case *ast.Unary:
		return in.evalUnary(e, env)

	case *ast.Binary:
		return in.evalBinary(e, env)

	case *ast.Ternary:
		taken, err := in.evalBool(e.Cond, env)
		if err != nil {
			return nil, err
		}
		if taken {
			return in.evalExpr(e.Then, env)
		}
		return in.evalExpr(e.Else, env)

	case *ast.Input:
		return in.evalInput(e, env)

	case *ast.IntConv:
		return in.evalIntConv(e, env)

	case *ast.StrConv:
		value, err := in.evalExpr(e.Arg, env)
		if err != nil {
			return nil, err
		}
		return runtime.StrValue{Val: value.Display()}, nil

	case *ast.Call:
		def, ok := in.defs[e.Name]
		if !ok {
			return nil, runtimeErrorAt(e.Span(), "'%s' is not defined", e.Name)
		}
		args := make([]runtime.Value, len(e.Args))
		for i, arg := range e.Args {
			value, err := in.evalExpr(arg, env)
			if err != nil {
				return nil, err
			}
			args[i] = value
		}
		return in.call(def, args)

	default:
		return nil, runtimeErrorAt(expr.Span(), "unsupported expression %s", expr.NodeType())
	}
}

func (in *Interpreter) evalBool(expr ast.Expression, env *runtime.Environment) (bool, error) {
	value, err := in.evalExpr(expr, env)
	if err != nil {
		return false, err
	}
	return boolOf(value, expr.Span())
}

// The operand accessors never trust the checker's verdict: a value carrying
// the wrong tag (possible when a flat runtime frame meets a lexically
// shadowed name) surfaces as a located RuntimeError, not a crash.

func intOf(value runtime.Value, span ast.Span) (int64, error) {
	v, ok := value.(runtime.IntValue)
	if !ok {
		return 0, runtimeErrorAt(span, "expected an int, got %s", value.Kind())
	}
	return v.Val, nil
}

func strOf(value runtime.Value, span ast.Span) (string, error) {
	v, ok := value.(runtime.StrValue)
	if !ok {
		return "", runtimeErrorAt(span, "expected a str, got %s", value.Kind())
	}
	return v.Val, nil
}

func boolOf(value runtime.Value, span ast.Span) (bool, error) {
	v, ok := value.(runtime.BoolValue)
	if !ok {
		return false, runtimeErrorAt(span, "expected a bool, got %s", value.Kind())
	}
	return v.Val, nil
}

func (in *Interpreter) evalUnary(e *ast.Unary, env *runtime.Environment) (runtime.Value, error) {
	operand, err := in.evalExpr(e.Operand, env)
	if err != nil {
		return nil, err
	}
	switch e.Op {
	case ast.OpNot:
		b, err := boolOf(operand, e.Operand.Span())
		if err != nil {
			return nil, err
		}
		return runtime.BoolValue{Val: !b}, nil
	case ast.OpNeg:
		n, err := intOf(operand, e.Operand.Span())
		if err != nil {
			return nil, err
		}
		return runtime.IntValue{Val: -n}, nil
	}
	return nil, runtimeErrorAt(e.Span(), "unsupported unary operator %s", e.Op)
}

func (in *Interpreter) evalBinary(e *ast.Binary, env *runtime.Environment) (runtime.Value, error) {
	// Both operands evaluate unconditionally; `and`/`or` do not short
	// circuit.
	left, err := in.evalExpr(e.Left, env)
	if err != nil {
		return nil, err
	}
	right, err := in.evalExpr(e.Right, env)
	if err != nil {
		return nil, err
	}

	switch e.Op {
	case ast.OpAdd:
		if l, ok := left.(runtime.StrValue); ok {
			r, err := strOf(right, e.Right.Span())
			if err != nil {
				return nil, err
			}
			return runtime.StrValue{Val: l.Val + r}, nil
		}
		return in.intArith(e, left, right, func(l, r int64) int64 { return l + r })

	case ast.OpSub:
		return in.intArith(e, left, right, func(l, r int64) int64 { return l - r })

	case ast.OpMul:
		if l, ok := left.(runtime.StrValue); ok {
			count, err := intOf(right, e.Right.Span())
			if err != nil {
				return nil, err
			}
			if count < 0 {
				count = 0
			}
			return runtime.StrValue{Val: strings.Repeat(l.Val, int(count))}, nil
		}
		return in.intArith(e, left, right, func(l, r int64) int64 { return l * r })

	case ast.OpDiv, ast.OpMod:
		l, err := intOf(left, e.Left.Span())
		if err != nil {
			return nil, err
		}
		r, err := intOf(right, e.Right.Span())
		if err != nil {
			return nil, err
		}
		if r == 0 {
			return nil, divisionByZero(e.Span())
		}
		if e.Op == ast.OpDiv {
			return runtime.IntValue{Val: l / r}, nil
		}
		return runtime.IntValue{Val: l % r}, nil

	case ast.OpLt, ast.OpLe, ast.OpEq, ast.OpGe, ast.OpGt:
		l, err := intOf(left, e.Left.Span())
		if err != nil {
			return nil, err
		}
		r, err := intOf(right, e.Right.Span())
		if err != nil {
			return nil, err
		}
		var result bool
		switch e.Op {
		case ast.OpLt:
			result = l < r
		case ast.OpLe:
			result = l <= r
		case ast.OpEq:
			result = l == r
		case ast.OpGe:
			result = l >= r
		default:
			result = l > r
		}
		return runtime.BoolValue{Val: result}, nil

	case ast.OpAnd, ast.OpOr:
		l, err := boolOf(left, e.Left.Span())
		if err != nil {
			return nil, err
		}
		r, err := boolOf(right, e.Right.Span())
		if err != nil {
			return nil, err
		}
		if e.Op == ast.OpAnd {
			return runtime.BoolValue{Val: l && r}, nil
		}
		return runtime.BoolValue{Val: l || r}, nil
	}
	return nil, runtimeErrorAt(e.Span(), "unsupported binary operator %s", e.Op)
}

func (in *Interpreter) intArith(e *ast.Binary, left, right runtime.Value, apply func(l, r int64) int64) (runtime.Value, error) {
	l, err := intOf(left, e.Left.Span())
	if err != nil {
		return nil, err
	}
	r, err := intOf(right, e.Right.Span())
	if err != nil {
		return nil, err
	}
	return runtime.IntValue{Val: apply(l, r)}, nil
}

func (in *Interpreter) evalInput(e *ast.Input, env *runtime.Environment) (runtime.Value, error) {
	prompt, err := in.evalExpr(e.Prompt, env)
	if err != nil {
		return nil, err
	}
	fmt.Fprint(in.stdout, prompt.Display())
	var word string
	if _, err := fmt.Fscan(in.stdin, &word); err != nil {
		return nil, inputFailure(e.Span(), err)
	}
	return runtime.StrValue{Val: word}, nil
}

func (in *Interpreter) evalIntConv(e *ast.IntConv, env *runtime.Environment) (runtime.Value, error) {
	value, err := in.evalExpr(e.Arg, env)
	if err != nil {
		return nil, err
	}
	switch v := value.(type) {
	case runtime.IntValue:
		return v, nil
	case runtime.BoolValue:
		if v.Val {
			return runtime.IntValue{Val: 1}, nil
		}
		return runtime.IntValue{Val: 0}, nil
	case runtime.StrValue:
		// Surrounding whitespace is tolerated, so int(input(...)) accepts
		// padded answers; anything else non-decimal is a conversion fault.
		n, err := strconv.ParseInt(strings.TrimSpace(v.Val), 10, 64)
		if err != nil {
			return nil, conversionFailure(e.Span(), v.Val)
		}
		return runtime.IntValue{Val: n}, nil
	default:
		return nil, runtimeErrorAt(e.Span(), "cannot convert %s to an int", value.Kind())
	}
}

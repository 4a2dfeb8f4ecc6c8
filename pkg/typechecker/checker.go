package typechecker

import (
	"sort"

	"slpy/interpreter-go/pkg/ast"
)

// Checker validates one program against the slpy static semantics.
type Checker struct {
	defs map[string]*ast.FunctionDefinition
}

// New constructs a checker over the program's definition table.
func New(defs map[string]*ast.FunctionDefinition) *Checker {
	return &Checker{defs: defs}
}

// Check validates every definition against its declared signature and the
// top-level script against the no-returns rule. The first violation is
// returned as a *CheckError.
func Check(program *ast.Program) error {
	c := New(program.Defs)

	names := make([]string, 0, len(program.Defs))
	for name := range program.Defs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := c.checkDef(program.Defs[name]); err != nil {
			return err
		}
	}

	if program.Main != nil {
		flow, err := c.checkBlock(program.Main, Never(), NewScope(nil))
		if err != nil {
			return err
		}
		if flow.Kind != FlowNever {
			return errorAt(program.Main.Span(), "the top-level script must not return a value")
		}
	}
	return nil
}

// checkDef verifies that a definition's body provably returns its declared
// type on every path. Procedures declare None and must still return on every
// path (a bare return).
func (c *Checker) checkDef(def *ast.FunctionDefinition) error {
	scope := NewScope(nil)
	for _, param := range def.Params {
		scope.Define(param.Name, param.Type)
	}
	flow, err := c.checkBlock(def.Body, Always(def.ReturnType), scope)
	if err != nil {
		return err
	}
	switch flow.Kind {
	case FlowNever:
		return errorAt(def.Body.Span(), "the body of '%s' never returns", def.Name)
	case FlowMaybe:
		return errorAt(def.Body.Span(), "the body of '%s' might not return", def.Name)
	}
	if flow.Type != def.ReturnType {
		return errorAt(def.Body.Span(), "the body of '%s' returns %s but should return %s",
			def.Name, flow.Type, def.ReturnType)
	}
	return nil
}

// checkBlock folds statement classifications left to right. A statement that
// always returns ends the fold: whatever follows it is unreachable. A
// maybe-returning statement fixes the block's return type without stopping
// the fold, and any later return of a different type is an error.
func (c *Checker) checkBlock(block *ast.Block, expected ReturnFlow, scope *Scope) (ReturnFlow, error) {
	inner := scope.Extend()
	running := Never()
	for _, stmt := range block.Stmts {
		flow, err := c.checkStmt(stmt, expected, inner)
		if err != nil {
			return Never(), err
		}
		switch flow.Kind {
		case FlowAlways:
			if running.Kind != FlowNever && running.Type != flow.Type {
				return Never(), errorAt(stmt.Span(), "statement returns %s but an earlier statement returns %s",
					flow.Type, running.Type)
			}
			return Always(flow.Type), nil
		case FlowMaybe:
			if running.Kind == FlowNever {
				running = Maybe(flow.Type)
			} else if running.Type != flow.Type {
				return Never(), errorAt(stmt.Span(), "statement might return %s but an earlier statement returns %s",
					flow.Type, running.Type)
			}
		}
	}
	return running, nil
}

func (c *Checker) checkStmt(stmt ast.Statement, expected ReturnFlow, scope *Scope) (ReturnFlow, error) {
	switch s := stmt.(type) {
	case *ast.VarDecl:
		if scope.DeclaredHere(s.Name) {
			return Never(), errorAt(s.Span(), "variable '%s' already introduced in this block", s.Name)
		}
		initType, err := c.checkExpr(s.Init, scope)
		if err != nil {
			return Never(), err
		}
		scope.Define(s.Name, initType)
		return Never(), nil

	case *ast.Assign:
		varType, ok := scope.Lookup(s.Name)
		if !ok {
			return Never(), errorAt(s.Span(), "variable '%s' never introduced", s.Name)
		}
		exprType, err := c.checkExpr(s.Expr, scope)
		if err != nil {
			return Never(), err
		}
		if varType != exprType {
			return Never(), errorAt(s.Expr.Span(), "cannot assign %s to '%s' of type %s", exprType, s.Name, varType)
		}
		return Never(), nil

	case *ast.CompoundAssign:
		return c.checkCompound(s, scope)

	case *ast.Print:
		for _, arg := range s.Args {
			if _, err := c.checkExpr(arg, scope); err != nil {
				return Never(), err
			}
		}
		return Never(), nil

	case *ast.Pass:
		return Never(), nil

	case *ast.Return:
		return c.checkReturn(s, expected, scope)

	case *ast.CallStatement:
		if _, err := c.checkCall(s.Call, scope); err != nil {
			return Never(), err
		}
		return Never(), nil

	case *ast.Conditional:
		return c.checkConditional(s, expected, scope)

	case *ast.While:
		condType, err := c.checkExpr(s.Cond, scope)
		if err != nil {
			return Never(), err
		}
		if condType != ast.TypeBool {
			return Never(), errorAt(s.Cond.Span(), "the while guard should be bool but is %s", condType)
		}
		body, err := c.checkBlock(s.Body, expected, scope)
		if err != nil {
			return Never(), err
		}
		return loopBody(body), nil

	case *ast.Repeat:
		body, err := c.checkBlock(s.Body, expected, scope)
		if err != nil {
			return Never(), err
		}
		condType, err := c.checkExpr(s.Cond, scope)
		if err != nil {
			return Never(), err
		}
		if condType != ast.TypeBool {
			return Never(), errorAt(s.Cond.Span(), "the until guard should be bool but is %s", condType)
		}
		return loopBody(body), nil

	default:
		return Never(), errorAt(stmt.Span(), "unsupported statement %s", stmt.NodeType())
	}
}

func (c *Checker) checkCompound(s *ast.CompoundAssign, scope *Scope) (ReturnFlow, error) {
	varType, ok := scope.Lookup(s.Name)
	if !ok {
		return Never(), errorAt(s.Span(), "variable '%s' never introduced", s.Name)
	}
	exprType, err := c.checkExpr(s.Expr, scope)
	if err != nil {
		return Never(), err
	}
	if varType != exprType {
		return Never(), errorAt(s.Expr.Span(), "wrong operand type %s for '%s' on '%s' of type %s",
			exprType, s.Op, s.Name, varType)
	}
	switch s.Op {
	case ast.OpPlusEq:
		if varType != ast.TypeInt && varType != ast.TypeStr {
			return Never(), errorAt(s.Span(), "'+=' requires int or str, not %s", varType)
		}
	case ast.OpMinusEq:
		if varType != ast.TypeInt {
			return Never(), errorAt(s.Span(), "'-=' requires int, not %s", varType)
		}
	}
	return Never(), nil
}

func (c *Checker) checkReturn(s *ast.Return, expected ReturnFlow, scope *Scope) (ReturnFlow, error) {
	if expected.Kind == FlowNever {
		return Never(), errorAt(s.Span(), "unexpected return statement")
	}
	if s.Expr == nil {
		if expected.Type != ast.TypeNone {
			return Never(), errorAt(s.Span(), "the return carries no value but should return %s", expected.Type)
		}
		return Always(ast.TypeNone), nil
	}
	exprType, err := c.checkExpr(s.Expr, scope)
	if err != nil {
		return Never(), err
	}
	if exprType != expected.Type {
		return Never(), errorAt(s.Expr.Span(), "the return type should be %s but got %s", expected.Type, exprType)
	}
	return Always(exprType), nil
}

// checkConditional verifies every guard, classifies every arm against the
// enclosing expectation, and merges the classifications eagerly left to
// right. A missing else means the conditional as a whole can fall through,
// so an all-Always merge still weakens to Maybe.
func (c *Checker) checkConditional(s *ast.Conditional, expected ReturnFlow, scope *Scope) (ReturnFlow, error) {
	for i, arm := range s.Arms {
		condType, err := c.checkExpr(arm.Cond, scope)
		if err != nil {
			return Never(), err
		}
		if condType != ast.TypeBool {
			return Never(), errorAt(arm.Cond.Span(), "guard %d should be bool but is %s", i+1, condType)
		}
	}

	merged, err := c.checkBlock(s.Arms[0].Body, expected, scope)
	if err != nil {
		return Never(), err
	}
	for _, arm := range s.Arms[1:] {
		flow, err := c.checkBlock(arm.Body, expected, scope)
		if err != nil {
			return Never(), err
		}
		merged, err = mergeArms(merged, flow, arm.Span())
		if err != nil {
			return Never(), err
		}
	}
	if s.Else != nil {
		flow, err := c.checkBlock(s.Else, expected, scope)
		if err != nil {
			return Never(), err
		}
		merged, err = mergeArms(merged, flow, s.Else.Span())
		if err != nil {
			return Never(), err
		}
	} else if merged.Kind == FlowAlways {
		merged = Maybe(merged.Type)
	}
	return merged, nil
}

// mergeArms combines the classifications of two alternative arms. Any two
// non-Never arms must agree on the carried type; a Never arm widens the
// other side to Maybe.
func mergeArms(a, b ReturnFlow, span ast.Span) (ReturnFlow, error) {
	switch {
	case a.Kind == FlowNever && b.Kind == FlowNever:
		return Never(), nil
	case a.Kind == FlowNever:
		return Maybe(b.Type), nil
	case b.Kind == FlowNever:
		return Maybe(a.Type), nil
	}
	if a.Type != b.Type {
		return Never(), errorAt(span, "this arm returns %s but an earlier arm returns %s", b.Type, a.Type)
	}
	if a.Kind == FlowAlways && b.Kind == FlowAlways {
		return Always(a.Type), nil
	}
	return Maybe(a.Type), nil
}

//-----------------------------------------------------------------------------
// Expressions
//-----------------------------------------------------------------------------

func (c *Checker) checkExpr(expr ast.Expression, scope *Scope) (ast.Type, error) {
	switch e := expr.(type) {
	case *ast.IntLiteral:
		return ast.TypeInt, nil
	case *ast.StrLiteral:
		return ast.TypeStr, nil
	case *ast.BoolLiteral:
		return ast.TypeBool, nil
	case *ast.NoneLiteral:
		return ast.TypeNone, nil

	case *ast.Identifier:
		if typ, ok := scope.Lookup(e.Name); ok {
			return typ, nil
		}
		return 0, errorAt(e.Span(), "unknown identifier '%s'", e.Name)

	case *ast.Unary:
		return c.checkUnary(e, scope)

	case *ast.Binary:
		return c.checkBinary(e, scope)

	case *ast.Ternary:
		condType, err := c.checkExpr(e.Cond, scope)
		if err != nil {
			return 0, err
		}
		if condType != ast.TypeBool {
			return 0, errorAt(e.Cond.Span(), "the condition should be bool but is %s", condType)
		}
		thenType, err := c.checkExpr(e.Then, scope)
		if err != nil {
			return 0, err
		}
		elseType, err := c.checkExpr(e.Else, scope)
		if err != nil {
			return 0, err
		}
		if thenType != elseType {
			return 0, errorAt(e.Span(), "the branches should have the same type, got %s and %s", thenType, elseType)
		}
		return thenType, nil

	case *ast.Input:
		promptType, err := c.checkExpr(e.Prompt, scope)
		if err != nil {
			return 0, err
		}
		if promptType != ast.TypeStr {
			return 0, errorAt(e.Prompt.Span(), "input requires a string prompt, not %s", promptType)
		}
		return ast.TypeStr, nil

	case *ast.IntConv:
		argType, err := c.checkExpr(e.Arg, scope)
		if err != nil {
			return 0, err
		}
		if argType == ast.TypeNone {
			return 0, errorAt(e.Arg.Span(), "cannot convert None to an int")
		}
		return ast.TypeInt, nil

	case *ast.StrConv:
		if _, err := c.checkExpr(e.Arg, scope); err != nil {
			return 0, err
		}
		return ast.TypeStr, nil

	case *ast.Call:
		return c.checkCall(e, scope)

	default:
		return 0, errorAt(expr.Span(), "unsupported expression %s", expr.NodeType())
	}
}

func (c *Checker) checkUnary(e *ast.Unary, scope *Scope) (ast.Type, error) {
	operandType, err := c.checkExpr(e.Operand, scope)
	if err != nil {
		return 0, err
	}
	switch e.Op {
	case ast.OpNot:
		if operandType != ast.TypeBool {
			return 0, errorAt(e.Span(), "wrong operand type %s for 'not'", operandType)
		}
		return ast.TypeBool, nil
	case ast.OpNeg:
		if operandType != ast.TypeInt {
			return 0, errorAt(e.Span(), "wrong operand type %s for unary minus", operandType)
		}
		return ast.TypeInt, nil
	default:
		return 0, errorAt(e.Span(), "unsupported unary operator %s", e.Op)
	}
}

func (c *Checker) checkBinary(e *ast.Binary, scope *Scope) (ast.Type, error) {
	leftType, err := c.checkExpr(e.Left, scope)
	if err != nil {
		return 0, err
	}
	rightType, err := c.checkExpr(e.Right, scope)
	if err != nil {
		return 0, err
	}

	bothInt := leftType == ast.TypeInt && rightType == ast.TypeInt
	switch e.Op {
	case ast.OpAdd:
		if bothInt {
			return ast.TypeInt, nil
		}
		if leftType == ast.TypeStr && rightType == ast.TypeStr {
			return ast.TypeStr, nil
		}
	case ast.OpSub, ast.OpDiv, ast.OpMod:
		if bothInt {
			return ast.TypeInt, nil
		}
	case ast.OpMul:
		if bothInt {
			return ast.TypeInt, nil
		}
		if leftType == ast.TypeStr && rightType == ast.TypeInt {
			return ast.TypeStr, nil
		}
	case ast.OpLt, ast.OpLe, ast.OpEq, ast.OpGe, ast.OpGt:
		if bothInt {
			return ast.TypeBool, nil
		}
	case ast.OpAnd, ast.OpOr:
		if leftType == ast.TypeBool && rightType == ast.TypeBool {
			return ast.TypeBool, nil
		}
	}
	return 0, errorAt(e.Span(), "wrong operand types %s and %s for '%s'", leftType, rightType, e.Op)
}

// checkCall validates arity and positional argument types against the callee
// signature and yields its declared return type.
func (c *Checker) checkCall(call *ast.Call, scope *Scope) (ast.Type, error) {
	def, ok := c.defs[call.Name]
	if !ok {
		return 0, errorAt(call.Span(), "'%s' is not defined", call.Name)
	}
	if def.Arity() != len(call.Args) {
		return 0, errorAt(call.Span(), "'%s' takes %d argument(s) but got %d", call.Name, def.Arity(), len(call.Args))
	}
	for i, arg := range call.Args {
		argType, err := c.checkExpr(arg, scope)
		if err != nil {
			return 0, err
		}
		if argType != def.Params[i].Type {
			return 0, errorAt(arg.Span(), "argument %d of '%s' should be %s but is %s",
				i+1, call.Name, def.Params[i].Type, argType)
		}
	}
	return def.ReturnType, nil
}

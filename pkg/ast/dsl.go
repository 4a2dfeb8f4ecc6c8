package ast

// Builder helpers for constructing trees in tests and tools. All nodes get a
// zero span; the parser is the only producer of real source locations.

func ID(name string) *Identifier {
	return NewIdentifier(name, Span{})
}

func Int(value int64) *IntLiteral {
	return NewIntLiteral(value, Span{})
}

func Str(value string) *StrLiteral {
	return NewStrLiteral(value, Span{})
}

func Bool(value bool) *BoolLiteral {
	return NewBoolLiteral(value, Span{})
}

func None() *NoneLiteral {
	return NewNoneLiteral(Span{})
}

func Bin(op BinaryOp, left, right Expression) *Binary {
	return NewBinary(op, left, right, Span{})
}

func Not(operand Expression) *Unary {
	return NewUnary(OpNot, operand, Span{})
}

func Neg(operand Expression) *Unary {
	return NewUnary(OpNeg, operand, Span{})
}

func Tern(then, cond, els Expression) *Ternary {
	return NewTernary(then, cond, els, Span{})
}

func In(prompt Expression) *Input {
	return NewInput(prompt, Span{})
}

func ToInt(arg Expression) *IntConv {
	return NewIntConv(arg, Span{})
}

func ToStr(arg Expression) *StrConv {
	return NewStrConv(arg, Span{})
}

func CallExpr(name string, args ...Expression) *Call {
	return NewCall(name, args, Span{})
}

// Statement helpers.

func Decl(name string, typ Type, init Expression) *VarDecl {
	return NewVarDecl(name, typ, init, Span{})
}

func Set(name string, expr Expression) *Assign {
	return NewAssign(name, expr, Span{})
}

func AddEq(name string, expr Expression) *CompoundAssign {
	return NewCompoundAssign(name, OpPlusEq, expr, Span{})
}

func SubEq(name string, expr Expression) *CompoundAssign {
	return NewCompoundAssign(name, OpMinusEq, expr, Span{})
}

func PrintOf(args ...Expression) *Print {
	return NewPrint(args, Span{})
}

func PassStmt() *Pass {
	return NewPass(Span{})
}

func Ret(expr Expression) *Return {
	return NewReturn(expr, Span{})
}

func RetBare() *Return {
	return NewReturn(nil, Span{})
}

func CallStmt(name string, args ...Expression) *CallStatement {
	return NewCallStatement(CallExpr(name, args...), Span{})
}

func Arm(cond Expression, stmts ...Statement) *CondArm {
	return NewCondArm(cond, Blk(stmts...), Span{})
}

func If(arms []*CondArm, els *Block) *Conditional {
	return NewConditional(arms, els, Span{})
}

func WhileLoop(cond Expression, stmts ...Statement) *While {
	return NewWhile(cond, Blk(stmts...), Span{})
}

func RepeatLoop(cond Expression, stmts ...Statement) *Repeat {
	return NewRepeat(Blk(stmts...), cond, Span{})
}

func Blk(stmts ...Statement) *Block {
	return NewBlock(stmts, Span{})
}

func Param(name string, typ Type) *Parameter {
	return NewParameter(name, typ, Span{})
}

func Fn(name string, params []*Parameter, ret Type, stmts ...Statement) *FunctionDefinition {
	return NewFunctionDefinition(name, params, ret, Blk(stmts...), Span{})
}

func Prog(main *Block, defs ...*FunctionDefinition) *Program {
	table := make(map[string]*FunctionDefinition, len(defs))
	for _, def := range defs {
		table[def.Name] = def
	}
	return NewProgram(table, main, Span{})
}

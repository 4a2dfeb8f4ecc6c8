// Package ast defines the syntax tree produced by the slpy parser and
// consumed by the typechecker, the interpreter, and the printer.
package ast

type NodeType string

const (
	NodeProgram            NodeType = "Program"
	NodeFunctionDefinition NodeType = "FunctionDefinition"
	NodeParameter          NodeType = "Parameter"
	NodeBlock              NodeType = "Block"

	NodeVarDecl        NodeType = "VarDecl"
	NodeAssign         NodeType = "Assign"
	NodeCompoundAssign NodeType = "CompoundAssign"
	NodePrint          NodeType = "Print"
	NodePass           NodeType = "Pass"
	NodeReturn         NodeType = "Return"
	NodeCallStatement  NodeType = "CallStatement"
	NodeConditional    NodeType = "Conditional"
	NodeCondArm        NodeType = "CondArm"
	NodeWhile          NodeType = "While"
	NodeRepeat         NodeType = "Repeat"

	NodeIntLiteral  NodeType = "IntLiteral"
	NodeStrLiteral  NodeType = "StrLiteral"
	NodeBoolLiteral NodeType = "BoolLiteral"
	NodeNoneLiteral NodeType = "NoneLiteral"
	NodeIdentifier  NodeType = "Identifier"
	NodeUnary       NodeType = "Unary"
	NodeBinary      NodeType = "Binary"
	NodeTernary     NodeType = "Ternary"
	NodeInput       NodeType = "Input"
	NodeIntConv     NodeType = "IntConv"
	NodeStrConv     NodeType = "StrConv"
	NodeCall        NodeType = "Call"
)

// Position is a 1-based line/column location in a source file.
type Position struct {
	Line   int
	Column int
}

// Span locates a node in its source file for error reporting.
type Span struct {
	File  string
	Start Position
	End   Position
}

// Node is the behaviour shared by every syntax tree node.
type Node interface {
	NodeType() NodeType
	Span() Span
	isNode()
}

type nodeImpl struct {
	kind NodeType
	span Span
}

func newNodeImpl(kind NodeType, span Span) nodeImpl {
	return nodeImpl{kind: kind, span: span}
}

func (n nodeImpl) NodeType() NodeType { return n.kind }
func (n nodeImpl) Span() Span         { return n.span }
func (nodeImpl) isNode()              {}

// Statement is the marker interface for executable statements.
type Statement interface {
	Node
	statementNode()
}

type statementMarker struct{}

func (statementMarker) statementNode() {}

// Expression is the marker interface for value-producing expressions.
type Expression interface {
	Node
	expressionNode()
}

type expressionMarker struct{}

func (expressionMarker) expressionNode() {}

// Program is a parsed slpy source file: its function definitions plus the
// top-level script block. Defs is populated once by the parser and is never
// mutated by the checker or the interpreter.
type Program struct {
	nodeImpl
	Defs map[string]*FunctionDefinition
	Main *Block
}

func NewProgram(defs map[string]*FunctionDefinition, main *Block, span Span) *Program {
	if defs == nil {
		defs = make(map[string]*FunctionDefinition)
	}
	return &Program{nodeImpl: newNodeImpl(NodeProgram, span), Defs: defs, Main: main}
}

// Parameter is one typed formal of a function definition.
type Parameter struct {
	nodeImpl
	Name string
	Type Type
}

func NewParameter(name string, typ Type, span Span) *Parameter {
	return &Parameter{nodeImpl: newNodeImpl(NodeParameter, span), Name: name, Type: typ}
}

// FunctionDefinition is a `def`. A definition whose header has no `-> type`
// arrow is a procedure; the parser records its return type as TypeNone.
type FunctionDefinition struct {
	nodeImpl
	Name       string
	Params     []*Parameter
	ReturnType Type
	Body       *Block
}

func NewFunctionDefinition(name string, params []*Parameter, ret Type, body *Block, span Span) *FunctionDefinition {
	return &FunctionDefinition{
		nodeImpl:   newNodeImpl(NodeFunctionDefinition, span),
		Name:       name,
		Params:     params,
		ReturnType: ret,
		Body:       body,
	}
}

// Arity reports the number of formal parameters.
func (d *FunctionDefinition) Arity() int { return len(d.Params) }

// Block is a non-empty sequence of statements sharing one static scope.
type Block struct {
	nodeImpl
	Stmts []Statement
}

func NewBlock(stmts []Statement, span Span) *Block {
	return &Block{nodeImpl: newNodeImpl(NodeBlock, span), Stmts: stmts}
}

//-----------------------------------------------------------------------------
// Statements
//-----------------------------------------------------------------------------

// VarDecl introduces a variable with a type annotation: `x: int = e`.
type VarDecl struct {
	nodeImpl
	statementMarker
	Name     string
	DeclType Type
	Init     Expression
}

func NewVarDecl(name string, typ Type, init Expression, span Span) *VarDecl {
	return &VarDecl{nodeImpl: newNodeImpl(NodeVarDecl, span), Name: name, DeclType: typ, Init: init}
}

// Assign updates an already-introduced variable: `x = e`.
type Assign struct {
	nodeImpl
	statementMarker
	Name string
	Expr Expression
}

func NewAssign(name string, expr Expression, span Span) *Assign {
	return &Assign{nodeImpl: newNodeImpl(NodeAssign, span), Name: name, Expr: expr}
}

// CompoundOp is the operator of a compound assignment.
type CompoundOp string

const (
	OpPlusEq  CompoundOp = "+="
	OpMinusEq CompoundOp = "-="
)

// CompoundAssign is `x += e` or `x -= e`.
type CompoundAssign struct {
	nodeImpl
	statementMarker
	Name string
	Op   CompoundOp
	Expr Expression
}

func NewCompoundAssign(name string, op CompoundOp, expr Expression, span Span) *CompoundAssign {
	return &CompoundAssign{nodeImpl: newNodeImpl(NodeCompoundAssign, span), Name: name, Op: op, Expr: expr}
}

// Print writes its arguments, space separated, followed by a newline.
type Print struct {
	nodeImpl
	statementMarker
	Args []Expression
}

func NewPrint(args []Expression, span Span) *Print {
	return &Print{nodeImpl: newNodeImpl(NodePrint, span), Args: args}
}

// Pass does nothing.
type Pass struct {
	nodeImpl
	statementMarker
}

func NewPass(span Span) *Pass {
	return &Pass{nodeImpl: newNodeImpl(NodePass, span)}
}

// Return exits the enclosing definition. Expr is nil for a bare `return`.
type Return struct {
	nodeImpl
	statementMarker
	Expr Expression
}

func NewReturn(expr Expression, span Span) *Return {
	return &Return{nodeImpl: newNodeImpl(NodeReturn, span), Expr: expr}
}

// CallStatement invokes a definition for its effects, discarding any result.
type CallStatement struct {
	nodeImpl
	statementMarker
	Call *Call
}

func NewCallStatement(call *Call, span Span) *CallStatement {
	return &CallStatement{nodeImpl: newNodeImpl(NodeCallStatement, span), Call: call}
}

// CondArm is one `if`/`elif` guard with its body.
type CondArm struct {
	nodeImpl
	Cond Expression
	Body *Block
}

func NewCondArm(cond Expression, body *Block, span Span) *CondArm {
	return &CondArm{nodeImpl: newNodeImpl(NodeCondArm, span), Cond: cond, Body: body}
}

// Conditional is an `if`/`elif*`/`else?` statement. Else is nil when absent.
type Conditional struct {
	nodeImpl
	statementMarker
	Arms []*CondArm
	Else *Block
}

func NewConditional(arms []*CondArm, els *Block, span Span) *Conditional {
	return &Conditional{nodeImpl: newNodeImpl(NodeConditional, span), Arms: arms, Else: els}
}

// While re-evaluates its guard before every iteration.
type While struct {
	nodeImpl
	statementMarker
	Cond Expression
	Body *Block
}

func NewWhile(cond Expression, body *Block, span Span) *While {
	return &While{nodeImpl: newNodeImpl(NodeWhile, span), Cond: cond, Body: body}
}

// Repeat executes its body at least once, stopping when the guard holds.
type Repeat struct {
	nodeImpl
	statementMarker
	Body *Block
	Cond Expression
}

func NewRepeat(body *Block, cond Expression, span Span) *Repeat {
	return &Repeat{nodeImpl: newNodeImpl(NodeRepeat, span), Body: body, Cond: cond}
}

//-----------------------------------------------------------------------------
// Expressions
//-----------------------------------------------------------------------------

type IntLiteral struct {
	nodeImpl
	expressionMarker
	Value int64
}

func NewIntLiteral(value int64, span Span) *IntLiteral {
	return &IntLiteral{nodeImpl: newNodeImpl(NodeIntLiteral, span), Value: value}
}

type StrLiteral struct {
	nodeImpl
	expressionMarker
	Value string
}

func NewStrLiteral(value string, span Span) *StrLiteral {
	return &StrLiteral{nodeImpl: newNodeImpl(NodeStrLiteral, span), Value: value}
}

type BoolLiteral struct {
	nodeImpl
	expressionMarker
	Value bool
}

func NewBoolLiteral(value bool, span Span) *BoolLiteral {
	return &BoolLiteral{nodeImpl: newNodeImpl(NodeBoolLiteral, span), Value: value}
}

type NoneLiteral struct {
	nodeImpl
	expressionMarker
}

func NewNoneLiteral(span Span) *NoneLiteral {
	return &NoneLiteral{nodeImpl: newNodeImpl(NodeNoneLiteral, span)}
}

// Identifier is a variable lookup.
type Identifier struct {
	nodeImpl
	expressionMarker
	Name string
}

func NewIdentifier(name string, span Span) *Identifier {
	return &Identifier{nodeImpl: newNodeImpl(NodeIdentifier, span), Name: name}
}

// UnaryOp is the operator of a unary expression.
type UnaryOp string

const (
	OpNot UnaryOp = "not"
	OpNeg UnaryOp = "-"
)

type Unary struct {
	nodeImpl
	expressionMarker
	Op      UnaryOp
	Operand Expression
}

func NewUnary(op UnaryOp, operand Expression, span Span) *Unary {
	return &Unary{nodeImpl: newNodeImpl(NodeUnary, span), Op: op, Operand: operand}
}

// BinaryOp is the operator of a binary expression.
type BinaryOp string

const (
	OpAdd BinaryOp = "+"
	OpSub BinaryOp = "-"
	OpMul BinaryOp = "*"
	OpDiv BinaryOp = "//"
	OpMod BinaryOp = "%"
	OpLt  BinaryOp = "<"
	OpLe  BinaryOp = "<="
	OpEq  BinaryOp = "=="
	OpGe  BinaryOp = ">="
	OpGt  BinaryOp = ">"
	OpAnd BinaryOp = "and"
	OpOr  BinaryOp = "or"
)

type Binary struct {
	nodeImpl
	expressionMarker
	Op    BinaryOp
	Left  Expression
	Right Expression
}

func NewBinary(op BinaryOp, left, right Expression, span Span) *Binary {
	return &Binary{nodeImpl: newNodeImpl(NodeBinary, span), Op: op, Left: left, Right: right}
}

// Ternary is the conditional expression `then if cond else else`.
type Ternary struct {
	nodeImpl
	expressionMarker
	Then Expression
	Cond Expression
	Else Expression
}

func NewTernary(then, cond, els Expression, span Span) *Ternary {
	return &Ternary{nodeImpl: newNodeImpl(NodeTernary, span), Then: then, Cond: cond, Else: els}
}

// Input prompts on stdout and reads one whitespace-delimited token.
type Input struct {
	nodeImpl
	expressionMarker
	Prompt Expression
}

func NewInput(prompt Expression, span Span) *Input {
	return &Input{nodeImpl: newNodeImpl(NodeInput, span), Prompt: prompt}
}

// IntConv is the `int(e)` conversion.
type IntConv struct {
	nodeImpl
	expressionMarker
	Arg Expression
}

func NewIntConv(arg Expression, span Span) *IntConv {
	return &IntConv{nodeImpl: newNodeImpl(NodeIntConv, span), Arg: arg}
}

// StrConv is the `str(e)` conversion.
type StrConv struct {
	nodeImpl
	expressionMarker
	Arg Expression
}

func NewStrConv(arg Expression, span Span) *StrConv {
	return &StrConv{nodeImpl: newNodeImpl(NodeStrConv, span), Arg: arg}
}

// Call invokes a named definition with positional arguments.
type Call struct {
	nodeImpl
	expressionMarker
	Name string
	Args []Expression
}

func NewCall(name string, args []Expression, span Span) *Call {
	return &Call{nodeImpl: newNodeImpl(NodeCall, span), Name: name, Args: args}
}

package ast

import (
	"fmt"
	"io"
	"sort"
)

// Dump writes the syntax tree with one node per line, children indented
// beneath their parent. Literal leaves use their source (repr) form.
func Dump(w io.Writer, p *Program) {
	fmt.Fprintln(w, "Program")
	names := make([]string, 0, len(p.Defs))
	for name := range p.Defs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		def := p.Defs[name]
		fmt.Fprintf(w, "%sDef %s -> %s\n", indentUnit, def.Name, def.ReturnType)
		for _, param := range def.Params {
			fmt.Fprintf(w, "%sParam %s: %s\n", indentUnit+indentUnit, param.Name, param.Type)
		}
		dumpBlock(w, def.Body, 2)
	}
	if p.Main != nil {
		fmt.Fprintf(w, "%sMain\n", indentUnit)
		dumpBlock(w, p.Main, 2)
	}
}

func dumpBlock(w io.Writer, block *Block, level int) {
	pad := padding(level)
	fmt.Fprintf(w, "%sBlock\n", pad)
	for _, stmt := range block.Stmts {
		dumpStmt(w, stmt, level+1)
	}
}

func dumpStmt(w io.Writer, stmt Statement, level int) {
	pad := padding(level)
	switch s := stmt.(type) {
	case *VarDecl:
		fmt.Fprintf(w, "%sVarDecl %s: %s\n", pad, s.Name, s.DeclType)
		dumpExpr(w, s.Init, level+1)
	case *Assign:
		fmt.Fprintf(w, "%sAssign %s\n", pad, s.Name)
		dumpExpr(w, s.Expr, level+1)
	case *CompoundAssign:
		fmt.Fprintf(w, "%sCompoundAssign %s %s\n", pad, s.Name, s.Op)
		dumpExpr(w, s.Expr, level+1)
	case *Print:
		fmt.Fprintf(w, "%sPrint\n", pad)
		for _, arg := range s.Args {
			dumpExpr(w, arg, level+1)
		}
	case *Pass:
		fmt.Fprintf(w, "%sPass\n", pad)
	case *Return:
		fmt.Fprintf(w, "%sReturn\n", pad)
		if s.Expr != nil {
			dumpExpr(w, s.Expr, level+1)
		}
	case *CallStatement:
		fmt.Fprintf(w, "%sCallStatement\n", pad)
		dumpExpr(w, s.Call, level+1)
	case *Conditional:
		fmt.Fprintf(w, "%sConditional\n", pad)
		for _, arm := range s.Arms {
			fmt.Fprintf(w, "%sArm\n", padding(level+1))
			dumpExpr(w, arm.Cond, level+2)
			dumpBlock(w, arm.Body, level+2)
		}
		if s.Else != nil {
			fmt.Fprintf(w, "%sElse\n", padding(level+1))
			dumpBlock(w, s.Else, level+2)
		}
	case *While:
		fmt.Fprintf(w, "%sWhile\n", pad)
		dumpExpr(w, s.Cond, level+1)
		dumpBlock(w, s.Body, level+1)
	case *Repeat:
		fmt.Fprintf(w, "%sRepeat\n", pad)
		dumpBlock(w, s.Body, level+1)
		dumpExpr(w, s.Cond, level+1)
	}
}

func dumpExpr(w io.Writer, expr Expression, level int) {
	pad := padding(level)
	switch e := expr.(type) {
	case *IntLiteral, *StrLiteral, *BoolLiteral, *NoneLiteral:
		fmt.Fprintf(w, "%sLiteral %s\n", pad, ExprString(e))
	case *Identifier:
		fmt.Fprintf(w, "%sLookup %s\n", pad, e.Name)
	case *Unary:
		fmt.Fprintf(w, "%sUnary %s\n", pad, e.Op)
		dumpExpr(w, e.Operand, level+1)
	case *Binary:
		fmt.Fprintf(w, "%sBinary %s\n", pad, e.Op)
		dumpExpr(w, e.Left, level+1)
		dumpExpr(w, e.Right, level+1)
	case *Ternary:
		fmt.Fprintf(w, "%sTernary\n", pad)
		dumpExpr(w, e.Then, level+1)
		dumpExpr(w, e.Cond, level+1)
		dumpExpr(w, e.Else, level+1)
	case *Input:
		fmt.Fprintf(w, "%sInput\n", pad)
		dumpExpr(w, e.Prompt, level+1)
	case *IntConv:
		fmt.Fprintf(w, "%sIntConv\n", pad)
		dumpExpr(w, e.Arg, level+1)
	case *StrConv:
		fmt.Fprintf(w, "%sStrConv\n", pad)
		dumpExpr(w, e.Arg, level+1)
	case *Call:
		fmt.Fprintf(w, "%sCall %s\n", pad, e.Name)
		for _, arg := range e.Args {
			dumpExpr(w, arg, level+1)
		}
	}
}

func padding(level int) string {
	pad := ""
	for i := 0; i < level; i++ {
		pad += indentUnit
	}
	return pad
}

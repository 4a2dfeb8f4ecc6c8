package ast

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

const indentUnit = "    "

// Write renders the program as canonical slpy source: definitions first in
// name order, each followed by a blank line, then the top-level script.
func Write(w io.Writer, p *Program) {
	names := make([]string, 0, len(p.Defs))
	for name := range p.Defs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		writeDef(w, p.Defs[name])
		fmt.Fprintln(w)
	}
	if p.Main != nil {
		writeBlock(w, p.Main, "")
	}
}

func writeDef(w io.Writer, def *FunctionDefinition) {
	parts := make([]string, len(def.Params))
	for i, param := range def.Params {
		parts[i] = param.Name + ": " + param.Type.String()
	}
	header := "def " + def.Name + "(" + strings.Join(parts, ", ") + ")"
	if def.ReturnType != TypeNone {
		header += " -> " + def.ReturnType.String()
	}
	fmt.Fprintf(w, "%s:\n", header)
	writeBlock(w, def.Body, indentUnit)
}

func writeBlock(w io.Writer, block *Block, indent string) {
	for _, stmt := range block.Stmts {
		writeStmt(w, stmt, indent)
	}
}

func writeStmt(w io.Writer, stmt Statement, indent string) {
	switch s := stmt.(type) {
	case *VarDecl:
		fmt.Fprintf(w, "%s%s: %s = %s\n", indent, s.Name, s.DeclType, ExprString(s.Init))
	case *Assign:
		fmt.Fprintf(w, "%s%s = %s\n", indent, s.Name, ExprString(s.Expr))
	case *CompoundAssign:
		fmt.Fprintf(w, "%s%s %s %s\n", indent, s.Name, s.Op, ExprString(s.Expr))
	case *Print:
		args := make([]string, len(s.Args))
		for i, arg := range s.Args {
			args[i] = ExprString(arg)
		}
		fmt.Fprintf(w, "%sprint(%s)\n", indent, strings.Join(args, ", "))
	case *Pass:
		fmt.Fprintf(w, "%spass\n", indent)
	case *Return:
		if s.Expr == nil {
			fmt.Fprintf(w, "%sreturn\n", indent)
		} else {
			fmt.Fprintf(w, "%sreturn %s\n", indent, ExprString(s.Expr))
		}
	case *CallStatement:
		fmt.Fprintf(w, "%s%s\n", indent, ExprString(s.Call))
	case *Conditional:
		for i, arm := range s.Arms {
			keyword := "if"
			if i > 0 {
				keyword = "elif"
			}
			fmt.Fprintf(w, "%s%s %s:\n", indent, keyword, ExprString(arm.Cond))
			writeBlock(w, arm.Body, indent+indentUnit)
		}
		if s.Else != nil {
			fmt.Fprintf(w, "%selse:\n", indent)
			writeBlock(w, s.Else, indent+indentUnit)
		}
	case *While:
		fmt.Fprintf(w, "%swhile %s:\n", indent, ExprString(s.Cond))
		writeBlock(w, s.Body, indent+indentUnit)
	case *Repeat:
		fmt.Fprintf(w, "%srepeat:\n", indent)
		writeBlock(w, s.Body, indent+indentUnit)
		fmt.Fprintf(w, "%suntil %s\n", indent, ExprString(s.Cond))
	}
}

// ExprString renders an expression as source text. Binary and ternary
// expressions are fully parenthesized so the output re-parses unambiguously.
func ExprString(expr Expression) string {
	switch e := expr.(type) {
	case *IntLiteral:
		return strconv.FormatInt(e.Value, 10)
	case *StrLiteral:
		return strconv.Quote(e.Value)
	case *BoolLiteral:
		if e.Value {
			return "True"
		}
		return "False"
	case *NoneLiteral:
		return "None"
	case *Identifier:
		return e.Name
	case *Unary:
		if e.Op == OpNot {
			return "not " + ExprString(e.Operand)
		}
		return "-" + ExprString(e.Operand)
	case *Binary:
		return "(" + ExprString(e.Left) + " " + string(e.Op) + " " + ExprString(e.Right) + ")"
	case *Ternary:
		return "(" + ExprString(e.Then) + " if " + ExprString(e.Cond) + " else " + ExprString(e.Else) + ")"
	case *Input:
		return "input(" + ExprString(e.Prompt) + ")"
	case *IntConv:
		return "int(" + ExprString(e.Arg) + ")"
	case *StrConv:
		return "str(" + ExprString(e.Arg) + ")"
	case *Call:
		args := make([]string, len(e.Args))
		for i, arg := range e.Args {
			args[i] = ExprString(arg)
		}
		return e.Name + "(" + strings.Join(args, ", ") + ")"
	default:
		return "<expr>"
	}
}

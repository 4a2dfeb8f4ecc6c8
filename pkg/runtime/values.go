// Package runtime defines the slpy value universe and the per-frame variable
// environment shared by the interpreter.
package runtime

import (
	"fmt"
	"strconv"
)

// Kind identifies the runtime value category.
type Kind int

const (
	KindInt Kind = iota
	KindStr
	KindBool
	KindNone
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindStr:
		return "str"
	case KindBool:
		return "bool"
	case KindNone:
		return "None"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// Value is the behaviour shared by all runtime values. Values are immutable
// once constructed and are copied on assignment.
type Value interface {
	Kind() Kind
	// Display is the form used by print and str().
	Display() string
	// Repr is the source-literal form; strings come back quoted and escaped.
	Repr() string
}

type IntValue struct {
	Val int64
}

func (v IntValue) Kind() Kind      { return KindInt }
func (v IntValue) Display() string { return strconv.FormatInt(v.Val, 10) }
func (v IntValue) Repr() string    { return v.Display() }

type StrValue struct {
	Val string
}

func (v StrValue) Kind() Kind      { return KindStr }
func (v StrValue) Display() string { return v.Val }
func (v StrValue) Repr() string    { return strconv.Quote(v.Val) }

type BoolValue struct {
	Val bool
}

func (v BoolValue) Kind() Kind { return KindBool }

func (v BoolValue) Display() string {
	if v.Val {
		return "True"
	}
	return "False"
}

func (v BoolValue) Repr() string { return v.Display() }

type NoneValue struct{}

func (NoneValue) Kind() Kind      { return KindNone }
func (NoneValue) Display() string { return "None" }
func (NoneValue) Repr() string    { return "None" }

// None is the singleton unit value.
var None = NoneValue{}

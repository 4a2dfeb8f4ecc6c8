package ast

// Type is one of the four ground types of slpy. There is no subtyping and
// no coercion: two types are equal iff they are the same variant.
type Type int

const (
	TypeInt Type = iota
	TypeStr
	TypeBool
	TypeNone
)

func (t Type) String() string {
	switch t {
	case TypeInt:
		return "int"
	case TypeStr:
		return "str"
	case TypeBool:
		return "bool"
	case TypeNone:
		return "None"
	default:
		return "unknown"
	}
}

package typechecker

import "slpy/interpreter-go/pkg/ast"

// FlowKind classifies how a statement or block returns.
type FlowKind int

const (
	// FlowNever: no path through the construct returns a value.
	FlowNever FlowKind = iota
	// FlowMaybe: some paths return a value, others fall through.
	FlowMaybe
	// FlowAlways: every path returns a value.
	FlowAlways
)

func (k FlowKind) String() string {
	switch k {
	case FlowNever:
		return "never returns"
	case FlowMaybe:
		return "might return"
	case FlowAlways:
		return "always returns"
	default:
		return "unknown flow"
	}
}

// ReturnFlow is the checker's lattice value: a flow kind plus, for Maybe and
// Always, the type carried by the returns.
type ReturnFlow struct {
	Kind FlowKind
	Type ast.Type
}

func Never() ReturnFlow {
	return ReturnFlow{Kind: FlowNever}
}

func Maybe(t ast.Type) ReturnFlow {
	return ReturnFlow{Kind: FlowMaybe, Type: t}
}

func Always(t ast.Type) ReturnFlow {
	return ReturnFlow{Kind: FlowAlways, Type: t}
}

// loopBody downgrades a loop body's classification: the body may run zero
// times (while) or its returns cannot be guaranteed statically, so Always
// weakens to Maybe and Never stays Never.
func loopBody(flow ReturnFlow) ReturnFlow {
	if flow.Kind == FlowNever {
		return Never()
	}
	return Maybe(flow.Type)
}

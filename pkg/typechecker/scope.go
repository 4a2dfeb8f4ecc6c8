package typechecker

import "slpy/interpreter-go/pkg/ast"

// Scope is one lexical block of the symbol table. Lookups walk outward
// through the chain, so inner declarations shadow outer ones and vanish when
// the block's scope is dropped.
type Scope struct {
	parent  *Scope
	symbols map[string]ast.Type
}

// NewScope creates a scope, optionally nested under a parent.
func NewScope(parent *Scope) *Scope {
	return &Scope{parent: parent, symbols: make(map[string]ast.Type)}
}

// Define binds a name in the current block.
func (s *Scope) Define(name string, typ ast.Type) {
	s.symbols[name] = typ
}

// Lookup searches the scope chain for a name.
func (s *Scope) Lookup(name string) (ast.Type, bool) {
	if typ, ok := s.symbols[name]; ok {
		return typ, true
	}
	if s.parent != nil {
		return s.parent.Lookup(name)
	}
	return 0, false
}

// DeclaredHere reports whether the name is bound in this block itself,
// ignoring enclosing scopes. Used to reject same-scope redeclaration while
// still allowing shadowing.
func (s *Scope) DeclaredHere(name string) bool {
	_, ok := s.symbols[name]
	return ok
}

// Extend returns a child scope for a nested block.
func (s *Scope) Extend() *Scope {
	return NewScope(s)
}

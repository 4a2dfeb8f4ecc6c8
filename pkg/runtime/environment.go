package runtime

import (
	"fmt"
	"sort"
)

// Environment maps variable names to values for one call frame. Frames are
// flat: block nesting is a static notion only, and a callee never sees its
// caller's bindings.
type Environment struct {
	values map[string]Value
}

// NewEnvironment creates an empty frame.
func NewEnvironment() *Environment {
	return &Environment{values: make(map[string]Value)}
}

// Set inserts or replaces a binding in the frame.
func (e *Environment) Set(name string, value Value) {
	e.values[name] = value
}

// Get retrieves a binding. A miss should be impossible for checked programs
// but is still reported rather than panicking.
func (e *Environment) Get(name string) (Value, error) {
	if v, ok := e.values[name]; ok {
		return v, nil
	}
	return nil, fmt.Errorf("undefined variable '%s'", name)
}

// Keys returns the bound names in sorted order.
func (e *Environment) Keys() []string {
	keys := make([]string, 0, len(e.values))
	for k := range e.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

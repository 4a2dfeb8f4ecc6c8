// Package typechecker implements the slpy static semantics. It validates
// every definition and the top-level script in one depth-first pass,
// inferring a return-flow classification for each statement and block while
// verifying type consistency, and stops at the first violation. A program
// that passes Check is safe to hand to the interpreter.
package typechecker

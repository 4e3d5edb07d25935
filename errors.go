package jsonpath

import "fmt"

// SyntaxError is returned by Compile/Parse when the JSONPath text is
// malformed or fails one of the static type/cardinality checks in RFC
// 9535 §2.3.5 and §2.4. Kind is a short machine-readable category
// (e.g. "non-singular-comparable") a caller can switch on without
// parsing Error()'s text; Pos is the byte offset into the source text.
type SyntaxError struct {
	Kind string
	Pos  int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("jsonpath: %s at position %d: %s", e.Kind, e.Pos, e.Msg)
}

func syntaxErrorf(kind string, pos int, format string, args ...interface{}) *SyntaxError {
	return &SyntaxError{Kind: kind, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// internalInvariantError is panicked by the evaluator when a statically
// proven invariant turns out false at run time — this indicates a bug in
// the checker, not bad input, and is recovered only at the top of
// Query.Evaluate (see evaluator.go).
type internalInvariantError struct{ msg string }

func (e internalInvariantError) Error() string { return e.msg }

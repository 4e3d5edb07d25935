// Package jsonpath implements a JSONPath query compiler and evaluator
// with a gjson-style API: queries compile once to an immutable *Query
// and evaluate against any number of documents without re-parsing.
//
// The implementation follows RFC 9535: https://www.rfc-editor.org/rfc/rfc9535.html
//
// Compile parses and statically type/cardinality-checks a query,
// reporting a *SyntaxError with a byte position on failure. Query.Evaluate
// then walks a document and returns the matched nodes in the order the
// query's segments and selectors produce them.
// Get, GetMany and their Result-chained counterparts are single-shot
// convenience wrappers for callers who don't need to reuse a compiled
// query.
package jsonpath

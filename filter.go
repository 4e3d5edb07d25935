package jsonpath

// evalFilterExpr evaluates a filter's logical-expression tree against
// current, the candidate node a ?<...> selector is testing.
func (e *Evaluator) evalFilterExpr(expr *FilterExpr, current Result) bool {
	switch expr.Type {
	case FilterOr:
		return e.evalFilterExpr(expr.Left, current) || e.evalFilterExpr(expr.Right, current)
	case FilterAnd:
		return e.evalFilterExpr(expr.Left, current) && e.evalFilterExpr(expr.Right, current)
	case FilterNot:
		return !e.evalFilterExpr(expr.Operand, current)
	case FilterComparison:
		left := e.evalComparable(expr.Comp.Left, current)
		right := e.evalComparable(expr.Comp.Right, current)
		return compareValues(left, right, expr.Comp.Op)
	case FilterTest:
		return e.evalTestItem(expr.Test, current)
	default:
		return false
	}
}

func (e *Evaluator) evalTestItem(item *TestItem, current Result) bool {
	switch item.Type {
	case TestQuery:
		return len(e.evalQuery(item.Query, current)) > 0
	case TestFunc:
		return e.evalFuncCall(item.Func, current).logical
	default:
		return false
	}
}

// evalQuery evaluates a query embedded in a filter (any cardinality),
// starting from the document root if absolute or from current otherwise.
func (e *Evaluator) evalQuery(q *Query, current Result) []Result {
	nodes := []Result{current}
	if q.Absolute {
		nodes = []Result{e.root}
	}
	for _, seg := range q.Segments {
		nodes = e.applySegment(seg, nodes)
		if len(nodes) == 0 {
			return nil
		}
	}
	return nodes
}

// evalSingular evaluates a statically singular query and collapses its
// node list to a ValueResult: zero nodes is Nothing, one node is that
// node's value. More than one node is unreachable if the checker is
// correct and is reported as an internal invariant violation.
func (e *Evaluator) evalSingular(q *Query, current Result) Result {
	nodes := e.evalQuery(q, current)
	switch len(nodes) {
	case 0:
		return Result{}
	case 1:
		return nodes[0]
	default:
		panic(internalInvariantError{"singular query produced more than one node"})
	}
}

func (e *Evaluator) evalComparable(c *Comparable, current Result) Result {
	switch c.Type {
	case ComparableLiteral:
		return literalValue(c.Literal)
	case ComparableQuery:
		return e.evalSingular(c.Query, current)
	case ComparableFunc:
		return e.evalFuncCall(c.Func, current).value
	default:
		return Result{}
	}
}

// compareValues implements the comparison rules of RFC 9535 §2.3.5.2:
// Nothing equals only Nothing; ordering operators are false whenever
// either side is Nothing or the two sides aren't both numbers or both
// strings.
func compareValues(left, right Result, op CompOp) bool {
	leftNothing, rightNothing := !left.Exists(), !right.Exists()

	switch op {
	case CompEq:
		if leftNothing || rightNothing {
			return leftNothing && rightNothing
		}
		return deepEqual(left, right)
	case CompNe:
		return !compareValues(left, right, CompEq)
	}

	if leftNothing || rightNothing {
		return false
	}
	switch {
	case left.Type == JSONTypeNumber && right.Type == JSONTypeNumber:
		return compareOrdered(left.Num, right.Num, op)
	case left.Type == JSONTypeString && right.Type == JSONTypeString:
		return compareOrdered(left.Str, right.Str, op)
	default:
		return false
	}
}

type ordered interface {
	~float64 | ~string
}

func compareOrdered[T ordered](a, b T, op CompOp) bool {
	switch op {
	case CompLt:
		return a < b
	case CompLe:
		return a <= b
	case CompGt:
		return a > b
	case CompGe:
		return a >= b
	default:
		return false
	}
}

package jsonpath

// Evaluator walks a parsed JSON document according to a compiled Query.
// It is constructed once per call to Query.Evaluate and is not reused.
type Evaluator struct {
	root Result
}

// Evaluate runs q against the document held in json and returns the
// matched nodes in the order the segments and their selectors produce
// them, keeping duplicates (segments never deduplicate, per RFC 9535 §2.6).
//
// A statically singular sub-query that nonetheless yields more than one
// node at run time is an internal invariant violation — the checker is
// supposed to make this unreachable — and is recovered here as an empty
// result rather than propagated as a panic to the caller.
func (q *Query) Evaluate(json string) (results []Result) {
	root := parseValue(json)
	if !root.Exists() {
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(internalInvariantError); ok {
				results = nil
				return
			}
			panic(r)
		}
	}()

	e := &Evaluator{root: root}
	nodes := []Result{root}
	for _, seg := range q.Segments {
		nodes = e.applySegment(seg, nodes)
		if len(nodes) == 0 {
			return nil
		}
	}
	return nodes
}

// applySegment fans a segment out over every node in input, preserving
// duplicates and concatenating each node's matches in selector order.
func (e *Evaluator) applySegment(seg *Segment, input []Result) []Result {
	var out []Result
	if seg.Type == DescendantSegment {
		for _, node := range input {
			for _, visited := range preorder(node) {
				for _, sel := range seg.Selectors {
					out = append(out, e.applySelector(sel, visited)...)
				}
			}
		}
		return out
	}
	for _, node := range input {
		for _, sel := range seg.Selectors {
			out = append(out, e.applySelector(sel, node)...)
		}
	}
	return out
}

// preorder returns node itself followed by every descendant, self
// before children, in document order (array index order; object
// members in the order they appear in the source text).
func preorder(node Result) []Result {
	visited := []Result{node}
	switch {
	case node.IsArray():
		for _, child := range node.Array() {
			visited = append(visited, preorder(child)...)
		}
	case node.IsObject():
		for _, kv := range node.MapKVList() {
			visited = append(visited, preorder(kv.Value)...)
		}
	}
	return visited
}

func (e *Evaluator) applySelector(sel *Selector, node Result) []Result {
	switch sel.Type {
	case NameSelector:
		return evalNameSelector(node, sel.Name)
	case WildcardSelector:
		return evalWildcardSelector(node)
	case IndexSelector:
		return evalIndexSelector(node, sel.Index)
	case SliceSelector:
		return evalSliceSelector(node, sel.Slice)
	case FilterSelector:
		return e.evalFilterSelector(sel.Filter, node)
	default:
		return nil
	}
}

func evalNameSelector(node Result, name string) []Result {
	if !node.IsObject() {
		return nil
	}
	for _, kv := range node.MapKVList() {
		if kv.Key == name {
			return []Result{kv.Value}
		}
	}
	return nil
}

func evalWildcardSelector(node Result) []Result {
	switch {
	case node.IsArray():
		return node.Array()
	case node.IsObject():
		kvs := node.MapKVList()
		out := make([]Result, len(kvs))
		for i, kv := range kvs {
			out[i] = kv.Value
		}
		return out
	default:
		return nil
	}
}

func evalIndexSelector(node Result, index int64) []Result {
	if !node.IsArray() {
		return nil
	}
	arr := node.Array()
	n := int64(len(arr))
	i := index
	if i < 0 {
		i += n
	}
	if i < 0 || i >= n {
		return nil
	}
	return []Result{arr[i]}
}

// evalSliceSelector implements the start:end:step algebra of RFC 9535
// §2.3.4 (Array Slice Selector): the defaults for start/end and the
// clamping range both depend on the sign of step, matching the source
// the spec was distilled from.
func evalSliceSelector(node Result, slice *SliceParams) []Result {
	if !node.IsArray() {
		return nil
	}
	arr := node.Array()
	n := int64(len(arr))

	step := int64(1)
	if slice.Step != nil {
		step = *slice.Step
	}
	if step == 0 {
		return nil
	}

	normalize := func(x int64) int64 {
		if x >= 0 {
			return x
		}
		return n + x
	}
	clamp := func(x, lo, hi int64) int64 {
		if x < lo {
			return lo
		}
		if x > hi {
			return hi
		}
		return x
	}

	var out []Result
	if step > 0 {
		lo, hi := int64(0), n
		if slice.Start != nil {
			lo = normalize(*slice.Start)
		}
		if slice.End != nil {
			hi = normalize(*slice.End)
		}
		lo, hi = clamp(lo, 0, n), clamp(hi, 0, n)
		for i := lo; i < hi; i += step {
			out = append(out, arr[i])
		}
	} else {
		lo, hi := n-1, int64(-1)
		if slice.Start != nil {
			lo = normalize(*slice.Start)
		}
		if slice.End != nil {
			hi = normalize(*slice.End)
		}
		lo, hi = clamp(lo, -1, n-1), clamp(hi, -1, n-1)
		for i := lo; i > hi; i += step {
			out = append(out, arr[i])
		}
	}
	return out
}

// evalFilterSelector applies expr to every element of an array, or
// every member value of an object, keeping those that test true.
func (e *Evaluator) evalFilterSelector(expr *FilterExpr, node Result) []Result {
	var out []Result
	switch {
	case node.IsArray():
		for _, child := range node.Array() {
			if e.evalFilterExpr(expr, child) {
				out = append(out, child)
			}
		}
	case node.IsObject():
		for _, kv := range node.MapKVList() {
			if e.evalFilterExpr(expr, kv.Value) {
				out = append(out, kv.Value)
			}
		}
	}
	return out
}

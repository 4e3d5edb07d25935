package jsonpath

import "strconv"

// maxSafeInt mirrors the magnitude bound on integer literals used by
// index and slice selectors: JavaScript's Number.MAX_SAFE_INTEGER,
// 2^53-1, which every compliant index/step must fit within.
const maxSafeInt = int64(1)<<53 - 1

// Parse compiles a JSONPath query and runs the static type/cardinality
// checks of RFC 9535 §2.3.5 and §2.4 (the singular-query requirement
// and function well-typedness rules), returning a *SyntaxError carrying
// a byte position on failure. It is the implementation behind Compile.
func Parse(path string) (*Query, error) {
	p := &Parser{lexer: NewLexer(path)}
	p.advance()
	p.advance()

	if p.curr.Type == TokenIllegal {
		return nil, syntaxErrorf("illegal-token", p.curr.Pos, "invalid token %q", p.curr.Value)
	}
	if p.curr.Type != TokenRoot {
		return nil, syntaxErrorf("expected-root", p.curr.Pos, "JSONPath query must start with '$'")
	}

	q := &Query{Absolute: true, Singular: true}
	p.advance()
	if err := p.parseSegments(q); err != nil {
		return nil, err
	}
	if p.curr.Type != TokenEOF {
		return nil, syntaxErrorf("trailing-input", p.curr.Pos, "unexpected trailing input %q", p.curr.Value)
	}
	return q, nil
}

// Parser is a recursive-descent parser with one token of lookahead
// beyond curr (peek), enough to disambiguate every JSONPath production
// without backtracking.
type Parser struct {
	lexer *Lexer
	curr  Token
	peek  Token
}

func (p *Parser) advance() {
	p.curr = p.peek
	p.peek = p.lexer.NextToken()
}

func (p *Parser) expect(tt TokenType, kind string) error {
	if p.curr.Type != tt {
		return syntaxErrorf(kind, p.curr.Pos, "expected %s, got %s %q", tt, p.curr.Type, p.curr.Value)
	}
	return nil
}

// parseSegments consumes a run of child/descendant segments, updating
// q.Singular as it goes, and returns at the first token that cannot
// start a segment (typically ')', ']', a logical operator, or EOF).
func (p *Parser) parseSegments(q *Query) error {
	for {
		switch p.curr.Type {
		case TokenDotDot:
			p.advance()
			seg, err := p.parseDescendantSegmentBody()
			if err != nil {
				return err
			}
			q.Singular = false
			q.Segments = append(q.Segments, seg)
		case TokenDot:
			p.advance()
			seg, err := p.parseDotSegmentBody()
			if err != nil {
				return err
			}
			if !isSingularSegment(seg) {
				q.Singular = false
			}
			q.Segments = append(q.Segments, seg)
		case TokenLBracket:
			seg, err := p.parseBracketSegment(ChildSegment)
			if err != nil {
				return err
			}
			if !isSingularSegment(seg) {
				q.Singular = false
			}
			q.Segments = append(q.Segments, seg)
		case TokenIllegal:
			return syntaxErrorf("illegal-token", p.curr.Pos, "invalid token %q", p.curr.Value)
		default:
			return nil
		}
	}
}

// isSingularSegment reports whether a single segment, taken alone,
// could still be part of a singular query: a child segment holding
// exactly one Name or Index selector.
func isSingularSegment(seg *Segment) bool {
	if seg.Type != ChildSegment || len(seg.Selectors) != 1 {
		return false
	}
	switch seg.Selectors[0].Type {
	case NameSelector, IndexSelector:
		return true
	default:
		return false
	}
}

func (p *Parser) parseDotSegmentBody() (*Segment, error) {
	switch p.curr.Type {
	case TokenWildcard:
		p.advance()
		return &Segment{Type: ChildSegment, Selectors: []*Selector{{Type: WildcardSelector}}}, nil
	case TokenIdent, TokenNull, TokenTrue, TokenFalse:
		name := p.curr.Value
		p.advance()
		return &Segment{Type: ChildSegment, Selectors: []*Selector{{Type: NameSelector, Name: name}}}, nil
	default:
		return nil, syntaxErrorf("unexpected-token", p.curr.Pos, "expected name or '*' after '.', got %s", p.curr.Type)
	}
}

func (p *Parser) parseDescendantSegmentBody() (*Segment, error) {
	switch p.curr.Type {
	case TokenLBracket:
		return p.parseBracketSegment(DescendantSegment)
	case TokenWildcard:
		p.advance()
		return &Segment{Type: DescendantSegment, Selectors: []*Selector{{Type: WildcardSelector}}}, nil
	case TokenIdent, TokenNull, TokenTrue, TokenFalse:
		name := p.curr.Value
		p.advance()
		return &Segment{Type: DescendantSegment, Selectors: []*Selector{{Type: NameSelector, Name: name}}}, nil
	default:
		return nil, syntaxErrorf("unexpected-token", p.curr.Pos, "expected name, '*', or '[' after '..', got %s", p.curr.Type)
	}
}

func (p *Parser) parseBracketSegment(segType SegmentType) (*Segment, error) {
	if err := p.expect(TokenLBracket, "expected-lbracket"); err != nil {
		return nil, err
	}
	p.advance()

	seg := &Segment{Type: segType}
	sel, err := p.parseSelector()
	if err != nil {
		return nil, err
	}
	seg.Selectors = append(seg.Selectors, sel)

	for p.curr.Type == TokenComma {
		p.advance()
		sel, err := p.parseSelector()
		if err != nil {
			return nil, err
		}
		seg.Selectors = append(seg.Selectors, sel)
	}

	if err := p.expect(TokenRBracket, "expected-rbracket"); err != nil {
		return nil, err
	}
	p.advance()
	return seg, nil
}

func (p *Parser) parseSelector() (*Selector, error) {
	switch p.curr.Type {
	case TokenString:
		sel := &Selector{Type: NameSelector, Name: p.curr.Value}
		p.advance()
		return sel, nil
	case TokenWildcard:
		p.advance()
		return &Selector{Type: WildcardSelector}, nil
	case TokenNumber, TokenColon:
		return p.parseIndexOrSlice()
	case TokenQuestion:
		p.advance()
		expr, err := p.parseLogicalExpr()
		if err != nil {
			return nil, err
		}
		return &Selector{Type: FilterSelector, Filter: expr}, nil
	default:
		return nil, syntaxErrorf("unexpected-token", p.curr.Pos, "unexpected %s in selector", p.curr.Type)
	}
}

func (p *Parser) parseIndexOrSlice() (*Selector, error) {
	var start, end, step *int64
	haveStart := false

	if p.curr.Type == TokenNumber {
		n, err := parseIntegerLiteral(p.curr)
		if err != nil {
			return nil, err
		}
		start = &n
		haveStart = true
		p.advance()
	}

	if p.curr.Type != TokenColon {
		if !haveStart {
			return nil, syntaxErrorf("unexpected-token", p.curr.Pos, "expected index or slice, got %s", p.curr.Type)
		}
		return &Selector{Type: IndexSelector, Index: *start}, nil
	}
	p.advance() // ':'

	if p.curr.Type == TokenNumber {
		n, err := parseIntegerLiteral(p.curr)
		if err != nil {
			return nil, err
		}
		end = &n
		p.advance()
	}

	if p.curr.Type == TokenColon {
		p.advance()
		if p.curr.Type == TokenNumber {
			pos := p.curr.Pos
			n, err := parseIntegerLiteral(p.curr)
			if err != nil {
				return nil, err
			}
			if n == 0 {
				return nil, syntaxErrorf("zero-step", pos, "slice step must not be zero")
			}
			step = &n
			p.advance()
		}
	}

	return &Selector{Type: SliceSelector, Slice: &SliceParams{Start: start, End: end, Step: step}}, nil
}

func parseIntegerLiteral(tok Token) (int64, error) {
	for _, c := range tok.Value {
		if c == '.' || c == 'e' || c == 'E' {
			return 0, syntaxErrorf("invalid-integer", tok.Pos, "expected integer, got number %q", tok.Value)
		}
	}
	n, err := strconv.ParseInt(tok.Value, 10, 64)
	if err != nil {
		return 0, syntaxErrorf("invalid-integer", tok.Pos, "invalid integer %q", tok.Value)
	}
	if n > maxSafeInt || n < -maxSafeInt {
		return 0, syntaxErrorf("integer-out-of-range", tok.Pos, "integer %d out of range", n)
	}
	return n, nil
}

// parseEmbeddedQuery parses a '$' or '@' prefixed query appearing inside
// a filter expression or function argument. Every embedded query starts
// Singular and is cleared exactly like a top-level query as segments are
// consumed, so its caller can check .Singular once parsing finishes.
func (p *Parser) parseEmbeddedQuery() (*Query, error) {
	q := &Query{Singular: true}
	switch p.curr.Type {
	case TokenRoot:
		q.Absolute = true
	case TokenCurrent:
		q.Absolute = false
	default:
		return nil, syntaxErrorf("expected-query", p.curr.Pos, "expected '$' or '@', got %s", p.curr.Type)
	}
	p.advance()
	if err := p.parseSegments(q); err != nil {
		return nil, err
	}
	return q, nil
}

// --- filter expression grammar -------------------------------------------
//
// logical-expr   := logical-and ( '||' logical-and )*
// logical-and    := basic-expr ( '&&' basic-expr )*
// basic-expr     := '!' ( '(' logical-expr ')' | test-or-comparison )
//                 | '(' logical-expr ')'
//                 | test-or-comparison
//
// test-or-comparison resolves to a Comparison or a Test by parsing the
// left-hand operand (literal, query, or function call) and then looking
// at the next token: a comparison operator commits to a Comparison,
// anything else commits to a Test. This needs no backtracking because
// no production's prefix overlaps ambiguously with another's.

func (p *Parser) parseLogicalExpr() (*FilterExpr, error) {
	left, err := p.parseLogicalAnd()
	if err != nil {
		return nil, err
	}
	for p.curr.Type == TokenLOr {
		p.advance()
		right, err := p.parseLogicalAnd()
		if err != nil {
			return nil, err
		}
		left = &FilterExpr{Type: FilterOr, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseLogicalAnd() (*FilterExpr, error) {
	left, err := p.parseBasicExpr()
	if err != nil {
		return nil, err
	}
	for p.curr.Type == TokenLAnd {
		p.advance()
		right, err := p.parseBasicExpr()
		if err != nil {
			return nil, err
		}
		left = &FilterExpr{Type: FilterAnd, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseBasicExpr() (*FilterExpr, error) {
	if p.curr.Type == TokenLNot {
		notPos := p.curr.Pos
		if p.peek.Type == TokenLParen {
			p.advance() // '!'
			p.advance() // '('
			inner, err := p.parseLogicalExpr()
			if err != nil {
				return nil, err
			}
			if err := p.expect(TokenRParen, "expected-rparen"); err != nil {
				return nil, err
			}
			p.advance()
			return &FilterExpr{Type: FilterNot, Operand: inner}, nil
		}
		p.advance()
		operand, err := p.parseTestOrComparison()
		if err != nil {
			return nil, err
		}
		if operand.Type != FilterTest {
			return nil, syntaxErrorf("not-on-comparison", notPos, "'!' cannot be applied to a comparison")
		}
		return &FilterExpr{Type: FilterNot, Operand: operand}, nil
	}

	if p.curr.Type == TokenLParen {
		p.advance()
		inner, err := p.parseLogicalExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expect(TokenRParen, "expected-rparen"); err != nil {
			return nil, err
		}
		p.advance()
		return inner, nil
	}

	return p.parseTestOrComparison()
}

func (p *Parser) isComparisonOp() bool {
	switch p.curr.Type {
	case TokenEq, TokenNe, TokenLt, TokenLe, TokenGt, TokenGe:
		return true
	default:
		return false
	}
}

func (p *Parser) parseTestOrComparison() (*FilterExpr, error) {
	switch p.curr.Type {
	case TokenString, TokenNumber, TokenTrue, TokenFalse, TokenNull:
		left, err := p.parseComparable()
		if err != nil {
			return nil, err
		}
		return p.finishComparison(left)

	case TokenRoot, TokenCurrent:
		pos := p.curr.Pos
		q, err := p.parseEmbeddedQuery()
		if err != nil {
			return nil, err
		}
		if p.isComparisonOp() {
			if !q.Singular {
				return nil, syntaxErrorf("non-singular-comparable", pos, "comparison requires a singular query")
			}
			return p.finishComparison(&Comparable{Type: ComparableQuery, Query: q})
		}
		return &FilterExpr{Type: FilterTest, Test: &TestItem{Type: TestQuery, Query: q}}, nil

	case TokenIdent:
		pos := p.curr.Pos
		fn, err := p.parseFunctionExpr()
		if err != nil {
			return nil, err
		}
		if p.isComparisonOp() {
			if fn.Return != ReturnValue {
				return nil, syntaxErrorf("wrong-return-kind", pos, "comparison requires a value-returning function")
			}
			return p.finishComparison(&Comparable{Type: ComparableFunc, Func: fn})
		}
		if fn.Return != ReturnLogical {
			return nil, syntaxErrorf("wrong-return-kind", pos, "value-returning function cannot be used as a test expression")
		}
		return &FilterExpr{Type: FilterTest, Test: &TestItem{Type: TestFunc, Func: fn}}, nil

	default:
		return nil, syntaxErrorf("unexpected-token", p.curr.Pos, "unexpected %s in filter expression", p.curr.Type)
	}
}

func (p *Parser) finishComparison(left *Comparable) (*FilterExpr, error) {
	op, err := p.parseComparisonOp()
	if err != nil {
		return nil, err
	}
	right, err := p.parseComparable()
	if err != nil {
		return nil, err
	}
	return &FilterExpr{Type: FilterComparison, Comp: &Comparison{Left: left, Op: op, Right: right}}, nil
}

func (p *Parser) parseComparisonOp() (CompOp, error) {
	switch p.curr.Type {
	case TokenEq:
		p.advance()
		return CompEq, nil
	case TokenNe:
		p.advance()
		return CompNe, nil
	case TokenLt:
		p.advance()
		return CompLt, nil
	case TokenLe:
		p.advance()
		return CompLe, nil
	case TokenGt:
		p.advance()
		return CompGt, nil
	case TokenGe:
		p.advance()
		return CompGe, nil
	default:
		return 0, syntaxErrorf("expected-operator", p.curr.Pos, "expected comparison operator, got %s", p.curr.Type)
	}
}

func (p *Parser) parseComparable() (*Comparable, error) {
	switch p.curr.Type {
	case TokenString, TokenNumber, TokenTrue, TokenFalse, TokenNull:
		lit, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}
		return &Comparable{Type: ComparableLiteral, Literal: lit}, nil

	case TokenRoot, TokenCurrent:
		pos := p.curr.Pos
		q, err := p.parseEmbeddedQuery()
		if err != nil {
			return nil, err
		}
		if !q.Singular {
			return nil, syntaxErrorf("non-singular-comparable", pos, "comparison requires a singular query")
		}
		return &Comparable{Type: ComparableQuery, Query: q}, nil

	case TokenIdent:
		pos := p.curr.Pos
		fn, err := p.parseFunctionExpr()
		if err != nil {
			return nil, err
		}
		if fn.Return != ReturnValue {
			return nil, syntaxErrorf("wrong-return-kind", pos, "comparison requires a value-returning function")
		}
		return &Comparable{Type: ComparableFunc, Func: fn}, nil

	default:
		return nil, syntaxErrorf("unexpected-token", p.curr.Pos, "unexpected %s in comparable", p.curr.Type)
	}
}

func (p *Parser) parseLiteral() (*LiteralValue, error) {
	tok := p.curr
	switch tok.Type {
	case TokenString:
		p.advance()
		return &LiteralValue{Type: LiteralString, Str: tok.Value}, nil
	case TokenNumber:
		n, err := strconv.ParseFloat(tok.Value, 64)
		if err != nil {
			return nil, syntaxErrorf("invalid-number", tok.Pos, "invalid number %q", tok.Value)
		}
		p.advance()
		return &LiteralValue{Type: LiteralNumber, Num: n}, nil
	case TokenTrue:
		p.advance()
		return &LiteralValue{Type: LiteralTrue}, nil
	case TokenFalse:
		p.advance()
		return &LiteralValue{Type: LiteralFalse}, nil
	case TokenNull:
		p.advance()
		return &LiteralValue{Type: LiteralNull}, nil
	default:
		return nil, syntaxErrorf("unexpected-token", tok.Pos, "expected literal, got %s", tok.Type)
	}
}

// --- function calls -------------------------------------------------------

func (p *Parser) parseFunctionExpr() (*FuncCall, error) {
	if err := p.expect(TokenIdent, "expected-function-name"); err != nil {
		return nil, err
	}
	name := p.curr.Value
	namePos := p.curr.Pos
	sig, ok := funcSignatures[name]
	if !ok {
		return nil, syntaxErrorf("unknown-function", namePos, "unknown function %q", name)
	}
	p.advance()

	if err := p.expect(TokenLParen, "expected-lparen"); err != nil {
		return nil, err
	}
	p.advance()

	fn := &FuncCall{Name: name, Return: sig.Return, Params: sig.Params}
	for i, kind := range sig.Params {
		if i > 0 {
			if err := p.expect(TokenComma, "expected-comma"); err != nil {
				return nil, err
			}
			p.advance()
		}
		arg, err := p.parseFuncArg(kind)
		if err != nil {
			return nil, err
		}
		fn.Args = append(fn.Args, arg)
	}

	if err := p.expect(TokenRParen, "expected-rparen"); err != nil {
		return nil, err
	}
	p.advance()
	return fn, nil
}

func (p *Parser) parseFuncArg(kind ParamKind) (*FuncArg, error) {
	switch kind {
	case ParamLogical:
		expr, err := p.parseLogicalExpr()
		if err != nil {
			return nil, err
		}
		return &FuncArg{Type: ArgLogical, Logical: expr}, nil

	case ParamNodes:
		if p.curr.Type != TokenRoot && p.curr.Type != TokenCurrent {
			return nil, syntaxErrorf("expected-query", p.curr.Pos, "expected a query for nodes argument, got %s", p.curr.Type)
		}
		q, err := p.parseEmbeddedQuery()
		if err != nil {
			return nil, err
		}
		return &FuncArg{Type: ArgQuery, Query: q}, nil

	case ParamValue:
		switch p.curr.Type {
		case TokenString, TokenNumber, TokenTrue, TokenFalse, TokenNull:
			lit, err := p.parseLiteral()
			if err != nil {
				return nil, err
			}
			return &FuncArg{Type: ArgLiteral, Literal: lit}, nil
		case TokenRoot, TokenCurrent:
			pos := p.curr.Pos
			q, err := p.parseEmbeddedQuery()
			if err != nil {
				return nil, err
			}
			if !q.Singular {
				return nil, syntaxErrorf("non-singular-argument", pos, "value argument requires a singular query")
			}
			return &FuncArg{Type: ArgQuery, Query: q}, nil
		case TokenIdent:
			pos := p.curr.Pos
			fn, err := p.parseFunctionExpr()
			if err != nil {
				return nil, err
			}
			if fn.Return != ReturnValue {
				return nil, syntaxErrorf("wrong-return-kind", pos, "value argument requires a value-returning function")
			}
			return &FuncArg{Type: ArgFunc, Func: fn}, nil
		default:
			return nil, syntaxErrorf("unexpected-token", p.curr.Pos, "unexpected %s in value argument", p.curr.Type)
		}

	default:
		return nil, syntaxErrorf("internal", p.curr.Pos, "unknown parameter kind")
	}
}

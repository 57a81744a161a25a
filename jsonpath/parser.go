package jsonpath

import "unicode"

// parserState wraps the scanner with the query context needed to resolve
// function names and carry queryScope while parsing filter expressions -
// the parser is the gatekeeper for both syntax and filter-expression
// typing (RFC 9535 §2.3.5 / specification §4.1).
type parserState struct {
	*innerParser
	ctx *QueryContext
}

// ParseQuery requires a leading "$", parses every segment, and fails if
// any input remains afterwards.
func ParseQuery(s string, opts *Options) (*Query, error) {
	p := &parserState{innerParser: &innerParser{input: s}, ctx: coerceQueryContext(opts)}
	if p.next() != '$' {
		return nil, p.errorf("a query must start with '$'")
	}
	p.consume()
	q, err := p.parseSegments()
	if err != nil {
		return nil, err
	}
	if !p.atEOF() {
		return nil, p.errorf("unexpected trailing input")
	}
	return &Query{Segments: q}, nil
}

// TryParseQuery maps a ParseQuery failure to (nil, false) instead of an error.
func TryParseQuery(s string, opts *Options) (*Query, bool) {
	q, err := ParseQuery(s, opts)
	if err != nil {
		return nil, false
	}
	return q, true
}

// ParseImplicitQuery allows an optional leading "$"; if absent, a leading
// "*" or shorthand name becomes the first child segment.
func ParseImplicitQuery(s string, opts *Options) (*Query, error) {
	p := &parserState{innerParser: &innerParser{input: s}, ctx: coerceQueryContext(opts)}
	var segs []*Segment
	if p.peek() == '$' {
		p.next()
		p.consume()
	} else {
		seg, err := p.parseImplicitFirstSegment()
		if err != nil {
			return nil, err
		}
		segs = append(segs, seg)
	}
	rest, err := p.parseSegments()
	if err != nil {
		return nil, err
	}
	segs = append(segs, rest...)
	if !p.atEOF() {
		return nil, p.errorf("unexpected trailing input")
	}
	return &Query{Segments: segs}, nil
}

func (p *parserState) parseImplicitFirstSegment() (*Segment, *ParseError) {
	if p.peek() == '*' {
		p.next()
		p.consume()
		return &Segment{Kind: ChildSegment, Selectors: []*Selector{{Kind: WildcardSelector}}}, nil
	}
	name, err := p.parseShorthandName()
	if err != nil {
		return nil, err
	}
	return &Segment{Kind: ChildSegment, Selectors: []*Selector{{Kind: NameSelector, Name: name}}}, nil
}

// ParseSegment parses exactly one segment, consuming the entire input.
func ParseSegment(s string, opts *Options) (*Segment, error) {
	p := &parserState{innerParser: &innerParser{input: s}, ctx: coerceQueryContext(opts)}
	seg, err := p.parseSegment()
	if err != nil {
		return nil, err
	}
	if !p.atEOF() {
		return nil, p.errorf("unexpected trailing input")
	}
	return seg, nil
}

// TryParseSegment maps a ParseSegment failure to (nil, false).
func TryParseSegment(s string, opts *Options) (*Segment, bool) {
	seg, err := ParseSegment(s, opts)
	if err != nil {
		return nil, false
	}
	return seg, true
}

// ParseSelector parses exactly one bracketed selector, consuming the entire
// input.
func ParseSelector(s string, opts *Options) (*Selector, error) {
	p := &parserState{innerParser: &innerParser{input: s}, ctx: coerceQueryContext(opts)}
	sel, err := p.parseSelector()
	if err != nil {
		return nil, err
	}
	if !p.atEOF() {
		return nil, p.errorf("unexpected trailing input")
	}
	return sel, nil
}

// TryParseSelector maps a ParseSelector failure to (nil, false).
func TryParseSelector(s string, opts *Options) (*Selector, bool) {
	sel, err := ParseSelector(s, opts)
	if err != nil {
		return nil, false
	}
	return sel, true
}

// ParseExpression parses exactly one filter expression (the part following
// "?"), consuming the entire input.
func ParseExpression(s string, opts *Options) (*Expression, error) {
	p := &parserState{innerParser: &innerParser{input: s}, ctx: coerceQueryContext(opts)}
	restore := p.ctx.pushScope(scopeExpression)
	defer restore()
	expr, err := p.parseLogicalOrExpr()
	if err != nil {
		return nil, err
	}
	if !p.atEOF() {
		return nil, p.errorf("unexpected trailing input")
	}
	return expr, nil
}

// TryParseExpression maps a ParseExpression failure to (nil, false).
func TryParseExpression(s string, opts *Options) (*Expression, bool) {
	expr, err := ParseExpression(s, opts)
	if err != nil {
		return nil, false
	}
	return expr, true
}

// --- segments & selectors ---

func (p *parserState) parseSegments() ([]*Segment, *ParseError) {
	var segs []*Segment
	for {
		save := p.pos
		p.skipBlanks()
		switch p.peek() {
		case '.', '[':
			seg, err := p.parseSegment()
			if err != nil {
				return nil, err
			}
			segs = append(segs, seg)
		default:
			p.pos = save
			p.start = save
			return segs, nil
		}
	}
}

func (p *parserState) parseSegment() (*Segment, *ParseError) {
	switch p.peek() {
	case '.':
		p.next()
		p.consume()
		if p.peek() == '.' {
			p.next()
			p.consume()
			return p.parseDescendantTail()
		}
		return p.parseDotTail(ChildSegment)
	case '[':
		sels, err := p.parseBracketedSelectors()
		if err != nil {
			return nil, err
		}
		return &Segment{Kind: ChildSegment, Selectors: sels}, nil
	default:
		return nil, p.errorf("expected '.', '..' or '[' to start a segment")
	}
}

func (p *parserState) parseDotTail(kind segmentKind) (*Segment, *ParseError) {
	if p.peek() == '*' {
		p.next()
		p.consume()
		return &Segment{Kind: kind, Selectors: []*Selector{{Kind: WildcardSelector}}}, nil
	}
	name, err := p.parseShorthandName()
	if err != nil {
		return nil, err
	}
	return &Segment{Kind: kind, Selectors: []*Selector{{Kind: NameSelector, Name: name}}}, nil
}

func (p *parserState) parseDescendantTail() (*Segment, *ParseError) {
	if p.peek() == '[' {
		sels, err := p.parseBracketedSelectors()
		if err != nil {
			return nil, err
		}
		return &Segment{Kind: DescendantSegment, Selectors: sels}, nil
	}
	return p.parseDotTail(DescendantSegment)
}

func (p *parserState) parseShorthandName() (string, *ParseError) {
	r := p.peek()
	if !isNameFirst(r) {
		return "", p.errorf("expected a name")
	}
	p.next()
	for isNameChar(p.peek()) {
		p.next()
	}
	return p.consume(), nil
}

func isNameFirst(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || r >= 0x80
}

func isNameChar(r rune) bool {
	return isNameFirst(r) || unicode.IsDigit(r)
}

func (p *parserState) parseBracketedSelectors() ([]*Selector, *ParseError) {
	if p.next() != '[' {
		return nil, p.errorf("expected '['")
	}
	p.consume()
	p.skipBlanks()
	var sels []*Selector
	for {
		sel, err := p.parseSelector()
		if err != nil {
			return nil, err
		}
		sels = append(sels, sel)
		p.skipBlanks()
		if p.peek() == ',' {
			p.next()
			p.consume()
			p.skipBlanks()
			continue
		}
		break
	}
	p.skipBlanks()
	if p.next() != ']' {
		return nil, p.errorf("expected ',' or ']'")
	}
	p.consume()
	return sels, nil
}

func (p *parserState) parseSelector() (*Selector, *ParseError) {
	switch r := p.peek(); {
	case r == '\'' || r == '"':
		name, err := p.parseQuote()
		if err != nil {
			return nil, err
		}
		return &Selector{Kind: NameSelector, Name: name}, nil
	case r == '*':
		p.next()
		p.consume()
		return &Selector{Kind: WildcardSelector}, nil
	case r == '?':
		p.next()
		p.consume()
		p.skipBlanks()
		restore := p.ctx.pushScope(scopeExpression)
		expr, err := p.parseLogicalOrExpr()
		restore()
		if err != nil {
			return nil, err
		}
		return &Selector{Kind: FilterSelector, Expr: expr}, nil
	case r == '-' || unicode.IsDigit(r):
		return p.parseIndexOrSlice()
	case r == ':':
		return p.parseIndexOrSlice()
	default:
		return nil, p.errorf("invalid selector")
	}
}

func (p *parserState) parseIndexOrSlice() (*Selector, *ParseError) {
	var first *int64
	if p.peek() == '-' || unicode.IsDigit(p.peek()) {
		n, err := p.parseInteger()
		if err != nil {
			return nil, err
		}
		first = &n
	}
	save := p.pos
	p.skipBlanks()
	if p.peek() != ':' {
		p.pos, p.start = save, save
		if first == nil {
			return nil, p.errorf("expected an index or a slice")
		}
		return &Selector{Kind: IndexSelector, Index: *first}, nil
	}
	p.next()
	p.consume()
	p.skipBlanks()
	var end, step *int64
	if p.peek() == '-' || unicode.IsDigit(p.peek()) {
		n, err := p.parseInteger()
		if err != nil {
			return nil, err
		}
		end = &n
	}
	save = p.pos
	p.skipBlanks()
	if p.peek() == ':' {
		p.next()
		p.consume()
		p.skipBlanks()
		if p.peek() == '-' || unicode.IsDigit(p.peek()) {
			n, err := p.parseInteger()
			if err != nil {
				return nil, err
			}
			step = &n
		}
	} else {
		p.pos, p.start = save, save
	}
	return &Selector{Kind: SliceSelector, Start: first, End: end, Step: step}, nil
}

// --- filter expressions ---

func (p *parserState) parseLogicalOrExpr() (*Expression, *ParseError) {
	first, err := p.parseLogicalAndExpr()
	if err != nil {
		return nil, err
	}
	operands := []*Expression{first}
	for {
		save := p.pos
		p.skipBlanks()
		if p.peek() == '|' {
			p.next()
			if p.peek() != '|' {
				p.pos, p.start = save, save
				break
			}
			p.next()
			p.consume()
			p.skipBlanks()
			next, err := p.parseLogicalAndExpr()
			if err != nil {
				return nil, err
			}
			operands = append(operands, next)
			continue
		}
		p.pos, p.start = save, save
		break
	}
	if len(operands) == 1 {
		return operands[0], nil
	}
	return &Expression{Kind: OrExpr, Operands: operands}, nil
}

func (p *parserState) parseLogicalAndExpr() (*Expression, *ParseError) {
	first, err := p.parseBasicExpr()
	if err != nil {
		return nil, err
	}
	operands := []*Expression{first}
	for {
		save := p.pos
		p.skipBlanks()
		if p.peek() == '&' {
			p.next()
			if p.peek() != '&' {
				p.pos, p.start = save, save
				break
			}
			p.next()
			p.consume()
			p.skipBlanks()
			next, err := p.parseBasicExpr()
			if err != nil {
				return nil, err
			}
			operands = append(operands, next)
			continue
		}
		p.pos, p.start = save, save
		break
	}
	if len(operands) == 1 {
		return operands[0], nil
	}
	return &Expression{Kind: AndExpr, Operands: operands}, nil
}

// parseBasicExpr tries, in RFC order, paren-expr, then comparison-expr,
// then test-expr - the three alternatives overlap in their leading tokens
// ('!' can start either paren-expr or test-expr; a function call can start
// either comparison-expr or test-expr) so each attempt rewinds the scanner
// on failure rather than committing early.
func (p *parserState) parseBasicExpr() (*Expression, *ParseError) {
	save := p.pos

	if expr, err := p.tryParenExpr(); err == nil {
		return expr, nil
	}
	p.pos, p.start = save, save

	expr, committed, err := p.tryComparisonExpr()
	if committed {
		return expr, err
	}
	p.pos, p.start = save, save

	return p.parseTestExpr()
}

func (p *parserState) tryParenExpr() (*Expression, *ParseError) {
	negate := false
	if p.peek() == '!' {
		save := p.pos
		p.next()
		p.consume()
		p.skipBlanks()
		if p.peek() != '(' {
			p.pos, p.start = save, save
			return nil, p.errorf("not a paren-expr")
		}
		negate = true
	}
	if p.peek() != '(' {
		return nil, p.errorf("not a paren-expr")
	}
	p.next()
	p.consume()
	p.skipBlanks()
	inner, err := p.parseLogicalOrExpr()
	if err != nil {
		return nil, err
	}
	p.skipBlanks()
	if p.peek() != ')' {
		return nil, p.errorf("expected ')'")
	}
	p.next()
	p.consume()
	if negate {
		return &Expression{Kind: NotExpr, Operand: inner}, nil
	}
	return inner, nil
}

// tryComparisonExpr returns committed=true once a comparison operator has
// been matched after the left operand - from that point on a failure
// (malformed right operand, type-rule violation) is a real parse error,
// not a signal to fall back to test-expr.
func (p *parserState) tryComparisonExpr() (expr *Expression, committed bool, err *ParseError) {
	lhs, lhsErr := p.parseComparable()
	if lhsErr != nil {
		return nil, false, lhsErr
	}
	save := p.pos
	p.skipBlanks()
	op, ok := p.peekComparisonOp()
	if !ok {
		p.pos, p.start = save, save
		return nil, false, p.errorf("not a comparison-expr")
	}
	p.consumeComparisonOp()
	p.skipBlanks()
	rhs, rhsErr := p.parseComparable()
	if rhsErr != nil {
		return nil, true, rhsErr
	}
	if cErr := checkComparable(lhs, p.input, p.pos); cErr != nil {
		return nil, true, cErr
	}
	if cErr := checkComparable(rhs, p.input, p.pos); cErr != nil {
		return nil, true, cErr
	}
	return &Expression{Kind: ComparisonExpr, Lhs: lhs, Op: op, Rhs: rhs}, true, nil
}

func (p *parserState) peekComparisonOp() (ComparisonOperator, bool) {
	rest := p.input[p.pos:]
	switch {
	case len(rest) >= 2 && rest[:2] == "==":
		return Equal, true
	case len(rest) >= 2 && rest[:2] == "!=":
		return NotEqual, true
	case len(rest) >= 2 && rest[:2] == "<=":
		return LessEq, true
	case len(rest) >= 2 && rest[:2] == ">=":
		return GreaterEq, true
	case len(rest) >= 1 && rest[:1] == "<":
		return Less, true
	case len(rest) >= 1 && rest[:1] == ">":
		return Greater, true
	default:
		return 0, false
	}
}

func (p *parserState) consumeComparisonOp() {
	n := 1
	rest := p.input[p.pos:]
	if len(rest) >= 2 {
		switch rest[:2] {
		case "==", "!=", "<=", ">=":
			n = 2
		}
	}
	for i := 0; i < n; i++ {
		p.next()
	}
	p.consume()
}

// parseComparable parses comparable = literal / singular-query / function-expr.
func (p *parserState) parseComparable() (*Expression, *ParseError) {
	switch r := p.peek(); {
	case r == '$' || r == '@':
		return p.parseFilterQuery()
	case r == '\'' || r == '"':
		s, err := p.parseQuote()
		if err != nil {
			return nil, err
		}
		return &Expression{Kind: LiteralExpr, Literal: s}, nil
	case r == '-' || unicode.IsDigit(r):
		n, err := p.parseNumber()
		if err != nil {
			return nil, err
		}
		return &Expression{Kind: LiteralExpr, Literal: n}, nil
	case r == 't' || r == 'f' || r == 'n':
		return p.parseKeywordLiteral()
	case isNameFirst(r):
		return p.parseFunctionCall()
	default:
		return nil, p.errorf("expected a literal, a query or a function call")
	}
}

func (p *parserState) parseKeywordLiteral() (*Expression, *ParseError) {
	rest := p.input[p.pos:]
	switch {
	case len(rest) >= 4 && rest[:4] == "true":
		for i := 0; i < 4; i++ {
			p.next()
		}
		p.consume()
		return &Expression{Kind: LiteralExpr, Literal: true}, nil
	case len(rest) >= 5 && rest[:5] == "false":
		for i := 0; i < 5; i++ {
			p.next()
		}
		p.consume()
		return &Expression{Kind: LiteralExpr, Literal: false}, nil
	case len(rest) >= 4 && rest[:4] == "null":
		for i := 0; i < 4; i++ {
			p.next()
		}
		p.consume()
		return &Expression{Kind: LiteralExpr, Literal: nil}, nil
	default:
		// not a keyword: a function name that starts with t, f or n
		return p.parseFunctionCall()
	}
}

// parseFilterQuery parses a "$..." or "@..." query occurring inside a
// filter expression.
func (p *parserState) parseFilterQuery() (*Expression, *ParseError) {
	root := byte(p.next())
	p.consume()
	segs, err := p.parseSegments()
	if err != nil {
		return nil, err
	}
	return &Expression{Kind: QueryExpr, Root: root, Query: &Query{Segments: segs}}, nil
}

func (p *parserState) parseFunctionName() (string, *ParseError) {
	r := p.peek()
	if !(r >= 'a' && r <= 'z') {
		return "", p.errorf("expected a function name")
	}
	p.next()
	for {
		r := p.peek()
		if (r >= 'a' && r <= 'z') || r == '_' || unicode.IsDigit(r) {
			p.next()
			continue
		}
		break
	}
	return p.consume(), nil
}

func (p *parserState) parseFunctionCall() (*Expression, *ParseError) {
	startPos := p.pos
	name, err := p.parseFunctionName()
	if err != nil {
		return nil, err
	}
	if p.peek() != '(' {
		return nil, p.errorf("expected '(' after function name %q", name)
	}
	fn, ok := p.ctx.lookupFunction(name)
	if !ok {
		return nil, newParseErrorf(p.input, startPos, "unknown function %q", name)
	}
	p.next()
	p.consume()
	p.skipBlanks()
	var args []*Expression
	if p.peek() != ')' {
		for {
			arg, err := p.parseFunctionArgument(fn.ParameterTypes, len(args))
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			p.skipBlanks()
			if p.peek() == ',' {
				p.next()
				p.consume()
				p.skipBlanks()
				continue
			}
			break
		}
	}
	if p.next() != ')' {
		return nil, p.errorf("expected ',' or ')' in argument list of %q", name)
	}
	p.consume()
	if len(args) != len(fn.ParameterTypes) {
		return nil, newParseErrorf(p.input, startPos, "function %q expects %d argument(s), got %d", name, len(fn.ParameterTypes), len(args))
	}
	return &Expression{Kind: FunctionExpr, Function: fn, Args: args}, nil
}

// parseFunctionArgument parses one function-call argument as a whole-unit
// literal/query/function-expr when possible (so the test-expr rule the
// bare-function case would otherwise apply is suspended: the declared
// parameter type check below is authoritative instead), falling back to
// the full logical-expr grammar for anything compound (&&, ||, !, parens,
// a comparison).
func (p *parserState) parseFunctionArgument(paramTypes []DeclaredType, index int) (*Expression, *ParseError) {
	var want DeclaredType
	if index < len(paramTypes) {
		want = paramTypes[index]
	} else {
		want = ValueType
	}

	save := p.pos
	restoreScope := p.ctx.pushScope(scopeArgument)
	arg, err := p.tryBareArgument()
	restoreScope()
	if err == nil {
		if checkErr := checkFunctionArgument(arg, want, p.input, save); checkErr != nil {
			return nil, checkErr
		}
		return arg, nil
	}
	p.pos, p.start = save, save

	restoreScope = p.ctx.pushScope(scopeExpression)
	arg, err = p.parseLogicalOrExpr()
	restoreScope()
	if err != nil {
		return nil, err
	}
	if checkErr := checkFunctionArgument(arg, want, p.input, save); checkErr != nil {
		return nil, checkErr
	}
	return arg, nil
}

// tryBareArgument attempts literal / filter-query / function-expr as the
// entire argument. The parsed atom only counts as the whole argument if
// nothing but a comma or closing paren follows it; a trailing operator
// (&&, ||, a comparison, ...) means this was just the leading atom of a
// compound expression, so the caller must fall back to the full grammar.
func (p *parserState) tryBareArgument() (*Expression, *ParseError) {
	var arg *Expression
	var err *ParseError
	switch r := p.peek(); {
	case r == '\'' || r == '"' || r == '-' || unicode.IsDigit(r) || r == 't' || r == 'f' || r == 'n':
		arg, err = p.parseComparable()
	case r == '$' || r == '@':
		arg, err = p.parseFilterQuery()
	case isNameFirst(r):
		arg, err = p.parseFunctionCall()
	default:
		return nil, p.errorf("not a bare argument")
	}
	if err != nil {
		return nil, err
	}
	p.skipBlanks()
	if r := p.peek(); r != ',' && r != ')' {
		return nil, p.errorf("not a bare argument")
	}
	return arg, nil
}

func (p *parserState) parseTestExpr() (*Expression, *ParseError) {
	negate := false
	if p.peek() == '!' {
		p.next()
		p.consume()
		negate = true
	}
	var inner *Expression
	var err *ParseError
	switch r := p.peek(); {
	case r == '$' || r == '@':
		inner, err = p.parseFilterQuery()
	case isNameFirst(r):
		inner, err = p.parseFunctionCall()
	default:
		return nil, p.errorf("expected a filter-query or a function call")
	}
	if err != nil {
		return nil, err
	}
	if inner.Kind == FunctionExpr && p.ctx.queryScope != scopeArgument {
		if inner.Function.ResultType == ValueType {
			return nil, p.errorf("function %q returns a Value and cannot be used directly as a filter test", inner.Function.Name)
		}
	}
	if negate {
		return &Expression{Kind: NotExpr, Operand: inner}, nil
	}
	return inner, nil
}

// checkComparable enforces rule 1: each side of a comparison must be
// Value-typed - a literal, a singular query, or a Value-returning function.
func checkComparable(e *Expression, input string, pos int) *ParseError {
	switch e.Kind {
	case LiteralExpr:
		return nil
	case QueryExpr:
		if !isSingularQuery(e.Query) {
			return newParseErrorf(input, pos, "a comparison operand must be a singular query")
		}
		return nil
	case FunctionExpr:
		if e.Function.ResultType != ValueType {
			return newParseErrorf(input, pos, "function %q does not return a Value, cannot be used as a comparison operand", e.Function.Name)
		}
		return nil
	default:
		return newParseErrorf(input, pos, "invalid comparison operand")
	}
}

// checkFunctionArgument enforces rule 3's per-parameter-type argument rules.
func checkFunctionArgument(arg *Expression, want DeclaredType, input string, pos int) *ParseError {
	switch want {
	case ValueType:
		switch arg.Kind {
		case LiteralExpr:
			return nil
		case QueryExpr:
			if !isSingularQuery(arg.Query) {
				return newParseErrorf(input, pos, "non-singular query cannot be used where a Value parameter is expected")
			}
			return nil
		case FunctionExpr:
			if arg.Function.ResultType != ValueType {
				return newParseErrorf(input, pos, "function %q does not return a Value, cannot be used where a Value parameter is expected", arg.Function.Name)
			}
			return nil
		default:
			return newParseErrorf(input, pos, "expected a literal, a singular query, or a Value-returning function")
		}
	case LogicalType:
		switch arg.Kind {
		case LiteralExpr:
			return newParseErrorf(input, pos, "a literal cannot be used where a Logical parameter is expected")
		case FunctionExpr:
			if arg.Function.ResultType == ValueType {
				return newParseErrorf(input, pos, "function %q returns a Value, cannot be used where a Logical parameter is expected", arg.Function.Name)
			}
			return nil
		default:
			return nil
		}
	case NodesType:
		switch arg.Kind {
		case QueryExpr:
			return nil
		case FunctionExpr:
			if arg.Function.ResultType != NodesType {
				return newParseErrorf(input, pos, "function %q does not return Nodes, cannot be used where a Nodes parameter is expected", arg.Function.Name)
			}
			return nil
		default:
			return newParseErrorf(input, pos, "expected a query or a Nodes-returning function")
		}
	default:
		return nil
	}
}

package jsonpath

// Nodelist is an ordered, duplicate-preserving sequence of JSON nodes - the
// result of evaluating a Query, Segment or Selector. It is never
// deduplicated; count() and the nodelist-identity property in the
// specification's testable-properties section both depend on that.
type Nodelist = []any

// evaluateQueryNodes threads an input nodelist through every segment of q
// in order.
func evaluateQueryNodes(q *Query, nodes Nodelist, ctx *QueryContext) Nodelist {
	cur := nodes
	for _, seg := range q.Segments {
		cur = evaluateSegment(seg, cur, ctx)
		if len(cur) == 0 {
			return cur
		}
	}
	return cur
}

// evaluateSegment applies seg to nodes, producing a new nodelist.
func evaluateSegment(seg *Segment, nodes Nodelist, ctx *QueryContext) Nodelist {
	var out Nodelist
	switch seg.Kind {
	case ChildSegment:
		// selectors outer, nodes inner - observable when a child segment
		// carries more than one selector (specification §8).
		for _, sel := range seg.Selectors {
			for _, n := range nodes {
				out = append(out, evaluateSelector(sel, n, ctx)...)
			}
		}
	case DescendantSegment:
		for _, n := range nodes {
			for _, sel := range seg.Selectors {
				out = append(out, evaluateSelector(sel, n, ctx)...)
			}
			for _, d := range getDescendants(n) {
				for _, sel := range seg.Selectors {
					out = append(out, evaluateSelector(sel, d, ctx)...)
				}
			}
		}
	}
	return out
}

// evaluateSelector applies sel to the single node n.
func evaluateSelector(sel *Selector, n any, ctx *QueryContext) Nodelist {
	switch sel.Kind {
	case NameSelector:
		if v, ok := getChild(n, sel.Name); ok {
			return Nodelist{v}
		}
		return nil
	case WildcardSelector:
		return getChildren(n)
	case IndexSelector:
		arr, ok := n.([]any)
		if !ok {
			return nil
		}
		L := int64(len(arr))
		j := sel.Index
		if j < 0 {
			j += L
		}
		if j < 0 || j >= L {
			return nil
		}
		return Nodelist{arr[j]}
	case SliceSelector:
		return evaluateSlice(sel, n)
	case FilterSelector:
		var out Nodelist
		for _, child := range getChildren(n) {
			if evaluateExpression(sel.Expr, child, ctx) {
				out = append(out, child)
			}
		}
		return out
	default:
		return nil
	}
}

func normalizeSliceBound(v, length int64) int64 {
	if v < 0 {
		return v + length
	}
	return v
}

func clampInt64(v, lo, hi int64) int64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// evaluateSlice implements the RFC 9535 §2.3.4 slice-selector arithmetic
// (specification §4.3.2): normalize negative bounds by adding the array
// length, clamp to the direction-appropriate range, then step from lower to
// upper (or upper down to lower for a negative step).
func evaluateSlice(sel *Selector, n any) Nodelist {
	arr, ok := n.([]any)
	if !ok {
		return nil
	}
	L := int64(len(arr))

	step := int64(1)
	if sel.Step != nil {
		step = *sel.Step
	} else if L == 0 {
		step = 0
	}
	if step == 0 {
		return nil
	}

	var out Nodelist
	if step > 0 {
		start := int64(0)
		if sel.Start != nil {
			start = *sel.Start
		}
		end := L
		if sel.End != nil {
			end = *sel.End
		}
		lower := clampInt64(normalizeSliceBound(start, L), 0, L)
		upper := clampInt64(normalizeSliceBound(end, L), 0, L)
		for i := lower; i < upper; i += step {
			out = append(out, arr[i])
		}
	} else {
		start := L - 1
		if sel.Start != nil {
			start = *sel.Start
		}
		end := -L - 1
		if sel.End != nil {
			end = *sel.End
		}
		lower := clampInt64(normalizeSliceBound(end, L), -1, L-1)
		upper := clampInt64(normalizeSliceBound(start, L), -1, L-1)
		for i := upper; i > lower; i += step {
			out = append(out, arr[i])
		}
	}
	return out
}

// evaluateQueryExpr evaluates an embedded "$..." or "@..." query occurring
// inside a filter expression. "@" is rooted at node, the current filter
// node; "$" always refers to the outermost query argument, never to any
// intervening filter node, so it reads ctx.queryArgument directly rather
// than node.
func evaluateQueryExpr(expr *Expression, node any, ctx *QueryContext) Nodelist {
	var root any
	if expr.Root == '@' {
		root = node
	} else {
		restore := ctx.pushRoot(ctx.queryArgument)
		defer restore()
		root = ctx.queryArgument
	}
	return evaluateQueryNodes(expr.Query, Nodelist{root}, ctx)
}

// evaluateExpression evaluates expr in a logical (test-expression)
// position, returning its boolean result. Literal is rejected here; the
// parser never produces a bare literal in this position.
func evaluateExpression(expr *Expression, node any, ctx *QueryContext) bool {
	switch expr.Kind {
	case OrExpr:
		for _, op := range expr.Operands {
			if evaluateExpression(op, node, ctx) {
				return true
			}
		}
		return false
	case AndExpr:
		for _, op := range expr.Operands {
			if !evaluateExpression(op, node, ctx) {
				return false
			}
		}
		return true
	case NotExpr:
		return !evaluateExpression(expr.Operand, node, ctx)
	case QueryExpr:
		return len(evaluateQueryExpr(expr, node, ctx)) != 0
	case ComparisonExpr:
		return evaluateComparison(expr, node, ctx)
	case FunctionExpr:
		result := evaluateFunctionCall(expr, node, ctx)
		switch expr.Function.ResultType {
		case LogicalType:
			b, _ := result.(bool)
			return b
		case NodesType:
			nodes, _ := result.(Nodelist)
			return len(nodes) != 0
		default:
			panic(&EvalError{Msg: "a Value-returning function cannot be used as a test-expression"})
		}
	default:
		panic(&EvalError{Msg: "a literal cannot be used as a test-expression"})
	}
}

// evaluateComparableExpression evaluates expr in a comparison or
// Value-argument position, returning a 0- or 1-length nodelist: [value]
// for a literal, the sub-query's result for Query (0 or 1 given the
// parser's singular-query guarantee), and [v] or [] (for Nothing) for a
// Value-returning function.
func evaluateComparableExpression(expr *Expression, node any, ctx *QueryContext) Nodelist {
	switch expr.Kind {
	case LiteralExpr:
		return Nodelist{expr.Literal}
	case QueryExpr:
		return evaluateQueryExpr(expr, node, ctx)
	case FunctionExpr:
		v := evaluateFunctionCall(expr, node, ctx)
		if isNothing(v) {
			return nil
		}
		return Nodelist{v}
	default:
		panic(&EvalError{Msg: "invalid comparable expression"})
	}
}

// evaluateComparison implements the comparison truth table (specification
// §4.3.3). The parser forbids non-singular query operands, so each side's
// nodelist has length 0 (Nothing) or 1 (a single JSON value).
func evaluateComparison(expr *Expression, node any, ctx *QueryContext) bool {
	lhs := evaluateComparableExpression(expr.Lhs, node, ctx)
	rhs := evaluateComparableExpression(expr.Rhs, node, ctx)

	switch {
	case len(lhs) == 0 && len(rhs) == 0:
		switch expr.Op {
		case Equal, LessEq, GreaterEq:
			return true
		default:
			return false
		}
	case len(lhs) != 1 || len(rhs) != 1:
		// one side empty, the other present (both-empty handled above); a
		// side of length >= 2 cannot occur given the parser's
		// singular-query guarantee and falls into this same "false for
		// all but !=" case.
		return expr.Op == NotEqual
	default:
		a, b := lhs[0], rhs[0]
		switch expr.Op {
		case Equal:
			return equal(a, b)
		case NotEqual:
			return !equal(a, b)
		case Less:
			c, ok := compare(a, b)
			return ok && c < 0
		case LessEq:
			c, ok := compare(a, b)
			return ok && c <= 0
		case Greater:
			c, ok := compare(a, b)
			return ok && c > 0
		case GreaterEq:
			c, ok := compare(a, b)
			return ok && c >= 0
		default:
			return false
		}
	}
}

// evaluateFunctionCall evaluates every argument per its declared parameter
// type (specification §4.3.4) and dispatches to the function's Evaluate.
func evaluateFunctionCall(expr *Expression, node any, ctx *QueryContext) any {
	fn := expr.Function
	args := make([]any, len(expr.Args))
	for i, argExpr := range expr.Args {
		args[i] = evaluateFunctionArgument(argExpr, fn.ParameterTypes[i], node, ctx)
	}
	return fn.Evaluate(args, ctx)
}

func evaluateFunctionArgument(argExpr *Expression, want DeclaredType, node any, ctx *QueryContext) any {
	switch want {
	case ValueType:
		switch argExpr.Kind {
		case LiteralExpr:
			return argExpr.Literal
		case QueryExpr:
			nodes := evaluateQueryExpr(argExpr, node, ctx)
			if len(nodes) == 1 {
				return nodes[0]
			}
			return Nothing
		case FunctionExpr:
			return evaluateFunctionCall(argExpr, node, ctx)
		default:
			panic(&EvalError{Msg: "invalid Value argument"})
		}
	case LogicalType:
		if argExpr.Kind == FunctionExpr {
			result := evaluateFunctionCall(argExpr, node, ctx)
			if argExpr.Function.ResultType == NodesType {
				nodes, _ := result.(Nodelist)
				return len(nodes) != 0
			}
			b, _ := result.(bool)
			return b
		}
		return evaluateExpression(argExpr, node, ctx)
	case NodesType:
		switch argExpr.Kind {
		case QueryExpr:
			return evaluateQueryExpr(argExpr, node, ctx)
		case FunctionExpr:
			result := evaluateFunctionCall(argExpr, node, ctx)
			nodes, _ := result.(Nodelist)
			return nodes
		default:
			panic(&EvalError{Msg: "invalid Nodes argument"})
		}
	default:
		panic(&EvalError{Msg: "unknown declared type"})
	}
}

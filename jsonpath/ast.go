package jsonpath

// Query is an ordered list of Segments. An empty Query matches the root
// alone. AST nodes are immutable after construction; a Query owns its
// Segments, a Segment its Selectors, a filter Selector its Expression tree -
// there are no cycles.
type Query struct {
	Segments []*Segment
}

type segmentKind int

const (
	ChildSegment segmentKind = iota
	DescendantSegment
)

// Segment is Child{selectors} or Descendant{selectors}. Selectors is
// non-empty after a successful parse; a descendant segment with no
// selectors (unreachable through the parser, only through direct
// construction) is a no-op at evaluation.
type Segment struct {
	Kind      segmentKind
	Selectors []*Selector
}

type selectorKind int

const (
	NameSelector selectorKind = iota
	WildcardSelector
	IndexSelector
	SliceSelector
	FilterSelector
)

// Selector is Name{str} | Wildcard | Index{i64} | Slice{start?,end?,step?} |
// Filter{expr}. Only the fields relevant to Kind are populated; Start, End
// and Step are nil when absent from the source query.
type Selector struct {
	Kind selectorKind

	Name  string // NameSelector
	Index int64  // IndexSelector

	Start *int64 // SliceSelector
	End   *int64 // SliceSelector
	Step  *int64 // SliceSelector

	Expr *Expression // FilterSelector
}

type exprKind int

const (
	OrExpr exprKind = iota
	AndExpr
	ComparisonExpr
	NotExpr
	QueryExpr
	LiteralExpr
	FunctionExpr
)

// Expression is the filter-expression AST: Or{ops} | And{ops} |
// Comparison{lhs,op,rhs} | Not{op} | Query{id,segments} | Literal{json} |
// Function{ext,args}. FunctionExpr holds a non-owning reference to an
// externally registered FunctionExtension (shared, read-only).
type Expression struct {
	Kind exprKind

	Operands []*Expression // OrExpr / AndExpr, len >= 2 after parse
	Operand  *Expression   // NotExpr

	Lhs *Expression        // ComparisonExpr
	Op  ComparisonOperator // ComparisonExpr
	Rhs *Expression        // ComparisonExpr

	Root  byte   // QueryExpr: '$' or '@'
	Query *Query // QueryExpr: segments following Root

	Literal any // LiteralExpr: string, float64, bool, nil (json null)

	Function *FunctionExtension // FunctionExpr
	Args     []*Expression      // FunctionExpr
}

// DeclaredType reports the statically-known result kind an Expression
// evaluates to in a comparable/value position. Only meaningful for the
// kinds the parser allows in such positions (Query, Literal, Function);
// Or/And/Not/Comparison are always Logical when used as test-expressions.
func (e *Expression) declaredType() DeclaredType {
	switch e.Kind {
	case LiteralExpr:
		return ValueType
	case QueryExpr:
		if isSingularQuery(e.Query) {
			return ValueType
		}
		return NodesType
	case FunctionExpr:
		return e.Function.ResultType
	default:
		return LogicalType
	}
}

// isSingularQuery reports whether q is a singular query: every segment is a
// child segment whose single selector is a Name or an Index. A singular
// query is statically guaranteed to produce at most one node.
func isSingularQuery(q *Query) bool {
	for _, seg := range q.Segments {
		if !isSingularSegment(seg) {
			return false
		}
	}
	return true
}

func isSingularSegment(seg *Segment) bool {
	if seg.Kind != ChildSegment {
		return false
	}
	if len(seg.Selectors) != 1 {
		return false
	}
	return isSingularSelector(seg.Selectors[0])
}

func isSingularSelector(sel *Selector) bool {
	return sel.Kind == NameSelector || sel.Kind == IndexSelector
}

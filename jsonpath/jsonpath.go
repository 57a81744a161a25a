package jsonpath

import "k8s.io/klog/v2"

// EvaluateQuery evaluates a query (either an already-parsed *Query or a
// query string) against root, returning the resulting nodelist. This is
// the package's single richest entry point (specification §6); a string
// query is parsed with opts before evaluation, so a parse error surfaces
// from this call too.
func EvaluateQuery(q any, root any, opts *Options) (Nodelist, error) {
	var query *Query
	switch v := q.(type) {
	case *Query:
		query = v
	case string:
		parsed, err := ParseQuery(v, opts)
		if err != nil {
			return nil, err
		}
		query = parsed
	default:
		return nil, &EvalError{Msg: "q must be a *Query or a query string"}
	}

	ctx := coerceQueryContext(opts)
	restore := ctx.pushRoot(ctx.rootForEvaluation(root))
	defer restore()

	klog.V(4).Infof("jsonpath: evaluating %q against root of type %T", FormatQuery(query), root)
	return evaluateQueryNodes(query, Nodelist{root}, ctx), nil
}

// IsSingularQuery, IsSingularSegment and IsSingularSelector are the public
// forms of the singular-query predicates the parser uses internally to
// gate comparisons and Value-typed function arguments.
func IsSingularQuery(q *Query) bool       { return isSingularQuery(q) }
func IsSingularSegment(s *Segment) bool   { return isSingularSegment(s) }
func IsSingularSelector(s *Selector) bool { return isSingularSelector(s) }

// CreateQueryContext and CoerceQueryContext are the public forms of the
// context constructors used throughout the parser and evaluator.
func CreateQueryContext(opts *Options) *QueryContext { return createQueryContext(opts) }
func CoerceQueryContext(v any) *QueryContext         { return coerceQueryContext(v) }

// IntrinsicFunctions returns the five always-available function
// extensions (length, count, match, search, value), keyed by name.
func IntrinsicFunctions() map[string]*FunctionExtension { return intrinsicFunctions() }

// JSONPath is the parse-once, evaluate-many convenience type: parsing (and
// its static type checking) is the expensive, reusable half of a query, so
// a JSONPath can be compiled once and run against many different JSON
// roots. Mirrors the JSONPath{name, parser}/Execute split.
type JSONPath struct {
	name  string
	query *Query
	ctx   *QueryContext
}

// NewJSONPath creates an unparsed JSONPath identified by name (used only in
// diagnostics).
func NewJSONPath(name string) *JSONPath {
	return &JSONPath{name: name}
}

// Parse compiles query into this JSONPath's AST, using opts for function
// extensions and the default query argument.
func (j *JSONPath) Parse(query string, opts *Options) error {
	ctx := coerceQueryContext(opts)
	q, err := ParseQuery(query, &Options{FunctionExtensions: ctx.functionExtensions})
	if err != nil {
		return err
	}
	j.query = q
	j.ctx = ctx
	klog.V(4).Infof("jsonpath %q: parsed %q", j.name, FormatQuery(q))
	return nil
}

// Parse is a package-level convenience that compiles query in one step.
func Parse(name, query string, opts *Options) (*JSONPath, error) {
	j := NewJSONPath(name)
	if err := j.Parse(query, opts); err != nil {
		return nil, err
	}
	return j, nil
}

// Evaluate runs this JSONPath's compiled query against root.
func (j *JSONPath) Evaluate(root any) (Nodelist, error) {
	if j.query == nil {
		return nil, &EvalError{Msg: "jsonpath " + j.name + ": Parse was not called"}
	}
	restore := j.ctx.pushRoot(j.ctx.rootForEvaluation(root))
	defer restore()
	return evaluateQueryNodes(j.query, Nodelist{root}, j.ctx), nil
}

// String renders the compiled query back to its canonical syntax.
func (j *JSONPath) String() string {
	if j.query == nil {
		return ""
	}
	return FormatQuery(j.query)
}

package jsonpath

// nothingType is the sentinel for Value results signalling absence - the
// argument to a comparison or Value-typed function that matched nothing.
// It is distinct from JSON null, which decodes to a plain Go nil inside the
// any-tree this package evaluates against.
type nothingType struct{}

// Nothing is the Value-position sentinel described in §3/§4.3 of the
// specification: empty, and not equal to JSON null.
var Nothing = nothingType{}

func isNothing(v any) bool {
	_, ok := v.(nothingType)
	return ok
}

// FunctionExtension is a registered filter-expression function:
// {name, parameterTypes, resultType, evaluate}. Evaluate's args slice has
// one entry per ParameterTypes entry, typed per that parameter: a Value
// parameter yields a JSON value or Nothing, a Logical parameter yields a
// bool, a Nodes parameter yields a Nodelist ([]any, possibly empty).
// Evaluate must return a value whose runtime kind matches ResultType: a
// Value result is a JSON value or Nothing, a Logical result is a bool, a
// Nodes result is a Nodelist.
type FunctionExtension struct {
	Name           string
	ParameterTypes []DeclaredType
	ResultType     DeclaredType
	Evaluate       func(args []any, ctx *QueryContext) any
}

type queryScope int

const (
	scopeNone queryScope = iota
	scopeExpression
	scopeArgument
)

// QueryContext carries the function extension registry and the JSON value
// currently bound to $, rebound around embedded sub-queries and restored on
// every exit path (see EvaluateQuery and evaluateQueryExpr). queryScope is a parser-only concern:
// it distinguishes "parsing the body of a filter" from "parsing one
// argument of a function call" so the well-typedness checks in parser.go
// can tell which test-expression rule currently applies.
type QueryContext struct {
	functionExtensions map[string]*FunctionExtension
	queryArgument      any
	queryArgumentFixed bool
	queryScope         queryScope
}

// Options configures query construction, parsing and evaluation.
type Options struct {
	// FunctionExtensions are merged by name over the five intrinsics.
	// Either form is accepted: a slice, or a name-keyed map.
	FunctionExtensions any // []*FunctionExtension | map[string]*FunctionExtension | nil

	// QueryArgument overrides the root used for embedded $ sub-queries;
	// if nil, it defaults to the evaluation root at Evaluate time.
	QueryArgument any
}

// intrinsicFunctions returns the five always-available function
// extensions: length, count, match, search, value.
func intrinsicFunctions() map[string]*FunctionExtension {
	fns := map[string]*FunctionExtension{}
	for _, fn := range []*FunctionExtension{lengthFunction, countFunction, matchFunction, searchFunction, valueFunction} {
		fns[fn.Name] = fn
	}
	return fns
}

// createQueryContext builds a QueryContext for opts, merging any
// user-registered function extensions over the intrinsics.
func createQueryContext(opts *Options) *QueryContext {
	fns := intrinsicFunctions()
	var root any
	var fixed bool
	if opts != nil {
		switch ext := opts.FunctionExtensions.(type) {
		case []*FunctionExtension:
			for _, fn := range ext {
				fns[fn.Name] = fn
			}
		case map[string]*FunctionExtension:
			for name, fn := range ext {
				fns[name] = fn
			}
		}
		if opts.QueryArgument != nil {
			root = opts.QueryArgument
			fixed = true
		}
	}
	return &QueryContext{functionExtensions: fns, queryArgument: root, queryArgumentFixed: fixed}
}

// rootForEvaluation reports the $ binding to use for a top-level Evaluate
// call against evaluationRoot: the configured QueryArgument override if one
// was set, otherwise the evaluation root itself (specification's documented
// default for queryArgument).
func (c *QueryContext) rootForEvaluation(evaluationRoot any) any {
	if c.queryArgumentFixed {
		return c.queryArgument
	}
	return evaluationRoot
}

// coerceQueryContext normalizes the optional-context parameter accepted by
// every public entry point: a *QueryContext is used as-is, a *Options is
// turned into one, and nil produces the default context (intrinsics only).
func coerceQueryContext(v any) *QueryContext {
	switch ctx := v.(type) {
	case nil:
		return createQueryContext(nil)
	case *QueryContext:
		return ctx
	case *Options:
		return createQueryContext(ctx)
	default:
		return createQueryContext(nil)
	}
}

func (c *QueryContext) lookupFunction(name string) (*FunctionExtension, bool) {
	fn, ok := c.functionExtensions[name]
	return fn, ok
}

// pushRoot rebinds queryArgument to root, returning a restore func the
// caller must invoke on every exit path (including errors) - the explicit
// scoped-save pattern a language without try/finally requires.
func (c *QueryContext) pushRoot(root any) (restore func()) {
	prev := c.queryArgument
	c.queryArgument = root
	return func() { c.queryArgument = prev }
}

func (c *QueryContext) pushScope(s queryScope) (restore func()) {
	prev := c.queryScope
	c.queryScope = s
	return func() { c.queryScope = prev }
}

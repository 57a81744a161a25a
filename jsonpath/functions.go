package jsonpath

import "regexp"

// lengthFunction: Unicode-scalar-value length of a string, element count of
// an array, member count of an object; Nothing for any other Value
// (including Nothing itself).
var lengthFunction = &FunctionExtension{
	Name:           "length",
	ParameterTypes: []DeclaredType{ValueType},
	ResultType:     ValueType,
	Evaluate: func(args []any, _ *QueryContext) any {
		v := args[0]
		switch {
		case isNothing(v):
			return Nothing
		case isString(v):
			return float64(unicodeLength(v.(string)))
		case isArray(v):
			return float64(len(v.([]any)))
		case isObject(v):
			return float64(len(objectKeys(v)))
		default:
			return Nothing
		}
	},
}

// countFunction: the nodelist length, no deduplication.
var countFunction = &FunctionExtension{
	Name:           "count",
	ParameterTypes: []DeclaredType{NodesType},
	ResultType:     ValueType,
	Evaluate: func(args []any, _ *QueryContext) any {
		nodes, _ := args[0].([]any)
		return float64(len(nodes))
	},
}

// valueFunction: the single node of a one-element nodelist; Nothing for a
// nodelist of length 0 or >= 2.
var valueFunction = &FunctionExtension{
	Name:           "value",
	ParameterTypes: []DeclaredType{NodesType},
	ResultType:     ValueType,
	Evaluate: func(args []any, _ *QueryContext) any {
		nodes, _ := args[0].([]any)
		if len(nodes) != 1 {
			return Nothing
		}
		return nodes[0]
	},
}

// matchFunction: whole-string match of the first argument against an
// I-Regexp (RFC 9485) contained in the second; false if either argument is
// not a string or the pattern does not compile as a valid regexp. I-Regexp
// is approximated by compiling with Go's RE2-backed regexp package and
// anchoring with \A(?:...)\z so the match covers the entire string.
var matchFunction = &FunctionExtension{
	Name:           "match",
	ParameterTypes: []DeclaredType{ValueType, ValueType},
	ResultType:     LogicalType,
	Evaluate: func(args []any, _ *QueryContext) any {
		subject, pattern, ok := stringArgs(args)
		if !ok {
			return false
		}
		re, err := regexp.Compile(`\A(?:` + pattern + `)\z`)
		if err != nil {
			return false
		}
		return re.MatchString(subject)
	},
}

// searchFunction: substring match of the first argument against an
// I-Regexp contained in the second; false on the same ill-typed inputs as
// match.
var searchFunction = &FunctionExtension{
	Name:           "search",
	ParameterTypes: []DeclaredType{ValueType, ValueType},
	ResultType:     LogicalType,
	Evaluate: func(args []any, _ *QueryContext) any {
		subject, pattern, ok := stringArgs(args)
		if !ok {
			return false
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return false
		}
		return re.MatchString(subject)
	},
}

func stringArgs(args []any) (subject, pattern string, ok bool) {
	s, sok := args[0].(string)
	p, pok := args[1].(string)
	if !sok || !pok {
		return "", "", false
	}
	return s, p, true
}

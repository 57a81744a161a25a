package jsonpath

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLengthFunction(t *testing.T) {
	ctx := &QueryContext{}
	require.Equal(t, float64(3), lengthFunction.Evaluate([]any{"abc"}, ctx))
	require.Equal(t, float64(2), lengthFunction.Evaluate([]any{[]any{1, 2}}, ctx))
	obj := NewObject()
	obj.Set("a", 1)
	obj.Set("b", 2)
	obj.Set("c", 3)
	require.Equal(t, float64(3), lengthFunction.Evaluate([]any{obj}, ctx))
	require.Equal(t, Nothing, lengthFunction.Evaluate([]any{42.0}, ctx))
	require.Equal(t, Nothing, lengthFunction.Evaluate([]any{Nothing}, ctx))
}

func TestCountFunction(t *testing.T) {
	ctx := &QueryContext{}
	require.Equal(t, float64(0), countFunction.Evaluate([]any{Nodelist(nil)}, ctx))
	require.Equal(t, float64(3), countFunction.Evaluate([]any{Nodelist{1, 2, 3}}, ctx))
	// duplicates are not deduplicated
	require.Equal(t, float64(2), countFunction.Evaluate([]any{Nodelist{1, 1}}, ctx))
}

func TestValueFunction(t *testing.T) {
	ctx := &QueryContext{}
	require.Equal(t, "x", valueFunction.Evaluate([]any{Nodelist{"x"}}, ctx))
	require.Equal(t, Nothing, valueFunction.Evaluate([]any{Nodelist(nil)}, ctx))
	require.Equal(t, Nothing, valueFunction.Evaluate([]any{Nodelist{"x", "y"}}, ctx))
}

func TestMatchFunction(t *testing.T) {
	ctx := &QueryContext{}
	require.Equal(t, true, matchFunction.Evaluate([]any{"abc123", "[a-z]+[0-9]+"}, ctx))
	// match requires the whole string, not a substring
	require.Equal(t, false, matchFunction.Evaluate([]any{"xabc123y", "[a-z]+[0-9]+"}, ctx))
	require.Equal(t, false, matchFunction.Evaluate([]any{42.0, "x"}, ctx))
}

func TestSearchFunction(t *testing.T) {
	ctx := &QueryContext{}
	require.Equal(t, true, searchFunction.Evaluate([]any{"xabc123y", "[a-z]+[0-9]+"}, ctx))
	require.Equal(t, false, searchFunction.Evaluate([]any{"XYZ", "[a-z]+[0-9]+"}, ctx))
}

func TestIntrinsicFunctions_allFiveRegistered(t *testing.T) {
	fns := IntrinsicFunctions()
	for _, name := range []string{"length", "count", "match", "search", "value"} {
		_, ok := fns[name]
		require.True(t, ok, "expected intrinsic %q to be registered", name)
	}
	require.Len(t, fns, 5)
}

func TestEvaluateQuery_customFunctionExtension(t *testing.T) {
	upper := &FunctionExtension{
		Name:           "upper",
		ParameterTypes: []DeclaredType{ValueType},
		ResultType:     ValueType,
		Evaluate: func(args []any, _ *QueryContext) any {
			s, ok := args[0].(string)
			if !ok {
				return Nothing
			}
			out := make([]byte, len(s))
			for i := 0; i < len(s); i++ {
				c := s[i]
				if c >= 'a' && c <= 'z' {
					c -= 'a' - 'A'
				}
				out[i] = c
			}
			return string(out)
		},
	}
	doc, err := DecodeJSON([]byte(`["abc", "def"]`))
	require.NoError(t, err)
	opts := &Options{FunctionExtensions: []*FunctionExtension{upper}}
	got, err := EvaluateQuery(`$[?upper(@) == "ABC"]`, doc, opts)
	require.NoError(t, err)
	require.Equal(t, Nodelist{"abc"}, got)
}

func TestEvaluateQuery_customFunctionWithCompoundLogicalArgument(t *testing.T) {
	echoBool := &FunctionExtension{
		Name:           "echo_bool",
		ParameterTypes: []DeclaredType{LogicalType},
		ResultType:     ValueType,
		Evaluate: func(args []any, _ *QueryContext) any {
			b, ok := args[0].(bool)
			if !ok {
				return Nothing
			}
			return b
		},
	}
	doc, err := DecodeJSON([]byte(`[{"a":1,"b":2},{"a":1},{"b":2}]`))
	require.NoError(t, err)
	opts := &Options{FunctionExtensions: []*FunctionExtension{echoBool}}
	got, err := EvaluateQuery(`$[?echo_bool(@.a && @.b) == true]`, doc, opts)
	require.NoError(t, err)
	require.Len(t, got, 1)
}

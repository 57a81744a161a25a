package jsonpath

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestJSONPath_parseOnceEvaluateMany(t *testing.T) {
	jp, err := Parse("book-titles", "$.store.book[*].title", nil)
	require.NoError(t, err)
	require.Equal(t, "$.store.book.*.title", jp.String())

	doc1, err := DecodeJSON([]byte(`{"store":{"book":[{"title":"A"}]}}`))
	require.NoError(t, err)
	got, err := jp.Evaluate(doc1)
	require.NoError(t, err)
	require.Equal(t, Nodelist{"A"}, got)

	doc2, err := DecodeJSON([]byte(`{"store":{"book":[{"title":"B"},{"title":"C"}]}}`))
	require.NoError(t, err)
	got, err = jp.Evaluate(doc2)
	require.NoError(t, err)
	require.Equal(t, Nodelist{"B", "C"}, got)
}

func TestJSONPath_evaluateBeforeParse(t *testing.T) {
	jp := NewJSONPath("unparsed")
	_, err := jp.Evaluate(map[string]any{})
	require.Error(t, err)
}

func TestJSONPath_parseError(t *testing.T) {
	jp := NewJSONPath("broken")
	err := jp.Parse("not a query", nil)
	require.Error(t, err)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
}

func TestEvaluateQuery_stringOrCompiledQuery(t *testing.T) {
	doc, err := DecodeJSON([]byte(`{"a":1}`))
	require.NoError(t, err)

	gotFromString, err := EvaluateQuery("$.a", doc, nil)
	require.NoError(t, err)

	q, err := ParseQuery("$.a", nil)
	require.NoError(t, err)
	gotFromQuery, err := EvaluateQuery(q, doc, nil)
	require.NoError(t, err)

	require.Equal(t, gotFromString, gotFromQuery)
}

func TestEvaluateQuery_invalidQueryArgumentType(t *testing.T) {
	_, err := EvaluateQuery(42, map[string]any{}, nil)
	require.Error(t, err)
	var everr *EvalError
	require.ErrorAs(t, err, &everr)
}

func TestEvaluateQuery_badSyntaxPropagatesParseError(t *testing.T) {
	_, err := EvaluateQuery("not a query", map[string]any{}, nil)
	require.Error(t, err)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
}

func TestEvaluateQuery_queryArgumentOverride(t *testing.T) {
	root, err := DecodeJSON([]byte(`[1, 2, 3]`))
	require.NoError(t, err)
	external, err := DecodeJSON([]byte(`{"threshold": 2}`))
	require.NoError(t, err)

	got, err := EvaluateQuery(`$[?@ > $.threshold]`, root, &Options{QueryArgument: external})
	require.NoError(t, err)
	require.Len(t, got, 1)
	n, ok := numberValue(got[0])
	require.True(t, ok)
	require.Equal(t, 3.0, n)

	// without the override, $ refers back to the evaluation root itself
	got, err = EvaluateQuery(`$`, root, nil)
	require.NoError(t, err)
	require.Equal(t, Nodelist{root}, got)
}

func TestParseError_messageIncludesOffsetAndInput(t *testing.T) {
	_, err := ParseQuery("nope", nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "offset")
	require.Contains(t, err.Error(), "nope")
}

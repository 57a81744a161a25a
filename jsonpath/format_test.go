package jsonpath

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatQuery_roundTrip(t *testing.T) {
	cases := []string{
		"$",
		"$.store.book[*].author",
		"$..author",
		"$['a name']",
		"$[0]",
		"$[-1:]",
		"$[1:5:2]",
		"$[::-1]",
		"$[?@.price < 10]",
		"$[?@.price < 10 && @.category == 'fiction']",
		"$[?@.a || @.b]",
		"$[?!@.a]",
		"$[?length(@.name) > 3]",
		"$[?match(@.code, '[0-9]+')]",
	}
	for _, c := range cases {
		c := c
		t.Run(c, func(t *testing.T) {
			q, err := ParseQuery(c, nil)
			require.NoError(t, err)
			formatted := FormatQuery(q)

			reparsed, err := ParseQuery(formatted, nil)
			require.NoError(t, err, "reformatted query %q failed to parse", formatted)
			require.Equal(t, formatted, FormatQuery(reparsed), "parse . format . parse must be idempotent")
		})
	}
}

func TestFormatQuery_shorthandPreferred(t *testing.T) {
	q, err := ParseQuery("$['store']['book']", nil)
	require.NoError(t, err)
	require.Equal(t, "$.store.book", FormatQuery(q))
}

func TestFormatQuery_wildcardShorthand(t *testing.T) {
	q, err := ParseQuery("$['store'][*]", nil)
	require.NoError(t, err)
	require.Equal(t, "$.store.*", FormatQuery(q))
}

func TestFormatQuery_bracketFallbackForNonShorthandName(t *testing.T) {
	q, err := ParseQuery("$['a name']", nil)
	require.NoError(t, err)
	require.Equal(t, "$['a name']", FormatQuery(q))
}

func TestFormatExpression_minimalParens(t *testing.T) {
	expr, err := ParseExpression(`@.a == 1 && (@.b == 2 || @.c == 3)`, nil)
	require.NoError(t, err)
	require.Equal(t, `@.a == 1 && (@.b == 2 || @.c == 3)`, FormatExpression(expr))
}

func TestFormatExpression_noGratuitousParens(t *testing.T) {
	expr, err := ParseExpression(`@.a == 1 && @.b == 2 && @.c == 3`, nil)
	require.NoError(t, err)
	require.Equal(t, `@.a == 1 && @.b == 2 && @.c == 3`, FormatExpression(expr))
}

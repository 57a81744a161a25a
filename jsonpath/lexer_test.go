package jsonpath

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func parseQuoteString(t *testing.T, s string) (string, error) {
	t.Helper()
	p := &innerParser{input: s}
	v, err := p.parseQuote()
	if err != nil {
		return "", err
	}
	return v, nil
}

func TestParseQuote_escapingTheStringsOwnQuote(t *testing.T) {
	v, err := parseQuoteString(t, `"a\"b"`)
	require.NoError(t, err)
	require.Equal(t, `a"b`, v)

	v, err = parseQuoteString(t, `'a\'b'`)
	require.NoError(t, err)
	require.Equal(t, `a'b`, v)
}

func TestParseQuote_escapingTheOtherQuoteIsRejected(t *testing.T) {
	_, err := parseQuoteString(t, `"a\'b"`)
	require.Error(t, err)

	_, err = parseQuoteString(t, `'a\"b'`)
	require.Error(t, err)
}

func TestParseQuote_standardEscapes(t *testing.T) {
	v, err := parseQuoteString(t, `"a\tb\nc"`)
	require.NoError(t, err)
	require.Equal(t, "a\tb\nc", v)
}

func TestParseQuote_surrogatePair(t *testing.T) {
	v, err := parseQuoteString(t, `"`+`\u`+`D83D`+`\u`+`DE00`+`"`)
	require.NoError(t, err)
	require.Equal(t, "\U0001F600", v)
}

func TestParseQuote_isolatedLowSurrogateRejected(t *testing.T) {
	_, err := parseQuoteString(t, `"\uDE00"`)
	require.Error(t, err)
}

func TestParseQuote_highSurrogateWithoutLowRejected(t *testing.T) {
	_, err := parseQuoteString(t, `"\uD83Dx"`)
	require.Error(t, err)
}

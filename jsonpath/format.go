package jsonpath

import (
	"strconv"
	"strings"
)

// FormatQuery serializes q into the canonical syntax RFC 9535 requires for
// round-tripping (parse ∘ format ∘ parse = parse, see specification §8):
// shorthand ".name"/".*"/"..name"/"..*" where possible, minimal-parentheses
// printing of filter expressions driven by operator precedence.
func FormatQuery(q *Query) string {
	var b strings.Builder
	b.WriteByte('$')
	for _, seg := range q.Segments {
		formatSegmentInto(&b, seg)
	}
	return b.String()
}

// FormatSegment serializes a single segment the same way FormatQuery does
// for each of its segments (without the leading "$").
func FormatSegment(seg *Segment) string {
	var b strings.Builder
	formatSegmentInto(&b, seg)
	return b.String()
}

// FormatSelector serializes a single selector in bracket form.
func FormatSelector(sel *Selector) string {
	var b strings.Builder
	formatSelectorInto(&b, sel)
	return b.String()
}

// FormatExpression serializes a filter expression (the part following "?"),
// with minimal parentheses.
func FormatExpression(e *Expression) string {
	var b strings.Builder
	formatExprAt(&b, e, precOr)
	return b.String()
}

func formatSegmentInto(b *strings.Builder, seg *Segment) {
	dots := "."
	if seg.Kind == DescendantSegment {
		dots = ".."
	}
	if len(seg.Selectors) == 1 {
		sel := seg.Selectors[0]
		if sel.Kind == WildcardSelector {
			b.WriteString(dots)
			b.WriteByte('*')
			return
		}
		if sel.Kind == NameSelector && isShorthandName(sel.Name) {
			b.WriteString(dots)
			b.WriteString(sel.Name)
			return
		}
	}
	if seg.Kind == DescendantSegment {
		b.WriteString("..")
	}
	b.WriteByte('[')
	for i, sel := range seg.Selectors {
		if i > 0 {
			b.WriteString(", ")
		}
		formatSelectorInto(b, sel)
	}
	b.WriteByte(']')
}

func isShorthandName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if i == 0 {
			if !isNameFirst(r) {
				return false
			}
		} else if !isNameChar(r) {
			return false
		}
	}
	return true
}

func formatSelectorInto(b *strings.Builder, sel *Selector) {
	switch sel.Kind {
	case NameSelector:
		b.WriteString(quoteName(sel.Name))
	case WildcardSelector:
		b.WriteByte('*')
	case IndexSelector:
		b.WriteString(strconv.FormatInt(sel.Index, 10))
	case SliceSelector:
		if sel.Start != nil {
			b.WriteString(strconv.FormatInt(*sel.Start, 10))
		}
		b.WriteByte(':')
		if sel.End != nil {
			b.WriteString(strconv.FormatInt(*sel.End, 10))
		}
		if sel.Step != nil {
			b.WriteByte(':')
			b.WriteString(strconv.FormatInt(*sel.Step, 10))
		}
	case FilterSelector:
		b.WriteByte('?')
		formatExprAt(b, sel.Expr, precOr)
	}
}

// quoteName renders a string using the single-quoted escape form shared by
// name selectors and string literals: the standard short escapes, \uXXXX
// for any UTF-16 code unit that is neither printable-unescaped nor a
// standard short escape, and the surrounding single quotes.
func quoteName(s string) string {
	var b strings.Builder
	b.WriteByte('\'')
	for _, r := range s {
		switch r {
		case '\'':
			b.WriteString(`\'`)
		case '\\':
			b.WriteString(`\\`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r < 0x20 || r == 0x7f {
				b.WriteString(escapeUnicode(r))
			} else {
				b.WriteRune(r)
			}
		}
	}
	b.WriteByte('\'')
	return b.String()
}

func escapeUnicode(r rune) string {
	if r > 0xFFFF {
		hi, lo := utf16Encode(r)
		return "\\u" + padHex(hi) + "\\u" + padHex(lo)
	}
	return "\\u" + padHex(uint32(r))
}

func utf16Encode(r rune) (hi, lo uint32) {
	r -= 0x10000
	hi = uint32(0xD800 + (r >> 10))
	lo = uint32(0xDC00 + (r & 0x3FF))
	return
}

func padHex(v uint32) string {
	s := strconv.FormatUint(uint64(v), 16)
	for len(s) < 4 {
		s = "0" + s
	}
	return s
}

func formatLiteral(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case bool:
		if t {
			return "true"
		}
		return "false"
	case string:
		return quoteName(t)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	default:
		return ""
	}
}

func exprPrecedence(e *Expression) int {
	switch e.Kind {
	case OrExpr:
		return precOr
	case AndExpr:
		return precAnd
	case ComparisonExpr:
		return precComparison
	case NotExpr:
		return precNot
	default:
		return precAtom
	}
}

// formatExprAt prints e, wrapping it in parentheses only when its own
// precedence is strictly lower than minPrec (the precedence required by
// its position) - never gratuitously.
func formatExprAt(b *strings.Builder, e *Expression, minPrec int) {
	prec := exprPrecedence(e)
	needParens := prec < minPrec
	if needParens {
		b.WriteByte('(')
	}
	switch e.Kind {
	case OrExpr:
		for i, op := range e.Operands {
			if i > 0 {
				b.WriteString(" || ")
			}
			formatExprAt(b, op, precOr+1)
		}
	case AndExpr:
		for i, op := range e.Operands {
			if i > 0 {
				b.WriteString(" && ")
			}
			formatExprAt(b, op, precAnd+1)
		}
	case ComparisonExpr:
		formatExprAt(b, e.Lhs, precAtom)
		b.WriteByte(' ')
		b.WriteString(e.Op.String())
		b.WriteByte(' ')
		formatExprAt(b, e.Rhs, precAtom)
	case NotExpr:
		b.WriteByte('!')
		formatExprAt(b, e.Operand, precNot)
	case QueryExpr:
		b.WriteByte(e.Root)
		for _, seg := range e.Query.Segments {
			formatSegmentInto(b, seg)
		}
	case LiteralExpr:
		b.WriteString(formatLiteral(e.Literal))
	case FunctionExpr:
		b.WriteString(e.Function.Name)
		b.WriteByte('(')
		for i, a := range e.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			formatExprAt(b, a, precOr)
		}
		b.WriteByte(')')
	}
	if needParens {
		b.WriteByte(')')
	}
}

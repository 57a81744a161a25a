package jsonpath

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

// storeDocument mirrors RFC 9535 Appendix A's running example.
const storeDocument = `{
  "store": {
    "book": [
      {"category": "reference", "author": "Nigel Rees", "title": "Sayings of the Century", "price": 8.95},
      {"category": "fiction", "author": "Evelyn Waugh", "title": "Sword of Honour", "price": 12.99},
      {"category": "fiction", "author": "Herman Melville", "title": "Moby Dick", "isbn": "0-553-21311-3", "price": 8.99},
      {"category": "fiction", "author": "J. R. R. Tolkien", "title": "The Lord of the Rings", "isbn": "0-395-19395-8", "price": 22.99}
    ],
    "bicycle": {"color": "red", "price": 399}
  }
}`

func decodeStoreDocument(t *testing.T) any {
	t.Helper()
	root, err := DecodeJSON([]byte(storeDocument))
	require.NoError(t, err)
	return root
}

type evalCase struct {
	name  string
	query string
	doc   any
	want  Nodelist
}

func runEvalCases(t *testing.T, cases []evalCase) {
	t.Helper()
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got, err := EvaluateQuery(tc.query, tc.doc, nil)
			require.NoError(t, err)
			if diff := cmp.Diff(tc.want, got, cmp.Comparer(numbersEqual)); diff != "" {
				t.Errorf("query %q: mismatch (-want +got):\n%s", tc.query, diff)
			}
		})
	}
}

// numbersEqual lets go-cmp compare json.Number-backed decoded values
// against the plain float64 literals the test table is written with.
func numbersEqual(a, b any) bool {
	af, aok := numberValue(a)
	bf, bok := numberValue(b)
	if aok && bok {
		return af == bf
	}
	return equal(a, b)
}

func TestEvaluateQuery_rfcAppendixA(t *testing.T) {
	doc := decodeStoreDocument(t)
	runEvalCases(t, []evalCase{
		{"root", "$", doc, Nodelist{doc}},
		{"all authors", "$.store.book[*].author", doc, Nodelist{
			"Nigel Rees", "Evelyn Waugh", "Herman Melville", "J. R. R. Tolkien",
		}},
		{"all prices descendant", "$..price", doc, Nodelist{
			399.0, 8.95, 12.99, 8.99, 22.99,
		}},
		{"third book", "$..book[2]", doc, Nodelist{
			mustGetChild(t, doc, "store", "book", 2),
		}},
		{"last book by negative index", "$..book[-1]", doc, Nodelist{
			mustGetChild(t, doc, "store", "book", 3),
		}},
		{"first two books by index union", "$..book[0,1]", doc, Nodelist{
			mustGetChild(t, doc, "store", "book", 0),
			mustGetChild(t, doc, "store", "book", 1),
		}},
		{"books cheaper than 10", "$.store.book[?@.price<10].title", doc, Nodelist{
			"Sayings of the Century", "Moby Dick",
		}},
		{"books with isbn", "$.store.book[?@.isbn]", doc, Nodelist{
			mustGetChild(t, doc, "store", "book", 2),
			mustGetChild(t, doc, "store", "book", 3),
		}},
	})
}

func mustGetChild(t *testing.T, root any, path ...any) any {
	t.Helper()
	cur := root
	for _, p := range path {
		switch key := p.(type) {
		case string:
			v, ok := getChild(cur, key)
			require.True(t, ok, "missing member %q", key)
			cur = v
		case int:
			arr, ok := cur.([]any)
			require.True(t, ok)
			cur = arr[key]
		}
	}
	return cur
}

func TestEvaluateQuery_seedScenarios(t *testing.T) {
	doc1, err := DecodeJSON([]byte(`{"store":{"book":[{"title":"A","price":8},{"title":"B","price":20}]}}`))
	require.NoError(t, err)
	runEvalCases(t, []evalCase{
		{"scenario 1", `$.store.book[?@.price<10].title`, doc1, Nodelist{"A"}},
	})

	doc2, err := DecodeJSON([]byte(`[1, 2, "k", "j"]`))
	require.NoError(t, err)
	runEvalCases(t, []evalCase{
		{"scenario 2", `$[?@<2 || @=="k"]`, doc2, Nodelist{1.0, "k"}},
	})

	doc3, err := DecodeJSON([]byte(`["a","b","c","d"]`))
	require.NoError(t, err)
	runEvalCases(t, []evalCase{
		{"scenario 3", `$[::-1]`, doc3, Nodelist{"d", "c", "b", "a"}},
	})

	doc4, err := DecodeJSON([]byte(`["a","b","c","d","e","f"]`))
	require.NoError(t, err)
	runEvalCases(t, []evalCase{
		{"scenario 4", `$[1:5:2]`, doc4, Nodelist{"b", "d"}},
	})

	doc5, err := DecodeJSON([]byte(`{"a":[{"b":1},{"b":2}], "x":2}`))
	require.NoError(t, err)
	runEvalCases(t, []evalCase{
		{"scenario 5 embedded $", `$.a[?@.b == $.x]`, doc5, Nodelist{
			mustGetChild(t, doc5, "a", 1),
		}},
	})

	doc8a, err := DecodeJSON([]byte(`{"b":[null]}`))
	require.NoError(t, err)
	doc8b, err := DecodeJSON([]byte(`{"c":[{}]}`))
	require.NoError(t, err)
	runEvalCases(t, []evalCase{
		{"scenario 8a null is a value", `$.b[?@==null]`, doc8a, Nodelist{nil}},
		{"scenario 8b missing member is Nothing", `$.c[?@.d==null]`, doc8b, nil},
	})
}

func TestEvaluateQuery_identityOnRoot(t *testing.T) {
	for _, v := range []any{nil, true, "s", 1.0, []any{1.0, 2.0}} {
		got, err := EvaluateQuery("$", v, nil)
		require.NoError(t, err)
		require.Equal(t, Nodelist{v}, got)
	}
}

func TestEvaluateQuery_duplicatesPreserved(t *testing.T) {
	doc, err := DecodeJSON([]byte(`["a"]`))
	require.NoError(t, err)
	got, err := EvaluateQuery("$[0,0]", doc, nil)
	require.NoError(t, err)
	require.Equal(t, Nodelist{"a", "a"}, got)
}

func TestEvaluateQuery_selectorsOuterNodesInner(t *testing.T) {
	doc, err := DecodeJSON([]byte(`{"o":{"x":1,"y":2},"p":{"x":1,"y":2}}`))
	require.NoError(t, err)
	got, err := EvaluateQuery(`$.*[?@==1, ?@==2]`, doc, nil)
	require.NoError(t, err)
	// both ?@==1 matches (from o, then p) come before both ?@==2 matches
	want := []float64{1, 1, 2, 2}
	require.Len(t, got, len(want))
	for i, w := range want {
		f, ok := numberValue(got[i])
		require.True(t, ok)
		require.Equal(t, w, f)
	}
}

func TestEvaluateQuery_descendantOrder(t *testing.T) {
	doc, err := DecodeJSON([]byte(`{"a":[1,2], "b":3}`))
	require.NoError(t, err)
	got, err := EvaluateQuery("$..*", doc, nil)
	require.NoError(t, err)
	require.Len(t, got, 4)
	arr, ok := got[0].([]any)
	require.True(t, ok)
	require.Len(t, arr, 2)
	f, ok := numberValue(got[1])
	require.True(t, ok)
	require.Equal(t, 3.0, f)
}

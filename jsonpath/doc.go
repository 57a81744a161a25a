// Package jsonpath implements JSONPath as defined by RFC 9535
// (https://datatracker.ietf.org/doc/html/rfc9535). A query string is parsed
// into an immutable AST, the AST can be serialized back into canonical
// syntax, and it can be evaluated against an in-memory JSON value - an
// *Object/[]any/string/json.Number/bool/nil tree, typically built by
// DecodeJSON - to produce a nodelist.
//
// design goals
//   - the parser is the gatekeeper for both syntax and the static typing of
//     filter expressions (RFC 9535 §2.3.5); a query that parses is
//     guaranteed to evaluate without raising.
//   - the evaluator never mutates the JSON argument and never errors on an
//     empty selection, a missing member, or an out-of-range index - these
//     are normal results, not failures.
//   - one JSONPath value can be parsed once and evaluated many times against
//     different roots.
//
// TODO
//   - some of the error messages could use another pass for precision
//   - consider exposing a streaming child-enumeration hook for very large
//     arrays; out of scope for now (see Non-goals)
package jsonpath // import "github.com/rfc9535/jsonpath/jsonpath"

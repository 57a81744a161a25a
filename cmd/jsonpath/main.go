// Command jsonpath evaluates a single RFC 9535 JSONPath query against a
// JSON or YAML document and prints the resulting nodelist as a JSON array.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"sigs.k8s.io/yaml"

	jp "github.com/rfc9535/jsonpath/jsonpath"
)

func main() {
	query := flag.String("query", "", "JSONPath query, e.g. '$.store.book[?@.price<10].title'")
	file := flag.String("file", "", "path to input document (default: read from stdin)")
	output := flag.String("output", "", "path to output JSON file (default: write to stdout)")
	useYAML := flag.Bool("yaml", false, "parse the input document as YAML instead of JSON")
	pretty := flag.Bool("pretty", false, "pretty-print the JSON output")
	flag.Parse()

	if *query == "" {
		fmt.Fprintln(os.Stderr, "usage: jsonpath -query '$.store.book[*].title' [-file input.json | < input.json] [-output result.json]")
		os.Exit(1)
	}

	var r io.Reader = os.Stdin
	if *file != "" {
		f, err := os.Open(*file)
		if err != nil {
			fmt.Fprintf(os.Stderr, "open file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		r = f
	}

	input, err := io.ReadAll(r)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read input: %v\n", err)
		os.Exit(1)
	}

	if *useYAML {
		input, err = yaml.YAMLToJSON(input)
		if err != nil {
			fmt.Fprintf(os.Stderr, "convert YAML to JSON: %v\n", err)
			os.Exit(1)
		}
	}

	root, err := jp.DecodeJSON(input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "decode input: %v\n", err)
		os.Exit(1)
	}

	nodes, err := jp.EvaluateQuery(*query, root, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "evaluate query: %v\n", err)
		os.Exit(1)
	}

	out, err := json.Marshal(nodes)
	if err != nil {
		fmt.Fprintf(os.Stderr, "marshal result: %v\n", err)
		os.Exit(1)
	}

	if *pretty {
		var buf bytes.Buffer
		if err := json.Indent(&buf, out, "", "  "); err != nil {
			fmt.Fprintf(os.Stderr, "pretty-print: %v\n", err)
			os.Exit(1)
		}
		out = buf.Bytes()
	}

	if *output != "" {
		if err := os.WriteFile(*output, append(out, '\n'), 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "write output: %v\n", err)
			os.Exit(1)
		}
		return
	}
	fmt.Println(string(out))
}

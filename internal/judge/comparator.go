package judge

import (
	"encoding/json"
	"reflect"
	"strings"
)

// Equal reports whether a produced payload matches the expected one. Both
// sides are parsed into canonical value trees (numbers, strings, ordered
// sequences, mappings) and compared structurally, so mapping key order and
// incidental whitespace in the serialized form never affect the outcome.
// Payloads that are not valid JSON fall back to normalized text comparison.
func Equal(expected, actual string) bool {
	expTree, expOK := canonical(expected)
	actTree, actOK := canonical(actual)
	if expOK && actOK {
		return reflect.DeepEqual(expTree, actTree)
	}
	return normalizeText(expected) == normalizeText(actual)
}

// canonical decodes a JSON payload into the tree encoding/json produces for
// untyped targets: map[string]any, []any, float64, string, bool, nil. Maps
// carry no order, which is exactly the canonicalization the comparison needs.
func canonical(s string) (interface{}, bool) {
	dec := json.NewDecoder(strings.NewReader(s))
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil, false
	}
	// Trailing non-whitespace after a valid prefix means the payload as a
	// whole is not one JSON value.
	if dec.More() {
		return nil, false
	}
	return v, true
}

// normalizeText strips the incidental whitespace differences executors
// introduce: CRLF line endings, trailing whitespace per line, and outer blank
// space.
func normalizeText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

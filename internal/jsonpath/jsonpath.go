// Package jsonpath implements the JQ JSON-path engine: a gjson reader over
// an internal/jsonvalue document, fronted by a translator from the
// JSONPath-style dialect the expression language exposes ($.a.b, [*],
// bracket indices, [?(@.k == v)] filter predicates) into gjson path syntax.
// DIG's chained key/index walk lives alongside the .dig() method in
// internal/evaluator (it needs no path dialect, just a slice of keys).
package jsonpath

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/cwbudde/skillet/internal/jsonvalue"
)

// PathError reports a malformed path expression.
type PathError struct {
	Path    string
	Message string
}

func (e *PathError) Error() string {
	return fmt.Sprintf("jsonpath: invalid path %q: %s", e.Path, e.Message)
}

// Query evaluates a JSONPath-style expression against doc and returns the
// matching sub-document, or nil (no error) if the path has no match.
func Query(doc *jsonvalue.Value, path string) (*jsonvalue.Value, error) {
	gpath, err := Translate(path)
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("jsonpath: marshal document: %w", err)
	}
	result := gjson.GetBytes(raw, gpath)
	if !result.Exists() {
		return nil, nil
	}
	return jsonvalue.FromGo(result.Value()), nil
}

// Translate rewrites a JSONPath-style expression into gjson path syntax:
//
//	$.a.b                  -> a.b
//	$.items[*].price       -> items.#.price
//	$.items[2].name        -> items.2.name
//	$.items['key']         -> items.key
//	$.users[?(@.age > 30)] -> users.#(age>30)#
//	$                      -> @this
//
// A path that does not start with "$" or "." and contains no brackets
// passes through unchanged, so callers may also hand gjson-native paths
// (e.g. "items.#.price") straight to JQ.
func Translate(path string) (string, error) {
	p := strings.TrimSpace(path)
	if p != "" && p[0] != '$' && p[0] != '.' && !strings.Contains(p, "[") {
		return p, nil
	}
	p = strings.TrimPrefix(p, "$")
	p = strings.TrimPrefix(p, ".")
	if p == "" {
		return "@this", nil
	}

	var segs []string
	for len(p) > 0 {
		switch {
		case p[0] == '.':
			p = p[1:]
		case p[0] == '[':
			end := strings.IndexByte(p, ']')
			if end < 0 {
				return "", &PathError{Path: path, Message: "unterminated '['"}
			}
			inner := strings.TrimSpace(p[1:end])
			// A filter predicate's value may itself contain ']', e.g.
			// [?(@.tag == "a]b")]; re-scan to the predicate's closing ")]".
			if strings.HasPrefix(inner, "?(") {
				predEnd := strings.Index(p, ")]")
				if predEnd < 0 {
					return "", &PathError{Path: path, Message: "unterminated filter predicate"}
				}
				inner = strings.TrimSpace(p[1 : predEnd+1])
				end = predEnd + 1
			}
			seg, err := translateBracket(path, inner)
			if err != nil {
				return "", err
			}
			segs = append(segs, seg)
			p = p[end+1:]
		default:
			stop := strings.IndexAny(p, ".[")
			if stop < 0 {
				stop = len(p)
			}
			segs = append(segs, escapeKey(p[:stop]))
			p = p[stop:]
		}
	}
	return strings.Join(segs, "."), nil
}

func translateBracket(path, inner string) (string, error) {
	switch {
	case inner == "*":
		return "#", nil
	case strings.HasPrefix(inner, "?("):
		pred := strings.TrimSuffix(strings.TrimPrefix(inner, "?("), ")")
		return translatePredicate(path, pred)
	case len(inner) >= 2 && (inner[0] == '\'' || inner[0] == '"'):
		quote := inner[0]
		if inner[len(inner)-1] != quote {
			return "", &PathError{Path: path, Message: "unterminated quoted key"}
		}
		return escapeKey(inner[1 : len(inner)-1]), nil
	case inner == "":
		return "", &PathError{Path: path, Message: "empty brackets"}
	default:
		// Bare bracket content is an array index; gjson addresses array
		// elements with plain numeric segments.
		return inner, nil
	}
}

// translatePredicate rewrites "@.key op value" into gjson's "#(key op value)#"
// multi-match query form.
func translatePredicate(path, pred string) (string, error) {
	pred = strings.TrimSpace(pred)
	if !strings.HasPrefix(pred, "@.") {
		return "", &PathError{Path: path, Message: "filter predicate must start with '@.'"}
	}
	body := strings.TrimPrefix(pred, "@.")
	for _, op := range []string{"==", "!=", "<=", ">=", "<", ">"} {
		if k, v, ok := strings.Cut(body, op); ok {
			key := escapeKey(strings.TrimSpace(k))
			val := strings.TrimSpace(v)
			if len(val) >= 2 && (val[0] == '\'' || val[0] == '"') {
				val = `"` + val[1:len(val)-1] + `"`
			}
			// gjson spells equality "=" inside queries.
			if op == "==" {
				op = "="
			}
			return "#(" + key + op + val + ")#", nil
		}
	}
	// Bare "@.key" keeps elements where the key exists and is truthy.
	return "#(" + escapeKey(body) + "=true)#", nil
}

// escapeKey backslash-escapes the characters gjson treats as path syntax.
func escapeKey(key string) string {
	var b strings.Builder
	for _, r := range key {
		switch r {
		case '.', '*', '?', '#', '|', '@', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

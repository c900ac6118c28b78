package lexer_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"

	"github.com/cwbudde/skillet/internal/lexer"
	"github.com/cwbudde/skillet/internal/token"
)

// TestTokenStreamSnapshots locks down the exact token stream for a set of
// representative expressions, using go-snaps so that any lexing change
// (token kinds, literals, positions) shows up as a reviewable snapshot diff
// instead of a silent behavior shift.
func TestTokenStreamSnapshots(t *testing.T) {
	exprs := []struct {
		name string
		src  string
	}{
		{"arithmetic", "=2 + 3 * 4 ^ 2"},
		{"assignment_sequence", ":x := 42; :x + 1"},
		{"method_chain", "[30,60,80,100].filter(:x>50).map(:x*0.9).sum()"},
		{"safe_nav_and_cast", `:obj&.user&.name :: String`},
		{"object_literal", `{user: {name: "Jane", age: 40}}`},
		{"spread_and_slice", "SUM(...[1,2,3]) + :arr[1:3].length"},
		{"predicate_idents", ":n.positive? ? :n : 0 - :n"},
		{"strings_and_escapes", `CONCAT('a', "b\"c", 'd\'e')`},
		{"scientific_numbers", "1e-9 * 2.5E3 + 0.125"},
		{"keywords", "NOT TRUE AND FALSE OR NULL == NULL"},
	}
	for _, tt := range exprs {
		t.Run(tt.name, func(t *testing.T) {
			snaps.MatchSnapshot(t, dumpTokens(tt.src))
		})
	}
}

func dumpTokens(src string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "input: %s\n", src)
	for _, tok := range lexer.Tokenize(src) {
		fmt.Fprintf(&b, "%-8s %-12q at %s\n", tok.Kind, tok.Literal, tok.Pos)
		if tok.Kind == token.EOF {
			break
		}
	}
	return b.String()
}

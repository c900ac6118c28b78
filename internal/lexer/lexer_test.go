package lexer_test

import (
	"testing"

	"github.com/cwbudde/skillet/internal/lexer"
	"github.com/cwbudde/skillet/internal/token"
	"github.com/stretchr/testify/assert"
)

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestTokenizeArithmetic(t *testing.T) {
	toks := lexer.Tokenize("2 + 3 * 4")
	assert.Equal(t, []token.Kind{
		token.NUMBER, token.PLUS, token.NUMBER, token.STAR, token.NUMBER, token.EOF,
	}, kinds(toks))
}

func TestTokenizeLeadingEquals(t *testing.T) {
	toks := lexer.Tokenize("=10 + 20")
	assert.Equal(t, token.NUMBER, toks[0].Kind)
	assert.Equal(t, "10", toks[0].Literal)
}

func TestTokenizeVarRefAndAssign(t *testing.T) {
	toks := lexer.Tokenize(":x := 42; :x")
	assert.Equal(t, []token.Kind{
		token.VARREF, token.ASSIGN, token.NUMBER, token.SEMI, token.VARREF, token.EOF,
	}, kinds(toks))
	assert.Equal(t, "x", toks[0].Literal)
}

func TestTokenizeSafeNavAndCastAndSpread(t *testing.T) {
	toks := lexer.Tokenize(":a&.b::Integer f(...:arr)")
	var got []token.Kind
	for _, tk := range toks {
		got = append(got, tk.Kind)
	}
	assert.Contains(t, got, token.SAFENAV)
	assert.Contains(t, got, token.CAST)
	assert.Contains(t, got, token.SPREAD)
}

func TestTokenizeTrailingQuestionIdentifier(t *testing.T) {
	toks := lexer.Tokenize("positive? nil? blank?")
	assert.Equal(t, "positive?", toks[0].Literal)
	assert.Equal(t, "nil?", toks[1].Literal)
	assert.Equal(t, "blank?", toks[2].Literal)
}

func TestTokenizeStrings(t *testing.T) {
	toks := lexer.Tokenize(`"hello, \"world\"" 'single \'quote\''`)
	assert.Equal(t, token.STRING, toks[0].Kind)
	assert.Equal(t, `hello, "world"`, toks[0].Literal)
	assert.Equal(t, token.STRING, toks[1].Kind)
	assert.Equal(t, "single 'quote'", toks[1].Literal)
}

func TestTokenizeNumbers(t *testing.T) {
	toks := lexer.Tokenize("42 3.14 1e-9 1.5E+10")
	for i := 0; i < 4; i++ {
		assert.Equal(t, token.NUMBER, toks[i].Kind, "token %d", i)
	}
	assert.Equal(t, "1e-9", toks[2].Literal)
	assert.Equal(t, "1.5E+10", toks[3].Literal)
}

func TestTokenizeOperators(t *testing.T) {
	toks := lexer.Tokenize("== != <= >= && || ! ?")
	assert.Equal(t, []token.Kind{
		token.EQ, token.NEQ, token.LE, token.GE, token.AND_AND, token.OR_OR, token.BANG, token.QUESTION, token.EOF,
	}, kinds(toks))
}

func TestColumnsCountRunes(t *testing.T) {
	toks := lexer.Tokenize("Δ + 1")
	assert.Equal(t, "Δ", toks[0].Literal)
	assert.Equal(t, 1, toks[0].Pos.Column)
	assert.Equal(t, 3, toks[1].Pos.Column) // "+ " starts at rune column 3
}

func TestBareColonIsIllegalVarRef(t *testing.T) {
	toks := lexer.Tokenize(": + 1")
	assert.Equal(t, token.COLON, toks[0].Kind)
}

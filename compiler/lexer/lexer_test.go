package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scan(t *testing.T, src string) ([]Token, []LexError) {
	t.Helper()
	l := New(src, "test.mk")
	return l.ScanTokens()
}

func tokenTypes(tokens []Token) []TokenType {
	out := make([]TokenType, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Type
	}
	return out
}

func TestScanKeywordsAndPunctuation(t *testing.T) {
	tokens, errs := scan(t, `fn main() -> String { "hi" }`)
	require.Empty(t, errs)
	assert.Equal(t, []TokenType{
		TOKEN_FN, TOKEN_IDENTIFIER, TOKEN_LPAREN, TOKEN_RPAREN, TOKEN_ARROW,
		TOKEN_IDENTIFIER, TOKEN_LBRACE, TOKEN_STRING_LITERAL, TOKEN_RBRACE, TOKEN_EOF,
	}, tokenTypes(tokens))
}

func TestScanTwoCharOperators(t *testing.T) {
	tokens, errs := scan(t, `== != <= >= -> |>`)
	require.Empty(t, errs)
	assert.Equal(t, []TokenType{
		TOKEN_EQUAL_EQUAL, TOKEN_BANG_EQUAL, TOKEN_LESS_EQUAL, TOKEN_GREATER_EQUAL,
		TOKEN_ARROW, TOKEN_PIPE, TOKEN_EOF,
	}, tokenTypes(tokens))
}

func TestScanLineComment(t *testing.T) {
	tokens, errs := scan(t, "let x = 1 // trailing comment\nlet y = 2")
	require.Empty(t, errs)
	assert.Equal(t, []TokenType{
		TOKEN_LET, TOKEN_IDENTIFIER, TOKEN_EQUAL, TOKEN_INT_LITERAL,
		TOKEN_LET, TOKEN_IDENTIFIER, TOKEN_EQUAL, TOKEN_INT_LITERAL, TOKEN_EOF,
	}, tokenTypes(tokens))
}

func TestScanStringLiteralDecodesEscapes(t *testing.T) {
	tokens, errs := scan(t, `"a\nb"`)
	require.Empty(t, errs)
	require.Len(t, tokens, 2)
	assert.Equal(t, "a\nb", tokens[0].Literal)
}

func TestScanUnterminatedStringProducesErrorAndContinues(t *testing.T) {
	tokens, errs := scan(t, "\"unterminated\nlet x = 1")
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, "unterminated string")
	// scanning continues past the error token
	assert.Contains(t, tokenTypes(tokens), TOKEN_LET)
}

func TestScanInvalidCharacterProducesError(t *testing.T) {
	_, errs := scan(t, "let x = 1 $ 2")
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, "invalid character")
}

func TestScanWildcardVsIdentifier(t *testing.T) {
	tokens, errs := scan(t, "_ _foo foo_bar")
	require.Empty(t, errs)
	require.Len(t, tokens, 4)
	assert.Equal(t, TOKEN_UNDERSCORE, tokens[0].Type)
	assert.Equal(t, TOKEN_IDENTIFIER, tokens[1].Type)
	assert.Equal(t, "_foo", tokens[1].Lexeme)
	assert.Equal(t, TOKEN_IDENTIFIER, tokens[2].Type)
}

func TestScanHTTPMethodWordIsPlainIdentifier(t *testing.T) {
	// the lexer never special-cases method words; that's the parser's job
	// once it knows it is in API-method position.
	tokens, errs := scan(t, "get")
	require.Empty(t, errs)
	assert.Equal(t, TOKEN_IDENTIFIER, tokens[0].Type)
	assert.True(t, IsHTTPMethodWord("get"))
	assert.False(t, IsHTTPMethodWord("fetch"))
}

func TestLineAndColumnTracking(t *testing.T) {
	tokens, errs := scan(t, "let x = 1\nlet y = 2")
	require.Empty(t, errs)
	// second "let" starts on line 2, column 1
	var secondLet Token
	count := 0
	for _, tok := range tokens {
		if tok.Type == TOKEN_LET {
			count++
			if count == 2 {
				secondLet = tok
			}
		}
	}
	require.Equal(t, 2, count)
	assert.Equal(t, 2, secondLet.Line)
	assert.Equal(t, 1, secondLet.Column)
}

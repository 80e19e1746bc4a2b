// Package lexer turns mk source text into a token stream with positions,
// per spec.md §4.1.
package lexer

import "fmt"

// TokenType identifies the lexical category of a token.
type TokenType int

const (
	// Special
	TOKEN_EOF TokenType = iota
	TOKEN_ERROR

	// Keywords
	TOKEN_FN
	TOKEN_LET
	TOKEN_IF
	TOKEN_ELSE
	TOKEN_MATCH
	TOKEN_TYPE
	TOKEN_EFFECT
	TOKEN_IMPORT
	TOKEN_API
	TOKEN_MODULE
	TOKEN_USES
	TOKEN_AS
	TOKEN_TRUE
	TOKEN_FALSE
	TOKEN_SOME
	TOKEN_NONE
	TOKEN_OK
	TOKEN_ERR

	// Identifiers and literals
	TOKEN_IDENTIFIER
	TOKEN_INT_LITERAL
	TOKEN_STRING_LITERAL

	// Punctuation
	TOKEN_LPAREN   // (
	TOKEN_RPAREN   // )
	TOKEN_LBRACE   // {
	TOKEN_RBRACE   // }
	TOKEN_LANGLE   // <
	TOKEN_RANGLE   // >
	TOKEN_COMMA    // ,
	TOKEN_COLON    // :
	TOKEN_DOT      // .
	TOKEN_UNDERSCORE // _

	// Operators
	TOKEN_PLUS    // +
	TOKEN_MINUS   // -
	TOKEN_STAR    // *
	TOKEN_SLASH   // /
	TOKEN_PERCENT // %
	TOKEN_BANG    // !
	TOKEN_EQUAL   // =
	TOKEN_PIPE_BAR // | (union-constructor separator)
	TOKEN_PIPE_OR  // || (logical or)
	TOKEN_AMP_AND  // && (logical and)
	TOKEN_EQUAL_EQUAL   // ==
	TOKEN_BANG_EQUAL    // !=
	TOKEN_LESS_EQUAL    // <=
	TOKEN_GREATER_EQUAL // >=
	TOKEN_ARROW   // ->
	TOKEN_PIPE    // |>
)

// keywords maps a scanned identifier lexeme to its keyword token type.
// HTTP method words are deliberately not here: they are only keywords in
// the position immediately following "api", which the parser enforces,
// not the lexer (spec.md §3: "HTTP method words when in API position").
var keywords = map[string]TokenType{
	"fn":     TOKEN_FN,
	"let":    TOKEN_LET,
	"if":     TOKEN_IF,
	"else":   TOKEN_ELSE,
	"match":  TOKEN_MATCH,
	"type":   TOKEN_TYPE,
	"effect": TOKEN_EFFECT,
	"import": TOKEN_IMPORT,
	"api":    TOKEN_API,
	"module": TOKEN_MODULE,
	"uses":   TOKEN_USES,
	"as":     TOKEN_AS,
	"true":   TOKEN_TRUE,
	"false":  TOKEN_FALSE,
	"some":   TOKEN_SOME,
	"none":   TOKEN_NONE,
	"ok":     TOKEN_OK,
	"err":    TOKEN_ERR,
}

// httpMethods is the set of words recognized in API-method position,
// case-insensitively; the parser canonicalizes to uppercase.
var httpMethods = map[string]bool{
	"get": true, "post": true, "put": true, "delete": true,
	"patch": true, "head": true, "options": true,
}

// IsHTTPMethodWord reports whether lexeme (lowercased) names an HTTP method.
func IsHTTPMethodWord(lexeme string) bool {
	return httpMethods[lexeme]
}

// String returns a debug name for t.
func (t TokenType) String() string {
	switch t {
	case TOKEN_EOF:
		return "EOF"
	case TOKEN_ERROR:
		return "ERROR"
	case TOKEN_FN:
		return "FN"
	case TOKEN_LET:
		return "LET"
	case TOKEN_IF:
		return "IF"
	case TOKEN_ELSE:
		return "ELSE"
	case TOKEN_MATCH:
		return "MATCH"
	case TOKEN_TYPE:
		return "TYPE"
	case TOKEN_EFFECT:
		return "EFFECT"
	case TOKEN_IMPORT:
		return "IMPORT"
	case TOKEN_API:
		return "API"
	case TOKEN_MODULE:
		return "MODULE"
	case TOKEN_USES:
		return "USES"
	case TOKEN_AS:
		return "AS"
	case TOKEN_TRUE:
		return "TRUE"
	case TOKEN_FALSE:
		return "FALSE"
	case TOKEN_SOME:
		return "SOME"
	case TOKEN_NONE:
		return "NONE"
	case TOKEN_OK:
		return "OK"
	case TOKEN_ERR:
		return "ERR"
	case TOKEN_IDENTIFIER:
		return "IDENTIFIER"
	case TOKEN_INT_LITERAL:
		return "INT_LITERAL"
	case TOKEN_STRING_LITERAL:
		return "STRING_LITERAL"
	case TOKEN_LPAREN:
		return "LPAREN"
	case TOKEN_RPAREN:
		return "RPAREN"
	case TOKEN_LBRACE:
		return "LBRACE"
	case TOKEN_RBRACE:
		return "RBRACE"
	case TOKEN_LANGLE:
		return "LANGLE"
	case TOKEN_RANGLE:
		return "RANGLE"
	case TOKEN_COMMA:
		return "COMMA"
	case TOKEN_COLON:
		return "COLON"
	case TOKEN_DOT:
		return "DOT"
	case TOKEN_UNDERSCORE:
		return "UNDERSCORE"
	case TOKEN_PLUS:
		return "PLUS"
	case TOKEN_MINUS:
		return "MINUS"
	case TOKEN_STAR:
		return "STAR"
	case TOKEN_SLASH:
		return "SLASH"
	case TOKEN_PERCENT:
		return "PERCENT"
	case TOKEN_BANG:
		return "BANG"
	case TOKEN_EQUAL:
		return "EQUAL"
	case TOKEN_PIPE_BAR:
		return "PIPE_BAR"
	case TOKEN_PIPE_OR:
		return "PIPE_OR"
	case TOKEN_AMP_AND:
		return "AMP_AND"
	case TOKEN_EQUAL_EQUAL:
		return "EQUAL_EQUAL"
	case TOKEN_BANG_EQUAL:
		return "BANG_EQUAL"
	case TOKEN_LESS_EQUAL:
		return "LESS_EQUAL"
	case TOKEN_GREATER_EQUAL:
		return "GREATER_EQUAL"
	case TOKEN_ARROW:
		return "ARROW"
	case TOKEN_PIPE:
		return "PIPE"
	default:
		return "UNKNOWN"
	}
}

// Token is a single lexical token: its kind, the source slice that
// produced it, 1-based position, and a decoded literal value when
// applicable.
type Token struct {
	Type    TokenType
	Lexeme  string
	Literal interface{} // int64, string, or bool for literal tokens
	Line    int
	Column  int
	File    string
}

// String renders a token for debugging/test failure output.
func (t Token) String() string {
	if t.Literal != nil {
		return fmt.Sprintf("%s(%v) [%d:%d]", t.Type, t.Literal, t.Line, t.Column)
	}
	return fmt.Sprintf("%s(%s) [%d:%d]", t.Type, t.Lexeme, t.Line, t.Column)
}

// LexError is a single lexical diagnostic, carried alongside the token
// stream by Lexer.ScanTokens rather than raised.
type LexError struct {
	Message string
	Line    int
	Column  int
	File    string
}

// Error implements the error interface.
func (e LexError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.File, e.Line, e.Column, e.Message)
}

package parser

import (
	"github.com/manaknight/mkc/compiler/errors"
	"github.com/manaknight/mkc/compiler/lexer"
)

func tokenLocation(t lexer.Token) errors.SourceLocation {
	return errors.SourceLocation{File: t.File, Line: t.Line, Column: t.Column}
}

package sema

import (
	"testing"

	"github.com/manaknight/mkc/compiler/lexer"
	"github.com/manaknight/mkc/compiler/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func analyze(t *testing.T, src string) []string {
	t.Helper()
	tokens, lexErrs := lexer.New(src, "test.mk").ScanTokens()
	require.Empty(t, lexErrs)
	prog, pbag := parser.New(tokens).Parse()
	require.True(t, pbag.Clean(), pbag.All())

	bag := Analyze(prog)
	codes := make([]string, 0, bag.Len())
	for _, e := range bag.Errors() {
		codes = append(codes, e.Code)
	}
	return codes
}

func TestAnalyzeCleanProgram(t *testing.T) {
	codes := analyze(t, `module m {
		fn add(a: Int, b: Int) -> Int { a + b }
		fn main() -> Int { add(1, 2) }
	}`)
	assert.Empty(t, codes)
}

func TestAnalyzeUnknownIdentifier(t *testing.T) {
	codes := analyze(t, `module m { fn f() -> Int { mystery } }`)
	assert.Contains(t, codes, "E2001")
}

func TestAnalyzeTypeMismatchOnReturn(t *testing.T) {
	codes := analyze(t, `module m { fn f() -> Int { "oops" } }`)
	assert.Contains(t, codes, "E2002")
}

func TestAnalyzeWrongArgumentCount(t *testing.T) {
	codes := analyze(t, `module m {
		fn add(a: Int, b: Int) -> Int { a + b }
		fn f() -> Int { add(1) }
	}`)
	assert.Contains(t, codes, "E2004")
}

func TestAnalyzeInvalidConditionType(t *testing.T) {
	codes := analyze(t, `module m { fn f() -> Int { if 1 { 2 } else { 3 } } }`)
	assert.Contains(t, codes, "E2007")
}

func TestAnalyzeMissingReturnValue(t *testing.T) {
	codes := analyze(t, `module m {
		fn f(x: Bool) -> Int {
			if x { 1 }
		}
	}`)
	assert.Contains(t, codes, "E2005")
}

func TestAnalyzeShadowingForbidden(t *testing.T) {
	codes := analyze(t, `module m {
		fn f() -> Int {
			let x = 1
			let x = 2
			x
		}
	}`)
	assert.Contains(t, codes, "E2006")
}

func TestAnalyzeUnknownEffectName(t *testing.T) {
	codes := analyze(t, `module m {
		fn f() -> Unit uses { ghost } { }
	}`)
	assert.Contains(t, codes, "E3003")
}

func TestAnalyzeEffectLeakage(t *testing.T) {
	codes := analyze(t, `module m {
		effect log
		fn logger() -> Unit uses { log } { }
		fn pure_fn() -> Unit { logger() }
	}`)
	assert.Contains(t, codes, "E3002")
}

func TestAnalyzeUndeclaredEffectUsage(t *testing.T) {
	codes := analyze(t, `module m {
		effect log
		effect net
		fn logger() -> Unit uses { log } { }
		fn caller() -> Unit uses { net } { logger() }
	}`)
	assert.Contains(t, codes, "E3001")
}

func TestAnalyzeLambdaEffectUsageForbidden(t *testing.T) {
	codes := analyze(t, `module m {
		effect log
		fn logger() -> Unit uses { log } { }
		fn f() -> Unit uses { log } {
			let g = fn() { logger() }
		}
	}`)
	assert.Contains(t, codes, "E3004")
}

func TestAnalyzeNonExhaustiveMatch(t *testing.T) {
	codes := analyze(t, `module m {
		type T = A | B
		fn f(x: T) -> Int { match x { A -> 1 } }
	}`)
	assert.Contains(t, codes, "E4001")
}

func TestAnalyzeMissingWildcardOnNonUnion(t *testing.T) {
	codes := analyze(t, `module m {
		fn f(x: Int) -> Int { match x { } }
	}`)
	assert.Contains(t, codes, "E4002")
}

func TestAnalyzeDuplicateMatchArm(t *testing.T) {
	codes := analyze(t, `module m {
		type T = A | B
		fn f(x: T) -> Int { match x { A -> 1, A -> 2, _ -> 0 } }
	}`)
	assert.Contains(t, codes, "E4003")
}

func TestAnalyzeDistinctNestedPatternsUnderSameTagAreNotDuplicates(t *testing.T) {
	codes := analyze(t, `module m {
		fn f(x: Option<Result<Int, String>>) -> Int {
			match x { some(ok(v)) -> v, some(err(e)) -> 0, none -> 0 }
		}
	}`)
	assert.NotContains(t, codes, "E4003")
}

func TestAnalyzeDuplicateNestedPatternShapeIsStillFlagged(t *testing.T) {
	codes := analyze(t, `module m {
		fn f(x: Option<Result<Int, String>>) -> Int {
			match x { some(ok(v)) -> v, some(ok(w)) -> w, some(err(e)) -> 0, none -> 0 }
		}
	}`)
	assert.Contains(t, codes, "E4003")
}

func TestAnalyzeInconsistentMatchResultTypes(t *testing.T) {
	codes := analyze(t, `module m {
		type T = A | B
		fn f(x: T) -> Int { match x { A -> 1, _ -> "nope" } }
	}`)
	assert.Contains(t, codes, "E4004")
}

func TestAnalyzeExhaustiveMatchIsClean(t *testing.T) {
	codes := analyze(t, `module m {
		type T = A | B
		fn f(x: T) -> Int { match x { A -> 1, B -> 2 } }
	}`)
	assert.NotContains(t, codes, "E4001")
}

func TestAnalyzeHandlerEffectCoverageGap(t *testing.T) {
	tokens, lexErrs := lexer.New(`
		module m {
			effect log
			fn logger() -> Unit uses { log } { }
		}
		api get "/ping" () -> String uses { } { logger() }
	`, "test.mk").ScanTokens()
	require.Empty(t, lexErrs)
	prog, pbag := parser.New(tokens).Parse()
	require.True(t, pbag.Clean(), pbag.All())
	bag := Analyze(prog)
	var codes []string
	for _, e := range bag.Errors() {
		codes = append(codes, e.Code)
	}
	assert.Contains(t, codes, "E6005")
}

func TestAnalyzeOptionConstructorsAreExhaustive(t *testing.T) {
	codes := analyze(t, `module m {
		fn f(x: Option<Int>) -> Int { match x { some(v) -> v, none -> 0 } }
	}`)
	assert.NotContains(t, codes, "E4001")
}

package format

import (
	"strings"
	"testing"

	"github.com/manaknight/mkc/compiler/lexer"
	"github.com/manaknight/mkc/compiler/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const messySource = `module m{
effect log
type Shape=A|B(radius:Int)
fn   area(s:Shape)->Int{
match s{A->0,B(radius)->radius*radius}
}
fn report(s:Shape)->Unit uses{log}{
let a=area(s)
if a>0{logArea(a)}else{logArea(0)}
}
}
api get "/shapes"()->Int uses{}{
area(A)
}`

func TestFormatProducesCanonicalOutput(t *testing.T) {
	out, err := Format(messySource)
	require.NoError(t, err)
	assert.Contains(t, out, "module m {")
	assert.Contains(t, out, "type Shape = A | B(radius: Int)")
	assert.Contains(t, out, "fn area(s: Shape) -> Int {")
	assert.Contains(t, out, "A"+strings.Repeat(" ", len("B(radius)")-len("A"))+" -> 0,")
	assert.Contains(t, out, "B(radius) -> radius * radius,")
	assert.Contains(t, out, "fn report(s: Shape) -> Unit uses { log } {")
	assert.Contains(t, out, "if a > 0 {")
	assert.Contains(t, out, "} else {")
	assert.Contains(t, out, `api get "/shapes" () -> Int {`)
}

func TestFormatIdempotent(t *testing.T) {
	once, err := Format(messySource)
	require.NoError(t, err)
	twice, err := Format(once)
	require.NoError(t, err)
	assert.Equal(t, once, twice)

	thrice, err := Format(twice)
	require.NoError(t, err)
	assert.Equal(t, twice, thrice)
}

func TestFormatParseFixpoint(t *testing.T) {
	formatted, err := Format(messySource)
	require.NoError(t, err)

	tokens, lexErrs := lexer.New(formatted, "test.mk").ScanTokens()
	require.Empty(t, lexErrs)
	prog, bag := parser.New(tokens).Parse()
	require.True(t, bag.Clean(), bag.All())

	reformatted := New(nil).FormatProgram(prog)
	assert.Equal(t, formatted, reformatted)
}

func TestFormatBinaryPrecedenceRoundTrips(t *testing.T) {
	src := `module m {
fn f() -> Int { (1 + 2) * 3 }
fn g() -> Int { 1 + 2 * 3 }
fn h() -> Int { 1 - (2 - 3) }
}`
	out, err := Format(src)
	require.NoError(t, err)
	assert.Contains(t, out, "(1 + 2) * 3")
	assert.Contains(t, out, "1 + 2 * 3")
	assert.Contains(t, out, "1 - (2 - 3)")

	tokens, lexErrs := lexer.New(out, "test.mk").ScanTokens()
	require.Empty(t, lexErrs)
	_, bag := parser.New(tokens).Parse()
	require.True(t, bag.Clean(), bag.All())
}

func TestFormatEmptyBlockAndRecordType(t *testing.T) {
	src := `module m {
type Empty = { }
fn noop() -> Unit { }
}`
	out, err := Format(src)
	require.NoError(t, err)
	assert.Contains(t, out, "fn noop() -> Unit {")
	assert.Contains(t, out, "type Empty = { }")
}

func TestFormatIfStatementElseSameLine(t *testing.T) {
	src := `module m {
fn f(x: Bool) -> Int {
if x { 1 } else { 2 }
0
}
}`
	out, err := Format(src)
	require.NoError(t, err)
	assert.Contains(t, out, "if x {")
	assert.Contains(t, out, "} else {")

	tokens, lexErrs := lexer.New(out, "test.mk").ScanTokens()
	require.Empty(t, lexErrs)
	_, bag := parser.New(tokens).Parse()
	require.True(t, bag.Clean(), bag.All())
}

package symbols

import (
	"testing"

	"github.com/manaknight/mkc/compiler/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeclareAndResolve(t *testing.T) {
	tab := NewTable()
	loc := errors.SourceLocation{File: "a.mk", Line: 1, Column: 1}

	err := tab.Declare(&Symbol{Name: "x", Kind: KindVariable}, loc)
	require.Nil(t, err)

	sym := tab.Resolve("x")
	require.NotNil(t, sym)
	assert.Equal(t, "x", sym.Name)
	assert.Equal(t, tab.root, sym.Scope)
}

func TestShadowingForbiddenAcrossScopes(t *testing.T) {
	tab := NewTable()
	loc := errors.SourceLocation{File: "a.mk", Line: 1, Column: 1}
	require.Nil(t, tab.Declare(&Symbol{Name: "x", Kind: KindVariable}, loc))

	tab.Enter("block")
	err := tab.Declare(&Symbol{Name: "x", Kind: KindVariable}, loc)
	require.NotNil(t, err)
	assert.Equal(t, errors.EShadowingForbidden, err.Code)
}

func TestShadowingForbiddenSameScope(t *testing.T) {
	tab := NewTable()
	loc := errors.SourceLocation{File: "a.mk", Line: 1, Column: 1}
	require.Nil(t, tab.Declare(&Symbol{Name: "x", Kind: KindVariable}, loc))
	err := tab.Declare(&Symbol{Name: "x", Kind: KindVariable}, loc)
	require.NotNil(t, err)
}

func TestLeaveCannotPopRoot(t *testing.T) {
	tab := NewTable()
	tab.Leave()
	assert.Equal(t, tab.root, tab.current)
}

func TestResolveUnknownReturnsNil(t *testing.T) {
	tab := NewTable()
	assert.Nil(t, tab.Resolve("nope"))
}

func TestNestedScopeSeesOuterBinding(t *testing.T) {
	tab := NewTable()
	loc := errors.SourceLocation{File: "a.mk", Line: 1, Column: 1}
	require.Nil(t, tab.Declare(&Symbol{Name: "outer", Kind: KindVariable}, loc))
	tab.Enter("inner")
	sym := tab.Resolve("outer")
	require.NotNil(t, sym)
	tab.Leave()
	assert.Equal(t, tab.root, tab.current)
}

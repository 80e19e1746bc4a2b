package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgramLocationFallsBackToFirstChild(t *testing.T) {
	empty := &Program{}
	assert.Equal(t, SourceLocation{Line: 1, Column: 1}, empty.Location())

	mod := &ModuleDecl{Name: "a", Loc: SourceLocation{File: "a.mk", Line: 3, Column: 1}}
	p := &Program{Modules: []*ModuleDecl{mod}}
	assert.Equal(t, mod.Loc, p.Location())

	route := &APIRouteDecl{Method: "GET", Path: "/ping", Loc: SourceLocation{File: "a.mk", Line: 1, Column: 1}}
	p2 := &Program{Routes: []*APIRouteDecl{route}}
	assert.Equal(t, route.Loc, p2.Location())
}

func TestFunctionDeclIsPure(t *testing.T) {
	pure := &FunctionDecl{Name: "add"}
	assert.True(t, pure.IsPure())

	effectful := &FunctionDecl{Name: "log_it", Effects: []string{"log"}}
	assert.False(t, effectful.IsPure())
}

func TestNodeInterfacesAreImplemented(t *testing.T) {
	var _ Node = (*Program)(nil)
	var _ Decl = (*FunctionDecl)(nil)
	var _ Decl = (*TypeDecl)(nil)
	var _ Decl = (*EffectDecl)(nil)
	var _ Decl = (*ImportDecl)(nil)
	var _ Decl = (*ModuleDecl)(nil)
	var _ Decl = (*APIRouteDecl)(nil)
	var _ Stmt = (*LetStmt)(nil)
	var _ Stmt = (*ExprStmt)(nil)
	var _ Stmt = (*IfStmt)(nil)
	var _ Stmt = (*MatchStmt)(nil)
	var _ Expr = (*LiteralExpr)(nil)
	var _ Expr = (*IdentifierExpr)(nil)
	var _ Expr = (*CallExpr)(nil)
	var _ Expr = (*LambdaExpr)(nil)
	var _ Expr = (*IfExpr)(nil)
	var _ Expr = (*MatchExpr)(nil)
	var _ Expr = (*BinaryExpr)(nil)
	var _ Expr = (*UnaryExpr)(nil)
	var _ Expr = (*PipeExpr)(nil)
	var _ Pattern = (*ConstructorPattern)(nil)
	var _ Pattern = (*IdentifierPattern)(nil)
	var _ Pattern = (*WildcardPattern)(nil)
	var _ Type = (*PrimitiveType)(nil)
	var _ Type = (*NamedType)(nil)
	var _ Type = (*GenericType)(nil)
	var _ Type = (*FunctionType)(nil)
}

func TestPrimitiveKindString(t *testing.T) {
	assert.Equal(t, "Int", PrimInt.String())
	assert.Equal(t, "Bool", PrimBool.String())
	assert.Equal(t, "String", PrimString.String())
	assert.Equal(t, "Unit", PrimUnit.String())
}

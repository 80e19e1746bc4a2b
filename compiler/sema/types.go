package sema

import "github.com/manaknight/mkc/compiler/ast"

// typesEqual implements the structural equality rule from spec.md §4.5:
// primitives compare by kind, named types by name, generic instantiations
// by head name plus pairwise-equal arguments, function types by equal
// parameter lists, equal result, and equal effect set. There is no
// subtyping.
func typesEqual(a, b ast.Type) bool {
	if a == nil || b == nil {
		return false
	}
	switch x := a.(type) {
	case *ast.PrimitiveType:
		y, ok := b.(*ast.PrimitiveType)
		return ok && x.Kind == y.Kind
	case *ast.NamedType:
		y, ok := b.(*ast.NamedType)
		return ok && x.Name == y.Name
	case *ast.GenericType:
		y, ok := b.(*ast.GenericType)
		if !ok || x.Name != y.Name || len(x.Args) != len(y.Args) {
			return false
		}
		for i := range x.Args {
			if !typesEqual(x.Args[i], y.Args[i]) {
				return false
			}
		}
		return true
	case *ast.FunctionType:
		y, ok := b.(*ast.FunctionType)
		if !ok || len(x.Params) != len(y.Params) || !typesEqual(x.Result, y.Result) {
			return false
		}
		for i := range x.Params {
			if !typesEqual(x.Params[i], y.Params[i]) {
				return false
			}
		}
		return effectSetsEqual(x.Effects, y.Effects)
	default:
		return false
	}
}

func effectSetsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	seen := map[string]bool{}
	for _, e := range a {
		seen[e] = true
	}
	for _, e := range b {
		if !seen[e] {
			return false
		}
	}
	return true
}

func isPrimitive(t ast.Type, kind ast.PrimitiveKind) bool {
	p, ok := t.(*ast.PrimitiveType)
	return ok && p.Kind == kind
}

func isBool(t ast.Type) bool   { return isPrimitive(t, ast.PrimBool) }
func isInt(t ast.Type) bool    { return isPrimitive(t, ast.PrimInt) }
func isUnitType(t ast.Type) bool { return t == nil || isPrimitive(t, ast.PrimUnit) }

func unitType() ast.Type { return &ast.PrimitiveType{Kind: ast.PrimUnit} }
func boolType() ast.Type { return &ast.PrimitiveType{Kind: ast.PrimBool} }
func intType() ast.Type  { return &ast.PrimitiveType{Kind: ast.PrimInt} }
func stringType() ast.Type { return &ast.PrimitiveType{Kind: ast.PrimString} }

func contains(xs []string, v string) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}

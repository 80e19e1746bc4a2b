// Package sema implements the semantic analyzer (spec.md §4.5): a
// two-pass traversal that hoists every declaration before checking any
// body, then performs structural type checking, effect checking, pattern
// exhaustiveness, and totality, accumulating diagnostics rather than
// stopping at the first one.
package sema

import (
	"fmt"
	"strings"

	"github.com/manaknight/mkc/compiler/ast"
	"github.com/manaknight/mkc/compiler/errors"
	"github.com/manaknight/mkc/compiler/symbols"
)

// Analyzer runs the two-pass check over one translation unit's modules and
// top-level API routes.
type Analyzer struct {
	table        *symbols.Table
	bag          *errors.Bag
	declaredFx   map[string]bool // effect names declared anywhere via `effect name`
}

// New creates an Analyzer with a fresh, prelude-seeded symbol table.
func New() *Analyzer {
	table := symbols.NewTable()
	loadPrelude(table)
	return &Analyzer{table: table, bag: errors.NewBag(), declaredFx: map[string]bool{}}
}

// context carries the effect/purity state of the function or lambda body
// currently being checked.
type context struct {
	declaredEffects []string
	inLambda        bool
	usedEffects     map[string]bool // accumulates every effect this body transitively uses
}

func newContext(effects []string) *context {
	return &context{declaredEffects: effects, usedEffects: map[string]bool{}}
}

// Analyze runs the full two-pass check over prog and returns the
// accumulated diagnostic bag. Downstream phases must check bag.Clean()
// before running, per spec.md §4.5's failure model.
func Analyze(prog *ast.Program) *errors.Bag {
	a := New()
	a.collectEffectNames(prog)

	for _, mod := range prog.Modules {
		a.hoistModule(mod)
	}
	for _, mod := range prog.Modules {
		a.checkModule(mod)
	}
	for _, route := range prog.Routes {
		a.checkAPIRoute(route)
	}
	return a.bag
}

func (a *Analyzer) collectEffectNames(prog *ast.Program) {
	for _, mod := range prog.Modules {
		for _, decl := range mod.Decls {
			if eff, ok := decl.(*ast.EffectDecl); ok {
				a.declaredFx[eff.Name] = true
			}
		}
	}
}

func (a *Analyzer) errf(code string, loc errors.SourceLocation, format string, args ...interface{}) {
	a.bag.Add(errors.Newf("sema", code, loc, format, args...))
}

// --- pass 1: hoist ---

// Module bodies are hoisted directly into the global scope rather than a
// per-module child scope: spec.md's grammar gives "module" no scoping
// rule of its own, and every S1-S6 fixture calls functions and runs API
// handlers without ever importing the module that declares them. Treating
// a module as a namespace label rather than a scope barrier is what makes
// that possible while every name is still declared exactly once globally.
func (a *Analyzer) hoistModule(mod *ast.ModuleDecl) {
	for _, decl := range mod.Decls {
		a.hoistDecl(decl)
	}
}

func (a *Analyzer) hoistDecl(decl ast.Decl) {
	switch d := decl.(type) {
	case *ast.FunctionDecl:
		a.checkEffectNamesKnown(d.Effects, d.Loc)
		fnType := functionTypeOf(d)
		if err := a.table.Declare(&symbols.Symbol{Name: d.Name, Kind: symbols.KindFunction, Type: fnType, Decl: d}, d.Loc); err != nil {
			a.bag.Add(*err)
		}
	case *ast.TypeDecl:
		if err := a.table.Declare(&symbols.Symbol{Name: d.Name, Kind: symbols.KindType, Decl: d}, d.Loc); err != nil {
			a.bag.Add(*err)
		}
	case *ast.EffectDecl:
		if err := a.table.Declare(&symbols.Symbol{Name: d.Name, Kind: symbols.KindEffect, Decl: d}, d.Loc); err != nil {
			a.bag.Add(*err)
		}
	case *ast.ImportDecl:
		name := d.Alias
		if name == "" {
			name = d.Path
		}
		a.table.Declare(&symbols.Symbol{Name: name, Kind: symbols.KindModule, Decl: d}, d.Loc)
	}
}

func (a *Analyzer) checkEffectNamesKnown(effects []string, loc errors.SourceLocation) {
	for _, e := range effects {
		if !a.declaredFx[e] {
			a.errf(errors.EUnknownEffectName, loc, "%q is not a declared effect", e)
		}
	}
}

func functionTypeOf(d *ast.FunctionDecl) *ast.FunctionType {
	params := make([]ast.Type, len(d.Params))
	for i, p := range d.Params {
		params[i] = p.Type
	}
	return &ast.FunctionType{Params: params, Result: d.ReturnType, Effects: d.Effects, Loc: d.Loc}
}

// --- pass 2: check ---

func (a *Analyzer) checkModule(mod *ast.ModuleDecl) {
	for _, decl := range mod.Decls {
		a.checkDecl(decl)
	}
}

func (a *Analyzer) checkDecl(decl ast.Decl) {
	fn, ok := decl.(*ast.FunctionDecl)
	if !ok {
		return
	}
	a.table.Enter(fn.Name)
	for _, p := range fn.Params {
		if err := a.table.Declare(&symbols.Symbol{Name: p.Name, Kind: symbols.KindVariable, Type: p.Type}, p.Loc); err != nil {
			a.bag.Add(*err)
		}
	}

	ctx := newContext(fn.Effects)
	bodyType := a.checkBlock(fn.Body, ctx)

	if !isUnitType(fn.ReturnType) {
		if fn.Body.Tail == nil {
			a.errf(errors.EMissingReturnValue, fn.Loc, "function %q must produce a value on every path", fn.Name)
		} else if isPartialTail(fn.Body.Tail) {
			a.errf(errors.EMissingReturnValue, fn.Body.Tail.Location(), "function %q must produce a value on every path: if without else is not total", fn.Name)
		} else if bodyType != nil && !typesEqual(bodyType, fn.ReturnType) {
			a.errf(errors.ETypeMismatch, fn.Body.Tail.Location(), "function %q returns %s, expected %s", fn.Name, describeType(bodyType), describeType(fn.ReturnType))
		}
	}

	a.table.Leave()
}

func (a *Analyzer) checkAPIRoute(route *ast.APIRouteDecl) {
	a.checkEffectNamesKnown(route.Effects, route.Loc)

	if _, isFn := route.ReturnType.(*ast.FunctionType); isFn || isUnitType(route.ReturnType) {
		a.errf(errors.EHandlerReturnNotResponse, route.Loc, "handler %s %s must return a response value, not %s", route.Method, route.Path, describeType(route.ReturnType))
	}

	a.table.Enter("api:" + route.Method + route.Path)
	for _, p := range route.Params {
		if err := a.table.Declare(&symbols.Symbol{Name: p.Name, Kind: symbols.KindVariable, Type: p.Type}, p.Loc); err != nil {
			a.bag.Add(*err)
		}
	}

	ctx := newContext(route.Effects)
	bodyType := a.checkBlock(route.Body, ctx)

	if route.Body.Tail == nil {
		a.errf(errors.EMissingReturnValue, route.Loc, "handler %s %s must produce a value on every path", route.Method, route.Path)
	} else if isPartialTail(route.Body.Tail) {
		a.errf(errors.EMissingReturnValue, route.Body.Tail.Location(), "handler %s %s must produce a value on every path: if without else is not total", route.Method, route.Path)
	} else if bodyType != nil && !typesEqual(bodyType, route.ReturnType) {
		a.errf(errors.ETypeMismatch, route.Body.Tail.Location(), "handler %s %s returns %s, expected %s", route.Method, route.Path, describeType(bodyType), describeType(route.ReturnType))
	}

	for used := range ctx.usedEffects {
		if !contains(route.Effects, used) {
			a.errf(errors.EHandlerEffectCoverage, route.Loc, "handler %s %s uses effect %q not in its declared set", route.Method, route.Path, used)
		}
	}

	a.table.Leave()
}

// --- statements & blocks ---

// checkBlock checks every statement, then the tail expression if present,
// returning the tail's type (nil for a block with no tail, i.e. Unit).
func (a *Analyzer) checkBlock(block *ast.Block, ctx *context) ast.Type {
	a.table.Enter("block")
	defer a.table.Leave()

	for _, stmt := range block.Stmts {
		a.checkStmt(stmt, ctx)
	}
	if block.Tail == nil {
		return nil
	}
	return a.checkExpr(block.Tail, ctx)
}

func (a *Analyzer) checkStmt(stmt ast.Stmt, ctx *context) {
	switch s := stmt.(type) {
	case *ast.LetStmt:
		t := a.checkExpr(s.Value, ctx)
		if err := a.table.Declare(&symbols.Symbol{Name: s.Name, Kind: symbols.KindVariable, Type: t}, s.Loc); err != nil {
			a.bag.Add(*err)
		}
	case *ast.ExprStmt:
		a.checkExpr(s.Expr, ctx)
	case *ast.IfStmt:
		a.checkCondition(s.Cond, ctx)
		a.checkBlock(s.Then, ctx)
		if s.Else != nil {
			a.checkBlock(s.Else, ctx)
		}
	case *ast.MatchStmt:
		scrutType := a.checkExpr(s.Scrutinee, ctx)
		a.checkMatchArms(scrutType, s.Cases, s.Loc, ctx, false)
	}
}

func (a *Analyzer) checkCondition(cond ast.Expr, ctx *context) {
	t := a.checkExpr(cond, ctx)
	if t != nil && !isBool(t) {
		a.errf(errors.EInvalidConditionType, cond.Location(), "condition must have type Bool, found %s", describeType(t))
	}
}

// --- expressions ---

func (a *Analyzer) checkExpr(expr ast.Expr, ctx *context) ast.Type {
	switch e := expr.(type) {
	case *ast.LiteralExpr:
		switch e.Kind {
		case ast.LiteralInt:
			return intType()
		case ast.LiteralString:
			return stringType()
		case ast.LiteralBool:
			return boolType()
		}
		return nil

	case *ast.IdentifierExpr:
		sym := a.table.Resolve(e.Name)
		if sym == nil {
			a.errf(errors.EUnknownIdentifier, e.Loc, "unknown identifier %q", e.Name)
			return nil
		}
		return sym.Type

	case *ast.CallExpr:
		return a.checkCall(e, ctx)

	case *ast.LambdaExpr:
		return a.checkLambda(e, ctx)

	case *ast.IfExpr:
		return a.checkIfExpr(e, ctx)

	case *ast.MatchExpr:
		return a.checkMatchExpr(e, ctx)

	case *ast.BinaryExpr:
		return a.checkBinary(e, ctx)

	case *ast.UnaryExpr:
		return a.checkUnary(e, ctx)

	case *ast.PipeExpr:
		return a.checkPipe(e, ctx)

	case *ast.BlockExpr:
		return a.checkBlock(e.Block, ctx)

	default:
		a.errf(errors.EInternalUnreachable, expr.Location(), "unrecognized expression node")
		return nil
	}
}

func (a *Analyzer) checkCall(call *ast.CallExpr, ctx *context) ast.Type {
	calleeType := a.checkExpr(call.Callee, ctx)
	a.trackEffectUse(call.Callee, ctx)

	if calleeType == nil {
		return nil
	}
	fnType, ok := calleeType.(*ast.FunctionType)
	if !ok {
		a.errf(errors.EInvalidFunctionCall, call.Loc, "cannot call a non-function value")
		return nil
	}
	if len(call.Args) != len(fnType.Params) {
		a.errf(errors.EWrongArgumentCount, call.Loc, "expected %d argument(s), found %d", len(fnType.Params), len(call.Args))
		return fnType.Result
	}
	for i, arg := range call.Args {
		argType := a.checkExpr(arg, ctx)
		if argType != nil && fnType.Params[i] != nil && !typesEqual(argType, fnType.Params[i]) {
			a.errf(errors.ETypeMismatch, arg.Location(), "argument %d has type %s, expected %s", i+1, describeType(argType), describeType(fnType.Params[i]))
		}
	}
	return fnType.Result
}

// trackEffectUse inspects a call's callee identifier and, if it names an
// effectful function, applies the effect rules from spec.md §4.5: lambdas
// forbid any effect use (E3004); a pure function calling an effectful one
// is leakage (E3002); an impure function using an effect outside its
// declared set is undeclared usage (E3001).
func (a *Analyzer) trackEffectUse(callee ast.Expr, ctx *context) {
	ident, ok := callee.(*ast.IdentifierExpr)
	if !ok {
		return
	}
	sym := a.table.Resolve(ident.Name)
	if sym == nil || sym.Kind != symbols.KindFunction {
		return
	}
	fnDecl, ok := sym.Decl.(*ast.FunctionDecl)
	if !ok || fnDecl.IsPure() {
		return
	}

	for _, eff := range fnDecl.Effects {
		ctx.usedEffects[eff] = true
	}

	if ctx.inLambda {
		a.errf(errors.ELambdaEffectUsage, ident.Loc, "lambdas are always pure; %q uses effects %s", ident.Name, strings.Join(fnDecl.Effects, ", "))
		return
	}
	if len(ctx.declaredEffects) == 0 {
		a.errf(errors.EEffectLeakage, ident.Loc, "pure function calls effectful function %q", ident.Name)
		return
	}
	for _, eff := range fnDecl.Effects {
		if !contains(ctx.declaredEffects, eff) {
			a.errf(errors.EUndeclaredEffect, ident.Loc, "use of effect %q not in the declared effect set", eff)
		}
	}
}

func (a *Analyzer) checkLambda(lam *ast.LambdaExpr, ctx *context) ast.Type {
	a.table.Enter("lambda")
	defer a.table.Leave()
	for _, p := range lam.Params {
		if err := a.table.Declare(&symbols.Symbol{Name: p.Name, Kind: symbols.KindVariable, Type: p.Type}, p.Loc); err != nil {
			a.bag.Add(*err)
		}
	}
	lamCtx := newContext(nil)
	lamCtx.inLambda = true
	resultType := a.checkBlock(lam.Body, lamCtx)

	params := make([]ast.Type, len(lam.Params))
	for i, p := range lam.Params {
		params[i] = p.Type
	}
	return &ast.FunctionType{Params: params, Result: resultType, Loc: lam.Loc}
}

// isPartialTail reports whether expr, used as a block's tail, is an if
// expression missing its else branch — the one tail shape that is never
// total regardless of the then-branch's type (spec.md §8 property 8).
func isPartialTail(expr ast.Expr) bool {
	ifx, ok := expr.(*ast.IfExpr)
	return ok && ifx.Else == nil
}

func (a *Analyzer) checkIfExpr(ifx *ast.IfExpr, ctx *context) ast.Type {
	a.checkCondition(ifx.Cond, ctx)
	thenType := a.checkBlock(ifx.Then, ctx)
	if ifx.Else == nil {
		return nil
	}
	elseType := a.checkBlock(ifx.Else, ctx)
	if thenType != nil && elseType != nil && !typesEqual(thenType, elseType) {
		a.errf(errors.ETypeMismatch, ifx.Loc, "if branches must have the same type: %s vs %s", describeType(thenType), describeType(elseType))
		return nil
	}
	return thenType
}

func (a *Analyzer) checkMatchExpr(m *ast.MatchExpr, ctx *context) ast.Type {
	scrutType := a.checkExpr(m.Scrutinee, ctx)
	return a.checkMatchArms(scrutType, m.Cases, m.Loc, ctx, true)
}

// checkMatchArms type-checks every arm body and enforces exhaustiveness;
// asExpr controls whether a common arm type is computed and returned.
func (a *Analyzer) checkMatchArms(scrutType ast.Type, cases []*ast.MatchCase, loc errors.SourceLocation, ctx *context, asExpr bool) ast.Type {
	constructors, isUnion := a.unionConstructors(scrutType)

	seenShapes := map[string]bool{}  // full structural key, for duplicate-arm detection
	seenTopTags := map[string]bool{} // outer constructor tag only, for exhaustiveness
	hasWildcard := false
	var resultType ast.Type
	consistent := true

	for _, c := range cases {
		var fieldTypes []ast.Type
		switch pat := c.Pattern.(type) {
		case *ast.WildcardPattern:
			hasWildcard = true
		case *ast.ConstructorPattern:
			shape := patternShapeKey(pat)
			if seenShapes[shape] {
				a.errf(errors.EDuplicateMatchArm, c.Loc, "duplicate match arm for %q", shape)
			}
			seenShapes[shape] = true
			seenTopTags[pat.Tag] = true
			fieldTypes = a.constructorFieldTypes(scrutType, pat.Tag)
		case *ast.IdentifierPattern:
			if isUnion && contains(constructors, pat.Name) {
				// a bare nullary-constructor tag has no fields to key on.
				shape := pat.Name
				if seenShapes[shape] {
					a.errf(errors.EDuplicateMatchArm, c.Loc, "duplicate match arm for %q", pat.Name)
				}
				seenShapes[shape] = true
				seenTopTags[pat.Name] = true
			} else {
				// an unresolved bare name binds the scrutinee value and is
				// exhaustive on its own, same as a wildcard.
				hasWildcard = true
			}
		}

		a.table.Enter("arm")
		a.declarePatternBindings(c.Pattern, scrutType, fieldTypes)
		bodyType := a.checkExpr(c.Body, ctx)
		a.table.Leave()

		if asExpr {
			if resultType == nil {
				resultType = bodyType
			} else if bodyType != nil && !typesEqual(resultType, bodyType) {
				consistent = false
			}
		}
	}

	if isUnion && !hasWildcard {
		for _, tag := range constructors {
			if !seenTopTags[tag] {
				a.errf(errors.ENonExhaustiveMatch, loc, "match over %s is not exhaustive: missing %q", describeType(scrutType), tag)
			}
		}
	} else if !isUnion && !hasWildcard {
		a.errf(errors.EMissingWildcard, loc, "match over a non-union type requires a wildcard arm")
	}

	if asExpr && !consistent {
		a.errf(errors.EInconsistentMatchResults, loc, "match arms must produce a common type")
		return nil
	}
	return resultType
}

// patternShapeKey builds a structural key for a pattern so that duplicate-
// arm detection (E4003) distinguishes e.g. Some(Ok(x)) from Some(Err(y)):
// a bound or wildcard sub-pattern matches anything and contributes "_",
// while a nested constructor contributes its own tag and fields
// recursively, so only arms that are genuinely the same shape collide.
func patternShapeKey(p ast.Pattern) string {
	switch pat := p.(type) {
	case *ast.ConstructorPattern:
		if len(pat.Fields) == 0 {
			return pat.Tag
		}
		fields := make([]string, len(pat.Fields))
		for i, f := range pat.Fields {
			fields[i] = patternShapeKey(f)
		}
		return pat.Tag + "(" + strings.Join(fields, ",") + ")"
	case *ast.IdentifierPattern:
		return "_"
	default:
		return "_"
	}
}

// constructorFieldTypes returns the declared field types for tag within
// scrutType's union, when scrutType is a user-declared union. Prelude
// constructors (some/none/ok/err) carry no concrete field type here since
// the analyzer does not substitute generic type parameters; their bound
// fields are left untyped rather than misreported.
func (a *Analyzer) constructorFieldTypes(scrutType ast.Type, tag string) []ast.Type {
	named, ok := scrutType.(*ast.NamedType)
	if !ok {
		return nil
	}
	sym := a.table.Resolve(named.Name)
	if sym == nil {
		return nil
	}
	decl, ok := sym.Decl.(*ast.TypeDecl)
	if !ok {
		return nil
	}
	for _, c := range decl.Constructors {
		if c.Name == tag {
			types := make([]ast.Type, len(c.Fields))
			for i, f := range c.Fields {
				types[i] = f.Type
			}
			return types
		}
	}
	return nil
}

// declarePatternBindings declares every identifier a pattern introduces
// into the current (innermost) scope, so the arm body can reference them.
func (a *Analyzer) declarePatternBindings(pat ast.Pattern, scrutType ast.Type, fieldTypes []ast.Type) {
	switch p := pat.(type) {
	case *ast.IdentifierPattern:
		a.table.Declare(&symbols.Symbol{Name: p.Name, Kind: symbols.KindVariable, Type: scrutType}, p.Loc)
	case *ast.ConstructorPattern:
		for i, field := range p.Fields {
			var ft ast.Type
			if i < len(fieldTypes) {
				ft = fieldTypes[i]
			}
			a.declarePatternBindings(field, ft, nil)
		}
	}
}

// unionConstructors returns the tag set for t if it names a tagged union
// (either user-declared or a prelude Option/Result), and whether t is a
// union at all.
func (a *Analyzer) unionConstructors(t ast.Type) ([]string, bool) {
	switch typ := t.(type) {
	case *ast.GenericType:
		if tags, ok := preludeUnions[typ.Name]; ok {
			return tags, true
		}
	case *ast.NamedType:
		sym := a.table.Resolve(typ.Name)
		if sym == nil {
			return nil, false
		}
		decl, ok := sym.Decl.(*ast.TypeDecl)
		if !ok || !decl.IsUnion {
			return nil, false
		}
		tags := make([]string, len(decl.Constructors))
		for i, c := range decl.Constructors {
			tags[i] = c.Name
		}
		return tags, true
	}
	return nil, false
}

func (a *Analyzer) checkBinary(b *ast.BinaryExpr, ctx *context) ast.Type {
	left := a.checkExpr(b.Left, ctx)
	right := a.checkExpr(b.Right, ctx)

	switch b.Operator {
	case "+", "-", "*", "/", "%":
		if left != nil && !isInt(left) || right != nil && !isInt(right) {
			a.errf(errors.ETypeMismatch, b.Loc, "operator %q requires Int operands", b.Operator)
			return nil
		}
		return intType()
	case "<", "<=", ">", ">=":
		if left != nil && !isInt(left) || right != nil && !isInt(right) {
			a.errf(errors.ETypeMismatch, b.Loc, "operator %q requires Int operands", b.Operator)
		}
		return boolType()
	case "==", "!=":
		if left != nil && right != nil && !typesEqual(left, right) {
			a.errf(errors.ETypeMismatch, b.Loc, "cannot compare %s with %s", describeType(left), describeType(right))
		}
		return boolType()
	case "&&", "||":
		if left != nil && !isBool(left) || right != nil && !isBool(right) {
			a.errf(errors.ETypeMismatch, b.Loc, "operator %q requires Bool operands", b.Operator)
		}
		return boolType()
	default:
		return nil
	}
}

func (a *Analyzer) checkUnary(u *ast.UnaryExpr, ctx *context) ast.Type {
	t := a.checkExpr(u.Operand, ctx)
	switch u.Operator {
	case "-":
		if t != nil && !isInt(t) {
			a.errf(errors.ETypeMismatch, u.Loc, "unary - requires an Int operand")
		}
		return intType()
	case "!":
		if t != nil && !isBool(t) {
			a.errf(errors.ETypeMismatch, u.Loc, "unary ! requires a Bool operand")
		}
		return boolType()
	default:
		return nil
	}
}

func (a *Analyzer) checkPipe(p *ast.PipeExpr, ctx *context) ast.Type {
	valueType := a.checkExpr(p.Value, ctx)
	fnType := a.checkExpr(p.Func, ctx)
	a.trackEffectUse(p.Func, ctx)

	fn, ok := fnType.(*ast.FunctionType)
	if !ok {
		if fnType != nil {
			a.errf(errors.EInvalidFunctionCall, p.Loc, "right side of |> must be a function")
		}
		return nil
	}
	if len(fn.Params) == 0 || (valueType != nil && !typesEqual(valueType, fn.Params[0])) {
		a.errf(errors.ETypeMismatch, p.Loc, "pipe argument type mismatch")
	}
	return fn.Result
}

func describeType(t ast.Type) string {
	if t == nil {
		return "?"
	}
	switch x := t.(type) {
	case *ast.PrimitiveType:
		return x.Kind.String()
	case *ast.NamedType:
		return x.Name
	case *ast.GenericType:
		parts := make([]string, len(x.Args))
		for i, arg := range x.Args {
			parts[i] = describeType(arg)
		}
		return fmt.Sprintf("%s<%s>", x.Name, strings.Join(parts, ", "))
	case *ast.FunctionType:
		parts := make([]string, len(x.Params))
		for i, p := range x.Params {
			parts[i] = describeType(p)
		}
		return fmt.Sprintf("(%s) -> %s", strings.Join(parts, ", "), describeType(x.Result))
	default:
		return "?"
	}
}

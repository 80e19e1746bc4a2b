// Package resolver implements module resolution (spec.md §4.3): mapping
// dotted module names to filesystem paths, loading the transitive import
// closure, and rejecting circular dependencies before semantic analysis
// begins on any module reachable from a cycle candidate.
package resolver

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/manaknight/mkc/compiler/ast"
	"github.com/manaknight/mkc/compiler/errors"
	"github.com/manaknight/mkc/compiler/lexer"
	"github.com/manaknight/mkc/compiler/parser"
)

// maxSourceBytes is the resource limit from spec.md §5: sources above this
// size are rejected with E8001 rather than attempted.
const maxSourceBytes = 16 * 1024 * 1024

// ModuleFile pairs a resolved module name with the program parsed from it.
type ModuleFile struct {
	Name string
	Path string
	Prog *ast.Program
}

// Graph is the resolved dependency graph: one node per encountered module
// name, plus the "importer -> imported" edges declared by each module's
// import statements.
type Graph struct {
	Edges map[string][]string
}

// NamedModuleToPath converts a dotted module name to a file path by
// substituting dots with the OS path separator and appending ".mk",
// rooted at base. `a.b.c` -> `<base>/a/b/c.mk`.
func NamedModuleToPath(base, name string) string {
	segments := strings.Split(name, ".")
	parts := append([]string{base}, segments...)
	return filepath.Join(parts...) + ".mk"
}

// Resolver loads and resolves the transitive module closure starting from
// one or more root modules, rooted at a base directory.
type Resolver struct {
	Base string

	mu      sync.Mutex
	loaded  map[string]*ModuleFile
	graph   *Graph
	bag     *errors.Bag
	pathSet map[string]bool // filepath -> seen, for duplicate-module detection
}

// New creates a Resolver rooted at base.
func New(base string) *Resolver {
	return &Resolver{
		Base:    base,
		loaded:  make(map[string]*ModuleFile),
		graph:   &Graph{Edges: make(map[string][]string)},
		bag:     errors.NewBag(),
		pathSet: make(map[string]bool),
	}
}

// Resolve loads rootName (and its entryProg, already parsed by the
// caller) plus its full transitive import closure, concurrently loading
// each layer of newly-discovered imports before recursing into the next
// layer. Cycle detection runs only after the full graph is known, per
// spec.md §5.
func (r *Resolver) Resolve(ctx context.Context, rootName string, entryProg *ast.Program) (map[string]*ModuleFile, *Graph, *errors.Bag) {
	r.register(rootName, "", entryProg)
	r.recordEdges(rootName, entryProg)
	rootModules := map[string]bool{}
	for _, mod := range entryProg.Modules {
		if rootModules[mod.Name] {
			r.bag.Add(errors.Newf("resolver", errors.EDuplicateModule, mod.Loc, "duplicate module %q", mod.Name))
			continue
		}
		rootModules[mod.Name] = true
		r.checkDuplicateImports(mod, "")
	}

	frontier := r.importsOf(entryProg)
	for len(frontier) > 0 {
		next := r.loadLayer(ctx, frontier)
		frontier = nil
		for _, name := range next {
			mf := r.loaded[name]
			if mf == nil || mf.Prog == nil {
				continue
			}
			for _, imp := range r.importsOf(mf.Prog) {
				if !r.seen(imp) {
					frontier = append(frontier, imp)
				}
			}
		}
	}

	r.checkCycles(rootName)
	return r.loaded, r.graph, r.bag
}

func (r *Resolver) seen(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.loaded[name]
	return ok
}

func (r *Resolver) register(name, path string, prog *ast.Program) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loaded[name] = &ModuleFile{Name: name, Path: path, Prog: prog}
}

func (r *Resolver) recordEdges(from string, prog *ast.Program) {
	if prog == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, mod := range prog.Modules {
		for _, decl := range mod.Decls {
			if imp, ok := decl.(*ast.ImportDecl); ok {
				r.graph.Edges[from] = append(r.graph.Edges[from], imp.Path)
			}
		}
	}
}

func (r *Resolver) importsOf(prog *ast.Program) []string {
	if prog == nil {
		return nil
	}
	var out []string
	for _, mod := range prog.Modules {
		for _, decl := range mod.Decls {
			if imp, ok := decl.(*ast.ImportDecl); ok {
				out = append(out, imp.Path)
			}
		}
	}
	return out
}

// loadLayer loads every not-yet-seen module name in names concurrently,
// one goroutine per module with no limit on their number; all loads in
// this layer complete before the caller examines any of them. It returns
// the names actually loaded in this call.
func (r *Resolver) loadLayer(ctx context.Context, names []string) []string {
	var toLoad []string
	seenThisLayer := make(map[string]bool)
	for _, n := range names {
		if seenThisLayer[n] || r.seen(n) {
			continue
		}
		seenThisLayer[n] = true
		toLoad = append(toLoad, n)
		r.register(n, "", nil) // placeholder, prevents re-scheduling
	}

	g, _ := errgroup.WithContext(ctx)
	for _, name := range toLoad {
		name := name
		g.Go(func() error {
			r.loadOne(name)
			return nil
		})
	}
	_ = g.Wait() // loadOne never returns an error; failures become diagnostics

	return toLoad
}

func (r *Resolver) loadOne(name string) {
	path := NamedModuleToPath(r.Base, name)
	loc := errors.SourceLocation{File: path, Line: 1, Column: 1}

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		r.bag.Add(errors.Newf("resolver", errors.EModuleNotFound, loc, "module %q not found at %s", name, path))
		return
	}
	if info.Size() > maxSourceBytes {
		r.bag.Add(errors.Newf("resolver", errors.ESourceTooLarge, loc, "%s exceeds the maximum source size", path))
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		r.bag.Add(errors.Newf("resolver", errors.EFileUnreadable, loc, "cannot read %s: %v", path, err))
		return
	}

	tokens, lexErrs := lexer.New(string(data), path).ScanTokens()
	for _, le := range lexErrs {
		r.bag.Add(errors.Newf("lexer", errors.EInvalidCharacter, errors.SourceLocation{File: le.File, Line: le.Line, Column: le.Column}, "%s", le.Message))
	}

	prog, pbag := parser.New(tokens).Parse()
	r.mu.Lock()
	r.bag.Merge(pbag)
	r.mu.Unlock()

	seen := map[string]bool{}
	for _, mod := range prog.Modules {
		if seen[mod.Name] {
			r.bag.Add(errors.Newf("resolver", errors.EDuplicateModule, tokenLoc(mod), "duplicate module %q in %s", mod.Name, path))
			continue
		}
		seen[mod.Name] = true
		r.checkDuplicateImports(mod, path)
	}

	r.register(name, path, prog)
	r.recordEdges(name, prog)
}

func tokenLoc(mod *ast.ModuleDecl) errors.SourceLocation {
	return mod.Loc
}

// checkDuplicateImports emits E5003 for any module that imports the same
// dotted path more than once.
func (r *Resolver) checkDuplicateImports(mod *ast.ModuleDecl, path string) {
	seen := map[string]bool{}
	for _, decl := range mod.Decls {
		imp, ok := decl.(*ast.ImportDecl)
		if !ok {
			continue
		}
		if seen[imp.Path] {
			r.bag.Add(errors.Newf("resolver", errors.EDuplicateImport, imp.Loc,
				"module %q imports %q more than once", mod.Name, imp.Path))
			continue
		}
		seen[imp.Path] = true
	}
}

// checkCycles runs a depth-first cycle check from root using the standard
// visited/on-stack coloring, emitting E5004 naming the full cycle path
// when a back-edge is found.
func (r *Resolver) checkCycles(root string) {
	visited := map[string]bool{}
	onStack := map[string]bool{}
	var path []string

	var visit func(node string) bool
	visit = func(node string) bool {
		visited[node] = true
		onStack[node] = true
		path = append(path, node)

		for _, dep := range r.graph.Edges[node] {
			if onStack[dep] {
				cycleStart := indexOf(path, dep)
				cycle := append(append([]string{}, path[cycleStart:]...), dep)
				r.bag.Add(errors.Newf("resolver", errors.ECircularDependency,
					errors.SourceLocation{File: NamedModuleToPath(r.Base, node), Line: 1, Column: 1},
					"circular module dependency: %s", strings.Join(cycle, " -> ")))
				return true
			}
			if !visited[dep] {
				if visit(dep) {
					return true
				}
			}
		}

		onStack[node] = false
		path = path[:len(path)-1]
		return false
	}

	visit(root)
}

func indexOf(xs []string, v string) int {
	for i, x := range xs {
		if x == v {
			return i
		}
	}
	return 0
}

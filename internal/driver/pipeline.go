// Package driver orchestrates the compiler phases (lexing through code
// emission and OpenAPI generation) into one pipeline run against a single
// translation unit, short-circuiting after any phase whose diagnostics are
// not clean. Grounded on the teacher's internal/tooling/build System/
// BuildOptions/BuildResult shape, generalized from a multi-file Go build
// to mkc's single-entry-file compile.
package driver

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/manaknight/mkc/compiler/ast"
	"github.com/manaknight/mkc/compiler/codegen"
	"github.com/manaknight/mkc/compiler/errors"
	"github.com/manaknight/mkc/compiler/format"
	"github.com/manaknight/mkc/compiler/lexer"
	"github.com/manaknight/mkc/compiler/openapi"
	"github.com/manaknight/mkc/compiler/parser"
	"github.com/manaknight/mkc/compiler/resolver"
	"github.com/manaknight/mkc/compiler/sema"
)

// CompileUnit is one compiler invocation's input: the entry file's source
// text, its path, and the base directory module imports resolve against.
type CompileUnit struct {
	Source   string
	Filename string
	BaseDir  string
}

// Mode selects which sink(s) the pipeline runs.
type Mode int

const (
	// ModeCompile runs the full pipeline through code emission.
	ModeCompile Mode = iota
	// ModeCheck stops after semantic analysis; used for `-c`.
	ModeCheck
	// ModeFormat stops after parsing and returns canonical source; used
	// for `-f`.
	ModeFormat
)

// Options configures one pipeline run.
type Options struct {
	Mode        Mode
	EmitOpenAPI bool
	OpenAPIInfo openapi.Info
}

// Result carries every artifact a pipeline run can produce. Only the
// fields relevant to the requested Mode are populated.
type Result struct {
	FormattedSource string
	EmittedCode     string
	OpenAPIDoc      []byte
	Diagnostics     []errors.CompilerError
	Success         bool
	PhaseDurations  map[string]time.Duration
}

// Pipeline runs the compiler phases against one CompileUnit.
type Pipeline struct {
	logger *zap.Logger
}

// NewPipeline creates a Pipeline. In verbose mode it logs each phase's
// completion with its diagnostic count (Debug) and the run's outcome
// (Info) through a development zap logger;
// otherwise it logs nothing (zap.NewNop), matching the teacher's
// internal/lsp/server.go fallback when structured logging isn't wanted.
func NewPipeline(verbose bool) *Pipeline {
	logger := zap.NewNop()
	if verbose {
		if l, err := zap.NewDevelopment(); err == nil {
			logger = l
		}
	}
	return &Pipeline{logger: logger}
}

// Run executes the pipeline against unit per opts.Mode, returning as soon
// as a phase's diagnostics are not clean.
func (p *Pipeline) Run(ctx context.Context, unit *CompileUnit, opts Options) *Result {
	result := &Result{PhaseDurations: make(map[string]time.Duration)}
	bag := errors.NewBag()

	// Same 16 MiB limit the resolver applies to imported files.
	if len(unit.Source) > 16*1024*1024 {
		bag.Addf("driver", errors.ESourceTooLarge, errors.SourceLocation{File: unit.Filename, Line: 1, Column: 1}, "%s exceeds the maximum source size", unit.Filename)
		return p.finish(result, bag)
	}

	tokens, lexErrs := timed2(result, "lexer", func() ([]lexer.Token, []lexer.LexError) {
		return lexer.New(unit.Source, unit.Filename).ScanTokens()
	})
	for _, le := range lexErrs {
		bag.Add(errors.Newf("lexer", errors.EInvalidCharacter,
			errors.SourceLocation{File: le.File, Line: le.Line, Column: le.Column}, "%s", le.Message))
	}
	p.logPhase("lexer", bag.Len())
	if !bag.Clean() {
		return p.finish(result, bag)
	}

	prog, parseBag := timed2(result, "parser", func() (*ast.Program, *errors.Bag) {
		return parser.New(tokens).Parse()
	})
	bag.Merge(parseBag)
	p.logPhase("parser", parseBag.Len())
	if !bag.Clean() {
		return p.finish(result, bag)
	}

	if opts.Mode == ModeFormat {
		formatted := timed(result, "format", func() string {
			return format.New(nil).FormatProgram(prog)
		})
		result.FormattedSource = formatted
		return p.finish(result, bag)
	}

	modules, resolveBag := timed2(result, "resolver", func() (map[string]*resolver.ModuleFile, *errors.Bag) {
		files, _, rbag := resolver.New(unit.BaseDir).Resolve(ctx, "main", prog)
		return files, rbag
	})
	bag.Merge(resolveBag)
	p.logPhase("resolver", resolveBag.Len())
	if !bag.Clean() {
		return p.finish(result, bag)
	}
	merged := mergeModules(modules)

	semaBag := timed(result, "sema", func() *errors.Bag {
		return sema.Analyze(merged)
	})
	bag.Merge(semaBag)
	p.logPhase("sema", semaBag.Len())
	if !bag.Clean() {
		return p.finish(result, bag)
	}

	if opts.Mode == ModeCheck {
		return p.finish(result, bag)
	}

	code, codegenErr := timed2(result, "codegen", func() (string, error) {
		return codegen.NewGenerator().GenerateProgram(merged)
	})
	if codegenErr != nil {
		bag.Addf("codegen", errors.EInternalInvariant, errors.SourceLocation{File: unit.Filename}, "%s", codegenErr.Error())
		return p.finish(result, bag)
	}
	result.EmittedCode = code

	if opts.EmitOpenAPI {
		doc := timed(result, "openapi", func() map[string]interface{} {
			return openapi.New(opts.OpenAPIInfo).Generate(merged)
		})
		data, err := openapi.MarshalJSON(doc)
		if err != nil {
			bag.Addf("openapi", errors.EInternalInvariant, errors.SourceLocation{File: unit.Filename}, "%s", err.Error())
			return p.finish(result, bag)
		}
		result.OpenAPIDoc = data
	}

	return p.finish(result, bag)
}

func (p *Pipeline) finish(result *Result, bag *errors.Bag) *Result {
	result.Diagnostics = bag.All()
	result.Success = bag.Clean()
	p.logger.Info("pipeline complete", zap.Bool("success", result.Success), zap.Int("diagnostics", bag.Len()))
	return result
}

func (p *Pipeline) logPhase(name string, errCount int) {
	p.logger.Debug("phase complete", zap.String("phase", name), zap.Int("errors", errCount))
}

// timed runs fn, recording its wall-clock duration under name in
// result.PhaseDurations, for a phase whose result is a single value. A
// plain function rather than a method: Go methods cannot carry their own
// type parameters.
func timed[T any](result *Result, name string, fn func() T) T {
	start := time.Now()
	out := fn()
	result.PhaseDurations[name] = time.Since(start)
	return out
}

// timed2 is timed for a phase returning two values (a result and its
// diagnostics or error).
func timed2[T, U any](result *Result, name string, fn func() (T, U)) (T, U) {
	start := time.Now()
	a, b := fn()
	result.PhaseDurations[name] = time.Since(start)
	return a, b
}

// mergeModules flattens every resolved file's modules and routes into one
// Program, the shape sema.Analyze/codegen/openapi all expect (spec.md's
// grammar hoists declarations into one flat global scope regardless of
// which file they came from; see DESIGN.md's C7 entry). Files are visited
// in sorted module-name order rather than map iteration order, so
// Program.Modules and Program.Routes — and therefore codegen/openapi's
// emitted order — stay stable across runs for the same input set.
func mergeModules(files map[string]*resolver.ModuleFile) *ast.Program {
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	merged := &ast.Program{}
	for _, name := range names {
		mf := files[name]
		if mf == nil || mf.Prog == nil {
			continue
		}
		merged.Modules = append(merged.Modules, mf.Prog.Modules...)
		merged.Routes = append(merged.Routes, mf.Prog.Routes...)
	}
	return merged
}

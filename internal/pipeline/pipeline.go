// Package pipeline sequences compilation stages. The semantic core is
// a strict two-phase build: a declare phase that constructs templates
// and records call sites, and a finalize phase that runs deferred
// dispatcher code generation exactly once.
package pipeline

import (
	"github.com/lodestone-lang/lodestone/internal/compiler"
)

// Context flows through the stages of one compilation.
type Context struct {
	Compiler *compiler.Context
	Errors   []error
}

func NewContext(c *compiler.Context) *Context {
	return &Context{Compiler: c}
}

// Failed reports whether any stage has recorded an error.
func (c *Context) Failed() bool {
	return len(c.Errors) > 0
}

// Processor is one compilation stage.
type Processor interface {
	Process(ctx *Context) *Context
}

// Pipeline runs processors in order.
type Pipeline struct {
	processors []Processor
}

func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Run executes the pipeline. Compilation is fail-fast: a stage that
// records errors stops the run, since later stages (finalization in
// particular) must only see fully valid declarations.
func (p *Pipeline) Run(initialCtx *Context) *Context {
	ctx := initialCtx
	for _, processor := range p.processors {
		ctx = processor.Process(ctx)
		if ctx.Failed() {
			break
		}
	}
	return ctx
}

// DeclareStage wraps the declare phase: template and struct
// construction, call resolution, everything that may register
// before-finish work.
type DeclareStage struct {
	Declare func(*Context) error
}

func (s DeclareStage) Process(ctx *Context) *Context {
	if err := s.Declare(ctx); err != nil {
		ctx.Errors = append(ctx.Errors, err)
	}
	return ctx
}

// FinalizeStage runs the deferred before-finish hooks.
type FinalizeStage struct{}

func (FinalizeStage) Process(ctx *Context) *Context {
	if err := ctx.Compiler.Finish(); err != nil {
		ctx.Errors = append(ctx.Errors, err)
	}
	return ctx
}

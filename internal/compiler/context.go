// Package compiler holds the per-compilation context: every allocator
// and registry the semantic layer needs is owned by one Context, so a
// fresh compilation starts from a fresh Context and no state leaks
// between runs.
package compiler

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lodestone-lang/lodestone/internal/config"
	"github.com/lodestone-lang/lodestone/internal/diag"
	"github.com/lodestone-lang/lodestone/internal/mcgen"
)

// Template is the part of an entity template the context needs for
// its registry. The concrete type lives in the objects package.
type Template interface {
	TemplateName() string
	RuntimeTag() string
}

// Context carries all mutable compilation-scoped state. Compilation is
// single-threaded; no locking.
type Context struct {
	Cfg *config.Config

	log     *zap.Logger
	session uuid.UUID

	scoreMax      int
	scoreboardMax int
	entityTagMax  int
	templateMax   int

	units     []*mcgen.Unit
	templates []Template

	beforeFinish []func() error
	finished     bool
}

// New creates a compilation context. A nil logger disables logging.
func New(cfg *config.Config, log *zap.Logger) *Context {
	if cfg == nil {
		cfg = config.Default()
	}
	if log == nil {
		log = zap.NewNop()
	}
	session := uuid.New()
	return &Context{
		Cfg:     cfg,
		log:     log.With(zap.String("session", session.String())),
		session: session,
	}
}

func (c *Context) Logger() *zap.Logger {
	return c.log
}

func (c *Context) Session() uuid.UUID {
	return c.session
}

// AllocSlot returns a fresh scoreboard score backed by a fake player.
func (c *Context) AllocSlot() mcgen.Slot {
	c.scoreMax++
	return mcgen.Slot{
		Target:    fmt.Sprintf("%s_v%d", c.Cfg.ScoreboardPrefix, c.scoreMax),
		Objective: c.Cfg.ScoreboardPrefix,
	}
}

// AllocScoreboard returns a fresh scoreboard objective name. Entity
// fields live on per-field objectives so that every instance gets its
// own score under the shared objective.
func (c *Context) AllocScoreboard() string {
	c.scoreboardMax++
	return fmt.Sprintf("%s%d", c.Cfg.ScoreboardPrefix, c.scoreboardMax)
}

// AllocEntityTag returns a fresh entity tag.
func (c *Context) AllocEntityTag() string {
	c.entityTagMax++
	return c.Cfg.EntityTag + fmt.Sprint(c.entityTagMax)
}

// AllocTemplateTag returns a fresh runtime identification tag for a
// template. Tags are never reused within one compilation.
func (c *Context) AllocTemplateTag() string {
	c.templateMax++
	return fmt.Sprintf("%s_tpl%d", c.Cfg.EntityTag, c.templateMax)
}

// RegisterTemplate records a constructed template. Registration order
// is declaration order, which keeps finalization deterministic.
func (c *Context) RegisterTemplate(t Template) {
	c.templates = append(c.templates, t)
	c.log.Debug("template registered",
		zap.String("template", t.TemplateName()),
		zap.String("runtime_tag", t.RuntimeTag()))
}

func (c *Context) Templates() []Template {
	return c.templates
}

// AddUnit registers an output unit, assigning a library path unless
// the unit already has one.
func (c *Context) AddUnit(u *mcgen.Unit) {
	if u.Path() == "" {
		u.SetPath(fmt.Sprintf("lib/sub%d", len(c.units)))
	}
	c.units = append(c.units, u)
}

func (c *Context) Units() []*mcgen.Unit {
	return c.units
}

// BeforeFinish registers a callback to run when Finish is called,
// after all declarations have been processed. Dispatchers use this to
// defer code generation until every implementation and call site is
// known.
func (c *Context) BeforeFinish(fn func() error) {
	c.beforeFinish = append(c.beforeFinish, fn)
}

// Finish runs the registered callbacks once, in registration order.
// Callbacks appended while Finish is running are picked up in the same
// pass.
func (c *Context) Finish() error {
	if c.finished {
		return diag.Internalf("Finish called twice on one compilation context")
	}
	c.finished = true
	for i := 0; i < len(c.beforeFinish); i++ {
		if err := c.beforeFinish[i](); err != nil {
			return err
		}
	}
	c.emitInit()
	c.log.Debug("compilation finalized",
		zap.Int("hooks", len(c.beforeFinish)),
		zap.Int("units", len(c.units)))
	return nil
}

// emitInit creates the setup unit declaring every scoreboard objective
// the compilation allocated. Runs once, after the hooks, so late
// allocations from dispatch generation are covered.
func (c *Context) emitInit() {
	if c.scoreMax == 0 && c.scoreboardMax == 0 {
		return
	}
	init := mcgen.NewUnit()
	init.SetPath("init")
	init.WriteDebug("scoreboard objective setup")
	if c.scoreMax > 0 {
		init.Write(mcgen.ScbObjAdd{Name: c.Cfg.ScoreboardPrefix})
	}
	for i := 1; i <= c.scoreboardMax; i++ {
		init.Write(mcgen.ScbObjAdd{Name: fmt.Sprintf("%s%d", c.Cfg.ScoreboardPrefix, i)})
	}
	c.AddUnit(init)
}

// Finished reports whether Finish has already run.
func (c *Context) Finished() bool {
	return c.finished
}

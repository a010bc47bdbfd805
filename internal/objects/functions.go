// Function objects of the semantic core.
//
// Callables come in a few flavors:
//   - Function: a compiled source-level function backed by an output
//     unit; arguments are exported into its argument variables and the
//     result is copied out of its shared result variable.
//   - BuiltinFunction: implemented in Go; arguments are handled at
//     compile time and no argument-passing commands are emitted.
//   - BoundMethod: a method bound to an entity where the target
//     implementation is statically known (simple methods and
//     cast-resolved virtual calls).
//   - BoundVirtualMethod: a virtual/override method bound to an entity
//     whose concrete template is unknown at compile time; each call
//     site defers its body to dispatcher finalization.
package objects

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lodestone-lang/lodestone/internal/compiler"
	"github.com/lodestone-lang/lodestone/internal/diag"
	"github.com/lodestone-lang/lodestone/internal/mcgen"
	"github.com/lodestone-lang/lodestone/internal/typesystem"
)

// Callable is anything a call expression can target.
type Callable interface {
	Call(args []typesystem.Value, kwargs map[string]typesystem.Value) (typesystem.Value, []mcgen.Command, error)
}

// MethodImpl is a callable value that can serve as a method
// implementation on an entity template.
type MethodImpl interface {
	typesystem.Value
	Callable
	Name() string
	ResultType() typesystem.DataType
}

var functionCategory = typesystem.NewCategory("function", nil)

// FunctionType is the type of every callable value. Callables are not
// storable; they exist only at compile time.
var FunctionType = typesystem.NewSimple(functionCategory)

func unstorableExport(what string) ([]mcgen.Command, error) {
	return nil, diag.Internalf("%s values are not storable", what)
}

// Param is one declared parameter.
type Param struct {
	Name string
	Type typesystem.DataType // nil means unchecked
	// Default makes the parameter optional.
	Default typesystem.Value
}

// ArgumentHandler matches call arguments against a parameter list and
// reports every call-contract violation with the offending name.
type ArgumentHandler struct {
	params []Param
}

func NewArgumentHandler(params []Param) *ArgumentHandler {
	return &ArgumentHandler{params: params}
}

func (h *ArgumentHandler) typeCheck(p Param, v typesystem.Value) error {
	if p.Type != nil && !typesystem.IsTypeOf(p.Type, v) {
		return diag.Newf(diag.WrongArgType,
			"argument %q expects %s, got %s", p.Name, p.Type, v.Type())
	}
	return nil
}

// Match resolves positional and keyword arguments to a complete
// name -> value mapping, applying defaults.
func (h *ArgumentHandler) Match(args []typesystem.Value, kwargs map[string]typesystem.Value) (map[string]typesystem.Value, error) {
	if len(args) > len(h.params) {
		return nil, diag.Newf(diag.TooManyArgs,
			"expected at most %d positional arguments, got %d", len(h.params), len(args))
	}
	res := make(map[string]typesystem.Value, len(h.params))
	for i, v := range args {
		p := h.params[i]
		if err := h.typeCheck(p, v); err != nil {
			return nil, err
		}
		res[p.Name] = v
	}
	// Keyword names are sorted so the reported error is stable when
	// several arguments are bad.
	names := make([]string, 0, len(kwargs))
	for name := range kwargs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		p, ok := h.param(name)
		if !ok {
			return nil, diag.Newf(diag.UnexpectedKeyword, "unexpected keyword argument %q", name)
		}
		if _, dup := res[name]; dup {
			return nil, diag.Newf(diag.ArgGivenTwice, "argument %q given both positionally and by keyword", name)
		}
		v := kwargs[name]
		if err := h.typeCheck(p, v); err != nil {
			return nil, err
		}
		res[name] = v
	}
	for _, p := range h.params {
		if _, ok := res[p.Name]; ok {
			continue
		}
		if p.Default == nil {
			return nil, diag.Newf(diag.MissingArg, "missing required argument %q", p.Name)
		}
		res[p.Name] = p.Default
	}
	return res, nil
}

func (h *ArgumentHandler) param(name string) (Param, bool) {
	for _, p := range h.params {
		if p.Name == name {
			return p, true
		}
	}
	return Param{}, false
}

// Function is a compiled source-level function. Its body is an output
// unit assigned by the code generator; a nil unit means an empty body.
type Function struct {
	ctx        *compiler.Context
	name       string
	params     []Param
	handler    *ArgumentHandler
	argVars    map[string]typesystem.Variable
	resultType typesystem.Storable
	resultVar  typesystem.Variable
	unit       *mcgen.Unit
}

// NewFunction allocates the argument and result variables of a
// compiled function. Parameter types must be storable since arguments
// are assigned to real target storage.
func NewFunction(ctx *compiler.Context, name string, params []Param, result typesystem.Storable) (*Function, error) {
	resultVar, err := result.NewVar(ctx)
	if err != nil {
		return nil, err
	}
	f := &Function{
		ctx:        ctx,
		name:       name,
		params:     params,
		handler:    NewArgumentHandler(params),
		argVars:    make(map[string]typesystem.Variable, len(params)),
		resultType: result,
		resultVar:  resultVar,
	}
	for _, p := range params {
		st, ok := p.Type.(typesystem.Storable)
		if !ok {
			return nil, diag.Newf(diag.UnstorableResult,
				"parameter %q of function %q has non-storable type %s", p.Name, name, p.Type)
		}
		v, err := st.NewVar(ctx)
		if err != nil {
			return nil, err
		}
		f.argVars[p.Name] = v
	}
	return f, nil
}

func (f *Function) Type() typesystem.DataType {
	return FunctionType
}

func (f *Function) ExportTo(typesystem.Variable) ([]mcgen.Command, error) {
	return unstorableExport("function")
}

func (f *Function) Name() string {
	return f.name
}

func (f *Function) ResultType() typesystem.DataType {
	return f.resultType
}

// ResultVar is the shared result storage every call reads from.
func (f *Function) ResultVar() typesystem.Variable {
	return f.resultVar
}

// SetUnit attaches the generated body.
func (f *Function) SetUnit(u *mcgen.Unit) {
	f.unit = u
}

func (f *Function) Call(args []typesystem.Value, kwargs map[string]typesystem.Value) (typesystem.Value, []mcgen.Command, error) {
	matched, err := f.handler.Match(args, kwargs)
	if err != nil {
		return nil, nil, err
	}
	var cmds []mcgen.Command
	for _, p := range f.params {
		c, err := matched[p.Name].ExportTo(f.argVars[p.Name])
		if err != nil {
			return nil, nil, err
		}
		cmds = append(cmds, c...)
	}
	if f.unit != nil {
		cmds = append(cmds, mcgen.Invoke{Unit: f.unit})
	}
	// Copy the shared result var so the caller owns its value even if
	// the function is called again.
	result, err := f.resultType.NewVar(f.ctx)
	if err != nil {
		return nil, nil, err
	}
	c, err := f.resultVar.ExportTo(result)
	if err != nil {
		return nil, nil, err
	}
	cmds = append(cmds, c...)
	return result, cmds, nil
}

// BuiltinFunction is implemented in Go. Arguments of any type are
// accepted and handled at compile time.
type BuiltinFunction struct {
	name       string
	resultType typesystem.DataType
	impl       func(args []typesystem.Value, kwargs map[string]typesystem.Value) (typesystem.Value, []mcgen.Command, error)
}

func NewBuiltinFunction(
	name string,
	result typesystem.DataType,
	impl func(args []typesystem.Value, kwargs map[string]typesystem.Value) (typesystem.Value, []mcgen.Command, error),
) *BuiltinFunction {
	return &BuiltinFunction{name: name, resultType: result, impl: impl}
}

func (b *BuiltinFunction) Type() typesystem.DataType {
	return FunctionType
}

func (b *BuiltinFunction) ExportTo(typesystem.Variable) ([]mcgen.Command, error) {
	return unstorableExport("function")
}

func (b *BuiltinFunction) Name() string {
	return b.name
}

func (b *BuiltinFunction) ResultType() typesystem.DataType {
	return b.resultType
}

func (b *BuiltinFunction) Call(args []typesystem.Value, kwargs map[string]typesystem.Value) (typesystem.Value, []mcgen.Command, error) {
	return b.impl(args, kwargs)
}

// selfVarFunc lazily materializes the tagged "self" variable of a
// method implementation. Lazy because the owning template is not fully
// constructed when the method is registered.
type selfVarFunc func() (*TaggedEntity, error)

// lazySelfVar caches the self var of an implementation owned by tmpl.
func lazySelfVar(ctx *compiler.Context, tmpl *EntityTemplate) selfVarFunc {
	var cached *TaggedEntity
	return func() (*TaggedEntity, error) {
		if cached == nil {
			var err error
			cached, err = NewTaggedEntity(ctx, tmpl, nil)
			if err != nil {
				return nil, err
			}
		}
		return cached, nil
	}
}

// BoundMethod is a method whose implementation is statically known.
// Calling it sets the implementation's self var to the bound entity
// and invokes the implementation directly; no runtime type test.
type BoundMethod struct {
	object  Entity
	name    string
	def     MethodImpl
	selfVar selfVarFunc // nil for builtin implementations
}

func NewBoundMethod(object Entity, name string, def MethodImpl, selfVar selfVarFunc) *BoundMethod {
	return &BoundMethod{object: object, name: name, def: def, selfVar: selfVar}
}

func (m *BoundMethod) Type() typesystem.DataType {
	return FunctionType
}

func (m *BoundMethod) ExportTo(typesystem.Variable) ([]mcgen.Command, error) {
	return unstorableExport("bound method")
}

func (m *BoundMethod) Name() string {
	return m.name
}

func (m *BoundMethod) Definition() MethodImpl {
	return m.def
}

func (m *BoundMethod) Call(args []typesystem.Value, kwargs map[string]typesystem.Value) (typesystem.Value, []mcgen.Command, error) {
	var cmds []mcgen.Command
	if m.selfVar != nil {
		sv, err := m.selfVar()
		if err != nil {
			return nil, nil, err
		}
		cmds = append(cmds, sv.Clear()...)
		cmds = append(cmds, mcgen.TagAdd{Target: m.object.TargetString(), Tag: sv.Tag()})
	}
	result, c, err := m.def.Call(args, kwargs)
	if err != nil {
		return nil, nil, err
	}
	return result, append(cmds, c...), nil
}

// virtualCallSite is one pending call through a BoundVirtualMethod;
// its unit is filled in at finalization.
type virtualCallSite struct {
	args   []typesystem.Value
	kwargs map[string]typesystem.Value
	unit   *mcgen.Unit
}

type virtualImpl struct {
	def       MethodImpl
	templates []*EntityTemplate
	selfVar   selfVarFunc
}

// BoundVirtualMethod is a virtual method bound to an entity whose
// concrete template is only known at runtime. Call sites receive a
// fresh unit immediately; the dispatch logic inside the unit is
// generated once, before the compilation finishes, when every
// implementation is known.
type BoundVirtualMethod struct {
	ctx       *compiler.Context
	name      string
	object    Entity
	resultVar typesystem.Variable
	impls     []*virtualImpl
	sites     []*virtualCallSite
	generated bool
}

func (m *BoundVirtualMethod) Type() typesystem.DataType {
	return FunctionType
}

func (m *BoundVirtualMethod) ExportTo(typesystem.Variable) ([]mcgen.Command, error) {
	return unstorableExport("bound method")
}

func newBoundVirtualMethod(ctx *compiler.Context, object Entity, name string, resultVar typesystem.Variable) *BoundVirtualMethod {
	m := &BoundVirtualMethod{ctx: ctx, name: name, object: object, resultVar: resultVar}
	ctx.BeforeFinish(m.generate)
	return m
}

// addImplementation records that every instance tagged with one of the
// given template's tags runs def. Implementations whose template is
// unrelated to the bound entity's template can never be selected and
// are skipped.
func (m *BoundVirtualMethod) addImplementation(tmpl *EntityTemplate, def MethodImpl, selfVar selfVarFunc) {
	for _, impl := range m.impls {
		if impl.def == def {
			impl.templates = append(impl.templates, tmpl)
			return
		}
	}
	if tmpl.IsSubtemplateOf(m.object.Template()) {
		m.impls = append(m.impls, &virtualImpl{def: def, templates: []*EntityTemplate{tmpl}, selfVar: selfVar})
	}
}

func (m *BoundVirtualMethod) Call(args []typesystem.Value, kwargs map[string]typesystem.Value) (typesystem.Value, []mcgen.Command, error) {
	unit := mcgen.NewUnit()
	m.ctx.AddUnit(unit)
	m.sites = append(m.sites, &virtualCallSite{args: args, kwargs: kwargs, unit: unit})
	return m.resultVar, []mcgen.Command{
		mcgen.Execute{
			Subs: []mcgen.ExecuteSub{mcgen.ExecAs{Target: m.object.TargetString()}},
			Run:  mcgen.Invoke{Unit: unit},
		},
	}, nil
}

// callInto compiles a direct call to def and stores its result into
// the shared result var.
func (m *BoundVirtualMethod) callInto(site *virtualCallSite, def MethodImpl) ([]mcgen.Command, error) {
	result, cmds, err := def.Call(site.args, site.kwargs)
	if err != nil {
		return nil, fmt.Errorf("dispatcher of virtual method %s: %w", m.name, err)
	}
	c, err := result.ExportTo(m.resultVar)
	if err != nil {
		return nil, err
	}
	return append(cmds, c...), nil
}

// generate emits the dispatch logic of every call site. With a single
// implementation each site is a direct call; otherwise each site tests
// the executing entity's runtime tag against each implementation's
// template partition.
func (m *BoundVirtualMethod) generate() error {
	if m.generated {
		return nil
	}
	m.generated = true
	if len(m.impls) == 0 {
		return diag.Internalf(
			"virtual method %s on template %s finalized with no implementations",
			m.name, m.object.Template().TemplateName())
	}
	single := len(m.impls) == 1
	for _, site := range m.sites {
		site.unit.WriteDebug(fmt.Sprintf(
			"virtual method dispatcher for %s.%s()",
			m.object.Template().TemplateName(), m.name))
		if single {
			if err := m.generateDirect(site, m.impls[0]); err != nil {
				return err
			}
			continue
		}
		for _, impl := range m.impls {
			if err := m.generatePartition(site, impl); err != nil {
				return err
			}
		}
	}
	return nil
}

func (m *BoundVirtualMethod) generateDirect(site *virtualCallSite, impl *virtualImpl) error {
	site.unit.WriteDebug("single implementation, direct call")
	if impl.selfVar != nil {
		sv, err := impl.selfVar()
		if err != nil {
			return err
		}
		site.unit.Extend(sv.Clear())
		site.unit.Write(mcgen.TagAdd{Target: "@s", Tag: sv.Tag()})
	}
	cmds, err := m.callInto(site, impl.def)
	if err != nil {
		return err
	}
	site.unit.Extend(cmds)
	return nil
}

// generatePartition guards one implementation on the executing
// entity's tag being in the partition's template set. Selector
// arguments are conjunctive, so membership is tested by negating a
// "none of these tags" selector.
func (m *BoundVirtualMethod) generatePartition(site *virtualCallSite, impl *virtualImpl) error {
	names := make([]string, len(impl.templates))
	notIn := mcgen.NewSelector("s")
	for i, t := range impl.templates {
		names[i] = t.TemplateName()
		notIn.TagNot(t.RuntimeTag())
	}
	cmds, err := m.callInto(site, impl.def)
	if err != nil {
		return err
	}
	if len(cmds) == 0 {
		return nil
	}
	helper := mcgen.NewUnit()
	m.ctx.AddUnit(helper)
	helper.WriteDebug("helper for virtual method dispatcher")
	helper.Extend(cmds)
	site.unit.WriteDebug("for " + strings.Join(names, ", "))
	if impl.selfVar == nil {
		site.unit.Write(mcgen.Execute{
			Subs: []mcgen.ExecuteSub{
				mcgen.ExecUnlessEntity{Selector: notIn.String()},
				// @s may have died during an earlier partition.
				mcgen.ExecIfEntity{Selector: "@s"},
			},
			Run: mcgen.Invoke{Unit: helper},
		})
		return nil
	}
	sv, err := impl.selfVar()
	if err != nil {
		return err
	}
	site.unit.Extend(sv.Clear())
	site.unit.Write(mcgen.Execute{
		Subs: []mcgen.ExecuteSub{mcgen.ExecUnlessEntity{Selector: notIn.String()}},
		Run:  mcgen.TagAdd{Target: "@s", Tag: sv.Tag()},
	})
	site.unit.Write(mcgen.Execute{
		Subs: []mcgen.ExecuteSub{
			mcgen.ExecIfEntity{Selector: mcgen.NewSelector("s").Tag(sv.Tag()).String()},
		},
		Run: mcgen.Invoke{Unit: helper},
	})
	return nil
}

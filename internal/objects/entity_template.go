// Package objects implements the semantic objects of the compiler:
// entity templates with multi-parent inheritance, entity instances,
// virtual method dispatch, structs and the primitive value types the
// entity core depends on.
//
// Method override rule (qualifier of the new declaration vs. what a
// base declares under the same name):
//
//	          Simple  Virtual  Static  NotDefined
//	(none)      ok      err      err       ok
//	static      err     err      ok        ok
//	virtual     err     err      err       ok
//	override    err     ok       err       err
//
// Fields merge across the MRO; re-declaring a field with the same type
// is harmless, with a different type it is an error. Fields and
// methods never share a name.
package objects

import (
	"fmt"

	"github.com/lodestone-lang/lodestone/internal/compiler"
	"github.com/lodestone-lang/lodestone/internal/diag"
	"github.com/lodestone-lang/lodestone/internal/mcgen"
	"github.com/lodestone-lang/lodestone/internal/typesystem"
)

// MethodQualifier is the declared kind of a method.
type MethodQualifier int

const (
	QualifierNone MethodQualifier = iota
	QualifierVirtual
	QualifierOverride
	QualifierStatic
)

func (q MethodQualifier) String() string {
	switch q {
	case QualifierNone:
		return "(none)"
	case QualifierVirtual:
		return "virtual"
	case QualifierOverride:
		return "override"
	case QualifierStatic:
		return "static"
	}
	return fmt.Sprintf("MethodQualifier(%d)", int(q))
}

// FieldDecl is one declared entity field.
type FieldDecl struct {
	Name string
	Type typesystem.EntityFieldCapable
}

// MethodDecl is one declared method.
type MethodDecl struct {
	Name      string
	Qualifier MethodQualifier
	Impl      MethodImpl
}

// ConstructorSpec selects how instances of a template are created.
// A nil spec inherits the nearest ancestor's constructor; a template
// with no ancestors and no spec cannot be instantiated.
type ConstructorSpec interface {
	isConstructorSpec()
}

// DefaultConstructor summons the configured entity type.
type DefaultConstructor struct{}

func (DefaultConstructor) isConstructorSpec() {}

// CustomConstructor runs a source-level constructor body. Its declared
// result type must be none.
type CustomConstructor struct {
	Impl MethodImpl
}

func (CustomConstructor) isConstructorSpec() {}

type constructorFunc func(inst *TaggedEntity, args []typesystem.Value, kwargs map[string]typesystem.Value) ([]mcgen.Command, error)

// simpleMethod is a non-virtual, non-override, non-static method. It
// is bound per instance; the implementation and its self var are
// shared by every template inheriting it.
type simpleMethod struct {
	name    string
	impl    MethodImpl
	selfVar selfVarFunc
}

func newSimpleMethod(ctx *compiler.Context, name string, impl MethodImpl, owner *EntityTemplate) *simpleMethod {
	m := &simpleMethod{name: name, impl: impl}
	if _, builtin := impl.(*BuiltinFunction); !builtin {
		m.selfVar = lazySelfVar(ctx, owner)
	}
	return m
}

func (m *simpleMethod) bindTo(e Entity) *BoundMethod {
	return NewBoundMethod(e, m.name, m.impl, m.selfVar)
}

// EntityTemplate is a named entity blueprint. It is immutable once
// construction returns and lives for the whole compilation.
type EntityTemplate struct {
	ctx     *compiler.Context
	name    string
	parents []*EntityTemplate

	// declFields are the fields this template declares itself;
	// the merged view below includes inherited fields.
	declFields []FieldDecl

	fieldOrder []string
	fieldTypes map[string]typesystem.EntityFieldCapable
	fieldMetas map[string]typesystem.FieldMeta

	dispatchOrder []string
	dispatchers   map[string]*MethodDispatcher
	simpleOrder   []string
	simpleMethods map[string]*simpleMethod
	staticOrder   []string
	staticMethods map[string]MethodImpl

	mro        []*EntityTemplate
	runtimeTag string

	newMethod constructorFunc
}

// NewEntityTemplate builds a template from its declarations. All
// hierarchy, override and field validation happens here; a template
// either constructs fully or the compilation fails.
func NewEntityTemplate(
	ctx *compiler.Context,
	name string,
	fields []FieldDecl,
	methods []MethodDecl,
	ctor ConstructorSpec,
	parents []*EntityTemplate,
) (*EntityTemplate, error) {
	t := &EntityTemplate{
		ctx:           ctx,
		name:          name,
		parents:       parents,
		declFields:    fields,
		fieldTypes:    make(map[string]typesystem.EntityFieldCapable),
		fieldMetas:    make(map[string]typesystem.FieldMeta),
		dispatchers:   make(map[string]*MethodDispatcher),
		simpleMethods: make(map[string]*simpleMethod),
		staticMethods: make(map[string]MethodImpl),
	}
	var err error
	if t.mro, err = linearize(t, parents); err != nil {
		return nil, err
	}
	t.runtimeTag = ctx.AllocTemplateTag()

	if err := t.mergeFields(fields); err != nil {
		return nil, err
	}
	base, err := t.collectBaseMethods()
	if err != nil {
		return nil, err
	}
	for _, fname := range t.fieldOrder {
		if base.has(fname) {
			return nil, diag.Newf(diag.MethodFieldConflict,
				"template %q: %q is both a field and a method", name, fname)
		}
	}
	if err := t.declareMethods(methods, base); err != nil {
		return nil, err
	}
	if err := t.inheritMethods(base); err != nil {
		return nil, err
	}
	if err := t.resolveConstructor(ctor); err != nil {
		return nil, err
	}
	ctx.RegisterTemplate(t)
	return t, nil
}

func (t *EntityTemplate) TemplateName() string {
	return t.name
}

// RuntimeTag is the template's runtime identification tag. Every
// concrete instance carries exactly its own template's tag; dispatch
// partitions test membership over these tags.
func (t *EntityTemplate) RuntimeTag() string {
	return t.runtimeTag
}

// MRO is the linearization, starting with the template itself.
func (t *EntityTemplate) MRO() []*EntityTemplate {
	return t.mro
}

func (t *EntityTemplate) Parents() []*EntityTemplate {
	return t.parents
}

// FieldNames lists merged fields in most-base-first declaration order.
func (t *EntityTemplate) FieldNames() []string {
	return t.fieldOrder
}

func (t *EntityTemplate) FieldType(name string) (typesystem.EntityFieldCapable, bool) {
	ft, ok := t.fieldTypes[name]
	return ft, ok
}

// Dispatcher returns the dispatcher of a virtual slot.
func (t *EntityTemplate) Dispatcher(name string) (*MethodDispatcher, bool) {
	d, ok := t.dispatchers[name]
	return d, ok
}

// StaticMethod resolves a static method; statics are shared objects,
// not per-instance bindings.
func (t *EntityTemplate) StaticMethod(name string) (MethodImpl, bool) {
	m, ok := t.staticMethods[name]
	return m, ok
}

// IsSubtemplateOf reports whether t is other or inherits from other.
func (t *EntityTemplate) IsSubtemplateOf(other *EntityTemplate) bool {
	if t == other {
		return true
	}
	for _, p := range t.parents {
		if p.IsSubtemplateOf(other) {
			return true
		}
	}
	return false
}

// sameType reports mutual assignability; used to tolerate identical
// field re-declarations.
func sameType(a, b typesystem.DataType) bool {
	return a.Matches(b) && b.Matches(a)
}

// mergeFields walks the MRO from most-base to most-derived and merges
// field declarations. The first (most-base) declaration owns the
// field's storage metadata; derived re-declarations must agree on the
// type and share the storage.
func (t *EntityTemplate) mergeFields(local []FieldDecl) error {
	for i := len(t.mro) - 1; i >= 0; i-- {
		m := t.mro[i]
		decls := m.declFields
		if m == t {
			decls = local
		}
		for _, fd := range decls {
			if existing, ok := t.fieldTypes[fd.Name]; ok {
				if sameType(existing, fd.Type) {
					continue
				}
				return diag.Newf(diag.FieldMultipleDefs,
					"template %q: multiple definitions of field %q (%s vs %s)",
					t.name, fd.Name, existing, fd.Type)
			}
			t.fieldOrder = append(t.fieldOrder, fd.Name)
			t.fieldTypes[fd.Name] = fd.Type
			if m == t {
				meta, err := fd.Type.NewEntityField(t.ctx)
				if err != nil {
					return err
				}
				t.fieldMetas[fd.Name] = meta
			} else {
				t.fieldMetas[fd.Name] = m.fieldMetas[fd.Name]
			}
		}
	}
	return nil
}

// baseMethods is the merged view of every ancestor's method tables,
// collected most-base first so derived entries win.
type baseMethods struct {
	virtualOrder []string
	virtual      map[string]*MethodDispatcher
	simpleOrder  []string
	simple       map[string]*simpleMethod
	staticOrder  []string
	static       map[string]MethodImpl
}

func (b *baseMethods) has(name string) bool {
	_, v := b.virtual[name]
	_, s := b.simple[name]
	_, st := b.static[name]
	return v || s || st
}

func (t *EntityTemplate) collectBaseMethods() (*baseMethods, error) {
	base := &baseMethods{
		virtual: make(map[string]*MethodDispatcher),
		simple:  make(map[string]*simpleMethod),
		static:  make(map[string]MethodImpl),
	}
	crossKind := func(name string, inA, inB bool) error {
		if inA || inB {
			return diag.Newf(diag.MethodMultipleDefs,
				"template %q: method %q is defined with conflicting kinds in unrelated bases",
				t.name, name)
		}
		if _, isField := t.fieldTypes[name]; isField {
			return diag.Newf(diag.MethodFieldConflict,
				"template %q: %q is both a field and a method", t.name, name)
		}
		return nil
	}
	for i := len(t.mro) - 1; i >= 1; i-- {
		p := t.mro[i]
		for _, name := range p.dispatchOrder {
			disp := p.dispatchers[name]
			_, inSimple := base.simple[name]
			_, inStatic := base.static[name]
			if err := crossKind(name, inSimple, inStatic); err != nil {
				return nil, err
			}
			if existing, ok := base.virtual[name]; ok {
				if existing != disp {
					return nil, diag.Newf(diag.MultipleVirtual,
						"template %q: virtual method %q is declared by two unrelated bases",
						t.name, name)
				}
				continue
			}
			base.virtualOrder = append(base.virtualOrder, name)
			base.virtual[name] = disp
		}
		for _, name := range p.simpleOrder {
			_, inVirtual := base.virtual[name]
			_, inStatic := base.static[name]
			if err := crossKind(name, inVirtual, inStatic); err != nil {
				return nil, err
			}
			if _, ok := base.simple[name]; !ok {
				base.simpleOrder = append(base.simpleOrder, name)
			}
			base.simple[name] = p.simpleMethods[name]
		}
		for _, name := range p.staticOrder {
			_, inVirtual := base.virtual[name]
			_, inSimple := base.simple[name]
			if err := crossKind(name, inVirtual, inSimple); err != nil {
				return nil, err
			}
			if _, ok := base.static[name]; !ok {
				base.staticOrder = append(base.staticOrder, name)
			}
			base.static[name] = p.staticMethods[name]
		}
	}
	return base, nil
}

func (t *EntityTemplate) declareMethods(methods []MethodDecl, base *baseMethods) error {
	seen := make(map[string]bool, len(methods))
	for _, md := range methods {
		if seen[md.Name] {
			return diag.Newf(diag.MethodMultipleDefs,
				"template %q: method %q declared more than once", t.name, md.Name)
		}
		seen[md.Name] = true
		if _, isField := t.fieldTypes[md.Name]; isField {
			return diag.Newf(diag.MethodFieldConflict,
				"template %q: %q is both a field and a method", t.name, md.Name)
		}
		if disp, ok := base.virtual[md.Name]; ok {
			if md.Qualifier != QualifierOverride {
				return diag.Newf(diag.OverrideRequired,
					"method %q redefines a virtual method and must be declared override, got %s",
					md.Name, md.Qualifier)
			}
			if err := disp.Register(t, md.Impl); err != nil {
				return err
			}
			t.dispatchOrder = append(t.dispatchOrder, md.Name)
			t.dispatchers[md.Name] = disp
			continue
		}
		switch md.Qualifier {
		case QualifierNone:
			if _, ok := base.static[md.Name]; ok {
				return diag.Newf(diag.InstOverridesStatic,
					"instance method %q collides with a static method of a base template", md.Name)
			}
			t.simpleOrder = append(t.simpleOrder, md.Name)
			t.simpleMethods[md.Name] = newSimpleMethod(t.ctx, md.Name, md.Impl, t)
		case QualifierStatic:
			if _, ok := base.simple[md.Name]; ok {
				return diag.Newf(diag.StaticOverridesInst,
					"static method %q collides with an instance method of a base template", md.Name)
			}
			t.staticOrder = append(t.staticOrder, md.Name)
			t.staticMethods[md.Name] = md.Impl
		case QualifierVirtual:
			if _, ok := base.static[md.Name]; ok {
				return diag.Newf(diag.InstOverridesStatic,
					"virtual method %q collides with a static method of a base template", md.Name)
			}
			if _, ok := base.simple[md.Name]; ok {
				return diag.Newf(diag.VirtualOverridesInst,
					"virtual method %q collides with a non-virtual method of a base template", md.Name)
			}
			disp := NewMethodDispatcher(t.ctx, md.Name)
			if err := disp.Register(t, md.Impl); err != nil {
				return err
			}
			t.dispatchOrder = append(t.dispatchOrder, md.Name)
			t.dispatchers[md.Name] = disp
		case QualifierOverride:
			// Would have been handled above if any base declared it.
			return diag.Newf(diag.NotOverriding,
				"method %q is declared override but no base declares a virtual method of that name",
				md.Name)
		default:
			return diag.Internalf("unknown method qualifier %d", int(md.Qualifier))
		}
	}
	return nil
}

// inheritMethods takes over, by reference, every base member not
// redeclared locally. Inherited virtual slots register this template
// under the providing ancestor's implementation so runtime dispatch
// covers instances of this template.
func (t *EntityTemplate) inheritMethods(base *baseMethods) error {
	for _, name := range base.virtualOrder {
		if _, ok := t.dispatchers[name]; ok {
			continue
		}
		disp := base.virtual[name]
		t.dispatchOrder = append(t.dispatchOrder, name)
		t.dispatchers[name] = disp
		if err := disp.RegisterInherit(t); err != nil {
			return err
		}
	}
	for _, name := range base.simpleOrder {
		if _, ok := t.simpleMethods[name]; ok {
			continue
		}
		t.simpleOrder = append(t.simpleOrder, name)
		t.simpleMethods[name] = base.simple[name]
	}
	for _, name := range base.staticOrder {
		if _, ok := t.staticMethods[name]; ok {
			continue
		}
		t.staticOrder = append(t.staticOrder, name)
		t.staticMethods[name] = base.static[name]
	}
	return nil
}

// BindMembers wires the template's members onto a freshly constructed
// instance handle. Without a cast template the instance gets
// dispatcher-backed virtual methods; with one, each of the cast
// template's slots resolves statically to the nearest provider in the
// concrete template's MRO.
func (t *EntityTemplate) BindMembers(e Entity) error {
	if e.Template() != t {
		return diag.Internalf("entity of template %s bound against template %s",
			e.Template().name, t.name)
	}
	attrs := e.Attributes()
	cast := e.CastTemplate()
	if cast == nil {
		for _, name := range t.dispatchOrder {
			attrs.Set(name, t.dispatchers[name].BindTo(e))
		}
	} else {
		for _, name := range cast.dispatchOrder {
			bm, err := cast.dispatchers[name].BindToCast(e)
			if err != nil {
				return err
			}
			attrs.Set(name, bm)
		}
	}
	src := t
	if cast != nil {
		src = cast
	}
	for _, name := range src.simpleOrder {
		attrs.Set(name, src.simpleMethods[name].bindTo(e))
	}
	for _, name := range t.fieldOrder {
		v, err := t.fieldTypes[name].NewVarAsField(e, t.fieldMetas[name])
		if err != nil {
			return err
		}
		attrs.Set(name, v)
	}
	for _, name := range src.staticOrder {
		attrs.Set(name, src.staticMethods[name])
	}
	return nil
}

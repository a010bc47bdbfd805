package objects

import (
	"slices"

	"github.com/lodestone-lang/lodestone/internal/compiler"
	"github.com/lodestone-lang/lodestone/internal/diag"
	"github.com/lodestone-lang/lodestone/internal/typesystem"
)

// MethodDispatcher is the shared state of one virtual method slot.
// Every template whose MRO includes the declaring template shares the
// same dispatcher; overrides register their implementation under it.
// All implementations write their result into one shared result var,
// so their result types must be mutually compatible.
type MethodDispatcher struct {
	ctx        *compiler.Context
	name       string
	resultType typesystem.Storable
	resultVar  typesystem.Variable
	impls      []*virtualImpl
	bound      []*BoundVirtualMethod
}

func NewMethodDispatcher(ctx *compiler.Context, name string) *MethodDispatcher {
	return &MethodDispatcher{ctx: ctx, name: name}
}

func (d *MethodDispatcher) Name() string {
	return d.name
}

// Register adds tmpl's own implementation of the slot. The first
// registration establishes the slot's result storage; later ones must
// produce a compatible type.
func (d *MethodDispatcher) Register(tmpl *EntityTemplate, def MethodImpl) error {
	st, ok := def.ResultType().(typesystem.Storable)
	if !ok {
		return diag.Newf(diag.UnstorableResult,
			"virtual method %q has non-storable result type %s", d.name, def.ResultType())
	}
	if d.resultVar == nil {
		v, err := st.NewVar(d.ctx)
		if err != nil {
			return err
		}
		d.resultType = st
		d.resultVar = v
	} else if !d.resultType.Matches(st) {
		return diag.Newf(diag.ResultMismatch,
			"method %q declares result type %s, but the virtual slot it overrides established %s",
			d.name, st, d.resultType)
	}
	var selfVar selfVarFunc
	if _, builtin := def.(*BuiltinFunction); !builtin {
		selfVar = lazySelfVar(d.ctx, tmpl)
	}
	entry := &virtualImpl{def: def, templates: []*EntityTemplate{tmpl}, selfVar: selfVar}
	d.impls = append(d.impls, entry)
	for _, b := range d.bound {
		b.addImplementation(tmpl, def, selfVar)
	}
	return nil
}

// RegisterInherit records that tmpl inherits the implementation of its
// nearest ancestor providing this slot: instances tagged with tmpl's
// runtime tag run that ancestor's implementation.
func (d *MethodDispatcher) RegisterInherit(tmpl *EntityTemplate) error {
	for _, ancestor := range tmpl.mro[1:] {
		for _, entry := range d.impls {
			if !slices.Contains(entry.templates, ancestor) {
				continue
			}
			entry.templates = append(entry.templates, tmpl)
			for _, b := range d.bound {
				b.addImplementation(tmpl, entry.def, entry.selfVar)
			}
			return nil
		}
	}
	return diag.Internalf(
		"template %s inherits virtual slot %q but no ancestor provides it",
		tmpl.name, d.name)
}

// BindTo binds the slot to an entity of statically unknown concrete
// template; the call compiles to runtime dispatch.
func (d *MethodDispatcher) BindTo(e Entity) *BoundVirtualMethod {
	res := newBoundVirtualMethod(d.ctx, e, d.name, d.resultVar)
	d.bound = append(d.bound, res)
	for _, entry := range d.impls {
		for _, t := range entry.templates {
			res.addImplementation(t, entry.def, entry.selfVar)
		}
	}
	return res
}

// BindToCast statically resolves the slot for an entity viewed through
// an explicit upcast. The cast fixes the static type, so the concrete
// template's MRO is scanned most-derived first for the nearest provider
// and the call compiles without any runtime test. A valid cast whose
// slot has no provider is a diagnostic, not a defect.
func (d *MethodDispatcher) BindToCast(e Entity) (*BoundMethod, error) {
	for _, t := range e.Template().mro {
		for _, entry := range d.impls {
			if slices.Contains(entry.templates, t) {
				return NewBoundMethod(e, d.name, entry.def, entry.selfVar), nil
			}
		}
	}
	return nil, diag.Newf(diag.CastNoImplementation,
		"no implementation of virtual method %q is visible from template %s",
		d.name, e.CastTemplate().name)
}

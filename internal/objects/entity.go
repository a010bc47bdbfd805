package objects

import (
	"github.com/lodestone-lang/lodestone/internal/compiler"
	"github.com/lodestone-lang/lodestone/internal/diag"
	"github.com/lodestone-lang/lodestone/internal/mcgen"
	"github.com/lodestone-lang/lodestone/internal/typesystem"
)

// EntityType is the data type "entity of this template". A value of a
// subtemplate's entity type is assignable to it.
type EntityType struct {
	Template *EntityTemplate
}

func NewEntityType(t *EntityTemplate) EntityType {
	return EntityType{Template: t}
}

func (t EntityType) String() string {
	return t.Template.name
}

func (EntityType) NameNoGeneric() string {
	return "entity"
}

func (t EntityType) Matches(other typesystem.DataType) bool {
	o, ok := other.(EntityType)
	return ok && o.Template.IsSubtemplateOf(t.Template)
}

func (t EntityType) NewVar(ctx *compiler.Context) (typesystem.Variable, error) {
	e, err := NewTaggedEntity(ctx, t.Template, nil)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// Entity is a compile-time handle to "the entities currently matching
// some identification predicate". It may carry a cast template: a
// supertype view that fixes the static type and enables direct method
// resolution.
type Entity interface {
	typesystem.Value
	Template() *EntityTemplate
	CastTemplate() *EntityTemplate
	// Selector matches the denoted entities. The caller owns the
	// returned selector.
	Selector() *mcgen.Selector
	// TargetString is the selector text, limited to one match where
	// the selector variable allows several.
	TargetString() string
	Attributes() *AttributeTable
}

// TaggedEntity denotes entities through a persistent tag; it is the
// variable form of an entity value.
type TaggedEntity struct {
	ctx      *compiler.Context
	template *EntityTemplate
	cast     *EntityTemplate
	tag      string
	attrs    *AttributeTable
}

// NewTaggedEntity allocates a fresh tag pointing to no entity yet and
// binds the template's members onto the handle.
func NewTaggedEntity(ctx *compiler.Context, template, cast *EntityTemplate) (*TaggedEntity, error) {
	return newTaggedEntityWithTag(ctx, ctx.AllocEntityTag(), template, cast)
}

func newTaggedEntityWithTag(ctx *compiler.Context, tag string, template, cast *EntityTemplate) (*TaggedEntity, error) {
	e := &TaggedEntity{
		ctx:      ctx,
		template: template,
		cast:     cast,
		tag:      tag,
		attrs:    NewAttributeTable(),
	}
	if err := template.BindMembers(e); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *TaggedEntity) Type() typesystem.DataType {
	return NewEntityType(e.template)
}

func (e *TaggedEntity) Template() *EntityTemplate {
	return e.template
}

func (e *TaggedEntity) CastTemplate() *EntityTemplate {
	return e.cast
}

func (e *TaggedEntity) Tag() string {
	return e.tag
}

func (e *TaggedEntity) Attributes() *AttributeTable {
	return e.attrs
}

func (e *TaggedEntity) Selector() *mcgen.Selector {
	return mcgen.NewSelector("e").Tag(e.tag)
}

func (e *TaggedEntity) TargetString() string {
	return e.Selector().Limit(1).String()
}

// Clear drops the tag from whatever entity currently carries it.
func (e *TaggedEntity) Clear() []mcgen.Command {
	return []mcgen.Command{mcgen.TagRemove{Target: e.Selector().String(), Tag: e.tag}}
}

// CastTo returns a view of the same tag as an ancestor template.
func (e *TaggedEntity) CastTo(ancestor *EntityTemplate) (*TaggedEntity, error) {
	return newTaggedEntityWithTag(e.ctx, e.tag, e.template, ancestor)
}

func (e *TaggedEntity) ExportTo(dst typesystem.Variable) ([]mcgen.Command, error) {
	d, ok := dst.(*TaggedEntity)
	if !ok {
		return nil, diag.Internalf("entity value exported to %T", dst)
	}
	cmds := d.Clear()
	cmds = append(cmds, mcgen.TagAdd{Target: e.TargetString(), Tag: d.tag})
	return cmds, nil
}

// SwapWith exchanges the entities two tags point at by moving each tag
// through a scratch tag.
func (e *TaggedEntity) SwapWith(other typesystem.Variable) ([]mcgen.Command, error) {
	o, ok := other.(*TaggedEntity)
	if !ok {
		return nil, diag.Internalf("entity variable swapped with %T", other)
	}
	scratch := e.ctx.AllocEntityTag()
	selE := e.Selector().String()
	selO := o.Selector().String()
	return []mcgen.Command{
		mcgen.TagAdd{Target: selE, Tag: scratch},
		mcgen.TagRemove{Target: selE, Tag: e.tag},
		mcgen.TagAdd{Target: selO, Tag: e.tag},
		mcgen.TagRemove{Target: mcgen.NewSelector("e").Tag(e.tag).TagNot(scratch).String(), Tag: o.tag},
		mcgen.TagAdd{Target: mcgen.NewSelector("e").Tag(scratch).String(), Tag: o.tag},
		mcgen.TagRemove{Target: mcgen.NewSelector("e").Tag(scratch).String(), Tag: scratch},
	}, nil
}

// SelectorEntity denotes entities through an ad-hoc selection
// predicate. It is a value, not a variable: it has no storage of its
// own.
type SelectorEntity struct {
	ctx      *compiler.Context
	sel      *mcgen.Selector
	template *EntityTemplate
	cast     *EntityTemplate
	attrs    *AttributeTable
}

func NewSelectorEntity(ctx *compiler.Context, sel *mcgen.Selector, template, cast *EntityTemplate) (*SelectorEntity, error) {
	e := &SelectorEntity{
		ctx:      ctx,
		sel:      sel,
		template: template,
		cast:     cast,
		attrs:    NewAttributeTable(),
	}
	if err := template.BindMembers(e); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *SelectorEntity) Type() typesystem.DataType {
	return NewEntityType(e.template)
}

func (e *SelectorEntity) Template() *EntityTemplate {
	return e.template
}

func (e *SelectorEntity) CastTemplate() *EntityTemplate {
	return e.cast
}

func (e *SelectorEntity) Attributes() *AttributeTable {
	return e.attrs
}

func (e *SelectorEntity) Selector() *mcgen.Selector {
	return e.sel.Copy()
}

func (e *SelectorEntity) TargetString() string {
	sel := e.sel.Copy()
	if sel.Var == "e" || sel.Var == "a" {
		sel.Limit(1)
	}
	return sel.String()
}

func (e *SelectorEntity) CastTo(ancestor *EntityTemplate) (*SelectorEntity, error) {
	return NewSelectorEntity(e.ctx, e.sel.Copy(), e.template, ancestor)
}

func (e *SelectorEntity) ExportTo(dst typesystem.Variable) ([]mcgen.Command, error) {
	d, ok := dst.(*TaggedEntity)
	if !ok {
		return nil, diag.Internalf("entity value exported to %T", dst)
	}
	cmds := d.Clear()
	cmds = append(cmds, mcgen.TagAdd{Target: e.TargetString(), Tag: d.Tag()})
	return cmds, nil
}

package objects

import (
	"github.com/lodestone-lang/lodestone/internal/compiler"
	"github.com/lodestone-lang/lodestone/internal/diag"
	"github.com/lodestone-lang/lodestone/internal/mcgen"
	"github.com/lodestone-lang/lodestone/internal/typesystem"
)

// StructType is the data type "struct of this template".
type StructType struct {
	Template *StructTemplate
}

func NewStructType(t *StructTemplate) StructType {
	return StructType{Template: t}
}

func (t StructType) String() string {
	return t.Template.name
}

func (StructType) NameNoGeneric() string {
	return "struct"
}

func (t StructType) Matches(other typesystem.DataType) bool {
	o, ok := other.(StructType)
	return ok && o.Template.IsSubtemplateOf(t.Template)
}

func (t StructType) NewVar(ctx *compiler.Context) (typesystem.Variable, error) {
	s, err := NewStructVar(ctx, t.Template)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// structFieldMeta carries one nested field's metadata when a struct
// is used as an entity field.
type structFieldMeta struct {
	name string
	typ  typesystem.EntityFieldCapable
	meta typesystem.FieldMeta
}

func (t StructType) NewEntityField(ctx *compiler.Context) (typesystem.FieldMeta, error) {
	entries := make([]structFieldMeta, 0, len(t.Template.fieldOrder))
	for _, fname := range t.Template.fieldOrder {
		ft := t.Template.fieldTypes[fname]
		efc, ok := ft.(typesystem.EntityFieldCapable)
		if !ok {
			return nil, diag.Newf(diag.UnsupportedStructField,
				"struct %q cannot be an entity field: field %q has type %s, which entities cannot store",
				t.Template.name, fname, ft)
		}
		sub, err := efc.NewEntityField(ctx)
		if err != nil {
			return nil, err
		}
		entries = append(entries, structFieldMeta{name: fname, typ: efc, meta: sub})
	}
	return typesystem.FieldMeta{"fields": entries}, nil
}

func (t StructType) NewVarAsField(owner typesystem.FieldOwner, meta typesystem.FieldMeta) (typesystem.Variable, error) {
	entries, ok := meta["fields"].([]structFieldMeta)
	if !ok {
		return nil, diag.Internalf("malformed struct field metadata: %v", meta)
	}
	vars := make(map[string]typesystem.Variable, len(entries))
	for _, e := range entries {
		v, err := e.typ.NewVarAsField(owner, e.meta)
		if err != nil {
			return nil, err
		}
		vars[e.name] = v
	}
	return &Struct{template: t.Template, vars: vars}, nil
}

// Struct is a struct variable: one variable per field.
type Struct struct {
	template *StructTemplate
	vars     map[string]typesystem.Variable
}

// NewStructVar allocates fresh storage for every field.
func NewStructVar(ctx *compiler.Context, template *StructTemplate) (*Struct, error) {
	vars := make(map[string]typesystem.Variable, len(template.fieldOrder))
	for _, fname := range template.fieldOrder {
		v, err := template.fieldTypes[fname].NewVar(ctx)
		if err != nil {
			return nil, err
		}
		vars[fname] = v
	}
	return &Struct{template: template, vars: vars}, nil
}

func (s *Struct) Template() *StructTemplate {
	return s.template
}

func (s *Struct) Field(name string) (typesystem.Variable, bool) {
	v, ok := s.vars[name]
	return v, ok
}

func (s *Struct) Type() typesystem.DataType {
	return NewStructType(s.template)
}

// ExportTo copies field-wise into dst. Only fields dst declares are
// transferred, so a wider source assigns cleanly into a narrower
// (ancestor-typed) destination.
func (s *Struct) ExportTo(dst typesystem.Variable) ([]mcgen.Command, error) {
	d, ok := dst.(*Struct)
	if !ok {
		return nil, diag.Internalf("struct value exported to %T", dst)
	}
	var cmds []mcgen.Command
	for _, fname := range d.template.fieldOrder {
		src, ok := s.vars[fname]
		if !ok {
			return nil, diag.Internalf("struct %s is missing field %q expected by %s",
				s.template.name, fname, d.template.name)
		}
		c, err := src.ExportTo(d.vars[fname])
		if err != nil {
			return nil, err
		}
		cmds = append(cmds, c...)
	}
	return cmds, nil
}

// SwapWith exchanges values field-wise using each field type's own
// swap primitive. There is no atomicity across fields.
func (s *Struct) SwapWith(other typesystem.Variable) ([]mcgen.Command, error) {
	o, ok := other.(*Struct)
	if !ok {
		return nil, diag.Internalf("struct variable swapped with %T", other)
	}
	var cmds []mcgen.Command
	for _, fname := range s.template.fieldOrder {
		ov, ok := o.vars[fname]
		if !ok {
			return nil, diag.Internalf("struct %s is missing field %q expected by %s",
				o.template.name, fname, s.template.name)
		}
		c, err := s.vars[fname].SwapWith(ov)
		if err != nil {
			return nil, err
		}
		cmds = append(cmds, c...)
	}
	return cmds, nil
}

package objects

import (
	"github.com/lodestone-lang/lodestone/internal/compiler"
	"github.com/lodestone-lang/lodestone/internal/diag"
	"github.com/lodestone-lang/lodestone/internal/mcgen"
	"github.com/lodestone-lang/lodestone/internal/typesystem"
)

// StructFieldDecl is one declared struct field.
type StructFieldDecl struct {
	Name string
	Type typesystem.Storable
}

// StructTemplate is a named aggregate of typed fields with
// non-virtual multiple inheritance. Unlike entity templates there is
// no dispatch and no runtime identity; structs are value aggregates.
type StructTemplate struct {
	name       string
	bases      []*StructTemplate
	fieldOrder []string
	fieldTypes map[string]typesystem.Storable
}

func NewStructTemplate(name string, fields []StructFieldDecl, bases []*StructTemplate) (*StructTemplate, error) {
	t := &StructTemplate{
		name:       name,
		bases:      bases,
		fieldTypes: make(map[string]typesystem.Storable),
	}
	for _, fd := range fields {
		if _, ok := t.fieldTypes[fd.Name]; ok {
			return nil, diag.Newf(diag.StructFieldMultipleDefs,
				"struct %q: multiple definitions of field %q", name, fd.Name)
		}
		t.fieldOrder = append(t.fieldOrder, fd.Name)
		t.fieldTypes[fd.Name] = fd.Type
	}
	for _, base := range bases {
		for _, fname := range base.fieldOrder {
			if _, ok := t.fieldTypes[fname]; ok {
				return nil, diag.Newf(diag.StructFieldMultipleDefs,
					"struct %q: multiple definitions of field %q", name, fname)
			}
			t.fieldOrder = append(t.fieldOrder, fname)
			t.fieldTypes[fname] = base.fieldTypes[fname]
		}
	}
	return t, nil
}

func (t *StructTemplate) TemplateName() string {
	return t.name
}

func (t *StructTemplate) FieldNames() []string {
	return t.fieldOrder
}

func (t *StructTemplate) FieldType(name string) (typesystem.Storable, bool) {
	ft, ok := t.fieldTypes[name]
	return ft, ok
}

// IsSubtemplateOf reports whether t is other or inherits from other.
func (t *StructTemplate) IsSubtemplateOf(other *StructTemplate) bool {
	if t == other {
		return true
	}
	for _, base := range t.bases {
		if base.IsSubtemplateOf(other) {
			return true
		}
	}
	return false
}

// omittedValue marks a constructor field that was not supplied; the
// field keeps whatever its storage held.
type omittedValue struct{}

func (omittedValue) Type() typesystem.DataType {
	return nil
}

func (omittedValue) ExportTo(typesystem.Variable) ([]mcgen.Command, error) {
	return nil, diag.Internalf("omitted constructor value exported")
}

// Construct creates a struct instance, initializing any fields passed
// positionally (in field order) or by keyword. Every field is
// optional.
func (t *StructTemplate) Construct(ctx *compiler.Context, args []typesystem.Value, kwargs map[string]typesystem.Value) (*Struct, []mcgen.Command, error) {
	inst, err := NewStructVar(ctx, t)
	if err != nil {
		return nil, nil, err
	}
	params := make([]Param, len(t.fieldOrder))
	for i, fname := range t.fieldOrder {
		params[i] = Param{Name: fname, Type: t.fieldTypes[fname], Default: omittedValue{}}
	}
	matched, err := NewArgumentHandler(params).Match(args, kwargs)
	if err != nil {
		return nil, nil, err
	}
	var cmds []mcgen.Command
	for _, fname := range t.fieldOrder {
		v := matched[fname]
		if _, skip := v.(omittedValue); skip {
			continue
		}
		c, err := v.ExportTo(inst.vars[fname])
		if err != nil {
			return nil, nil, err
		}
		cmds = append(cmds, c...)
	}
	return inst, cmds, nil
}

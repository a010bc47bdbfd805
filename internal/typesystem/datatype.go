// Package typesystem is the compile-time type lattice. A DataType
// describes the type of an expression; capability interfaces mark
// what a type can do: Storable types can back a variable, and
// EntityFieldCapable types can be stored as entity fields.
//
// Matches is reflexive and respects the subtemplate partial order for
// entity and struct types. It is not symmetric: `Animal` matches a
// `Dog` value, not the other way around.
package typesystem

import (
	"github.com/lodestone-lang/lodestone/internal/compiler"
)

// DataType is the type of an expression.
type DataType interface {
	// String is the display name, including parameters
	// (e.g. the template name for entity types).
	String() string
	// NameNoGeneric is the generic-erased name used in diagnostics
	// (e.g. "entity" for every entity type).
	NameNoGeneric() string
	// Matches reports whether a value of type other may be used where
	// this type is expected.
	Matches(other DataType) bool
}

// IsTypeOf reports whether v is acceptable where dt is expected.
func IsTypeOf(dt DataType, v Value) bool {
	return dt.Matches(v.Type())
}

// Storable marks types whose values can back a variable or slot at
// the target.
type Storable interface {
	DataType
	// NewVar allocates a fresh variable of this type.
	NewVar(ctx *compiler.Context) (Variable, error)
}

// FieldMeta is the per-field metadata produced when a type is used as
// an entity field. It identifies the field's storage independent of
// any particular instance.
type FieldMeta map[string]any

// FieldOwner is the entity an entity field belongs to; field variables
// address their storage through the owner's selector text.
type FieldOwner interface {
	TargetString() string
}

// EntityFieldCapable marks types whose values can be stored as entity
// fields.
type EntityFieldCapable interface {
	DataType
	// NewEntityField allocates the field's storage metadata once per
	// template.
	NewEntityField(ctx *compiler.Context) (FieldMeta, error)
	// NewVarAsField materializes the field variable of one entity
	// from the metadata produced by NewEntityField.
	NewVarAsField(owner FieldOwner, meta FieldMeta) (Variable, error)
}

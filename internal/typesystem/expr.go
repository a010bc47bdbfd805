package typesystem

import (
	"github.com/lodestone-lang/lodestone/internal/mcgen"
)

// Value is a compile-time expression result. Literals, variables and
// bound methods are all values.
type Value interface {
	Type() DataType
	// ExportTo emits the commands that store this value into dst.
	// dst must be a variable of a matching type.
	ExportTo(dst Variable) ([]mcgen.Command, error)
}

// Variable is a value backed by target storage.
type Variable interface {
	Value
	// SwapWith exchanges the stored values of two variables of the
	// same type using the type's own swap primitive. Atomicity is
	// whatever that primitive provides; there is no guarantee across
	// compound values.
	SwapWith(other Variable) ([]mcgen.Command, error)
}

package objects

import (
	"github.com/lodestone-lang/lodestone/internal/compiler"
	"github.com/lodestone-lang/lodestone/internal/mcgen"
	"github.com/lodestone-lang/lodestone/internal/typesystem"
)

var noneCategory = typesystem.NewCategory("none", nil)

type noneType struct {
	typesystem.Simple
}

// NoneType is the result type of methods that return nothing. It is
// storable so that void methods can share a dispatcher result slot;
// the slot occupies no target storage.
var NoneType = noneType{typesystem.NewSimple(noneCategory)}

func (noneType) NewVar(*compiler.Context) (typesystem.Variable, error) {
	return &NoneVar{}, nil
}

// NoneVar is the zero-storage variable of NoneType.
type NoneVar struct{}

func (*NoneVar) Type() typesystem.DataType {
	return NoneType
}

func (*NoneVar) ExportTo(typesystem.Variable) ([]mcgen.Command, error) {
	return nil, nil
}

func (*NoneVar) SwapWith(typesystem.Variable) ([]mcgen.Command, error) {
	return nil, nil
}

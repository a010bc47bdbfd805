package objects

import (
	"github.com/lodestone-lang/lodestone/internal/compiler"
	"github.com/lodestone-lang/lodestone/internal/diag"
	"github.com/lodestone-lang/lodestone/internal/mcgen"
	"github.com/lodestone-lang/lodestone/internal/typesystem"
)

var intCategory = typesystem.NewCategory("int", nil)

type intType struct {
	typesystem.Simple
}

// IntType is the integer data type. Runtime integers live on
// scoreboard scores; as an entity field each instance scores on a
// per-field objective.
var IntType = intType{typesystem.NewSimple(intCategory)}

func (intType) NewVar(ctx *compiler.Context) (typesystem.Variable, error) {
	return NewIntVar(ctx), nil
}

func (intType) NewEntityField(ctx *compiler.Context) (typesystem.FieldMeta, error) {
	return typesystem.FieldMeta{"scoreboard": ctx.AllocScoreboard()}, nil
}

func (intType) NewVarAsField(owner typesystem.FieldOwner, meta typesystem.FieldMeta) (typesystem.Variable, error) {
	sb, ok := meta["scoreboard"].(string)
	if !ok {
		return nil, diag.Internalf("malformed int field metadata: %v", meta)
	}
	return IntVarAt(mcgen.Slot{Target: owner.TargetString(), Objective: sb}), nil
}

// IntVar is an integer variable backed by one scoreboard score.
type IntVar struct {
	slot mcgen.Slot
}

func NewIntVar(ctx *compiler.Context) *IntVar {
	return &IntVar{slot: ctx.AllocSlot()}
}

// IntVarAt wraps an existing score, e.g. an entity field.
func IntVarAt(slot mcgen.Slot) *IntVar {
	return &IntVar{slot: slot}
}

func (v *IntVar) Slot() mcgen.Slot {
	return v.slot
}

func (v *IntVar) Type() typesystem.DataType {
	return IntType
}

func (v *IntVar) ExportTo(dst typesystem.Variable) ([]mcgen.Command, error) {
	d, ok := dst.(*IntVar)
	if !ok {
		return nil, diag.Internalf("int value exported to %T", dst)
	}
	return []mcgen.Command{mcgen.ScbOperation{Op: mcgen.OpAssign, Left: d.slot, Right: v.slot}}, nil
}

func (v *IntVar) SwapWith(other typesystem.Variable) ([]mcgen.Command, error) {
	o, ok := other.(*IntVar)
	if !ok {
		return nil, diag.Internalf("int variable swapped with %T", other)
	}
	return []mcgen.Command{mcgen.ScbOperation{Op: mcgen.OpSwap, Left: v.slot, Right: o.slot}}, nil
}

// IntLiteral is a compile-time integer constant.
type IntLiteral struct {
	Value int
}

func (l IntLiteral) Type() typesystem.DataType {
	return IntType
}

func (l IntLiteral) ExportTo(dst typesystem.Variable) ([]mcgen.Command, error) {
	d, ok := dst.(*IntVar)
	if !ok {
		return nil, diag.Internalf("int value exported to %T", dst)
	}
	return []mcgen.Command{mcgen.ScbSet{Target: d.slot, Value: l.Value}}, nil
}

package objects

import (
	"github.com/lodestone-lang/lodestone/internal/compiler"
	"github.com/lodestone-lang/lodestone/internal/diag"
	"github.com/lodestone-lang/lodestone/internal/mcgen"
	"github.com/lodestone-lang/lodestone/internal/typesystem"
)

var boolCategory = typesystem.NewCategory("bool", nil)

type boolType struct {
	typesystem.Simple
}

// BoolType stores false as 0 and true as 1 on a scoreboard score.
var BoolType = boolType{typesystem.NewSimple(boolCategory)}

func (boolType) NewVar(ctx *compiler.Context) (typesystem.Variable, error) {
	return &BoolVar{slot: ctx.AllocSlot()}, nil
}

func (boolType) NewEntityField(ctx *compiler.Context) (typesystem.FieldMeta, error) {
	return typesystem.FieldMeta{"scoreboard": ctx.AllocScoreboard()}, nil
}

func (boolType) NewVarAsField(owner typesystem.FieldOwner, meta typesystem.FieldMeta) (typesystem.Variable, error) {
	sb, ok := meta["scoreboard"].(string)
	if !ok {
		return nil, diag.Internalf("malformed bool field metadata: %v", meta)
	}
	return &BoolVar{slot: mcgen.Slot{Target: owner.TargetString(), Objective: sb}}, nil
}

// BoolVar is a boolean variable backed by one scoreboard score.
type BoolVar struct {
	slot mcgen.Slot
}

func (v *BoolVar) Slot() mcgen.Slot {
	return v.slot
}

func (v *BoolVar) Type() typesystem.DataType {
	return BoolType
}

func (v *BoolVar) ExportTo(dst typesystem.Variable) ([]mcgen.Command, error) {
	d, ok := dst.(*BoolVar)
	if !ok {
		return nil, diag.Internalf("bool value exported to %T", dst)
	}
	return []mcgen.Command{mcgen.ScbOperation{Op: mcgen.OpAssign, Left: d.slot, Right: v.slot}}, nil
}

func (v *BoolVar) SwapWith(other typesystem.Variable) ([]mcgen.Command, error) {
	o, ok := other.(*BoolVar)
	if !ok {
		return nil, diag.Internalf("bool variable swapped with %T", other)
	}
	return []mcgen.Command{mcgen.ScbOperation{Op: mcgen.OpSwap, Left: v.slot, Right: o.slot}}, nil
}

// BoolLiteral is a compile-time boolean constant.
type BoolLiteral struct {
	Value bool
}

func (l BoolLiteral) Type() typesystem.DataType {
	return BoolType
}

func (l BoolLiteral) ExportTo(dst typesystem.Variable) ([]mcgen.Command, error) {
	d, ok := dst.(*BoolVar)
	if !ok {
		return nil, diag.Internalf("bool value exported to %T", dst)
	}
	n := 0
	if l.Value {
		n = 1
	}
	return []mcgen.Command{mcgen.ScbSet{Target: d.slot, Value: n}}, nil
}

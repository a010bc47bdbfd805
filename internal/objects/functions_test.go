package objects

import (
	"strings"
	"testing"

	"github.com/lodestone-lang/lodestone/internal/diag"
	"github.com/lodestone-lang/lodestone/internal/mcgen"
	"github.com/lodestone-lang/lodestone/internal/typesystem"
)

func TestArgumentHandlerMatch(t *testing.T) {
	params := []Param{
		{Name: "a", Type: IntType},
		{Name: "b", Type: IntType, Default: IntLiteral{Value: 5}},
	}
	h := NewArgumentHandler(params)

	t.Run("positional", func(t *testing.T) {
		got, err := h.Match([]typesystem.Value{IntLiteral{Value: 1}, IntLiteral{Value: 2}}, nil)
		if err != nil {
			t.Fatal(err)
		}
		if got["a"].(IntLiteral).Value != 1 || got["b"].(IntLiteral).Value != 2 {
			t.Errorf("Match() = %v", got)
		}
	})
	t.Run("keyword", func(t *testing.T) {
		got, err := h.Match(nil, map[string]typesystem.Value{
			"a": IntLiteral{Value: 1}, "b": IntLiteral{Value: 2},
		})
		if err != nil {
			t.Fatal(err)
		}
		if got["a"].(IntLiteral).Value != 1 || got["b"].(IntLiteral).Value != 2 {
			t.Errorf("Match() = %v", got)
		}
	})
	t.Run("default applied", func(t *testing.T) {
		got, err := h.Match([]typesystem.Value{IntLiteral{Value: 1}}, nil)
		if err != nil {
			t.Fatal(err)
		}
		if got["b"].(IntLiteral).Value != 5 {
			t.Errorf("default not applied: %v", got["b"])
		}
	})
}

func TestArgumentHandlerErrors(t *testing.T) {
	params := []Param{
		{Name: "a", Type: IntType},
		{Name: "b", Type: IntType, Default: IntLiteral{Value: 5}},
	}
	h := NewArgumentHandler(params)
	one := IntLiteral{Value: 1}
	tests := []struct {
		name   string
		args   []typesystem.Value
		kwargs map[string]typesystem.Value
		code   diag.Code
	}{
		{"too many positional", []typesystem.Value{one, one, one}, nil, diag.TooManyArgs},
		{"unknown keyword", nil, map[string]typesystem.Value{"a": one, "c": one}, diag.UnexpectedKeyword},
		{"given twice", []typesystem.Value{one}, map[string]typesystem.Value{"a": one}, diag.ArgGivenTwice},
		{"missing required", nil, nil, diag.MissingArg},
		{"wrong positional type", []typesystem.Value{BoolLiteral{Value: true}}, nil, diag.WrongArgType},
		{"wrong keyword type", nil, map[string]typesystem.Value{"a": BoolLiteral{}}, diag.WrongArgType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.Match(tt.args, tt.kwargs)
			wantCode(t, err, tt.code)
		})
	}
}

func TestArgumentHandlerUncheckedParam(t *testing.T) {
	h := NewArgumentHandler([]Param{{Name: "any"}})
	if _, err := h.Match([]typesystem.Value{BoolLiteral{Value: true}}, nil); err != nil {
		t.Errorf("nil-typed parameter rejected a value: %v", err)
	}
}

func TestFunctionCall(t *testing.T) {
	ctx := newTestContext()
	f, err := NewFunction(ctx, "double", []Param{{Name: "x", Type: IntType}}, IntType)
	if err != nil {
		t.Fatal(err)
	}
	body := mcgen.NewUnit()
	ctx.AddUnit(body)
	f.SetUnit(body)

	result, cmds, err := f.Call([]typesystem.Value{IntLiteral{Value: 21}}, nil)
	if err != nil {
		t.Fatal(err)
	}
	got := resolveAll(cmds)
	// Argument export, body invocation, result copy-out.
	if len(got) != 3 {
		t.Fatalf("commands = %v", got)
	}
	if !strings.HasPrefix(got[0], "scoreboard players set ") {
		t.Errorf("argument export = %q", got[0])
	}
	if got[1] != "function "+body.Path() {
		t.Errorf("invocation = %q", got[1])
	}
	if !strings.HasPrefix(got[2], "scoreboard players operation ") {
		t.Errorf("result copy = %q", got[2])
	}
	// The caller owns a private copy of the result.
	if result == f.ResultVar() {
		t.Error("call returned the shared result var")
	}
	if !IntType.Matches(result.Type()) {
		t.Errorf("result type = %s", result.Type())
	}
}

func TestFunctionCallTwiceGetsDistinctResults(t *testing.T) {
	ctx := newTestContext()
	f, err := NewFunction(ctx, "get", nil, IntType)
	if err != nil {
		t.Fatal(err)
	}
	r1, _, err := f.Call(nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	r2, _, err := f.Call(nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if r1.(*IntVar).Slot() == r2.(*IntVar).Slot() {
		t.Error("two calls share one result slot")
	}
}

func TestFunctionRejectsUnstorableParam(t *testing.T) {
	ctx := newTestContext()
	_, err := NewFunction(ctx, "bad", []Param{{Name: "f", Type: FunctionType}}, IntType)
	wantCode(t, err, diag.UnstorableResult)
}

func TestBoundMethodRetargetsSelf(t *testing.T) {
	ctx := newTestContext()
	tpl := mustTemplate(t, ctx, "Owner", nil, nil, nil)
	e := mustEntity(t, ctx, tpl)

	f, err := NewFunction(ctx, "poke", nil, NoneType)
	if err != nil {
		t.Fatal(err)
	}
	bm := NewBoundMethod(e, "poke", f, lazySelfVar(ctx, tpl))
	_, cmds, err := bm.Call(nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	got := resolveAll(cmds)
	// The self var is cleared, then re-tagged onto the bound entity.
	if len(got) < 2 {
		t.Fatalf("commands = %v", got)
	}
	if !strings.HasPrefix(got[0], "tag ") || !strings.Contains(got[0], " remove ") {
		t.Errorf("self clear = %q", got[0])
	}
	if !strings.Contains(got[1], e.TargetString()) || !strings.Contains(got[1], " add ") {
		t.Errorf("self retag = %q", got[1])
	}
}

func TestLazySelfVarIsCached(t *testing.T) {
	ctx := newTestContext()
	tpl := mustTemplate(t, ctx, "Owner", nil, nil, nil)
	sv := lazySelfVar(ctx, tpl)
	a, err := sv()
	if err != nil {
		t.Fatal(err)
	}
	b, err := sv()
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Error("self var not cached across calls")
	}
}

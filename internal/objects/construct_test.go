package objects

import (
	"strings"
	"testing"

	"github.com/lodestone-lang/lodestone/internal/compiler"
	"github.com/lodestone-lang/lodestone/internal/config"
	"github.com/lodestone-lang/lodestone/internal/diag"
	"github.com/lodestone-lang/lodestone/internal/typesystem"
)

func TestDefaultConstructor(t *testing.T) {
	ctx := newTestContext()
	tpl := mustTemplate(t, ctx, "Mob", nil, nil, DefaultConstructor{})

	inst, cmds, err := tpl.Construct(nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	got := resolveAll(cmds)
	want := []string{
		"tag @e[tag=" + inst.Tag() + "] remove " + inst.Tag(),
		"execute at @a[c=1] run summon armor_stand ~ -75 ~ 0 0 *",
		"execute at @a[c=1] run tag @e[x=~,y=-75,z=~,dx=0,dy=0,dz=0] add " + inst.Tag(),
		"tp @e[tag=" + inst.Tag() + "] ~ ~ ~",
		"tag @e[tag=" + inst.Tag() + "] add " + tpl.RuntimeTag(),
	}
	if len(got) != len(want) {
		t.Fatalf("Construct() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Construct()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestDefaultConstructorOldGameVersion(t *testing.T) {
	cfg := config.Default()
	cfg.GameVersion = config.Version{1, 19, 60}
	ctx := compiler.New(cfg, nil)
	tpl := mustTemplate(t, ctx, "Mob", nil, nil, DefaultConstructor{})

	_, cmds, err := tpl.Construct(nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	joined := strings.Join(resolveAll(cmds), "\n")
	// Pre-1.19.70 summon takes no rotation.
	if !strings.Contains(joined, "summon armor_stand ~ -75 ~ *") {
		t.Errorf("commands:\n%s", joined)
	}
}

func TestDefaultConstructorRejectsArguments(t *testing.T) {
	ctx := newTestContext()
	tpl := mustTemplate(t, ctx, "Mob", nil, nil, DefaultConstructor{})
	_, _, err := tpl.Construct([]typesystem.Value{IntLiteral{Value: 1}}, nil)
	wantCode(t, err, diag.TooManyArgs)
}

func TestConstructWithoutConstructor(t *testing.T) {
	ctx := newTestContext()
	tpl := mustTemplate(t, ctx, "Abstract", nil, nil, nil)
	_, _, err := tpl.Construct(nil, nil)
	wantCode(t, err, diag.CantConstruct)
}

// An inherited constructor must still tag instances with the concrete
// template's runtime tag, or dispatch would misroute them.
func TestInheritedConstructorTagsConcreteTemplate(t *testing.T) {
	ctx := newTestContext()
	base := mustTemplate(t, ctx, "Base", nil, nil, DefaultConstructor{})
	derived := mustTemplate(t, ctx, "Derived", nil, nil, nil, base)

	_, cmds, err := derived.Construct(nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	joined := strings.Join(resolveAll(cmds), "\n")
	if !strings.Contains(joined, "add "+derived.RuntimeTag()) {
		t.Errorf("instance not tagged with %s:\n%s", derived.RuntimeTag(), joined)
	}
	if strings.Contains(joined, "add "+base.RuntimeTag()) {
		t.Errorf("instance tagged with the base template's tag:\n%s", joined)
	}
}

func TestCustomConstructor(t *testing.T) {
	ctx := newTestContext()
	tpl := mustTemplate(t, ctx, "Mob", nil, nil,
		CustomConstructor{Impl: sayImpl("new", "init")})

	inst, cmds, err := tpl.Construct(nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	joined := strings.Join(resolveAll(cmds), "\n")
	if !strings.Contains(joined, "say init") {
		t.Errorf("constructor body missing:\n%s", joined)
	}
	if !strings.Contains(joined, "add "+tpl.RuntimeTag()) {
		t.Errorf("runtime tag missing:\n%s", joined)
	}
	if inst.Template() != tpl {
		t.Error("instance has the wrong template")
	}
}

func TestTemplateIsCallable(t *testing.T) {
	ctx := newTestContext()
	tpl := mustTemplate(t, ctx, "Mob", nil, nil, DefaultConstructor{})
	var c Callable = tpl
	v, _, err := c.Call(nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	inst, ok := v.(*TaggedEntity)
	if !ok {
		t.Fatalf("Call() returned %T", v)
	}
	if inst.Template() != tpl {
		t.Error("constructed instance has the wrong template")
	}
}

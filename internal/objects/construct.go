package objects

import (
	"fmt"

	"github.com/lodestone-lang/lodestone/internal/diag"
	"github.com/lodestone-lang/lodestone/internal/mcgen"
	"github.com/lodestone-lang/lodestone/internal/typesystem"
)

// The default constructor summons next to an arbitrary online player
// (the anchor) at a y level below the world floor, so the fresh entity
// is the only one at that exact position and can be captured by a
// volume selector before being teleported away.
const (
	summonAnchor = "@a[c=1]"
	summonY      = -75
)

// resolveConstructor fixes the template's `new` behavior. With no spec
// the nearest ancestor's constructor is inherited; a baseless template
// without a spec refuses instantiation.
func (t *EntityTemplate) resolveConstructor(ctor ConstructorSpec) error {
	switch spec := ctor.(type) {
	case nil:
		if len(t.mro) > 1 {
			t.newMethod = t.mro[1].newMethod
			return nil
		}
		t.newMethod = func(*TaggedEntity, []typesystem.Value, map[string]typesystem.Value) ([]mcgen.Command, error) {
			return nil, diag.Newf(diag.CantConstruct,
				"cannot create an entity of template %q: it has no constructor", t.name)
		}
	case DefaultConstructor:
		t.newMethod = t.defaultNew
	case CustomConstructor:
		none := NoneType
		if !sameType(spec.Impl.ResultType(), none) {
			return diag.Newf(diag.ConstructorResult,
				"constructor of template %q must produce %s, got %s",
				t.name, none, spec.Impl.ResultType())
		}
		impl := spec.Impl
		t.newMethod = func(inst *TaggedEntity, args []typesystem.Value, kwargs map[string]typesystem.Value) ([]mcgen.Command, error) {
			var selfVar selfVarFunc
			if _, builtin := impl.(*BuiltinFunction); !builtin {
				selfVar = lazySelfVar(t.ctx, t)
			}
			_, cmds, err := NewBoundMethod(inst, "new", impl, selfVar).Call(args, kwargs)
			return cmds, err
		}
	default:
		return diag.Internalf("unknown constructor spec %T", ctor)
	}
	return nil
}

// defaultNew emits the summon sequence: summon at the anchor, capture
// the fresh entity by position, then teleport it to the configured
// spawn carrying the instance tag.
func (t *EntityTemplate) defaultNew(inst *TaggedEntity, args []typesystem.Value, kwargs map[string]typesystem.Value) ([]mcgen.Command, error) {
	if _, err := NewArgumentHandler(nil).Match(args, kwargs); err != nil {
		return nil, err
	}
	cfg := t.ctx.Cfg
	rot := ""
	if cfg.GameVersion.AtLeast([3]int{1, 19, 70}) {
		rot = " 0 0"
	}
	capture := fmt.Sprintf("@e[x=~,y=%d,z=~,dx=0,dy=0,dz=0]", summonY)
	return []mcgen.Command{
		mcgen.Execute{
			Subs: []mcgen.ExecuteSub{mcgen.ExecAt{Target: summonAnchor}},
			Run:  mcgen.Raw(fmt.Sprintf("summon %s ~ %d ~%s *", cfg.EntityType, summonY, rot)),
		},
		mcgen.Execute{
			Subs: []mcgen.ExecuteSub{mcgen.ExecAt{Target: summonAnchor}},
			Run:  mcgen.TagAdd{Target: capture, Tag: inst.Tag()},
		},
		mcgen.Raw(fmt.Sprintf("tp %s %s", inst.Selector(), cfg.EntityPos)),
	}, nil
}

// Construct creates a fresh instance of the template: calling a
// template is its constructor.
func (t *EntityTemplate) Construct(args []typesystem.Value, kwargs map[string]typesystem.Value) (*TaggedEntity, []mcgen.Command, error) {
	inst, err := NewTaggedEntity(t.ctx, t, nil)
	if err != nil {
		return nil, nil, err
	}
	cmds, err := t.Initialize(inst, args, kwargs)
	if err != nil {
		return nil, nil, err
	}
	return inst, cmds, nil
}

// Initialize re-points an existing instance handle at a freshly
// constructed entity. Splitting this from Construct lets assignment
// reuse the destination handle instead of going through a temporary.
// The runtime tag is applied here, not in the constructor bodies, so an
// inherited constructor still tags instances with the concrete
// template's tag.
func (t *EntityTemplate) Initialize(inst *TaggedEntity, args []typesystem.Value, kwargs map[string]typesystem.Value) ([]mcgen.Command, error) {
	cmds := inst.Clear()
	c, err := t.newMethod(inst, args, kwargs)
	if err != nil {
		return nil, err
	}
	cmds = append(cmds, c...)
	cmds = append(cmds, mcgen.TagAdd{Target: inst.Selector().String(), Tag: t.runtimeTag})
	return cmds, nil
}

// Call makes templates callable; a call expression on a template
// constructs an instance.
func (t *EntityTemplate) Call(args []typesystem.Value, kwargs map[string]typesystem.Value) (typesystem.Value, []mcgen.Command, error) {
	inst, cmds, err := t.Construct(args, kwargs)
	if err != nil {
		return nil, nil, err
	}
	return inst, cmds, nil
}

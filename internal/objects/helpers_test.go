package objects

import (
	"testing"

	"github.com/lodestone-lang/lodestone/internal/compiler"
	"github.com/lodestone-lang/lodestone/internal/diag"
	"github.com/lodestone-lang/lodestone/internal/mcgen"
	"github.com/lodestone-lang/lodestone/internal/typesystem"
)

func newTestContext() *compiler.Context {
	return compiler.New(nil, nil)
}

// sayImpl is a builtin method body that emits a single say command.
func sayImpl(name, msg string) *BuiltinFunction {
	return NewBuiltinFunction(name, NoneType,
		func([]typesystem.Value, map[string]typesystem.Value) (typesystem.Value, []mcgen.Command, error) {
			return &NoneVar{}, []mcgen.Command{mcgen.Raw("say " + msg)}, nil
		})
}

// intImpl is a builtin method body producing a constant integer.
func intImpl(name string, n int) *BuiltinFunction {
	return NewBuiltinFunction(name, IntType,
		func([]typesystem.Value, map[string]typesystem.Value) (typesystem.Value, []mcgen.Command, error) {
			return IntLiteral{Value: n}, nil, nil
		})
}

// unstorableImpl is a builtin method body whose declared result type
// cannot back a variable.
func unstorableImpl(name string) *BuiltinFunction {
	return NewBuiltinFunction(name, FunctionType,
		func([]typesystem.Value, map[string]typesystem.Value) (typesystem.Value, []mcgen.Command, error) {
			return nil, nil, diag.Internalf("never called")
		})
}

func mustTemplate(
	t *testing.T,
	ctx *compiler.Context,
	name string,
	fields []FieldDecl,
	methods []MethodDecl,
	ctor ConstructorSpec,
	parents ...*EntityTemplate,
) *EntityTemplate {
	t.Helper()
	tpl, err := NewEntityTemplate(ctx, name, fields, methods, ctor, parents)
	if err != nil {
		t.Fatalf("template %s: %v", name, err)
	}
	return tpl
}

func mustEntity(t *testing.T, ctx *compiler.Context, tpl *EntityTemplate) *TaggedEntity {
	t.Helper()
	e, err := NewTaggedEntity(ctx, tpl, nil)
	if err != nil {
		t.Fatalf("entity of %s: %v", tpl.TemplateName(), err)
	}
	return e
}

func boundCallable(t *testing.T, e Entity, name string) Callable {
	t.Helper()
	v, ok := e.Attributes().Get(name)
	if !ok {
		t.Fatalf("member %q not bound", name)
	}
	c, ok := v.(Callable)
	if !ok {
		t.Fatalf("member %q is %T, not callable", name, v)
	}
	return c
}

func mroNames(tpl *EntityTemplate) []string {
	names := make([]string, len(tpl.mro))
	for i, m := range tpl.mro {
		names[i] = m.name
	}
	return names
}

func wantCode(t *testing.T, err error, code diag.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("want error %s, got nil", code)
	}
	if got := diag.CodeOf(err); got != code {
		t.Fatalf("error code = %s (%v), want %s", got, err, code)
	}
}

func resolveAll(cmds []mcgen.Command) []string {
	res := make([]string, len(cmds))
	for i, c := range cmds {
		res[i] = c.Resolve()
	}
	return res
}

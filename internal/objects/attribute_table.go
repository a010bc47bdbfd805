package objects

import (
	"github.com/lodestone-lang/lodestone/internal/typesystem"
)

// AttributeTable is an ordered name -> value member table. Order is
// insertion order so member iteration is stable run-to-run.
type AttributeTable struct {
	names  []string
	values map[string]typesystem.Value
}

func NewAttributeTable() *AttributeTable {
	return &AttributeTable{values: make(map[string]typesystem.Value)}
}

func (t *AttributeTable) Set(name string, v typesystem.Value) {
	if _, ok := t.values[name]; !ok {
		t.names = append(t.names, name)
	}
	t.values[name] = v
}

func (t *AttributeTable) Get(name string) (typesystem.Value, bool) {
	v, ok := t.values[name]
	return v, ok
}

func (t *AttributeTable) Names() []string {
	return t.names
}

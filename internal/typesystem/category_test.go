package typesystem

import (
	"testing"
)

func TestCategoryIs(t *testing.T) {
	root := NewCategory("number", nil)
	child := NewCategory("int", root)
	grand := NewCategory("byte", child)
	other := NewCategory("bool", nil)
	tests := []struct {
		name string
		c, o *Category
		want bool
	}{
		{"self", root, root, true},
		{"child of root", child, root, true},
		{"grandchild of root", grand, root, true},
		{"root of child", root, child, false},
		{"unrelated", child, other, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.c.Is(tt.o); got != tt.want {
				t.Errorf("Is() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSimpleMatches(t *testing.T) {
	num := NewCategory("number", nil)
	intCat := NewCategory("int", num)
	boolCat := NewCategory("bool", nil)

	numType := NewSimple(num)
	intType := NewSimple(intCat)
	boolType := NewSimple(boolCat)

	if !intType.Matches(intType) {
		t.Error("type does not match itself")
	}
	// A number slot accepts an int value, not the other way around.
	if !numType.Matches(intType) {
		t.Error("supercategory does not match subcategory value")
	}
	if intType.Matches(numType) {
		t.Error("subcategory matches supercategory value")
	}
	if intType.Matches(boolType) || boolType.Matches(intType) {
		t.Error("unrelated categories match")
	}
}

func TestSimpleNames(t *testing.T) {
	s := NewSimple(NewCategory("int", nil))
	if s.String() != "int" || s.NameNoGeneric() != "int" {
		t.Errorf("names = %q / %q", s.String(), s.NameNoGeneric())
	}
}

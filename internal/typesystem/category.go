package typesystem

// Category is a default (parameterless) type family. Categories form
// an explicit subtype tree; a Simple type matches another iff the
// other's category is the same category or a registered subcategory.
type Category struct {
	name   string
	parent *Category
}

func NewCategory(name string, parent *Category) *Category {
	return &Category{name: name, parent: parent}
}

func (c *Category) Name() string {
	return c.name
}

// Is reports whether c is other or a descendant of other.
func (c *Category) Is(other *Category) bool {
	for cur := c; cur != nil; cur = cur.parent {
		if cur == other {
			return true
		}
	}
	return false
}

// Simple is a DataType with no parameters, identified entirely by its
// category. Parameterized types (entity, struct) implement DataType
// directly and compare their parameter instead.
type Simple struct {
	cat *Category
}

func NewSimple(cat *Category) Simple {
	return Simple{cat: cat}
}

func (s Simple) Category() *Category {
	return s.cat
}

func (s Simple) String() string {
	return s.cat.name
}

func (s Simple) NameNoGeneric() string {
	return s.cat.name
}

func (s Simple) Matches(other DataType) bool {
	o, ok := other.(interface{ Category() *Category })
	return ok && o.Category().Is(s.cat)
}

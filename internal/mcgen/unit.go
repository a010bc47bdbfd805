package mcgen

// Unit is one output command function: an ordered list of commands
// that will be serialized to a single .mcfunction file.
type Unit struct {
	path     string
	commands []Command
}

func NewUnit() *Unit {
	return &Unit{commands: make([]Command, 0, 16)}
}

// Path is the output location of this unit, assigned by the
// compilation context when the unit is registered.
func (u *Unit) Path() string {
	return u.path
}

func (u *Unit) SetPath(p string) {
	u.path = p
}

func (u *Unit) Write(c Command) {
	u.commands = append(u.commands, c)
}

func (u *Unit) WriteRaw(s string) {
	u.Write(Raw(s))
}

func (u *Unit) Extend(cmds []Command) {
	u.commands = append(u.commands, cmds...)
}

// WriteDebug appends comment lines.
func (u *Unit) WriteDebug(lines ...string) {
	for _, l := range lines {
		u.Write(Comment(l))
	}
}

func (u *Unit) Commands() []Command {
	return u.commands
}

// HasRuntimeCommands reports whether the unit contains anything other
// than comments.
func (u *Unit) HasRuntimeCommands() bool {
	for _, c := range u.commands {
		if _, ok := c.(Comment); !ok {
			return true
		}
	}
	return false
}

// Resolve renders every command, comments included.
func (u *Unit) Resolve() []string {
	res := make([]string, 0, len(u.commands))
	for _, c := range u.commands {
		res = append(res, c.Resolve())
	}
	return res
}

// Package mcgen models the command output of the compiler: scoreboard
// slots, individual commands, selectors and command function units.
// The semantic layer only depends on the capabilities here (allocate a
// unit, append commands, guard a command on a selector); it never
// renders command text itself.
package mcgen

import (
	"fmt"
	"strings"
)

// Slot is a single scoreboard score: a target (fake player or selector)
// paired with an objective name.
type Slot struct {
	Target    string
	Objective string
}

func (s Slot) String() string {
	return s.Target + " " + s.Objective
}

// IsSelector reports whether the slot target is a selector rather than
// a fake player.
func (s Slot) IsSelector() bool {
	return strings.HasPrefix(s.Target, "@")
}

// Command is a single instruction in a Unit.
type Command interface {
	// Resolve renders the final command text.
	Resolve() string
}

// Raw is a literal command string.
type Raw string

func (r Raw) Resolve() string {
	return string(r)
}

// Comment is a debug line; it renders with a leading "#" and carries no
// runtime behavior.
type Comment string

func (c Comment) Resolve() string {
	return "# " + string(c)
}

// ScbSet assigns a constant to a score.
type ScbSet struct {
	Target Slot
	Value  int
}

func (c ScbSet) Resolve() string {
	return fmt.Sprintf("scoreboard players set %s %d", c.Target, c.Value)
}

// ScbAdd adds a constant to a score.
type ScbAdd struct {
	Target Slot
	Value  int
}

func (c ScbAdd) Resolve() string {
	return fmt.Sprintf("scoreboard players add %s %d", c.Target, c.Value)
}

// ScbOp is a scoreboard operation kind.
type ScbOp string

const (
	OpAssign ScbOp = "="
	OpAdd    ScbOp = "+="
	OpSub    ScbOp = "-="
	OpMul    ScbOp = "*="
	OpDiv    ScbOp = "/="
	OpMod    ScbOp = "%="
	OpMin    ScbOp = "<"
	OpMax    ScbOp = ">"
	OpSwap   ScbOp = "><"
)

// ScbOperation applies Op to Left using Right
// (`scoreboard players operation`).
type ScbOperation struct {
	Op    ScbOp
	Left  Slot
	Right Slot
}

func (c ScbOperation) Resolve() string {
	return fmt.Sprintf("scoreboard players operation %s %s %s", c.Left, c.Op, c.Right)
}

// ScbObjAdd creates a scoreboard objective.
type ScbObjAdd struct {
	Name string
}

func (c ScbObjAdd) Resolve() string {
	return fmt.Sprintf("scoreboard objectives add %s dummy", c.Name)
}

// TagAdd attaches a tag to every entity matched by Target.
type TagAdd struct {
	Target string
	Tag    string
}

func (c TagAdd) Resolve() string {
	return fmt.Sprintf("tag %s add %s", c.Target, c.Tag)
}

// TagRemove removes a tag from every entity matched by Target.
type TagRemove struct {
	Target string
	Tag    string
}

func (c TagRemove) Resolve() string {
	return fmt.Sprintf("tag %s remove %s", c.Target, c.Tag)
}

// Invoke calls another unit. The unit's path is assigned when it is
// registered with the compilation context, which may happen after the
// Invoke is written; resolution is deferred to Resolve.
type Invoke struct {
	Unit *Unit
}

func (c Invoke) Resolve() string {
	return "function " + c.Unit.Path()
}

// ExecuteSub is a subcommand in an execute chain.
type ExecuteSub interface {
	resolveSub() string
}

// ExecAs runs the payload as every entity matched by Target.
type ExecAs struct {
	Target string
}

func (e ExecAs) resolveSub() string {
	return "as " + e.Target
}

// ExecAt runs the payload at the position of Target.
type ExecAt struct {
	Target string
}

func (e ExecAt) resolveSub() string {
	return "at " + e.Target
}

// ExecIfEntity guards the payload on Selector matching at least one
// entity.
type ExecIfEntity struct {
	Selector string
}

func (e ExecIfEntity) resolveSub() string {
	return "if entity " + e.Selector
}

// ExecUnlessEntity guards the payload on Selector matching nothing.
type ExecUnlessEntity struct {
	Selector string
}

func (e ExecUnlessEntity) resolveSub() string {
	return "unless entity " + e.Selector
}

// Execute chains subcommands around a payload command.
type Execute struct {
	Subs []ExecuteSub
	Run  Command
}

func (c Execute) Resolve() string {
	var sb strings.Builder
	sb.WriteString("execute ")
	for _, sub := range c.Subs {
		sb.WriteString(sub.resolveSub())
		sb.WriteString(" ")
	}
	sb.WriteString("run ")
	sb.WriteString(c.Run.Resolve())
	return sb.String()
}

package mcgen

import (
	"testing"
)

func TestCommandResolve(t *testing.T) {
	slot := Slot{Target: "ldst_v1", Objective: "ldst"}
	other := Slot{Target: "ldst_v2", Objective: "ldst"}
	tests := []struct {
		name string
		cmd  Command
		want string
	}{
		{"raw", Raw("say hi"), "say hi"},
		{"comment", Comment("debug line"), "# debug line"},
		{"scb set", ScbSet{Target: slot, Value: 10}, "scoreboard players set ldst_v1 ldst 10"},
		{"scb add", ScbAdd{Target: slot, Value: -3}, "scoreboard players add ldst_v1 ldst -3"},
		{"scb assign", ScbOperation{Op: OpAssign, Left: slot, Right: other},
			"scoreboard players operation ldst_v1 ldst = ldst_v2 ldst"},
		{"scb swap", ScbOperation{Op: OpSwap, Left: slot, Right: other},
			"scoreboard players operation ldst_v1 ldst >< ldst_v2 ldst"},
		{"scb obj add", ScbObjAdd{Name: "ldst1"}, "scoreboard objectives add ldst1 dummy"},
		{"tag add", TagAdd{Target: "@e[tag=x]", Tag: "y"}, "tag @e[tag=x] add y"},
		{"tag remove", TagRemove{Target: "@e[tag=x]", Tag: "y"}, "tag @e[tag=x] remove y"},
		{"execute", Execute{
			Subs: []ExecuteSub{ExecAs{Target: "@e[tag=x]"}, ExecAt{Target: "@s"}},
			Run:  Raw("say hi"),
		}, "execute as @e[tag=x] at @s run say hi"},
		{"execute guards", Execute{
			Subs: []ExecuteSub{
				ExecUnlessEntity{Selector: "@s[tag=!a]"},
				ExecIfEntity{Selector: "@s"},
			},
			Run: Raw("say hi"),
		}, "execute unless entity @s[tag=!a] if entity @s run say hi"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cmd.Resolve(); got != tt.want {
				t.Errorf("Resolve() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSlotIsSelector(t *testing.T) {
	if (Slot{Target: "ldst_v1", Objective: "ldst"}).IsSelector() {
		t.Error("fake player slot reported as selector")
	}
	if !(Slot{Target: "@e[tag=x,c=1]", Objective: "ldst"}).IsSelector() {
		t.Error("selector slot not reported as selector")
	}
}

func TestSelectorString(t *testing.T) {
	tests := []struct {
		name string
		sel  *Selector
		want string
	}{
		{"bare", NewSelector("s"), "@s"},
		{"tag", NewSelector("e").Tag("a"), "@e[tag=a]"},
		{"tags keep order", NewSelector("e").Tag("b").Tag("a"), "@e[tag=b,tag=a]"},
		{"negated", NewSelector("s").TagNot("a", "b"), "@s[tag=!a,tag=!b]"},
		{"mixed", NewSelector("e").Tag("a").TagNot("b").Type("armor_stand").Limit(1),
			"@e[tag=a,tag=!b,type=armor_stand,c=1]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.sel.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSelectorCopy(t *testing.T) {
	orig := NewSelector("e").Tag("a")
	cp := orig.Copy().Tag("b").Limit(1)
	if got := orig.String(); got != "@e[tag=a]" {
		t.Errorf("original changed by copy mutation: %q", got)
	}
	if got := cp.String(); got != "@e[tag=a,tag=b,c=1]" {
		t.Errorf("copy = %q", got)
	}
}

func TestUnitWriteExtend(t *testing.T) {
	u := NewUnit()
	u.WriteRaw("say one")
	u.Extend([]Command{Raw("say two"), Raw("say three")})
	got := u.Resolve()
	want := []string{"say one", "say two", "say three"}
	if len(got) != len(want) {
		t.Fatalf("Resolve() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Resolve()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestUnitHasRuntimeCommands(t *testing.T) {
	u := NewUnit()
	if u.HasRuntimeCommands() {
		t.Error("empty unit reports runtime commands")
	}
	u.WriteDebug("only a comment")
	if u.HasRuntimeCommands() {
		t.Error("comment-only unit reports runtime commands")
	}
	u.WriteRaw("say hi")
	if !u.HasRuntimeCommands() {
		t.Error("unit with a command reports none")
	}
}

func TestInvokeResolvesLate(t *testing.T) {
	u := NewUnit()
	inv := Invoke{Unit: u}
	// The path is assigned after the Invoke is constructed.
	u.SetPath("lib/sub7")
	if got := inv.Resolve(); got != "function lib/sub7" {
		t.Errorf("Resolve() = %q", got)
	}
}

package mcgen

import (
	"fmt"
	"strings"
)

// Selector builds a target selector. Arguments keep insertion order so
// that rendering is stable run-to-run.
type Selector struct {
	Var     string // "e", "a", "p", "r" or "s"
	tags    []string
	notTags []string
	typ     string
	limit   int
}

func NewSelector(v string) *Selector {
	return &Selector{Var: v}
}

func (s *Selector) Copy() *Selector {
	res := &Selector{Var: s.Var, typ: s.typ, limit: s.limit}
	res.tags = append(res.tags, s.tags...)
	res.notTags = append(res.notTags, s.notTags...)
	return res
}

// Tag requires all given tags to be present.
func (s *Selector) Tag(tags ...string) *Selector {
	s.tags = append(s.tags, tags...)
	return s
}

// TagNot requires all given tags to be absent. Since selector
// arguments are conjunctive, TagNot over a set expresses "not a member
// of the set"; dispatch inverts that to test membership.
func (s *Selector) TagNot(tags ...string) *Selector {
	s.notTags = append(s.notTags, tags...)
	return s
}

func (s *Selector) Type(t string) *Selector {
	s.typ = t
	return s
}

func (s *Selector) Limit(n int) *Selector {
	s.limit = n
	return s
}

func (s *Selector) String() string {
	var args []string
	for _, t := range s.tags {
		args = append(args, "tag="+t)
	}
	for _, t := range s.notTags {
		args = append(args, "tag=!"+t)
	}
	if s.typ != "" {
		args = append(args, "type="+s.typ)
	}
	if s.limit > 0 {
		args = append(args, fmt.Sprintf("c=%d", s.limit))
	}
	if len(args) == 0 {
		return "@" + s.Var
	}
	return fmt.Sprintf("@%s[%s]", s.Var, strings.Join(args, ","))
}

package objects

import (
	"slices"

	"github.com/lodestone-lang/lodestone/internal/diag"
)

// linearize computes the method resolution order of a template with
// the given parents: the C3 merge of every parent's own linearization
// plus the parent list itself. The result starts with self, places
// every template before its own ancestors, and preserves the relative
// order templates have in any input list. Candidate selection walks
// the merge lists in declaration order, so ties break deterministically
// by parent order.
func linearize(self *EntityTemplate, parents []*EntityTemplate) ([]*EntityTemplate, error) {
	result := []*EntityTemplate{self}
	var merge [][]*EntityTemplate
	for _, p := range parents {
		if len(p.mro) > 0 {
			merge = append(merge, slices.Clone(p.mro))
		}
	}
	if len(parents) > 0 {
		merge = append(merge, slices.Clone(parents))
	}
	for len(merge) > 0 {
		var candidate *EntityTemplate
		for _, lst := range merge {
			head := lst[0]
			if !inAnyTail(merge, head) {
				candidate = head
				break
			}
		}
		if candidate == nil {
			return nil, diag.Newf(diag.InconsistentMRO,
				"cannot linearize bases of template %q: parent orders conflict", self.name)
		}
		result = append(result, candidate)
		kept := merge[:0]
		for _, lst := range merge {
			if i := slices.Index(lst, candidate); i >= 0 {
				lst = slices.Delete(lst, i, i+1)
			}
			if len(lst) > 0 {
				kept = append(kept, lst)
			}
		}
		merge = kept
	}
	return result, nil
}

// inAnyTail reports whether t appears in the tail (anything but the
// head) of any merge list. Such a candidate still has an unprocessed
// predecessor and must not be selected yet.
func inAnyTail(merge [][]*EntityTemplate, t *EntityTemplate) bool {
	for _, lst := range merge {
		if slices.Index(lst[1:], t) >= 0 {
			return true
		}
	}
	return false
}

package arbor

// Placement describes where a dragged element would land: between Previous
// and Next inside the list owned by Parent, within Group. Parent is nil at the
// top level and Group is nil when no group selector is configured. Previous
// and Next are the placeholder's actual siblings, so the dragged element
// itself can appear in either slot while it is out of flow.
//
// Placements compare by identity with ==.
type Placement struct {
	Previous *Node
	Next     *Node
	Parent   *Node
	Group    *Node
}

// positionTracker holds the last committed placement of a session.
type positionTracker struct {
	current Placement
}

// update commits p. changed is false, and nothing is recorded, when p equals
// the current placement. prev is the placement in effect before the call.
func (t *positionTracker) update(p Placement) (changed bool, prev Placement) {
	prev = t.current
	if p == prev {
		return false, prev
	}
	t.current = p
	return true, prev
}

// slotNeighbors returns the siblings on either side of the slot in list that
// precedes before (nil before = end of list), ignoring skip and any sibling
// keep rejects. This is the Previous/Next pair the placeholder would have once
// moved into that slot. A nil keep accepts every sibling.
func slotNeighbors(list, before, skip *Node, keep func(*Node) bool) (prev, next *Node) {
	idx := len(list.children)
	if before != nil {
		if i := list.IndexOf(before); i >= 0 {
			idx = i
		}
	}
	ok := func(c *Node) bool {
		return c != skip && (keep == nil || keep(c))
	}
	for i := idx - 1; i >= 0; i-- {
		if c := list.children[i]; ok(c) {
			prev = c
			break
		}
	}
	for i := idx; i < len(list.children); i++ {
		if c := list.children[i]; ok(c) {
			next = c
			break
		}
	}
	return prev, next
}

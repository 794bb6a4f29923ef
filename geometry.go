package arbor

import "math"

// candidate is a placement the resolver proposes for the placeholder, along
// with the slot that realizes it. list is nil when the slot lives in a list
// that does not exist yet; owner is then the item that will receive it.
type candidate struct {
	Placement
	list   *Node
	owner  *Node
	before *Node
	anchor *Node // item or group the pointer designated
}

// resolve turns a pointer position into a candidate placement. A horizontal
// displacement of at least NestInterval from the nest anchor is handled as a
// nesting move and suppresses the vertical search for this evaluation.
func (s *Sortable) resolve(x, y float64) (candidate, bool) {
	ss := s.session
	if s.opts.Nest {
		dx := x - ss.nestAnchorX
		if math.Abs(dx) >= s.opts.NestInterval {
			ss.nestAnchorX = x
			if dx > 0 {
				return s.nestRight()
			}
			return s.nestLeft()
		}
	}
	return s.vertical(x, y)
}

// nestRight makes the placeholder the last child of its previous item sibling.
func (s *Sortable) nestRight() (candidate, bool) {
	ph := s.session.placeholder
	target := s.siblingItem(ph, -1)
	if target == nil {
		return candidate{}, false
	}
	c := candidate{anchor: target}
	if list := s.nestedList(target); list != nil {
		c.list = list
		c.Placement = s.slotPlacement(list, nil)
		return c, true
	}
	c.owner = target
	c.Placement = Placement{Parent: target, Group: s.groupOf(target)}
	return c, true
}

// nestLeft moves the placeholder right after the item owning its list. Only
// the last item of a nested list can move out.
func (s *Sortable) nestLeft() (candidate, bool) {
	ph := s.session.placeholder
	if ph.Parent == nil {
		return candidate{}, false
	}
	owner := s.parentItemOf(ph.Parent)
	if owner == nil || owner.Parent == nil || s.siblingItem(ph, +1) != nil {
		return candidate{}, false
	}
	c := candidate{list: owner.Parent, before: owner.NextSibling(), anchor: owner}
	c.Placement = s.slotPlacement(c.list, c.before)
	return c, true
}

// vertical picks the gap designated by the pointer's height over an item row:
// the upper half means before the item, the lower half after it, or at the
// head of its nested list when nesting is on. A pointer inside a group but
// over no item designates the end of the group's list.
func (s *Sortable) vertical(x, y float64) (candidate, bool) {
	ss := s.session
	if ph := ss.placeholder; ph.Visible && ph.Parent != nil {
		if r, ok := ph.WorldBounds(); ok && y >= r.Y && y < r.Bottom() &&
			(s.opts.Groups == nil || (x >= r.X && x <= r.X+r.Width)) {
			return candidate{}, false
		}
	}

	group := s.groupAt(x, y)
	item := s.hoveredItem(x, y, group)
	if item == nil {
		if group == nil {
			return candidate{}, false
		}
		list := s.groupList(group)
		c := candidate{list: list, anchor: group}
		c.Placement = s.slotPlacement(list, nil)
		return c, true
	}

	c := candidate{anchor: item}
	r, _ := item.WorldBounds()
	switch nested := s.nestedList(item); {
	case y < r.MidY():
		c.list, c.before = item.Parent, item
	case s.opts.Nest && nested != nil && s.hasItems(nested):
		c.list, c.before = nested, nested.children[0]
	default:
		c.list, c.before = item.Parent, item.NextSibling()
	}
	c.Placement = s.slotPlacement(c.list, c.before)
	return c, true
}

// slotPlacement describes the slot of list preceding before, as seen from the
// placeholder.
func (s *Sortable) slotPlacement(list, before *Node) Placement {
	prev, next := slotNeighbors(list, before, s.session.placeholder, s.isNeighbor)
	return Placement{
		Previous: prev,
		Next:     next,
		Parent:   s.parentItemOf(list),
		Group:    s.groupOf(list),
	}
}

// hoveredItem returns the deepest candidate item whose row spans y. A row that
// misses x still counts when it belongs to the group under the pointer, or,
// without groups, when it sits in the pointer's column.
func (s *Sortable) hoveredItem(x, y float64, group *Node) *Node {
	var best *Node
	bestLevel := 0
	s.walkItems(func(it *Node) {
		r, ok := it.WorldBounds()
		if !ok || y < r.Y || y >= r.Bottom() {
			return
		}
		if x < r.X || x > r.X+r.Width {
			if s.opts.Groups != nil {
				if group == nil || s.groupOf(it) != group {
					return
				}
			} else if !s.inColumn(it, x) {
				return
			}
		}
		if lvl := s.levelOf(it); best == nil || lvl > bestLevel {
			best, bestLevel = it, lvl
		}
	})
	return best
}

// inColumn reports whether x falls in the column holding it. Layouts without
// columns have a single column spanning everything.
func (s *Sortable) inColumn(it *Node, x float64) bool {
	l, ok := s.opts.Layout.(StackLayout)
	if !ok || l.ColumnWidth <= 0 {
		return true
	}
	col := it
	for col.Parent != nil && col.Parent != s.ref {
		col = col.Parent
	}
	if col.Parent != s.ref {
		return true
	}
	x0, _ := col.LocalToWorld(0, 0)
	x1, _ := col.LocalToWorld(l.ColumnWidth, 0)
	return x >= x0 && x < x1
}

// itemAt returns the deepest item whose row contains (x, y), ignoring any
// drag session. Used to find the grabbed element when no hit target is known.
func (s *Sortable) itemAt(x, y float64) *Node {
	refreshWorldTransforms(s.ref)
	var best *Node
	bestLevel := 0
	s.walkItems(func(it *Node) {
		r, ok := it.WorldBounds()
		if !ok || !r.Contains(x, y) {
			return
		}
		if lvl := s.levelOf(it); best == nil || lvl > bestLevel {
			best, bestLevel = it, lvl
		}
	})
	return best
}

// groupAt returns the deepest group whose bounds contain (x, y).
func (s *Sortable) groupAt(x, y float64) *Node {
	if s.opts.Groups == nil {
		return nil
	}
	var best *Node
	bestDepth := -1
	var walk func(n *Node, depth int)
	walk = func(n *Node, depth int) {
		if !n.Visible || s.isDragged(n) {
			return
		}
		if n != s.ref && s.opts.Groups.Match(n) {
			if r, ok := n.WorldBounds(); ok && r.Contains(x, y) && depth > bestDepth {
				best, bestDepth = n, depth
			}
		}
		for _, c := range n.children {
			walk(c, depth+1)
		}
	}
	walk(s.ref, 0)
	return best
}

// walkItems calls fn for every visible item under the ref, skipping the
// dragged subtree and the placeholder.
func (s *Sortable) walkItems(fn func(*Node)) {
	var walk func(n *Node)
	walk = func(n *Node) {
		for _, c := range n.children {
			if !c.Visible || s.isDragged(c) || s.isPlaceholder(c) {
				continue
			}
			if s.isItem(c) {
				fn(c)
			}
			walk(c)
		}
	}
	walk(s.ref)
}

func (s *Sortable) isDragged(n *Node) bool {
	return s.session != nil && s.session.dragging && n == s.session.element
}

func (s *Sortable) isPlaceholder(n *Node) bool {
	return s.session != nil && n == s.session.placeholder
}

// isItem reports whether n is a sortable element of this sortable.
func (s *Sortable) isItem(n *Node) bool {
	return n != nil && n != s.ref && !s.isPlaceholder(n) && s.opts.Elements.Match(n)
}

// isNeighbor reports whether n can be a Previous or Next of a placement. The
// dragged element still counts while it sits next to its own slot.
func (s *Sortable) isNeighbor(n *Node) bool {
	return n == s.session.element || s.isItem(n)
}

// siblingItem walks from n in direction dir (-1 previous, +1 next) and
// returns the first item, skipping the dragged element.
func (s *Sortable) siblingItem(n *Node, dir int) *Node {
	if n.Parent == nil {
		return nil
	}
	sibs := n.Parent.children
	for i := n.Parent.IndexOf(n) + dir; i >= 0 && i < len(sibs); i += dir {
		c := sibs[i]
		if c == s.session.element {
			continue
		}
		if s.isItem(c) {
			return c
		}
	}
	return nil
}

// parentItemOf returns the closest item at or above n inside the ref, which is
// the Parent of a placement in list n.
func (s *Sortable) parentItemOf(n *Node) *Node {
	for p := n; p != nil && p != s.ref; p = p.Parent {
		if s.isItem(p) {
			return p
		}
	}
	return nil
}

// groupOf returns the closest group at or above n, up to and including the ref.
func (s *Sortable) groupOf(n *Node) *Node {
	if s.opts.Groups == nil {
		return nil
	}
	for p := n; p != nil; p = p.Parent {
		if s.opts.Groups.Match(p) {
			return p
		}
		if p == s.ref {
			break
		}
	}
	return nil
}

// groupList returns the top-level list of a group: its first descendant tagged
// ListTagName outside any item, else the group itself when it holds items
// directly, else its first container child.
func (s *Sortable) groupList(g *Node) *Node {
	var found *Node
	var walk func(n *Node) bool
	walk = func(n *Node) bool {
		for _, c := range n.children {
			if s.isItem(c) || s.isPlaceholder(c) {
				continue
			}
			if c.Tag == s.opts.ListTagName {
				found = c
				return true
			}
			if walk(c) {
				return true
			}
		}
		return false
	}
	if walk(g) {
		return found
	}
	for _, c := range g.children {
		if s.isItem(c) {
			return g
		}
	}
	for _, c := range g.children {
		if c.Type == NodeTypeContainer {
			return c
		}
	}
	return g
}

// nestedList returns the list holding item's children: a container child
// tagged ListTagName or already holding items.
func (s *Sortable) nestedList(item *Node) *Node {
	for _, c := range item.children {
		if c.Type != NodeTypeContainer {
			continue
		}
		if c.Tag == s.opts.ListTagName || s.hasItems(c) {
			return c
		}
	}
	return nil
}

// hasItems reports whether list holds an item other than the dragged element.
func (s *Sortable) hasItems(list *Node) bool {
	for _, c := range list.children {
		if c != s.draggedElement() && s.isItem(c) {
			return true
		}
	}
	return false
}

func (s *Sortable) draggedElement() *Node {
	if s.session == nil {
		return nil
	}
	return s.session.element
}

// levelOf returns the nesting level of item, top-level items being level 1.
func (s *Sortable) levelOf(item *Node) int {
	level := 1
	for p := item.Parent; p != nil && p != s.ref; p = p.Parent {
		if s.isItem(p) {
			level++
		}
	}
	return level
}

// subtreeLevels returns how many item levels n's subtree spans, counting n.
func (s *Sortable) subtreeLevels(n *Node) int {
	best := 0
	var walk func(m *Node, depth int)
	walk = func(m *Node, depth int) {
		if s.isItem(m) {
			depth++
			best = max(best, depth)
		}
		for _, c := range m.children {
			walk(c, depth)
		}
	}
	walk(n, 0)
	return best
}

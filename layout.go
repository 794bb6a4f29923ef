package arbor

// Layout positions the nodes under a sortable's ref. Arrange runs after every
// structural change of a drag session, with skip set to the dragged element
// (which is out of flow and positioned by the sortable itself). Measure
// reports the height a subtree occupies when laid out.
type Layout interface {
	Arrange(root, skip *Node)
	Measure(n *Node) float64
}

// StackLayout stacks nodes top to bottom. Sprites are rows: their own Height
// comes first, their container children (nested lists) follow underneath,
// shifted right by Indent, and their other children are row decorations left
// where the caller put them. Containers stack all their visible children.
// Containers carrying a HitRect (groups) get its height fitted to their
// content plus Padding.
type StackLayout struct {
	Indent  float64
	Padding float64
	// ColumnWidth > 0 places the root's children side by side, one column
	// each, instead of stacking them.
	ColumnWidth float64
}

// Arrange implements Layout.
func (l StackLayout) Arrange(root, skip *Node) {
	if l.ColumnWidth <= 0 {
		l.arrange(root, skip)
		return
	}
	x := 0.0
	for _, c := range root.children {
		if c == skip || !c.Visible {
			continue
		}
		c.SetPosition(x, 0)
		l.arrange(c, skip)
		x += l.ColumnWidth
	}
}

// arrange positions n's in-flow children and returns n's height.
func (l StackLayout) arrange(n, skip *Node) float64 {
	row := n.Type == NodeTypeSprite
	y := 0.0
	if row {
		y = n.Height
	}
	for _, c := range n.children {
		if !l.inFlow(n, c) || c == skip {
			continue
		}
		x := 0.0
		if row {
			x = l.Indent
		}
		c.SetPosition(x, y)
		y += l.arrange(c, skip)
	}
	return l.fit(n, y)
}

// Measure implements Layout.
func (l StackLayout) Measure(n *Node) float64 {
	h := 0.0
	if n.Type == NodeTypeSprite {
		h = n.Height
	}
	for _, c := range n.children {
		if l.inFlow(n, c) {
			h += l.Measure(c)
		}
	}
	if _, ok := n.HitShape.(HitRect); ok && n.Type != NodeTypeSprite {
		h += l.Padding
	}
	return h
}

func (l StackLayout) inFlow(parent, c *Node) bool {
	if !c.Visible {
		return false
	}
	return parent.Type != NodeTypeSprite || c.Type == NodeTypeContainer
}

// fit resizes a container's HitRect to its content and returns its height.
func (l StackLayout) fit(n *Node, h float64) float64 {
	if n.Type == NodeTypeSprite {
		return h
	}
	r, ok := n.HitShape.(HitRect)
	if !ok {
		return h
	}
	h += l.Padding
	if r.Height != h {
		r.Height = h
		n.HitShape = r
	}
	return h
}

package arbor

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// Draw paints the visible tree onto screen, once per camera viewport. Sprites
// are drawn as solid rectangles; node Text is drawn with the debug font at the
// node origin.
func (s *Scene) Draw(screen *ebiten.Image) {
	if s.ClearColor.A > 0 {
		screen.Fill(s.ClearColor.RGBA())
	}
	updateWorldTransform(s.root, identityTransform, 1.0, false)

	if len(s.cameras) == 0 {
		s.drawNode(screen, s.root, identityTransform)
		return
	}
	for _, cam := range s.cameras {
		view := cam.computeViewMatrix()
		vp := cam.Viewport
		viewportImg := screen.SubImage(image.Rect(
			int(vp.X), int(vp.Y),
			int(vp.X+vp.Width), int(vp.Y+vp.Height),
		)).(*ebiten.Image)
		s.drawNode(viewportImg, s.root, view)
	}
}

func (s *Scene) drawNode(target *ebiten.Image, n *Node, view [6]float64) {
	if !n.Visible || n.worldAlpha == 0 {
		return
	}
	m := multiplyAffine(view, n.worldTransform)

	if n.Type == NodeTypeSprite && n.Width > 0 && n.Height > 0 {
		var op ebiten.DrawImageOptions
		op.GeoM.Scale(n.Width, n.Height)
		op.GeoM.Concat(geoM(m))
		c := n.Color
		c.A *= n.worldAlpha
		op.ColorScale.ScaleWithColor(c.RGBA())
		target.DrawImage(WhitePixel, &op)
	}
	if n.Text != "" {
		x, y := transformPoint(m, 4, 2)
		ebitenutil.DebugPrintAt(target, n.Text, int(x), int(y))
	}

	for _, child := range sortedChildren(n) {
		s.drawNode(target, child, view)
	}
}

// geoM converts an affine [a, b, c, d, tx, ty] to ebiten's GeoM.
func geoM(m [6]float64) ebiten.GeoM {
	var g ebiten.GeoM
	g.SetElement(0, 0, m[0])
	g.SetElement(1, 0, m[1])
	g.SetElement(0, 1, m[2])
	g.SetElement(1, 1, m[3])
	g.SetElement(0, 2, m[4])
	g.SetElement(1, 2, m[5])
	return g
}

// sortedChildren returns n's children in painter order (stable by ZIndex),
// rebuilding the cached order when it is stale.
func sortedChildren(n *Node) []*Node {
	if len(n.children) == 0 {
		return nil
	}
	if !n.childrenSorted {
		rebuildSortedChildren(n)
	}
	if n.sortedChildren != nil {
		return n.sortedChildren
	}
	return n.children
}

// rebuildSortedChildren rebuilds the ZIndex-sorted traversal order for a node.
// Uses insertion sort: zero allocations, stable, and optimal for the typical
// case of few children that are nearly sorted (O(n) when already sorted).
func rebuildSortedChildren(n *Node) {
	nc := len(n.children)
	if cap(n.sortedChildren) < nc {
		n.sortedChildren = make([]*Node, nc)
	}
	n.sortedChildren = n.sortedChildren[:nc]
	copy(n.sortedChildren, n.children)
	for i := 1; i < nc; i++ {
		key := n.sortedChildren[i]
		j := i - 1
		for j >= 0 && n.sortedChildren[j].ZIndex > key.ZIndex {
			n.sortedChildren[j+1] = n.sortedChildren[j]
			j--
		}
		n.sortedChildren[j+1] = key
	}
	n.childrenSorted = true
}

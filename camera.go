package arbor

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Camera is a scrollable, zoomable view of the scene rendered into a screen
// rectangle. Pointer input is mapped through the first camera of a scene.
type Camera struct {
	// X and Y are the world point shown at the center of the viewport.
	X, Y float64
	// Zoom scales the world; 1 shows it unscaled.
	Zoom float64
	// Viewport is the screen rectangle the camera renders into.
	Viewport Rect

	// Bounds, when BoundsEnabled, limits scrolling so the visible area stays
	// inside it.
	Bounds        Rect
	BoundsEnabled bool

	view, inv [6]float64
	dirty     bool

	scroll *scrollAnim
}

type scrollAnim struct {
	x, y         *gween.Tween
	doneX, doneY bool
}

func newCamera(viewport Rect) *Camera {
	return &Camera{Zoom: 1, Viewport: viewport, dirty: true}
}

// AlignOrigin places the camera so world point (0, 0) appears at the viewport's
// top-left corner, which makes screen and world coordinates agree at zoom 1.
func (c *Camera) AlignOrigin() {
	c.X = c.Viewport.Width / (2 * c.Zoom)
	c.Y = c.Viewport.Height / (2 * c.Zoom)
	c.dirty = true
}

// Resize changes the viewport size, keeping the world point at its top-left
// corner in place.
func (c *Camera) Resize(w, h float64) {
	left := c.X - c.Viewport.Width/(2*c.Zoom)
	top := c.Y - c.Viewport.Height/(2*c.Zoom)
	c.Viewport.Width, c.Viewport.Height = w, h
	c.X = left + w/(2*c.Zoom)
	c.Y = top + h/(2*c.Zoom)
	c.dirty = true
}

// ScrollTo animates the camera center to (x, y) over duration seconds.
func (c *Camera) ScrollTo(x, y float64, duration float32, easeFn ease.TweenFunc) {
	c.scroll = &scrollAnim{
		x: gween.New(float32(c.X), float32(x), duration, easeFn),
		y: gween.New(float32(c.Y), float32(y), duration, easeFn),
	}
}

// ScrollIntoView scrolls vertically just far enough for the node's row to be
// fully visible. No-op when the row is already visible or has no bounds.
func (c *Camera) ScrollIntoView(node *Node, duration float32, easeFn ease.TweenFunc) {
	r, ok := node.WorldBounds()
	if !ok {
		return
	}
	vis := c.VisibleBounds()
	switch {
	case r.Y < vis.Y:
		c.ScrollTo(c.X, c.Y-(vis.Y-r.Y), duration, easeFn)
	case r.Bottom() > vis.Bottom():
		c.ScrollTo(c.X, c.Y+(r.Bottom()-vis.Bottom()), duration, easeFn)
	}
}

// Scrolling reports whether a scroll animation is in progress.
func (c *Camera) Scrolling() bool {
	return c.scroll != nil
}

// SetBounds enables clamping to bounds.
func (c *Camera) SetBounds(bounds Rect) {
	c.Bounds = bounds
	c.BoundsEnabled = true
}

// ClearBounds disables clamping.
func (c *Camera) ClearBounds() {
	c.BoundsEnabled = false
}

// update advances the scroll animation and applies bounds. Scene.Update and
// Scene.Step call it once per frame.
func (c *Camera) update(dt float32) {
	x, y := c.X, c.Y

	if a := c.scroll; a != nil {
		if !a.doneX {
			v, done := a.x.Update(dt)
			c.X, a.doneX = float64(v), done
		}
		if !a.doneY {
			v, done := a.y.Update(dt)
			c.Y, a.doneY = float64(v), done
		}
		if a.doneX && a.doneY {
			c.scroll = nil
		}
	}
	if c.BoundsEnabled {
		c.clamp()
	}
	if c.X != x || c.Y != y {
		c.dirty = true
	}
}

// clamp keeps the visible area inside Bounds, centering on an axis where the
// bounds are smaller than the view.
func (c *Camera) clamp() {
	halfW := c.Viewport.Width / (2 * c.Zoom)
	halfH := c.Viewport.Height / (2 * c.Zoom)
	c.X = clampAxis(c.X, c.Bounds.X, c.Bounds.Width, halfW)
	c.Y = clampAxis(c.Y, c.Bounds.Y, c.Bounds.Height, halfH)
}

func clampAxis(v, start, size, half float64) float64 {
	lo, hi := start+half, start+size-half
	if lo > hi {
		return start + size/2
	}
	return math.Max(lo, math.Min(v, hi))
}

// computeViewMatrix returns the world-to-screen matrix, rebuilding it and its
// inverse when the camera changed.
func (c *Camera) computeViewMatrix() [6]float64 {
	if !c.dirty {
		return c.view
	}
	c.dirty = false
	z := c.Zoom
	cx := c.Viewport.X + c.Viewport.Width/2
	cy := c.Viewport.Y + c.Viewport.Height/2
	c.view = [6]float64{z, 0, 0, z, cx - z*c.X, cy - z*c.Y}
	c.inv = invertAffine(c.view)
	return c.view
}

// WorldToScreen converts world coordinates to screen coordinates.
func (c *Camera) WorldToScreen(wx, wy float64) (float64, float64) {
	return transformPoint(c.computeViewMatrix(), wx, wy)
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (c *Camera) ScreenToWorld(sx, sy float64) (float64, float64) {
	c.computeViewMatrix()
	return transformPoint(c.inv, sx, sy)
}

// VisibleBounds returns the world rectangle shown by the camera.
func (c *Camera) VisibleBounds() Rect {
	c.computeViewMatrix()
	return worldAABB(c.inv, c.Viewport)
}

// MarkDirty forces the view matrix to be rebuilt.
func (c *Camera) MarkDirty() {
	c.dirty = true
}

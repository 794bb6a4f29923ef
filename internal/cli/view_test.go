package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phanxgames/arbor"
	"github.com/phanxgames/arbor/internal/outline"
)

func newTestBoard(t *testing.T, height int) *board {
	t.Helper()
	doc, err := outline.Decode(strings.NewReader(sprintYAML), "yaml")
	require.NoError(t, err)
	cfg := defaultConfig()
	cfg.Window.Height = height
	b, err := newBoard(doc, cfg, log.New(&bytes.Buffer{}))
	require.NoError(t, err)
	t.Cleanup(b.sortable.Close)
	return b
}

func TestNewBoard(t *testing.T) {
	b := newTestBoard(t, 480)

	assert.Equal(t, []*arbor.Camera{b.camera}, b.scene.Cameras())
	assert.Equal(t, []*arbor.Sortable{b.sortable}, b.scene.Sortables())
	x, y := b.camera.ScreenToWorld(10, 20)
	assert.InDelta(t, 10, x, 1e-9)
	assert.InDelta(t, 20, y, 1e-9)

	r, ok := b.tree.Node("a").WorldBounds()
	require.True(t, ok)
	assert.Equal(t, float64(boardMargin), r.X)
	assert.Equal(t, 38.0, r.Y)
}

// Dragging a below b in a 60 pixel window puts the placeholder at 60..65,
// past the bottom edge, so the camera scrolls down by 5.
func TestBoardAutoScroll(t *testing.T) {
	b := newTestBoard(t, 60)
	s := b.sortable

	require.True(t, s.PointerDown(66, 45, nil))
	s.PointerMove(66, 60)
	require.True(t, s.Dragging())
	assert.True(t, b.camera.Scrolling())

	b.scene.Step(1)
	assert.False(t, b.camera.Scrolling())
	assert.InDelta(t, 35, b.camera.Y, 0.5)

	s.PointerUp(66, 60)
	assert.Equal(t, "b", b.tree.Doc.Groups[0].Items[0].ID)
	assert.Equal(t, "a", b.tree.Doc.Groups[0].Items[1].ID)
	assert.NoError(t, b.tree.Verify())
}

func TestBoardNoScrollWhenVisible(t *testing.T) {
	b := newTestBoard(t, 480)
	s := b.sortable

	require.True(t, s.PointerDown(66, 45, nil))
	s.PointerMove(66, 60)
	assert.False(t, b.camera.Scrolling())
	s.Cancel()
}

package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/phanxgames/arbor"
	"github.com/phanxgames/arbor/internal/outline"
)

var (
	colorDim    = lipgloss.Color("240")
	colorAccent = lipgloss.Color("86")
	colorText   = lipgloss.Color("252")
	colorLocked = lipgloss.Color("244")
)

type cellStyle uint8

const (
	styleBlank cellStyle = iota
	styleItem
	styleLocked
	styleHeader
	stylePlaceholder
	styleDragged
)

var cellStyles = [...]lipgloss.Style{
	styleBlank:       lipgloss.NewStyle(),
	styleItem:        lipgloss.NewStyle().Foreground(colorText),
	styleLocked:      lipgloss.NewStyle().Foreground(colorLocked).Italic(true),
	styleHeader:      lipgloss.NewStyle().Bold(true).Underline(true),
	stylePlaceholder: lipgloss.NewStyle().Foreground(colorDim),
	styleDragged:     lipgloss.NewStyle().Bold(true).Foreground(colorAccent),
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	statusStyle = lipgloss.NewStyle().Foreground(colorDim)
)

type cell struct {
	r     rune
	style cellStyle
}

// canvas is a fixed grid of styled cells.
type canvas struct {
	w, h  int
	cells []cell
}

func newCanvas(w, h int) *canvas {
	c := &canvas{w: w, h: h, cells: make([]cell, w*h)}
	for i := range c.cells {
		c.cells[i] = cell{r: ' '}
	}
	return c
}

// text writes s at (x, y), clipped to width cells and to the canvas.
func (c *canvas) text(x, y, width int, s string, st cellStyle) {
	if y < 0 || y >= c.h {
		return
	}
	runes := []rune(s)
	for i := 0; i < width; i++ {
		cx := x + i
		if cx < 0 || cx >= c.w {
			continue
		}
		r := ' '
		if i < len(runes) {
			r = runes[i]
		}
		c.cells[y*c.w+cx] = cell{r: r, style: st}
	}
}

// String renders each line as runs of equally styled cells.
func (c *canvas) String() string {
	var b strings.Builder
	for y := 0; y < c.h; y++ {
		row := c.cells[y*c.w : (y+1)*c.w]
		start := 0
		for i := 1; i <= len(row); i++ {
			if i < len(row) && row[i].style == row[start].style {
				continue
			}
			run := make([]rune, 0, i-start)
			for _, cl := range row[start:i] {
				run = append(run, cl.r)
			}
			b.WriteString(cellStyles[row[start].style].Render(string(run)))
			start = i
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func (m Model) View() string {
	boardH := max(m.height-headerLines-1, 1)
	cv := newCanvas(max(m.width, 1), boardH)

	var dragged *arbor.Node
	if m.sortable.Dragging() {
		dragged = m.sortable.Element()
	}
	m.paint(cv, m.tree.Root, dragged)
	if dragged != nil {
		m.paintRow(cv, dragged, styleDragged)
		m.paint(cv, dragged, nil)
		// The drop slot stays visible under the pointer.
		if ph := m.sortable.Placeholder(); ph != nil && ph.Visible {
			m.paintRow(cv, ph, stylePlaceholder)
		}
	}

	title := m.tree.Doc.Title
	if title == "" {
		title = "outline"
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n\n")
	b.WriteString(cv.String())
	b.WriteString(statusStyle.Render(m.state.status + "  ·  esc cancel · w write · q quit"))
	return b.String()
}

// paint draws the rows under n in tree order, skipping the subtree of skip.
func (m Model) paint(cv *canvas, n, skip *arbor.Node) {
	for _, c := range n.Children() {
		if !c.Visible || c == skip {
			continue
		}
		if c.Type == arbor.NodeTypeSprite {
			m.paintRow(cv, c, m.rowStyle(c))
		}
		m.paint(cv, c, skip)
	}
}

func (m Model) rowStyle(n *arbor.Node) cellStyle {
	switch {
	case n == m.sortable.Placeholder():
		return stylePlaceholder
	case n.Tag == outline.TagHeader:
		return styleHeader
	case n.HasClass(outline.ClassLocked):
		return styleLocked
	default:
		return styleItem
	}
}

func (m Model) paintRow(cv *canvas, n *arbor.Node, st cellStyle) {
	r, ok := n.WorldBounds()
	if !ok {
		return
	}
	x, y := int(math.Floor(r.X)), int(math.Floor(r.Y))
	width := int(r.Width)
	var label string
	switch st {
	case stylePlaceholder:
		label = strings.Repeat("┄", width)
	case styleHeader:
		label = n.Text
	case styleLocked:
		label = "▪ " + n.Text
	default:
		label = "• " + n.Text
	}
	cv.text(x, y, width, label, st)
}

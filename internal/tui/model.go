// Package tui is a terminal front-end for arbor outlines. Every outline row is
// one cell high, so terminal cells map directly onto world units and mouse
// events drive the sortable through its manual pointer API.
package tui

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/phanxgames/arbor"
	"github.com/phanxgames/arbor/internal/outline"
)

// headerLines is the number of screen rows above the board.
const headerLines = 2

// ErrNoDocument is returned by New without a document.
var ErrNoDocument = errors.New("tui: no document")

// Style returns the outline style used in the terminal: one cell per row.
func Style() outline.Style {
	return outline.Style{
		RowWidth:    28,
		RowHeight:   1,
		ColumnWidth: 32,
		Indent:      2,
		Padding:     1,
	}
}

// Options configures New.
type Options struct {
	Doc    *outline.Document
	Config arbor.SortableConfig
	Logger *log.Logger
	// Save is bound to the "w" key when set.
	Save func(*outline.Document) error
}

// state is shared by every copy of the Model so sortable callbacks can
// report into it.
type state struct {
	status  string
	dropped bool
	moves   int
}

// Model is the bubbletea model of the outline editor.
type Model struct {
	tree     *outline.Tree
	sortable *arbor.Sortable
	state    *state
	save     func(*outline.Document) error
	width    int
	height   int
}

// New builds the scene for opts.Doc and binds a sortable to it. Zero
// tolerance, nest interval and placeholder height get cell-sized defaults.
func New(opts Options) (Model, error) {
	if opts.Doc == nil {
		return Model{}, ErrNoDocument
	}
	cfg := opts.Config
	if cfg.Tolerance <= 0 {
		cfg.Tolerance = 1
	}
	if cfg.NestInterval <= 0 {
		cfg.NestInterval = 2
	}
	if cfg.PlaceholderHeight <= 0 {
		cfg.PlaceholderHeight = 1
	}
	cfg.SettleDuration = 0

	tree := outline.Build(opts.Doc, Style())
	sortOpts, err := tree.SortableOptions(cfg, opts.Logger)
	if err != nil {
		return Model{}, err
	}
	st := &state{status: "drag a row with the mouse"}
	sortOpts.OnEvent = func(ev arbor.Event) { st.observe(tree, ev) }
	s, err := arbor.NewSortable(sortOpts)
	if err != nil {
		return Model{}, fmt.Errorf("tui: %w", err)
	}
	return Model{tree: tree, sortable: s, state: st, save: opts.Save, width: 80, height: 24}, nil
}

func (st *state) observe(tree *outline.Tree, ev arbor.Event) {
	title := func(n *arbor.Node) string {
		if it := tree.Item(n); it != nil {
			return it.Title
		}
		return ""
	}
	switch e := ev.(type) {
	case arbor.DragStartEvent:
		st.dropped = false
		st.status = "dragging " + title(e.Element)
	case arbor.MoveEvent:
		st.moves++
	case arbor.GroupEnterEvent:
		if g := tree.Group(e.Group); g != nil {
			st.status = "over " + g.Title
		}
	case arbor.DropEvent:
		st.dropped = true
		st.status = "moved " + title(e.Element)
	case arbor.DragEndEvent:
		if !st.dropped {
			st.status = "cancelled"
		}
	}
}

// Tree returns the scene tree being edited.
func (m Model) Tree() *outline.Tree {
	return m.tree
}

// Sortable returns the sortable bound to the tree.
func (m Model) Sortable() *arbor.Sortable {
	return m.sortable
}

// Status returns the status line text.
func (m Model) Status() string {
	return m.state.status
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.sortable.Cancel()
			return m, tea.Quit
		case "esc":
			m.sortable.Cancel()
		case "w":
			m.write()
		}
	case tea.MouseMsg:
		m.mouse(msg)
	}
	return m, nil
}

// mouse forwards left-button events. A cell maps to the upper half of its
// row, so pointing at a row inserts before it.
func (m Model) mouse(msg tea.MouseMsg) {
	x := float64(msg.X) + 0.5
	y := float64(msg.Y-headerLines) + 0.25
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			m.sortable.PointerDown(x, y, nil)
		}
	case tea.MouseActionMotion:
		m.sortable.PointerMove(x, y)
	case tea.MouseActionRelease:
		m.sortable.PointerUp(x, y)
	}
}

func (m Model) write() {
	if m.save == nil {
		m.state.status = "no file to write"
		return
	}
	if err := m.save(m.tree.Doc); err != nil {
		m.state.status = "write failed: " + err.Error()
		return
	}
	m.state.status = "written"
}

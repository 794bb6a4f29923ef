package outline

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/phanxgames/arbor"
)

var (
	// ErrUnknownNode is returned when a drop names a node the tree didn't
	// build.
	ErrUnknownNode = errors.New("unknown node")
	// ErrOutOfSync is returned by Verify when the scene and the document
	// disagree.
	ErrOutOfSync = errors.New("scene and document out of sync")
)

// Node tags and classes used by Build.
const (
	TagGroup  = "section"
	TagHeader = "h2"
	TagList   = "ul"
	TagItem   = "li"

	ClassGroup  = "group"
	ClassItem   = "item"
	ClassLocked = "locked"
)

var (
	itemSelector   = arbor.MustParseSelector(TagItem)
	groupSelector  = arbor.MustParseSelector(TagGroup)
	lockedSelector = arbor.MustParseSelector("." + ClassLocked)
)

// Style sizes and colors the built nodes. Units are world units: pixels for
// the window front-end, cells for the terminal one.
type Style struct {
	RowWidth    float64
	RowHeight   float64
	ColumnWidth float64
	Indent      float64
	Padding     float64

	ItemColor   arbor.Color
	LockedColor arbor.Color
	HeaderColor arbor.Color
}

// DefaultStyle suits a 640x480 window.
func DefaultStyle() Style {
	return Style{
		RowWidth:    180,
		RowHeight:   22,
		ColumnWidth: 200,
		Indent:      16,
		Padding:     22,
		ItemColor:   arbor.Color{R: 0.22, G: 0.42, B: 0.7, A: 1},
		LockedColor: arbor.Color{R: 0.35, G: 0.35, B: 0.4, A: 1},
		HeaderColor: arbor.Color{R: 0.12, G: 0.12, B: 0.18, A: 1},
	}
}

// Tree is the scene subtree mirroring a Document. Root is the board node to
// sort under; each group is a section holding a header row and a ul of
// items.
type Tree struct {
	Root *arbor.Node
	Doc  *Document

	style  Style
	items  map[*arbor.Node]*Item
	groups map[*arbor.Node]*Group
	nodes  map[string]*arbor.Node
}

// Build creates the scene subtree for doc and lays it out once.
func Build(doc *Document, style Style) *Tree {
	t := &Tree{
		Root:   arbor.NewElement("div", "board"),
		Doc:    doc,
		style:  style,
		items:  make(map[*arbor.Node]*Item),
		groups: make(map[*arbor.Node]*Group),
		nodes:  make(map[string]*arbor.Node),
	}
	for _, g := range doc.Groups {
		section := arbor.NewElement(TagGroup, g.ID, ClassGroup)
		section.HitShape = arbor.HitRect{Width: style.RowWidth}
		header := arbor.NewSprite(g.ID+"-title", style.RowWidth, style.RowHeight)
		header.Tag = TagHeader
		header.Text = g.Title
		header.Color = style.HeaderColor
		section.AddChild(header)
		section.AddChild(t.buildList(g.ID+"-items", g.Items))
		t.Root.AddChild(section)
		t.groups[section] = g
		t.nodes[g.ID] = section
	}
	t.Layout().Arrange(t.Root, nil)
	return t
}

func (t *Tree) buildList(name string, items []*Item) *arbor.Node {
	ul := arbor.NewElement(TagList, name)
	for _, it := range items {
		ul.AddChild(t.buildItem(it))
	}
	return ul
}

func (t *Tree) buildItem(it *Item) *arbor.Node {
	n := arbor.NewSprite(it.ID, t.style.RowWidth, t.style.RowHeight)
	n.Tag = TagItem
	n.Text = it.Title
	n.AddClass(ClassItem)
	n.Color = t.style.ItemColor
	if it.Locked {
		n.AddClass(ClassLocked)
		n.Color = t.style.LockedColor
	}
	if len(it.Children) > 0 {
		n.AddChild(t.buildList(it.ID+"-children", it.Children))
	}
	t.items[n] = it
	t.nodes[it.ID] = n
	return n
}

// Layout returns the layout matching the tree's style.
func (t *Tree) Layout() arbor.StackLayout {
	return arbor.StackLayout{Indent: t.style.Indent, Padding: t.style.Padding, ColumnWidth: t.style.ColumnWidth}
}

// Style returns the style the tree was built with.
func (t *Tree) Style() Style {
	return t.style
}

// Node returns the node built for the item or group id, or nil.
func (t *Tree) Node(id string) *arbor.Node {
	return t.nodes[id]
}

// Item returns the item a node was built for, or nil.
func (t *Tree) Item(n *arbor.Node) *Item {
	return t.items[n]
}

// Group returns the group a section node was built for, or nil.
func (t *Tree) Group(n *arbor.Node) *Group {
	return t.groups[n]
}

// SortableOptions compiles cfg against the tree. Selectors left blank select
// items, groups and locked items; the layout always follows the tree's
// style. Successful drops are applied to the document.
func (t *Tree) SortableOptions(cfg arbor.SortableConfig, logger *log.Logger) (arbor.Options, error) {
	opts, err := cfg.Options(t.Root)
	if err != nil {
		return arbor.Options{}, fmt.Errorf("sortable options: %w", err)
	}
	if logger == nil {
		logger = log.Default()
	}
	if opts.Elements == nil {
		opts.Elements = itemSelector
	}
	if opts.Groups == nil {
		opts.Groups = groupSelector
	}
	if opts.Ignore == nil {
		opts.Ignore = lockedSelector
	}
	opts.ListTagName = TagList
	opts.Layout = t.Layout()
	opts.Logger = logger
	opts.OnDrop = func(ev arbor.DropEvent) {
		if err := t.Apply(ev); err != nil {
			logger.Error("drop not applied", "element", ev.Element.Name, "err", err)
			return
		}
		logger.Info("moved", "item", t.items[ev.Element].Title, "parent", t.titleOf(ev.Parent), "group", t.titleOf(ev.NewGroup))
	}
	return opts, nil
}

func (t *Tree) titleOf(n *arbor.Node) string {
	if it := t.items[n]; it != nil {
		return it.Title
	}
	if g := t.groups[n]; g != nil {
		return g.Title
	}
	return ""
}

// Apply moves the dropped item inside the document to the slot the drop
// placeholder occupies. It must run while the placeholder is still in the
// tree, as it is during a DropEvent.
func (t *Tree) Apply(ev arbor.DropEvent) error {
	it := t.items[ev.Element]
	if it == nil {
		return fmt.Errorf("apply drop: %w: %s", ErrUnknownNode, ev.Element.Name)
	}
	dest, err := t.listFor(ev.Parent, ev.NewGroup)
	if err != nil {
		return fmt.Errorf("apply drop: %w", err)
	}
	src, i := t.Doc.locate(it)
	if src == nil {
		return fmt.Errorf("apply drop: %w: %s not in document", ErrUnknownNode, it.ID)
	}
	index := t.itemIndex(ev.Placeholder, ev.Element)
	*src = slices.Delete(*src, i, i+1)
	index = min(max(index, 0), len(*dest))
	*dest = slices.Insert(*dest, index, it)
	return nil
}

// listFor returns the document slice backing the list owned by parent, or by
// group at the top level.
func (t *Tree) listFor(parent, group *arbor.Node) (*[]*Item, error) {
	if parent != nil {
		it := t.items[parent]
		if it == nil {
			return nil, fmt.Errorf("%w: parent %s", ErrUnknownNode, parent.Name)
		}
		return &it.Children, nil
	}
	g := t.groups[group]
	if g == nil {
		return nil, fmt.Errorf("%w: no group for top-level drop", ErrUnknownNode)
	}
	return &g.Items, nil
}

// itemIndex counts the items preceding placeholder in its list, skipping the
// dragged element.
func (t *Tree) itemIndex(placeholder, element *arbor.Node) int {
	if placeholder == nil || placeholder.Parent == nil {
		return -1
	}
	idx := 0
	for _, c := range placeholder.Parent.Children() {
		if c == placeholder {
			return idx
		}
		if c != element && t.items[c] != nil {
			idx++
		}
	}
	return -1
}

// FromScene reads the current item order back from the scene into a new
// Document sharing the original item titles and ids.
func (t *Tree) FromScene() *Document {
	doc := &Document{Title: t.Doc.Title}
	for _, n := range t.Root.Children() {
		g := t.groups[n]
		if g == nil {
			continue
		}
		out := &Group{ID: g.ID, Title: g.Title}
		for _, c := range n.Children() {
			if c.Tag == TagList {
				out.Items = t.readList(c)
				break
			}
		}
		doc.Groups = append(doc.Groups, out)
	}
	return doc
}

func (t *Tree) readList(list *arbor.Node) []*Item {
	var items []*Item
	for _, c := range list.Children() {
		it := t.items[c]
		if it == nil {
			continue
		}
		cp := &Item{ID: it.ID, Title: it.Title, Locked: it.Locked}
		for _, sub := range c.Children() {
			if sub.Type == arbor.NodeTypeContainer {
				cp.Children = append(cp.Children, t.readList(sub)...)
			}
		}
		items = append(items, cp)
	}
	return items
}

// Verify reports ErrOutOfSync when the scene order differs from the
// document order.
func (t *Tree) Verify() error {
	want, got := signature(t.Doc), signature(t.FromScene())
	if want != got {
		return fmt.Errorf("%w:\ndocument:\n%sscene:\n%s", ErrOutOfSync, want, got)
	}
	return nil
}

// signature lists ids with their depth, one per line.
func signature(d *Document) string {
	var b strings.Builder
	for _, g := range d.Groups {
		fmt.Fprintf(&b, "%s\n", g.ID)
		var visit func(items []*Item, depth int)
		visit = func(items []*Item, depth int) {
			for _, it := range items {
				fmt.Fprintf(&b, "%s%s\n", strings.Repeat(" ", depth), it.ID)
				visit(it.Children, depth+1)
			}
		}
		visit(g.Items, 1)
	}
	return b.String()
}

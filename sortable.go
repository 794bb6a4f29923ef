package arbor

import (
	"errors"
	"math"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/tanema/gween/ease"
)

// Class names the sortable puts on nodes during a drag.
const (
	ClassDragged             = "sortable-dragged"
	ClassPlaceholder         = "sortable-placeholder"
	ClassPlaceholderRealSize = "sortable-placeholder-realsize"
)

// Defaults applied by NewSortable to zero-valued options.
const (
	DefaultNestInterval      = 5.0
	DefaultNestIndent        = 15.0
	DefaultTolerance         = 10.0
	DefaultPlaceholderHeight = 5.0
	DefaultListTagName       = "ul"
)

// draggedZIndex lifts the dragged element above its siblings.
const draggedZIndex = math.MaxInt32

// ErrMissingRef is returned when a sortable is configured without a Ref.
var ErrMissingRef = errors.New("arbor: missing required option Ref")

// EnableFunc reports whether a sortable currently accepts drags. It is
// evaluated at pointer-down and before every move.
type EnableFunc func() bool

// Enabled returns an EnableFunc with a fixed answer.
func Enabled(v bool) EnableFunc {
	return func() bool { return v }
}

// Options configures a Sortable. Only Ref is required.
type Options struct {
	// Ref is the root node under which items are sorted.
	Ref *Node
	// Elements selects the draggable items. Defaults to every sprite whose
	// parent is a container.
	Elements Selector
	// Groups selects group containers. Nil means no groups.
	Groups Selector
	// ConnectGroups allows moving items between groups.
	ConnectGroups bool
	// Nest allows items to change nesting level.
	Nest bool
	// NestInterval is the horizontal pointer travel that nests or un-nests
	// the placeholder.
	NestInterval float64
	// NestIndent is the horizontal indent per nesting level used by the
	// default layout.
	NestIndent float64
	// MaxLevels caps the nesting depth of the dragged subtree, top level
	// being 1. Zero means unlimited.
	MaxLevels int
	// ListTagName is the tag of lists synthesized when nesting under an item
	// that has none.
	ListTagName string
	// Ignore selects nodes that neither start a drag nor anchor a placement.
	Ignore Selector
	// UseElementSize sizes the placeholder like the dragged subtree.
	UseElementSize bool
	// IsAllowed vetoes placements. It is queried once per move attempt and
	// once more on release.
	IsAllowed func(Placement) bool
	// Enable defaults to always enabled.
	Enable EnableFunc
	// Tolerance is the distance the pointer must travel on either axis
	// before a press becomes a drag. A sortable bound to a scene lowers the
	// scene's drag dead zone to half of it when needed.
	Tolerance float64
	// PlaceholderHeight is used unless UseElementSize is set.
	PlaceholderHeight float64
	// Layout arranges the tree after every structural change. Defaults to a
	// StackLayout indented by NestIndent.
	Layout Layout
	// SettleDuration, in seconds, animates a dropped element from the
	// pointer into its slot. Needs a Scene; zero disables it.
	SettleDuration float32
	// Logger receives debug-level session traces. Defaults to the scene
	// logger, or log.Default() without a scene.
	Logger *log.Logger

	OnDragStart  func(DragStartEvent)
	OnMove       func(MoveEvent)
	OnGroupEnter func(GroupEnterEvent)
	OnGroupLeave func(GroupLeaveEvent)
	OnDrop       func(DropEvent)
	OnDragEnd    func(DragEndEvent)
	// OnEvent receives every event after its typed callback.
	OnEvent func(Event)
}

// defaultElements matches sprites sitting directly in a container.
var defaultElements = SelectorFunc(func(n *Node) bool {
	return n.Type == NodeTypeSprite && n.Parent != nil && n.Parent.Type == NodeTypeContainer
})

func (o *Options) applyDefaults() {
	if o.Elements == nil {
		o.Elements = defaultElements
	}
	if o.NestInterval <= 0 {
		o.NestInterval = DefaultNestInterval
	}
	if o.NestIndent <= 0 {
		o.NestIndent = DefaultNestIndent
	}
	if o.ListTagName == "" {
		o.ListTagName = DefaultListTagName
	}
	if o.Tolerance <= 0 {
		o.Tolerance = DefaultTolerance
	}
	if o.PlaceholderHeight <= 0 {
		o.PlaceholderHeight = DefaultPlaceholderHeight
	}
	if o.Enable == nil {
		o.Enable = Enabled(true)
	}
	if o.Layout == nil {
		o.Layout = StackLayout{Indent: o.NestIndent}
	}
	if o.Logger == nil {
		o.Logger = log.Default()
	}
}

// session is the state of one press-to-release interaction.
type session struct {
	pointerID int
	element   *Node
	target    *Node
	startX    float64
	startY    float64
	lastX     float64
	lastY     float64
	dragging  bool

	placeholder  *Node
	originParent *Node
	originGroup  *Node
	hovered      *Node // group the placeholder is in
	tracker      positionTracker
	anchor       *Node // anchor of the committed placement
	moved        bool
	nestAnchorX  float64
	grabX        float64
	grabY        float64
	savedZ       int
	synthesized  []*Node // lists created by nesting moves
}

// Sortable turns the items under a root node into a drag-and-sort tree.
// Drive it through a Scene (Scene.NewSortable) or manually with
// PointerDown, PointerMove and PointerUp. All methods must be called from the
// goroutine that owns the tree.
type Sortable struct {
	opts    Options
	ref     *Node
	scene   *Scene
	logger  *log.Logger
	handles []CallbackHandle
	session *session
	settle  *TweenGroup
	closed  bool
}

// NewSortable validates opts, fills in defaults and lays out the ref once.
func NewSortable(opts Options) (*Sortable, error) {
	if opts.Ref == nil {
		return nil, ErrMissingRef
	}
	opts.applyDefaults()
	s := &Sortable{opts: opts, ref: opts.Ref, logger: opts.Logger}
	s.Relayout()
	return s, nil
}

// NewSortable creates a sortable bound to the scene's pointer events. The
// scene logger is used unless opts.Logger is set.
func (sc *Scene) NewSortable(opts Options) (*Sortable, error) {
	if opts.Logger == nil {
		opts.Logger = sc.logger
	}
	s, err := NewSortable(opts)
	if err != nil {
		return nil, err
	}
	s.scene = sc
	s.bind()
	sc.sortables = append(sc.sortables, s)
	return s, nil
}

func (s *Sortable) bind() {
	if s.scene == nil || s.closed {
		return
	}
	sc := s.scene
	// Moves inside the scene's dead zone never reach OnDrag.
	if half := s.opts.Tolerance / 2; half < sc.dragDeadZone {
		sc.SetDragDeadZone(half)
	}
	s.handles = append(s.handles,
		sc.OnPointerDown(func(ctx PointerContext) {
			s.pointerDown(ctx.PointerID, ctx.GlobalX, ctx.GlobalY, ctx.Node)
		}),
		sc.OnDrag(func(ctx DragContext) {
			s.pointerMove(ctx.PointerID, ctx.GlobalX, ctx.GlobalY)
		}),
		sc.OnPointerUp(func(ctx PointerContext) {
			s.pointerUp(ctx.PointerID, ctx.GlobalX, ctx.GlobalY)
		}),
	)
}

func (s *Sortable) unbind() {
	for _, h := range s.handles {
		h.Remove()
	}
	s.handles = s.handles[:0]
}

// Ref returns the root node being sorted.
func (s *Sortable) Ref() *Node {
	return s.ref
}

// SetRef cancels any session and sorts under a new root.
func (s *Sortable) SetRef(ref *Node) error {
	if ref == nil {
		return ErrMissingRef
	}
	s.Cancel()
	s.ref = ref
	s.opts.Ref = ref
	s.unbind()
	s.bind()
	s.Relayout()
	return nil
}

// SetEnable cancels any session and replaces the enable predicate. A nil fn
// enables the sortable unconditionally.
func (s *Sortable) SetEnable(fn EnableFunc) {
	if fn == nil {
		fn = Enabled(true)
	}
	s.Cancel()
	s.opts.Enable = fn
	s.unbind()
	s.bind()
}

// Close cancels any session and detaches the sortable from its scene.
func (s *Sortable) Close() {
	if s.closed {
		return
	}
	s.Cancel()
	s.unbind()
	s.closed = true
	if s.scene != nil {
		s.scene.sortables = slices.DeleteFunc(s.scene.sortables, func(o *Sortable) bool { return o == s })
	}
}

// Dragging reports whether a drag session is past its tolerance.
func (s *Sortable) Dragging() bool {
	return s.session != nil && s.session.dragging
}

// Pending reports whether a press is waiting for the pointer to leave the
// tolerance box.
func (s *Sortable) Pending() bool {
	return s.session != nil && !s.session.dragging
}

// Element returns the element being pressed or dragged, or nil.
func (s *Sortable) Element() *Node {
	return s.draggedElement()
}

// Placeholder returns the placeholder of the active drag, or nil.
func (s *Sortable) Placeholder() *Node {
	if s.session == nil {
		return nil
	}
	return s.session.placeholder
}

// Placement returns the last committed placement of the active drag.
func (s *Sortable) Placement() Placement {
	if s.session == nil {
		return Placement{}
	}
	return s.session.tracker.current
}

// PointerDown presses the pointer at world (x, y). target is the node under
// the pointer when the caller knows it; nil lets the sortable find the item
// row at that point. It reports whether a press was registered.
func (s *Sortable) PointerDown(x, y float64, target *Node) bool {
	return s.pointerDown(0, x, y, target)
}

// PointerMove moves the pressed pointer to world (x, y).
func (s *Sortable) PointerMove(x, y float64) {
	s.pointerMove(0, x, y)
}

// PointerUp releases the pointer at world (x, y).
func (s *Sortable) PointerUp(x, y float64) {
	s.pointerUp(0, x, y)
}

func (s *Sortable) enabled() bool {
	return !s.closed && s.opts.Enable()
}

func (s *Sortable) pointerDown(pointerID int, x, y float64, target *Node) bool {
	if s.session != nil || !s.enabled() {
		return false
	}
	if target == nil || !isAncestor(s.ref, target) {
		target = s.itemAt(x, y)
	}
	if target == nil {
		return false
	}
	element := s.parentItemOf(target)
	if element == nil {
		return false
	}
	if s.ignoredPath(target, element) {
		s.logger.Debug("press on ignored node", "target", describeNode(target))
		return false
	}
	s.session = &session{
		pointerID: pointerID,
		element:   element,
		target:    target,
		startX:    x,
		startY:    y,
		lastX:     x,
		lastY:     y,
	}
	return true
}

func (s *Sortable) pointerMove(pointerID int, x, y float64) {
	ss := s.session
	if ss == nil || ss.pointerID != pointerID {
		return
	}
	if !s.enabled() {
		s.cancel("disabled")
		return
	}
	if ss.dragging && x == ss.lastX && y == ss.lastY {
		return
	}
	ss.lastX, ss.lastY = x, y
	if !ss.dragging {
		if math.Abs(x-ss.startX) < s.opts.Tolerance && math.Abs(y-ss.startY) < s.opts.Tolerance {
			return
		}
		if !s.start() {
			return
		}
	}
	s.evaluate(x, y)
}

func (s *Sortable) pointerUp(pointerID int, x, y float64) {
	ss := s.session
	if ss == nil || ss.pointerID != pointerID {
		return
	}
	if !ss.dragging {
		s.session = nil
		return
	}
	if x != ss.lastX || y != ss.lastY {
		s.pointerMove(pointerID, x, y)
		if s.session != ss {
			return
		}
	}
	if !s.enabled() {
		s.cancel("disabled")
		return
	}

	c := candidate{Placement: ss.tracker.current, anchor: ss.anchor}
	if reason := s.rejectReason(c); reason != "" {
		s.hidePlaceholder()
		s.cancel(reason)
		return
	}
	if !ss.moved {
		s.cancel("no move")
		return
	}
	s.drop()
}

// Cancel aborts any press or drag. A started drag ends with a DragEndEvent
// and the tree restored.
func (s *Sortable) Cancel() {
	s.cancel("cancelled")
}

// start turns the pending press into a drag: the placeholder goes right after
// the element and the element leaves the flow.
func (s *Sortable) start() bool {
	ss := s.session
	el := ss.element
	if el.Parent == nil {
		s.session = nil
		return false
	}
	if s.settle != nil {
		s.settle.Done = true
		s.settle = nil
	}
	refreshWorldTransforms(s.ref)
	ss.grabX = ss.startX - el.worldTransform[4]
	ss.grabY = ss.startY - el.worldTransform[5]

	ss.placeholder = s.newPlaceholder(el)
	ss.originParent = s.parentItemOf(el.Parent)
	ss.originGroup = s.groupOf(el)
	ss.hovered = ss.originGroup
	ss.nestAnchorX = ss.startX

	el.Parent.InsertBefore(ss.placeholder, el.NextSibling())
	el.AddClass(ClassDragged)
	ss.savedZ = el.ZIndex
	el.SetZIndex(draggedZIndex)
	ss.dragging = true
	ss.tracker.current = s.slotPlacement(ss.placeholder.Parent, ss.placeholder)
	s.Relayout()

	s.logger.Debug("drag start", "element", describeNode(el), "group", describeNode(ss.originGroup))
	s.emit(DragStartEvent{Element: el, Group: ss.originGroup})
	return s.session == ss
}

func (s *Sortable) newPlaceholder(el *Node) *Node {
	height := s.opts.PlaceholderHeight
	if s.opts.UseElementSize {
		height = s.opts.Layout.Measure(el)
	}
	width := el.Width
	if r, ok := el.WorldBounds(); ok && width == 0 {
		width = r.Width
	}
	ph := NewSprite("placeholder", width, height)
	ph.Tag = el.Tag
	ph.Color = Color{R: 1, G: 1, B: 1, A: 0.25}
	if s.opts.UseElementSize {
		ph.Classes = append(slices.Clone(el.Classes), ClassPlaceholderRealSize)
	} else {
		ph.Classes = []string{ClassPlaceholder}
	}
	return ph
}

// evaluate runs one move: resolve, validate, commit, notify.
func (s *Sortable) evaluate(x, y float64) {
	ss := s.session
	c, ok := s.resolve(x, y)
	if !ok {
		s.Relayout()
		return
	}
	if c.Placement == ss.tracker.current {
		s.showPlaceholder()
		s.Relayout()
		return
	}
	if reason := s.rejectReason(c); reason != "" {
		s.logger.Debug("move rejected", "element", describeNode(ss.element), "reason", reason)
		s.hidePlaceholder()
		s.Relayout()
		return
	}

	s.showPlaceholder()
	s.apply(c)
	_, prev := ss.tracker.update(c.Placement)
	ss.anchor = c.anchor
	ss.moved = true
	s.Relayout()

	p := c.Placement
	s.logger.Debug("move",
		"element", describeNode(ss.element),
		"previous", describeNode(p.Previous),
		"next", describeNode(p.Next),
		"parent", describeNode(p.Parent))
	s.emit(MoveEvent{
		Element:     ss.element,
		Previous:    p.Previous,
		Next:        p.Next,
		Parent:      p.Parent,
		Group:       ss.originGroup,
		NewGroup:    p.Group,
		PrevPos:     prev,
		Placeholder: ss.placeholder,
	})
	if s.session != ss || p.Group == ss.hovered {
		return
	}
	old := ss.hovered
	ss.hovered = p.Group
	if p.Group != nil {
		s.emit(GroupEnterEvent{Placeholder: ss.placeholder, Group: p.Group})
	}
	if old != nil && s.session == ss {
		s.emit(GroupLeaveEvent{Placeholder: ss.placeholder, Group: old})
	}
}

// apply moves the placeholder into the candidate's slot, creating the nested
// list first when needed.
func (s *Sortable) apply(c candidate) {
	ss := s.session
	list := c.list
	if list == nil {
		list = NewElement(s.opts.ListTagName, "")
		c.owner.AddChild(list)
		ss.synthesized = append(ss.synthesized, list)
	}
	if c.before != ss.placeholder {
		list.InsertBefore(ss.placeholder, c.before)
	}
	s.pruneSynthesized()
}

// pruneSynthesized removes session-created lists that ended up empty.
func (s *Sortable) pruneSynthesized() {
	ss := s.session
	ss.synthesized = slices.DeleteFunc(ss.synthesized, func(l *Node) bool {
		if l.NumChildren() > 0 {
			return false
		}
		l.RemoveFromParent()
		return true
	})
}

func (s *Sortable) showPlaceholder() {
	s.session.placeholder.Visible = true
}

func (s *Sortable) hidePlaceholder() {
	s.session.placeholder.Visible = false
}

// drop relocates the element into the placeholder slot and ends the session.
func (s *Sortable) drop() {
	ss := s.session
	el, ph := ss.element, ss.placeholder
	p := ss.tracker.current

	s.logger.Debug("drop",
		"element", describeNode(el),
		"previous", describeNode(p.Previous),
		"next", describeNode(p.Next),
		"parent", describeNode(p.Parent))
	s.emit(DropEvent{
		Element:     el,
		Previous:    p.Previous,
		Next:        p.Next,
		Parent:      p.Parent,
		Group:       ss.originGroup,
		NewGroup:    p.Group,
		Placeholder: ph,
	})
	if s.session != ss {
		return
	}

	fromX, fromY := el.worldTransform[4], el.worldTransform[5]
	if ph.Parent != nil {
		ph.Parent.InsertBefore(el, ph)
	}
	s.emit(DragEndEvent{Element: el, Group: ss.originGroup})
	if s.session != ss {
		return
	}
	s.teardown()
	s.settleFrom(el, fromX, fromY)
}

// cancel ends the session without relocating anything.
func (s *Sortable) cancel(reason string) {
	ss := s.session
	if ss == nil {
		return
	}
	if !ss.dragging {
		s.session = nil
		return
	}
	s.logger.Debug("drag cancelled", "element", describeNode(ss.element), "reason", reason)
	s.emit(DragEndEvent{Element: ss.element, Group: ss.originGroup})
	if s.session == ss {
		s.teardown()
	}
}

// teardown removes every trace of the session from the tree.
func (s *Sortable) teardown() {
	ss := s.session
	ss.placeholder.RemoveFromParent()
	ss.element.RemoveClass(ClassDragged)
	ss.element.SetZIndex(ss.savedZ)
	s.pruneSynthesized()
	s.session = nil
	s.Relayout()
}

// settleFrom animates el from world (fromX, fromY) into its laid-out slot.
func (s *Sortable) settleFrom(el *Node, fromX, fromY float64) {
	if s.scene == nil || s.opts.SettleDuration <= 0 || el.Parent == nil {
		return
	}
	lx, ly := el.Parent.WorldToLocal(fromX, fromY)
	s.settle = TweenPositionFrom(el, lx, ly, s.opts.SettleDuration, ease.OutCubic)
	s.scene.AddTween(s.settle)
}

// Relayout arranges the ref with the configured layout and refreshes world
// transforms. While dragging, the element is kept under the pointer.
func (s *Sortable) Relayout() {
	var skip *Node
	if s.Dragging() {
		skip = s.session.element
	}
	s.opts.Layout.Arrange(s.ref, skip)
	refreshWorldTransforms(s.ref)
	if skip == nil || skip.Parent == nil {
		return
	}
	ss := s.session
	lx, ly := skip.Parent.WorldToLocal(ss.lastX-ss.grabX, ss.lastY-ss.grabY)
	skip.SetPosition(lx, ly)
	refreshWorldTransforms(skip)
}

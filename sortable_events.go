package arbor

// SortEventKind identifies a sortable lifecycle event.
type SortEventKind uint8

const (
	SortDragStart  SortEventKind = iota // tolerance exceeded, placeholder created
	SortMove                            // placeholder moved to a new legal placement
	SortGroupEnter                      // placeholder entered a group
	SortGroupLeave                      // placeholder left a group
	SortDrop                            // element is about to be relocated into the placeholder slot
	SortDragEnd                         // session over, after a drop or a cancel
)

var sortEventNames = [...]string{
	SortDragStart:  "dragstart",
	SortMove:       "move",
	SortGroupEnter: "groupenter",
	SortGroupLeave: "groupleave",
	SortDrop:       "drop",
	SortDragEnd:    "dragend",
}

func (k SortEventKind) String() string {
	if int(k) < len(sortEventNames) {
		return sortEventNames[k]
	}
	return "unknown"
}

// Event is one of DragStartEvent, MoveEvent, GroupEnterEvent,
// GroupLeaveEvent, DropEvent or DragEndEvent.
type Event interface {
	Kind() SortEventKind
}

// DragStartEvent fires once per session when the pointer leaves the tolerance
// box. Group is the element's originating group.
type DragStartEvent struct {
	Element *Node
	Group   *Node
}

// MoveEvent fires after the placeholder moved to a new legal placement.
// Group is the originating group, NewGroup the group of the new placement and
// PrevPos the placement in effect before the move.
type MoveEvent struct {
	Element     *Node
	Previous    *Node
	Next        *Node
	Parent      *Node
	Group       *Node
	NewGroup    *Node
	PrevPos     Placement
	Placeholder *Node
}

// GroupEnterEvent fires when a move carries the placeholder into Group.
type GroupEnterEvent struct {
	Placeholder *Node
	Group       *Node
}

// GroupLeaveEvent fires when a move carries the placeholder out of Group.
type GroupLeaveEvent struct {
	Placeholder *Node
	Group       *Node
}

// DropEvent fires on a successful release, while the placeholder still sits
// in its final slot and before the element is moved there.
type DropEvent struct {
	Element     *Node
	Previous    *Node
	Next        *Node
	Parent      *Node
	Group       *Node
	NewGroup    *Node
	Placeholder *Node
}

// DragEndEvent fires last in every session that started, dropped or not.
type DragEndEvent struct {
	Element *Node
	Group   *Node
}

func (DragStartEvent) Kind() SortEventKind  { return SortDragStart }
func (MoveEvent) Kind() SortEventKind       { return SortMove }
func (GroupEnterEvent) Kind() SortEventKind { return SortGroupEnter }
func (GroupLeaveEvent) Kind() SortEventKind { return SortGroupLeave }
func (DropEvent) Kind() SortEventKind       { return SortDrop }
func (DragEndEvent) Kind() SortEventKind    { return SortDragEnd }

// Placement returns the placement the move committed.
func (e MoveEvent) Placement() Placement {
	return Placement{Previous: e.Previous, Next: e.Next, Parent: e.Parent, Group: e.NewGroup}
}

// Placement returns the placement the element is dropped into.
func (e DropEvent) Placement() Placement {
	return Placement{Previous: e.Previous, Next: e.Next, Parent: e.Parent, Group: e.NewGroup}
}

// emit delivers ev to the typed callback, then OnEvent, then the scene's ECS
// bridge.
func (s *Sortable) emit(ev Event) {
	o := &s.opts
	switch e := ev.(type) {
	case DragStartEvent:
		if o.OnDragStart != nil {
			o.OnDragStart(e)
		}
	case MoveEvent:
		if o.OnMove != nil {
			o.OnMove(e)
		}
	case GroupEnterEvent:
		if o.OnGroupEnter != nil {
			o.OnGroupEnter(e)
		}
	case GroupLeaveEvent:
		if o.OnGroupLeave != nil {
			o.OnGroupLeave(e)
		}
	case DropEvent:
		if o.OnDrop != nil {
			o.OnDrop(e)
		}
	case DragEndEvent:
		if o.OnDragEnd != nil {
			o.OnDragEnd(e)
		}
	}
	if o.OnEvent != nil {
		o.OnEvent(ev)
	}
	if s.scene != nil && s.scene.store != nil {
		s.scene.store.EmitSortEvent(s.sortEvent(ev))
	}
}

// sortEvent flattens ev into the entity-id form used by the ECS bridge.
func (s *Sortable) sortEvent(ev Event) SortEvent {
	out := SortEvent{Kind: ev.Kind(), Index: -1}
	var element, parent, group *Node
	switch e := ev.(type) {
	case DragStartEvent:
		element, group = e.Element, e.Group
	case MoveEvent:
		element, parent, group = e.Element, e.Parent, e.NewGroup
	case GroupEnterEvent:
		group = e.Group
	case GroupLeaveEvent:
		group = e.Group
	case DropEvent:
		element, parent, group = e.Element, e.Parent, e.NewGroup
		out.Index = slotIndex(e.Placeholder, e.Element)
	case DragEndEvent:
		element, group = e.Element, e.Group
	}
	if element == nil && s.session != nil {
		element = s.session.element
	}
	out.EntityID = entityOf(element)
	out.ParentID = entityOf(parent)
	out.GroupID = entityOf(group)
	return out
}

// slotIndex is the index placeholder's slot will have once skip is removed
// from the list.
func slotIndex(placeholder, skip *Node) int {
	if placeholder == nil || placeholder.Parent == nil {
		return -1
	}
	idx := 0
	for _, c := range placeholder.Parent.children {
		if c == placeholder {
			return idx
		}
		if c != skip {
			idx++
		}
	}
	return -1
}

func entityOf(n *Node) uint32 {
	if n == nil {
		return 0
	}
	return n.EntityID
}

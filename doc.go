// Package arbor is a nested drag-and-sort engine over a retained 2D scene
// graph for [Ebitengine].
//
// Arbor provides the scene graph, transform hierarchy, pointer input and
// camera viewports that an interactive outline needs, and on top of them a
// [Sortable]: items living in nested lists can be dragged up, down, into and
// out of each other, and across groups, while nesting depth and caller
// policies are enforced.
//
// # Quick start
//
//	scene := arbor.NewScene()
//	list := arbor.NewElement("ul", "list")
//	scene.Root().AddChild(list)
//	for _, name := range []string{"a", "b", "c"} {
//		list.AddChild(arbor.NewSprite(name, 200, 24))
//	}
//
//	s, err := scene.NewSortable(arbor.Options{
//		Ref:  list,
//		Nest: true,
//		OnDrop: func(ev arbor.DropEvent) {
//			log.Info("dropped", "element", ev.Element.Name)
//		},
//	})
//	if err != nil {
//		return err
//	}
//	defer s.Close()
//
//	arbor.Run(scene, arbor.RunConfig{Title: "outline", Width: 640, Height: 480})
//
// # Scene graph
//
// Every visual element is a [Node]. Nodes form a tree rooted at
// [Scene.Root]; children inherit their parent's transform and alpha. Nodes
// carry a Tag and Classes so that [Selector] values, compiled from a CSS-like
// syntax by [ParseSelector], can pick items, groups and ignored handles.
//
// # Sorting model
//
// An item is a node matched by Options.Elements. The list holding an item is
// its parent; a nested list is a container child of an item. Groups are
// nodes matched by Options.Groups. While dragging, the dragged item stays in
// the tree out of flow and a placeholder node marks where it would land. The
// resulting [Placement] is checked in order against ancestry, MaxLevels,
// ConnectGroups, nest level, Ignore and IsAllowed; a rejected placement hides
// the placeholder and keeps the last legal one.
//
// Events are delivered synchronously, in this order for a successful drag:
// [DragStartEvent], one [MoveEvent] per committed placement (each followed by
// [GroupEnterEvent] and [GroupLeaveEvent] when the group changes),
// [DropEvent], then [DragEndEvent]. A cancelled drag only delivers
// [DragEndEvent] after its start.
//
// # Driving input
//
// [Scene.NewSortable] binds to the scene's pointer handlers, so Scene.Update
// (real mouse) or Scene.Step with Scene.InjectPress and friends (headless)
// drive it. Front-ends without an ebiten loop can call
// [Sortable.PointerDown], [Sortable.PointerMove] and [Sortable.PointerUp]
// directly with world coordinates.
//
// [Ebitengine]: https://ebitengine.org
package arbor

package arbor

import (
	"slices"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
)

// EntityStore is the interface for optional ECS integration.
// When set on a Scene, interaction and sort events are forwarded to the ECS.
type EntityStore interface {
	EmitEvent(event InteractionEvent)
	EmitSortEvent(event SortEvent)
}

// InteractionEvent carries interaction data for the ECS bridge.
type InteractionEvent struct {
	Type      EventType
	EntityID  uint32
	GlobalX   float64
	GlobalY   float64
	LocalX    float64
	LocalY    float64
	Button    MouseButton
	Modifiers KeyModifiers
	// Drag fields (valid for EventDragStart, EventDrag, EventDragEnd)
	StartX float64
	StartY float64
	DeltaX float64
	DeltaY float64
}

// SortEvent carries a sortable lifecycle event for the ECS bridge. Entity
// fields are zero for nodes without an EntityID.
type SortEvent struct {
	Kind     SortEventKind
	EntityID uint32 // dragged element
	ParentID uint32
	GroupID  uint32
	Index    int // position among the new parent's items, -1 when unknown
}

// Scene is the top-level object that owns the node tree, cameras, input state
// and the sortables bound to it.
type Scene struct {
	root   *Node
	store  EntityStore
	debug  bool
	logger *log.Logger

	// ClearColor fills the screen before the tree is drawn. A zero alpha
	// leaves the screen untouched.
	ClearColor Color

	// OnUpdate runs at the end of every Update/Step with the frame delta.
	OnUpdate func(dt float32)

	cameras []*Camera

	// Input state
	handlers     handlerRegistry
	captured     [maxPointers]*Node
	pointers     [maxPointers]pointerState
	hitBuf       []*Node
	dragDeadZone float64

	// Synthetic input
	injectQueue []syntheticPointerEvent
	testRunner  *TestRunner

	sortables []*Sortable
	tweens    []*TweenGroup
}

// NewScene creates a new scene with a pre-created root container.
func NewScene() *Scene {
	root := NewContainer("root")
	root.Interactable = true
	return &Scene{
		root:         root,
		logger:       log.Default(),
		dragDeadZone: defaultDragDeadZone,
	}
}

// Root returns the scene's root container node.
func (s *Scene) Root() *Node {
	return s.root
}

// Update polls real input, replays synthetic input and advances cameras and
// tweens by one ebiten tick.
func (s *Scene) Update() {
	s.tick(float32(1.0/float64(ebiten.TPS())), true)
}

// Step advances the scene by dt seconds without reading real devices. Only
// injected input is processed, which makes it suitable for headless replays
// and tests.
func (s *Scene) Step(dt float32) {
	s.tick(dt, false)
}

func (s *Scene) tick(dt float32, live bool) {
	if s.testRunner != nil {
		s.testRunner.step(s)
	}

	// Refresh world transforms first so camera follow targets and hit testing
	// have accurate positions this frame.
	updateWorldTransform(s.root, identityTransform, 1.0, false)

	for _, cam := range s.cameras {
		cam.update(dt)
	}

	s.processInput(live)

	s.updateTweens(dt)

	if s.OnUpdate != nil {
		s.OnUpdate(dt)
	}
}

// AddTween registers a tween group to be advanced by Update. Finished groups
// are dropped automatically.
func (s *Scene) AddTween(g *TweenGroup) {
	if g != nil {
		s.tweens = append(s.tweens, g)
	}
}

func (s *Scene) updateTweens(dt float32) {
	if len(s.tweens) == 0 {
		return
	}
	for _, g := range s.tweens {
		g.Update(dt)
	}
	s.tweens = slices.DeleteFunc(s.tweens, func(g *TweenGroup) bool { return g.Done })
}

// NewCamera creates a camera with the given viewport and adds it to the scene.
func (s *Scene) NewCamera(viewport Rect) *Camera {
	cam := newCamera(viewport)
	s.cameras = append(s.cameras, cam)
	return cam
}

// RemoveCamera removes a camera from the scene.
func (s *Scene) RemoveCamera(cam *Camera) {
	for i, c := range s.cameras {
		if c == cam {
			s.cameras = append(s.cameras[:i], s.cameras[i+1:]...)
			return
		}
	}
}

// Cameras returns the scene's camera list. The returned slice MUST NOT be mutated.
func (s *Scene) Cameras() []*Camera {
	return s.cameras
}

// SetEntityStore sets the optional ECS bridge.
func (s *Scene) SetEntityStore(store EntityStore) {
	s.store = store
}

// SetLogger replaces the scene logger. A nil logger restores log.Default().
func (s *Scene) SetLogger(logger *log.Logger) {
	if logger == nil {
		logger = log.Default()
	}
	s.logger = logger
	if s.debug {
		debugLogger = logger
	}
}

// Logger returns the scene logger.
func (s *Scene) Logger() *log.Logger {
	return s.logger
}

// SetDebugMode enables or disables debug mode. When enabled, disposed-node
// access panics and tree depth and child count warnings are logged.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
	globalDebug = enabled
	if enabled {
		debugLogger = s.logger
	}
}

// globalDebug mirrors the most recently set Scene debug flag so that node
// operations (which lack a Scene pointer) can check it cheaply. Only valid
// with a single Scene; multiple Scenes with differing debug modes will
// reflect whichever called SetDebugMode last.
var globalDebug bool

// Sortables returns the sortables bound to this scene. The returned slice
// MUST NOT be mutated.
func (s *Scene) Sortables() []*Sortable {
	return s.sortables
}

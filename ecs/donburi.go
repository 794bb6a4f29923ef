package ecs

import (
	"github.com/phanxgames/arbor"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// InteractionEventType is the Donburi event type for pointer, click and drag
// events on nodes with an EntityID.
var InteractionEventType = events.NewEventType[arbor.InteractionEvent]()

// SortEventType is the Donburi event type for sortable lifecycle events.
var SortEventType = events.NewEventType[arbor.SortEvent]()

type donburiStore struct {
	world donburi.World
}

// NewDonburiStore creates an EntityStore backed by a Donburi world. Events
// are queued; drain them with ProcessEvents on the event types.
func NewDonburiStore(world donburi.World) arbor.EntityStore {
	return &donburiStore{world: world}
}

func (s *donburiStore) EmitEvent(event arbor.InteractionEvent) {
	InteractionEventType.Publish(s.world, event)
}

func (s *donburiStore) EmitSortEvent(event arbor.SortEvent) {
	SortEventType.Publish(s.world, event)
}

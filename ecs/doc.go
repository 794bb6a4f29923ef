// Package ecs provides ECS adapters for arbor scenes.
//
// [NewDonburiStore] forwards pointer interaction events and sortable
// lifecycle events (drag start, move, group changes, drop, drag end) into a
// [Donburi] world as typed events. Subscribe to [InteractionEventType] or
// [SortEventType] in your systems to receive them.
//
// Usage:
//
//	store := ecs.NewDonburiStore(world)
//	scene.SetEntityStore(store)
//
// Only nodes with a non-zero EntityID are reported by entity; the sortable
// fields of other nodes arrive as zero.
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs

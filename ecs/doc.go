// Package ecs provides ECS adapters for surface's routed host events.
//
// The primary adapter is [NewDonburiStore], which forwards surface
// interaction events (mouse, keyboard, click, interaction mode) into a
// [Donburi] world as typed events. Subscribe to [InteractionEventType] in
// your ECS systems to receive them.
//
// Usage:
//
//	store := ecs.NewDonburiStore(world)
//	bridge.SetEntityStore(store)
//
//	// Clicks on one region only:
//	ecs.SubscribeRegionClicks(world, region.ID, func(w donburi.World, x, y int) { ... })
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs

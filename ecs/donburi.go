package ecs

import (
	"github.com/phanxgames/surface"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// InteractionEventType is the Donburi event type for surface interaction events.
// Which InteractionEvent fields are set depends on Type:
//
//	EventClick            X, Y (physical px), RegionID (0 = missed every region)
//	EventMouse            X, Y (physical px)
//	EventKeyboard         Key, Down
//	EventInteractionMode  Enabled
//
// Events are queued by Publish and delivered by ProcessEvents, so systems
// see them on the next ECS tick, after the bridge loop has already run the
// region callbacks.
var InteractionEventType = events.NewEventType[surface.InteractionEvent]()

type donburiStore struct {
	world donburi.World
}

// NewDonburiStore creates an EntityStore backed by a Donburi world.
// Every routed host event is published to InteractionEventType and can be
// consumed with events.Subscribe and ProcessEvents.
func NewDonburiStore(world donburi.World) surface.EntityStore {
	return &donburiStore{world: world}
}

func (s *donburiStore) EmitEvent(event surface.InteractionEvent) {
	InteractionEventType.Publish(s.world, event)
}

// SubscribeRegionClicks subscribes fn to clicks that hit the region with the
// given ID (Region.ID, or PendingRegion.Region().ID once active). Missed
// clicks and other event types are filtered out.
func SubscribeRegionClicks(world donburi.World, regionID int, fn func(w donburi.World, x, y int)) {
	InteractionEventType.Subscribe(world, func(w donburi.World, e surface.InteractionEvent) {
		if e.Type != surface.EventClick || e.RegionID == 0 || e.RegionID != regionID {
			return
		}
		fn(w, e.X, e.Y)
	})
}

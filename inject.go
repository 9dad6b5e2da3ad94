package surface

// Synthetic host events. They take exactly the path real host events take
// (queued on the loop, routed on the next Update), so a click injected
// before a registration has settled misses that region just as a real one
// would.

// InjectClick queues a click at the given physical coordinates.
func (b *Bridge) InjectClick(x, y int) {
	b.Deliver(ClickEvent{X: x, Y: y})
}

// InjectMouse queues a pointer state event and returns it so callers can
// compare it with what subscribers received.
func (b *Bridge) InjectMouse(x, y int, buttons uint8) *MouseEvent {
	ev := &MouseEvent{X: x, Y: y, Buttons: buttons, Kind: "move"}
	b.Deliver(ev)
	return ev
}

// InjectKey queues a key press or release.
func (b *Bridge) InjectKey(key string, down bool, mods KeyModifiers) *KeyboardEvent {
	ev := &KeyboardEvent{Key: key, Down: down, Modifiers: mods}
	b.Deliver(ev)
	return ev
}

// InjectInteractionMode queues an interaction mode change.
func (b *Bridge) InjectInteractionMode(enabled bool) {
	b.Deliver(InteractionModeEvent{Enabled: enabled})
}
